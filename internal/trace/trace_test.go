package trace

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLevelFiltersScopes(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopeBatch, true},
		{LevelPhase, ScopeProgram, false},
		{LevelDetail, ScopeProgram, true},
		{LevelDetail, ScopeCall, false},
		{LevelDebug, ScopeCall, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Fatalf("%v/%v: expected %v, got %v", tt.level, tt.scope, tt.want, got)
		}
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)
	span := Begin(tr, ScopeProgram, "program", 0)
	span.WithExtra("calls", "3").WithExtra("group", "fs")
	Begin(tr, ScopeCall, "open", span.ID()).End("")
	span.End("ok")

	out := buf.String()
	if !strings.Contains(out, "→ program") || !strings.Contains(out, "← program (ok) {calls=3, group=fs}") {
		t.Fatalf("unexpected trace output:\n%s", out)
	}
	if strings.Contains(out, "open") {
		t.Fatalf("call scope must be filtered at detail level:\n%s", out)
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatNDJSON)
	Begin(tr, ScopeBatch, "batch", 0).End("")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	var ev map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if ev["kind"] != "end" || ev["scope"] != "batch" {
		t.Fatalf("unexpected event %v", ev)
	}
}

func TestRingTracerWraps(t *testing.T) {
	tr := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(tr, ScopeCall, name, 0, "")
	}
	snap := tr.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("expected [b c], got %v", snap)
	}
}

func TestNopSpanIsSafe(t *testing.T) {
	span := Begin(Nop, ScopeDriver, "x", 0)
	if span.ID() != 0 {
		t.Fatalf("nop span must have zero id")
	}
	if d := span.WithExtra("k", "v").End(""); d != 0 {
		t.Fatalf("nop span must not measure time")
	}
}

func TestNewOffReturnsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Enabled() {
		t.Fatalf("off tracer must be disabled")
	}
}

func TestRingTracerReportsUnfinishedSpans(t *testing.T) {
	tr := NewRingTracer(16, LevelDebug)
	batch := Begin(tr, ScopeBatch, "batch", 0)
	Begin(tr, ScopeProgram, "program", batch.ID()).End("")
	stuck := Begin(tr, ScopeProgram, "program", batch.ID())
	Begin(tr, ScopeCall, "read", stuck.ID())

	open := tr.Unfinished()
	if len(open) != 3 {
		t.Fatalf("expected 3 open spans, got %v", open)
	}
	if open[0].SpanID != batch.ID() || open[1].SpanID != stuck.ID() || open[2].Name != "read" {
		t.Fatalf("unexpected open spans %v", open)
	}

	var buf bytes.Buffer
	if err := tr.Dump(&buf, FormatText); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !strings.Contains(buf.String(), "3 spans never ended") || !strings.Contains(buf.String(), "call read") {
		t.Fatalf("unexpected dump:\n%s", buf.String())
	}
}

func TestHeartbeatCarriesProgress(t *testing.T) {
	tr := NewRingTracer(64, LevelPhase)
	h := StartHeartbeat(tr, time.Millisecond, func() string { return "3/10" })
	deadline := time.Now().Add(2 * time.Second)
	for len(tr.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Stop()
	h.Stop()

	snap := tr.Snapshot()
	if len(snap) == 0 {
		t.Fatalf("expected at least one heartbeat")
	}
	if snap[0].Kind != KindHeartbeat || snap[0].Detail != "#1 3/10" {
		t.Fatalf("unexpected heartbeat %+v", snap[0])
	}
	if StartHeartbeat(Nop, time.Millisecond, nil) != nil {
		t.Fatalf("expected nil heartbeat for a disabled tracer")
	}
}

func TestParseLevel(t *testing.T) {
	for _, l := range []Level{LevelOff, LevelError, LevelPhase, LevelDetail, LevelDebug} {
		got, err := ParseLevel(" " + strings.ToUpper(l.String()))
		if err != nil || got != l {
			t.Fatalf("expected %v, got %v (%v)", l, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil || !strings.Contains(err.Error(), "off|error|phase|detail|debug") {
		t.Fatalf("expected an error listing the levels, got %v", err)
	}
}

type flakySink struct {
	Tracer
	flushes int
	err     error
}

func (s *flakySink) Flush() error {
	s.flushes++
	return s.err
}

func TestMultiTracerFlushesEverySink(t *testing.T) {
	errDisk := errors.New("disk full")
	first := &flakySink{Tracer: Nop, err: errDisk}
	second := &flakySink{Tracer: Nop}
	mt := NewMultiTracer(LevelPhase, first, second)
	if err := mt.Flush(); !errors.Is(err, errDisk) {
		t.Fatalf("expected the sink error, got %v", err)
	}
	if first.flushes != 1 || second.flushes != 1 {
		t.Fatalf("expected one flush per sink, got %d and %d", first.flushes, second.flushes)
	}
	if _, ok := mt.Ring(); ok {
		t.Fatalf("expected no ring sink")
	}
}
