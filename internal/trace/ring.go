package trace

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

// RingTracer keeps the most recent events in a fixed-size buffer. It is the
// post-mortem store: on a failed batch the CLI dumps what it holds.
type RingTracer struct {
	mu    sync.RWMutex
	buf   []Event
	next  int // slot the next event goes to
	n     int // stored events, at most len(buf)
	level Level
}

// NewRingTracer creates a ring holding capacity events, 4096 when capacity
// is not positive.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{buf: make([]Event, capacity), level: level}
}

// Emit stores a copy of ev, overwriting the oldest event when full.
func (t *RingTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	t.buf[t.next] = *ev
	t.next = (t.next + 1) % len(t.buf)
	t.n = min(t.n+1, len(t.buf))
	t.mu.Unlock()
}

// Snapshot returns the stored events oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Event, 0, t.n)
	start := (t.next - t.n + len(t.buf)) % len(t.buf)
	for i := range t.n {
		out = append(out, t.buf[(start+i)%len(t.buf)])
	}
	return out
}

// Unfinished returns the begin events of spans that have not ended, in the
// order they began. After a failure these name the batch, program and call
// that were in flight. Spans whose begin was overwritten are not reported.
func (t *RingTracer) Unfinished() []Event {
	open := make(map[uint64]Event)
	for _, ev := range t.Snapshot() {
		switch ev.Kind {
		case KindSpanBegin:
			open[ev.SpanID] = ev
		case KindSpanEnd:
			delete(open, ev.SpanID)
		}
	}
	out := make([]Event, 0, len(open))
	for _, ev := range open {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// Dump writes the stored events to w, then the spans still open.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	events := t.Snapshot()
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	open := t.Unfinished()
	if len(open) == 0 || format == FormatNDJSON {
		return nil
	}
	if _, err := fmt.Fprintf(w, "-- %d spans never ended:\n", len(open)); err != nil {
		return err
	}
	for i := range open {
		if _, err := fmt.Fprintf(w, "   %s %s (span %d)\n", open[i].Scope, open[i].Name, open[i].SpanID); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
