package driver

import (
	"fmt"
	"sync/atomic"
)

// Tally counts finished programs. It is a ProgressSink.
type Tally struct {
	total  int
	done   atomic.Int64
	failed atomic.Int64
	calls  atomic.Int64
}

// NewTally returns a tally for a batch of total programs.
func NewTally(total int) *Tally { return &Tally{total: total} }

func (t *Tally) OnEvent(evt Event) {
	switch evt.Status {
	case StatusDone:
		t.done.Add(1)
		t.calls.Add(int64(evt.Calls))
	case StatusError:
		t.failed.Add(1)
	}
}

// Done returns the number of delivered programs.
func (t *Tally) Done() int { return int(t.done.Load()) }

// Failed returns the number of programs that could not be delivered.
func (t *Tally) Failed() int { return int(t.failed.Load()) }

// Calls returns the total calls of delivered programs.
func (t *Tally) Calls() int { return int(t.calls.Load()) }

// String renders "done/total programs, calls calls".
func (t *Tally) String() string {
	s := fmt.Sprintf("%d/%d programs, %d calls", t.Done(), t.total, t.Calls())
	if f := t.Failed(); f > 0 {
		s += fmt.Sprintf(", %d failed", f)
	}
	return s
}

type teeSink []ProgressSink

func (ts teeSink) OnEvent(evt Event) {
	for _, s := range ts {
		s.OnEvent(evt)
	}
}

// Tee forwards every event to each non-nil sink.
func Tee(sinks ...ProgressSink) ProgressSink {
	out := make(teeSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
