package trace

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// Heartbeat emits a liveness event every interval so a stalled batch can be
// told apart from a slow one. Each beat carries the progress string, if any.
type Heartbeat struct {
	cancel context.CancelFunc
	done   sync.WaitGroup
}

// StartHeartbeat starts beating on tracer. It returns nil when tracing is
// disabled or interval is not positive; a nil Heartbeat is safe to Stop.
func StartHeartbeat(tracer Tracer, interval time.Duration, progress func() string) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	h := &Heartbeat{cancel: cancel}
	h.done.Add(1)
	go func() {
		defer h.done.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for beat := 1; ; beat++ {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			detail := "#" + strconv.Itoa(beat)
			if progress != nil {
				detail += " " + progress()
			}
			tracer.Emit(&Event{
				Time:   time.Now(),
				Seq:    NextSeq(),
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				GID:    getGoroutineID(),
				Name:   "heartbeat",
				Detail: detail,
			})
		}
	}()
	return h
}

// Stop ends the heartbeat and waits for its goroutine. Safe to call twice.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.cancel()
	h.done.Wait()
}
