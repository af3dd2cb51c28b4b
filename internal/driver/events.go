package driver

import "time"

// Status captures the progress state of one program.
type Status string

const (
	// StatusWorking indicates the program is being generated.
	StatusWorking Status = "working"
	// StatusDone indicates the program is complete.
	StatusDone Status = "done"
	// StatusError indicates the program could not be delivered.
	StatusError Status = "error"
)

// Event reports progress for one program of a batch.
type Event struct {
	Index   int
	Status  Status
	Calls   int
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

type nopSink struct{}

func (nopSink) OnEvent(Event) {}
