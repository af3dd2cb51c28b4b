package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"callgen/internal/driver"
	"callgen/internal/prog"
	"callgen/internal/ui"
)

type batchOutcome struct {
	progs []*prog.Prog
	err   error
}

// runBatchWithUI runs the batch while a progress view consumes its events.
func runBatchWithUI(ctx context.Context, title string, g driver.Generator, opts driver.Options) ([]*prog.Prog, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan batchOutcome, 1)

	go func() {
		o := opts
		o.Sink = driver.Tee(o.Sink, driver.ChannelSink{Ch: events})
		progs, err := driver.Batch(ctx, g, o)
		outcomeCh <- batchOutcome{progs: progs, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, opts.Count, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.progs, uiErr
	}
	return outcome.progs, outcome.err
}
