package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rbrovko/SwiftLint/internal/driver"
	"github.com/rbrovko/SwiftLint/internal/ui"
)

type batchOutcome[R any] struct {
	results []R
	err     error
}

// runWithUI runs a driver batch in the background while a progress view
// renders its events on out. The view exits when the batch closes the event
// stream.
func runWithUI[R any](ctx context.Context, out io.Writer, title string, files []string, opts *driver.Options,
	batch func(context.Context, driver.Options) ([]R, error),
) ([]R, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan batchOutcome[R], 1)

	go func() {
		o := *opts
		o.Sink = driver.ChannelSink{Ch: events}
		res, err := batch(ctx, o)
		outcomeCh <- batchOutcome[R]{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil), tea.WithContext(ctx))
	_, uiErr := program.Run()
	if uiErr != nil {
		// drain so the batch never blocks on a full channel
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
