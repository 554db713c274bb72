package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"mocheck/internal/driver"
	"mocheck/internal/ui"
)

type checkOutcome struct {
	result *driver.BatchResult
	err    error
}

// runCheckWithUI runs v in the background while a progress view consumes
// events. v must have been built with driver.ChannelObserver(events).
func runCheckWithUI(ctx context.Context, v *driver.Validator, root string, events chan driver.Event, out io.Writer) (*driver.BatchResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		res, err := v.Run(ctx, root)
		outcomeCh <- checkOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("checking", root, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithContext(ctx))
	_, uiErr := program.Run()

	// the view quits early only on ctrl-c; stop the run and keep the
	// producer unblocked until it returns
	cancel()
	for range events {
	}
	outcome := <-outcomeCh
	if outcome.err != nil {
		return outcome.result, outcome.err
	}
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, nil
}
