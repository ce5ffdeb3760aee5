package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"ionc/internal/driver"
	"ionc/internal/project"
	"ionc/internal/ui"
)

type buildOutcome struct {
	results []driver.UnitResult
	err     error
}

func runBuildWithUI(ctx context.Context, title string, units []project.Unit, req driver.BuildOptions) ([]driver.UnitResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan buildOutcome, 1)

	go func() {
		req.Sink = driver.ChannelSink{Ch: events}
		res, err := driver.BuildAll(ctx, units, req)
		outcomeCh <- buildOutcome{results: res, err: err}
		close(events)
	}()

	names := make([]string, len(units))
	for i, u := range units {
		names[i] = u.Name
	}
	model := ui.NewProgressModel(title, names, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// модель могла выйти раньше: дочитываем, чтобы сборка не встала
	for range events {
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
