package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"graft/internal/driver"
	"graft/internal/report"
	"graft/internal/source"
	"graft/internal/ui"
)

// wantProgressUI decides whether a run gets the live progress view. The
// view owns stdout while it runs, so json output and quiet runs never get
// it no matter what --ui says; within pretty output an explicit on/off
// wins and auto falls back to a terminal check.
func wantProgressUI(value, format string, quiet bool) (bool, error) {
	var explicit, on bool
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
	case "on":
		explicit, on = true, true
	case "off":
		explicit = true
	default:
		return false, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
	if format != "pretty" || quiet {
		return false, nil
	}
	if explicit {
		return on, nil
	}
	return isTerminal(os.Stdout), nil
}

type patchOutcome struct {
	fileSet *source.FileSet
	rep     *report.Report
	err     error
}

// runPatchWithUI drives RunBatch behind a Bubble Tea progress view. The batch
// runs in a goroutine and feeds per-file events into the model; closing the
// event channel tells the model the run is over.
func runPatchWithUI(ctx context.Context, title string, files []string, opts driver.Options) (*source.FileSet, *report.Report, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan patchOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		fs, rep, err := driver.RunBatch(ctx, files, optsCopy)
		outcomeCh <- patchOutcome{fileSet: fs, rep: rep, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fileSet, outcome.rep, uiErr
	}
	return outcome.fileSet, outcome.rep, outcome.err
}
