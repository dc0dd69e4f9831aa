package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"dbgdiff/internal/loader"
	"dbgdiff/internal/model"
	"dbgdiff/internal/observ"
	"dbgdiff/internal/ui"
)

type loadOutcome struct {
	files []*model.File
	err   error
}

// loadFiles materializes the given binaries/snapshots, with a progress UI
// when stderr is an interactive terminal.
func loadFiles(cmd *cobra.Command, timer *observ.Timer, title string, paths []string) ([]*model.File, error) {
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if !quiet && isTerminal(os.Stderr) {
		phase := timer.Begin("load")
		files, err := loadFilesWithUI(title, paths)
		timer.End(phase, fmt.Sprintf("%d file(s)", len(files)))
		return files, err
	}

	files := make([]*model.File, 0, len(paths))
	for _, path := range paths {
		phase := timer.Begin("load " + filepath.Base(path))
		file, err := loader.Load(path, nil)
		if err != nil {
			return nil, err
		}
		timer.End(phase, fmt.Sprintf("%d units", len(file.Units)))
		files = append(files, file)
	}
	return files, nil
}

func loadFilesWithUI(title string, paths []string) ([]*model.File, error) {
	events := make(chan loader.Event, 256)
	outcomeCh := make(chan loadOutcome, 1)

	go func() {
		files := make([]*model.File, 0, len(paths))
		var err error
		for _, path := range paths {
			var file *model.File
			file, err = loader.Load(path, loader.ChannelSink{Ch: events})
			if err != nil {
				break
			}
			files = append(files, file)
		}
		outcomeCh <- loadOutcome{files: files, err: err}
		close(events)
	}()

	progress := ui.NewProgressModel(title, paths, events)
	program := tea.NewProgram(progress, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.files, uiErr
	}
	return outcome.files, outcome.err
}
