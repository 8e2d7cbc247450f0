package ui

import (
	"context"

	tea "charm.land/bubbletea/v2"
)

// Run starts the browser and blocks until the user quits. Extra program
// options (e.g. custom IO) are passed to tea.NewProgram.
func Run(ctx context.Context, opts Options, progOpts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := New(ctx, opts)
	progOpts = append([]tea.ProgramOption{tea.WithContext(ctx)}, progOpts...)
	prog := tea.NewProgram(m, progOpts...)
	_, err := prog.Run()
	m.stopWatch()
	return err
}
