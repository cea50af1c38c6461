// Package tui renders the photo wall in a terminal with bubbletea.
//
// One terminal row stands for wall.row_height_px pixels and one cell for
// wall.cell_width_px, so the scroll engine works in the same pixel units as
// a browser would. A tea.Tick per wall generation pumps frames; mouse motion
// drives hover; focus loss suspends the wall.
package tui

import (
	"context"
	stderrors "errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the wall until the user quits or ctx is cancelled
func Run(ctx context.Context, opts Options, programOpts ...tea.ProgramOption) error {
	model := NewModel(ctx, opts)
	programOpts = append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	}, programOpts...)

	_, err := tea.NewProgram(model, programOpts...).Run()
	if stderrors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
