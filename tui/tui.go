package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	// SoundOn is only used for the help line.
	SoundOn bool
	// AltScreen takes over the whole terminal.
	AltScreen bool
}

// Run blocks until the user quits or ctx is canceled.
func Run(ctx context.Context, sender Sender, frames *Frames, opts Options) error {
	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	p := tea.NewProgram(newModel(ctx, sender, frames.C(), opts.SoundOn), progOpts...)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("terminal ui: %w", err)
	}
	return nil
}
