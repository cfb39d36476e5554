// Package tui is the interactive task list started by running lucid without arguments.
package tui

import (
	"context"
	"errors"
	"log/slog"

	"lucid-cli/internal/config"
	"lucid-cli/internal/service"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	Service *service.Service
	Config  config.Config
	// Logger must not write to the terminal; the program owns it.
	Logger *slog.Logger
}

func Run(ctx context.Context, opts Options) error {
	if opts.Service == nil {
		return errors.New("tui: nil service")
	}
	applyColorProfilePreference(opts.Config.TUI.ColorProfile)
	applyThemePreference(opts.Config.TUI.Theme)

	m := newAppModel(ctx, opts.Service, opts.Config, opts.Logger)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && ctx.Err() != nil {
		// Cancelled from outside, e.g. by a signal.
		return nil
	}
	return err
}
