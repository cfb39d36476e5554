package cli

import (
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"lucid-cli/internal/logging"
	"lucid-cli/internal/tui"

	"github.com/spf13/cobra"
)

// runTUI starts the interactive UI. Logs go to a file since the UI owns the terminal.
func runTUI(cmd *cobra.Command, app *App) error {
	if err := app.store().Ensure(); err != nil {
		return writeErr(cmd, err)
	}

	logPath := strings.TrimSpace(app.cfg.LogFile)
	if logPath == "" {
		logPath = filepath.Join(app.Dir, "lucid.log")
	}
	logger, closer, err := logging.OpenFile(logPath, app.cfg.LogLevel)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer closer.Close()
	app.logger = logger

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("tui started", "dir", app.Dir)
	if err := tui.Run(ctx, tui.Options{Service: app.service(), Config: app.cfg, Logger: logger}); err != nil {
		logger.Error("tui exited", "err", err)
		return writeErr(cmd, err)
	}
	return nil
}
