package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"lucid-cli/internal/aigen"
	"lucid-cli/internal/config"
	"lucid-cli/internal/format"
	"lucid-cli/internal/logging"
	"lucid-cli/internal/service"
	"lucid-cli/internal/store"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	ConfigPath string
	PrettyJSON bool
	Format     string
	LogLevel   string

	cfg    config.Config
	logger *slog.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "lucid",
		Short:        "Lucid: local-first tasks and projects (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  lucid

  # Add a task; the due date is read from the text
  lucid tasks add "Call mom tomorrow"

  # Direct task lookup (shortcut for: lucid tasks show <task-id>)
  lucid task-ab12cd34
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.load(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("LUCID_DIR", ""), "Path to the data dir (default ~/.lucid)")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("LUCID_CONFIG", ""), "Path to config.toml")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("LUCID_FORMAT", "json"), "Output format (json|yaml)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")

	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newColorsCmd(app))
	cmd.AddCommand(newDatesCmd(app))
	cmd.AddCommand(newDashboardCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// load resolves settings: flags > env > config file > defaults.
func (app *App) load(cmd *cobra.Command) error {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return writeErr(cmd, err)
	}
	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Dir = app.Dir
	}
	if flags.Changed("format") {
		cfg.Format = app.Format
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = app.LogLevel
	}
	if strings.TrimSpace(cfg.Dir) == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return writeErr(cmd, err)
		}
		cfg.Dir = d
	}

	app.cfg = cfg
	app.Dir = cfg.Dir
	app.Format = cfg.Format
	app.LogLevel = cfg.LogLevel
	app.logger = logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
	return nil
}

func (app *App) store() store.Store {
	return store.Store{Dir: app.Dir}
}

func (app *App) service() *service.Service {
	var gen aigen.Generator
	if app.cfg.AI.Enabled {
		gen = aigen.OutlineGenerator{}
	}
	return service.New(app.store(), gen, app.cfg.AI.MaxTasks, app.logger)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
