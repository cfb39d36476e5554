package cli

import (
	"lucid-cli/internal/model"

	"github.com/spf13/cobra"
)

func newColorsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "colors",
		Short: "List the project color palette",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"default": app.cfg.Forms.DefaultColor,
				"colors":  model.Colors,
			}})
		},
	}
}
