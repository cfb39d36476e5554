package cli

import (
	"strings"

	"lucid-cli/internal/publish"

	"github.com/spf13/cobra"
)

func newPublishCmd(app *App) *cobra.Command {
	var (
		to               string
		project          string
		overwrite        bool
		includeCompleted bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Write projects and tasks as Markdown files",
		Example: strings.TrimSpace(`
  lucid publish --to ./notes
  lucid publish --to ./notes --project Garden --include-completed --overwrite
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opt := publish.WriteOptions{IncludeCompleted: includeCompleted, Overwrite: overwrite}
			if strings.TrimSpace(project) != "" {
				projects, err := app.service().Projects(cmd.Context())
				if err != nil {
					return writeErr(cmd, err)
				}
				p, ok := findProject(projects, project)
				if !ok {
					return writeErr(cmd, errNotFound("project", project))
				}
				opt.ProjectID = p.ID
			}

			res, err := publish.Write(cmd.Context(), app.store(), to, opt)
			if err != nil {
				return writeErr(cmd, err)
			}
			app.logger.Info("published", "to", to, "files", len(res.Written))
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Output directory (required)")
	cmd.Flags().StringVar(&project, "project", "", "Only this project (id or name)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing files")
	cmd.Flags().BoolVar(&includeCompleted, "include-completed", false, "Include completed tasks in the checklists")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
