package cli

import (
	"errors"
	"strings"

	"lucid-cli/internal/form"
	"lucid-cli/internal/model"

	"github.com/spf13/cobra"
)

var errAIDisabled = errors.New("task generation is disabled ([ai] enabled = false)")

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Project commands",
	}
	cmd.AddCommand(newProjectsCreateCmd(app))
	cmd.AddCommand(newProjectsEditCmd(app))
	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsShowCmd(app))
	cmd.AddCommand(newProjectsDeleteCmd(app))
	return cmd
}

type projectFlags struct {
	name   string
	color  string
	ai     bool
	prompt string
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Project name")
	cmd.Flags().StringVar(&f.color, "color", "", "Color name or hex from `lucid colors`")
	cmd.Flags().BoolVar(&f.ai, "ai", false, "Generate initial tasks from --prompt")
	cmd.Flags().StringVar(&f.prompt, "prompt", "", "Task generation prompt (requires --ai)")
}

func (f *projectFlags) apply(cmd *cobra.Command, app *App, pf *form.ProjectForm) error {
	if cmd.Flags().Changed("name") {
		pf.Name.Set(f.name)
	}
	if cmd.Flags().Changed("color") {
		c, ok := model.FindColor(f.color)
		if !ok {
			return errNotFound("color", f.color)
		}
		pf.Color.SelectID(c.Name)
	}
	if cmd.Flags().Changed("ai") {
		if f.ai && !app.cfg.AI.Enabled {
			return errAIDisabled
		}
		pf.AI.SetEnabled(f.ai)
	}
	if cmd.Flags().Changed("prompt") {
		pf.AI.SetPayload(f.prompt)
	}
	return nil
}

// refusal explains why a project form would not submit.
func refusal(pf *form.ProjectForm) error {
	switch {
	case strings.TrimSpace(pf.Name.Value()) == "":
		return errInvalid("project", "name is required")
	case pf.Color.Selected().IsNone():
		return errInvalid("project", "color is required")
	case !pf.AI.Valid():
		return errInvalid("project", "a prompt is required when task generation is on")
	}
	return errInvalid("project", "rejected")
}

func newProjectsCreateCmd(app *App) *cobra.Command {
	var flags projectFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := app.service()
			sink := &captureSink{logger: app.logger}
			var saved model.Project
			pf := form.NewProjectForm(form.ProjectFormOptions{
				DefaultColor: app.cfg.Forms.DefaultColor,
				Submit:       svc.CreateProject,
				OnComplete:   func(p model.Project) { saved = p },
				Errors:       sink,
				Context:      "project.create",
			})
			if err := flags.apply(cmd, app, pf); err != nil {
				return writeErr(cmd, err)
			}
			switch pf.Submit(cmd.Context()) {
			case form.OutcomeRefused:
				return writeErr(cmd, refusal(pf))
			case form.OutcomeFailed:
				return writeErr(cmd, sink.failure("create project"))
			}
			return writeOut(cmd, app, map[string]any{"data": saved})
		},
	}
	flags.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectsEditCmd(app *App) *cobra.Command {
	var flags projectFlags

	cmd := &cobra.Command{
		Use:   "edit <project-id>",
		Short: "Edit a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := app.service()
			p, err := svc.Project(ctx, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			sink := &captureSink{logger: app.logger}
			saved := p
			pf := form.NewProjectForm(form.ProjectFormOptions{
				Defaults:     form.ProjectDefaults(p),
				DefaultColor: app.cfg.Forms.DefaultColor,
				Submit:       svc.UpdateProject(p.ID),
				OnComplete:   func(p model.Project) { saved = p },
				Errors:       sink,
				Context:      "project.update",
			})
			// Keep stored generation settings unless flags change them.
			pf.AI.SetEnabled(p.AITaskGen)
			pf.AI.SetPayload(p.TaskGenPrompt)
			if err := flags.apply(cmd, app, pf); err != nil {
				return writeErr(cmd, err)
			}
			switch pf.Submit(ctx) {
			case form.OutcomeRefused:
				return writeErr(cmd, refusal(pf))
			case form.OutcomeFailed:
				return writeErr(cmd, sink.failure("update project"))
			}
			return writeOut(cmd, app, map[string]any{"data": saved})
		},
	}
	flags.register(cmd)
	return cmd
}

func newProjectsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.service().Projects(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if projects == nil {
				projects = []model.Project{}
			}
			return writeOut(cmd, app, map[string]any{"data": projects})
		},
	}
}

func newProjectsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.service().Project(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}
}

func newProjectsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project (its tasks move to the Inbox)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.service().DeleteProject(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "deleted": true}})
		},
	}
}
