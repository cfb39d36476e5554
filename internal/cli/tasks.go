package cli

import (
	"strings"
	"time"

	"lucid-cli/internal/form"
	"lucid-cli/internal/model"
	"lucid-cli/internal/nldate"
	"lucid-cli/internal/store"

	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"task"},
		Short:   "Task commands",
	}
	cmd.AddCommand(newTasksAddCmd(app))
	cmd.AddCommand(newTasksEditCmd(app))
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksShowCmd(app))
	cmd.AddCommand(newTasksSetCompletedCmd(app, true))
	cmd.AddCommand(newTasksSetCompletedCmd(app, false))
	cmd.AddCommand(newTasksDeleteCmd(app))
	return cmd
}

type taskFlags struct {
	content      string
	due          string
	noDue        bool
	project      string
	noProject    bool
	naturalDates bool
}

func (f *taskFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.content, "content", "", "Task content (may also be given as arguments)")
	cmd.Flags().StringVar(&f.due, "due", "", "Due date (YYYY-MM-DD or an expression like \"next friday\")")
	cmd.Flags().BoolVar(&f.noDue, "no-due", false, "Clear the due date")
	cmd.Flags().StringVar(&f.project, "project", "", "Project id or name")
	cmd.Flags().BoolVar(&f.noProject, "no-project", false, "Remove the task from its project")
	cmd.Flags().BoolVar(&f.naturalDates, "natural-dates", true, "Detect due dates in the content")
}

// apply pushes explicitly set flags into the form. Content goes first so an
// explicit --due wins over a date detected in the text.
func (f *taskFlags) apply(cmd *cobra.Command, tf *form.TaskForm, parser *nldate.Parser, projects []model.Project, content string, contentSet bool) error {
	if contentSet {
		tf.SetContent(content)
	}
	if cmd.Flags().Changed("due") {
		d, err := parseDue(parser, f.due)
		if err != nil {
			return err
		}
		tf.SetDueDate(&d)
	}
	if f.noDue {
		tf.SetDueDate(nil)
	}
	if cmd.Flags().Changed("project") {
		p, ok := findProject(projects, f.project)
		if !ok {
			return errNotFound("project", f.project)
		}
		tf.Project.SelectID(p.ID)
	}
	if f.noProject {
		tf.Project.Clear()
	}
	return nil
}

func (f *taskFlags) natural(cmd *cobra.Command, app *App) bool {
	if cmd.Flags().Changed("natural-dates") {
		return f.naturalDates
	}
	return app.cfg.Forms.NaturalDates
}

func newTasksAddCmd(app *App) *cobra.Command {
	var flags taskFlags

	cmd := &cobra.Command{
		Use:   "add [content...]",
		Short: "Add a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := app.service()
			projects, err := svc.Projects(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}

			content := flags.content
			if len(args) > 0 {
				content = strings.Join(args, " ")
			}

			parser := nldate.New()
			sink := &captureSink{logger: app.logger}
			var saved model.Task
			tf := form.NewTaskForm(form.TaskFormOptions{
				Projects:     form.ProjectCandidates(projects),
				Submit:       svc.CreateTask,
				OnComplete:   func(t model.Task) { saved = t },
				Errors:       sink,
				Context:      "task.create",
				ParseDates:   parser.Parse,
				NaturalDates: flags.natural(cmd, app),
			})
			if err := flags.apply(cmd, tf, parser, projects, content, true); err != nil {
				return writeErr(cmd, err)
			}
			switch tf.Submit(ctx) {
			case form.OutcomeRefused:
				return writeErr(cmd, errInvalid("task", "content is required"))
			case form.OutcomeFailed:
				return writeErr(cmd, sink.failure("create task"))
			}
			return writeOut(cmd, app, map[string]any{"data": saved})
		},
	}
	flags.register(cmd)
	return cmd
}

func newTasksEditCmd(app *App) *cobra.Command {
	var flags taskFlags

	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Edit a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := app.service()
			t, err := svc.Task(ctx, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			projects, err := svc.Projects(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}

			parser := nldate.New()
			sink := &captureSink{logger: app.logger}
			saved := t
			tf := form.NewTaskForm(form.TaskFormOptions{
				Defaults:     form.TaskDefaults(t),
				Projects:     form.ProjectCandidates(projects),
				Submit:       svc.UpdateTask(t.ID),
				OnComplete:   func(t model.Task) { saved = t },
				Errors:       sink,
				Context:      "task.update",
				ParseDates:   parser.Parse,
				NaturalDates: flags.natural(cmd, app),
			})
			if err := flags.apply(cmd, tf, parser, projects, flags.content, cmd.Flags().Changed("content")); err != nil {
				return writeErr(cmd, err)
			}
			switch tf.Submit(ctx) {
			case form.OutcomeRefused:
				return writeErr(cmd, errInvalid("task", "content is required"))
			case form.OutcomeFailed:
				return writeErr(cmd, sink.failure("update task"))
			}
			return writeOut(cmd, app, map[string]any{"data": saved})
		},
	}
	flags.register(cmd)
	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var (
		all     bool
		project string
		overdue bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks (open first, by due date)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := app.service()
			f := store.TaskFilter{IncludeCompleted: all}
			if strings.TrimSpace(project) != "" {
				projects, err := svc.Projects(ctx)
				if err != nil {
					return writeErr(cmd, err)
				}
				p, ok := findProject(projects, project)
				if !ok {
					return writeErr(cmd, errNotFound("project", project))
				}
				f.ProjectID = p.ID
			}
			if overdue {
				today := model.StartOfDay(time.Now())
				f.DueBefore = &today
			}
			tasks, err := svc.Tasks(ctx, f)
			if err != nil {
				return writeErr(cmd, err)
			}
			if tasks == nil {
				tasks = []model.Task{}
			}
			return writeOut(cmd, app, map[string]any{"data": tasks})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include completed tasks")
	cmd.Flags().StringVar(&project, "project", "", "Only tasks in this project (id or name)")
	cmd.Flags().BoolVar(&overdue, "overdue", false, "Only open tasks due before today")
	return cmd
}

func newTasksShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.service().Task(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}
}

func newTasksSetCompletedCmd(app *App, completed bool) *cobra.Command {
	use, short := "reopen <task-id>", "Mark a task incomplete"
	if completed {
		use, short = "complete <task-id>", "Mark a task completed"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := app.service()
			id := strings.TrimSpace(args[0])
			sink := &captureSink{logger: app.logger}
			c := &form.Completion{
				Persist:     svc.ToggleTask,
				Notify:      stderrNotifier(cmd, "lucid tasks reopen "+id),
				Errors:      sink,
				UndoEnabled: app.cfg.Forms.Undo,
			}
			switch c.Toggle(ctx, id, completed) {
			case form.OutcomeRefused:
				return writeErr(cmd, errInvalid("task", "id is required"))
			case form.OutcomeFailed:
				return writeErr(cmd, sink.failure("update task"))
			}
			t, err := svc.Task(ctx, id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}
}

func newTasksDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.service().DeleteTask(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[0], "deleted": true}})
		},
	}
}

// findProject matches by id first, then by case-insensitive name.
func findProject(projects []model.Project, ref string) (model.Project, bool) {
	ref = strings.TrimSpace(ref)
	for _, p := range projects {
		if p.ID == ref {
			return p, true
		}
	}
	for _, p := range projects {
		if strings.EqualFold(p.Name, ref) {
			return p, true
		}
	}
	return model.Project{}, false
}
