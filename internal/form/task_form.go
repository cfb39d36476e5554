package form

import (
	"strings"
	"sync/atomic"
	"time"

	"lucid-cli/internal/model"
)

// TaskFormOptions configures NewTaskForm.
type TaskFormOptions struct {
	// Defaults pre-fill the form (edit mode). Reset returns to these values.
	Defaults   *model.TaskInput
	Projects   []Candidate
	Submit     SubmitFunc[model.TaskInput, model.Task]
	OnComplete func(model.Task)
	Errors     ErrorSink
	Context    string

	// ParseDates detects due dates in the content as it is typed.
	ParseDates   ParseFunc
	NaturalDates bool
}

// TaskForm edits a task: content, due date and project.
type TaskForm struct {
	*Form[model.TaskInput, model.Task]

	Content *Field[string]
	DueDate *Field[*time.Time]
	Project *Selection

	parse        ParseFunc
	naturalDates atomic.Bool
}

// NewTaskForm builds a task form. Content must be non-blank to submit.
func NewTaskForm(opts TaskFormOptions) *TaskForm {
	var def model.TaskInput
	if opts.Defaults != nil {
		def = *opts.Defaults
	}
	projectID := ""
	if def.ProjectID != nil {
		projectID = *def.ProjectID
	}

	f := &TaskForm{
		Content: NewField(def.Content),
		DueDate: NewField(def.DueDate),
		Project: NewSelection(projectID, opts.Projects),
		parse:   opts.ParseDates,
	}
	f.naturalDates.Store(opts.NaturalDates)

	label := opts.Context
	if label == "" {
		label = "task.save"
	}
	f.Form = New(Config[model.TaskInput, model.Task]{
		Slices: []Slice{f.Content, f.DueDate, f.Project},
		Rules: []Rule{
			func() bool { return strings.TrimSpace(f.Content.Value()) != "" },
		},
		Values:     f.values,
		Submit:     opts.Submit,
		OnComplete: opts.OnComplete,
		Errors:     opts.Errors,
		Context:    label,
	})
	return f
}

func (f *TaskForm) values() model.TaskInput {
	sel := f.Project.Selected()
	return model.TaskInput{
		Content:     f.Content.Value(),
		DueDate:     f.DueDate.Value(),
		ProjectID:   sel.ID,
		ProjectName: sel.Name,
	}
}

// SetContent updates the content and, when natural dates are on, lets a date
// mentioned in the text fill the due date.
func (f *TaskForm) SetContent(s string) {
	prev := f.Content.Value()
	f.Content.Set(s)
	if s == prev {
		return
	}
	DateObserver{
		Parse:   f.parse,
		Enabled: f.naturalDates.Load(),
		OnDateFound: func(d time.Time) {
			f.DueDate.Set(&d)
		},
	}.Observe(s)
}

// SetNaturalDates turns due-date detection from the content on or off.
func (f *TaskForm) SetNaturalDates(on bool) { f.naturalDates.Store(on) }

func (f *TaskForm) NaturalDates() bool { return f.naturalDates.Load() }

func (f *TaskForm) SetDueDate(d *time.Time) { f.DueDate.Set(d) }

// SelectProject toggles c as the task's project.
func (f *TaskForm) SelectProject(c Candidate) Selected { return f.Project.HandleChange(c) }

// ProjectCandidates converts projects into selectable candidates (auxiliary: color hex).
func ProjectCandidates(projects []model.Project) []Candidate {
	out := make([]Candidate, 0, len(projects))
	for _, p := range projects {
		out = append(out, Candidate{ID: p.ID, Name: p.Name, Auxiliary: p.ColorHex})
	}
	return out
}

// TaskDefaults builds edit-mode defaults from an existing task.
func TaskDefaults(t model.Task) *model.TaskInput {
	return &model.TaskInput{
		Content:     t.Content,
		DueDate:     t.DueDate,
		ProjectID:   t.ProjectID,
		ProjectName: t.ProjectName,
	}
}
