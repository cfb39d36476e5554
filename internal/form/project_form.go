package form

import (
	"strings"

	"lucid-cli/internal/model"
)

// ProjectFormOptions configures NewProjectForm.
type ProjectFormOptions struct {
	Defaults *model.ProjectInput
	// DefaultColor is used when Defaults has no color. Unknown names leave the color unset.
	DefaultColor string
	// AIEnabled is the initial (and reset) state of the task-generation toggle.
	AIEnabled  bool
	Submit     SubmitFunc[model.ProjectInput, model.Project]
	OnComplete func(model.Project)
	Errors     ErrorSink
	Context    string
}

// ProjectForm edits a project: name, color and optional task generation.
type ProjectForm struct {
	*Form[model.ProjectInput, model.Project]

	Name  *Field[string]
	Color *Selection
	AI    *Augmentation
}

// NewProjectForm builds a project form. It needs a name and a color to submit.
func NewProjectForm(opts ProjectFormOptions) *ProjectForm {
	var def model.ProjectInput
	if opts.Defaults != nil {
		def = *opts.Defaults
	}
	color := def.ColorName
	if strings.TrimSpace(color) == "" {
		color = opts.DefaultColor
	}
	if c, ok := model.FindColor(color); ok {
		color = c.Name
	}

	f := &ProjectForm{
		Name:  NewField(def.Name),
		Color: NewSelection(color, ColorCandidates()),
		AI:    NewAugmentation(opts.AIEnabled, RequirePayload),
	}

	label := opts.Context
	if label == "" {
		label = "project.save"
	}
	f.Form = New(Config[model.ProjectInput, model.Project]{
		Slices: []Slice{f.Name, f.Color, f.AI},
		Rules: []Rule{
			func() bool { return strings.TrimSpace(f.Name.Value()) != "" },
			func() bool { return !f.Color.Selected().IsNone() },
		},
		Values:     f.values,
		Submit:     opts.Submit,
		OnComplete: opts.OnComplete,
		Errors:     opts.Errors,
		Context:    label,
	})
	return f
}

func (f *ProjectForm) values() model.ProjectInput {
	color := f.Color.Selected()
	in := model.ProjectInput{
		Name:      f.Name.Value(),
		ColorName: color.Name,
		ColorHex:  color.Auxiliary,
	}
	if f.AI.Enabled() {
		in.AITaskGen = true
		in.TaskGenPrompt = f.AI.Payload()
	}
	return in
}

// SelectColor toggles c as the project color.
func (f *ProjectForm) SelectColor(c Candidate) Selected { return f.Color.HandleChange(c) }

// ColorCandidates lists the palette as candidates keyed by color name.
func ColorCandidates() []Candidate {
	out := make([]Candidate, 0, len(model.Colors))
	for _, c := range model.Colors {
		out = append(out, Candidate{ID: c.Name, Name: c.Name, Auxiliary: c.Hex})
	}
	return out
}

// ProjectDefaults builds edit-mode defaults from an existing project.
func ProjectDefaults(p model.Project) *model.ProjectInput {
	return &model.ProjectInput{
		Name:          p.Name,
		ColorName:     p.ColorName,
		ColorHex:      p.ColorHex,
		AITaskGen:     p.AITaskGen,
		TaskGenPrompt: p.TaskGenPrompt,
	}
}
