package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/neuroplan-sync/models"
)

// editableFields lists the fields the editor offers per entity type. The
// first one labels the record in lists.
var editableFields = map[models.EntityType][]string{
	models.EntityProject:      {"title", "category"},
	models.EntityTask:         {"title", "description"},
	models.EntityIdea:         {"content"},
	models.EntityFocusSession: {"taskId", "targetSeconds"},
}

// recordLabel returns the text a record is listed under.
func recordLabel(r models.EntityRecord) string {
	if names := editableFields[r.EntityType]; len(names) > 0 {
		if v, ok := r.Fields[names[0]]; ok && fmt.Sprint(v) != "" {
			return fmt.Sprint(v)
		}
	}
	return r.Ref().String()
}

type editorModel struct {
	entityType models.EntityType
	// target is zero when creating.
	target models.EntityID
	names  []string
	inputs []textinput.Model
	focus  int
}

func newEditor(entityType models.EntityType, record *models.EntityRecord) editorModel {
	names := editableFields[entityType]
	e := editorModel{
		entityType: entityType,
		names:      names,
		inputs:     make([]textinput.Model, len(names)),
	}
	if record != nil {
		e.target = record.ID
	}

	for i, name := range names {
		in := textinput.New()
		in.Prompt = fmt.Sprintf("%-14s", name+":")
		in.CharLimit = 500
		if record != nil {
			if v, ok := record.Fields[name]; ok {
				in.SetValue(fmt.Sprint(v))
			}
		}
		e.inputs[i] = in
	}
	if len(e.inputs) > 0 {
		e.inputs[0].Focus()
	}
	return e
}

func (e editorModel) creating() bool {
	return e.target.IsZero()
}

// fields returns the entered values. Empty inputs are left out when
// creating so the payload only carries what the user typed.
func (e editorModel) fields() models.Fields {
	out := make(models.Fields, len(e.inputs))
	for i, in := range e.inputs {
		v := strings.TrimSpace(in.Value())
		if v == "" && e.creating() {
			continue
		}
		out[e.names[i]] = v
	}
	return out
}

func (e editorModel) next() editorModel {
	if len(e.inputs) == 0 {
		return e
	}
	e.inputs[e.focus].Blur()
	e.focus = (e.focus + 1) % len(e.inputs)
	e.inputs[e.focus].Focus()
	return e
}

func (e editorModel) update(msg tea.Msg) (editorModel, tea.Cmd) {
	if len(e.inputs) == 0 {
		return e, nil
	}
	var cmd tea.Cmd
	e.inputs[e.focus], cmd = e.inputs[e.focus].Update(msg)
	return e, cmd
}

func (e editorModel) view() string {
	var b strings.Builder
	for _, in := range e.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	return b.String()
}

func (e editorModel) title() string {
	if e.creating() {
		return "NEW " + strings.ToUpper(e.entityType.Label())
	}
	return "EDIT " + strings.ToUpper(e.entityType.Label()) + " " + e.target.String()
}
