package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/martium/fsh/internal/models"
)

const inputWidth = 60

// fieldInput edits one field: a textarea for [models.LongTextField], a single line otherwise.
type fieldInput struct {
	multiline bool
	line      textinput.Model
	area      textarea.Model
}

func newFieldInput(field models.Field) fieldInput {
	if field.Kind == models.LongTextField {
		ta := textarea.New()
		ta.Prompt = ""
		ta.ShowLineNumbers = false
		ta.CharLimit = 0
		ta.MaxHeight = 0
		ta.Placeholder = field.Label
		ta.SetWidth(inputWidth)
		ta.SetHeight(3)
		ta.Blur()
		return fieldInput{multiline: true, area: ta}
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 0
	ti.Width = inputWidth
	ti.Placeholder = field.Label
	return fieldInput{line: ti}
}

func (in *fieldInput) SetValue(s string) {
	if in.multiline {
		in.area.SetValue(s)
		return
	}
	in.line.SetValue(s)
}

func (in *fieldInput) Value() string {
	if in.multiline {
		return in.area.Value()
	}
	return in.line.Value()
}

func (in *fieldInput) Focus() tea.Cmd {
	if in.multiline {
		return in.area.Focus()
	}
	return in.line.Focus()
}

func (in *fieldInput) Blur() {
	if in.multiline {
		in.area.Blur()
		return
	}
	in.line.Blur()
}

func (in *fieldInput) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if in.multiline {
		in.area, cmd = in.area.Update(msg)
	} else {
		in.line, cmd = in.line.Update(msg)
	}
	return cmd
}

func (in *fieldInput) View() string {
	if in.multiline {
		return in.area.View()
	}
	return in.line.View()
}

// form edits one [models.ServiceRecord] with an input per [models.RecordFields] entry.
//
// Inputs whose text still equals what they were loaded with leave the stored value untouched,
// so saving never rewrites a field the user did not change.
type form struct {
	op      models.Operation
	source  int // order number the form was opened from; 0 for create
	next    int // advisory order number for create and copy
	base    models.ServiceRecord
	inputs  []fieldInput
	initial []string
	focus   int
	err     error
}

func newForm(op models.Operation, record *models.ServiceRecord, next int) *form {
	f := &form{op: op, next: next}
	if record != nil {
		f.source = record.OrderNumber
		f.base = *record
	}
	if op.CreatesRecord() {
		f.base.OrderNumber = 0
	}

	f.inputs = make([]fieldInput, len(models.RecordFields))
	f.initial = make([]string, len(models.RecordFields))
	for i, field := range models.RecordFields {
		f.inputs[i] = newFieldInput(field)
		f.inputs[i].SetValue(field.Get(&f.base))
		f.initial[i] = f.inputs[i].Value()
	}
	f.inputs[0].Focus()
	return f
}

func (f *form) title() string {
	switch f.op {
	case models.OperationEdit:
		return fmt.Sprintf("Edit service #%d", f.source)
	case models.OperationCopy:
		return fmt.Sprintf("Copy service #%d as new service #%d", f.source, f.next)
	default:
		return fmt.Sprintf("New service #%d", f.next)
	}
}

// record builds the record to save from the inputs the user changed.
func (f *form) record() (*models.ServiceRecord, error) {
	r := f.base
	for i, field := range models.RecordFields {
		value := f.inputs[i].Value()
		if value == f.initial[i] {
			continue
		}
		if err := field.Set(&r, value); err != nil {
			return nil, err
		}
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

func (f *form) setFocus(i int) {
	n := len(f.inputs)
	i = ((i % n) + n) % n
	f.inputs[f.focus].Blur()
	f.focus = i
	f.inputs[f.focus].Focus()
}

// moves reports whether msg moves focus. Inside a textarea the arrow keys move the cursor instead.
func (f *form) moves(msg tea.KeyMsg, binding key.Binding) bool {
	if f.inputs[f.focus].multiline && (msg.Type == tea.KeyUp || msg.Type == tea.KeyDown) {
		return false
	}
	return key.Matches(msg, binding)
}

// update moves focus or forwards msg to the focused input.
func (f *form) update(msg tea.KeyMsg, keys keyMap) tea.Cmd {
	switch {
	case f.moves(msg, keys.next):
		f.setFocus(f.focus + 1)
		return nil
	case f.moves(msg, keys.prev):
		f.setFocus(f.focus - 1)
		return nil
	}

	return f.inputs[f.focus].update(msg)
}

func (f *form) view() string {
	var b strings.Builder
	b.WriteString(styles.title.Render(f.title()))

	group := ""
	for i, field := range models.RecordFields {
		if field.Group != group {
			group = field.Group
			b.WriteString("\n" + styles.group.Render(strings.ToUpper(group)))
		}
		label := styles.label.Render(field.Label)
		if i == f.focus {
			label = styles.focused.Render(field.Label)
		}
		if f.inputs[i].multiline {
			b.WriteString("\n" + label + "\n" + f.inputs[i].View())
			continue
		}
		b.WriteString("\n" + label + " " + f.inputs[i].View())
	}

	if f.err != nil {
		b.WriteString("\n\n" + styles.err.Render(fmt.Sprintf("Error: %v", f.err)))
	}
	return b.String()
}
