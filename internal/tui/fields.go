package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/strrl/blogpessoal/pkg/models"
)

type field struct {
	name  models.Field
	label string
	input textinput.Model
}

func newField(name models.Field, label, placeholder string) field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "│ "
	ti.CharLimit = 255
	ti.Width = 50
	return field{name: name, label: label, input: ti}
}

func newPasswordField(name models.Field, label string) field {
	f := newField(name, label, "")
	f.input.EchoMode = textinput.EchoPassword
	f.input.EchoCharacter = '•'
	return f
}

// fieldSet is a column of single-line inputs with one focused at a time
type fieldSet struct {
	fields []field
	focus  int
}

func newFieldSet(fields ...field) *fieldSet {
	s := &fieldSet{fields: fields}
	if len(fields) > 0 {
		s.fields[0].input.Focus()
	}
	return s
}

// Focused returns the index of the focused input, -1 when focus left the set
func (s *fieldSet) Focused() int { return s.focus }

// FocusAt moves focus to input i, or out of the set when i is out of range
func (s *fieldSet) FocusAt(i int) tea.Cmd {
	for j := range s.fields {
		s.fields[j].input.Blur()
	}
	if i < 0 || i >= len(s.fields) {
		s.focus = -1
		return nil
	}
	s.focus = i
	return s.fields[i].input.Focus()
}

func (s *fieldSet) Next() tea.Cmd {
	return s.FocusAt((s.focus + 1) % len(s.fields))
}

func (s *fieldSet) Prev() tea.Cmd {
	return s.FocusAt((s.focus - 1 + len(s.fields)) % len(s.fields))
}

// Update forwards msg to the focused input and reports the new value when it changed
func (s *fieldSet) Update(msg tea.Msg) (models.Field, string, bool, tea.Cmd) {
	if s.focus < 0 || s.focus >= len(s.fields) {
		return "", "", false, nil
	}
	f := &s.fields[s.focus]
	before := f.input.Value()
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	after := f.input.Value()
	return f.name, after, after != before, cmd
}

// Set replaces the displayed value of an input
func (s *fieldSet) Set(name models.Field, value string) {
	for i := range s.fields {
		if s.fields[i].name == name {
			s.fields[i].input.SetValue(value)
		}
	}
}

func (s *fieldSet) Value(name models.Field) string {
	for _, f := range s.fields {
		if f.name == name {
			return f.input.Value()
		}
	}
	return ""
}

func (s *fieldSet) View() string {
	var b strings.Builder
	for i, f := range s.fields {
		label := labelStyle.Render(f.label)
		if i == s.focus {
			label = selectedStyle.Render(f.label)
		}
		b.WriteString(label + "\n")
		b.WriteString(f.input.View() + "\n\n")
	}
	return b.String()
}
