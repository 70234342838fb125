package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/shelf/internal/tui/styles"
)

// FormField describes one input of a Form
type FormField struct {
	Label       string
	Value       string
	Placeholder string
	Secret      bool
}

// Form is a modal with labeled text inputs (login, register, book and profile edits)
type Form struct {
	visible bool
	title   string
	hint    string
	labels  []string
	inputs  []textinput.Model
	focus   int
}

// NewForm creates a hidden form
func NewForm() Form {
	return Form{}
}

// Show displays the form with fresh inputs
func (f *Form) Show(title string, fields []FormField) {
	f.visible = true
	f.title = title
	f.hint = ""
	f.focus = 0
	f.labels = make([]string, len(fields))
	f.inputs = make([]textinput.Model, len(fields))

	for i, field := range fields {
		ti := textinput.New()
		ti.Placeholder = field.Placeholder
		ti.CharLimit = 120
		ti.Width = 32
		ti.Prompt = ""
		ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
		ti.PlaceholderStyle = styles.DimStyle
		if field.Secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		ti.SetValue(field.Value)
		f.labels[i] = field.Label
		f.inputs[i] = ti
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
}

// SetHint shows a line under the inputs (validation feedback)
func (f *Form) SetHint(hint string) {
	f.hint = hint
}

// Hide dismisses the form
func (f *Form) Hide() {
	f.visible = false
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

// IsVisible returns whether the form is shown
func (f Form) IsVisible() bool {
	return f.visible
}

// Title returns the title the form was shown with
func (f Form) Title() string {
	return f.title
}

// Values returns the input values in field order
func (f Form) Values() []string {
	out := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		out[i] = in.Value()
	}
	return out
}

// Update handles input events, returns (form, cmd, submitted).
// Enter on the last field submits; esc hides the form.
func (f Form) Update(msg tea.Msg) (Form, tea.Cmd, bool) {
	if !f.visible || len(f.inputs) == 0 {
		return f, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			f.Hide()
			return f, nil, false
		case "enter":
			if f.focus == len(f.inputs)-1 {
				return f, nil, true
			}
			f.move(1)
			return f, nil, false
		case "tab", "down":
			f.move(1)
			return f, nil, false
		case "shift+tab", "up":
			f.move(-1)
			return f, nil, false
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, false
}

func (f *Form) move(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

// View renders the form
func (f Form) View() string {
	if !f.visible {
		return ""
	}

	const modalWidth = 44

	bg := lipgloss.NewStyle().Width(modalWidth).Background(styles.SlateDark)
	lines := []string{
		bg.Foreground(styles.White).Bold(true).Render(f.title),
		bg.Render(""),
	}
	for i, in := range f.inputs {
		label := styles.DimStyle
		if i == f.focus {
			label = styles.AccentStyle
		}
		lines = append(lines,
			bg.Render(label.Render(f.labels[i])),
			bg.Render(in.View()),
			bg.Render(""),
		)
	}
	if f.hint != "" {
		lines = append(lines, bg.Render(styles.ErrorStyle.Render(f.hint)))
	}
	lines = append(lines, bg.Render(styles.DimStyle.Render("tab next · enter submit · esc cancel")))

	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
