package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/shelf/internal/catalog"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

// Jump is the fuzzy jump-to-title modal
type Jump struct {
	input     textinput.Model
	results   []catalog.RankResult
	cursor    int
	visible   bool
	width     int
	height    int
	prevQuery string
}

// NewJump creates a new jump modal
func NewJump() Jump {
	ti := textinput.New()
	ti.Placeholder = "Jump to title..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "> "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return Jump{input: ti}
}

// Show makes the modal visible and focuses the input
func (j *Jump) Show() {
	j.visible = true
	j.input.SetValue("")
	j.input.Focus()
	j.results = nil
	j.cursor = 0
	j.prevQuery = ""
}

// Hide hides the modal
func (j *Jump) Hide() {
	j.visible = false
	j.input.Blur()
}

// IsVisible returns true if the modal is visible
func (j Jump) IsVisible() bool {
	return j.visible
}

// SetResults sets the ranked matches
func (j *Jump) SetResults(results []catalog.RankResult) {
	j.results = results
	j.cursor = 0
}

// SetSize updates the component dimensions
func (j *Jump) SetSize(width, height int) {
	j.width = width
	j.height = height
	j.input.Width = max(width/2, 20)
}

// Query returns the current query
func (j Jump) Query() string {
	return j.input.Value()
}

// QueryChanged returns true if the query changed since the last check
func (j *Jump) QueryChanged() bool {
	current := j.input.Value()
	if current != j.prevQuery {
		j.prevQuery = current
		return true
	}
	return false
}

// Selected returns the highlighted book
func (j Jump) Selected() (domain.Book, bool) {
	if j.cursor >= len(j.results) {
		return domain.Book{}, false
	}
	return j.results[j.cursor].Book, true
}

// Init initializes the component
func (j Jump) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages, returns (jump, cmd, selected)
func (j Jump) Update(msg tea.Msg) (Jump, tea.Cmd, bool) {
	if !j.visible {
		return j, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, PickerKeys.Escape):
			j.Hide()
			return j, nil, false
		case key.Matches(keyMsg, PickerKeys.Enter):
			return j, nil, len(j.results) > 0
		case key.Matches(keyMsg, PickerKeys.Down):
			if j.cursor < len(j.results)-1 {
				j.cursor++
			}
			return j, nil, false
		case key.Matches(keyMsg, PickerKeys.Up):
			if j.cursor > 0 {
				j.cursor--
			}
			return j, nil, false
		}
	}

	var cmd tea.Cmd
	j.input, cmd = j.input.Update(msg)
	return j, cmd, false
}

// View renders the modal centered in the window
func (j Jump) View() string {
	if !j.visible {
		return ""
	}

	modalWidth := min(max(j.width*2/3, 40), 80)
	const maxResults = 10

	var b strings.Builder
	b.WriteString("Jump to book\n\n")
	b.WriteString(j.input.View())
	b.WriteString("\n\n")

	switch {
	case len(j.results) == 0 && j.input.Value() != "":
		b.WriteString(styles.DimStyle.Render("No matches found"))
	default:
		shown := min(len(j.results), maxResults)
		for i := 0; i < shown; i++ {
			r := j.results[i]
			prefix := "  "
			if i == j.cursor {
				prefix = styles.AccentStyle.Render("› ")
			}
			title := styles.Truncate(r.Book.Title, modalWidth-20)
			line := prefix + styles.HighlightMatches(title, r.MatchedIndexes)
			if r.Book.Author != "" {
				line += styles.DimStyle.Render("  " + r.Book.Author)
			}
			b.WriteString(line + "\n")
		}
		if len(j.results) > maxResults {
			b.WriteString(styles.DimStyle.Render(fmt.Sprintf("... and %d more", len(j.results)-maxResults)))
		}
	}

	content := lipgloss.NewStyle().Width(modalWidth - 4).Render(b.String())
	modal := styles.ModalStyle.Width(modalWidth).Render(content)
	return lipgloss.Place(j.width, j.height, lipgloss.Center, lipgloss.Center, modal)
}
