package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

const (
	rowGenre = iota
	rowYear
	rowAvailability
	rowCount
)

// FilterModal edits the genre, year and availability filters
type FilterModal struct {
	visible bool
	cursor  int

	genre       textinput.Model
	suggest     func(string) []string
	suggestions []string

	years   []int
	yearIdx int // -1 = any

	availability domain.Availability
}

// NewFilterModal creates a hidden filter modal
func NewFilterModal() FilterModal {
	ti := textinput.New()
	ti.Placeholder = "any"
	ti.CharLimit = 60
	ti.Width = 24
	ti.Prompt = ""
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle
	return FilterModal{genre: ti, yearIdx: -1, availability: domain.AvailabilityAll}
}

// Show opens the modal on the current filter.
// years are the selectable years; suggest completes genres.
func (m *FilterModal) Show(current domain.BookFilter, years []int, suggest func(string) []string) {
	m.visible = true
	m.cursor = rowGenre
	m.suggest = suggest
	m.years = years
	m.genre.SetValue(current.Genre)
	m.genre.Focus()
	m.refreshSuggestions()

	m.yearIdx = -1
	for i, y := range years {
		if strconv.Itoa(y) == current.Year {
			m.yearIdx = i
			break
		}
	}
	m.availability = current.Availability
	if m.availability == "" {
		m.availability = domain.AvailabilityAll
	}
}

// Hide dismisses the modal
func (m *FilterModal) Hide() {
	m.visible = false
	m.genre.Blur()
}

// IsVisible returns whether the modal is shown
func (m FilterModal) IsVisible() bool {
	return m.visible
}

// Filter returns the filter as currently edited
func (m FilterModal) Filter() domain.BookFilter {
	f := domain.BookFilter{
		Genre:        strings.TrimSpace(m.genre.Value()),
		Availability: m.availability,
	}
	if m.yearIdx >= 0 && m.yearIdx < len(m.years) {
		f.Year = strconv.Itoa(m.years[m.yearIdx])
	}
	return f
}

// Update handles input, returns (modal, cmd, applied)
func (m FilterModal) Update(msg tea.Msg) (FilterModal, tea.Cmd, bool) {
	if !m.visible {
		return m, nil, false
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil, false
	}

	switch {
	case key.Matches(keyMsg, PickerKeys.Escape):
		m.Hide()
		return m, nil, false
	case key.Matches(keyMsg, PickerKeys.Enter):
		if m.cursor == rowGenre && len(m.suggestions) > 0 && m.genre.Value() != "" {
			m.genre.SetValue(m.suggestions[0])
		}
		m.Hide()
		return m, nil, true
	case key.Matches(keyMsg, PickerKeys.Down):
		m.setCursor(m.cursor + 1)
		return m, nil, false
	case key.Matches(keyMsg, PickerKeys.Up):
		m.setCursor(m.cursor - 1)
		return m, nil, false
	case key.Matches(keyMsg, PickerKeys.Tab):
		if m.cursor == rowGenre && len(m.suggestions) > 0 {
			m.genre.SetValue(m.suggestions[0])
			m.genre.CursorEnd()
			m.refreshSuggestions()
			return m, nil, false
		}
		m.setCursor(m.cursor + 1)
		return m, nil, false
	}

	switch m.cursor {
	case rowGenre:
		var cmd tea.Cmd
		m.genre, cmd = m.genre.Update(msg)
		m.refreshSuggestions()
		return m, cmd, false
	case rowYear:
		switch {
		case key.Matches(keyMsg, PickerKeys.Right):
			m.yearIdx++
			if m.yearIdx >= len(m.years) {
				m.yearIdx = -1
			}
		case key.Matches(keyMsg, PickerKeys.Left):
			m.yearIdx--
			if m.yearIdx < -1 {
				m.yearIdx = len(m.years) - 1
			}
		}
	case rowAvailability:
		if key.Matches(keyMsg, PickerKeys.Right, PickerKeys.Left) || keyMsg.String() == " " {
			m.availability = m.availability.Next()
		}
	}
	return m, nil, false
}

func (m *FilterModal) setCursor(row int) {
	m.cursor = (row + rowCount) % rowCount
	if m.cursor == rowGenre {
		m.genre.Focus()
	} else {
		m.genre.Blur()
	}
}

func (m *FilterModal) refreshSuggestions() {
	if m.suggest == nil {
		m.suggestions = nil
		return
	}
	m.suggestions = m.suggest(m.genre.Value())
}

// View renders the modal
func (m FilterModal) View() string {
	if !m.visible {
		return ""
	}

	const width = 40
	row := func(i int, label, value string) string {
		text := styles.Pad(label, 14) + value
		style := lipgloss.NewStyle().Foreground(styles.LightGray)
		if i == m.cursor {
			style = lipgloss.NewStyle().Foreground(styles.White).Background(styles.SlateLight)
		}
		return style.Render(styles.Pad(text, width))
	}

	year := "any"
	if m.yearIdx >= 0 && m.yearIdx < len(m.years) {
		year = strconv.Itoa(m.years[m.yearIdx])
	}

	lines := []string{
		row(rowGenre, "Genre", m.genre.View()),
	}
	if m.cursor == rowGenre && len(m.suggestions) > 0 {
		shown := m.suggestions[:min(len(m.suggestions), 4)]
		lines = append(lines, styles.DimStyle.Render(styles.Pad("", 14)+strings.Join(shown, ", ")))
	}
	lines = append(lines,
		row(rowYear, "Year", "‹ "+year+" ›"),
		row(rowAvailability, "Availability", "‹ "+string(m.availability)+" ›"),
		"",
		styles.DimStyle.Render("tab complete · ←/→ change · enter apply"),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Amber).
		Background(styles.SlateDark).
		Padding(0, 1).
		Render(styles.ModalTitleStyle.Render("Filter books") + "\n" + strings.Join(lines, "\n"))
}
