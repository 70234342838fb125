package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

// Spinner frames for loading animation
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// SpinnerFrame returns the spinner glyph for frame n
func SpinnerFrame(n int) string {
	return spinnerFrames[n%len(spinnerFrames)]
}

// Layout constants for list panes
const (
	// Border adds 1 char on each side
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2
)

// BookList is a scrollable list of catalog books with an inline search bar.
// It only renders what it is given; the caller runs the catalog query and
// feeds the result back with SetBooks.
type BookList struct {
	books  []domain.Book
	inCart map[string]bool

	cursor     int
	offset     int
	maxVisible int

	width   int
	height  int
	focused bool
	title   string

	loading      bool
	spinnerFrame int

	searchActive bool
	searchInput  textinput.Model
}

// NewBookList creates an empty book list
func NewBookList(title string) *BookList {
	ti := textinput.New()
	ti.Placeholder = "title, author or ISBN..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return &BookList{
		title:       title,
		searchInput: ti,
		inCart:      make(map[string]bool),
	}
}

// Update handles navigation and search typing.
// queryChanged is true when the search text changed and the caller must re-filter.
func (c *BookList) Update(msg tea.Msg) (cmd tea.Cmd, queryChanged bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false
	}

	if c.searchActive && c.searchInput.Focused() {
		before := c.searchInput.Value()
		switch {
		case key.Matches(keyMsg, ListKeys.Escape):
			c.ClearSearch()
			return nil, before != ""
		case key.Matches(keyMsg, ListKeys.Enter):
			c.searchInput.Blur()
			return nil, false
		case keyMsg.Type == tea.KeyBackspace && before == "":
			c.ClearSearch()
			return nil, false
		}
		c.searchInput, cmd = c.searchInput.Update(msg)
		changed := c.searchInput.Value() != before
		if changed {
			c.cursor = 0
			c.offset = 0
		}
		return cmd, changed
	}

	if c.searchActive {
		switch {
		case key.Matches(keyMsg, ListKeys.Escape):
			c.ClearSearch()
			return nil, true
		case key.Matches(keyMsg, ListKeys.Filter):
			c.searchInput.Focus()
			return nil, false
		}
	}

	count := len(c.books)
	if count == 0 {
		return nil, false
	}

	switch {
	case key.Matches(keyMsg, ListKeys.Down):
		if c.cursor < count-1 {
			c.cursor++
			c.ensureVisible()
		}
	case key.Matches(keyMsg, ListKeys.Up):
		if c.cursor > 0 {
			c.cursor--
			c.ensureVisible()
		}
	case key.Matches(keyMsg, ListKeys.Home):
		c.cursor = 0
		c.offset = 0
	case key.Matches(keyMsg, ListKeys.End):
		c.cursor = count - 1
		c.ensureVisible()
	case key.Matches(keyMsg, ListKeys.HalfDown):
		c.cursor = min(c.cursor+c.maxVisible/2, count-1)
		c.ensureVisible()
	case key.Matches(keyMsg, ListKeys.HalfUp):
		c.cursor = max(c.cursor-c.maxVisible/2, 0)
		c.ensureVisible()
	}
	return nil, false
}

// StartSearch focuses the search bar
func (c *BookList) StartSearch() {
	c.searchActive = true
	c.searchInput.Focus()
	c.recalcMaxVisible()
}

// ClearSearch closes the search bar and drops the query
func (c *BookList) ClearSearch() {
	c.searchActive = false
	c.searchInput.SetValue("")
	c.searchInput.Blur()
	c.recalcMaxVisible()
}

// IsSearchTyping returns true while keystrokes go to the search bar
func (c *BookList) IsSearchTyping() bool {
	return c.searchActive && c.searchInput.Focused()
}

// Query returns the current search text
func (c *BookList) Query() string {
	return c.searchInput.Value()
}

// SetBooks replaces the rows, keeping the cursor on the same book when possible
func (c *BookList) SetBooks(books []domain.Book) {
	var selectedID string
	if b, ok := c.Selected(); ok {
		selectedID = b.ID
	}
	c.books = books
	c.loading = false
	c.cursor = 0
	for i, b := range books {
		if b.ID == selectedID {
			c.cursor = i
			break
		}
	}
	c.ensureVisible()
}

// SetInCart marks which book IDs are in the cart
func (c *BookList) SetInCart(ids map[string]bool) {
	c.inCart = ids
}

// SelectByID moves the cursor to the book with id
func (c *BookList) SelectByID(id string) bool {
	for i, b := range c.books {
		if b.ID == id {
			c.cursor = i
			c.ensureVisible()
			return true
		}
	}
	return false
}

// Selected returns the book under the cursor
func (c *BookList) Selected() (domain.Book, bool) {
	if c.cursor < 0 || c.cursor >= len(c.books) {
		return domain.Book{}, false
	}
	return c.books[c.cursor], true
}

func (c *BookList) Len() int { return len(c.books) }

func (c *BookList) SetLoading(loading bool) { c.loading = loading }

func (c *BookList) SetSpinnerFrame(frame int) { c.spinnerFrame = frame }

func (c *BookList) SetFocused(focused bool) { c.focused = focused }

func (c *BookList) SetTitle(title string) { c.title = title }

// SetSize updates the pane dimensions
func (c *BookList) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.searchInput.Width = max(width-BorderWidth-4, 10)
	c.recalcMaxVisible()
	c.ensureVisible()
}

func (c *BookList) recalcMaxVisible() {
	interior := c.height - BorderHeight
	c.maxVisible = interior - ScrollIndicatorLines - 1 // -1 for title
	if c.searchActive {
		c.maxVisible--
	}
	if c.maxVisible < 1 {
		c.maxVisible = 1
	}
}

func (c *BookList) ensureVisible() {
	if c.maxVisible <= 0 {
		return
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.maxVisible {
		c.offset = c.cursor - c.maxVisible + 1
	}
}

// View renders the pane
func (c *BookList) View() string {
	style := styles.InactiveBorder
	if c.focused {
		style = styles.ActiveBorder
	}
	return style.
		Width(max(c.width-BorderWidth, 0)).
		Height(max(c.height-BorderHeight, 0)).
		Render(c.renderContent())
}

func (c *BookList) renderContent() string {
	itemWidth := max(c.width-BorderWidth, 10)
	titleLine := styles.AccentStyle.Render(styles.Truncate(
		fmt.Sprintf("%s (%d)", c.title, len(c.books)), itemWidth))

	if c.loading && len(c.books) == 0 {
		loadingLine := styles.DimStyle.Render(SpinnerFrame(c.spinnerFrame) + " Loading...")
		return lipgloss.JoinVertical(lipgloss.Left, titleLine, " ", loadingLine)
	}

	if len(c.books) == 0 {
		empty := "No books"
		if c.Query() != "" {
			empty = "No matches"
		}
		lines := []string{titleLine, " ", styles.DimStyle.Render(empty)}
		if c.searchActive {
			lines = append(lines, c.searchInput.View())
		}
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	end := min(c.offset+c.maxVisible, len(c.books))

	header := " "
	if c.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < len(c.books) {
		footer = styles.DimStyle.Render("↓ more")
	}

	lines := []string{titleLine, header}
	for i := c.offset; i < end; i++ {
		lines = append(lines, c.renderBook(c.books[i], i == c.cursor, itemWidth))
	}
	lines = append(lines, footer)
	if c.searchActive {
		lines = append(lines, c.searchInput.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (c *BookList) renderBook(b domain.Book, selected bool, width int) string {
	dot := styles.AvailableChar
	dotColor := styles.Green
	if !b.Available {
		dot = styles.UnavailableChar
		dotColor = styles.DimGray
	}

	marker := "  "
	if c.inCart[b.ID] {
		marker = " +"
	}

	year := b.DisplayYear()
	titleWidth := width - 4 - len(marker) - len(year) - 2
	title := styles.Truncate(b.Title, max(titleWidth, 5))
	gap := max(titleWidth-lipgloss.Width(title), 1)

	amber := styles.Amber
	dim := styles.DimGray
	parts := []styles.RowPart{
		{Text: dot + " ", Foreground: &dotColor},
		{Text: title + spaces(gap)},
		{Text: year, Foreground: &dim},
		{Text: marker, Foreground: &amber},
	}
	return styles.RenderListRow(parts, selected, width)
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
