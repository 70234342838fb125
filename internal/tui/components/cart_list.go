package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/shelf/internal/cart"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

// CartList renders the borrowing list with per-book counts
type CartList struct {
	items []cart.Item

	cursor     int
	offset     int
	maxVisible int

	width   int
	height  int
	focused bool
}

// NewCartList creates an empty cart pane
func NewCartList() *CartList {
	return &CartList{}
}

// SetItems replaces the rows, clamping the cursor
func (c *CartList) SetItems(items []cart.Item) {
	c.items = items
	if c.cursor >= len(items) {
		c.cursor = max(len(items)-1, 0)
	}
	c.ensureVisible()
}

// Selected returns the item under the cursor
func (c *CartList) Selected() (cart.Item, bool) {
	if c.cursor < 0 || c.cursor >= len(c.items) {
		return cart.Item{}, false
	}
	return c.items[c.cursor], true
}

func (c *CartList) Len() int { return len(c.items) }

func (c *CartList) SetFocused(focused bool) { c.focused = focused }

// SetSize updates the pane dimensions
func (c *CartList) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.maxVisible = max(height-BorderHeight-ScrollIndicatorLines-2, 1) // title + total line
	c.ensureVisible()
}

// Update handles cursor movement
func (c *CartList) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(c.items) == 0 {
		return nil
	}
	switch {
	case key.Matches(keyMsg, ListKeys.Down):
		if c.cursor < len(c.items)-1 {
			c.cursor++
		}
	case key.Matches(keyMsg, ListKeys.Up):
		if c.cursor > 0 {
			c.cursor--
		}
	case key.Matches(keyMsg, ListKeys.Home):
		c.cursor = 0
	case key.Matches(keyMsg, ListKeys.End):
		c.cursor = len(c.items) - 1
	}
	c.ensureVisible()
	return nil
}

func (c *CartList) ensureVisible() {
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
func (c *CartList) View() string {
	style := styles.InactiveBorder
	if c.focused {
		style = styles.ActiveBorder
	}

	width := max(c.width-BorderWidth, 10)
	copies := 0
	for _, it := range c.items {
		copies += it.Count
	}

	lines := []string{styles.AccentStyle.Render(styles.Truncate(
		fmt.Sprintf("Borrowing list (%d)", len(c.items)), width))}

	if len(c.items) == 0 {
		lines = append(lines, " ", styles.DimStyle.Render("Nothing here yet. Press a on a book to add it."))
	} else {
		end := min(c.offset+c.maxVisible, len(c.items))
		header := " "
		if c.offset > 0 {
			header = styles.DimStyle.Render("↑ more")
		}
		lines = append(lines, header)
		for i := c.offset; i < end; i++ {
			lines = append(lines, c.renderItem(c.items[i], i == c.cursor, width))
		}
		footer := " "
		if end < len(c.items) {
			footer = styles.DimStyle.Render("↓ more")
		}
		lines = append(lines, footer, styles.SubtitleStyle.Render(fmt.Sprintf("%d copies in total", copies)))
	}

	return style.
		Width(max(c.width-BorderWidth, 0)).
		Height(max(c.height-BorderHeight, 0)).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (c *CartList) renderItem(it cart.Item, selected bool, width int) string {
	count := fmt.Sprintf("×%d", it.Count)
	titleWidth := width - lipgloss.Width(count) - 4
	title := styles.Truncate(it.Book.Title, max(titleWidth, 5))
	gap := max(titleWidth-lipgloss.Width(title), 1)

	amber := styles.Amber
	return styles.RenderListRow([]styles.RowPart{
		{Text: title + spaces(gap)},
		{Text: count, Foreground: &amber},
	}, selected, width)
}
