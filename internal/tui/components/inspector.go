package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

// Inspector displays the details of the selected book
type Inspector struct {
	book       *domain.Book
	inCart     int
	showCovers bool
	width      int
	height     int
}

// NewInspector creates a new inspector component
func NewInspector(showCovers bool) Inspector {
	return Inspector{showCovers: showCovers}
}

// SetBook sets the book to display; count is its cart count (0 if absent)
func (i *Inspector) SetBook(b *domain.Book, count int) {
	i.book = b
	i.inCart = count
}

// SetSize updates the component dimensions
func (i *Inspector) SetSize(width, height int) {
	i.width = width
	i.height = height
}

// View renders the component
func (i Inspector) View() string {
	style := styles.InactiveBorder
	contentWidth := max(i.width-3, 10)

	lines := []string{styles.AccentStyle.Render("Info"), ""}
	if i.book == nil {
		lines = append(lines, styles.DimStyle.Render("No book selected"))
	} else {
		lines = append(lines, i.renderBook(*i.book, contentWidth)...)
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(max(i.width-frameW, 0)).
		Height(max(i.height-frameH, 0)).
		Render(strings.Join(lines, "\n"))
}

func (i Inspector) renderBook(b domain.Book, width int) []string {
	title := lipgloss.NewStyle().Width(width).Render(styles.TitleStyle.Render(b.Title))
	lines := []string{title}
	if b.Author != "" {
		lines = append(lines, styles.SubtitleStyle.Render("by "+b.Author))
	}
	lines = append(lines, "")

	field := func(label, value string) {
		if value == "" {
			return
		}
		lines = append(lines, styles.DimStyle.Render(fmt.Sprintf("%-10s", label))+value)
	}
	field("ISBN", b.ISBN)
	field("Genre", b.Genre)
	field("Year", b.DisplayYear())
	field("Rating", b.FormattedRating())
	if i.showCovers {
		field("Cover", styles.Truncate(b.CoverImage, width-10))
	}
	lines = append(lines, "")

	if b.Available {
		lines = append(lines, styles.SuccessStyle.Render(styles.AvailableChar+" Available"))
	} else {
		lines = append(lines, styles.DimStyle.Render(styles.UnavailableChar+" Checked out"))
	}
	if i.inCart > 0 {
		lines = append(lines, styles.AccentStyle.Render(fmt.Sprintf("In your borrowing list (×%d)", i.inCart)))
	}
	return lines
}
