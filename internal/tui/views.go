package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/tui/components"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

// View renders the model
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	// Handle modal states
	switch m.State {
	case StateHelp:
		return m.renderHelp()
	case StateConfirmLogout:
		return m.renderConfirm("Sign out?", "Your borrowing list stays on the server.")
	case StateConfirmBorrow:
		n := m.BorrowingQ.Len()
		return m.renderConfirm(
			fmt.Sprintf("Borrow %d %s?", n, pluralize(n, "book", "books")),
			"Each book is borrowed in order; a failure stops the rest.",
		)
	case StateConfirmDeleteBook:
		return m.renderConfirm("Delete book?", "ISBN "+m.editingISBN+" will be removed from the catalog.")
	case StateConfirmDeleteAccount:
		return m.renderConfirm("Delete your account?", "This cannot be undone.")
	}

	if m.Form.IsVisible() {
		return m.overlay(m.Form.View())
	}
	if m.FilterModal.IsVisible() {
		return m.overlay(m.FilterModal.View())
	}
	if m.Jump.IsVisible() {
		return m.Jump.View()
	}

	var body string
	switch m.Screen {
	case ScreenCart:
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.CartPane.View(), m.Inspector.View())
	case ScreenProfile:
		body = m.renderProfile()
	default:
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.Books.View(), m.Inspector.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderFooter(),
	)
}

func (m Model) overlay(modal string) string {
	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		modal)
}

// renderHeader renders the screen tabs and the signed-in user
func (m Model) renderHeader() string {
	var tabs []string
	for i, s := range []Screen{ScreenCatalog, ScreenCart, ScreenProfile} {
		label := fmt.Sprintf("%d %s", i+1, s)
		if s == ScreenCart {
			if n := m.BorrowingQ.Len(); n > 0 {
				label += fmt.Sprintf(" (%d)", n)
			}
		}
		if s == m.Screen {
			tabs = append(tabs, styles.BadgeStyle.Render(label))
		} else {
			tabs = append(tabs, styles.DimBadgeStyle.Render(label))
		}
	}
	left := strings.Join(tabs, " ")

	var right string
	if sess, ok := m.SessionSvc.Current(); ok {
		right = styles.SubtitleStyle.Render(sess.Name)
		if sess.IsAdmin() {
			right += " " + styles.AccentStyle.Render("admin")
		}
	} else {
		right = styles.DimStyle.Render("not signed in · ") + styles.AccentStyle.Render("s") + styles.DimStyle.Render(" sign in")
	}

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderFooter() string {
	// Left side: spinner while requests are in flight, else the latest notice
	var left string
	if m.Tracker.Busy() {
		left = components.SpinnerFrame(m.SpinnerFrame) + " " + styles.DimStyle.Render("Working...")
	}
	if m.StatusMsg != "" {
		if left != "" {
			left += " "
		}
		switch m.StatusLevel {
		case domain.NoticeError:
			left += styles.ErrorStyle.Render(m.StatusMsg)
		case domain.NoticeSuccess:
			left += styles.SuccessStyle.Render(m.StatusMsg)
		default:
			left += styles.InfoStyle.Render(m.StatusMsg)
		}
	}

	// Center section: context-specific hints
	var hints []string
	switch m.Screen {
	case ScreenCatalog:
		hints = []string{"a", "add", "/", "search", "f", "filter"}
		if m.isAdmin() {
			hints = append(hints, "n", "new", "e", "edit")
		}
	case ScreenCart:
		hints = []string{"+/-", "copies", "x", "remove", "b", "borrow"}
	case ScreenProfile:
		if m.signedIn() {
			hints = []string{"e", "edit", "D", "delete"}
		}
	}
	var center string
	for i := 0; i+1 < len(hints); i += 2 {
		if center != "" {
			center += "  "
		}
		center += styles.AccentStyle.Render(hints[i]) + styles.DimStyle.Render(" "+hints[i+1])
	}

	// Right side: "? help" hint
	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		// Not enough space - just left + right
		gap := m.Width - leftWidth - rightWidth
		if gap < 0 {
			gap = 0
		}
		return left + strings.Repeat(" ", gap) + right
	}

	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

// renderProfile renders the account screen
func (m Model) renderProfile() string {
	height := m.Height - ChromeHeight
	width := m.Width - components.BorderWidth

	var lines []string
	switch {
	case !m.signedIn():
		lines = append(lines, styles.DimStyle.Render("Sign in to see your profile."))
	case m.Profile == nil:
		lines = append(lines, styles.DimStyle.Render("Loading profile..."))
	default:
		p := m.Profile
		row := func(label, value string) string {
			return styles.DimStyle.Render(styles.Pad(label, 10)) + styles.TitleStyle.Render(value)
		}
		lines = append(lines,
			row("Name", p.Name),
			row("Email", p.Email),
			row("Role", string(p.Role)),
		)
		if !p.CreatedAt.IsZero() {
			lines = append(lines, row("Joined", p.CreatedAt.Format("Jan 2, 2006")))
		}
		lines = append(lines, "",
			row("On list", fmt.Sprintf("%d %s, %d %s",
				m.BorrowingQ.Len(), pluralize(m.BorrowingQ.Len(), "book", "books"),
				m.BorrowingQ.Copies(), pluralize(m.BorrowingQ.Copies(), "copy", "copies"))),
		)
	}

	return styles.ActiveBorder.
		Width(max(width, 0)).
		Height(max(height-components.BorderHeight, 0)).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
NAVIGATION                      BORROWING LIST
  j/k        Up/down               a/Enter  Add book to list
  g/G        First/last item       +/-      More/fewer copies
  Ctrl+u/d   Half page             x        Remove from list
  Tab        Next screen           b        Borrow everything
  1/2/3      Catalog/list/profile

CATALOG                         ACCOUNT
  /          Search                s        Sign in (C-n: create account)
  t          Jump to title         e        Edit profile
  f          Filter                D        Delete account
  F          Clear filters         L        Sign out
  v          Cycle availability
  r          Refresh             ADMIN
                                   n/e/X    New/edit/delete book
  q          Quit
  ?          This help

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}

// renderConfirm renders a yes/no confirmation modal
func (m Model) renderConfirm(title, detail string) string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		styles.ModalTitleStyle.Render(title),
		styles.SubtitleStyle.Render(detail),
		"",
		styles.AccentStyle.Render("[Y]")+styles.DimStyle.Render(" Yes      ")+
			styles.AccentStyle.Render("[N]")+styles.DimStyle.Render(" No"),
	)

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(body))
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
