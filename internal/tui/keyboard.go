package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/tui/components"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle state-specific keys
	switch m.State {
	case StateHelp:
		m.State = StateBrowsing
		return m, nil

	case StateConfirmLogout:
		switch {
		case key.Matches(msg, Keys.Confirm):
			m.State = StateBrowsing
			return m, LogoutCmd(m.SessionSvc)
		case key.Matches(msg, Keys.Deny):
			m.State = StateBrowsing
		}
		return m, nil

	case StateConfirmBorrow:
		switch {
		case key.Matches(msg, Keys.Confirm):
			m.State = StateBrowsing
			return m, ConfirmBorrowingCmd(m.BorrowingCmds, m.mount, m.BorrowingQ.Len())
		case key.Matches(msg, Keys.Deny):
			m.State = StateBrowsing
		}
		return m, nil

	case StateConfirmDeleteBook:
		switch {
		case key.Matches(msg, Keys.Confirm):
			m.State = StateBrowsing
			return m, DeleteBookCmd(m.CatalogCmds, m.mount, m.editingISBN)
		case key.Matches(msg, Keys.Deny):
			m.State = StateBrowsing
		}
		return m, nil

	case StateConfirmDeleteAccount:
		switch {
		case key.Matches(msg, Keys.Confirm):
			m.State = StateBrowsing
			return m, DeleteAccountCmd(m.ProfileSvc, m.mount)
		case key.Matches(msg, Keys.Deny):
			m.State = StateBrowsing
		}
		return m, nil
	}

	// Route to active modal if any
	if handled, newModel, cmd := m.routeToModal(msg); handled {
		return newModel, cmd
	}

	// Search typing owns the keyboard
	if m.Screen == ScreenCatalog && m.Books.IsSearchTyping() {
		return m.updateBookList(msg)
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		m.mount.Unmount()
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.NextScreen):
		next := (m.Screen + 1) % 3
		return m.openScreen(next)

	case key.Matches(msg, Keys.Catalog):
		return m.openScreen(ScreenCatalog)

	case key.Matches(msg, Keys.Cart):
		return m.openScreen(ScreenCart)

	case key.Matches(msg, Keys.Profile):
		return m.openScreen(ScreenProfile)

	case key.Matches(msg, Keys.Login):
		if !m.signedIn() {
			m.showLoginForm("")
		}
		return m, nil

	case key.Matches(msg, Keys.Logout):
		if m.signedIn() {
			m.State = StateConfirmLogout
		}
		return m, nil
	}

	switch m.Screen {
	case ScreenCart:
		return m.handleCartKeys(msg)
	case ScreenProfile:
		return m.handleProfileKeys(msg)
	default:
		return m.handleCatalogKeys(msg)
	}
}

// routeToModal sends keys to the visible modal. Returns handled=true if a modal consumed the key.
func (m Model) routeToModal(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	var cmd tea.Cmd

	if m.Form.IsVisible() {
		if m.formKind == formLogin && key.Matches(msg, Keys.Register) {
			m.showRegisterForm()
			return true, m, nil
		}
		var submitted bool
		m.Form, cmd, submitted = m.Form.Update(msg)
		if submitted {
			submit := m.submitForm()
			return true, m, tea.Batch(cmd, submit)
		}
		if !m.Form.IsVisible() {
			m.formKind = formNone
		}
		return true, m, cmd
	}

	if m.Jump.IsVisible() {
		var selected bool
		m.Jump, cmd, selected = m.Jump.Update(msg)
		if m.Jump.QueryChanged() {
			m.Jump.SetResults(m.CatalogQ.Rank(m.Jump.Query()))
		}
		if selected {
			if book, ok := m.Jump.Selected(); ok {
				m.Jump.Hide()
				m.jumpTo(book)
			}
		}
		return true, m, cmd
	}

	if m.FilterModal.IsVisible() {
		var applied bool
		m.FilterModal, cmd, applied = m.FilterModal.Update(msg)
		if applied {
			m.Filter = m.FilterModal.Filter()
			m.FilterModal.Hide()
			m.refreshViews()
		}
		return true, m, cmd
	}

	return false, m, nil
}

func (m Model) openScreen(s Screen) (tea.Model, tea.Cmd) {
	m.switchScreen(s)
	if s == ScreenProfile && m.signedIn() && m.Profile == nil {
		return m, LoadProfileCmd(m.ProfileSvc, m.mount)
	}
	return m, nil
}

func (m Model) handleCatalogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Escape):
		if m.Books.Query() != "" {
			m.Books.ClearSearch()
			m.refreshViews()
		}
		return m, nil

	case key.Matches(msg, Keys.Search):
		m.Books.StartSearch()
		return m, nil

	case key.Matches(msg, Keys.Jump):
		m.Jump.Show()
		m.Jump.SetSize(m.Width, m.Height)
		m.Jump.SetResults(m.CatalogQ.Rank(""))
		return m, m.Jump.Init()

	case key.Matches(msg, Keys.Filter):
		m.FilterModal.Show(m.Filter, m.CatalogQ.Years(), m.CatalogQ.SuggestGenre)
		return m, nil

	case key.Matches(msg, Keys.ClearFilter):
		m.Filter = domain.BookFilter{Availability: domain.AvailabilityAll}
		m.refreshViews()
		return m, nil

	case key.Matches(msg, Keys.Availability):
		m.Filter.Availability = m.Filter.Availability.Next()
		m.refreshViews()
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		m.Books.SetLoading(true)
		cmds := []tea.Cmd{FetchCatalogCmd(m.CatalogCmds, m.mount)}
		if m.signedIn() {
			cmds = append(cmds, FetchBorrowingListCmd(m.BorrowingCmds, m.mount))
		}
		return m, tea.Batch(cmds...)

	case key.Matches(msg, Keys.Add):
		if book, ok := m.Books.Selected(); ok {
			return m, AddToListCmd(m.BorrowingCmds, m.mount, book)
		}
		return m, nil

	case key.Matches(msg, Keys.NewBook):
		if m.isAdmin() {
			m.showBookForm("New book", domain.Book{Available: true})
			m.formKind = formNewBook
		}
		return m, nil

	case key.Matches(msg, Keys.EditBook):
		if book, ok := m.Books.Selected(); ok && m.isAdmin() {
			m.showBookForm("Edit book", book)
			m.formKind = formEditBook
			m.editingISBN = book.ISBN
		}
		return m, nil

	case key.Matches(msg, Keys.DeleteBook):
		if book, ok := m.Books.Selected(); ok && m.isAdmin() {
			m.editingISBN = book.ISBN
			m.State = StateConfirmDeleteBook
		}
		return m, nil
	}

	return m.updateBookList(msg)
}

func (m Model) updateBookList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd, queryChanged := m.Books.Update(msg)
	if queryChanged {
		m.refreshViews()
	}
	m.updateInspector()
	return m, cmd
}

func (m Model) handleCartKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	item, hasItem := m.CartPane.Selected()

	switch {
	case key.Matches(msg, Keys.Increase):
		if hasItem {
			m.Cart.Increase(item.Book.ID)
			m.refreshViews()
		}
		return m, nil

	case key.Matches(msg, Keys.Decrease):
		if hasItem {
			m.Cart.Decrease(item.Book.ID)
			m.refreshViews()
		}
		return m, nil

	case key.Matches(msg, Keys.Remove):
		if hasItem {
			return m, RemoveFromListCmd(m.BorrowingCmds, m.mount, item.Book.ISBN)
		}
		return m, nil

	case key.Matches(msg, Keys.Borrow):
		if m.BorrowingQ.Len() == 0 {
			// Let the service produce the empty-list notice
			return m, ConfirmBorrowingCmd(m.BorrowingCmds, m.mount, 0)
		}
		m.State = StateConfirmBorrow
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		return m, FetchBorrowingListCmd(m.BorrowingCmds, m.mount)
	}

	cmd := m.CartPane.Update(msg)
	m.updateInspector()
	return m, cmd
}

func (m Model) handleProfileKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.signedIn() {
		return m, nil
	}

	switch {
	case key.Matches(msg, Keys.EditProfile):
		p := m.Profile
		if p == nil {
			p = &domain.UserProfile{}
		}
		m.Form.Show("Edit profile", []components.FormField{
			{Label: "Name", Value: p.Name},
			{Label: "Email", Value: p.Email},
			{Label: "New password", Placeholder: "leave blank to keep", Secret: true},
		})
		m.formKind = formProfile
		return m, nil

	case key.Matches(msg, Keys.DeleteAccount):
		m.State = StateConfirmDeleteAccount
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		return m, LoadProfileCmd(m.ProfileSvc, m.mount)
	}
	return m, nil
}

// jumpTo clears narrowing that would hide the book, then selects it
func (m *Model) jumpTo(book domain.Book) {
	m.switchScreen(ScreenCatalog)
	if !m.Filter.Matches(book) || !domain.MatchesQuery(book, m.Books.Query()) {
		m.Filter = domain.BookFilter{Availability: domain.AvailabilityAll}
		m.Books.ClearSearch()
		m.refreshViews()
	}
	m.Books.SelectByID(book.ID)
	m.updateInspector()
}

func (m *Model) showLoginForm(email string) {
	m.Form.Show("Sign in", []components.FormField{
		{Label: "Email", Value: email, Placeholder: "you@example.com"},
		{Label: "Password", Secret: true},
	})
	m.Form.SetHint("")
	m.formKind = formLogin
}

func (m *Model) showRegisterForm() {
	m.Form.Show("Create account", []components.FormField{
		{Label: "Name"},
		{Label: "Email", Placeholder: "you@example.com"},
		{Label: "Password", Secret: true},
	})
	m.formKind = formRegister
}

func (m *Model) showBookForm(title string, b domain.Book) {
	available := "yes"
	if !b.Available {
		available = "no"
	}
	m.Form.Show(title, []components.FormField{
		{Label: "Title", Value: b.Title},
		{Label: "Author", Value: b.Author},
		{Label: "ISBN", Value: b.ISBN},
		{Label: "Genre", Value: b.Genre},
		{Label: "Year", Value: b.DisplayYear()},
		{Label: "Available (yes/no)", Value: available},
		{Label: "Cover image", Value: b.CoverImage, Placeholder: "https://..."},
	})
}

// submitForm dispatches the open form's values
func (m *Model) submitForm() tea.Cmd {
	values := m.Form.Values()

	switch m.formKind {
	case formLogin:
		return LoginCmd(m.SessionSvc, strings.TrimSpace(values[0]), values[1])

	case formRegister:
		return RegisterCmd(m.SessionSvc, values[0], values[1], values[2])

	case formNewBook, formEditBook:
		in, err := parseBookForm(values)
		if err != nil {
			m.Form.SetHint(formHint(err))
			return nil
		}
		kind := m.formKind
		m.Form.Hide()
		m.formKind = formNone
		if kind == formNewBook {
			return SaveBookCmd(m.CatalogCmds, m.mount, in)
		}
		return UpdateBookCmd(m.CatalogCmds, m.mount, m.editingISBN, in)

	case formProfile:
		update := domain.ProfileUpdate{Password: values[2]}
		if m.Profile == nil || values[0] != m.Profile.Name {
			update.Name = values[0]
		}
		if m.Profile == nil || values[1] != m.Profile.Email {
			update.Email = values[1]
		}
		m.Form.Hide()
		m.formKind = formNone
		return UpdateProfileCmd(m.ProfileSvc, m.mount, update)
	}
	return nil
}

// parseBookForm reads the admin book form (title, author, isbn, genre, year, available, cover)
func parseBookForm(values []string) (domain.BookInput, error) {
	in := domain.BookInput{
		Title:      strings.TrimSpace(values[0]),
		Author:     strings.TrimSpace(values[1]),
		ISBN:       strings.TrimSpace(values[2]),
		Genre:      strings.TrimSpace(values[3]),
		CoverImage: strings.TrimSpace(values[6]),
	}

	if y := strings.TrimSpace(values[4]); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			return in, fmt.Errorf("year must be a number")
		}
		in.PublicationYear = year
	}

	switch strings.ToLower(strings.TrimSpace(values[5])) {
	case "", "y", "yes", "true":
		in.Available = true
	case "n", "no", "false":
		in.Available = false
	default:
		return in, fmt.Errorf("available must be yes or no")
	}
	return in, nil
}
