package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/shelf/internal/activity"
	"github.com/mmcdole/shelf/internal/borrowing"
	"github.com/mmcdole/shelf/internal/cart"
	"github.com/mmcdole/shelf/internal/catalog"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/profile"
	"github.com/mmcdole/shelf/internal/session"
	"github.com/mmcdole/shelf/internal/tui/components"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
	StateConfirmLogout
	StateConfirmBorrow
	StateConfirmDeleteBook
	StateConfirmDeleteAccount
)

// Screen is the top-level view shown in the body
type Screen int

const (
	ScreenCatalog Screen = iota
	ScreenCart
	ScreenProfile
)

func (s Screen) String() string {
	switch s {
	case ScreenCart:
		return "Borrowing list"
	case ScreenProfile:
		return "Profile"
	default:
		return "Catalog"
	}
}

// formKind identifies what the open form submits to
type formKind int

const (
	formNone formKind = iota
	formLogin
	formRegister
	formNewBook
	formEditBook
	formProfile
)

// Layout constants
const (
	// Header and footer, one line each
	ChromeHeight = 2

	ListColumnPercent = 55
	MinColumnWidth    = 24

	spinnerInterval = 100 * time.Millisecond
)

// Services bundles what the model drives
type Services struct {
	Session        *session.Service
	CatalogCmds    domain.CatalogCommands
	CatalogQueries *catalog.Queries
	BorrowingCmds  domain.BorrowingCommands
	Borrowing      *borrowing.Queries
	Cart           *cart.Cart
	Profiles       *profile.Service
	Tracker        *activity.Tracker
}

// Options are UI settings from config
type Options struct {
	NoticeTTL  time.Duration
	ShowCovers bool
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State  ApplicationState
	Screen Screen
	Ready  bool

	// Services
	SessionSvc    *session.Service
	CatalogCmds   domain.CatalogCommands
	CatalogQ      *catalog.Queries
	BorrowingCmds domain.BorrowingCommands
	BorrowingQ    *borrowing.Queries
	Cart          *cart.Cart
	ProfileSvc    *profile.Service
	Tracker       *activity.Tracker

	// UI Components
	Books       *components.BookList
	CartPane    *components.CartList
	Inspector   components.Inspector
	Jump        components.Jump
	FilterModal components.FilterModal
	Form        components.Form
	formKind    formKind
	editingISBN string

	// Data
	Filter  domain.BookFilter
	Profile *domain.UserProfile

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusLevel  domain.NoticeLevel
	statusSeq    int
	SpinnerFrame int

	notices   <-chan domain.Notice
	noticeTTL time.Duration

	// mount is replaced whenever the signed-in view is torn down
	mount *activity.Mount
}

// NewModel creates a new application model
func NewModel(svcs Services, notices <-chan domain.Notice, opts Options) Model {
	if opts.NoticeTTL <= 0 {
		opts.NoticeTTL = 4 * time.Second
	}
	if svcs.Tracker == nil {
		svcs.Tracker = activity.NewTracker(nil)
	}

	m := Model{
		State:         StateBrowsing,
		Screen:        ScreenCatalog,
		SessionSvc:    svcs.Session,
		CatalogCmds:   svcs.CatalogCmds,
		CatalogQ:      svcs.CatalogQueries,
		BorrowingCmds: svcs.BorrowingCmds,
		BorrowingQ:    svcs.Borrowing,
		Cart:          svcs.Cart,
		ProfileSvc:    svcs.Profiles,
		Tracker:       svcs.Tracker,
		Books:         components.NewBookList("Catalog"),
		CartPane:      components.NewCartList(),
		Inspector:     components.NewInspector(opts.ShowCovers),
		Jump:          components.NewJump(),
		FilterModal:   components.NewFilterModal(),
		Form:          components.NewForm(),
		Filter:        domain.BookFilter{Availability: domain.AvailabilityAll},
		notices:       notices,
		noticeTTL:     opts.NoticeTTL,
		mount:         activity.NewMount(),
	}
	m.Books.SetFocused(true)
	m.Books.SetLoading(true)

	if _, ok := m.SessionSvc.Current(); !ok {
		m.showLoginForm("")
	}
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		FetchCatalogCmd(m.CatalogCmds, m.mount),
		TickCmd(spinnerInterval),
		WaitForNoticeCmd(m.notices),
	}
	if m.signedIn() {
		// The list is fetched once the restored tokens are rotated
		cmds = append(cmds, RefreshSessionCmd(m.SessionSvc))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		m.Books.SetSpinnerFrame(m.SpinnerFrame)
		return m, TickCmd(spinnerInterval)

	case NoticeMsg:
		cmds = append(cmds, WaitForNoticeCmd(m.notices))
		cmds = append(cmds, m.setStatus(msg.Notice.Message, msg.Notice.Level))
		switch msg.Notice.Route {
		case domain.RouteLogin:
			m.resetSession()
			m.showLoginForm("")
		case domain.RouteCatalog:
			m.switchScreen(ScreenCatalog)
		}
		m.refreshViews()
		return m, tea.Batch(cmds...)

	case CatalogLoadedMsg, CatalogChangedMsg:
		m.Books.SetLoading(false)
		m.refreshViews()
		return m, nil

	case BorrowingListLoadedMsg, CartChangedMsg, BorrowConfirmedMsg:
		m.refreshViews()
		return m, nil

	case OpFailedMsg:
		// The service already emitted the user-facing notice
		m.Books.SetLoading(false)
		m.refreshViews()
		return m, nil

	case LoginSuccessMsg:
		m.Form.Hide()
		m.formKind = formNone
		m.Profile = nil
		cmds = append(cmds,
			m.setStatus("Signed in as "+msg.Session.Name+".", domain.NoticeSuccess),
			FetchBorrowingListCmd(m.BorrowingCmds, m.mount),
		)
		return m, tea.Batch(cmds...)

	case SessionRefreshedMsg:
		if m.signedIn() {
			return m, FetchBorrowingListCmd(m.BorrowingCmds, m.mount)
		}
		if m.Form.IsVisible() && m.formKind == formLogin {
			return m, nil
		}
		m.resetSession()
		m.showLoginForm("")
		m.refreshViews()
		cmd := m.setStatus("Your session has ended. Please sign in again.", domain.NoticeError)
		return m, cmd

	case RegisteredMsg:
		m.showLoginForm(msg.Email)
		cmd := m.setStatus("Account created. Sign in to continue.", domain.NoticeSuccess)
		return m, cmd

	case FormErrorMsg:
		m.Form.SetHint(formHint(msg.Err))
		return m, nil

	case LoggedOutMsg:
		m.resetSession()
		m.showLoginForm("")
		m.refreshViews()
		cmd := m.setStatus("Signed out.", domain.NoticeInfo)
		return m, cmd

	case ProfileLoadedMsg:
		m.Profile = msg.Profile
		return m, nil

	case ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.StatusMsg = ""
		}
		return m, nil
	}

	// Forward non-key messages (cursor blink) to the active text input
	var cmd tea.Cmd
	switch {
	case m.Form.IsVisible():
		m.Form, cmd, _ = m.Form.Update(msg)
	case m.Jump.IsVisible():
		m.Jump, cmd, _ = m.Jump.Update(msg)
	case m.FilterModal.IsVisible():
		m.FilterModal, cmd, _ = m.FilterModal.Update(msg)
	}
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) signedIn() bool {
	_, ok := m.SessionSvc.Current()
	return ok
}

func (m Model) isAdmin() bool {
	return m.SessionSvc.IsAdmin()
}

// setStatus shows a message in the footer and schedules its removal
func (m *Model) setStatus(msg string, level domain.NoticeLevel) tea.Cmd {
	m.statusSeq++
	m.StatusMsg = msg
	m.StatusLevel = level
	ttl := m.noticeTTL
	if level == domain.NoticeError {
		ttl *= 2
	}
	return ClearStatusCmd(ttl, m.statusSeq)
}

// resetSession unmounts in-flight work and drops per-user state
func (m *Model) resetSession() {
	m.mount.Unmount()
	m.mount = activity.NewMount()
	m.Profile = nil
	if m.Cart != nil {
		m.Cart.Clear()
	}
	m.State = StateBrowsing
	m.switchScreen(ScreenCatalog)
}

func (m *Model) switchScreen(s Screen) {
	m.Screen = s
	m.Books.SetFocused(s == ScreenCatalog)
	m.CartPane.SetFocused(s == ScreenCart)
	m.updateInspector()
}

// refreshViews re-reads the caches into the components
func (m *Model) refreshViews() {
	m.Books.SetBooks(m.CatalogQ.Filter(m.Books.Query(), m.Filter))
	m.Books.SetTitle(m.catalogTitle())

	items := m.BorrowingQ.Items()
	m.CartPane.SetItems(items)
	inCart := make(map[string]bool, len(items))
	for _, it := range items {
		inCart[it.Book.ID] = true
	}
	m.Books.SetInCart(inCart)
	m.updateInspector()
}

func (m Model) catalogTitle() string {
	if m.Filter.IsZero() {
		return "Catalog"
	}
	var parts []string
	if m.Filter.Genre != "" {
		parts = append(parts, m.Filter.Genre)
	}
	if m.Filter.Year != "" {
		parts = append(parts, m.Filter.Year)
	}
	if m.Filter.Availability != "" && m.Filter.Availability != domain.AvailabilityAll {
		parts = append(parts, string(m.Filter.Availability))
	}
	return "Catalog · " + strings.Join(parts, " · ")
}

// updateInspector shows the item under the cursor of the active screen
func (m *Model) updateInspector() {
	switch m.Screen {
	case ScreenCart:
		if it, ok := m.CartPane.Selected(); ok {
			b := it.Book
			m.Inspector.SetBook(&b, it.Count)
			return
		}
	case ScreenCatalog:
		if b, ok := m.Books.Selected(); ok {
			count := 0
			if it, found := m.Cart.Find(b.ID); found {
				count = it.Count
			}
			m.Inspector.SetBook(&b, count)
			return
		}
	}
	m.Inspector.SetBook(nil, 0)
}

// updateLayout sizes the panes for the current window
func (m *Model) updateLayout() {
	contentHeight := m.Height - ChromeHeight
	if contentHeight < 1 {
		contentHeight = 1
	}
	leftWidth := m.Width * ListColumnPercent / 100
	if leftWidth < MinColumnWidth {
		leftWidth = MinColumnWidth
	}
	rightWidth := m.Width - leftWidth
	if rightWidth < 0 {
		rightWidth = 0
	}

	m.Books.SetSize(leftWidth, contentHeight)
	m.CartPane.SetSize(leftWidth, contentHeight)
	m.Inspector.SetSize(rightWidth, contentHeight)
	m.Jump.SetSize(m.Width, m.Height)
}

// formHint turns a form submission error into one short line
func formHint(err error) string {
	msg := err.Error()
	if head, _, ok := strings.Cut(msg, ": "); ok {
		msg = head
	}
	if msg == "" {
		return "Something went wrong."
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
