package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the application-level key bindings.
// List navigation lives in components.ListKeys.
type KeyMap struct {
	// Screens
	NextScreen key.Binding
	Catalog    key.Binding
	Cart       key.Binding
	Profile    key.Binding

	// Catalog
	Search       key.Binding
	Jump         key.Binding
	Filter       key.Binding
	ClearFilter  key.Binding
	Availability key.Binding
	Add          key.Binding

	// Borrowing list
	Increase key.Binding
	Decrease key.Binding
	Remove   key.Binding
	Borrow   key.Binding

	// Admin
	NewBook    key.Binding
	EditBook   key.Binding
	DeleteBook key.Binding

	// Account
	Login         key.Binding
	Register      key.Binding
	EditProfile   key.Binding
	DeleteAccount key.Binding
	Logout        key.Binding

	// Actions
	Quit    key.Binding
	Help    key.Binding
	Escape  key.Binding
	Refresh key.Binding

	// Confirmations
	Confirm key.Binding
	Deny    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextScreen: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next screen"),
		),
		Catalog: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "catalog"),
		),
		Cart: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "borrowing list"),
		),
		Profile: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "profile"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Jump: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "jump to title"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "clear filters"),
		),
		Availability: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "cycle availability"),
		),
		Add: key.NewBinding(
			key.WithKeys("a", "enter"),
			key.WithHelp("a", "add to list"),
		),

		Increase: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "more copies"),
		),
		Decrease: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "fewer copies"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "remove"),
		),
		Borrow: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "borrow all"),
		),

		NewBook: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new book"),
		),
		EditBook: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		DeleteBook: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "delete book"),
		),

		Login: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sign in"),
		),
		Register: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "create account"),
		),
		EditProfile: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit profile"),
		),
		DeleteAccount: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete account"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "sign out"),
		),

		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "yes"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "no"),
		),
	}
}

// Keys is the global keymap instance
var Keys = DefaultKeyMap()
