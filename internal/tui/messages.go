package tui

import (
	"github.com/mmcdole/shelf/internal/domain"
)

// Message types for the TUI.
// Failures are reported to the user through NoticeMsg; the *Msg results
// below only tell the model which view state to refresh.

// OpFailedMsg signals that an operation failed after emitting its notice
type OpFailedMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e OpFailedMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// NoticeMsg carries a notice emitted by a service
type NoticeMsg struct {
	Notice domain.Notice
}

// CatalogLoadedMsg signals that the catalog cache was replaced
type CatalogLoadedMsg struct {
	Count int
}

// CatalogChangedMsg signals an admin create/update/delete completed
type CatalogChangedMsg struct {
	ISBN string
}

// BorrowingListLoadedMsg signals that the cart now mirrors the server list
type BorrowingListLoadedMsg struct{}

// CartChangedMsg signals a successful add or remove on the server list
type CartChangedMsg struct{}

// BorrowConfirmedMsg signals that every cart item was borrowed
type BorrowConfirmedMsg struct {
	Count int
}

// LoginSuccessMsg signals a completed sign-in
type LoginSuccessMsg struct {
	Session domain.Session
}

// FormErrorMsg puts an error under the open form instead of the status bar
type FormErrorMsg struct {
	Err error
}

// RegisteredMsg signals a completed registration
type RegisteredMsg struct {
	Email string
}

// SessionRefreshedMsg reports the startup token refresh; Err is nil on success
type SessionRefreshedMsg struct {
	Err error
}

// LoggedOutMsg signals that the session was cleared
type LoggedOutMsg struct{}

// ProfileLoadedMsg carries the signed-in user's profile
type ProfileLoadedMsg struct {
	Profile *domain.UserProfile
}

// TickMsg is a general tick message for animations
type TickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct {
	Seq int
}
