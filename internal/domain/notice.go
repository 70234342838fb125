package domain

import (
	"errors"
	"strings"
)

// NoticeLevel controls how a notice is rendered
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeSuccess
	NoticeError
)

// Route is a navigation request carried by a notice
type Route int

const (
	RouteNone    Route = iota
	RouteLogin         // session ended, go to sign-in
	RouteCatalog       // leave the current view for the catalog
)

// Notice is a user-visible message produced by a sync operation
type Notice struct {
	Level     NoticeLevel
	Message   string
	Route     Route
	Retryable bool
}

// IsError returns true for error-level notices
func (n Notice) IsError() bool {
	return n.Level == NoticeError
}

// Notifier receives notices from services.
type Notifier interface {
	Notify(n Notice)
}

// NoOpNotifier discards notices (for testing/batch operations).
type NoOpNotifier struct{}

func (NoOpNotifier) Notify(Notice) {}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// InfoNotice builds an informational notice
func InfoNotice(msg string) Notice {
	return Notice{Level: NoticeInfo, Message: msg}
}

// SuccessNotice builds a success notice
func SuccessNotice(msg string) Notice {
	return Notice{Level: NoticeSuccess, Message: msg}
}

// ErrorNotice builds an error notice
func ErrorNotice(msg string, retryable bool) Notice {
	return Notice{Level: NoticeError, Message: msg, Retryable: retryable}
}

// LoginNotice builds an error notice that sends the user to sign-in
func LoginNotice(msg string) Notice {
	return Notice{Level: NoticeError, Message: msg, Route: RouteLogin}
}

// NoticeFor turns a failed operation into the notice the user sees.
// action names what was attempted (e.g., "load the catalog").
func NoticeFor(err error, action string) Notice {
	switch Classify(err) {
	case KindUnauthenticated:
		return LoginNotice("Your session has ended. Please sign in again.")
	case KindForbidden:
		return LoginNotice("You don't have permission to " + action + ".")
	case KindValidation:
		return ErrorNotice(capitalize(validationReason(err))+".", false)
	case KindNotFound:
		return ErrorNotice("Couldn't "+action+": not found.", false)
	case KindConflict:
		return ErrorNotice("Couldn't "+action+": "+conflictReason(err)+".", false)
	default:
		return ErrorNotice("Couldn't "+action+". Please try again.", true)
	}
}

func conflictReason(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

func validationReason(err error) string {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Error()
	}
	if errors.Is(err, ErrEmptyCart) {
		return ErrEmptyCart.Error()
	}
	return err.Error()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
