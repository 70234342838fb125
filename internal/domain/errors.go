package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrUnauthenticated indicates there is no session or the token was rejected
	ErrUnauthenticated = errors.New("not signed in")

	// ErrForbidden indicates the session lacks the role for the operation
	ErrForbidden = errors.New("permission denied")

	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = errors.New("not found")

	// ErrEmptyCart indicates a borrow confirmation with nothing in the cart
	ErrEmptyCart = errors.New("borrowing list is empty")

	// ErrBadRequest indicates the server rejected the request payload
	ErrBadRequest = errors.New("request rejected by server")

	// ErrBookUnavailable indicates the book has no loanable copy right now
	ErrBookUnavailable = errors.New("book is not available")

	// ErrServerOffline indicates the backend is unreachable
	ErrServerOffline = errors.New("library server is unreachable")

	// ErrInvalidInput indicates a local validation failure; no request was sent
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError names the field that failed local validation
type ValidationError struct {
	Field   string
	Problem string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Problem
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// APIError is a non-2xx response from the backend.
// It unwraps to the sentinel matching its status so callers can use errors.Is.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthenticated
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest, http.StatusConflict:
		if e.IndicatesUnavailable() {
			return ErrBookUnavailable
		}
		return ErrBadRequest
	}
	return nil
}

// IndicatesUnavailable reports whether the server message says the book can't be borrowed
func (e *APIError) IndicatesUnavailable() bool {
	msg := strings.ToLower(e.Message)
	return strings.Contains(msg, "not available") || strings.Contains(msg, "unavailable")
}

// ErrorKind is the user-facing classification of a failure
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindValidation
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Classify maps any error onto an ErrorKind
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrInvalidInput):
		return KindValidation
	case errors.Is(err, ErrBookUnavailable), errors.Is(err, ErrBadRequest):
		return KindConflict
	default:
		return KindUnknown
	}
}

// IsAuthFailure returns true for errors that must end the session
func IsAuthFailure(err error) bool {
	k := Classify(err)
	return k == KindUnauthenticated || k == KindForbidden
}
