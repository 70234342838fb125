package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoticeFor(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		level     NoticeLevel
		route     Route
		retryable bool
		contains  string
	}{
		{"unauthenticated", &APIError{Status: http.StatusUnauthorized}, NoticeError, RouteLogin, false, "sign in"},
		{"forbidden", fmt.Errorf("wrap: %w", ErrForbidden), NoticeError, RouteLogin, false, "permission"},
		{"validation", ErrEmptyCart, NoticeError, RouteNone, false, "Borrowing list is empty"},
		{"conflict", &APIError{Status: http.StatusBadRequest, Message: "ISBN taken"}, NoticeError, RouteNone, false, "ISBN taken"},
		{"offline", ErrServerOffline, NoticeError, RouteNone, true, "try again"},
		{"server error", &APIError{Status: http.StatusInternalServerError}, NoticeError, RouteNone, true, "try again"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n := NoticeFor(tc.err, "save the book")
			assert.Equal(t, tc.level, n.Level)
			assert.Equal(t, tc.route, n.Route)
			assert.Equal(t, tc.retryable, n.Retryable)
			assert.Contains(t, n.Message, tc.contains)
		})
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	assert.True(t, errors.Is(&APIError{Status: 404}, ErrNotFound))
	assert.True(t, errors.Is(&APIError{Status: 400, Message: "Book is currently unavailable"}, ErrBookUnavailable))
	assert.True(t, errors.Is(&APIError{Status: 400, Message: "bad isbn"}, ErrBadRequest))
	assert.Nil(t, (&APIError{Status: 500}).Unwrap())
}

func TestBookFilter(t *testing.T) {
	b := Book{Title: "Dune", Author: "Frank Herbert", ISBN: "978-0441", Genre: "SF", PublicationYear: 1965, Available: true}

	assert.True(t, BookFilter{}.Matches(b))
	assert.True(t, BookFilter{Genre: "SF", Year: "1965", Availability: AvailabilityAvailable}.Matches(b))
	assert.False(t, BookFilter{Genre: "sf"}.Matches(b), "genre is exact")
	assert.False(t, BookFilter{Year: "1966"}.Matches(b))
	assert.False(t, BookFilter{Availability: AvailabilityUnavailable}.Matches(b))

	assert.True(t, MatchesQuery(b, ""))
	assert.True(t, MatchesQuery(b, "herb"))
	assert.True(t, MatchesQuery(b, "DUNE"))
	assert.True(t, MatchesQuery(b, "0441"))
	assert.False(t, MatchesQuery(b, "asimov"))
}

func TestParseAvailability(t *testing.T) {
	a, ok := ParseAvailability("Available")
	assert.True(t, ok)
	assert.Equal(t, AvailabilityAvailable, a)

	a, ok = ParseAvailability("")
	assert.True(t, ok)
	assert.Equal(t, AvailabilityAll, a)

	_, ok = ParseAvailability("maybe")
	assert.False(t, ok)

	assert.Equal(t, AvailabilityAll, AvailabilityUnavailable.Next())
}
