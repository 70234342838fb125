package domain

import (
	"strconv"
	"strings"
)

// Availability is the tri-state availability filter
type Availability string

const (
	AvailabilityAll         Availability = "all"
	AvailabilityAvailable   Availability = "available"
	AvailabilityUnavailable Availability = "unavailable"
)

// ParseAvailability accepts "", "all", "available", "unavailable" (case-insensitive)
func ParseAvailability(s string) (Availability, bool) {
	switch Availability(strings.ToLower(strings.TrimSpace(s))) {
	case "", AvailabilityAll:
		return AvailabilityAll, true
	case AvailabilityAvailable:
		return AvailabilityAvailable, true
	case AvailabilityUnavailable:
		return AvailabilityUnavailable, true
	}
	return AvailabilityAll, false
}

// Next cycles all -> available -> unavailable -> all
func (a Availability) Next() Availability {
	switch a {
	case AvailabilityAvailable:
		return AvailabilityUnavailable
	case AvailabilityUnavailable:
		return AvailabilityAll
	default:
		return AvailabilityAvailable
	}
}

// BookFilter narrows the cached catalog.
// Zero values match everything.
type BookFilter struct {
	Genre        string
	Year         string // kept as text so an empty value means "any"
	Availability Availability
}

// IsZero returns true if no filter is set
func (f BookFilter) IsZero() bool {
	return f.Genre == "" && f.Year == "" && (f.Availability == "" || f.Availability == AvailabilityAll)
}

// Matches applies the genre, year and availability predicates
func (f BookFilter) Matches(b Book) bool {
	if f.Genre != "" && b.Genre != f.Genre {
		return false
	}
	if f.Year != "" && strconv.Itoa(b.PublicationYear) != f.Year {
		return false
	}
	switch f.Availability {
	case AvailabilityAvailable:
		return b.Available
	case AvailabilityUnavailable:
		return !b.Available
	}
	return true
}

// MatchesQuery reports whether query is a case-insensitive substring of title, author or ISBN.
// An empty query always matches.
func MatchesQuery(b Book, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(b.Title), q) ||
		strings.Contains(strings.ToLower(b.Author), q) ||
		strings.Contains(strings.ToLower(b.ISBN), q)
}
