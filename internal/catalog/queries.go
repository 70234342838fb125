package catalog

import (
	"sort"
	"strings"

	lfuzzy "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/shelf/internal/domain"
)

// Queries provides synchronous, cache-only reads.
// Implements domain.CatalogQueries.
type Queries struct {
	cache *Cache
}

// NewQueries creates a new Queries instance.
func NewQueries(cache *Cache) *Queries {
	return &Queries{cache: cache}
}

func (q *Queries) GetCachedBooks() ([]domain.Book, bool) {
	return q.cache.Books()
}

// Filter returns the cached books matching query and filter, in catalog order.
// Empty query and zero filter return the full list.
func (q *Queries) Filter(query string, filter domain.BookFilter) []domain.Book {
	books, _ := q.cache.Books()
	query = strings.TrimSpace(query)
	if query == "" && filter.IsZero() {
		return books
	}

	out := make([]domain.Book, 0, len(books))
	for _, b := range books {
		if domain.MatchesQuery(b, query) && filter.Matches(b) {
			out = append(out, b)
		}
	}
	return out
}

// FindByISBN looks up a cached book
func (q *Queries) FindByISBN(isbn string) (domain.Book, bool) {
	books, _ := q.cache.Books()
	for _, b := range books {
		if b.ISBN == isbn {
			return b, true
		}
	}
	return domain.Book{}, false
}

// Genres returns the distinct non-empty genres, sorted
func (q *Queries) Genres() []string {
	books, _ := q.cache.Books()
	seen := make(map[string]bool)
	var genres []string
	for _, b := range books {
		if b.Genre == "" || seen[b.Genre] {
			continue
		}
		seen[b.Genre] = true
		genres = append(genres, b.Genre)
	}
	sort.Strings(genres)
	return genres
}

// Years returns the distinct known publication years, newest first
func (q *Queries) Years() []int {
	books, _ := q.cache.Books()
	seen := make(map[int]bool)
	var years []int
	for _, b := range books {
		if b.PublicationYear <= 0 || seen[b.PublicationYear] {
			continue
		}
		seen[b.PublicationYear] = true
		years = append(years, b.PublicationYear)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// RankResult is a fuzzy title match with the positions to highlight
type RankResult struct {
	Book           domain.Book
	MatchedIndexes []int
	Score          int
}

// titleIndex implements sahilm/fuzzy.Source over lowercase titles
type titleIndex struct {
	books       []domain.Book
	lowerTitles []string
}

func (idx *titleIndex) String(i int) string { return idx.lowerTitles[i] }

func (idx *titleIndex) Len() int { return len(idx.books) }

func newTitleIndex(books []domain.Book) *titleIndex {
	idx := &titleIndex{books: books, lowerTitles: make([]string, len(books))}
	for i, b := range books {
		idx.lowerTitles[i] = strings.ToLower(b.Title)
	}
	return idx
}

// Rank fuzzy-matches query against cached titles, best match first.
// Used by the jump-to prompt; Filter stays a plain substring match.
func (q *Queries) Rank(query string) []RankResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	books, _ := q.cache.Books()
	if len(books) == 0 {
		return nil
	}

	idx := newTitleIndex(books)
	matches := fuzzy.FindFrom(strings.ToLower(query), idx)

	results := make([]RankResult, len(matches))
	for i, m := range matches {
		results[i] = RankResult{
			Book:           idx.books[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return results
}

// SuggestGenre completes a partially typed genre against the cached genres.
// An exact (case-insensitive) hit comes first, then closest matches.
func (q *Queries) SuggestGenre(input string) []string {
	input = strings.TrimSpace(input)
	genres := q.Genres()
	if input == "" {
		return genres
	}

	ranks := lfuzzy.RankFindFold(input, genres)
	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Distance < ranks[j].Distance
	})

	out := make([]string, 0, len(ranks))
	for _, r := range ranks {
		if strings.EqualFold(r.Target, input) {
			out = append([]string{r.Target}, out...)
			continue
		}
		out = append(out, r.Target)
	}
	return out
}
