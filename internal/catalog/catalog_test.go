package catalog

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/shelf/internal/activity"
	"github.com/mmcdole/shelf/internal/api"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/session"
	"github.com/mmcdole/shelf/internal/store"
	"github.com/mmcdole/shelf/internal/testutil"
)

type recorder struct {
	mu      sync.Mutex
	notices []domain.Notice
}

func (r *recorder) Notify(n domain.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recorder) last() domain.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return domain.Notice{}
	}
	return r.notices[len(r.notices)-1]
}

type fixture struct {
	backend  *testutil.Backend
	session  *session.Service
	commands *Commands
	queries  *Queries
	notices  *recorder
	tracker  *activity.Tracker
}

var seedBooks = []testutil.Book{
	{ID: "b1", Title: "Dune", Author: "Frank Herbert", ISBN: "111", Genre: "Science Fiction", PublicationYear: 1965, Available: true},
	{ID: "b2", Title: "Emma", Author: "Jane Austen", ISBN: "222", Genre: "Romance", PublicationYear: 1815, Available: false},
	{ID: "b3", Title: "Neuromancer", Author: "William Gibson", ISBN: "333", Genre: "Science Fiction", PublicationYear: 1984, Available: true},
	{ID: "b4", Title: "Persuasion", Author: "Jane Austen", ISBN: "444", Genre: "Romance", PublicationYear: 1817, Available: true},
}

// newFixture wires the catalog against a fake backend; role "" means signed out
func newFixture(t *testing.T, role string) *fixture {
	t.Helper()
	backend := testutil.NewBackend(t)
	backend.AddBooks(seedBooks...)

	st, err := store.NewSessionStore("", "")
	require.NoError(t, err)
	client := api.NewClient(backend.URL(), 0, nil)
	svc := session.NewService(client, st, nil)
	client.SetTokenSource(svc)

	if role != "" {
		backend.AddUser(testutil.User{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: role, Password: "pw"})
		_, err := svc.Login(context.Background(), "ada@example.com", "pw")
		require.NoError(t, err)
	}

	rec := &recorder{}
	tracker := activity.NewTracker(nil)
	cache := NewCache()
	return &fixture{
		backend:  backend,
		session:  svc,
		commands: NewCommands(client, cache, svc, tracker, activity.NewReporter(svc, rec, nil), nil),
		queries:  NewQueries(cache),
		notices:  rec,
		tracker:  tracker,
	}
}

func titles(books []domain.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}

func TestFetchAll_ReplacesCache(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()

	_, ok := f.queries.GetCachedBooks()
	assert.False(t, ok, "nothing cached before the first fetch")

	books, err := f.commands.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 4)

	cached, ok := f.queries.GetCachedBooks()
	require.True(t, ok)
	assert.Equal(t, []string{"Dune", "Emma", "Neuromancer", "Persuasion"}, titles(cached))

	f.backend.AddBooks(testutil.Book{ID: "b5", Title: "Ubik", Author: "Philip K. Dick", ISBN: "555", Available: true})
	_, err = f.commands.FetchAll(ctx)
	require.NoError(t, err)

	cached, _ = f.queries.GetCachedBooks()
	assert.Len(t, cached, 5)
	assert.Equal(t, 0, f.tracker.Count())
}

func TestFetchAll_UnmountedSkipsCache(t *testing.T) {
	f := newFixture(t, "")
	mount := activity.NewMount()
	mount.Unmount()

	books, err := f.commands.FetchAll(activity.WithMount(context.Background(), mount))
	require.NoError(t, err)
	assert.Len(t, books, 4)

	_, ok := f.queries.GetCachedBooks()
	assert.False(t, ok)
}

func TestFetchAll_Offline(t *testing.T) {
	f := newFixture(t, "")
	f.backend.Server.Close()

	_, err := f.commands.FetchAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrServerOffline)

	n := f.notices.last()
	assert.True(t, n.IsError())
	assert.True(t, n.Retryable)
	assert.Equal(t, 0, f.tracker.Count())
}

func TestFilter_DefaultsReturnFullListInOrder(t *testing.T) {
	f := newFixture(t, "")
	_, err := f.commands.FetchAll(context.Background())
	require.NoError(t, err)

	all, _ := f.queries.GetCachedBooks()
	assert.Equal(t, all, f.queries.Filter("", domain.BookFilter{}))
	assert.Equal(t, all, f.queries.Filter("  ", domain.BookFilter{Availability: domain.AvailabilityAll}))
}

func TestFilter(t *testing.T) {
	f := newFixture(t, "")
	_, err := f.commands.FetchAll(context.Background())
	require.NoError(t, err)

	tests := []struct {
		name   string
		query  string
		filter domain.BookFilter
		want   []string
	}{
		{"author substring", "austen", domain.BookFilter{}, []string{"Emma", "Persuasion"}},
		{"isbn substring", "33", domain.BookFilter{}, []string{"Neuromancer"}},
		{"title is case-insensitive", "DUNE", domain.BookFilter{}, []string{"Dune"}},
		{"genre", "", domain.BookFilter{Genre: "Science Fiction"}, []string{"Dune", "Neuromancer"}},
		{"year", "", domain.BookFilter{Year: "1815"}, []string{"Emma"}},
		{"available only", "", domain.BookFilter{Availability: domain.AvailabilityAvailable}, []string{"Dune", "Neuromancer", "Persuasion"}},
		{"unavailable only", "", domain.BookFilter{Availability: domain.AvailabilityUnavailable}, []string{"Emma"}},
		{"combined", "jane", domain.BookFilter{Genre: "Romance", Availability: domain.AvailabilityAvailable}, []string{"Persuasion"}},
		{"no match", "tolkien", domain.BookFilter{}, []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, titles(f.queries.Filter(tc.query, tc.filter)))
		})
	}
}

func TestGenresAndYears(t *testing.T) {
	f := newFixture(t, "")
	_, err := f.commands.FetchAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Romance", "Science Fiction"}, f.queries.Genres())
	assert.Equal(t, []int{1984, 1965, 1817, 1815}, f.queries.Years())
}

func TestRank(t *testing.T) {
	f := newFixture(t, "")
	assert.Nil(t, f.queries.Rank("dune"), "empty cache ranks nothing")

	_, err := f.commands.FetchAll(context.Background())
	require.NoError(t, err)

	results := f.queries.Rank("nrmncr")
	require.NotEmpty(t, results)
	assert.Equal(t, "Neuromancer", results[0].Book.Title)
	assert.NotEmpty(t, results[0].MatchedIndexes)

	assert.Nil(t, f.queries.Rank(""))
}

func TestSuggestGenre(t *testing.T) {
	f := newFixture(t, "")
	_, err := f.commands.FetchAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Science Fiction"}, f.queries.SuggestGenre("scifi"))
	assert.Equal(t, []string{"Romance"}, f.queries.SuggestGenre("ROMANCE"))
	assert.Equal(t, f.queries.Genres(), f.queries.SuggestGenre(""))
	assert.Empty(t, f.queries.SuggestGenre("horror"))
}

func TestFindByISBN(t *testing.T) {
	f := newFixture(t, "")
	_, err := f.commands.FetchAll(context.Background())
	require.NoError(t, err)

	b, ok := f.queries.FindByISBN("222")
	require.True(t, ok)
	assert.Equal(t, "Emma", b.Title)

	_, ok = f.queries.FindByISBN("999")
	assert.False(t, ok)
}

func TestSaveBook_RequiresAdminLocally(t *testing.T) {
	f := newFixture(t, "user")

	_, err := f.commands.SaveBook(context.Background(), domain.BookInput{Title: "Ubik", Author: "Dick", ISBN: "555"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Zero(t, f.backend.CountCalls("POST /books/save"), "no request without the admin role")

	_, ok := f.session.Current()
	assert.True(t, ok, "a local role check does not end the session")
}

func TestSaveBook_SignedOut(t *testing.T) {
	f := newFixture(t, "")

	_, err := f.commands.SaveBook(context.Background(), domain.BookInput{Title: "Ubik", Author: "Dick", ISBN: "555"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Equal(t, domain.RouteLogin, f.notices.last().Route)
	assert.Zero(t, f.backend.CountCalls("POST /books/save"))
}

func TestSaveBook_Validation(t *testing.T) {
	f := newFixture(t, "admin")

	_, err := f.commands.SaveBook(context.Background(), domain.BookInput{Author: "Dick", ISBN: "555"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "Title is required.", f.notices.last().Message)
	assert.Zero(t, f.backend.CountCalls("POST /books/save"))
}

func TestSaveBook_RefreshesCatalog(t *testing.T) {
	f := newFixture(t, "admin")
	ctx := context.Background()

	book, err := f.commands.SaveBook(ctx, domain.BookInput{Title: "Ubik", Author: "Philip K. Dick", ISBN: "555", Available: true})
	require.NoError(t, err)
	assert.NotEmpty(t, book.ID)

	cached, ok := f.queries.FindByISBN("555")
	require.True(t, ok, "cache was refreshed after the save")
	assert.Equal(t, "Ubik", cached.Title)
	assert.Equal(t, domain.NoticeSuccess, f.notices.notices[0].Level)
}

func TestUpdateAndDeleteBook(t *testing.T) {
	f := newFixture(t, "admin")
	ctx := context.Background()

	_, err := f.commands.UpdateBook(ctx, "111", domain.BookInput{Title: "Dune Messiah", Author: "Frank Herbert", ISBN: "111", PublicationYear: 1969})
	require.NoError(t, err)
	b, _ := f.queries.FindByISBN("111")
	assert.Equal(t, "Dune Messiah", b.Title)

	require.NoError(t, f.commands.DeleteBook(ctx, "111"))
	_, ok := f.queries.FindByISBN("111")
	assert.False(t, ok)

	err = f.commands.DeleteBook(ctx, "111")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteBook_ServerForbiddenEndsSession(t *testing.T) {
	f := newFixture(t, "admin")
	f.backend.Fail("DELETE /books/delete/111", http.StatusForbidden, "Admins only")

	err := f.commands.DeleteBook(context.Background(), "111")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, ok := f.session.Current()
	assert.False(t, ok)
	assert.Equal(t, domain.RouteLogin, f.notices.last().Route)
}
