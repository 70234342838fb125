package borrowing

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/shelf/internal/activity"
	"github.com/mmcdole/shelf/internal/api"
	"github.com/mmcdole/shelf/internal/cart"
	"github.com/mmcdole/shelf/internal/catalog"
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

func (r *recorder) all() []domain.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Notice(nil), r.notices...)
}

func (r *recorder) last() domain.Notice {
	all := r.all()
	if len(all) == 0 {
		return domain.Notice{}
	}
	return all[len(all)-1]
}

type fixture struct {
	backend  *testutil.Backend
	session  *session.Service
	cart     *cart.Cart
	catalog  *catalog.Queries
	commands *Commands
	queries  *Queries
	tracker  *activity.Tracker
	notices  *recorder
	edges    *[]bool
}

var (
	dune        = domain.Book{ID: "b1", Title: "Dune", ISBN: "111", Available: true}
	emma        = domain.Book{ID: "b2", Title: "Emma", ISBN: "222"}
	neuromancer = domain.Book{ID: "b3", Title: "Neuromancer", ISBN: "333", Available: true}
)

func newFixture(t *testing.T, signedIn bool) *fixture {
	t.Helper()
	backend := testutil.NewBackend(t)
	backend.AddBooks(
		testutil.Book{ID: "b1", Title: "Dune", Author: "Frank Herbert", ISBN: "111", Available: true},
		testutil.Book{ID: "b2", Title: "Emma", Author: "Jane Austen", ISBN: "222", Available: false},
		testutil.Book{ID: "b3", Title: "Neuromancer", Author: "William Gibson", ISBN: "333", Available: true},
	)
	backend.AddUser(testutil.User{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: "user", Password: "pw"})

	st, err := store.NewSessionStore("", "")
	require.NoError(t, err)
	client := api.NewClient(backend.URL(), 0, nil)
	svc := session.NewService(client, st, nil)
	client.SetTokenSource(svc)

	c := cart.New()
	svc.OnEnd(c.Clear)

	if signedIn {
		_, err := svc.Login(context.Background(), "ada@example.com", "pw")
		require.NoError(t, err)
	}

	var (
		edgesMu sync.Mutex
		edges   []bool
	)
	tracker := activity.NewTracker(func(busy bool) {
		edgesMu.Lock()
		edges = append(edges, busy)
		edgesMu.Unlock()
	})
	rec := &recorder{}
	reporter := activity.NewReporter(svc, rec, nil)
	cache := catalog.NewCache()
	catCmds := catalog.NewCommands(client, cache, svc, tracker, reporter, nil)

	return &fixture{
		backend: backend,
		session: svc,
		cart:    c,
		catalog: catalog.NewQueries(cache),
		commands: NewCommands(Deps{
			List:         client,
			Transactions: client,
			Cart:         c,
			Catalog:      catCmds,
			Gate:         svc,
			Tracker:      tracker,
			Reporter:     reporter,
		}),
		queries: NewQueries(c),
		tracker: tracker,
		notices: rec,
		edges:   &edges,
	}
}

func bookIDs(items []cart.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Book.ID
	}
	return out
}

func TestFetchBorrowingList_ReplacesCart(t *testing.T) {
	f := newFixture(t, true)
	f.cart.Add(emma)
	f.backend.SetList("u1", "111", "333")

	require.NoError(t, f.commands.FetchBorrowingList(context.Background()))

	assert.Equal(t, []string{"b1", "b3"}, bookIDs(f.cart.Items()))
	for _, it := range f.cart.Items() {
		assert.Equal(t, 1, it.Count)
	}
	assert.Empty(t, f.notices.all())
}

func TestFetchBorrowingList_NotFoundMeansEmpty(t *testing.T) {
	f := newFixture(t, true)
	f.cart.Add(dune)

	err := f.commands.FetchBorrowingList(context.Background())
	require.NoError(t, err, "404 is not an error")

	assert.True(t, f.cart.IsEmpty())
	n := f.notices.last()
	assert.Equal(t, domain.NoticeInfo, n.Level)
	assert.False(t, n.IsError())
}

func TestFetchBorrowingList_SignedOut(t *testing.T) {
	f := newFixture(t, false)

	err := f.commands.FetchBorrowingList(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Zero(t, f.backend.CountCalls("GET /borrowing-list"))
	assert.Equal(t, domain.RouteLogin, f.notices.last().Route)
}

func TestFetchBorrowingList_AuthFailureEndsSession(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			f := newFixture(t, true)
			f.cart.Add(dune)
			f.backend.Fail("GET /borrowing-list", status, "jwt expired")

			err := f.commands.FetchBorrowingList(context.Background())
			require.Error(t, err)

			_, ok := f.session.Current()
			assert.False(t, ok, "session is destroyed")
			assert.True(t, f.cart.IsEmpty(), "ending the session clears the cart")
			assert.Equal(t, domain.RouteLogin, f.notices.last().Route)
		})
	}
}

func TestFetchBorrowingList_ServerErrorIsRetryable(t *testing.T) {
	f := newFixture(t, true)
	f.cart.Add(dune)
	f.backend.Fail("GET /borrowing-list", http.StatusInternalServerError, "boom")

	err := f.commands.FetchBorrowingList(context.Background())
	require.Error(t, err)

	n := f.notices.last()
	assert.True(t, n.IsError())
	assert.True(t, n.Retryable)
	assert.Equal(t, 1, f.cart.Len(), "cart untouched")
	assert.Equal(t, 1, f.backend.CountCalls("GET /borrowing-list"), "no automatic retry")
}

func TestFetchBorrowingList_UnmountedSkipsSideEffects(t *testing.T) {
	f := newFixture(t, true)
	f.cart.Add(dune)
	mount := activity.NewMount()
	mount.Unmount()

	err := f.commands.FetchBorrowingList(activity.WithMount(context.Background(), mount))
	require.NoError(t, err)

	assert.Equal(t, 1, f.cart.Len())
	assert.Empty(t, f.notices.all())
	assert.Equal(t, 1, f.backend.CountCalls("GET /borrowing-list"), "the request still went out")
}

func TestAddToBorrowingList(t *testing.T) {
	f := newFixture(t, true)

	require.NoError(t, f.commands.AddToBorrowingList(context.Background(), dune))

	assert.True(t, f.queries.InCart("b1"))
	assert.Equal(t, []string{"111"}, f.backend.List("u1"))
	assert.Equal(t, 1, f.backend.CountCalls("GET /books/all"), "catalog refreshed")
	assert.Equal(t, domain.NoticeSuccess, f.notices.last().Level)

	// adding again keeps a single item
	require.NoError(t, f.commands.AddToBorrowingList(context.Background(), dune))
	assert.Equal(t, 1, f.queries.Len())
}

func TestAddToBorrowingList_Unavailable(t *testing.T) {
	f := newFixture(t, true)

	err := f.commands.AddToBorrowingList(context.Background(), emma)
	assert.ErrorIs(t, err, domain.ErrBookUnavailable)

	assert.True(t, f.cart.IsEmpty())
	n := f.notices.last()
	assert.True(t, n.IsError())
	assert.Contains(t, n.Message, "Emma")
	assert.Equal(t, 1, f.backend.CountCalls("GET /books/all"), "catalog refreshed to show current availability")

	_, ok := f.session.Current()
	assert.True(t, ok)
}

func TestAddToBorrowingList_ConflictRefreshesCatalog(t *testing.T) {
	f := newFixture(t, true)
	f.backend.Fail("POST /borrowing-list/add", http.StatusConflict, "Book already on list")

	err := f.commands.AddToBorrowingList(context.Background(), dune)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	assert.Equal(t, domain.KindConflict, domain.Classify(err))

	assert.True(t, f.cart.IsEmpty())
	assert.True(t, f.notices.last().IsError())
	assert.Equal(t, 1, f.backend.CountCalls("GET /books/all"))
	_, ok := f.catalog.FindByISBN("111")
	assert.True(t, ok, "catalog cache refilled")
}

func TestAddToBorrowingList_ServerErrorLeavesCatalog(t *testing.T) {
	f := newFixture(t, true)
	f.backend.Fail("POST /borrowing-list/add", http.StatusInternalServerError, "boom")

	err := f.commands.AddToBorrowingList(context.Background(), dune)
	require.Error(t, err)
	assert.Zero(t, f.backend.CountCalls("GET /books/all"))
}

func TestRemoveFromBorrowingList(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	f.backend.SetList("u1", "111", "111", "333")
	f.cart.Add(dune)
	f.cart.Increase("b1")
	f.cart.Add(neuromancer)

	require.NoError(t, f.commands.RemoveFromBorrowingList(ctx, "111"))
	item, ok := f.cart.Find("b1")
	require.True(t, ok)
	assert.Equal(t, 1, item.Count)

	require.NoError(t, f.commands.RemoveFromBorrowingList(ctx, "111"))
	_, ok = f.cart.Find("b1")
	assert.False(t, ok, "last copy leaves the cart")

	assert.Equal(t, []string{"333"}, f.backend.List("u1"))
	assert.Equal(t, 2, f.backend.CountCalls("GET /books/all"))
}

func TestRemoveFromBorrowingList_NotOnServer(t *testing.T) {
	f := newFixture(t, true)
	f.cart.Add(dune)

	err := f.commands.RemoveFromBorrowingList(context.Background(), "111")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, f.cart.Len())
}

func TestConfirmBorrowing_EmptyCart(t *testing.T) {
	f := newFixture(t, true)

	err := f.commands.ConfirmBorrowing(context.Background())
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Equal(t, domain.KindValidation, domain.Classify(err))
	assert.Zero(t, f.backend.CountCalls("POST /transactions/borrow"))
}

func TestConfirmBorrowing_SignedOut(t *testing.T) {
	f := newFixture(t, false)
	f.cart.Add(dune)

	err := f.commands.ConfirmBorrowing(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Zero(t, f.backend.CountCalls("POST /transactions/borrow"))
}

func TestConfirmBorrowing_Success(t *testing.T) {
	f := newFixture(t, true)
	f.cart.Add(dune)
	f.cart.Increase("b1")
	f.cart.Add(neuromancer)

	require.NoError(t, f.commands.ConfirmBorrowing(context.Background()))

	assert.Equal(t, []testutil.BorrowCall{
		{UserID: "u1", BookID: "b1"},
		{UserID: "u1", BookID: "b3"},
	}, f.backend.Borrows(), "one call per item, in cart order")

	assert.True(t, f.cart.IsEmpty())
	n := f.notices.last()
	assert.Equal(t, domain.NoticeSuccess, n.Level)
	assert.Equal(t, domain.RouteCatalog, n.Route)

	b, ok := f.catalog.FindByISBN("111")
	require.True(t, ok, "catalog refreshed")
	assert.False(t, b.Available)
}

func TestConfirmBorrowing_PartialFailureIsNotRolledBack(t *testing.T) {
	f := newFixture(t, true)
	f.cart.Add(dune)
	f.cart.Add(neuromancer)
	f.backend.FailBorrow("b3", http.StatusBadRequest)

	err := f.commands.ConfirmBorrowing(context.Background())
	require.Error(t, err)

	var cerr *ConfirmError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "b3", cerr.Book.ID)
	assert.Equal(t, 1, cerr.Committed)
	assert.ErrorIs(t, err, domain.ErrBookUnavailable)

	assert.Equal(t, []testutil.BorrowCall{{UserID: "u1", BookID: "b1"}}, f.backend.Borrows(), "first borrow stays committed")
	assert.Equal(t, []string{"b1", "b3"}, bookIDs(f.cart.Items()), "cart keeps both items")

	n := f.notices.last()
	assert.True(t, n.IsError())
	assert.Contains(t, n.Message, "Neuromancer")
	assert.Equal(t, domain.RouteNone, n.Route)
	assert.Equal(t, 1, f.backend.CountCalls("GET /books/all"), "catalog refreshed after the conflict")
}

func TestConfirmBorrowing_AuthFailureMidLoop(t *testing.T) {
	f := newFixture(t, true)
	f.cart.Add(dune)
	f.backend.Fail("POST /transactions/borrow", http.StatusUnauthorized, "jwt expired")

	err := f.commands.ConfirmBorrowing(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, ok := f.session.Current()
	assert.False(t, ok)
	assert.Equal(t, domain.RouteLogin, f.notices.last().Route)
}

func TestLoadingCounter_ConcurrentMountFetches(t *testing.T) {
	f := newFixture(t, true)
	f.backend.SetList("u1", "111")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = f.commands.catalog.FetchAll(context.Background())
	}()
	go func() {
		defer wg.Done()
		_ = f.commands.FetchBorrowingList(context.Background())
	}()
	wg.Wait()

	assert.False(t, f.tracker.Busy())
	edges := *f.edges
	require.NotEmpty(t, edges)
	assert.True(t, edges[0])
	assert.False(t, edges[len(edges)-1], "indicator hidden once both calls finish")
}

func TestQueries_Copies(t *testing.T) {
	c := cart.New()
	q := NewQueries(c)
	c.Add(dune)
	c.Increase("b1")
	c.Add(neuromancer)

	assert.Equal(t, 2, q.Len())
	assert.Equal(t, 3, q.Copies())
	assert.False(t, q.InCart("b2"))
}
