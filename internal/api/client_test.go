package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/shelf/internal/domain"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, 0, nil)
	c.SetTokenSource(staticToken("tok"))
	return c
}

func TestGetAllBooks(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/books/all", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Write([]byte(`[
			{"_id":"1","title":"Dune","author":"Herbert","isbn":"111","genre":"SF","publicationYear":1965,"available":true,"createdAt":"2024-01-02T03:04:05.000Z"},
			{"id":"2","title":"Emma","author":"Austen","isbn":"222","available":false},
			{"title":"orphan"}
		]`))
	})

	books, err := c.GetAllBooks(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "1", books[0].ID)
	assert.Equal(t, 1965, books[0].PublicationYear)
	assert.True(t, books[0].Available)
	assert.Equal(t, 2024, books[0].CreatedAt.Year())
	assert.Equal(t, "2", books[1].ID)
}

func TestBorrowingList_NotFoundIsTyped(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Borrowing list not found"}`))
	})

	_, err := c.GetBorrowingList(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Borrowing list not found", apiErr.Message)
}

func TestAddToBorrowingList_Unavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req isbnRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "111", req.ISBN)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Book is not available"}`))
	})

	err := c.AddToBorrowingList(context.Background(), "111")
	assert.True(t, errors.Is(err, domain.ErrBookUnavailable))
	assert.Equal(t, domain.KindConflict, domain.Classify(err))
}

func TestAuthenticatedCall_NoToken(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })
	c.SetTokenSource(staticToken(""))

	err := c.RemoveFromBorrowingList(context.Background(), "111")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.False(t, called)
}

func TestStatusClassification(t *testing.T) {
	cases := []struct {
		status int
		kind   domain.ErrorKind
	}{
		{http.StatusUnauthorized, domain.KindUnauthenticated},
		{http.StatusForbidden, domain.KindForbidden},
		{http.StatusNotFound, domain.KindNotFound},
		{http.StatusBadRequest, domain.KindConflict},
		{http.StatusInternalServerError, domain.KindUnknown},
	}
	for _, tc := range cases {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		})
		err := c.DeleteBook(context.Background(), "111")
		require.Error(t, err)
		assert.Equal(t, tc.kind, domain.Classify(err), "status %d", tc.status)
	}
}

func TestServerOffline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, 0, nil)
	_, err := c.GetAllBooks(context.Background())
	assert.ErrorIs(t, err, domain.ErrServerOffline)
}

func TestLoginAndProfile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			var req loginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "a@b.c", req.Email)
			w.Write([]byte(`{"accessToken":"A","refreshToken":"R"}`))
		case "/auth/u1":
			w.Write([]byte(`{"user":{"_id":"u1","name":"Ann","email":"a@b.c","role":"admin"}}`))
		case "/auth/update/u1":
			assert.Equal(t, http.MethodPut, r.Method)
			w.Write([]byte(`{"_id":"u1","name":"Annie","email":"a@b.c","role":"user"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	pair, err := c.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, domain.TokenPair{AccessToken: "A", RefreshToken: "R"}, pair)

	p, err := c.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", p.Name)
	assert.Equal(t, domain.RoleAdmin, p.Role)

	p, err = c.UpdateProfile(context.Background(), "u1", domain.ProfileUpdate{Name: "Annie"})
	require.NoError(t, err)
	assert.Equal(t, "Annie", p.Name)
}

func TestBorrow(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req borrowRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.BookID == "bare" {
			w.Write([]byte(`{"message":"Book borrowed"}`))
			return
		}
		w.Write([]byte(`{"transaction":{"_id":"t1","userId":"` + req.UserID + `","bookId":"` + req.BookID + `"}}`))
	})

	tx, err := c.Borrow(context.Background(), "u1", "b1")
	require.NoError(t, err)
	assert.Equal(t, "t1", tx.ID)
	assert.Equal(t, "b1", tx.BookID)

	tx, err = c.Borrow(context.Background(), "u1", "bare")
	require.NoError(t, err)
	assert.Equal(t, "bare", tx.BookID)
	assert.Empty(t, tx.ID)
}
