// Package testutil provides an in-memory library backend for service tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

// Book is the backend's JSON shape of a catalog record
type Book struct {
	ID              string `json:"_id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	Genre           string `json:"genre,omitempty"`
	PublicationYear int    `json:"publicationYear,omitempty"`
	Available       bool   `json:"available"`
}

// User is an account known to the backend
type User struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"-"`
}

// BorrowCall records one POST /transactions/borrow
type BorrowCall struct {
	UserID string
	BookID string
}

// Backend is a fake library server.
// Failures are injected per route with Fail and per book with FailBorrow.
type Backend struct {
	Server *httptest.Server

	mu         sync.Mutex
	books      []Book
	users      map[string]User
	lists      map[string][]string // userID -> ISBNs
	borrows    []BorrowCall
	calls      []string
	fail       map[string]failure
	failBorrow map[string]int
}

type failure struct {
	status  int
	message string
}

// NewBackend starts a fake server that is closed when the test ends
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{
		users:      make(map[string]User),
		lists:      make(map[string][]string),
		fail:       make(map[string]failure),
		failBorrow: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", b.login)
	mux.HandleFunc("POST /auth/register", b.register)
	mux.HandleFunc("POST /auth/refresh-token", b.refresh)
	mux.HandleFunc("GET /auth/{id}", b.authed(b.getUser))
	mux.HandleFunc("PUT /auth/update/{id}", b.authed(b.updateUser))
	mux.HandleFunc("DELETE /auth/delete/{id}", b.authed(b.deleteUser))
	mux.HandleFunc("GET /books/all", b.allBooks)
	mux.HandleFunc("POST /books/save", b.authed(b.saveBook))
	mux.HandleFunc("PUT /books/update/{isbn}", b.authed(b.updateBook))
	mux.HandleFunc("DELETE /books/delete/{isbn}", b.authed(b.deleteBook))
	mux.HandleFunc("GET /borrowing-list", b.authed(b.getList))
	mux.HandleFunc("POST /borrowing-list/add", b.authed(b.addToList))
	mux.HandleFunc("DELETE /borrowing-list/remove/{isbn}", b.authed(b.removeFromList))
	mux.HandleFunc("POST /transactions/borrow", b.authed(b.borrow))

	b.Server = httptest.NewServer(b.record(mux))
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the base URL of the fake server
func (b *Backend) URL() string { return b.Server.URL }

// AddBooks seeds the catalog
func (b *Backend) AddBooks(books ...Book) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.books = append(b.books, books...)
}

// AddUser seeds an account
func (b *Backend) AddUser(u User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[u.ID] = u
}

// SetList replaces a user's borrowing list
func (b *Backend) SetList(userID string, isbns ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lists[userID] = isbns
}

// List returns a user's borrowing list
func (b *Backend) List(userID string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.lists[userID]...)
}

// Fail makes every request matching "METHOD /path" answer with status
func (b *Backend) Fail(route string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail[route] = failure{status: status, message: message}
}

// FailBorrow makes borrow calls for bookID answer with status
func (b *Backend) FailBorrow(bookID string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failBorrow[bookID] = status
}

// Borrows returns the borrow calls that committed
func (b *Backend) Borrows() []BorrowCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]BorrowCall(nil), b.borrows...)
}

// Calls returns "METHOD /path" for every request received
func (b *Backend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

// CountCalls returns how many requests matched route
func (b *Backend) CountCalls(route string) int {
	n := 0
	for _, c := range b.Calls() {
		if c == route {
			n++
		}
	}
	return n
}

// Book returns the current record for isbn
func (b *Backend) Book(isbn string) (Book, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, bk := range b.books {
		if bk.ISBN == isbn {
			return bk, true
		}
	}
	return Book{}, false
}

// Token signs an access token carrying the identity claims the client reads
func Token(userID, name, role string) string {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   userID,
		"name": name,
		"role": role,
	})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		panic(err)
	}
	return s
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path
		b.mu.Lock()
		b.calls = append(b.calls, route)
		f, failing := b.fail[route]
		b.mu.Unlock()

		if failing {
			writeError(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type authedHandler func(w http.ResponseWriter, r *http.Request, userID string)

func (b *Backend) authed(h authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		claims := jwt.MapClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		id, _ := claims["id"].(string)
		h(w, r, id)
	}
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var req struct{ Email, Password string }
	json.NewDecoder(r.Body).Decode(&req)

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.users {
		if u.Email == req.Email && u.Password == req.Password {
			writeJSON(w, http.StatusOK, map[string]string{
				"accessToken":  Token(u.ID, u.Name, u.Role),
				"refreshToken": "refresh-" + u.ID,
			})
			return
		}
	}
	writeError(w, http.StatusUnauthorized, "Invalid credentials")
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var req struct{ Name, Email, Password string }
	json.NewDecoder(r.Body).Decode(&req)

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.users {
		if u.Email == req.Email {
			writeError(w, http.StatusBadRequest, "User already exists")
			return
		}
	}
	id := fmt.Sprintf("u%d", len(b.users)+1)
	b.users[id] = User{ID: id, Name: req.Name, Email: req.Email, Role: "user", Password: req.Password}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered"})
}

func (b *Backend) refresh(w http.ResponseWriter, r *http.Request) {
	var req struct{ RefreshToken string }
	json.NewDecoder(r.Body).Decode(&req)

	id := strings.TrimPrefix(req.RefreshToken, "refresh-")
	b.mu.Lock()
	u, ok := b.users[id]
	b.mu.Unlock()
	if !ok {
		writeError(w, http.StatusForbidden, "Invalid refresh token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"accessToken": Token(u.ID, u.Name, u.Role)})
}

func (b *Backend) getUser(w http.ResponseWriter, r *http.Request, _ string) {
	b.mu.Lock()
	u, ok := b.users[r.PathValue("id")]
	b.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (b *Backend) updateUser(w http.ResponseWriter, r *http.Request, _ string) {
	var req struct{ Name, Email, Password string }
	json.NewDecoder(r.Body).Decode(&req)

	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[r.PathValue("id")]
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if req.Name != "" {
		u.Name = req.Name
	}
	if req.Email != "" {
		u.Email = req.Email
	}
	if req.Password != "" {
		u.Password = req.Password
	}
	b.users[u.ID] = u
	writeJSON(w, http.StatusOK, map[string]any{"user": u})
}

func (b *Backend) deleteUser(w http.ResponseWriter, r *http.Request, _ string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.users, r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) allBooks(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	books := append([]Book{}, b.books...)
	writeJSON(w, http.StatusOK, books)
}

func (b *Backend) saveBook(w http.ResponseWriter, r *http.Request, _ string) {
	var bk Book
	json.NewDecoder(r.Body).Decode(&bk)

	b.mu.Lock()
	defer b.mu.Unlock()
	bk.ID = fmt.Sprintf("b%d", len(b.books)+1)
	b.books = append(b.books, bk)
	writeJSON(w, http.StatusCreated, map[string]any{"book": bk})
}

func (b *Backend) updateBook(w http.ResponseWriter, r *http.Request, _ string) {
	var in Book
	json.NewDecoder(r.Body).Decode(&in)

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, bk := range b.books {
		if bk.ISBN == r.PathValue("isbn") {
			in.ID = bk.ID
			b.books[i] = in
			writeJSON(w, http.StatusOK, in)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Book not found")
}

func (b *Backend) deleteBook(w http.ResponseWriter, r *http.Request, _ string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, bk := range b.books {
		if bk.ISBN == r.PathValue("isbn") {
			b.books = append(b.books[:i], b.books[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Book not found")
}

func (b *Backend) getList(w http.ResponseWriter, _ *http.Request, userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	isbns := b.lists[userID]
	if len(isbns) == 0 {
		writeError(w, http.StatusNotFound, "Borrowing list not found")
		return
	}
	var books []Book
	for _, isbn := range isbns {
		for _, bk := range b.books {
			if bk.ISBN == isbn {
				books = append(books, bk)
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"books": books})
}

func (b *Backend) addToList(w http.ResponseWriter, r *http.Request, userID string) {
	var req struct{ ISBN string }
	json.NewDecoder(r.Body).Decode(&req)

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, bk := range b.books {
		if bk.ISBN != req.ISBN {
			continue
		}
		if !bk.Available {
			writeError(w, http.StatusBadRequest, "Book is not available")
			return
		}
		b.lists[userID] = append(b.lists[userID], req.ISBN)
		writeJSON(w, http.StatusOK, map[string]string{"message": "added"})
		return
	}
	writeError(w, http.StatusNotFound, "Book not found")
}

func (b *Backend) removeFromList(w http.ResponseWriter, r *http.Request, userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	isbn := r.PathValue("isbn")
	list := b.lists[userID]
	for i, v := range list {
		if v == isbn {
			b.lists[userID] = append(list[:i], list[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "removed"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Book not in borrowing list")
}

func (b *Backend) borrow(w http.ResponseWriter, r *http.Request, _ string) {
	var req struct{ UserID, BookID string }
	json.NewDecoder(r.Body).Decode(&req)

	b.mu.Lock()
	defer b.mu.Unlock()
	if status, ok := b.failBorrow[req.BookID]; ok {
		writeError(w, status, "Book is not available")
		return
	}
	for i, bk := range b.books {
		if bk.ID == req.BookID {
			b.books[i].Available = false
		}
	}
	b.borrows = append(b.borrows, BorrowCall{UserID: req.UserID, BookID: req.BookID})
	writeJSON(w, http.StatusCreated, map[string]any{
		"transaction": map[string]string{
			"_id":    fmt.Sprintf("t%d", len(b.borrows)),
			"userId": req.UserID,
			"bookId": req.BookID,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
