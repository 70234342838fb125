package session

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/shelf/internal/api"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/store"
	"github.com/mmcdole/shelf/internal/testutil"
)

func newService(t *testing.T) (*Service, *testutil.Backend, *store.SessionStore) {
	t.Helper()
	backend := testutil.NewBackend(t)
	backend.AddUser(testutil.User{ID: "u1", Name: "Ann", Email: "ann@example.com", Role: "admin", Password: "pw"})

	st, err := store.NewSessionStore("", "")
	require.NoError(t, err)

	client := api.NewClient(backend.URL(), 0, nil)
	svc := NewService(client, st, nil)
	client.SetTokenSource(svc)
	return svc, backend, st
}

func TestLogin_DecodesIdentity(t *testing.T) {
	svc, _, st := newService(t)

	sess, err := svc.Login(context.Background(), "ann@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "u1", sess.UserID)
	assert.Equal(t, "Ann", sess.Name)
	assert.Equal(t, domain.RoleAdmin, sess.Role)
	assert.True(t, svc.IsAdmin())
	assert.NotEmpty(t, svc.Token())

	stored, ok := st.LoadSession()
	require.True(t, ok)
	assert.Equal(t, sess, stored)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Login(context.Background(), "ann@example.com", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Contains(t, err.Error(), "Invalid credentials")

	_, ok := svc.Current()
	assert.False(t, ok)
}

func TestLogin_RequiresFields(t *testing.T) {
	svc, backend, _ := newService(t)

	_, err := svc.Login(context.Background(), "  ", "pw")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, domain.KindValidation, domain.Classify(err))
	assert.EqualError(t, err, "email is required")

	_, err = svc.Login(context.Background(), "ann@example.com", "")
	assert.EqualError(t, err, "password is required")
	assert.Zero(t, backend.CountCalls("POST /auth/login"))
}

func TestRegister_RequiresFields(t *testing.T) {
	svc, backend, _ := newService(t)

	err := svc.Register(context.Background(), " ", "new@example.com", "pw")
	require.Error(t, err)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
	assert.Equal(t, domain.KindValidation, domain.Classify(err))
	assert.Zero(t, backend.CountCalls("POST /auth/register"))
}

func TestRestoresStoredSession(t *testing.T) {
	st, err := store.NewSessionStore("", "")
	require.NoError(t, err)
	require.NoError(t, st.SaveSession(domain.Session{AccessToken: "a", UserID: "u9", Role: domain.RoleUser}))

	svc := NewService(nil, st, nil)
	sess, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, "u9", sess.UserID)
	assert.False(t, svc.IsAdmin())
}

func TestLogout_ClearsEverything(t *testing.T) {
	svc, _, st := newService(t)
	_, err := svc.Login(context.Background(), "ann@example.com", "pw")
	require.NoError(t, err)

	ended := 0
	svc.OnEnd(func() { ended++ })

	require.NoError(t, svc.Logout())
	assert.Equal(t, 1, ended)
	assert.Empty(t, svc.Token())
	_, ok := st.LoadSession()
	assert.False(t, ok)

	_, err = svc.Require()
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestRefresh(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.Login(context.Background(), "ann@example.com", "pw")
	require.NoError(t, err)

	require.NoError(t, svc.Refresh(context.Background()))
	sess, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, "refresh-u1", sess.RefreshToken, "refresh token kept when the server does not rotate it")
}

func TestRefresh_RejectedEndsSession(t *testing.T) {
	svc, backend, _ := newService(t)
	_, err := svc.Login(context.Background(), "ann@example.com", "pw")
	require.NoError(t, err)
	backend.Fail("POST /auth/refresh-token", http.StatusForbidden, "Invalid refresh token")

	err = svc.Refresh(context.Background())
	require.Error(t, err)
	_, ok := svc.Current()
	assert.False(t, ok)
}

func TestRegister(t *testing.T) {
	svc, backend, _ := newService(t)

	require.NoError(t, svc.Register(context.Background(), "Bob", "bob@example.com", "pw"))
	err := svc.Register(context.Background(), "Bob", "bob@example.com", "pw")
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.Classify(err))
	assert.Equal(t, 2, backend.CountCalls("POST /auth/register"))
}

func TestSessionFromTokens_RequiresUserID(t *testing.T) {
	_, err := sessionFromTokens(domain.TokenPair{AccessToken: testutil.Token("", "x", "user")})
	assert.Error(t, err)

	_, err = sessionFromTokens(domain.TokenPair{AccessToken: "not-a-jwt"})
	assert.Error(t, err)

	sess, err := sessionFromTokens(domain.TokenPair{AccessToken: testutil.Token("u2", "Cy", "")})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, sess.Role)
}
