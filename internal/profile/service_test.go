package profile

import (
	"context"
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

func newService(t *testing.T, role string) (*Service, *session.Service, *testutil.Backend, *[]domain.Notice) {
	t.Helper()
	backend := testutil.NewBackend(t)
	backend.AddUser(testutil.User{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: role, Password: "secret"})
	backend.AddUser(testutil.User{ID: "u2", Name: "Grace", Email: "grace@example.com", Role: "user", Password: "secret"})

	st, err := store.NewSessionStore("", "")
	require.NoError(t, err)
	client := api.NewClient(backend.URL(), 0, nil)
	sess := session.NewService(client, st, nil)
	client.SetTokenSource(sess)
	_, err = sess.Login(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)

	var notices []domain.Notice
	rec := domain.NotifierFunc(func(n domain.Notice) { notices = append(notices, n) })
	svc := NewService(client, sess, nil, activity.NewReporter(sess, rec, nil), nil)
	return svc, sess, backend, &notices
}

func TestGet_DefaultsToSignedInUser(t *testing.T) {
	svc, _, _, _ := newService(t, "user")

	p, err := svc.Get(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "u1", p.ID)
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, "ada@example.com", p.Email)
}

func TestGet_NotFound(t *testing.T) {
	svc, sess, _, notices := newService(t, "admin")

	_, err := svc.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NotEmpty(t, *notices)
	assert.True(t, (*notices)[0].IsError())

	_, ok := sess.Current()
	assert.True(t, ok, "not found does not end the session")
}

func TestUpdate(t *testing.T) {
	svc, _, _, _ := newService(t, "user")

	p, err := svc.Update(context.Background(), "", domain.ProfileUpdate{Name: "  Ada Lovelace "})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", p.Name)
	assert.Equal(t, "ada@example.com", p.Email, "unchanged fields stay")
}

func TestUpdate_Validation(t *testing.T) {
	svc, _, backend, notices := newService(t, "user")
	ctx := context.Background()

	tests := []struct {
		name   string
		update domain.ProfileUpdate
	}{
		{"nothing to change", domain.ProfileUpdate{}},
		{"bad email", domain.ProfileUpdate{Email: "not-an-email"}},
		{"short password", domain.ProfileUpdate{Password: "abc"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Update(ctx, "", tc.update)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Zero(t, backend.CountCalls("PUT /auth/update/u1"))
	assert.Len(t, *notices, len(tests))
}

func TestDelete_SelfSignsOut(t *testing.T) {
	svc, sess, _, notices := newService(t, "user")

	require.NoError(t, svc.Delete(context.Background(), ""))

	_, ok := sess.Current()
	assert.False(t, ok)
	assert.Equal(t, domain.RouteLogin, (*notices)[len(*notices)-1].Route)
}

func TestDelete_OtherUserKeepsSession(t *testing.T) {
	svc, sess, backend, _ := newService(t, "admin")

	require.NoError(t, svc.Delete(context.Background(), "u2"))

	_, ok := sess.Current()
	assert.True(t, ok)
	assert.Equal(t, 1, backend.CountCalls("DELETE /auth/delete/u2"))
}

func TestRequiresSession(t *testing.T) {
	svc, sess, backend, _ := newService(t, "user")
	require.NoError(t, sess.Logout())

	_, err := svc.Get(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Zero(t, backend.CountCalls("GET /auth/u1"))
}
