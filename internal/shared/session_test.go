package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionManager(client, "retour_session", "test-secret", time.Hour, false), mr
}

func TestLoadWithoutCookieCreatesFreshSession(t *testing.T) {
	sm, _ := newTestManager(t)

	r := httptest.NewRequest("GET", "/", nil)
	sess, err := sm.Load(context.Background(), r)
	require.NoError(t, err)
	assert.Nil(t, sess.Identity())
}

func TestAnonymousSessionGetsNoCookie(t *testing.T) {
	sm, mr := newTestManager(t)

	r := httptest.NewRequest("GET", "/", nil)
	sess, err := sm.Load(context.Background(), r)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, sm.Commit(context.Background(), w, sess))
	assert.Empty(t, w.Result().Cookies())
	assert.Empty(t, mr.Keys())
}

func TestLoginPersistsAndRoundTrips(t *testing.T) {
	sm, _ := newTestManager(t)
	ctx := context.Background()

	r := httptest.NewRequest("POST", "/login", nil)
	sess, err := sm.Load(ctx, r)
	require.NoError(t, err)
	sess.SetIdentity(Identity{UserID: 7, Username: "alice", Role: RoleAdmin})

	w := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, w, sess))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "retour_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	next := httptest.NewRequest("GET", "/me", nil)
	next.AddCookie(cookies[0])
	loaded, err := sm.Load(ctx, next)
	require.NoError(t, err)
	ident := loaded.Identity()
	require.NotNil(t, ident)
	assert.Equal(t, int64(7), ident.UserID)
	assert.Equal(t, "alice", ident.Username)
}

func TestDestroyRemovesSession(t *testing.T) {
	sm, mr := newTestManager(t)
	ctx := context.Background()

	r := httptest.NewRequest("POST", "/login", nil)
	sess, err := sm.Load(ctx, r)
	require.NoError(t, err)
	sess.SetIdentity(Identity{UserID: 1, Username: "alice"})

	w := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, w, sess))
	require.Len(t, mr.Keys(), 1)

	sm.Destroy(sess)
	w2 := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, w2, sess))
	assert.Empty(t, mr.Keys())

	cookies := w2.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestExpiredSessionLoadsAnonymous(t *testing.T) {
	sm, mr := newTestManager(t)
	ctx := context.Background()

	r := httptest.NewRequest("POST", "/login", nil)
	sess, err := sm.Load(ctx, r)
	require.NoError(t, err)
	sess.SetIdentity(Identity{UserID: 1, Username: "alice"})

	w := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, w, sess))
	mr.FastForward(2 * time.Hour)

	next := httptest.NewRequest("GET", "/me", nil)
	next.AddCookie(w.Result().Cookies()[0])
	loaded, err := sm.Load(ctx, next)
	require.NoError(t, err)
	assert.Nil(t, loaded.Identity())
}
