package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSession_RequiresFutureExpiry(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	uid := seedUser(t, e.store, "alice")

	now := time.Now()
	e.sessions.now = func() time.Time { return now }

	_, err := e.sessions.CreateSession(ctx, uid, "tok-past", now.Add(-time.Second))
	assert.ErrorIs(t, err, common.ErrorInvalidArgument)

	_, err = e.sessions.CreateSession(ctx, uid, "tok-now", now)
	assert.ErrorIs(t, err, common.ErrorInvalidArgument)

	s, err := e.sessions.CreateSession(ctx, uid, "tok-future", now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, uid, s.UserID)
	assert.NotEmpty(t, s.ID)
}

func TestCreateSession_DuplicateTokenConflicts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	uid := seedUser(t, e.store, "alice")

	_, err := e.sessions.CreateSession(ctx, uid, "same", time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = e.sessions.CreateSession(ctx, uid, "same", time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, common.ErrorConflict)
}

func TestSessionLookups_AbsentIsNotAnError(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	s, err := e.sessions.GetSessionByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = e.sessions.GetSessionByToken(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, s)

	list, err := e.sessions.GetSessionsByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeleteSession_Idempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	uid := seedUser(t, e.store, "alice")
	s := seedSession(t, e.store, uid, "tok", time.Now().Add(time.Hour))

	require.NoError(t, e.sessions.DeleteSession(ctx, s.ID))
	require.NoError(t, e.sessions.DeleteSession(ctx, s.ID))

	got, err := e.sessions.GetSessionByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSweepExpired_Idempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	uid := seedUser(t, e.store, "alice")
	now := time.Now()
	live := seedSession(t, e.store, uid, "live", now.Add(time.Hour))
	seedSession(t, e.store, uid, "old1", now.Add(-time.Minute))
	seedSession(t, e.store, uid, "old2", now.Add(-time.Hour))

	removed, err := e.sessions.SweepExpired(ctx, now)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = e.sessions.SweepExpired(ctx, now)
	require.NoError(t, err)
	assert.False(t, removed)

	list, err := e.sessions.GetSessionsByUser(ctx, uid)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, live.ID, list[0].ID)
}

func TestAuthenticate_ExpiredSessionIsUnauthenticatedBeforeSweep(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	uid := seedUser(t, e.store, "alice")
	now := time.Now()
	s1 := seedSession(t, e.store, uid, "s1", now.Add(time.Hour))
	s2 := seedSession(t, e.store, uid, "s2", now.Add(-time.Minute))

	got, err := e.sessions.GetSessionByID(ctx, s2.ID)
	require.NoError(t, err)
	require.NotNil(t, got, "expired row still exists until swept")
	assert.False(t, got.ActiveAt(now))

	_, err = e.sessions.Authenticate(ctx, "s2")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	p, err := e.sessions.Authenticate(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, uid, p.UserID)
	assert.Equal(t, s1.ID, p.SessionID)

	_, err = e.sessions.Authenticate(ctx, "unknown")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	_, err = e.sessions.Authenticate(ctx, "")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestAuthenticateAccessToken(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	uid := seedUser(t, e.store, "alice")
	s := seedSession(t, e.store, uid, "tok", time.Now().Add(time.Hour))

	pair, err := e.sessions.Refresh(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, s.ID, pair.SessionID)
	assert.False(t, pair.AccessTokenExpiresAt.After(s.ExpiresAt))

	p, err := e.sessions.AuthenticateAccessToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uid, p.UserID)

	t.Run("tampered", func(t *testing.T) {
		_, err := e.sessions.AuthenticateAccessToken(ctx, pair.AccessToken+"x")
		assert.ErrorIs(t, err, common.ErrorUnauthorized)
	})

	t.Run("foreign user in claims", func(t *testing.T) {
		forged, err := auth.GenerateToken("someone-else", s.ID, []byte(e.cfg.SecretKey), time.Now().Add(time.Minute))
		require.NoError(t, err)
		_, err = e.sessions.AuthenticateAccessToken(ctx, forged)
		assert.ErrorIs(t, err, common.ErrorUnauthorized)
	})

	t.Run("expired token", func(t *testing.T) {
		old, err := auth.GenerateToken(uid, s.ID, []byte(e.cfg.SecretKey), time.Now().Add(-time.Minute))
		require.NoError(t, err)
		_, err = e.sessions.AuthenticateAccessToken(ctx, old)
		assert.ErrorIs(t, err, common.ErrorUnauthorized)
		assert.ErrorIs(t, err, common.ErrTokenExpired)
	})

	t.Run("revoked session", func(t *testing.T) {
		require.NoError(t, e.sessions.DeleteSession(ctx, s.ID))
		_, err := e.sessions.AuthenticateAccessToken(ctx, pair.AccessToken)
		assert.ErrorIs(t, err, common.ErrorUnauthorized)
	})
}

func TestAccessTokenNeverOutlivesSession(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	uid := seedUser(t, e.store, "alice")
	s := seedSession(t, e.store, uid, "short", time.Now().Add(time.Minute))

	pair, err := e.sessions.Refresh(ctx, "short")
	require.NoError(t, err)
	assert.True(t, pair.AccessTokenExpiresAt.Equal(s.ExpiresAt))
}

func TestRefresh_ExpiredSession(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	uid := seedUser(t, e.store, "alice")
	seedSession(t, e.store, uid, "old", time.Now().Add(-time.Second))

	_, err := e.sessions.Refresh(ctx, "old")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	_, err = e.sessions.Refresh(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestRevokeUserSession_OnlyOwn(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := seedUser(t, e.store, "alice")
	bob := seedUser(t, e.store, "bob")
	s := seedSession(t, e.store, alice, "tok", time.Now().Add(time.Hour))

	err := e.sessions.RevokeUserSession(ctx, bob, s.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, e.sessions.RevokeUserSession(ctx, alice, s.ID))
	err = e.sessions.RevokeUserSession(ctx, alice, s.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
