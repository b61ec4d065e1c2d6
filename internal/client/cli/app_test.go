package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/client/client"
	"github.com/dmitrijs2005/gophchat/internal/client/config"
	"github.com/dmitrijs2005/gophchat/internal/cryptox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	sweptAt time.Time
	removed bool
	token   string
	revoked string
	err     error
	closed  bool
}

func (f *fakeClient) Sweep(_ context.Context, now time.Time) (bool, error) {
	f.sweptAt = now
	return f.removed, f.err
}

func (f *fakeClient) WhoAmI(_ context.Context, token string) (*client.Principal, error) {
	f.token = token
	if f.err != nil {
		return nil, f.err
	}
	return &client.Principal{UserID: "u1", SessionID: "s1", ExpiresAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}, nil
}

func (f *fakeClient) Revoke(_ context.Context, id string) error {
	f.revoked = id
	return f.err
}

func (f *fakeClient) Ping(context.Context) error { return f.err }

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

var fixedNow = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

func newTestApp(f *fakeClient) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{
		config: &config.Config{Timeout: time.Second},
		client: f,
		out:    &out,
		now:    func() time.Time { return fixedNow },
	}, &out
}

func TestRun_Usage(t *testing.T) {
	app, _ := newTestApp(&fakeClient{})
	require.ErrorIs(t, app.Run(context.Background(), nil), ErrUsage)

	f := &fakeClient{}
	app, _ = newTestApp(f)
	require.ErrorIs(t, app.Run(context.Background(), []string{"frobnicate"}), ErrUsage)
	assert.True(t, f.closed)
}

func TestSweep(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		removed bool
		wantAt  time.Time
		wantOut string
	}{
		{"defaults to now", []string{"sweep"}, true, fixedNow, "expired sessions removed"},
		{"explicit instant", []string{"sweep", "-now", "2026-01-01T00:00:00Z", "-a", "ignored:1"}, false,
			time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), "nothing to remove"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeClient{removed: tt.removed}
			app, out := newTestApp(f)

			require.NoError(t, app.Run(context.Background(), tt.args))
			assert.True(t, f.sweptAt.Equal(tt.wantAt))
			assert.Contains(t, out.String(), tt.wantOut)
		})
	}
}

func TestSweep_BadInstant(t *testing.T) {
	app, _ := newTestApp(&fakeClient{})
	require.Error(t, app.Run(context.Background(), []string{"sweep", "-now", "tomorrow"}))
}

func TestWhoAmI(t *testing.T) {
	f := &fakeClient{}
	app, out := newTestApp(f)

	require.Error(t, app.Run(context.Background(), []string{"whoami"}))

	app, out = newTestApp(f)
	require.NoError(t, app.Run(context.Background(), []string{"whoami", "-token", "abc"}))
	assert.Equal(t, "abc", f.token)
	assert.Contains(t, out.String(), "u1")
	assert.Contains(t, out.String(), "s1")
}

func TestRevoke(t *testing.T) {
	f := &fakeClient{}
	app, out := newTestApp(f)
	require.NoError(t, app.Run(context.Background(), []string{"revoke", "-session", "s9"}))
	assert.Equal(t, "s9", f.revoked)
	assert.Contains(t, out.String(), "revoked")

	f = &fakeClient{err: client.ErrNotFound}
	app, _ = newTestApp(f)
	require.ErrorIs(t, app.Run(context.Background(), []string{"revoke", "-session", "s9"}), client.ErrNotFound)
}

func TestPing(t *testing.T) {
	app, out := newTestApp(&fakeClient{})
	require.NoError(t, app.Run(context.Background(), []string{"ping"}))
	assert.Equal(t, "OK\n", out.String())

	app, _ = newTestApp(&fakeClient{err: client.ErrUnavailable})
	require.ErrorIs(t, app.Run(context.Background(), []string{"ping"}), client.ErrUnavailable)
}

func TestHashPassword(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) { return []byte("hunter2"), nil }

	app, out := newTestApp(&fakeClient{})
	require.NoError(t, app.Run(context.Background(), []string{"hash-password"}))

	var salt, hash string
	for _, line := range strings.Split(out.String(), "\n") {
		if v, ok := strings.CutPrefix(line, "salt: "); ok {
			salt = v
		}
		if v, ok := strings.CutPrefix(line, "hash: "); ok {
			hash = v
		}
	}
	require.NotEmpty(t, salt)
	require.NotEmpty(t, hash)
	assert.False(t, cryptox.NeedsRehash(hash))
}

func TestHashPassword_ReadError(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }

	app, _ := newTestApp(&fakeClient{})
	require.Error(t, app.Run(context.Background(), []string{"hash-password"}))
}
