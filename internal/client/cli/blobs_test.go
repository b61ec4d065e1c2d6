package cli

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobRoundTrip(t *testing.T) {
	var stored []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			stored, _ = io.ReadAll(r.Body)
		case http.MethodGet:
			_, _ = w.Write(stored)
		}
	}))
	defer ts.Close()

	dir := t.TempDir()
	src := filepath.Join(dir, "in.bin")
	dst := filepath.Join(dir, "out.bin")
	require.NoError(t, os.WriteFile(src, []byte("sealed"), 0o600))

	app, out := newTestApp(&fakeClient{})
	app.http = ts.Client()
	require.NoError(t, app.Run(context.Background(), []string{"put-blob", "-url", ts.URL + "/k", "-file", src}))
	assert.Contains(t, out.String(), "uploaded 6 bytes")

	app, _ = newTestApp(&fakeClient{})
	app.http = ts.Client()
	require.NoError(t, app.Run(context.Background(), []string{"get-blob", "-url", ts.URL + "/k", "-out", dst}))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "sealed", string(got))
}

func TestGetBlob_FailureRemovesFile(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	dst := filepath.Join(t.TempDir(), "out.bin")
	app, _ := newTestApp(&fakeClient{})
	app.http = ts.Client()

	require.Error(t, app.Run(context.Background(), []string{"get-blob", "-url", ts.URL, "-out", dst}))
	_, err := os.Stat(dst)
	assert.True(t, os.IsNotExist(err))
}

func TestPutBlob_RequiresFlags(t *testing.T) {
	app, _ := newTestApp(&fakeClient{})
	require.Error(t, app.Run(context.Background(), []string{"put-blob", "-url", "http://x"}))
}
