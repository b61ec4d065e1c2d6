package netx

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutPresigned(t *testing.T) {
	blob := []byte("ciphertext")

	t.Run("success 200 OK", func(t *testing.T) {
		var gotBody []byte
		var gotCT, gotMethod string

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotCT = r.Header.Get("Content-Type")
			gotBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
		}))
		defer ts.Close()

		err := PutPresigned(context.Background(), ts.Client(), ts.URL+"/k?X-Amz-Signature=abc", bytes.NewReader(blob), int64(len(blob)))
		require.NoError(t, err)
		assert.Equal(t, http.MethodPut, gotMethod)
		assert.Equal(t, "application/octet-stream", gotCT)
		assert.Equal(t, blob, gotBody)
	})

	t.Run("non-200 -> error with body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("SignatureDoesNotMatch"))
		}))
		defer ts.Close()

		err := PutPresigned(context.Background(), ts.Client(), ts.URL, bytes.NewReader(blob), int64(len(blob)))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "403")
		assert.Contains(t, err.Error(), "SignatureDoesNotMatch")
	})

	t.Run("bad url", func(t *testing.T) {
		err := PutPresigned(context.Background(), http.DefaultClient, "://bad", bytes.NewReader(blob), int64(len(blob)))
		require.Error(t, err)
	})
}

func TestGetPresigned(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ok" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("blob"))
	}))
	defer ts.Close()

	var buf bytes.Buffer
	n, err := GetPresigned(context.Background(), ts.Client(), ts.URL+"/ok", &buf)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
	assert.Equal(t, "blob", buf.String())

	_, err = GetPresigned(context.Background(), ts.Client(), ts.URL+"/missing", &buf)
	require.Error(t, err)
}
