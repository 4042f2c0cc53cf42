package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestEnsureLocalDownloads(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("%PDF-1.4 fake sheet"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "inf04", "INF.04-01-24.01-SG", "arkusz.pdf")
	got, err := EnsureLocal(context.Background(), resty.New(), server.URL, dest)
	require.NoError(t, err)
	require.Equal(t, dest, got)
	require.Equal(t, int64(1), hits.Load())

	contents, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.4 fake sheet", string(contents))
}

func TestEnsureLocalCacheHit(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "arkusz.pdf")
	require.NoError(t, os.WriteFile(dest, make([]byte, 5000), 0o644))

	got, err := EnsureLocal(context.Background(), resty.New(), server.URL, dest)
	require.NoError(t, err)
	require.Equal(t, dest, got)
	require.Equal(t, int64(0), hits.Load())
}

func TestEnsureLocalEmptyFileRedownloads(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("data"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "pliki.zip")
	require.NoError(t, os.WriteFile(dest, nil, 0o644))

	_, err := EnsureLocal(context.Background(), resty.New(), server.URL, dest)
	require.NoError(t, err)
	require.Equal(t, int64(1), hits.Load())
}

func TestEnsureLocalFailureLeavesNothing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "rozwiazanie.zip")
	_, err := EnsureLocal(context.Background(), resty.New(), server.URL, dest)
	require.Error(t, err)

	var de *Error
	require.ErrorAs(t, err, &de)

	_, statErr := os.Stat(dest)
	require.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(dest + ".part")
	require.True(t, os.IsNotExist(statErr))
}
