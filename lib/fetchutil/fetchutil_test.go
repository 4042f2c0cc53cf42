package fetchutil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestFetchBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	body, err := Fetch(context.Background(), resty.New(), server.URL)
	require.NoError(t, err)
	require.Contains(t, string(body), "ok")
}

func TestFetchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := Fetch(context.Background(), resty.New(), server.URL)
	require.Error(t, err)

	var fe *Error
	require.True(t, errors.As(err, &fe))
	require.Equal(t, HTTP, fe.Kind)
	require.Equal(t, http.StatusNotFound, fe.Status)
}

func TestFetchNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := Fetch(context.Background(), resty.New(), server.URL)
	require.Error(t, err)

	var fe *Error
	require.True(t, errors.As(err, &fe))
	require.Equal(t, Network, fe.Kind)
}

func TestFetchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer server.Close()

	client := resty.New().SetTimeout(20 * time.Millisecond)
	_, err := Fetch(context.Background(), client, server.URL)
	require.Error(t, err)

	var fe *Error
	require.True(t, errors.As(err, &fe))
	require.Equal(t, Timeout, fe.Kind)
}

func TestFetchDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div class="title">hello</div></body></html>`))
	}))
	defer server.Close()

	doc, err := FetchDocument(context.Background(), resty.New(), server.URL)
	require.NoError(t, err)
	require.Equal(t, "hello", doc.Find("div.title").Text())
}
