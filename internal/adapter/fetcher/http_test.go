package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcherReturnsBodyAndContentType(t *testing.T) {
	var gotUA, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		gotPath = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(time.Second, 1024, "")
	img, err := f.Fetch(context.Background(), srv.URL+"/%D8%B5%D9%88%D8%B1%D8%A9.jpg")
	require.NoError(t, err)

	assert.Equal(t, []byte("png-bytes"), img.Body)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, DefaultUserAgent, gotUA)
	assert.Equal(t, "/%D8%B5%D9%88%D8%B1%D8%A9.jpg", gotPath)
}

func TestHTTPFetcherNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher(time.Second, 1024, "test").Fetch(context.Background(), srv.URL+"/missing.jpg")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestHTTPFetcherBodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 11)))
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher(time.Second, 10, "test").Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 10 bytes")

	img, err := NewHTTPFetcher(time.Second, 11, "test").Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, img.Body, 11)
}

func TestHTTPFetcherTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewHTTPFetcher(20*time.Millisecond, 10, "test").Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestHTTPFetcherInvalidURL(t *testing.T) {
	_, err := NewHTTPFetcher(time.Second, 10, "test").Fetch(context.Background(), "://bad")
	assert.Error(t, err)
}
