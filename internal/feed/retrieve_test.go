package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/cache"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu   sync.Mutex
	docs map[string]cache.Document
}

func newMemStore() *memStore { return &memStore{docs: map[string]cache.Document{}} }

func (m *memStore) GetDocument(url string) (cache.Document, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[url]
	return d, ok, nil
}

func (m *memStore) PutDocument(d cache.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[d.URL] = d
	return nil
}

func TestRetrieveDirect(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(rssFixture))
	}))
	defer srv.Close()

	r := NewHTTPRetriever(WithUserAgent("trendlens/test"))
	body, err := r.Retrieve(context.Background(), config.Source{Name: "S", URL: srv.URL + "/feed"})
	require.NoError(t, err)
	assert.Equal(t, rssFixture, string(body))
	assert.Equal(t, "trendlens/test", gotUA)
}

func TestRetrieveFallsBackToProxy(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer origin.Close()

	var proxied string
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxied = r.URL.Path
		_, _ = w.Write([]byte(atomFixture))
	}))
	defer proxy.Close()

	r := NewHTTPRetriever(WithProxy(proxy.URL + "/"))
	body, err := r.Retrieve(context.Background(), config.Source{Name: "S", URL: origin.URL + "/feed"})
	require.NoError(t, err)
	assert.Equal(t, atomFixture, string(body))
	assert.True(t, strings.HasSuffix(proxied, "/feed"), "proxy saw path %q", proxied)
	assert.Contains(t, proxied, strings.TrimPrefix(origin.URL, "http://"))
}

func TestRetrieveBothFail(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer origin.Close()
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer proxy.Close()

	r := NewHTTPRetriever(WithProxy(proxy.URL + "/"))
	_, err := r.Retrieve(context.Background(), config.Source{Name: "S", URL: origin.URL})
	require.Error(t, err)

	var sfe *SourceFetchError
	require.True(t, errors.As(err, &sfe), "want *SourceFetchError, got %T", err)
	assert.Equal(t, "S", sfe.Source)
	assert.Equal(t, http.StatusInternalServerError, sfe.StatusCode)
	assert.Contains(t, err.Error(), "429")
}

func TestRetrieveWithoutProxy(t *testing.T) {
	calls := 0
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer origin.Close()

	r := NewHTTPRetriever()
	_, err := r.Retrieve(context.Background(), config.Source{Name: "S", URL: origin.URL})
	var sfe *SourceFetchError
	require.True(t, errors.As(err, &sfe))
	assert.Equal(t, http.StatusBadGateway, sfe.StatusCode)
	assert.Equal(t, 1, calls)
}

func TestRetrieveTimeout(t *testing.T) {
	release := make(chan struct{})
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer origin.Close()
	defer close(release)

	r := NewHTTPRetriever(WithTimeout(50 * time.Millisecond))
	start := time.Now()
	_, err := r.Retrieve(context.Background(), config.Source{Name: "S", URL: origin.URL})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRetrieveConditional(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		w.Header().Set("Last-Modified", "Sat, 03 May 2025 10:00:00 GMT")
		_, _ = w.Write([]byte(rssFixture))
	}))
	defer srv.Close()

	store := newMemStore()
	r := NewHTTPRetriever(WithDocumentStore(store))
	src := config.Source{Name: "S", URL: srv.URL + "/rss"}

	first, err := r.Retrieve(context.Background(), src)
	require.NoError(t, err)
	doc, ok, _ := store.GetDocument(src.URL)
	require.True(t, ok)
	assert.Equal(t, `"v1"`, doc.ETag)
	assert.Equal(t, "Sat, 03 May 2025 10:00:00 GMT", doc.LastModified)

	second, err := r.Retrieve(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, hits)
}
