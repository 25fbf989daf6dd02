package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/content"
	"github.com/cenkalti/backoff/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, time.May, 10, 12, 0, 0, 0, time.UTC)

type fakeAggregator struct {
	mu       sync.Mutex
	results  [][]content.Item
	episodes []content.Episode
	err      error
	calls    int
}

func (f *fakeAggregator) FetchAllArticles(ctx context.Context) ([]content.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.results) == 0 {
		return nil, nil
	}
	r := f.results[0]
	if len(f.results) > 1 {
		f.results = f.results[1:]
	}
	return r, nil
}

func (f *fakeAggregator) FetchAllPodcasts(ctx context.Context) ([]content.Episode, error) {
	return f.episodes, nil
}

func articles(n int) []content.Item {
	out := make([]content.Item, n)
	for i := range out {
		out[i] = content.Item{
			ID:        fmt.Sprintf("a-%d", i),
			Source:    "OpenAI",
			Title:     fmt.Sprintf("Model release %d", i),
			Excerpt:   "A new model.",
			Published: now.Add(-time.Duration(i) * time.Hour),
		}
	}
	return out
}

func newApp(t *testing.T, agg *fakeAggregator) (*fiber.App, *Refresher) {
	t.Helper()
	r := NewRefresher(agg, 0)
	if len(agg.results) > 0 {
		require.NoError(t, r.Refresh(context.Background()))
	}
	app := New(Config{Refresher: r, Now: func() time.Time { return now }})
	return app, r
}

func get(t *testing.T, app *fiber.App, target string, out any) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.Unmarshal(body, out), string(body))
	}
	return resp.StatusCode
}

func TestArticlesPagination(t *testing.T) {
	app, _ := newApp(t, &fakeAggregator{results: [][]content.Item{articles(8)}})

	var first ArticlesResponse
	require.Equal(t, http.StatusOK, get(t, app, "/api/articles", &first))
	assert.Len(t, first.Items, 6)
	assert.Equal(t, 1, first.Page)
	assert.Equal(t, 6, first.PageSize)
	assert.Equal(t, 8, first.Total)
	assert.True(t, first.HasMore)
	assert.Equal(t, "a-0", first.Items[0].ID)

	var second ArticlesResponse
	require.Equal(t, http.StatusOK, get(t, app, "/api/articles?page=2", &second))
	assert.Len(t, second.Items, 2)
	assert.False(t, second.HasMore)

	var third ArticlesResponse
	require.Equal(t, http.StatusOK, get(t, app, "/api/articles?page=3", &third))
	assert.Empty(t, third.Items)
	assert.NotNil(t, third.Items)
}

func TestArticlesFilters(t *testing.T) {
	items := articles(3)
	items = append(items, content.Item{ID: "cv", Title: "Camera pose estimation", Published: now})
	app, _ := newApp(t, &fakeAggregator{results: [][]content.Item{items}})

	var resp ArticlesResponse
	require.Equal(t, http.StatusOK, get(t, app, "/api/articles?category=CV&dateRange=all&sortBy=oldest", &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "cv", resp.Items[0].ID)
	assert.Equal(t, content.CV, resp.Items[0].Category)
}

func TestArticlesBadRequest(t *testing.T) {
	app, _ := newApp(t, &fakeAggregator{results: [][]content.Item{articles(2)}})

	for _, target := range []string{
		"/api/articles?dateRange=forever",
		"/api/articles?sortBy=loudest",
		"/api/articles?category=podcast",
		"/api/articles?page=0",
		"/api/articles?page=x",
	} {
		var e errorResponse
		assert.Equal(t, http.StatusBadRequest, get(t, app, target, &e), target)
		assert.NotEmpty(t, e.Error, target)
	}
}

func TestArticlesUnavailable(t *testing.T) {
	app, _ := newApp(t, &fakeAggregator{})
	var e errorResponse
	assert.Equal(t, http.StatusServiceUnavailable, get(t, app, "/api/articles", &e))
	assert.Equal(t, "No articles found. Please try again later.", e.Error)
}

func TestTopics(t *testing.T) {
	items := append(articles(2), content.Item{ID: "cv", Title: "Vision transformers", Published: now})
	app, _ := newApp(t, &fakeAggregator{results: [][]content.Item{items}})

	var topics []TopicResponse
	require.Equal(t, http.StatusOK, get(t, app, "/api/topics", &topics))
	require.Len(t, topics, 4)
	counts := map[string]int{}
	for _, tp := range topics {
		counts[tp.Slug] = tp.Count
	}
	assert.Equal(t, 2, counts["ml"])
	assert.Equal(t, 1, counts["cv"])

	var cv TopicResponse
	require.Equal(t, http.StatusOK, get(t, app, "/api/topics/cv", &cv))
	assert.Equal(t, "Computer Vision", cv.Title)

	var e errorResponse
	assert.Equal(t, http.StatusNotFound, get(t, app, "/api/topics/robotics", &e))
}

func TestSearch(t *testing.T) {
	app, _ := newApp(t, &fakeAggregator{results: [][]content.Item{articles(3)}})

	var resp SearchResponse
	require.Equal(t, http.StatusOK, get(t, app, "/api/search?q=learn", &resp))
	assert.Len(t, resp.Suggestions, 3)
	assert.Empty(t, resp.Articles)

	require.Equal(t, http.StatusOK, get(t, app, "/api/search?q=release%201", &resp))
	require.Len(t, resp.Articles, 1)
	assert.Equal(t, "a-1", resp.Articles[0].ID)
}

func TestTrendingAndPodcasts(t *testing.T) {
	agg := &fakeAggregator{
		results:  [][]content.Item{articles(4)},
		episodes: []content.Episode{{ID: "ep", Title: "Episode"}},
	}
	app, _ := newApp(t, agg)

	var tr TrendingResponse
	require.Equal(t, http.StatusOK, get(t, app, "/api/trending", &tr))
	require.NotEmpty(t, tr.Tags)
	// "model" and "release" tie; ties sort alphabetically.
	assert.Equal(t, "model", tr.Tags[0].Term)
	require.Len(t, tr.Sources, 1)
	assert.Equal(t, 4, tr.Sources[0].Count)

	var eps []content.Episode
	require.Equal(t, http.StatusOK, get(t, app, "/api/podcasts", &eps))
	assert.Len(t, eps, 1)
}

func TestRefreshEndpoint(t *testing.T) {
	agg := &fakeAggregator{results: [][]content.Item{articles(1), articles(5)}}
	app, r := newApp(t, agg)
	require.Len(t, r.Articles(), 1)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/refresh", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, r.Articles(), 5)
}

func TestHealthAndMetrics(t *testing.T) {
	app, _ := newApp(t, &fakeAggregator{results: [][]content.Item{articles(2)}})

	var health map[string]any
	require.Equal(t, http.StatusOK, get(t, app, "/healthz", &health))
	assert.Equal(t, "ok", health["status"])
	assert.EqualValues(t, 2, health["articles"])

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRefreshKeepsSnapshotOnEmpty(t *testing.T) {
	agg := &fakeAggregator{results: [][]content.Item{articles(2), {}}}
	r := NewRefresher(agg, 0)
	require.NoError(t, r.Refresh(context.Background()))
	assert.Error(t, r.Refresh(context.Background()))
	assert.Len(t, r.Articles(), 2)
}

func TestRefreshWithRetry(t *testing.T) {
	agg := &fakeAggregator{results: [][]content.Item{{}, {}, articles(3)}}
	r := NewRefresher(agg, 0, WithBackOff(func() backoff.BackOff {
		return backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), 5)
	}))

	require.NoError(t, r.RefreshWithRetry(context.Background()))
	assert.Len(t, r.Articles(), 3)
	assert.Equal(t, 3, agg.calls)
}

func TestRefreshWithRetryStopsOnCancel(t *testing.T) {
	agg := &fakeAggregator{err: errors.New("offline")}
	r := NewRefresher(agg, 0, WithBackOff(func() backoff.BackOff {
		return backoff.NewConstantBackOff(time.Hour)
	}))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := r.RefreshWithRetry(ctx)
	assert.Error(t, err)
}
