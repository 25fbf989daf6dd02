package feed

import (
	"context"
	"fmt"
	"net/http"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/config"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/content"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Fetcher normalizes a single source, reporting why it produced nothing.
type Fetcher interface {
	Fetch(ctx context.Context, source config.Source) ([]content.Item, error)
	FetchEpisodes(ctx context.Context, source config.Source) ([]content.Episode, error)
}

type FetchResult struct {
	Articles []content.Item
	Errors   []error
}

// Aggregator fans out over the source registry and concatenates what succeeds.
type Aggregator struct {
	fetcher  Fetcher
	articles []config.Source
	podcasts []config.Source
	limit    int
}

// NewAggregator splits sources into article and podcast sources, keeping registry order.
// A limit of zero or less means unbounded concurrency.
func NewAggregator(f Fetcher, sources []config.Source, limit int) *Aggregator {
	a := &Aggregator{fetcher: f, limit: limit}
	for _, s := range sources {
		if s.IsPodcast() {
			a.podcasts = append(a.podcasts, s)
		} else {
			a.articles = append(a.articles, s)
		}
	}
	return a
}

// New wires the HTTP retriever, normalizer and aggregator from cfg. store may be nil.
func New(cfg *config.Config, store DocumentStore, userAgent string) *Aggregator {
	opts := []RetrieverOption{
		WithHTTPClient(&http.Client{}),
		WithProxy(cfg.ProxyURL),
		WithTimeout(cfg.RequestTimeoutDuration()),
		WithUserAgent(userAgent),
	}
	if store != nil {
		opts = append(opts, WithDocumentStore(store))
	}
	n := NewNormalizer(NewHTTPRetriever(opts...), cfg.Images())
	return NewAggregator(n, cfg.EnabledSources(), cfg.GetMaxConcurrency())
}

// ArticleSources returns the sources FetchAllArticles reads.
func (a *Aggregator) ArticleSources() []config.Source { return a.articles }

// PodcastSources returns the sources FetchAllPodcasts reads.
func (a *Aggregator) PodcastSources() []config.Source { return a.podcasts }

// FetchAll waits for every article source to settle. Articles are in registry order.
func (a *Aggregator) FetchAll(ctx context.Context) FetchResult {
	items, errs := gather(ctx, a.articles, a.limit, a.fetcher.Fetch)
	return FetchResult{Articles: items, Errors: errs}
}

// FetchAllArticles never fails because of a source. The only error is ctx being done.
func (a *Aggregator) FetchAllArticles(ctx context.Context) ([]content.Item, error) {
	res := a.FetchAll(ctx)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("aggregating articles: %w", err)
	}
	aggregateItems.Set(float64(len(res.Articles)))
	aggregateFailedSources.Set(float64(len(res.Errors)))
	log.WithFields(log.Fields{
		"items":   len(res.Articles),
		"sources": len(a.articles),
		"failed":  len(res.Errors),
	}).Info("Aggregated articles")
	return res.Articles, nil
}

func (a *Aggregator) FetchAllPodcasts(ctx context.Context) ([]content.Episode, error) {
	episodes, errs := gather(ctx, a.podcasts, a.limit, a.fetcher.FetchEpisodes)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("aggregating podcasts: %w", err)
	}
	log.WithFields(log.Fields{
		"episodes": len(episodes),
		"sources":  len(a.podcasts),
		"failed":   len(errs),
	}).Info("Aggregated podcasts")
	return episodes, nil
}

// gather runs fetch for every source and concatenates the results in source order.
// Failing or panicking sources are logged and contribute nothing.
func gather[T any](ctx context.Context, sources []config.Source, limit int, fetch func(context.Context, config.Source) ([]T, error)) ([]T, []error) {
	results := make([][]T, len(sources))
	errs := make([]error, len(sources))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, src := range sources {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("fetching %s: panic: %v", src.Name, r)
					logFetchError(src, errs[i])
				}
			}()
			items, err := fetch(ctx, src)
			if err != nil {
				errs[i] = err
				logFetchError(src, err)
				return nil
			}
			results[i] = items
			return nil
		})
	}
	// Goroutines never return an error.
	_ = g.Wait()

	out := lo.Flatten(results)
	if out == nil {
		out = []T{}
	}
	return out, lo.Filter(errs, func(err error, _ int) bool { return err != nil })
}
