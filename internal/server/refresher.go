package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/classify"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/content"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/view"
	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
)

// Aggregator is satisfied by feed.Aggregator.
type Aggregator interface {
	FetchAllArticles(ctx context.Context) ([]content.Item, error)
	FetchAllPodcasts(ctx context.Context) ([]content.Episode, error)
}

// Refresher keeps the latest classified article and episode sets in memory.
type Refresher struct {
	agg        Aggregator
	interval   time.Duration
	newBackOff func() backoff.BackOff

	mu          sync.RWMutex
	articles    []content.Item
	episodes    []content.Episode
	refreshedAt time.Time
}

type RefresherOption func(*Refresher)

// WithBackOff sets the retry policy used when a refresh fails or comes back empty.
func WithBackOff(fn func() backoff.BackOff) RefresherOption {
	return func(r *Refresher) { r.newBackOff = fn }
}

func NewRefresher(agg Aggregator, interval time.Duration, opts ...RefresherOption) *Refresher {
	r := &Refresher{
		agg:      agg,
		interval: interval,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 2 * time.Second
			b.MaxInterval = 2 * time.Minute
			b.MaxElapsedTime = 10 * time.Minute
			return b
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Refresh aggregates once. An empty article set is ErrNoArticles and keeps the
// previous snapshot.
func (r *Refresher) Refresh(ctx context.Context) error {
	items, err := r.agg.FetchAllArticles(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", view.ErrFetchFailed, err)
	}
	if len(items) == 0 {
		return view.ErrNoArticles
	}
	episodes, err := r.agg.FetchAllPodcasts(ctx)
	if err != nil {
		log.WithField("error", err).Warn("Podcast refresh failed, keeping previous episodes")
	}

	classified := classify.CategorizeAll(items)

	r.mu.Lock()
	r.articles = classified
	if err == nil {
		r.episodes = episodes
	}
	r.refreshedAt = time.Now()
	r.mu.Unlock()

	snapshotArticles.Set(float64(len(classified)))
	log.WithFields(log.Fields{
		"articles": len(classified),
		"episodes": len(episodes),
	}).Info("Snapshot refreshed")
	return nil
}

// RefreshWithRetry retries Refresh with exponential backoff until it succeeds, the
// policy gives up or ctx is done.
func (r *Refresher) RefreshWithRetry(ctx context.Context) error {
	op := func() error {
		err := r.Refresh(ctx)
		if err != nil && ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		refreshRetries.Inc()
		log.WithFields(log.Fields{
			"error": err,
			"wait":  wait,
		}).Warn("Refresh failed, retrying")
	}
	return backoff.RetryNotify(op, backoff.WithContext(r.newBackOff(), ctx), notify)
}

// Run refreshes immediately and then every interval until ctx is done.
func (r *Refresher) Run(ctx context.Context) {
	if err := r.RefreshWithRetry(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.WithField("error", err).Error("Initial refresh failed")
	}
	if r.interval <= 0 {
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.RefreshWithRetry(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WithField("error", err).Error("Scheduled refresh failed")
			}
		}
	}
}

// Articles returns the current classified set. Callers must not modify it.
func (r *Refresher) Articles() []content.Item {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.articles
}

func (r *Refresher) Episodes() []content.Episode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.episodes
}

func (r *Refresher) RefreshedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.refreshedAt
}
