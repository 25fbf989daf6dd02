// Package view turns the aggregated article set into the paged, filtered list a reader
// scrolls through, with load-more, error and retry handling.
package view

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/classify"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/content"
	log "github.com/sirupsen/logrus"
)

type State int

const (
	Idle State = iota
	Loading
	Ready
	LoadingMore
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case LoadingMore:
		return "loading-more"
	case Error:
		return "error"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Source produces the full article set. feed.Aggregator satisfies it.
type Source interface {
	FetchAllArticles(ctx context.Context) ([]content.Item, error)
}

// Snapshot is a consistent copy of the engine's observable state.
type Snapshot struct {
	Items   []content.Item
	State   State
	Loading bool
	Err     error
	HasMore bool
	Page    int
	Filter  Filter
	Total   int
}

const (
	DefaultPageSize      = 6
	DefaultLoadMoreDelay = 500 * time.Millisecond
)

// Engine is safe for concurrent use.
type Engine struct {
	source   Source
	pageSize int
	delay    time.Duration
	now      func() time.Time
	rng      *rand.Rand
	ranker   Ranker

	mu        sync.Mutex
	state     State
	err       error
	all       []content.Item
	displayed []content.Item
	filter    Filter
	page      int
	total     int
	hasMore   bool
	seed      int64
	// loadGen changes on every Load; an older aggregate is dropped.
	loadGen uint64
	// viewGen changes whenever the displayed list is rebuilt; an in-flight LoadMore
	// from an older generation is dropped.
	viewGen uint64
}

type Option func(*Engine)

func WithPageSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.pageSize = n
		}
	}
}

func WithLoadMoreDelay(d time.Duration) Option {
	return func(e *Engine) { e.delay = d }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRand seeds the most-viewed shuffle.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithRanker replaces the most-viewed shuffle with a deterministic ordering.
func WithRanker(r Ranker) Option {
	return func(e *Engine) { e.ranker = r }
}

func WithFilter(f Filter) Option {
	return func(e *Engine) { e.filter = f }
}

func New(src Source, opts ...Option) *Engine {
	e := &Engine{
		source:   src,
		pageSize: DefaultPageSize,
		delay:    DefaultLoadMoreDelay,
		now:      time.Now,
		filter:   DefaultFilter(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e.seed = e.rng.Int63()
	return e
}

// Load aggregates all sources, classifies the result and shows the first page.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	e.state = Loading
	e.err = nil
	e.loadGen++
	e.viewGen++
	gen := e.loadGen
	e.mu.Unlock()

	items, err := e.source.FetchAllArticles(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.loadGen {
		return nil
	}
	switch {
	case err != nil:
		e.fail(fmt.Errorf("%w: %w", ErrFetchFailed, err))
	case len(items) == 0:
		e.fail(ErrNoArticles)
	default:
		e.all = classify.CategorizeAll(items)
		e.err = nil
		if err := e.rebuild(); err != nil {
			e.fail(err)
		}
	}
	return e.err
}

// Retry re-runs Load, typically after an Error state.
func (e *Engine) Retry(ctx context.Context) error {
	return e.Load(ctx)
}

// SetFilter recomputes the view from the full set and shows the first page. An invalid
// filter is reported without touching what is displayed.
func (e *Engine) SetFilter(f Filter) error {
	if err := f.Validate(); err != nil {
		e.mu.Lock()
		e.err = err
		if len(e.displayed) == 0 && e.state != Loading {
			e.state = Error
		}
		e.mu.Unlock()
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.filter = f
	e.seed = e.rng.Int63()
	e.viewGen++
	// A running Load applies the stored filter when it completes.
	if e.all == nil || e.state == Loading {
		return nil
	}
	e.err = nil
	if err := e.rebuild(); err != nil {
		e.fail(err)
		return err
	}
	return nil
}

// LoadMore appends the next page after the load-more delay. It is a no-op unless the
// engine is Ready, and leaves the list unchanged when there is nothing left.
func (e *Engine) LoadMore(ctx context.Context) error {
	e.mu.Lock()
	if e.state != Ready {
		e.mu.Unlock()
		return nil
	}
	e.state = LoadingMore
	gen, page, filter, seed, all := e.viewGen, e.page, e.filter, e.seed, e.all
	e.mu.Unlock()

	if e.delay > 0 {
		t := time.NewTimer(e.delay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			e.mu.Lock()
			if gen == e.viewGen {
				e.state = Ready
			}
			e.mu.Unlock()
			return ctx.Err()
		}
	}

	derived, err := Derive(all, filter, e.now(), e.options(seed))

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.viewGen {
		return nil
	}
	if err != nil {
		if len(e.displayed) == 0 {
			e.fail(err)
		} else {
			log.WithField("error", err).Warn("Loading more articles failed")
			e.state = Ready
		}
		return err
	}

	next := Page(derived, page, e.pageSize)
	e.total = len(derived)
	if len(next) == 0 {
		e.hasMore = false
		e.state = Ready
		return nil
	}
	e.displayed = append(slices.Clip(e.displayed), next...)
	e.page++
	e.hasMore = e.page*e.pageSize < len(derived)
	e.state = Ready
	return nil
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		Items:   slices.Clone(e.displayed),
		State:   e.state,
		Loading: e.state == Loading || e.state == LoadingMore,
		Err:     e.err,
		HasMore: e.hasMore,
		Page:    e.page,
		Filter:  e.filter,
		Total:   e.total,
	}
}

// All returns the full classified set from the last successful load.
func (e *Engine) All() []content.Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.all)
}

// rebuild derives the first page for the current filter. Callers hold mu.
func (e *Engine) rebuild() error {
	derived, err := Derive(e.all, e.filter, e.now(), e.options(e.seed))
	if err != nil {
		return err
	}
	e.displayed = slices.Clone(Page(derived, 0, e.pageSize))
	e.page = 1
	e.total = len(derived)
	e.hasMore = len(derived) > e.pageSize
	e.state = Ready
	return nil
}

// options rebuilds the shuffle from seed so every page of one filter sees the same order.
func (e *Engine) options(seed int64) Options {
	return Options{Rand: rand.New(rand.NewSource(seed)), Ranker: e.ranker}
}

// fail records err. Callers hold mu.
func (e *Engine) fail(err error) {
	e.err = err
	e.state = Error
	e.displayed = nil
	e.page = 0
	e.total = 0
	e.hasMore = false
}
