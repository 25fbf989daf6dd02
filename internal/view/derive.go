package view

import (
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/content"
	"github.com/samber/lo"
)

// Ranker orders items for the most-viewed sort instead of a shuffle.
type Ranker interface {
	Sort(items []content.Item)
}

// Options tunes Derive. A nil Rand is seeded from the clock.
type Options struct {
	Rand   *rand.Rand
	Ranker Ranker
}

// Derive applies f to items: category match, date cutoff relative to now, then sort.
// items is never modified.
func Derive(items []content.Item, f Filter, now time.Time, opts Options) ([]content.Item, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	out := items
	if f.Category != "" {
		out = lo.Filter(out, func(it content.Item, _ int) bool {
			return strings.EqualFold(string(it.Category), string(f.Category))
		})
	}
	if cutoff, ok := Cutoff(f.DateRange, now); ok {
		out = lo.Filter(out, func(it content.Item, _ int) bool {
			return !it.Published.IsZero() && !it.Published.Before(cutoff)
		})
	}
	// Sorting below must not reorder the caller's slice.
	if len(out) == len(items) {
		out = append([]content.Item(nil), out...)
	}

	switch f.SortBy {
	case Newest:
		sortByDate(out, true)
	case Oldest:
		sortByDate(out, false)
	case MostViewed:
		if opts.Ranker != nil {
			opts.Ranker.Sort(out)
			break
		}
		rng := opts.Rand
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	}
	return out, nil
}

// Cutoff returns the earliest publish time a date range admits.
func Cutoff(d DateRange, now time.Time) (time.Time, bool) {
	switch d {
	case ThisWeek:
		return now.AddDate(0, 0, -7), true
	case ThisMonth:
		return now.AddDate(0, -1, 0), true
	case ThisYear:
		return now.AddDate(-1, 0, 0), true
	}
	return time.Time{}, false
}

// sortByDate orders by publish time. Undated items always sort last.
func sortByDate(items []content.Item, newestFirst bool) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Published, items[j].Published
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		if newestFirst {
			return a.After(b)
		}
		return a.Before(b)
	})
}

// Page returns the zero-based page window of items, or nil past the end.
func Page(items []content.Item, page, size int) []content.Item {
	if size <= 0 || page < 0 {
		return nil
	}
	start := page * size
	if start >= len(items) {
		return nil
	}
	end := min(start+size, len(items))
	return items[start:end]
}
