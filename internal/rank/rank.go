// Package rank scores articles for the "most viewed" ordering when a deterministic
// popularity signal is configured instead of the random shuffle.
package rank

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/content"
)

// SourceWeights maps source names to their weight (0.0–1.0).
type SourceWeights map[string]float64

// Breakdown shows how each component contributed to the final score.
type Breakdown struct {
	Recency        float64
	SourceWeight   float64
	Depth          float64
	KeywordDensity float64
	Final          float64
}

const (
	weightRecency  = 0.35
	weightSource   = 0.30
	weightDepth    = 0.10
	weightKeywords = 0.25
)

// halfLifeHours is one week: AI sources publish far less often than news wires.
const halfLifeHours = 7 * 24

// Ranker scores items relative to a fixed clock.
type Ranker struct {
	weights SourceWeights
	now     func() time.Time
}

func NewRanker(weights map[string]float64) *Ranker {
	return &Ranker{weights: SourceWeights(weights), now: time.Now}
}

// WithClock returns a copy of r that measures recency against now.
func (r *Ranker) WithClock(now func() time.Time) *Ranker {
	cp := *r
	cp.now = now
	return &cp
}

// Score computes a popularity score (0.0–10.0) for an item.
func (r *Ranker) Score(item content.Item) float64 {
	return ScoreWithBreakdown(item, r.weights, r.now()).Final
}

// Sort orders items by descending score. Ties keep their relative order.
func (r *Ranker) Sort(items []content.Item) {
	now := r.now()
	scores := make(map[string]float64, len(items))
	for _, it := range items {
		scores[it.ID] = ScoreWithBreakdown(it, r.weights, now).Final
	}
	sort.SliceStable(items, func(i, j int) bool {
		return scores[items[i].ID] > scores[items[j].ID]
	})
}

// ScoreWithBreakdown computes a score with component details.
func ScoreWithBreakdown(item content.Item, weights SourceWeights, now time.Time) Breakdown {
	b := Breakdown{
		Recency:        recencyScore(item.Published, now),
		SourceWeight:   sourceScore(item.Source, weights),
		Depth:          depthScore(item.Excerpt),
		KeywordDensity: keywordScore(item.Title, item.Excerpt),
	}
	raw := b.Recency*weightRecency +
		b.SourceWeight*weightSource +
		b.Depth*weightDepth +
		b.KeywordDensity*weightKeywords
	b.Final = math.Round(raw*100) / 10
	return b
}

// recencyScore decays exponentially: 1.0 at publish, 0.5 after a week.
func recencyScore(published, now time.Time) float64 {
	if published.IsZero() {
		return 0.0
	}
	hours := now.Sub(published).Hours()
	if hours < 0 {
		hours = 0
	}
	return math.Exp(math.Ln2 / -halfLifeHours * hours)
}

// sourceScore looks up the source weight, defaulting to 0.5.
func sourceScore(source string, weights SourceWeights) float64 {
	if w, ok := weights[source]; ok {
		return w
	}
	return 0.5
}

// depthScore bands on excerpt word count. Excerpts are capped at 150 runes.
func depthScore(excerpt string) float64 {
	words := len(strings.Fields(excerpt))
	switch {
	case words >= 20:
		return 1.0
	case words >= 10:
		return 0.6
	default:
		return 0.2
	}
}

var trendKeywords = map[string]bool{
	"llm": true, "llms": true, "gpt": true, "transformer": true, "transformers": true,
	"diffusion": true, "multimodal": true, "agent": true, "agents": true,
	"reasoning": true, "benchmark": true, "open-source": true, "release": true,
	"model": true, "models": true, "training": true, "inference": true,
	"fine-tuning": true, "alignment": true, "safety": true, "rlhf": true,
	"vision": true, "robotics": true, "embedding": true, "embeddings": true,
	"retrieval": true, "rag": true, "scaling": true, "dataset": true,
	"state-of-the-art": true, "breakthrough": true, "launch": true,
}

// keywordScore returns the density of trend keywords (0.0–1.0).
func keywordScore(title, excerpt string) float64 {
	text := strings.ToLower(title + " " + excerpt)
	var words []string
	for _, w := range strings.Fields(text) {
		w = strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if w != "" {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return 0.0
	}

	hits := 0
	for _, w := range words {
		if trendKeywords[w] {
			hits++
		}
	}
	// 10%+ keyword density = 1.0
	return math.Min(float64(hits)/float64(len(words))*10, 1.0)
}
