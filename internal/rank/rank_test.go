package rank

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/content"
)

var now = time.Date(2025, time.May, 10, 12, 0, 0, 0, time.UTC)

func TestScoreRecentItem(t *testing.T) {
	item := content.Item{
		Title:     "New multimodal model release beats reasoning benchmark",
		Excerpt:   longExcerpt(),
		Source:    "OpenAI",
		Published: now,
	}
	b := ScoreWithBreakdown(item, SourceWeights{"OpenAI": 0.9}, now)
	if b.Final < 5.0 {
		t.Errorf("expected high score for fresh, heavy-source item, got %.1f", b.Final)
	}
	if b.Final > 10.0 {
		t.Errorf("score should not exceed 10.0, got %.1f", b.Final)
	}
}

func TestScoreOldItem(t *testing.T) {
	fresh := content.Item{Title: "Model", Source: "S", Published: now}
	old := fresh
	old.Published = now.Add(-30 * 24 * time.Hour)

	w := SourceWeights{"S": 0.5}
	if ScoreWithBreakdown(old, w, now).Final >= ScoreWithBreakdown(fresh, w, now).Final {
		t.Error("a month-old item should score below a fresh one")
	}
}

func TestRecencyDecay(t *testing.T) {
	fresh := recencyScore(now, now)
	week := recencyScore(now.Add(-7*24*time.Hour), now)
	month := recencyScore(now.Add(-30*24*time.Hour), now)

	if fresh < 0.99 {
		t.Errorf("recency now should be ~1.0, got %.2f", fresh)
	}
	if math.Abs(week-0.5) > 0.01 {
		t.Errorf("recency at 7d should be ~0.5, got %.2f", week)
	}
	if month > 0.1 {
		t.Errorf("recency at 30d should be <0.1, got %.2f", month)
	}
	if recencyScore(time.Time{}, now) != 0 {
		t.Error("unknown publish time should score 0")
	}
	if recencyScore(now.Add(time.Hour), now) != 1 {
		t.Error("future publish time should clamp to 1")
	}
}

func TestSourceScoreDefault(t *testing.T) {
	if got := sourceScore("Anything", nil); got != 0.5 {
		t.Errorf("expected default 0.5, got %.2f", got)
	}
	if got := sourceScore("Unknown", SourceWeights{"Other": 0.9}); got != 0.5 {
		t.Errorf("expected default 0.5 for missing source, got %.2f", got)
	}
	if got := sourceScore("Other", SourceWeights{"Other": 0.9}); got != 0.9 {
		t.Errorf("expected 0.9, got %.2f", got)
	}
}

func TestDepthScoreBands(t *testing.T) {
	tests := []struct {
		words int
		want  float64
	}{
		{2, 0.2},
		{12, 0.6},
		{25, 1.0},
	}
	for _, tt := range tests {
		if got := depthScore(nWords(tt.words)); got != tt.want {
			t.Errorf("depthScore(%d words) = %.1f, want %.1f", tt.words, got, tt.want)
		}
	}
}

func TestKeywordScore(t *testing.T) {
	if got := keywordScore("", ""); got != 0 {
		t.Errorf("empty text should score 0, got %.2f", got)
	}
	if got := keywordScore("LLM agents", "reasoning"); got != 1.0 {
		t.Errorf("all-keyword text should cap at 1.0, got %.2f", got)
	}
}

func TestRankerSortDescending(t *testing.T) {
	r := NewRanker(map[string]float64{"Heavy": 1.0, "Light": 0.1}).WithClock(func() time.Time { return now })
	items := []content.Item{
		{ID: "light", Source: "Light", Title: "Notes", Published: now.Add(-20 * 24 * time.Hour)},
		{ID: "heavy", Source: "Heavy", Title: "LLM agents release", Published: now},
		{ID: "mid", Source: "Heavy", Title: "Notes", Published: now.Add(-3 * 24 * time.Hour)},
	}
	r.Sort(items)

	got := []string{items[0].ID, items[1].ID, items[2].ID}
	want := []string{"heavy", "mid", "light"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	for i := 1; i < len(items); i++ {
		if r.Score(items[i-1]) < r.Score(items[i]) {
			t.Errorf("scores not descending at %d", i)
		}
	}
}

func TestScoreZeroInput(t *testing.T) {
	score := NewRanker(nil).Score(content.Item{})
	if score < 0 || score > 10 {
		t.Errorf("score out of range for zero input: %.1f", score)
	}
}

func longExcerpt() string {
	return strings.Repeat("model training inference word ", 6)
}

func nWords(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}
