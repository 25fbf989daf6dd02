package cmd

import (
	"testing"
	"time"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/config"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/content"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/view"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * 24 * time.Hour, "30d"},
		{24 * time.Hour, "1d"},
		{12 * time.Hour, "12h"},
		{30 * time.Minute, "0h"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		b    int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 << 20, "3.0 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.b); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.b, got, tt.want)
		}
	}
}

func TestSourceList(t *testing.T) {
	cfg := &config.Config{Sources: []config.Source{
		{Name: "OpenAI", URL: "https://openai.com/rss", Category: "ML", Enabled: true},
		{Name: "Off", URL: "https://off.example/rss", Category: "ML", Enabled: false},
		{Name: "Cast", URL: "https://cast.example/rss", Category: "Podcast", Enabled: true},
		{Name: "Vision Lab", URL: "https://vision.example/rss", Category: "CV", Enabled: true},
	}}
	want := "  - OpenAI\n  - Vision Lab\n"
	if got := sourceList(cfg.SourceNames()); got != want {
		t.Errorf("sourceList() = %q, want %q", got, want)
	}
	if got := sourceList(nil); got != "" {
		t.Errorf("sourceList(nil) = %q, want empty", got)
	}
}

func TestParseFilterFlags(t *testing.T) {
	defer func() { flagCategory, flagRange, flagSort = "", "", "" }()

	flagCategory, flagRange, flagSort = "nlp", "this-month", "oldest"
	f, err := parseFilterFlags()
	if err != nil {
		t.Fatalf("parseFilterFlags: %v", err)
	}
	if f.Category != content.NLP || f.DateRange != view.ThisMonth || f.SortBy != view.Oldest {
		t.Errorf("parseFilterFlags = %+v", f)
	}

	flagCategory, flagRange, flagSort = "", "", ""
	f, err = parseFilterFlags()
	if err != nil {
		t.Fatalf("parseFilterFlags(defaults): %v", err)
	}
	if f != view.DefaultFilter() {
		t.Errorf("parseFilterFlags(defaults) = %+v, want %+v", f, view.DefaultFilter())
	}

	flagSort = "popular"
	if _, err := parseFilterFlags(); err == nil {
		t.Error("expected error for unknown sort order")
	}
}

func TestMatchItems(t *testing.T) {
	items := []content.Item{
		{Title: "Scaling laws revisited"},
		{Title: "Agents", Excerpt: "Notes on SCALING inference"},
		{Title: "Vision transformers"},
	}
	if got := matchItems(items, "scaling"); len(got) != 2 {
		t.Errorf("matchItems returned %d items, want 2", len(got))
	}
}

func TestUserAgent(t *testing.T) {
	defer SetVersionInfo(version, commit, date)
	SetVersionInfo("1.2.3", "abc", "today")
	if got := userAgent(); got != "trendlens/1.2.3" {
		t.Errorf("userAgent() = %q", got)
	}
}
