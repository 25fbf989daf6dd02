package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/content"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}
	if len(cfg.Sources) == 0 {
		t.Error("expected at least one default source")
	}
	if err := validate(cfg); err != nil {
		t.Errorf("embedded defaults should validate: %v", err)
	}
	if cfg.GetPageSize() != 6 {
		t.Errorf("expected default page size 6, got %d", cfg.GetPageSize())
	}
}

func TestDefaultsHaveArticleAndPodcastSources(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}
	if len(cfg.ArticleSources()) == 0 {
		t.Error("expected default article sources")
	}
	if len(cfg.PodcastSources()) == 0 {
		t.Error("expected default podcast sources")
	}
	for _, s := range cfg.ArticleSources() {
		if s.IsPodcast() {
			t.Errorf("podcast source %q listed as article source", s.Name)
		}
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
		err   bool
	}{
		{"7d", 7 * 24 * time.Hour, false},
		{"1d", 24 * time.Hour, false},
		{"24h", 24 * time.Hour, false},
		{"30m", 30 * time.Minute, false},
		{"2h30m", 2*time.Hour + 30*time.Minute, false},
		{"invalid", 0, true},
		{"", 0, true},
		{"d", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDuration(tt.input)
		if tt.err {
			if err == nil {
				t.Errorf("ParseDuration(%q): expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDuration(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDuration(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestDurationDefaults(t *testing.T) {
	cfg := &Config{}
	if got := cfg.RequestTimeoutDuration(); got != 15*time.Second {
		t.Errorf("expected 15s request timeout, got %v", got)
	}
	if got := cfg.LoadMoreDelayDuration(); got != 500*time.Millisecond {
		t.Errorf("expected 500ms load-more delay, got %v", got)
	}
	if got := cfg.RefreshDuration(); got != 30*time.Minute {
		t.Errorf("expected 30m refresh, got %v", got)
	}

	cfg.LoadMoreDelay = "0s"
	if got := cfg.LoadMoreDelayDuration(); got != 0 {
		t.Errorf("expected zero delay to be honored, got %v", got)
	}
	cfg.RequestTimeout = "bogus"
	if got := cfg.RequestTimeoutDuration(); got != 15*time.Second {
		t.Errorf("expected fallback for invalid timeout, got %v", got)
	}
}

func TestRetentionDuration(t *testing.T) {
	tests := []struct {
		input    string
		wantDays int
	}{
		{"90d", 90},
		{"7d", 7},
		{"720h", 30},
		{"", 30},
		{"invalid", 30},
	}
	for _, tt := range tests {
		cfg := &Config{Retention: tt.input}
		got := cfg.RetentionDuration()
		wantHours := float64(tt.wantDays * 24)
		if got.Hours() != wantHours {
			t.Errorf("RetentionDuration(%q) = %v, want %dd", tt.input, got, tt.wantDays)
		}
	}
}

func TestEnabledSources(t *testing.T) {
	cfg := &Config{
		Sources: []Source{
			{Name: "A", Enabled: true},
			{Name: "B", Enabled: false},
			{Name: "C", Enabled: true, Category: "Podcast"},
		},
	}
	enabled := cfg.EnabledSources()
	if len(enabled) != 2 {
		t.Fatalf("expected 2 enabled sources, got %d", len(enabled))
	}
	if names := cfg.SourceNames(); len(names) != 1 || names[0] != "A" {
		t.Errorf("expected only article source A, got %v", names)
	}
	if pods := cfg.PodcastSources(); len(pods) != 1 || pods[0].Name != "C" {
		t.Errorf("expected podcast source C, got %v", pods)
	}
}

func TestImagesOverrides(t *testing.T) {
	cfg := &Config{DefaultImages: map[string]string{"cv": "https://img/cv.png", "bogus": "x"}}
	im := cfg.Images()
	if im[content.CV] != "https://img/cv.png" {
		t.Errorf("expected CV override, got %q", im[content.CV])
	}
	if im[content.ML] == "" {
		t.Error("expected built-in ML image to remain")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	data := `refresh_interval: 2h
sources:
  - name: Test
    url: https://example.com/feed
    category: cv
    enabled: true
`
	if err := os.WriteFile(cfgPath, []byte(data), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RefreshInterval != "2h" {
		t.Errorf("expected 2h, got %s", cfg.RefreshInterval)
	}
	if cfg.Sources[0].Name != "Test" {
		t.Errorf("expected first source name Test, got %s", cfg.Sources[0].Name)
	}
	if cfg.Sources[0].DeclaredCategory() != content.CV {
		t.Errorf("expected declared category CV, got %q", cfg.Sources[0].DeclaredCategory())
	}
	if len(cfg.Sources) <= 1 {
		t.Errorf("expected default sources to be merged, got %d total", len(cfg.Sources))
	}
}

func TestLoadNonexistentFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sub", "config.yaml")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Sources) == 0 {
		t.Error("expected default sources when config doesn't exist")
	}
	if _, err := os.Stat(cfgPath); err != nil {
		t.Errorf("expected defaults written to %s: %v", cfgPath, err)
	}
}

func TestMergeDefaultSources(t *testing.T) {
	cfg := &Config{
		Sources: []Source{
			{Name: "Existing", URL: "https://example.com/feed", Enabled: true},
			{Name: "Shared", URL: "https://old.com/feed", Category: "ML", Enabled: false},
		},
	}
	defaults := &Config{
		Sources: []Source{
			{Name: "Shared", URL: "https://new.com/feed", Category: "NLP", Enabled: true},
			{Name: "NewSource", URL: "https://new-source.com/feed", Enabled: true},
		},
	}
	mergeDefaultSources(cfg, defaults)

	if len(cfg.Sources) != 3 {
		t.Fatalf("expected 3 sources after merge, got %d", len(cfg.Sources))
	}
	if cfg.Sources[0].Name != "Existing" {
		t.Errorf("expected first source Existing, got %s", cfg.Sources[0].Name)
	}
	if cfg.Sources[1].URL != "https://new.com/feed" {
		t.Errorf("expected Shared URL updated, got %s", cfg.Sources[1].URL)
	}
	if cfg.Sources[1].Category != "NLP" {
		t.Errorf("expected Shared category updated to NLP, got %s", cfg.Sources[1].Category)
	}
	if cfg.Sources[1].Enabled {
		t.Error("merge should not re-enable a source the user disabled")
	}
	if cfg.Sources[2].Name != "NewSource" {
		t.Errorf("expected NewSource appended, got %s", cfg.Sources[2].Name)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"missing name", Config{Sources: []Source{{URL: "https://example.com"}}}, true},
		{"missing url", Config{Sources: []Source{{Name: "Test"}}}, true},
		{"file scheme", Config{Sources: []Source{{Name: "Test", URL: "file:///etc/passwd"}}}, true},
		{"unknown category", Config{Sources: []Source{{Name: "Test", URL: "https://example.com", Category: "Robotics"}}}, true},
		{"duplicate names", Config{Sources: []Source{
			{Name: "Dup", URL: "https://a.com"},
			{Name: "Dup", URL: "https://b.com"},
		}}, true},
		{"bad proxy", Config{ProxyURL: "ftp://proxy"}, true},
		{"bad most_viewed", Config{MostViewed: "popular"}, true},
		{"https", Config{Sources: []Source{{Name: "Test", URL: "https://example.com/feed"}}}, false},
		{"http with category", Config{Sources: []Source{{Name: "Test", URL: "http://example.com/feed", Category: "rl"}}}, false},
		{"signal ranking", Config{MostViewed: "signal"}, false},
	}
	for _, tt := range tests {
		err := validate(&tt.cfg)
		if tt.wantErr && err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
		}
	}
}
