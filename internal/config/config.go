package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/content"
	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Source is one entry of the feed source registry.
type Source struct {
	Name     string  `yaml:"name"`
	URL      string  `yaml:"url"`
	Category string  `yaml:"category,omitempty"` // empty = classify each item
	Enabled  bool    `yaml:"enabled"`
	Weight   float64 `yaml:"weight,omitempty"`
}

// DeclaredCategory returns the category every item of this source inherits, or "".
func (s Source) DeclaredCategory() content.Category {
	c, err := content.ParseCategory(s.Category)
	if err != nil {
		return ""
	}
	return c
}

// IsPodcast reports whether the source publishes podcast episodes.
func (s Source) IsPodcast() bool {
	return s.DeclaredCategory() == content.Podcast
}

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	CORSOrigins string `yaml:"cors_origins,omitempty"`
}

type Config struct {
	LogLevel        string            `yaml:"log_level"`
	ProxyURL        string            `yaml:"proxy_url"`
	RequestTimeout  string            `yaml:"request_timeout"`
	MaxConcurrency  int               `yaml:"max_concurrency,omitempty"`
	PageSize        int               `yaml:"page_size,omitempty"`
	LoadMoreDelay   string            `yaml:"load_more_delay"`
	RefreshInterval string            `yaml:"refresh_interval"`
	Retention       string            `yaml:"retention"`
	MostViewed      string            `yaml:"most_viewed,omitempty"` // "random" or "signal"
	DisableCache    bool              `yaml:"disable_cache,omitempty"`
	Server          ServerConfig      `yaml:"server"`
	DefaultImages   map[string]string `yaml:"default_images,omitempty"`
	Sources         []Source          `yaml:"sources"`
}

const (
	defaultRequestTimeout  = 15 * time.Second
	defaultLoadMoreDelay   = 500 * time.Millisecond
	defaultRefreshInterval = 30 * time.Minute
	defaultRetention       = 30 * 24 * time.Hour
	defaultPageSize        = 6
	defaultMaxConcurrency  = 8
	defaultServerAddr      = ":8080"
)

// ParseDuration extends time.ParseDuration with an "Nd" day syntax.
func ParseDuration(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}

func durationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func (c *Config) RequestTimeoutDuration() time.Duration {
	return durationOr(c.RequestTimeout, defaultRequestTimeout)
}

// LoadMoreDelayDuration is the artificial pause before each incremental page.
func (c *Config) LoadMoreDelayDuration() time.Duration {
	return durationOr(c.LoadMoreDelay, defaultLoadMoreDelay)
}

func (c *Config) RefreshDuration() time.Duration {
	return durationOr(c.RefreshInterval, defaultRefreshInterval)
}

func (c *Config) RetentionDuration() time.Duration {
	return durationOr(c.Retention, defaultRetention)
}

// GetPageSize returns the number of items per page, defaulting to 6.
func (c *Config) GetPageSize() int {
	if c.PageSize <= 0 {
		return defaultPageSize
	}
	return c.PageSize
}

func (c *Config) GetMaxConcurrency() int {
	if c.MaxConcurrency <= 0 {
		return defaultMaxConcurrency
	}
	return c.MaxConcurrency
}

func (c *Config) ServerAddr() string {
	if c.Server.Addr == "" {
		return defaultServerAddr
	}
	return c.Server.Addr
}

// SignalRanking reports whether most-viewed should use the popularity score instead of
// a random order.
func (c *Config) SignalRanking() bool {
	return strings.EqualFold(c.MostViewed, "signal")
}

// Images returns the built-in default images with any configured overrides applied.
func (c *Config) Images() content.Images {
	im := content.DefaultImages()
	for k, v := range c.DefaultImages {
		cat, err := content.ParseCategory(k)
		if err != nil || cat == "" || v == "" {
			continue
		}
		im[cat] = v
	}
	return im
}

func (c *Config) EnabledSources() []Source {
	var out []Source
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// ArticleSources returns enabled sources that publish articles.
func (c *Config) ArticleSources() []Source {
	var out []Source
	for _, s := range c.EnabledSources() {
		if !s.IsPodcast() {
			out = append(out, s)
		}
	}
	return out
}

// PodcastSources returns enabled sources tagged Podcast.
func (c *Config) PodcastSources() []Source {
	var out []Source
	for _, s := range c.EnabledSources() {
		if s.IsPodcast() {
			out = append(out, s)
		}
	}
	return out
}

func (c *Config) SourceNames() []string {
	var names []string
	for _, s := range c.ArticleSources() {
		names = append(names, s.Name)
	}
	return names
}

// SourceWeights maps source names to their configured weight.
func (c *Config) SourceWeights() map[string]float64 {
	w := make(map[string]float64, len(c.Sources))
	for _, s := range c.Sources {
		if s.Weight > 0 {
			w[s.Name] = s.Weight
		}
	}
	return w
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "trendlens", "config.yaml")
}

func CachePath() string {
	return filepath.Join(xdg.CacheHome, "trendlens", "feeds.db")
}

// LogPath is where the TUI writes its log so the terminal stays clean.
func LogPath() string {
	return filepath.Join(xdg.StateHome, "trendlens", "trendlens.log")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Best effort: the embedded defaults are used either way.
			_ = writeDefaults(path)
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	mergeDefaultSources(&cfg, defaults)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeDefaultSources refreshes URL and category of sources the user shares with the
// defaults and appends defaults the user does not know about yet. Enabled flags are
// left untouched.
func mergeDefaultSources(cfg, defaults *Config) {
	index := make(map[string]int, len(cfg.Sources))
	for i, s := range cfg.Sources {
		index[s.Name] = i
	}
	for _, d := range defaults.Sources {
		if i, ok := index[d.Name]; ok {
			cfg.Sources[i].URL = d.URL
			cfg.Sources[i].Category = d.Category
			continue
		}
		cfg.Sources = append(cfg.Sources, d)
	}
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	seen := make(map[string]bool, len(cfg.Sources))
	for i, s := range cfg.Sources {
		if s.Name == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("source %q: duplicate name", s.Name)
		}
		seen[s.Name] = true
		if s.URL == "" {
			return fmt.Errorf("source %q: url is required", s.Name)
		}
		u, err := url.Parse(s.URL)
		if err != nil {
			return fmt.Errorf("source %q: invalid url: %w", s.Name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("source %q: url scheme must be http or https, got %q", s.Name, u.Scheme)
		}
		if _, err := content.ParseCategory(s.Category); err != nil {
			return fmt.Errorf("source %q: %w", s.Name, err)
		}
	}
	if cfg.ProxyURL != "" {
		u, err := url.Parse(cfg.ProxyURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("proxy_url %q must be an http or https URL", cfg.ProxyURL)
		}
	}
	switch strings.ToLower(cfg.MostViewed) {
	case "", "random", "signal":
	default:
		return fmt.Errorf("most_viewed: unknown mode %q (valid: random, signal)", cfg.MostViewed)
	}
	return nil
}
