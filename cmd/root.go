package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/cache"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/config"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/feed"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/logging"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/rank"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/update"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/view"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig   string
	flagLogLevel string
	flagCategory string
	flagRange    string
	flagSort     string
	flagHome     bool
)

var rootCmd = &cobra.Command{
	Use:          "trendlens",
	Short:        "AI news and podcast aggregator",
	Long:         "trendlens aggregates AI research blogs and podcasts into a filterable terminal feed and a JSON API.",
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")

	addFilterFlags(rootCmd)
	rootCmd.Flags().BoolVar(&flagHome, "home", false, "start on the topic overview")

	versionCmd.Flags().BoolVar(&flagVersionCheck, "check", false, "check GitHub for a newer release")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(podcastsCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(statsCmd)
}

func addFilterFlags(c *cobra.Command) {
	c.Flags().StringVar(&flagCategory, "category", "", "category filter (ML, CV, NLP, RL)")
	c.Flags().StringVar(&flagRange, "range", "", "date range (this-week, this-month, this-year, all)")
	c.Flags().StringVar(&flagSort, "sort", "", "sort order (newest, oldest, most-viewed)")
}

var flagVersionCheck bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("trendlens %s (commit: %s, built: %s)\n", version, commit, date)
		if !flagVersionCheck {
			return nil
		}
		res, err := update.NewChecker(userAgent()).Check(cmd.Context(), version)
		if err != nil {
			return err
		}
		if res == nil {
			fmt.Println("You are running the latest version.")
			return nil
		}
		fmt.Printf("trendlens %s is available: %s\n", res.LatestVersion, res.URL)
		return nil
	},
}

// Execute runs the root command. Interrupt and SIGTERM cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

func userAgent() string {
	return "trendlens/" + version
}

// loadConfig reads the config file and applies the --log-level override.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	return cfg, nil
}

// setupLogging writes logs to stderr for one-shot commands.
func setupLogging(cfg *config.Config) error {
	return logging.Setup(cfg.LogLevel, os.Stderr)
}

// newAggregator opens the document cache unless disabled and wires the aggregator on
// top of it. The returned func releases the cache.
func newAggregator(cfg *config.Config) (*feed.Aggregator, *cache.Cache, func(), error) {
	if cfg.DisableCache {
		return feed.New(cfg, nil, userAgent()), nil, func() {}, nil
	}
	db, err := cache.Open(config.CachePath())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening cache: %w", err)
	}
	return feed.New(cfg, db, userAgent()), db, func() { db.Close() }, nil
}

// engineOptions builds the engine options shared by the TUI and one-shot commands.
func engineOptions(cfg *config.Config, f view.Filter) []view.Option {
	opts := []view.Option{
		view.WithPageSize(cfg.GetPageSize()),
		view.WithLoadMoreDelay(cfg.LoadMoreDelayDuration()),
		view.WithFilter(f),
	}
	if cfg.SignalRanking() {
		opts = append(opts, view.WithRanker(rank.NewRanker(cfg.SourceWeights())))
	}
	return opts
}

func parseFilterFlags() (view.Filter, error) {
	f, err := view.ParseFilter(flagCategory, flagRange, flagSort)
	if err != nil {
		return view.Filter{}, fmt.Errorf("invalid filter: %w", err)
	}
	return f, nil
}
