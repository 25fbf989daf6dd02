package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/cache"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/config"
	"github.com/spf13/cobra"
)

var flagPruneOlderThan string

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove stale feed documents from the local cache",
	Long: `Delete cached feed documents fetched longer ago than the retention period and
reclaim disk space.

Uses the retention value from config (default: 30d) unless overridden with --older-than.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := cache.Open(config.CachePath())
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		retention := cfg.RetentionDuration()
		if flagPruneOlderThan != "" {
			d, err := config.ParseDuration(flagPruneOlderThan)
			if err != nil {
				return fmt.Errorf("invalid --older-than value: %w", err)
			}
			retention = d
		}

		deleted, err := db.Prune(retention)
		if err != nil {
			return fmt.Errorf("pruning: %w", err)
		}

		if deleted == 0 {
			fmt.Println("Nothing to prune.")
		} else {
			fmt.Printf("Pruned %d document(s) older than %s.\n", deleted, formatDuration(retention))
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		dbPath := config.CachePath()
		db, err := cache.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		count, size, err := db.Stats(dbPath)
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		fmt.Printf("Cache: %s\n", dbPath)
		fmt.Printf("Documents: %d\n", count)
		fmt.Printf("Size: %s\n", formatBytes(size))
		fmt.Printf("Last refresh: %s\n", lastRefreshLabel(db, cfg.RefreshDuration()))
		fmt.Printf("Sources: %d articles, %d podcasts\n", len(cfg.ArticleSources()), len(cfg.PodcastSources()))
		fmt.Print(sourceList(cfg.SourceNames()))
		return nil
	},
}

func init() {
	pruneCmd.Flags().StringVar(&flagPruneOlderThan, "older-than", "", "override retention period (e.g., 7d, 720h)")
}

func lastRefreshLabel(db *cache.Cache, interval time.Duration) string {
	t, err := db.LastRefresh()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "never"
		}
		return "unknown"
	}
	label := t.Local().Format("2006-01-02 15:04")
	if db.NeedsRefresh(interval) {
		label += " (stale)"
	}
	return label
}

// sourceList renders the article source names, one per line.
func sourceList(names []string) string {
	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "  - %s\n", name)
	}
	return b.String()
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours() / 24)
	if days > 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
