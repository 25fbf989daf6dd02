package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/content"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/view"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagFetchAll  bool
	flagFetchJSON bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch all sources and print the filtered feed",
	Long: `Aggregate every enabled article source once and print the first page of the
filtered feed. --all keeps loading pages until the feed is exhausted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := setupLogging(cfg); err != nil {
			return err
		}
		filter, err := parseFilterFlags()
		if err != nil {
			return err
		}

		agg, db, closeCache, err := newAggregator(cfg)
		if err != nil {
			return err
		}
		defer closeCache()

		ctx := cmd.Context()
		engine := view.New(agg, append(engineOptions(cfg, filter), view.WithLoadMoreDelay(0))...)
		if err := engine.Load(ctx); err != nil {
			return fmt.Errorf("%s: %w", view.Message(err), err)
		}
		if db != nil {
			if err := db.SetLastRefresh(); err != nil {
				log.WithField("error", err).Warn("Recording refresh time failed")
			}
		}
		if flagFetchAll {
			if err := loadAllPages(ctx, engine); err != nil {
				return err
			}
		}

		snap := engine.Snapshot()
		if flagFetchJSON {
			return writeJSON(snap.Items)
		}
		printItems(snap.Items)
		fmt.Printf("\n%d of %d articles (%s, %s)\n", len(snap.Items), snap.Total,
			filter.DateRange.Label(), filter.SortBy.Label())
		return nil
	},
}

func init() {
	addFilterFlags(fetchCmd)
	fetchCmd.Flags().BoolVar(&flagFetchAll, "all", false, "load every page")
	fetchCmd.Flags().BoolVar(&flagFetchJSON, "json", false, "print items as JSON")
}

func loadAllPages(ctx context.Context, e *view.Engine) error {
	for e.Snapshot().HasMore {
		if err := e.LoadMore(ctx); err != nil {
			return fmt.Errorf("loading more: %w", err)
		}
	}
	return nil
}

func printItems(items []content.Item) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, it := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", it.Date, it.Category, it.Source, it.Title)
	}
	w.Flush()
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
