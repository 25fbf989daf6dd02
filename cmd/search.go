package cmd

import (
	"fmt"
	"strings"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/classify"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/content"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var flagSearchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search article titles and excerpts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		if suggestions := classify.Suggest(query); len(suggestions) > 0 {
			fmt.Printf("Suggestions: %s\n\n", strings.Join(suggestions, ", "))
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := setupLogging(cfg); err != nil {
			return err
		}
		agg, _, closeCache, err := newAggregator(cfg)
		if err != nil {
			return err
		}
		defer closeCache()

		items, err := agg.FetchAllArticles(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetching articles: %w", err)
		}

		matches := matchItems(classify.CategorizeAll(items), query)
		if len(matches) == 0 {
			fmt.Println("No matching articles.")
			return nil
		}
		if flagSearchLimit > 0 && len(matches) > flagSearchLimit {
			matches = matches[:flagSearchLimit]
		}
		printItems(matches)
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVar(&flagSearchLimit, "limit", 20, "maximum number of results")
}

// matchItems keeps items whose title or excerpt contains query, case-insensitively.
func matchItems(items []content.Item, query string) []content.Item {
	q := strings.ToLower(strings.TrimSpace(query))
	return lo.Filter(items, func(it content.Item, _ int) bool {
		return strings.Contains(strings.ToLower(it.Title), q) ||
			strings.Contains(strings.ToLower(it.Excerpt), q)
	})
}
