package cmd

import (
	"fmt"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/classify"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/view"
	"github.com/spf13/cobra"
)

var topicsCmd = &cobra.Command{
	Use:   "topics [topic]",
	Short: "List topics, or show the latest articles of one",
	Long: `Without arguments, list the topic catalogue. With a slug or title (ml, cv, nlp, rl,
"Computer Vision", ...), fetch all sources and print that topic's first page.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			for _, t := range classify.Topics() {
				fmt.Printf("%-4s %s\n     %s\n", t.Slug, t.Title, t.Description)
			}
			return nil
		}

		topic, err := classify.ResolveTopic(args[0])
		if err != nil {
			return err
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

		filter := view.DefaultFilter()
		filter.Category = topic.Category
		filter.DateRange = view.AllTime
		engine := view.New(agg, engineOptions(cfg, filter)...)
		if err := engine.Load(cmd.Context()); err != nil {
			return fmt.Errorf("%s: %w", view.Message(err), err)
		}

		snap := engine.Snapshot()
		fmt.Printf("%s\n%s\n\n", topic.Title, topic.Description)
		printItems(snap.Items)
		fmt.Printf("\n%d of %d articles\n", len(snap.Items), snap.Total)
		return nil
	},
}
