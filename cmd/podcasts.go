package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var flagPodcastsJSON bool

var podcastsCmd = &cobra.Command{
	Use:   "podcasts",
	Short: "List the latest podcast episodes",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		if len(agg.PodcastSources()) == 0 {
			fmt.Println("No podcast sources enabled.")
			return nil
		}
		episodes, err := agg.FetchAllPodcasts(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetching podcasts: %w", err)
		}
		if flagPodcastsJSON {
			return writeJSON(episodes)
		}
		if len(episodes) == 0 {
			fmt.Println("No episodes found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, ep := range episodes {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ep.Date, ep.Duration, ep.Source, ep.Title)
		}
		return w.Flush()
	},
}

func init() {
	podcastsCmd.Flags().BoolVar(&flagPodcastsJSON, "json", false, "print episodes as JSON")
}
