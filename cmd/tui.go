package cmd

import (
	"fmt"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/config"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/logging"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/tui"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/view"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	filter, err := parseFilterFlags()
	if err != nil {
		return err
	}

	logFile, err := logging.SetupFile(cfg.LogLevel, config.LogPath())
	if err != nil {
		return err
	}
	defer logFile.Close()

	agg, db, closeCache, err := newAggregator(cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	engine := view.New(agg, engineOptions(cfg, filter)...)
	log.WithFields(log.Fields{
		"sources": len(agg.ArticleSources()),
		"filter":  fmt.Sprintf("%+v", filter),
	}).Info("Starting TUI")

	err = tui.Run(tui.RunOpts{Context: cmd.Context(), Engine: engine, Home: flagHome})
	if db != nil && engine.Snapshot().State == view.Ready {
		if err := db.SetLastRefresh(); err != nil {
			log.WithField("error", err).Warn("Recording refresh time failed")
		}
	}
	return err
}
