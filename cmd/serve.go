package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/rank"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/server"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var flagServeAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the aggregated feed over HTTP",
	Long: `Aggregate all sources in the background every refresh_interval and expose the
feed as a JSON API with Prometheus metrics on /metrics.`,
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

		ctx := cmd.Context()
		refresher := server.NewRefresher(agg, cfg.RefreshDuration())
		go refresher.Run(ctx)

		srvCfg := server.Config{
			Refresher:   refresher,
			PageSize:    cfg.GetPageSize(),
			CORSOrigins: cfg.Server.CORSOrigins,
		}
		if cfg.SignalRanking() {
			srvCfg.Ranker = rank.NewRanker(cfg.SourceWeights())
		}
		app := server.New(srvCfg)

		addr := cfg.ServerAddr()
		if flagServeAddr != "" {
			addr = flagServeAddr
		}

		errCh := make(chan error, 1)
		go func() {
			log.WithField("addr", addr).Info("Starting HTTP server")
			errCh <- app.Listen(addr)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "listen address (default from config server.addr)")
}
