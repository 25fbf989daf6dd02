package feed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sourceFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trendlens_source_fetches_total",
		Help: "Feed source fetches by outcome (ok, proxy, error)",
	}, []string{"source", "outcome"})

	sourceFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trendlens_source_fetch_duration_seconds",
		Help:    "Time spent retrieving a feed document, proxy retry included",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
	}, []string{"source"})

	aggregateItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "trendlens_aggregate_items",
		Help: "Number of items produced by the last aggregation",
	})

	aggregateFailedSources = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "trendlens_aggregate_failed_sources",
		Help: "Number of sources that contributed nothing to the last aggregation",
	})
)
