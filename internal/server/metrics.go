package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trendlens_http_requests_total",
		Help: "HTTP requests served, by route and status code",
	}, []string{"method", "route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trendlens_http_request_duration_seconds",
		Help:    "Latency of HTTP requests",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~2s
	}, []string{"route"})

	snapshotArticles = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "trendlens_snapshot_articles",
		Help: "Articles in the served snapshot",
	})

	refreshRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trendlens_refresh_retries_total",
		Help: "Snapshot refresh attempts that failed and were retried",
	})
)
