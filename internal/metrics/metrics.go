// Package metrics provides Prometheus metrics for the deck-checker backend.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deckcheck_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "deckcheck_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Sync Metrics
	SyncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deckcheck_sync_runs_total",
			Help: "Total number of inventory sync runs by outcome",
		},
		[]string{"status"}, // "completed" or "failed"
	)

	SyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "deckcheck_sync_duration_seconds",
			Help:    "Time taken to run a full inventory sync",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	SyncProducts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "deckcheck_sync_products",
			Help: "Number of products written by the most recent sync",
		},
	)

	SyncVariants = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "deckcheck_sync_variants",
			Help: "Number of variants written by the most recent sync",
		},
	)

	ProductsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deckcheck_sync_products_deleted_total",
			Help: "Stale products removed because the store no longer lists them",
		},
	)

	// Shopify API Metrics
	ShopifyRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deckcheck_shopify_requests_total",
			Help: "Total Shopify Admin API requests by result",
		},
		[]string{"result"}, // "success" or "error"
	)

	TokenRefreshesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deckcheck_shopify_token_refreshes_total",
			Help: "Number of Shopify access token exchanges performed",
		},
	)

	// Deck Metrics
	DeckParsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deckcheck_deck_parses_total",
			Help: "Deck lists parsed by source",
		},
		[]string{"source"}, // "text", "moxfield", "archidekt"
	)

	DeckProviderCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deckcheck_deck_provider_cache_hits_total",
			Help: "Deck provider responses served from the LRU cache",
		},
	)

	MatchRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deckcheck_match_requests_total",
			Help: "Total deck-list match requests",
		},
	)

	CardsMatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deckcheck_cards_matched_total",
			Help: "Requested cards by match outcome",
		},
		[]string{"outcome"}, // "found" or "not_found"
	)
)
