package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CompressionRuns counts compression runs.
	// Labels: result (ok, fallback)
	CompressionRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "propsight",
			Subsystem: "compression",
			Name:      "runs_total",
			Help:      "Total number of text compression runs",
		},
		[]string{"result"},
	)

	CompressionReduction = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "propsight",
			Subsystem: "compression",
			Name:      "reduction_percent",
			Help:      "Share of input runes removed by compression",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		},
	)

	ScrapeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "propsight",
			Subsystem: "scraper",
			Name:      "duration_seconds",
			Help:      "Duration of page scrapes in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// AnalysisTotal counts analysis requests.
	// Labels: outcome (parsed, unparsed, error)
	AnalysisTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "propsight",
			Subsystem: "analysis",
			Name:      "requests_total",
			Help:      "Total number of analysis requests by outcome",
		},
		[]string{"outcome"},
	)
)

var (
	// GenerationTotal counts free-form model calls.
	// Labels: kind (generate, chat, image, flood-risk, financial), outcome (ok, error)
	GenerationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "propsight",
			Subsystem: "generation",
			Name:      "requests_total",
			Help:      "Total number of generation requests by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)
)
