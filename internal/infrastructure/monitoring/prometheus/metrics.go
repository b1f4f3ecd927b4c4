// Package prometheus defines the platform's metric instruments.
package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles every instrument the pipeline emits.  A single instance is
// created at startup and shared through constructor injection.
type Metrics struct {
	AnalysesTotal        *prometheus.CounterVec
	AnalysisDuration     prometheus.Histogram
	NormalizationFixes   prometheus.Counter
	ContractViolations   *prometheus.CounterVec
	RecommendationsTotal *prometheus.CounterVec
	OverallScore         prometheus.Histogram
	ScoreSubstitutions   prometheus.Counter
	CacheHits            prometheus.Counter
	CacheMisses          prometheus.Counter
	EventsPublished      *prometheus.CounterVec
	EventPublishFailures *prometheus.CounterVec
}

// Outcome label values for AnalysesTotal.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// NewMetrics registers all instruments on reg.  Passing
// prometheus.DefaultRegisterer wires the standard /metrics endpoint; tests
// pass a fresh registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		AnalysesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wattwise",
			Name:      "analyses_total",
			Help:      "Completed audit analyses by outcome.",
		}, []string{"outcome"}),

		AnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wattwise",
			Name:      "analysis_duration_seconds",
			Help:      "Wall time of one full audit analysis.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),

		NormalizationFixes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "wattwise",
			Name:      "normalization_corrections_total",
			Help:      "Raw survey values substituted or clamped by the normalizer.",
		}),

		ContractViolations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wattwise",
			Name:      "analyzer_contract_violations_total",
			Help:      "Analyzer outputs corrected for violating score bounds.",
		}, []string{"domain"}),

		RecommendationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wattwise",
			Name:      "recommendations_generated_total",
			Help:      "Recommendations produced, by type.",
		}, []string{"type"}),

		OverallScore: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wattwise",
			Name:      "overall_score",
			Help:      "Distribution of overall efficiency scores.",
			Buckets:   prometheus.LinearBuckets(60, 5, 8),
		}),

		ScoreSubstitutions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "wattwise",
			Name:      "overall_score_substitutions_total",
			Help:      "Overall scores replaced for falling outside the display band.",
		}),

		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "wattwise",
			Name:      "analysis_cache_hits_total",
			Help:      "Analysis results served from cache.",
		}),

		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "wattwise",
			Name:      "analysis_cache_misses_total",
			Help:      "Analysis cache misses requiring a pipeline run.",
		}),

		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wattwise",
			Name:      "events_published_total",
			Help:      "Kafka events published, by topic.",
		}, []string{"topic"}),

		EventPublishFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wattwise",
			Name:      "event_publish_failures_total",
			Help:      "Kafka publish failures, by topic.",
		}, []string{"topic"}),
	}
}
