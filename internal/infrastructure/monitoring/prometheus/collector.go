package prometheus

import (
	"time"

	appaudit "github.com/wattwise/HomeAudit-Intelligence/internal/application/audit"
)

// Recorder adapts Metrics to the application layer's MetricsRecorder port.
type Recorder struct {
	m *Metrics
}

// NewRecorder wraps an already-registered Metrics set.
func NewRecorder(m *Metrics) *Recorder { return &Recorder{m: m} }

var _ appaudit.MetricsRecorder = (*Recorder)(nil)

func (r *Recorder) AnalysisCompleted(outcome string, duration time.Duration) {
	r.m.AnalysesTotal.WithLabelValues(outcome).Inc()
	r.m.AnalysisDuration.Observe(duration.Seconds())
}

func (r *Recorder) NormalizationCorrections(count int) {
	if count > 0 {
		r.m.NormalizationFixes.Add(float64(count))
	}
}

func (r *Recorder) ContractViolation(domain string) {
	r.m.ContractViolations.WithLabelValues(domain).Inc()
}

func (r *Recorder) RecommendationGenerated(recType string) {
	r.m.RecommendationsTotal.WithLabelValues(recType).Inc()
}

func (r *Recorder) OverallScore(score float64, substituted bool) {
	r.m.OverallScore.Observe(score)
	if substituted {
		r.m.ScoreSubstitutions.Inc()
	}
}

func (r *Recorder) CacheHit()  { r.m.CacheHits.Inc() }
func (r *Recorder) CacheMiss() { r.m.CacheMisses.Inc() }

// EventPublished records a successful or failed publication on a topic.
// The kafka producer calls this directly rather than through the
// application port because topic names are a transport concern.
func (r *Recorder) EventPublished(topic string, err error) {
	if err != nil {
		r.m.EventPublishFailures.WithLabelValues(topic).Inc()
		return
	}
	r.m.EventsPublished.WithLabelValues(topic).Inc()
}
