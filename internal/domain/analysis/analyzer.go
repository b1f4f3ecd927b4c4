// Package analysis implements the per-domain scoring engines and the
// efficiency aggregator.  Each analyzer inspects one slice of a normalized
// audit record and produces a bounded DomainScore; the aggregator combines
// them into the overall efficiency report.
package analysis

import (
	"context"

	domaudit "github.com/wattwise/HomeAudit-Intelligence/internal/domain/audit"
)

// Domain names. These are the keys of EfficiencyReport.DomainScores and must
// stay stable across releases.
const (
	DomainEnergy   = "energy"
	DomainHVAC     = "hvac"
	DomainLighting = "lighting"
	DomainHumidity = "humidity"
)

const (
	// MinDomainScore and MaxDomainScore bound every analyzer output.
	MinDomainScore = 40.0
	MaxDomainScore = 100.0

	// FallbackDomainScore stands in for a domain whose analyzer failed or
	// violated its contract. Mid-band by construction so one broken domain
	// cannot drag the overall report to either extreme.
	FallbackDomainScore = 65.0
)

// Fact keys published alongside domain scores. The recommendation generator
// keys off these rather than re-deriving facts from the record.
const (
	FactEnergyRatio       = "energy_ratio"
	FactWeatherAdjusted   = "weather_adjusted"
	FactEfficiencyGap     = "efficiency_gap"
	FactEfficiencyMetric  = "efficiency_metric"
	FactSystemAgeYears    = "system_age_years"
	FactMixDescription    = "mix_description"
	FactLEDShare          = "led_share"
	FactIncandescentShare = "incandescent_share"
	FactCurrentRH         = "current_rh"
	FactNeedsDehumidifier = "needs_dehumidifier"
)

// Facts carries analyzer findings that recommendations are generated from.
type Facts map[string]interface{}

// Float returns the named fact as a float64, or def when absent or mistyped.
func (f Facts) Float(key string, def float64) float64 {
	if v, ok := f[key].(float64); ok {
		return v
	}
	return def
}

// Bool returns the named fact as a bool, or false when absent or mistyped.
func (f Facts) Bool(key string) bool {
	v, ok := f[key].(bool)
	return ok && v
}

// String returns the named fact as a string, or "" when absent or mistyped.
func (f Facts) String(key string) string {
	v, _ := f[key].(string)
	return v
}

// DomainScore is the uniform analyzer output: a score in
// [MinDomainScore, MaxDomainScore] plus the facts that produced it.
type DomainScore struct {
	Domain string  `json:"domain"`
	Score  float64 `json:"score"`
	Facts  Facts   `json:"facts,omitempty"`
}

// Analyzer scores one domain of a normalized audit record.  Implementations
// must be stateless and safe for concurrent use: the pipeline fans all
// analyzers out in parallel over the same record.
type Analyzer interface {
	Domain() string
	Analyze(ctx context.Context, rec *domaudit.NormalizedAuditRecord) (DomainScore, error)
}

// FallbackScore builds the substitute DomainScore used when an analyzer
// fails outright.
func FallbackScore(domain string) DomainScore {
	return DomainScore{Domain: domain, Score: FallbackDomainScore}
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
