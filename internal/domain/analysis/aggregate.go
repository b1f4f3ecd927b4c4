package analysis

import (
	"math"
	"time"

	"github.com/wattwise/HomeAudit-Intelligence/internal/infrastructure/monitoring/logging"
	audittypes "github.com/wattwise/HomeAudit-Intelligence/pkg/types/audit"
)

// DomainWeights is the fixed contribution of each domain to the overall
// score. The weights sum to 1.
var DomainWeights = map[string]float64{
	DomainEnergy:   0.35,
	DomainHVAC:     0.25,
	DomainLighting: 0.20,
	DomainHumidity: 0.20,
}

const (
	// Display band for the overall score. A weighted result outside this
	// band indicates an upstream scoring bug, not a legitimately extreme
	// home, and is substituted rather than clamped to a boundary.
	overallScoreFloor = 60.0
	overallScoreCeil  = 95.0

	// SubstituteOverallScore replaces an out-of-band overall score.
	SubstituteOverallScore = 70.0

	maxHomeAgeYears = 70.0
)

// Aggregator combines domain scores into the overall efficiency report.
type Aggregator struct {
	log logging.Logger

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// NewAggregator constructs an Aggregator.  A nil logger is replaced with the
// no-op implementation.
func NewAggregator(log logging.Logger) *Aggregator {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Aggregator{log: log, now: time.Now}
}

// Aggregate computes the weighted overall score, applies the building-age
// factor, and maps the result to its interpretation tier.  Missing domains
// contribute the fallback score; the overall result is guaranteed to lie in
// the display band.
func (ag *Aggregator) Aggregate(scores []DomainScore, yearBuilt int) audittypes.EfficiencyReport {
	byDomain := make(map[string]float64, len(DomainWeights))
	for _, ds := range scores {
		if _, known := DomainWeights[ds.Domain]; !known {
			ag.log.Warn("ignoring score for unknown domain", logging.String("domain", ds.Domain))
			continue
		}
		byDomain[ds.Domain] = ds.Score
	}

	var weighted float64
	for domain, weight := range DomainWeights {
		score, ok := byDomain[domain]
		if !ok {
			score = FallbackDomainScore
			byDomain[domain] = score
			ag.log.Warn("missing domain score, using fallback",
				logging.String("domain", domain),
				logging.Float64("fallback", FallbackDomainScore))
		}
		weighted += weight * score
	}

	ageFactor := ag.ageFactor(yearBuilt)
	overall := round1(weighted * ageFactor)

	substituted := false
	if overall < overallScoreFloor || overall > overallScoreCeil {
		ag.log.Warn("overall score outside display band, substituting",
			logging.Float64("computed", overall),
			logging.Float64("substitute", SubstituteOverallScore))
		overall = SubstituteOverallScore
		substituted = true
	}

	rounded := make(map[string]float64, len(byDomain))
	for domain, score := range byDomain {
		rounded[domain] = round1(score)
	}

	return audittypes.EfficiencyReport{
		OverallScore:     overall,
		Interpretation:   audittypes.TierForScore(overall),
		DomainScores:     rounded,
		AgeFactor:        round1to(ageFactor, 3),
		ScoreSubstituted: substituted,
	}
}

// ageFactor rewards newer construction: a brand-new home multiplies the
// weighted score by 1.1, scaling linearly down to 0.9 at 70 years or older.
// An implausible (future) build year yields the neutral factor.
func (ag *Aggregator) ageFactor(yearBuilt int) float64 {
	age := float64(ag.now().Year() - yearBuilt)
	if age < 0 {
		return 1.0
	}
	return 1.1 - clamp(age, 0, maxHomeAgeYears)/maxHomeAgeYears*0.2
}

func round1(v float64) float64 { return round1to(v, 1) }

func round1to(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
