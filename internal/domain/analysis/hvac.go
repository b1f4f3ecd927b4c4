package analysis

import (
	"context"

	domaudit "github.com/wattwise/HomeAudit-Intelligence/internal/domain/audit"
)

// Metric scales. Combustion and resistance systems are rated on the AFUE
// percent scale; heat pumps on HSPF. Raw survey numbers arrive on either
// scale (or as a 0-1 fraction) regardless of system kind, so the analyzer
// re-interprets magnitude before scoring.
const (
	afueMin = 60.0
	afueMax = 98.0
	hspfMin = 6.0
	hspfMax = 13.0

	// Efficiency gap is capped so a bogus target cannot dominate scoring
	// or recommendations.
	maxEfficiencyGap = 50.0

	metricAFUE = "afue"
	metricHSPF = "hspf"
)

// hvacAnalyzer scores the heating/cooling system from its efficiency rating
// and age.  Both the current and the target efficiency are normalized onto
// the AFUE percent scale so one gap computation serves every system kind.
type hvacAnalyzer struct{}

// NewHVACAnalyzer constructs the HVAC system analyzer.
func NewHVACAnalyzer() Analyzer { return &hvacAnalyzer{} }

func (a *hvacAnalyzer) Domain() string { return DomainHVAC }

func (a *hvacAnalyzer) Analyze(_ context.Context, rec *domaudit.NormalizedAuditRecord) (DomainScore, error) {
	h := rec.HVAC

	metric := metricAFUE
	if h.Kind == domaudit.KindHeatPump {
		metric = metricHSPF
	}

	currentPct := efficiencyPercent(h.Efficiency)
	targetPct := efficiencyPercent(h.TargetEfficiency)

	gap := clamp(targetPct-currentPct, 0, maxEfficiencyGap)

	// Score from the current rating, with a mild age penalty.  A modern
	// rating on an old plant still scores well; the age term reflects
	// degradation and remaining life.
	score := 40 + (currentPct-afueMin)/(afueMax-afueMin)*55
	score -= clamp(h.AgeYears/3, 0, 12)
	score = clamp(score, MinDomainScore, MaxDomainScore)

	return DomainScore{
		Domain: DomainHVAC,
		Score:  score,
		Facts: Facts{
			FactEfficiencyGap:    gap,
			FactEfficiencyMetric: metric,
			FactSystemAgeYears:   h.AgeYears,
		},
	}, nil
}

// efficiencyPercent re-interprets a raw positive efficiency figure onto the
// AFUE percent scale using magnitude heuristics:
//
//	v <= 1        fraction, scaled to percent first
//	1 < v < 20    an HSPF-magnitude number, remapped from [6,13] onto [60,98]
//	otherwise     already a percent
//
// The system kind decides nothing about the input (surveyors mix scales
// freely); the declared metric is published as a fact for display only.
func efficiencyPercent(v float64) float64 {
	if v <= 1 {
		v *= 100
	}
	if v > 1 && v < 20 {
		hspf := clamp(v, hspfMin, hspfMax)
		return afueMin + (hspf-hspfMin)/(hspfMax-hspfMin)*(afueMax-afueMin)
	}
	return clamp(v, afueMin, afueMax)
}
