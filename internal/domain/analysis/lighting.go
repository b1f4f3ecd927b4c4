package analysis

import (
	"context"
	"fmt"

	domaudit "github.com/wattwise/HomeAudit-Intelligence/internal/domain/audit"
)

// Per-bulb-type quality weights, LED best, incandescent worst.
const (
	ledWeight          = 1.0
	cflWeight          = 0.65
	incandescentWeight = 0.1
)

// lightingAnalyzer scores the bulb mix.  The normalizer guarantees the
// triplet sums to exactly 100, so the weighted quality is a plain dot
// product.
type lightingAnalyzer struct{}

// NewLightingAnalyzer constructs the lighting mix analyzer.
func NewLightingAnalyzer() Analyzer { return &lightingAnalyzer{} }

func (a *lightingAnalyzer) Domain() string { return DomainLighting }

func (a *lightingAnalyzer) Analyze(_ context.Context, rec *domaudit.NormalizedAuditRecord) (DomainScore, error) {
	mix := rec.Lighting

	quality := (float64(mix.LED)*ledWeight +
		float64(mix.CFL)*cflWeight +
		float64(mix.Incandescent)*incandescentWeight) / 100

	score := clamp(40+quality*60, MinDomainScore, MaxDomainScore)

	return DomainScore{
		Domain: DomainLighting,
		Score:  score,
		Facts: Facts{
			FactMixDescription:    mixDescription(mix),
			FactLEDShare:          float64(mix.LED),
			FactIncandescentShare: float64(mix.Incandescent),
		},
	}, nil
}

// mixDescription names the bulb mix for display.  Predicates are ordered:
// a dominant type (70%+) wins, then a two-way mix (both 40%+), then the
// generic fallback.
func mixDescription(mix domaudit.BulbMix) string {
	switch {
	case mix.LED >= 70:
		return "Mostly LED Bulbs"
	case mix.CFL >= 70:
		return "Mostly CFL Bulbs"
	case mix.Incandescent >= 70:
		return "Mostly Incandescent Bulbs"
	case mix.LED >= 40 && mix.CFL >= 40:
		return mixOfTwo("LED", "CFL")
	case mix.LED >= 40 && mix.Incandescent >= 40:
		return mixOfTwo("LED", "Incandescent")
	case mix.CFL >= 40 && mix.Incandescent >= 40:
		return mixOfTwo("CFL", "Incandescent")
	default:
		return "Mix of Bulb Types"
	}
}

func mixOfTwo(a, b string) string {
	return fmt.Sprintf("Mix of %s and %s Bulbs", a, b)
}
