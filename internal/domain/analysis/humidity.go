package analysis

import (
	"context"

	domaudit "github.com/wattwise/HomeAudit-Intelligence/internal/domain/audit"
)

// Comfort band for indoor relative humidity, in percent RH.
const (
	idealRHLow  = 30.0
	idealRHHigh = 50.0

	// Above this a dehumidifier is recommended regardless of score.
	dehumidifierRH = 60.0
)

// humidityAnalyzer scores indoor moisture levels.  Readings inside the
// comfort band score perfect; outside it the score falls linearly with the
// distance from the nearer band edge.
type humidityAnalyzer struct{}

// NewHumidityAnalyzer constructs the humidity analyzer.
func NewHumidityAnalyzer() Analyzer { return &humidityAnalyzer{} }

func (a *humidityAnalyzer) Domain() string { return DomainHumidity }

func (a *humidityAnalyzer) Analyze(_ context.Context, rec *domaudit.NormalizedAuditRecord) (DomainScore, error) {
	rh := rec.Humidity.CurrentRH

	var deviation float64
	switch {
	case rh < idealRHLow:
		deviation = idealRHLow - rh
	case rh > idealRHHigh:
		deviation = rh - idealRHHigh
	}

	score := clamp(100-deviation*2, MinDomainScore, MaxDomainScore)

	return DomainScore{
		Domain: DomainHumidity,
		Score:  score,
		Facts: Facts{
			FactCurrentRH:         rh,
			FactNeedsDehumidifier: rh > dehumidifierRH,
		},
	}, nil
}
