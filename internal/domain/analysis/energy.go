package analysis

import (
	"context"

	domaudit "github.com/wattwise/HomeAudit-Intelligence/internal/domain/audit"
)

// Benchmark blend and reference adjustment factors for energy scoring.
const (
	electricBlendWeight = 0.6
	gasBlendWeight      = 0.4

	referenceOccupancy   = 0.85
	referencePowerFactor = 0.92
)

// energyAnalyzer scores annual consumption against size-scaled benchmarks.
// The score is driven by a single blended ratio: observed consumption over
// expected consumption, electric weighted 60/40 over gas.  A ratio of 1.0
// means the home uses exactly what a typical home of its size would.
type energyAnalyzer struct{}

// NewEnergyAnalyzer constructs the consumption analyzer.
func NewEnergyAnalyzer() Analyzer { return &energyAnalyzer{} }

func (a *energyAnalyzer) Domain() string { return DomainEnergy }

func (a *energyAnalyzer) Analyze(_ context.Context, rec *domaudit.NormalizedAuditRecord) (DomainScore, error) {
	u := rec.Utility
	sqft := rec.SquareFootage

	// Weather-normalize observed consumption, then discount a demanding
	// season: both corrections credit the home for conditions it cannot
	// control.
	weather := domaudit.WeatherAdjustment(rec.Weather)
	elec := u.ElectricKWhPerYear * weather / u.SeasonalFactor
	gas := u.GasThermsPerYear * weather / u.SeasonalFactor

	// Expected consumption scales with floor area and occupancy.
	occScale := u.OccupancyFactor / referenceOccupancy
	expectedElec := domaudit.BenchmarkElectricKWhPerSqFt * sqft * occScale
	expectedGas := domaudit.BenchmarkGasThermsPerSqFt * sqft * occScale

	elecRatio := elec / expectedElec
	gasRatio := gas / expectedGas

	// A poor power factor inflates real electric draw relative to billed kWh.
	elecRatio *= referencePowerFactor / u.PowerFactor

	ratio := electricBlendWeight*elecRatio + gasBlendWeight*gasRatio
	score := energyScore(ratio)

	return DomainScore{
		Domain: DomainEnergy,
		Score:  score,
		Facts: Facts{
			FactEnergyRatio:     ratio,
			FactWeatherAdjusted: weather != 1.0,
		},
	}, nil
}

// energyScore maps the blended consumption ratio onto the domain score band.
// Piecewise linear: each band rewards or penalizes proportionally, and the
// result always lands in [MinDomainScore, MaxDomainScore].
func energyScore(ratio float64) float64 {
	switch {
	case ratio <= 0.6:
		return MaxDomainScore
	case ratio <= 0.8:
		return 90 + (0.8-ratio)/0.2*10
	case ratio <= 1.0:
		return 78 + (1.0-ratio)/0.2*12
	case ratio <= 1.3:
		return 62 + (1.3-ratio)/0.3*16
	case ratio <= 1.8:
		return 48 + (1.8-ratio)/0.5*14
	default:
		return clamp(48-(ratio-1.8)*5, MinDomainScore, MaxDomainScore)
	}
}
