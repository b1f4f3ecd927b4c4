// Package audit defines the external data contract of the audit analysis
// pipeline: the raw AuditRecord input shape and the report/recommendation
// output shapes.
//
// Every numeric field on the input side is a pointer: survey data arrives
// incomplete, malformed, or out of physical range, and the contract makes no
// validity assumption whatsoever.  All "missing → default" decisions happen in
// the Value Normalizer (internal/domain/audit); nothing in this package
// corrects or validates.
package audit

import (
	"time"

	"github.com/wattwise/HomeAudit-Intelligence/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Raw input: AuditRecord and its sections
// ─────────────────────────────────────────────────────────────────────────────

// AuditRecord is the immutable-per-run survey input.  Top-level sections may
// be nil; the pipeline still produces a (maximally defaulted) report.
type AuditRecord struct {
	ID        common.ID          `json:"id,omitempty"`
	BasicInfo *BasicInfo         `json:"basic_info,omitempty"`
	Envelope  *EnvelopeCondition `json:"envelope,omitempty"`
	HVAC      *HVACSystem        `json:"hvac,omitempty"`
	Lighting  *LightingMix       `json:"lighting,omitempty"`
	Utility   *UtilityBills      `json:"utility,omitempty"`
	Humidity  *HumidityReadings  `json:"humidity,omitempty"`
	Weather   *WeatherContext    `json:"weather,omitempty"`
	CreatedAt time.Time          `json:"created_at,omitempty"`
}

// BasicInfo carries the property-level attributes.
type BasicInfo struct {
	PropertyType  *string  `json:"property_type,omitempty"` // "single-family" | "apartment" | "townhouse" | ...
	YearBuilt     *float64 `json:"year_built,omitempty"`
	SquareFootage *float64 `json:"square_footage,omitempty"`
}

// EnvelopeCondition carries insulation ratings per surface and window details.
// Insulation ratings are free-text survey answers ("poor"/"average"/"good"/
// "excellent"); unknown values are bucketed by the normalizer.
type EnvelopeCondition struct {
	AtticInsulation *string  `json:"attic_insulation,omitempty"`
	WallInsulation  *string  `json:"wall_insulation,omitempty"`
	FloorInsulation *string  `json:"floor_insulation,omitempty"`
	WindowType      *string  `json:"window_type,omitempty"` // "single-pane" | "double-pane" | "triple-pane"
	WindowCount     *float64 `json:"window_count,omitempty"`
}

// HVACSystem describes the heating/cooling equipment.  Efficiency carries
// whatever number the surveyor wrote down: AFUE percent, HSPF, a 0-1
// fraction, or garbage; the HVAC analyzer normalizes the metric itself.
type HVACSystem struct {
	SystemType       *string  `json:"system_type,omitempty"` // "furnace" | "boiler" | "heat-pump" | "central-ac" | ...
	FuelType         *string  `json:"fuel_type,omitempty"`
	Age              *float64 `json:"age,omitempty"`
	Efficiency       *float64 `json:"efficiency,omitempty"`
	TargetEfficiency *float64 `json:"target_efficiency,omitempty"`
}

// LightingMix carries bulb-type percentages.  The triplet may be missing,
// all-zero, negative, or sum to anything; the normalizer rescales it to
// exactly 100.
type LightingMix struct {
	LEDPercent          *float64 `json:"led_percent,omitempty"`
	CFLPercent          *float64 `json:"cfl_percent,omitempty"`
	IncandescentPercent *float64 `json:"incandescent_percent,omitempty"`
}

// UtilityBills carries annual consumption figures and optional adjustment
// factors applied during energy analysis.
type UtilityBills struct {
	ElectricKWhPerYear *float64 `json:"electric_kwh_per_year,omitempty"`
	GasThermsPerYear   *float64 `json:"gas_therms_per_year,omitempty"`
	PowerFactor        *float64 `json:"power_factor,omitempty"`
	SeasonalFactor     *float64 `json:"seasonal_factor,omitempty"`
	OccupancyFactor    *float64 `json:"occupancy_factor,omitempty"`
}

// HumidityReadings carries indoor relative-humidity observations.
type HumidityReadings struct {
	CurrentRH *float64 `json:"current_rh,omitempty"` // percent relative humidity
	TargetRH  *float64 `json:"target_rh,omitempty"`
}

// WeatherContext optionally supplies local climate data so the energy
// analyzer can weather-normalize consumption (degree-day adjustment).
type WeatherContext struct {
	MonthlyAvgTempsF []float64 `json:"monthly_avg_temps_f,omitempty"` // calendar order, up to 12 entries
	BaselineHDD      *float64  `json:"baseline_hdd,omitempty"`        // long-term heating degree days
	BaselineCDD      *float64  `json:"baseline_cdd,omitempty"`        // long-term cooling degree days
}

// ─────────────────────────────────────────────────────────────────────────────
// Output: report and recommendations
// ─────────────────────────────────────────────────────────────────────────────

// InterpretationTier is the human-readable band for an overall score.
type InterpretationTier string

const (
	TierExcellent InterpretationTier = "Excellent"
	TierVeryGood  InterpretationTier = "Very Good"
	TierGood      InterpretationTier = "Good"
	TierFair      InterpretationTier = "Fair"
	TierPoor      InterpretationTier = "Poor"
)

// TierForScore maps an overall score to its interpretation tier.
// Boundaries are fixed product constants.
func TierForScore(score float64) InterpretationTier {
	switch {
	case score >= 90:
		return TierExcellent
	case score >= 80:
		return TierVeryGood
	case score >= 70:
		return TierGood
	case score >= 60:
		return TierFair
	default:
		return TierPoor
	}
}

// EfficiencyReport is the aggregated scoring output, computed once per audit
// and read-only afterward.  OverallScore is always within [60,95].
type EfficiencyReport struct {
	OverallScore     float64            `json:"overall_score"`
	Interpretation   InterpretationTier `json:"interpretation"`
	DomainScores     map[string]float64 `json:"domain_scores"`
	AgeFactor        float64            `json:"age_factor"`
	ScoreSubstituted bool               `json:"score_substituted,omitempty"` // raw weighted sum fell outside the display band
}

// Priority classifies how urgent a recommendation is.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Recommendation is a single improvement suggestion.  Financial fields are
// filled all-or-nothing by the estimator before the recommendation leaves the
// pipeline: a Recommendation is never exposed with a partial financial fill.
type Recommendation struct {
	Type             string    `json:"type"`
	Description      string    `json:"description"`
	Priority         Priority  `json:"priority"`
	Scope            string    `json:"scope"`
	EstimatedSavings float64   `json:"estimated_savings"` // USD per year, >= 0
	EstimatedCost    float64   `json:"estimated_cost"`    // USD, >= 0
	PaybackYears     float64   `json:"payback_years"`     // one decimal, capped
	IsEstimated      bool      `json:"is_estimated"`
	Products         []Product `json:"products,omitempty"` // 0–3, purely additive
}

// Product is a catalog item suggested for a recommendation.
type Product struct {
	Name       string  `json:"name"`
	Brand      string  `json:"brand,omitempty"`
	Category   string  `json:"category"`
	PriceUSD   float64 `json:"price_usd,omitempty"`
	Efficiency string  `json:"efficiency,omitempty"`
}

// AnalysisResult is the single output shape of the pipeline.
type AnalysisResult struct {
	AuditID          common.ID        `json:"audit_id,omitempty"`
	EfficiencyReport EfficiencyReport `json:"efficiency_report"`
	Recommendations  []Recommendation `json:"recommendations"`
	AnalyzedAt       time.Time        `json:"analyzed_at"`
}
