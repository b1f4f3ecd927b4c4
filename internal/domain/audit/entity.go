// Package audit implements the value-normalization stage of the analysis
// pipeline: it turns a raw, frequently incomplete or malformed survey record
// into a NormalizedAuditRecord in which every field is present and within a
// physically sane range.
//
// All "missing → default" decisions live here.  Analyzers downstream consume
// only NormalizedAuditRecord and never see a nil pointer, a NaN, or an
// out-of-range value.
package audit

import (
	"fmt"

	audittypes "github.com/wattwise/HomeAudit-Intelligence/pkg/types/audit"
)

// ─────────────────────────────────────────────────────────────────────────────
// Categorical buckets
// ─────────────────────────────────────────────────────────────────────────────

// InsulationRating buckets a free-text insulation survey answer.
type InsulationRating string

const (
	InsulationPoor      InsulationRating = "poor"
	InsulationAverage   InsulationRating = "average"
	InsulationGood      InsulationRating = "good"
	InsulationExcellent InsulationRating = "excellent"
)

// WindowType buckets the glazing answer.  Unknown answers map to the average
// bucket (double-pane) rather than erroring.
type WindowType string

const (
	WindowSingle WindowType = "single-pane"
	WindowDouble WindowType = "double-pane"
	WindowTriple WindowType = "triple-pane"
)

// SystemKind buckets the HVAC system descriptor.  The kind decides which
// efficiency metric the HVAC analyzer applies (AFUE for combustion heating,
// HSPF for heat pumps).
type SystemKind string

const (
	KindFurnace   SystemKind = "furnace"
	KindBoiler    SystemKind = "boiler"
	KindHeatPump  SystemKind = "heat-pump"
	KindCentralAC SystemKind = "central-ac"
	KindUnknown   SystemKind = "unknown"
)

// ─────────────────────────────────────────────────────────────────────────────
// NormalizedAuditRecord
// ─────────────────────────────────────────────────────────────────────────────

// BulbMix is a normalized lighting triplet.  Invariant: the three shares are
// each >= 0 and sum to exactly 100.
type BulbMix struct {
	LED          int `json:"led"`
	CFL          int `json:"cfl"`
	Incandescent int `json:"incandescent"`
}

// Sum returns the triplet total; 100 for any normalized mix.
func (m BulbMix) Sum() int { return m.LED + m.CFL + m.Incandescent }

// NormalizedEnvelope carries bucketed envelope condition.
type NormalizedEnvelope struct {
	Attic       InsulationRating `json:"attic"`
	Wall        InsulationRating `json:"wall"`
	Floor       InsulationRating `json:"floor"`
	WindowType  WindowType       `json:"window_type"`
	WindowCount int              `json:"window_count"`
}

// NormalizedHVAC carries the cleaned HVAC descriptors.  Efficiency and
// TargetEfficiency are positive and bounded but still raw-metric values; the
// HVAC analyzer interprets them as AFUE or HSPF according to Kind.
type NormalizedHVAC struct {
	Kind             SystemKind `json:"kind"`
	FuelType         string     `json:"fuel_type"`
	AgeYears         float64    `json:"age_years"`
	Efficiency       float64    `json:"efficiency"`
	TargetEfficiency float64    `json:"target_efficiency"`
}

// NormalizedUtility carries annual consumption with all adjustment factors
// resolved to safe values.
type NormalizedUtility struct {
	ElectricKWhPerYear float64 `json:"electric_kwh_per_year"`
	GasThermsPerYear   float64 `json:"gas_therms_per_year"`
	PowerFactor        float64 `json:"power_factor"`
	SeasonalFactor     float64 `json:"seasonal_factor"`
	OccupancyFactor    float64 `json:"occupancy_factor"`
}

// NormalizedHumidity carries indoor relative humidity in percent.
type NormalizedHumidity struct {
	CurrentRH float64 `json:"current_rh"`
	TargetRH  float64 `json:"target_rh"`
}

// NormalizedWeather carries optional climate context.  HasMonthly reports
// whether usable monthly temperatures were supplied; when false the energy
// analyzer skips degree-day normalization.
type NormalizedWeather struct {
	MonthlyAvgTempsF []float64 `json:"monthly_avg_temps_f,omitempty"`
	BaselineHDD      float64   `json:"baseline_hdd"`
	BaselineCDD      float64   `json:"baseline_cdd"`
	HasMonthly       bool      `json:"has_monthly"`
	HasBaseline      bool      `json:"has_baseline"`
}

// NormalizedAuditRecord is the derived, fully-populated input consumed by the
// domain analyzers.  It is created fresh per analysis run, owned exclusively
// by that invocation, and discarded afterwards.
type NormalizedAuditRecord struct {
	PropertyType  string             `json:"property_type"`
	YearBuilt     int                `json:"year_built"`
	SquareFootage float64            `json:"square_footage"`
	Envelope      NormalizedEnvelope `json:"envelope"`
	HVAC          NormalizedHVAC     `json:"hvac"`
	Lighting      BulbMix            `json:"lighting"`
	Utility       NormalizedUtility  `json:"utility"`
	Humidity      NormalizedHumidity `json:"humidity"`
	Weather       NormalizedWeather  `json:"weather"`
}

// ToRecord converts a normalized record back into the raw wire shape.
// Feeding the result through Normalize again yields an identical record
// (normalization is idempotent on valid input).
func (n *NormalizedAuditRecord) ToRecord() *audittypes.AuditRecord {
	pt := n.PropertyType
	yb := float64(n.YearBuilt)
	sf := n.SquareFootage
	attic := string(n.Envelope.Attic)
	wall := string(n.Envelope.Wall)
	floor := string(n.Envelope.Floor)
	wt := string(n.Envelope.WindowType)
	wc := float64(n.Envelope.WindowCount)
	kind := string(n.HVAC.Kind)
	fuel := n.HVAC.FuelType
	age := n.HVAC.AgeYears
	eff := n.HVAC.Efficiency
	target := n.HVAC.TargetEfficiency
	led := float64(n.Lighting.LED)
	cfl := float64(n.Lighting.CFL)
	inc := float64(n.Lighting.Incandescent)
	elec := n.Utility.ElectricKWhPerYear
	gas := n.Utility.GasThermsPerYear
	pf := n.Utility.PowerFactor
	sfac := n.Utility.SeasonalFactor
	occ := n.Utility.OccupancyFactor
	cur := n.Humidity.CurrentRH
	tgt := n.Humidity.TargetRH

	rec := &audittypes.AuditRecord{
		BasicInfo: &audittypes.BasicInfo{PropertyType: &pt, YearBuilt: &yb, SquareFootage: &sf},
		Envelope: &audittypes.EnvelopeCondition{
			AtticInsulation: &attic, WallInsulation: &wall, FloorInsulation: &floor,
			WindowType: &wt, WindowCount: &wc,
		},
		HVAC: &audittypes.HVACSystem{
			SystemType: &kind, FuelType: &fuel, Age: &age,
			Efficiency: &eff, TargetEfficiency: &target,
		},
		Lighting: &audittypes.LightingMix{LEDPercent: &led, CFLPercent: &cfl, IncandescentPercent: &inc},
		Utility: &audittypes.UtilityBills{
			ElectricKWhPerYear: &elec, GasThermsPerYear: &gas,
			PowerFactor: &pf, SeasonalFactor: &sfac, OccupancyFactor: &occ,
		},
		Humidity: &audittypes.HumidityReadings{CurrentRH: &cur, TargetRH: &tgt},
	}
	if n.Weather.HasMonthly || n.Weather.HasBaseline {
		w := &audittypes.WeatherContext{MonthlyAvgTempsF: n.Weather.MonthlyAvgTempsF}
		if n.Weather.HasBaseline {
			hdd := n.Weather.BaselineHDD
			cdd := n.Weather.BaselineCDD
			w.BaselineHDD = &hdd
			w.BaselineCDD = &cdd
		}
		rec.Weather = w
	}
	return rec
}

// ─────────────────────────────────────────────────────────────────────────────
// Correction: tagged normalization result
// ─────────────────────────────────────────────────────────────────────────────

// Correction records a single substitution or clamp applied during
// normalization.  Corrections are data-quality diagnostics, never errors:
// the pipeline always proceeds with the applied value.
type Correction struct {
	Field   string      `json:"field"`
	Raw     interface{} `json:"raw"`
	Applied interface{} `json:"applied"`
	Reason  string      `json:"reason"`
}

func (c Correction) String() string {
	return fmt.Sprintf("%s: %v -> %v (%s)", c.Field, c.Raw, c.Applied, c.Reason)
}
