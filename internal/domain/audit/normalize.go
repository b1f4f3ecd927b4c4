package audit

import (
	"math"
	"strings"
	"time"

	"github.com/wattwise/HomeAudit-Intelligence/internal/infrastructure/monitoring/logging"
	audittypes "github.com/wattwise/HomeAudit-Intelligence/pkg/types/audit"
)

// ─────────────────────────────────────────────────────────────────────────────
// Bounds and defaults
// ─────────────────────────────────────────────────────────────────────────────

// Physical bounds applied to each numeric kind.  Values outside the range are
// clamped; missing or non-finite values are replaced with the kind's default.
const (
	minYearBuilt = 1800
	defYearBuilt = 1980

	minSquareFootage = 100.0
	maxSquareFootage = 50000.0
	defSquareFootage = 1500.0

	maxWindowCount = 200.0
	defWindowCount = 10.0

	maxHVACAge = 60.0
	defHVACAge = 10.0

	// Raw efficiency bounds.  These are deliberately loose: the value may be
	// an AFUE percent, an HSPF, or a 0-1 fraction.  Metric interpretation
	// happens in the HVAC analyzer; here we only guarantee positivity.
	maxRawEfficiency = 150.0
	defRawEfficiency = 80.0
	defRawTarget     = 90.0

	maxElectricKWh = 500000.0
	maxGasTherms   = 20000.0

	// Benchmark consumption intensities used both as context-aware defaults
	// (missing bills default to exactly-benchmark usage, a neutral ratio of
	// 1.0) and by the energy analyzer as the comparison baseline.
	BenchmarkElectricKWhPerSqFt = 12.0
	BenchmarkGasThermsPerSqFt   = 0.35

	minPowerFactor = 0.7
	maxPowerFactor = 1.0
	defPowerFactor = 0.92

	minSeasonalFactor = 0.7
	maxSeasonalFactor = 1.3
	defSeasonalFactor = 1.0

	minOccupancyFactor = 0.5
	maxOccupancyFactor = 1.0
	defOccupancyFactor = 0.85

	defCurrentRH = 45.0
	minTargetRH  = 30.0
	maxTargetRH  = 60.0
	defTargetRH  = 45.0

	minMonthlyTempF = -60.0
	maxMonthlyTempF = 130.0
)

// defaultBulbMix returns the construction-year-aware default lighting triplet
// used when the entire bulb mix is missing or zero.  Newer homes are assumed
// LED-dominant; older homes skew incandescent.
func defaultBulbMix(yearBuilt int) BulbMix {
	switch {
	case yearBuilt >= 2015:
		return BulbMix{LED: 70, CFL: 20, Incandescent: 10}
	case yearBuilt >= 2000:
		return BulbMix{LED: 35, CFL: 40, Incandescent: 25}
	case yearBuilt >= 1985:
		return BulbMix{LED: 20, CFL: 40, Incandescent: 40}
	default:
		return BulbMix{LED: 10, CFL: 30, Incandescent: 60}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Normalizer
// ─────────────────────────────────────────────────────────────────────────────

// Normalizer coerces raw survey values into safe, bounded ones.  It is a pure
// transformation: the only side effect is a diagnostic log entry per
// substitution, and it functions identically with a no-op logger.
type Normalizer struct {
	log logging.Logger

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// NewNormalizer constructs a Normalizer.  A nil logger is replaced with the
// no-op implementation.
func NewNormalizer(log logging.Logger) *Normalizer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Normalizer{log: log, now: time.Now}
}

// Normalize derives a fully-populated NormalizedAuditRecord from raw survey
// input.  It never fails: nil sections, nil fields, NaN, Infinity, negative
// and absurd values are all corrected to documented defaults, and every
// correction is returned as a tagged result (and logged as a warning).
//
// Normalize is idempotent: running the output (via ToRecord) through
// Normalize again produces an identical record and zero corrections.
func (nz *Normalizer) Normalize(rec *audittypes.AuditRecord) (*NormalizedAuditRecord, []Correction) {
	var corrections []Correction
	if rec == nil {
		rec = &audittypes.AuditRecord{}
		corrections = append(corrections, Correction{
			Field: "audit", Raw: nil, Applied: "defaults", Reason: "record absent",
		})
	}

	out := &NormalizedAuditRecord{}
	nz.normalizeBasicInfo(rec.BasicInfo, out, &corrections)
	nz.normalizeEnvelope(rec.Envelope, out, &corrections)
	nz.normalizeHVAC(rec.HVAC, out, &corrections)
	nz.normalizeLighting(rec.Lighting, out, &corrections)
	nz.normalizeUtility(rec.Utility, out, &corrections)
	nz.normalizeHumidity(rec.Humidity, out, &corrections)
	nz.normalizeWeather(rec.Weather, out, &corrections)

	for _, c := range corrections {
		nz.log.Warn("normalization substitution",
			logging.String("field", c.Field),
			logging.Any("raw", c.Raw),
			logging.Any("applied", c.Applied),
			logging.String("reason", c.Reason))
	}
	return out, corrections
}

// ─────────────────────────────────────────────────────────────────────────────
// Section normalizers
// ─────────────────────────────────────────────────────────────────────────────

func (nz *Normalizer) normalizeBasicInfo(in *audittypes.BasicInfo, out *NormalizedAuditRecord, corr *[]Correction) {
	if in == nil {
		in = &audittypes.BasicInfo{}
		*corr = append(*corr, Correction{Field: "basic_info", Applied: "defaults", Reason: "section absent"})
	}

	out.PropertyType = normalizeCategory("basic_info.property_type", in.PropertyType, "single-family", corr,
		"single-family", "apartment", "condo", "townhouse", "mobile-home", "multi-family")

	maxYear := float64(nz.now().Year())
	out.YearBuilt = int(numeric("basic_info.year_built", in.YearBuilt, minYearBuilt, maxYear, defYearBuilt, corr))
	out.SquareFootage = numeric("basic_info.square_footage", in.SquareFootage,
		minSquareFootage, maxSquareFootage, defSquareFootage, corr)
}

func (nz *Normalizer) normalizeEnvelope(in *audittypes.EnvelopeCondition, out *NormalizedAuditRecord, corr *[]Correction) {
	if in == nil {
		in = &audittypes.EnvelopeCondition{}
		*corr = append(*corr, Correction{Field: "envelope", Applied: "defaults", Reason: "section absent"})
	}

	out.Envelope.Attic = insulation("envelope.attic_insulation", in.AtticInsulation, corr)
	out.Envelope.Wall = insulation("envelope.wall_insulation", in.WallInsulation, corr)
	out.Envelope.Floor = insulation("envelope.floor_insulation", in.FloorInsulation, corr)
	out.Envelope.WindowType = windowType("envelope.window_type", in.WindowType, corr)
	out.Envelope.WindowCount = int(numeric("envelope.window_count", in.WindowCount, 0, maxWindowCount, defWindowCount, corr))
}

func (nz *Normalizer) normalizeHVAC(in *audittypes.HVACSystem, out *NormalizedAuditRecord, corr *[]Correction) {
	if in == nil {
		in = &audittypes.HVACSystem{}
		*corr = append(*corr, Correction{Field: "hvac", Applied: "defaults", Reason: "section absent"})
	}

	out.HVAC.Kind = systemKind(in.SystemType)
	out.HVAC.FuelType = normalizeCategory("hvac.fuel_type", in.FuelType, "natural-gas", corr,
		"natural-gas", "electric", "oil", "propane")
	out.HVAC.AgeYears = numeric("hvac.age", in.Age, 0, maxHVACAge, defHVACAge, corr)
	out.HVAC.Efficiency = efficiencyValue("hvac.efficiency", in.Efficiency, defRawEfficiency, corr)
	out.HVAC.TargetEfficiency = efficiencyValue("hvac.target_efficiency", in.TargetEfficiency, defRawTarget, corr)
}

func (nz *Normalizer) normalizeLighting(in *audittypes.LightingMix, out *NormalizedAuditRecord, corr *[]Correction) {
	if in == nil {
		in = &audittypes.LightingMix{}
		*corr = append(*corr, Correction{Field: "lighting", Applied: "defaults", Reason: "section absent"})
	}

	led := share("lighting.led_percent", in.LEDPercent, corr)
	cfl := share("lighting.cfl_percent", in.CFLPercent, corr)
	inc := share("lighting.incandescent_percent", in.IncandescentPercent, corr)

	if led+cfl+inc <= 0 {
		// Empty triplet: substitute the full construction-year default, not
		// per-field defaults.
		out.Lighting = defaultBulbMix(out.YearBuilt)
		*corr = append(*corr, Correction{
			Field: "lighting", Raw: "0/0/0", Applied: out.Lighting,
			Reason: "empty bulb mix, construction-year default applied",
		})
		return
	}

	rescaled, drifted := rescaleTriplet(led, cfl, inc)
	out.Lighting = rescaled
	if led+cfl+inc != 100 || drifted {
		*corr = append(*corr, Correction{
			Field: "lighting", Raw: [3]float64{led, cfl, inc}, Applied: rescaled,
			Reason: "bulb mix rescaled to sum to 100",
		})
	}
}

func (nz *Normalizer) normalizeUtility(in *audittypes.UtilityBills, out *NormalizedAuditRecord, corr *[]Correction) {
	if in == nil {
		in = &audittypes.UtilityBills{}
		*corr = append(*corr, Correction{Field: "utility", Applied: "defaults", Reason: "section absent"})
	}

	// Context-aware defaults: missing bills default to exactly-benchmark
	// consumption for the property size, yielding a neutral energy ratio.
	defElectric := math.Min(BenchmarkElectricKWhPerSqFt*out.SquareFootage, maxElectricKWh)
	defGas := math.Min(BenchmarkGasThermsPerSqFt*out.SquareFootage, maxGasTherms)

	out.Utility.ElectricKWhPerYear = numeric("utility.electric_kwh_per_year", in.ElectricKWhPerYear,
		0, maxElectricKWh, defElectric, corr)
	out.Utility.GasThermsPerYear = numeric("utility.gas_therms_per_year", in.GasThermsPerYear,
		0, maxGasTherms, defGas, corr)
	out.Utility.PowerFactor = numeric("utility.power_factor", in.PowerFactor,
		minPowerFactor, maxPowerFactor, defPowerFactor, corr)
	out.Utility.SeasonalFactor = numeric("utility.seasonal_factor", in.SeasonalFactor,
		minSeasonalFactor, maxSeasonalFactor, defSeasonalFactor, corr)
	out.Utility.OccupancyFactor = numeric("utility.occupancy_factor", in.OccupancyFactor,
		minOccupancyFactor, maxOccupancyFactor, defOccupancyFactor, corr)
}

func (nz *Normalizer) normalizeHumidity(in *audittypes.HumidityReadings, out *NormalizedAuditRecord, corr *[]Correction) {
	if in == nil {
		in = &audittypes.HumidityReadings{}
		*corr = append(*corr, Correction{Field: "humidity", Applied: "defaults", Reason: "section absent"})
	}

	out.Humidity.CurrentRH = numeric("humidity.current_rh", in.CurrentRH, 0, 100, defCurrentRH, corr)
	out.Humidity.TargetRH = numeric("humidity.target_rh", in.TargetRH, minTargetRH, maxTargetRH, defTargetRH, corr)
}

func (nz *Normalizer) normalizeWeather(in *audittypes.WeatherContext, out *NormalizedAuditRecord, corr *[]Correction) {
	if in == nil {
		// Weather is genuinely optional; absence is not a correction.
		return
	}

	temps := make([]float64, 0, len(in.MonthlyAvgTempsF))
	dropped := 0
	for _, t := range in.MonthlyAvgTempsF {
		if len(temps) == 12 {
			dropped++
			continue
		}
		if math.IsNaN(t) || math.IsInf(t, 0) || t < minMonthlyTempF || t > maxMonthlyTempF {
			dropped++
			continue
		}
		temps = append(temps, t)
	}
	if dropped > 0 {
		*corr = append(*corr, Correction{
			Field: "weather.monthly_avg_temps_f", Raw: len(in.MonthlyAvgTempsF), Applied: len(temps),
			Reason: "implausible monthly temperatures dropped",
		})
	}
	out.Weather.MonthlyAvgTempsF = temps
	out.Weather.HasMonthly = len(temps) > 0

	if in.BaselineHDD != nil && in.BaselineCDD != nil {
		hdd := *in.BaselineHDD
		cdd := *in.BaselineCDD
		if finite(hdd) && finite(cdd) && hdd >= 0 && cdd >= 0 {
			out.Weather.BaselineHDD = hdd
			out.Weather.BaselineCDD = cdd
			out.Weather.HasBaseline = true
		} else {
			*corr = append(*corr, Correction{
				Field: "weather.baseline", Raw: [2]float64{hdd, cdd}, Applied: "ignored",
				Reason: "non-finite or negative degree-day baseline",
			})
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Primitive coercion helpers
// ─────────────────────────────────────────────────────────────────────────────

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// numeric coerces a raw optional float into [min,max], substituting def for
// missing or non-finite input and recording every change as a Correction.
func numeric(field string, raw *float64, min, max, def float64, corr *[]Correction) float64 {
	if raw == nil {
		*corr = append(*corr, Correction{Field: field, Raw: nil, Applied: def, Reason: "missing"})
		return def
	}
	v := *raw
	if !finite(v) {
		*corr = append(*corr, Correction{Field: field, Raw: v, Applied: def, Reason: "non-finite"})
		return def
	}
	if v < min {
		*corr = append(*corr, Correction{Field: field, Raw: v, Applied: min, Reason: "below physical minimum"})
		return min
	}
	if v > max {
		*corr = append(*corr, Correction{Field: field, Raw: v, Applied: max, Reason: "above physical maximum"})
		return max
	}
	return v
}

// efficiencyValue coerces a raw efficiency figure into (0, maxRawEfficiency].
// Non-positive values are meaningless under every candidate metric (AFUE,
// HSPF, 0-1 fraction) and are replaced with the default rather than clamped.
func efficiencyValue(field string, raw *float64, def float64, corr *[]Correction) float64 {
	if raw == nil {
		*corr = append(*corr, Correction{Field: field, Raw: nil, Applied: def, Reason: "missing"})
		return def
	}
	v := *raw
	if !finite(v) || v <= 0 {
		*corr = append(*corr, Correction{Field: field, Raw: v, Applied: def, Reason: "non-positive or non-finite efficiency"})
		return def
	}
	if v > maxRawEfficiency {
		*corr = append(*corr, Correction{Field: field, Raw: v, Applied: maxRawEfficiency, Reason: "above physical maximum"})
		return maxRawEfficiency
	}
	return v
}

// share coerces one bulb-mix component into a non-negative finite value.
// Missing components are treated as zero without a correction; the triplet
// handling above decides whether the whole mix needs a default.
func share(field string, raw *float64, corr *[]Correction) float64 {
	if raw == nil {
		return 0
	}
	v := *raw
	if !finite(v) || v < 0 {
		*corr = append(*corr, Correction{Field: field, Raw: v, Applied: 0.0, Reason: "invalid percentage treated as zero"})
		return 0
	}
	return v
}

// normalizeCategory lower-cases and buckets a categorical answer; anything
// outside the known set maps to the named average bucket.
func normalizeCategory(field string, raw *string, avg string, corr *[]Correction, known ...string) string {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		*corr = append(*corr, Correction{Field: field, Raw: nil, Applied: avg, Reason: "missing"})
		return avg
	}
	v := strings.ToLower(strings.TrimSpace(*raw))
	for _, k := range known {
		if v == k {
			return k
		}
	}
	*corr = append(*corr, Correction{Field: field, Raw: *raw, Applied: avg, Reason: "unrecognized value"})
	return avg
}

func insulation(field string, raw *string, corr *[]Correction) InsulationRating {
	v := normalizeCategory(field, raw, string(InsulationAverage), corr,
		string(InsulationPoor), string(InsulationAverage), string(InsulationGood), string(InsulationExcellent))
	return InsulationRating(v)
}

func windowType(field string, raw *string, corr *[]Correction) WindowType {
	if raw != nil {
		switch v := strings.ToLower(strings.TrimSpace(*raw)); {
		case strings.Contains(v, "single"):
			return WindowSingle
		case strings.Contains(v, "double"):
			return WindowDouble
		case strings.Contains(v, "triple"):
			return WindowTriple
		}
	}
	// Double-pane is the average bucket for unknown glazing.
	*corr = append(*corr, Correction{Field: field, Raw: deref(raw), Applied: string(WindowDouble), Reason: "unrecognized window type"})
	return WindowDouble
}

// systemKind buckets the free-text HVAC descriptor.  Generic "heating"
// answers are treated as combustion heating (AFUE metric) downstream.
func systemKind(raw *string) SystemKind {
	if raw == nil {
		return KindUnknown
	}
	switch v := strings.ToLower(strings.TrimSpace(*raw)); {
	case strings.Contains(v, "heat pump"), strings.Contains(v, "heat-pump"), strings.Contains(v, "heatpump"):
		return KindHeatPump
	case strings.Contains(v, "boiler"):
		return KindBoiler
	case strings.Contains(v, "furnace"), strings.Contains(v, "heating"):
		return KindFurnace
	case strings.Contains(v, "central"), strings.Contains(v, "air condition"), v == "ac":
		return KindCentralAC
	default:
		return KindUnknown
	}
}

func deref(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// rescaleTriplet proportionally scales a non-zero triplet so its components
// sum to exactly 100.  Each component is rounded half-up; the resulting sum
// can drift by at most ±1, which is corrected by adjusting the largest
// component.  The second return reports whether a drift adjustment was made.
func rescaleTriplet(led, cfl, inc float64) (BulbMix, bool) {
	total := led + cfl + inc
	l := int(math.Floor(led/total*100 + 0.5))
	c := int(math.Floor(cfl/total*100 + 0.5))
	i := int(math.Floor(inc/total*100 + 0.5))

	drift := 100 - (l + c + i)
	if drift == 0 {
		return BulbMix{LED: l, CFL: c, Incandescent: i}, false
	}

	// Assign the drift to the largest component; ties resolve in the fixed
	// order LED, CFL, incandescent.
	switch {
	case l >= c && l >= i:
		l += drift
	case c >= i:
		c += drift
	default:
		i += drift
	}
	return BulbMix{LED: l, CFL: c, Incandescent: i}, true
}
