package audit

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wattwise/HomeAudit-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/wattwise/HomeAudit-Intelligence/internal/testutil"
	audittypes "github.com/wattwise/HomeAudit-Intelligence/pkg/types/audit"
)

func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }

func fixedNormalizer(log logging.Logger) *Normalizer {
	nz := NewNormalizer(log)
	nz.now = func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }
	return nz
}

func TestNormalize_NilRecord(t *testing.T) {
	log := testutil.NewMockLogger()
	nz := fixedNormalizer(log)

	out, corrections := nz.Normalize(nil)
	require.NotNil(t, out)
	assert.NotEmpty(t, corrections)

	assert.Equal(t, "single-family", out.PropertyType)
	assert.Equal(t, defYearBuilt, out.YearBuilt)
	assert.Equal(t, defSquareFootage, out.SquareFootage)
	assert.Equal(t, InsulationAverage, out.Envelope.Attic)
	assert.Equal(t, WindowDouble, out.Envelope.WindowType)
	assert.Equal(t, KindUnknown, out.HVAC.Kind)
	assert.Equal(t, defRawEfficiency, out.HVAC.Efficiency)
	assert.Equal(t, defRawTarget, out.HVAC.TargetEfficiency)
	assert.Equal(t, defPowerFactor, out.Utility.PowerFactor)
	assert.Equal(t, defCurrentRH, out.Humidity.CurrentRH)
	assert.False(t, out.Weather.HasMonthly)
	assert.False(t, out.Weather.HasBaseline)

	// 1980 falls in the pre-1985 era default.
	assert.Equal(t, BulbMix{LED: 10, CFL: 30, Incandescent: 60}, out.Lighting)

	// Missing electric/gas default to exactly-benchmark intensity.
	assert.InDelta(t, BenchmarkElectricKWhPerSqFt*defSquareFootage, out.Utility.ElectricKWhPerYear, 1e-9)
	assert.InDelta(t, BenchmarkGasThermsPerSqFt*defSquareFootage, out.Utility.GasThermsPerYear, 1e-9)

	// Every correction is logged as a warning.
	assert.Equal(t, len(corrections), log.CountLevel("warn"))
}

func TestNormalize_NumericClamps(t *testing.T) {
	nz := fixedNormalizer(nil)

	rec := &audittypes.AuditRecord{
		BasicInfo: &audittypes.BasicInfo{
			PropertyType:  sptr("Condo"),
			YearBuilt:     fptr(2050),
			SquareFootage: fptr(75000),
		},
		Envelope: &audittypes.EnvelopeCondition{
			AtticInsulation: sptr("GOOD"),
			WindowCount:     fptr(-4),
		},
		HVAC: &audittypes.HVACSystem{
			SystemType: sptr("gas furnace"),
			Age:        fptr(120),
			Efficiency: fptr(math.NaN()),
		},
		Utility: &audittypes.UtilityBills{
			PowerFactor:     fptr(0.2),
			SeasonalFactor:  fptr(math.Inf(1)),
			OccupancyFactor: fptr(1.9),
		},
		Humidity: &audittypes.HumidityReadings{
			CurrentRH: fptr(180),
			TargetRH:  fptr(5),
		},
	}

	out, corrections := nz.Normalize(rec)

	assert.Equal(t, "condo", out.PropertyType)
	assert.Equal(t, 2026, out.YearBuilt) // clamped to the current year
	assert.Equal(t, maxSquareFootage, out.SquareFootage)
	assert.Equal(t, InsulationGood, out.Envelope.Attic)
	assert.Equal(t, 0, out.Envelope.WindowCount)
	assert.Equal(t, KindFurnace, out.HVAC.Kind)
	assert.Equal(t, maxHVACAge, out.HVAC.AgeYears)
	assert.Equal(t, defRawEfficiency, out.HVAC.Efficiency)
	assert.Equal(t, minPowerFactor, out.Utility.PowerFactor)
	assert.Equal(t, defSeasonalFactor, out.Utility.SeasonalFactor)
	assert.Equal(t, maxOccupancyFactor, out.Utility.OccupancyFactor)
	assert.Equal(t, 100.0, out.Humidity.CurrentRH)
	assert.Equal(t, minTargetRH, out.Humidity.TargetRH)
	assert.NotEmpty(t, corrections)
}

func TestNormalize_NegativeEfficiencyDefaults(t *testing.T) {
	nz := fixedNormalizer(nil)

	rec := &audittypes.AuditRecord{
		HVAC: &audittypes.HVACSystem{
			SystemType:       sptr("heating"),
			Efficiency:       fptr(-155),
			TargetEfficiency: fptr(90),
		},
	}

	out, _ := nz.Normalize(rec)
	assert.Equal(t, KindFurnace, out.HVAC.Kind)
	assert.Equal(t, defRawEfficiency, out.HVAC.Efficiency)
	assert.Equal(t, 90.0, out.HVAC.TargetEfficiency)
}

func TestNormalize_BulbMixRescaling(t *testing.T) {
	tests := []struct {
		name      string
		led, cfl  *float64
		inc       *float64
		yearBuilt float64
		want      BulbMix
	}{
		{
			name: "already normalized",
			led:  fptr(70), cfl: fptr(20), inc: fptr(10),
			yearBuilt: 1990,
			want:      BulbMix{LED: 70, CFL: 20, Incandescent: 10},
		},
		{
			name: "equal thirds with drift on largest",
			led:  fptr(30), cfl: fptr(30), inc: fptr(30),
			yearBuilt: 1990,
			want:      BulbMix{LED: 34, CFL: 33, Incandescent: 33},
		},
		{
			name: "all zero falls back to era default",
			led:  fptr(0), cfl: fptr(0), inc: fptr(0),
			yearBuilt: 2022,
			want:      BulbMix{LED: 70, CFL: 20, Incandescent: 10},
		},
		{
			name: "missing components treated as zero",
			led:  fptr(50), cfl: fptr(50), inc: nil,
			yearBuilt: 1990,
			want:      BulbMix{LED: 50, CFL: 50, Incandescent: 0},
		},
		{
			name: "negative and NaN components dropped",
			led:  fptr(-5), cfl: fptr(math.NaN()), inc: fptr(40),
			yearBuilt: 1990,
			want:      BulbMix{LED: 0, CFL: 0, Incandescent: 100},
		},
		{
			name: "oversummed mix rescaled proportionally",
			led:  fptr(120), cfl: fptr(60), inc: fptr(20),
			yearBuilt: 1990,
			want:      BulbMix{LED: 60, CFL: 30, Incandescent: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nz := fixedNormalizer(nil)
			rec := &audittypes.AuditRecord{
				BasicInfo: &audittypes.BasicInfo{YearBuilt: fptr(tt.yearBuilt)},
				Lighting:  &audittypes.LightingMix{LEDPercent: tt.led, CFLPercent: tt.cfl, IncandescentPercent: tt.inc},
			}
			out, _ := nz.Normalize(rec)
			assert.Equal(t, tt.want, out.Lighting)
			assert.Equal(t, 100, out.Lighting.Sum())
		})
	}
}

func TestNormalize_BulbMixAlwaysSums100(t *testing.T) {
	nz := fixedNormalizer(nil)

	inputs := [][3]*float64{
		{nil, nil, nil},
		{fptr(1), fptr(1), fptr(1)},
		{fptr(0.1), fptr(0.2), fptr(0.3)},
		{fptr(math.Inf(1)), fptr(10), fptr(10)},
		{fptr(99.5), fptr(0.25), fptr(0.25)},
		{fptr(33), fptr(33), fptr(33)},
		{fptr(-1), fptr(-2), fptr(-3)},
	}
	for _, in := range inputs {
		rec := &audittypes.AuditRecord{
			Lighting: &audittypes.LightingMix{LEDPercent: in[0], CFLPercent: in[1], IncandescentPercent: in[2]},
		}
		out, _ := nz.Normalize(rec)
		assert.Equal(t, 100, out.Lighting.Sum())
		assert.GreaterOrEqual(t, out.Lighting.LED, 0)
		assert.GreaterOrEqual(t, out.Lighting.CFL, 0)
		assert.GreaterOrEqual(t, out.Lighting.Incandescent, 0)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	nz := fixedNormalizer(nil)

	records := []*audittypes.AuditRecord{
		nil,
		{
			BasicInfo: &audittypes.BasicInfo{
				PropertyType:  sptr("townhouse"),
				YearBuilt:     fptr(2005),
				SquareFootage: fptr(2200),
			},
			HVAC: &audittypes.HVACSystem{
				SystemType: sptr("heat pump"),
				Age:        fptr(7),
				Efficiency: fptr(9.2),
			},
			Lighting: &audittypes.LightingMix{LEDPercent: fptr(45), CFLPercent: fptr(30), IncandescentPercent: fptr(35)},
			Weather: &audittypes.WeatherContext{
				MonthlyAvgTempsF: []float64{30, 35, 45, 55, 65, 75, 80, 78, 70, 58, 45, 33},
				BaselineHDD:      fptr(5200),
				BaselineCDD:      fptr(900),
			},
		},
		{
			Humidity: &audittypes.HumidityReadings{CurrentRH: fptr(72), TargetRH: fptr(40)},
		},
	}

	for _, rec := range records {
		first, _ := nz.Normalize(rec)
		second, corrections := nz.Normalize(first.ToRecord())
		assert.Equal(t, first, second)
		assert.Empty(t, corrections)
	}
}

func TestNormalize_SystemKindBucketing(t *testing.T) {
	tests := []struct {
		raw  string
		want SystemKind
	}{
		{"Gas Furnace", KindFurnace},
		{"heating", KindFurnace},
		{"steam boiler", KindBoiler},
		{"Heat Pump", KindHeatPump},
		{"heat-pump", KindHeatPump},
		{"central air", KindCentralAC},
		{"AC", KindCentralAC},
		{"geothermal something", KindUnknown},
		{"", KindUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, systemKind(sptr(tt.raw)), "raw=%q", tt.raw)
	}
	assert.Equal(t, KindUnknown, systemKind(nil))
}

func TestNormalize_WeatherFiltering(t *testing.T) {
	nz := fixedNormalizer(nil)

	rec := &audittypes.AuditRecord{
		Weather: &audittypes.WeatherContext{
			MonthlyAvgTempsF: []float64{30, math.NaN(), 45, 300, -200, 55},
			BaselineHDD:      fptr(-10),
			BaselineCDD:      fptr(500),
		},
	}

	out, corrections := nz.Normalize(rec)
	assert.Equal(t, []float64{30, 45, 55}, out.Weather.MonthlyAvgTempsF)
	assert.True(t, out.Weather.HasMonthly)
	assert.False(t, out.Weather.HasBaseline)
	assert.NotEmpty(t, corrections)
}
