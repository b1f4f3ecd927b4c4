package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDegreeDays(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		hdd, cdd := DegreeDays(nil)
		assert.Zero(t, hdd)
		assert.Zero(t, cdd)
	})

	t.Run("balance point contributes nothing", func(t *testing.T) {
		hdd, cdd := DegreeDays([]float64{65, 65, 65})
		assert.Zero(t, hdd)
		assert.Zero(t, cdd)
	})

	t.Run("heating and cooling split", func(t *testing.T) {
		hdd, cdd := DegreeDays([]float64{55, 75})
		assert.InDelta(t, 10*meanDaysPerMonth, hdd, 1e-9)
		assert.InDelta(t, 10*meanDaysPerMonth, cdd, 1e-9)
	})

	t.Run("moderate climate year", func(t *testing.T) {
		temps := []float64{30, 35, 45, 55, 65, 75, 80, 78, 70, 58, 45, 33}
		hdd, cdd := DegreeDays(temps)
		assert.Greater(t, hdd, cdd)
		assert.Greater(t, cdd, 0.0)
	})
}

func TestWeatherAdjustment(t *testing.T) {
	temps := []float64{30, 35, 45, 55, 65, 75, 80, 78, 70, 58, 45, 33}
	hdd, cdd := DegreeDays(temps)

	tests := []struct {
		name string
		w    NormalizedWeather
		want float64
	}{
		{
			name: "no data is identity",
			w:    NormalizedWeather{},
			want: 1.0,
		},
		{
			name: "monthly without baseline is identity",
			w:    NormalizedWeather{MonthlyAvgTempsF: temps, HasMonthly: true},
			want: 1.0,
		},
		{
			name: "baseline matching observations is identity",
			w: NormalizedWeather{
				MonthlyAvgTempsF: temps, HasMonthly: true,
				BaselineHDD: hdd, BaselineCDD: cdd, HasBaseline: true,
			},
			want: 1.0,
		},
		{
			name: "much harsher year credits the home",
			w: NormalizedWeather{
				MonthlyAvgTempsF: temps, HasMonthly: true,
				BaselineHDD: hdd / 4, BaselineCDD: cdd / 4, HasBaseline: true,
			},
			want: minWeatherAdjust,
		},
		{
			name: "much milder year debits the home",
			w: NormalizedWeather{
				MonthlyAvgTempsF: temps, HasMonthly: true,
				BaselineHDD: hdd * 4, BaselineCDD: cdd * 4, HasBaseline: true,
			},
			want: maxWeatherAdjust,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, WeatherAdjustment(tt.w), 1e-9)
		})
	}
}

func TestWeatherAdjustment_PartialYearProrated(t *testing.T) {
	// Six months reported against a full-year baseline: the baseline is
	// halved before comparison, so a proportional half-baseline matches.
	temps := []float64{30, 35, 45, 55, 75, 80}
	hdd, cdd := DegreeDays(temps)

	w := NormalizedWeather{
		MonthlyAvgTempsF: temps, HasMonthly: true,
		BaselineHDD: hdd * 2, BaselineCDD: cdd * 2, HasBaseline: true,
	}
	assert.InDelta(t, 1.0, WeatherAdjustment(w), 1e-9)
}
