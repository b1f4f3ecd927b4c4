package audit

// Degree-day computation for weather normalization.  Heating and cooling
// degree days are computed against the conventional 65°F balance point from
// monthly average temperatures, each month weighted by the mean month length.

const (
	// BalancePointF is the standard base temperature for HDD/CDD.
	BalancePointF = 65.0

	meanDaysPerMonth = 30.44

	// Weather adjustment is bounded so an unusual climate year can shift an
	// energy ratio by at most 20% in either direction.
	minWeatherAdjust = 0.8
	maxWeatherAdjust = 1.2
)

// DegreeDays computes heating and cooling degree days from monthly average
// temperatures.  Each month contributes max(0, 65-t) heating and max(0, t-65)
// cooling degrees per day, scaled by the mean month length.  Fewer than 12
// months yields a partial-year total; callers compare against a baseline
// covering the same span.
func DegreeDays(monthlyAvgTempsF []float64) (hdd, cdd float64) {
	for _, t := range monthlyAvgTempsF {
		if t < BalancePointF {
			hdd += (BalancePointF - t) * meanDaysPerMonth
		} else {
			cdd += (t - BalancePointF) * meanDaysPerMonth
		}
	}
	return hdd, cdd
}

// WeatherAdjustment returns the multiplier applied to observed consumption to
// express it under baseline climate conditions.  A harsher-than-baseline year
// (more total degree days) yields a factor below 1, crediting the home for
// weather it could not control.  Without both monthly temperatures and a
// baseline the factor is the identity 1.0.
func WeatherAdjustment(w NormalizedWeather) float64 {
	if !w.HasMonthly || !w.HasBaseline {
		return 1.0
	}

	hdd, cdd := DegreeDays(w.MonthlyAvgTempsF)
	observed := hdd + cdd
	baseline := w.BaselineHDD + w.BaselineCDD
	if observed <= 0 || baseline <= 0 {
		return 1.0
	}

	// Pro-rate the baseline when fewer than 12 months were reported.
	baseline *= float64(len(w.MonthlyAvgTempsF)) / 12.0

	factor := baseline / observed
	if factor < minWeatherAdjust {
		return minWeatherAdjust
	}
	if factor > maxWeatherAdjust {
		return maxWeatherAdjust
	}
	return factor
}
