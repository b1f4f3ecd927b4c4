// Package recommendation turns analysis findings into ranked, costed
// improvement suggestions and matches catalog products to them.
package recommendation

import (
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/wattwise/HomeAudit-Intelligence/internal/infrastructure/monitoring/logging"
)

// Recommendation type names.  These are stable display strings, used as
// dedup keys and catalog match keys.
const (
	TypeHVACUpgrade     = "HVAC System Upgrade"
	TypeLightingUpgrade = "Lighting System Upgrade"
	TypeInsulation      = "Upgrade Insulation"
	TypeWindows         = "Replace Windows"
	TypeDehumidifier    = "Install Dehumidification System"
	TypeMaintain        = "Maintain Current Performance"
)

// costModel parameterizes the linear cost curve of one recommendation type:
// a fixed base plus a per-square-foot component, for both annual savings and
// installed cost (USD).
type costModel struct {
	baseSavings    float64
	perSqFtSavings float64
	baseCost       float64
	perSqFtCost    float64
}

var costModels = map[string]costModel{
	TypeHVACUpgrade:     {baseSavings: 350, perSqFtSavings: 0.15, baseCost: 5000, perSqFtCost: 2.5},
	TypeLightingUpgrade: {baseSavings: 120, perSqFtSavings: 0.05, baseCost: 300, perSqFtCost: 0.30},
	TypeInsulation:      {baseSavings: 200, perSqFtSavings: 0.10, baseCost: 1800, perSqFtCost: 1.2},
	TypeWindows:         {baseSavings: 150, perSqFtSavings: 0.08, baseCost: 4500, perSqFtCost: 3.0},
	TypeDehumidifier:    {baseSavings: 80, perSqFtSavings: 0.02, baseCost: 1200, perSqFtCost: 0.4},
	TypeMaintain:        {baseSavings: 40, perSqFtSavings: 0.01, baseCost: 150, perSqFtCost: 0.05},
}

// genericCostModel covers recommendation types without a dedicated model.
var genericCostModel = costModel{baseSavings: 100, perSqFtSavings: 0.05, baseCost: 1000, perSqFtCost: 0.5}

const (
	jitterSpread = 0.10 // estimates vary ±10% run to run

	// Payback handling: savings at or below zero cannot produce a
	// meaningful ratio, so a fixed ceiling stands in; any computed payback
	// is capped at the hard maximum.
	paybackCeilingYears = 10.0
	paybackMaxYears     = 30.0
)

// Room keywords recognized in a recommendation scope.  Each distinct keyword
// found counts as one affected area.
var roomKeywords = []string{
	"bedroom", "bathroom", "kitchen", "living", "dining",
	"basement", "attic", "garage", "office", "den", "hallway",
}

// wholeHomeMarkers force a full-scope estimate regardless of room keywords.
// "all" is matched as a whole word so scopes like "hallway" do not trigger it.
var wholeHomeMarkers = []string{"whole home", "whole house", "entire"}

// Estimator produces dollar figures for a recommendation.  Estimates are
// intentionally coarse: a linear model per type, scaled to the affected share
// of the home, with a small random spread so repeated audits do not imply
// false precision.
type Estimator struct {
	log logging.Logger
	rng *rand.Rand
}

// NewEstimator constructs an Estimator with a time-seeded spread.
func NewEstimator(log logging.Logger) *Estimator {
	return NewSeededEstimator(log, time.Now().UnixNano())
}

// NewSeededEstimator constructs an Estimator with a fixed seed, for
// reproducible estimates.
func NewSeededEstimator(log logging.Logger, seed int64) *Estimator {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Estimator{log: log, rng: rand.New(rand.NewSource(seed))}
}

// Estimate returns annual savings, installed cost (both whole USD) and the
// simple payback period in years (one decimal) for a recommendation of the
// given type and scope on a home of the given size.
func (e *Estimator) Estimate(recType, scope string, sqft float64) (savings, cost, payback float64) {
	model, ok := costModels[recType]
	if !ok {
		model = genericCostModel
		e.log.Debug("no cost model for recommendation type, using generic",
			logging.String("type", recType))
	}

	factor := scopeFactor(scope, sqft)

	savings = (model.baseSavings + model.perSqFtSavings*sqft) * factor * e.jitter()
	cost = (model.baseCost + model.perSqFtCost*sqft) * factor * e.jitter()
	savings = math.Round(savings)
	cost = math.Round(cost)

	if savings <= 0 {
		return savings, cost, paybackCeilingYears
	}
	payback = math.Round(cost/savings*10) / 10
	if payback > paybackMaxYears {
		payback = paybackMaxYears
	}
	return savings, cost, payback
}

func (e *Estimator) jitter() float64 {
	return 1 + (e.rng.Float64()*2-1)*jitterSpread
}

// scopeFactor maps a free-text scope onto (0, 1]: the share of the home a
// recommendation touches.  Whole-home markers and unrecognized scopes yield
// the full factor; otherwise each distinct room keyword counts against a
// size-dependent room divisor.
func scopeFactor(scope string, sqft float64) float64 {
	s := strings.ToLower(scope)
	for _, marker := range wholeHomeMarkers {
		if strings.Contains(s, marker) {
			return 1.0
		}
	}
	for _, word := range strings.Fields(s) {
		if word == "all" {
			return 1.0
		}
	}

	rooms := 0
	for _, kw := range roomKeywords {
		if strings.Contains(s, kw) {
			rooms++
		}
	}
	if rooms == 0 {
		return 1.0
	}

	var divisor float64
	switch {
	case sqft < 1000:
		divisor = 3
	case sqft < 2500:
		divisor = 5
	default:
		divisor = 8
	}

	factor := float64(rooms) / divisor
	if factor > 1 {
		return 1.0
	}
	return factor
}
