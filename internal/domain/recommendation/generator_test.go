package recommendation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wattwise/HomeAudit-Intelligence/internal/domain/analysis"
	domaudit "github.com/wattwise/HomeAudit-Intelligence/internal/domain/audit"
	audittypes "github.com/wattwise/HomeAudit-Intelligence/pkg/types/audit"
)

func testGenerator() *Generator {
	return NewGenerator(NewSeededEstimator(nil, 1), nil)
}

func healthyScores() []analysis.DomainScore {
	return []analysis.DomainScore{
		{Domain: analysis.DomainEnergy, Score: 85, Facts: analysis.Facts{}},
		{Domain: analysis.DomainHVAC, Score: 88, Facts: analysis.Facts{analysis.FactEfficiencyGap: 0.0}},
		{Domain: analysis.DomainLighting, Score: 92, Facts: analysis.Facts{analysis.FactIncandescentShare: 5.0}},
		{Domain: analysis.DomainHumidity, Score: 95, Facts: analysis.Facts{analysis.FactNeedsDehumidifier: false}},
	}
}

func healthyRecord() *domaudit.NormalizedAuditRecord {
	return &domaudit.NormalizedAuditRecord{
		SquareFootage: 1500,
		Envelope: domaudit.NormalizedEnvelope{
			Attic: domaudit.InsulationGood, Wall: domaudit.InsulationGood, Floor: domaudit.InsulationGood,
			WindowType: domaudit.WindowDouble, WindowCount: 12,
		},
		HVAC: domaudit.NormalizedHVAC{Kind: domaudit.KindFurnace, AgeYears: 5},
	}
}

func TestGenerate_HealthyHomeGetsMaintenance(t *testing.T) {
	g := testGenerator()

	recs := g.Generate(healthyRecord(), healthyScores())
	require.Len(t, recs, 1)
	assert.Equal(t, TypeMaintain, recs[0].Type)
	assert.Equal(t, audittypes.PriorityLow, recs[0].Priority)

	// The maintenance entry is costed like any other recommendation.
	assert.True(t, recs[0].IsEstimated)
	assert.Greater(t, recs[0].EstimatedSavings, 0.0)
	assert.Greater(t, recs[0].EstimatedCost, 0.0)
	assert.Greater(t, recs[0].PaybackYears, 0.0)
	assert.LessOrEqual(t, recs[0].PaybackYears, 30.0)
}

func TestGenerate_HVACTriggers(t *testing.T) {
	t.Run("low score", func(t *testing.T) {
		scores := healthyScores()
		scores[1].Score = 50
		recs := testGenerator().Generate(healthyRecord(), scores)
		require.NotEmpty(t, recs)
		assert.Equal(t, TypeHVACUpgrade, recs[0].Type)
		assert.Equal(t, audittypes.PriorityHigh, recs[0].Priority)
	})

	t.Run("large gap despite decent score", func(t *testing.T) {
		scores := healthyScores()
		scores[1].Facts[analysis.FactEfficiencyGap] = 12.0
		recs := testGenerator().Generate(healthyRecord(), scores)
		require.Len(t, recs, 1)
		assert.Equal(t, TypeHVACUpgrade, recs[0].Type)
		assert.Equal(t, audittypes.PriorityMedium, recs[0].Priority)
	})

	t.Run("old system mentioned in description", func(t *testing.T) {
		rec := healthyRecord()
		rec.HVAC.AgeYears = 22
		scores := healthyScores()
		scores[1].Score = 60
		recs := testGenerator().Generate(rec, scores)
		require.NotEmpty(t, recs)
		assert.Contains(t, recs[0].Description, "22 years old")
	})
}

func TestGenerate_EnvelopeTriggers(t *testing.T) {
	t.Run("poor attic insulation", func(t *testing.T) {
		rec := healthyRecord()
		rec.Envelope.Attic = domaudit.InsulationPoor
		scores := healthyScores()
		scores[0].Score = 62

		recs := testGenerator().Generate(rec, scores)
		require.Len(t, recs, 1)
		assert.Equal(t, TypeInsulation, recs[0].Type)
		assert.Equal(t, audittypes.PriorityHigh, recs[0].Priority)
		assert.Equal(t, "attic", recs[0].Scope)
	})

	t.Run("average walls widen scope to whole home", func(t *testing.T) {
		rec := healthyRecord()
		rec.Envelope.Wall = domaudit.InsulationAverage
		scores := healthyScores()
		scores[0].Score = 62

		recs := testGenerator().Generate(rec, scores)
		require.Len(t, recs, 1)
		assert.Equal(t, TypeInsulation, recs[0].Type)
		assert.Equal(t, audittypes.PriorityMedium, recs[0].Priority)
		assert.Equal(t, "whole home", recs[0].Scope)
	})

	t.Run("single pane windows", func(t *testing.T) {
		rec := healthyRecord()
		rec.Envelope.WindowType = domaudit.WindowSingle
		scores := healthyScores()
		scores[0].Score = 62

		recs := testGenerator().Generate(rec, scores)
		require.Len(t, recs, 1)
		assert.Equal(t, TypeWindows, recs[0].Type)
		assert.Contains(t, recs[0].Description, "12 single-pane windows")
	})

	t.Run("poor insulation fires even with a healthy energy score", func(t *testing.T) {
		rec := healthyRecord()
		rec.Envelope.Attic = domaudit.InsulationPoor
		rec.Envelope.Wall = domaudit.InsulationPoor
		rec.Envelope.Floor = domaudit.InsulationPoor

		recs := testGenerator().Generate(rec, healthyScores())
		require.Len(t, recs, 1)
		assert.Equal(t, TypeInsulation, recs[0].Type)
		assert.Equal(t, audittypes.PriorityHigh, recs[0].Priority)
	})

	t.Run("average insulation stays quiet while the score is healthy", func(t *testing.T) {
		rec := healthyRecord()
		rec.Envelope.Attic = domaudit.InsulationAverage

		recs := testGenerator().Generate(rec, healthyScores())
		require.Len(t, recs, 1)
		assert.Equal(t, TypeMaintain, recs[0].Type)
	})

	t.Run("single pane windows fire even with a healthy energy score", func(t *testing.T) {
		rec := healthyRecord()
		rec.Envelope.WindowType = domaudit.WindowSingle

		recs := testGenerator().Generate(rec, healthyScores())
		require.Len(t, recs, 1)
		assert.Equal(t, TypeWindows, recs[0].Type)
		assert.Equal(t, audittypes.PriorityMedium, recs[0].Priority)
	})

	t.Run("good envelope produces no envelope recs", func(t *testing.T) {
		scores := healthyScores()
		scores[0].Score = 62

		recs := testGenerator().Generate(healthyRecord(), scores)
		for _, r := range recs {
			assert.NotEqual(t, TypeInsulation, r.Type)
			assert.NotEqual(t, TypeWindows, r.Type)
		}
	})
}

func TestGenerate_LightingAndHumidityTriggers(t *testing.T) {
	t.Run("incandescent heavy mix", func(t *testing.T) {
		scores := healthyScores()
		scores[2].Facts[analysis.FactIncandescentShare] = 75.0
		scores[2].Facts[analysis.FactMixDescription] = "Mostly Incandescent Bulbs"

		recs := testGenerator().Generate(healthyRecord(), scores)
		require.Len(t, recs, 1)
		assert.Equal(t, TypeLightingUpgrade, recs[0].Type)
		assert.Equal(t, audittypes.PriorityHigh, recs[0].Priority)
		assert.Contains(t, recs[0].Description, "Mostly Incandescent Bulbs")
	})

	t.Run("dehumidifier needed", func(t *testing.T) {
		scores := healthyScores()
		scores[3].Facts[analysis.FactNeedsDehumidifier] = true
		scores[3].Facts[analysis.FactCurrentRH] = 72.0

		recs := testGenerator().Generate(healthyRecord(), scores)
		require.Len(t, recs, 1)
		assert.Equal(t, TypeDehumidifier, recs[0].Type)
		assert.Equal(t, audittypes.PriorityHigh, recs[0].Priority)
		assert.Equal(t, "basement", recs[0].Scope)
	})
}

func TestGenerate_FinancialFillIsAllOrNothing(t *testing.T) {
	scores := healthyScores()
	scores[0].Score = 55
	scores[1].Score = 50
	scores[2].Facts[analysis.FactIncandescentShare] = 80.0
	scores[3].Facts[analysis.FactNeedsDehumidifier] = true
	scores[3].Facts[analysis.FactCurrentRH] = 65.0

	rec := healthyRecord()
	rec.Envelope.Attic = domaudit.InsulationPoor
	rec.Envelope.WindowType = domaudit.WindowSingle

	recs := testGenerator().Generate(rec, scores)
	require.GreaterOrEqual(t, len(recs), 4)

	for _, r := range recs {
		require.True(t, r.IsEstimated, "type=%s", r.Type)
		assert.Greater(t, r.EstimatedSavings, 0.0, "type=%s", r.Type)
		assert.Greater(t, r.EstimatedCost, 0.0, "type=%s", r.Type)
		assert.Greater(t, r.PaybackYears, 0.0, "type=%s", r.Type)
	}
}

func TestGenerate_SortedByPriorityThenSavings(t *testing.T) {
	scores := healthyScores()
	scores[1].Score = 40 // high priority HVAC
	scores[2].Score = 65 // medium priority lighting
	scores[3].Facts[analysis.FactNeedsDehumidifier] = true
	scores[3].Facts[analysis.FactCurrentRH] = 63.0 // medium priority dehumidifier

	recs := testGenerator().Generate(healthyRecord(), scores)
	require.GreaterOrEqual(t, len(recs), 3)

	assert.Equal(t, audittypes.PriorityHigh, recs[0].Priority)
	for i := 1; i < len(recs); i++ {
		ri, rj := priorityRank[recs[i-1].Priority], priorityRank[recs[i].Priority]
		assert.LessOrEqual(t, ri, rj)
		if ri == rj {
			assert.GreaterOrEqual(t, recs[i-1].EstimatedSavings, recs[i].EstimatedSavings)
		}
	}
}

func TestGenerate_DeduplicatesByType(t *testing.T) {
	scores := healthyScores()
	scores[0].Score = 50
	scores[1].Score = 50

	rec := healthyRecord()
	rec.Envelope.Attic = domaudit.InsulationPoor
	rec.Envelope.Floor = domaudit.InsulationPoor

	recs := testGenerator().Generate(rec, scores)
	seen := map[string]bool{}
	for _, r := range recs {
		assert.False(t, seen[r.Type], "duplicate type %s", r.Type)
		seen[r.Type] = true
	}
}

func TestGenerate_MissingDomainScoresStillProduceOutput(t *testing.T) {
	recs := testGenerator().Generate(healthyRecord(), nil)
	assert.NotEmpty(t, recs)
}

func TestMatcher(t *testing.T) {
	t.Run("static catalog attaches products", func(t *testing.T) {
		m := NewMatcher(nil, nil)
		recs := []audittypes.Recommendation{
			{Type: TypeHVACUpgrade},
			{Type: TypeMaintain},
		}
		m.Match(context.Background(), recs)

		require.NotEmpty(t, recs[0].Products)
		assert.LessOrEqual(t, len(recs[0].Products), MaxProductsPerRecommendation)
		assert.Empty(t, recs[1].Products, "maintenance never gets products")
	})

	t.Run("failing catalog falls back to built-in", func(t *testing.T) {
		m := NewMatcher(failingCatalog{}, nil)
		recs := []audittypes.Recommendation{{Type: TypeLightingUpgrade}}
		m.Match(context.Background(), recs)
		assert.NotEmpty(t, recs[0].Products)
	})

	t.Run("matching never touches financials", func(t *testing.T) {
		m := NewMatcher(nil, nil)
		recs := []audittypes.Recommendation{{
			Type: TypeWindows, Priority: audittypes.PriorityMedium,
			EstimatedSavings: 180, EstimatedCost: 9000, PaybackYears: 30, IsEstimated: true,
		}}
		m.Match(context.Background(), recs)
		assert.Equal(t, 180.0, recs[0].EstimatedSavings)
		assert.Equal(t, 9000.0, recs[0].EstimatedCost)
		assert.Equal(t, 30.0, recs[0].PaybackYears)
	})

	t.Run("unknown type yields no products", func(t *testing.T) {
		m := NewMatcher(nil, nil)
		recs := []audittypes.Recommendation{{Type: "Seal Ductwork"}}
		m.Match(context.Background(), recs)
		assert.Empty(t, recs[0].Products)
	})
}

type failingCatalog struct{}

func (failingCatalog) ProductsFor(context.Context, string, int) ([]audittypes.Product, error) {
	return nil, assert.AnError
}
