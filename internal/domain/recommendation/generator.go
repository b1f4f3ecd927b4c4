package recommendation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wattwise/HomeAudit-Intelligence/internal/domain/analysis"
	domaudit "github.com/wattwise/HomeAudit-Intelligence/internal/domain/audit"
	"github.com/wattwise/HomeAudit-Intelligence/internal/infrastructure/monitoring/logging"
	audittypes "github.com/wattwise/HomeAudit-Intelligence/pkg/types/audit"
)

// A domain scoring below this threshold needs improvement and triggers
// recommendation candidates.
const needsImprovementScore = 70.0

// Secondary triggers that fire regardless of the domain score.
const (
	hvacGapTrigger       = 10.0 // efficiency points behind target
	hvacGapUrgent        = 20.0
	hvacScoreUrgent      = 55.0
	incandescentTrigger  = 40.0 // percent of the bulb mix
	incandescentDominant = 70.0
	energyScoreUrgent    = 55.0
	humidityUrgentRH     = 70.0
)

var priorityRank = map[audittypes.Priority]int{
	audittypes.PriorityHigh:   0,
	audittypes.PriorityMedium: 1,
	audittypes.PriorityLow:    2,
}

// Generator derives the recommendation list for an audit from the domain
// scores and their published facts.  Output is deterministic for a fixed
// estimator seed: candidates are produced in a fixed order, deduplicated by
// type, costed, then sorted by priority and savings.
type Generator struct {
	log       logging.Logger
	estimator *Estimator
}

// NewGenerator constructs a Generator.
func NewGenerator(estimator *Estimator, log logging.Logger) *Generator {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Generator{log: log, estimator: estimator}
}

type candidate struct {
	recType     string
	description string
	priority    audittypes.Priority
	scope       string
}

// Generate produces the final recommendation list.  It always returns at
// least one entry: when nothing needs improvement, a maintenance
// recommendation stands in, costed like any other so every entry carries a
// complete financial estimate.
func (g *Generator) Generate(rec *domaudit.NormalizedAuditRecord, scores []analysis.DomainScore) []audittypes.Recommendation {
	byDomain := make(map[string]analysis.DomainScore, len(scores))
	for _, ds := range scores {
		byDomain[ds.Domain] = ds
	}
	for domain := range analysis.DomainWeights {
		if _, ok := byDomain[domain]; !ok {
			byDomain[domain] = analysis.FallbackScore(domain)
		}
	}

	var candidates []candidate
	candidates = append(candidates, g.hvacCandidates(rec, byDomain[analysis.DomainHVAC])...)
	candidates = append(candidates, g.envelopeCandidates(rec, byDomain[analysis.DomainEnergy])...)
	candidates = append(candidates, g.lightingCandidates(byDomain[analysis.DomainLighting])...)
	candidates = append(candidates, g.humidityCandidates(byDomain[analysis.DomainHumidity])...)

	// Dedup by type, first candidate wins.
	seen := make(map[string]bool, len(candidates))
	out := make([]audittypes.Recommendation, 0, len(candidates))
	for _, c := range candidates {
		if seen[c.recType] {
			continue
		}
		seen[c.recType] = true

		savings, cost, payback := g.estimator.Estimate(c.recType, c.scope, rec.SquareFootage)
		out = append(out, audittypes.Recommendation{
			Type:             c.recType,
			Description:      c.description,
			Priority:         c.priority,
			Scope:            c.scope,
			EstimatedSavings: savings,
			EstimatedCost:    cost,
			PaybackYears:     payback,
			IsEstimated:      true,
		})
	}

	if len(out) == 0 {
		savings, cost, payback := g.estimator.Estimate(TypeMaintain, "whole home", rec.SquareFootage)
		out = append(out, audittypes.Recommendation{
			Type:             TypeMaintain,
			Description:      "All systems are performing well. Continue regular maintenance and seasonal tune-ups.",
			Priority:         audittypes.PriorityLow,
			Scope:            "whole home",
			EstimatedSavings: savings,
			EstimatedCost:    cost,
			PaybackYears:     payback,
			IsEstimated:      true,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := priorityRank[out[i].Priority], priorityRank[out[j].Priority]
		if ri != rj {
			return ri < rj
		}
		return out[i].EstimatedSavings > out[j].EstimatedSavings
	})

	g.log.Debug("recommendations generated", logging.Int("count", len(out)))
	return out
}

func (g *Generator) hvacCandidates(rec *domaudit.NormalizedAuditRecord, ds analysis.DomainScore) []candidate {
	gap := ds.Facts.Float(analysis.FactEfficiencyGap, 0)
	if ds.Score >= needsImprovementScore && gap < hvacGapTrigger {
		return nil
	}

	priority := audittypes.PriorityMedium
	if ds.Score < hvacScoreUrgent || gap >= hvacGapUrgent {
		priority = audittypes.PriorityHigh
	}

	system := "HVAC system"
	if rec.HVAC.Kind != domaudit.KindUnknown {
		system = strings.ReplaceAll(string(rec.HVAC.Kind), "-", " ")
	}
	desc := fmt.Sprintf("Replace the existing %s with a high-efficiency unit to close the gap to the target rating.", system)
	if rec.HVAC.AgeYears >= 15 {
		desc = fmt.Sprintf("The %s is %.0f years old and past its efficient service life. Replace it with a high-efficiency unit.",
			system, rec.HVAC.AgeYears)
	}

	return []candidate{{
		recType:     TypeHVACUpgrade,
		description: desc,
		priority:    priority,
		scope:       "whole home",
	}}
}

func (g *Generator) envelopeCandidates(rec *domaudit.NormalizedAuditRecord, ds analysis.DomainScore) []candidate {
	var out []candidate

	env := rec.Envelope
	poor := env.Attic == domaudit.InsulationPoor || env.Wall == domaudit.InsulationPoor || env.Floor == domaudit.InsulationPoor
	weak := func(r domaudit.InsulationRating) bool {
		return r == domaudit.InsulationPoor || r == domaudit.InsulationAverage
	}
	// A poor surface is a deficiency in its own right and fires regardless
	// of the domain score; average surfaces only matter once the energy
	// score needs improvement.
	if poor || (ds.Score < needsImprovementScore && (weak(env.Attic) || weak(env.Wall) || weak(env.Floor))) {
		priority := audittypes.PriorityMedium
		if poor {
			priority = audittypes.PriorityHigh
		}
		out = append(out, candidate{
			recType:     TypeInsulation,
			description: "Air-seal and bring insulation up to current recommended R-values to cut heating and cooling losses.",
			priority:    priority,
			scope:       insulationScope(env),
		})
	}

	if env.WindowType == domaudit.WindowSingle {
		priority := audittypes.PriorityMedium
		if ds.Score < energyScoreUrgent {
			priority = audittypes.PriorityHigh
		}
		out = append(out, candidate{
			recType:     TypeWindows,
			description: fmt.Sprintf("Replace %d single-pane windows with insulated double-pane units.", env.WindowCount),
			priority:    priority,
			scope:       "whole home",
		})
	}

	return out
}

// insulationScope names the surfaces that need work.  Wall insulation cannot
// be scoped to a room, so it widens the scope to the whole home.
func insulationScope(env domaudit.NormalizedEnvelope) string {
	if env.Wall == domaudit.InsulationPoor || env.Wall == domaudit.InsulationAverage {
		return "whole home"
	}
	var parts []string
	if env.Attic == domaudit.InsulationPoor || env.Attic == domaudit.InsulationAverage {
		parts = append(parts, "attic")
	}
	if env.Floor == domaudit.InsulationPoor || env.Floor == domaudit.InsulationAverage {
		parts = append(parts, "basement")
	}
	if len(parts) == 0 {
		return "whole home"
	}
	return strings.Join(parts, " and ")
}

func (g *Generator) lightingCandidates(ds analysis.DomainScore) []candidate {
	inc := ds.Facts.Float(analysis.FactIncandescentShare, 0)
	if ds.Score >= needsImprovementScore && inc < incandescentTrigger {
		return nil
	}

	priority := audittypes.PriorityMedium
	if inc >= incandescentDominant {
		priority = audittypes.PriorityHigh
	}

	desc := "Replace remaining incandescent and CFL bulbs with LED equivalents."
	if mix := ds.Facts.String(analysis.FactMixDescription); mix != "" {
		desc = fmt.Sprintf("Current lighting: %s. Replace remaining incandescent and CFL bulbs with LED equivalents.", mix)
	}

	return []candidate{{
		recType:     TypeLightingUpgrade,
		description: desc,
		priority:    priority,
		scope:       "whole home",
	}}
}

func (g *Generator) humidityCandidates(ds analysis.DomainScore) []candidate {
	if !ds.Facts.Bool(analysis.FactNeedsDehumidifier) {
		return nil
	}

	rh := ds.Facts.Float(analysis.FactCurrentRH, 0)
	priority := audittypes.PriorityMedium
	if rh > humidityUrgentRH {
		priority = audittypes.PriorityHigh
	}

	return []candidate{{
		recType:     TypeDehumidifier,
		description: fmt.Sprintf("Indoor humidity is %.0f%% RH, above the recommended 30-50%% band. Install dehumidification to protect air quality and the building envelope.", rh),
		priority:    priority,
		scope:       "basement",
	}}
}
