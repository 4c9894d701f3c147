// Package improve measures the effect of remediation actions by comparing
// claim volume and cost in equal windows before and after each action's
// start date.
package improve

import (
	"time"

	"github.com/autoseat/claimlens/internal/model"
)

// DefaultWindowDays is the evaluation window applied when an action does
// not specify one
const DefaultWindowDays = 30

// CalculateMetrics computes before/after deltas for every action. Actions
// without a start date are skipped. The before window is [start-w, start)
// and the after window [start, start+w], both by ISO date comparison.
func CalculateMetrics(claims []model.CleanedClaim, actions []model.ImprovementAction) map[string]model.ImprovementMetrics {
	metrics := make(map[string]model.ImprovementMetrics, len(actions))

	for _, action := range actions {
		if action.StartDate == "" {
			continue
		}
		windowDays := action.EvaluationWindowDays
		if windowDays <= 0 {
			windowDays = DefaultWindowDays
		}
		beforeStart := shiftDate(action.StartDate, -windowDays)
		afterEnd := shiftDate(action.StartDate, windowDays)

		target := action.Phenomenon
		if target == "" {
			target = model.UnclassifiedLabel
		}

		m := model.ImprovementMetrics{ActionID: action.ID}
		for _, claim := range claims {
			if claim.PhenomenonLabel() != target {
				continue
			}
			switch {
			case claim.Date >= beforeStart && claim.Date < action.StartDate:
				m.BeforeCount++
				m.BeforeCost += claim.Cost
			case claim.Date >= action.StartDate && claim.Date <= afterEnd:
				m.AfterCount++
				m.AfterCost += claim.Cost
			}
		}
		m.DeltaCount = m.AfterCount - m.BeforeCount
		m.DeltaCost = m.AfterCost - m.BeforeCost
		metrics[action.ID] = m
	}

	return metrics
}

// shiftDate moves an ISO date by the given number of days; unparsable input
// is returned unchanged
func shiftDate(isoDate string, days int) string {
	t, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return isoDate
	}
	return t.AddDate(0, 0, days).Format("2006-01-02")
}
