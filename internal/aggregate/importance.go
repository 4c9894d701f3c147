package aggregate

import (
	"sort"
	"time"

	"github.com/autoseat/claimlens/internal/model"
)

// ImportanceWeights is the transparent scoring table behind the importance
// ranking. Every bonus is additive and the whole breakdown is explainable
// from this table alone.
type ImportanceWeights struct {
	Severity map[model.Severity]float64

	CostNormalizer float64
	CostMaxBonus   float64

	HotDays     int
	HotBonus    float64
	RecentDays  int
	RecentBonus float64

	MediumGrowthThreshold float64
	MediumGrowthBonus     float64
	HighGrowthThreshold   float64
	HighGrowthBonus       float64
	NewIssueBonus         float64

	SpikeMultiplier    float64
	SpikeBonus         float64
	EmergingSpikeBonus float64

	SafetyFlagBonus float64
	RepeatFlagBonus float64
}

// DefaultImportanceWeights returns the standard scoring table
func DefaultImportanceWeights() ImportanceWeights {
	return ImportanceWeights{
		Severity: map[model.Severity]float64{
			model.SeverityHigh:   6,
			model.SeverityMedium: 3,
			model.SeverityLow:    1,
		},
		CostNormalizer:        200,
		CostMaxBonus:          4,
		HotDays:               30,
		HotBonus:              4,
		RecentDays:            90,
		RecentBonus:           2,
		MediumGrowthThreshold: 20,
		MediumGrowthBonus:     2,
		HighGrowthThreshold:   50,
		HighGrowthBonus:       4,
		NewIssueBonus:         3,
		SpikeMultiplier:       1.6,
		SpikeBonus:            2,
		EmergingSpikeBonus:    1,
		SafetyFlagBonus:       5,
		RepeatFlagBonus:       3,
	}
}

// phenomenonTrend accumulates per-label counts and costs for the recent and
// previous 90-day windows, both anchored at the latest claim date
type phenomenonTrend struct {
	recentCount   int
	previousCount int
	recentCost    float64
	previousCost  float64
}

// selectImportantClaims ranks the collection by weighted score and returns
// the top five. Ties break by higher cost, then more recent date.
func selectImportantClaims(claims []model.CleanedClaim) []model.ImportantClaim {
	if len(claims) == 0 {
		return []model.ImportantClaim{}
	}
	w := DefaultImportanceWeights()

	var reference time.Time
	found := false
	for _, c := range claims {
		if t, ok := parseDay(c.Date); ok {
			if !found || t.After(reference) {
				reference = t
				found = true
			}
		}
	}
	if !found {
		reference = time.Now().UTC()
	}

	recentStart := reference.AddDate(0, 0, -w.RecentDays)
	previousStart := recentStart.AddDate(0, 0, -w.RecentDays)
	hotStart := reference.AddDate(0, 0, -w.HotDays)

	trends := make(map[string]*phenomenonTrend)
	trendFor := func(label string) *phenomenonTrend {
		t := trends[label]
		if t == nil {
			t = &phenomenonTrend{}
			trends[label] = t
		}
		return t
	}

	for _, c := range claims {
		t, ok := parseDay(c.Date)
		if !ok {
			continue
		}
		stats := trendFor(c.PhenomenonLabel())
		switch {
		case !t.Before(recentStart):
			stats.recentCount++
			stats.recentCost += c.Cost
		case !t.Before(previousStart) && t.Before(recentStart):
			stats.previousCount++
			stats.previousCost += c.Cost
		}
	}

	type scored struct {
		claim model.CleanedClaim
		score float64
	}
	ranked := make([]scored, 0, len(claims))

	for _, c := range claims {
		stats := trendFor(c.PhenomenonLabel())

		severity := c.Severity
		if !model.ValidSeverity(severity) {
			severity = model.SeverityLow
		}
		score := w.Severity[severity]

		costBonus := c.Cost / w.CostNormalizer
		if costBonus > w.CostMaxBonus {
			costBonus = w.CostMaxBonus
		}
		score += costBonus

		if t, ok := parseDay(c.Date); ok {
			switch {
			case !t.Before(hotStart):
				score += w.HotBonus
			case !t.Before(recentStart):
				score += w.RecentBonus
			}
		}

		// Trend bonus: newly appearing phenomena, then growth thresholds
		// (higher threshold wins, mutually exclusive)
		if stats.previousCount == 0 && stats.recentCount > 0 {
			score += w.NewIssueBonus
		} else if stats.previousCount > 0 {
			growth := float64(stats.recentCount-stats.previousCount) / float64(stats.previousCount) * 100
			switch {
			case growth >= w.HighGrowthThreshold:
				score += w.HighGrowthBonus
			case growth >= w.MediumGrowthThreshold:
				score += w.MediumGrowthBonus
			}
		}

		prevAvg := 0.0
		if stats.previousCount > 0 {
			prevAvg = stats.previousCost / float64(stats.previousCount)
		}
		recentAvg := 0.0
		if stats.recentCount > 0 {
			recentAvg = stats.recentCost / float64(stats.recentCount)
		}
		if prevAvg > 0 && recentAvg >= prevAvg*w.SpikeMultiplier {
			score += w.SpikeBonus
		} else if prevAvg == 0 && recentAvg > 0 && stats.recentCount >= 3 {
			score += w.EmergingSpikeBonus
		}

		if c.HasFlag(model.FlagSafetyRisk) {
			score += w.SafetyFlagBonus
		}
		if c.HasFlag(model.FlagRepeatRepair) {
			score += w.RepeatFlagBonus
		}

		ranked = append(ranked, scored{claim: c, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		if ranked[i].claim.Cost != ranked[j].claim.Cost {
			return ranked[i].claim.Cost > ranked[j].claim.Cost
		}
		return ranked[i].claim.Date > ranked[j].claim.Date
	})

	limit := 5
	if len(ranked) < limit {
		limit = len(ranked)
	}
	out := make([]model.ImportantClaim, 0, limit)
	for _, entry := range ranked[:limit] {
		out = append(out, model.ImportantClaim{
			ID:          entry.claim.ID,
			Date:        entry.claim.Date,
			Model:       entry.claim.Model,
			Description: entry.claim.Description,
			Phenomenon:  entry.claim.Phenomenon,
			Severity:    entry.claim.Severity,
			Cost:        entry.claim.Cost,
		})
	}
	return out
}
