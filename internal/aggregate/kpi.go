package aggregate

import (
	"strings"
	"time"

	"github.com/autoseat/claimlens/internal/model"
)

// ignoredKeywords are filler words excluded from the defect keyword ranking
var ignoredKeywords = map[string]bool{
	"the": true, "and": true, "not": true, "on": true, "in": true,
	"is": true, "a": true, "to": true, "of": true, "for": true,
	"it": true, "working": true, "side": true, "when": true,
	"from": true, "but": true, "no": true,
}

// CalculateKPIs computes the headline metrics over the (already filtered)
// collection
func CalculateKPIs(claims []model.CleanedClaim) model.KPI {
	kpi := model.KPI{TotalClaims: len(claims)}

	for _, c := range claims {
		kpi.TotalCost += c.Cost
		if c.Severity == model.SeverityHigh {
			kpi.HighSeverityCount++
		}
	}
	if kpi.TotalClaims > 0 {
		kpi.AvgCostPerClaim = kpi.TotalCost / float64(kpi.TotalClaims)
		kpi.HighSeverityRatio = float64(kpi.HighSeverityCount) / float64(kpi.TotalClaims) * 100
	}

	kpi.TopDefect = topDefectKeyword(claims)
	kpi.MoMGrowth = momGrowth(claims)
	return kpi
}

// topDefectKeyword picks the most frequent description word longer than
// three characters, ignoring stopwords. Ties resolve to the word seen
// first, keeping the result deterministic.
func topDefectKeyword(claims []model.CleanedClaim) string {
	counts := make(map[string]int)
	var order []string
	for _, c := range claims {
		for _, word := range strings.Fields(strings.ToLower(c.Description)) {
			if len([]rune(word)) <= 3 || ignoredKeywords[word] {
				continue
			}
			if counts[word] == 0 {
				order = append(order, word)
			}
			counts[word]++
		}
	}

	top := "N/A"
	max := 0
	for _, word := range order {
		if counts[word] > max {
			max = counts[word]
			top = word
		}
	}
	return top
}

// momGrowth compares the trailing 30 days against the preceding 30-day
// window, both anchored at the latest claim date
func momGrowth(claims []model.CleanedClaim) float64 {
	var maxDate time.Time
	found := false
	for _, c := range claims {
		if t, ok := parseDay(c.Date); ok {
			if !found || t.After(maxDate) {
				maxDate = t
				found = true
			}
		}
	}
	if !found {
		return 0
	}

	last30Start := maxDate.AddDate(0, 0, -29)
	prev30Start := last30Start.AddDate(0, 0, -30)

	last30, prev30 := 0, 0
	for _, c := range claims {
		t, ok := parseDay(c.Date)
		if !ok {
			continue
		}
		switch {
		case !t.Before(last30Start) && !t.After(maxDate):
			last30++
		case !t.Before(prev30Start) && t.Before(last30Start):
			prev30++
		}
	}

	switch {
	case prev30 > 0:
		return float64(last30-prev30) / float64(prev30) * 100
	case last30 > 0:
		return 100
	default:
		return 0
	}
}
