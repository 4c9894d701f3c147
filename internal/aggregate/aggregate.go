package aggregate

import (
	"sort"
	"strings"

	"github.com/autoseat/claimlens/internal/model"
)

// monthBucket accumulates one calendar month of claims, with a per-phenomenon
// sub-bucket for spike detection
type monthBucket struct {
	count      int
	cost       float64
	phenomenon map[string]*labelBucket
}

type labelBucket struct {
	count int
	cost  float64
}

// Aggregate computes every derived view over the collection in one pass
// over the data plus per-view post-processing
func Aggregate(claims []model.CleanedClaim) model.AggregatedData {
	data := model.AggregatedData{
		ImportantClaims: []model.ImportantClaim{},
		ForecastTrend:   []model.ForecastPoint{},
	}

	dailyCounts := make(map[string]int)
	modelCounts := make(map[string]int)
	var modelOrder []string
	phenomenon := make(map[string]*labelBucket)
	cause := make(map[string]*labelBucket)
	contamination := make(map[string]*labelBucket)
	severity := map[model.Severity]int{
		model.SeverityHigh:   0,
		model.SeverityMedium: 0,
		model.SeverityLow:    0,
	}
	months := make(map[string]*monthBucket)

	bump := func(m map[string]*labelBucket, label string, cost float64) {
		b := m[label]
		if b == nil {
			b = &labelBucket{}
			m[label] = b
		}
		b.count++
		b.cost += cost
	}

	for _, c := range claims {
		dailyCounts[c.Date]++

		if modelCounts[c.Model] == 0 {
			modelOrder = append(modelOrder, c.Model)
		}
		modelCounts[c.Model]++

		bump(phenomenon, c.PhenomenonLabel(), c.Cost)
		bump(cause, c.CauseLabel(), c.Cost)
		bump(contamination, c.ContaminationLabel(), c.Cost)

		if model.ValidSeverity(c.Severity) {
			severity[c.Severity]++
		}

		key := monthKey(c.Date)
		mb := months[key]
		if mb == nil {
			mb = &monthBucket{phenomenon: make(map[string]*labelBucket)}
			months[key] = mb
		}
		mb.count++
		mb.cost += c.Cost
		bump(mb.phenomenon, c.PhenomenonLabel(), c.Cost)
	}

	// Daily trend, date ascending
	for date, count := range dailyCounts {
		data.DailyTrend = append(data.DailyTrend, model.DailyPoint{Date: date, Count: count})
	}
	sort.Slice(data.DailyTrend, func(i, j int) bool {
		return data.DailyTrend[i].Date < data.DailyTrend[j].Date
	})

	// Model Pareto, count descending, first-seen order on ties
	for _, name := range modelOrder {
		data.ModelPareto = append(data.ModelPareto, model.ModelCount{Name: name, Count: modelCounts[name]})
	}
	sort.SliceStable(data.ModelPareto, func(i, j int) bool {
		return data.ModelPareto[i].Count > data.ModelPareto[j].Count
	})

	data.DefectKeywords = defectKeywords(claims)

	data.PhenomenonSummary = buildBreakdown(phenomenon)
	data.CauseSummary = buildBreakdown(cause)
	data.ContaminationSummary = buildBreakdown(contamination)

	for _, level := range []model.Severity{model.SeverityHigh, model.SeverityMedium, model.SeverityLow} {
		data.SeveritySummary = append(data.SeveritySummary, model.SeverityCount{
			Severity: level,
			Count:    severity[level],
		})
	}

	monthKeys := make([]string, 0, len(months))
	for key := range months {
		monthKeys = append(monthKeys, key)
	}
	sort.Strings(monthKeys)
	for _, key := range monthKeys {
		mb := months[key]
		data.MonthlyTrend = append(data.MonthlyTrend, model.MonthlyPoint{
			Period: key,
			Claims: mb.count,
			Cost:   mb.cost,
		})
	}

	data.TrendInsight = trendInsight(monthKeys, months)
	data.CostSpike = detectCostSpike(monthKeys, months)
	data.ImportantClaims = selectImportantClaims(claims)
	data.ForecastTrend = buildForecast(monthKeys, months)

	return data
}

// defectKeywords ranks description words by frequency, top 10
func defectKeywords(claims []model.CleanedClaim) []model.KeywordCount {
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

	ranked := make([]model.KeywordCount, 0, len(order))
	for _, word := range order {
		ranked = append(ranked, model.KeywordCount{Keyword: word, Count: counts[word]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > 10 {
		ranked = ranked[:10]
	}
	return ranked
}

// buildBreakdown turns a label bucket map into a Pareto table sorted by
// cost descending
func buildBreakdown(buckets map[string]*labelBucket) []model.Breakdown {
	labels := make([]string, 0, len(buckets))
	for label := range buckets {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	out := make([]model.Breakdown, 0, len(labels))
	for _, label := range labels {
		b := buckets[label]
		out = append(out, model.Breakdown{Label: label, Count: b.count, Cost: b.cost})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Cost > out[j].Cost
	})
	return out
}

// trendInsight compares the three most recent calendar months against the
// three before that
func trendInsight(monthKeys []string, months map[string]*monthBucket) *model.TrendInsight {
	if len(monthKeys) == 0 {
		return nil
	}

	recentKeys := tail(monthKeys, 3)
	previousKeys := window(monthKeys, len(monthKeys)-6, len(monthKeys)-3)

	recentCount := 0
	for _, key := range recentKeys {
		recentCount += months[key].count
	}
	previousCount := 0
	for _, key := range previousKeys {
		previousCount += months[key].count
	}

	growth := 0.0
	switch {
	case previousCount > 0:
		growth = float64(recentCount-previousCount) / float64(previousCount) * 100
	case recentCount > 0:
		growth = 100
	}

	insight := &model.TrendInsight{
		RecentCount:   recentCount,
		PreviousCount: previousCount,
		GrowthPercent: growth,
	}
	if len(recentKeys) > 0 {
		insight.RecentLabel = recentKeys[0] + " ~ " + recentKeys[len(recentKeys)-1]
	}
	if len(previousKeys) > 0 {
		insight.CompareLabel = previousKeys[0] + " ~ " + previousKeys[len(previousKeys)-1]
	}
	return insight
}

// detectCostSpike reports the phenomenon with the largest positive cost
// delta between the two latest months, or nil when no delta is positive or
// fewer than two months exist
func detectCostSpike(monthKeys []string, months map[string]*monthBucket) *model.CostSpikeAlert {
	if len(monthKeys) < 2 {
		return nil
	}
	current := months[monthKeys[len(monthKeys)-1]]
	previous := months[monthKeys[len(monthKeys)-2]]

	labels := make(map[string]bool)
	var order []string
	for label := range current.phenomenon {
		if !labels[label] {
			labels[label] = true
			order = append(order, label)
		}
	}
	for label := range previous.phenomenon {
		if !labels[label] {
			labels[label] = true
			order = append(order, label)
		}
	}
	sort.Strings(order)

	var spike *model.CostSpikeAlert
	for _, label := range order {
		currentCost, previousCost := 0.0, 0.0
		if b := current.phenomenon[label]; b != nil {
			currentCost = b.cost
		}
		if b := previous.phenomenon[label]; b != nil {
			previousCost = b.cost
		}
		delta := currentCost - previousCost
		if delta <= 0 {
			continue
		}
		if spike == nil || delta > spike.DeltaCost {
			spike = &model.CostSpikeAlert{
				Phenomenon:   label,
				DeltaCost:    delta,
				CurrentCost:  currentCost,
				PreviousCost: previousCost,
			}
		}
	}
	return spike
}

func tail(keys []string, n int) []string {
	if len(keys) <= n {
		return keys
	}
	return keys[len(keys)-n:]
}

func window(keys []string, from, to int) []string {
	if from < 0 {
		from = 0
	}
	if to < 0 {
		to = 0
	}
	if to > len(keys) {
		to = len(keys)
	}
	if from >= to {
		return nil
	}
	return keys[from:to]
}
