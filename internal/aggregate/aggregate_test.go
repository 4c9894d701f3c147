package aggregate

import (
	"testing"

	"github.com/autoseat/claimlens/internal/model"
)

// sampleClaims spans March through August 2025 with a cost surge in the
// heater phenomenon toward the end of the range.
func sampleClaims() []model.CleanedClaim {
	return []model.CleanedClaim{
		{ID: "A", Date: "2025-03-10", Model: "AX-100", Description: "rattle noise from track", Phenomenon: "Track / Noise", Severity: model.SeverityLow, Cost: 100},
		{ID: "B", Date: "2025-04-10", Model: "AX-100", Description: "rattle when sliding", Phenomenon: "Track / Noise", Severity: model.SeverityLow, Cost: 100},
		{ID: "C", Date: "2025-05-10", Model: "BX-200", Description: "track rattle again", Phenomenon: "Track / Noise", Severity: model.SeverityLow, Cost: 100},
		{ID: "D", Date: "2025-06-10", Model: "AX-100", Description: "heater overheat burn", Phenomenon: "Seat Heater / Thermal", Severity: model.SeverityHigh, Cost: 400, Flags: []string{model.FlagSafetyRisk}},
		{ID: "E", Date: "2025-07-10", Model: "AX-100", Description: "heater element scorched", Phenomenon: "Seat Heater / Thermal", Severity: model.SeverityHigh, Cost: 500},
		{ID: "F", Date: "2025-08-05", Model: "BX-200", Description: "motor stalls mid travel", Phenomenon: "Power Seat / Motor", Severity: model.SeverityMedium, Cost: 200},
		{ID: "G", Date: "2025-08-20", Model: "AX-100", Description: "heater melted the cover", Phenomenon: "Seat Heater / Thermal", Severity: model.SeverityHigh, Cost: 900},
		{ID: "H", Date: "2025-08-25", Model: "AX-100", Description: "motor hums but no travel", Phenomenon: "Power Seat / Motor", Severity: model.SeverityLow, Cost: 100},
	}
}

func TestAggregateMonthlyTrend(t *testing.T) {
	data := Aggregate(sampleClaims())

	if len(data.MonthlyTrend) != 6 {
		t.Fatalf("expected 6 months, got %d", len(data.MonthlyTrend))
	}
	if data.MonthlyTrend[0].Period != "2025-03" || data.MonthlyTrend[5].Period != "2025-08" {
		t.Errorf("month order: %s .. %s", data.MonthlyTrend[0].Period, data.MonthlyTrend[5].Period)
	}
	last := data.MonthlyTrend[5]
	if last.Claims != 3 || last.Cost != 1200 {
		t.Errorf("august bucket: %+v", last)
	}
}

func TestAggregateBreakdownCostDescending(t *testing.T) {
	data := Aggregate(sampleClaims())

	if len(data.PhenomenonSummary) != 3 {
		t.Fatalf("expected 3 phenomena, got %d", len(data.PhenomenonSummary))
	}
	top := data.PhenomenonSummary[0]
	if top.Label != "Seat Heater / Thermal" || top.Cost != 1800 || top.Count != 3 {
		t.Errorf("top phenomenon: %+v", top)
	}
	for i := 1; i < len(data.PhenomenonSummary); i++ {
		if data.PhenomenonSummary[i].Cost > data.PhenomenonSummary[i-1].Cost {
			t.Errorf("breakdown not cost-descending at %d: %+v", i, data.PhenomenonSummary)
		}
	}
}

func TestAggregateModelPareto(t *testing.T) {
	data := Aggregate(sampleClaims())

	if len(data.ModelPareto) != 2 {
		t.Fatalf("expected 2 models, got %d", len(data.ModelPareto))
	}
	if data.ModelPareto[0].Name != "AX-100" || data.ModelPareto[0].Count != 6 {
		t.Errorf("top model: %+v", data.ModelPareto[0])
	}
}

func TestAggregateSeveritySummary(t *testing.T) {
	data := Aggregate(sampleClaims())

	want := map[model.Severity]int{
		model.SeverityHigh:   3,
		model.SeverityMedium: 1,
		model.SeverityLow:    4,
	}
	for _, row := range data.SeveritySummary {
		if row.Count != want[row.Severity] {
			t.Errorf("severity %s: got %d, want %d", row.Severity, row.Count, want[row.Severity])
		}
	}
}

func TestAggregateTrendInsight(t *testing.T) {
	data := Aggregate(sampleClaims())

	insight := data.TrendInsight
	if insight == nil {
		t.Fatal("expected a trend insight")
	}
	if insight.RecentCount != 5 || insight.PreviousCount != 3 {
		t.Errorf("counts: recent=%d previous=%d", insight.RecentCount, insight.PreviousCount)
	}
	if insight.GrowthPercent < 66 || insight.GrowthPercent > 67 {
		t.Errorf("growth: %f", insight.GrowthPercent)
	}
	if insight.RecentLabel != "2025-06 ~ 2025-08" {
		t.Errorf("recent label: %q", insight.RecentLabel)
	}
	if insight.CompareLabel != "2025-03 ~ 2025-05" {
		t.Errorf("compare label: %q", insight.CompareLabel)
	}
}

func TestAggregateCostSpike(t *testing.T) {
	data := Aggregate(sampleClaims())

	spike := data.CostSpike
	if spike == nil {
		t.Fatal("expected a cost spike alert")
	}
	// August vs July: heater +400 beats motor +300.
	if spike.Phenomenon != "Seat Heater / Thermal" {
		t.Errorf("phenomenon: %q", spike.Phenomenon)
	}
	if spike.DeltaCost != 400 || spike.CurrentCost != 900 || spike.PreviousCost != 500 {
		t.Errorf("spike: %+v", spike)
	}
}

func TestAggregateCostSpikeNilCases(t *testing.T) {
	// A single month cannot spike.
	one := Aggregate([]model.CleanedClaim{
		{ID: "A", Date: "2025-08-01", Phenomenon: "Track / Noise", Cost: 100},
	})
	if one.CostSpike != nil {
		t.Errorf("single month produced a spike: %+v", one.CostSpike)
	}

	// A month-over-month cost drop is not a spike either.
	drop := Aggregate([]model.CleanedClaim{
		{ID: "A", Date: "2025-07-01", Phenomenon: "Track / Noise", Cost: 500},
		{ID: "B", Date: "2025-08-01", Phenomenon: "Track / Noise", Cost: 100},
	})
	if drop.CostSpike != nil {
		t.Errorf("cost drop produced a spike: %+v", drop.CostSpike)
	}
}

func TestAggregateImportantClaims(t *testing.T) {
	data := Aggregate(sampleClaims())

	if len(data.ImportantClaims) != 5 {
		t.Fatalf("expected top 5, got %d", len(data.ImportantClaims))
	}
	// D carries the safety flag, G the highest cost in the hot window.
	if data.ImportantClaims[0].ID != "D" {
		t.Errorf("top claim: got %s, want D", data.ImportantClaims[0].ID)
	}
	if data.ImportantClaims[1].ID != "G" {
		t.Errorf("second claim: got %s, want G", data.ImportantClaims[1].ID)
	}
}

func TestAggregateForecast(t *testing.T) {
	data := Aggregate(sampleClaims())

	if len(data.ForecastTrend) != 9 {
		t.Fatalf("expected 6 actual + 3 forecast points, got %d", len(data.ForecastTrend))
	}
	for _, p := range data.ForecastTrend[:6] {
		if p.Actual == nil || p.Forecast != nil {
			t.Errorf("actual point malformed: %+v", p)
		}
	}
	// Trailing three months average (1+1+3)/3 rounds to 2.
	for i, p := range data.ForecastTrend[6:] {
		if p.Forecast == nil || *p.Forecast != 2 {
			t.Errorf("forecast point %d: %+v", i, p)
		}
	}
	if data.ForecastTrend[6].Period != "2025-09" || data.ForecastTrend[8].Period != "2025-11" {
		t.Errorf("forecast periods: %s .. %s", data.ForecastTrend[6].Period, data.ForecastTrend[8].Period)
	}
}

func TestAggregateEmpty(t *testing.T) {
	data := Aggregate(nil)

	if data.TrendInsight != nil || data.CostSpike != nil {
		t.Error("empty input should carry no insight or spike")
	}
	if data.ImportantClaims == nil || len(data.ImportantClaims) != 0 {
		t.Errorf("important claims: %v", data.ImportantClaims)
	}
	if data.ForecastTrend == nil || len(data.ForecastTrend) != 0 {
		t.Errorf("forecast: %v", data.ForecastTrend)
	}
}

func TestAggregateUnclassifiedSentinels(t *testing.T) {
	data := Aggregate([]model.CleanedClaim{
		{ID: "A", Date: "2025-08-01", Cost: 50},
	})

	if data.PhenomenonSummary[0].Label != model.UnclassifiedLabel {
		t.Errorf("phenomenon label: %q", data.PhenomenonSummary[0].Label)
	}
	if data.CauseSummary[0].Label != model.UnknownLabel {
		t.Errorf("cause label: %q", data.CauseSummary[0].Label)
	}
}

func TestApplyFilters(t *testing.T) {
	claims := sampleClaims()

	all := ApplyFilters(claims, model.DefaultFilters())
	if len(all) != len(claims) {
		t.Errorf("wildcard filters dropped claims: %d", len(all))
	}

	high := ApplyFilters(claims, model.FilterState{Severity: string(model.SeverityHigh)})
	if len(high) != 3 {
		t.Errorf("severity filter: got %d, want 3", len(high))
	}

	bx := ApplyFilters(claims, model.FilterState{Model: "BX-200"})
	if len(bx) != 2 {
		t.Errorf("model filter: got %d, want 2", len(bx))
	}

	flagged := ApplyFilters(claims, model.FilterState{Flag: model.FlagSafetyRisk})
	if len(flagged) != 1 || flagged[0].ID != "D" {
		t.Errorf("flag filter: %+v", flagged)
	}

	ranged := ApplyFilters(claims, model.FilterState{
		DateRange: model.DateRangeFilter{Start: "2025-08-01", End: "2025-08-20"},
	})
	if len(ranged) != 2 {
		t.Errorf("date range filter: got %d, want 2", len(ranged))
	}
}

func TestApplyFiltersUnratedSeverityCountsAsLow(t *testing.T) {
	claims := []model.CleanedClaim{
		{ID: "A", Date: "2025-08-01", Severity: ""},
	}
	low := ApplyFilters(claims, model.FilterState{Severity: string(model.SeverityLow)})
	if len(low) != 1 {
		t.Errorf("unrated claim should pass the Low filter, got %d", len(low))
	}
}
