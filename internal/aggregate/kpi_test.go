package aggregate

import (
	"testing"

	"github.com/autoseat/claimlens/internal/model"
)

func TestCalculateKPIsTotals(t *testing.T) {
	claims := []model.CleanedClaim{
		{ID: "A", Date: "2025-08-01", Description: "heater overheat", Severity: model.SeverityHigh, Cost: 400},
		{ID: "B", Date: "2025-08-02", Description: "heater scorched", Severity: model.SeverityHigh, Cost: 600},
		{ID: "C", Date: "2025-08-03", Description: "track rattle", Severity: model.SeverityLow, Cost: 200},
		{ID: "D", Date: "2025-08-04", Description: "seat rattle", Severity: model.SeverityLow, Cost: 0},
	}

	kpi := CalculateKPIs(claims)

	if kpi.TotalClaims != 4 {
		t.Errorf("total claims: %d", kpi.TotalClaims)
	}
	if kpi.TotalCost != 1200 {
		t.Errorf("total cost: %f", kpi.TotalCost)
	}
	if kpi.AvgCostPerClaim != 300 {
		t.Errorf("avg cost: %f", kpi.AvgCostPerClaim)
	}
	if kpi.HighSeverityCount != 2 || kpi.HighSeverityRatio != 50 {
		t.Errorf("high severity: count=%d ratio=%f", kpi.HighSeverityCount, kpi.HighSeverityRatio)
	}
}

func TestCalculateKPIsEmpty(t *testing.T) {
	kpi := CalculateKPIs(nil)

	if kpi.TotalClaims != 0 || kpi.TotalCost != 0 || kpi.AvgCostPerClaim != 0 {
		t.Errorf("empty totals: %+v", kpi)
	}
	if kpi.MoMGrowth != 0 {
		t.Errorf("empty growth: %f", kpi.MoMGrowth)
	}
	if kpi.TopDefect != "N/A" {
		t.Errorf("empty top defect: %q", kpi.TopDefect)
	}
}

func TestTopDefectKeyword(t *testing.T) {
	claims := []model.CleanedClaim{
		{Description: "rattle noise from the track"},
		{Description: "loud rattle on slide"},
		{Description: "rattle returned after repair"},
	}

	kpi := CalculateKPIs(claims)
	if kpi.TopDefect != "rattle" {
		t.Errorf("top defect: got %q, want rattle", kpi.TopDefect)
	}
}

func TestTopDefectSkipsShortAndStopwords(t *testing.T) {
	claims := []model.CleanedClaim{
		{Description: "the the the not for hum hum hum squeak"},
	}

	kpi := CalculateKPIs(claims)
	// "the", "not", "for" are stopwords; "hum" is too short.
	if kpi.TopDefect != "squeak" {
		t.Errorf("top defect: got %q, want squeak", kpi.TopDefect)
	}
}

// MoM growth is anchored at the latest claim date, not at today, so a
// historical export keeps producing the same number.
func TestMoMGrowthAnchoredAtMaxDate(t *testing.T) {
	claims := []model.CleanedClaim{
		// Trailing 30 days ending 2025-08-25
		{ID: "A", Date: "2025-08-25", Description: "x"},
		{ID: "B", Date: "2025-08-10", Description: "x"},
		{ID: "C", Date: "2025-07-28", Description: "x"},
		// Preceding 30-day window
		{ID: "D", Date: "2025-07-20", Description: "x"},
		{ID: "E", Date: "2025-06-30", Description: "x"},
		// Older than both windows
		{ID: "F", Date: "2025-01-01", Description: "x"},
	}

	kpi := CalculateKPIs(claims)
	if kpi.MoMGrowth != 50 {
		t.Errorf("growth: got %f, want 50", kpi.MoMGrowth)
	}
}

func TestMoMGrowthNewActivity(t *testing.T) {
	claims := []model.CleanedClaim{
		{ID: "A", Date: "2025-08-25", Description: "x"},
		{ID: "B", Date: "2025-08-20", Description: "x"},
	}

	kpi := CalculateKPIs(claims)
	if kpi.MoMGrowth != 100 {
		t.Errorf("growth with empty prior window: got %f, want 100", kpi.MoMGrowth)
	}
}
