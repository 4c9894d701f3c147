package export

import (
	"strings"
	"testing"

	"github.com/autoseat/claimlens/internal/model"
)

func TestWriteClaims(t *testing.T) {
	claims := []model.CleanedClaim{
		{
			ID: "QA001", SourceID: "QA001", Date: "2025-06-01", Model: "AX-100",
			PartName: "Seat Track", Description: "track rattle", Cost: 120.5,
			Phenomenon: "Track / Noise", Cause: "Assembly / Fastening",
			Severity: model.SeverityMedium, Flags: []string{model.FlagRepeatRepair, model.FlagSafetyRisk},
			UpdatedAt: "2025-06-02T00:00:00Z",
		},
		{
			ID: "CLM-2", Date: "2025-06-03", Model: "BX-200",
			Description: "strange smell", Cost: 0, CostParseFailed: true,
		},
	}

	var sb strings.Builder
	if err := WriteClaims(&sb, claims); err != nil {
		t.Fatalf("WriteClaims failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ID,Source ID,Date,Model,Part Name,Description,Cost,Cost Parse Failed") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "Track / Noise") {
		t.Errorf("phenomenon missing: %s", lines[1])
	}
	if !strings.Contains(lines[1], "Repeat Repair|Safety Risk") {
		t.Errorf("flags not pipe-joined: %s", lines[1])
	}
	// Unclassified claim falls back to sentinels and low severity.
	if !strings.Contains(lines[2], "Unclassified") || !strings.Contains(lines[2], "Low") {
		t.Errorf("sentinels missing: %s", lines[2])
	}
	if !strings.Contains(lines[2], ",Y,") {
		t.Errorf("cost parse flag missing: %s", lines[2])
	}
}

func TestWriteSummary(t *testing.T) {
	kpi := model.KPI{
		TotalClaims: 4, TotalCost: 900, AvgCostPerClaim: 225,
		HighSeverityCount: 1, HighSeverityRatio: 25, TopDefect: "rattle", MoMGrowth: 50,
	}
	data := model.AggregatedData{
		PhenomenonSummary: []model.Breakdown{
			{Label: "Track / Noise", Count: 3, Cost: 600},
			{Label: "Seat Heater / Thermal", Count: 1, Cost: 300},
		},
		CauseSummary:         []model.Breakdown{{Label: "Unknown", Count: 4, Cost: 900}},
		ContaminationSummary: []model.Breakdown{{Label: "Unknown", Count: 4, Cost: 900}},
	}

	var sb strings.Builder
	if err := WriteSummary(&sb, kpi, data); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}

	out := sb.String()
	for _, want := range []string{
		"Total Claims,4",
		"Top Defect,rattle",
		"Phenomenon,Count,Cost",
		"Track / Noise,3,600",
		"Cause,Count,Cost",
		"Contamination,Count,Cost",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
