// Package export renders cleaned claims and aggregate summaries as CSV for
// spreadsheet handoff.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/autoseat/claimlens/internal/model"
)

var claimHeader = []string{
	"ID", "Source ID", "Date", "Model", "Part Name", "Description",
	"Cost", "Cost Parse Failed", "Phenomenon", "Cause", "Contamination",
	"Severity", "Flags", "Updated At",
}

// WriteClaims writes the cleaned claims as CSV. Classification sentinels
// are spelled out so the file is self-describing without the rule set.
func WriteClaims(w io.Writer, claims []model.CleanedClaim) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(claimHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, claim := range claims {
		parseFailed := ""
		if claim.CostParseFailed {
			parseFailed = "Y"
		}
		severity := claim.Severity
		if !model.ValidSeverity(severity) {
			severity = model.SeverityLow
		}

		record := []string{
			claim.ID,
			claim.SourceID,
			claim.Date,
			claim.Model,
			claim.PartName,
			claim.Description,
			strconv.FormatFloat(claim.Cost, 'f', -1, 64),
			parseFailed,
			claim.PhenomenonLabel(),
			claim.CauseLabel(),
			claim.ContaminationLabel(),
			string(severity),
			joinFlags(claim.Flags),
			claim.UpdatedAt,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write claim %s: %w", claim.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSummary writes the aggregate report: the KPI block followed by the
// per-dimension cost breakdowns
func WriteSummary(w io.Writer, kpi model.KPI, data model.AggregatedData) error {
	cw := csv.NewWriter(w)

	kpiRows := [][]string{
		{"Metric", "Value"},
		{"Total Claims", strconv.Itoa(kpi.TotalClaims)},
		{"Total Cost", strconv.FormatFloat(kpi.TotalCost, 'f', -1, 64)},
		{"Avg Cost Per Claim", strconv.FormatFloat(kpi.AvgCostPerClaim, 'f', 2, 64)},
		{"High Severity Count", strconv.Itoa(kpi.HighSeverityCount)},
		{"High Severity Ratio %", strconv.FormatFloat(kpi.HighSeverityRatio, 'f', 1, 64)},
		{"Top Defect", kpi.TopDefect},
		{"MoM Growth %", strconv.FormatFloat(kpi.MoMGrowth, 'f', 1, 64)},
	}
	for _, row := range kpiRows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write kpi row: %w", err)
		}
	}

	sections := []struct {
		title string
		rows  []model.Breakdown
	}{
		{"Phenomenon", data.PhenomenonSummary},
		{"Cause", data.CauseSummary},
		{"Contamination", data.ContaminationSummary},
	}
	for _, section := range sections {
		if err := cw.Write([]string{}); err != nil {
			return fmt.Errorf("write separator: %w", err)
		}
		if err := cw.Write([]string{section.title, "Count", "Cost"}); err != nil {
			return fmt.Errorf("write section header: %w", err)
		}
		for _, row := range section.rows {
			record := []string{
				row.Label,
				strconv.Itoa(row.Count),
				strconv.FormatFloat(row.Cost, 'f', -1, 64),
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("write breakdown row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func joinFlags(flags []string) string {
	out := ""
	for i, flag := range flags {
		if i > 0 {
			out += "|"
		}
		out += flag
	}
	return out
}
