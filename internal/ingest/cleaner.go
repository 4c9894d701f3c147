package ingest

import (
	"fmt"
	"strings"

	"github.com/autoseat/claimlens/internal/classify"
	"github.com/autoseat/claimlens/internal/model"
	"github.com/autoseat/claimlens/internal/textutil"
)

// Cleaner turns raw parsed rows into unique, classified claim records. It
// holds the rule-set snapshot taken at construction, so a whole clean pass
// is classified against one consistent policy.
type Cleaner struct {
	rules *model.ClassificationRuleSet
}

// NewCleaner creates a cleaner classifying against the given rule set
func NewCleaner(rs *model.ClassificationRuleSet) *Cleaner {
	return &Cleaner{rules: rs}
}

// Clean processes every row of the table. Field failures degrade to
// sentinels and are surfaced through the stats; only rows without a
// parsable date are dropped.
func (c *Cleaner) Clean(table *Table) ([]model.CleanedClaim, model.CleanStats) {
	var stats model.CleanStats
	if table == nil || len(table.Rows) == 0 {
		return nil, stats
	}

	idKey := FindColumn(table.Headers, FieldID)
	dateKey := FindColumn(table.Headers, FieldDate)
	modelKey := FindColumn(table.Headers, FieldModel)
	descKey := FindColumn(table.Headers, FieldDescription)
	partKey := FindColumn(table.Headers, FieldPart)
	costKey := FindColumn(table.Headers, FieldCost)

	idUsage := make(map[string]int)
	claims := make([]model.CleanedClaim, 0, len(table.Rows))

	for index, row := range table.Rows {
		claim := model.CleanedClaim{}

		// Derive a unique id: trimmed source id with internal whitespace
		// stripped, row-index fallback, running-count suffix on repeats.
		rawID := ""
		if idKey != "" {
			rawID = row[idKey]
		}
		trimmedSourceID := strings.TrimSpace(rawID)
		baseID := strings.Join(strings.Fields(trimmedSourceID), "")
		if baseID == "" {
			baseID = fmt.Sprintf("CLM-%d", index+1)
		}
		idUsage[baseID]++
		if n := idUsage[baseID]; n > 1 {
			claim.ID = fmt.Sprintf("%s-%d", baseID, n)
		} else {
			claim.ID = baseID
		}
		claim.SourceID = trimmedSourceID

		claim.Date = DateUnknown
		if dateKey != "" {
			claim.Date = ParseDate(row[dateKey])
		}

		claim.Model = "Unknown"
		if modelKey != "" {
			if m := textutil.Sanitize(row[modelKey]); m != "" {
				claim.Model = m
			}
		}

		claim.Description = "Unknown"
		if descKey != "" {
			if d := textutil.Sanitize(row[descKey]); d != "" {
				claim.Description = d
			}
		}

		if partKey != "" {
			claim.PartName = textutil.Sanitize(row[partKey])
		}

		var costValue any
		if costKey != "" {
			costValue = row[costKey]
		}
		claim.Cost, claim.CostParseFailed = ParseCostValue(costValue)

		result := classify.ClassifyClaim(claim.Description, claim.PartName, claim.Cost, c.rules)
		claim.Phenomenon = result.Phenomenon
		claim.Cause = result.Cause
		claim.Contamination = result.Contamination
		claim.Severity = result.Severity
		claim.Flags = result.Flags

		valid := claim.Date != DateUnknown
		if !valid {
			stats.MissingDate++
		}
		if claim.Model == "Unknown" {
			stats.MissingModel++
		}
		if claim.Description == "Unknown" {
			stats.MissingDescription++
		}
		if !valid {
			stats.DroppedRows++
			continue
		}
		claims = append(claims, claim)
	}

	stats.ParsedRows = len(claims)
	return claims, stats
}
