package aggregate

import "github.com/autoseat/claimlens/internal/model"

// ApplyFilters returns the claims passing every active filter. A field set
// to the ALL wildcard passes everything; date bounds compare ISO strings.
func ApplyFilters(claims []model.CleanedClaim, filters model.FilterState) []model.CleanedClaim {
	out := make([]model.CleanedClaim, 0, len(claims))
	for _, c := range claims {
		if !matchesFilters(&c, filters) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func matchesFilters(c *model.CleanedClaim, f model.FilterState) bool {
	if f.Model != "" && f.Model != model.FilterAll && c.Model != f.Model {
		return false
	}
	if f.Phenomenon != "" && f.Phenomenon != model.FilterAll && c.PhenomenonLabel() != f.Phenomenon {
		return false
	}
	if f.Cause != "" && f.Cause != model.FilterAll && c.CauseLabel() != f.Cause {
		return false
	}
	if f.Contamination != "" && f.Contamination != model.FilterAll && c.ContaminationLabel() != f.Contamination {
		return false
	}
	if f.Severity != "" && f.Severity != model.FilterAll {
		severity := c.Severity
		if !model.ValidSeverity(severity) {
			severity = model.SeverityLow
		}
		if string(severity) != f.Severity {
			return false
		}
	}
	if f.Flag != "" && f.Flag != model.FilterAll && !c.HasFlag(f.Flag) {
		return false
	}
	if f.DateRange.Start != "" && c.Date < f.DateRange.Start {
		return false
	}
	if f.DateRange.End != "" && c.Date > f.DateRange.End {
		return false
	}
	return true
}
