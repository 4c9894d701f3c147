// Package classify evaluates a classification rule set against normalized
// claim text. Every function here is a pure transformation of its inputs:
// the active rule set is always passed in explicitly, so preview runs with a
// candidate rule set and live runs with the stored one go through identical
// code.
package classify

import (
	"sort"
	"strings"

	"github.com/autoseat/claimlens/internal/model"
	"github.com/autoseat/claimlens/internal/textutil"
)

// Result is the classification attached to a claim
type Result struct {
	Phenomenon    string
	Cause         string
	Contamination string
	Severity      model.Severity
	Flags         []string
}

// ClassifyClaim classifies the combined description + part text against the
// given rule set. Same inputs always yield the same result.
func ClassifyClaim(description, partName string, cost float64, rs *model.ClassificationRuleSet) Result {
	parts := make([]string, 0, 2)
	if description != "" {
		parts = append(parts, description)
	}
	if partName != "" {
		parts = append(parts, partName)
	}
	text := textutil.NormalizeForMatch(strings.Join(parts, " "))

	return Result{
		Phenomenon:    matchCategory(text, rs.Phenomena),
		Cause:         matchCategory(text, rs.Causes),
		Contamination: matchCategory(text, rs.Contaminations),
		Severity:      determineSeverity(text, cost, rs.Severity),
		Flags:         collectFlags(text, rs.Flags),
	}
}

// ApplyRules re-classifies a whole collection, returning a new slice. The
// input claims are never mutated, which keeps re-classification safe to run
// while readers aggregate the previous snapshot.
func ApplyRules(claims []model.CleanedClaim, rs *model.ClassificationRuleSet) []model.CleanedClaim {
	out := make([]model.CleanedClaim, len(claims))
	for i, claim := range claims {
		result := ClassifyClaim(claim.Description, claim.PartName, claim.Cost, rs)
		updated := claim
		updated.Phenomenon = result.Phenomenon
		updated.Cause = result.Cause
		updated.Contamination = result.Contamination
		updated.Severity = result.Severity
		updated.Flags = result.Flags
		out[i] = updated
	}
	return out
}

// matchCategory selects the winning rule label for one taxonomy. Candidates
// are the non-fallback rules sorted by priority descending (stable, so list
// order breaks ties); the first whose term set occurs in the text and whose
// excludes do not wins. The fallback rule is exempt from both checks and
// wins by default.
func matchCategory(text string, rules []model.ClassificationRule) string {
	fallback := model.FallbackRule(rules)
	if fallback == nil {
		return ""
	}

	candidates := make([]model.ClassificationRule, 0, len(rules))
	for _, rule := range rules {
		if rule.Code == fallback.Code {
			continue
		}
		candidates = append(candidates, rule)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority > candidates[j].Priority
	})

	for _, rule := range candidates {
		if ruleMatches(text, rule) {
			return rule.Label
		}
	}
	return fallback.Label
}

// ruleMatches reports whether any keyword or synonym occurs in the text and
// no exclude term does
func ruleMatches(text string, rule model.ClassificationRule) bool {
	matched := false
	for _, term := range rule.Keywords {
		if termInText(text, term) {
			matched = true
			break
		}
	}
	if !matched {
		for _, term := range rule.Synonyms {
			if termInText(text, term) {
				matched = true
				break
			}
		}
	}
	if !matched {
		return false
	}
	for _, term := range rule.Excludes {
		if termInText(text, term) {
			return false
		}
	}
	return true
}

// determineSeverity walks the severity rules in declared order; a rule
// matches on any keyword occurrence or when the cost reaches its threshold.
// No match defaults to Low.
func determineSeverity(text string, cost float64, rules []model.SeverityRule) model.Severity {
	for _, rule := range rules {
		if severityMatches(text, cost, rule) {
			return rule.Label
		}
	}
	return model.SeverityLow
}

func severityMatches(text string, cost float64, rule model.SeverityRule) bool {
	for _, term := range rule.Keywords {
		if termInText(text, term) {
			return true
		}
	}
	if rule.CostThreshold != nil && cost >= *rule.CostThreshold {
		return true
	}
	return false
}

// collectFlags gathers every flag whose keyword set intersects the text.
// Unlike taxonomy matching there is no first-wins: all matches apply.
func collectFlags(text string, rules []model.FlagRule) []string {
	var flags []string
	for _, rule := range rules {
		for _, term := range rule.Keywords {
			if termInText(text, term) {
				flags = append(flags, rule.Label)
				break
			}
		}
	}
	return flags
}

func termInText(text, term string) bool {
	if term == "" {
		return false
	}
	return strings.Contains(text, strings.ToLower(term))
}
