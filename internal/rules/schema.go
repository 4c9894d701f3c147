package rules

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/autoseat/claimlens/internal/model"
)

// ParseRuleSetFromJSON parses and fully validates a rule-set document. It is
// the sole gate against malformed imports: on any violation it returns a
// descriptive error and the caller keeps its prior rule set.
func ParseRuleSetFromJSON(text string) (*model.ClassificationRuleSet, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	var rs model.ClassificationRuleSet
	if err := dec.Decode(&rs); err != nil {
		return nil, fmt.Errorf("invalid rule file: %w", err)
	}
	if err := ValidateRuleSet(&rs); err != nil {
		return nil, fmt.Errorf("invalid rule file: %w", err)
	}
	return &rs, nil
}

// SerializeRuleSet renders a rule set with stable two-space indentation so
// exports diff cleanly and round-trip through ParseRuleSetFromJSON
func SerializeRuleSet(rs *model.ClassificationRuleSet) (string, error) {
	data, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize rule set: %w", err)
	}
	return string(data), nil
}

// ValidateRuleSet checks the full structural schema of a rule set
func ValidateRuleSet(rs *model.ClassificationRuleSet) error {
	if rs == nil {
		return fmt.Errorf("rule set is empty")
	}
	if rs.Version == "" {
		return fmt.Errorf("version is required")
	}

	for _, cat := range []model.RuleCategory{
		model.CategoryPhenomena,
		model.CategoryCauses,
		model.CategoryContaminations,
	} {
		if err := validateCategory(cat, rs.Category(cat)); err != nil {
			return err
		}
	}

	for i, sr := range rs.Severity {
		if !model.ValidSeverity(sr.Label) {
			return fmt.Errorf("severity[%d]: label must be High, Medium or Low, got %q", i, sr.Label)
		}
		if len(sr.Keywords) == 0 && sr.CostThreshold == nil {
			return fmt.Errorf("severity[%d]: needs keywords or a cost threshold", i)
		}
	}

	for i, fr := range rs.Flags {
		if fr.ID == "" {
			return fmt.Errorf("flags[%d]: id is required", i)
		}
		if fr.Label == "" {
			return fmt.Errorf("flags[%d]: label is required", i)
		}
		if len(fr.Keywords) == 0 {
			return fmt.Errorf("flags[%d] (%s): keywords are required", i, fr.ID)
		}
	}

	return nil
}

func validateCategory(cat model.RuleCategory, list []model.ClassificationRule) error {
	if len(list) == 0 {
		return fmt.Errorf("%s: at least one rule (the fallback) is required", cat)
	}

	seen := make(map[string]bool, len(list))
	fallbacks := 0
	for i, rule := range list {
		if rule.Code == "" {
			return fmt.Errorf("%s[%d]: code is required", cat, i)
		}
		if rule.Code != normalizeCode(rule.Code) {
			return fmt.Errorf("%s[%d]: code %q must be snake_case", cat, i, rule.Code)
		}
		if seen[rule.Code] {
			return fmt.Errorf("%s[%d]: duplicate code %q", cat, i, rule.Code)
		}
		seen[rule.Code] = true
		if rule.Label == "" {
			return fmt.Errorf("%s[%d] (%s): label is required", cat, i, rule.Code)
		}
		if rule.Fallback {
			fallbacks++
		}
		if !rule.Fallback && len(rule.Keywords) == 0 && len(rule.Synonyms) == 0 {
			return fmt.Errorf("%s[%d] (%s): non-fallback rules need keywords", cat, i, rule.Code)
		}
	}

	if fallbacks > 1 {
		return fmt.Errorf("%s: more than one fallback rule", cat)
	}
	// When a rule is explicitly marked, it must sit at the tail so the
	// positional and explicit conventions agree.
	if fallbacks == 1 && !list[len(list)-1].Fallback {
		return fmt.Errorf("%s: the fallback rule must be the last entry", cat)
	}

	return nil
}

// NormalizeCode turns free-form rule names into snake_case codes
func NormalizeCode(name string) string {
	return normalizeCode(name)
}

func normalizeCode(name string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
