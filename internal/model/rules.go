package model

// RuleCategory names one of the three independent classification taxonomies
type RuleCategory string

const (
	CategoryPhenomena      RuleCategory = "phenomena"
	CategoryCauses         RuleCategory = "causes"
	CategoryContaminations RuleCategory = "contaminations"
)

// ClassificationRule is one keyword rule inside a taxonomy list.
// The rule marked Fallback (or, when none is marked, the last rule of the
// list) is the designated "unclassified" rule: it wins when nothing else
// matches and is exempt from exclude checks.
type ClassificationRule struct {
	Code     string   `json:"code"`  // snake_case, unique within its list
	Label    string   `json:"label"` // Display label attached to claims
	Keywords []string `json:"keywords"`
	Synonyms []string `json:"synonyms,omitempty"`
	Excludes []string `json:"excludes,omitempty"`
	Priority int      `json:"priority,omitempty"` // Higher wins; list order breaks ties
	Fallback bool     `json:"fallback,omitempty"`
}

// SeverityRule assigns a severity level by keyword or cost threshold.
// Severity rules are evaluated in declared order; first match wins.
type SeverityRule struct {
	Label         Severity `json:"label"`
	Keywords      []string `json:"keywords,omitempty"`
	CostThreshold *float64 `json:"costThreshold,omitempty"`
}

// FlagRule attaches a non-exclusive tag; every matching flag is collected
type FlagRule struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Keywords []string `json:"keywords"`
}

// ClassificationRuleSet is the complete versioned policy document governing
// classification. Exactly one is active at a time and it is only ever
// replaced wholesale, never merged in place.
type ClassificationRuleSet struct {
	Version        string               `json:"version"`
	Phenomena      []ClassificationRule `json:"phenomena"`
	Causes         []ClassificationRule `json:"causes"`
	Contaminations []ClassificationRule `json:"contaminations"`
	Severity       []SeverityRule       `json:"severity"`
	Flags          []FlagRule           `json:"flags"`
}

// Category returns the rule list for the given taxonomy
func (rs *ClassificationRuleSet) Category(cat RuleCategory) []ClassificationRule {
	switch cat {
	case CategoryPhenomena:
		return rs.Phenomena
	case CategoryCauses:
		return rs.Causes
	case CategoryContaminations:
		return rs.Contaminations
	}
	return nil
}

// SetCategory replaces the rule list for the given taxonomy
func (rs *ClassificationRuleSet) SetCategory(cat RuleCategory, rules []ClassificationRule) {
	switch cat {
	case CategoryPhenomena:
		rs.Phenomena = rules
	case CategoryCauses:
		rs.Causes = rules
	case CategoryContaminations:
		rs.Contaminations = rules
	}
}

// FallbackRule returns the designated fallback of a rule list: the rule
// explicitly marked, or the last element when none is marked. Returns nil
// for an empty list.
func FallbackRule(rules []ClassificationRule) *ClassificationRule {
	for i := range rules {
		if rules[i].Fallback {
			return &rules[i]
		}
	}
	if len(rules) == 0 {
		return nil
	}
	return &rules[len(rules)-1]
}

// Clone returns a deep copy of the rule set
func (rs *ClassificationRuleSet) Clone() *ClassificationRuleSet {
	out := &ClassificationRuleSet{Version: rs.Version}
	out.Phenomena = cloneRules(rs.Phenomena)
	out.Causes = cloneRules(rs.Causes)
	out.Contaminations = cloneRules(rs.Contaminations)
	out.Severity = make([]SeverityRule, len(rs.Severity))
	for i, sr := range rs.Severity {
		cp := sr
		cp.Keywords = cloneStrings(sr.Keywords)
		if sr.CostThreshold != nil {
			v := *sr.CostThreshold
			cp.CostThreshold = &v
		}
		out.Severity[i] = cp
	}
	out.Flags = make([]FlagRule, len(rs.Flags))
	for i, fr := range rs.Flags {
		cp := fr
		cp.Keywords = cloneStrings(fr.Keywords)
		out.Flags[i] = cp
	}
	return out
}

func cloneRules(rules []ClassificationRule) []ClassificationRule {
	if rules == nil {
		return nil
	}
	out := make([]ClassificationRule, len(rules))
	for i, r := range rules {
		cp := r
		cp.Keywords = cloneStrings(r.Keywords)
		cp.Synonyms = cloneStrings(r.Synonyms)
		cp.Excludes = cloneStrings(r.Excludes)
		out[i] = cp
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
