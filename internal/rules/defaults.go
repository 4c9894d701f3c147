// Package rules owns the active classification rule set: loading, schema
// validation, persistence, rule-authoring guards, and before/after preview.
// The store is an explicit object handed to callers; nothing in this package
// relies on ambient global state.
package rules

import (
	_ "embed"
	"encoding/json"

	"github.com/autoseat/claimlens/internal/model"
)

//go:embed default_rules.json
var defaultRulesJSON []byte

// DefaultRuleSet returns a fresh copy of the built-in taxonomy
func DefaultRuleSet() *model.ClassificationRuleSet {
	var rs model.ClassificationRuleSet
	// The embedded file is validated by the package tests; a decode failure
	// here is a build defect, not a runtime condition.
	if err := json.Unmarshal(defaultRulesJSON, &rs); err != nil {
		panic("rules: invalid embedded default rule set: " + err.Error())
	}
	return &rs
}
