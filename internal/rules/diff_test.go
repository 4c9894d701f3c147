package rules

import (
	"testing"

	"github.com/autoseat/claimlens/internal/classify"
	"github.com/autoseat/claimlens/internal/model"
)

func TestDiffRuleSetsEmpty(t *testing.T) {
	prev := DefaultRuleSet()
	next := DefaultRuleSet()

	diff := DiffRuleSets(prev, next)
	if !diff.Empty() {
		t.Errorf("identical rule sets produced a diff: %+v", diff)
	}
}

func TestDiffRuleSetsAddRemoveChange(t *testing.T) {
	prev := DefaultRuleSet()
	next := DefaultRuleSet()
	next.Version = "candidate.1"

	// Change one rule, remove another, and add a new one before the fallback.
	next.Phenomena[0].Keywords = append(next.Phenomena[0].Keywords, "smolder")
	changed := next.Phenomena[0].Code
	removed := next.Phenomena[1].Code
	next.Phenomena = append(next.Phenomena[:1], next.Phenomena[2:]...)
	tail := next.Phenomena[len(next.Phenomena)-1]
	next.Phenomena = append(next.Phenomena[:len(next.Phenomena)-1],
		model.ClassificationRule{Code: "armrest_wobble", Label: "Armrest / Wobble", Keywords: []string{"armrest"}},
		tail,
	)

	diff := DiffRuleSets(prev, next)
	if diff.OldVersion != prev.Version || diff.NewVersion != "candidate.1" {
		t.Errorf("versions: %s -> %s", diff.OldVersion, diff.NewVersion)
	}

	var phen CategoryDiff
	for _, c := range diff.Categories {
		if c.Category == model.CategoryPhenomena {
			phen = c
		}
	}
	if len(phen.Added) != 1 || phen.Added[0] != "armrest_wobble" {
		t.Errorf("added: %v", phen.Added)
	}
	if len(phen.Removed) != 1 || phen.Removed[0] != removed {
		t.Errorf("removed: %v", phen.Removed)
	}
	if len(phen.Changed) != 1 || phen.Changed[0] != changed {
		t.Errorf("changed: %v", phen.Changed)
	}
}

func TestPreviewRulesReportsShifts(t *testing.T) {
	raw := []model.CleanedClaim{
		{ID: "A", Date: "2025-08-01", Description: "rattle noise from seat track"},
		{ID: "B", Date: "2025-08-02", Description: "track rattle on slide"},
		{ID: "C", Date: "2025-08-03", Description: "heater overheat burn"},
	}
	claims := classify.ApplyRules(raw, DefaultRuleSet())

	candidate := DefaultRuleSet()
	candidate.Version = "candidate.2"
	for i := range candidate.Phenomena {
		if candidate.Phenomena[i].Code == "track_noise" {
			candidate.Phenomena[i].Label = "Track / Rattle"
		}
	}

	preview := PreviewRules(claims, candidate)

	if preview.TotalClaims != 3 {
		t.Errorf("total: %d", preview.TotalClaims)
	}
	if preview.ChangedClaims != 2 {
		t.Errorf("changed: %d", preview.ChangedClaims)
	}

	shifts := make(map[string]LabelShift)
	for _, s := range preview.Phenomena {
		shifts[s.Label] = s
	}
	if s := shifts["Track / Noise"]; s.Before != 2 || s.After != 0 {
		t.Errorf("old label shift: %+v", s)
	}
	if s := shifts["Track / Rattle"]; s.Before != 0 || s.After != 2 {
		t.Errorf("new label shift: %+v", s)
	}

	// The input collection keeps its original classification.
	if claims[0].Phenomenon != "Track / Noise" {
		t.Errorf("input mutated: %q", claims[0].Phenomenon)
	}
}

func TestPreviewRulesNoChanges(t *testing.T) {
	raw := []model.CleanedClaim{
		{ID: "A", Date: "2025-08-01", Description: "heater overheat burn"},
	}
	claims := classify.ApplyRules(raw, DefaultRuleSet())

	preview := PreviewRules(claims, DefaultRuleSet())
	if preview.ChangedClaims != 0 {
		t.Errorf("identical rules changed %d claims", preview.ChangedClaims)
	}
}
