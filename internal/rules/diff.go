package rules

import (
	"reflect"
	"sort"

	"github.com/autoseat/claimlens/internal/classify"
	"github.com/autoseat/claimlens/internal/model"
)

// CategoryDiff lists rule codes added, removed or changed in one taxonomy
type CategoryDiff struct {
	Category model.RuleCategory `json:"category"`
	Added    []string           `json:"added,omitempty"`
	Removed  []string           `json:"removed,omitempty"`
	Changed  []string           `json:"changed,omitempty"`
}

// RuleSetDiff summarizes the structural delta between two rule sets
type RuleSetDiff struct {
	OldVersion string         `json:"oldVersion"`
	NewVersion string         `json:"newVersion"`
	Categories []CategoryDiff `json:"categories"`
}

// Empty reports whether the diff contains no rule changes
func (d *RuleSetDiff) Empty() bool {
	for _, c := range d.Categories {
		if len(c.Added)+len(c.Removed)+len(c.Changed) > 0 {
			return false
		}
	}
	return true
}

// DiffRuleSets compares two rule sets by rule code
func DiffRuleSets(prev, next *model.ClassificationRuleSet) RuleSetDiff {
	diff := RuleSetDiff{OldVersion: prev.Version, NewVersion: next.Version}
	for _, cat := range []model.RuleCategory{
		model.CategoryPhenomena,
		model.CategoryCauses,
		model.CategoryContaminations,
	} {
		diff.Categories = append(diff.Categories, diffCategory(cat, prev.Category(cat), next.Category(cat)))
	}
	return diff
}

func diffCategory(cat model.RuleCategory, oldList, newList []model.ClassificationRule) CategoryDiff {
	d := CategoryDiff{Category: cat}

	oldByCode := make(map[string]model.ClassificationRule, len(oldList))
	for _, r := range oldList {
		oldByCode[r.Code] = r
	}
	newByCode := make(map[string]model.ClassificationRule, len(newList))
	for _, r := range newList {
		newByCode[r.Code] = r
	}

	for _, r := range newList {
		prev, ok := oldByCode[r.Code]
		if !ok {
			d.Added = append(d.Added, r.Code)
			continue
		}
		if !reflect.DeepEqual(prev, r) {
			d.Changed = append(d.Changed, r.Code)
		}
	}
	for _, r := range oldList {
		if _, ok := newByCode[r.Code]; !ok {
			d.Removed = append(d.Removed, r.Code)
		}
	}
	return d
}

// LabelShift is one phenomenon label whose claim count moves under a
// candidate rule set
type LabelShift struct {
	Label  string `json:"label"`
	Before int    `json:"before"`
	After  int    `json:"after"`
}

// Preview is the before/after effect of applying a candidate rule set to an
// existing collection, without touching the active store
type Preview struct {
	TotalClaims   int          `json:"totalClaims"`
	ChangedClaims int          `json:"changedClaims"`
	Phenomena     []LabelShift `json:"phenomena"`
}

// PreviewRules re-classifies the claims with the candidate rule set and
// reports what would change. The input claims and the active store are left
// untouched.
func PreviewRules(claims []model.CleanedClaim, candidate *model.ClassificationRuleSet) Preview {
	preview := Preview{TotalClaims: len(claims)}
	reclassified := classify.ApplyRules(claims, candidate)

	before := make(map[string]int)
	after := make(map[string]int)
	var labels []string
	seen := make(map[string]bool)

	track := func(label string, counts map[string]int) {
		counts[label]++
		if !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}
	}

	for i := range claims {
		track(claims[i].PhenomenonLabel(), before)
		track(reclassified[i].PhenomenonLabel(), after)
		if claimChanged(&claims[i], &reclassified[i]) {
			preview.ChangedClaims++
		}
	}

	sort.Strings(labels)
	for _, label := range labels {
		preview.Phenomena = append(preview.Phenomena, LabelShift{
			Label:  label,
			Before: before[label],
			After:  after[label],
		})
	}
	return preview
}

func claimChanged(a, b *model.CleanedClaim) bool {
	return a.Phenomenon != b.Phenomenon ||
		a.Cause != b.Cause ||
		a.Contamination != b.Contamination ||
		a.Severity != b.Severity ||
		!reflect.DeepEqual(a.Flags, b.Flags)
}
