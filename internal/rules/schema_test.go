package rules

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/autoseat/claimlens/internal/model"
)

func TestDefaultRuleSetIsValid(t *testing.T) {
	rs := DefaultRuleSet()
	if err := ValidateRuleSet(rs); err != nil {
		t.Fatalf("default rule set invalid: %v", err)
	}
	if rs.Version == "" {
		t.Error("default rule set has no version")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	rs := DefaultRuleSet()

	text, err := SerializeRuleSet(rs)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	parsed, err := ParseRuleSetFromJSON(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if diff := cmp.Diff(rs, parsed); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	if _, err := ParseRuleSetFromJSON("{not json"); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestValidateRejections(t *testing.T) {
	mutate := func(f func(rs *model.ClassificationRuleSet)) string {
		rs := DefaultRuleSet()
		f(rs)
		err := ValidateRuleSet(rs)
		if err == nil {
			return ""
		}
		return err.Error()
	}

	cases := []struct {
		name   string
		mutate func(rs *model.ClassificationRuleSet)
		want   string
	}{
		{"missing version", func(rs *model.ClassificationRuleSet) { rs.Version = "" }, "version"},
		{"empty category", func(rs *model.ClassificationRuleSet) { rs.Phenomena = nil }, "at least one rule"},
		{"bad code", func(rs *model.ClassificationRuleSet) { rs.Phenomena[0].Code = "Bad Code" }, "snake_case"},
		{"duplicate code", func(rs *model.ClassificationRuleSet) { rs.Phenomena[1].Code = rs.Phenomena[0].Code }, "duplicate"},
		{"missing label", func(rs *model.ClassificationRuleSet) { rs.Causes[0].Label = "" }, "label is required"},
		{"keywordless rule", func(rs *model.ClassificationRuleSet) {
			rs.Phenomena[0].Keywords = nil
			rs.Phenomena[0].Synonyms = nil
		}, "need keywords"},
		{"fallback not last", func(rs *model.ClassificationRuleSet) {
			rs.Phenomena[0].Fallback = true
		}, "fallback"},
		{"bad severity label", func(rs *model.ClassificationRuleSet) { rs.Severity[0].Label = "Critical" }, "High, Medium or Low"},
		{"flag without keywords", func(rs *model.ClassificationRuleSet) { rs.Flags[0].Keywords = nil }, "keywords are required"},
	}

	for _, tc := range cases {
		msg := mutate(tc.mutate)
		if msg == "" {
			t.Errorf("%s: expected validation error", tc.name)
			continue
		}
		if !strings.Contains(msg, tc.want) {
			t.Errorf("%s: error %q does not mention %q", tc.name, msg, tc.want)
		}
	}
}

func TestNormalizeCode(t *testing.T) {
	cases := map[string]string{
		"Seat Heater / Thermal": "seat_heater_thermal",
		"  Track  Noise ":       "track_noise",
		"already_snake":         "already_snake",
		"Motor-Drive 2":         "motor_drive_2",
	}
	for in, want := range cases {
		if got := NormalizeCode(in); got != want {
			t.Errorf("NormalizeCode(%q) = %q, want %q", in, got, want)
		}
	}
}
