package classify_test

import (
	"reflect"
	"testing"

	"github.com/autoseat/claimlens/internal/classify"
	"github.com/autoseat/claimlens/internal/model"
	"github.com/autoseat/claimlens/internal/rules"
)

func TestClassifyKoreanHeaterClaim(t *testing.T) {
	rs := rules.DefaultRuleSet()

	result := classify.ClassifyClaim("시트 히터 과열 및 화상 위험", "열선 어셈블리", 0, rs)

	if result.Phenomenon != "Seat Heater / Thermal" {
		t.Errorf("phenomenon: got %q", result.Phenomenon)
	}
	if result.Severity != model.SeverityHigh {
		t.Errorf("severity: got %q, want High", result.Severity)
	}
	found := false
	for _, f := range result.Flags {
		if f == model.FlagSafetyRisk {
			found = true
		}
	}
	if !found {
		t.Errorf("expected Safety Risk flag, got %v", result.Flags)
	}
}

func TestClassifyPowerSeatClaim(t *testing.T) {
	rs := rules.DefaultRuleSet()

	result := classify.ClassifyClaim("전동시트 모터가 멈추고 리클라이너가 작동하지 않음", "Seat Motor", 150, rs)

	if result.Phenomenon != "Power Seat / Motor" {
		t.Errorf("phenomenon: got %q", result.Phenomenon)
	}
	if result.Cause != "Actuator / Motor" {
		t.Errorf("cause: got %q", result.Cause)
	}
	if result.Severity != model.SeverityMedium {
		t.Errorf("severity: got %q, want Medium", result.Severity)
	}
}

func TestClassifyExcludes(t *testing.T) {
	rs := rules.DefaultRuleSet()

	// "motor" excludes the track rule, so the motor rule wins despite the
	// noise keywords.
	result := classify.ClassifyClaim("rattle noise from seat motor", "", 0, rs)
	if result.Phenomenon != "Power Seat / Motor" {
		t.Errorf("got %q, want Power Seat / Motor", result.Phenomenon)
	}

	// Without the excluded term the track rule matches normally.
	result = classify.ClassifyClaim("rattle noise from seat track", "", 0, rs)
	if result.Phenomenon != "Track / Noise" {
		t.Errorf("got %q, want Track / Noise", result.Phenomenon)
	}
}

func TestClassifyFallback(t *testing.T) {
	rs := rules.DefaultRuleSet()

	result := classify.ClassifyClaim("completely unrelated text", "", 0, rs)

	if result.Phenomenon != "Other / Unclassified" {
		t.Errorf("phenomenon: got %q", result.Phenomenon)
	}
	if result.Cause != "Unknown" {
		t.Errorf("cause: got %q", result.Cause)
	}
	if result.Contamination != "Unknown" {
		t.Errorf("contamination: got %q", result.Contamination)
	}
	if result.Severity != model.SeverityLow {
		t.Errorf("severity: got %q, want Low", result.Severity)
	}
	if len(result.Flags) != 0 {
		t.Errorf("expected no flags, got %v", result.Flags)
	}
}

func TestClassifySeverityCostThreshold(t *testing.T) {
	rs := rules.DefaultRuleSet()

	cases := []struct {
		cost float64
		want model.Severity
	}{
		{350, model.SeverityHigh},
		{150, model.SeverityMedium},
		{50, model.SeverityLow},
	}
	for _, tc := range cases {
		result := classify.ClassifyClaim("discomfort report", "", tc.cost, rs)
		if result.Severity != tc.want {
			t.Errorf("cost %.0f: got %q, want %q", tc.cost, result.Severity, tc.want)
		}
	}
}

func TestClassifyCollectsAllFlags(t *testing.T) {
	rs := rules.DefaultRuleSet()

	result := classify.ClassifyClaim("burn mark appeared again after repair", "", 0, rs)

	want := []string{model.FlagSafetyRisk, model.FlagRepeatRepair}
	if !reflect.DeepEqual(result.Flags, want) {
		t.Errorf("flags: got %v, want %v", result.Flags, want)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	rs := rules.DefaultRuleSet()

	first := classify.ClassifyClaim("seat heater overheat and noise", "track", 120, rs)
	for i := 0; i < 10; i++ {
		again := classify.ClassifyClaim("seat heater overheat and noise", "track", 120, rs)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differed: %+v vs %+v", i, first, again)
		}
	}
}

func TestApplyRulesDoesNotMutate(t *testing.T) {
	rs := rules.DefaultRuleSet()

	claims := []model.CleanedClaim{
		{ID: "A", Description: "seat heater overheat", Phenomenon: "stale label"},
	}
	out := classify.ApplyRules(claims, rs)

	if claims[0].Phenomenon != "stale label" {
		t.Error("input slice mutated")
	}
	if out[0].Phenomenon != "Seat Heater / Thermal" {
		t.Errorf("reclassified phenomenon: got %q", out[0].Phenomenon)
	}
}
