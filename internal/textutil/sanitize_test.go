package textutil

import "testing"

func TestSanitize_CollapsesWhitespaceAndTrims(t *testing.T) {
	got := Sanitize("  seat   heater \t not\nworking  ")
	want := "seat heater not working"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestSanitize_StripsControlCharacters(t *testing.T) {
	got := Sanitize("lumbar\x00 support\x1f stuck")
	want := "lumbar support stuck"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestSanitize_AppliesNFKC(t *testing.T) {
	// Fullwidth forms compatibility-normalize to ASCII
	got := Sanitize("ＡＢＣ　１２３")
	want := "ABC 123"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestSanitize_EmptyInput(t *testing.T) {
	if got := Sanitize(""); got != "" {
		t.Errorf("Expected empty string, got %q", got)
	}
}

func TestSanitize_PreservesKoreanText(t *testing.T) {
	got := Sanitize("  시트 히터 과열 및 화상 위험   ")
	want := "시트 히터 과열 및 화상 위험"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestNormalizeForMatch_Lowercases(t *testing.T) {
	got := NormalizeForMatch("Seat Heater BURNS User")
	want := "seat heater burns user"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
