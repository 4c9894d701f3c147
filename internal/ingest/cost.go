package ingest

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseCostValue converts a heterogeneous cost field into a signed amount.
// failed=true means the value carried no usable number and the amount
// defaults to 0; the row is still kept and the failure recorded per claim.
//
// Accepted string forms include thousands separators ("1,200"), currency
// prefixes ("₩1,200"), spaced digits ("1 200"), and accounting negatives
// ("(1200)").
func ParseCostValue(value any) (amount float64, failed bool) {
	switch v := value.(type) {
	case nil:
		return 0, true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, true
		}
		return v, false
	case float32:
		return ParseCostValue(float64(v))
	case int:
		return float64(v), false
	case int64:
		return float64(v), false
	case string:
		return parseCostString(v)
	default:
		return 0, true
	}
}

func parseCostString(raw string) (float64, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return 0, true
	}

	negative := false
	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		negative = true
		text = strings.TrimSpace(text[1 : len(text)-1])
	}

	if strings.HasPrefix(text, "-") {
		negative = true
		text = text[1:]
	} else if strings.HasPrefix(text, "+") {
		text = text[1:]
	}

	var b strings.Builder
	for _, r := range text {
		if unicode.IsSpace(r) || r == ',' {
			continue
		}
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return 0, true
	}

	parsed, err := strconv.ParseFloat(digits, 64)
	if err != nil || math.IsInf(parsed, 0) {
		return 0, true
	}

	if negative {
		return -math.Abs(parsed), false
	}
	return parsed, false
}
