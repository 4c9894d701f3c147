package ingest

import (
	"strings"
	"unicode"
)

// Field is a canonical claim field resolved from arbitrary CSV headers
type Field string

const (
	FieldID          Field = "id"
	FieldDate        Field = "date"
	FieldModel       Field = "model"
	FieldDescription Field = "description"
	FieldPart        Field = "part"
	FieldCost        Field = "cost"
)

// columnCandidates maps each canonical field to the header terms that may
// denote it. Candidate lists are data, not code, so adding a language is a
// table edit.
var columnCandidates = map[Field][]string{
	FieldID:          {"claim id", "id", "클레임번호", "접수번호"},
	FieldDate:        {"date", "incident date", "reported", "발생일", "일자", "접수일"},
	FieldModel:       {"model", "vehicle", "car", "차종", "모델"},
	FieldDescription: {"issue", "description", "complaint", "현상", "불만", "내용"},
	FieldPart:        {"part", "component", "부품", "품명"},
	FieldCost:        {"cost", "price", "repair", "비용", "금액"},
}

// NormalizeHeader lower-cases a header and strips whitespace, underscores
// and hyphens so "Claim_ID", "claim-id" and "Claim ID" all compare equal
func NormalizeHeader(header string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(header) {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FindColumn returns the first header, in original column order, matching
// any candidate term for the field. The id field requires an exact match so
// headers like "model id" never hijack it; every other field matches by
// substring. Returns "" when no header matches.
func FindColumn(headers []string, field Field) string {
	candidates := columnCandidates[field]
	for _, header := range headers {
		normalized := NormalizeHeader(header)
		for _, candidate := range candidates {
			nc := NormalizeHeader(candidate)
			if nc == "id" {
				if normalized == "id" {
					return header
				}
				continue
			}
			if strings.Contains(normalized, nc) {
				return header
			}
		}
	}
	return ""
}
