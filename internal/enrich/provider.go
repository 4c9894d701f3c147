// Package enrich re-classifies claims the keyword rules could not place,
// delegating to an external classification service. Results only ever
// refine a claim; an empty response leaves it exactly as the rules left it.
package enrich

import (
	"context"
	"strings"

	"github.com/autoseat/claimlens/internal/model"
)

// Request is one claim submitted for classification
type Request struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Model       string  `json:"model"`
	PartName    string  `json:"partName,omitempty"`
	Cost        float64 `json:"cost"`
	Phenomenon  string  `json:"phenomenon,omitempty"`
	Cause       string  `json:"cause,omitempty"`
	Severity    string  `json:"severity,omitempty"`
}

// Result is the classification returned for one claim. Empty fields mean
// the provider had nothing better than the current value.
type Result struct {
	Phenomenon string `json:"phenomenon,omitempty"`
	Cause      string `json:"cause,omitempty"`
	Severity   string `json:"severity,omitempty"`
}

// Provider classifies batches of claims
type Provider interface {
	// Name returns the provider name
	Name() string

	// ClassifyBatch classifies the requests, keyed by claim id. Missing
	// ids are claims the provider declined to classify.
	ClassifyBatch(ctx context.Context, requests []Request) (map[string]Result, error)
}

// NeedsEnrichment selects the claims worth a second opinion: anything the
// rules left unclassified or dumped in a catch-all bucket, plus High
// severity claims where a misread is most expensive.
func NeedsEnrichment(claim model.CleanedClaim) bool {
	phenomenon := strings.ToLower(claim.Phenomenon)
	if phenomenon == "" || strings.Contains(phenomenon, "unclassified") || strings.Contains(phenomenon, "other") {
		return true
	}
	return claim.Severity == model.SeverityHigh
}

// BuildRequest converts a claim into a classification request
func BuildRequest(claim model.CleanedClaim) Request {
	return Request{
		ID:          claim.ID,
		Description: claim.Description,
		Model:       claim.Model,
		PartName:    claim.PartName,
		Cost:        claim.Cost,
		Phenomenon:  claim.Phenomenon,
		Cause:       claim.Cause,
		Severity:    string(claim.Severity),
	}
}

// ApplyResult overlays a provider result onto a claim. Only non-empty
// fields override, and an invalid severity is discarded.
func ApplyResult(claim model.CleanedClaim, result Result) model.CleanedClaim {
	if result.Phenomenon != "" {
		claim.Phenomenon = result.Phenomenon
	}
	if result.Cause != "" {
		claim.Cause = result.Cause
	}
	if sev := model.Severity(result.Severity); model.ValidSeverity(sev) {
		claim.Severity = sev
	}
	return claim
}
