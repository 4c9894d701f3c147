package remote

import (
	"encoding/json"

	"github.com/autoseat/claimlens/internal/model"
)

// MergeClaimLists reconciles a local collection with an incrementally
// fetched remote delta. For every incoming claim whose id already exists,
// the records are shallow-merged in place: fields the incoming JSON defines
// overwrite, fields it omits are preserved. Unknown ids append at the end,
// so existing order is stable and the result never shrinks.
func MergeClaimLists(existing, incoming []model.CleanedClaim) []model.CleanedClaim {
	if len(existing) == 0 {
		return append([]model.CleanedClaim(nil), incoming...)
	}
	if len(incoming) == 0 {
		return append([]model.CleanedClaim(nil), existing...)
	}

	index := make(map[string]int, len(existing))
	for i, claim := range existing {
		index[claim.ID] = i
	}

	merged := append([]model.CleanedClaim(nil), existing...)
	for _, claim := range incoming {
		if i, ok := index[claim.ID]; ok {
			merged[i] = overlayClaim(merged[i], claim)
		} else {
			merged = append(merged, claim)
			index[claim.ID] = len(merged) - 1
		}
	}
	return merged
}

// overlayClaim merges at the JSON field level, the same granularity the
// wire format uses: optional fields absent from the incoming record leave
// the existing values alone.
func overlayClaim(existing, incoming model.CleanedClaim) model.CleanedClaim {
	base := claimToMap(existing)
	patch := claimToMap(incoming)
	for k, v := range patch {
		base[k] = v
	}

	data, err := json.Marshal(base)
	if err != nil {
		return incoming
	}
	var out model.CleanedClaim
	if err := json.Unmarshal(data, &out); err != nil {
		return incoming
	}
	return out
}

func claimToMap(claim model.CleanedClaim) map[string]json.RawMessage {
	data, err := json.Marshal(claim)
	if err != nil {
		return map[string]json.RawMessage{}
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return map[string]json.RawMessage{}
	}
	return m
}
