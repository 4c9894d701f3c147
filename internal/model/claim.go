package model

// Severity is the High/Medium/Low criticality assigned to a claim
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// ValidSeverity reports whether s is one of the three known levels
func ValidSeverity(s Severity) bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// Sentinel labels used when a claim carries no classification
const (
	UnclassifiedLabel = "Unclassified"
	UnknownLabel      = "Unknown"
)

// Flag labels recognized by the importance scorer
const (
	FlagSafetyRisk   = "Safety Risk"
	FlagRepeatRepair = "Repeat Repair"
)

// CleanedClaim is one warranty/defect report after cleaning and classification.
// The JSON field names are the wire format shared with the claims server and
// the rule-authoring tools, so they must stay stable.
type CleanedClaim struct {
	ID              string   `json:"id"`                        // Unique within a clean pass
	SourceID        string   `json:"sourceId,omitempty"`        // Raw id as it appeared in the CSV, trimmed
	Date            string   `json:"date"`                      // YYYY-MM-DD
	Model           string   `json:"model"`
	Description     string   `json:"description"`
	PartName        string   `json:"partName,omitempty"`
	Cost            float64  `json:"cost"`
	CostParseFailed bool     `json:"costParseFailed,omitempty"`
	UpdatedAt       string   `json:"updatedAt,omitempty"` // Set by the server on upload
	Phenomenon      string   `json:"phenomenon,omitempty"`
	Cause           string   `json:"cause,omitempty"`
	Contamination   string   `json:"contamination,omitempty"`
	Severity        Severity `json:"severity,omitempty"`
	Flags           []string `json:"flags,omitempty"`
}

// PhenomenonLabel returns the phenomenon or the unclassified sentinel
func (c *CleanedClaim) PhenomenonLabel() string {
	if c.Phenomenon == "" {
		return UnclassifiedLabel
	}
	return c.Phenomenon
}

// CauseLabel returns the cause or the unknown sentinel
func (c *CleanedClaim) CauseLabel() string {
	if c.Cause == "" {
		return UnknownLabel
	}
	return c.Cause
}

// ContaminationLabel returns the contamination or the unknown sentinel
func (c *CleanedClaim) ContaminationLabel() string {
	if c.Contamination == "" {
		return UnknownLabel
	}
	return c.Contamination
}

// HasFlag reports whether the claim carries the given flag label
func (c *CleanedClaim) HasFlag(label string) bool {
	for _, f := range c.Flags {
		if f == label {
			return true
		}
	}
	return false
}

// CleanStats summarizes row-level outcomes of one clean pass
type CleanStats struct {
	ParsedRows         int `json:"parsedRows"`         // Rows kept in the output
	DroppedRows        int `json:"droppedRows"`        // Rows excluded entirely
	MissingDate        int `json:"missingDate"`        // Rows without a parsable date (dropped)
	MissingModel       int `json:"missingModel"`       // Rows kept but lacking a model
	MissingDescription int `json:"missingDescription"` // Rows kept but lacking a description
}
