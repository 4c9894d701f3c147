package model

// ImprovementAction is a remediation effort tied to a phenomenon label.
// Actions are the only derived-data inputs that get persisted.
type ImprovementAction struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	Phenomenon            string  `json:"phenomenon"`
	StartDate             string  `json:"startDate"` // YYYY-MM-DD
	TargetReduction       float64 `json:"targetReduction,omitempty"`
	Notes                 string  `json:"notes,omitempty"`
	EvaluationWindowDays  int     `json:"evaluationWindowDays,omitempty"` // Default 30
}

// ImprovementMetrics is the before/after comparison around an action's start
type ImprovementMetrics struct {
	ActionID    string  `json:"actionId"`
	BeforeCount int     `json:"beforeCount"`
	AfterCount  int     `json:"afterCount"`
	BeforeCost  float64 `json:"beforeCost"`
	AfterCost   float64 `json:"afterCost"`
	DeltaCount  int     `json:"deltaCount"`
	DeltaCost   float64 `json:"deltaCost"`
}
