package model

// KPI is the headline metric block computed over the filtered collection
type KPI struct {
	TotalClaims       int     `json:"totalClaims"`
	TotalCost         float64 `json:"totalCost"`
	AvgCostPerClaim   float64 `json:"avgCostPerClaim"`
	HighSeverityCount int     `json:"highSeverityCount"`
	HighSeverityRatio float64 `json:"highSeverityRatio"` // Percent
	MoMGrowth         float64 `json:"momGrowth"`         // Percent, trailing 30d vs prior 30d
	TopDefect         string  `json:"topDefect"`         // Most frequent description keyword
}

// Breakdown is one row of a per-label Pareto table
type Breakdown struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Cost  float64 `json:"cost"`
}

// DailyPoint is one day of the daily trend
type DailyPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// ModelCount is one model of the model Pareto
type ModelCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// KeywordCount is one entry of the defect keyword ranking
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// SeverityCount is one severity level of the severity summary
type SeverityCount struct {
	Severity Severity `json:"severity"`
	Count    int      `json:"count"`
}

// MonthlyPoint is one calendar month of the monthly trend
type MonthlyPoint struct {
	Period string  `json:"period"` // YYYY-MM
	Claims int     `json:"claims"`
	Cost   float64 `json:"cost"`
}

// TrendInsight compares the most recent three calendar months against the
// three months before that
type TrendInsight struct {
	RecentLabel   string  `json:"recentLabel,omitempty"`
	CompareLabel  string  `json:"compareLabel,omitempty"`
	RecentCount   int     `json:"recentCount"`
	PreviousCount int     `json:"previousCount"`
	GrowthPercent float64 `json:"growthPercent"`
}

// CostSpikeAlert reports the phenomenon with the largest positive cost delta
// between the two most recent months
type CostSpikeAlert struct {
	Phenomenon   string  `json:"phenomenon"`
	DeltaCost    float64 `json:"deltaCost"`
	CurrentCost  float64 `json:"currentCost"`
	PreviousCost float64 `json:"previousCost"`
}

// ImportantClaim is one entry of the importance ranking
type ImportantClaim struct {
	ID          string   `json:"id"`
	Date        string   `json:"date"`
	Model       string   `json:"model"`
	Description string   `json:"description"`
	Phenomenon  string   `json:"phenomenon,omitempty"`
	Severity    Severity `json:"severity,omitempty"`
	Cost        float64  `json:"cost"`
}

// ForecastPoint is one month of the forecast series; actual months carry
// Actual, appended future months carry Forecast
type ForecastPoint struct {
	Period   string `json:"period"`
	Actual   *int   `json:"actual,omitempty"`
	Forecast *int   `json:"forecast,omitempty"`
}

// AggregatedData bundles every derived view over the claim collection.
// It is recomputed on demand and never persisted.
type AggregatedData struct {
	DailyTrend           []DailyPoint    `json:"dailyTrend"`
	ModelPareto          []ModelCount    `json:"modelPareto"`
	DefectKeywords       []KeywordCount  `json:"defectKeywords"`
	PhenomenonSummary    []Breakdown     `json:"phenomenonSummary"`
	CauseSummary         []Breakdown     `json:"causeSummary"`
	ContaminationSummary []Breakdown     `json:"contaminationSummary"`
	SeveritySummary      []SeverityCount `json:"severitySummary"`
	MonthlyTrend         []MonthlyPoint  `json:"monthlyTrend"`
	TrendInsight         *TrendInsight   `json:"trendInsight,omitempty"`
	CostSpike            *CostSpikeAlert `json:"costSpike,omitempty"`
	ImportantClaims      []ImportantClaim `json:"importantClaims"`
	ForecastTrend        []ForecastPoint  `json:"forecastTrend"`
}

// FilterAll is the wildcard value accepted by every FilterState field
const FilterAll = "ALL"

// DateRangeFilter bounds claims by ISO date string comparison
type DateRangeFilter struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// FilterState selects the slice of the collection fed into aggregation
type FilterState struct {
	Model         string          `json:"model"`
	Phenomenon    string          `json:"phenomenon"`
	Cause         string          `json:"cause"`
	Contamination string          `json:"contamination"`
	Severity      string          `json:"severity"`
	Flag          string          `json:"flag"`
	DateRange     DateRangeFilter `json:"dateRange"`
}

// DefaultFilters returns the pass-everything filter state
func DefaultFilters() FilterState {
	return FilterState{
		Model:         FilterAll,
		Phenomenon:    FilterAll,
		Cause:         FilterAll,
		Contamination: FilterAll,
		Severity:      FilterAll,
		Flag:          FilterAll,
	}
}
