package aggregate

import (
	"math"

	"github.com/autoseat/claimlens/internal/model"
)

// buildForecast emits the actual monthly counts followed by three future
// months, each forecast as the rounded average of the trailing three actual
// months
func buildForecast(monthKeys []string, months map[string]*monthBucket) []model.ForecastPoint {
	forecast := make([]model.ForecastPoint, 0, len(monthKeys)+3)
	for _, key := range monthKeys {
		actual := months[key].count
		forecast = append(forecast, model.ForecastPoint{Period: key, Actual: intPtr(actual)})
	}

	if len(monthKeys) == 0 {
		return forecast
	}

	recent := tail(monthKeys, 3)
	sum := 0
	for _, key := range recent {
		sum += months[key].count
	}
	average := float64(sum) / float64(len(recent))
	projected := int(math.Round(average))

	base := monthKeys[len(monthKeys)-1]
	for i := 1; i <= 3; i++ {
		forecast = append(forecast, model.ForecastPoint{
			Period:   addMonths(base, i),
			Forecast: intPtr(projected),
		})
	}
	return forecast
}

func intPtr(v int) *int {
	return &v
}
