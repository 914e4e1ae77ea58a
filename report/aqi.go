package report

import "sort"

// Category is an air quality index band.
type Category string

const (
	Good               Category = "Good"
	Moderate           Category = "Moderate"
	UnhealthySensitive Category = "Unhealthy for Sensitive"
	Unhealthy          Category = "Unhealthy"
	VeryUnhealthy      Category = "Very Unhealthy"
	Hazardous          Category = "Hazardous"
)

var bands = []Category{Good, Moderate, UnhealthySensitive, Unhealthy, VeryUnhealthy}

// upper inclusive band limits in µg/m³ for 24-hour averages
var breakpoints = map[string][]float64{
	"PM2.5": {12, 35, 55, 150, 250},
	"PM10":  {54, 154, 254, 354, 424},
}

// Categorize bands a concentration. Only pollutants with breakpoints are banded.
func Categorize(pollutant string, value float64) (Category, bool) {
	limits, ok := breakpoints[pollutant]
	if !ok {
		return "", false
	}
	i := sort.SearchFloat64s(limits, value)
	if i == len(limits) {
		return Hazardous, true
	}
	return bands[i], true
}

// Unit returns the display unit of a pollutant.
func Unit(string) string {
	return "µg/m³"
}
