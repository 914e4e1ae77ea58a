package weather

import (
	"errors"
	"math"

	"github.com/sartorproj/aqforecast/features"
)

var (
	// ErrUnknownFeature is returned for a column the set's frame does not hold.
	ErrUnknownFeature = errors.New("unknown exogenous feature")
	// ErrNoHistory is returned when no observed value of the column is available.
	ErrNoHistory = errors.New("no observed history")
)

// Estimator supplies an exogenous value stepsAhead days after the last row of set.
type Estimator interface {
	Estimate(set *features.Set, name string, stepsAhead int) (float64, error)
}

// Func adapts a function to the Estimator interface.
type Func func(set *features.Set, name string, stepsAhead int) (float64, error)

// Estimate calls f.
func (f Func) Estimate(set *features.Set, name string, stepsAhead int) (float64, error) {
	return f(set, name, stepsAhead)
}

// Clamp bounds a covariate to its physical range.
func Clamp(name string, v float64) float64 {
	switch name {
	case "humidity":
		return math.Min(math.Max(v, 20), 90)
	case "wind_speed", "precipitation":
		return math.Max(0, v)
	}
	return v
}
