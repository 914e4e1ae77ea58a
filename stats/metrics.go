package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// MSE returns the mean squared error between actual and predicted values.
func MSE(actual, predicted []float64) float64 {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return math.NaN()
	}
	sum := 0.0
	for i := range actual {
		d := actual[i] - predicted[i]
		sum += d * d
	}
	return sum / float64(len(actual))
}

// MAE returns the mean absolute error between actual and predicted values.
func MAE(actual, predicted []float64) float64 {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return math.NaN()
	}
	sum := 0.0
	for i := range actual {
		sum += math.Abs(actual[i] - predicted[i])
	}
	return sum / float64(len(actual))
}

// R2 returns the coefficient of determination of predicted against actual.
// For a constant actual series it is 1 when every prediction is exact and 0 otherwise.
func R2(actual, predicted []float64) float64 {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return math.NaN()
	}
	if stat.Variance(actual, nil) == 0 || len(actual) == 1 {
		for i := range actual {
			if actual[i] != predicted[i] {
				return 0
			}
		}
		return 1
	}
	return stat.RSquaredFrom(predicted, actual, nil)
}
