package timeseries

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Lag returns values shifted k steps forward: out[i] = values[i-k].
// The first k entries are NaN.
func Lag(values []float64, k int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		if i < k || k < 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = values[i-k]
	}
	return out
}

// Rolling applies fn to each trailing window values[i-w+1 : i+1].
// Entries without w observations, or whose window contains NaN, are NaN.
func Rolling(values []float64, w int, fn func(window []float64) float64) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		if w <= 0 || i < w-1 {
			out[i] = math.NaN()
			continue
		}
		window := values[i-w+1 : i+1]
		if floats.HasNaN(window) {
			out[i] = math.NaN()
			continue
		}
		out[i] = fn(window)
	}
	return out
}

// RollingMean is the trailing mean over w observations.
func RollingMean(values []float64, w int) []float64 {
	return Rolling(values, w, func(x []float64) float64 { return stat.Mean(x, nil) })
}

// RollingStd is the trailing sample standard deviation over w observations.
func RollingStd(values []float64, w int) []float64 {
	if w < 2 {
		return Rolling(values, 0, nil)
	}
	return Rolling(values, w, func(x []float64) float64 { return stat.StdDev(x, nil) })
}

// RollingMax is the trailing maximum over w observations.
func RollingMax(values []float64, w int) []float64 {
	return Rolling(values, w, floats.Max)
}

// RollingMin is the trailing minimum over w observations.
func RollingMin(values []float64, w int) []float64 {
	return Rolling(values, w, floats.Min)
}
