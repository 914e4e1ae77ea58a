package regress

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTrainingSet is returned by Fit when X has no rows.
	ErrEmptyTrainingSet = errors.New("empty training set")
	// ErrDimensionMismatch is returned when X and y disagree in length or X is ragged.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrNotFitted is returned when a scaler is used before Fit.
	ErrNotFitted = errors.New("not fitted")
)

// Regressor is a supervised model mapping a feature vector to one value.
type Regressor interface {
	// Fit trains on the rows of X against y. X must not be modified.
	Fit(X [][]float64, y []float64) error
	// Predict returns the estimate for one feature vector.
	Predict(x []float64) float64
}

// checkTrainingSet validates shapes and returns the feature width.
func checkTrainingSet(X [][]float64, y []float64) (int, error) {
	if len(X) == 0 {
		return 0, ErrEmptyTrainingSet
	}
	if len(X) != len(y) {
		return 0, fmt.Errorf("%w: %d rows, %d targets", ErrDimensionMismatch, len(X), len(y))
	}
	width := len(X[0])
	for i, row := range X {
		if len(row) != width {
			return 0, fmt.Errorf("%w: row %d has %d features, want %d", ErrDimensionMismatch, i, len(row), width)
		}
	}
	return width, nil
}

// PredictAll applies r to every row of X.
func PredictAll(r Regressor, X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, x := range X {
		out[i] = r.Predict(x)
	}
	return out
}
