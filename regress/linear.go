package regress

import (
	"errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DefaultRcond is the relative singular value cutoff used to decide the rank of
// the design matrix.
const DefaultRcond = 1e-10

// Linear is ordinary least squares with an intercept.
//
// The design matrix is centered and solved through a thin SVD truncated at the
// numerical rank, giving the minimum-norm solution when columns are collinear.
type Linear struct {
	Rcond     float64
	Coef      []float64
	Intercept float64
}

// NewLinear returns an unfitted linear model.
func NewLinear() *Linear {
	return &Linear{Rcond: DefaultRcond}
}

// Fit solves min ||Xb + c - y|| for b and c.
func (l *Linear) Fit(X [][]float64, y []float64) error {
	width, err := checkTrainingSet(X, y)
	if err != nil {
		return err
	}
	n := len(X)

	xMean := make([]float64, width)
	col := make([]float64, n)
	for j := range xMean {
		for i, row := range X {
			col[i] = row[j]
		}
		xMean[j] = stat.Mean(col, nil)
	}
	yMean := stat.Mean(y, nil)

	l.Coef = make([]float64, width)
	l.Intercept = yMean
	if width == 0 {
		return nil
	}

	data := make([]float64, 0, n*width)
	for _, row := range X {
		for j, v := range row {
			data = append(data, v-xMean[j])
		}
	}
	a := mat.NewDense(n, width, data)

	centered := make([]float64, n)
	copy(centered, y)
	floats.AddConst(-yMean, centered)
	b := mat.NewVecDense(n, centered)

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return errors.New("linear: svd factorization failed")
	}
	rank := svd.Rank(l.Rcond)
	if rank == 0 {
		return nil
	}

	var coef mat.VecDense
	svd.SolveVecTo(&coef, b, rank)
	for j := range l.Coef {
		l.Coef[j] = coef.AtVec(j)
	}
	l.Intercept = yMean - floats.Dot(l.Coef, xMean)
	return nil
}

// Predict returns x·Coef + Intercept.
func (l *Linear) Predict(x []float64) float64 {
	return floats.Dot(l.Coef, x) + l.Intercept
}
