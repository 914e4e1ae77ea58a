package stats

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/aqforecast/timeseries"
)

func TestACF(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = math.Sin(float64(i) * 0.1)
	}

	acf := ACF(timeseries.New(values), 10)
	require.Len(t, acf, 11)
	assert.InDelta(t, 1.0, acf[0], 1e-10)
	for k := 1; k < len(acf); k++ {
		assert.LessOrEqual(t, math.Abs(acf[k]), 1.0)
	}

	assert.Nil(t, ACF(timeseries.New([]float64{3, 3, 3}), 2), "constant series has no ACF")
}

func TestRegressionMetrics(t *testing.T) {
	tests := []struct {
		name      string
		actual    []float64
		predicted []float64
		mse       float64
		mae       float64
		r2        float64
	}{
		{"perfect", []float64{1, 2, 3}, []float64{1, 2, 3}, 0, 0, 1},
		{"offset", []float64{1, 2, 3}, []float64{2, 3, 4}, 1, 1, -0.5},
		{"mean predictor", []float64{1, 2, 3}, []float64{2, 2, 2}, 2.0 / 3, 2.0 / 3, 0},
		{"constant exact", []float64{5, 5}, []float64{5, 5}, 0, 0, 1},
		{"constant miss", []float64{5, 5}, []float64{4, 6}, 1, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.mse, MSE(tt.actual, tt.predicted), 1e-12)
			assert.InDelta(t, tt.mae, MAE(tt.actual, tt.predicted), 1e-12)
			assert.InDelta(t, tt.r2, R2(tt.actual, tt.predicted), 1e-12)
		})
	}

	assert.True(t, math.IsNaN(MSE(nil, nil)))
	assert.True(t, math.IsNaN(MAE([]float64{1}, []float64{1, 2})))
}

func TestLjungBox(t *testing.T) {
	t.Run("white noise", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(7, 11))
		residuals := make([]float64, 200)
		for i := range residuals {
			residuals[i] = rng.NormFloat64()
		}
		lb := LjungBox(residuals, 10, 0)
		require.NotNil(t, lb)
		assert.Equal(t, 10, lb.DOF)
		assert.Greater(t, lb.PValue, 0.01)
	})

	t.Run("autocorrelated", func(t *testing.T) {
		residuals := make([]float64, 200)
		for i := range residuals {
			residuals[i] = math.Sin(float64(i) * 0.05)
		}
		lb := LjungBox(residuals, 10, 2)
		require.NotNil(t, lb)
		assert.Equal(t, 8, lb.DOF)
		assert.Less(t, lb.PValue, 0.05)
	})

	t.Run("too short", func(t *testing.T) {
		assert.Nil(t, LjungBox([]float64{1, 2, 3}, 10, 0))
	})
}

func TestDurbinWatson(t *testing.T) {
	dw, ok := DurbinWatson([]float64{1, -1, 1, -1, 1, -1})
	require.True(t, ok)
	assert.Greater(t, dw, 2.0)

	dw, ok = DurbinWatson([]float64{1, 1.1, 1.2, 1.3, 1.4})
	require.True(t, ok)
	assert.Less(t, dw, 2.0)

	_, ok = DurbinWatson([]float64{0, 0, 0})
	assert.False(t, ok)
}
