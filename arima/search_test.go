package arima

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/aqforecast/stats"
	"github.com/sartorproj/aqforecast/timeseries"
)

func TestDifferencingOrder(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	noise := make([]float64, 200)
	walk := make([]float64, 200)
	acc := 0.0
	for i := range noise {
		noise[i] = rng.NormFloat64()
		acc += rng.NormFloat64()
		walk[i] = acc + 0.5*float64(i)
	}

	assert.Equal(t, 0, differencingOrder(timeseries.New(noise), 2), "white noise")
	assert.Equal(t, 1, differencingOrder(timeseries.New(walk), 2), "drifting random walk")
	assert.Equal(t, 0, differencingOrder(timeseries.New(walk), 0), "maxD caps the order")
}

func TestSearch(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	values := make([]float64, 150)
	for i := 1; i < len(values); i++ {
		values[i] = 0.7*values[i-1] + rng.NormFloat64()
	}

	res, err := Search(timeseries.New(values), DefaultSearchConfig())
	require.NoError(t, err)
	require.NotNil(t, res.Model)
	assert.False(t, res.Fallback)
	assert.GreaterOrEqual(t, res.ModelsEvaluated, 5)
	assert.LessOrEqual(t, res.Model.Order.P, 3)
	assert.LessOrEqual(t, res.Model.Order.Q, 2)
	assert.False(t, math.IsNaN(res.Model.AIC))

	forecasts, err := res.Model.Predict(3)
	require.NoError(t, err)
	assert.Len(t, forecasts, 3)
}

func TestSearchInsufficientData(t *testing.T) {
	_, err := Search(timeseries.New([]float64{1, 2, 3}), DefaultSearchConfig())
	require.ErrorIs(t, err, ErrInsufficientData)
}

func TestSearchDifferencesTrend(t *testing.T) {
	values := make([]float64, 120)
	level := 0.0
	for i := range values {
		_, frac := math.Modf(float64(i) * 0.6180339887498949)
		level += 0.5 + 0.6*(frac-0.5)
		values[i] = level
	}

	res, err := Search(timeseries.New(values), DefaultSearchConfig())
	require.NoError(t, err)
	assert.False(t, res.Fallback)
	assert.Equal(t, 1, res.Model.Order.D)
}

func TestSearchShortSeriesFallsBack(t *testing.T) {
	values := make([]float64, 12)
	for i := range values {
		_, frac := math.Modf(float64(i) * 0.6180339887498949)
		values[i] = 2*float64(i) + frac
	}
	cfg := DefaultSearchConfig()
	cfg.Test = stats.TestADF

	res, err := Search(timeseries.New(values), cfg)
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, 1, res.Model.Order.D)
}
