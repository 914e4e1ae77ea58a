package forecast

import (
	"context"
	"errors"
	"maps"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/aqforecast/features"
	"github.com/sartorproj/aqforecast/regress"
	"github.com/sartorproj/aqforecast/selector"
	"github.com/sartorproj/aqforecast/timeseries"
	"github.com/sartorproj/aqforecast/weather"
)

var start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func pollutionFrame(t *testing.T, n int) *timeseries.Frame {
	t.Helper()
	dates := make([]time.Time, n)
	pm25 := make([]float64, n)
	pm10 := make([]float64, n)
	temp := make([]float64, n)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
		pm25[i] = 60 + 10*float64(i%7) - float64(i%3)
		pm10[i] = 120 + 5*float64(i%5)
		temp[i] = 12 + float64(i%4)
	}
	frame := timeseries.NewFrame(dates)
	require.NoError(t, frame.SetNumeric("PM2.5", pm25))
	require.NoError(t, frame.SetNumeric("PM10", pm10))
	require.NoError(t, frame.SetNumeric("temperature", temp))
	return frame
}

func train(t *testing.T, frame *timeseries.Frame, cfg *features.Config) (*features.Set, *selector.Registry) {
	t.Helper()
	set, err := features.NewBuilder(cfg).Build(frame)
	require.NoError(t, err)
	sel, err := selector.New(nil)
	require.NoError(t, err)
	registry, _, err := sel.Train(context.Background(), set)
	require.NoError(t, err)
	return set, registry
}

func TestForecastShape(t *testing.T) {
	set, registry := train(t, pollutionFrame(t, 60), nil)
	f := New(registry, nil)

	result, err := f.Forecast(context.Background(), set, 5)
	require.NoError(t, err)

	last, _ := set.Last()
	assert.Equal(t, last.Date, result.Origin)
	require.Len(t, result.Days, 5)
	for i, day := range result.Days {
		assert.Equal(t, result.Origin.AddDate(0, 0, i+1), day.Date)
		assert.Len(t, day.Values, 2)
		for target, v := range day.Values {
			assert.GreaterOrEqual(t, v, 0.0, target)
		}
	}
	assert.Equal(t, []string{"PM2.5", "PM10"}, result.Targets(set.Config.Targets))
}

func TestForecastInvalidHorizon(t *testing.T) {
	set, registry := train(t, pollutionFrame(t, 40), nil)
	for _, h := range []int{0, -3} {
		_, err := New(registry, nil).Forecast(context.Background(), set, h)
		assert.True(t, errors.Is(err, ErrInvalidHorizon))
	}
}

func TestForecastAbsentTarget(t *testing.T) {
	set, registry := train(t, pollutionFrame(t, 40), nil)
	result, err := New(registry, nil).Forecast(context.Background(), set, 3)
	require.NoError(t, err)

	for _, target := range []string{"NO2", "SO2"} {
		assert.True(t, errors.Is(result.Unavailable[target], ErrNoModel), target)
		for _, day := range result.Days {
			_, ok := day.Values[target]
			assert.False(t, ok)
		}
	}
	assert.NotContains(t, result.Unavailable, "PM2.5")
}

func TestForecastMissingModel(t *testing.T) {
	set, registry := train(t, pollutionFrame(t, 40), nil)
	partial := selector.NewRegistry()
	m, _ := registry.Get("PM10")
	partial.Register(m)

	result, err := New(partial, nil).Forecast(context.Background(), set, 3)
	require.NoError(t, err)
	assert.True(t, errors.Is(result.Unavailable["PM2.5"], ErrNoModel))
	for _, day := range result.Days {
		assert.Equal(t, []string{"PM10"}, slices.Collect(maps.Keys(day.Values)))
	}
}

func TestForecastSingleRow(t *testing.T) {
	frame := pollutionFrame(t, 1)
	set, registry := train(t, frame, nil)
	assert.Equal(t, 0, registry.Len())

	result, err := New(registry, nil).Forecast(context.Background(), set, 3)
	require.NoError(t, err)
	assert.Equal(t, start, result.Origin)
	require.Len(t, result.Days, 3)
	for i, day := range result.Days {
		assert.Equal(t, start.AddDate(0, 0, i+1), day.Date)
		assert.Empty(t, day.Values)
	}
	for _, target := range features.DefaultConfig().Targets {
		assert.Error(t, result.Unavailable[target], target)
	}
	assert.True(t, errors.Is(result.Unavailable["PM2.5"], ErrNoHistory))
}

func TestForecastIdempotent(t *testing.T) {
	run := func() *Result {
		set, registry := train(t, pollutionFrame(t, 50), nil)
		result, err := New(registry, nil).Forecast(context.Background(), set, 4)
		require.NoError(t, err)
		return result
	}
	first, second := run(), run()
	assert.Equal(t, first.Days, second.Days)
}

func TestForecastContinuesTrend(t *testing.T) {
	n := 30
	dates := make([]time.Time, n)
	values := make([]float64, n)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
		values[i] = 40 + 0.5*float64(i)
	}
	frame := timeseries.NewFrame(dates)
	require.NoError(t, frame.SetNumeric("PM2.5", values))

	// Rolling stats stay frozen at the origin over the horizon and would pull a
	// trending forecast back toward the window mean, so this config has none.
	cfg := features.DefaultConfig()
	cfg.Targets = []string{"PM2.5"}
	cfg.Lags = []int{1, 2, 3, 7}
	cfg.Windows = nil

	set, err := features.NewBuilder(cfg).Build(frame)
	require.NoError(t, err)
	sel, err := selector.New(nil)
	require.NoError(t, err)
	model, diag, err := sel.SelectAndFit(context.Background(), set, "PM2.5")
	require.NoError(t, err)
	assert.Greater(t, diag.R2, 0.95)

	registry := selector.NewRegistry()
	registry.Register(model)
	result, err := New(registry, nil).Forecast(context.Background(), set, 3)
	require.NoError(t, err)

	for d, day := range result.Days {
		want := 40 + 0.5*float64(n-1+d+1)
		assert.InDelta(t, want, day.Values["PM2.5"], 1.0, "day %d", d+1)
	}
}

func TestStepLagSubstitution(t *testing.T) {
	set, registry := train(t, pollutionFrame(t, 40), nil)
	origin, _ := set.Last()
	p := &plan{
		set:       set,
		estimator: weather.NewSeasonalProxy(),
		origin:    origin,
		models:    make(map[string]*selector.TargetModel),
	}
	for _, target := range []string{"PM2.5", "PM10"} {
		require.NoError(t, p.admit(registry, target))
		p.targets = append(p.targets, target)
	}

	pm25, _ := set.Frame.Numeric("PM2.5")
	col := func(name string) int {
		i, ok := set.Column(name)
		require.True(t, ok, name)
		return i
	}

	var rows []Row
	for d := 1; d <= 3; d++ {
		row, err := p.step(rows, d)
		require.NoError(t, err)
		rows = fold(rows, row)
	}

	day1, day2, day3 := rows[0], rows[1], rows[2]
	assert.Equal(t, pm25[origin.Index], day1.Features[col("PM2.5_lag_1")])
	assert.Equal(t, pm25[origin.Index-1], day1.Features[col("PM2.5_lag_2")])
	assert.Equal(t, day1.Predictions["PM2.5"], day2.Features[col("PM2.5_lag_1")])
	assert.Equal(t, pm25[origin.Index], day2.Features[col("PM2.5_lag_2")])
	assert.Equal(t, day2.Predictions["PM2.5"], day3.Features[col("PM2.5_lag_1")])
	assert.Equal(t, day1.Predictions["PM2.5"], day3.Features[col("PM2.5_lag_2")])
	assert.Equal(t, pm25[origin.Index], day3.Features[col("PM2.5_lag_3")])
	assert.Equal(t, pm25[origin.Index-4], day3.Features[col("PM2.5_lag_7")])

	rolling := col(features.RollingName("PM2.5", "mean", 7))
	for _, row := range rows {
		assert.Equal(t, origin.Values[rolling], row.Features[rolling], "rolling stats stay at origin values")
	}
	tf := features.TimeFeatures(origin.Date.AddDate(0, 0, 2))
	assert.Equal(t, tf[0:6], day2.Features[0:6])
}

func TestFoldDoesNotMutatePrior(t *testing.T) {
	first := []Row{{Step: 1, Predictions: map[string]float64{"PM2.5": 10}}}
	snapshot := slices.Clone(first)

	second := fold(first, Row{Step: 2})
	third := fold(second, Row{Step: 3})

	assert.Equal(t, snapshot, first)
	assert.Len(t, second, 2)
	assert.Len(t, third, 3)
	third[0].Step = 99
	assert.Equal(t, 1, second[0].Step)
}

func TestForecastEstimatorFailure(t *testing.T) {
	set, registry := train(t, pollutionFrame(t, 40), nil)
	boom := errors.New("weather service down")
	est := weather.Func(func(*features.Set, string, int) (float64, error) { return 0, boom })

	_, err := New(registry, est).Forecast(context.Background(), set, 2)
	assert.True(t, errors.Is(err, boom))
}

func TestForecastCancelled(t *testing.T) {
	set, registry := train(t, pollutionFrame(t, 40), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(registry, nil).Forecast(ctx, set, 2)
	assert.True(t, errors.Is(err, context.Canceled))
}

// negative always predicts below zero.
type negative float64

func (n negative) Fit([][]float64, []float64) error { return nil }
func (n negative) Predict([]float64) float64        { return float64(n) }

func TestForecastClampsNegativePredictions(t *testing.T) {
	set, err := features.NewBuilder(nil).Build(pollutionFrame(t, 40))
	require.NoError(t, err)
	sel, err := selector.New(nil, selector.WithCandidates([]regress.Candidate{{
		Kind: regress.KindLinear,
		Name: "Negative",
		New:  func() regress.Regressor { return negative(-7) },
	}}))
	require.NoError(t, err)
	registry, _, err := sel.Train(context.Background(), set)
	require.NoError(t, err)
	require.Equal(t, 2, registry.Len())

	result, err := New(registry, nil).Forecast(context.Background(), set, 3)
	require.NoError(t, err)
	for i, day := range result.Days {
		assert.Equal(t, map[string]float64{"PM2.5": 0, "PM10": 0}, day.Values, "day %d", i+1)
	}

	origin, _ := set.Last()
	p := &plan{
		set:       set,
		estimator: weather.NewSeasonalProxy(),
		origin:    origin,
		models:    make(map[string]*selector.TargetModel),
	}
	for _, target := range []string{"PM2.5", "PM10"} {
		require.NoError(t, p.admit(registry, target))
		p.targets = append(p.targets, target)
	}
	var rows []Row
	for d := 1; d <= 2; d++ {
		row, err := p.step(rows, d)
		require.NoError(t, err)
		rows = fold(rows, row)
	}
	for _, target := range []string{"PM2.5", "PM10"} {
		col, ok := set.Column(features.LagName(target, 1))
		require.True(t, ok)
		assert.Equal(t, 0.0, rows[1].Features[col], "day 2 %s lag 1 uses the clamped value", target)
	}
}
