package weather

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/aqforecast/arima"
	"github.com/sartorproj/aqforecast/features"
	"github.com/sartorproj/aqforecast/timeseries"
)

func weatherSet(t *testing.T, n int) *features.Set {
	t.Helper()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, n)
	columns := map[string][]float64{
		"PM2.5":         make([]float64, n),
		"temperature":   make([]float64, n),
		"humidity":      make([]float64, n),
		"wind_speed":    make([]float64, n),
		"precipitation": make([]float64, n),
		"pressure":      make([]float64, n),
		"visibility":    make([]float64, n),
	}
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
		columns["PM2.5"][i] = 40
		columns["temperature"][i] = 10 + 0.5*float64(i)
		columns["humidity"][i] = 85
		columns["wind_speed"][i] = 1
		columns["precipitation"][i] = 5
		columns["pressure"][i] = 1010
		columns["visibility"][i] = 8
	}
	frame := timeseries.NewFrame(dates)
	for name, col := range columns {
		require.NoError(t, frame.SetNumeric(name, col))
	}

	cfg := features.DefaultConfig()
	cfg.Targets = []string{"PM2.5"}
	cfg.Exogenous = append(cfg.Exogenous, "visibility")
	cfg.Lags = []int{1}
	cfg.Windows = nil
	set, err := features.NewBuilder(cfg).Build(frame)
	require.NoError(t, err)
	return set
}

func TestSeasonalProxy(t *testing.T) {
	set := weatherSet(t, 30)
	last, ok := set.Last()
	require.True(t, ok)
	require.Equal(t, 90, last.Date.YearDay())

	s := math.Sin(2 * math.Pi * float64(90+2) / 365)
	tests := []struct {
		name string
		want float64
	}{
		{"temperature", 23 + 5*s},
		{"humidity", 90},
		{"wind_speed", 1 + 2*s},
		{"precipitation", 4},
		{"pressure", 1010 + 2*s},
		{"visibility", 8},
	}
	proxy := NewSeasonalProxy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := proxy.Estimate(set, tt.name, 2)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestSeasonalProxyErrors(t *testing.T) {
	proxy := NewSeasonalProxy()

	_, err := proxy.Estimate(weatherSet(t, 30), "ozone", 1)
	assert.True(t, errors.Is(err, ErrUnknownFeature))

	_, err = proxy.Estimate(weatherSet(t, 1), "temperature", 1)
	assert.True(t, errors.Is(err, ErrNoHistory))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 20.0, Clamp("humidity", 3))
	assert.Equal(t, 90.0, Clamp("humidity", 120))
	assert.Equal(t, 0.0, Clamp("wind_speed", -1))
	assert.Equal(t, 0.0, Clamp("precipitation", -0.5))
	assert.Equal(t, -4.0, Clamp("temperature", -4))
}

func TestARIMAProxyTrend(t *testing.T) {
	set := weatherSet(t, 30)
	proxy := NewARIMAProxy(arima.Order{P: 0, D: 1, Q: 0}, nil)

	for step := 1; step <= 3; step++ {
		got, err := proxy.Estimate(set, "temperature", step)
		require.NoError(t, err)
		assert.InDelta(t, 24.5+0.5*float64(step), got, 1e-9)
	}
	assert.Len(t, proxy.models, 1, "one fit per column and set")

	humidity, err := proxy.Estimate(set, "humidity", 1)
	require.NoError(t, err)
	assert.InDelta(t, 85, humidity, 1e-9)
}

func TestARIMAProxyFallback(t *testing.T) {
	set := weatherSet(t, 12)
	proxy := NewARIMAProxy(arima.Order{P: 1, D: 1, Q: 0}, nil)

	got, err := proxy.Estimate(set, "temperature", 1)
	require.NoError(t, err)
	want, err := NewSeasonalProxy().Estimate(set, "temperature", 1)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = proxy.Estimate(set, "ozone", 1)
	assert.True(t, errors.Is(err, ErrUnknownFeature))
}

func TestFunc(t *testing.T) {
	var calls int
	est := Func(func(_ *features.Set, name string, steps int) (float64, error) {
		calls++
		return float64(steps), nil
	})
	got, err := est.Estimate(nil, "temperature", 3)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)
	assert.Equal(t, 1, calls)
}

func TestARIMAProxySearch(t *testing.T) {
	set := weatherSet(t, 60)
	search := arima.DefaultSearchConfig()
	proxy := NewARIMAProxy(arima.Order{}, nil)
	proxy.Search = &search

	for step := 1; step <= 2; step++ {
		got, err := proxy.Estimate(set, "temperature", step)
		require.NoError(t, err)
		assert.InDelta(t, 39.5+0.5*float64(step), got, 1e-9)
	}

	humidity, err := proxy.Estimate(set, "humidity", 1)
	require.NoError(t, err)
	assert.InDelta(t, 85, humidity, 1e-9)
}
