package features

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/aqforecast/timeseries"
)

var start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func testFrame(t *testing.T, n int) *timeseries.Frame {
	t.Helper()
	dates := make([]time.Time, n)
	pm25 := make([]float64, n)
	pm10 := make([]float64, n)
	temp := make([]float64, n)
	aux := make([]float64, n)
	city := make([]string, n)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
		pm25[i] = 20 + float64(i%9)*3 + float64(i)/2
		pm10[i] = 50 + float64((i*7)%11)
		temp[i] = 15 + float64(i%5)
		aux[i] = 4 + float64(i%3)
		city[i] = []string{"Delhi", "Agra"}[i%2]
	}
	frame := timeseries.NewFrame(dates)
	require.NoError(t, frame.SetNumeric("PM2.5", pm25))
	require.NoError(t, frame.SetNumeric("PM10", pm10))
	require.NoError(t, frame.SetNumeric("temperature", temp))
	require.NoError(t, frame.SetNumeric("SO2_avg", aux))
	require.NoError(t, frame.SetCategorical("City", city))
	return frame
}

func TestTimeFeatures(t *testing.T) {
	got := TimeFeatures(time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC))
	require.Len(t, got, len(TimeFeatureNames))

	byName := make(map[string]float64)
	for i, name := range TimeFeatureNames {
		byName[name] = got[i]
	}
	assert.Equal(t, 2024.0, byName["year"])
	assert.Equal(t, 1.0, byName["month"])
	assert.Equal(t, 6.0, byName["day"])
	assert.Equal(t, 5.0, byName["day_of_week"], "saturday")
	assert.Equal(t, 6.0, byName["day_of_year"])
	assert.Equal(t, 1.0, byName["week_of_year"])
	assert.InDelta(t, math.Sin(2*math.Pi/12), byName["month_sin"], 1e-12)
	assert.InDelta(t, math.Cos(2*math.Pi*5/7), byName["dow_cos"], 1e-12)
	assert.InDelta(t, math.Sin(2*math.Pi*6/365), byName["doy_sin"], 1e-12)
	assert.Equal(t, 1.0, byName["is_winter"])
	assert.Equal(t, 0.0, byName["is_monsoon"])
	assert.Equal(t, 1.0, byName["is_weekend"])

	july := TimeFeatures(time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 0.0, july[12])
	assert.Equal(t, 1.0, july[13])
	assert.Equal(t, 0.0, july[14], "wednesday")
}

func TestBuildFeatureOrder(t *testing.T) {
	set, err := NewBuilder(nil).Build(testFrame(t, 40))
	require.NoError(t, err)

	assert.Equal(t, TimeFeatureNames, set.Names[:len(TimeFeatureNames)])
	rest := set.Names[len(TimeFeatureNames):]
	assert.Equal(t, "temperature", rest[0])
	assert.Equal(t, "City", rest[1])
	assert.Equal(t, "PM2.5_lag_1", rest[2])
	assert.Equal(t, "PM2.5_lag_14", rest[6])
	assert.Equal(t, "PM2.5_rolling_mean_3", rest[7])
	assert.Equal(t, "PM2.5_rolling_min_14", rest[18])
	assert.Equal(t, "PM10_lag_1", rest[19])
	assert.Equal(t, "SO2_avg", set.Names[len(set.Names)-1])

	for i, name := range set.Names {
		col, ok := set.Column(name)
		require.True(t, ok)
		assert.Equal(t, i, col)
		assert.Equal(t, name, set.Features[i].Name)
	}
}

func TestBuildDropsIncompleteHistory(t *testing.T) {
	set, err := NewBuilder(nil).Build(testFrame(t, 40))
	require.NoError(t, err)

	assert.Equal(t, 14, set.Dropped)
	require.Len(t, set.Rows, 26)
	assert.Equal(t, 14, set.Rows[0].Index)
	assert.Equal(t, start.AddDate(0, 0, 14), set.Rows[0].Date)
	for _, r := range set.Rows {
		for _, v := range r.Values {
			assert.False(t, math.IsNaN(v))
		}
	}
}

func TestLagFeatures(t *testing.T) {
	frame := testFrame(t, 40)
	set, err := NewBuilder(nil).Build(frame)
	require.NoError(t, err)

	pm25, _ := frame.Numeric("PM2.5")
	for _, k := range set.Config.Lags {
		col, ok := set.Column(LagName("PM2.5", k))
		require.True(t, ok)
		for _, r := range set.Rows {
			assert.Equal(t, pm25[r.Index-k], r.Values[col], "lag %d at row %d", k, r.Index)
		}
	}
}

func TestRollingFeatures(t *testing.T) {
	frame := testFrame(t, 40)
	set, err := NewBuilder(nil).Build(frame)
	require.NoError(t, err)

	pm25, _ := frame.Numeric("PM2.5")
	for _, w := range set.Config.Windows {
		meanCol, _ := set.Column(RollingName("PM2.5", "mean", w))
		stdCol, _ := set.Column(RollingName("PM2.5", "std", w))
		maxCol, _ := set.Column(RollingName("PM2.5", "max", w))
		minCol, _ := set.Column(RollingName("PM2.5", "min", w))
		for _, r := range set.Rows {
			window := pm25[r.Index-w+1 : r.Index+1]
			assert.InDelta(t, stat.Mean(window, nil), r.Values[meanCol], 1e-12)
			assert.InDelta(t, stat.StdDev(window, nil), r.Values[stdCol], 1e-12)
			assert.GreaterOrEqual(t, r.Values[maxCol], r.Values[minCol])
			assert.GreaterOrEqual(t, r.Values[minCol], 0.0)
		}
	}
}

func TestNoForwardLeakage(t *testing.T) {
	frame := testFrame(t, 40)
	base, err := NewBuilder(nil).Build(frame)
	require.NoError(t, err)

	cut := 25
	perturbed := testFrame(t, 40)
	for _, name := range []string{"PM2.5", "PM10", "temperature", "SO2_avg"} {
		col, _ := perturbed.Numeric(name)
		shifted := append([]float64(nil), col...)
		for i := cut + 1; i < len(shifted); i++ {
			shifted[i] += 1000
		}
		require.NoError(t, perturbed.SetNumeric(name, shifted))
	}
	changed, err := NewBuilder(nil).Build(perturbed)
	require.NoError(t, err)

	for i, r := range base.Rows {
		if r.Index > cut {
			break
		}
		assert.Equal(t, r.Values, changed.Rows[i].Values, "row %d", r.Index)
	}
}

func TestMissingColumns(t *testing.T) {
	frame := testFrame(t, 30)
	cfg := DefaultConfig()
	cfg.Targets = append(cfg.Targets, "CO")

	set, err := NewBuilder(cfg).Build(frame)
	require.NoError(t, err)

	assert.Equal(t, []string{"PM2.5", "PM10"}, set.Targets)
	assert.Equal(t, []string{"NO2", "SO2", "CO"}, set.MissingTargets)
	assert.Equal(t, []string{"temperature"}, set.Exogenous())
	for _, name := range set.Names {
		assert.False(t, strings.HasPrefix(name, "NO2"), name)
		assert.NotEqual(t, "pressure", name)
		assert.NotEqual(t, "State", name)
	}

	_, ok := set.Target("CO")
	assert.False(t, ok)
	X, y := set.TrainingData("CO")
	assert.Nil(t, X)
	assert.Nil(t, y)
}

func TestTrainingDataSkipsUnobservedTarget(t *testing.T) {
	frame := testFrame(t, 30)
	pm10, _ := frame.Numeric("PM10")
	patched := append([]float64(nil), pm10...)
	patched[29] = math.NaN()
	require.NoError(t, frame.SetNumeric("PM10", patched))

	cfg := DefaultConfig()
	cfg.Targets = []string{"PM10"}
	cfg.Lags = []int{1}
	cfg.Windows = nil

	set, err := NewBuilder(cfg).Build(frame)
	require.NoError(t, err)
	require.Len(t, set.Rows, 29)

	X, y := set.TrainingData("PM10")
	assert.Len(t, X, 28)
	assert.Len(t, y, 28)
}

func TestEncoderReuse(t *testing.T) {
	builder := NewBuilder(nil)
	train, err := builder.Build(testFrame(t, 30))
	require.NoError(t, err)

	enc := train.Encoders["City"]
	require.NotNil(t, enc)
	assert.Equal(t, []string{"Agra", "Delhi"}, enc.Classes)

	next := testFrame(t, 30)
	cities, _ := next.Categorical("City")
	flipped := make([]string, len(cities))
	for i := range flipped {
		flipped[i] = "Delhi"
	}
	require.NoError(t, next.SetCategorical("City", flipped))

	reused, err := builder.Transform(next, train.Encoders)
	require.NoError(t, err)
	col, _ := reused.Column("City")
	for _, r := range reused.Rows {
		assert.Equal(t, 1.0, r.Values[col])
	}
	assert.Equal(t, train.Names, reused.Names)

	flipped[20] = "Mumbai"
	require.NoError(t, next.SetCategorical("City", flipped))
	_, err = builder.Transform(next, train.Encoders)
	assert.True(t, errors.Is(err, ErrUnseenCategory))
}

func TestEncoder(t *testing.T) {
	enc := FitEncoder("State", []string{"Kerala", "Bihar", "Kerala", "Assam"})
	assert.Equal(t, []string{"Assam", "Bihar", "Kerala"}, enc.Classes)

	code, err := enc.Code("Kerala")
	require.NoError(t, err)
	assert.Equal(t, 2, code)

	_, err = enc.Code("Goa")
	assert.True(t, errors.Is(err, ErrUnseenCategory))
}

func TestBuildEdgeCases(t *testing.T) {
	_, err := NewBuilder(nil).Build(timeseries.NewFrame(nil))
	assert.True(t, errors.Is(err, ErrEmptyFrame))

	single, err := NewBuilder(nil).Build(testFrame(t, 1))
	require.NoError(t, err)
	assert.Empty(t, single.Rows)
	assert.Equal(t, 1, single.Dropped)
	_, ok := single.Last()
	assert.False(t, ok)

	unordered := timeseries.NewFrame([]time.Time{start.AddDate(0, 0, 1), start})
	_, err = NewBuilder(nil).Build(unordered)
	assert.True(t, errors.Is(err, timeseries.ErrNotChronological))
}

func TestHistory(t *testing.T) {
	frame := testFrame(t, 30)
	set, err := NewBuilder(nil).Build(frame)
	require.NoError(t, err)

	temp, _ := frame.Numeric("temperature")
	got := set.History("temperature", 7)
	assert.Equal(t, temp[23:30], got)
	assert.Nil(t, set.History("pressure", 7))
	assert.Equal(t, 14, DefaultConfig().MaxHistory())

	series := set.HistorySeries("temperature", 7)
	require.NotNil(t, series)
	assert.Equal(t, "temperature", series.Name)
	assert.Equal(t, temp[23:30], series.Values)
	assert.Equal(t, frame.Dates()[23:30], series.Timestamps)

	series.Values[0] = -1
	assert.Equal(t, temp[23], set.History("temperature", 7)[0], "series is a copy")
}
