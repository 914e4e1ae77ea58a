package timeseries

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrameCSV(t *testing.T) {
	csvData := `Date,State,PM2.5,NO2
2020-01-01,Delhi,100,40
2020-01-02,Delhi,NA,41
2020-01-03,,102,
`
	frame, err := LoadFrameCSV(strings.NewReader(csvData), nil)
	require.NoError(t, err)

	require.Equal(t, 3, frame.Len())
	assert.Equal(t, time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC), frame.Date(2))

	pm, ok := frame.Numeric("PM2.5")
	require.True(t, ok)
	assert.Equal(t, 100.0, pm[0])
	assert.True(t, math.IsNaN(pm[1]))

	no2, _ := frame.Numeric("NO2")
	assert.True(t, math.IsNaN(no2[2]))

	state, ok := frame.Categorical("State")
	require.True(t, ok)
	assert.Equal(t, []string{"Delhi", "Delhi", ""}, state)
}

func TestLoadFrameCSVForcedCategorical(t *testing.T) {
	csvData := `Date,Location,y
2020-01-01,101,1
2020-01-02,102,2
`
	opts := DefaultCSVOptions()
	opts.Categorical = []string{"Location"}

	frame, err := LoadFrameCSV(strings.NewReader(csvData), opts)
	require.NoError(t, err)

	loc, ok := frame.Categorical("Location")
	require.True(t, ok)
	assert.Equal(t, []string{"101", "102"}, loc)
}

func TestLoadFrameCSVWithoutDateColumn(t *testing.T) {
	csvData := `y
1
2
3
`
	frame, err := LoadFrameCSV(strings.NewReader(csvData), nil)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), frame.Date(0))
	assert.Equal(t, time.Date(2019, 1, 3, 0, 0, 0, 0, time.UTC), frame.Date(2))
}

func TestLoadFrameCSVDateFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"iso", "2021-06-15"},
		{"slash", "2021/06/15"},
		{"us", "06/15/2021"},
		{"datetime", "2021-06-15 08:30:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDate(tt.input, "")
			require.NoError(t, err)
			assert.Equal(t, time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC), d)
		})
	}

	_, err := ParseDate("not a date", "")
	assert.Error(t, err)
}

func TestLoadFrameCSVEmpty(t *testing.T) {
	_, err := LoadFrameCSV(strings.NewReader("Date,y\n"), nil)
	assert.True(t, errors.Is(err, ErrNoData))

	_, err = LoadFrameCSV(strings.NewReader(""), nil)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestSaveFrameCSVRoundTrip(t *testing.T) {
	frame := NewFrame(days(time.Date(2022, 2, 1, 0, 0, 0, 0, time.UTC), 2))
	require.NoError(t, frame.SetNumeric("PM10", []float64{55.5, math.NaN()}))
	require.NoError(t, frame.SetCategorical("City", []string{"X", "Y"}))

	var buf bytes.Buffer
	require.NoError(t, SaveFrameCSV(&buf, frame))
	assert.Equal(t, "Date,PM10,City\n2022-02-01,55.5,X\n2022-02-02,,Y\n", buf.String())

	loaded, err := LoadFrameCSV(&buf, nil)
	require.NoError(t, err)
	pm, _ := loaded.Numeric("PM10")
	assert.Equal(t, 55.5, pm[0])
	assert.True(t, math.IsNaN(pm[1]))
}
