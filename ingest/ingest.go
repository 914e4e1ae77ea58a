package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"slices"
	"strconv"

	"go.uber.org/zap"

	"github.com/sartorproj/aqforecast/timeseries"
)

// ErrSourceNotFound is returned when an input file does not exist.
var ErrSourceNotFound = errors.New("source not found")

// Options configures loading and cleaning.
type Options struct {
	CSV           *timeseries.CSVOptions
	Pollutants    []string
	Categorical   []string
	UnknownMarker string
	Logger        *zap.Logger
}

// DefaultOptions returns the pollutant and location columns of the reference dataset.
func DefaultOptions() *Options {
	csv := timeseries.DefaultCSVOptions()
	csv.Categorical = []string{"State", "City", "Location"}
	return &Options{
		CSV:           csv,
		Pollutants:    []string{"SO2_min", "SO2_max", "SO2_avg", "NO2", "PM10", "PM2.5"},
		Categorical:   []string{"State", "City", "Location"},
		UnknownMarker: "Unknown",
	}
}

func (o *Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Load reads and cleans an observation table.
func Load(path string, opts *Options) (*timeseries.Frame, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	frame, err := read(path, opts)
	if err != nil {
		return nil, err
	}
	opts.logger().Info("loaded observations", zap.String("path", path), zap.Int("records", frame.Len()))
	return Clean(frame, opts)
}

// LoadWeather reads a date-keyed weather table, sorted with one row per date.
func LoadWeather(path string, opts *Options) (*timeseries.Frame, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	frame, err := read(path, opts)
	if err != nil {
		return nil, err
	}
	return dedupe(frame, opts.logger()), nil
}

func read(path string, opts *Options) (*timeseries.Frame, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrSourceNotFound)
		}
		return nil, err
	}
	frame, err := timeseries.LoadFrame(path, opts.CSV)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return frame, nil
}

// Clean sorts by date, keeps the last row of each duplicated date, coerces
// pollutant columns to numbers, fills their gaps forward then backward, and
// marks empty categorical cells as unknown. The input frame is not modified.
func Clean(frame *timeseries.Frame, opts *Options) (*timeseries.Frame, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	out := dedupe(frame, opts.logger())

	for _, name := range opts.Pollutants {
		if !out.Has(name) {
			continue
		}
		values := coerce(out, name)
		FillForward(values)
		FillBackward(values)
		if err := out.SetNumeric(name, values); err != nil {
			return nil, err
		}
	}

	marker := opts.UnknownMarker
	if marker == "" {
		marker = "Unknown"
	}
	for _, name := range opts.Categorical {
		col, ok := out.Categorical(name)
		if !ok {
			continue
		}
		filled := slices.Clone(col)
		for i, v := range filled {
			if timeseries.IsNull(v) {
				filled[i] = marker
			}
		}
		if err := out.SetCategorical(name, filled); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// dedupe returns the frame sorted by date with the last row of each date kept.
func dedupe(frame *timeseries.Frame, logger *zap.Logger) *timeseries.Frame {
	dates := frame.Dates()
	order := make([]int, frame.Len())
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int { return dates[a].Compare(dates[b]) })

	keep := make([]int, 0, len(order))
	for _, i := range order {
		if n := len(keep); n > 0 && dates[keep[n-1]].Equal(dates[i]) {
			keep[n-1] = i
			continue
		}
		keep = append(keep, i)
	}
	if dropped := len(order) - len(keep); dropped > 0 {
		logger.Info("dropped duplicate dates", zap.Int("rows", dropped))
	}
	return frame.Take(keep)
}

// coerce returns a numeric copy of a column; unparsable cells become NaN.
func coerce(frame *timeseries.Frame, name string) []float64 {
	if col, ok := frame.Numeric(name); ok {
		return slices.Clone(col)
	}
	raw, _ := frame.Categorical(name)
	values := make([]float64, len(raw))
	for i, s := range raw {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			v = math.NaN()
		}
		values[i] = v
	}
	return values
}

// FillForward replaces each NaN with the closest earlier value, in place.
func FillForward(values []float64) {
	last := math.NaN()
	for i, v := range values {
		if math.IsNaN(v) {
			values[i] = last
		} else {
			last = v
		}
	}
}

// FillBackward replaces each NaN with the closest later value, in place.
func FillBackward(values []float64) {
	next := math.NaN()
	for i := len(values) - 1; i >= 0; i-- {
		if math.IsNaN(values[i]) {
			values[i] = next
		} else {
			next = values[i]
		}
	}
}
