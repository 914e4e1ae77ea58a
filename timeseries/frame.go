package timeseries

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

var (
	// ErrLengthMismatch is returned when a column does not match the frame length.
	ErrLengthMismatch = errors.New("column length does not match frame length")
	// ErrNotChronological is returned when dates are not strictly increasing.
	ErrNotChronological = errors.New("dates are not strictly increasing")
)

// Observation is one dated record materialized from a Frame.
type Observation struct {
	Date       time.Time
	Values     map[string]float64
	Categories map[string]string
}

// Frame is a date-indexed table with numeric and categorical columns.
//
// Numeric gaps are stored as NaN. A Frame used for feature engineering must
// pass Validate: one row per day, strictly increasing dates.
type Frame struct {
	dates       []time.Time
	numeric     map[string][]float64
	categorical map[string][]string
	order       []string
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewFrame creates an empty frame over the given dates, truncated to day granularity.
func NewFrame(dates []time.Time) *Frame {
	days := make([]time.Time, len(dates))
	for i, d := range dates {
		days[i] = Day(d)
	}
	return &Frame{
		dates:       days,
		numeric:     make(map[string][]float64),
		categorical: make(map[string][]string),
	}
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.dates)
}

// Dates returns the row dates. The slice must not be modified.
func (f *Frame) Dates() []time.Time {
	return f.dates
}

// Date returns the date of row i.
func (f *Frame) Date(i int) time.Time {
	return f.dates[i]
}

// LastDate returns the date of the final row.
func (f *Frame) LastDate() (time.Time, bool) {
	if len(f.dates) == 0 {
		return time.Time{}, false
	}
	return f.dates[len(f.dates)-1], true
}

// SetNumeric adds or replaces a numeric column.
func (f *Frame) SetNumeric(name string, values []float64) error {
	if len(values) != len(f.dates) {
		return fmt.Errorf("%s: %w (%d != %d)", name, ErrLengthMismatch, len(values), len(f.dates))
	}
	if _, ok := f.categorical[name]; ok {
		delete(f.categorical, name)
	} else if _, ok := f.numeric[name]; !ok {
		f.order = append(f.order, name)
	}
	f.numeric[name] = values
	return nil
}

// SetCategorical adds or replaces a categorical column.
func (f *Frame) SetCategorical(name string, values []string) error {
	if len(values) != len(f.dates) {
		return fmt.Errorf("%s: %w (%d != %d)", name, ErrLengthMismatch, len(values), len(f.dates))
	}
	if _, ok := f.numeric[name]; ok {
		delete(f.numeric, name)
	} else if _, ok := f.categorical[name]; !ok {
		f.order = append(f.order, name)
	}
	f.categorical[name] = values
	return nil
}

// Numeric returns a numeric column. The slice must not be modified.
func (f *Frame) Numeric(name string) ([]float64, bool) {
	v, ok := f.numeric[name]
	return v, ok
}

// Categorical returns a categorical column. The slice must not be modified.
func (f *Frame) Categorical(name string) ([]string, bool) {
	v, ok := f.categorical[name]
	return v, ok
}

// Has reports whether a column of either kind exists.
func (f *Frame) Has(name string) bool {
	if _, ok := f.numeric[name]; ok {
		return true
	}
	_, ok := f.categorical[name]
	return ok
}

// IsNumeric reports whether name is a numeric column.
func (f *Frame) IsNumeric(name string) bool {
	_, ok := f.numeric[name]
	return ok
}

// Columns returns column names in insertion order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Validate checks that dates are strictly increasing.
func (f *Frame) Validate() error {
	for i := 1; i < len(f.dates); i++ {
		if !f.dates[i].After(f.dates[i-1]) {
			return fmt.Errorf("row %d (%s): %w", i, f.dates[i].Format("2006-01-02"), ErrNotChronological)
		}
	}
	return nil
}

// Index returns the row index of date, if present. The frame must be valid.
func (f *Frame) Index(date time.Time) (int, bool) {
	day := Day(date)
	i := sort.Search(len(f.dates), func(i int) bool { return !f.dates[i].Before(day) })
	if i < len(f.dates) && f.dates[i].Equal(day) {
		return i, true
	}
	return 0, false
}

// Row materializes row i as an Observation.
func (f *Frame) Row(i int) Observation {
	obs := Observation{
		Date:       f.dates[i],
		Values:     make(map[string]float64, len(f.numeric)),
		Categories: make(map[string]string, len(f.categorical)),
	}
	for name, col := range f.numeric {
		obs.Values[name] = col[i]
	}
	for name, col := range f.categorical {
		obs.Categories[name] = col[i]
	}
	return obs
}

// Take returns a new frame holding the rows at idx, in that order.
func (f *Frame) Take(idx []int) *Frame {
	dates := make([]time.Time, len(idx))
	for j, i := range idx {
		dates[j] = f.dates[i]
	}
	out := NewFrame(dates)
	for _, name := range f.order {
		if col, ok := f.numeric[name]; ok {
			values := make([]float64, len(idx))
			for j, i := range idx {
				values[j] = col[i]
			}
			out.numeric[name] = values
		} else {
			col := f.categorical[name]
			values := make([]string, len(idx))
			for j, i := range idx {
				values[j] = col[i]
			}
			out.categorical[name] = values
		}
		out.order = append(out.order, name)
	}
	return out
}

// Slice returns rows [start, end) as a new frame.
func (f *Frame) Slice(start, end int) *Frame {
	start = max(start, 0)
	end = min(end, len(f.dates))
	if start >= end {
		return f.Take(nil)
	}
	idx := make([]int, end-start)
	for i := range idx {
		idx[i] = start + i
	}
	return f.Take(idx)
}

// CountNaN returns the number of NaN values in a numeric column.
func (f *Frame) CountNaN(name string) int {
	n := 0
	for _, v := range f.numeric[name] {
		if math.IsNaN(v) {
			n++
		}
	}
	return n
}
