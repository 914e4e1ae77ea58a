package features

import (
	"math"
	"time"

	"github.com/sartorproj/aqforecast/timeseries"
)

// Kind classifies a feature column by how it is derived.
type Kind int

const (
	KindTime Kind = iota
	KindExogenous
	KindCategorical
	KindLag
	KindRolling
	KindAuxiliary
)

func (k Kind) String() string {
	switch k {
	case KindTime:
		return "time"
	case KindExogenous:
		return "exogenous"
	case KindCategorical:
		return "categorical"
	case KindLag:
		return "lag"
	case KindRolling:
		return "rolling"
	case KindAuxiliary:
		return "auxiliary"
	}
	return "unknown"
}

// Feature describes one column of the matrix.
type Feature struct {
	Name   string
	Kind   Kind
	Source string // frame column the feature derives from; empty for time encodings
	Lag    int    // KindLag only
	Window int    // KindRolling only
	Stat   string // KindRolling only: mean, std, max or min
}

// Row is one complete feature vector.
type Row struct {
	Date    time.Time
	Index   int                // row in the source frame
	Values  []float64          // in Set.Names order
	Targets map[string]float64 // raw target values of the row
}

// Set is the output of Build. It is read-only once returned and safe for
// concurrent readers.
type Set struct {
	Names          []string
	Features       []Feature
	Rows           []Row
	Dropped        int
	Targets        []string
	MissingTargets []string
	Encoders       map[string]*Encoder
	Frame          *timeseries.Frame
	Config         *Config

	index map[string]int
}

// Column returns the position of a feature name.
func (s *Set) Column(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// HasTarget reports whether target contributed features.
func (s *Set) HasTarget(target string) bool {
	for _, t := range s.Targets {
		if t == target {
			return true
		}
	}
	return false
}

// Matrix returns the feature rows. Rows share storage with the set.
func (s *Set) Matrix() [][]float64 {
	X := make([][]float64, len(s.Rows))
	for i, r := range s.Rows {
		X[i] = r.Values
	}
	return X
}

// Target returns the target column over all rows, NaN where unobserved.
func (s *Set) Target(name string) ([]float64, bool) {
	if !s.HasTarget(name) {
		return nil, false
	}
	y := make([]float64, len(s.Rows))
	for i, r := range s.Rows {
		y[i] = r.Targets[name]
	}
	return y, true
}

// TrainingData returns the rows where target is observed, in chronological order.
func (s *Set) TrainingData(target string) ([][]float64, []float64) {
	if !s.HasTarget(target) {
		return nil, nil
	}
	var X [][]float64
	var y []float64
	for _, r := range s.Rows {
		v := r.Targets[target]
		if math.IsNaN(v) {
			continue
		}
		X = append(X, r.Values)
		y = append(y, v)
	}
	return X, y
}

// Last returns the most recent complete row.
func (s *Set) Last() (Row, bool) {
	if len(s.Rows) == 0 {
		return Row{}, false
	}
	return s.Rows[len(s.Rows)-1], true
}

// Exogenous returns the names of the exogenous columns in the matrix.
func (s *Set) Exogenous() []string {
	var out []string
	for _, f := range s.Features {
		if f.Kind == KindExogenous {
			out = append(out, f.Name)
		}
	}
	return out
}

// History returns up to n of the most recent values of a numeric frame column
// taken from the complete rows, oldest first. NaN entries are skipped.
func (s *Set) History(column string, n int) []float64 {
	series := s.HistorySeries(column, n)
	if series == nil {
		return nil
	}
	return series.Values
}

// HistorySeries is History with the row dates attached.
func (s *Set) HistorySeries(column string, n int) *timeseries.Series {
	col, ok := s.Frame.Numeric(column)
	if !ok {
		return nil
	}
	var (
		dates  []time.Time
		values []float64
	)
	for _, row := range s.Rows {
		if v := col[row.Index]; !math.IsNaN(v) {
			dates = append(dates, row.Date)
			values = append(values, v)
		}
	}
	series, err := timeseries.NewWithTimestamps(dates, values)
	if err != nil {
		return nil
	}
	series.Name = column
	return series.Tail(n)
}
