package forecast

import (
	"maps"
	"time"
)

// Row is one forecast day. Rows are values: once appended they never change.
type Row struct {
	Date        time.Time
	Step        int
	Features    []float64          // in the feature set's column order
	Predictions map[string]float64 // per target with a model, clamped at zero
}

// fold returns a new slice holding prior followed by row.
func fold(prior []Row, row Row) []Row {
	out := make([]Row, len(prior), len(prior)+1)
	copy(out, prior)
	return append(out, row)
}

// Day is one entry of a Result.
type Day struct {
	Date   time.Time          `json:"date" yaml:"date"`
	Values map[string]float64 `json:"values" yaml:"values"`
}

// Result is an ordered forecast of Horizon consecutive days after Origin.
type Result struct {
	Origin      time.Time        `json:"origin" yaml:"origin"`
	Days        []Day            `json:"days" yaml:"days"`
	Unavailable map[string]error `json:"-" yaml:"-"`
}

// Targets returns the targets present in the forecast, in the given order.
func (r *Result) Targets(order []string) []string {
	var out []string
	for _, t := range order {
		if _, ok := r.Unavailable[t]; ok {
			continue
		}
		if len(r.Days) > 0 {
			if _, ok := r.Days[0].Values[t]; !ok {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

func dayOf(row Row) Day {
	return Day{Date: row.Date, Values: maps.Clone(row.Predictions)}
}
