package arima

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/aqforecast/stats"
	"github.com/sartorproj/aqforecast/timeseries"
)

// SearchConfig bounds the automatic order search.
type SearchConfig struct {
	MaxP int    `mapstructure:"max_p" yaml:"max_p" validate:"gte=0,lte=5"`
	MaxD int    `mapstructure:"max_d" yaml:"max_d" validate:"gte=0,lte=2"`
	MaxQ int    `mapstructure:"max_q" yaml:"max_q" validate:"gte=0,lte=5"`
	Test string `mapstructure:"test" yaml:"test" validate:"oneof=kpss adf"` // unit root test choosing d
}

// DefaultSearchConfig returns the search bounds used for weather covariates.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{MaxP: 3, MaxD: 1, MaxQ: 2, Test: stats.TestKPSS}
}

// SearchResult is the best model found and the number of fits attempted.
type SearchResult struct {
	Model           *Model
	ModelsEvaluated int
	// Fallback is set when d came from the variance rule instead of the test.
	Fallback bool
}

// Search picks d with a unit root test, then walks (p, q) stepwise from a few
// small starting orders toward lower AIC. Series too short for the test fall
// back to differencing while it lowers the variance.
func Search(series *timeseries.Series, cfg SearchConfig) (*SearchResult, error) {
	clean := series.DropNaN()
	d, ok := stats.NDiffs(clean, cfg.MaxD, cfg.Test)
	if !ok {
		d = differencingOrder(clean, cfg.MaxD)
	}

	type pq struct{ p, q int }
	res := &SearchResult{Fallback: !ok}
	best := math.Inf(1)
	var bestOrder pq

	try := func(s pq) bool {
		if s.p < 0 || s.p > cfg.MaxP || s.q < 0 || s.q > cfg.MaxQ {
			return false
		}
		m := New(s.p, d, s.q)
		if err := m.Fit(clean); err != nil {
			return false
		}
		res.ModelsEvaluated++
		if res.Model == nil || m.AIC < best {
			best = m.AIC
			bestOrder = s
			res.Model = m
			return true
		}
		return false
	}

	for _, s := range []pq{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {2, 2}} {
		try(s)
	}
	if res.Model == nil {
		return nil, ErrInsufficientData
	}

	for improved := true; improved; {
		improved = false
		center := bestOrder
		for _, s := range []pq{
			{center.p + 1, center.q},
			{center.p - 1, center.q},
			{center.p, center.q + 1},
			{center.p, center.q - 1},
			{center.p + 1, center.q + 1},
			{center.p - 1, center.q - 1},
		} {
			if try(s) {
				improved = true
			}
		}
	}
	return res, nil
}

// differencingOrder returns the smallest d <= maxD after which another
// difference no longer reduces the variance.
func differencingOrder(series *timeseries.Series, maxD int) int {
	current := series
	variance := stat.Variance(current.Values, nil)
	for d := 0; d < maxD; d++ {
		next := current.Diff()
		if next.Len() < 10 {
			return d
		}
		v := stat.Variance(next.Values, nil)
		if !(v < variance) {
			return d
		}
		current, variance = next, v
	}
	return maxD
}
