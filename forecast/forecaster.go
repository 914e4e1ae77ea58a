package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/sartorproj/aqforecast/features"
	"github.com/sartorproj/aqforecast/selector"
	"github.com/sartorproj/aqforecast/weather"
)

var (
	// ErrInvalidHorizon is returned for a horizon below one day.
	ErrInvalidHorizon = errors.New("horizon must be at least one day")
	// ErrNoModel marks a target without a frozen model.
	ErrNoModel = errors.New("no model for target")
	// ErrNoHistory marks a target that has no complete row to forecast from.
	ErrNoHistory = errors.New("no history to forecast from")
)

// Models looks up frozen models by target. *selector.Registry implements it.
type Models interface {
	Get(target string) (*selector.TargetModel, bool)
}

// Observer receives forecast events, typically to export metrics.
type Observer interface {
	ObserveForecast(horizon, available, unavailable int, elapsed time.Duration)
}

// Forecaster runs the recursive day-by-day loop.
type Forecaster struct {
	models    Models
	estimator weather.Estimator
	logger    *zap.Logger
	observer  Observer
}

// Option configures a Forecaster.
type Option func(*Forecaster)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *zap.Logger) Option {
	return func(f *Forecaster) {
		f.logger = l
	}
}

// WithObserver registers an observer for forecast events.
func WithObserver(o Observer) Option {
	return func(f *Forecaster) {
		f.observer = o
	}
}

// New creates a forecaster. A nil estimator selects weather.NewSeasonalProxy.
func New(models Models, estimator weather.Estimator, opts ...Option) *Forecaster {
	if estimator == nil {
		estimator = weather.NewSeasonalProxy()
	}
	f := &Forecaster{
		models:    models,
		estimator: estimator,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// plan is the fixed state every step reads.
type plan struct {
	set       *features.Set
	estimator weather.Estimator
	origin    features.Row
	models    map[string]*selector.TargetModel
	targets   []string
}

// Forecast predicts horizon days after the last complete row of set.
// Targets that cannot be forecast are left out of every day and listed once
// in Result.Unavailable. A set without complete rows still yields horizon
// empty days after the frame's last date.
func (f *Forecaster) Forecast(ctx context.Context, set *features.Set, horizon int) (*Result, error) {
	if horizon < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHorizon, horizon)
	}
	started := time.Now()

	result := &Result{Unavailable: make(map[string]error)}
	origin, ok := set.Last()
	if !ok {
		last, _ := set.Frame.LastDate()
		result.Origin = last
		for _, target := range set.Config.Targets {
			result.Unavailable[target] = fmt.Errorf("%s: %w", target, ErrNoHistory)
		}
		for d := 1; d <= horizon; d++ {
			result.Days = append(result.Days, Day{Date: last.AddDate(0, 0, d), Values: map[string]float64{}})
		}
		f.report(result, horizon, 0, started)
		return result, nil
	}
	result.Origin = origin.Date

	p := &plan{
		set:       set,
		estimator: f.estimator,
		origin:    origin,
		models:    make(map[string]*selector.TargetModel),
	}
	for _, target := range set.Config.Targets {
		if err := p.admit(f.models, target); err != nil {
			result.Unavailable[target] = err
			continue
		}
		p.targets = append(p.targets, target)
	}

	var rows []Row
	for d := 1; d <= horizon; d++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := p.step(rows, d)
		if err != nil {
			return nil, fmt.Errorf("day %d: %w", d, err)
		}
		rows = fold(rows, row)
	}

	for _, row := range rows {
		result.Days = append(result.Days, dayOf(row))
	}
	f.report(result, horizon, len(p.targets), started)
	return result, nil
}

func (f *Forecaster) report(result *Result, horizon, available int, started time.Time) {
	for target, err := range result.Unavailable {
		f.logger.Warn("target unavailable for forecasting", zap.String("target", target), zap.Error(err))
	}
	f.logger.Info("forecast finished",
		zap.Time("origin", result.Origin),
		zap.Int("horizon", horizon),
		zap.Int("targets", available),
	)
	if f.observer != nil {
		f.observer.ObserveForecast(horizon, available, len(result.Unavailable), time.Since(started))
	}
}

// admit resolves the model of target and checks it matches the set's columns.
func (p *plan) admit(models Models, target string) error {
	if !p.set.HasTarget(target) {
		return fmt.Errorf("%s: target column missing: %w", target, ErrNoModel)
	}
	if models == nil {
		return fmt.Errorf("%s: %w", target, ErrNoModel)
	}
	m, ok := models.Get(target)
	if !ok {
		return fmt.Errorf("%s: %w", target, ErrNoModel)
	}
	if !slices.Equal(m.Features(), p.set.Names) {
		return fmt.Errorf("%s: model features do not match the feature set: %w", target, ErrNoModel)
	}
	p.models[target] = m
	return nil
}

// step builds day d from the origin and the days already forecast in prior.
func (p *plan) step(prior []Row, d int) (Row, error) {
	date := p.origin.Date.AddDate(0, 0, d)
	x := slices.Clone(p.origin.Values)

	for j, v := range features.TimeFeatures(date) {
		if col, ok := p.set.Column(features.TimeFeatureNames[j]); ok {
			x[col] = v
		}
	}

	for col, feat := range p.set.Features {
		switch feat.Kind {
		case features.KindExogenous:
			v, err := p.estimator.Estimate(p.set, feat.Name, d)
			if err != nil {
				return Row{}, fmt.Errorf("estimate %s: %w", feat.Name, err)
			}
			x[col] = v
		case features.KindLag:
			x[col] = p.lag(prior, feat.Source, feat.Lag, d)
		}
	}

	row := Row{
		Date:        date,
		Step:        d,
		Features:    x,
		Predictions: make(map[string]float64, len(p.targets)),
	}
	for _, target := range p.targets {
		v, err := p.models[target].Predict(x)
		if err != nil {
			return Row{}, err
		}
		row.Predictions[target] = math.Max(0, v)
	}
	return row, nil
}

// lag returns lag k of target for day d. When k ≥ d the value is observed,
// k-d rows before the origin; otherwise it is the forecast for day d-k.
// Targets without a model carry their last observation forward.
func (p *plan) lag(prior []Row, target string, k, d int) float64 {
	if k >= d {
		return p.observed(target, p.origin.Index-(k-d))
	}
	if v, ok := prior[d-k-1].Predictions[target]; ok {
		return v
	}
	return p.observed(target, p.origin.Index)
}

// observed returns the target value at frame row i, or the closest earlier
// observation when that row is missing.
func (p *plan) observed(target string, i int) float64 {
	col, _ := p.set.Frame.Numeric(target)
	for ; i >= 0; i-- {
		if !math.IsNaN(col[i]) {
			return col[i]
		}
	}
	return math.NaN()
}
