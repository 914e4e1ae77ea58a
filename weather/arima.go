package weather

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/sartorproj/aqforecast/arima"
	"github.com/sartorproj/aqforecast/features"
)

// ARIMAProxy extrapolates each covariate with an ARIMA model fit on its recent
// history. One model is fit per column and set, then reused for every step.
// Columns too short for the order fall back to Fallback.
type ARIMAProxy struct {
	Order    arima.Order
	History  int
	Fallback Estimator
	// Search, when set, replaces Order with a per-column AIC search.
	Search *arima.SearchConfig

	logger *zap.Logger
	mu     sync.Mutex
	models map[modelKey]*arima.Model
}

type modelKey struct {
	set  *features.Set
	name string
}

// NewARIMAProxy returns a proxy fitting the last 90 observations of each
// column, with a SeasonalProxy fallback.
func NewARIMAProxy(order arima.Order, logger *zap.Logger) *ARIMAProxy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ARIMAProxy{
		Order:    order,
		History:  90,
		Fallback: NewSeasonalProxy(),
		logger:   logger,
		models:   make(map[modelKey]*arima.Model),
	}
}

// Estimate returns the clamped ARIMA forecast stepsAhead days out.
func (p *ARIMAProxy) Estimate(set *features.Set, name string, stepsAhead int) (float64, error) {
	if set.Frame == nil || !set.Frame.IsNumeric(name) {
		return 0, fmt.Errorf("%s: %w", name, ErrUnknownFeature)
	}
	if stepsAhead < 1 {
		return 0, fmt.Errorf("%s: steps ahead must be at least 1", name)
	}

	model, err := p.model(set, name)
	if errors.Is(err, arima.ErrInsufficientData) && p.Fallback != nil {
		p.logger.Debug("arima history too short, using fallback",
			zap.String("column", name), zap.Stringer("order", p.Order))
		return p.Fallback.Estimate(set, name, stepsAhead)
	}
	if err != nil {
		return 0, err
	}

	forecasts, err := model.Predict(stepsAhead)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return Clamp(name, forecasts[stepsAhead-1]), nil
}

func (p *ARIMAProxy) model(set *features.Set, name string) (*arima.Model, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := modelKey{set: set, name: name}
	if m, ok := p.models[key]; ok {
		return m, nil
	}

	history := set.HistorySeries(name, max(p.History, p.Order.MinObservations()))
	if history == nil || history.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoHistory)
	}

	var m *arima.Model
	if p.Search != nil {
		res, err := arima.Search(history, *p.Search)
		if err != nil {
			return nil, err
		}
		m = res.Model
		p.logger.Debug("arima order selected",
			zap.String("column", name),
			zap.Stringer("order", m.Order),
			zap.Int("evaluated", res.ModelsEvaluated),
		)
	} else {
		m = arima.NewWithOrder(p.Order)
		if err := m.Fit(history); err != nil {
			return nil, err
		}
	}
	if p.models == nil {
		p.models = make(map[modelKey]*arima.Model)
	}
	p.models[key] = m
	return m, nil
}
