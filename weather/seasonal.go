package weather

import (
	"fmt"
	"math"

	"github.com/sartorproj/aqforecast/features"
)

// DefaultBaselineWindow is the number of recent observations averaged into the baseline.
const DefaultBaselineWindow = 7

// SeasonalProxy adds a yearly sinusoid to the recent mean of each covariate.
type SeasonalProxy struct {
	Window int
}

// NewSeasonalProxy returns a proxy averaging the last 7 observations.
func NewSeasonalProxy() *SeasonalProxy {
	return &SeasonalProxy{Window: DefaultBaselineWindow}
}

// amplitudes scale the seasonal term per covariate.
var amplitudes = map[string]float64{
	"temperature": 5,
	"humidity":    10,
	"wind_speed":  2,
	"pressure":    2,
}

// Estimate returns baseline + amplitude·sin(2π·(doy+steps)/365) where doy is
// the day of year of the last row. Precipitation is damped to 0.8·baseline
// instead, and columns without an amplitude keep the baseline.
func (p *SeasonalProxy) Estimate(set *features.Set, name string, stepsAhead int) (float64, error) {
	if set.Frame == nil || !set.Frame.IsNumeric(name) {
		return 0, fmt.Errorf("%s: %w", name, ErrUnknownFeature)
	}
	last, ok := set.Last()
	if !ok {
		return 0, fmt.Errorf("%s: %w", name, ErrNoHistory)
	}
	window := p.Window
	if window <= 0 {
		window = DefaultBaselineWindow
	}
	history := set.History(name, window)
	if len(history) == 0 {
		return 0, fmt.Errorf("%s: %w", name, ErrNoHistory)
	}

	baseline := 0.0
	for _, v := range history {
		baseline += v
	}
	baseline /= float64(len(history))

	if name == "precipitation" {
		return Clamp(name, 0.8*baseline), nil
	}
	seasonal := math.Sin(2 * math.Pi * float64(last.Date.YearDay()+stepsAhead) / 365)
	return Clamp(name, baseline+amplitudes[name]*seasonal), nil
}
