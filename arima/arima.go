package arima

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/aqforecast/stats"
	"github.com/sartorproj/aqforecast/timeseries"
)

var (
	// ErrInsufficientData is returned when the series is too short for the order.
	ErrInsufficientData = errors.New("insufficient data points for the specified order")
	// ErrNotFitted is returned by Predict before a successful Fit.
	ErrNotFitted = errors.New("model must be fitted before prediction")
)

// Order represents ARIMA model order (p, d, q).
type Order struct {
	P int `mapstructure:"p" yaml:"p"` // AR order
	D int `mapstructure:"d" yaml:"d"` // Differencing order
	Q int `mapstructure:"q" yaml:"q"` // MA order
}

func (o Order) String() string {
	return fmt.Sprintf("ARIMA(%d,%d,%d)", o.P, o.D, o.Q)
}

// MinObservations is the shortest series Fit accepts for the order.
func (o Order) MinObservations() int {
	return o.P + o.D + o.Q + 10
}

// Model represents an ARIMA model fitted by conditional sum of squares.
type Model struct {
	Order     Order
	ARCoeffs  []float64 // phi
	MACoeffs  []float64 // theta
	Intercept float64   // mean of the differenced series
	Variance  float64   // residual variance
	AIC       float64
	fitted    bool
	tails     []float64 // last value of each differencing level, outermost first
	diffed    []float64
	residuals []float64
}

// New creates a new ARIMA model with the specified order.
func New(p, d, q int) *Model {
	return &Model{Order: Order{P: p, D: d, Q: q}}
}

// NewWithOrder creates a new ARIMA model from an Order.
func NewWithOrder(o Order) *Model {
	return New(o.P, o.D, o.Q)
}

// Fit estimates the model on the series. NaN values are dropped first.
func (m *Model) Fit(series *timeseries.Series) error {
	clean := series.DropNaN()
	if clean.Len() < m.Order.MinObservations() {
		return ErrInsufficientData
	}

	m.tails = make([]float64, 0, m.Order.D)
	level := clean
	for i := 0; i < m.Order.D; i++ {
		m.tails = append(m.tails, level.Values[level.Len()-1])
		level = level.Diff()
	}
	m.diffed = level.Values

	m.ARCoeffs = make([]float64, m.Order.P)
	m.MACoeffs = make([]float64, m.Order.Q)
	m.Intercept = stat.Mean(m.diffed, nil)

	if m.Order.P > 0 {
		if acf := stats.ACF(level, m.Order.P); acf != nil {
			copy(m.ARCoeffs, levinsonDurbin(acf, m.Order.P))
		}
	}
	for i := range m.MACoeffs {
		m.MACoeffs[i] = 0.1
	}

	m.optimize()
	m.residuals = m.cssResiduals()

	start := max(m.Order.P, m.Order.Q)
	sse := 0.0
	for _, r := range m.residuals[start:] {
		sse += r * r
	}
	count := len(m.residuals) - start
	k := m.Order.P + m.Order.Q + 1
	if count > k {
		m.Variance = sse / float64(count-k)
	} else {
		m.Variance = sse / float64(max(count, 1))
	}

	n := float64(len(m.residuals))
	if m.Variance > 0 {
		logLik := -n/2*math.Log(2*math.Pi) - n/2*math.Log(m.Variance) - sse/(2*m.Variance)
		m.AIC = -2*logLik + 2*float64(k)
	} else {
		m.AIC = math.Inf(-1)
	}

	m.fitted = true
	return nil
}

// cssResiduals returns one-step residuals of the differenced series under the current coefficients.
func (m *Model) cssResiduals() []float64 {
	y := m.diffed
	residuals := make([]float64, len(y))
	start := max(m.Order.P, m.Order.Q)
	for t := range y {
		if t < start {
			residuals[t] = y[t] - m.Intercept
			continue
		}
		residuals[t] = y[t] - m.onestep(y, residuals, t)
	}
	return residuals
}

func (m *Model) onestep(y, residuals []float64, t int) float64 {
	pred := m.Intercept
	for i, phi := range m.ARCoeffs {
		if t-i-1 >= 0 {
			pred += phi * (y[t-i-1] - m.Intercept)
		}
	}
	for i, theta := range m.MACoeffs {
		if t-i-1 >= 0 && t-i-1 < len(residuals) {
			pred += theta * residuals[t-i-1]
		}
	}
	return pred
}

// optimize refines the coefficients by projected gradient descent on the CSS objective.
func (m *Model) optimize() {
	if m.Order.P == 0 && m.Order.Q == 0 {
		return
	}

	const (
		maxIter      = 100
		tolerance    = 1e-6
		learningRate = 0.01
	)

	y := m.diffed
	n := float64(len(y))
	start := max(m.Order.P, m.Order.Q)
	prev := math.Inf(1)

	for iter := 0; iter < maxIter; iter++ {
		residuals := m.cssResiduals()

		arGrad := make([]float64, m.Order.P)
		maGrad := make([]float64, m.Order.Q)
		for t := start; t < len(y); t++ {
			for i := range arGrad {
				arGrad[i] -= 2 * residuals[t] * (y[t-i-1] - m.Intercept)
			}
			for i := range maGrad {
				maGrad[i] -= 2 * residuals[t] * residuals[t-i-1]
			}
		}

		floats.AddScaled(m.ARCoeffs, -learningRate/n, arGrad)
		floats.AddScaled(m.MACoeffs, -learningRate/n, maGrad)
		clampUnit(m.ARCoeffs)
		clampUnit(m.MACoeffs)

		sse := 0.0
		for _, r := range m.cssResiduals()[start:] {
			sse += r * r
		}
		if math.Abs(prev-sse) < tolerance {
			break
		}
		prev = sse
	}
}

// clampUnit bounds coefficients to (-0.99, 0.99) to keep the model stationary and invertible.
func clampUnit(coeffs []float64) {
	for i, c := range coeffs {
		coeffs[i] = math.Max(-0.99, math.Min(0.99, c))
	}
}

// Predict generates forecasts for the specified number of steps ahead on the original scale.
func (m *Model) Predict(steps int) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	if steps < 1 {
		return nil, errors.New("steps must be at least 1")
	}

	n := len(m.diffed)
	y := make([]float64, n+steps)
	copy(y, m.diffed)
	residuals := make([]float64, n+steps)
	copy(residuals, m.residuals)

	for t := n; t < n+steps; t++ {
		y[t] = m.onestep(y, residuals, t)
	}

	forecasts := y[n:]
	for i := len(m.tails) - 1; i >= 0; i-- {
		forecasts = integrate(forecasts, m.tails[i])
	}
	return forecasts, nil
}

// integrate undoes one level of differencing starting from the last observed level value.
func integrate(diffs []float64, last float64) []float64 {
	out := make([]float64, len(diffs))
	acc := last
	for i, d := range diffs {
		acc += d
		out[i] = acc
	}
	return out
}

// Residuals returns a copy of the in-sample residuals on the differenced scale.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	return append([]float64(nil), m.residuals...)
}

// levinsonDurbin solves the Yule-Walker equations for AR coefficients.
func levinsonDurbin(acf []float64, order int) []float64 {
	if order <= 0 || len(acf) <= order {
		return nil
	}

	phi := make([]float64, order)
	phi[0] = acf[1]
	v := 1 - phi[0]*phi[0]

	for i := 1; i < order; i++ {
		if v <= 0 {
			break
		}
		lambda := acf[i+1]
		for j := 0; j < i; j++ {
			lambda -= phi[j] * acf[i-j]
		}
		lambda /= v

		next := make([]float64, i+1)
		for j := 0; j < i; j++ {
			next[j] = phi[j] - lambda*phi[i-1-j]
		}
		next[i] = lambda
		copy(phi, next)

		v *= 1 - lambda*lambda
	}
	clampUnit(phi)
	return phi
}
