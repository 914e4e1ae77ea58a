package stats

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// LjungBoxResult represents the result of a Ljung-Box test.
type LjungBoxResult struct {
	Statistic float64 `json:"statistic" yaml:"statistic"`
	PValue    float64 `json:"p_value" yaml:"p_value"`
	Lags      int     `json:"lags" yaml:"lags"`
	DOF       int     `json:"dof" yaml:"dof"`
}

// LjungBox tests residuals for autocorrelation up to the given lag.
// The null hypothesis is no autocorrelation; a p-value below 0.05 rejects it.
// fitdf is the number of estimated parameters subtracted from the degrees of freedom.
// It returns nil for fewer than 10 residuals or constant residuals.
func LjungBox(residuals []float64, lags, fitdf int) *LjungBoxResult {
	n := len(residuals)
	if n < 10 || lags < 1 {
		return nil
	}
	if lags >= n {
		lags = n - 1
	}

	acf := autocorrelation(residuals, lags)
	if acf == nil {
		return nil
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += (acf[k] * acf[k]) / float64(n-k)
	}
	q *= float64(n * (n + 2))

	dof := max(lags-fitdf, 1)
	chi := distuv.ChiSquared{K: float64(dof)}

	return &LjungBoxResult{
		Statistic: q,
		PValue:    chi.Survival(q),
		Lags:      lags,
		DOF:       dof,
	}
}

// DurbinWatson returns the Durbin-Watson statistic of the residuals.
// Values near 2 mean no first-order autocorrelation, below 2 positive, above 2 negative.
// ok is false for fewer than two residuals or all-zero residuals.
func DurbinWatson(residuals []float64) (statistic float64, ok bool) {
	if len(residuals) < 2 {
		return 0, false
	}

	numerator := 0.0
	for i := 1; i < len(residuals); i++ {
		diff := residuals[i] - residuals[i-1]
		numerator += diff * diff
	}

	denominator := 0.0
	for _, r := range residuals {
		denominator += r * r
	}
	if denominator == 0 {
		return 0, false
	}
	return numerator / denominator, true
}
