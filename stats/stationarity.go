package stats

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/aqforecast/timeseries"
)

// Critical values at 5% for the constant-only regressions.
const (
	adfCritical5  = -2.86
	kpssCritical5 = 0.463
)

// ADFResult represents the result of an Augmented Dickey-Fuller test.
type ADFResult struct {
	Statistic    float64
	PValue       float64
	Lags         int
	NObs         int
	IsStationary bool
}

// ADF performs the Augmented Dickey-Fuller test for a unit root with a constant.
// The null hypothesis is a unit root; a statistic below the 5% critical value
// rejects it. maxLag <= 0 selects floor((n-1)^(1/3)) lagged differences.
// It returns nil for short series or a singular regression.
func ADF(series *timeseries.Series, maxLag int) *ADFResult {
	n := series.Len()
	if n < 10 {
		return nil
	}
	if maxLag <= 0 {
		maxLag = int(math.Floor(math.Pow(float64(n-1), 1.0/3.0)))
	}
	if maxLag >= n-1 {
		maxLag = n - 2
	}

	diff := series.Diff()
	nObs := n - maxLag - 1
	if nObs < 10 {
		return nil
	}

	// delta_y_t = alpha + beta*y_{t-1} + sum(gamma_i * delta_y_{t-i})
	y := make([]float64, nObs)
	x := mat.NewDense(nObs, 2+maxLag, nil)
	for i := range nObs {
		t := i + maxLag
		y[i] = diff.Values[t]
		x.Set(i, 0, 1)
		x.Set(i, 1, series.Values[t])
		for j := 1; j <= maxLag; j++ {
			x.Set(i, 1+j, diff.Values[t-j])
		}
	}

	coeffs, se, ok := ols(x, y)
	if !ok || se[1] == 0 {
		return nil
	}
	tStat := coeffs[1] / se[1]

	return &ADFResult{
		Statistic:    tStat,
		PValue:       mackinnonPValue(tStat),
		Lags:         maxLag,
		NObs:         nObs,
		IsStationary: tStat < adfCritical5,
	}
}

// KPSSResult represents the result of a level-stationarity KPSS test.
type KPSSResult struct {
	Statistic    float64
	PValue       float64
	Lags         int
	IsStationary bool
}

// KPSS performs the Kwiatkowski-Phillips-Schmidt-Shin test around a constant.
// The null hypothesis is stationarity; a statistic above the 5% critical
// value rejects it. nlags <= 0 selects ceil(12·(n/100)^(1/4)) Bartlett lags.
func KPSS(series *timeseries.Series, nlags int) *KPSSResult {
	n := series.Len()
	if n < 10 {
		return nil
	}
	if nlags <= 0 {
		nlags = int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
	}
	nlags = min(nlags, n-1)

	mean := series.Mean()
	residuals := make([]float64, n)
	for i, v := range series.Values {
		residuals[i] = v - mean
	}

	// Newey-West long-run variance
	s2 := 0.0
	for _, r := range residuals {
		s2 += r * r
	}
	s2 /= float64(n)
	for l := 1; l <= nlags; l++ {
		cov := 0.0
		for i := l; i < n; i++ {
			cov += residuals[i] * residuals[i-l]
		}
		cov /= float64(n)
		s2 += 2 * (1 - float64(l)/float64(nlags+1)) * cov
	}
	if s2 <= 0 {
		s2 = 1e-10
	}

	eta, partial := 0.0, 0.0
	for _, r := range residuals {
		partial += r
		eta += partial * partial
	}
	statistic := eta / (float64(n) * float64(n) * s2)

	return &KPSSResult{
		Statistic:    statistic,
		PValue:       kpssPValue(statistic),
		Lags:         nlags,
		IsStationary: statistic <= kpssCritical5,
	}
}

// ols returns least-squares coefficients and their standard errors.
// ok is false when X'X is singular or there are no residual degrees of freedom.
func ols(x *mat.Dense, y []float64) (coeffs, stdErrors []float64, ok bool) {
	n, k := x.Dims()
	if n <= k {
		return nil, nil, false
	}

	var xtx, inv mat.Dense
	xtx.Mul(x.T(), x)
	if err := inv.Inverse(&xtx); err != nil {
		return nil, nil, false
	}

	yv := mat.NewVecDense(n, y)
	var xty, beta, fitted mat.VecDense
	xty.MulVec(x.T(), yv)
	beta.MulVec(&inv, &xty)
	fitted.MulVec(x, &beta)

	sse := 0.0
	for i := range n {
		r := y[i] - fitted.AtVec(i)
		sse += r * r
	}
	s2 := sse / float64(n-k)

	coeffs = make([]float64, k)
	stdErrors = make([]float64, k)
	for i := range k {
		coeffs[i] = beta.AtVec(i)
		stdErrors[i] = math.Sqrt(s2 * inv.At(i, i))
	}
	return coeffs, stdErrors, true
}

// mackinnonPValue maps an ADF statistic onto a coarse p-value from the
// asymptotic MacKinnon critical values.
func mackinnonPValue(stat float64) float64 {
	switch {
	case stat < -3.96:
		return 0.001
	case stat < -3.43:
		return 0.01
	case stat < adfCritical5:
		return 0.05
	case stat < -2.57:
		return 0.10
	case stat < -1.94:
		return 0.25
	case stat < -1.62:
		return 0.50
	default:
		return math.Min(0.5+(stat+1.62)*0.25, 0.99)
	}
}

// kpssPValue maps a KPSS statistic onto a coarse p-value from the level
// stationarity critical values.
func kpssPValue(stat float64) float64 {
	switch {
	case stat > 0.739:
		return 0.01
	case stat > kpssCritical5:
		return 0.05
	case stat > 0.347:
		return 0.10
	default:
		return 0.10 + (0.347-stat)*0.5
	}
}
