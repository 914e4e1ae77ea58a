package stats

import "github.com/sartorproj/aqforecast/timeseries"

// Unit root tests accepted by NDiffs.
const (
	TestKPSS = "kpss"
	TestADF  = "adf"
)

// NDiffs returns the number of first differences, at most maxD, after which
// the series passes the stationarity test ("kpss" by default, or "adf").
// ok is false when the undifferenced series is too short for the test, in
// which case d carries no information.
func NDiffs(series *timeseries.Series, maxD int, test string) (d int, ok bool) {
	if maxD <= 0 {
		return 0, true
	}

	current := series
	for d = 0; d < maxD; d++ {
		passed, ran := checkStationary(current, test)
		if !ran {
			return d, d > 0
		}
		if passed {
			return d, true
		}
		current = current.Diff()
		if current.Len() < 10 {
			return d, true
		}
	}
	return maxD, true
}

func checkStationary(series *timeseries.Series, test string) (stationary, ran bool) {
	if test == TestADF {
		r := ADF(series, 0)
		if r == nil {
			return false, false
		}
		return r.IsStationary, true
	}
	r := KPSS(series, 0)
	if r == nil {
		return false, false
	}
	return r.IsStationary, true
}
