// Package stats provides the numeric diagnostics used during model selection.
//
// # Regression Metrics
//
// Score predictions against held-out or in-sample values:
//
//	mse := stats.MSE(actual, predicted)
//	mae := stats.MAE(actual, predicted)
//	r2 := stats.R2(actual, predicted)
//
// # Residual Diagnostics
//
// Check whether a frozen model left structure in its residuals:
//
//	// Ljung-Box test, H0: no autocorrelation up to lag 10
//	lb := stats.LjungBox(residuals, 10, 0)
//	if lb != nil && lb.PValue < 0.05 {
//	    // residuals are autocorrelated
//	}
//
//	// Durbin-Watson statistic, ~2 means no first-order autocorrelation
//	dw, ok := stats.DurbinWatson(residuals)
//
// # Autocorrelation
//
//	acf := stats.ACF(series, 20)
package stats
