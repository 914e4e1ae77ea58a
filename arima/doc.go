// Package arima implements AutoRegressive Integrated Moving Average models for
// short univariate extrapolation.
//
// The forecasting pipeline uses it to project weather covariates a few days
// past the last observation when no external weather feed is available:
//
//	model := arima.New(1, 1, 0)
//	if err := model.Fit(series); err != nil {
//	    // too short for the order; fall back to another estimator
//	}
//	next, _ := model.Predict(3)
//
// Coefficients are estimated by conditional sum of squares, starting from a
// Yule-Walker solution for the AR part. Predict integrates the differenced
// forecasts back to the original scale.
//
// Search chooses the order automatically: d from a KPSS or ADF unit root test
// (see stats.NDiffs), then (p, q) stepwise by AIC.
package arima
