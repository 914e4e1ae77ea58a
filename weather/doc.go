// Package weather estimates exogenous covariates for days past the last
// observation.
//
// The forecaster depends only on the Estimator interface. SeasonalProxy is the
// stock deterministic stand-in; ARIMAProxy extrapolates each covariate with a
// small ARIMA model; Func adapts any function, such as a client for a live
// weather forecast service.
package weather
