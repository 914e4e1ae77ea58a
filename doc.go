// Package aqforecast forecasts daily concentrations of several air pollutants.
//
// For each pollutant it builds lag, rolling and calendar features from a daily
// observation table, chooses the best of several regressors by walk-forward
// cross-validation, and forecasts the coming days recursively: every predicted
// day becomes lag input for the next, while weather covariates are projected
// by a seasonal or ARIMA proxy.
//
// # Packages
//
//   - timeseries: date-indexed frames, CSV loading, lag and rolling helpers
//   - ingest: cleaning, weather merge and synthetic demo data
//   - features: the feature builder and the resulting feature set
//   - regress: linear, tree, random forest and gradient boosting regressors
//   - selector: walk-forward cross-validation and the model registry
//   - weather: covariate proxies for forecast days
//   - arima: ARIMA models used by the weather proxy
//   - forecast: the recursive multi-day forecaster
//   - report: AQI categories and text, CSV, JSON and YAML output
//   - stats: error metrics and residual diagnostics
//
// # Quick Start
//
//	frame, _ := ingest.Load("data.csv", nil)
//	frame, _ = ingest.SyntheticWeather(frame, 42)
//	set, _ := features.NewBuilder(nil).Build(frame)
//
//	sel, _ := selector.New(nil)
//	models, _, _ := sel.Train(ctx, set)
//
//	result, _ := forecast.New(models, nil).Forecast(ctx, set, 3)
//	report.WriteForecast(os.Stdout, result, result.Targets(set.Config.Targets))
//
// The aqforecast command in cmd/aqforecast wraps the same steps.
package aqforecast
