// Package forecast produces multi-day pollutant forecasts by recursion.
//
// Day d is built from the last complete feature row (the origin): calendar
// encodings come from the new date, exogenous covariates from a
// weather.Estimator, and target lags either from observed history or, once the
// lag reaches into the horizon, from the predictions of earlier days. Each day
// is an immutable Row appended to a fresh slice, so earlier days are never
// rewritten.
//
// Rolling statistics, categorical codes and auxiliary channels stay at their
// origin values for the whole horizon.
package forecast
