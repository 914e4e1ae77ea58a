// Package timeseries provides the date-indexed data structures the forecasting
// pipeline is built on.
//
// # Frames
//
// A Frame is a daily observation table stored column-wise. Numeric columns hold
// pollutant, weather and auxiliary readings (NaN marks a gap); categorical
// columns hold region and site labels:
//
//	frame := timeseries.NewFrame(dates)
//	frame.SetNumeric("PM2.5", pm25)
//	frame.SetCategorical("City", cities)
//	if err := frame.Validate(); err != nil {
//	    // dates are not strictly increasing
//	}
//
// # Loading from CSV
//
//	frame, err := timeseries.LoadFrame("air_quality.csv", nil)
//
// Columns whose non-null cells all parse as numbers are numeric; the rest are
// categorical unless forced through CSVOptions.Categorical.
//
// # Windows
//
// Lag and rolling helpers are strictly backward looking and mark positions
// without enough history as NaN rather than zero:
//
//	lag7 := timeseries.Lag(values, 7)
//	mean3 := timeseries.RollingMean(values, 3) // includes the current row
//
// # Series
//
// Series is a single numeric column with timestamps, used by the ARIMA fitter
// and the residual diagnostics in package stats.
package timeseries
