// Package features turns a daily observation frame into the numeric matrix the
// pollutant models are trained on.
//
// Every derived column at row i is computed from frame rows at or before i:
// calendar encodings of the row date, lagged target values, trailing rolling
// statistics, categorical codes, exogenous covariates and auxiliary pollutant
// channels. Rows that lack the history a lag or window needs are dropped, never
// filled.
//
//	builder := features.NewBuilder(features.DefaultConfig())
//	set, err := builder.Build(frame)
//	X, y := set.TrainingData("PM2.5")
//
// Categorical code tables are fit once by Build and travel with the Set so
// inference can reuse them through Transform.
package features
