// Package selector picks and freezes one regression model per pollutant target.
//
// For each target the candidates from package regress are scored by
// walk-forward cross-validation: every split trains on a chronological prefix
// of the feature rows and is scored by mean squared error on the block that
// follows it. The candidate with the lowest mean score wins, with ties going
// to the candidate listed first, and is refit on every row before being frozen
// together with its scaler into a TargetModel.
//
// Train runs all configured targets concurrently and collects the frozen
// models in a Registry:
//
//	sel, err := selector.New(selector.DefaultConfig())
//	registry, report, err := sel.Train(ctx, set)
//	for target, err := range report.Omissions {
//	    // the target has no model; forecasting will mark it unavailable
//	}
//
// A missing target column, too few rows, or a cancelled context is reported
// per target and never aborts the other targets.
package selector
