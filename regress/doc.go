// Package regress provides the regression strategies the model selector
// chooses between, together with the feature scaler they are trained behind.
//
// Every strategy satisfies Regressor, so the selector can evaluate a list of
// Candidate values uniformly:
//
//	for _, c := range regress.DefaultCandidates() {
//	    model := c.New()
//	    if err := model.Fit(X, y); err != nil {
//	        return err
//	    }
//	    yhat := model.Predict(x)
//	}
//
// Three families are shipped: a bagged forest of CART trees, gradient boosted
// shallow trees, and ordinary least squares solved through an SVD. The tree
// ensembles are deterministic for a fixed seed regardless of how many
// goroutines fit them.
package regress
