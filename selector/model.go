package selector

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/sartorproj/aqforecast/regress"
)

// TargetModel is the frozen result of selection for one target. All state is
// set at construction and never changes.
type TargetModel struct {
	target   string
	name     string
	model    regress.Regressor
	scaler   *regress.StandardScaler
	features []string
	runID    uuid.UUID
	rows     int
}

// Target returns the target the model predicts.
func (m *TargetModel) Target() string { return m.target }

// Name returns the winning candidate name.
func (m *TargetModel) Name() string { return m.name }

// Features returns the ordered feature names the model expects.
func (m *TargetModel) Features() []string { return slices.Clone(m.features) }

// RunID identifies the training run that produced the model.
func (m *TargetModel) RunID() uuid.UUID { return m.runID }

// Rows returns the number of rows the model was refit on.
func (m *TargetModel) Rows() int { return m.rows }

// Predict scales x with the frozen scaler and applies the model.
func (m *TargetModel) Predict(x []float64) (float64, error) {
	scaled, err := m.scaler.Transform(x)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", m.target, err)
	}
	return m.model.Predict(scaled), nil
}
