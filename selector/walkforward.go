package selector

import (
	"fmt"
)

// Split is one walk-forward fold: train on rows [0, TrainEnd), validate on
// rows [TrainEnd, TestEnd).
type Split struct {
	TrainEnd int
	TestEnd  int
}

// TestStart returns the first validation row.
func (s Split) TestStart() int {
	return s.TrainEnd
}

// TestSize returns the number of validation rows.
func (s Split) TestSize() int {
	return s.TestEnd - s.TrainEnd
}

// WalkForward partitions n chronological rows into expanding-window splits.
// Each validation block holds n/(splits+1) rows and the blocks tile the end
// of the range, so split i trains on everything before its block.
func WalkForward(n, splits int) ([]Split, error) {
	if splits < 1 {
		return nil, fmt.Errorf("splits must be positive, got %d", splits)
	}
	size := n / (splits + 1)
	if size == 0 {
		return nil, fmt.Errorf("%w: %d rows for %d splits", ErrInsufficientRows, n, splits)
	}
	out := make([]Split, splits)
	for i := range out {
		trainEnd := n - (splits-i)*size
		out[i] = Split{TrainEnd: trainEnd, TestEnd: trainEnd + size}
	}
	return out, nil
}
