package timeseries

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLag(t *testing.T) {
	values := []float64{10, 11, 12, 13, 14, 15}

	tests := []struct {
		name string
		k    int
	}{
		{"lag1", 1},
		{"lag2", 2},
		{"lag5", 5},
		{"longer than series", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Lag(values, tt.k)
			require.Len(t, out, len(values))
			for i := range out {
				if i < tt.k {
					assert.True(t, math.IsNaN(out[i]), "index %d should be missing", i)
					continue
				}
				assert.Equal(t, values[i-tt.k], out[i])
			}
		})
	}
}

func TestRollingMean(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7}
	out := RollingMean(values, 3)

	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
	for i := 2; i < len(values); i++ {
		expected := (values[i-2] + values[i-1] + values[i]) / 3
		assert.InDelta(t, expected, out[i], 1e-12)
	}
}

func TestRollingStd(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	out := RollingStd(values, len(values))

	for i := 0; i < len(values)-1; i++ {
		assert.True(t, math.IsNaN(out[i]))
	}
	assert.InDelta(t, math.Sqrt(4.571428571428571), out[len(values)-1], 1e-10)

	assert.True(t, math.IsNaN(RollingStd(values, 1)[3]))
}

func TestRollingMaxMin(t *testing.T) {
	values := []float64{5, 2, 8, 1, 9, 3}
	maxes := RollingMax(values, 3)
	mins := RollingMin(values, 3)

	assert.Equal(t, []float64{8, 8, 9, 9}, maxes[2:])
	assert.Equal(t, []float64{2, 1, 1, 1}, mins[2:])
	for i := 2; i < len(values); i++ {
		assert.GreaterOrEqual(t, maxes[i], mins[i])
	}
}

func TestRollingPropagatesNaN(t *testing.T) {
	values := []float64{1, math.NaN(), 3, 4, 5}
	out := RollingMean(values, 2)

	assert.True(t, math.IsNaN(out[1]))
	assert.True(t, math.IsNaN(out[2]))
	assert.InDelta(t, 3.5, out[3], 1e-12)
}
