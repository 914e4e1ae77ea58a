package features

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"go.uber.org/zap"

	"github.com/sartorproj/aqforecast/timeseries"
)

// ErrEmptyFrame is returned when the frame has no rows.
var ErrEmptyFrame = errors.New("frame has no rows")

var rollingStats = []struct {
	name string
	fn   func([]float64, int) []float64
}{
	{"mean", timeseries.RollingMean},
	{"std", timeseries.RollingStd},
	{"max", timeseries.RollingMax},
	{"min", timeseries.RollingMin},
}

// Builder derives feature sets from frames.
type Builder struct {
	config *Config
	logger *zap.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) {
		b.logger = l
	}
}

// NewBuilder creates a builder. A nil config selects DefaultConfig.
func NewBuilder(cfg *Config, opts ...Option) *Builder {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	b := &Builder{config: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Config returns the builder configuration.
func (b *Builder) Config() *Config {
	return b.config
}

// Build fits categorical encoders on frame and derives its feature set.
func (b *Builder) Build(frame *timeseries.Frame) (*Set, error) {
	if frame == nil || frame.Len() == 0 {
		return nil, ErrEmptyFrame
	}
	encoders := make(map[string]*Encoder)
	for _, name := range b.config.Categorical {
		if values, ok := categoricalColumn(frame, name); ok {
			encoders[name] = FitEncoder(name, values)
		}
	}
	return b.Transform(frame, encoders)
}

// Transform derives the feature set of frame using previously fit encoders.
// Categorical columns without an encoder are left out so the feature list
// matches the one the encoders were fit with.
func (b *Builder) Transform(frame *timeseries.Frame, encoders map[string]*Encoder) (*Set, error) {
	if frame == nil || frame.Len() == 0 {
		return nil, ErrEmptyFrame
	}
	if err := frame.Validate(); err != nil {
		return nil, fmt.Errorf("build features: %w", err)
	}

	n := frame.Len()
	set := &Set{
		Encoders: encoders,
		Frame:    frame,
		Config:   b.config,
		index:    make(map[string]int),
	}
	var columns [][]float64
	add := func(f Feature, values []float64) {
		set.index[f.Name] = len(set.Names)
		set.Names = append(set.Names, f.Name)
		set.Features = append(set.Features, f)
		columns = append(columns, values)
	}

	timeCols := make([][]float64, len(TimeFeatureNames))
	for j := range timeCols {
		timeCols[j] = make([]float64, n)
	}
	for i, d := range frame.Dates() {
		for j, v := range TimeFeatures(d) {
			timeCols[j][i] = v
		}
	}
	for j, name := range TimeFeatureNames {
		add(Feature{Name: name, Kind: KindTime}, timeCols[j])
	}

	for _, name := range b.config.Exogenous {
		col, ok := frame.Numeric(name)
		if !ok {
			if frame.Has(name) {
				b.logger.Warn("skipping non-numeric exogenous column", zap.String("column", name))
			}
			continue
		}
		add(Feature{Name: name, Kind: KindExogenous, Source: name}, col)
	}

	for _, name := range b.config.Categorical {
		values, ok := categoricalColumn(frame, name)
		if !ok {
			continue
		}
		enc, ok := encoders[name]
		if !ok {
			continue
		}
		codes := make([]float64, n)
		for i, v := range values {
			code, err := enc.Code(v)
			if err != nil {
				return nil, fmt.Errorf("row %s: %w", frame.Date(i).Format("2006-01-02"), err)
			}
			codes[i] = float64(code)
		}
		add(Feature{Name: name, Kind: KindCategorical, Source: name}, codes)
	}

	for _, target := range b.config.Targets {
		col, ok := frame.Numeric(target)
		if !ok {
			set.MissingTargets = append(set.MissingTargets, target)
			b.logger.Warn("target column missing", zap.String("target", target))
			continue
		}
		set.Targets = append(set.Targets, target)
		for _, k := range b.config.Lags {
			add(Feature{Name: LagName(target, k), Kind: KindLag, Source: target, Lag: k}, timeseries.Lag(col, k))
		}
		for _, w := range b.config.Windows {
			for _, st := range rollingStats {
				add(Feature{
					Name:   RollingName(target, st.name, w),
					Kind:   KindRolling,
					Source: target,
					Window: w,
					Stat:   st.name,
				}, st.fn(col, w))
			}
		}
	}

	for _, name := range b.config.Auxiliary {
		col, ok := frame.Numeric(name)
		if !ok {
			continue
		}
		add(Feature{Name: name, Kind: KindAuxiliary, Source: name}, col)
	}

	for i := 0; i < n; i++ {
		values := make([]float64, len(columns))
		complete := true
		for j, col := range columns {
			if math.IsNaN(col[i]) {
				complete = false
				break
			}
			values[j] = col[i]
		}
		if !complete {
			set.Dropped++
			continue
		}
		row := Row{
			Date:    frame.Date(i),
			Index:   i,
			Values:  values,
			Targets: make(map[string]float64, len(set.Targets)),
		}
		for _, target := range set.Targets {
			col, _ := frame.Numeric(target)
			row.Targets[target] = col[i]
		}
		set.Rows = append(set.Rows, row)
	}

	b.logger.Debug("built feature set",
		zap.Int("features", len(set.Names)),
		zap.Int("rows", len(set.Rows)),
		zap.Int("dropped", set.Dropped),
		zap.Strings("targets", set.Targets),
		zap.Strings("missing_targets", set.MissingTargets),
	)
	return set, nil
}

// LagName is the feature name of lag k of target.
func LagName(target string, k int) string {
	return target + "_lag_" + strconv.Itoa(k)
}

// RollingName is the feature name of a rolling statistic of target.
func RollingName(target, stat string, w int) string {
	return target + "_rolling_" + stat + "_" + strconv.Itoa(w)
}

// categoricalColumn returns a column as strings. Numeric columns are formatted
// so codes such as station numbers can still be used as categories.
func categoricalColumn(frame *timeseries.Frame, name string) ([]string, bool) {
	if values, ok := frame.Categorical(name); ok {
		return values, true
	}
	col, ok := frame.Numeric(name)
	if !ok {
		return nil, false
	}
	values := make([]string, len(col))
	for i, v := range col {
		values[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return values, true
}
