package selector

import (
	"github.com/sartorproj/aqforecast/regress"
)

// Config holds configuration for model selection.
type Config struct {
	Splits               int             `mapstructure:"splits" yaml:"splits" validate:"gte=2"`
	Candidates           []string        `mapstructure:"candidates" yaml:"candidates"`
	Options              regress.Options `mapstructure:"options" yaml:"options"`
	Parallelism          int             `mapstructure:"parallelism" yaml:"parallelism" validate:"gte=0"`                     // targets trained at once, 0 means GOMAXPROCS
	CandidateParallelism int             `mapstructure:"candidate_parallelism" yaml:"candidate_parallelism" validate:"gte=0"` // folds evaluated at once per target
	DiagnosticLags       int             `mapstructure:"diagnostic_lags" yaml:"diagnostic_lags" validate:"gte=1"`
}

// DefaultConfig returns three splits over the default candidate trio.
func DefaultConfig() *Config {
	return &Config{
		Splits:         3,
		Options:        regress.DefaultOptions(),
		DiagnosticLags: 10,
	}
}
