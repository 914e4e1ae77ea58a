package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sartorproj/aqforecast/arima"
	"github.com/sartorproj/aqforecast/features"
	"github.com/sartorproj/aqforecast/selector"
	"github.com/sartorproj/aqforecast/timeseries"
	"github.com/sartorproj/aqforecast/weather"
)

// EnvPrefix prefixes every environment override, e.g. AQF_FORECAST_HORIZON.
const EnvPrefix = "AQF"

// Config is the full application configuration.
type Config struct {
	Environment string          `mapstructure:"environment" yaml:"environment" validate:"oneof=development production"`
	LogLevel    string          `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	Data        DataConfig      `mapstructure:"data" yaml:"data"`
	Features    features.Config `mapstructure:"features" yaml:"features"`
	Selection   selector.Config `mapstructure:"selection" yaml:"selection"`
	Weather     WeatherConfig   `mapstructure:"weather" yaml:"weather"`
	Forecast    ForecastConfig  `mapstructure:"forecast" yaml:"forecast"`
	Metrics     MetricsConfig   `mapstructure:"metrics" yaml:"metrics"`
}

// DataConfig describes the observation CSV layout.
type DataConfig struct {
	Input      string `mapstructure:"input" yaml:"input"`
	Weather    string `mapstructure:"weather" yaml:"weather"`
	DateColumn string `mapstructure:"date_column" yaml:"date_column" validate:"required"`
	DateFormat string `mapstructure:"date_format" yaml:"date_format"`
	Seed       uint64 `mapstructure:"seed" yaml:"seed"`
}

// WeatherConfig selects and tunes the estimator for future weather covariates.
type WeatherConfig struct {
	Estimator string             `mapstructure:"estimator" yaml:"estimator" validate:"oneof=seasonal arima auto_arima"`
	Window    int                `mapstructure:"window" yaml:"window" validate:"gte=1"`
	Order     arima.Order        `mapstructure:"order" yaml:"order"`
	Search    arima.SearchConfig `mapstructure:"search" yaml:"search"`
	History   int                `mapstructure:"history" yaml:"history" validate:"gte=1"`
}

// ForecastConfig controls the horizon and where the forecast is written.
type ForecastConfig struct {
	Horizon int    `mapstructure:"horizon" yaml:"horizon" validate:"gte=1,lte=30"`
	Output  string `mapstructure:"output" yaml:"output"`
	Format  string `mapstructure:"format" yaml:"format" validate:"oneof=csv json"`
	Places  int32  `mapstructure:"places" yaml:"places" validate:"gte=0,lte=6"`
}

// MetricsConfig names the optional Prometheus textfile output.
type MetricsConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Environment: "development",
		LogLevel:    "info",
		Data: DataConfig{
			DateColumn: "Date",
			DateFormat: "2006-01-02",
			Seed:       42,
		},
		Features:  *features.DefaultConfig(),
		Selection: *selector.DefaultConfig(),
		Weather: WeatherConfig{
			Estimator: "seasonal",
			Window:    7,
			Order:     arima.Order{P: 1, D: 1, Q: 0},
			Search:    arima.DefaultSearchConfig(),
			History:   90,
		},
		Forecast: ForecastConfig{
			Horizon: 3,
			Output:  "pollution_forecast.csv",
			Format:  "csv",
			Places:  2,
		},
	}
}

// Load reads configuration. An empty path searches for aqforecast.yaml in the
// working directory and ./configs; a missing file there is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("aqforecast")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("invalid config: %s fails %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// CSVOptions returns loader options for the configured date column.
func (d DataConfig) CSVOptions() *timeseries.CSVOptions {
	opts := timeseries.DefaultCSVOptions()
	opts.DateColumn = d.DateColumn
	if d.DateFormat != "" {
		opts.DateFormat = d.DateFormat
	}
	return opts
}

// NewEstimator builds the configured covariate estimator.
func (w WeatherConfig) NewEstimator(logger *zap.Logger) (weather.Estimator, error) {
	switch w.Estimator {
	case "seasonal":
		return &weather.SeasonalProxy{Window: w.Window}, nil
	case "arima", "auto_arima":
		p := weather.NewARIMAProxy(w.Order, logger)
		p.History = w.History
		p.Fallback = &weather.SeasonalProxy{Window: w.Window}
		if w.Estimator == "auto_arima" {
			search := w.Search
			p.Search = &search
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown weather estimator %q", w.Estimator)
	}
}

// setDefaults registers every leaf key so environment overrides apply to them.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("environment", d.Environment)
	v.SetDefault("log_level", d.LogLevel)

	v.SetDefault("data.input", d.Data.Input)
	v.SetDefault("data.weather", d.Data.Weather)
	v.SetDefault("data.date_column", d.Data.DateColumn)
	v.SetDefault("data.date_format", d.Data.DateFormat)
	v.SetDefault("data.seed", d.Data.Seed)

	v.SetDefault("features.targets", d.Features.Targets)
	v.SetDefault("features.exogenous", d.Features.Exogenous)
	v.SetDefault("features.categorical", d.Features.Categorical)
	v.SetDefault("features.auxiliary", d.Features.Auxiliary)
	v.SetDefault("features.lags", d.Features.Lags)
	v.SetDefault("features.windows", d.Features.Windows)

	s := d.Selection
	v.SetDefault("selection.splits", s.Splits)
	v.SetDefault("selection.candidates", s.Candidates)
	v.SetDefault("selection.parallelism", s.Parallelism)
	v.SetDefault("selection.candidate_parallelism", s.CandidateParallelism)
	v.SetDefault("selection.diagnostic_lags", s.DiagnosticLags)
	v.SetDefault("selection.options.forest.trees", s.Options.Forest.Trees)
	v.SetDefault("selection.options.forest.bootstrap", s.Options.Forest.Bootstrap)
	v.SetDefault("selection.options.forest.seed", s.Options.Forest.Seed)
	v.SetDefault("selection.options.forest.parallelism", s.Options.Forest.Parallelism)
	v.SetDefault("selection.options.forest.tree.max_depth", s.Options.Forest.Tree.MaxDepth)
	v.SetDefault("selection.options.forest.tree.min_samples_split", s.Options.Forest.Tree.MinSamplesSplit)
	v.SetDefault("selection.options.forest.tree.min_samples_leaf", s.Options.Forest.Tree.MinSamplesLeaf)
	v.SetDefault("selection.options.forest.tree.max_features", s.Options.Forest.Tree.MaxFeatures)
	v.SetDefault("selection.options.boosting.stages", s.Options.Boosting.Stages)
	v.SetDefault("selection.options.boosting.learning_rate", s.Options.Boosting.LearningRate)
	v.SetDefault("selection.options.boosting.subsample", s.Options.Boosting.Subsample)
	v.SetDefault("selection.options.boosting.seed", s.Options.Boosting.Seed)
	v.SetDefault("selection.options.boosting.tree.max_depth", s.Options.Boosting.Tree.MaxDepth)
	v.SetDefault("selection.options.boosting.tree.min_samples_split", s.Options.Boosting.Tree.MinSamplesSplit)
	v.SetDefault("selection.options.boosting.tree.min_samples_leaf", s.Options.Boosting.Tree.MinSamplesLeaf)
	v.SetDefault("selection.options.boosting.tree.max_features", s.Options.Boosting.Tree.MaxFeatures)
	v.SetDefault("selection.options.tree.max_depth", s.Options.Tree.MaxDepth)
	v.SetDefault("selection.options.tree.min_samples_split", s.Options.Tree.MinSamplesSplit)
	v.SetDefault("selection.options.tree.min_samples_leaf", s.Options.Tree.MinSamplesLeaf)
	v.SetDefault("selection.options.tree.max_features", s.Options.Tree.MaxFeatures)

	v.SetDefault("weather.estimator", d.Weather.Estimator)
	v.SetDefault("weather.window", d.Weather.Window)
	v.SetDefault("weather.order.p", d.Weather.Order.P)
	v.SetDefault("weather.order.d", d.Weather.Order.D)
	v.SetDefault("weather.order.q", d.Weather.Order.Q)
	v.SetDefault("weather.search.max_p", d.Weather.Search.MaxP)
	v.SetDefault("weather.search.max_d", d.Weather.Search.MaxD)
	v.SetDefault("weather.search.max_q", d.Weather.Search.MaxQ)
	v.SetDefault("weather.search.test", d.Weather.Search.Test)
	v.SetDefault("weather.history", d.Weather.History)

	v.SetDefault("forecast.horizon", d.Forecast.Horizon)
	v.SetDefault("forecast.output", d.Forecast.Output)
	v.SetDefault("forecast.format", d.Forecast.Format)
	v.SetDefault("forecast.places", d.Forecast.Places)

	v.SetDefault("metrics.file", d.Metrics.File)
}
