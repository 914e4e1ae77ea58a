package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/sartorproj/aqforecast/config"
	"github.com/sartorproj/aqforecast/features"
	"github.com/sartorproj/aqforecast/forecast"
	"github.com/sartorproj/aqforecast/ingest"
	"github.com/sartorproj/aqforecast/metrics"
	"github.com/sartorproj/aqforecast/report"
	"github.com/sartorproj/aqforecast/selector"
	"github.com/sartorproj/aqforecast/timeseries"
)

// pipeline wires loading, training and forecasting for one invocation.
type pipeline struct {
	cfg      *config.Config
	logger   *zap.Logger
	recorder *metrics.Recorder
}

// trained is the output of a training run.
type trained struct {
	set      *features.Set
	registry *selector.Registry
	report   *selector.TrainingReport
}

func (p *pipeline) ingestOptions() *ingest.Options {
	opts := ingest.DefaultOptions()
	opts.CSV = p.cfg.Data.CSVOptions()
	opts.CSV.Categorical = slices.Clone(p.cfg.Features.Categorical)
	opts.Categorical = p.cfg.Features.Categorical
	for _, name := range append(slices.Clone(p.cfg.Features.Targets), p.cfg.Features.Auxiliary...) {
		if !slices.Contains(opts.Pollutants, name) {
			opts.Pollutants = append(opts.Pollutants, name)
		}
	}
	opts.Logger = p.logger
	return opts
}

// load reads the observation table and attaches weather covariates.
func (p *pipeline) load(input, weatherFile string) (*timeseries.Frame, error) {
	if input == "" {
		input = p.cfg.Data.Input
	}
	if input == "" {
		return nil, errors.New("no input file: set --input or data.input")
	}
	opts := p.ingestOptions()

	frame, err := ingest.Load(input, opts)
	if err != nil {
		return nil, err
	}

	if weatherFile == "" {
		weatherFile = p.cfg.Data.Weather
	}
	if weatherFile != "" {
		w, err := ingest.LoadWeather(weatherFile, opts)
		switch {
		case errors.Is(err, ingest.ErrSourceNotFound):
			p.logger.Warn("weather file not found, continuing without it", zap.String("path", weatherFile))
		case err != nil:
			return nil, err
		default:
			merged, err := ingest.MergeWeather(frame, w)
			if err != nil {
				return nil, err
			}
			p.warnWeatherGaps(merged)
			return merged, nil
		}
	}
	return p.withWeather(frame)
}

// warnWeatherGaps logs exogenous columns with days the weather file did not
// cover. Those rows are dropped by the feature builder.
func (p *pipeline) warnWeatherGaps(frame *timeseries.Frame) {
	for _, name := range p.cfg.Features.Exogenous {
		if !frame.IsNumeric(name) {
			continue
		}
		if missing := frame.CountNaN(name); missing > 0 {
			p.logger.Warn("weather column has missing days",
				zap.String("column", name),
				zap.Int("missing", missing),
				zap.Int("rows", frame.Len()),
			)
		}
	}
}

// withWeather adds synthetic covariates when the frame carries none of the
// configured exogenous columns.
func (p *pipeline) withWeather(frame *timeseries.Frame) (*timeseries.Frame, error) {
	for _, name := range p.cfg.Features.Exogenous {
		if frame.Has(name) {
			return frame, nil
		}
	}
	p.logger.Info("no weather data, generating synthetic covariates", zap.Uint64("seed", p.cfg.Data.Seed))
	return ingest.SyntheticWeather(frame, p.cfg.Data.Seed)
}

func (p *pipeline) train(ctx context.Context, frame *timeseries.Frame) (*trained, error) {
	builder := features.NewBuilder(&p.cfg.Features, features.WithLogger(p.logger))
	set, err := builder.Build(frame)
	if err != nil {
		return nil, fmt.Errorf("build features: %w", err)
	}
	p.logger.Info("feature set built",
		zap.Int("rows", len(set.Rows)),
		zap.Int("dropped", set.Dropped),
		zap.Int("features", len(set.Names)),
	)

	sel, err := selector.New(&p.cfg.Selection,
		selector.WithLogger(p.logger),
		selector.WithObserver(p.recorder),
	)
	if err != nil {
		return nil, err
	}
	registry, rep, err := sel.Train(ctx, set)
	if err != nil {
		return nil, err
	}
	return &trained{set: set, registry: registry, report: rep}, nil
}

func (p *pipeline) forecast(ctx context.Context, t *trained, days int) (*forecast.Result, error) {
	if days != 0 {
		p.cfg.Forecast.Horizon = days
		if err := p.cfg.Validate(); err != nil {
			return nil, err
		}
	}
	days = p.cfg.Forecast.Horizon
	estimator, err := p.cfg.Weather.NewEstimator(p.logger)
	if err != nil {
		return nil, err
	}
	f := forecast.New(t.registry, estimator,
		forecast.WithLogger(p.logger),
		forecast.WithObserver(p.recorder),
	)
	return f.Forecast(ctx, t.set, days)
}

// writeForecast prints the text report to stdout and, when path is set,
// writes the forecast table in the given format.
func (p *pipeline) writeForecast(stdout io.Writer, result *forecast.Result, path, format string) error {
	targets := result.Targets(p.cfg.Features.Targets)
	if err := report.WriteForecast(stdout, result, targets); err != nil {
		return err
	}
	if path == "" {
		return nil
	}
	if format == "" {
		format = p.cfg.Forecast.Format
	}
	var write func(io.Writer) error
	switch format {
	case "csv":
		write = func(w io.Writer) error { return report.WriteCSV(w, result, targets, p.cfg.Forecast.Places) }
	case "json":
		write = func(w io.Writer) error { return report.WriteJSON(w, result, p.cfg.Forecast.Places) }
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := write(file); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	p.logger.Info("forecast written", zap.String("path", path), zap.String("format", format))
	return file.Close()
}

func (p *pipeline) writeDiagnostics(path string, rep *selector.TrainingReport) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	if err := report.WriteDiagnostics(file, rep); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}

// demoFrame returns synthetic observations ending yesterday with weather attached.
func (p *pipeline) demoFrame(days int) (*timeseries.Frame, error) {
	if days < 1 {
		return nil, fmt.Errorf("days must be positive, got %d", days)
	}
	start := timeseries.Day(time.Now()).AddDate(0, 0, -days)
	frame, err := ingest.SyntheticObservations(start, days, p.cfg.Data.Seed)
	if err != nil {
		return nil, err
	}
	return ingest.SyntheticWeather(frame, p.cfg.Data.Seed)
}
