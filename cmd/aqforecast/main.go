// Command aqforecast trains per-pollutant models on daily air-quality
// observations and forecasts the coming days.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sartorproj/aqforecast/config"
	"github.com/sartorproj/aqforecast/logging"
	"github.com/sartorproj/aqforecast/metrics"
)

var (
	configPath  string
	logLevel    string
	metricsFile string

	inputPath       string
	weatherPath     string
	diagnosticsPath string
	outputPath      string
	outputFormat    string
	horizon         int
	demoDays        int

	// app is populated by the root PersistentPreRunE.
	app *pipeline

	rootCmd = &cobra.Command{
		Use:           "aqforecast",
		Short:         "Multi-pollutant air quality forecasting",
		Long:          "aqforecast selects a model per pollutant by walk-forward cross-validation and forecasts daily concentrations recursively.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("metrics-file") {
				cfg.Metrics.File = metricsFile
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := logging.New(cfg.LogLevel, cfg.Environment == "development")
			if err != nil {
				return err
			}
			app = &pipeline{cfg: cfg, logger: logger, recorder: metrics.NewRecorder()}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			defer app.logger.Sync() //nolint:errcheck
			if app.cfg.Metrics.File == "" {
				return nil
			}
			if err := app.recorder.WriteFile(app.cfg.Metrics.File); err != nil {
				return fmt.Errorf("write metrics: %w", err)
			}
			app.logger.Info("metrics written", zap.String("path", app.cfg.Metrics.File))
			return nil
		},
	}

	trainCmd = &cobra.Command{
		Use:   "train",
		Short: "Select and fit a model per pollutant and print diagnostics",
		Args:  cobra.NoArgs,
		RunE:  runTrain,
	}

	forecastCmd = &cobra.Command{
		Use:   "forecast",
		Short: "Train on the input history and forecast the next days",
		Args:  cobra.NoArgs,
		RunE:  runForecast,
	}

	demoCmd = &cobra.Command{
		Use:   "demo",
		Short: "Run training and forecasting on synthetic observations",
		Args:  cobra.NoArgs,
		RunE:  runDemo,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (default: ./aqforecast.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	for _, cmd := range []*cobra.Command{trainCmd, forecastCmd} {
		cmd.Flags().StringVarP(&inputPath, "input", "i", "", "observation CSV (default: data.input from config)")
		cmd.Flags().StringVarP(&weatherPath, "weather", "w", "", "weather CSV merged by date (default: synthetic weather)")
	}
	trainCmd.Flags().StringVar(&diagnosticsPath, "diagnostics", "", "write training diagnostics as YAML to this file")

	forecastCmd.Flags().IntVarP(&horizon, "horizon", "n", 0, "days to forecast, 1 to 30 (default: forecast.horizon from config)")
	forecastCmd.Flags().StringVarP(&outputPath, "out", "o", "", "forecast output file (default: forecast.output from config)")
	forecastCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format: csv or json (default: forecast.format from config)")

	demoCmd.Flags().IntVar(&demoDays, "days", 400, "days of synthetic history")
	demoCmd.Flags().IntVarP(&horizon, "horizon", "n", 0, "days to forecast, 1 to 30 (default: forecast.horizon from config)")

	rootCmd.AddCommand(trainCmd, forecastCmd, demoCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
