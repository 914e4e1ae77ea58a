package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sartorproj/aqforecast/report"
)

func runTrain(cmd *cobra.Command, _ []string) error {
	frame, err := app.load(inputPath, weatherPath)
	if err != nil {
		return err
	}
	t, err := app.train(cmd.Context(), frame)
	if err != nil {
		return err
	}
	if err := report.WriteTraining(cmd.OutOrStdout(), t.report); err != nil {
		return err
	}
	if diagnosticsPath != "" {
		if err := app.writeDiagnostics(diagnosticsPath, t.report); err != nil {
			return err
		}
		app.logger.Info("diagnostics written", zap.String("path", diagnosticsPath))
	}
	return nil
}

func runForecast(cmd *cobra.Command, _ []string) error {
	frame, err := app.load(inputPath, weatherPath)
	if err != nil {
		return err
	}
	t, err := app.train(cmd.Context(), frame)
	if err != nil {
		return err
	}
	result, err := app.forecast(cmd.Context(), t, horizon)
	if err != nil {
		return err
	}
	out := outputPath
	if out == "" {
		out = app.cfg.Forecast.Output
	}
	return app.writeForecast(cmd.OutOrStdout(), result, out, outputFormat)
}

func runDemo(cmd *cobra.Command, _ []string) error {
	frame, err := app.demoFrame(demoDays)
	if err != nil {
		return err
	}
	t, err := app.train(cmd.Context(), frame)
	if err != nil {
		return err
	}
	if err := report.WriteTraining(cmd.OutOrStdout(), t.report); err != nil {
		return err
	}
	result, err := app.forecast(cmd.Context(), t, horizon)
	if err != nil {
		return err
	}
	return app.writeForecast(cmd.OutOrStdout(), result, "", "")
}
