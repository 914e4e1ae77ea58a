package report

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sartorproj/aqforecast/forecast"
	"github.com/sartorproj/aqforecast/selector"
)

var (
	colorTitle   = lipgloss.Color("#2CD7C7")
	colorMuted   = lipgloss.Color("#2C4A54")
	colorWarning = lipgloss.Color("#F4D03F")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorTitle)
	headingStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)

	categoryStyles = map[Category]lipgloss.Style{
		Good:               lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Moderate:           lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		UnhealthySensitive: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Unhealthy:          lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		VeryUnhealthy:      lipgloss.NewStyle().Foreground(lipgloss.Color("129")),
		Hazardous:          lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("88")),
	}
)

// WriteForecast prints one block per day with a line per target in order.
func WriteForecast(w io.Writer, result *forecast.Result, order []string) error {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	b.WriteString(rule + "\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d-DAY POLLUTION FORECAST", len(result.Days))) + "\n")
	b.WriteString(rule + "\n")

	for i, day := range result.Days {
		b.WriteString("\n")
		b.WriteString(headingStyle.Render(fmt.Sprintf("Day %d: %s", i+1, day.Date.Format("2006-01-02 (Monday)"))) + "\n")
		b.WriteString(mutedStyle.Render(strings.Repeat("-", 40)) + "\n")
		for _, target := range order {
			v, ok := day.Values[target]
			if !ok {
				continue
			}
			line := fmt.Sprintf("%6s: %6.1f %s", target, v, Unit(target))
			if c, ok := Categorize(target, v); ok {
				line += " " + categoryStyles[c].Render(string(c))
			}
			b.WriteString(line + "\n")
		}
	}

	if len(result.Unavailable) > 0 {
		b.WriteString("\n")
		for _, target := range sortedKeys(result.Unavailable) {
			b.WriteString(warningStyle.Render(fmt.Sprintf("%s unavailable: %v", target, result.Unavailable[target])) + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteTraining prints the per-target selection summary.
func WriteTraining(w io.Writer, report *selector.TrainingReport) error {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	b.WriteString(rule + "\n")
	b.WriteString(titleStyle.Render("MODEL TRAINING RESULTS") + "\n")
	b.WriteString(rule + "\n")
	b.WriteString(mutedStyle.Render("run "+report.RunID.String()) + "\n")

	for _, target := range report.Targets {
		d, ok := report.Diagnostics[target]
		if !ok {
			continue
		}
		b.WriteString("\n" + headingStyle.Render(target+":") + "\n")
		fmt.Fprintf(&b, "  Model Type: %s\n", d.Model)
		fmt.Fprintf(&b, "  MSE: %.2f\n", d.MSE)
		fmt.Fprintf(&b, "  MAE: %.2f\n", d.MAE)
		fmt.Fprintf(&b, "  R²: %.3f\n", d.R2)
		b.WriteString("  Cross-validation MSE:")
		for _, s := range d.CVScores {
			fmt.Fprintf(&b, " %s=%.2f", s.Name, s.Mean)
		}
		b.WriteString("\n")
		if d.LjungBox != nil {
			fmt.Fprintf(&b, "  Ljung-Box Q(%d): %.2f (p=%.3f)\n", d.LjungBox.Lags, d.LjungBox.Statistic, d.LjungBox.PValue)
		}
	}

	for _, target := range sortedKeys(report.Omissions) {
		b.WriteString("\n" + warningStyle.Render(fmt.Sprintf("%s skipped: %v", target, report.Omissions[target])) + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
