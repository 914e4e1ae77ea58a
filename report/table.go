package report

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/sartorproj/aqforecast/forecast"
	"github.com/sartorproj/aqforecast/selector"
)

// DefaultPlaces is the number of decimals written for concentrations.
const DefaultPlaces = 2

// WriteCSV writes a Date column followed by one column per target. Targets
// without a value on a day are left empty.
func WriteCSV(w io.Writer, result *forecast.Result, targets []string, places int32) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(append([]string{"Date"}, targets...)); err != nil {
		return err
	}
	record := make([]string, len(targets)+1)
	for _, day := range result.Days {
		record[0] = day.Date.Format("2006-01-02")
		for j, target := range targets {
			record[j+1] = ""
			if v, ok := day.Values[target]; ok {
				record[j+1] = decimal.NewFromFloat(v).StringFixed(places)
			}
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

type jsonDay struct {
	Date     string             `json:"date"`
	Values   map[string]float64 `json:"values"`
	Category map[string]string  `json:"category,omitempty"`
}

type jsonForecast struct {
	Origin      string            `json:"origin"`
	Days        []jsonDay         `json:"days"`
	Unavailable map[string]string `json:"unavailable,omitempty"`
}

// WriteJSON writes the forecast with values rounded to places decimals.
func WriteJSON(w io.Writer, result *forecast.Result, places int32) error {
	doc := jsonForecast{Origin: result.Origin.Format("2006-01-02")}
	for _, day := range result.Days {
		jd := jsonDay{Date: day.Date.Format("2006-01-02"), Values: make(map[string]float64, len(day.Values))}
		for target, v := range day.Values {
			jd.Values[target] = decimal.NewFromFloat(v).Round(places).InexactFloat64()
			if c, ok := Categorize(target, v); ok {
				if jd.Category == nil {
					jd.Category = make(map[string]string)
				}
				jd.Category[target] = string(c)
			}
		}
		doc.Days = append(doc.Days, jd)
	}
	if len(result.Unavailable) > 0 {
		doc.Unavailable = make(map[string]string, len(result.Unavailable))
		for target, err := range result.Unavailable {
			doc.Unavailable[target] = err.Error()
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

type diagnosticsDoc struct {
	RunID       string                           `yaml:"run_id"`
	Diagnostics map[string]*selector.Diagnostics `yaml:"diagnostics"`
	Omissions   map[string]string                `yaml:"omissions,omitempty"`
}

// WriteDiagnostics writes a training report as YAML.
func WriteDiagnostics(w io.Writer, report *selector.TrainingReport) error {
	doc := diagnosticsDoc{
		RunID:       report.RunID.String(),
		Diagnostics: report.Diagnostics,
	}
	if len(report.Omissions) > 0 {
		doc.Omissions = make(map[string]string, len(report.Omissions))
		for target, err := range report.Omissions {
			doc.Omissions[target] = err.Error()
		}
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return err
	}
	return encoder.Close()
}
