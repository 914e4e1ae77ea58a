package timeseries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// ErrNoData is returned when a CSV source holds no data rows.
var ErrNoData = errors.New("no data rows found in CSV")

// CSVOptions holds options for frame loading.
type CSVOptions struct {
	DateColumn  string    // Column name for dates (default: "Date")
	DateFormat  string    // Preferred date layout (default: "2006-01-02")
	Delimiter   rune      // Field delimiter (default: ',')
	Categorical []string  // Columns always treated as categorical
	StartDate   time.Time // First date when the file has no date column
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		DateColumn: "Date",
		DateFormat: "2006-01-02",
		Delimiter:  ',',
		StartDate:  time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
	"02-Jan-2006",
}

// ParseDate tries the preferred layout, then a set of common layouts.
func ParseDate(s, preferred string) (time.Time, error) {
	s = strings.TrimSpace(strings.Trim(s, "\""))
	if preferred != "" {
		if t, err := time.Parse(preferred, s); err == nil {
			return Day(t), nil
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// IsNull reports whether a raw cell denotes a missing value.
func IsNull(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "NA", "NaN", "nan", "null", "NULL", "None":
		return true
	}
	return false
}

// LoadFrame loads a frame from a CSV file.
func LoadFrame(filename string, opts *CSVOptions) (*Frame, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadFrameCSV(file, opts)
}

// LoadFrameCSV loads a frame from CSV data with a header row.
//
// A column is numeric when every non-null cell parses as a float; null cells
// become NaN. Other columns are categorical. Rows keep file order; sorting and
// de-duplication belong to the caller.
func LoadFrameCSV(r io.Reader, opts *CSVOptions) (*Frame, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ErrNoData
		}
		return nil, err
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.Trim(h, "\""))
	}

	dateIdx := slices.Index(header, opts.DateColumn)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoData
	}

	dates := make([]time.Time, len(records))
	for i, rec := range records {
		if dateIdx < 0 {
			dates[i] = Day(opts.StartDate).AddDate(0, 0, i)
			continue
		}
		if dateIdx >= len(rec) {
			return nil, fmt.Errorf("row %d: missing date field", i+2)
		}
		d, err := ParseDate(rec[dateIdx], opts.DateFormat)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		dates[i] = d
	}

	frame := NewFrame(dates)
	for col, name := range header {
		if col == dateIdx || name == "" {
			continue
		}
		raw := make([]string, len(records))
		for i, rec := range records {
			if col < len(rec) {
				raw[i] = strings.TrimSpace(strings.Trim(rec[col], "\""))
			}
		}

		if !slices.Contains(opts.Categorical, name) {
			if values, ok := parseNumeric(raw); ok {
				if err := frame.SetNumeric(name, values); err != nil {
					return nil, err
				}
				continue
			}
		}
		if err := frame.SetCategorical(name, raw); err != nil {
			return nil, err
		}
	}

	return frame, nil
}

func parseNumeric(raw []string) ([]float64, bool) {
	values := make([]float64, len(raw))
	for i, s := range raw {
		if IsNull(s) {
			values[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}

// SaveFrameCSV writes a frame as CSV with a leading Date column.
func SaveFrameCSV(w io.Writer, frame *Frame) error {
	writer := csv.NewWriter(w)

	columns := frame.Columns()
	if err := writer.Write(append([]string{"Date"}, columns...)); err != nil {
		return err
	}

	record := make([]string, len(columns)+1)
	for i := 0; i < frame.Len(); i++ {
		record[0] = frame.Date(i).Format("2006-01-02")
		for j, name := range columns {
			if col, ok := frame.Numeric(name); ok {
				if math.IsNaN(col[i]) {
					record[j+1] = ""
				} else {
					record[j+1] = strconv.FormatFloat(col[i], 'f', -1, 64)
				}
				continue
			}
			col, _ := frame.Categorical(name)
			record[j+1] = col[i]
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
