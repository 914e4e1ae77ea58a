package features

import (
	"math"
	"time"
)

// TimeFeatureNames lists the calendar encodings in the order TimeFeatures returns them.
var TimeFeatureNames = []string{
	"year", "month", "day", "day_of_week", "day_of_year", "week_of_year",
	"month_sin", "month_cos", "dow_sin", "dow_cos", "doy_sin", "doy_cos",
	"is_winter", "is_monsoon", "is_weekend",
}

// TimeFeatures encodes a date. It depends on the date alone, so forecast days
// use exactly the same values training rows do. Day of week counts Monday as 0.
func TimeFeatures(date time.Time) []float64 {
	month := int(date.Month())
	dow := (int(date.Weekday()) + 6) % 7
	doy := date.YearDay()
	_, week := date.ISOWeek()

	return []float64{
		float64(date.Year()),
		float64(month),
		float64(date.Day()),
		float64(dow),
		float64(doy),
		float64(week),
		math.Sin(2 * math.Pi * float64(month) / 12),
		math.Cos(2 * math.Pi * float64(month) / 12),
		math.Sin(2 * math.Pi * float64(dow) / 7),
		math.Cos(2 * math.Pi * float64(dow) / 7),
		math.Sin(2 * math.Pi * float64(doy) / 365),
		math.Cos(2 * math.Pi * float64(doy) / 365),
		indicator(month == 12 || month <= 2),
		indicator(month >= 6 && month <= 9),
		indicator(dow >= 5),
	}
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
