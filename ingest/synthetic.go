package ingest

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/sartorproj/aqforecast/timeseries"
)

// SyntheticObservations generates days of seeded pollutant readings for one
// monitoring site. Particulates peak in winter and dip on weekends.
func SyntheticObservations(start time.Time, days int, seed uint64) (*timeseries.Frame, error) {
	rng := rand.New(rand.NewPCG(seed, seed>>32|1))

	dates := make([]time.Time, days)
	pm25 := make([]float64, days)
	pm10 := make([]float64, days)
	no2 := make([]float64, days)
	so2 := make([]float64, days)
	so2avg := make([]float64, days)
	state := make([]string, days)
	city := make([]string, days)
	location := make([]string, days)

	level := 0.0
	for i := range dates {
		d := timeseries.Day(start).AddDate(0, 0, i)
		dates[i] = d
		winter := math.Cos(2 * math.Pi * float64(d.YearDay()) / 365)
		weekend := 0.0
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekend = -6
		}
		// persistent day-to-day component
		level = 0.7*level + 4*rng.NormFloat64()

		pm25[i] = math.Max(1, 60+35*winter+weekend+level)
		pm10[i] = math.Max(1, 1.8*pm25[i]+8*rng.NormFloat64())
		no2[i] = math.Max(1, 32+12*winter+weekend/2+0.3*level+3*rng.NormFloat64())
		so2[i] = math.Max(0.5, 11+4*winter+rng.NormFloat64())
		so2avg[i] = math.Max(0.5, so2[i]+0.5*rng.NormFloat64())
		state[i], city[i], location[i] = "Delhi", "New Delhi", "Anand Vihar"
	}

	frame := timeseries.NewFrame(dates)
	for _, c := range []struct {
		name   string
		values []float64
	}{
		{"PM2.5", pm25},
		{"PM10", pm10},
		{"NO2", no2},
		{"SO2", so2},
		{"SO2_avg", so2avg},
	} {
		if err := frame.SetNumeric(c.name, c.values); err != nil {
			return nil, err
		}
	}
	for _, c := range []struct {
		name   string
		values []string
	}{
		{"State", state},
		{"City", city},
		{"Location", location},
	} {
		if err := frame.SetCategorical(c.name, c.values); err != nil {
			return nil, err
		}
	}
	return frame, nil
}
