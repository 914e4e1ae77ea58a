package ingest

import (
	"math"
	"math/rand/v2"

	"github.com/sartorproj/aqforecast/timeseries"
)

// MergeWeather left-joins weather columns onto frame by date. Days without a
// weather row get NaN. Columns frame already has are kept as they are.
func MergeWeather(frame, weather *timeseries.Frame) (*timeseries.Frame, error) {
	out := frame.Slice(0, frame.Len())
	if weather == nil {
		return out, nil
	}

	rows := make([]int, out.Len())
	for i, d := range out.Dates() {
		j, ok := weather.Index(d)
		if !ok {
			j = -1
		}
		rows[i] = j
	}

	for _, name := range weather.Columns() {
		if out.Has(name) {
			continue
		}
		if col, ok := weather.Numeric(name); ok {
			values := make([]float64, len(rows))
			for i, j := range rows {
				if j < 0 {
					values[i] = math.NaN()
				} else {
					values[i] = col[j]
				}
			}
			if err := out.SetNumeric(name, values); err != nil {
				return nil, err
			}
			continue
		}
		col, _ := weather.Categorical(name)
		values := make([]string, len(rows))
		for i, j := range rows {
			if j >= 0 {
				values[i] = col[j]
			}
		}
		if err := out.SetCategorical(name, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SyntheticWeather returns a copy of frame with seeded demonstration weather:
// yearly sinusoids plus noise for temperature, humidity, wind speed and
// pressure, and rain on about 15% of days.
func SyntheticWeather(frame *timeseries.Frame, seed uint64) (*timeseries.Frame, error) {
	out := frame.Slice(0, frame.Len())
	rng := rand.New(rand.NewPCG(seed, seed>>32|1))

	n := out.Len()
	temperature := make([]float64, n)
	humidity := make([]float64, n)
	wind := make([]float64, n)
	precipitation := make([]float64, n)
	pressure := make([]float64, n)

	for i, d := range out.Dates() {
		phase := 2 * math.Pi * float64(d.YearDay()) / 365
		temperature[i] = 20 + 10*math.Sin(phase) + 3*rng.NormFloat64()
		humidity[i] = clip(60+20*math.Sin(phase+math.Pi/4)+10*rng.NormFloat64(), 20, 90)
		wind[i] = clip(8+5*math.Sin(phase+math.Pi/2)+3*rng.ExpFloat64(), 0, 25)
		if rng.Float64() < 0.15 {
			precipitation[i] = 10 * rng.ExpFloat64()
		}
		pressure[i] = 1013 + 10*math.Sin(phase) + 5*rng.NormFloat64()
	}

	for _, c := range []struct {
		name   string
		values []float64
	}{
		{"temperature", temperature},
		{"humidity", humidity},
		{"wind_speed", wind},
		{"precipitation", precipitation},
		{"pressure", pressure},
	} {
		if err := out.SetNumeric(c.name, c.values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func clip(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
