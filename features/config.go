package features

// Config names the columns the builder reads and the history it derives.
type Config struct {
	Targets     []string `mapstructure:"targets" yaml:"targets" validate:"min=1,dive,required"`
	Exogenous   []string `mapstructure:"exogenous" yaml:"exogenous" validate:"dive,required"`
	Categorical []string `mapstructure:"categorical" yaml:"categorical" validate:"dive,required"`
	Auxiliary   []string `mapstructure:"auxiliary" yaml:"auxiliary" validate:"dive,required"`
	Lags        []int    `mapstructure:"lags" yaml:"lags" validate:"dive,gte=1"`
	Windows     []int    `mapstructure:"windows" yaml:"windows" validate:"dive,gte=2"`
}

// DefaultConfig returns the pollutant and weather columns of the reference
// dataset with lags {1,2,3,7,14} and windows {3,7,14}.
func DefaultConfig() *Config {
	return &Config{
		Targets:     []string{"PM2.5", "PM10", "NO2", "SO2"},
		Exogenous:   []string{"temperature", "humidity", "wind_speed", "precipitation", "pressure"},
		Categorical: []string{"State", "City", "Location"},
		Auxiliary:   []string{"SO2_avg"},
		Lags:        []int{1, 2, 3, 7, 14},
		Windows:     []int{3, 7, 14},
	}
}

// MaxHistory is the number of earlier rows the widest lag or window needs.
func (c *Config) MaxHistory() int {
	h := 0
	for _, k := range c.Lags {
		h = max(h, k)
	}
	for _, w := range c.Windows {
		h = max(h, w-1)
	}
	return h
}
