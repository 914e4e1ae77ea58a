/*
Package config resolves runtime settings for the aqforecast command.

Values come from built-in defaults, an optional YAML file, a .env file and
AQF_ environment variables. Nested keys map to variables by joining path
segments with underscores:

	AQF_FORECAST_HORIZON=7
	AQF_SELECTION_SPLITS=4
	AQF_WEATHER_ESTIMATOR=arima
*/
package config
