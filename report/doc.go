// Package report renders forecasts and training diagnostics for people and
// for downstream tools: a styled terminal report with air quality index
// bands, CSV and JSON forecast tables, and a YAML diagnostics document.
package report
