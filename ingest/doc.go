// Package ingest loads raw air quality tables and cleans them into frames the
// feature builder accepts: one row per date in increasing order, pollutant gaps
// filled, and empty categorical cells replaced by an explicit marker.
//
// It also merges an optional weather table onto the observations and can
// generate seeded synthetic weather for demonstrations.
package ingest
