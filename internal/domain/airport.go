// Package domain contains the core data types for the Travel Map application.
// This package has zero external dependencies and is imported by every other
// internal package (repo, service, handler).
package domain

import "time"

// Airport is immutable reference data describing one airport.
// Rows are seeded once and only ever read; looked up by id or IATA code.
// CountryIso is the 2-letter ISO code of the airport's country and may be
// empty for airports whose country could not be resolved during seeding.
type Airport struct {
	ID         int64
	IataCode   string
	IcaoCode   string
	Name       string
	City       string
	Country    string
	CountryIso string
	Latitude   float64
	Longitude  float64
	CreatedAt  time.Time
}
