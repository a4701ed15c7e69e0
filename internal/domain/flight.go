package domain

import "time"

// FlightJourney is one user-recorded trip, composed of one or more ordered
// flight legs. Legs are owned by the journey: deleting the journey deletes
// its legs. JourneyDate is nil when the user did not record a date; such
// journeys are excluded from the yearly and monthly statistics buckets.
type FlightJourney struct {
	ID          int64
	JourneyDate *time.Time
	IsRoundTrip bool
	Notes       string
	Legs        []FlightLeg
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TotalDistanceKm returns the sum of all leg distances, rounded to two
// decimal places. It is derived, never stored.
func (j FlightJourney) TotalDistanceKm() float64 {
	var sum float64
	for _, leg := range j.Legs {
		sum += leg.DistanceKm
	}
	return Round2(sum)
}

// FlightLeg is a single point-to-point segment within a journey.
// LegOrder is 1-based and unique per journey. DistanceKm is the great-circle
// distance computed at creation time; legs are never mutated afterwards.
// DepartureAirport and ArrivalAirport are populated on every read path.
type FlightLeg struct {
	ID                 int64
	JourneyID          int64
	LegOrder           int
	DepartureAirportID int64
	ArrivalAirportID   int64
	DepartureAirport   Airport
	ArrivalAirport     Airport
	DistanceKm         float64
}
