package domain

import "time"

// VisitType classifies how a country was visited.
type VisitType string

const (
	// VisitTrip marks a country genuinely visited as a destination.
	VisitTrip VisitType = "trip"
	// VisitTransit marks a country passed through only as a layover.
	VisitTransit VisitType = "transit"
	// VisitHome marks the single designated home country.
	// At most one visit may carry this type at any time.
	VisitHome VisitType = "home"
)

// VisitSource records whether a visit was entered by hand or derived from a
// flight journey's legs.
type VisitSource string

const (
	SourceManual VisitSource = "manual"
	SourceFlight VisitSource = "flight"
)

// Visit records that a country has been visited. At most one visit exists
// per country; flight-derived reconciliation upgrades an existing transit
// visit to a trip in place rather than creating a duplicate.
//
// FlightJourneyID points at the journey the visit was derived from and is
// nulled (not cascaded) when that journey is deleted.
type Visit struct {
	ID              int64
	CountryID       int64
	Country         Country
	VisitedAt       *time.Time
	Notes           string
	Type            VisitType
	Source          VisitSource
	FlightJourneyID *int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
