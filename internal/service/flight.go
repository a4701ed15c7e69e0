// Package service contains the business logic for the Travel Map API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tmarkov/travelmap/internal/domain"
	"github.com/tmarkov/travelmap/internal/geo"
	"github.com/tmarkov/travelmap/internal/repo"
)

// LegInput is one requested leg as a pair of airport IDs.
type LegInput struct {
	DepartureAirportID int64
	ArrivalAirportID   int64
}

// CreateFlightInput is the canonical journey-creation request. Exactly one of
// Legs or AirportIDs must be supplied: Legs lists explicit pairs, AirportIDs
// is a chain of at least two airports interpreted as consecutive legs.
type CreateFlightInput struct {
	JourneyDate *time.Time
	IsRoundTrip bool
	Notes       string
	Legs        []LegInput
	AirportIDs  []int64
}

// UpdateFlightInput carries a partial journey update. Nil fields are left
// unchanged. Legs are immutable after creation and cannot be updated.
type UpdateFlightInput struct {
	JourneyDate *time.Time
	ClearDate   bool
	IsRoundTrip *bool
	Notes       *string
}

// VisitReconciler is the collaborator that records flight-derived visits.
// Implemented by VisitService; defined here (in the consumer package) so
// FlightService tests can inject a recording fake.
type VisitReconciler interface {
	ReconcileFromFlight(ctx context.Context, countryIso string, visitType domain.VisitType, journeyID int64, journeyDate *time.Time) error
}

// FlightService implements journey creation (including leg derivation,
// distance calculation, and visit derivation) and journey CRUD.
type FlightService struct {
	journeys repo.FlightRepo
	airports repo.AirportRepo
	visits   VisitReconciler
}

// NewFlightService constructs a FlightService backed by the provided
// collaborators.
func NewFlightService(journeys repo.FlightRepo, airports repo.AirportRepo, visits VisitReconciler) *FlightService {
	return &FlightService{journeys: journeys, airports: airports, visits: visits}
}

// Create builds and persists a journey from the requested itinerary.
//
// The itinerary is validated and resolved in full before anything is written:
// an unknown airport or a malformed request fails with domain.ErrValidation
// and persists nothing. Once the journey and its legs are stored, a visit is
// reconciled for every country the itinerary touches.
func (s *FlightService) Create(ctx context.Context, input CreateFlightInput) (domain.FlightJourney, error) {
	legInputs, err := resolveLegInputs(input)
	if err != nil {
		return domain.FlightJourney{}, err
	}

	airportsByID, err := s.resolveAirports(ctx, legInputs)
	if err != nil {
		return domain.FlightJourney{}, err
	}

	journey := domain.FlightJourney{
		JourneyDate: input.JourneyDate,
		IsRoundTrip: input.IsRoundTrip,
		Notes:       input.Notes,
	}
	for i, li := range legInputs {
		dep := airportsByID[li.DepartureAirportID]
		arr := airportsByID[li.ArrivalAirportID]
		journey.Legs = append(journey.Legs, domain.FlightLeg{
			LegOrder:           i + 1,
			DepartureAirportID: li.DepartureAirportID,
			ArrivalAirportID:   li.ArrivalAirportID,
			DistanceKm:         geo.AirportDistance(dep, arr),
		})
	}

	id, err := s.journeys.CreateJourney(ctx, journey)
	if err != nil {
		return domain.FlightJourney{}, fmt.Errorf("service.FlightService.Create: %w", err)
	}

	for _, cc := range classifyCountries(journey.Legs, airportsByID) {
		err := s.visits.ReconcileFromFlight(ctx, cc.iso, cc.visitType, id, input.JourneyDate)
		if err != nil {
			return domain.FlightJourney{}, fmt.Errorf("service.FlightService.Create: reconcile %s: %w", cc.iso, err)
		}
	}

	created, err := s.journeys.GetJourney(ctx, id)
	if err != nil {
		return domain.FlightJourney{}, fmt.Errorf("service.FlightService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single journey with legs and airports resolved.
func (s *FlightService) GetByID(ctx context.Context, id int64) (domain.FlightJourney, error) {
	journey, err := s.journeys.GetJourney(ctx, id)
	if err != nil {
		return domain.FlightJourney{}, fmt.Errorf("service.FlightService.GetByID: %w", err)
	}
	return journey, nil
}

// List returns all journeys, most recent first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *FlightService) List(ctx context.Context) ([]domain.FlightJourney, error) {
	journeys, err := s.journeys.ListJourneys(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.FlightService.List: %w", err)
	}
	if journeys == nil {
		return []domain.FlightJourney{}, nil
	}
	return journeys, nil
}

// Update applies a partial update to a journey's date, round-trip flag, and
// notes. Legs are never touched.
func (s *FlightService) Update(ctx context.Context, id int64, input UpdateFlightInput) (domain.FlightJourney, error) {
	journey, err := s.journeys.GetJourney(ctx, id)
	if err != nil {
		return domain.FlightJourney{}, fmt.Errorf("service.FlightService.Update: %w", err)
	}

	if input.ClearDate {
		journey.JourneyDate = nil
	} else if input.JourneyDate != nil {
		journey.JourneyDate = input.JourneyDate
	}
	if input.IsRoundTrip != nil {
		journey.IsRoundTrip = *input.IsRoundTrip
	}
	if input.Notes != nil {
		journey.Notes = *input.Notes
	}

	if err := s.journeys.UpdateJourney(ctx, journey); err != nil {
		return domain.FlightJourney{}, fmt.Errorf("service.FlightService.Update: %w", err)
	}
	return s.journeys.GetJourney(ctx, id)
}

// Delete removes a journey and (via cascade) its legs. Visits derived from
// the journey keep existing with a nulled journey reference.
func (s *FlightService) Delete(ctx context.Context, id int64) error {
	if err := s.journeys.DeleteJourney(ctx, id); err != nil {
		return fmt.Errorf("service.FlightService.Delete: %w", err)
	}
	return nil
}

// resolveLegInputs turns the request into a canonical ordered list of leg
// pairs: explicit legs win, otherwise a chain of airport IDs is paired up,
// and a round trip appends the reversed sequence.
func resolveLegInputs(input CreateFlightInput) ([]LegInput, error) {
	var legs []LegInput

	switch {
	case len(input.Legs) > 0:
		legs = append(legs, input.Legs...)
	case len(input.AirportIDs) >= 2:
		for i := 0; i < len(input.AirportIDs)-1; i++ {
			legs = append(legs, LegInput{
				DepartureAirportID: input.AirportIDs[i],
				ArrivalAirportID:   input.AirportIDs[i+1],
			})
		}
	default:
		return nil, fmt.Errorf("%w: must provide either legs or at least 2 airport ids", domain.ErrValidation)
	}

	if input.IsRoundTrip {
		for i := len(legs) - 1; i >= 0; i-- {
			legs = append(legs, LegInput{
				DepartureAirportID: legs[i].ArrivalAirportID,
				ArrivalAirportID:   legs[i].DepartureAirportID,
			})
		}
	}

	return legs, nil
}

// resolveAirports batch-loads every airport referenced by the legs and fails
// with a validation error if any is missing.
func (s *FlightService) resolveAirports(ctx context.Context, legs []LegInput) (map[int64]domain.Airport, error) {
	seen := map[int64]bool{}
	ids := []int64{}
	for _, leg := range legs {
		for _, id := range []int64{leg.DepartureAirportID, leg.ArrivalAirportID} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	airports, err := s.airports.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("service.FlightService.Create: %w", err)
	}
	if len(airports) != len(ids) {
		return nil, fmt.Errorf("%w: one or more airports not found", domain.ErrValidation)
	}

	byID := make(map[int64]domain.Airport, len(airports))
	for _, a := range airports {
		byID[a.ID] = a
	}
	return byID, nil
}

// countryClassification pairs a 2-letter country ISO code with the visit
// type derived for it from one itinerary.
type countryClassification struct {
	iso       string
	visitType domain.VisitType
}

// classifyCountries derives the countries touched by an itinerary and whether
// each was a destination or a mere layover.
//
// A country is a transit candidate when the traveller lands there and the
// next leg departs from it again — arrival country of leg i equals departure
// country of leg i+1. Candidates classify as transit unless some other leg
// already marked them as a trip; the countries of the very first departure
// and the very last arrival are always trips, whatever the candidate set
// says. Airports without a country ISO code contribute nothing.
//
// The result preserves first-touch order so reconciliation runs in a
// deterministic sequence.
func classifyCountries(legs []domain.FlightLeg, airportsByID map[int64]domain.Airport) []countryClassification {
	if len(legs) == 0 {
		return nil
	}

	transitCandidates := map[string]bool{}
	for i := 0; i < len(legs)-1; i++ {
		arrIso := airportsByID[legs[i].ArrivalAirportID].CountryIso
		nextDepIso := airportsByID[legs[i+1].DepartureAirportID].CountryIso
		if arrIso != "" && arrIso == nextDepIso {
			transitCandidates[arrIso] = true
		}
	}

	types := map[string]domain.VisitType{}
	order := []string{}
	touch := func(iso string) {
		if iso == "" {
			return
		}
		if _, ok := types[iso]; !ok {
			order = append(order, iso)
		}
		// A country already marked trip is never downgraded within this pass.
		if types[iso] != domain.VisitTrip {
			if transitCandidates[iso] {
				types[iso] = domain.VisitTransit
			} else {
				types[iso] = domain.VisitTrip
			}
		}
	}
	for _, leg := range legs {
		touch(airportsByID[leg.DepartureAirportID].CountryIso)
		touch(airportsByID[leg.ArrivalAirportID].CountryIso)
	}

	// The true origin and final destination are never merely transited.
	if iso := airportsByID[legs[0].DepartureAirportID].CountryIso; iso != "" {
		types[iso] = domain.VisitTrip
	}
	if iso := airportsByID[legs[len(legs)-1].ArrivalAirportID].CountryIso; iso != "" {
		types[iso] = domain.VisitTrip
	}

	result := make([]countryClassification, 0, len(order))
	for _, iso := range order {
		result = append(result, countryClassification{iso: iso, visitType: types[iso]})
	}
	return result
}
