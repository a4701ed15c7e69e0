package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tmarkov/travelmap/internal/domain"
	"github.com/tmarkov/travelmap/internal/service"
)

// CreateFlightRequest is the body of POST /flights. Exactly one of Legs or
// AirportIds must be supplied; AirportIds is a chain of at least two airports.
type CreateFlightRequest struct {
	JourneyDate *string            `json:"journeyDate,omitempty"`
	IsRoundTrip bool               `json:"isRoundTrip"`
	Notes       *string            `json:"notes,omitempty"`
	Legs        []FlightLegRequest `json:"legs,omitempty"`
	AirportIds  []int64            `json:"airportIds,omitempty"`
}

// FlightLegRequest is one explicit leg in a creation request.
type FlightLegRequest struct {
	DepartureAirportID int64 `json:"departureAirportId"`
	ArrivalAirportID   int64 `json:"arrivalAirportId"`
}

// UpdateFlightRequest is the body of PUT /flights/{id}. Absent fields are
// left unchanged; journeyDate set to the empty string clears the date.
type UpdateFlightRequest struct {
	JourneyDate *string `json:"journeyDate,omitempty"`
	IsRoundTrip *bool   `json:"isRoundTrip,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// FlightJourneyResponse is the wire shape of a journey with resolved legs.
type FlightJourneyResponse struct {
	ID              int64               `json:"id"`
	JourneyDate     *string             `json:"journeyDate"`
	IsRoundTrip     bool                `json:"isRoundTrip"`
	Notes           *string             `json:"notes,omitempty"`
	Legs            []FlightLegResponse `json:"legs"`
	TotalDistanceKm float64             `json:"totalDistanceKm"`
	CreatedAt       string              `json:"createdAt"`
	UpdatedAt       string              `json:"updatedAt"`
}

// FlightLegResponse is the wire shape of one leg with both airports resolved.
type FlightLegResponse struct {
	ID               int64           `json:"id"`
	LegOrder         int             `json:"legOrder"`
	DepartureAirport AirportResponse `json:"departureAirport"`
	ArrivalAirport   AirportResponse `json:"arrivalAirport"`
	DistanceKm       float64         `json:"distanceKm"`
}

// CreateFlight handles POST /flights.
func (s *Server) CreateFlight(w http.ResponseWriter, r *http.Request) {
	var req CreateFlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	input, err := requestToFlightInput(req)
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	created, err := s.flights.Create(r.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			respondValidation(w, err)
			return
		}
		respondInternal(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, journeyToResponse(created))
}

// ListFlights handles GET /flights.
func (s *Server) ListFlights(w http.ResponseWriter, r *http.Request) {
	journeys, err := s.flights.List(r.Context())
	if err != nil {
		respondInternal(w, err)
		return
	}

	data := make([]FlightJourneyResponse, len(journeys))
	for i, j := range journeys {
		data[i] = journeyToResponse(j)
	}
	writeJSON(w, http.StatusOK, data)
}

// GetFlight handles GET /flights/{id}.
func (s *Server) GetFlight(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondNotFound(w, "journey not found")
		return
	}

	journey, err := s.flights.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(w, "journey not found")
			return
		}
		respondInternal(w, err)
		return
	}

	writeJSON(w, http.StatusOK, journeyToResponse(journey))
}

// UpdateFlight handles PUT /flights/{id}.
func (s *Server) UpdateFlight(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondNotFound(w, "journey not found")
		return
	}

	var req UpdateFlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	input := service.UpdateFlightInput{
		IsRoundTrip: req.IsRoundTrip,
		Notes:       req.Notes,
	}
	if req.JourneyDate != nil {
		if *req.JourneyDate == "" {
			input.ClearDate = true
		} else {
			date, err := parseDate(*req.JourneyDate)
			if err != nil {
				respondBadRequest(w, "journeyDate must be formatted as YYYY-MM-DD")
				return
			}
			input.JourneyDate = &date
		}
	}

	updated, err := s.flights.Update(r.Context(), id, input)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(w, "journey not found")
			return
		}
		respondInternal(w, err)
		return
	}

	writeJSON(w, http.StatusOK, journeyToResponse(updated))
}

// DeleteFlight handles DELETE /flights/{id}.
func (s *Server) DeleteFlight(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondNotFound(w, "journey not found")
		return
	}

	if err := s.flights.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(w, "journey not found")
			return
		}
		respondInternal(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// requestToFlightInput converts a CreateFlightRequest into the service input,
// parsing the optional date. Structural validation (legs vs chain) is the
// service's job.
func requestToFlightInput(req CreateFlightRequest) (service.CreateFlightInput, error) {
	input := service.CreateFlightInput{
		IsRoundTrip: req.IsRoundTrip,
		AirportIDs:  req.AirportIds,
	}
	if req.JourneyDate != nil && *req.JourneyDate != "" {
		date, err := parseDate(*req.JourneyDate)
		if err != nil {
			return service.CreateFlightInput{}, errors.New("journeyDate must be formatted as YYYY-MM-DD")
		}
		input.JourneyDate = &date
	}
	if req.Notes != nil {
		input.Notes = *req.Notes
	}
	for _, leg := range req.Legs {
		input.Legs = append(input.Legs, service.LegInput{
			DepartureAirportID: leg.DepartureAirportID,
			ArrivalAirportID:   leg.ArrivalAirportID,
		})
	}
	return input, nil
}

// journeyToResponse converts a domain.FlightJourney into its wire shape.
func journeyToResponse(j domain.FlightJourney) FlightJourneyResponse {
	resp := FlightJourneyResponse{
		ID:              j.ID,
		JourneyDate:     formatDate(j.JourneyDate),
		IsRoundTrip:     j.IsRoundTrip,
		Legs:            make([]FlightLegResponse, len(j.Legs)),
		TotalDistanceKm: j.TotalDistanceKm(),
		CreatedAt:       j.CreatedAt.Format(timeFormat),
		UpdatedAt:       j.UpdatedAt.Format(timeFormat),
	}
	if j.Notes != "" {
		resp.Notes = &j.Notes
	}
	for i, leg := range j.Legs {
		resp.Legs[i] = FlightLegResponse{
			ID:               leg.ID,
			LegOrder:         leg.LegOrder,
			DepartureAirport: airportToResponse(leg.DepartureAirport),
			ArrivalAirport:   airportToResponse(leg.ArrivalAirport),
			DistanceKm:       leg.DistanceKm,
		}
	}
	return resp
}
