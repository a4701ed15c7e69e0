package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tmarkov/travelmap/internal/domain"
)

// AirportResponse is the wire shape of an airport.
type AirportResponse struct {
	ID         int64   `json:"id"`
	IataCode   string  `json:"iataCode"`
	IcaoCode   *string `json:"icaoCode,omitempty"`
	Name       string  `json:"name"`
	City       *string `json:"city,omitempty"`
	Country    *string `json:"country,omitempty"`
	CountryIso *string `json:"countryIso,omitempty"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// ListAirports handles GET /airports.
func (s *Server) ListAirports(w http.ResponseWriter, r *http.Request) {
	airports, err := s.airports.List(r.Context())
	if err != nil {
		respondInternal(w, err)
		return
	}
	writeJSON(w, http.StatusOK, airportsToResponse(airports))
}

// SearchAirports handles GET /airports/search?q=&limit=.
// Queries shorter than 2 characters return an empty list.
func (s *Server) SearchAirports(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondBadRequest(w, "limit must be an integer")
			return
		}
		limit = parsed
	}

	airports, err := s.airports.Search(r.Context(), query, limit)
	if err != nil {
		respondInternal(w, err)
		return
	}
	writeJSON(w, http.StatusOK, airportsToResponse(airports))
}

// GetAirport handles GET /airports/{id}.
func (s *Server) GetAirport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondNotFound(w, "airport not found")
		return
	}

	airport, err := s.airports.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(w, "airport not found")
			return
		}
		respondInternal(w, err)
		return
	}
	writeJSON(w, http.StatusOK, airportToResponse(airport))
}

// GetAirportByIata handles GET /airports/iata/{code}.
func (s *Server) GetAirportByIata(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	airport, err := s.airports.GetByIata(r.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(w, "airport not found")
			return
		}
		respondInternal(w, err)
		return
	}
	writeJSON(w, http.StatusOK, airportToResponse(airport))
}

// --- mapping helpers --------------------------------------------------------

func airportToResponse(a domain.Airport) AirportResponse {
	resp := AirportResponse{
		ID:        a.ID,
		IataCode:  a.IataCode,
		Name:      a.Name,
		Latitude:  a.Latitude,
		Longitude: a.Longitude,
	}
	if a.IcaoCode != "" {
		resp.IcaoCode = &a.IcaoCode
	}
	if a.City != "" {
		resp.City = &a.City
	}
	if a.Country != "" {
		resp.Country = &a.Country
	}
	if a.CountryIso != "" {
		resp.CountryIso = &a.CountryIso
	}
	return resp
}

func airportsToResponse(airports []domain.Airport) []AirportResponse {
	data := make([]AirportResponse, len(airports))
	for i, a := range airports {
		data[i] = airportToResponse(a)
	}
	return data
}
