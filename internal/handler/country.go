package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tmarkov/travelmap/internal/domain"
)

// CountryResponse is the wire shape of a country.
type CountryResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsoCode  string `json:"isoCode"`
	IsoCode2 string `json:"isoCode2"`
}

// ListCountries handles GET /countries.
func (s *Server) ListCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := s.countries.List(r.Context())
	if err != nil {
		respondInternal(w, err)
		return
	}

	data := make([]CountryResponse, len(countries))
	for i, c := range countries {
		data[i] = countryToResponse(c)
	}
	writeJSON(w, http.StatusOK, data)
}

// GetCountry handles GET /countries/{id}.
func (s *Server) GetCountry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondNotFound(w, "country not found")
		return
	}

	country, err := s.countries.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(w, "country not found")
			return
		}
		respondInternal(w, err)
		return
	}
	writeJSON(w, http.StatusOK, countryToResponse(country))
}

// GetCountryByIso handles GET /countries/iso/{code}, accepting either the
// 2-letter or the 3-letter code.
func (s *Server) GetCountryByIso(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	country, err := s.countries.GetByIso(r.Context(), code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(w, "country not found")
			return
		}
		if errors.Is(err, domain.ErrValidation) {
			respondValidation(w, err)
			return
		}
		respondInternal(w, err)
		return
	}
	writeJSON(w, http.StatusOK, countryToResponse(country))
}

// --- mapping helpers --------------------------------------------------------

func countryToResponse(c domain.Country) CountryResponse {
	return CountryResponse{
		ID:       c.ID,
		Name:     c.Name,
		IsoCode:  c.IsoCode,
		IsoCode2: c.IsoCode2,
	}
}
