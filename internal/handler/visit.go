package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tmarkov/travelmap/internal/domain"
	"github.com/tmarkov/travelmap/internal/service"
)

// CreateVisitRequest is the body of POST /visits.
// VisitType defaults to "trip" when absent.
type CreateVisitRequest struct {
	CountryID int64   `json:"countryId"`
	VisitedAt *string `json:"visitedAt,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	VisitType *string `json:"visitType,omitempty"`
}

// UpdateVisitRequest is the body of PATCH /visits/{id}. Absent fields are
// left unchanged.
type UpdateVisitRequest struct {
	VisitedAt *string `json:"visitedAt,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	VisitType *string `json:"visitType,omitempty"`
}

// VisitResponse is the wire shape of a visit with its country resolved.
type VisitResponse struct {
	ID              int64           `json:"id"`
	Country         CountryResponse `json:"country"`
	VisitedAt       *string         `json:"visitedAt"`
	Notes           *string         `json:"notes,omitempty"`
	VisitType       string          `json:"visitType"`
	Source          string          `json:"source"`
	FlightJourneyID *int64          `json:"flightJourneyId"`
	CreatedAt       string          `json:"createdAt"`
	UpdatedAt       string          `json:"updatedAt"`
}

// ListVisits handles GET /visits.
func (s *Server) ListVisits(w http.ResponseWriter, r *http.Request) {
	visits, err := s.visits.List(r.Context())
	if err != nil {
		respondInternal(w, err)
		return
	}

	data := make([]VisitResponse, len(visits))
	for i, v := range visits {
		data[i] = visitToResponse(v)
	}
	writeJSON(w, http.StatusOK, data)
}

// CreateVisit handles POST /visits.
func (s *Server) CreateVisit(w http.ResponseWriter, r *http.Request) {
	var req CreateVisitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	input := service.CreateVisitInput{CountryID: req.CountryID}
	if req.VisitedAt != nil && *req.VisitedAt != "" {
		date, err := parseDate(*req.VisitedAt)
		if err != nil {
			respondBadRequest(w, "visitedAt must be formatted as YYYY-MM-DD")
			return
		}
		input.VisitedAt = &date
	}
	if req.Notes != nil {
		input.Notes = *req.Notes
	}
	if req.VisitType != nil {
		input.Type = domain.VisitType(*req.VisitType)
	}

	created, err := s.visits.Create(r.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			respondValidation(w, err)
			return
		}
		respondInternal(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, visitToResponse(created))
}

// GetVisit handles GET /visits/{id}.
func (s *Server) GetVisit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondNotFound(w, "visit not found")
		return
	}

	visit, err := s.visits.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(w, "visit not found")
			return
		}
		respondInternal(w, err)
		return
	}
	writeJSON(w, http.StatusOK, visitToResponse(visit))
}

// UpdateVisit handles PATCH /visits/{id}.
func (s *Server) UpdateVisit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondNotFound(w, "visit not found")
		return
	}

	var req UpdateVisitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	input := service.UpdateVisitInput{Notes: req.Notes}
	if req.VisitedAt != nil && *req.VisitedAt != "" {
		date, err := parseDate(*req.VisitedAt)
		if err != nil {
			respondBadRequest(w, "visitedAt must be formatted as YYYY-MM-DD")
			return
		}
		input.VisitedAt = &date
	}
	if req.VisitType != nil {
		t := domain.VisitType(*req.VisitType)
		input.Type = &t
	}

	updated, err := s.visits.Update(r.Context(), id, input)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(w, "visit not found")
			return
		}
		if errors.Is(err, domain.ErrValidation) {
			respondValidation(w, err)
			return
		}
		respondInternal(w, err)
		return
	}
	writeJSON(w, http.StatusOK, visitToResponse(updated))
}

// DeleteVisit handles DELETE /visits/{id}.
func (s *Server) DeleteVisit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondNotFound(w, "visit not found")
		return
	}

	if err := s.visits.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(w, "visit not found")
			return
		}
		respondInternal(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetHomeCountry handles PUT /visits/home/{countryId}.
func (s *Server) SetHomeCountry(w http.ResponseWriter, r *http.Request) {
	countryID, ok := pathID(r, "countryId")
	if !ok {
		respondNotFound(w, "country not found")
		return
	}

	visit, err := s.visits.SetHomeCountry(r.Context(), countryID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(w, "country not found")
			return
		}
		respondInternal(w, err)
		return
	}
	writeJSON(w, http.StatusOK, visitToResponse(visit))
}

// GetHomeCountry handles GET /visits/home.
func (s *Server) GetHomeCountry(w http.ResponseWriter, r *http.Request) {
	visit, err := s.visits.GetHomeCountry(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(w, "no home country set")
			return
		}
		respondInternal(w, err)
		return
	}
	writeJSON(w, http.StatusOK, visitToResponse(visit))
}

// --- mapping helpers --------------------------------------------------------

func visitToResponse(v domain.Visit) VisitResponse {
	resp := VisitResponse{
		ID:              v.ID,
		Country:         countryToResponse(v.Country),
		VisitedAt:       formatDate(v.VisitedAt),
		VisitType:       string(v.Type),
		Source:          string(v.Source),
		FlightJourneyID: v.FlightJourneyID,
		CreatedAt:       v.CreatedAt.Format(timeFormat),
		UpdatedAt:       v.UpdatedAt.Format(timeFormat),
	}
	if v.Notes != "" {
		resp.Notes = &v.Notes
	}
	return resp
}
