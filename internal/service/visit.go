package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tmarkov/travelmap/internal/domain"
	"github.com/tmarkov/travelmap/internal/repo"
)

// CreateVisitInput is a manual visit-creation request.
type CreateVisitInput struct {
	CountryID int64
	VisitedAt *time.Time
	Notes     string
	Type      domain.VisitType
}

// UpdateVisitInput carries a partial visit update. Nil fields are left unchanged.
type UpdateVisitInput struct {
	VisitedAt *time.Time
	Notes     *string
	Type      *domain.VisitType
}

// VisitService implements visit CRUD, flight-derived visit reconciliation,
// and home-country assignment.
type VisitService struct {
	visits    repo.VisitRepo
	countries repo.CountryRepo
}

// NewVisitService constructs a VisitService backed by the provided repos.
func NewVisitService(visits repo.VisitRepo, countries repo.CountryRepo) *VisitService {
	return &VisitService{visits: visits, countries: countries}
}

// Create validates and persists a manual visit. The country must exist and
// must not already have a visit — there is at most one visit per country.
func (s *VisitService) Create(ctx context.Context, input CreateVisitInput) (domain.Visit, error) {
	if input.CountryID == 0 {
		return domain.Visit{}, fmt.Errorf("%w: country id is required", domain.ErrValidation)
	}
	if _, err := s.countries.GetByID(ctx, input.CountryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Visit{}, fmt.Errorf("%w: country not found", domain.ErrValidation)
		}
		return domain.Visit{}, fmt.Errorf("service.VisitService.Create: %w", err)
	}

	visitType := input.Type
	if visitType == "" {
		visitType = domain.VisitTrip
	}
	if err := validateVisitType(visitType); err != nil {
		return domain.Visit{}, err
	}

	if _, err := s.visits.GetByCountryID(ctx, input.CountryID); err == nil {
		return domain.Visit{}, fmt.Errorf("%w: country already has a visit", domain.ErrValidation)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.Visit{}, fmt.Errorf("service.VisitService.Create: %w", err)
	}

	visit, err := s.visits.Create(ctx, domain.Visit{
		CountryID: input.CountryID,
		VisitedAt: input.VisitedAt,
		Notes:     input.Notes,
		Type:      visitType,
		Source:    domain.SourceManual,
	})
	if err != nil {
		return domain.Visit{}, fmt.Errorf("service.VisitService.Create: %w", err)
	}
	return visit, nil
}

// GetByID returns a single visit with its country resolved.
func (s *VisitService) GetByID(ctx context.Context, id int64) (domain.Visit, error) {
	visit, err := s.visits.GetByID(ctx, id)
	if err != nil {
		return domain.Visit{}, fmt.Errorf("service.VisitService.GetByID: %w", err)
	}
	return visit, nil
}

// List returns all visits, most recently created first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *VisitService) List(ctx context.Context) ([]domain.Visit, error) {
	visits, err := s.visits.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.VisitService.List: %w", err)
	}
	if visits == nil {
		return []domain.Visit{}, nil
	}
	return visits, nil
}

// Update applies a partial update to a visit's date, notes, and type.
// Changing the type to home goes through SetHomeCountry instead, so the
// single-home invariant cannot be bypassed here.
func (s *VisitService) Update(ctx context.Context, id int64, input UpdateVisitInput) (domain.Visit, error) {
	visit, err := s.visits.GetByID(ctx, id)
	if err != nil {
		return domain.Visit{}, fmt.Errorf("service.VisitService.Update: %w", err)
	}

	if input.VisitedAt != nil {
		visit.VisitedAt = input.VisitedAt
	}
	if input.Notes != nil {
		visit.Notes = *input.Notes
	}
	if input.Type != nil {
		if err := validateVisitType(*input.Type); err != nil {
			return domain.Visit{}, err
		}
		if *input.Type == domain.VisitHome && visit.Type != domain.VisitHome {
			return domain.Visit{}, fmt.Errorf("%w: use the home-country endpoint to change the home country", domain.ErrValidation)
		}
		visit.Type = *input.Type
	}

	updated, err := s.visits.Update(ctx, visit)
	if err != nil {
		return domain.Visit{}, fmt.Errorf("service.VisitService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a visit by ID. Deleting a visit never touches the journey
// it was derived from.
func (s *VisitService) Delete(ctx context.Context, id int64) error {
	if err := s.visits.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.VisitService.Delete: %w", err)
	}
	return nil
}

// ReconcileFromFlight records a flight-derived visit for the country with the
// given 2-letter ISO code.
//
// A country absent from the reference set is skipped silently — that is a
// data-completeness gap, not an error, and must never abort flight creation.
// Otherwise the visit is created, upgraded from transit to trip, or left
// untouched; it is never downgraded.
func (s *VisitService) ReconcileFromFlight(ctx context.Context, countryIso string, visitType domain.VisitType, journeyID int64, journeyDate *time.Time) error {
	country, err := s.countries.GetByIso2(ctx, countryIso)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("service.VisitService.ReconcileFromFlight: %w", err)
	}

	err = s.visits.UpsertFromFlight(ctx, country.ID, visitType, journeyID, journeyDate)
	if err != nil {
		return fmt.Errorf("service.VisitService.ReconcileFromFlight: %w", err)
	}
	return nil
}

// SetHomeCountry designates the given country as home. Any previous home
// visit is demoted to trip; the target country's visit is upgraded or
// created. The whole sequence is atomic in the repo layer.
func (s *VisitService) SetHomeCountry(ctx context.Context, countryID int64) (domain.Visit, error) {
	if _, err := s.countries.GetByID(ctx, countryID); err != nil {
		return domain.Visit{}, fmt.Errorf("service.VisitService.SetHomeCountry: %w", err)
	}

	visit, err := s.visits.SetHome(ctx, countryID)
	if err != nil {
		return domain.Visit{}, fmt.Errorf("service.VisitService.SetHomeCountry: %w", err)
	}
	return visit, nil
}

// GetHomeCountry returns the current home visit, or domain.ErrNotFound when
// no home country is set.
func (s *VisitService) GetHomeCountry(ctx context.Context) (domain.Visit, error) {
	visit, err := s.visits.GetHome(ctx)
	if err != nil {
		return domain.Visit{}, fmt.Errorf("service.VisitService.GetHomeCountry: %w", err)
	}
	return visit, nil
}

// validateVisitType rejects values outside the trip/transit/home set.
func validateVisitType(t domain.VisitType) error {
	switch t {
	case domain.VisitTrip, domain.VisitTransit, domain.VisitHome:
		return nil
	default:
		return fmt.Errorf("%w: invalid visit type %q", domain.ErrValidation, t)
	}
}
