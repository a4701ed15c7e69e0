package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmarkov/travelmap/internal/domain"
	"github.com/tmarkov/travelmap/internal/repo"
)

// Caps on airport listing and search results.
const (
	airportListCap       = 100
	airportSearchDefault = 20
)

// AirportService implements read-only airport lookups over the seeded
// reference data.
type AirportService struct {
	airports repo.AirportRepo
}

// NewAirportService constructs an AirportService backed by the provided repo.
func NewAirportService(airports repo.AirportRepo) *AirportService {
	return &AirportService{airports: airports}
}

// GetByID returns a single airport.
func (s *AirportService) GetByID(ctx context.Context, id int64) (domain.Airport, error) {
	airport, err := s.airports.GetByID(ctx, id)
	if err != nil {
		return domain.Airport{}, fmt.Errorf("service.AirportService.GetByID: %w", err)
	}
	return airport, nil
}

// GetByIata returns the airport with the given IATA code. The code is
// uppercased before lookup so "lis" and "LIS" resolve identically.
func (s *AirportService) GetByIata(ctx context.Context, code string) (domain.Airport, error) {
	airport, err := s.airports.GetByIata(ctx, strings.ToUpper(code))
	if err != nil {
		return domain.Airport{}, fmt.Errorf("service.AirportService.GetByIata: %w", err)
	}
	return airport, nil
}

// List returns airports ordered by name, hard-capped at 100.
func (s *AirportService) List(ctx context.Context) ([]domain.Airport, error) {
	airports, err := s.airports.List(ctx, airportListCap)
	if err != nil {
		return nil, fmt.Errorf("service.AirportService.List: %w", err)
	}
	if airports == nil {
		return []domain.Airport{}, nil
	}
	return airports, nil
}

// Search returns airports matching the free-text query over IATA code, name,
// city, and country. Queries shorter than 2 characters return an empty slice
// rather than an error. A non-positive limit falls back to 20; the cap is 100.
func (s *AirportService) Search(ctx context.Context, query string, limit int) ([]domain.Airport, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return []domain.Airport{}, nil
	}

	if limit <= 0 {
		limit = airportSearchDefault
	}
	if limit > airportListCap {
		limit = airportListCap
	}

	airports, err := s.airports.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("service.AirportService.Search: %w", err)
	}
	if airports == nil {
		return []domain.Airport{}, nil
	}
	return airports, nil
}
