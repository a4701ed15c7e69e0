package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmarkov/travelmap/internal/domain"
	"github.com/tmarkov/travelmap/internal/repo"
)

// CountryService implements read-only country lookups over the seeded
// reference data.
type CountryService struct {
	countries repo.CountryRepo
}

// NewCountryService constructs a CountryService backed by the provided repo.
func NewCountryService(countries repo.CountryRepo) *CountryService {
	return &CountryService{countries: countries}
}

// List returns all countries ordered by name.
func (s *CountryService) List(ctx context.Context) ([]domain.Country, error) {
	countries, err := s.countries.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.CountryService.List: %w", err)
	}
	if countries == nil {
		return []domain.Country{}, nil
	}
	return countries, nil
}

// GetByID returns a single country.
func (s *CountryService) GetByID(ctx context.Context, id int64) (domain.Country, error) {
	country, err := s.countries.GetByID(ctx, id)
	if err != nil {
		return domain.Country{}, fmt.Errorf("service.CountryService.GetByID: %w", err)
	}
	return country, nil
}

// GetByIso returns the country with the given ISO code, accepting either the
// 2-letter or the 3-letter form. Any other length is a validation error.
func (s *CountryService) GetByIso(ctx context.Context, code string) (domain.Country, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	var (
		country domain.Country
		err     error
	)
	switch len(code) {
	case 2:
		country, err = s.countries.GetByIso2(ctx, code)
	case 3:
		country, err = s.countries.GetByIso(ctx, code)
	default:
		return domain.Country{}, fmt.Errorf("%w: iso code must be 2 or 3 letters", domain.ErrValidation)
	}
	if err != nil {
		return domain.Country{}, fmt.Errorf("service.CountryService.GetByIso: %w", err)
	}
	return country, nil
}
