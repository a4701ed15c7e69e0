package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tmarkov/travelmap/internal/domain"
)

// CountryRepo defines the read-only persistence operations for Countries.
// Countries are reference data seeded outside this application.
type CountryRepo interface {
	// GetByID retrieves a single country by primary key.
	// Returns domain.ErrNotFound if no country with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Country, error)

	// GetByIso retrieves a country by its 3-letter ISO code.
	GetByIso(ctx context.Context, code string) (domain.Country, error)

	// GetByIso2 retrieves a country by its 2-letter ISO code.
	// Flight legs carry 2-letter codes, so visit derivation goes through here.
	GetByIso2(ctx context.Context, code string) (domain.Country, error)

	// List returns all countries ordered by name.
	List(ctx context.Context) ([]domain.Country, error)
}

// pgCountryRepo is the Postgres implementation of CountryRepo.
type pgCountryRepo struct {
	db db
}

// NewCountryRepo constructs a CountryRepo backed by the provided db connection.
func NewCountryRepo(db db) CountryRepo {
	return &pgCountryRepo{db: db}
}

const countryColumns = `id, name, iso_code, iso_code_2, created_at`

func (r *pgCountryRepo) GetByID(ctx context.Context, id int64) (domain.Country, error) {
	q := `SELECT ` + countryColumns + ` FROM countries WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanCountry(row)
	if err != nil {
		return domain.Country{}, fmt.Errorf("repo.CountryRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgCountryRepo) GetByIso(ctx context.Context, code string) (domain.Country, error) {
	q := `SELECT ` + countryColumns + ` FROM countries WHERE iso_code = @code`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"code": code})
	result, err := scanCountry(row)
	if err != nil {
		return domain.Country{}, fmt.Errorf("repo.CountryRepo.GetByIso: %w", err)
	}
	return result, nil
}

func (r *pgCountryRepo) GetByIso2(ctx context.Context, code string) (domain.Country, error) {
	q := `SELECT ` + countryColumns + ` FROM countries WHERE iso_code_2 = @code`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"code": code})
	result, err := scanCountry(row)
	if err != nil {
		return domain.Country{}, fmt.Errorf("repo.CountryRepo.GetByIso2: %w", err)
	}
	return result, nil
}

func (r *pgCountryRepo) List(ctx context.Context) ([]domain.Country, error) {
	q := `SELECT ` + countryColumns + ` FROM countries ORDER BY name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.CountryRepo.List: %w", err)
	}
	defer rows.Close()

	countries := []domain.Country{}
	for rows.Next() {
		c, err := scanCountry(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.CountryRepo.List: scan: %w", err)
		}
		countries = append(countries, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CountryRepo.List: rows: %w", err)
	}
	return countries, nil
}

// scanCountry maps a single database row into a domain.Country.
func scanCountry(s scanner) (domain.Country, error) {
	var c domain.Country
	err := s.Scan(&c.ID, &c.Name, &c.IsoCode, &c.IsoCode2, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Country{}, domain.ErrNotFound
		}
		return domain.Country{}, err
	}
	return c, nil
}
