package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tmarkov/travelmap/internal/domain"
)

// AirportRepo defines the read-only persistence operations for Airports.
// Airports are reference data seeded outside this application, so there are
// no write operations.
type AirportRepo interface {
	// GetByID retrieves a single airport by primary key.
	// Returns domain.ErrNotFound if no airport with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Airport, error)

	// GetByIDs retrieves all airports whose IDs appear in ids, in no
	// particular order. Missing IDs are simply absent from the result —
	// callers that need all-or-nothing semantics compare lengths.
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Airport, error)

	// GetByIata retrieves a single airport by its 3-letter IATA code.
	// The code must already be uppercased by the caller.
	GetByIata(ctx context.Context, code string) (domain.Airport, error)

	// List returns up to limit airports ordered by name.
	List(ctx context.Context, limit int) ([]domain.Airport, error)

	// Search returns up to limit airports whose IATA code, name, city, or
	// country contains the query (case-insensitive), ordered by IATA code
	// then name.
	Search(ctx context.Context, query string, limit int) ([]domain.Airport, error)
}

// pgAirportRepo is the Postgres implementation of AirportRepo.
type pgAirportRepo struct {
	db db
}

// NewAirportRepo constructs an AirportRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewAirportRepo(db db) AirportRepo {
	return &pgAirportRepo{db: db}
}

const airportColumns = `id, iata_code, icao_code, name, city, country, country_iso,
	latitude, longitude, created_at`

func (r *pgAirportRepo) GetByID(ctx context.Context, id int64) (domain.Airport, error) {
	q := `SELECT ` + airportColumns + ` FROM airports WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanAirport(row)
	if err != nil {
		return domain.Airport{}, fmt.Errorf("repo.AirportRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgAirportRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Airport, error) {
	q := `SELECT ` + airportColumns + ` FROM airports WHERE id = ANY(@ids)`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("repo.AirportRepo.GetByIDs: %w", err)
	}
	defer rows.Close()

	return collectAirports(rows, "GetByIDs")
}

func (r *pgAirportRepo) GetByIata(ctx context.Context, code string) (domain.Airport, error) {
	q := `SELECT ` + airportColumns + ` FROM airports WHERE iata_code = @code`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"code": code})
	result, err := scanAirport(row)
	if err != nil {
		return domain.Airport{}, fmt.Errorf("repo.AirportRepo.GetByIata: %w", err)
	}
	return result, nil
}

func (r *pgAirportRepo) List(ctx context.Context, limit int) ([]domain.Airport, error) {
	q := `SELECT ` + airportColumns + ` FROM airports ORDER BY name LIMIT @limit`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.AirportRepo.List: %w", err)
	}
	defer rows.Close()

	return collectAirports(rows, "List")
}

func (r *pgAirportRepo) Search(ctx context.Context, query string, limit int) ([]domain.Airport, error) {
	q := `
		SELECT ` + airportColumns + `
		FROM airports
		WHERE iata_code ILIKE @pattern
		   OR name      ILIKE @pattern
		   OR city      ILIKE @pattern
		   OR country   ILIKE @pattern
		ORDER BY iata_code, name
		LIMIT @limit`

	args := pgx.NamedArgs{"pattern": "%" + query + "%", "limit": limit}
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.AirportRepo.Search: %w", err)
	}
	defer rows.Close()

	return collectAirports(rows, "Search")
}

// collectAirports drains rows into a slice, wrapping errors with the calling
// method's name.
func collectAirports(rows pgx.Rows, method string) ([]domain.Airport, error) {
	airports := []domain.Airport{}
	for rows.Next() {
		a, err := scanAirport(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.AirportRepo.%s: scan: %w", method, err)
		}
		airports = append(airports, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.AirportRepo.%s: rows: %w", method, err)
	}
	return airports, nil
}

// scanAirport maps a single database row into a domain.Airport.
// Nullable text columns come back as *string and collapse to "".
func scanAirport(s scanner) (domain.Airport, error) {
	var (
		a          domain.Airport
		icao       *string
		city       *string
		country    *string
		countryIso *string
	)

	err := s.Scan(&a.ID, &a.IataCode, &icao, &a.Name, &city, &country, &countryIso,
		&a.Latitude, &a.Longitude, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Airport{}, domain.ErrNotFound
		}
		return domain.Airport{}, err
	}

	if icao != nil {
		a.IcaoCode = *icao
	}
	if city != nil {
		a.City = *city
	}
	if country != nil {
		a.Country = *country
	}
	if countryIso != nil {
		a.CountryIso = *countryIso
	}

	return a, nil
}
