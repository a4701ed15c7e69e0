package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tmarkov/travelmap/internal/domain"
)

// VisitRepo defines the persistence operations for Visits.
// Two invariants are enforced at this layer, backed by constraints in the
// schema: at most one visit per country (unique index on country_id) and at
// most one home visit overall (partial unique index on visit_type = 'home').
type VisitRepo interface {
	// Create inserts a new visit and returns the persisted record with its
	// country resolved.
	Create(ctx context.Context, visit domain.Visit) (domain.Visit, error)

	// GetByID retrieves a single visit with its country resolved.
	// Returns domain.ErrNotFound if no visit with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Visit, error)

	// GetByCountryID retrieves the visit for a country, if any.
	// Returns domain.ErrNotFound when the country has no visit.
	GetByCountryID(ctx context.Context, countryID int64) (domain.Visit, error)

	// List returns all visits ordered by created_at descending, with
	// countries resolved.
	List(ctx context.Context) ([]domain.Visit, error)

	// Update overwrites the mutable fields of an existing visit and returns
	// the updated record. Returns domain.ErrNotFound if it does not exist.
	Update(ctx context.Context, visit domain.Visit) (domain.Visit, error)

	// Delete removes a visit by ID. Returns domain.ErrNotFound if it does
	// not exist.
	Delete(ctx context.Context, id int64) error

	// UpsertFromFlight records a flight-derived visit for a country in a
	// single statement: if the country has no visit one is created with the
	// given type, and if it has a transit visit and the new type is trip the
	// visit is upgraded in place. Any other combination leaves the existing
	// visit untouched. Never downgrades.
	UpsertFromFlight(ctx context.Context, countryID int64, visitType domain.VisitType, journeyID int64, visitedAt *time.Time) error

	// SetHome designates countryID as the home country inside one
	// transaction: the current home visit (if any) is demoted to trip, then
	// the target country's visit is upgraded to home or created. Returns the
	// resulting home visit.
	SetHome(ctx context.Context, countryID int64) (domain.Visit, error)

	// GetHome returns the current home visit.
	// Returns domain.ErrNotFound when no home country is set.
	GetHome(ctx context.Context) (domain.Visit, error)
}

// pgVisitRepo is the Postgres implementation of VisitRepo.
type pgVisitRepo struct {
	db db
}

// NewVisitRepo constructs a VisitRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewVisitRepo(db db) VisitRepo {
	return &pgVisitRepo{db: db}
}

// visitColumns selects a visit joined with its country. The v/c aliases must
// match the FROM clause of every query that uses it.
const visitColumns = `
	v.id, v.country_id, v.visited_at, v.notes, v.visit_type, v.source,
	v.flight_journey_id, v.created_at, v.updated_at,
	c.id, c.name, c.iso_code, c.iso_code_2, c.created_at`

const visitFrom = ` FROM visits v JOIN countries c ON c.id = v.country_id`

func (r *pgVisitRepo) Create(ctx context.Context, visit domain.Visit) (domain.Visit, error) {
	const q = `
		INSERT INTO visits (country_id, visited_at, notes, visit_type, source, flight_journey_id)
		VALUES (@country_id, @visited_at, @notes, @visit_type, @source, @flight_journey_id)
		RETURNING id`

	args := pgx.NamedArgs{
		"country_id":        visit.CountryID,
		"visited_at":        visit.VisitedAt,
		"notes":             visit.Notes,
		"visit_type":        string(visit.Type),
		"source":            string(visit.Source),
		"flight_journey_id": visit.FlightJourneyID,
	}

	var id int64
	if err := r.db.QueryRow(ctx, q, args).Scan(&id); err != nil {
		return domain.Visit{}, fmt.Errorf("repo.VisitRepo.Create: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *pgVisitRepo) GetByID(ctx context.Context, id int64) (domain.Visit, error) {
	q := `SELECT` + visitColumns + visitFrom + ` WHERE v.id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanVisit(row)
	if err != nil {
		return domain.Visit{}, fmt.Errorf("repo.VisitRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgVisitRepo) GetByCountryID(ctx context.Context, countryID int64) (domain.Visit, error) {
	q := `SELECT` + visitColumns + visitFrom + ` WHERE v.country_id = @country_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"country_id": countryID})
	result, err := scanVisit(row)
	if err != nil {
		return domain.Visit{}, fmt.Errorf("repo.VisitRepo.GetByCountryID: %w", err)
	}
	return result, nil
}

func (r *pgVisitRepo) List(ctx context.Context) ([]domain.Visit, error) {
	q := `SELECT` + visitColumns + visitFrom + ` ORDER BY v.created_at DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.VisitRepo.List: %w", err)
	}
	defer rows.Close()

	visits := []domain.Visit{}
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.VisitRepo.List: scan: %w", err)
		}
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.VisitRepo.List: rows: %w", err)
	}
	return visits, nil
}

func (r *pgVisitRepo) Update(ctx context.Context, visit domain.Visit) (domain.Visit, error) {
	const q = `
		UPDATE visits
		SET visited_at = @visited_at,
		    notes      = @notes,
		    visit_type = @visit_type,
		    updated_at = now()
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{
		"id":         visit.ID,
		"visited_at": visit.VisitedAt,
		"notes":      visit.Notes,
		"visit_type": string(visit.Type),
	})
	if err != nil {
		return domain.Visit{}, fmt.Errorf("repo.VisitRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Visit{}, fmt.Errorf("repo.VisitRepo.Update: %w", domain.ErrNotFound)
	}
	return r.GetByID(ctx, visit.ID)
}

func (r *pgVisitRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM visits WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.VisitRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.VisitRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// UpsertFromFlight implements find-or-create-or-upgrade as one statement.
// The ON CONFLICT WHERE clause fires only for the transit→trip upgrade; every
// other combination (already trip, already home, new type also transit) is a
// no-op. Racing flight creations for the same country serialize on the
// country_id unique index instead of creating duplicates.
func (r *pgVisitRepo) UpsertFromFlight(ctx context.Context, countryID int64, visitType domain.VisitType, journeyID int64, visitedAt *time.Time) error {
	const q = `
		INSERT INTO visits (country_id, visited_at, visit_type, source, flight_journey_id)
		VALUES (@country_id, @visited_at, @visit_type, 'flight', @journey_id)
		ON CONFLICT (country_id) DO UPDATE
		SET visit_type = 'trip',
		    updated_at = now()
		WHERE visits.visit_type = 'transit' AND EXCLUDED.visit_type = 'trip'`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{
		"country_id": countryID,
		"visited_at": visitedAt,
		"visit_type": string(visitType),
		"journey_id": journeyID,
	})
	if err != nil {
		return fmt.Errorf("repo.VisitRepo.UpsertFromFlight: %w", err)
	}
	return nil
}

// SetHome runs the demote-then-promote sequence in a single transaction so
// the "at most one home" invariant holds even under concurrent callers; the
// partial unique index on visit_type = 'home' backs it up.
func (r *pgVisitRepo) SetHome(ctx context.Context, countryID int64) (domain.Visit, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Visit{}, fmt.Errorf("repo.VisitRepo.SetHome: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	const demote = `
		UPDATE visits
		SET visit_type = 'trip', updated_at = now()
		WHERE visit_type = 'home' AND country_id <> @country_id`

	if _, err := tx.Exec(ctx, demote, pgx.NamedArgs{"country_id": countryID}); err != nil {
		return domain.Visit{}, fmt.Errorf("repo.VisitRepo.SetHome: demote: %w", err)
	}

	const promote = `
		INSERT INTO visits (country_id, visit_type, source)
		VALUES (@country_id, 'home', 'manual')
		ON CONFLICT (country_id) DO UPDATE
		SET visit_type = 'home', updated_at = now()
		RETURNING id`

	var id int64
	if err := tx.QueryRow(ctx, promote, pgx.NamedArgs{"country_id": countryID}).Scan(&id); err != nil {
		return domain.Visit{}, fmt.Errorf("repo.VisitRepo.SetHome: promote: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Visit{}, fmt.Errorf("repo.VisitRepo.SetHome: commit: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *pgVisitRepo) GetHome(ctx context.Context) (domain.Visit, error) {
	q := `SELECT` + visitColumns + visitFrom + ` WHERE v.visit_type = 'home'`

	row := r.db.QueryRow(ctx, q)
	result, err := scanVisit(row)
	if err != nil {
		return domain.Visit{}, fmt.Errorf("repo.VisitRepo.GetHome: %w", err)
	}
	return result, nil
}

// scanVisit maps a joined visits/countries row into a domain.Visit.
func scanVisit(s scanner) (domain.Visit, error) {
	var (
		v         domain.Visit
		visitedAt *time.Time
		notes     *string
		journeyID *int64
	)

	err := s.Scan(
		&v.ID, &v.CountryID, &visitedAt, &notes, &v.Type, &v.Source,
		&journeyID, &v.CreatedAt, &v.UpdatedAt,
		&v.Country.ID, &v.Country.Name, &v.Country.IsoCode, &v.Country.IsoCode2,
		&v.Country.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Visit{}, domain.ErrNotFound
		}
		return domain.Visit{}, err
	}

	v.VisitedAt = visitedAt
	if notes != nil {
		v.Notes = *notes
	}
	v.FlightJourneyID = journeyID
	return v, nil
}
