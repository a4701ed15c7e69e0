package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tmarkov/travelmap/internal/domain"
)

// FlightRepo defines the persistence operations for FlightJourneys and their legs.
// Legs are only ever written as part of journey creation and only ever read
// with both airports resolved, so they have no repository of their own.
type FlightRepo interface {
	// CreateJourney inserts a journey and all of its legs in one transaction.
	// Either everything is persisted or nothing is — a failed leg insert
	// rolls back the journey row too. Returns the new journey ID.
	CreateJourney(ctx context.Context, journey domain.FlightJourney) (int64, error)

	// GetJourney retrieves a journey with its legs in order and both airports
	// of every leg resolved. Returns domain.ErrNotFound if it does not exist.
	GetJourney(ctx context.Context, id int64) (domain.FlightJourney, error)

	// ListJourneys returns all journeys ordered by journey_date descending
	// (undated journeys last) then created_at descending, each with resolved
	// legs and airports.
	ListJourneys(ctx context.Context) ([]domain.FlightJourney, error)

	// UpdateJourney overwrites the mutable fields (date, round-trip flag,
	// notes) of an existing journey. Legs are immutable. Returns
	// domain.ErrNotFound if the journey does not exist.
	UpdateJourney(ctx context.Context, journey domain.FlightJourney) error

	// DeleteJourney removes a journey by ID. Legs are deleted by the
	// ON DELETE CASCADE constraint; visits referencing the journey keep
	// existing with a nulled reference. Returns domain.ErrNotFound if the
	// journey does not exist.
	DeleteJourney(ctx context.Context, id int64) error
}

// pgFlightRepo is the Postgres implementation of FlightRepo.
type pgFlightRepo struct {
	db db
}

// NewFlightRepo constructs a FlightRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback
// isolation (CreateJourney then runs inside a savepoint).
func NewFlightRepo(db db) FlightRepo {
	return &pgFlightRepo{db: db}
}

func (r *pgFlightRepo) CreateJourney(ctx context.Context, journey domain.FlightJourney) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("repo.FlightRepo.CreateJourney: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	const insertJourney = `
		INSERT INTO flight_journeys (journey_date, is_round_trip, notes)
		VALUES (@journey_date, @is_round_trip, @notes)
		RETURNING id`

	args := pgx.NamedArgs{
		"journey_date":  journey.JourneyDate, // nil becomes NULL
		"is_round_trip": journey.IsRoundTrip,
		"notes":         journey.Notes,
	}

	var id int64
	if err := tx.QueryRow(ctx, insertJourney, args).Scan(&id); err != nil {
		return 0, fmt.Errorf("repo.FlightRepo.CreateJourney: insert journey: %w", err)
	}

	const insertLeg = `
		INSERT INTO flight_legs
			(journey_id, leg_order, departure_airport_id, arrival_airport_id, distance_km)
		VALUES
			(@journey_id, @leg_order, @departure_airport_id, @arrival_airport_id, @distance_km)`

	for _, leg := range journey.Legs {
		_, err := tx.Exec(ctx, insertLeg, pgx.NamedArgs{
			"journey_id":           id,
			"leg_order":            leg.LegOrder,
			"departure_airport_id": leg.DepartureAirportID,
			"arrival_airport_id":   leg.ArrivalAirportID,
			"distance_km":          leg.DistanceKm,
		})
		if err != nil {
			return 0, fmt.Errorf("repo.FlightRepo.CreateJourney: insert leg %d: %w", leg.LegOrder, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("repo.FlightRepo.CreateJourney: commit: %w", err)
	}
	return id, nil
}

func (r *pgFlightRepo) GetJourney(ctx context.Context, id int64) (domain.FlightJourney, error) {
	const q = `
		SELECT id, journey_date, is_round_trip, notes, created_at, updated_at
		FROM flight_journeys
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	journey, err := scanJourney(row)
	if err != nil {
		return domain.FlightJourney{}, fmt.Errorf("repo.FlightRepo.GetJourney: %w", err)
	}

	legs, err := r.legsForJourneys(ctx, []int64{id})
	if err != nil {
		return domain.FlightJourney{}, fmt.Errorf("repo.FlightRepo.GetJourney: %w", err)
	}
	journey.Legs = legs[id]
	if journey.Legs == nil {
		journey.Legs = []domain.FlightLeg{}
	}
	return journey, nil
}

func (r *pgFlightRepo) ListJourneys(ctx context.Context) ([]domain.FlightJourney, error) {
	const q = `
		SELECT id, journey_date, is_round_trip, notes, created_at, updated_at
		FROM flight_journeys
		ORDER BY journey_date DESC NULLS LAST, created_at DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.FlightRepo.ListJourneys: %w", err)
	}
	defer rows.Close()

	journeys := []domain.FlightJourney{}
	ids := []int64{}
	for rows.Next() {
		j, err := scanJourney(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.FlightRepo.ListJourneys: scan: %w", err)
		}
		journeys = append(journeys, j)
		ids = append(ids, j.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.FlightRepo.ListJourneys: rows: %w", err)
	}

	if len(ids) == 0 {
		return journeys, nil
	}

	legs, err := r.legsForJourneys(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("repo.FlightRepo.ListJourneys: %w", err)
	}
	for i := range journeys {
		journeys[i].Legs = legs[journeys[i].ID]
		if journeys[i].Legs == nil {
			journeys[i].Legs = []domain.FlightLeg{}
		}
	}
	return journeys, nil
}

func (r *pgFlightRepo) UpdateJourney(ctx context.Context, journey domain.FlightJourney) error {
	const q = `
		UPDATE flight_journeys
		SET journey_date  = @journey_date,
		    is_round_trip = @is_round_trip,
		    notes         = @notes,
		    updated_at    = now()
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{
		"id":            journey.ID,
		"journey_date":  journey.JourneyDate,
		"is_round_trip": journey.IsRoundTrip,
		"notes":         journey.Notes,
	})
	if err != nil {
		return fmt.Errorf("repo.FlightRepo.UpdateJourney: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.FlightRepo.UpdateJourney: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgFlightRepo) DeleteJourney(ctx context.Context, id int64) error {
	const q = `DELETE FROM flight_journeys WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.FlightRepo.DeleteJourney: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.FlightRepo.DeleteJourney: %w", domain.ErrNotFound)
	}
	return nil
}

// legsForJourneys loads the ordered legs of every journey in ids, with both
// airports of each leg resolved, grouped by journey ID.
func (r *pgFlightRepo) legsForJourneys(ctx context.Context, ids []int64) (map[int64][]domain.FlightLeg, error) {
	const q = `
		SELECT
			l.id, l.journey_id, l.leg_order,
			l.departure_airport_id, l.arrival_airport_id, l.distance_km,
			d.id, d.iata_code, d.icao_code, d.name, d.city, d.country, d.country_iso,
			d.latitude, d.longitude, d.created_at,
			a.id, a.iata_code, a.icao_code, a.name, a.city, a.country, a.country_iso,
			a.latitude, a.longitude, a.created_at
		FROM flight_legs l
		JOIN airports d ON d.id = l.departure_airport_id
		JOIN airports a ON a.id = l.arrival_airport_id
		WHERE l.journey_id = ANY(@ids)
		ORDER BY l.journey_id, l.leg_order`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("legs: %w", err)
	}
	defer rows.Close()

	byJourney := map[int64][]domain.FlightLeg{}
	for rows.Next() {
		leg, err := scanLeg(rows)
		if err != nil {
			return nil, fmt.Errorf("legs: scan: %w", err)
		}
		byJourney[leg.JourneyID] = append(byJourney[leg.JourneyID], leg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("legs: rows: %w", err)
	}
	return byJourney, nil
}

// scanJourney maps a single flight_journeys row into a domain.FlightJourney
// (without legs — those are attached by the caller).
func scanJourney(s scanner) (domain.FlightJourney, error) {
	var (
		j     domain.FlightJourney
		date  *time.Time
		notes *string
	)

	err := s.Scan(&j.ID, &date, &j.IsRoundTrip, &notes, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.FlightJourney{}, domain.ErrNotFound
		}
		return domain.FlightJourney{}, err
	}

	j.JourneyDate = date
	if notes != nil {
		j.Notes = *notes
	}
	return j, nil
}

// scanLeg maps one joined flight_legs row (leg + departure + arrival airport)
// into a domain.FlightLeg.
func scanLeg(s scanner) (domain.FlightLeg, error) {
	var (
		leg                domain.FlightLeg
		depIcao, depCity   *string
		depCountry, depIso *string
		arrIcao, arrCity   *string
		arrCountry, arrIso *string
	)

	err := s.Scan(
		&leg.ID, &leg.JourneyID, &leg.LegOrder,
		&leg.DepartureAirportID, &leg.ArrivalAirportID, &leg.DistanceKm,
		&leg.DepartureAirport.ID, &leg.DepartureAirport.IataCode, &depIcao,
		&leg.DepartureAirport.Name, &depCity, &depCountry, &depIso,
		&leg.DepartureAirport.Latitude, &leg.DepartureAirport.Longitude,
		&leg.DepartureAirport.CreatedAt,
		&leg.ArrivalAirport.ID, &leg.ArrivalAirport.IataCode, &arrIcao,
		&leg.ArrivalAirport.Name, &arrCity, &arrCountry, &arrIso,
		&leg.ArrivalAirport.Latitude, &leg.ArrivalAirport.Longitude,
		&leg.ArrivalAirport.CreatedAt,
	)
	if err != nil {
		return domain.FlightLeg{}, err
	}

	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	assign(&leg.DepartureAirport.IcaoCode, depIcao)
	assign(&leg.DepartureAirport.City, depCity)
	assign(&leg.DepartureAirport.Country, depCountry)
	assign(&leg.DepartureAirport.CountryIso, depIso)
	assign(&leg.ArrivalAirport.IcaoCode, arrIcao)
	assign(&leg.ArrivalAirport.City, arrCity)
	assign(&leg.ArrivalAirport.Country, arrCountry)
	assign(&leg.ArrivalAirport.CountryIso, arrIso)

	return leg, nil
}
