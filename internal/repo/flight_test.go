package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmarkov/travelmap/internal/domain"
	"github.com/tmarkov/travelmap/internal/repo"
)

// seedRouteAirports seeds the three airports used by the journey fixtures and
// returns their IDs in (AMS, FRA, JFK) order.
func seedRouteAirports(t *testing.T, tx pgx.Tx) (int64, int64, int64) {
	t.Helper()
	ams := seedAirport(t, tx, "AMS", "Amsterdam Schiphol", "Amsterdam", "Netherlands", "NL", 52.3086, 4.7639)
	fra := seedAirport(t, tx, "FRA", "Frankfurt am Main", "Frankfurt", "Germany", "DE", 50.0264, 8.5431)
	jfk := seedAirport(t, tx, "JFK", "John F. Kennedy Intl", "New York", "United States", "US", 40.6398, -73.7789)
	return ams, fra, jfk
}

func journeyInput(date *time.Time, legs ...domain.FlightLeg) domain.FlightJourney {
	return domain.FlightJourney{
		JourneyDate: date,
		Notes:       "test journey",
		Legs:        legs,
	}
}

func TestFlightRepo_CreateAndGetJourney(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewFlightRepo(tx)
	ctx := context.Background()

	ams, fra, jfk := seedRouteAirports(t, tx)
	date := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)

	id, err := r.CreateJourney(ctx, journeyInput(&date,
		domain.FlightLeg{LegOrder: 1, DepartureAirportID: ams, ArrivalAirportID: fra, DistanceKm: 365.45},
		domain.FlightLeg{LegOrder: 2, DepartureAirportID: fra, ArrivalAirportID: jfk, DistanceKm: 6206.73},
	))
	require.NoError(t, err)

	got, err := r.GetJourney(ctx, id)

	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "test journey", got.Notes)
	require.NotNil(t, got.JourneyDate)
	assert.Equal(t, 2024, got.JourneyDate.Year())
	assert.False(t, got.CreatedAt.IsZero())

	require.Len(t, got.Legs, 2)
	assert.Equal(t, 1, got.Legs[0].LegOrder)
	assert.Equal(t, "AMS", got.Legs[0].DepartureAirport.IataCode)
	assert.Equal(t, "FRA", got.Legs[0].ArrivalAirport.IataCode)
	assert.Equal(t, 365.45, got.Legs[0].DistanceKm)
	assert.Equal(t, "JFK", got.Legs[1].ArrivalAirport.IataCode)
}

func TestFlightRepo_GetJourney_NotFound(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewFlightRepo(tx)

	_, err := r.GetJourney(context.Background(), 999999)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFlightRepo_ListJourneys_MostRecentFirstUndatedLast(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewFlightRepo(tx)
	ctx := context.Background()

	ams, fra, _ := seedRouteAirports(t, tx)
	leg := domain.FlightLeg{LegOrder: 1, DepartureAirportID: ams, ArrivalAirportID: fra, DistanceKm: 365.45}

	older := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)

	oldID, err := r.CreateJourney(ctx, journeyInput(&older, leg))
	require.NoError(t, err)
	undatedID, err := r.CreateJourney(ctx, journeyInput(nil, leg))
	require.NoError(t, err)
	newID, err := r.CreateJourney(ctx, journeyInput(&newer, leg))
	require.NoError(t, err)

	got, err := r.ListJourneys(ctx)

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, newID, got[0].ID)
	assert.Equal(t, oldID, got[1].ID)
	assert.Equal(t, undatedID, got[2].ID, "undated journeys sort last")
	require.Len(t, got[0].Legs, 1, "listing resolves legs")
	assert.Equal(t, "AMS", got[0].Legs[0].DepartureAirport.IataCode)
}

func TestFlightRepo_UpdateJourney(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewFlightRepo(tx)
	ctx := context.Background()

	ams, fra, _ := seedRouteAirports(t, tx)
	id, err := r.CreateJourney(ctx, journeyInput(nil,
		domain.FlightLeg{LegOrder: 1, DepartureAirportID: ams, ArrivalAirportID: fra, DistanceKm: 365.45},
	))
	require.NoError(t, err)

	journey, err := r.GetJourney(ctx, id)
	require.NoError(t, err)
	journey.Notes = "renamed"
	journey.IsRoundTrip = true

	require.NoError(t, r.UpdateJourney(ctx, journey))

	got, err := r.GetJourney(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Notes)
	assert.True(t, got.IsRoundTrip)
}

func TestFlightRepo_UpdateJourney_NotFound(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewFlightRepo(tx)

	err := r.UpdateJourney(context.Background(), domain.FlightJourney{ID: 999999})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFlightRepo_DeleteJourney_CascadesLegs(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewFlightRepo(tx)
	ctx := context.Background()

	ams, fra, _ := seedRouteAirports(t, tx)
	id, err := r.CreateJourney(ctx, journeyInput(nil,
		domain.FlightLeg{LegOrder: 1, DepartureAirportID: ams, ArrivalAirportID: fra, DistanceKm: 365.45},
	))
	require.NoError(t, err)

	require.NoError(t, r.DeleteJourney(ctx, id))

	_, err = r.GetJourney(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var legCount int
	err = tx.QueryRow(ctx, `SELECT count(*) FROM flight_legs WHERE journey_id = $1`, id).Scan(&legCount)
	require.NoError(t, err)
	assert.Zero(t, legCount, "legs are deleted with their journey")
}

func TestFlightRepo_DeleteJourney_NotFound(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewFlightRepo(tx)

	err := r.DeleteJourney(context.Background(), 999999)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
