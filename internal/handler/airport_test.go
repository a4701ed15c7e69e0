package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmarkov/travelmap/internal/domain"
	"github.com/tmarkov/travelmap/internal/handler"
)

// mockAirportServicer is a test double for handler.AirportServicer.
type mockAirportServicer struct {
	getByID   func(ctx context.Context, id int64) (domain.Airport, error)
	getByIata func(ctx context.Context, code string) (domain.Airport, error)
	list      func(ctx context.Context) ([]domain.Airport, error)
	search    func(ctx context.Context, query string, limit int) ([]domain.Airport, error)
}

func (m *mockAirportServicer) GetByID(ctx context.Context, id int64) (domain.Airport, error) {
	return m.getByID(ctx, id)
}
func (m *mockAirportServicer) GetByIata(ctx context.Context, code string) (domain.Airport, error) {
	return m.getByIata(ctx, code)
}
func (m *mockAirportServicer) List(ctx context.Context) ([]domain.Airport, error) {
	return m.list(ctx)
}
func (m *mockAirportServicer) Search(ctx context.Context, query string, limit int) ([]domain.Airport, error) {
	return m.search(ctx, query, limit)
}

var _ handler.AirportServicer = (*mockAirportServicer)(nil)

func airportFixture() domain.Airport {
	return domain.Airport{
		ID:         1,
		IataCode:   "AMS",
		IcaoCode:   "EHAM",
		Name:       "Amsterdam Schiphol",
		City:       "Amsterdam",
		Country:    "Netherlands",
		CountryIso: "NL",
		Latitude:   52.3086,
		Longitude:  4.7639,
	}
}

// ---- GET /airports/search --------------------------------------------------

func TestSearchAirports_200_PassesQueryAndLimit(t *testing.T) {
	var gotQuery string
	var gotLimit int
	svc := &mockAirportServicer{
		search: func(_ context.Context, query string, limit int) ([]domain.Airport, error) {
			gotQuery = query
			gotLimit = limit
			return []domain.Airport{airportFixture()}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/airports/search?q=amster&limit=5", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, nil, svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "amster", gotQuery)
	assert.Equal(t, 5, gotLimit)

	var resp []handler.AirportResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "AMS", resp[0].IataCode)
}

func TestSearchAirports_422_BadLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/airports/search?q=ams&limit=lots", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, nil, &mockAirportServicer{}, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// ---- GET /airports/iata/{code} ---------------------------------------------

func TestGetAirportByIata_200(t *testing.T) {
	svc := &mockAirportServicer{
		getByIata: func(_ context.Context, code string) (domain.Airport, error) {
			assert.Equal(t, "ams", code)
			return airportFixture(), nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/airports/iata/ams", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, nil, svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetAirportByIata_404(t *testing.T) {
	svc := &mockAirportServicer{
		getByIata: func(_ context.Context, _ string) (domain.Airport, error) {
			return domain.Airport{}, fmt.Errorf("repo: %w", domain.ErrNotFound)
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/airports/iata/XXX", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, nil, svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- GET /airports/{id} ----------------------------------------------------

func TestGetAirport_200_OptionalFieldsPresent(t *testing.T) {
	svc := &mockAirportServicer{
		getByID: func(_ context.Context, id int64) (domain.Airport, error) {
			assert.Equal(t, int64(1), id)
			return airportFixture(), nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/airports/1", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, nil, svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp handler.AirportResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.City)
	assert.Equal(t, "Amsterdam", *resp.City)
	require.NotNil(t, resp.CountryIso)
	assert.Equal(t, "NL", *resp.CountryIso)
}
