package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmarkov/travelmap/internal/domain"
	"github.com/tmarkov/travelmap/internal/handler"
	"github.com/tmarkov/travelmap/internal/service"
)

// mockVisitServicer is a test double for handler.VisitServicer.
type mockVisitServicer struct {
	create         func(ctx context.Context, input service.CreateVisitInput) (domain.Visit, error)
	getByID        func(ctx context.Context, id int64) (domain.Visit, error)
	list           func(ctx context.Context) ([]domain.Visit, error)
	update         func(ctx context.Context, id int64, input service.UpdateVisitInput) (domain.Visit, error)
	delete         func(ctx context.Context, id int64) error
	setHomeCountry func(ctx context.Context, countryID int64) (domain.Visit, error)
	getHomeCountry func(ctx context.Context) (domain.Visit, error)
}

func (m *mockVisitServicer) Create(ctx context.Context, input service.CreateVisitInput) (domain.Visit, error) {
	return m.create(ctx, input)
}
func (m *mockVisitServicer) GetByID(ctx context.Context, id int64) (domain.Visit, error) {
	return m.getByID(ctx, id)
}
func (m *mockVisitServicer) List(ctx context.Context) ([]domain.Visit, error) {
	return m.list(ctx)
}
func (m *mockVisitServicer) Update(ctx context.Context, id int64, input service.UpdateVisitInput) (domain.Visit, error) {
	return m.update(ctx, id, input)
}
func (m *mockVisitServicer) Delete(ctx context.Context, id int64) error {
	return m.delete(ctx, id)
}
func (m *mockVisitServicer) SetHomeCountry(ctx context.Context, countryID int64) (domain.Visit, error) {
	return m.setHomeCountry(ctx, countryID)
}
func (m *mockVisitServicer) GetHomeCountry(ctx context.Context) (domain.Visit, error) {
	return m.getHomeCountry(ctx)
}

var _ handler.VisitServicer = (*mockVisitServicer)(nil)

func visitFixture() domain.Visit {
	now := time.Date(2024, 7, 16, 12, 0, 0, 0, time.UTC)
	return domain.Visit{
		ID:        5,
		CountryID: 1,
		Country:   domain.Country{ID: 1, Name: "Netherlands", IsoCode: "NLD", IsoCode2: "NL"},
		Type:      domain.VisitTrip,
		Source:    domain.SourceManual,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ---- POST /visits ----------------------------------------------------------

func TestCreateVisit_201(t *testing.T) {
	var gotInput service.CreateVisitInput
	svc := &mockVisitServicer{
		create: func(_ context.Context, input service.CreateVisitInput) (domain.Visit, error) {
			gotInput = input
			return visitFixture(), nil
		},
	}

	body := jsonBody(t, map[string]any{"countryId": 1, "visitType": "trip"})
	req := httptest.NewRequest(http.MethodPost, "/visits", body)
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, svc, nil, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(1), gotInput.CountryID)
	assert.Equal(t, domain.VisitTrip, gotInput.Type)

	var resp handler.VisitResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Netherlands", resp.Country.Name)
	assert.Equal(t, "trip", resp.VisitType)
}

func TestCreateVisit_422_DuplicateCountry(t *testing.T) {
	svc := &mockVisitServicer{
		create: func(_ context.Context, _ service.CreateVisitInput) (domain.Visit, error) {
			return domain.Visit{}, fmt.Errorf("%w: country already has a visit", domain.ErrValidation)
		},
	}

	body := jsonBody(t, map[string]any{"countryId": 1})
	req := httptest.NewRequest(http.MethodPost, "/visits", body)
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, svc, nil, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "country already has a visit", resp.Error.Message)
}

// ---- PATCH /visits/{id} ----------------------------------------------------

func TestUpdateVisit_200(t *testing.T) {
	svc := &mockVisitServicer{
		update: func(_ context.Context, id int64, input service.UpdateVisitInput) (domain.Visit, error) {
			assert.Equal(t, int64(5), id)
			require.NotNil(t, input.Type)
			assert.Equal(t, domain.VisitTrip, *input.Type)
			fixture := visitFixture()
			fixture.Type = *input.Type
			return fixture, nil
		},
	}

	body := jsonBody(t, map[string]any{"visitType": "trip"})
	req := httptest.NewRequest(http.MethodPatch, "/visits/5", body)
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, svc, nil, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateVisit_422_HomeViaPatch(t *testing.T) {
	svc := &mockVisitServicer{
		update: func(_ context.Context, _ int64, _ service.UpdateVisitInput) (domain.Visit, error) {
			return domain.Visit{}, fmt.Errorf("%w: use the home-country endpoint to change the home country", domain.ErrValidation)
		},
	}

	body := jsonBody(t, map[string]any{"visitType": "home"})
	req := httptest.NewRequest(http.MethodPatch, "/visits/5", body)
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, svc, nil, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// ---- home country ----------------------------------------------------------

func TestSetHomeCountry_200(t *testing.T) {
	svc := &mockVisitServicer{
		setHomeCountry: func(_ context.Context, countryID int64) (domain.Visit, error) {
			assert.Equal(t, int64(1), countryID)
			fixture := visitFixture()
			fixture.Type = domain.VisitHome
			return fixture, nil
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/visits/home/1", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, svc, nil, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp handler.VisitResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "home", resp.VisitType)
}

func TestGetHomeCountry_404_WhenUnset(t *testing.T) {
	svc := &mockVisitServicer{
		getHomeCountry: func(_ context.Context) (domain.Visit, error) {
			return domain.Visit{}, fmt.Errorf("repo: %w", domain.ErrNotFound)
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/visits/home", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, svc, nil, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- DELETE /visits/{id} ---------------------------------------------------

func TestDeleteVisit_204(t *testing.T) {
	svc := &mockVisitServicer{
		delete: func(_ context.Context, id int64) error {
			assert.Equal(t, int64(5), id)
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/visits/5", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, svc, nil, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
