package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmarkov/travelmap/internal/domain"
	"github.com/tmarkov/travelmap/internal/service"
)

func TestCountryService_GetByIso_TwoLetterCode(t *testing.T) {
	svc := service.NewCountryService(fixtureCountries())

	got, err := svc.GetByIso(context.Background(), "nl")

	require.NoError(t, err)
	assert.Equal(t, "Netherlands", got.Name)
}

func TestCountryService_GetByIso_ThreeLetterCode(t *testing.T) {
	svc := service.NewCountryService(fixtureCountries())

	got, err := svc.GetByIso(context.Background(), " deu ")

	require.NoError(t, err)
	assert.Equal(t, "Germany", got.Name)
}

func TestCountryService_GetByIso_WrongLength(t *testing.T) {
	svc := service.NewCountryService(fixtureCountries())

	_, err := svc.GetByIso(context.Background(), "NLDX")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCountryService_GetByIso_Unknown(t *testing.T) {
	svc := service.NewCountryService(fixtureCountries())

	_, err := svc.GetByIso(context.Background(), "ZZ")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCountryService_List_NilBecomesEmptySlice(t *testing.T) {
	svc := service.NewCountryService(&mockCountryRepo{})

	got, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
