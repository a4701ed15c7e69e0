package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmarkov/travelmap/internal/domain"
	"github.com/tmarkov/travelmap/internal/repo"
)

func TestCountryRepo_GetByIso(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewCountryRepo(tx)
	ctx := context.Background()

	seedCountry(t, tx, "Netherlands", "NLD", "NL")

	got, err := r.GetByIso(ctx, "NLD")

	require.NoError(t, err)
	assert.Equal(t, "Netherlands", got.Name)
	assert.Equal(t, "NL", got.IsoCode2)
}

func TestCountryRepo_GetByIso2(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewCountryRepo(tx)
	ctx := context.Background()

	id := seedCountry(t, tx, "Germany", "DEU", "DE")

	got, err := r.GetByIso2(ctx, "DE")

	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	_, err = r.GetByIso2(ctx, "XX")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCountryRepo_List_OrderedByName(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewCountryRepo(tx)
	ctx := context.Background()

	seedCountry(t, tx, "Netherlands", "NLD", "NL")
	seedCountry(t, tx, "Bulgaria", "BGR", "BG")
	seedCountry(t, tx, "Germany", "DEU", "DE")

	got, err := r.List(ctx)

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Bulgaria", got[0].Name)
	assert.Equal(t, "Germany", got[1].Name)
	assert.Equal(t, "Netherlands", got[2].Name)
}
