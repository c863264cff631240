package category

import (
	"context"
	"testing"

	"github.com/kpata360-rgb/workisready-backend1/internal/common"
	"github.com/kpata360-rgb/workisready-backend1/internal/platform/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const seedYAML = `
categories:
  - name: Home Services
    subcategories: [House Cleaning, Gardening]
  - name: Plumbing
    subcategories: [Leak Repair]
`

func TestSeedTaxonomy_Idempotent(t *testing.T) {
	db := dbtest.Open(t, &Category{}, &SubCategory{})
	repo := NewGORMRepository(db)
	tax, err := ParseTaxonomy([]byte(seedYAML))
	require.NoError(t, err)
	ctx := context.Background()

	created, err := repo.SeedTaxonomy(ctx, tax)
	require.NoError(t, err)
	assert.Equal(t, 5, created)

	created, err = repo.SeedTaxonomy(ctx, tax)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	cats, err := repo.FindAllCategories(ctx, true)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Home Services", cats[0].Name)
	assert.Equal(t, 2, cats[0].SubCategoryCount)
	assert.Equal(t, "Gardening", cats[0].SubCategories[0].Name)
}

func TestFindCategoryBySlug(t *testing.T) {
	db := dbtest.Open(t, &Category{}, &SubCategory{})
	repo := NewGORMRepository(db)
	tax, err := ParseTaxonomy([]byte(seedYAML))
	require.NoError(t, err)
	ctx := context.Background()
	_, err = repo.SeedTaxonomy(ctx, tax)
	require.NoError(t, err)

	cat, err := repo.FindCategoryBySlug(ctx, " Plumbing ", true)
	require.NoError(t, err)
	assert.Equal(t, "Plumbing", cat.Name)
	require.Len(t, cat.SubCategories, 1)

	_, err = repo.FindCategoryBySlug(ctx, "nope", false)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestService_SeedAndExpand(t *testing.T) {
	db := dbtest.Open(t, &Category{}, &SubCategory{})
	tax, err := ParseTaxonomy([]byte(seedYAML))
	require.NoError(t, err)
	svc := NewService(NewGORMRepository(db), tax, zap.NewNop())

	require.NoError(t, svc.Seed(context.Background()))
	cats, err := svc.List(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, cats, 2)

	assert.Equal(t, []string{"Plumbing", "Leak Repair"}, svc.Expand("plumbing").Labels)
}
