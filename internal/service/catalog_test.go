package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frescolabs/storefront-api/internal/kvstore"
	"github.com/frescolabs/storefront-api/internal/model"
	"github.com/frescolabs/storefront-api/internal/repository"
)

func newCatalogEnv(t *testing.T) *CatalogService {
	t.Helper()
	return NewCatalogService(repository.NewCatalogRepository(kvstore.NewMemory(), nil))
}

func TestListServesSeedCatalog(t *testing.T) {
	svc := newCatalogEnv(t)

	products, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 10)
}

func TestGetByIDNotFound(t *testing.T) {
	svc := newCatalogEnv(t)

	_, err := svc.GetByID(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSubmitReviewRecomputesMeanRating(t *testing.T) {
	svc := newCatalogEnv(t)
	ctx := context.Background()

	before, err := svc.GetByID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, before.Reviews, 2) // ratings 5 and 4

	product, err := svc.SubmitReview(ctx, 1, "Ana", 3, "Llegaron algo golpeadas.")
	require.NoError(t, err)
	require.Len(t, product.Reviews, 3)
	assert.InDelta(t, 4.0, product.Rating, 1e-9)

	added := product.Reviews[2]
	assert.Equal(t, "Ana", added.Author)
	assert.Greater(t, added.ID, before.Reviews[1].ID)

	// The recomputed rating is persisted, not just returned.
	again, err := svc.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, again.Rating, 1e-9)
}

func TestSubmitFirstReviewSetsRating(t *testing.T) {
	kv := kvstore.NewMemory()
	seed := []model.Product{{
		ID: 1, Name: "Quinua Roja 500g", Price: decimal.RequireFromString("12.50"),
		Category: model.CategoryDespensa,
	}}
	data, err := json.Marshal(seed)
	require.NoError(t, err)
	require.NoError(t, kv.Set(context.Background(), "catalog", data))

	svc := NewCatalogService(repository.NewCatalogRepository(kv, nil))
	product, err := svc.SubmitReview(context.Background(), 1, "Ana", 5, "Excelente calidad.")
	require.NoError(t, err)
	assert.InDelta(t, 5.0, product.Rating, 1e-9)
}

func TestSubmitReviewValidation(t *testing.T) {
	svc := newCatalogEnv(t)
	ctx := context.Background()

	_, err := svc.SubmitReview(ctx, 1, "Ana", 0, "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.SubmitReview(ctx, 1, "Ana", 6, "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.SubmitReview(ctx, 9999, "Ana", 4, "")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestListReturnsDefensiveCopies(t *testing.T) {
	svc := newCatalogEnv(t)
	ctx := context.Background()

	products, err := svc.List(ctx)
	require.NoError(t, err)
	products[0].Name = "mutado"
	if len(products[0].Reviews) > 0 {
		products[0].Reviews[0].Comment = "mutado"
	}

	fresh, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, "mutado", fresh[0].Name)
	if len(fresh[0].Reviews) > 0 {
		assert.NotEqual(t, "mutado", fresh[0].Reviews[0].Comment)
	}
}
