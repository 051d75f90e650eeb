package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/frescolabs/storefront-api/internal/kvstore"
	"github.com/frescolabs/storefront-api/internal/model"
)

const catalogKey = "catalog"

// FetchFunc retrieves the product catalog from a remote collaborator. It is
// consulted only when the catalog slot is empty; any failure falls back to
// the embedded seed.
type FetchFunc func(ctx context.Context) ([]model.Product, error)

// CatalogRepository serves the product list and persists review appends.
type CatalogRepository interface {
	List(ctx context.Context) ([]model.Product, error)
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	// Replace stores the updated product back into the catalog slot.
	Replace(ctx context.Context, product *model.Product) error
}

type kvCatalogRepo struct {
	kv    kvstore.Store
	fetch FetchFunc
}

func NewCatalogRepository(kv kvstore.Store, fetch FetchFunc) CatalogRepository {
	return &kvCatalogRepo{kv: kv, fetch: fetch}
}

func (r *kvCatalogRepo) load(ctx context.Context) ([]model.Product, error) {
	data, ok, err := r.kv.Get(ctx, catalogKey)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if ok {
		var products []model.Product
		if err := json.Unmarshal(data, &products); err != nil {
			return nil, fmt.Errorf("decode catalog: %w", err)
		}
		return products, nil
	}

	products := r.initial(ctx)
	if err := r.save(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *kvCatalogRepo) initial(ctx context.Context) []model.Product {
	if r.fetch != nil {
		if products, err := r.fetch(ctx); err == nil && len(products) > 0 {
			return products
		}
	}
	return SeedProducts()
}

func (r *kvCatalogRepo) save(ctx context.Context, products []model.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := r.kv.Set(ctx, catalogKey, data); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	return nil
}

func (r *kvCatalogRepo) List(ctx context.Context) ([]model.Product, error) {
	return r.load(ctx)
}

func (r *kvCatalogRepo) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	products, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return products[i].Clone(), nil
		}
	}
	return nil, nil
}

func (r *kvCatalogRepo) Replace(ctx context.Context, product *model.Product) error {
	products, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range products {
		if products[i].ID == product.ID {
			products[i] = *product.Clone()
			return r.save(ctx, products)
		}
	}
	return fmt.Errorf("replace product: no record for %d", product.ID)
}
