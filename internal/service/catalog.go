package service

import (
	"context"
	"fmt"

	"github.com/frescolabs/storefront-api/internal/model"
	"github.com/frescolabs/storefront-api/internal/repository"
)

// CatalogService serves product reads and the one catalog mutation, review
// submission. Everything returned is a defensive copy.
type CatalogService struct {
	catalogRepo repository.CatalogRepository
}

func NewCatalogService(catalogRepo repository.CatalogRepository) *CatalogService {
	return &CatalogService{catalogRepo: catalogRepo}
}

func (s *CatalogService) List(ctx context.Context) ([]model.Product, error) {
	products, err := s.catalogRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]model.Product, 0, len(products))
	for i := range products {
		out = append(out, *products[i].Clone())
	}
	return out, nil
}

func (s *CatalogService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	product, err := s.catalogRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// SubmitReview appends a review and recomputes the product rating as the
// arithmetic mean of all review ratings.
func (s *CatalogService) SubmitReview(ctx context.Context, productID int64, author string, rating int, comment string) (*model.Product, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: la calificación debe estar entre 1 y 5", ErrValidation)
	}

	product, err := s.catalogRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	product.Reviews = append(product.Reviews, model.Review{
		ID:      model.NextEntityID(model.MaxReviewID(product.Reviews)),
		Author:  author,
		Rating:  rating,
		Comment: comment,
	})

	var sum int
	for _, r := range product.Reviews {
		sum += r.Rating
	}
	product.Rating = float64(sum) / float64(len(product.Reviews))

	if err := s.catalogRepo.Replace(ctx, product); err != nil {
		return nil, fmt.Errorf("store review: %w", err)
	}
	return product.Clone(), nil
}
