package service

import (
	"context"

	"github.com/prodan/storefront/internal/models"
)

// ProductRepository defines the persistence operations required by the
// catalog service.
type ProductRepository interface {
	List(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, p models.Product) (int64, error)
	Update(ctx context.Context, id int64, p models.Product) error
	Delete(ctx context.Context, id int64) error
}

// CatalogService implements product operations by delegating to a
// ProductRepository.
type CatalogService struct {
	repo ProductRepository
}

// NewCatalogService constructs a CatalogService using the provided repository.
func NewCatalogService(repo ProductRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// List returns the full catalog.
func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	return s.repo.List(ctx)
}

// Create inserts a new product and returns its assigned ID.
func (s *CatalogService) Create(ctx context.Context, p models.Product) (int64, error) {
	return s.repo.Create(ctx, p)
}

// Update replaces the product with the given ID.
func (s *CatalogService) Update(ctx context.Context, id int64, p models.Product) error {
	return s.repo.Update(ctx, id, p)
}

// Delete removes the product with the given ID.
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
