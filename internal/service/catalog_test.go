package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prodan/storefront/internal/models"
)

// fakeProductRepository implements ProductRepository for testing.
type fakeProductRepository struct {
	products []models.Product
	listErr  error
	createID int64
	lastSet  models.Product
	lastID   int64
	err      error
}

func (f *fakeProductRepository) List(ctx context.Context) ([]models.Product, error) {
	return f.products, f.listErr
}

func (f *fakeProductRepository) Create(ctx context.Context, p models.Product) (int64, error) {
	f.lastSet = p
	return f.createID, f.err
}

func (f *fakeProductRepository) Update(ctx context.Context, id int64, p models.Product) error {
	f.lastID, f.lastSet = id, p
	return f.err
}

func (f *fakeProductRepository) Delete(ctx context.Context, id int64) error {
	f.lastID = id
	return f.err
}

func TestCatalogList(t *testing.T) {
	repo := &fakeProductRepository{
		products: []models.Product{{ID: 1, Name: "Croissant", Price: 2.50}},
	}
	svc := NewCatalogService(repo)

	products, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Croissant" {
		t.Errorf("unexpected products: %+v", products)
	}
}

func TestCatalogCreate(t *testing.T) {
	repo := &fakeProductRepository{createID: 7}
	svc := NewCatalogService(repo)

	id, err := svc.Create(context.Background(), models.Product{Name: "Eclair", Price: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 7 {
		t.Errorf("id = %d; want 7", id)
	}
	if repo.lastSet.Name != "Eclair" {
		t.Errorf("stored product = %+v", repo.lastSet)
	}
}

func TestCatalogDelete_PropagatesError(t *testing.T) {
	repo := &fakeProductRepository{err: errors.New("not found")}
	svc := NewCatalogService(repo)

	if err := svc.Delete(context.Background(), 99); err == nil {
		t.Errorf("expected error")
	}
	if repo.lastID != 99 {
		t.Errorf("delete id = %d; want 99", repo.lastID)
	}
}
