package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/prodan/storefront/internal/models"
	"github.com/prodan/storefront/internal/repository"
)

// fakeCatalogService implements CatalogService for testing.
type fakeCatalogService struct {
	products  []models.Product
	listErr   error
	createID  int64
	createErr error
	updateErr error
	deleteErr error

	created models.Product
}

func (f *fakeCatalogService) List(ctx context.Context) ([]models.Product, error) {
	return f.products, f.listErr
}

func (f *fakeCatalogService) Create(ctx context.Context, p models.Product) (int64, error) {
	f.created = p
	return f.createID, f.createErr
}

func (f *fakeCatalogService) Update(ctx context.Context, id int64, p models.Product) error {
	return f.updateErr
}

func (f *fakeCatalogService) Delete(ctx context.Context, id int64) error {
	return f.deleteErr
}

// fakeAdminChecker implements AdminChecker for testing.
type fakeAdminChecker struct {
	isAdmin bool
	err     error
}

func (f *fakeAdminChecker) IsAdmin(ctx context.Context, email string) (bool, error) {
	return f.isAdmin, f.err
}

// productForm builds a multipart body carrying the given product fields.
func productForm(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("failed to write form field: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close form writer: %v", err)
	}
	return body, mw.FormDataContentType()
}

func TestProductHandler_List(t *testing.T) {
	catalog := &fakeCatalogService{
		products: []models.Product{{ID: 1, Name: "Croissant", Price: 2.50}},
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/produits", nil)
	h := &ProductHandler{Catalog: catalog, Log: zap.NewNop()}
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var products []models.Product
	if err := json.NewDecoder(rec.Body).Decode(&products); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Croissant" {
		t.Errorf("unexpected products: %+v", products)
	}
}

func TestProductHandler_List_EmptyIsArray(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/produits", nil)
	h := &ProductHandler{Catalog: &fakeCatalogService{}, Log: zap.NewNop()}
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := bytes.TrimSpace(rec.Body.Bytes()); !bytes.Equal(got, []byte("[]")) {
		t.Errorf("expected empty JSON array, got %q", got)
	}
}

func TestProductHandler_Create(t *testing.T) {
	tests := []struct {
		name         string
		fields       map[string]string
		admins       *fakeAdminChecker
		catalog      *fakeCatalogService
		expectedCode int
	}{
		{
			name:         "non-admin rejected",
			fields:       map[string]string{"nom": "Eclair", "prix": "3.00"},
			admins:       &fakeAdminChecker{isAdmin: false},
			catalog:      &fakeCatalogService{},
			expectedCode: http.StatusForbidden,
		},
		{
			name:         "missing name",
			fields:       map[string]string{"prix": "3.00"},
			admins:       &fakeAdminChecker{isAdmin: true},
			catalog:      &fakeCatalogService{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "negative price",
			fields:       map[string]string{"nom": "Eclair", "prix": "-1"},
			admins:       &fakeAdminChecker{isAdmin: true},
			catalog:      &fakeCatalogService{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "created",
			fields:       map[string]string{"nom": "Eclair", "prix": "3.00", "category": "patisserie"},
			admins:       &fakeAdminChecker{isAdmin: true},
			catalog:      &fakeCatalogService{createID: 7},
			expectedCode: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := productForm(t, tt.fields)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/produits", body)
			req.Header.Set("Content-Type", contentType)
			h := &ProductHandler{Catalog: tt.catalog, Admins: tt.admins, Log: zap.NewNop()}
			h.Create(rec, req)

			if rec.Code != tt.expectedCode {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedCode, rec.Code, rec.Body.String())
			}
			if tt.expectedCode != http.StatusCreated {
				return
			}
			var p models.Product
			if err := json.NewDecoder(rec.Body).Decode(&p); err != nil {
				t.Fatalf("failed to decode JSON: %v", err)
			}
			if p.ID != 7 || p.Name != "Eclair" || p.Price != 3.00 {
				t.Errorf("unexpected product: %+v", p)
			}
		})
	}
}

func TestProductHandler_Update_NotFound(t *testing.T) {
	body, contentType := productForm(t, map[string]string{"nom": "Eclair", "prix": "3.00"})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/api/produits/99", body)
	req.Header.Set("Content-Type", contentType)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "99")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	h := &ProductHandler{
		Catalog: &fakeCatalogService{updateErr: repository.ErrNotFound},
		Admins:  &fakeAdminChecker{isAdmin: true},
		Log:     zap.NewNop(),
	}
	h.Update(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestProductHandler_Delete(t *testing.T) {
	tests := []struct {
		name         string
		id           string
		catalog      *fakeCatalogService
		expectedCode int
	}{
		{
			name:         "invalid id",
			id:           "abc",
			catalog:      &fakeCatalogService{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "unknown product",
			id:           "99",
			catalog:      &fakeCatalogService{deleteErr: repository.ErrNotFound},
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "deleted",
			id:           "7",
			catalog:      &fakeCatalogService{},
			expectedCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("DELETE", "/api/produits/"+tt.id, nil)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			h := &ProductHandler{
				Catalog: tt.catalog,
				Admins:  &fakeAdminChecker{isAdmin: true},
				Log:     zap.NewNop(),
			}
			h.Delete(rec, req)

			if rec.Code != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, rec.Code)
			}
		})
	}
}

func TestRequireAdmin_CheckError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/produits", nil)
	if requireAdmin(rec, req, &fakeAdminChecker{err: errors.New("db down")}) {
		t.Fatal("expected requireAdmin to fail")
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}
}
