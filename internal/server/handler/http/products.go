package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/prodan/storefront/internal/middleware"
	"github.com/prodan/storefront/internal/models"
	"github.com/prodan/storefront/internal/repository"
)

// maxProductFormSize bounds multipart product uploads.
const maxProductFormSize = 10 << 20

// CatalogService defines the catalog operations required by the
// product handlers.
type CatalogService interface {
	List(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, p models.Product) (int64, error)
	Update(ctx context.Context, id int64, p models.Product) error
	Delete(ctx context.Context, id int64) error
}

// AdminChecker reports whether an account holds the ADMIN role.
type AdminChecker interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// requireAdmin checks that the authenticated requester is an admin,
// writing a 403 otherwise.
func requireAdmin(w http.ResponseWriter, r *http.Request, admins AdminChecker) bool {
	requester := middleware.GetUserEmailFromContext(r.Context())
	isAdmin, err := admins.IsAdmin(r.Context(), requester)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return false
	}
	if !isAdmin {
		writeMessage(w, http.StatusForbidden, "admin role required")
		return false
	}
	return true
}

// ProductHandler handles HTTP requests for the product catalog.
// Create and Update accept multipart forms with an optional image file.
type ProductHandler struct {
	Catalog CatalogService
	// Admins gates the mutating endpoints to the ADMIN role.
	Admins AdminChecker
	// UploadDir is where uploaded product images are written.
	UploadDir string
	Log       *zap.Logger
}

// List handles GET /api/produits.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.Catalog.List(r.Context())
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// Create handles POST /api/produits. Admin only.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.Admins) {
		return
	}
	p, ok := h.parseProductForm(w, r)
	if !ok {
		return
	}

	id, err := h.Catalog.Create(r.Context(), p)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}
	p.ID = id
	writeJSON(w, http.StatusCreated, p)
}

// Update handles PUT /api/produits/{id}. Admin only.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.Admins) {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid product id")
		return
	}
	p, ok := h.parseProductForm(w, r)
	if !ok {
		return
	}

	if err := h.Catalog.Update(r.Context(), id, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "product not found")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}
	p.ID = id
	writeJSON(w, http.StatusOK, p)
}

// Delete handles DELETE /api/produits/{id}. Admin only.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.Admins) {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.Catalog.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "product not found")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeMessage(w, http.StatusOK, "product deleted")
}

// parseProductForm decodes the multipart product form, storing the
// image file if one was uploaded. It writes the error response itself
// and reports whether parsing succeeded.
func (h *ProductHandler) parseProductForm(w http.ResponseWriter, r *http.Request) (models.Product, bool) {
	var p models.Product
	if err := r.ParseMultipartForm(maxProductFormSize); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid form")
		return p, false
	}

	p.Name = r.FormValue("nom")
	p.Description = r.FormValue("description")
	p.Category = r.FormValue("category")

	price, err := strconv.ParseFloat(r.FormValue("prix"), 64)
	if err != nil || price < 0 || p.Name == "" {
		writeMessage(w, http.StatusBadRequest, "nom and a non-negative prix are required")
		return p, false
	}
	p.Price = price

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		name, err := h.saveImage(file, header.Filename)
		if err != nil {
			h.Log.Error("failed to store product image", zap.Error(err))
			writeMessage(w, http.StatusInternalServerError, "failed to store image")
			return p, false
		}
		p.Image = name
	}
	return p, true
}

// saveImage writes the uploaded file under UploadDir with a fresh name
// and returns that name.
func (h *ProductHandler) saveImage(file io.Reader, original string) (string, error) {
	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + filepath.Ext(original)
	dst, err := os.Create(filepath.Join(h.UploadDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}
	return name, nil
}
