// Package repository provides PostgreSQL persistence for the dev
// backend's catalog and accounts.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/prodan/storefront/internal/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// PostgresProductRepository implements catalog persistence using a
// PostgreSQL database.
type PostgresProductRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresProductRepository creates a repository over the given connection.
func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{DB: db}
}

// List returns every product in the catalog, oldest first.
func (r *PostgresProductRepository) List(ctx context.Context) ([]models.Product, error) {
	rows, err := r.DB.QueryContext(
		ctx,
		`SELECT id, nom, prix, description, category, image FROM produits ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Category, &p.Image); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Create inserts a new product and returns its assigned ID.
func (r *PostgresProductRepository) Create(ctx context.Context, p models.Product) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(
		ctx,
		`INSERT INTO produits (nom, prix, description, category, image)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		p.Name, p.Price, p.Description, p.Category, p.Image,
	).Scan(&id)
	return id, err
}

// Update replaces the product with the given ID.
// Returns ErrNotFound if no such product exists.
func (r *PostgresProductRepository) Update(ctx context.Context, id int64, p models.Product) error {
	res, err := r.DB.ExecContext(
		ctx,
		`UPDATE produits SET nom = $1, prix = $2, description = $3, category = $4, image = $5
		  WHERE id = $6`,
		p.Name, p.Price, p.Description, p.Category, p.Image, id,
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the product with the given ID.
// Returns ErrNotFound if no such product exists.
func (r *PostgresProductRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM produits WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
