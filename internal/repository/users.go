package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/prodan/storefront/internal/models"
)

// PostgresUserRepository implements account persistence using a
// PostgreSQL database.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a repository over the given connection.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// UserExists returns true if an account with the given email exists.
func (r *PostgresUserRepository) UserExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
		email,
	).Scan(&exists)
	return exists, err
}

// CreateUser inserts a new account and grants it the given roles.
// passwordHash is nil for social registrations.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, u models.User, passwordHash []byte, provider, providerID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO users (email, nom, password_hash, adresse, telephone, provider, provider_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.Email, u.Name, passwordHash, u.Address, u.Phone, provider, providerID,
	)
	if err != nil {
		return err
	}
	for _, role := range u.Roles {
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO user_roles (email, role) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			u.Email, role.Name,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetPasswordHash returns the stored password digest for email.
// Returns ErrNotFound for unknown accounts.
func (r *PostgresUserRepository) GetPasswordHash(ctx context.Context, email string) ([]byte, error) {
	var hash []byte
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT password_hash FROM users WHERE email = $1`,
		email,
	).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return hash, err
}

// GetRoles lists the roles owned by the given email.
func (r *PostgresUserRepository) GetRoles(ctx context.Context, email string) ([]models.Role, error) {
	rows, err := r.DB.QueryContext(
		ctx,
		`SELECT role FROM user_roles WHERE email = $1 ORDER BY role`,
		email,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.Name); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// ListUsers returns every account with its roles.
func (r *PostgresUserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(
		ctx,
		`SELECT email, nom, COALESCE(adresse, ''), COALESCE(telephone, '') FROM users ORDER BY email`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.Email, &u.Name, &u.Address, &u.Phone); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range users {
		roles, err := r.GetRoles(ctx, users[i].Email)
		if err != nil {
			return nil, err
		}
		users[i].Roles = roles
	}
	return users, nil
}

// UpdateUser replaces the profile fields of the account with the given
// email. Returns ErrNotFound if no such account exists.
func (r *PostgresUserRepository) UpdateUser(ctx context.Context, email string, u models.User) error {
	res, err := r.DB.ExecContext(
		ctx,
		`UPDATE users SET nom = $1, adresse = $2, telephone = $3 WHERE email = $4`,
		u.Name, u.Address, u.Phone, email,
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

// DeleteUser removes the account with the given email.
// Returns ErrNotFound if no such account exists.
func (r *PostgresUserRepository) DeleteUser(ctx context.Context, email string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE email = $1`, email)
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

// CreateResetToken records a password-reset token with its expiry.
func (r *PostgresUserRepository) CreateResetToken(ctx context.Context, email, token string, expiresAt int64) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO password_reset_tokens (token, email, expires_at) VALUES ($1, $2, $3)`,
		token, email, expiresAt,
	)
	return err
}
