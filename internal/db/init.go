package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    email TEXT PRIMARY KEY,
    nom TEXT NOT NULL,
    password_hash BYTEA,
    adresse TEXT,
    telephone TEXT,
    provider TEXT,
    provider_id TEXT
);

CREATE TABLE IF NOT EXISTS user_roles (
    email TEXT REFERENCES users(email) ON DELETE CASCADE,
    role TEXT NOT NULL,
    PRIMARY KEY (email, role)
);

CREATE TABLE IF NOT EXISTS produits (
    id BIGSERIAL PRIMARY KEY,
    nom TEXT NOT NULL,
    prix NUMERIC(10,2) NOT NULL,
    description TEXT,
    category TEXT,
    image TEXT
);

CREATE TABLE IF NOT EXISTS password_reset_tokens (
    token TEXT PRIMARY KEY,
    email TEXT REFERENCES users(email) ON DELETE CASCADE,
    expires_at BIGINT NOT NULL
);
`

func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}
