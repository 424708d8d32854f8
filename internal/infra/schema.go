package infra

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the data-contract tables if they do not exist yet.
// Constraint names matter: the identity repository distinguishes conflicts by
// users_phone_key and users_email_key.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY,
            name TEXT,
            phone TEXT NOT NULL,
            email TEXT,
            password_hash BYTEA,
            token_version INTEGER NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL,
            CONSTRAINT users_phone_key UNIQUE (phone),
            CONSTRAINT users_email_key UNIQUE (email)
        )`,
		`CREATE TABLE IF NOT EXISTS transactions (
            id UUID PRIMARY KEY,
            sender_id TEXT NOT NULL,
            owner_id UUID NOT NULL REFERENCES users (id),
            message_body TEXT NOT NULL,
            item TEXT,
            category TEXT,
            amount NUMERIC(10, 2),
            created_at TIMESTAMPTZ NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS transactions_owner_created_idx
            ON transactions (owner_id, created_at DESC)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
