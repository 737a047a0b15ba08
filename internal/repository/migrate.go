package repository

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// Migrate applies the schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// EnsureUser returns the id of username, creating the row if needed.
func EnsureUser(ctx context.Context, db *pgxpool.Pool, username string) (int64, error) {
	var id int64
	err := conn(ctx, db).QueryRow(ctx, `
		INSERT INTO users (username) VALUES ($1)
		ON CONFLICT (username) DO UPDATE SET username = EXCLUDED.username
		RETURNING id`, username).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ensure user %s: %w", username, err)
	}
	return id, nil
}
