package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema migrations proper live with the deployment tooling; EnsureSchema
// only bootstraps the tables so a fresh database is immediately usable.
// Every statement is idempotent and they all apply in one transaction.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS recipients (
		id BIGSERIAL PRIMARY KEY,
		type SMALLINT NOT NULL,
		type_id BIGINT NOT NULL,
		UNIQUE (type, type_id)
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		realm_id BIGINT NOT NULL,
		email TEXT NOT NULL,
		full_name TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		recipient_id BIGINT REFERENCES recipients(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (realm_id, email)
	)`,
	`CREATE TABLE IF NOT EXISTS streams (
		id BIGSERIAL PRIMARY KEY,
		realm_id BIGINT NOT NULL,
		name TEXT NOT NULL,
		invite_only BOOLEAN NOT NULL DEFAULT FALSE,
		recipient_id BIGINT REFERENCES recipients(id),
		UNIQUE (realm_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS huddles (
		id BIGSERIAL PRIMARY KEY,
		huddle_hash VARCHAR(40) NOT NULL UNIQUE,
		recipient_id BIGINT REFERENCES recipients(id)
	)`,
	`CREATE TABLE IF NOT EXISTS subscriptions (
		user_id BIGINT NOT NULL REFERENCES users(id),
		recipient_id BIGINT NOT NULL REFERENCES recipients(id),
		active BOOLEAN NOT NULL DEFAULT TRUE,
		PRIMARY KEY (user_id, recipient_id)
	)`,
	`CREATE TABLE IF NOT EXISTS drafts (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		recipient_id BIGINT REFERENCES recipients(id),
		topic TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL,
		last_edit_time TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_drafts_user_edit ON drafts (user_id, last_edit_time)`,
}

func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range schemaStatements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}
