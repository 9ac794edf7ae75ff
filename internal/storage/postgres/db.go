// Package postgres implements the feedback store on PostgreSQL using pgx.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/garyellow/varname-slackbot/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const connectTimeout = 5 * time.Second

// DB is a pgx connection pool holding the feedback tables.
type DB struct {
	pool *pgxpool.Pool
}

var _ storage.FeedbackRepository = (*DB)(nil)

// New connects to dsn and creates the schema if it does not exist.
func New(ctx context.Context, dsn string) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 1
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{pool: pool}
	if err := db.initSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

func (db *DB) initSchema(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS feedback (
		id BIGSERIAL PRIMARY KEY,
		author_user_id TEXT NOT NULL,
		external_message_id TEXT NOT NULL UNIQUE,
		input_text TEXT NOT NULL,
		translated_text TEXT NOT NULL,
		like_count INTEGER NOT NULL DEFAULT 0 CHECK (like_count >= 0),
		dislike_count INTEGER NOT NULL DEFAULT 0 CHECK (dislike_count >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE TABLE IF NOT EXISTS feedback_votes (
		id BIGSERIAL PRIMARY KEY,
		feedback_id BIGINT NOT NULL REFERENCES feedback(id) ON DELETE CASCADE,
		voter_user_id TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (feedback_id, voter_user_id)
	);
	CREATE INDEX IF NOT EXISTS idx_feedback_votes_voter ON feedback_votes(voter_user_id);
	`)
	return err
}

// RunInTx runs fn in a transaction, rolling back when fn fails or panics.
func (db *DB) RunInTx(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				slog.WarnContext(ctx, "transaction rollback failed", "error", rbErr)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Ping verifies the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Close closes the pool.
func (db *DB) Close() error {
	db.pool.Close()
	return nil
}
