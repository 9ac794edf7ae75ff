package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// InitSchema creates the feedback tables and indexes.
// Connection pragmas are set through the DSN in db.go.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if err := createFeedbackTable(ctx, db); err != nil {
		return err
	}
	return createFeedbackVotesTable(ctx, db)
}

func createFeedbackTable(ctx context.Context, db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS feedback (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		author_user_id TEXT NOT NULL,
		external_message_id TEXT NOT NULL UNIQUE,
		input_text TEXT NOT NULL,
		translated_text TEXT NOT NULL,
		like_count INTEGER NOT NULL DEFAULT 0 CHECK (like_count >= 0),
		dislike_count INTEGER NOT NULL DEFAULT 0 CHECK (dislike_count >= 0),
		created_at INTEGER NOT NULL
	);
	`

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create feedback table: %w", err)
	}

	return nil
}

// The UNIQUE pair is what keeps a user to one vote per feedback.
func createFeedbackVotesTable(ctx context.Context, db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS feedback_votes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		feedback_id INTEGER NOT NULL REFERENCES feedback(id) ON DELETE CASCADE,
		voter_user_id TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		UNIQUE (feedback_id, voter_user_id)
	);
	CREATE INDEX IF NOT EXISTS idx_feedback_votes_voter ON feedback_votes(voter_user_id);
	`

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create feedback_votes table: %w", err)
	}

	return nil
}
