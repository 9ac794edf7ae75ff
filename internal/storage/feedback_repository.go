package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domerrors "github.com/garyellow/varname-slackbot/internal/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const feedbackColumns = `id, author_user_id, external_message_id, input_text, translated_text, like_count, dislike_count, created_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFeedback(row rowScanner) (*Feedback, error) {
	var (
		f         Feedback
		createdAt int64
	)
	if err := row.Scan(&f.ID, &f.AuthorUserID, &f.ExternalMessageID, &f.InputText,
		&f.TranslatedText, &f.LikeCount, &f.DislikeCount, &createdAt); err != nil {
		return nil, err
	}
	f.CreatedAt = time.Unix(createdAt, 0)
	return &f, nil
}

// CreateFeedback stores a newly posted result with both counters at zero.
func (db *DB) CreateFeedback(ctx context.Context, nf NewFeedback) (*Feedback, error) {
	query := `
		INSERT INTO feedback (author_user_id, external_message_id, input_text, translated_text, like_count, dislike_count, created_at)
		VALUES (?, ?, ?, ?, 0, 0, ?)
		RETURNING ` + feedbackColumns

	start := time.Now()
	f, err := scanFeedback(db.conn.QueryRowContext(ctx, query,
		nf.AuthorUserID, nf.ExternalMessageID, nf.InputText, nf.TranslatedText, start.Unix()))
	if err != nil {
		slog.ErrorContext(ctx, "failed to create feedback",
			"external_message_id", nf.ExternalMessageID,
			"error", err)
		return nil, domerrors.NewPersistenceError("create_feedback", err)
	}

	logSlow(ctx, "CreateFeedback", start, "external_message_id", nf.ExternalMessageID)
	return f, nil
}

// FindByExternalMessageID returns the feedback for a Slack message ts, or
// ErrNotFound when none was stored.
func (db *DB) FindByExternalMessageID(ctx context.Context, externalMessageID string) (*Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE external_message_id = ?`

	start := time.Now()
	f, err := scanFeedback(db.conn.QueryRowContext(ctx, query, externalMessageID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("feedback %s: %w", externalMessageID, domerrors.ErrNotFound)
	}
	if err != nil {
		return nil, domerrors.NewPersistenceError("find_feedback", err)
	}

	logSlow(ctx, "FindByExternalMessageID", start, "external_message_id", externalMessageID)
	return f, nil
}

// HasVoted reports whether voterUserID already voted on the feedback.
func (db *DB) HasVoted(ctx context.Context, feedbackID int64, voterUserID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM feedback_votes WHERE feedback_id = ? AND voter_user_id = ?)`

	var exists bool
	if err := db.conn.QueryRowContext(ctx, query, feedbackID, voterUserID).Scan(&exists); err != nil {
		return false, domerrors.NewPersistenceError("has_voted", err)
	}
	return exists, nil
}

// IncrementAndVote re-reads the feedback, bumps column by one and inserts the
// vote row in one transaction. The UNIQUE (feedback_id, voter_user_id)
// constraint rejects a second vote, which rolls back the increment.
func (db *DB) IncrementAndVote(ctx context.Context, feedbackID int64, column VoteColumn, voterUserID string) (*Feedback, error) {
	if !column.Valid() {
		return nil, domerrors.NewValidationError("column", fmt.Sprintf("unknown vote column %d", column))
	}

	selectQuery := `SELECT ` + feedbackColumns + ` FROM feedback WHERE id = ?`
	// column.String() only yields fixed column names.
	updateQuery := fmt.Sprintf(`UPDATE feedback SET %s = ? WHERE id = ?`, column)
	voteQuery := `INSERT INTO feedback_votes (feedback_id, voter_user_id, created_at) VALUES (?, ?, ?)`

	start := time.Now()
	var updated *Feedback
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		current, err := scanFeedback(tx.QueryRowContext(ctx, selectQuery, feedbackID))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("feedback id %d: %w", feedbackID, domerrors.ErrNotFound)
		}
		if err != nil {
			return domerrors.NewPersistenceError("increment_and_vote", err)
		}

		if _, err := tx.ExecContext(ctx, updateQuery, current.Count(column)+1, feedbackID); err != nil {
			return domerrors.NewPersistenceError("increment_and_vote", err)
		}

		if _, err := tx.ExecContext(ctx, voteQuery, feedbackID, voterUserID, time.Now().Unix()); err != nil {
			if isUniqueViolation(err) {
				return domerrors.ErrAlreadyVoted
			}
			return domerrors.NewPersistenceError("increment_and_vote", err)
		}

		updated, err = scanFeedback(tx.QueryRowContext(ctx, selectQuery, feedbackID))
		if err != nil {
			return domerrors.NewPersistenceError("increment_and_vote", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, domerrors.ErrAlreadyVoted) && !errors.Is(err, domerrors.ErrNotFound) {
			slog.ErrorContext(ctx, "failed to record vote",
				"feedback_id", feedbackID,
				"column", column.String(),
				"error", err)
			if !errors.Is(err, domerrors.ErrPersistence) {
				err = domerrors.NewPersistenceError("increment_and_vote", err)
			}
		}
		return nil, err
	}

	logSlow(ctx, "IncrementAndVote", start, "feedback_id", feedbackID)
	return updated, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

func logSlow(ctx context.Context, operation string, start time.Time, attrs ...any) {
	duration := time.Since(start)
	if duration <= slowQueryThreshold {
		return
	}
	args := append([]any{"operation", operation, "duration_ms", duration.Milliseconds()}, attrs...)
	slog.WarnContext(ctx, "slow database operation", args...)
}
