package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domerrors "github.com/garyellow/varname-slackbot/internal/errors"
	"github.com/garyellow/varname-slackbot/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const feedbackColumns = `id, author_user_id, external_message_id, input_text, translated_text, like_count, dislike_count, created_at`

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

func scanFeedback(row pgx.Row) (*storage.Feedback, error) {
	var f storage.Feedback
	if err := row.Scan(&f.ID, &f.AuthorUserID, &f.ExternalMessageID, &f.InputText,
		&f.TranslatedText, &f.LikeCount, &f.DislikeCount, &f.CreatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

// CreateFeedback stores a newly posted result with both counters at zero.
func (db *DB) CreateFeedback(ctx context.Context, nf storage.NewFeedback) (*storage.Feedback, error) {
	query := `
		INSERT INTO feedback (author_user_id, external_message_id, input_text, translated_text)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + feedbackColumns

	f, err := scanFeedback(db.pool.QueryRow(ctx, query,
		nf.AuthorUserID, nf.ExternalMessageID, nf.InputText, nf.TranslatedText))
	if err != nil {
		slog.ErrorContext(ctx, "failed to create feedback",
			"external_message_id", nf.ExternalMessageID,
			"error", err)
		return nil, domerrors.NewPersistenceError("create_feedback", err)
	}
	return f, nil
}

// FindByExternalMessageID returns the feedback for a Slack message ts.
func (db *DB) FindByExternalMessageID(ctx context.Context, externalMessageID string) (*storage.Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE external_message_id = $1`

	f, err := scanFeedback(db.pool.QueryRow(ctx, query, externalMessageID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("feedback %s: %w", externalMessageID, domerrors.ErrNotFound)
	}
	if err != nil {
		return nil, domerrors.NewPersistenceError("find_feedback", err)
	}
	return f, nil
}

// HasVoted reports whether voterUserID already voted on the feedback.
func (db *DB) HasVoted(ctx context.Context, feedbackID int64, voterUserID string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM feedback_votes WHERE feedback_id = $1 AND voter_user_id = $2)`,
		feedbackID, voterUserID).Scan(&exists)
	if err != nil {
		return false, domerrors.NewPersistenceError("has_voted", err)
	}
	return exists, nil
}

// IncrementAndVote locks the feedback row, bumps column by one and inserts
// the vote in one transaction. A unique violation on the vote rolls back.
func (db *DB) IncrementAndVote(ctx context.Context, feedbackID int64, column storage.VoteColumn, voterUserID string) (*storage.Feedback, error) {
	if !column.Valid() {
		return nil, domerrors.NewValidationError("column", fmt.Sprintf("unknown vote column %d", column))
	}

	selectQuery := `SELECT ` + feedbackColumns + ` FROM feedback WHERE id = $1 FOR UPDATE`
	updateQuery := fmt.Sprintf(`UPDATE feedback SET %s = $1 WHERE id = $2 RETURNING %s`, column, feedbackColumns)
	voteQuery := `INSERT INTO feedback_votes (feedback_id, voter_user_id) VALUES ($1, $2)`

	var updated *storage.Feedback
	err := db.RunInTx(ctx, func(tx pgx.Tx) error {
		current, err := scanFeedback(tx.QueryRow(ctx, selectQuery, feedbackID))
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("feedback id %d: %w", feedbackID, domerrors.ErrNotFound)
		}
		if err != nil {
			return err
		}

		updated, err = scanFeedback(tx.QueryRow(ctx, updateQuery, current.Count(column)+1, feedbackID))
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, voteQuery, feedbackID, voterUserID); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return domerrors.ErrAlreadyVoted
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domerrors.ErrAlreadyVoted) || errors.Is(err, domerrors.ErrNotFound) {
			return nil, err
		}
		slog.ErrorContext(ctx, "failed to record vote",
			"feedback_id", feedbackID,
			"column", column.String(),
			"error", err)
		return nil, domerrors.NewPersistenceError("increment_and_vote", err)
	}
	return updated, nil
}
