// Package storage persists feedback records and votes in SQLite.
package storage

import "context"

// FeedbackRepository is the persistence contract shared by the SQLite and
// PostgreSQL backends.
type FeedbackRepository interface {
	CreateFeedback(ctx context.Context, nf NewFeedback) (*Feedback, error)
	FindByExternalMessageID(ctx context.Context, externalMessageID string) (*Feedback, error)
	HasVoted(ctx context.Context, feedbackID int64, voterUserID string) (bool, error)

	// IncrementAndVote adds one to column and records the vote in a single
	// transaction. A second vote by the same user fails with ErrAlreadyVoted
	// and leaves the counters untouched.
	IncrementAndVote(ctx context.Context, feedbackID int64, column VoteColumn, voterUserID string) (*Feedback, error)

	Ping(ctx context.Context) error
	Close() error
}

var _ FeedbackRepository = (*DB)(nil)
