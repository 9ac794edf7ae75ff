package storage

import "time"

// VoteColumn identifies which counter a vote increments.
// Column names are resolved from this closed set and never from user input.
type VoteColumn int

// Vote columns.
const (
	ColumnLike VoteColumn = iota + 1
	ColumnDislike
)

// String returns the database column name for c.
func (c VoteColumn) String() string {
	switch c {
	case ColumnLike:
		return "like_count"
	case ColumnDislike:
		return "dislike_count"
	default:
		return "unknown"
	}
}

// Valid reports whether c is a known column.
func (c VoteColumn) Valid() bool {
	return c == ColumnLike || c == ColumnDislike
}

// Feedback is one posted translation result and its accumulated votes.
type Feedback struct {
	ID                int64
	AuthorUserID      string
	ExternalMessageID string // Slack message ts
	InputText         string
	TranslatedText    string
	LikeCount         int
	DislikeCount      int
	CreatedAt         time.Time
}

// Count returns the current value of the given counter.
func (f *Feedback) Count(c VoteColumn) int {
	if c == ColumnDislike {
		return f.DislikeCount
	}
	return f.LikeCount
}

// NewFeedback holds the fields supplied when a result is first stored.
type NewFeedback struct {
	AuthorUserID      string
	ExternalMessageID string
	InputText         string
	TranslatedText    string
}

// FeedbackVote records that a user voted on a feedback.
type FeedbackVote struct {
	ID          int64
	FeedbackID  int64
	VoterUserID string
	CreatedAt   time.Time
}
