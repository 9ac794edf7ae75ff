package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domerrors "github.com/garyellow/varname-slackbot/internal/errors"
	"github.com/garyellow/varname-slackbot/internal/render"
	"github.com/garyellow/varname-slackbot/internal/slackutil"
	"github.com/garyellow/varname-slackbot/internal/storage"
	"github.com/slack-go/slack"
)

// Outcome is the terminal state of a vote.
type Outcome string

// Vote outcomes.
const (
	OutcomeUpdated      Outcome = "updated"
	OutcomeIgnored      Outcome = "ignored"
	OutcomeNotFound     Outcome = "not_found"
	OutcomeAlreadyVoted Outcome = "already_voted"
	OutcomeFailed       Outcome = "failed"
)

// VoteEvent is a button press on a posted suggestion.
type VoteEvent struct {
	ActionID          string
	UserID            string `validate:"required"`
	ExternalMessageID string `validate:"required"`
	ChannelID         string `validate:"required"`
}

// ColumnForAction maps a button action id to the counter it increments.
// "dislike" is checked first because it does not start with "like".
func ColumnForAction(actionID string) (storage.VoteColumn, bool) {
	switch {
	case strings.HasPrefix(actionID, render.ValueDislike):
		return storage.ColumnDislike, true
	case strings.HasPrefix(actionID, render.ValueLike):
		return storage.ColumnLike, true
	default:
		return 0, false
	}
}

// ProcessVote records one vote and refreshes the message counts.
func (s *Service) ProcessVote(ctx context.Context, ev VoteEvent) (outcome Outcome, err error) {
	column, ok := ColumnForAction(ev.ActionID)
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordVote(column.String(), string(outcome))
		}
	}()
	if !ok {
		return OutcomeIgnored, nil
	}
	if err := s.validateEvent(ev); err != nil {
		s.log.WarnContext(ctx, "invalid vote event", "error", err)
		return OutcomeIgnored, err
	}

	ctx = withEventContext(ctx, ev.UserID, ev.ChannelID, ev.ExternalMessageID)

	fb, err := s.store.FindByExternalMessageID(ctx, ev.ExternalMessageID)
	if errors.Is(err, domerrors.ErrNotFound) {
		s.notify(ctx, ev.ChannelID, ev.UserID,
			slackutil.WithMessageLink(slackutil.MsgNotFound, ev.ChannelID, ev.ExternalMessageID))
		return OutcomeNotFound, nil
	}
	if err != nil {
		s.fail(ctx, "vote", ev.ChannelID, ev.UserID, err)
		return OutcomeFailed, fmt.Errorf("find feedback: %w", err)
	}

	voted, err := s.store.HasVoted(ctx, fb.ID, ev.UserID)
	if err != nil {
		s.fail(ctx, "vote", ev.ChannelID, ev.UserID, err)
		return OutcomeFailed, fmt.Errorf("check vote: %w", err)
	}
	if voted {
		s.notifyAlreadyVoted(ctx, ev)
		return OutcomeAlreadyVoted, nil
	}

	s.log.DebugContext(ctx, "recording vote",
		"feedback_id", fb.ID,
		"column", column.String(),
		"expected_count", fb.Count(column)+1)

	updated, err := s.store.IncrementAndVote(ctx, fb.ID, column, ev.UserID)
	switch {
	case errors.Is(err, domerrors.ErrAlreadyVoted):
		s.notifyAlreadyVoted(ctx, ev)
		return OutcomeAlreadyVoted, nil
	case errors.Is(err, domerrors.ErrNotFound):
		s.notify(ctx, ev.ChannelID, ev.UserID,
			slackutil.WithMessageLink(slackutil.MsgNotFound, ev.ChannelID, ev.ExternalMessageID))
		return OutcomeNotFound, nil
	case err != nil:
		s.fail(ctx, "vote", ev.ChannelID, ev.UserID, err)
		return OutcomeFailed, fmt.Errorf("increment and vote: %w", err)
	}

	msg := render.FromFeedback(updated)
	if _, _, _, err := s.slack.UpdateMessageContext(ctx, ev.ChannelID, ev.ExternalMessageID,
		slack.MsgOptionText(render.Text(msg), false),
		slack.MsgOptionBlocks(render.Build(msg)...)); err != nil {
		s.fail(ctx, "vote", ev.ChannelID, ev.UserID, err)
		return OutcomeFailed, fmt.Errorf("update message: %w", err)
	}

	s.log.InfoContext(ctx, "vote recorded",
		"feedback_id", updated.ID,
		"like_count", updated.LikeCount,
		"dislike_count", updated.DislikeCount)
	return OutcomeUpdated, nil
}

func (s *Service) notifyAlreadyVoted(ctx context.Context, ev VoteEvent) {
	s.notify(ctx, ev.ChannelID, ev.UserID,
		slackutil.WithMessageLink(slackutil.MsgAlreadyVoted, ev.ChannelID, ev.ExternalMessageID))
}
