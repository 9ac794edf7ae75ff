package feedback

import (
	"context"
	"fmt"

	"github.com/garyellow/varname-slackbot/internal/casing"
	"github.com/garyellow/varname-slackbot/internal/render"
	"github.com/garyellow/varname-slackbot/internal/storage"
	"github.com/slack-go/slack"
)

// CommandEvent is a parsed slash command invocation.
type CommandEvent struct {
	UserID    string `validate:"required"`
	UserName  string
	ChannelID string
	Text      string `validate:"required"`
}

// PrepareCommand trims the input and validates the event. An empty input
// yields a ValidationError; the caller answers with the usage text.
func (s *Service) PrepareCommand(ev CommandEvent) (CommandEvent, error) {
	ev.Text = trim(ev.Text)
	if err := s.validateEvent(ev); err != nil {
		return ev, err
	}
	return ev, nil
}

// ProcessCommand translates the input, posts the suggestion and stores the
// feedback record keyed by the posted message ts. It runs after the command
// was acknowledged, so failures reach the user as ephemeral messages.
//
// A failure to store after a successful post leaves the message without a
// record. It is logged and counted but not undone; votes on such a message
// answer "not found".
func (s *Service) ProcessCommand(ctx context.Context, ev CommandEvent) error {
	ctx = withEventContext(ctx, ev.UserID, s.channel, "")

	translated, err := s.translator.Translate(ctx, ev.Text)
	if err != nil {
		s.fail(ctx, "submit", s.channel, ev.UserID, err)
		return fmt.Errorf("translate: %w", err)
	}

	forms := casing.Convert(translated)
	msg := render.Message{
		Title: render.Title(ev.UserID, ev.Text),
		Forms: &forms,
	}

	_, ts, err := s.slack.PostMessageContext(ctx, s.channel,
		slack.MsgOptionText(render.Text(msg), false),
		slack.MsgOptionBlocks(render.Build(msg)...))
	if err != nil {
		s.fail(ctx, "submit", s.channel, ev.UserID, err)
		return fmt.Errorf("post message: %w", err)
	}

	fb, err := s.store.CreateFeedback(ctx, storage.NewFeedback{
		AuthorUserID:      ev.UserID,
		ExternalMessageID: ts,
		InputText:         ev.Text,
		TranslatedText:    translated,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "message posted without feedback record",
			"message_ts", ts,
			"error", err)
		s.report(ctx, err, map[string]string{"flow": "submit", "stage": "persist"})
		if s.metrics != nil {
			s.metrics.RecordPersistFailure()
		}
		return fmt.Errorf("create feedback: %w", err)
	}

	s.log.InfoContext(ctx, "suggestion posted",
		"feedback_id", fb.ID,
		"message_ts", ts,
		"translated", translated)
	return nil
}
