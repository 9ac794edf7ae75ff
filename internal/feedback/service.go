// Package feedback orchestrates the two bot flows: submitting text for a
// naming suggestion, and voting on a posted suggestion.
//
// Vote uniqueness is owned by the store transaction. The HasVoted check here
// only avoids a transaction and gives an early answer; a race lost past it is
// reported through ErrAlreadyVoted from IncrementAndVote.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/garyellow/varname-slackbot/internal/ctxutil"
	domerrors "github.com/garyellow/varname-slackbot/internal/errors"
	"github.com/garyellow/varname-slackbot/internal/logger"
	"github.com/garyellow/varname-slackbot/internal/slackutil"
	"github.com/garyellow/varname-slackbot/internal/storage"
	"github.com/garyellow/varname-slackbot/internal/translator"
	"github.com/go-playground/validator/v10"
	"github.com/slack-go/slack"
)

// Store is the persistence the flows depend on.
type Store interface {
	CreateFeedback(ctx context.Context, nf storage.NewFeedback) (*storage.Feedback, error)
	FindByExternalMessageID(ctx context.Context, externalMessageID string) (*storage.Feedback, error)
	HasVoted(ctx context.Context, feedbackID int64, voterUserID string) (bool, error)
	IncrementAndVote(ctx context.Context, feedbackID int64, column storage.VoteColumn, voterUserID string) (*storage.Feedback, error)
	Ping(ctx context.Context) error
	Close() error
}

// MetricsRecorder receives flow outcomes.
type MetricsRecorder interface {
	RecordVote(column, outcome string)
	RecordPersistFailure()
}

// ErrorReporter forwards system faults to error tracking.
type ErrorReporter func(ctx context.Context, err error, tags map[string]string)

// Config wires a Service.
type Config struct {
	Store      Store
	Translator translator.Translator
	Slack      slackutil.Client
	Channel    string // channel that receives results
	Metrics    MetricsRecorder
	Logger     *logger.Logger
	Report     ErrorReporter
}

// Service runs the submit and vote flows.
type Service struct {
	store      Store
	translator translator.Translator
	slack      slackutil.Client
	channel    string
	metrics    MetricsRecorder
	log        *logger.Logger
	report     ErrorReporter
	validate   *validator.Validate
}

// NewService creates a Service. Store, Translator, Slack and Channel are required.
func NewService(cfg Config) (*Service, error) {
	switch {
	case cfg.Store == nil:
		return nil, errors.New("feedback: store is required")
	case cfg.Translator == nil:
		return nil, errors.New("feedback: translator is required")
	case cfg.Slack == nil:
		return nil, errors.New("feedback: slack client is required")
	case cfg.Channel == "":
		return nil, errors.New("feedback: channel is required")
	}

	log := cfg.Logger
	if log == nil {
		log = logger.New("info")
	}
	report := cfg.Report
	if report == nil {
		report = func(context.Context, error, map[string]string) {}
	}

	return &Service{
		store:      cfg.Store,
		translator: cfg.Translator,
		slack:      cfg.Slack,
		channel:    cfg.Channel,
		metrics:    cfg.Metrics,
		log:        log.WithModule("feedback"),
		report:     report,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

// Channel returns the channel results are posted to.
func (s *Service) Channel() string {
	return s.channel
}

// validateEvent maps the first validator failure to a ValidationError.
func (s *Service) validateEvent(ev any) error {
	err := s.validate.Struct(ev)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return domerrors.NewValidationError(verrs[0].Field(), fmt.Sprintf("failed %q", verrs[0].Tag()))
	}
	return fmt.Errorf("validate event: %w", err)
}

// notify sends an ephemeral text. Delivery failures are logged only.
func (s *Service) notify(ctx context.Context, channelID, userID, text string) {
	if _, err := s.slack.PostEphemeralContext(ctx, channelID, userID, slack.MsgOptionText(text, false)); err != nil {
		s.log.WarnContext(ctx, "failed to send ephemeral message",
			"channel_id", channelID,
			"user_id", userID,
			"error", err)
	}
}

// fail logs and reports a system fault, then tells the user something went wrong.
func (s *Service) fail(ctx context.Context, flow, channelID, userID string, err error) {
	err = domerrors.NewWrapper("feedback", flow).Wrap(err, slackutil.MsgGenericError)
	s.log.ErrorContext(ctx, "flow failed",
		"flow", flow,
		"error", err)
	s.report(ctx, err, map[string]string{"flow": flow})
	s.notify(ctx, channelID, userID, domerrors.GetUserMessage(err, slackutil.MsgGenericError))
}

func withEventContext(ctx context.Context, userID, channelID, ts string) context.Context {
	ctx = ctxutil.WithUserID(ctx, userID)
	if channelID != "" {
		ctx = ctxutil.WithChannelID(ctx, channelID)
	}
	if ts != "" {
		ctx = ctxutil.WithMessageTS(ctx, ts)
	}
	return ctx
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
