// Package webhook receives Slack slash commands and block actions, answers
// within Slack's acknowledgment window and runs the bot flows afterwards.
package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/garyellow/varname-slackbot/internal/config"
	"github.com/garyellow/varname-slackbot/internal/ctxutil"
	domerrors "github.com/garyellow/varname-slackbot/internal/errors"
	"github.com/garyellow/varname-slackbot/internal/feedback"
	"github.com/garyellow/varname-slackbot/internal/logger"
	"github.com/garyellow/varname-slackbot/internal/metrics"
	"github.com/garyellow/varname-slackbot/internal/slackutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/slack-go/slack"
)

// maxBodyBytes caps inbound Slack payloads.
const maxBodyBytes = 1 << 20

// Endpoint labels for metrics.
const (
	endpointCommand     = "command"
	endpointInteraction = "interaction"
)

// Flows is the part of the feedback service the handler drives.
type Flows interface {
	PrepareCommand(ev feedback.CommandEvent) (feedback.CommandEvent, error)
	ProcessCommand(ctx context.Context, ev feedback.CommandEvent) error
	ProcessVote(ctx context.Context, ev feedback.VoteEvent) (feedback.Outcome, error)
}

// MetricsRecorder receives per-request outcomes.
type MetricsRecorder interface {
	RecordWebhook(endpoint, status string, duration float64)
}

var _ MetricsRecorder = (*metrics.Metrics)(nil)

// Handler handles Slack webhook requests
type Handler struct {
	flows         Flows
	signingSecret string
	command       string
	flowTimeout   time.Duration
	metrics       MetricsRecorder
	logger        *logger.Logger
	wg            sync.WaitGroup // WaitGroup for async flow processing
}

// NewHandler creates a new webhook handler.
func NewHandler(flows Flows, opts ...HandlerOption) (*Handler, error) {
	if flows == nil {
		return nil, errors.New("webhook: flows are required")
	}

	h := &Handler{
		flows:       flows,
		command:     config.DefaultCommand,
		flowTimeout: config.FlowProcessing,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = logger.New("info")
	}
	h.logger = h.logger.WithModule("webhook")

	return h, nil
}

// HandleCommand is the Gin handler for slash commands.
func (h *Handler) HandleCommand(c *gin.Context) {
	start := time.Now()
	ctx := h.requestContext(c)

	if !h.readAndVerify(c, endpointCommand, start) {
		return
	}

	cmd, err := slack.SlashCommandParse(c.Request)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to parse slash command", "error", err)
		h.record(endpointCommand, "bad_request", start)
		c.Status(http.StatusBadRequest)
		return
	}

	if cmd.Command != h.command {
		h.logger.DebugContext(ctx, "ignoring unknown command", "command", cmd.Command)
		h.record(endpointCommand, "ignored", start)
		c.Status(http.StatusOK)
		return
	}

	ev, err := h.flows.PrepareCommand(feedback.CommandEvent{
		UserID:    cmd.UserID,
		UserName:  cmd.UserName,
		ChannelID: cmd.ChannelID,
		Text:      cmd.Text,
	})
	if err != nil {
		if !errors.Is(err, domerrors.ErrInvalidInput) {
			h.logger.WarnContext(ctx, "unexpected command validation error", "error", err)
		}
		h.record(endpointCommand, "usage", start)
		c.JSON(http.StatusOK, gin.H{
			"response_type": slack.ResponseTypeEphemeral,
			"text":          slackutil.UsageText(h.command),
		})
		return
	}

	// Acknowledge first; translation and posting happen after the response.
	c.Status(http.StatusOK)
	h.record(endpointCommand, "accepted", start)

	ctx = ctxutil.WithUserID(ctx, ev.UserID)
	h.runAsync(ctx, endpointCommand, func(ctx context.Context) error {
		return h.flows.ProcessCommand(ctx, ev)
	})
}

// HandleInteraction is the Gin handler for interactive components. Slack
// always receives an empty 200; only block actions are processed.
func (h *Handler) HandleInteraction(c *gin.Context) {
	start := time.Now()
	ctx := h.requestContext(c)

	if !h.readAndVerify(c, endpointInteraction, start) {
		return
	}

	// Acknowledge unconditionally; malformed payloads are logged only.
	c.Status(http.StatusOK)

	callback, err := slack.InteractionCallbackParse(c.Request)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to parse interaction payload", "error", err)
		h.record(endpointInteraction, "bad_request", start)
		return
	}

	if callback.Type != slack.InteractionTypeBlockActions || len(callback.ActionCallback.BlockActions) == 0 {
		h.logger.DebugContext(ctx, "ignoring interaction", "type", string(callback.Type))
		h.record(endpointInteraction, "ignored", start)
		return
	}

	action := callback.ActionCallback.BlockActions[0]
	ev := feedback.VoteEvent{
		ActionID:          action.ActionID,
		UserID:            callback.User.ID,
		ExternalMessageID: callback.Message.Timestamp,
		ChannelID:         callback.Channel.ID,
	}
	if ev.ExternalMessageID == "" {
		ev.ExternalMessageID = callback.Container.MessageTs
	}
	if ev.ChannelID == "" {
		ev.ChannelID = callback.Container.ChannelID
	}

	h.record(endpointInteraction, "accepted", start)

	ctx = ctxutil.WithUserID(ctx, ev.UserID)
	h.runAsync(ctx, endpointInteraction, func(ctx context.Context) error {
		outcome, err := h.flows.ProcessVote(ctx, ev)
		h.logger.DebugContext(ctx, "vote processed", "outcome", string(outcome))
		return err
	})
}

// readAndVerify buffers the body, checks the signature when a secret is
// configured and restores the body for parsing. It writes the error
// response and returns false when the request must not be processed.
func (h *Handler) readAndVerify(c *gin.Context, endpoint string, start time.Time) bool {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		h.logger.WithError(err).Warn("Failed to read request body")
		h.record(endpoint, "bad_request", start)
		c.Status(http.StatusBadRequest)
		return false
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	if h.signingSecret == "" {
		return true
	}

	if err := verifySignature(c.Request.Header, body, h.signingSecret); err != nil {
		h.logger.WithError(err).Warn("Invalid Slack signature")
		h.record(endpoint, "unauthorized", start)
		c.Status(http.StatusUnauthorized)
		return false
	}
	return true
}

func verifySignature(header http.Header, body []byte, secret string) error {
	sv, err := slack.NewSecretsVerifier(header, secret)
	if err != nil {
		return fmt.Errorf("secrets verifier: %w", err)
	}
	if _, err := sv.Write(body); err != nil {
		return fmt.Errorf("hash body: %w", err)
	}
	return sv.Ensure()
}

// requestContext attaches a request id taken from X-Request-Id or freshly generated.
func (h *Handler) requestContext(c *gin.Context) context.Context {
	requestID := c.GetHeader("X-Request-Id")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-Id", requestID)
	return ctxutil.WithRequestID(c.Request.Context(), requestID)
}

// runAsync runs fn on a detached context bounded by the flow timeout.
func (h *Handler) runAsync(reqCtx context.Context, endpoint string, fn func(context.Context) error) {
	flowCtx := ctxutil.PreserveTracing(reqCtx)

	h.wg.Go(func() {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				h.logger.WithField("panic", r).ErrorContext(flowCtx, "Panic in async flow processing")
				h.record(endpoint+"_flow", metrics.StatusError, start)
			}
		}()

		ctx, cancel := context.WithTimeout(flowCtx, h.flowTimeout)
		defer cancel()

		status := metrics.StatusSuccess
		if err := fn(ctx); err != nil {
			status = metrics.StatusError
			h.logger.WarnContext(ctx, "flow finished with error", "endpoint", endpoint, "error", err)
		}
		h.record(endpoint+"_flow", status, start)
	})
}

func (h *Handler) record(endpoint, status string, start time.Time) {
	if h.metrics != nil {
		h.metrics.RecordWebhook(endpoint, status, time.Since(start).Seconds())
	}
}

// Shutdown waits for all async flow processing to complete.
// It returns an error if the context is canceled before completion.
func (h *Handler) Shutdown(ctx context.Context) error {
	c := make(chan struct{})
	go func() {
		defer close(c)
		h.wg.Wait()
	}()

	select {
	case <-c:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
