package webhook

import (
	"time"

	"github.com/garyellow/varname-slackbot/internal/logger"
)

// HandlerOption is a functional option for configuring Handler.
type HandlerOption func(*Handler)

// WithSigningSecret enables X-Slack-Signature verification.
// An empty secret leaves verification off.
func WithSigningSecret(secret string) HandlerOption {
	return func(h *Handler) {
		h.signingSecret = secret
	}
}

// WithCommand sets the slash command the handler answers.
func WithCommand(command string) HandlerOption {
	return func(h *Handler) {
		h.command = command
	}
}

// WithFlowTimeout bounds each asynchronous flow.
func WithFlowTimeout(timeout time.Duration) HandlerOption {
	return func(h *Handler) {
		h.flowTimeout = timeout
	}
}

// WithMetrics sets the webhook metrics recorder.
func WithMetrics(m MetricsRecorder) HandlerOption {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = log
	}
}
