// Package ctxutil provides type-safe context value management.
// Uses private key types to prevent collisions.
package ctxutil

import (
	"context"
)

type contextKey string

const (
	userIDKey    contextKey = "ctxutil.userID"
	channelIDKey contextKey = "ctxutil.channelID"
	requestIDKey contextKey = "ctxutil.requestID"
	messageTSKey contextKey = "ctxutil.messageTS"
)

// WithUserID adds the Slack user ID of the acting user to the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID retrieves the user ID from the context.
// Returns the user ID if found, empty string otherwise.
func GetUserID(ctx context.Context) string {
	if v := ctx.Value(userIDKey); v != nil {
		if userID, ok := v.(string); ok && userID != "" {
			return userID
		}
	}
	return ""
}

// WithChannelID adds the Slack channel ID to the context.
func WithChannelID(ctx context.Context, channelID string) context.Context {
	return context.WithValue(ctx, channelIDKey, channelID)
}

// GetChannelID retrieves the channel ID from the context.
func GetChannelID(ctx context.Context) string {
	if v := ctx.Value(channelIDKey); v != nil {
		if channelID, ok := v.(string); ok && channelID != "" {
			return channelID
		}
	}
	return ""
}

// WithRequestID adds a request ID to the context for tracing.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
// Returns the request ID and true if found, empty string and false otherwise.
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(requestIDKey).(string)
	return requestID, ok
}

// WithMessageTS adds the timestamp of the Slack message being acted on.
func WithMessageTS(ctx context.Context, ts string) context.Context {
	return context.WithValue(ctx, messageTSKey, ts)
}

// GetMessageTS retrieves the Slack message timestamp from the context.
func GetMessageTS(ctx context.Context) string {
	if v := ctx.Value(messageTSKey); v != nil {
		if ts, ok := v.(string); ok && ts != "" {
			return ts
		}
	}
	return ""
}

// PreserveTracing creates a detached context that preserves tracing values.
// The new context is independent of the parent's cancellation and deadlines.
//
// Use for flows that continue after the Slack request has been acknowledged.
func PreserveTracing(ctx context.Context) context.Context {
	newCtx := context.Background()

	if userID := GetUserID(ctx); userID != "" {
		newCtx = WithUserID(newCtx, userID)
	}
	if channelID := GetChannelID(ctx); channelID != "" {
		newCtx = WithChannelID(newCtx, channelID)
	}
	if requestID, ok := GetRequestID(ctx); ok && requestID != "" {
		newCtx = WithRequestID(newCtx, requestID)
	}
	if ts := GetMessageTS(ctx); ts != "" {
		newCtx = WithMessageTS(newCtx, ts)
	}

	return newCtx
}
