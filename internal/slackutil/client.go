// Package slackutil holds the Slack Web API surface the bot uses, the user
// facing message texts and message permalinks.
package slackutil

import (
	"context"

	"github.com/slack-go/slack"
)

// Client is the subset of *slack.Client the bot calls.
type Client interface {
	// PostMessageContext returns the channel and the ts of the new message.
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)

	// UpdateMessageContext replaces the message at timestamp.
	UpdateMessageContext(ctx context.Context, channelID, timestamp string, options ...slack.MsgOption) (string, string, string, error)

	// PostEphemeralContext shows a message to userID only.
	PostEphemeralContext(ctx context.Context, channelID, userID string, options ...slack.MsgOption) (string, error)

	AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error)
}

var _ Client = (*slack.Client)(nil)

// MetricsRecorder counts Web API calls by method.
type MetricsRecorder interface {
	RecordSlackAPI(method string, err error)
}

// Instrument wraps client so every call is counted.
func Instrument(client Client, metrics MetricsRecorder) Client {
	if metrics == nil {
		return client
	}
	return &instrumentedClient{next: client, metrics: metrics}
}

type instrumentedClient struct {
	next    Client
	metrics MetricsRecorder
}

func (c *instrumentedClient) PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	ch, ts, err := c.next.PostMessageContext(ctx, channelID, options...)
	c.metrics.RecordSlackAPI("chat.postMessage", err)
	return ch, ts, err
}

func (c *instrumentedClient) UpdateMessageContext(ctx context.Context, channelID, timestamp string, options ...slack.MsgOption) (string, string, string, error) {
	ch, ts, text, err := c.next.UpdateMessageContext(ctx, channelID, timestamp, options...)
	c.metrics.RecordSlackAPI("chat.update", err)
	return ch, ts, text, err
}

func (c *instrumentedClient) PostEphemeralContext(ctx context.Context, channelID, userID string, options ...slack.MsgOption) (string, error) {
	ts, err := c.next.PostEphemeralContext(ctx, channelID, userID, options...)
	c.metrics.RecordSlackAPI("chat.postEphemeral", err)
	return ts, err
}

func (c *instrumentedClient) AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error) {
	resp, err := c.next.AuthTestContext(ctx)
	c.metrics.RecordSlackAPI("auth.test", err)
	return resp, err
}
