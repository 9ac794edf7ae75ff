package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()
	registry := prometheus.NewRegistry()
	m := New(registry)
	require.NotNil(t, m)

	// Touch every vector so Gather reports each family.
	m.RecordWebhook("command", StatusSuccess, 0.01)
	m.RecordTranslation("analyzer", StatusSuccess, 0.2)
	m.RecordVote("like_count", "updated")
	m.RecordSlackAPI("chat.postMessage", nil)
	m.RecordPersistFailure()

	families, err := registry.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"varname_webhook_requests_total",
		"varname_webhook_duration_seconds",
		"varname_translation_requests_total",
		"varname_translation_duration_seconds",
		"varname_votes_total",
		"varname_feedback_persist_failures_total",
		"varname_slack_api_requests_total",
	}, names)
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	t.Parallel()
	registry := prometheus.NewRegistry()
	New(registry)
	assert.Panics(t, func() { New(registry) })
}

func TestRecordVote(t *testing.T) {
	t.Parallel()
	m := New(prometheus.NewRegistry())

	m.RecordVote("like_count", "updated")
	m.RecordVote("like_count", "updated")
	m.RecordVote("dislike_count", "already_voted")

	assert.InDelta(t, 2, testutil.ToFloat64(m.VotesTotal.WithLabelValues("like_count", "updated")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.VotesTotal.WithLabelValues("dislike_count", "already_voted")), 1e-9)
}

func TestRecordSlackAPI(t *testing.T) {
	t.Parallel()
	m := New(prometheus.NewRegistry())

	m.RecordSlackAPI("chat.update", nil)
	m.RecordSlackAPI("chat.update", errors.New("channel_not_found"))

	assert.InDelta(t, 1, testutil.ToFloat64(m.SlackAPIRequestsTotal.WithLabelValues("chat.update", StatusSuccess)), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SlackAPIRequestsTotal.WithLabelValues("chat.update", StatusError)), 1e-9)
}

func TestRecordPersistFailure(t *testing.T) {
	t.Parallel()
	m := New(prometheus.NewRegistry())
	m.RecordPersistFailure()
	m.RecordPersistFailure()
	assert.InDelta(t, 2, testutil.ToFloat64(m.PersistFailuresTotal), 1e-9)
}

func TestNilMetricsIsNoop(t *testing.T) {
	t.Parallel()
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordWebhook("command", StatusError, 1)
		m.RecordTranslation("openai", StatusError, 1)
		m.RecordVote("like_count", "failed")
		m.RecordSlackAPI("chat.postEphemeral", nil)
		m.RecordPersistFailure()
	})
}
