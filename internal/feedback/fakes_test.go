package feedback

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/garyellow/varname-slackbot/internal/logger"
	"github.com/garyellow/varname-slackbot/internal/storage"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/require"
)

const testChannel = "C0RESULTS"

// sentMessage is a decoded Slack call.
type sentMessage struct {
	channel string
	user    string
	ts      string
	text    string
	blocks  string
}

func decode(channel string, options []slack.MsgOption) (text, blocks string) {
	_, values, err := slack.UnsafeApplyMsgOptions("", channel, "https://slack.com/api/", options...)
	if err != nil {
		return "", ""
	}
	return values.Get("text"), values.Get("blocks")
}

// fakeSlack records every call and hands out increasing message ts values.
type fakeSlack struct {
	mu         sync.Mutex
	seq        int
	posts      []sentMessage
	updates    []sentMessage
	ephemerals []sentMessage

	postErr      error
	updateErr    error
	ephemeralErr error
}

func (f *fakeSlack) PostMessageContext(_ context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.postErr != nil {
		return "", "", f.postErr
	}
	f.seq++
	ts := fmt.Sprintf("1718769644.%06d", f.seq)
	text, blocks := decode(channelID, options)
	f.posts = append(f.posts, sentMessage{channel: channelID, ts: ts, text: text, blocks: blocks})
	return channelID, ts, nil
}

func (f *fakeSlack) UpdateMessageContext(_ context.Context, channelID, timestamp string, options ...slack.MsgOption) (string, string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return "", "", "", f.updateErr
	}
	text, blocks := decode(channelID, options)
	f.updates = append(f.updates, sentMessage{channel: channelID, ts: timestamp, text: text, blocks: blocks})
	return channelID, timestamp, text, nil
}

func (f *fakeSlack) PostEphemeralContext(_ context.Context, channelID, userID string, options ...slack.MsgOption) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	text, _ := decode(channelID, options)
	f.ephemerals = append(f.ephemerals, sentMessage{channel: channelID, user: userID, text: text})
	return "", f.ephemeralErr
}

func (f *fakeSlack) AuthTestContext(context.Context) (*slack.AuthTestResponse, error) {
	return &slack.AuthTestResponse{UserID: "UBOT"}, nil
}

func (f *fakeSlack) snapshot() (posts, updates, ephemerals []sentMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.posts...),
		append([]sentMessage(nil), f.updates...),
		append([]sentMessage(nil), f.ephemerals...)
}

type fakeTranslator struct {
	result string
	err    error
	calls  atomic.Int32
}

func (f *fakeTranslator) Provider() string { return "fake" }

func (f *fakeTranslator) Translate(context.Context, string) (string, error) {
	f.calls.Add(1)
	return f.result, f.err
}

type fakeMetrics struct {
	mu              sync.Mutex
	votes           []string
	persistFailures int
}

func (m *fakeMetrics) RecordVote(column, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.votes = append(m.votes, column+"/"+outcome)
}

func (m *fakeMetrics) RecordPersistFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persistFailures++
}

type reportRecorder struct {
	mu     sync.Mutex
	errors []error
	tags   []map[string]string
}

func (r *reportRecorder) report(_ context.Context, err error, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, err)
	r.tags = append(r.tags, tags)
}

func (r *reportRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errors)
}

// storeOverride lets a test replace individual store methods.
type storeOverride struct {
	Store
	create   func(context.Context, storage.NewFeedback) (*storage.Feedback, error)
	find     func(context.Context, string) (*storage.Feedback, error)
	hasVoted func(context.Context, int64, string) (bool, error)
}

func (s *storeOverride) CreateFeedback(ctx context.Context, nf storage.NewFeedback) (*storage.Feedback, error) {
	if s.create != nil {
		return s.create(ctx, nf)
	}
	return s.Store.CreateFeedback(ctx, nf)
}

func (s *storeOverride) FindByExternalMessageID(ctx context.Context, id string) (*storage.Feedback, error) {
	if s.find != nil {
		return s.find(ctx, id)
	}
	return s.Store.FindByExternalMessageID(ctx, id)
}

func (s *storeOverride) HasVoted(ctx context.Context, feedbackID int64, voter string) (bool, error) {
	if s.hasVoted != nil {
		return s.hasVoted(ctx, feedbackID, voter)
	}
	return s.Store.HasVoted(ctx, feedbackID, voter)
}

type harness struct {
	svc        *Service
	store      Store
	slack      *fakeSlack
	translator *fakeTranslator
	metrics    *fakeMetrics
	reports    *reportRecorder
}

type harnessOption func(*harness)

func withStore(wrap func(Store) Store) harnessOption {
	return func(h *harness) { h.store = wrap(h.store) }
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	db, err := storage.NewTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return newHarnessWithStore(t, db, opts...)
}

func newHarnessWithStore(t *testing.T, store Store, opts ...harnessOption) *harness {
	t.Helper()
	h := &harness{
		store:      store,
		slack:      &fakeSlack{},
		translator: &fakeTranslator{result: "Change user permission"},
		metrics:    &fakeMetrics{},
		reports:    &reportRecorder{},
	}
	for _, opt := range opts {
		opt(h)
	}

	svc, err := NewService(Config{
		Store:      h.store,
		Translator: h.translator,
		Slack:      h.slack,
		Channel:    testChannel,
		Metrics:    h.metrics,
		Logger:     logger.NewWithWriter("error", io.Discard),
		Report:     h.reports.report,
	})
	require.NoError(t, err)
	h.svc = svc
	return h
}

// submit runs the full submit flow and returns the posted ts.
func (h *harness) submit(t *testing.T, userID, text string) string {
	t.Helper()
	ev, err := h.svc.PrepareCommand(CommandEvent{UserID: userID, ChannelID: "CINVOKE", Text: text})
	require.NoError(t, err)
	require.NoError(t, h.svc.ProcessCommand(context.Background(), ev))
	posts, _, _ := h.slack.snapshot()
	require.NotEmpty(t, posts)
	return posts[len(posts)-1].ts
}

func voteEvent(action, userID, ts string) VoteEvent {
	return VoteEvent{ActionID: action, UserID: userID, ExternalMessageID: ts, ChannelID: testChannel}
}
