package feedback

import (
	"context"
	"errors"
	"testing"

	domerrors "github.com/garyellow/varname-slackbot/internal/errors"
	"github.com/garyellow/varname-slackbot/internal/slackutil"
	"github.com/garyellow/varname-slackbot/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareCommand(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	ev, err := h.svc.PrepareCommand(CommandEvent{UserID: "U1", Text: "  사용자 권한 변경 \n"})
	require.NoError(t, err)
	assert.Equal(t, "사용자 권한 변경", ev.Text)

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := h.svc.PrepareCommand(CommandEvent{UserID: "U1", Text: text})
		require.ErrorIs(t, err, domerrors.ErrInvalidInput, "text %q", text)

		var ve *domerrors.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "Text", ve.Field)
	}

	_, err = h.svc.PrepareCommand(CommandEvent{Text: "입력"})
	assert.ErrorIs(t, err, domerrors.ErrInvalidInput)
}

func TestProcessCommand_PostsAndPersists(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	ts := h.submit(t, "U1", "사용자 권한 변경")

	posts, _, ephemerals := h.slack.snapshot()
	require.Len(t, posts, 1)
	assert.Empty(t, ephemerals)
	assert.Equal(t, testChannel, posts[0].channel)
	assert.Equal(t, "<@U1> '사용자 권한 변경'에 대한 변수명 추천 결과입니다.", posts[0].text)
	assert.Contains(t, posts[0].blocks, "changeUserPermission")
	assert.Contains(t, posts[0].blocks, "ChangeUserPermission")
	assert.Contains(t, posts[0].blocks, "change_user_permission")
	assert.Contains(t, posts[0].blocks, ":+1: 0")
	assert.Contains(t, posts[0].blocks, ":-1: 0")

	fb, err := h.store.FindByExternalMessageID(context.Background(), ts)
	require.NoError(t, err)
	assert.Equal(t, "U1", fb.AuthorUserID)
	assert.Equal(t, "사용자 권한 변경", fb.InputText)
	assert.Equal(t, "Change user permission", fb.TranslatedText)
	assert.Zero(t, fb.LikeCount)
	assert.Zero(t, fb.DislikeCount)
	assert.Zero(t, h.reports.count())
}

func TestProcessCommand_TranslationFailure(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.translator.err = domerrors.NewTranslationError("fake", 502, errors.New("bad gateway"))

	err := h.svc.ProcessCommand(context.Background(), CommandEvent{UserID: "U1", Text: "입력"})
	require.ErrorIs(t, err, domerrors.ErrTranslationFailed)

	posts, _, ephemerals := h.slack.snapshot()
	assert.Empty(t, posts)
	require.Len(t, ephemerals, 1)
	assert.Equal(t, sentMessage{channel: testChannel, user: "U1", text: slackutil.MsgGenericError}, ephemerals[0])
	assert.Equal(t, 1, h.reports.count())
}

func TestProcessCommand_PostFailure(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.slack.postErr = errors.New("channel_not_found")

	err := h.svc.ProcessCommand(context.Background(), CommandEvent{UserID: "U1", Text: "입력"})
	require.Error(t, err)

	_, _, ephemerals := h.slack.snapshot()
	require.Len(t, ephemerals, 1)
	assert.Equal(t, slackutil.MsgGenericError, ephemerals[0].text)
	assert.Equal(t, int32(1), h.translator.calls.Load())
}

// A store failure after posting is logged, reported and counted; the user is not told.
func TestProcessCommand_PersistFailureAfterPost(t *testing.T) {
	t.Parallel()
	persistErr := domerrors.NewPersistenceError("create_feedback", errors.New("disk I/O error"))
	h := newHarness(t, withStore(func(s Store) Store {
		return &storeOverride{Store: s, create: func(context.Context, storage.NewFeedback) (*storage.Feedback, error) {
			return nil, persistErr
		}}
	}))

	err := h.svc.ProcessCommand(context.Background(), CommandEvent{UserID: "U1", Text: "입력"})
	require.ErrorIs(t, err, domerrors.ErrPersistence)

	posts, _, ephemerals := h.slack.snapshot()
	assert.Len(t, posts, 1)
	assert.Empty(t, ephemerals)
	assert.Equal(t, 1, h.metrics.persistFailures)
	require.Equal(t, 1, h.reports.count())
	assert.Equal(t, "persist", h.reports.tags[0]["stage"])

	// Votes on the orphaned message answer "not found".
	outcome, err := h.svc.ProcessVote(context.Background(), voteEvent("like_button", "U2", posts[0].ts))
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotFound, outcome)
}

func TestProcessCommand_SanitizesForms(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.translator.result = "company's first name"

	h.submit(t, "U1", "회사의 첫 이름")
	posts, _, _ := h.slack.snapshot()
	assert.Contains(t, posts[0].blocks, "companysFirstName")
	assert.Contains(t, posts[0].blocks, "companys_first_name")
}

func TestNewService_RequiresDependencies(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	base := Config{Store: h.store, Translator: h.translator, Slack: h.slack, Channel: testChannel}

	cases := map[string]func(*Config){
		"store":      func(c *Config) { c.Store = nil },
		"translator": func(c *Config) { c.Translator = nil },
		"slack":      func(c *Config) { c.Slack = nil },
		"channel":    func(c *Config) { c.Channel = "" },
	}
	for name, mutate := range cases {
		cfg := base
		mutate(&cfg)
		_, err := NewService(cfg)
		assert.ErrorContains(t, err, name)
	}

	svc, err := NewService(base)
	require.NoError(t, err)
	assert.Equal(t, testChannel, svc.Channel())
}
