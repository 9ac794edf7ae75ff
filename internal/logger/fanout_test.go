package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lockedBuffer is a bytes.Buffer safe for concurrent writers.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Count(sub string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Count(b.buf.Bytes(), []byte(sub))
}

type failingHandler struct{}

func (failingHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("sink down") }
func (h failingHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h failingHandler) WithGroup(string) slog.Handler           { return h }

// blockingHandler holds every record until release is closed.
type blockingHandler struct {
	release chan struct{}
	out     *lockedBuffer
}

func (h blockingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h blockingHandler) Handle(_ context.Context, r slog.Record) error {
	<-h.release
	_, err := h.out.Write([]byte(r.Message + "\n"))
	return err
}
func (h blockingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h blockingHandler) WithGroup(string) slog.Handler      { return h }

func TestMultiHandler_FansOutAndFilters(t *testing.T) {
	t.Parallel()
	var debugBuf, errorBuf lockedBuffer
	mh := NewMultiHandler(
		nil,
		slog.NewJSONHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewJSONHandler(&errorBuf, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	require.Len(t, mh.handlers, 2)

	log := slog.New(mh).With("service", "varname-slackbot").WithGroup("g")
	log.Info("info record")
	log.Error("error record")

	assert.Equal(t, 1, debugBuf.Count("info record"))
	assert.Equal(t, 1, debugBuf.Count("error record"))
	assert.Zero(t, errorBuf.Count("info record"))
	assert.Equal(t, 1, errorBuf.Count("error record"))
	assert.Equal(t, 2, debugBuf.Count("varname-slackbot"))
}

func TestMultiHandler_JoinsErrors(t *testing.T) {
	t.Parallel()
	var buf lockedBuffer
	mh := NewMultiHandler(slog.NewJSONHandler(&buf, nil), failingHandler{})

	err := mh.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "x", 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink down")
	assert.Equal(t, 1, buf.Count(`"x"`))
}

func TestAsyncHandler_FlushesOnShutdown(t *testing.T) {
	t.Parallel()
	var buf lockedBuffer
	h := NewAsyncHandler(slog.NewJSONHandler(&buf, nil), AsyncOptions{})
	log := slog.New(h)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() { log.Info("queued", "i", i) })
	}
	wg.Wait()

	require.NoError(t, h.Shutdown(context.Background()))
	assert.Equal(t, 50, buf.Count("queued"))

	// Records after shutdown are ignored and a second shutdown is a no-op.
	log.Info("late")
	assert.NoError(t, h.Shutdown(context.Background()))
	assert.Zero(t, buf.Count("late"))
}

func TestAsyncHandler_DropsWhenFull(t *testing.T) {
	t.Parallel()
	var out lockedBuffer
	release := make(chan struct{})
	h := NewAsyncHandler(blockingHandler{release: release, out: &out}, AsyncOptions{BufferSize: 1})
	log := slog.New(h)

	// One record may be held by the worker and one sits in the buffer; the rest overflow.
	for range 10 {
		log.Info("burst")
	}
	assert.GreaterOrEqual(t, h.Dropped(), uint64(8))

	close(release)
	require.NoError(t, h.Shutdown(context.Background()))
	assert.LessOrEqual(t, out.Count("burst"), 2)
}

func TestAsyncHandler_ShutdownHonorsDeadline(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	defer close(release)
	h := NewAsyncHandler(blockingHandler{release: release, out: &lockedBuffer{}}, AsyncOptions{})
	slog.New(h).Info("stuck")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, h.Shutdown(ctx), context.DeadlineExceeded)
}
