package ctxutil

import (
	"context"
	"testing"
	"time"
)

func TestUserIDContext(t *testing.T) {
	t.Parallel()

	t.Run("empty context", func(t *testing.T) {
		t.Parallel()
		if userID := GetUserID(context.Background()); userID != "" {
			t.Errorf("Expected empty string, got %s", userID)
		}
	})

	t.Run("with user ID", func(t *testing.T) {
		t.Parallel()
		ctx := WithUserID(context.Background(), "U1234567890")
		if userID := GetUserID(ctx); userID != "U1234567890" {
			t.Errorf("Expected userID U1234567890, got %s", userID)
		}
	})
}

func TestChannelIDContext(t *testing.T) {
	t.Parallel()

	if got := GetChannelID(context.Background()); got != "" {
		t.Errorf("Expected empty string, got %s", got)
	}
	ctx := WithChannelID(context.Background(), "C0123")
	if got := GetChannelID(ctx); got != "C0123" {
		t.Errorf("Expected C0123, got %s", got)
	}
}

func TestRequestIDContext(t *testing.T) {
	t.Parallel()

	if _, ok := GetRequestID(context.Background()); ok {
		t.Error("Expected no request ID on empty context")
	}

	ctx := WithRequestID(context.Background(), "req-1")
	requestID, ok := GetRequestID(ctx)
	if !ok || requestID != "req-1" {
		t.Errorf("Expected (req-1, true), got (%s, %v)", requestID, ok)
	}
}

func TestMessageTSContext(t *testing.T) {
	t.Parallel()

	ctx := WithMessageTS(context.Background(), "1718769644.269369")
	if got := GetMessageTS(ctx); got != "1718769644.269369" {
		t.Errorf("Expected ts, got %s", got)
	}
}

func TestPreserveTracing(t *testing.T) {
	t.Parallel()

	parent, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	parent = WithUserID(parent, "U1")
	parent = WithChannelID(parent, "C1")
	parent = WithRequestID(parent, "req-1")
	parent = WithMessageTS(parent, "1.2")
	cancel()

	detached := PreserveTracing(parent)

	if detached.Err() != nil {
		t.Errorf("Detached context should not be canceled, got %v", detached.Err())
	}
	if _, ok := detached.Deadline(); ok {
		t.Error("Detached context should not carry a deadline")
	}
	if GetUserID(detached) != "U1" || GetChannelID(detached) != "C1" || GetMessageTS(detached) != "1.2" {
		t.Error("Tracing values were not preserved")
	}
	if id, _ := GetRequestID(detached); id != "req-1" {
		t.Errorf("Expected req-1, got %s", id)
	}
}

func TestPreserveTracing_EmptyContext(t *testing.T) {
	t.Parallel()

	detached := PreserveTracing(context.Background())
	if _, ok := GetRequestID(detached); ok {
		t.Error("Expected no request ID")
	}
	if GetUserID(detached) != "" {
		t.Error("Expected no user ID")
	}
}
