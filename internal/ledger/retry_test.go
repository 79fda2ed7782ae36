package ledger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestWithRetrySucceedsAfterFailures(t *testing.T) {
	attempts := 0
	err := withRetry(context.Background(), 3, time.Millisecond, zap.NewNop(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts mismatch: %d", attempts)
	}
}

func TestWithRetryExhausted(t *testing.T) {
	attempts := 0
	err := withRetry(context.Background(), 2, time.Millisecond, zap.NewNop(), func(context.Context) error {
		attempts++
		return fmt.Errorf("permanent")
	})
	if err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if attempts != 3 {
		t.Fatalf("attempts mismatch: %d", attempts)
	}
}

func TestWithRetryRespectsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := withRetry(ctx, 5, time.Hour, zap.NewNop(), func(context.Context) error {
		return fmt.Errorf("always")
	})
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
