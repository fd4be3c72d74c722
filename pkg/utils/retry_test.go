package utils

import (
	"errors"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, Multiplier: 2}

	t.Run("succeeds after transient failure", func(t *testing.T) {
		attempts := 0
		err := Retry(cfg, func() error {
			attempts++
			if attempts < 2 {
				return errors.New("temporary")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if attempts != 2 {
			t.Errorf("expected 2 attempts, got %d", attempts)
		}
	})

	t.Run("returns last error after max attempts", func(t *testing.T) {
		attempts := 0
		wantErr := errors.New("persistent")
		err := Retry(cfg, func() error {
			attempts++
			return wantErr
		})
		if !errors.Is(err, wantErr) {
			t.Fatalf("expected %v, got %v", wantErr, err)
		}
		if attempts != 3 {
			t.Errorf("expected 3 attempts, got %d", attempts)
		}
	})

	t.Run("non-retryable error returned immediately", func(t *testing.T) {
		attempts := 0
		notFound := errors.New("not found")
		err := Retry(cfg, func() error {
			attempts++
			return notFound
		}, notFound)
		if !errors.Is(err, notFound) {
			t.Fatalf("expected %v, got %v", notFound, err)
		}
		if attempts != 1 {
			t.Errorf("expected 1 attempt, got %d", attempts)
		}
	})
}
