package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(attempts int) Config {
	cfg := DefaultConfig()
	cfg.MaxAttempts = attempts
	cfg.InitialDelay = 5 * time.Millisecond
	cfg.MaxDelay = 20 * time.Millisecond
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, 1*time.Second, cfg.InitialDelay)
	assert.Equal(t, 30*time.Second, cfg.MaxDelay)
	assert.Equal(t, 2.0, cfg.Multiplier)
	assert.Empty(t, cfg.RetryableErrors)
	assert.Nil(t, cfg.ShouldRetry)
}

func TestDo_RetrySuccess(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastConfig(3), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDo_MaxAttempts(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastConfig(3), func() error {
		attempts++
		return errors.New("persistent error")
	})

	assert.EqualError(t, err, "persistent error")
	assert.Equal(t, 3, attempts)
}

func TestDo_ZeroMaxAttempts(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastConfig(0), func() error {
		attempts++
		return nil
	})

	assert.ErrorIs(t, err, ErrInvalidAttempts)
	assert.Zero(t, attempts)
}

func TestDo_NonRetryableStopsImmediately(t *testing.T) {
	cfg := fastConfig(5)
	cfg.RetryableErrors = []string{"connection refused"}

	attempts := 0
	err := Do(context.Background(), cfg, func() error {
		attempts++
		return errors.New("duplicate key value")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDo_ShouldRetryOverridesPatterns(t *testing.T) {
	permanent := errors.New("connection refused but permanent")
	cfg := fastConfig(5)
	cfg.RetryableErrors = []string{"connection refused"}
	cfg.ShouldRetry = func(err error) bool { return !errors.Is(err, permanent) }

	attempts := 0
	err := Do(context.Background(), cfg, func() error {
		attempts++
		return permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, attempts)
}

func TestDo_OnRetryHook(t *testing.T) {
	cfg := fastConfig(3)
	var seen []int
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		seen = append(seen, attempt)
		assert.Error(t, err)
		assert.Positive(t, delay)
	}

	_ = Do(context.Background(), cfg, func() error { return errors.New("boom") })

	assert.Equal(t, []int{1, 2}, seen)
}

func TestDo_ContextCancelDuringWait(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	cfg := DefaultConfig()
	cfg.MaxAttempts = 10
	cfg.InitialDelay = 200 * time.Millisecond

	attempts := 0
	err := Do(ctx, cfg, func() error {
		attempts++
		return errors.New("temporary error")
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, attempts)
}

func TestDoWithResult(t *testing.T) {
	attempts := 0
	result, err := DoWithResult(context.Background(), fastConfig(3), func() (string, error) {
		attempts++
		if attempts == 1 {
			return "", errors.New("temporary error")
		}
		return "stored", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "stored", result)
	assert.Equal(t, 2, attempts)
}

func TestUploadConfig_DoesNotRetryCancellation(t *testing.T) {
	cfg := UploadConfig()
	assert.False(t, IsRetryableError(context.Canceled, cfg))
	assert.False(t, IsRetryableError(context.DeadlineExceeded, cfg))
	assert.True(t, IsRetryableError(errors.New("write failed"), cfg))
}

func TestCalculateDelay(t *testing.T) {
	cfg := Config{
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	tests := []struct {
		name     string
		attempt  int
		expected time.Duration
	}{
		{name: "negative attempt", attempt: -1, expected: 1 * time.Second},
		{name: "first retry", attempt: 0, expected: 1 * time.Second},
		{name: "third retry", attempt: 2, expected: 4 * time.Second},
		{name: "fifth retry", attempt: 4, expected: 16 * time.Second},
		{name: "capped", attempt: 10, expected: 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, calculateDelay(tt.attempt, cfg))
		})
	}
}

func TestAddJitter(t *testing.T) {
	delay := 1 * time.Second
	jittered := addJitter(delay)

	assert.GreaterOrEqual(t, jittered, delay-100*time.Millisecond)
	assert.LessOrEqual(t, jittered, delay+100*time.Millisecond)
	assert.Equal(t, time.Duration(0), addJitter(0))
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		patterns []string
		expected bool
	}{
		{name: "nil error", err: nil, patterns: []string{"connection refused"}, expected: false},
		{name: "no patterns", err: errors.New("any error"), expected: true},
		{name: "case insensitive", err: errors.New("CONNECTION REFUSED"), patterns: []string{"connection refused"}, expected: true},
		{name: "partial match", err: errors.New("dial tcp: connection refused"), patterns: []string{"connection refused"}, expected: true},
		{name: "no match", err: errors.New("invalid credentials"), patterns: []string{"connection refused"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRetryableError(tt.err, Config{RetryableErrors: tt.patterns}))
		})
	}
}

func TestConnectionConfig(t *testing.T) {
	cfg := ConnectionConfig()
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Contains(t, cfg.RetryableErrors, "connection refused")
	assert.Contains(t, cfg.RetryableErrors, "database is locked")
}
