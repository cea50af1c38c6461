package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"photowall/pkg/config"
	errs "photowall/pkg/errors"
	"photowall/pkg/logger"
)

func TestExponentialBackoff(t *testing.T) {
	backoff := &ExponentialBackoff{
		BaseDelay:    100 * time.Millisecond,
		MaxDelay:     1 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.0,
	}

	tests := []struct {
		attempt     int
		expected    time.Duration
		description string
	}{
		{0, 0, "No attempt yet"},
		{1, 100 * time.Millisecond, "First attempt"},
		{2, 200 * time.Millisecond, "Second attempt"},
		{3, 400 * time.Millisecond, "Third attempt"},
		{4, 800 * time.Millisecond, "Fourth attempt"},
		{5, 1 * time.Second, "Fifth attempt (capped at max)"},
		{6, 1 * time.Second, "Sixth attempt (still capped)"},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			if delay := backoff.NextDelay(test.attempt); delay != test.expected {
				t.Errorf("Expected delay %v, got %v", test.expected, delay)
			}
		})
	}
}

func TestExponentialBackoffJitterStaysInBand(t *testing.T) {
	backoff := &ExponentialBackoff{
		BaseDelay:    100 * time.Millisecond,
		MaxDelay:     1 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.3,
	}

	for i := 0; i < 50; i++ {
		delay := backoff.NextDelay(2)
		assert.GreaterOrEqual(t, delay, 140*time.Millisecond)
		assert.LessOrEqual(t, delay, 260*time.Millisecond)
	}
}

func quiet(cfg *Config) *Config {
	cfg.Logger = logger.NewNopLogger()
	return cfg
}

func TestRetryWithSuccess(t *testing.T) {
	attempts := 0
	op := func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	}

	cfg := quiet(&Config{
		MaxAttempts: 5,
		Backoff:     &ConstantBackoff{Delay: 10 * time.Millisecond},
		RetryIf:     func(err error) bool { return true },
	})

	require.NoError(t, Do(context.Background(), op, cfg))
	assert.Equal(t, 3, attempts)
}

func TestRetryWithMaxAttemptsExceeded(t *testing.T) {
	attempts := 0
	persistent := errors.New("persistent error")
	op := func(ctx context.Context) error {
		attempts++
		return persistent
	}

	retries := 0
	cfg := quiet(&Config{
		MaxAttempts: 3,
		Backoff:     &ConstantBackoff{Delay: 10 * time.Millisecond},
		RetryIf:     func(err error) bool { return true },
		OnRetry:     func(int, error, time.Duration) { retries++ },
	})

	err := Do(context.Background(), op, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, persistent)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 2, retries)
}

func TestSingleAttemptReturnsErrorUnwrapped(t *testing.T) {
	timeout := errs.NewIngestion(errs.CodeTimeout, "navigation timed out", nil)
	attempts := 0

	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return timeout
	}, quiet(&Config{MaxAttempts: 1, Backoff: &ConstantBackoff{Delay: time.Millisecond}}))

	assert.Same(t, timeout, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryWithNonRetryableError(t *testing.T) {
	attempts := 0
	selectorErr := errs.NewIngestion(errs.CodeSelector, "no images matched", nil)

	op := func(ctx context.Context) error {
		attempts++
		return selectorErr
	}

	cfg := quiet(&Config{
		MaxAttempts: 5,
		Backoff:     &ConstantBackoff{Delay: 10 * time.Millisecond},
		RetryIf:     DefaultRetryIf,
	})

	err := Do(context.Background(), op, cfg)
	assert.Same(t, selectorErr, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryWithContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	op := func(ctx context.Context) error {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return errs.NewIngestion(errs.CodeNetwork, "connection reset", nil)
	}

	cfg := quiet(&Config{
		MaxAttempts: 5,
		Backoff:     &ConstantBackoff{Delay: 100 * time.Millisecond},
	})

	err := Do(ctx, op, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, attempts)
}

func TestDefaultRetryIf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"network", errs.NewIngestion(errs.CodeNetwork, "reset", nil), true},
		{"timeout", errs.NewIngestion(errs.CodeTimeout, "slow", nil), true},
		{"selector", errs.NewIngestion(errs.CodeSelector, "none", nil), false},
		{"precondition", errs.NewPrecondition("Query parameter is required"), false},
		{"rate limit", &errs.Error{Type: errs.ErrorTypeRateLimit, Message: "slow down"}, true},
		{"cancelled", context.Canceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultRetryIf(tt.err); got != tt.want {
				t.Errorf("DefaultRetryIf(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestDoWithResult(t *testing.T) {
	attempts := 0
	op := func(ctx context.Context) (string, error) {
		attempts++
		if attempts < 2 {
			return "", errs.NewIngestion(errs.CodeNetwork, "reset", nil)
		}
		return "success", nil
	}

	cfg := quiet(&Config{
		MaxAttempts: 3,
		Backoff:     &ConstantBackoff{Delay: 10 * time.Millisecond},
	})

	result, err := DoWithResult(context.Background(), op, cfg)
	require.NoError(t, err)
	assert.Equal(t, "success", result)
	assert.Equal(t, 2, attempts)
}

func TestFromConfig(t *testing.T) {
	cfg := FromConfig(config.RetryConfig{MaxAttempts: 0, BaseDelay: time.Second, MaxDelay: 4 * time.Second})
	assert.Equal(t, 1, cfg.MaxAttempts)

	eb, ok := cfg.Backoff.(*ExponentialBackoff)
	require.True(t, ok)
	assert.Equal(t, time.Second, eb.BaseDelay)
	assert.Equal(t, 4*time.Second, eb.MaxDelay)

	assert.Equal(t, 1, DefaultConfig().MaxAttempts)
}

func TestWait(t *testing.T) {
	assert.NoError(t, Wait(context.Background(), 0))
	assert.NoError(t, Wait(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Wait(ctx, time.Hour), context.Canceled)
}
