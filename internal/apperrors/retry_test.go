package apperrors

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryOptions(attempts int) RetryOptions {
	return RetryOptions{
		MaxAttempts:       attempts,
		BaseDelay:         time.Millisecond,
		MaxDelay:          5 * time.Millisecond,
		BackoffMultiplier: 2,
	}
}

func TestWithRetry_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	result, err := WithRetry(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "ok", nil
	}, fastRetryOptions(3))

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_SucceedsAfterRetryableFailures(t *testing.T) {
	calls := 0
	result, err := WithRetry(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", New(KindNetwork, "flaky network", true)
		}
		return "recovered", nil
	}, fastRetryOptions(3))

	require.NoError(t, err)
	assert.Equal(t, "recovered", result)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_NonRetryableStopsImmediately(t *testing.T) {
	calls := 0
	permanent := New(KindInputValidation, "bad input", false)
	_, err := WithRetry(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "", permanent
	}, fastRetryOptions(5))

	require.Error(t, err)
	assert.Equal(t, 1, calls, "non-retryable error must not be retried")
	assert.True(t, errors.Is(err, permanent))
}

func TestWithRetry_ExhaustionWrapsLastError(t *testing.T) {
	calls := 0
	last := New(KindAIGeneration, "model keeps failing", true)
	_, err := WithRetry(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "", last
	}, fastRetryOptions(2))

	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, KindProcessing, KindOf(err))
	assert.False(t, IsRetryable(err), "exhaustion result must be final")
	assert.True(t, errors.Is(err, last), "last attempt error must stay reachable")
}

func TestWithRetry_ContextCancellationAbortsWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := WithRetry(ctx, func(ctx context.Context) (string, error) {
		calls++
		return "", New(KindNetwork, "still flaky", true)
	}, fastRetryOptions(3))

	require.Error(t, err)
	assert.Equal(t, 1, calls, "cancelled context must stop before the second attempt")
	assert.Equal(t, KindTimeout, KindOf(err))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestWithRetry_NormalizesBrokenOptions(t *testing.T) {
	calls := 0
	result, err := WithRetry(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "fine", nil
	}, RetryOptions{MaxAttempts: -1})

	require.NoError(t, err)
	assert.Equal(t, "fine", result)
	assert.Equal(t, 1, calls)
}

func TestDefaultRetryOptions(t *testing.T) {
	opts := DefaultRetryOptions()
	assert.Equal(t, 3, opts.MaxAttempts)
	assert.Equal(t, time.Second, opts.BaseDelay)
	assert.Equal(t, 10*time.Second, opts.MaxDelay)
	assert.Equal(t, float64(2), opts.BackoffMultiplier)
}
