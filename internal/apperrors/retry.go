package apperrors

import (
	"context"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// RetryOptions содержит настройки экспоненциального backoff.
type RetryOptions struct {
	MaxAttempts       int
	BaseDelay         time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
	Logger            *zap.Logger // опционально
}

// DefaultRetryOptions возвращает настройки по умолчанию: 3 попытки,
// базовая задержка 1s, потолок 10s, множитель 2.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxAttempts:       3,
		BaseDelay:         time.Second,
		MaxDelay:          10 * time.Second,
		BackoffMultiplier: 2,
	}
}

func (o RetryOptions) normalized() RetryOptions {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = time.Second
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = 10 * time.Second
	}
	if o.BackoffMultiplier <= 0 {
		o.BackoffMultiplier = 2
	}
	return o
}

// WithRetry выполняет операцию с повторами и экспоненциальным backoff.
// Ошибка, помеченная как неповторяемая, возвращается сразу.
// После исчерпания попыток последняя ошибка оборачивается в
// неповторяемую ошибку PROCESSING.
// Задержка: min(baseDelay * multiplier^(attempt-1), maxDelay) плюс
// равномерный джиттер в [0, 1000) мс.
func WithRetry(ctx context.Context, op func(ctx context.Context) (string, error), opts RetryOptions) (string, error) {
	opts = opts.normalized()

	var lastErr error
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return "", err
		}
		if attempt == opts.MaxAttempts {
			break
		}

		delay := float64(opts.BaseDelay) * math.Pow(opts.BackoffMultiplier, float64(attempt-1))
		if delay > float64(opts.MaxDelay) {
			delay = float64(opts.MaxDelay)
		}
		wait := time.Duration(delay) + time.Duration(rand.Int63n(int64(time.Second)))

		if opts.Logger != nil {
			opts.Logger.Warn("Operation failed, retrying",
				zap.Int("attempt", attempt),
				zap.Int("maxAttempts", opts.MaxAttempts),
				zap.Duration("wait", wait),
				zap.Error(err),
			)
		}

		select {
		case <-ctx.Done():
			return "", Wrap(KindTimeout, "retry aborted by context", ctx.Err(), false)
		case <-time.After(wait):
		}
	}

	return "", Wrap(KindProcessing, "operation failed after all retry attempts", lastErr, false)
}
