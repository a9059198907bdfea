package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindNetwork, "network failure reaching AI provider", cause, true)

	assert.Contains(t, err.Error(), "NETWORK")
	assert.Contains(t, err.Error(), "connection refused")
	assert.True(t, errors.Is(err, cause), "Unwrap should expose the cause to errors.Is")

	bare := New(KindFormatting, "broken intermediate state", false)
	assert.Equal(t, "FORMATTING: broken intermediate state", bare.Error())
	assert.Nil(t, errors.Unwrap(bare))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindTimeout, KindOf(New(KindTimeout, "deadline hit", false)))
	// Категория извлекается и через обертку fmt.Errorf
	wrapped := fmt.Errorf("outer: %w", New(KindRateLimit, "slow down", true))
	assert.Equal(t, KindRateLimit, KindOf(wrapped))
	// Нетипизированная ошибка категории не имеет
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(New(KindNetwork, "flaky", true)))
	assert.False(t, IsRetryable(New(KindInputValidation, "bad input", false)))
	// Нетипизированные ошибки считаются повторяемыми
	assert.True(t, IsRetryable(errors.New("unknown failure")))
}

func TestClassifyAIError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantKind      Kind
		wantRetryable bool
	}{
		{"timeout", errors.New("request timeout exceeded"), KindTimeout, true},
		{"rate limit text", errors.New("rate limit reached for model"), KindRateLimit, true},
		{"rate limit code", errors.New("unexpected status code: 429"), KindRateLimit, true},
		{"network", errors.New("network is unreachable"), KindNetwork, true},
		{"connection", errors.New("connection reset by peer"), KindNetwork, true},
		{"invalid request", errors.New("invalid request payload"), KindAIGeneration, false},
		{"malformed", errors.New("malformed model output"), KindAIGeneration, false},
		{"unknown", errors.New("something odd happened"), KindAIGeneration, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := ClassifyAIError(tt.err)
			require.NotNil(t, classified)
			assert.Equal(t, tt.wantKind, classified.Kind)
			assert.Equal(t, tt.wantRetryable, classified.Retryable)
			assert.True(t, errors.Is(classified, tt.err), "original error must stay reachable")
		})
	}
}

func TestClassifyAIError_PassThrough(t *testing.T) {
	assert.Nil(t, ClassifyAIError(nil))

	// Уже типизированная ошибка возвращается как есть
	typed := New(KindTimeout, "typed", false)
	assert.Same(t, typed, ClassifyAIError(typed))
}
