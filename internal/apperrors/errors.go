package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind определяет категорию ошибки внутри пайплайна симуляции.
type Kind string

const (
	KindInputValidation Kind = "INPUT_VALIDATION"
	KindAIGeneration    Kind = "AI_GENERATION"
	KindProcessing      Kind = "PROCESSING"
	KindFormatting      Kind = "FORMATTING"
	KindNetwork         Kind = "NETWORK"
	KindTimeout         Kind = "TIMEOUT"
	KindRateLimit       Kind = "RATE_LIMIT"
)

// AppError - типизированная ошибка пайплайна.
// Несет категорию, человекочитаемое сообщение, опциональную причину
// и флаг, можно ли повторить операцию.
type AppError struct {
	Kind      Kind
	Message   string
	Cause     error
	Retryable bool
}

// Error реализует интерфейс error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap возвращает обернутую причину для errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New создает новую AppError без причины.
func New(kind Kind, message string, retryable bool) *AppError {
	return &AppError{Kind: kind, Message: message, Retryable: retryable}
}

// Wrap оборачивает существующую ошибку в AppError.
func Wrap(kind Kind, message string, cause error, retryable bool) *AppError {
	return &AppError{Kind: kind, Message: message, Cause: cause, Retryable: retryable}
}

// KindOf извлекает категорию из ошибки. Для нетипизированных ошибок
// возвращает пустую строку.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsRetryable сообщает, имеет ли смысл повторять операцию.
// Нетипизированные ошибки считаем повторяемыми: источник неизвестен,
// и одна лишняя попытка дешевле потерянного результата.
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Retryable
	}
	return true
}

// ClassifyAIError классифицирует ошибку AI-провайдера по подстрокам
// в сообщении. Провайдеры (OpenRouter, Ollama) не дают стабильных кодов,
// поэтому ориентируемся на текст, как и при ручном разборе инцидентов.
func ClassifyAIError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"):
		return Wrap(KindTimeout, "AI request timed out", err, true)
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "429"):
		return Wrap(KindRateLimit, "AI provider rate limit hit", err, true)
	case strings.Contains(msg, "network") || strings.Contains(msg, "connection"):
		return Wrap(KindNetwork, "network failure reaching AI provider", err, true)
	case strings.Contains(msg, "invalid") || strings.Contains(msg, "malformed"):
		return Wrap(KindAIGeneration, "AI request rejected as invalid", err, false)
	default:
		return Wrap(KindAIGeneration, "AI generation failed", err, true)
	}
}
