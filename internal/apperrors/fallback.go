package apperrors

import (
	"fmt"
	"regexp"
	"strings"
)

// FallbackKind определяет, для какого генератора строится запасной текст.
type FallbackKind string

const (
	FallbackSerious FallbackKind = "serious"
	FallbackFun     FallbackKind = "fun"
)

// genericErrorPattern отсекает ответы, которые начинаются с шаблонного
// отказа модели вместо содержательного текста.
var genericErrorPattern = regexp.MustCompile(`(?i)^(error|failed|unable|sorry|i cannot|i can't)`)

// CreateFallbackContent возвращает детерминированный шаблонный текст,
// подставляемый вместо ответа AI после исчерпания попыток.
// Текст всегда длиннее 100 символов и содержит маркер
// ("Analysis Framework" / "Creative Prompt"), по которому вызывающий
// код и тесты отличают запасной контент от настоящего.
func CreateFallbackContent(kind FallbackKind, scenarioText string, reason string) string {
	if reason == "" {
		reason = "the AI service was unavailable"
	}

	if kind == FallbackFun {
		return fmt.Sprintf(`## Creative Prompt

Our storyteller is taking an unscheduled nap (%s), so here is a do-it-yourself adventure kit instead.

Picture this: "%s" — and suddenly everything goes delightfully sideways. The pigeons form a committee. Somebody's toaster starts giving motivational speeches.

Creative Prompt for you: imagine the three silliest chain reactions this could set off, then pick the one that would make the worst possible headline. That one is canon now.`,
			reason, scenarioText)
	}

	return fmt.Sprintf(`## Analysis Framework

The automated analysis could not be completed (%s). Below is a structured framework for reasoning about this scenario yourself.

Scenario under consideration: "%s"

1. Identify the actors who would be affected first and what constraints they operate under.
2. Trace the immediate, practical consequences before speculating about long-term effects.
3. Consider which existing systems (legal, economic, social) would resist or absorb the change.
4. Estimate how likely each consequence is, and what evidence would change that estimate.`,
		reason, scenarioText)
}

// ValidateContent проверяет, что текст пригоден как результат генерации:
// непустой после обрезки, не короче minLength и не начинается с
// шаблонного отказа.
func ValidateContent(text string, minLength int) bool {
	if minLength <= 0 {
		minLength = 50
	}
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minLength {
		return false
	}
	return !genericErrorPattern.MatchString(trimmed)
}
