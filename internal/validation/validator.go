package validation

import (
	"regexp"
	"strings"
)

// ValidationResult - результат проверки пользовательского сценария.
// SanitizedInput заполняется даже при отклонении (для диагностики).
type ValidationResult struct {
	IsValid        bool   `json:"isValid"`
	SanitizedInput string `json:"sanitizedInput"`
	ErrorMessage   string `json:"errorMessage,omitempty"`
}

const (
	minScenarioLength = 10
	maxScenarioLength = 1000
)

var (
	tagMarkerPattern  = regexp.MustCompile(`[<>]`)
	whitespacePattern = regexp.MustCompile(`\s+`)

	// Темы, которые не анализируем ни в серьезном, ни в шуточном ключе.
	// Совпадение привязано к началу слова: "skills" и "grape" не должны
	// срабатывать на "kill" и "rape", а "killing" и "pornography" - должны.
	inappropriatePattern = regexp.MustCompile(`\b(kill|murder|suicide|torture|massacre|` +
		`rape|molest|porn|nude|explicit sex|` +
		`racial slur|genocide|ethnic cleansing|terrorist attack|` +
		`bomb making|nazi|lynch)`)

	// Вопросительные слова, с которых начинается обычный вопрос,
	// а не гипотетический сценарий. "what" намеренно отсутствует:
	// с него начинается каноническое "What if...".
	interrogativeStarters = []string{
		"who", "where", "when", "why", "how", "which", "whose", "whom",
	}

	// Короткие приветствия и подтверждения, не несущие сценария.
	greetingPhrases = []string{
		"hello", "hi there", "hey there", "good morning", "good evening",
		"thanks", "thank you", "ok then", "okay then", "yes please", "no thanks",
	}

	contentWordPattern = regexp.MustCompile(`\p{L}{3,}`)
)

// Validate проверяет и очищает сырой пользовательский ввод.
// Правила применяются по порядку, каждое отклонение дает свое сообщение.
func Validate(raw string) ValidationResult {
	if strings.TrimSpace(raw) == "" {
		return ValidationResult{
			IsValid:      false,
			ErrorMessage: "Please provide a scenario to explore.",
		}
	}

	sanitized := Sanitize(raw)

	// Лимиты считаем в символах, не в байтах: кириллический сценарий
	// занимает вдвое больше байт при той же длине для пользователя.
	runes := []rune(sanitized)

	if len(runes) < minScenarioLength {
		return ValidationResult{
			IsValid:        false,
			SanitizedInput: sanitized,
			ErrorMessage:   "Your scenario is too short. Please provide at least 10 characters.",
		}
	}

	if len(runes) > maxScenarioLength {
		// Усеченный текст все равно возвращаем - он полезен в логах
		// и в сообщении об ошибке на клиенте. Резать по рунам, иначе
		// на границе может остаться половина многобайтового символа.
		return ValidationResult{
			IsValid:        false,
			SanitizedInput: string(runes[:maxScenarioLength]),
			ErrorMessage:   "Your scenario is too long. Please keep it under 1000 characters.",
		}
	}

	lowered := strings.ToLower(sanitized)
	if inappropriatePattern.MatchString(lowered) {
		return ValidationResult{
			IsValid:        false,
			SanitizedInput: sanitized,
			ErrorMessage:   "Please rephrase your scenario to avoid inappropriate content.",
		}
	}

	if !isMeaningfulScenario(lowered) {
		return ValidationResult{
			IsValid:        false,
			SanitizedInput: sanitized,
			ErrorMessage:   "Please provide a more specific scenario that can be analyzed.",
		}
	}

	return ValidationResult{
		IsValid:        true,
		SanitizedInput: sanitized,
	}
}

// Sanitize нормализует сырой текст: убирает угловые скобки, схлопывает
// пробельные последовательности, снимает одну пару обрамляющих кавычек.
// Регистр исходного текста сохраняется.
func Sanitize(raw string) string {
	s := tagMarkerPattern.ReplaceAllString(raw, "")
	s = whitespacePattern.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = stripSurroundingQuotes(s)
	return strings.TrimSpace(s)
}

// stripSurroundingQuotes снимает одну пару прямых или фигурных кавычек.
func stripSurroundingQuotes(s string) string {
	runes := []rune(s)
	if len(runes) < 2 {
		return s
	}
	first, last := runes[0], runes[len(runes)-1]
	pairs := map[rune]rune{
		'"':  '"',
		'\'': '\'',
		'“':  '”',
		'‘':  '’',
	}
	if close, ok := pairs[first]; ok && last == close {
		return string(runes[1 : len(runes)-1])
	}
	return s
}

// isMeaningfulScenario отсекает обычные вопросы и приветствия,
// которые нельзя анализировать как гипотетический сценарий.
func isMeaningfulScenario(lowered string) bool {
	firstWord := lowered
	if idx := strings.IndexByte(lowered, ' '); idx > 0 {
		firstWord = lowered[:idx]
	}
	firstWord = strings.TrimRight(firstWord, "?!.,")
	for _, starter := range interrogativeStarters {
		if firstWord == starter {
			return false
		}
	}

	trimmed := strings.TrimRight(lowered, "?!. ")
	for _, phrase := range greetingPhrases {
		if trimmed == phrase {
			return false
		}
	}

	return contentWordPattern.MatchString(lowered)
}
