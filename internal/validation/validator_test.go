package validation

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestValidate_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t "} {
		result := Validate(input)
		assert.False(t, result.IsValid)
		assert.Equal(t, "Please provide a scenario to explore.", result.ErrorMessage)
	}
}

func TestValidate_LengthBoundaries(t *testing.T) {
	// 9 символов - на один меньше минимума
	result := Validate("123456abc")
	assert.False(t, result.IsValid)
	assert.Contains(t, result.ErrorMessage, "too short")

	// Ровно 10 символов проходят
	result = Validate("ten chars!")
	assert.True(t, result.IsValid, "exactly 10 characters must pass")

	// Ровно 1000 символов проходят
	result = Validate(strings.Repeat("a", 1000))
	assert.True(t, result.IsValid, "exactly 1000 characters must pass")

	// 1001 символ отклоняется, но усеченный текст возвращается
	result = Validate(strings.Repeat("a", 1001))
	assert.False(t, result.IsValid)
	assert.Contains(t, result.ErrorMessage, "too long")
	assert.Len(t, result.SanitizedInput, 1000)
}

func TestValidate_LengthBoundariesMultibyte(t *testing.T) {
	// 600 кириллических символов (~1200 байт): лимит считается
	// в символах, а не в байтах
	result := Validate("Что если " + strings.Repeat("й", 591))
	assert.True(t, result.IsValid, "600 Cyrillic characters must pass the 1000-char limit")

	// Ровно 1000 символов кириллицей тоже проходят
	result = Validate("Что если " + strings.Repeat("й", 991))
	assert.True(t, result.IsValid)

	// При усечении режем по символам и не оставляем битый UTF-8
	result = Validate("Что если " + strings.Repeat("й", 1200))
	assert.False(t, result.IsValid)
	assert.Contains(t, result.ErrorMessage, "too long")
	assert.Equal(t, 1000, utf8.RuneCountInString(result.SanitizedInput))
	assert.True(t, utf8.ValidString(result.SanitizedInput))

	// 9 кириллических символов - слишком коротко
	result = Validate("Что есть?")
	assert.False(t, result.IsValid)
	assert.Contains(t, result.ErrorMessage, "too short")
}

func TestValidate_InappropriateContent(t *testing.T) {
	result := Validate("What if someone decided to kill all the dragons")
	assert.False(t, result.IsValid)
	assert.Equal(t, "Please rephrase your scenario to avoid inappropriate content.", result.ErrorMessage)

	// Словоформы с тем же началом тоже блокируются
	result = Validate("What if killing mosquitoes became a sport")
	assert.False(t, result.IsValid)
	assert.Equal(t, "Please rephrase your scenario to avoid inappropriate content.", result.ErrorMessage)
}

func TestValidate_InnocuousSubstringsAllowed(t *testing.T) {
	// "skills" содержит "kill", "grapes" содержит "rape":
	// фильтр привязан к началу слова и не должен срабатывать
	for _, input := range []string{
		"What if everyone learned new skills every year?",
		"What if grapes grew in the desert",
	} {
		result := Validate(input)
		assert.True(t, result.IsValid, "innocuous scenario must pass: %s", input)
	}
}

func TestValidate_RejectsPlainQuestions(t *testing.T) {
	// Обычный вопрос, а не гипотетический сценарий
	result := Validate("How does the economy actually work?")
	assert.False(t, result.IsValid)
	assert.Equal(t, "Please provide a more specific scenario that can be analyzed.", result.ErrorMessage)

	// "What if" при этом остается валидным: "what" намеренно не в списке
	result = Validate("What if the economy doubled overnight")
	assert.True(t, result.IsValid)
}

func TestValidate_RejectsGreetings(t *testing.T) {
	result := Validate("good morning")
	assert.False(t, result.IsValid)
	assert.Equal(t, "Please provide a more specific scenario that can be analyzed.", result.ErrorMessage)
}

func TestValidate_AcceptsCanonicalScenario(t *testing.T) {
	result := Validate("What if companies switched to a 4-day work week globally?")
	assert.True(t, result.IsValid)
	assert.Empty(t, result.ErrorMessage)
	assert.Equal(t, "What if companies switched to a 4-day work week globally?", result.SanitizedInput)
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"strips angle brackets", "What if <b>robots</b> took over", "What if brobots/b took over"},
		{"collapses whitespace", "What   if\n\teveryone   slept", "What if everyone slept"},
		{"trims and strips straight quotes", `  "What if it rained forever"  `, "What if it rained forever"},
		{"strips curly quotes", "“What if it rained forever”", "What if it rained forever"},
		{"keeps unmatched quote", `"What if it rained forever`, `"What if it rained forever`},
		{"preserves case", "What IF Cats Spoke French", "What IF Cats Spoke French"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	raw := `  "What   if <everyone>   moved to Mars"  `
	once := Sanitize(raw)
	assert.Equal(t, once, Sanitize(once))
}
