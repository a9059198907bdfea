// Package textutil содержит детерминированные правила оформления
// сгенерированного текста. Генераторы и форматтер применяют одни и те же
// правила; все функции идемпотентны - повторное применение не меняет текст.
package textutil

import (
	"regexp"
	"strings"
)

var (
	excessiveNewlines = regexp.MustCompile(`\n{3,}`)
	excessiveSpaces   = regexp.MustCompile(` {2,}`)
	bulletMarkers     = regexp.MustCompile(`(?m)^[-*]\s+`)

	// Переходные слова серьезной версии. Альтернатива с уже
	// выделенным словом стоит первой, чтобы не оборачивать его повторно.
	transitionWords = regexp.MustCompile(`\*\*(?:Therefore|However|Additionally|Furthermore|In conclusion)\*\*|\b(Therefore|However|Additionally|Furthermore|In conclusion)\b`)

	exclamationRuns = regexp.MustCompile(`!{1,3}( ✨)?`)
	numberedList    = regexp.MustCompile(`(?m)^\d+\.\s*`)
	funBulletList   = regexp.MustCompile(`(?m)^[-*•]\s+`)

	excitingAdjectives = regexp.MustCompile(`\*\*(?i:amazing|incredible|fantastic|hilarious|magical|spectacular|wild|absurd|ridiculous|epic)\*\*|(?i)\b(amazing|incredible|fantastic|hilarious|magical|spectacular|wild|absurd|ridiculous|epic)\b`)
)

// NormalizeNewlines схлопывает 3+ подряд идущих переводов строки до двух.
func NormalizeNewlines(text string) string {
	return excessiveNewlines.ReplaceAllString(text, "\n\n")
}

// CollapseSpaces схлопывает последовательности из 2+ пробелов в один.
func CollapseSpaces(text string) string {
	return excessiveSpaces.ReplaceAllString(text, " ")
}

// CanonicalBullets приводит маркеры списков "-" и "*" к каноническому "•".
func CanonicalBullets(text string) string {
	return bulletMarkers.ReplaceAllString(text, "• ")
}

// BoldTransitions выделяет жирным переходные слова серьезной версии.
// Уже выделенные вхождения не трогаются.
func BoldTransitions(text string) string {
	return transitionWords.ReplaceAllStringFunc(text, func(m string) string {
		if strings.HasPrefix(m, "**") {
			return m
		}
		return "**" + m + "**"
	})
}

// Sparkle добавляет маркер после серий из 1-3 восклицательных знаков.
func Sparkle(text string) string {
	return exclamationRuns.ReplaceAllStringFunc(text, func(m string) string {
		if strings.HasSuffix(m, " ✨") {
			return m
		}
		return m + " ✨"
	})
}

// FunBullets заменяет нумерацию списков на 🎯 и маркеры на 🌟.
func FunBullets(text string) string {
	text = numberedList.ReplaceAllString(text, "🎯 ")
	return funBulletList.ReplaceAllString(text, "🌟 ")
}

// BoldExciting выделяет жирным фиксированный список "восторженных"
// прилагательных (без учета регистра). Уже выделенные не трогаются.
func BoldExciting(text string) string {
	return excitingAdjectives.ReplaceAllStringFunc(text, func(m string) string {
		if strings.HasPrefix(m, "**") {
			return m
		}
		return "**" + m + "**"
	})
}
