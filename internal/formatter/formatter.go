// Package formatter собирает итоговый результат симуляции из двух
// сгенерированных версий и метаданных сценария.
package formatter

import (
	"fmt"
	"strings"

	"whatif-server/internal/apperrors"
	"whatif-server/internal/scenario"
	"whatif-server/internal/textutil"
)

// OutputMetadata - метаданные, сопровождающие отформатированный результат.
type OutputMetadata struct {
	ProcessingTime int64  `json:"processingTime"` // миллисекунды, >= 0
	ScenarioType   string `json:"scenarioType"`
}

// FormattedOutput - структурированный результат форматирования.
// Обе версии гарантированно непустые.
type FormattedOutput struct {
	SeriousVersion string         `json:"seriousVersion"`
	FunVersion     string         `json:"funVersion"`
	Metadata       OutputMetadata `json:"metadata"`
}

const (
	seriousLabel    = "📊 Serious Outcome:"
	funLabel        = "🎉 Fun Outcome:"
	separatorLength = 50
)

var typeEmoji = map[scenario.Type]string{
	scenario.TypePersonal:     "🏠",
	scenario.TypeProfessional: "💼",
	scenario.TypeHistorical:   "📜",
	scenario.TypeHypothetical: "🔮",
}

// FormatResults объединяет обе версии с метаданными сценария.
// Возвращает неповторяемую ошибку FORMATTING, если какая-то из версий
// пуста или короче 10 значимых символов - до форматтера такое доходит
// только при сломанном промежуточном состоянии.
func FormatResults(serious, fun string, s scenario.ProcessedScenario, processingTimeMs int64) (FormattedOutput, error) {
	if len(strings.TrimSpace(serious)) < 10 {
		return FormattedOutput{}, apperrors.New(
			apperrors.KindFormatting,
			"serious version is empty or too short to format",
			false,
		)
	}
	if len(strings.TrimSpace(fun)) < 10 {
		return FormattedOutput{}, apperrors.New(
			apperrors.KindFormatting,
			"fun version is empty or too short to format",
			false,
		)
	}

	if processingTimeMs < 0 {
		processingTimeMs = 0
	}

	// Повторное применение правил оформления поверх уже оформленного
	// генераторами текста намеренно: правила идемпотентны, а форматтер
	// обязан выдавать одинаковую структуру и для текста, пришедшего
	// в обход генераторов (например, запасного контента).
	seriousClean := textutil.BoldTransitions(cleanText(serious))
	funClean := textutil.Sparkle(cleanText(fun))

	return FormattedOutput{
		SeriousVersion: seriousClean,
		FunVersion:     funClean,
		Metadata: OutputMetadata{
			ProcessingTime: processingTimeMs,
			ScenarioType:   string(s.ScenarioType),
		},
	}, nil
}

// cleanText - базовая чистка текста перед выдачей.
func cleanText(text string) string {
	text = textutil.NormalizeNewlines(text)
	text = textutil.CanonicalBullets(text)
	return textutil.CollapseSpaces(text)
}

// CreatePresentationOutput собирает единую человекочитаемую строку:
// заголовок с эмодзи типа и временем обработки, серьезная секция,
// разделитель из 50 символов, шуточная секция.
// При структурном сбое (пустые поля) возвращает фиксированную
// запасную презентацию вместо ошибки.
func CreatePresentationOutput(out FormattedOutput) string {
	if out.SeriousVersion == "" || out.FunVersion == "" {
		return fmt.Sprintf("⚠️ Error: simulation result was incomplete.\n\n%s\n%s\n\n%s\n%s",
			seriousLabel, out.SeriousVersion, funLabel, out.FunVersion)
	}

	emoji, ok := typeEmoji[scenario.Type(out.Metadata.ScenarioType)]
	if !ok {
		emoji = typeEmoji[scenario.TypeHypothetical]
	}

	scenarioTitle := capitalize(out.Metadata.ScenarioType)
	separator := strings.Repeat("─", separatorLength)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s Scenario (processed in %dms)\n\n", emoji, scenarioTitle, out.Metadata.ProcessingTime)
	fmt.Fprintf(&b, "%s\n%s\n\n", seriousLabel, out.SeriousVersion)
	b.WriteString(separator)
	fmt.Fprintf(&b, "\n\n%s\n%s\n", funLabel, out.FunVersion)
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return "Hypothetical"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
