package generator

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"whatif-server/internal/apperrors"
	"whatif-server/internal/scenario"
	"whatif-server/internal/textutil"
)

// inappropriateWordPattern и замены для пост-фильтрации шуточной версии.
// Модель просят не выдавать такое, но полагаться на просьбу нельзя.
var (
	inappropriateWordPattern = regexp.MustCompile(`(?i)\b(hate|violence|discrimination|offensive|inappropriate|harmful|dangerous)\b`)

	sanitizedSynonyms = map[string]string{
		"hate":           "dislike",
		"violence":       "chaos",
		"discrimination": "unfairness",
		"offensive":      "silly",
		"inappropriate":  "unusual",
		"harmful":        "mischievous",
		"dangerous":      "adventurous",
	}
)

// FunGenerator строит юмористическую трактовку сценария.
type FunGenerator struct {
	ai     AIClient
	retry  apperrors.RetryOptions
	logger *zap.Logger
}

// NewFunGenerator создает генератор шуточной версии.
func NewFunGenerator(ai AIClient, retry apperrors.RetryOptions, logger *zap.Logger) *FunGenerator {
	return &FunGenerator{
		ai:     ai,
		retry:  retry,
		logger: logger.Named("FunGenerator"),
	}
}

// Generate возвращает шуточную трактовку сценария.
// Ошибки генерации не просачиваются наружу: после исчерпания повторов
// подставляется шаблонный запасной текст. Единственная возвращаемая
// ошибка - TIMEOUT при истечении контекста (см. SeriousGenerator.Generate).
func (g *FunGenerator) Generate(ctx context.Context, s scenario.ProcessedScenario) (string, error) {
	prompt := buildFunPrompt(s)

	response, err := apperrors.WithRetry(ctx, func(ctx context.Context) (string, error) {
		raw, err := g.ai.GenerateResponse(ctx, prompt)
		if err != nil {
			return "", apperrors.ClassifyAIError(err)
		}
		if !apperrors.ValidateContent(raw, 50) {
			return "", apperrors.New(apperrors.KindAIGeneration, "AI response failed content validation", true)
		}
		return raw, nil
	}, g.retry)

	if err != nil {
		if ctx.Err() != nil {
			return "", apperrors.Wrap(apperrors.KindTimeout, "fun generation timed out", ctx.Err(), false)
		}
		g.logger.Warn("Falling back to templated fun content",
			zap.String("scenarioType", string(s.ScenarioType)),
			zap.Error(err),
		)
		return apperrors.CreateFallbackContent(apperrors.FallbackFun, s.OriginalText, err.Error()), nil
	}

	filtered := FilterFunContent(strings.TrimSpace(response))
	return formatFunResponse(filtered, s), nil
}

// FilterFunContent заменяет слова из фиксированного списка на
// безобидные синонимы. Слова вне таблицы, пойманные паттерном,
// заменяются на "amusing".
func FilterFunContent(text string) string {
	return inappropriateWordPattern.ReplaceAllStringFunc(text, func(m string) string {
		if synonym, ok := sanitizedSynonyms[strings.ToLower(m)]; ok {
			return synonym
		}
		return "amusing"
	})
}

// formatFunResponse приводит ответ к ожидаемой структуре: заголовок,
// минимальная длина, нормализация переводов строки, эмодзи-оформление.
func formatFunResponse(text string, s scenario.ProcessedScenario) string {
	lowered := strings.ToLower(text)
	if !strings.Contains(lowered, "fun") && !strings.Contains(lowered, "creative") && !strings.Contains(lowered, "imagine") {
		text = "## Fun Interpretation\n\n" + text
	}

	if len(text) < minResponseLength {
		text += "\n\n" + funContextNote(s)
	}

	text = textutil.NormalizeNewlines(text)
	text = textutil.Sparkle(text)
	text = textutil.FunBullets(text)
	return textutil.BoldExciting(text)
}

// funContextNote - детерминированная творческая приписка ("Plot Twist"),
// выбираемая по типу сценария и сложности.
func funContextNote(s scenario.ProcessedScenario) string {
	typeTwists := map[scenario.Type]string{
		scenario.TypePersonal:     "Plot Twist: your houseplants have been keeping a diary about all of this.",
		scenario.TypeProfessional: "Plot Twist: the office printer was secretly running the whole company all along.",
		scenario.TypeHistorical:   "Plot Twist: a confused time traveler keeps trying to correct everyone's costumes.",
		scenario.TypeHypothetical: "Plot Twist: somewhere, a parallel universe is writing a what-if about us.",
	}
	complexityTwists := map[scenario.Complexity]string{
		scenario.ComplexitySimple:   "Keep an eye on the pigeons. They know something.",
		scenario.ComplexityModerate: "The pigeons have formed a committee, and they have opinions.",
		scenario.ComplexityComplex:  "The pigeon committee has subcommittees now. It's a whole thing.",
	}
	return fmt.Sprintf("%s %s", typeTwists[s.ScenarioType], complexityTwists[s.Complexity])
}
