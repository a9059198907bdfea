package generator

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"whatif-server/internal/apperrors"
	"whatif-server/internal/scenario"
	"whatif-server/internal/textutil"
)

// minResponseLength - порог, ниже которого к ответу добавляется
// контекстная приписка.
const minResponseLength = 100

// SeriousGenerator строит реалистичную аналитическую трактовку сценария.
type SeriousGenerator struct {
	ai     AIClient
	retry  apperrors.RetryOptions
	logger *zap.Logger
}

// NewSeriousGenerator создает генератор серьезной версии.
func NewSeriousGenerator(ai AIClient, retry apperrors.RetryOptions, logger *zap.Logger) *SeriousGenerator {
	return &SeriousGenerator{
		ai:     ai,
		retry:  retry,
		logger: logger.Named("SeriousGenerator"),
	}
}

// Generate возвращает серьезную трактовку сценария.
// Ошибки генерации не просачиваются наружу: после исчерпания повторов
// подставляется шаблонный запасной текст. Единственная возвращаемая
// ошибка - TIMEOUT при истечении контекста: бюджет стадии исчерпан,
// и подменять результат запасным текстом уже нельзя.
func (g *SeriousGenerator) Generate(ctx context.Context, s scenario.ProcessedScenario) (string, error) {
	prompt := buildSeriousPrompt(s)

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
			return "", apperrors.Wrap(apperrors.KindTimeout, "serious generation timed out", ctx.Err(), false)
		}
		g.logger.Warn("Falling back to templated serious content",
			zap.String("scenarioType", string(s.ScenarioType)),
			zap.Error(err),
		)
		return apperrors.CreateFallbackContent(apperrors.FallbackSerious, s.OriginalText, err.Error()), nil
	}

	return formatSeriousResponse(strings.TrimSpace(response), s), nil
}

// formatSeriousResponse приводит ответ к ожидаемой структуре:
// заголовок, минимальная длина, нормализация переводов строки,
// выделение переходных слов.
func formatSeriousResponse(text string, s scenario.ProcessedScenario) string {
	lowered := strings.ToLower(text)
	if !strings.Contains(lowered, "analysis") && !strings.Contains(lowered, "outcome") {
		text = "## Serious Analysis\n\n" + text
	}

	if len(text) < minResponseLength {
		text += "\n\n" + seriousContextNote(s)
	}

	text = textutil.NormalizeNewlines(text)
	return textutil.BoldTransitions(text)
}

// seriousContextNote - детерминированная приписка, выбираемая по
// типу сценария и сложности.
func seriousContextNote(s scenario.ProcessedScenario) string {
	typeNotes := map[scenario.Type]string{
		scenario.TypePersonal:     "Note that personal outcomes depend heavily on individual circumstances not captured here.",
		scenario.TypeProfessional: "Note that organizational outcomes vary widely with company size, industry and market conditions.",
		scenario.TypeHistorical:   "Note that counterfactual history compounds uncertainty with every step away from the recorded timeline.",
		scenario.TypeHypothetical: "Note that hypothetical outcomes rest on assumptions that reality may not honor.",
	}
	complexityNotes := map[scenario.Complexity]string{
		scenario.ComplexitySimple:   "This brief analysis covers the most direct consequences only.",
		scenario.ComplexityModerate: "Secondary effects beyond those outlined would require deeper modeling.",
		scenario.ComplexityComplex:  "A scenario of this complexity would warrant a full multi-domain study.",
	}
	return fmt.Sprintf("%s %s", typeNotes[s.ScenarioType], complexityNotes[s.Complexity])
}
