package scenario

import (
	"strings"
	"unicode"

	"whatif-server/internal/apperrors"
)

// Type - категория сценария.
type Type string

const (
	TypePersonal     Type = "personal"
	TypeProfessional Type = "professional"
	TypeHistorical   Type = "historical"
	TypeHypothetical Type = "hypothetical"
)

// Complexity - оценка сложности сценария.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// KeyElements - извлеченные из текста действующие лица, действия и контекст.
type KeyElements struct {
	Actors  []string `json:"actors"`
	Actions []string `json:"actions"`
	Context string   `json:"context"`
}

// ProcessedScenario - результат разбора сценария. Неизменяем после
// создания; передается генераторам и форматтеру по значению.
// ScenarioType и Complexity всегда заполнены.
type ProcessedScenario struct {
	OriginalText string     `json:"originalText"`
	ScenarioType Type       `json:"scenarioType"`
	KeyElements  KeyElements `json:"keyElements"`
	Complexity   Complexity `json:"complexity"`
}

const maxKeyElements = 5

// Process разбирает очищенный текст сценария: классифицирует,
// извлекает ключевые элементы и оценивает сложность.
// На пустой вход возвращает типизированную ошибку INPUT_VALIDATION
// (вызывающий обязан был провалидировать, но перепроверяем).
// Любой внутренний сбой извлечения не выходит наружу: вместо него
// подставляется безопасный запасной сценарий.
func Process(sanitizedText string) (result ProcessedScenario, err error) {
	if strings.TrimSpace(sanitizedText) == "" {
		return ProcessedScenario{}, apperrors.New(
			apperrors.KindInputValidation,
			"cannot process an empty scenario",
			false,
		)
	}

	result = fallbackScenario(sanitizedText)

	// Извлечение построено на фиксированных регулярках и не должно
	// паниковать, но контракт процессора - никогда не ронять вызывающего:
	// при панике наружу уходит запасной сценарий.
	defer func() {
		_ = recover()
	}()

	lowered := strings.ToLower(sanitizedText)

	scenarioType := identifyScenarioType(lowered)
	actors := extractActors(sanitizedText, lowered)
	actions := extractActions(lowered)
	context := buildContext(sanitizedText)
	complexity := assessComplexity(lowered, len(actors), len(actions))

	result = ProcessedScenario{
		OriginalText: sanitizedText,
		ScenarioType: scenarioType,
		KeyElements: KeyElements{
			Actors:  actors,
			Actions: actions,
			Context: context,
		},
		Complexity: complexity,
	}
	return result, nil
}

// fallbackScenario - безопасный сценарий, подставляемый при сбое разбора.
func fallbackScenario(text string) ProcessedScenario {
	return ProcessedScenario{
		OriginalText: text,
		ScenarioType: TypeHypothetical,
		KeyElements: KeyElements{
			Actors:  []string{"people"},
			Actions: []string{"change"},
			Context: text,
		},
		Complexity: ComplexitySimple,
	}
}

// identifyScenarioType классифицирует сценарий.
// Приоритет фиксирован: историческая специфика бьет личные местоимения,
// личные - рабочие, по умолчанию - hypothetical.
func identifyScenarioType(lowered string) Type {
	for _, keyword := range historicalKeywords {
		if strings.Contains(lowered, keyword) {
			return TypeHistorical
		}
	}
	if firstPersonPattern.MatchString(lowered) {
		return TypePersonal
	}
	for _, keyword := range personalKeywords {
		if strings.Contains(lowered, keyword) {
			return TypePersonal
		}
	}
	for _, keyword := range professionalKeywords {
		if strings.Contains(lowered, keyword) {
			return TypeProfessional
		}
	}
	return TypeHypothetical
}

// extractActors собирает действующих лиц в порядке сканирования категорий.
func extractActors(original, lowered string) []string {
	actors := make([]string, 0, maxKeyElements)
	seen := make(map[string]bool)

	if firstPersonPattern.MatchString(lowered) {
		actors = append(actors, "I")
		seen["i"] = true
	}

	for _, pattern := range actorPatterns {
		for _, match := range pattern.FindAllString(lowered, -1) {
			if !seen[match] {
				seen[match] = true
				actors = append(actors, match)
			}
		}
	}

	if len(actors) == 0 {
		return []string{"people"}
	}
	if len(actors) > maxKeyElements {
		actors = actors[:maxKeyElements]
	}
	return actors
}

// extractActions собирает действия. Список может быть пустым.
func extractActions(lowered string) []string {
	actions := make([]string, 0, maxKeyElements)
	seen := make(map[string]bool)

	for _, pattern := range actionPatterns {
		for _, match := range pattern.FindAllString(lowered, -1) {
			if !seen[match] {
				seen[match] = true
				actions = append(actions, match)
			}
		}
	}

	if len(actions) > maxKeyElements {
		actions = actions[:maxKeyElements]
	}
	return actions
}

// buildContext нормализует текст сценария в вопросительную форму:
// срезает ведущее "what if ", поднимает первую букву, добавляет "?".
func buildContext(text string) string {
	stripped := text
	if len(text) >= 8 && strings.EqualFold(text[:8], "what if ") {
		stripped = text[8:]
	}
	stripped = strings.TrimSpace(stripped)
	if stripped == "" {
		return text
	}

	runes := []rune(stripped)
	runes[0] = unicode.ToUpper(runes[0])
	result := string(runes)

	if !strings.HasSuffix(result, ".") && !strings.HasSuffix(result, "!") && !strings.HasSuffix(result, "?") {
		result += "?"
	}
	return result
}

// assessComplexity накапливает целочисленный счет и переводит его в тир.
//
// Тиры complex- и moderate-слов взаимоисключающие: moderate-слова
// считаются только при нуле complex-совпадений, иначе одна тема
// набирала бы очки дважды.
func assessComplexity(lowered string, actorCount, actionCount int) Complexity {
	score := 0

	wordCount := len(strings.Fields(lowered))
	switch {
	case wordCount > 25:
		score += 3
	case wordCount > 15:
		score += 2
	case wordCount > 8:
		score++
	}

	switch {
	case actorCount > 3:
		score += 2
	case actorCount > 1:
		score++
	}

	switch {
	case actionCount > 3:
		score += 2
	case actionCount > 1:
		score++
	}

	complexHits := 0
	for _, keyword := range complexKeywords {
		if strings.Contains(lowered, keyword) {
			complexHits++
		}
	}
	if complexHits > 0 {
		score += 3 * complexHits
	} else {
		moderateHits := 0
		for _, keyword := range moderateKeywords {
			if strings.Contains(lowered, keyword) {
				moderateHits++
			}
		}
		score += 2 * moderateHits
	}

	connectors := make(map[string]bool)
	for _, match := range connectorPattern.FindAllString(lowered, -1) {
		connectors[match] = true
	}
	if len(connectors) > 2 {
		score += 2
	} else {
		score += len(connectors)
	}

	switch {
	case score >= 10:
		return ComplexityComplex
	case score >= 4:
		return ComplexityModerate
	default:
		return ComplexitySimple
	}
}
