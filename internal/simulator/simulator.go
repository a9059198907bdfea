// Package simulator содержит оркестратор пайплайна симуляции:
// валидация -> разбор структуры -> генерация двух версий ->
// форматирование -> презентация. Любой сбой стадии превращается
// в единообразный SimulationResult, исключения наружу не выходят.
package simulator

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"whatif-server/internal/apperrors"
	"whatif-server/internal/formatter"
	"whatif-server/internal/generator"
	"whatif-server/internal/scenario"
	"whatif-server/internal/validation"
)

// fixedStageTimeout - бюджет каждой из синхронных стадий
// (валидация, разбор, форматирование).
const fixedStageTimeout = 5 * time.Second

// ProcessingMetrics - тайминги стадий одного запроса в миллисекундах.
// Если стадия выполнялась, ее время не меньше 1мс (пол), чтобы тесты
// могли надежно проверять "> 0" и на быстрых машинах.
// Не выполнявшиеся стадии остаются нулевыми.
type ProcessingMetrics struct {
	TotalProcessingTime   int64  `json:"totalProcessingTime"`
	ValidationTime        int64  `json:"validationTime"`
	ProcessingTime        int64  `json:"processingTime"`
	SeriousGenerationTime int64  `json:"seriousGenerationTime"`
	FunGenerationTime     int64  `json:"funGenerationTime"`
	FormattingTime        int64  `json:"formattingTime"`
	Success               bool   `json:"success"`
	ErrorType             string `json:"errorType,omitempty"`
}

// SimulationResult - единственная единица, которую возвращает
// оркестратор. При Success=true значимы FormattedOutput и
// PresentationOutput, при Success=false - Error.
type SimulationResult struct {
	Success            bool                       `json:"success"`
	FormattedOutput    *formatter.FormattedOutput `json:"formattedOutput,omitempty"`
	PresentationOutput string                     `json:"presentationOutput,omitempty"`
	Metrics            *ProcessingMetrics         `json:"metrics,omitempty"`
	Error              string                     `json:"error,omitempty"`
}

// Simulator - оркестратор. Безопасен для конкурентного использования;
// единственное разделяемое состояние - конфигурация под мьютексом.
type Simulator struct {
	serious *generator.SeriousGenerator
	fun     *generator.FunGenerator
	logger  *zap.Logger

	mu  sync.RWMutex
	cfg Config
}

// New создает симулятор поверх внедренной AI-способности.
func New(ai generator.AIClient, retry apperrors.RetryOptions, cfg Config, logger *zap.Logger) *Simulator {
	if cfg.MaxProcessingTime <= 0 {
		cfg.MaxProcessingTime = DefaultConfig().MaxProcessingTime
	}
	return &Simulator{
		serious: generator.NewSeriousGenerator(ai, retry, logger),
		fun:     generator.NewFunGenerator(ai, retry, logger),
		logger:  logger.Named("Simulator"),
		cfg:     cfg,
	}
}

// GetConfig возвращает копию текущей конфигурации.
func (s *Simulator) GetConfig() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// UpdateConfig применяет частичное обновление и возвращает итоговую
// конфигурацию. Действует начиная со следующего вызова ProcessScenario.
func (s *Simulator) UpdateConfig(update ConfigUpdate) Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = s.cfg.merged(update)
	return s.cfg
}

// ProcessScenario прогоняет сырой пользовательский ввод через весь
// пайплайн. Конфигурация снимается один раз на входе.
func (s *Simulator) ProcessScenario(ctx context.Context, rawInput string) SimulationResult {
	cfg := s.GetConfig()
	metrics := &ProcessingMetrics{}
	started := time.Now()

	// --- Стадия 1: валидация ---
	stageStart := time.Now()
	var validated validation.ValidationResult
	if !runStage(fixedStageTimeout, func() {
		validated = validation.Validate(rawInput)
	}) {
		metrics.ValidationTime = flooredMs(time.Since(stageStart))
		return s.fail(cfg, metrics, started, apperrors.KindTimeout, "input validation timed out")
	}
	metrics.ValidationTime = flooredMs(time.Since(stageStart))

	if !validated.IsValid {
		return s.fail(cfg, metrics, started, apperrors.KindInputValidation, validated.ErrorMessage)
	}

	// --- Стадия 2: разбор структуры сценария ---
	stageStart = time.Now()
	var processed scenario.ProcessedScenario
	var processErr error
	if !runStage(fixedStageTimeout, func() {
		processed, processErr = scenario.Process(validated.SanitizedInput)
	}) {
		metrics.ProcessingTime = flooredMs(time.Since(stageStart))
		return s.fail(cfg, metrics, started, apperrors.KindTimeout, "scenario processing timed out")
	}
	metrics.ProcessingTime = flooredMs(time.Since(stageStart))

	if processErr != nil {
		return s.fail(cfg, metrics, started, apperrors.KindOf(processErr), processErr.Error())
	}

	if cfg.EnableLogging {
		s.logger.Info("Scenario processed",
			zap.String("scenarioType", string(processed.ScenarioType)),
			zap.String("complexity", string(processed.Complexity)),
			zap.Strings("actors", processed.KeyElements.Actors),
			zap.Strings("actions", processed.KeyElements.Actions),
		)
	}

	// --- Стадия 3: генерация двух версий ---
	seriousText, funText, genErr := s.generateOutcomes(ctx, cfg, processed, metrics)
	if genErr != nil {
		return s.fail(cfg, metrics, started, apperrors.KindOf(genErr), genErr.Error())
	}

	// --- Стадия 4: форматирование ---
	stageStart = time.Now()
	var output formatter.FormattedOutput
	var formatErr error
	if !runStage(fixedStageTimeout, func() {
		output, formatErr = formatter.FormatResults(seriousText, funText, processed, time.Since(started).Milliseconds())
	}) {
		metrics.FormattingTime = flooredMs(time.Since(stageStart))
		return s.fail(cfg, metrics, started, apperrors.KindTimeout, "output formatting timed out")
	}

	if formatErr != nil {
		// Форматтер отклоняет только сломанное промежуточное состояние.
		// Вместо провала всего запроса выдаем минимальную обертку над
		// сырым текстом: частичный результат полезнее отказа.
		if cfg.EnableLogging {
			s.logger.Warn("Formatter rejected generated content, using minimal wrapping", zap.Error(formatErr))
		}
		output = minimalOutput(seriousText, funText, processed, time.Since(started).Milliseconds())
	}

	// --- Стадия 5: презентация ---
	presentation := formatter.CreatePresentationOutput(output)
	metrics.FormattingTime = flooredMs(time.Since(stageStart))

	metrics.Success = true
	metrics.TotalProcessingTime = flooredMs(time.Since(started))
	if cfg.EnableMetrics {
		recordSimulation(true, "", time.Since(started))
	}
	if cfg.EnableLogging {
		s.logger.Info("Simulation completed",
			zap.String("scenarioType", string(processed.ScenarioType)),
			zap.Int64("totalMs", metrics.TotalProcessingTime),
		)
	}

	return SimulationResult{
		Success:            true,
		FormattedOutput:    &output,
		PresentationOutput: presentation,
		Metrics:            metrics,
	}
}

// generateOutcomes запускает оба генератора - параллельно или
// последовательно в зависимости от конфигурации. Каждый вызов получает
// бюджет MaxProcessingTime/2. Таймаут любого из генераторов проваливает
// стадию целиком; результат второго, даже готовый, отбрасывается.
func (s *Simulator) generateOutcomes(ctx context.Context, cfg Config, processed scenario.ProcessedScenario, metrics *ProcessingMetrics) (string, string, error) {
	budget := cfg.MaxProcessingTime / 2

	if !cfg.EnableParallelGeneration {
		stageStart := time.Now()
		seriousText, err := s.generateOne(ctx, budget, processed, true)
		metrics.SeriousGenerationTime = flooredMs(time.Since(stageStart))
		if err != nil {
			return "", "", err
		}

		stageStart = time.Now()
		funText, err := s.generateOne(ctx, budget, processed, false)
		metrics.FunGenerationTime = flooredMs(time.Since(stageStart))
		if err != nil {
			return "", "", err
		}
		return seriousText, funText, nil
	}

	// Fan-out/fan-in. Контекст с дедлайном отменяет проигравшего:
	// в отличие от исходной best-effort политики, здесь отмена
	// бесплатна и ничем не отличается для вызывающего.
	genCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	type genResult struct {
		text    string
		elapsed time.Duration
		err     error
	}

	seriousCh := make(chan genResult, 1)
	funCh := make(chan genResult, 1)

	go func() {
		start := time.Now()
		text, err := s.serious.Generate(genCtx, processed)
		seriousCh <- genResult{text: text, elapsed: time.Since(start), err: err}
	}()
	go func() {
		start := time.Now()
		text, err := s.fun.Generate(genCtx, processed)
		funCh <- genResult{text: text, elapsed: time.Since(start), err: err}
	}()

	// Страховочный таймер на случай генератора, игнорирующего контекст.
	backstop := time.NewTimer(budget + time.Second)
	defer backstop.Stop()

	var seriousText, funText string
	gotSerious, gotFun := false, false
	for !gotSerious || !gotFun {
		select {
		case r := <-seriousCh:
			metrics.SeriousGenerationTime = flooredMs(r.elapsed)
			if r.err != nil {
				return "", "", r.err
			}
			seriousText = r.text
			gotSerious = true
		case r := <-funCh:
			metrics.FunGenerationTime = flooredMs(r.elapsed)
			if r.err != nil {
				return "", "", r.err
			}
			funText = r.text
			gotFun = true
		case <-backstop.C:
			if !gotSerious {
				metrics.SeriousGenerationTime = flooredMs(budget)
			}
			if !gotFun {
				metrics.FunGenerationTime = flooredMs(budget)
			}
			return "", "", apperrors.New(apperrors.KindTimeout, "outcome generation timed out", false)
		}
	}

	return seriousText, funText, nil
}

// generateOne - один генераторный вызов с собственным таймаутом
// (последовательный режим).
func (s *Simulator) generateOne(ctx context.Context, budget time.Duration, processed scenario.ProcessedScenario, serious bool) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	if serious {
		return s.serious.Generate(genCtx, processed)
	}
	return s.fun.Generate(genCtx, processed)
}

// fail завершает запрос единообразным результатом ошибки.
func (s *Simulator) fail(cfg Config, metrics *ProcessingMetrics, started time.Time, kind apperrors.Kind, message string) SimulationResult {
	metrics.Success = false
	metrics.ErrorType = string(kind)
	metrics.TotalProcessingTime = flooredMs(time.Since(started))

	if cfg.EnableMetrics {
		recordSimulation(false, string(kind), time.Since(started))
	}
	if cfg.EnableLogging {
		s.logger.Warn("Simulation failed",
			zap.String("errorType", string(kind)),
			zap.String("error", message),
		)
	}

	return SimulationResult{
		Success: false,
		Error:   message,
		Metrics: metrics,
	}
}

// minimalOutput - обертка над сырым текстом на случай отказа форматтера.
func minimalOutput(seriousText, funText string, processed scenario.ProcessedScenario, processingTimeMs int64) formatter.FormattedOutput {
	if processingTimeMs < 0 {
		processingTimeMs = 0
	}
	return formatter.FormattedOutput{
		SeriousVersion: "The analysis could not be fully formatted. Raw content: " + seriousText,
		FunVersion:     "The story could not be fully formatted. Raw content: " + funText,
		Metadata: formatter.OutputMetadata{
			ProcessingTime: processingTimeMs,
			ScenarioType:   string(processed.ScenarioType),
		},
	}
}

// runStage выполняет синхронную стадию с таймаутом. Возвращает false,
// если стадия не уложилась в бюджет; горутина стадии при этом
// дорабатывает в фоне, ее результат отбрасывается.
func runStage(timeout time.Duration, fn func()) bool {
	done := make(chan struct{})
	go func() {
		fn()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// flooredMs переводит длительность в миллисекунды с полом в 1мс.
func flooredMs(d time.Duration) int64 {
	ms := d.Milliseconds()
	if ms < 1 {
		return 1
	}
	return ms
}
