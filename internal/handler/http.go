// Package handler содержит HTTP-адаптер поверх симулятора.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"whatif-server/internal/apperrors"
	"whatif-server/internal/cache"
	"whatif-server/internal/feedback"
	"whatif-server/internal/messaging"
	"whatif-server/internal/simulator"
	"whatif-server/internal/validation"
)

// APIError представляет стандартизированный ответ об ошибке.
type APIError struct {
	Message string `json:"message"`
}

// SimulateRequest - тело запроса POST /api/simulate.
type SimulateRequest struct {
	Scenario string `json:"scenario"`
}

// FeedbackRequest - тело запроса POST /api/feedback.
type FeedbackRequest struct {
	Scenario string `json:"scenario" binding:"required"`
	Rating   int    `json:"rating" binding:"required"`
	Comment  string `json:"comment"`
}

// SimulationHandler обрабатывает HTTP запросы сервиса симуляций.
// Кэш, паблишер событий и репозиторий фидбека опциональны: при nil
// соответствующая возможность просто отключена.
type SimulationHandler struct {
	sim          *simulator.Simulator
	resultCache  *cache.ResultCache
	publisher    messaging.EventPublisher
	feedbackRepo feedback.Repository
	logger       *zap.Logger
}

// NewSimulationHandler создает новый SimulationHandler.
func NewSimulationHandler(
	sim *simulator.Simulator,
	resultCache *cache.ResultCache,
	publisher messaging.EventPublisher,
	feedbackRepo feedback.Repository,
	logger *zap.Logger,
) *SimulationHandler {
	return &SimulationHandler{
		sim:          sim,
		resultCache:  resultCache,
		publisher:    publisher,
		feedbackRepo: feedbackRepo,
		logger:       logger.Named("SimulationHandler"),
	}
}

// RegisterRoutes регистрирует маршруты на роутере.
func (h *SimulationHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)

	api := router.Group("/api")
	{
		api.POST("/simulate", h.Simulate)
		api.GET("/config", h.GetConfig)
		api.PATCH("/config", h.UpdateConfig)
		api.POST("/feedback", h.SubmitFeedback)
		api.GET("/feedback", h.ListFeedback)
	}
}

// Health возвращает статус сервиса.
func (h *SimulationHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Simulate прогоняет сценарий через пайплайн симуляции.
// Тело ответа всегда содержит полный результат с success; статус
// отражает класс исхода: 200 при успехе, 400 при отклоненном вводе,
// 500 при остальных сбоях (таймаут, генерация).
func (h *SimulationHandler) Simulate(c *gin.Context) {
	var req SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "invalid request body: " + err.Error()})
		return
	}

	ctx := c.Request.Context()

	// Кэш ключуется очищенным текстом, чтобы косметические отличия
	// ввода попадали в одну запись.
	cacheKey := ""
	if h.resultCache != nil {
		cacheKey = cache.Key(validation.Sanitize(req.Scenario))
		if cached, err := h.resultCache.Get(ctx, cacheKey); err == nil {
			h.logger.Debug("Returning cached simulation result")
			c.JSON(http.StatusOK, cached)
			return
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			h.logger.Warn("Result cache read failed", zap.Error(err))
		}
	}

	result := h.sim.ProcessScenario(ctx, req.Scenario)

	if h.resultCache != nil && result.Success {
		if err := h.resultCache.Set(ctx, cacheKey, &result); err != nil {
			h.logger.Warn("Result cache write failed", zap.Error(err))
		}
	}

	h.publishEvent(c, &result)

	c.JSON(statusForResult(&result), result)
}

// statusForResult отображает исход симуляции на HTTP-статус.
func statusForResult(result *simulator.SimulationResult) int {
	if result.Success {
		return http.StatusOK
	}
	if result.Metrics != nil && result.Metrics.ErrorType == string(apperrors.KindInputValidation) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// publishEvent отправляет событие симуляции, если паблишер настроен.
// Ошибка публикации не влияет на ответ клиенту.
func (h *SimulationHandler) publishEvent(c *gin.Context, result *simulator.SimulationResult) {
	if h.publisher == nil {
		return
	}

	event := messaging.SimulationEvent{
		RequestID:  c.GetString("RequestID"),
		Success:    result.Success,
		OccurredAt: time.Now().UTC(),
	}
	if result.Metrics != nil {
		event.ProcessingTimeMs = result.Metrics.TotalProcessingTime
		event.ErrorKind = result.Metrics.ErrorType
	}
	if result.FormattedOutput != nil {
		event.ScenarioType = result.FormattedOutput.Metadata.ScenarioType
	}

	if err := h.publisher.PublishSimulationEvent(c.Request.Context(), event); err != nil {
		h.logger.Warn("Failed to publish simulation event", zap.Error(err))
	}
}

// GetConfig возвращает текущую конфигурацию симулятора.
func (h *SimulationHandler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.sim.GetConfig())
}

// UpdateConfig применяет частичное обновление конфигурации.
func (h *SimulationHandler) UpdateConfig(c *gin.Context) {
	var update simulator.ConfigUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "invalid request body: " + err.Error()})
		return
	}

	cfg := h.sim.UpdateConfig(update)
	h.logger.Info("Simulator config updated",
		zap.Bool("parallel", cfg.EnableParallelGeneration),
		zap.Duration("maxProcessingTime", cfg.MaxProcessingTime))
	c.JSON(http.StatusOK, cfg)
}

// SubmitFeedback сохраняет пользовательскую оценку симуляции.
func (h *SimulationHandler) SubmitFeedback(c *gin.Context) {
	if h.feedbackRepo == nil {
		c.JSON(http.StatusServiceUnavailable, APIError{Message: "feedback storage is not configured"})
		return
	}

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "invalid request body: " + err.Error()})
		return
	}

	fb := &feedback.Feedback{
		ID:        uuid.New(),
		Scenario:  req.Scenario,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now().UTC(),
	}
	if err := fb.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: err.Error()})
		return
	}

	if err := h.feedbackRepo.Save(c.Request.Context(), fb); err != nil {
		h.logger.Error("Failed to save feedback", zap.Error(err))
		c.JSON(http.StatusInternalServerError, APIError{Message: "failed to save feedback"})
		return
	}

	c.JSON(http.StatusCreated, fb)
}

// ListFeedback возвращает последние оценки. Параметр limit опционален.
func (h *SimulationHandler) ListFeedback(c *gin.Context) {
	if h.feedbackRepo == nil {
		c.JSON(http.StatusServiceUnavailable, APIError{Message: "feedback storage is not configured"})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			c.JSON(http.StatusBadRequest, APIError{Message: "limit must be an integer between 1 and 100"})
			return
		}
		limit = parsed
	}

	items, err := h.feedbackRepo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list feedback", zap.Error(err))
		c.JSON(http.StatusInternalServerError, APIError{Message: "failed to list feedback"})
		return
	}

	c.JSON(http.StatusOK, items)
}
