package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"whatif-server/internal/apperrors"
	"whatif-server/internal/feedback"
	"whatif-server/internal/handler"
	"whatif-server/internal/mocks"
	"whatif-server/internal/simulator"
)

const validResponse = "The outcome analysis suggests productivity would initially dip while companies adjust their schedules, then recover as employee focus improves."

func setupRouter(t *testing.T, ai *mocks.MockAIClient) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	retry := apperrors.RetryOptions{
		MaxAttempts:       1,
		BaseDelay:         time.Millisecond,
		MaxDelay:          5 * time.Millisecond,
		BackoffMultiplier: 2,
	}
	cfg := simulator.Config{
		EnableLogging:            false,
		EnableMetrics:            false,
		MaxProcessingTime:        30 * time.Second,
		EnableParallelGeneration: true,
	}
	sim := simulator.New(ai, retry, cfg, zap.NewNop())

	h := handler.NewSimulationHandler(sim, nil, nil, feedback.NewMemoryRepository(), zap.NewNop())

	router := gin.New()
	h.RegisterRoutes(router)
	return router
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router := setupRouter(t, mocks.NewMockAIClient(t))
	w := doJSON(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSimulate_Success(t *testing.T) {
	ai := mocks.NewMockAIClient(t)
	ai.On("GenerateResponse", mock.Anything, mock.Anything).Return(validResponse, nil)

	router := setupRouter(t, ai)
	w := doJSON(router, http.MethodPost, "/api/simulate",
		handler.SimulateRequest{Scenario: "What if companies switched to a 4-day work week globally?"})

	require.Equal(t, http.StatusOK, w.Code)

	var result simulator.SimulationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	require.NotNil(t, result.FormattedOutput)
	assert.Equal(t, "professional", result.FormattedOutput.Metadata.ScenarioType)
	assert.Contains(t, result.PresentationOutput, "📊 Serious Outcome:")
}

func TestSimulate_InvalidScenarioIs400(t *testing.T) {
	// Отклоненный ввод - ошибка клиента: статус 400,
	// но тело содержит полный результат с success=false
	router := setupRouter(t, mocks.NewMockAIClient(t))
	w := doJSON(router, http.MethodPost, "/api/simulate", handler.SimulateRequest{Scenario: "short"})

	require.Equal(t, http.StatusBadRequest, w.Code)

	var result simulator.SimulationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "too short")
}

func TestSimulate_TimeoutIs500(t *testing.T) {
	// Сбой, не связанный с вводом (таймаут генерации), - ошибка сервера
	gin.SetMode(gin.TestMode)

	ai := mocks.NewMockAIClient(t)
	ai.On("GenerateResponse", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			<-ctx.Done()
		}).
		Return("", context.DeadlineExceeded)

	retry := apperrors.RetryOptions{MaxAttempts: 1, BaseDelay: time.Millisecond}
	cfg := simulator.Config{
		MaxProcessingTime:        100 * time.Millisecond,
		EnableParallelGeneration: true,
	}
	sim := simulator.New(ai, retry, cfg, zap.NewNop())

	h := handler.NewSimulationHandler(sim, nil, nil, feedback.NewMemoryRepository(), zap.NewNop())
	router := gin.New()
	h.RegisterRoutes(router)

	w := doJSON(router, http.MethodPost, "/api/simulate",
		handler.SimulateRequest{Scenario: "What if companies switched to a 4-day work week globally?"})

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var result simulator.SimulationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Equal(t, "TIMEOUT", result.Metrics.ErrorType)
}

func TestSimulate_MalformedBody(t *testing.T) {
	router := setupRouter(t, mocks.NewMockAIClient(t))

	req := httptest.NewRequest(http.MethodPost, "/api/simulate", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfig_GetAndPatch(t *testing.T) {
	router := setupRouter(t, mocks.NewMockAIClient(t))

	w := doJSON(router, http.MethodGet, "/api/config", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var cfg simulator.Config
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfg))
	assert.True(t, cfg.EnableParallelGeneration)

	parallel := false
	w = doJSON(router, http.MethodPatch, "/api/config", simulator.ConfigUpdate{EnableParallelGeneration: &parallel})
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfg))
	assert.False(t, cfg.EnableParallelGeneration)
	// Нетронутые поля сохраняются
	assert.Equal(t, 30*time.Second, cfg.MaxProcessingTime)
}

func TestFeedback_SubmitAndList(t *testing.T) {
	router := setupRouter(t, mocks.NewMockAIClient(t))

	w := doJSON(router, http.MethodPost, "/api/feedback", handler.FeedbackRequest{
		Scenario: "What if cats ran the city council",
		Rating:   5,
		Comment:  "loved the fun version",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var saved feedback.Feedback
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.Equal(t, 5, saved.Rating)
	assert.False(t, saved.CreatedAt.IsZero())

	w = doJSON(router, http.MethodGet, "/api/feedback?limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var items []feedback.Feedback
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, saved.ID, items[0].ID)
}

func TestFeedback_StorageFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)

	retry := apperrors.RetryOptions{MaxAttempts: 1, BaseDelay: time.Millisecond}
	sim := simulator.New(mocks.NewMockAIClient(t), retry, simulator.DefaultConfig(), zap.NewNop())

	repo := mocks.NewMockFeedbackRepository(t)
	repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("db is down")).Once()

	h := handler.NewSimulationHandler(sim, nil, nil, repo, zap.NewNop())
	router := gin.New()
	h.RegisterRoutes(router)

	w := doJSON(router, http.MethodPost, "/api/feedback", handler.FeedbackRequest{
		Scenario: "any scenario",
		Rating:   3,
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	repo.AssertExpectations(t)
}

func TestFeedback_InvalidRating(t *testing.T) {
	router := setupRouter(t, mocks.NewMockAIClient(t))

	w := doJSON(router, http.MethodPost, "/api/feedback", handler.FeedbackRequest{
		Scenario: "any scenario",
		Rating:   9,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFeedback_BadLimit(t *testing.T) {
	router := setupRouter(t, mocks.NewMockAIClient(t))
	w := doJSON(router, http.MethodGet, "/api/feedback?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
