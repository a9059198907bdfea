package feedback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Compile-time check
var _ Repository = (*pgFeedbackRepository)(nil)

type pgFeedbackRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgFeedbackRepository создает репозиторий фидбека поверх PostgreSQL.
func NewPgFeedbackRepository(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &pgFeedbackRepository{
		pool:   pool,
		logger: logger.Named("PgFeedbackRepo"),
	}
}

// Save сохраняет запись фидбека. ID и CreatedAt проставляются при
// необходимости.
func (r *pgFeedbackRepository) Save(ctx context.Context, fb *Feedback) error {
	if err := fb.Validate(); err != nil {
		return err
	}
	if fb.ID == uuid.Nil {
		fb.ID = uuid.New()
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO feedback (id, scenario, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query, fb.ID, fb.Scenario, fb.Rating, fb.Comment, fb.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert feedback", zap.String("id", fb.ID.String()), zap.Error(err))
		return fmt.Errorf("failed to insert feedback: %w", err)
	}

	r.logger.Debug("Feedback saved", zap.String("id", fb.ID.String()), zap.Int("rating", fb.Rating))
	return nil
}

// GetByID возвращает запись по идентификатору.
func (r *pgFeedbackRepository) GetByID(ctx context.Context, id uuid.UUID) (*Feedback, error) {
	query := `
		SELECT id, scenario, rating, comment, created_at
		FROM feedback
		WHERE id = $1
	`
	var fb Feedback
	err := pgxscan.Get(ctx, r.pool, &fb, query, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get feedback", zap.String("id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	return &fb, nil
}

// ListRecent возвращает последние записи, новые первыми.
func (r *pgFeedbackRepository) ListRecent(ctx context.Context, limit int) ([]Feedback, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := `
		SELECT id, scenario, rating, comment, created_at
		FROM feedback
		ORDER BY created_at DESC
		LIMIT $1
	`
	var items []Feedback
	if err := pgxscan.Select(ctx, r.pool, &items, query, limit); err != nil {
		r.logger.Error("Failed to list feedback", zap.Error(err))
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return items, nil
}
