// Package feedback хранит пользовательские оценки результатов симуляции.
package feedback

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrNotFound      = errors.New("feedback record not found")
)

// Feedback - одна пользовательская оценка.
type Feedback struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Scenario  string    `json:"scenario" db:"scenario"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Repository - хранилище фидбека.
type Repository interface {
	Save(ctx context.Context, fb *Feedback) error
	GetByID(ctx context.Context, id uuid.UUID) (*Feedback, error)
	ListRecent(ctx context.Context, limit int) ([]Feedback, error)
}

// Validate проверяет допустимость записи перед сохранением.
func (f *Feedback) Validate() error {
	if f.Rating < 1 || f.Rating > 5 {
		return ErrInvalidRating
	}
	return nil
}
