package feedback

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

var _ Repository = (*memoryRepository)(nil)

// memoryRepository - потокобезопасное хранилище в памяти.
// Используется когда PostgreSQL не сконфигурирован, и в тестах.
// Никаких гарантий сохранности между перезапусками.
type memoryRepository struct {
	mu    sync.RWMutex
	items []Feedback
}

// NewMemoryRepository создает in-memory репозиторий фидбека.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Save(_ context.Context, fb *Feedback) error {
	if err := fb.Validate(); err != nil {
		return err
	}
	if fb.ID == uuid.Nil {
		fb.ID = uuid.New()
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, *fb)
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.items {
		if r.items[i].ID == id {
			fb := r.items[i]
			return &fb, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryRepository) ListRecent(_ context.Context, limit int) ([]Feedback, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Feedback, 0, limit)
	for i := len(r.items) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, r.items[i])
	}
	return result, nil
}
