package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/cleanbot/internal/domain"
)

// historyRepositoryInMemory хранит переходы статусов в порядке добавления.
type historyRepositoryInMemory struct {
	mu      sync.RWMutex
	changes []domain.StatusChange
}

// NewStatusHistoryRepository возвращает in-memory реализацию StatusHistoryRepository.
func NewStatusHistoryRepository() domain.StatusHistoryRepository {
	return &historyRepositoryInMemory{}
}

func (r *historyRepositoryInMemory) Append(change domain.StatusChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.changes = append(r.changes, change)
	return nil
}

func (r *historyRepositoryInMemory) List(orderID int64) ([]domain.StatusChange, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.StatusChange, 0)
	for _, change := range r.changes {
		if change.OrderID == orderID {
			result = append(result, change)
		}
	}
	return result, nil
}

var _ domain.StatusHistoryRepository = (*historyRepositoryInMemory)(nil)
