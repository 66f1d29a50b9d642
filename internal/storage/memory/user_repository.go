package memory

import (
	"sync"
	"time"

	"github.com/vladislavdragonenkov/cleanbot/internal/domain"
)

type userRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.User
}

// NewUserRepository возвращает in-memory реализацию UserRepository.
func NewUserRepository() domain.UserRepository {
	return &userRepositoryInMemory{items: make(map[string]domain.User)}
}

// Upsert создаёт пользователя или обновляет username/phone_number существующего.
func (r *userRepositoryInMemory) Upsert(user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[user.ID]
	if !ok {
		user.CreatedAt = time.Now().UTC()
		r.items[user.ID] = user
		return nil
	}

	existing.Username = user.Username
	// Пустой телефон не затирает ранее сохранённый контакт.
	if user.PhoneNumber != "" {
		existing.PhoneNumber = user.PhoneNumber
	}
	r.items[user.ID] = existing
	return nil
}

// GetOne возвращает пользователя или ErrUserNotFound.
func (r *userRepositoryInMemory) GetOne(id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.items[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

// SetStaff выставляет флаг сотрудника.
func (r *userRepositoryInMemory) SetStaff(id string, staff bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.items[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.IsStaff = staff
	r.items[id] = user
	return nil
}

var _ domain.UserRepository = (*userRepositoryInMemory)(nil)
