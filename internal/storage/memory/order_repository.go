package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/cleanbot/internal/domain"
)

// orderRepositoryInMemory — простая in-memory реализация OrderRepository.
// Идентификаторы выдаются монотонным счётчиком, как autoincrement в базе.
type orderRepositoryInMemory struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]domain.Order
	users  domain.UserRepository
}

// NewOrderRepository возвращает in-memory репозиторий для локальной разработки и тестов.
// users нужен для eager-загрузки авторов в GetAllWithAuthors/GetPending; допускается nil.
func NewOrderRepository(users domain.UserRepository) domain.OrderRepository {
	return &orderRepositoryInMemory{
		nextID: 1,
		items:  make(map[int64]domain.Order),
		users:  users,
	}
}

// Create сохраняет новую заявку и возвращает присвоенный идентификатор.
func (r *orderRepositoryInMemory) Create(authorID, address string, scheduledAt time.Time, status domain.OrderStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order := domain.Order{
		ID:          r.nextID,
		AuthorID:    authorID,
		Address:     address,
		ScheduledAt: scheduledAt,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
	}
	r.items[order.ID] = order
	r.nextID++

	return order.ID, nil
}

// GetOne возвращает заявку или ErrOrderNotFound, если её нет.
func (r *orderRepositoryInMemory) GetOne(id int64) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

// GetAll возвращает все заявки по возрастанию id.
func (r *orderRepositoryInMemory) GetAll() ([]domain.Order, error) {
	return r.list(func(domain.Order) bool { return true }, false)
}

// GetAllWithAuthors — как GetAll, но с заполненным Author.
func (r *orderRepositoryInMemory) GetAllWithAuthors() ([]domain.Order, error) {
	return r.list(func(domain.Order) bool { return true }, true)
}

// GetPending возвращает заявки в статусе pending с авторами.
func (r *orderRepositoryInMemory) GetPending() ([]domain.Order, error) {
	return r.list(func(o domain.Order) bool {
		return o.Status == domain.OrderStatusPending
	}, true)
}

// GetByAuthor возвращает заявки клиента по возрастанию id.
func (r *orderRepositoryInMemory) GetByAuthor(authorID string) ([]domain.Order, error) {
	return r.list(func(o domain.Order) bool {
		return o.AuthorID == authorID
	}, false)
}

// UpdateStatus перезаписывает статус и возвращает обновлённую запись.
func (r *orderRepositoryInMemory) UpdateStatus(id int64, status domain.OrderStatus) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	order.Status = status
	r.items[id] = order

	return order, nil
}

func (r *orderRepositoryInMemory) list(keep func(domain.Order) bool, withAuthor bool) ([]domain.Order, error) {
	r.mu.RLock()
	result := make([]domain.Order, 0, len(r.items))
	for _, order := range r.items {
		if keep(order) {
			result = append(result, order)
		}
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	if withAuthor && r.users != nil {
		for i := range result {
			user, err := r.users.GetOne(result[i].AuthorID)
			if err != nil {
				continue
			}
			result[i].Author = &user
		}
	}

	return result, nil
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
