package domain

import "time"

// OrderRepository описывает требования к хранилищу заявок.
// Репозиторий не проверяет легальность переходов статусов — это зона
// ответственности сервисного слоя.
type OrderRepository interface {
	// Create сохраняет новую заявку и возвращает присвоенный базой идентификатор.
	// created_at назначается на стороне хранилища. При нарушении уникальности
	// возвращает ErrDuplicateOrder.
	Create(authorID, address string, scheduledAt time.Time, status OrderStatus) (int64, error)
	// GetOne возвращает заявку по идентификатору или ErrOrderNotFound.
	GetOne(id int64) (Order, error)
	// GetAll возвращает все заявки по возрастанию id.
	GetAll() ([]Order, error)
	// GetAllWithAuthors — как GetAll, но авторы загружаются одной выборкой
	// (без отдельного запроса на каждую заявку).
	GetAllWithAuthors() ([]Order, error)
	// GetPending возвращает заявки в статусе pending с авторами, по возрастанию id.
	GetPending() ([]Order, error)
	// GetByAuthor возвращает заявки клиента по возрастанию id.
	GetByAuthor(authorID string) ([]Order, error)
	// UpdateStatus перезаписывает статус и возвращает обновлённую запись
	// или ErrOrderNotFound, если заявки нет.
	UpdateStatus(id int64, status OrderStatus) (Order, error)
}

// UserRepository описывает хранилище пользователей бота.
type UserRepository interface {
	// Upsert создаёт пользователя или обновляет username/phone_number существующего.
	Upsert(user User) error
	// GetOne возвращает пользователя или ErrUserNotFound.
	GetOne(id string) (User, error)
	// SetStaff выставляет флаг сотрудника.
	SetStaff(id string, staff bool) error
}

// StatusHistoryRepository хранит историю переходов статусов заявки.
type StatusHistoryRepository interface {
	Append(change StatusChange) error
	List(orderID int64) ([]StatusChange, error)
}

// IdempotencyRepository хранит состояние обработки подтверждений по idempotency-key.
type IdempotencyRepository interface {
	CreateProcessing(key, requestHash string, ttlAt time.Time) (IdempotencyRecord, error)
	Get(key string) (IdempotencyRecord, error)
	MarkDone(key string, orderID int64) error
	MarkFailed(key string) error
	DeleteExpired(before time.Time, limit int) (int, error)
}
