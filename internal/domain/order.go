package domain

import "time"

// OrderStatus описывает жизненный цикл заявки на уборку.
type OrderStatus string

const (
	// OrderStatusPending — заявка создана и ждёт реакции администратора.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusAccepted — администратор принял заявку в работу.
	OrderStatusAccepted OrderStatus = "accepted"
	// OrderStatusCompleted — уборка выполнена.
	OrderStatusCompleted OrderStatus = "completed"
	// OrderStatusRejected — администратор отклонил заявку.
	OrderStatusRejected OrderStatus = "rejected"
	// OrderStatusCanceled — клиент отменил заявку до начала работ.
	OrderStatusCanceled OrderStatus = "canceled"
)

// Valid проверяет, что статус относится к закрытому перечислению.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusCompleted,
		OrderStatusRejected, OrderStatusCanceled:
		return true
	default:
		return false
	}
}

// ParseOrderStatus конвертирует строку в OrderStatus.
// Любое значение вне перечисления даёт ErrUnknownStatus.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	status := OrderStatus(raw)
	if !status.Valid() {
		return "", ErrUnknownStatus
	}
	return status, nil
}

// Order агрегирует одну заявку клиента на уборку.
type Order struct {
	ID       int64
	AuthorID string
	// Address — адрес уборки в свободной форме. Минимальную длину
	// контролирует презентационный слой, хранилище принимает любую
	// непустую строку.
	Address string
	// ScheduledAt — запрошенный слот уборки (колонка `time`).
	ScheduledAt time.Time
	Status      OrderStatus
	CreatedAt   time.Time

	// Author заполняется только выборками с eager-загрузкой автора.
	Author *User
}

// ValidateInvariants проверяет базовые инварианты заявки и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.AuthorID == "" {
		errs = append(errs, ErrAuthorRequired)
	}
	if o.Address == "" {
		errs = append(errs, ErrAddressRequired)
	}
	if o.ScheduledAt.IsZero() {
		errs = append(errs, ErrScheduledTimeRequired)
	}
	if !o.Status.Valid() {
		errs = append(errs, ErrUnknownStatus)
	}

	return errs
}
