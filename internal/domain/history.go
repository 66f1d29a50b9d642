package domain

import "time"

// StatusChange описывает один переход статуса заявки.
type StatusChange struct {
	OrderID int64
	From    OrderStatus
	To      OrderStatus
	// ChangedBy — идентификатор инициатора перехода (клиент или сотрудник),
	// пустая строка для системных переходов.
	ChangedBy string
	Occurred  time.Time
}
