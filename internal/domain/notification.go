package domain

import "time"

// NotificationTag определяет, какой текст получит клиент при смене статуса.
type NotificationTag string

const (
	NotificationAccepted  NotificationTag = "accepted"
	NotificationCompleted NotificationTag = "completed"
	NotificationRejected  NotificationTag = "rejected"
	// NotificationReopen — заявка возвращена в работу из completed/rejected.
	NotificationReopen NotificationTag = "reopen"
)

// NotificationTagFor подбирает тег уведомления для перехода статусов.
// Второй результат false, если переход клиента не касается
// (самостоятельная отмена не дублируется уведомлением).
func NotificationTagFor(from, to OrderStatus) (NotificationTag, bool) {
	switch {
	case to == OrderStatusAccepted:
		return NotificationAccepted, true
	case to == OrderStatusCompleted:
		return NotificationCompleted, true
	case to == OrderStatusRejected:
		return NotificationRejected, true
	case IsReopen(from, to):
		return NotificationReopen, true
	default:
		return "", false
	}
}

// NotificationPayload — полезная нагрузка outbox-сообщения для уведомления клиента.
// Сериализуется в JSON при постановке в очередь и декодируется отправителем.
type NotificationPayload struct {
	OrderID     int64           `json:"order_id"`
	AuthorID    string          `json:"author_id"`
	Address     string          `json:"address"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	Status      OrderStatus     `json:"status"`
	Tag         NotificationTag `json:"tag"`
}
