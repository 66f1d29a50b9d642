package kafka

import "time"

// EventType определяет тип события
type EventType string

const (
	// События жизненного цикла заявки
	EventTypeOrderCreated   EventType = "order.created"
	EventTypeOrderAccepted  EventType = "order.accepted"
	EventTypeOrderCompleted EventType = "order.completed"
	EventTypeOrderRejected  EventType = "order.rejected"
	EventTypeOrderReopened  EventType = "order.reopened"
	EventTypeOrderCanceled  EventType = "order.canceled"
)

// Topics для Kafka
const (
	TopicOrderEvents     = "cleanbot.order.events"
	TopicDeadLetterQueue = "cleanbot.dlq" // Dead Letter Queue для failed notifications
)

// Kafka headers для retry логики
const (
	HeaderRetryCount    = "x-retry-count"
	HeaderOriginalTopic = "x-original-topic"
	HeaderErrorMessage  = "x-error-message"
	HeaderFailedAt      = "x-failed-at"
)

// OrderEvent представляет событие заявки на уборку
type OrderEvent struct {
	EventType EventType              `json:"event_type"`
	OrderID   int64                  `json:"order_id"`
	AuthorID  string                 `json:"author_id"`
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewOrderEvent создает новое событие заявки
func NewOrderEvent(eventType EventType, orderID int64, authorID, status string, metadata map[string]interface{}) *OrderEvent {
	return &OrderEvent{
		EventType: eventType,
		OrderID:   orderID,
		AuthorID:  authorID,
		Status:    status,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}
}

// OrderEventTypeFor сопоставляет целевой статус заявки типу события.
// Второе значение false, если для статуса событие не публикуется.
func OrderEventTypeFor(status string, reopened bool) (EventType, bool) {
	if reopened {
		return EventTypeOrderReopened, true
	}
	switch status {
	case "accepted":
		return EventTypeOrderAccepted, true
	case "completed":
		return EventTypeOrderCompleted, true
	case "rejected":
		return EventTypeOrderRejected, true
	case "canceled":
		return EventTypeOrderCanceled, true
	default:
		return "", false
	}
}
