package domain

import "time"

// OutboxPublisher доставляет сообщение из outbox получателю; должен быть идемпотентным.
type OutboxPublisher interface {
	Publish(msg OutboxMessage) error
}

// OutboxRepository позволяет сохранять события для последующей доставки.
type OutboxRepository interface {
	Enqueue(msg OutboxMessage) (OutboxMessage, error)
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}

// EventPublisher публикует доменные события в брокер (опциональная зависимость).
type EventPublisher interface {
	PublishEvent(topic, key string, event any) error
}

// OutboxMessage хранит данные для доставляемого сообщения.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}
