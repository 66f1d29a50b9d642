package memory

import (
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/cleanbot/internal/domain"
)

func TestOutboxEnqueueAssignsID(t *testing.T) {
	repo := NewOutboxRepository()

	msg, err := repo.Enqueue(domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   "1",
		EventType:     "notification.accepted",
		Payload:       []byte(`{"order_id":1}`),
	})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if msg.ID == "" {
		t.Fatal("идентификатор не присвоен")
	}
}

func TestOutboxPullPendingOrderAndLimit(t *testing.T) {
	repo := NewOutboxRepository()

	first, _ := repo.Enqueue(domain.OutboxMessage{AggregateType: "order", AggregateID: "1", EventType: "a"})
	second, _ := repo.Enqueue(domain.OutboxMessage{AggregateType: "order", AggregateID: "2", EventType: "b"})
	repo.Enqueue(domain.OutboxMessage{AggregateType: "order", AggregateID: "3", EventType: "c"})

	batch, err := repo.PullPending(2)
	if err != nil {
		t.Fatalf("PullPending: %v", err)
	}
	if len(batch) != 2 {
		t.Fatalf("ожидались 2 сообщения, получено %d", len(batch))
	}
	if batch[0].ID != first.ID || batch[1].ID != second.ID {
		t.Fatalf("нарушен порядок постановки: %v", batch)
	}
}

func TestOutboxMarkSentRemovesFromPending(t *testing.T) {
	repo := NewOutboxRepository()

	msg, _ := repo.Enqueue(domain.OutboxMessage{AggregateType: "order", AggregateID: "1", EventType: "a"})
	if err := repo.MarkSent(msg.ID); err != nil {
		t.Fatalf("MarkSent: %v", err)
	}

	batch, err := repo.PullPending(10)
	if err != nil {
		t.Fatalf("PullPending: %v", err)
	}
	if len(batch) != 0 {
		t.Fatalf("отправленное сообщение осталось в pending: %v", batch)
	}

	stats, err := repo.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.PendingCount != 0 {
		t.Fatalf("PendingCount = %d, ожидался 0", stats.PendingCount)
	}
}

func TestOutboxMarkUnknownID(t *testing.T) {
	repo := NewOutboxRepository()

	if err := repo.MarkSent("missing"); !errors.Is(err, domain.ErrOutboxPublish) {
		t.Fatalf("ожидался ErrOutboxPublish, получено %v", err)
	}
}
