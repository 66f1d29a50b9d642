package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/vladislavdragonenkov/cleanbot/internal/domain"
)

func TestWorker_ProcessOnce_MarkSent(t *testing.T) {
	t.Parallel()

	repo := &stubOutboxRepo{
		pending: []domain.OutboxMessage{
			{
				ID:            "msg-1",
				AggregateType: "order",
				AggregateID:   "1",
				EventType:     "notification.accepted",
				Payload:       []byte(`{"order_id":1,"tag":"accepted"}`),
			},
		},
	}
	sender := &stubSender{}

	worker := NewWorker(
		repo,
		sender,
		WithRetryBaseDelay(0),
		WithMaxAttempts(3),
	)

	worker.ProcessOnce(context.Background())

	if got := len(repo.sentIDs); got != 1 {
		t.Fatalf("expected 1 sent mark, got %d", got)
	}
	if repo.sentIDs[0] != "msg-1" {
		t.Fatalf("expected sent id msg-1, got %s", repo.sentIDs[0])
	}
	if got := len(repo.failedIDs); got != 0 {
		t.Fatalf("expected 0 failed marks, got %d", got)
	}
	if got := sender.calls(); got != 1 {
		t.Fatalf("expected 1 send call, got %d", got)
	}
}

func TestWorker_ProcessOnce_MarkFailedAndDLQAfterRetries(t *testing.T) {
	t.Parallel()

	repo := &stubOutboxRepo{
		pending: []domain.OutboxMessage{
			{
				ID:            "msg-2",
				AggregateType: "order",
				AggregateID:   "2",
				EventType:     "notification.rejected",
				Payload:       []byte(`{"order_id":2,"tag":"rejected"}`),
			},
		},
	}
	sender := &stubSender{err: errors.New("send failed")}
	dlqPublisher := &stubSender{}

	worker := NewWorker(
		repo,
		sender,
		WithDLQPublisher(dlqPublisher),
		WithRetryBaseDelay(0),
		WithMaxAttempts(3),
	)

	worker.ProcessOnce(context.Background())

	if got := sender.calls(); got != 3 {
		t.Fatalf("expected 3 send attempts, got %d", got)
	}
	if got := len(repo.sentIDs); got != 0 {
		t.Fatalf("expected 0 sent marks, got %d", got)
	}
	if got := len(repo.failedIDs); got != 1 {
		t.Fatalf("expected 1 failed mark, got %d", got)
	}
	if repo.failedIDs[0] != "msg-2" {
		t.Fatalf("expected failed id msg-2, got %s", repo.failedIDs[0])
	}
	if got := dlqPublisher.calls(); got != 1 {
		t.Fatalf("expected 1 DLQ publish, got %d", got)
	}
}

func TestWorker_ProcessOnce_SuccessAfterRetry(t *testing.T) {
	t.Parallel()

	repo := &stubOutboxRepo{
		pending: []domain.OutboxMessage{
			{
				ID:            "msg-3",
				AggregateType: "order",
				AggregateID:   "3",
				EventType:     "notification.completed",
				Payload:       []byte(`{"order_id":3,"tag":"completed"}`),
			},
		},
	}
	sender := &stubSender{
		sequenceErrors: []error{
			errors.New("attempt 1"),
			errors.New("attempt 2"),
			nil,
		},
	}

	worker := NewWorker(
		repo,
		sender,
		WithRetryBaseDelay(0),
		WithMaxAttempts(3),
	)

	worker.ProcessOnce(context.Background())

	if got := sender.calls(); got != 3 {
		t.Fatalf("expected 3 send attempts, got %d", got)
	}
	if got := len(repo.sentIDs); got != 1 {
		t.Fatalf("expected 1 sent mark, got %d", got)
	}
	if got := len(repo.failedIDs); got != 0 {
		t.Fatalf("expected 0 failed marks, got %d", got)
	}
}

func TestWorker_ProcessOnce_CanceledContext(t *testing.T) {
	t.Parallel()

	repo := &stubOutboxRepo{
		pending: []domain.OutboxMessage{
			{ID: "msg-4", AggregateType: "order", AggregateID: "4", EventType: "notification.accepted"},
		},
	}
	sender := &stubSender{}

	worker := NewWorker(repo, sender)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	worker.ProcessOnce(ctx)

	if got := sender.calls(); got != 0 {
		t.Fatalf("expected 0 send calls on canceled context, got %d", got)
	}
}

type stubOutboxRepo struct {
	pending   []domain.OutboxMessage
	sentIDs   []string
	failedIDs []string
}

func (s *stubOutboxRepo) Enqueue(msg domain.OutboxMessage) (domain.OutboxMessage, error) {
	return msg, nil
}

func (s *stubOutboxRepo) PullPending(limit int) ([]domain.OutboxMessage, error) {
	if limit <= 0 || limit >= len(s.pending) {
		return append([]domain.OutboxMessage(nil), s.pending...), nil
	}
	return append([]domain.OutboxMessage(nil), s.pending[:limit]...), nil
}

func (s *stubOutboxRepo) Stats() (domain.OutboxStats, error) {
	return domain.OutboxStats{PendingCount: len(s.pending)}, nil
}

func (s *stubOutboxRepo) MarkSent(id string) error {
	s.sentIDs = append(s.sentIDs, id)
	return nil
}

func (s *stubOutboxRepo) MarkFailed(id string) error {
	s.failedIDs = append(s.failedIDs, id)
	return nil
}

type stubSender struct {
	mu             sync.Mutex
	callCount      int
	err            error
	sequenceErrors []error
}

func (s *stubSender) Publish(msg domain.OutboxMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.callCount
	s.callCount++

	if len(s.sequenceErrors) > 0 {
		if idx < len(s.sequenceErrors) {
			return s.sequenceErrors[idx]
		}
		return nil
	}
	return s.err
}

func (s *stubSender) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.callCount
}
