package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/cleanbot/internal/domain"
)

type stubIdempotencyRepo struct {
	batches []int
	calls   int
	err     error
}

func (s *stubIdempotencyRepo) CreateProcessing(key, requestHash string, ttlAt time.Time) (domain.IdempotencyRecord, error) {
	return domain.IdempotencyRecord{}, nil
}

func (s *stubIdempotencyRepo) Get(key string) (domain.IdempotencyRecord, error) {
	return domain.IdempotencyRecord{}, domain.ErrIdempotencyKeyNotFound
}

func (s *stubIdempotencyRepo) MarkDone(key string, orderID int64) error { return nil }

func (s *stubIdempotencyRepo) MarkFailed(key string) error { return nil }

func (s *stubIdempotencyRepo) DeleteExpired(before time.Time, limit int) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	if s.calls >= len(s.batches) {
		return 0, nil
	}
	deleted := s.batches[s.calls]
	s.calls++
	return deleted, nil
}

func TestDeleteExpiredDrainsInBatches(t *testing.T) {
	t.Parallel()

	repo := &stubIdempotencyRepo{batches: []int{5, 5, 2}}
	worker := NewCleanupWorker(repo, WithBatchSize(5))

	deleted, err := worker.DeleteExpired(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if deleted != 12 {
		t.Fatalf("deleted = %d, ожидалось 12", deleted)
	}
	if repo.calls != 3 {
		t.Fatalf("calls = %d, ожидалось 3", repo.calls)
	}
}

func TestDeleteExpiredStopsOnError(t *testing.T) {
	t.Parallel()

	repo := &stubIdempotencyRepo{err: errors.New("db down")}
	worker := NewCleanupWorker(repo, WithBatchSize(5))

	if _, err := worker.DeleteExpired(context.Background(), time.Now()); err == nil {
		t.Fatal("ожидалась ошибка репозитория")
	}
}

func TestDeleteExpiredCanceledContext(t *testing.T) {
	t.Parallel()

	repo := &stubIdempotencyRepo{batches: []int{5}}
	worker := NewCleanupWorker(repo, WithBatchSize(5))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := worker.DeleteExpired(ctx, time.Now())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("ожидался context.Canceled, получено %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("репозиторий не должен вызываться после отмены, calls = %d", repo.calls)
	}
}
