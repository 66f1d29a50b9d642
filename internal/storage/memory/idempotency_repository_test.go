package memory

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/cleanbot/internal/domain"
)

func TestIdempotencyCreateProcessing(t *testing.T) {
	repo := NewIdempotencyRepository()

	record, err := repo.CreateProcessing("key-1", "hash-1", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("CreateProcessing: %v", err)
	}
	if record.Status != domain.IdempotencyStatusProcessing {
		t.Fatalf("статус = %s, ожидался processing", record.Status)
	}
}

func TestIdempotencyDuplicateKey(t *testing.T) {
	repo := NewIdempotencyRepository()
	ttl := time.Now().Add(time.Hour)

	if _, err := repo.CreateProcessing("key-1", "hash-1", ttl); err != nil {
		t.Fatalf("CreateProcessing: %v", err)
	}

	existing, err := repo.CreateProcessing("key-1", "hash-1", ttl)
	if !errors.Is(err, domain.ErrIdempotencyKeyAlreadyExists) {
		t.Fatalf("ожидался ErrIdempotencyKeyAlreadyExists, получено %v", err)
	}
	if existing.Key != "key-1" {
		t.Fatalf("существующая запись не возвращена: %+v", existing)
	}

	if _, err := repo.CreateProcessing("key-1", "other-hash", ttl); !errors.Is(err, domain.ErrIdempotencyHashMismatch) {
		t.Fatalf("ожидался ErrIdempotencyHashMismatch, получено %v", err)
	}
}

func TestIdempotencyRetryAfterFailure(t *testing.T) {
	repo := NewIdempotencyRepository()
	ttl := time.Now().Add(time.Hour)

	if _, err := repo.CreateProcessing("key-1", "hash-1", ttl); err != nil {
		t.Fatalf("CreateProcessing: %v", err)
	}
	if err := repo.MarkFailed("key-1"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}

	// Неудачная попытка не должна блокировать повтор до истечения TTL.
	record, err := repo.CreateProcessing("key-1", "hash-1", ttl)
	if err != nil {
		t.Fatalf("повтор после failed должен перезанимать ключ: %v", err)
	}
	if record.Status != domain.IdempotencyStatusProcessing {
		t.Fatalf("статус = %s, ожидался processing", record.Status)
	}

	if err := repo.MarkDone("key-1", 7); err != nil {
		t.Fatalf("MarkDone: %v", err)
	}
	stored, err := repo.Get("key-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Status != domain.IdempotencyStatusDone || stored.OrderID != 7 {
		t.Fatalf("неожиданная запись после повтора: %+v", stored)
	}
}

func TestIdempotencyMarkDone(t *testing.T) {
	repo := NewIdempotencyRepository()

	if _, err := repo.CreateProcessing("key-1", "hash-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("CreateProcessing: %v", err)
	}
	if err := repo.MarkDone("key-1", 15); err != nil {
		t.Fatalf("MarkDone: %v", err)
	}

	record, err := repo.Get("key-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if record.Status != domain.IdempotencyStatusDone || record.OrderID != 15 {
		t.Fatalf("неожиданная запись: %+v", record)
	}
}

func TestIdempotencyDeleteExpired(t *testing.T) {
	repo := NewIdempotencyRepository()

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	repo.CreateProcessing("old-1", "h", past)
	repo.CreateProcessing("old-2", "h", past)
	repo.CreateProcessing("fresh", "h", future)

	removed, err := repo.DeleteExpired(time.Now(), 10)
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if removed != 2 {
		t.Fatalf("удалено %d записей, ожидались 2", removed)
	}

	if _, err := repo.Get("fresh"); err != nil {
		t.Fatalf("живая запись удалена: %v", err)
	}
	if _, err := repo.Get("old-1"); !errors.Is(err, domain.ErrIdempotencyKeyNotFound) {
		t.Fatalf("ожидался ErrIdempotencyKeyNotFound, получено %v", err)
	}
}

func TestIdempotencyValidation(t *testing.T) {
	repo := NewIdempotencyRepository()

	if _, err := repo.CreateProcessing("", "hash", time.Time{}); !errors.Is(err, domain.ErrIdempotencyKeyRequired) {
		t.Fatalf("ожидался ErrIdempotencyKeyRequired, получено %v", err)
	}
	if _, err := repo.CreateProcessing("key", "", time.Time{}); !errors.Is(err, domain.ErrIdempotencyRequestHashRequired) {
		t.Fatalf("ожидался ErrIdempotencyRequestHashRequired, получено %v", err)
	}
}
