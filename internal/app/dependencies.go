package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cleanbot/internal/domain"
	"github.com/vladislavdragonenkov/cleanbot/internal/storage/memory"
	"github.com/vladislavdragonenkov/cleanbot/internal/storage/postgres"
)

// Dependencies содержит хранилища приложения.
// Store равен nil, когда приложение работает на in-memory хранилище.
type Dependencies struct {
	Store   *postgres.Store
	Orders  domain.OrderRepository
	Users   domain.UserRepository
	Outbox  domain.OutboxRepository
	History domain.StatusHistoryRepository
	Idem    domain.IdempotencyRepository
	Logger  *log.Entry
}

// NewDependencies инициализирует хранилища: PostgreSQL при заданном DSN,
// иначе in-memory (для разработки и тестов).
func NewDependencies(ctx context.Context, dsn string, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	if dsn == "" {
		logger.Warn("CLEANBOT_POSTGRES_DSN не задан, используем in-memory хранилище")
		users := memory.NewUserRepository()
		return &Dependencies{
			Orders:  memory.NewOrderRepository(users),
			Users:   users,
			Outbox:  memory.NewOutboxRepository(),
			History: memory.NewStatusHistoryRepository(),
			Idem:    memory.NewIdempotencyRepository(),
			Logger:  logger,
		}, nil
	}

	store, err := postgres.Open(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("подключение к postgres: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("применение миграций: %w", err)
	}
	logger.Info("postgres хранилище инициализировано")

	return &Dependencies{
		Store:   store,
		Orders:  postgres.NewOrderRepository(store),
		Users:   postgres.NewUserRepository(store),
		Outbox:  postgres.NewOutboxRepository(store),
		History: postgres.NewStatusHistoryRepository(store),
		Idem:    postgres.NewIdempotencyRepository(store),
		Logger:  logger,
	}, nil
}

// Close освобождает ресурсы хранилища.
func (d *Dependencies) Close() {
	if d.Store == nil {
		return
	}
	if err := d.Store.Close(); err != nil {
		d.Logger.WithError(err).Warn("ошибка при закрытии postgres")
	}
}
