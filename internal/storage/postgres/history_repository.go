package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/cleanbot/internal/domain"
)

type historyRepository struct {
	db *sql.DB
}

// NewStatusHistoryRepository создаёт PostgreSQL-реализацию StatusHistoryRepository.
func NewStatusHistoryRepository(store *Store) domain.StatusHistoryRepository {
	return &historyRepository{db: store.DB()}
}

func (r *historyRepository) Append(change domain.StatusChange) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO order_status_history (order_id, prev_status, next_status, changed_by, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
	`, change.OrderID, string(change.From), string(change.To), change.ChangedBy, change.Occurred)
	if err != nil {
		return fmt.Errorf("append status change: %w", err)
	}

	return nil
}

func (r *historyRepository) List(orderID int64) ([]domain.StatusChange, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, prev_status, next_status, changed_by, occurred_at
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY occurred_at ASC, id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	defer rows.Close()

	changes := make([]domain.StatusChange, 0)
	for rows.Next() {
		var (
			change domain.StatusChange
			from   string
			to     string
		)
		if err := rows.Scan(&change.OrderID, &from, &to, &change.ChangedBy, &change.Occurred); err != nil {
			return nil, fmt.Errorf("scan status change: %w", err)
		}
		change.From = domain.OrderStatus(from)
		change.To = domain.OrderStatus(to)
		changes = append(changes, change)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status history: %w", err)
	}

	return changes, nil
}

var _ domain.StatusHistoryRepository = (*historyRepository)(nil)
