package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/cleanbot/internal/domain"
)

const (
	opTimeout = 5 * time.Second
)

const orderColumns = `o.id, o.author_id, o.address, o.time, o.status, o.created_at`

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

func (r *orderRepository) Create(authorID, address string, scheduledAt time.Time, status domain.OrderStatus) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	// created_at назначает база (DEFAULT NOW()), единственный INSERT атомарен.
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO orders (author_id, address, time, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, authorID, address, scheduledAt, string(status)).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrDuplicateOrder
		}
		return 0, fmt.Errorf("insert order: %w", err)
	}

	return id, nil
}

func (r *orderRepository) GetOne(id int64) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		WHERE o.id = $1
	`, id)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	return order, nil
}

func (r *orderRepository) GetAll() ([]domain.Order, error) {
	return r.queryOrders(`
		SELECT `+orderColumns+`
		FROM orders o
		ORDER BY o.id ASC
	`, false)
}

func (r *orderRepository) GetAllWithAuthors() ([]domain.Order, error) {
	// Авторы подтягиваются одним JOIN вместо запроса на каждую заявку.
	return r.queryOrders(`
		SELECT `+orderColumns+`,
		       u.id, u.username, u.phone_number, u.is_staff
		FROM orders o
		LEFT JOIN users u ON u.id = o.author_id
		ORDER BY o.id ASC
	`, true)
}

func (r *orderRepository) GetPending() ([]domain.Order, error) {
	return r.queryOrders(`
		SELECT `+orderColumns+`,
		       u.id, u.username, u.phone_number, u.is_staff
		FROM orders o
		LEFT JOIN users u ON u.id = o.author_id
		WHERE o.status = 'pending'
		ORDER BY o.id ASC
	`, true)
}

func (r *orderRepository) GetByAuthor(authorID string) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		WHERE o.author_id = $1
		ORDER BY o.id ASC
	`, authorID)
	if err != nil {
		return nil, fmt.Errorf("list orders by author: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows, false)
}

func (r *orderRepository) UpdateStatus(id int64, status domain.OrderStatus) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	// Один UPDATE ... RETURNING: атомарная перезапись без промежуточного чтения.
	// Легальность перехода здесь не проверяется, это контракт сервисного слоя.
	row := r.db.QueryRowContext(ctx, `
		UPDATE orders o
		SET status = $2
		WHERE o.id = $1
		RETURNING `+orderColumns+`
	`, id, string(status))

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("update order status: %w", err)
	}

	return order, nil
}

func (r *orderRepository) queryOrders(query string, withAuthor bool) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows, withAuthor)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var order domain.Order
	var status string
	if err := row.Scan(
		&order.ID, &order.AuthorID, &order.Address,
		&order.ScheduledAt, &status, &order.CreatedAt,
	); err != nil {
		return domain.Order{}, err
	}
	order.Status = domain.OrderStatus(status)
	return order, nil
}

func scanOrderWithAuthor(row rowScanner) (domain.Order, error) {
	var (
		order  domain.Order
		status string
		uID    sql.NullString
		uName  sql.NullString
		uPhone sql.NullString
		uStaff sql.NullBool
	)
	if err := row.Scan(
		&order.ID, &order.AuthorID, &order.Address,
		&order.ScheduledAt, &status, &order.CreatedAt,
		&uID, &uName, &uPhone, &uStaff,
	); err != nil {
		return domain.Order{}, err
	}
	order.Status = domain.OrderStatus(status)
	if uID.Valid {
		order.Author = &domain.User{
			ID:          uID.String,
			Username:    uName.String,
			PhoneNumber: uPhone.String,
			IsStaff:     uStaff.Bool,
		}
	}
	return order, nil
}

func collectOrders(rows *sql.Rows, withAuthor bool) ([]domain.Order, error) {
	orders := make([]domain.Order, 0)
	for rows.Next() {
		var (
			order domain.Order
			err   error
		)
		if withAuthor {
			order, err = scanOrderWithAuthor(rows)
		} else {
			order, err = scanOrder(rows)
		}
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.OrderRepository = (*orderRepository)(nil)
