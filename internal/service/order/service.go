package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cleanbot/internal/domain"
	"github.com/vladislavdragonenkov/cleanbot/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/cleanbot/internal/metrics"
)

// Service описывает жизненный цикл заявок на уборку.
type Service interface {
	Create(authorID, address string, scheduledAt time.Time) (domain.Order, error)
	GetOne(id int64) (domain.Order, error)
	GetAll() ([]domain.Order, error)
	GetAllWithAuthors() ([]domain.Order, error)
	GetPending() ([]domain.Order, error)
	GetByAuthor(authorID string) ([]domain.Order, error)
	UpdateStatus(id int64, to domain.OrderStatus, changedBy string) (domain.Order, error)
	CheckPending() bool
}

// service валидирует переходы статусов и ставит уведомления в outbox
// в рамках той же операции, что и смена статуса.
type service struct {
	orders  domain.OrderRepository
	history domain.StatusHistoryRepository
	outbox  domain.OutboxRepository
	events  domain.EventPublisher // опциональный Kafka producer для event-driven архитектуры
	logger  *log.Entry
	metrics *metrics.OrderMetrics
}

// NewService создаёт рабочий экземпляр сервиса заявок.
func NewService(
	orders domain.OrderRepository,
	history domain.StatusHistoryRepository,
	outbox domain.OutboxRepository,
	logger *log.Entry,
) Service {
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}
	return &service{
		orders:  orders,
		history: history,
		outbox:  outbox,
		logger:  logger,
		metrics: metrics.NewOrderMetrics(),
	}
}

// NewServiceWithEvents создаёт сервис с публикацией событий заявок в Kafka.
func NewServiceWithEvents(
	orders domain.OrderRepository,
	history domain.StatusHistoryRepository,
	outbox domain.OutboxRepository,
	events domain.EventPublisher,
	logger *log.Entry,
) Service {
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}
	return &service{
		orders:  orders,
		history: history,
		outbox:  outbox,
		events:  events,
		logger:  logger,
		metrics: metrics.NewOrderMetrics(),
	}
}

// NewServiceWithoutMetrics создаёт сервис без метрик (для тестов).
func NewServiceWithoutMetrics(
	orders domain.OrderRepository,
	history domain.StatusHistoryRepository,
	outbox domain.OutboxRepository,
	events domain.EventPublisher,
	logger *log.Entry,
) Service {
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}
	return &service{
		orders:  orders,
		history: history,
		outbox:  outbox,
		events:  events,
		logger:  logger,
	}
}

// Create сохраняет новую заявку. Статус всегда pending, какой бы ни пришёл снаружи.
func (s *service) Create(authorID, address string, scheduledAt time.Time) (domain.Order, error) {
	start := time.Now()
	defer s.recordDuration("create", start)

	candidate := domain.Order{
		AuthorID:    authorID,
		Address:     address,
		ScheduledAt: scheduledAt,
		Status:      domain.OrderStatusPending,
	}
	if errs := candidate.ValidateInvariants(); len(errs) > 0 {
		err := errors.Join(errs...)
		s.logger.WithError(err).WithField("author_id", authorID).Warn("order validation failed")
		return domain.Order{}, fmt.Errorf("validate order: %w", err)
	}

	id, err := s.orders.Create(authorID, address, scheduledAt, domain.OrderStatusPending)
	if err != nil {
		s.logger.WithError(err).WithField("author_id", authorID).Error("failed to create order")
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}

	order, err := s.orders.GetOne(id)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", id).Error("failed to load created order")
		return domain.Order{}, fmt.Errorf("load created order: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
	}

	s.publishOrderEvent(kafka.EventTypeOrderCreated, order)

	s.logger.WithFields(log.Fields{
		"order_id":  order.ID,
		"author_id": order.AuthorID,
	}).Info("order created")

	return order, nil
}

// GetOne возвращает заявку по идентификатору.
func (s *service) GetOne(id int64) (domain.Order, error) {
	order, err := s.orders.GetOne(id)
	if err != nil {
		s.logLookupError(err, id)
		return domain.Order{}, fmt.Errorf("get order %d: %w", id, err)
	}
	return order, nil
}

// GetAll возвращает все заявки без авторов.
func (s *service) GetAll() ([]domain.Order, error) {
	orders, err := s.orders.GetAll()
	if err != nil {
		s.logger.WithError(err).Error("failed to list orders")
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// GetAllWithAuthors возвращает все заявки с данными клиентов для панели администратора.
func (s *service) GetAllWithAuthors() ([]domain.Order, error) {
	orders, err := s.orders.GetAllWithAuthors()
	if err != nil {
		s.logger.WithError(err).Error("failed to list orders with authors")
		return nil, fmt.Errorf("list orders with authors: %w", err)
	}
	return orders, nil
}

// GetPending возвращает заявки, ожидающие решения администратора.
func (s *service) GetPending() ([]domain.Order, error) {
	orders, err := s.orders.GetPending()
	if err != nil {
		s.logger.WithError(err).Error("failed to list pending orders")
		return nil, fmt.Errorf("list pending orders: %w", err)
	}

	if s.metrics != nil {
		s.metrics.SetPendingOrders(len(orders))
	}

	return orders, nil
}

// GetByAuthor возвращает заявки одного клиента.
func (s *service) GetByAuthor(authorID string) ([]domain.Order, error) {
	orders, err := s.orders.GetByAuthor(authorID)
	if err != nil {
		s.logger.WithError(err).WithField("author_id", authorID).Error("failed to list orders by author")
		return nil, fmt.Errorf("list orders by author: %w", err)
	}
	return orders, nil
}

// UpdateStatus валидирует переход по таблице и применяет его.
// Переход в текущий статус завершается успешно без побочных эффектов,
// поэтому повторная доставка одной и той же команды безопасна.
// Уведомление клиента ставится в outbox той же операцией.
func (s *service) UpdateStatus(id int64, to domain.OrderStatus, changedBy string) (domain.Order, error) {
	start := time.Now()
	defer s.recordDuration("update_status", start)

	order, err := s.orders.GetOne(id)
	if err != nil {
		s.logLookupError(err, id)
		return domain.Order{}, fmt.Errorf("get order %d: %w", id, err)
	}

	from := order.Status
	if from == to {
		s.logger.WithFields(log.Fields{
			"order_id": id,
			"status":   to,
		}).Debug("status already set, nothing to do")
		return order, nil
	}

	if err := domain.Transition(from, to); err != nil {
		if s.metrics != nil {
			s.metrics.RecordInvalidTransition()
		}
		s.logger.WithFields(log.Fields{
			"order_id": id,
			"from":     from,
			"to":       to,
		}).Warn("status transition rejected")
		return domain.Order{}, fmt.Errorf("transition %s -> %s: %w", from, to, err)
	}

	updated, err := s.orders.UpdateStatus(id, to)
	if err != nil {
		s.logLookupError(err, id)
		return domain.Order{}, fmt.Errorf("update order %d status: %w", id, err)
	}

	s.appendHistory(domain.StatusChange{
		OrderID:   id,
		From:      from,
		To:        to,
		ChangedBy: changedBy,
		Occurred:  time.Now().UTC(),
	})

	s.enqueueNotification(from, updated)

	if eventType, ok := kafka.OrderEventTypeFor(string(to), domain.IsReopen(from, to)); ok {
		s.publishOrderEvent(eventType, updated)
	}

	if s.metrics != nil {
		s.metrics.RecordStatusTransition(string(to))
	}

	s.logger.WithFields(log.Fields{
		"order_id":   id,
		"from":       from,
		"to":         to,
		"changed_by": changedBy,
	}).Info("order status updated")

	return updated, nil
}

// CheckPending сообщает, есть ли заявки, ожидающие решения.
// При ошибке хранилища возвращает false и пишет ошибку в лог.
func (s *service) CheckPending() bool {
	orders, err := s.orders.GetPending()
	if err != nil {
		s.logger.WithError(err).Error("failed to check pending orders")
		return false
	}

	if s.metrics != nil {
		s.metrics.SetPendingOrders(len(orders))
	}

	return len(orders) > 0
}

// appendHistory пишет запись истории. Ошибка не прерывает основную операцию.
func (s *service) appendHistory(change domain.StatusChange) {
	if s.history == nil {
		return
	}
	if err := s.history.Append(change); err != nil {
		s.logger.WithError(err).WithField("order_id", change.OrderID).Error("failed to append status history")
		return
	}
	if s.metrics != nil {
		s.metrics.RecordHistoryEvent()
	}
}

// enqueueNotification ставит уведомление клиента в outbox, если переход его требует.
func (s *service) enqueueNotification(from domain.OrderStatus, order domain.Order) {
	tag, ok := domain.NotificationTagFor(from, order.Status)
	if !ok {
		return
	}

	payload, err := json.Marshal(domain.NotificationPayload{
		OrderID:     order.ID,
		AuthorID:    order.AuthorID,
		Address:     order.Address,
		ScheduledAt: order.ScheduledAt,
		Status:      order.Status,
		Tag:         tag,
	})
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("failed to marshal notification payload")
		return
	}

	_, err = s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   strconv.FormatInt(order.ID, 10),
		EventType:     "notification." + string(tag),
		Payload:       payload,
	})
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("failed to enqueue notification")
		return
	}

	if s.metrics != nil {
		s.metrics.RecordOutboxEvent()
	}
}

// publishOrderEvent отправляет событие заявки во внешний поток, если он настроен.
// Ошибка публикации не влияет на результат операции.
func (s *service) publishOrderEvent(eventType kafka.EventType, order domain.Order) {
	if s.events == nil {
		return
	}

	event := kafka.NewOrderEvent(eventType, order.ID, order.AuthorID, string(order.Status), nil)
	key := strconv.FormatInt(order.ID, 10)
	if err := s.events.PublishEvent(kafka.TopicOrderEvents, key, event); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id":   order.ID,
			"event_type": eventType,
		}).Error("failed to publish order event")
	}
}

func (s *service) logLookupError(err error, orderID int64) {
	entry := s.logger.WithError(err).WithField("order_id", orderID)
	if domain.IsNotFound(err) {
		entry.Warn("order not found")
		return
	}
	entry.Error("order lookup failed")
}

func (s *service) recordDuration(operation string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordOperationDuration(operation, time.Since(start))
	}
}

var _ Service = (*service)(nil)
