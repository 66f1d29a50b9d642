package order

import (
	"encoding/json"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/cleanbot/internal/domain"
	"github.com/vladislavdragonenkov/cleanbot/internal/storage/memory"
)

type capturedEvent struct {
	topic string
	key   string
	event any
}

type stubEventPublisher struct {
	published []capturedEvent
}

func (p *stubEventPublisher) PublishEvent(topic, key string, event any) error {
	p.published = append(p.published, capturedEvent{topic: topic, key: key, event: event})
	return nil
}

type fixture struct {
	svc    Service
	orders domain.OrderRepository
	outbox domain.OutboxRepository
	history domain.StatusHistoryRepository
	events  *stubEventPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	users := memory.NewUserRepository()
	orders := memory.NewOrderRepository(users)
	outbox := memory.NewOutboxRepository()
	history := memory.NewStatusHistoryRepository()
	events := &stubEventPublisher{}

	logger := log.New()
	logger.SetLevel(log.PanicLevel)

	svc := NewServiceWithoutMetrics(orders, history, outbox, events, logger.WithField("component", "order-service"))

	return &fixture{
		svc:     svc,
		orders:  orders,
		outbox:  outbox,
		history: history,
		events:  events,
	}
}

func (f *fixture) createOrder(t *testing.T) domain.Order {
	t.Helper()

	order, err := f.svc.Create("100", "г. Казань, ул. Баумана, д. 5, кв. 12", time.Now().Add(48*time.Hour))
	require.NoError(t, err)
	return order
}

func TestCreateOrder(t *testing.T) {
	f := newFixture(t)

	scheduled := time.Date(2026, time.September, 10, 14, 0, 0, 0, time.UTC)
	order, err := f.svc.Create("100", "г. Казань, ул. Баумана, д. 5, кв. 12", scheduled)
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, "100", order.AuthorID)
	assert.True(t, order.ScheduledAt.Equal(scheduled))
	assert.NotZero(t, order.ID)

	require.Len(t, f.events.published, 1)
	assert.Equal(t, "cleanbot.order.events", f.events.published[0].topic)
}

func TestCreateOrderShortAddress(t *testing.T) {
	f := newFixture(t)

	// Минимальная длина адреса проверяется только в диалоге с клиентом.
	// Сервис и хранилище принимают любой непустой адрес.
	order, err := f.svc.Create("100", "кв. 1", time.Now().Add(24*time.Hour))
	require.NoError(t, err)

	stored, err := f.svc.GetOne(order.ID)
	require.NoError(t, err)
	assert.Equal(t, "кв. 1", stored.Address)
	assert.Equal(t, domain.OrderStatusPending, stored.Status)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name      string
		authorID  string
		address   string
		scheduled time.Time
		wantErr   error
	}{
		{
			name:      "empty author",
			address:   "ул. Ленина, д. 1",
			scheduled: time.Now().Add(time.Hour),
			wantErr:   domain.ErrAuthorRequired,
		},
		{
			name:      "empty address",
			authorID:  "100",
			scheduled: time.Now().Add(time.Hour),
			wantErr:   domain.ErrAddressRequired,
		},
		{
			name:     "zero scheduled time",
			authorID: "100",
			address:  "ул. Ленина, д. 1",
			wantErr:  domain.ErrScheduledTimeRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(tt.authorID, tt.address, tt.scheduled)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Empty(t, f.events.published, "невалидная заявка не должна порождать событий")
}

func TestUpdateStatusHappyPath(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)

	updated, err := f.svc.UpdateStatus(order.ID, domain.OrderStatusAccepted, "admin:1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusAccepted, updated.Status)

	stored, err := f.orders.GetOne(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusAccepted, stored.Status)

	changes, err := f.history.List(order.ID)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, domain.OrderStatusPending, changes[0].From)
	assert.Equal(t, domain.OrderStatusAccepted, changes[0].To)
	assert.Equal(t, "admin:1", changes[0].ChangedBy)
}

func TestUpdateStatusEnqueuesNotification(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)

	_, err := f.svc.UpdateStatus(order.ID, domain.OrderStatusAccepted, "admin:1")
	require.NoError(t, err)

	pending, err := f.outbox.PullPending(10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "notification.accepted", pending[0].EventType)

	var payload domain.NotificationPayload
	require.NoError(t, json.Unmarshal(pending[0].Payload, &payload))
	assert.Equal(t, order.ID, payload.OrderID)
	assert.Equal(t, order.AuthorID, payload.AuthorID)
	assert.Equal(t, domain.NotificationAccepted, payload.Tag)
}

func TestUpdateStatusCancelSkipsNotification(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)

	_, err := f.svc.UpdateStatus(order.ID, domain.OrderStatusCanceled, order.AuthorID)
	require.NoError(t, err)

	pending, err := f.outbox.PullPending(10)
	require.NoError(t, err)
	assert.Empty(t, pending, "самостоятельная отмена не дублируется уведомлением")
}

func TestUpdateStatusReopenNotification(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)

	_, err := f.svc.UpdateStatus(order.ID, domain.OrderStatusRejected, "admin:1")
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(order.ID, domain.OrderStatusPending, "admin:1")
	require.NoError(t, err)

	pending, err := f.outbox.PullPending(10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "notification.rejected", pending[0].EventType)
	assert.Equal(t, "notification.reopen", pending[1].EventType)
}

func TestUpdateStatusSameStatusIsNoOp(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)

	updated, err := f.svc.UpdateStatus(order.ID, domain.OrderStatusPending, "admin:1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, updated.Status)

	pending, err := f.outbox.PullPending(10)
	require.NoError(t, err)
	assert.Empty(t, pending, "no-op переход не должен порождать уведомлений")

	changes, err := f.history.List(order.ID)
	require.NoError(t, err)
	assert.Empty(t, changes, "no-op переход не попадает в историю")
}

func TestUpdateStatusInvalidTransition(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)

	_, err := f.svc.UpdateStatus(order.ID, domain.OrderStatusCompleted, "admin:1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	stored, err := f.orders.GetOne(order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, stored.Status, "статус не должен меняться при отклонённом переходе")
}

func TestUpdateStatusCanceledIsTerminal(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)

	_, err := f.svc.UpdateStatus(order.ID, domain.OrderStatusCanceled, order.AuthorID)
	require.NoError(t, err)

	for _, to := range []domain.OrderStatus{
		domain.OrderStatusPending,
		domain.OrderStatusAccepted,
		domain.OrderStatusCompleted,
		domain.OrderStatusRejected,
	} {
		_, err := f.svc.UpdateStatus(order.ID, to, "admin:1")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition, "canceled -> %s", to)
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpdateStatus(404, domain.OrderStatusAccepted, "admin:1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestUpdateStatusPublishesOrderEvents(t *testing.T) {
	f := newFixture(t)
	order := f.createOrder(t)

	_, err := f.svc.UpdateStatus(order.ID, domain.OrderStatusAccepted, "admin:1")
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(order.ID, domain.OrderStatusCompleted, "admin:1")
	require.NoError(t, err)

	// order.created + order.accepted + order.completed
	require.Len(t, f.events.published, 3)
	for _, evt := range f.events.published {
		assert.Equal(t, "cleanbot.order.events", evt.topic)
	}
}

func TestGetPendingAndCheckPending(t *testing.T) {
	f := newFixture(t)

	assert.False(t, f.svc.CheckPending())

	order := f.createOrder(t)
	assert.True(t, f.svc.CheckPending())

	pending, err := f.svc.GetPending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, order.ID, pending[0].ID)

	_, err = f.svc.UpdateStatus(order.ID, domain.OrderStatusAccepted, "admin:1")
	require.NoError(t, err)
	assert.False(t, f.svc.CheckPending())
}

func TestGetByAuthor(t *testing.T) {
	f := newFixture(t)

	scheduled := time.Now().Add(time.Hour)
	_, err := f.svc.Create("100", "адрес первого клиента", scheduled)
	require.NoError(t, err)
	_, err = f.svc.Create("200", "адрес второго клиента", scheduled)
	require.NoError(t, err)
	_, err = f.svc.Create("100", "второй адрес первого клиента", scheduled)
	require.NoError(t, err)

	orders, err := f.svc.GetByAuthor("100")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Less(t, orders[0].ID, orders[1].ID)
}
