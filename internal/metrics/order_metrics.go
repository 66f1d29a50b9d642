package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics содержит метрики жизненного цикла заявок.
type OrderMetrics struct {
	// Счётчики операций
	ordersCreated      prometheus.Counter
	statusTransitions  *prometheus.CounterVec
	rejectedTransition prometheus.Counter

	// Гистограмма времени выполнения операций сервиса
	operationDuration *prometheus.HistogramVec

	// Счётчики событий
	historyEvents prometheus.Counter
	outboxEvents  prometheus.Counter

	// Gauge для текущего количества pending-заявок
	pendingOrders prometheus.Gauge
}

// NewOrderMetrics создаёт новый экземпляр метрик заявок.
func NewOrderMetrics() *OrderMetrics {
	return newOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "cleanbot_orders_created_total",
			Help: "Total number of orders created",
		}),
		statusTransitions: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "cleanbot_order_status_transitions_total",
			Help: "Total number of order status transitions by target status",
		}, []string{"status"}),
		rejectedTransition: registerCounter(registerer, prometheus.CounterOpts{
			Name: "cleanbot_order_invalid_transitions_total",
			Help: "Total number of rejected status transitions",
		}),
		operationDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "cleanbot_order_operation_duration_seconds",
			Help:    "Duration of order service operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"operation"}),
		historyEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "cleanbot_status_history_events_total",
			Help: "Total number of status history events recorded",
		}),
		outboxEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "cleanbot_outbox_events_total",
			Help: "Total number of outbox events enqueued",
		}),
		pendingOrders: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "cleanbot_pending_orders",
			Help: "Number of orders currently waiting for staff decision",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated увеличивает счётчик созданных заявок.
func (m *OrderMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
	m.pendingOrders.Inc()
}

// RecordStatusTransition фиксирует успешный переход в целевой статус.
func (m *OrderMetrics) RecordStatusTransition(to string) {
	m.statusTransitions.WithLabelValues(to).Inc()
}

// RecordInvalidTransition увеличивает счётчик отклонённых переходов.
func (m *OrderMetrics) RecordInvalidTransition() {
	m.rejectedTransition.Inc()
}

// RecordOperationDuration записывает время выполнения операции сервиса.
func (m *OrderMetrics) RecordOperationDuration(operation string, duration time.Duration) {
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordHistoryEvent увеличивает счётчик записей истории статусов.
func (m *OrderMetrics) RecordHistoryEvent() {
	m.historyEvents.Inc()
}

// RecordOutboxEvent увеличивает счётчик событий, поставленных в outbox.
func (m *OrderMetrics) RecordOutboxEvent() {
	m.outboxEvents.Inc()
}

// SetPendingOrders выставляет текущее количество pending-заявок.
func (m *OrderMetrics) SetPendingOrders(count int) {
	m.pendingOrders.Set(float64(count))
}
