package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cleanbot/internal/bot"
	healthcheck "github.com/vladislavdragonenkov/cleanbot/internal/health"
	"github.com/vladislavdragonenkov/cleanbot/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/cleanbot/internal/service/idempotency"
	"github.com/vladislavdragonenkov/cleanbot/internal/service/notify"
	"github.com/vladislavdragonenkov/cleanbot/internal/service/order"
	"github.com/vladislavdragonenkov/cleanbot/internal/version"
)

// Run собирает все компоненты и блокируется до отмены контекста.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg.PostgresDSN, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	// Kafka опционален: без брокеров сервис работает, но не публикует события.
	kafkaProducer, _ := initKafkaProducer(cfg.KafkaBrokers, logger)
	defer closeKafka(kafkaProducer, logger)

	var orderService order.Service
	if kafkaProducer != nil {
		orderService = order.NewServiceWithEvents(
			deps.Orders,
			deps.History,
			deps.Outbox,
			kafkaProducer,
			logger.WithField("component", "order-service"),
		)
	} else {
		orderService = order.NewService(
			deps.Orders,
			deps.History,
			deps.Outbox,
			logger.WithField("component", "order-service"),
		)
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return fmt.Errorf("подключение к Telegram Bot API: %w", err)
	}
	logger.WithField("username", api.Self.UserName).Info("telegram bot api подключен")

	notifier := bot.NewNotifier(api, logger.WithField("component", "notifier"))

	notifyOptions := []notify.Option{
		notify.WithLogger(logger.WithField("component", "notify-worker")),
	}
	if kafkaProducer != nil {
		dlq := kafka.NewOutboxPublisher(kafkaProducer, kafka.TopicDeadLetterQueue)
		notifyOptions = append(notifyOptions, notify.WithDLQPublisher(dlq))
	}
	notifyWorker := notify.NewWorker(deps.Outbox, notifier, notifyOptions...)

	cleanupWorker := idempotency.NewCleanupWorker(
		deps.Idem,
		idempotency.WithLogger(logger.WithField("component", "idempotency-cleanup")),
	)

	buildVersion, _, _ := version.Info()
	healthHandler := healthcheck.NewHandler(buildVersion)
	healthHandler.RegisterChecker("telegram", healthcheck.NewCheckerFunc("telegram", func() error {
		_, err := api.GetMe()
		return err
	}))
	if deps.Store != nil {
		healthHandler.RegisterChecker("postgres", healthcheck.NewCheckerFunc("postgres", func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			return deps.Store.Ping(pingCtx)
		}))
	}

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	go notifyWorker.Run(ctx)
	go cleanupWorker.Run(ctx)

	telegramBot := bot.NewBot(
		api,
		orderService,
		deps.Users,
		deps.Idem,
		cfg.AdminIDs,
		logger.WithField("component", "bot"),
	)

	logger.Info("бот запущен, слушаем обновления")
	telegramBot.Run(ctx)

	logger.Info("получен сигнал остановки, завершаем работу")
	shutdownHTTP(metricsSrv, logger)

	return ctx.Err()
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("metrics shutdown with error")
	}
}
