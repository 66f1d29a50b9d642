package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config описывает настройки запуска приложения.
type Config struct {
	// TelegramToken токен бота, обязателен.
	TelegramToken string
	// PostgresDSN строка подключения к PostgreSQL.
	// Пустое значение переключает хранилище на in-memory режим.
	PostgresDSN string
	// KafkaBrokers список брокеров через запятую, пустое значение отключает Kafka.
	KafkaBrokers string
	// MetricsAddr адрес HTTP-сервера метрик и health checks.
	MetricsAddr string
	// AdminIDs идентификаторы Telegram-аккаунтов с правами администратора.
	AdminIDs []int64
}

// DefaultConfig возвращает базовые значения конфигурации.
func DefaultConfig() Config {
	return Config{
		MetricsAddr: ":9090",
	}
}

// ConfigFromEnv собирает конфигурацию из переменных окружения.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	cfg.TelegramToken = strings.TrimSpace(os.Getenv("CLEANBOT_TELEGRAM_TOKEN"))
	if cfg.TelegramToken == "" {
		return cfg, errors.New("переменная CLEANBOT_TELEGRAM_TOKEN обязательна")
	}

	cfg.PostgresDSN = strings.TrimSpace(os.Getenv("CLEANBOT_POSTGRES_DSN"))
	cfg.KafkaBrokers = strings.TrimSpace(os.Getenv("KAFKA_BROKERS"))

	if v := strings.TrimSpace(os.Getenv("CLEANBOT_METRICS_ADDR")); v != "" {
		cfg.MetricsAddr = v
	}

	ids, err := parseAdminIDs(os.Getenv("CLEANBOT_ADMIN_IDS"))
	if err != nil {
		return cfg, fmt.Errorf("разбор CLEANBOT_ADMIN_IDS: %w", err)
	}
	cfg.AdminIDs = ids

	return cfg, nil
}

// parseAdminIDs разбирает список идентификаторов через запятую.
// Пустые элементы пропускаются.
func parseAdminIDs(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("некорректный идентификатор %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
