package app

import (
	"testing"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("CLEANBOT_TELEGRAM_TOKEN", "123:token")
	t.Setenv("CLEANBOT_POSTGRES_DSN", "postgres://localhost/cleanbot")
	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	t.Setenv("CLEANBOT_METRICS_ADDR", ":9091")
	t.Setenv("CLEANBOT_ADMIN_IDS", "100, 200,300")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}

	if cfg.TelegramToken != "123:token" {
		t.Errorf("TelegramToken = %q", cfg.TelegramToken)
	}
	if cfg.PostgresDSN != "postgres://localhost/cleanbot" {
		t.Errorf("PostgresDSN = %q", cfg.PostgresDSN)
	}
	if cfg.KafkaBrokers != "localhost:9092" {
		t.Errorf("KafkaBrokers = %q", cfg.KafkaBrokers)
	}
	if cfg.MetricsAddr != ":9091" {
		t.Errorf("MetricsAddr = %q", cfg.MetricsAddr)
	}
	if len(cfg.AdminIDs) != 3 || cfg.AdminIDs[0] != 100 || cfg.AdminIDs[2] != 300 {
		t.Errorf("AdminIDs = %v", cfg.AdminIDs)
	}
}

func TestConfigFromEnvRequiresToken(t *testing.T) {
	t.Setenv("CLEANBOT_TELEGRAM_TOKEN", "")

	if _, err := ConfigFromEnv(); err == nil {
		t.Fatal("без токена конфигурация должна быть ошибкой")
	}
}

func TestConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("CLEANBOT_TELEGRAM_TOKEN", "123:token")
	t.Setenv("CLEANBOT_POSTGRES_DSN", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("CLEANBOT_METRICS_ADDR", "")
	t.Setenv("CLEANBOT_ADMIN_IDS", "")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}

	if cfg.MetricsAddr != ":9090" {
		t.Errorf("MetricsAddr = %q, ожидался :9090", cfg.MetricsAddr)
	}
	if cfg.PostgresDSN != "" || cfg.KafkaBrokers != "" {
		t.Errorf("пустые DSN и brokers должны оставаться пустыми: %+v", cfg)
	}
	if len(cfg.AdminIDs) != 0 {
		t.Errorf("AdminIDs = %v, ожидался пустой список", cfg.AdminIDs)
	}
}

func TestParseAdminIDs(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{name: "пустая строка", raw: "", want: 0},
		{name: "один id", raw: "42", want: 1},
		{name: "несколько с пробелами", raw: " 1 , 2 ,3", want: 3},
		{name: "висячая запятая", raw: "1,2,", want: 2},
		{name: "мусор", raw: "1,abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, err := parseAdminIDs(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("ожидалась ошибка")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAdminIDs: %v", err)
			}
			if len(ids) != tt.want {
				t.Fatalf("len = %d, ожидалось %d", len(ids), tt.want)
			}
		})
	}
}
