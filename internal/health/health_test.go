package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandlerAllHealthy(t *testing.T) {
	h := NewHandler("test")
	h.RegisterChecker("postgres", NewCheckerFunc("postgres", func() error { return nil }))
	h.RegisterChecker("telegram", NewCheckerFunc("telegram", func() error { return nil }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("код = %d, ожидался 200", rec.Code)
	}

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != StatusHealthy {
		t.Fatalf("статус = %s, ожидался healthy", resp.Status)
	}
	if len(resp.Checks) != 2 {
		t.Fatalf("ожидались 2 проверки, получено %d", len(resp.Checks))
	}
	if resp.Version != "test" {
		t.Fatalf("версия = %q", resp.Version)
	}
}

func TestHandlerUnhealthyComponent(t *testing.T) {
	h := NewHandler("test")
	h.RegisterChecker("postgres", NewCheckerFunc("postgres", func() error {
		return errors.New("connection refused")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("код = %d, ожидался 503", rec.Code)
	}

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != StatusUnhealthy {
		t.Fatalf("статус = %s, ожидался unhealthy", resp.Status)
	}
	if resp.Checks["postgres"].Message != "connection refused" {
		t.Fatalf("нет сообщения об ошибке: %+v", resp.Checks["postgres"])
	}
}

func TestReadinessHandler(t *testing.T) {
	h := NewHandler("test")

	rec := httptest.NewRecorder()
	h.ReadinessHandler(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("без проверок сервис должен быть готов, код = %d", rec.Code)
	}

	h.RegisterChecker("postgres", NewCheckerFunc("postgres", func() error {
		return errors.New("down")
	}))

	rec = httptest.NewRecorder()
	h.ReadinessHandler(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("код = %d, ожидался 503", rec.Code)
	}
}

func TestLivenessHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	LivenessHandler(rec, httptest.NewRequest(http.MethodGet, "/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("код = %d, ожидался 200", rec.Code)
	}
}
