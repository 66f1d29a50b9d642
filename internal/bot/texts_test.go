package bot

import (
	"strings"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/cleanbot/internal/domain"
)

func TestStatusTextCoversAllStatuses(t *testing.T) {
	statuses := []domain.OrderStatus{
		domain.OrderStatusPending,
		domain.OrderStatusAccepted,
		domain.OrderStatusCompleted,
		domain.OrderStatusRejected,
		domain.OrderStatusCanceled,
	}

	for _, status := range statuses {
		if statusText(status) == "Неизвестно" {
			t.Errorf("для статуса %s нет текста", status)
		}
		if statusEmoji(status) == "❓" {
			t.Errorf("для статуса %s нет эмодзи", status)
		}
	}
}

func TestOrdersPageText(t *testing.T) {
	orders := []domain.Order{
		{
			ID:          3,
			AuthorID:    "100",
			Address:     "г. Москва, ул. Ленина, д. 10",
			ScheduledAt: time.Date(2026, time.September, 5, 10, 0, 0, 0, time.UTC),
			Status:      domain.OrderStatusPending,
			Author:      &domain.User{Username: "ivan", PhoneNumber: "+79001234567"},
		},
	}

	text := ordersPageText("📋 Новые заявки", orders, 5)

	if !strings.Contains(text, "6. Заказ #3") {
		t.Fatalf("нумерация должна продолжаться со startIdx: %q", text)
	}
	if !strings.Contains(text, "@ivan") || !strings.Contains(text, "+79001234567") {
		t.Fatalf("нет данных автора: %q", text)
	}
	if !strings.Contains(text, "05.09.2026 10:00") {
		t.Fatalf("нет даты: %q", text)
	}
}

func TestOrdersPageTextTruncatesLongAddress(t *testing.T) {
	long := strings.Repeat("а", 80)
	orders := []domain.Order{{ID: 1, AuthorID: "1", Address: long, Status: domain.OrderStatusPending}}

	text := ordersPageText("Все заявки", orders, 0)

	if strings.Contains(text, long) {
		t.Fatal("длинный адрес должен обрезаться")
	}
	if !strings.Contains(text, "...") {
		t.Fatal("обрезанный адрес должен заканчиваться многоточием")
	}
}

func TestNotificationTextPerTag(t *testing.T) {
	base := domain.NotificationPayload{
		OrderID:     9,
		AuthorID:    "100",
		Address:     "ул. Пушкина, д. 1",
		ScheduledAt: time.Date(2026, time.September, 5, 10, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		tag      domain.NotificationTag
		fragment string
	}{
		{domain.NotificationAccepted, "принят"},
		{domain.NotificationCompleted, "выполнен"},
		{domain.NotificationRejected, "отклонен"},
		{domain.NotificationReopen, "возвращен в работу"},
	}

	for _, tt := range tests {
		payload := base
		payload.Tag = tt.tag

		text := notificationText(payload)
		if text == "" {
			t.Fatalf("для тега %s нет текста", tt.tag)
		}
		if !strings.Contains(text, tt.fragment) {
			t.Errorf("текст тега %s не содержит %q: %q", tt.tag, tt.fragment, text)
		}
		if !strings.Contains(text, "Заказ #9") {
			t.Errorf("текст тега %s не содержит номер заказа", tt.tag)
		}
	}

	payload := base
	payload.Tag = domain.NotificationTag("mystery")
	if notificationText(payload) != "" {
		t.Error("неизвестный тег должен давать пустой текст")
	}
}

func TestOrderDetailsTextWithoutPhone(t *testing.T) {
	order := domain.Order{
		ID:          4,
		AuthorID:    "100",
		Address:     "ул. Пушкина, д. 1",
		ScheduledAt: time.Date(2026, time.September, 5, 10, 0, 0, 0, time.UTC),
		Status:      domain.OrderStatusAccepted,
		CreatedAt:   time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC),
	}
	author := domain.User{ID: "100", Username: "ivan"}

	text := orderDetailsText(order, &author)

	if !strings.Contains(text, "Не указан") {
		t.Fatalf("пустой телефон должен отображаться как 'Не указан': %q", text)
	}
	if !strings.Contains(text, "Заказ #4") || !strings.Contains(text, "@ivan") {
		t.Fatalf("нет ключевых полей: %q", text)
	}
}
