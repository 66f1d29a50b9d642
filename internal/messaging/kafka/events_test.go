package kafka

import "testing"

func TestNewOrderEvent(t *testing.T) {
	event := NewOrderEvent(EventTypeOrderCreated, 42, "100", "pending", map[string]interface{}{"source": "bot"})

	if event.EventType != EventTypeOrderCreated {
		t.Errorf("EventType = %s, ожидался %s", event.EventType, EventTypeOrderCreated)
	}
	if event.OrderID != 42 {
		t.Errorf("OrderID = %d, ожидался 42", event.OrderID)
	}
	if event.AuthorID != "100" {
		t.Errorf("AuthorID = %s, ожидался 100", event.AuthorID)
	}
	if event.Timestamp.IsZero() {
		t.Error("Timestamp не заполнен")
	}
}

func TestOrderEventTypeFor(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		reopened bool
		want     EventType
		ok       bool
	}{
		{name: "accepted", status: "accepted", want: EventTypeOrderAccepted, ok: true},
		{name: "completed", status: "completed", want: EventTypeOrderCompleted, ok: true},
		{name: "rejected", status: "rejected", want: EventTypeOrderRejected, ok: true},
		{name: "canceled", status: "canceled", want: EventTypeOrderCanceled, ok: true},
		{name: "reopened wins over status", status: "pending", reopened: true, want: EventTypeOrderReopened, ok: true},
		{name: "plain pending has no event", status: "pending", ok: false},
		{name: "unknown status", status: "garbage", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := OrderEventTypeFor(tt.status, tt.reopened)
			if ok != tt.ok {
				t.Fatalf("ok = %v, ожидалось %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Fatalf("event = %s, ожидался %s", got, tt.want)
			}
		})
	}
}
