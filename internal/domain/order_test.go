package domain_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/cleanbot/internal/domain"
)

// helper для создания базовой валидной заявки.
func makeOrder() domain.Order {
	return domain.Order{
		ID:          1,
		AuthorID:    "100500",
		Address:     "г. Москва, ул. Ленина, д. 10, кв. 25",
		ScheduledAt: time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC),
		Status:      domain.OrderStatusPending,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestOrderValidateInvariants_Ok(t *testing.T) {
	order := makeOrder()
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestOrderValidateInvariants_ShortAddressAccepted(t *testing.T) {
	// Минимальную длину адреса проверяет презентационный слой,
	// домен принимает любую непустую строку.
	order := makeOrder()
	order.Address = "ул. К."
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected short address to pass domain validation, got %v", errs)
	}
}

func TestOrderValidateInvariants_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(o *domain.Order)
	}{
		{
			name: "no author",
			mut: func(o *domain.Order) {
				o.AuthorID = ""
			},
		},
		{
			name: "no address",
			mut: func(o *domain.Order) {
				o.Address = ""
			},
		},
		{
			name: "no scheduled time",
			mut: func(o *domain.Order) {
				o.ScheduledAt = time.Time{}
			},
		},
		{
			name: "bad status",
			mut: func(o *domain.Order) {
				o.Status = domain.OrderStatus("shipped")
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := makeOrder()
			tc.mut(&order)

			if len(order.ValidateInvariants()) == 0 {
				t.Fatalf("expected validation errors for case %s", tc.name)
			}
		})
	}
}

func TestParseOrderStatus(t *testing.T) {
	for _, raw := range []string{"pending", "accepted", "completed", "rejected", "canceled"} {
		status, err := domain.ParseOrderStatus(raw)
		if err != nil {
			t.Fatalf("parse %q failed: %v", raw, err)
		}
		if string(status) != raw {
			t.Fatalf("expected status %q, got %q", raw, status)
		}
	}

	if _, err := domain.ParseOrderStatus("delivered"); err == nil {
		t.Fatal("expected error for status outside the enumeration")
	}
}
