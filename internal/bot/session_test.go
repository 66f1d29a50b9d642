package bot

import "testing"

func TestSessionStoreGetCreates(t *testing.T) {
	store := newSessionStore()

	sess := store.Get(42)
	if sess == nil {
		t.Fatal("Get должен создавать сессию")
	}
	if sess.Step != stepIdle {
		t.Fatalf("новая сессия должна быть в stepIdle, получено %d", sess.Step)
	}

	sess.Step = stepAddress
	if store.Get(42).Step != stepAddress {
		t.Fatal("Get должен возвращать ту же сессию")
	}
}

func TestSessionStoreResetKeepsAdminState(t *testing.T) {
	store := newSessionStore()

	sess := store.Get(42)
	sess.Step = stepConfirm
	sess.Address = "ул. Ленина, д. 1"
	sess.Date = "2026-09-05"
	sess.Time = "10:00"
	sess.FilterStatus = "pending"
	sess.Page = 3

	store.Reset(42)

	sess = store.Get(42)
	if sess.Step != stepIdle || sess.Address != "" || sess.Date != "" || sess.Time != "" {
		t.Fatalf("диалог оформления не сброшен: %+v", sess)
	}
	if sess.FilterStatus != "pending" || sess.Page != 3 {
		t.Fatalf("состояние панели администратора не должно сбрасываться: %+v", sess)
	}
}

func TestSessionStoreResetUnknownChat(t *testing.T) {
	store := newSessionStore()
	// Не должно паниковать.
	store.Reset(99)
}
