package domain

import "time"

// IdempotencyStatus описывает жизненный цикл ключа идемпотентности.
type IdempotencyStatus string

const (
	// IdempotencyStatusProcessing — подтверждение принято и ещё обрабатывается.
	IdempotencyStatusProcessing IdempotencyStatus = "processing"
	// IdempotencyStatusDone — заявка создана, её id сохранён в записи.
	IdempotencyStatusDone IdempotencyStatus = "done"
	// IdempotencyStatusFailed — обработка завершилась ошибкой.
	// Такой ключ перезанимается следующим CreateProcessing, чтобы клиент мог повторить попытку.
	IdempotencyStatusFailed IdempotencyStatus = "failed"
)

// IdempotencyRecord защищает подтверждение заказа от двойного нажатия кнопки:
// повторный запрос с тем же ключом получает сохранённый результат вместо
// создания дубликата заявки.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	// OrderID — идентификатор созданной заявки для записей в статусе done.
	OrderID   int64
	Status    IdempotencyStatus
	TTLAt     time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Valid проверяет, что статус относится к поддерживаемым значениям.
func (s IdempotencyStatus) Valid() bool {
	switch s {
	case IdempotencyStatusProcessing, IdempotencyStatusDone, IdempotencyStatusFailed:
		return true
	default:
		return false
	}
}
