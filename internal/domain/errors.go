package domain

import "errors"

var (
	// Ошибка отсутствующего автора заявки.
	ErrAuthorRequired = errors.New("author_id is required")
	// Ошибка пустого адреса уборки.
	ErrAddressRequired = errors.New("address is required")
	// Ошибка отсутствующего времени уборки.
	ErrScheduledTimeRequired = errors.New("scheduled time is required")
	// ErrUnknownStatus возвращается для значения вне перечисления статусов.
	ErrUnknownStatus = errors.New("unknown order status")
	// ErrInvalidTransition сигнализирует о нарушении таблицы переходов статусов.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrOrderNotFound возвращается, если заявка не найдена в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrDuplicateOrder — нарушение уникальности при вставке заявки.
	ErrDuplicateOrder = errors.New("order already exists")
	// ErrUserNotFound возвращается, если пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
	// ErrIdempotencyKeyRequired — пустой ключ идемпотентности.
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	// ErrIdempotencyRequestHashRequired — пустой hash запроса.
	ErrIdempotencyRequestHashRequired = errors.New("idempotency request hash is required")
	// ErrIdempotencyKeyAlreadyExists — ключ уже зарегистрирован.
	ErrIdempotencyKeyAlreadyExists = errors.New("idempotency key already exists")
	// ErrIdempotencyHashMismatch — ключ переиспользован с другим запросом.
	ErrIdempotencyHashMismatch = errors.New("idempotency request hash mismatch")
	// ErrIdempotencyKeyNotFound — запись по ключу отсутствует.
	ErrIdempotencyKeyNotFound = errors.New("idempotency key not found")
)

// IsNotFound проверяет, относится ли ошибка к классу "запись отсутствует".
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound) || errors.Is(err, ErrUserNotFound)
}
