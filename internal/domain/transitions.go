package domain

// allowedTransitions фиксирует таблицу переходов статусов.
// Исторически таблицу поддерживали обработчики панели администратора,
// теперь она проверяется на уровне сервиса. canceled — терминальный статус.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusAccepted, OrderStatusRejected, OrderStatusCanceled},
	OrderStatusAccepted:  {OrderStatusCompleted, OrderStatusRejected},
	OrderStatusCompleted: {OrderStatusPending},
	OrderStatusRejected:  {OrderStatusPending},
	OrderStatusCanceled:  {},
}

// CanTransition сообщает, разрешён ли переход from→to.
// Переход в тот же статус считается no-op и всегда разрешён:
// повторное нажатие кнопки не должно приводить к ошибке.
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return from.Valid()
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition валидирует переход и возвращает ErrInvalidTransition при нарушении таблицы.
func Transition(from, to OrderStatus) error {
	if !from.Valid() || !to.Valid() {
		return ErrUnknownStatus
	}
	if !CanTransition(from, to) {
		return ErrInvalidTransition
	}
	return nil
}

// IsReopen сообщает, что переход возвращает завершённую или отклонённую заявку в работу.
func IsReopen(from, to OrderStatus) bool {
	return to == OrderStatusPending &&
		(from == OrderStatusCompleted || from == OrderStatusRejected)
}
