package domain

import "time"

// User — клиент или сотрудник, общающийся с ботом.
// Идентификатор — telegram user id в строковом виде, он же chat id личного диалога.
type User struct {
	ID          string
	Username    string
	PhoneNumber string
	// IsStaff открывает доступ к панели администратора.
	IsStaff   bool
	CreatedAt time.Time
}
