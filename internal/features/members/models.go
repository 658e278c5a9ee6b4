// Package members управляет участниками бота: регистрацией и членством в группах.
// models.go описывает структуры данных для работы с таблицей users.
package members

import "time"

// Member представляет пользователя бота.
// Создаётся автоматически при первом контакте и никогда не удаляется.
// Балансы очков и монет живут в той же строке таблицы users,
// но управляются пакетом economy.
type Member struct {
	TelegramID int64     `db:"telegram_id"` // Telegram user ID (первичный ключ)
	Username   string    `db:"username"`    // @username (может быть пустым)
	FirstName  string    `db:"first_name"`  // Имя пользователя
	GroupID    *int64    `db:"group_id"`    // Группа (nil — пока не вступил)
	JoinedAt   time.Time `db:"joined_at"`   // Когда появился в базе
}

// DisplayName возвращает отображаемое имя пользователя.
// Если есть @username — возвращает его, иначе — имя.
func (m *Member) DisplayName() string {
	if m.Username != "" {
		return "@" + m.Username
	}
	return m.FirstName
}

// InGroup сообщает, состоит ли пользователь в какой-либо группе.
func (m *Member) InGroup() bool {
	return m.GroupID != nil
}
