// Package groups управляет группами участников и их привязкой
// к чату для объявлений.
package groups

import "time"

// Group представляет группу участников.
// Группа владеет общим набором привычек (см. пакет habits).
type Group struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	GroupChatID *int64    `db:"group_chat_id"` // Чат для объявлений (nil — не привязан)
	CreatedAt   time.Time `db:"created_at"`
}
