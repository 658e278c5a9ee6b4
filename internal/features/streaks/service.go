// Package streaks — service.go содержит операции чтения стриков и медалей.
// Запись стриков происходит внутри транзакции отметки привычки
// (см. habits.Repository), поэтому здесь только чтение.
package streaks

import (
	"context"
	"time"
)

// Service предоставляет доступ к стрикам и медалям.
type Service struct {
	repo *Repository
}

// NewService создаёт новый сервис стриков.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// GetStreak возвращает стрик пользователя по привычке.
func (s *Service) GetStreak(ctx context.Context, userID, habitID int64) (*Streak, error) {
	return s.repo.GetStreak(ctx, userID, habitID)
}

// MedalCount возвращает число медалей пользователя.
// От него зависит курс конвертации очков (см. economy.Rate).
func (s *Service) MedalCount(ctx context.Context, userID int64) (int, error) {
	return s.repo.MedalCount(ctx, userID)
}

// Medals возвращает все медали пользователя.
func (s *Service) Medals(ctx context.Context, userID int64) ([]*Medal, error) {
	return s.repo.GetMedals(ctx, userID)
}

// ReminderCandidates возвращает пользователей со стриком >= minStreak,
// не отметивших привычку сегодня. Используется кроном напоминаний.
func (s *Service) ReminderCandidates(ctx context.Context, minStreak int, today time.Time) ([]*ReminderCandidate, error) {
	return s.repo.GetReminderCandidates(ctx, minStreak, today)
}
