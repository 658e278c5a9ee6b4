package reports

import (
	"context"

	"privychka.ru/rewards-bot/internal/common"
	"privychka.ru/rewards-bot/internal/features/members"
)

// Service отдаёт отчёты с проверкой членства в группе.
type Service struct {
	repo    *Repository
	members *members.Service
}

// NewService создаёт новый сервис отчётов.
func NewService(repo *Repository, membersSvc *members.Service) *Service {
	return &Service{repo: repo, members: membersSvc}
}

// Leaderboard возвращает месячную таблицу лидеров группы пользователя.
func (s *Service) Leaderboard(ctx context.Context, userID int64, month string) ([]*LeaderboardRow, error) {
	member, err := s.members.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !member.InGroup() {
		return nil, common.ErrNoGroup
	}
	return s.repo.MonthlyLeaderboard(ctx, *member.GroupID, month)
}

// GroupLeaderboard возвращает таблицу лидеров по ID группы.
// Используется планировщиком для объявления в чат группы.
func (s *Service) GroupLeaderboard(ctx context.Context, groupID int64, month string) ([]*LeaderboardRow, error) {
	return s.repo.MonthlyLeaderboard(ctx, groupID, month)
}

// MyStats возвращает личную статистику пользователя за месяц.
func (s *Service) MyStats(ctx context.Context, userID int64, month string) (*UserMonthStats, error) {
	return s.repo.UserMonthStats(ctx, userID, month)
}
