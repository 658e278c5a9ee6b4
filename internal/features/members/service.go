// Package members — service.go содержит бизнес-логику работы с пользователями.
package members

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Service управляет пользователями.
type Service struct {
	repo *Repository
}

// NewService создаёт новый сервис пользователей.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// EnsureMember регистрирует пользователя при первом контакте
// (или обновляет имя/username, если он уже есть).
func (s *Service) EnsureMember(ctx context.Context, telegramID int64, username, firstName string) error {
	if err := s.repo.Upsert(ctx, telegramID, username, firstName); err != nil {
		log.WithError(err).WithField("user_id", telegramID).Error("Ошибка регистрации пользователя")
		return err
	}
	return nil
}

// Get возвращает пользователя по Telegram ID.
func (s *Service) Get(ctx context.Context, telegramID int64) (*Member, error) {
	return s.repo.GetByTelegramID(ctx, telegramID)
}

// GetByUsername возвращает пользователя по @username.
func (s *Service) GetByUsername(ctx context.Context, username string) (*Member, error) {
	return s.repo.GetByUsername(ctx, username)
}

// JoinGroup записывает пользователя в группу.
func (s *Service) JoinGroup(ctx context.Context, telegramID, groupID int64) error {
	return s.repo.SetGroup(ctx, telegramID, groupID)
}

// GroupMembers возвращает всех участников группы.
func (s *Service) GroupMembers(ctx context.Context, groupID int64) ([]*Member, error) {
	return s.repo.GetGroupMembers(ctx, groupID)
}
