// Package groups — service.go содержит бизнес-логику групп.
package groups

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Service управляет группами.
type Service struct {
	repo *Repository
}

// NewService создаёт новый сервис групп.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create создаёт группу с непустым именем.
func (s *Service) Create(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("пустое имя группы")
	}
	id, err := s.repo.Create(ctx, name)
	if err != nil {
		return 0, err
	}
	log.WithFields(log.Fields{"group_id": id, "name": name}).Info("Группа создана")
	return id, nil
}

// Get возвращает группу по ID.
func (s *Service) Get(ctx context.Context, id int64) (*Group, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByName возвращает группу по имени.
func (s *Service) GetByName(ctx context.Context, name string) (*Group, error) {
	return s.repo.GetByName(ctx, strings.TrimSpace(name))
}

// GetByChatID возвращает группу, к которой привязан чат.
func (s *Service) GetByChatID(ctx context.Context, chatID int64) (*Group, error) {
	return s.repo.GetByChatID(ctx, chatID)
}

// ListLinked возвращает группы с привязанным чатом объявлений.
func (s *Service) ListLinked(ctx context.Context) ([]*Group, error) {
	return s.repo.ListLinked(ctx)
}

// LinkChat привязывает чат объявлений к группе.
// Объявления доставляются «как получится»: если чат не привязан
// или отправка не удалась, ledger-операции это не затрагивает.
func (s *Service) LinkChat(ctx context.Context, groupID, chatID int64) error {
	return s.repo.SetGroupChat(ctx, groupID, chatID)
}
