// Package economy — service.go содержит бизнес-логику экономики:
// чтение кошелька, конвертация очков, история операций.
package economy

import (
	"context"

	log "github.com/sirupsen/logrus"

	"privychka.ru/rewards-bot/internal/config"
	"privychka.ru/rewards-bot/internal/features/points"
	"privychka.ru/rewards-bot/internal/features/streaks"
)

// Service управляет экономикой бота (очки и монеты).
type Service struct {
	repo    *Repository
	streaks *streaks.Service // для подсчёта медалей (курс конвертации)
	cfg     *config.Config
}

// NewService создаёт новый сервис экономики.
func NewService(repo *Repository, streakService *streaks.Service, cfg *config.Config) *Service {
	return &Service{repo: repo, streaks: streakService, cfg: cfg}
}

// GetWallet возвращает все балансы пользователя.
func (s *Service) GetWallet(ctx context.Context, userID int64) (*Wallet, error) {
	return s.repo.GetWallet(ctx, userID)
}

// RateFor возвращает текущий курс конвертации пользователя:
// 2:1 обычно, 1.5:1 при трёх и более медалях.
func (s *Service) RateFor(ctx context.Context, userID int64) (float64, error) {
	medals, err := s.streaks.MedalCount(ctx, userID)
	if err != nil {
		return 0, err
	}
	return Rate(medals, s.cfg.MedalsForBetterRate), nil
}

// Convert конвертирует amount очков типа from в очки типа to
// по текущему курсу пользователя. Возвращает зачисленную сумму.
//
// Любое нарушение (одинаковые типы, некратная шагу сумма, нехватка
// очков) — common.ErrInvalidConversion, балансы не меняются.
func (s *Service) Convert(ctx context.Context, userID int64, from, to points.PointType, amount int64) (int64, error) {
	rate, err := s.RateFor(ctx, userID)
	if err != nil {
		return 0, err
	}

	w, err := s.repo.GetWallet(ctx, userID)
	if err != nil {
		return 0, err
	}

	credit, err := PlanConversion(from, to, amount, rate, w.Points[from])
	if err != nil {
		return 0, err
	}

	// Репозиторий повторяет проверку баланса под блокировкой строки
	if err := s.repo.Convert(ctx, userID, from, to, amount, credit); err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"from":    from,
		"to":      to,
		"amount":  amount,
		"credit":  credit,
		"rate":    rate,
	}).Info("Конвертация выполнена")

	return credit, nil
}

// History возвращает последние limit записей журнала операций пользователя.
func (s *Service) History(ctx context.Context, userID int64, limit int) ([]*Transaction, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.GetTransactions(ctx, userID, limit)
}
