package mall

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"privychka.ru/rewards-bot/internal/common"
	"privychka.ru/rewards-bot/internal/features/admin"
)

// Service содержит бизнес-логику общего магазина.
// Управление товарами требует административной сессии.
type Service struct {
	repo  *Repository
	admin *admin.Service
	log   *logrus.Logger
}

// NewService создаёт новый сервис общего магазина.
func NewService(repo *Repository, adminSvc *admin.Service, log *logrus.Logger) *Service {
	return &Service{repo: repo, admin: adminSvc, log: log}
}

// Items возвращает товары на витрине.
func (s *Service) Items(ctx context.Context) ([]*Item, error) {
	return s.repo.GetActive(ctx)
}

// Item возвращает товар по ID.
func (s *Service) Item(ctx context.Context, itemID int64) (*Item, error) {
	return s.repo.GetByID(ctx, itemID)
}

// AddItem добавляет товар. Только для администратора.
func (s *Service) AddItem(ctx context.Context, actorID int64, name string, price float64, stock int64, photoFileID string, sponsorID *int64) (int64, error) {
	if err := s.admin.Require(actorID); err != nil {
		return 0, err
	}
	name = strings.TrimSpace(name)
	if name == "" || price <= 0 {
		return 0, common.ErrInvalidAmount
	}
	if stock < UnlimitedStock {
		stock = UnlimitedStock
	}
	id, err := s.repo.Create(ctx, name, price, stock, photoFileID, sponsorID)
	if err != nil {
		return 0, err
	}
	s.log.WithFields(logrus.Fields{
		"item_id": id,
		"price":   price,
		"stock":   stock,
	}).Infof("Добавлен товар «%s»", name)
	return id, nil
}

// UpdateItem меняет цену и остаток товара. Только для администратора.
func (s *Service) UpdateItem(ctx context.Context, actorID, itemID int64, price float64, stock int64) error {
	if err := s.admin.Require(actorID); err != nil {
		return err
	}
	if price <= 0 {
		return common.ErrInvalidAmount
	}
	return s.repo.Update(ctx, itemID, price, stock)
}

// RemoveItem снимает товар с витрины. Только для администратора.
func (s *Service) RemoveItem(ctx context.Context, actorID, itemID int64) error {
	if err := s.admin.Require(actorID); err != nil {
		return err
	}
	return s.repo.Deactivate(ctx, itemID)
}

// Buy покупает товар за монеты. Возвращает товар после покупки
// (с учтённым остатком), чтобы вызывающий слой мог уведомить спонсора.
func (s *Service) Buy(ctx context.Context, buyerID, itemID int64) (*Item, error) {
	it, err := s.repo.Purchase(ctx, buyerID, itemID)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"buyer_id": buyerID,
		"item_id":  itemID,
		"price":    it.Price,
	}).Infof("Куплен товар «%s»", it.Name)
	return it, nil
}

// History возвращает последние покупки пользователя.
func (s *Service) History(ctx context.Context, buyerID int64, limit int) ([]*Purchase, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.GetPurchases(ctx, buyerID, limit)
}
