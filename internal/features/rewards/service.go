package rewards

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"privychka.ru/rewards-bot/internal/common"
	"privychka.ru/rewards-bot/internal/features/members"
	"privychka.ru/rewards-bot/internal/features/points"
)

// Service содержит бизнес-логику магазина наград.
type Service struct {
	repo    *Repository
	members *members.Service
	log     *logrus.Logger
}

// NewService создаёт новый сервис наград.
func NewService(repo *Repository, membersSvc *members.Service, log *logrus.Logger) *Service {
	return &Service{repo: repo, members: membersSvc, log: log}
}

// Create выставляет награду в магазин пользователя.
func (s *Service) Create(ctx context.Context, ownerID int64, name string, price int64, rt points.RewardType) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" || price <= 0 {
		return 0, common.ErrInvalidAmount
	}
	id, err := s.repo.Create(ctx, ownerID, name, price, rt)
	if err != nil {
		return 0, err
	}
	s.log.WithFields(logrus.Fields{
		"owner_id":  ownerID,
		"reward_id": id,
		"price":     price,
		"type":      rt.String(),
	}).Infof("Выставлена награда «%s»", name)
	return id, nil
}

// Shop возвращает активные награды магазина пользователя.
func (s *Service) Shop(ctx context.Context, ownerID int64) ([]*Reward, error) {
	return s.repo.GetOwnerRewards(ctx, ownerID)
}

// Remove убирает награду с витрины. Разрешено только владельцу.
func (s *Service) Remove(ctx context.Context, rewardID, ownerID int64) error {
	return s.repo.Deactivate(ctx, rewardID, ownerID)
}

// Buy покупает награду. Для наград типа «любые» alloc задаёт явную
// разбивку оплаты; nil означает жадное авторазложение.
// Покупку собственной награды отклоняем здесь: Repository.Purchase
// этого не проверяет.
func (s *Service) Buy(ctx context.Context, buyerID, rewardID int64, alloc points.Balances) (*PurchaseResult, error) {
	reward, err := s.repo.GetByID(ctx, rewardID)
	if err != nil {
		return nil, err
	}
	if !reward.IsActive {
		return nil, common.ErrRewardNotFound
	}
	if reward.OwnerID == buyerID {
		return nil, common.ErrSelfPurchase
	}

	// Покупатель и продавец должны быть в одной группе
	buyer, err := s.members.Get(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	seller, err := s.members.Get(ctx, reward.OwnerID)
	if err != nil {
		return nil, err
	}
	if !buyer.InGroup() || !seller.InGroup() || *buyer.GroupID != *seller.GroupID {
		return nil, common.ErrNoGroup
	}

	res, err := s.repo.Purchase(ctx, buyerID, reward, alloc)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"buyer_id":  buyerID,
		"seller_id": reward.OwnerID,
		"reward_id": rewardID,
		"price":     reward.Price,
	}).Infof("Куплена награда «%s»", reward.Name)
	return res, nil
}

// History возвращает последние покупки пользователя.
func (s *Service) History(ctx context.Context, buyerID int64, limit int) ([]*Purchase, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.GetPurchases(ctx, buyerID, limit)
}
