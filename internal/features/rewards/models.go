// Package rewards реализует магазин наград между участниками группы:
// пользователь выставляет награду за очки, сосед по группе покупает её,
// а продавец получает эквивалент монетами.
package rewards

import (
	"time"

	"privychka.ru/rewards-bot/internal/features/points"
)

// Reward — награда, выставленная пользователем в своём магазине.
// Награды не удаляются физически, только деактивируются.
type Reward struct {
	ID       int64
	OwnerID  int64
	Name     string
	Price    int64
	Type     points.RewardType
	IsActive bool
}

// Purchase — запись о покупке награды (неизменяемый журнал).
type Purchase struct {
	ID          int64
	RewardID    int64
	BuyerID     int64
	SellerID    int64
	Price       int64
	Type        points.RewardType
	PurchasedAt time.Time
}

// PurchaseResult описывает, чем именно была оплачена покупка.
type PurchaseResult struct {
	Reward    *Reward
	Spent     points.Balances // списано с покупателя по типам
	CoinsPaid float64         // зачислено продавцу монетами
}
