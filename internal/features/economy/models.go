// Package economy управляет двумя валютами бота: типизированными очками
// и монетами. models.go описывает структуры для кошелька и журнала операций.
package economy

import (
	"time"

	"privychka.ru/rewards-bot/internal/features/points"
)

// Wallet — все балансы одного пользователя.
// Очки лежат в пяти колонках строки users, монеты — в шестой.
// Монеты могут быть дробными: медальная выплата — 0.5 монеты за отметку.
type Wallet struct {
	UserID int64
	Points points.Balances
	Coins  float64
}

// Transaction представляет одну запись журнала операций.
// Любое движение очков или монет записывается сюда в той же
// транзакции БД, что и само движение.
type Transaction struct {
	ID         int64             `db:"id"`
	FromUserID *int64            `db:"from_user_id"` // Отправитель (nil для системных начислений)
	ToUserID   *int64            `db:"to_user_id"`   // Получатель (nil для системных списаний)
	PointType  *points.PointType `db:"point_type"`   // Тип очков (nil — операция с монетами)
	Amount     float64           `db:"amount"`       // Сумма (всегда положительная)
	TxType     string            `db:"transaction_type"`
	Description string           `db:"description"`
	CreatedAt  time.Time         `db:"created_at"`
}

// Типы записей журнала операций
const (
	TxTypeHabitReward      = "habit_reward"       // +1 очко за отметку привычки
	TxTypeHabitRewardUndo  = "habit_reward_undo"  // откат очка при снятии отметки
	TxTypeMedalCoin        = "medal_coin"         // +0.5 монеты за отметку с медалью
	TxTypeMedalCoinUndo    = "medal_coin_undo"    // откат монет при снятии отметки
	TxTypeConversion       = "conversion"         // конвертация очков между типами
	TxTypeRewardPurchase   = "reward_purchase"    // списание очков у покупателя награды
	TxTypeRewardSale       = "reward_sale"        // зачисление монет продавцу награды
	TxTypeMallPurchase     = "mall_purchase"      // покупка на ярмарке за монеты
	TxTypeGroupAchievement = "group_achievement"  // бонус за групповое достижение
	TxTypeHabitDeleted     = "habit_delete_undo"  // откат очков при удалении привычки
)
