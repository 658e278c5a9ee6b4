package rewards

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"privychka.ru/rewards-bot/internal/common"
	"privychka.ru/rewards-bot/internal/features/economy"
	"privychka.ru/rewards-bot/internal/features/points"
)

// Repository предоставляет методы для работы с наградами и их покупкой.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий наград.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create добавляет награду в магазин пользователя.
func (r *Repository) Create(ctx context.Context, ownerID int64, name string, price int64, rt points.RewardType) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO rewards (owner_id, name, price, point_type, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id
	`, ownerID, name, price, rt.String()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания награды: %w", err)
	}
	return id, nil
}

// GetByID возвращает награду (включая деактивированные).
func (r *Repository) GetByID(ctx context.Context, rewardID int64) (*Reward, error) {
	var rw Reward
	var rawType string
	err := r.db.QueryRow(ctx,
		`SELECT id, owner_id, name, price, point_type, is_active FROM rewards WHERE id = $1`,
		rewardID,
	).Scan(&rw.ID, &rw.OwnerID, &rw.Name, &rw.Price, &rawType, &rw.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrRewardNotFound
		}
		return nil, fmt.Errorf("ошибка чтения награды (id=%d): %w", rewardID, err)
	}
	rt, err := points.ParseRewardType(rawType)
	if err != nil {
		return nil, fmt.Errorf("повреждённый тип награды (id=%d): %w", rewardID, err)
	}
	rw.Type = rt
	return &rw, nil
}

// GetOwnerRewards возвращает активные награды магазина пользователя.
func (r *Repository) GetOwnerRewards(ctx context.Context, ownerID int64) ([]*Reward, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, owner_id, name, price, point_type, is_active
		FROM rewards
		WHERE owner_id = $1 AND is_active
		ORDER BY id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения наград: %w", err)
	}
	defer rows.Close()
	return scanRewards(rows)
}

// Deactivate убирает награду с витрины. Запись остаётся ради журнала покупок.
func (r *Repository) Deactivate(ctx context.Context, rewardID, ownerID int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE rewards SET is_active = FALSE WHERE id = $1 AND owner_id = $2`,
		rewardID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("ошибка деактивации награды: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrRewardNotFound
	}
	return nil
}

// Purchase атомарно проводит покупку награды: блокирует кошелёк
// покупателя, строит разбивку оплаты по актуальным балансам, списывает
// очки по типам, зачисляет продавцу цену МОНЕТАМИ и пишет журнал.
// Очки между пользователями никогда не передаются.
//
// alloc задаёт явную разбивку для наград типа «любые»; nil означает
// авторазложение (а для фиксированного типа игнорируется).
// Запрет покупки собственной награды проверяется в сервисном слое.
func (r *Repository) Purchase(ctx context.Context, buyerID int64, reward *Reward, alloc points.Balances) (*PurchaseResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	wallet, err := economy.LockWalletTx(ctx, tx, buyerID)
	if err != nil {
		return nil, err
	}

	plan, err := PlanPurchase(reward, alloc, wallet.Points)
	if err != nil {
		return nil, err
	}

	for _, pt := range points.All {
		amount := plan[pt]
		if amount == 0 {
			continue
		}
		if err := economy.AddPointsTx(ctx, tx, buyerID, pt, -amount); err != nil {
			return nil, err
		}
	}
	price := float64(reward.Price)
	if err := economy.AddCoinsTx(ctx, tx, reward.OwnerID, price); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO reward_purchases (reward_id, buyer_id, seller_id, price, point_type)
		VALUES ($1, $2, $3, $4, $5)
	`, reward.ID, buyerID, reward.OwnerID, reward.Price, reward.Type.String()); err != nil {
		return nil, fmt.Errorf("ошибка записи журнала покупок: %w", err)
	}

	// Две строки журнала: списание очков у покупателя (по типам)
	// и зачисление монет продавцу
	for _, pt := range points.All {
		amount := plan[pt]
		if amount == 0 {
			continue
		}
		t := pt
		if err := economy.LogTx(ctx, tx, &buyerID, &reward.OwnerID, &t, float64(amount),
			economy.TxTypeRewardPurchase, fmt.Sprintf("Покупка награды «%s»", reward.Name)); err != nil {
			return nil, err
		}
	}
	if err := economy.LogTx(ctx, tx, &buyerID, &reward.OwnerID, nil, price,
		economy.TxTypeRewardSale, fmt.Sprintf("Продажа награды «%s»", reward.Name)); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return &PurchaseResult{Reward: reward, Spent: plan, CoinsPaid: price}, nil
}

// GetPurchases возвращает историю покупок пользователя (как покупателя).
func (r *Repository) GetPurchases(ctx context.Context, buyerID int64, limit int) ([]*Purchase, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, reward_id, buyer_id, seller_id, price, point_type, purchased_at
		FROM reward_purchases
		WHERE buyer_id = $1
		ORDER BY purchased_at DESC
		LIMIT $2
	`, buyerID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения истории покупок: %w", err)
	}
	defer rows.Close()

	var out []*Purchase
	for rows.Next() {
		var p Purchase
		var rawType string
		if err := rows.Scan(&p.ID, &p.RewardID, &p.BuyerID, &p.SellerID, &p.Price, &rawType, &p.PurchasedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования покупки: %w", err)
		}
		rt, err := points.ParseRewardType(rawType)
		if err != nil {
			return nil, err
		}
		p.Type = rt
		out = append(out, &p)
	}
	return out, rows.Err()
}

func scanRewards(rows pgx.Rows) ([]*Reward, error) {
	var out []*Reward
	for rows.Next() {
		var rw Reward
		var rawType string
		if err := rows.Scan(&rw.ID, &rw.OwnerID, &rw.Name, &rw.Price, &rawType, &rw.IsActive); err != nil {
			return nil, fmt.Errorf("ошибка сканирования награды: %w", err)
		}
		rt, err := points.ParseRewardType(rawType)
		if err != nil {
			return nil, err
		}
		rw.Type = rt
		out = append(out, &rw)
	}
	return out, rows.Err()
}
