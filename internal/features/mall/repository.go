package mall

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"privychka.ru/rewards-bot/internal/common"
	"privychka.ru/rewards-bot/internal/features/economy"
)

// Repository предоставляет методы для работы с общим магазином.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий общего магазина.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create добавляет товар в магазин.
func (r *Repository) Create(ctx context.Context, name string, price float64, stock int64, photoFileID string, sponsorID *int64) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO mall_items (name, price, stock, photo_file_id, sponsor_id, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING id
	`, name, price, stock, photoFileID, sponsorID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания товара: %w", err)
	}
	return id, nil
}

// GetByID возвращает товар по ID.
func (r *Repository) GetByID(ctx context.Context, itemID int64) (*Item, error) {
	var it Item
	err := r.db.QueryRow(ctx, `
		SELECT id, name, price, stock, COALESCE(photo_file_id, ''), sponsor_id, is_active
		FROM mall_items WHERE id = $1
	`, itemID).Scan(&it.ID, &it.Name, &it.Price, &it.Stock, &it.PhotoFileID, &it.SponsorID, &it.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrItemNotFound
		}
		return nil, fmt.Errorf("ошибка чтения товара (id=%d): %w", itemID, err)
	}
	return &it, nil
}

// GetActive возвращает товары на витрине.
func (r *Repository) GetActive(ctx context.Context) ([]*Item, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, price, stock, COALESCE(photo_file_id, ''), sponsor_id, is_active
		FROM mall_items
		WHERE is_active
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения товаров: %w", err)
	}
	defer rows.Close()

	var out []*Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.Stock, &it.PhotoFileID, &it.SponsorID, &it.IsActive); err != nil {
			return nil, fmt.Errorf("ошибка сканирования товара: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

// Update меняет цену и остаток товара.
func (r *Repository) Update(ctx context.Context, itemID int64, price float64, stock int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE mall_items SET price = $2, stock = $3 WHERE id = $1`,
		itemID, price, stock,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления товара: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrItemNotFound
	}
	return nil
}

// Deactivate снимает товар с витрины.
func (r *Repository) Deactivate(ctx context.Context, itemID int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE mall_items SET is_active = FALSE WHERE id = $1`, itemID,
	)
	if err != nil {
		return fmt.Errorf("ошибка деактивации товара: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrItemNotFound
	}
	return nil
}

// Purchase атомарно покупает товар за монеты: блокирует строку товара
// и кошелёк покупателя, проверяет остаток и баланс, списывает монеты,
// уменьшает остаток и пишет журнал.
func (r *Repository) Purchase(ctx context.Context, buyerID, itemID int64) (*Item, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var it Item
	err = tx.QueryRow(ctx, `
		SELECT id, name, price, stock, COALESCE(photo_file_id, ''), sponsor_id, is_active
		FROM mall_items WHERE id = $1
		FOR UPDATE
	`, itemID).Scan(&it.ID, &it.Name, &it.Price, &it.Stock, &it.PhotoFileID, &it.SponsorID, &it.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrItemNotFound
		}
		return nil, fmt.Errorf("ошибка чтения товара (id=%d): %w", itemID, err)
	}
	if !it.IsActive {
		return nil, common.ErrItemNotFound
	}
	if !it.InStock() {
		return nil, common.ErrOutOfStock
	}

	wallet, err := economy.LockWalletTx(ctx, tx, buyerID)
	if err != nil {
		return nil, err
	}
	if wallet.Coins < it.Price {
		return nil, common.ErrInsufficientFunds
	}

	if err := economy.AddCoinsTx(ctx, tx, buyerID, -it.Price); err != nil {
		return nil, err
	}
	if it.Stock != UnlimitedStock {
		if _, err := tx.Exec(ctx,
			`UPDATE mall_items SET stock = stock - 1 WHERE id = $1`, itemID,
		); err != nil {
			return nil, fmt.Errorf("ошибка списания остатка: %w", err)
		}
		it.Stock--
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO mall_purchases (item_id, buyer_id, price)
		VALUES ($1, $2, $3)
	`, itemID, buyerID, it.Price); err != nil {
		return nil, fmt.Errorf("ошибка записи журнала покупок: %w", err)
	}

	if err := economy.LogTx(ctx, tx, &buyerID, nil, nil, it.Price,
		economy.TxTypeMallPurchase, fmt.Sprintf("Покупка товара «%s»", it.Name)); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return &it, nil
}

// GetPurchases возвращает последние покупки пользователя в магазине.
func (r *Repository) GetPurchases(ctx context.Context, buyerID int64, limit int) ([]*Purchase, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, item_id, buyer_id, price, purchased_at
		FROM mall_purchases
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
		if err := rows.Scan(&p.ID, &p.ItemID, &p.BuyerID, &p.Price, &p.PurchasedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования покупки: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
