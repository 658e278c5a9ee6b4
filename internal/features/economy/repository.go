// Package economy — repository.go выполняет операции с кошельками
// и журналом транзакций. Все денежные операции выполняются
// в транзакциях БД для целостности данных.
package economy

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"privychka.ru/rewards-bot/internal/common"
	"privychka.ru/rewards-bot/internal/features/points"
)

// Repository предоставляет методы для работы с балансами и журналом операций.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий экономики.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetWallet возвращает все балансы пользователя (без блокировки).
func (r *Repository) GetWallet(ctx context.Context, userID int64) (*Wallet, error) {
	query := `
		SELECT points_physical, points_arts, points_food_related,
		       points_educational, points_other, coins
		FROM users
		WHERE telegram_id = $1
	`
	w := &Wallet{UserID: userID, Points: points.Balances{}}
	var physical, arts, food, edu, other int64
	err := r.db.QueryRow(ctx, query, userID).Scan(&physical, &arts, &food, &edu, &other, &w.Coins)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка чтения кошелька: %w", err)
	}
	w.Points[points.Physical] = physical
	w.Points[points.Arts] = arts
	w.Points[points.FoodRelated] = food
	w.Points[points.Educational] = edu
	w.Points[points.Other] = other
	return w, nil
}

// Convert атомарно переводит amount очков типа from в credit очков типа to.
// Проверка баланса выполняется под блокировкой строки.
func (r *Repository) Convert(ctx context.Context, userID int64, from, to points.PointType, amount, credit int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	w, err := LockWalletTx(ctx, tx, userID)
	if err != nil {
		return err
	}
	if w.Points[from] < amount {
		return common.ErrInvalidConversion
	}

	if err := AddPointsTx(ctx, tx, userID, from, -amount); err != nil {
		return err
	}
	if err := AddPointsTx(ctx, tx, userID, to, credit); err != nil {
		return err
	}

	desc := fmt.Sprintf("Конвертация %d %s → %d %s", amount, from, credit, to)
	if err := LogTx(ctx, tx, &userID, &userID, &from, float64(amount), TxTypeConversion, desc); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetTransactions возвращает последние N записей журнала пользователя.
// Включает как входящие, так и исходящие операции.
func (r *Repository) GetTransactions(ctx context.Context, userID int64, limit int) ([]*Transaction, error) {
	query := `
		SELECT id, from_user_id, to_user_id, point_type, amount, transaction_type, description, created_at
		FROM transactions
		WHERE from_user_id = $1 OR to_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения журнала операций: %w", err)
	}
	defer rows.Close()

	var out []*Transaction
	for rows.Next() {
		var t Transaction
		var ptStr *string
		if err := rows.Scan(&t.ID, &t.FromUserID, &t.ToUserID, &ptStr, &t.Amount,
			&t.TxType, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи журнала: %w", err)
		}
		if ptStr != nil {
			pt := points.PointType(*ptStr)
			t.PointType = &pt
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}
