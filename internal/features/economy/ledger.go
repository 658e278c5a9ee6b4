// Package economy — ledger.go содержит примитивы движения средств,
// работающие ВНУТРИ чужой транзакции pgx. Их используют репозитории
// habits, rewards и mall, чтобы многошаговые мутации (списать у покупателя,
// зачислить продавцу, записать журнал) были атомарными.
//
// Имена колонок подставляются через points.PointType.Column() —
// перечисление закрытое, инъекция невозможна.
package economy

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"privychka.ru/rewards-bot/internal/common"
	"privychka.ru/rewards-bot/internal/features/points"
)

// LockWalletTx читает кошелёк пользователя с блокировкой строки (FOR UPDATE).
// Вызывается перед любым списанием, чтобы проверка и списание
// видели одно и то же состояние.
func LockWalletTx(ctx context.Context, tx pgx.Tx, userID int64) (*Wallet, error) {
	query := `
		SELECT points_physical, points_arts, points_food_related,
		       points_educational, points_other, coins
		FROM users
		WHERE telegram_id = $1
		FOR UPDATE
	`
	w := &Wallet{UserID: userID, Points: points.Balances{}}
	var physical, arts, food, edu, other int64
	err := tx.QueryRow(ctx, query, userID).Scan(&physical, &arts, &food, &edu, &other, &w.Coins)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка чтения кошелька (user_id=%d): %w", userID, err)
	}
	w.Points[points.Physical] = physical
	w.Points[points.Arts] = arts
	w.Points[points.FoodRelated] = food
	w.Points[points.Educational] = edu
	w.Points[points.Other] = other
	return w, nil
}

// AddPointsTx изменяет баланс очков типа t на delta (может быть отрицательной).
// Проверка достаточности средств — обязанность вызывающего (через LockWalletTx).
func AddPointsTx(ctx context.Context, tx pgx.Tx, userID int64, t points.PointType, delta int64) error {
	col := t.Column()
	query := fmt.Sprintf(`UPDATE users SET %s = %s + $2 WHERE telegram_id = $1`, col, col)
	tag, err := tx.Exec(ctx, query, userID, delta)
	if err != nil {
		return fmt.Errorf("ошибка изменения очков %s: %w", t, err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrUserNotFound
	}
	return nil
}

// AddCoinsTx изменяет баланс монет на delta (может быть отрицательной и дробной).
func AddCoinsTx(ctx context.Context, tx pgx.Tx, userID int64, delta float64) error {
	tag, err := tx.Exec(ctx,
		`UPDATE users SET coins = coins + $2 WHERE telegram_id = $1`, userID, delta,
	)
	if err != nil {
		return fmt.Errorf("ошибка изменения монет: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrUserNotFound
	}
	return nil
}

// LogTx записывает операцию в журнал transactions.
// pt == nil означает операцию с монетами.
func LogTx(ctx context.Context, tx pgx.Tx, from, to *int64, pt *points.PointType, amount float64, txType, description string) error {
	var ptStr *string
	if pt != nil {
		s := string(*pt)
		ptStr = &s
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO transactions (from_user_id, to_user_id, point_type, amount, transaction_type, description)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, from, to, ptStr, amount, txType, description)
	if err != nil {
		return fmt.Errorf("ошибка записи журнала операций: %w", err)
	}
	return nil
}
