// Package members — repository.go отвечает за все операции с таблицей users в БД.
package members

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"privychka.ru/rewards-bot/internal/common"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Upsert добавляет нового пользователя или обновляет имя/username существующего.
// Балансы и группу конфликт не трогает.
func (r *Repository) Upsert(ctx context.Context, telegramID int64, username, firstName string) error {
	query := `
		INSERT INTO users (telegram_id, username, first_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (telegram_id) DO UPDATE
		SET username = EXCLUDED.username,
		    first_name = EXCLUDED.first_name
	`
	if _, err := r.db.Exec(ctx, query, telegramID, username, firstName); err != nil {
		return fmt.Errorf("ошибка создания/обновления пользователя: %w", err)
	}
	return nil
}

// GetByTelegramID возвращает пользователя.
// Если не найден — common.ErrUserNotFound.
func (r *Repository) GetByTelegramID(ctx context.Context, telegramID int64) (*Member, error) {
	query := `
		SELECT telegram_id, username, first_name, group_id, joined_at
		FROM users
		WHERE telegram_id = $1
	`
	var m Member
	err := r.db.QueryRow(ctx, query, telegramID).Scan(
		&m.TelegramID, &m.Username, &m.FirstName, &m.GroupID, &m.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка чтения пользователя (telegram_id=%d): %w", telegramID, err)
	}
	return &m, nil
}

// GetByUsername ищет пользователя по @username (без учёта регистра).
func (r *Repository) GetByUsername(ctx context.Context, username string) (*Member, error) {
	query := `
		SELECT telegram_id, username, first_name, group_id, joined_at
		FROM users
		WHERE LOWER(username) = LOWER($1)
	`
	var m Member
	err := r.db.QueryRow(ctx, query, username).Scan(
		&m.TelegramID, &m.Username, &m.FirstName, &m.GroupID, &m.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка чтения пользователя (username=%s): %w", username, err)
	}
	return &m, nil
}

// SetGroup записывает членство пользователя в группе.
func (r *Repository) SetGroup(ctx context.Context, telegramID, groupID int64) error {
	query := `UPDATE users SET group_id = $2 WHERE telegram_id = $1`
	tag, err := r.db.Exec(ctx, query, telegramID, groupID)
	if err != nil {
		return fmt.Errorf("ошибка вступления в группу: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrUserNotFound
	}
	return nil
}

// GetGroupMembers возвращает всех участников группы.
func (r *Repository) GetGroupMembers(ctx context.Context, groupID int64) ([]*Member, error) {
	query := `
		SELECT telegram_id, username, first_name, group_id, joined_at
		FROM users
		WHERE group_id = $1
		ORDER BY joined_at
	`
	rows, err := r.db.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения участников группы: %w", err)
	}
	defer rows.Close()

	var out []*Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.TelegramID, &m.Username, &m.FirstName, &m.GroupID, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования участника: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
