// Package groups — repository.go выполняет операции с таблицей groups.
package groups

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

// Create создаёт группу и возвращает её ID.
func (r *Repository) Create(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO groups (name) VALUES ($1) RETURNING id`, name,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания группы: %w", err)
	}
	return id, nil
}

// GetByID возвращает группу. Если не найдена — common.ErrGroupNotFound.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Group, error) {
	var g Group
	err := r.db.QueryRow(ctx,
		`SELECT id, name, group_chat_id, created_at FROM groups WHERE id = $1`, id,
	).Scan(&g.ID, &g.Name, &g.GroupChatID, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrGroupNotFound
		}
		return nil, fmt.Errorf("ошибка чтения группы (id=%d): %w", id, err)
	}
	return &g, nil
}

// GetByName ищет группу по имени (без учёта регистра).
func (r *Repository) GetByName(ctx context.Context, name string) (*Group, error) {
	var g Group
	err := r.db.QueryRow(ctx,
		`SELECT id, name, group_chat_id, created_at FROM groups WHERE LOWER(name) = LOWER($1)`, name,
	).Scan(&g.ID, &g.Name, &g.GroupChatID, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrGroupNotFound
		}
		return nil, fmt.Errorf("ошибка чтения группы (name=%s): %w", name, err)
	}
	return &g, nil
}

// GetByChatID ищет группу по привязанному чату объявлений.
func (r *Repository) GetByChatID(ctx context.Context, chatID int64) (*Group, error) {
	var g Group
	err := r.db.QueryRow(ctx,
		`SELECT id, name, group_chat_id, created_at FROM groups WHERE group_chat_id = $1`, chatID,
	).Scan(&g.ID, &g.Name, &g.GroupChatID, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrGroupNotFound
		}
		return nil, fmt.Errorf("ошибка поиска группы по чату (chat_id=%d): %w", chatID, err)
	}
	return &g, nil
}

// ListLinked возвращает группы с привязанным чатом объявлений.
// Используется кроном месячных итогов.
func (r *Repository) ListLinked(ctx context.Context) ([]*Group, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, group_chat_id, created_at FROM groups WHERE group_chat_id IS NOT NULL`,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения групп с чатами: %w", err)
	}
	defer rows.Close()

	var out []*Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name, &g.GroupChatID, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования группы: %w", err)
		}
		out = append(out, &g)
	}
	return out, rows.Err()
}

// SetGroupChat привязывает чат объявлений к группе.
func (r *Repository) SetGroupChat(ctx context.Context, groupID, chatID int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE groups SET group_chat_id = $2 WHERE id = $1`, groupID, chatID,
	)
	if err != nil {
		return fmt.Errorf("ошибка привязки чата: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrGroupNotFound
	}
	return nil
}
