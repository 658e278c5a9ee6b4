// Package streaks — repository.go выполняет операции с таблицами streaks и medals.
// Методы с суффиксом Tx работают внутри транзакции, открытой репозиторием
// привычек: обновление стрика и выдача медали происходят атомарно с отметкой.
package streaks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository предоставляет методы для работы со стриками и медалями.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий стриков.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetStreakTx читает стрик с блокировкой строки.
// Возвращает (nil, nil), если записи ещё нет.
func GetStreakTx(ctx context.Context, tx pgx.Tx, userID, habitID int64) (*Streak, error) {
	query := `
		SELECT id, user_id, habit_id, current_streak, best_streak,
		       last_completion_date, announced_7, announced_15, announced_30
		FROM streaks
		WHERE user_id = $1 AND habit_id = $2
		FOR UPDATE
	`
	var s Streak
	err := tx.QueryRow(ctx, query, userID, habitID).Scan(
		&s.ID, &s.UserID, &s.HabitID, &s.CurrentStreak, &s.BestStreak,
		&s.LastCompletionDate, &s.Announced7, &s.Announced15, &s.Announced30,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка чтения стрика: %w", err)
	}
	return &s, nil
}

// SaveStreakTx сохраняет состояние стрика (вставка или обновление).
func SaveStreakTx(ctx context.Context, tx pgx.Tx, userID, habitID int64, st State) error {
	query := `
		INSERT INTO streaks (user_id, habit_id, current_streak, best_streak,
		                     last_completion_date, announced_7, announced_15, announced_30)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, habit_id) DO UPDATE
		SET current_streak = EXCLUDED.current_streak,
		    best_streak = EXCLUDED.best_streak,
		    last_completion_date = EXCLUDED.last_completion_date,
		    announced_7 = EXCLUDED.announced_7,
		    announced_15 = EXCLUDED.announced_15,
		    announced_30 = EXCLUDED.announced_30
	`
	var last *time.Time
	if st.LastDate != nil {
		last = st.LastDate
	}
	_, err := tx.Exec(ctx, query, userID, habitID, st.Current, st.Best, last,
		st.Announced[0], st.Announced[1], st.Announced[2])
	if err != nil {
		return fmt.Errorf("ошибка сохранения стрика: %w", err)
	}
	return nil
}

// DeleteByHabitTx удаляет все стрики привычки (каскад удаления привычки).
func DeleteByHabitTx(ctx context.Context, tx pgx.Tx, habitID int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM streaks WHERE habit_id = $1`, habitID); err != nil {
		return fmt.Errorf("ошибка удаления стриков привычки: %w", err)
	}
	return nil
}

// HasMedalTx проверяет наличие медали за привычку.
func HasMedalTx(ctx context.Context, tx pgx.Tx, userID, habitID int64) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM medals WHERE user_id = $1 AND habit_id = $2)`,
		userID, habitID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки медали: %w", err)
	}
	return exists, nil
}

// AwardMedalTx выдаёт медаль. Повторная выдача — no-op (уникальный индекс),
// возвращается false без ошибки.
func AwardMedalTx(ctx context.Context, tx pgx.Tx, userID, habitID int64, habitName string) (bool, error) {
	tag, err := tx.Exec(ctx, `
		INSERT INTO medals (user_id, habit_id, habit_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, habit_id) DO NOTHING
	`, userID, habitID, habitName)
	if err != nil {
		return false, fmt.Errorf("ошибка выдачи медали: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MedalCountTx возвращает число медалей пользователя внутри транзакции.
func MedalCountTx(ctx context.Context, tx pgx.Tx, userID int64) (int, error) {
	var n int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM medals WHERE user_id = $1`, userID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта медалей: %w", err)
	}
	return n, nil
}

// GetStreak возвращает стрик пользователя по привычке (без блокировки).
// Если записи нет — нулевое состояние.
func (r *Repository) GetStreak(ctx context.Context, userID, habitID int64) (*Streak, error) {
	query := `
		SELECT id, user_id, habit_id, current_streak, best_streak,
		       last_completion_date, announced_7, announced_15, announced_30
		FROM streaks
		WHERE user_id = $1 AND habit_id = $2
	`
	var s Streak
	err := r.db.QueryRow(ctx, query, userID, habitID).Scan(
		&s.ID, &s.UserID, &s.HabitID, &s.CurrentStreak, &s.BestStreak,
		&s.LastCompletionDate, &s.Announced7, &s.Announced15, &s.Announced30,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &Streak{UserID: userID, HabitID: habitID}, nil
		}
		return nil, fmt.Errorf("ошибка чтения стрика: %w", err)
	}
	return &s, nil
}

// MedalCount возвращает число медалей пользователя.
func (r *Repository) MedalCount(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM medals WHERE user_id = $1`, userID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта медалей: %w", err)
	}
	return n, nil
}

// GetMedals возвращает все медали пользователя, новые первыми.
func (r *Repository) GetMedals(ctx context.Context, userID int64) ([]*Medal, error) {
	query := `
		SELECT id, user_id, habit_id, habit_name, earned_at
		FROM medals
		WHERE user_id = $1
		ORDER BY earned_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения медалей: %w", err)
	}
	defer rows.Close()

	var out []*Medal
	for rows.Next() {
		var m Medal
		if err := rows.Scan(&m.ID, &m.UserID, &m.HabitID, &m.HabitName, &m.EarnedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования медали: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// ReminderCandidate — пользователь с длинным стриком, который сегодня
// ещё не отметил привычку. Используется кроном напоминаний.
type ReminderCandidate struct {
	UserID        int64
	HabitID       int64
	HabitName     string
	CurrentStreak int
}

// GetReminderCandidates возвращает стрики длиной >= minStreak,
// у которых последняя отметка была раньше today.
func (r *Repository) GetReminderCandidates(ctx context.Context, minStreak int, today time.Time) ([]*ReminderCandidate, error) {
	query := `
		SELECT s.user_id, s.habit_id, h.name, s.current_streak
		FROM streaks s
		JOIN habits h ON h.id = s.habit_id
		WHERE s.current_streak >= $1
		  AND s.last_completion_date IS NOT NULL
		  AND s.last_completion_date < $2
	`
	rows, err := r.db.Query(ctx, query, minStreak, today)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска кандидатов на напоминание: %w", err)
	}
	defer rows.Close()

	var out []*ReminderCandidate
	for rows.Next() {
		var c ReminderCandidate
		if err := rows.Scan(&c.UserID, &c.HabitID, &c.HabitName, &c.CurrentStreak); err != nil {
			return nil, fmt.Errorf("ошибка сканирования кандидата: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
