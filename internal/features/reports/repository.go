package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"privychka.ru/rewards-bot/internal/common"
	"privychka.ru/rewards-bot/internal/features/points"
)

// Repository выполняет отчётные запросы.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий отчётов.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func monthBounds(month string) (time.Time, time.Time, error) {
	start, err := time.Parse(common.MonthLayout, month)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("некорректный ключ месяца %q: %w", month, err)
	}
	return start, start.AddDate(0, 1, 0), nil
}

// MonthlyLeaderboard возвращает участников группы, отсортированных по
// числу отметок за месяц (при равенстве по сумме очков на счету).
func (r *Repository) MonthlyLeaderboard(ctx context.Context, groupID int64, month string) ([]*LeaderboardRow, error) {
	start, end, err := monthBounds(month)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT u.telegram_id,
		       COALESCE(NULLIF(u.first_name, ''), u.username, ''),
		       COUNT(hc.id),
		       u.points_physical, u.points_arts, u.points_food_related,
		       u.points_educational, u.points_other
		FROM users u
		LEFT JOIN habit_completions hc
		       ON hc.user_id = u.telegram_id
		      AND hc.completed_on >= $2 AND hc.completed_on < $3
		WHERE u.group_id = $1
		GROUP BY u.telegram_id
		ORDER BY COUNT(hc.id) DESC,
		         u.points_physical + u.points_arts + u.points_food_related +
		         u.points_educational + u.points_other DESC
	`, groupID, start, end)
	if err != nil {
		return nil, fmt.Errorf("ошибка построения таблицы лидеров: %w", err)
	}
	defer rows.Close()

	var out []*LeaderboardRow
	for rows.Next() {
		var row LeaderboardRow
		var ph, ar, fo, ed, ot int64
		if err := rows.Scan(&row.UserID, &row.DisplayName, &row.Completions, &ph, &ar, &fo, &ed, &ot); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки лидеров: %w", err)
		}
		row.Points = points.Balances{
			points.Physical:    ph,
			points.Arts:        ar,
			points.FoodRelated: fo,
			points.Educational: ed,
			points.Other:       ot,
		}
		out = append(out, &row)
	}
	return out, rows.Err()
}

// UserMonthStats возвращает личную статистику пользователя за месяц.
func (r *Repository) UserMonthStats(ctx context.Context, userID int64, month string) (*UserMonthStats, error) {
	start, end, err := monthBounds(month)
	if err != nil {
		return nil, err
	}

	var st UserMonthStats
	err = r.db.QueryRow(ctx, `
		SELECT COUNT(id),
		       COUNT(DISTINCT completed_on),
		       COUNT(DISTINCT habit_id)
		FROM habit_completions
		WHERE user_id = $1 AND completed_on >= $2 AND completed_on < $3
	`, userID, start, end).Scan(&st.Completions, &st.ActiveDays, &st.HabitsMarked)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчёта статистики: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		SELECT COALESCE(MAX(current_streak), 0) FROM streaks WHERE user_id = $1
	`, userID).Scan(&st.BestStreak)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения стриков: %w", err)
	}
	return &st, nil
}
