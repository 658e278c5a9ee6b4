// Package habits — repository.go выполняет операции с таблицами habits,
// habit_completions и group_achievements.
//
// Каждая многошаговая мутация (отметка с выплатой и стриком, снятие
// отметки с откатом, каскад удаления привычки) — ОДНА транзакция БД:
// либо применяется целиком, либо не применяется вовсе.
package habits

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"privychka.ru/rewards-bot/internal/common"
	"privychka.ru/rewards-bot/internal/features/economy"
	"privychka.ru/rewards-bot/internal/features/points"
	"privychka.ru/rewards-bot/internal/features/streaks"
)

// Rules — параметры ledger-движка, прокинутые из конфигурации.
type Rules struct {
	Milestones          [3]int  // вехи стрика (7/15/30)
	MedalCoin           float64 // выплата монетами при медали (0.5)
	MedalsForBetterRate int     // порог медалей для курса 1.5:1
	GroupBonus          float64 // бонус за групповое достижение (10)
}

// Repository предоставляет методы для работы с привычками и отметками.
type Repository struct {
	db    *pgxpool.Pool
	rules Rules
}

// NewRepository создаёт новый репозиторий привычек.
func NewRepository(db *pgxpool.Pool, rules Rules) *Repository {
	return &Repository{db: db, rules: rules}
}

// Create добавляет привычку в группу и возвращает её ID.
func (r *Repository) Create(ctx context.Context, groupID int64, name string, pt points.PointType) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO habits (group_id, name, point_type) VALUES ($1, $2, $3) RETURNING id`,
		groupID, name, string(pt),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания привычки: %w", err)
	}
	return id, nil
}

// GetByID возвращает привычку. Если не найдена — common.ErrHabitNotFound.
func (r *Repository) GetByID(ctx context.Context, habitID int64) (*Habit, error) {
	var h Habit
	var pt string
	err := r.db.QueryRow(ctx,
		`SELECT id, group_id, name, point_type, created_at FROM habits WHERE id = $1`, habitID,
	).Scan(&h.ID, &h.GroupID, &h.Name, &pt, &h.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrHabitNotFound
		}
		return nil, fmt.Errorf("ошибка чтения привычки (id=%d): %w", habitID, err)
	}
	h.PointType = points.PointType(pt)
	return &h, nil
}

// GetGroupHabits возвращает все привычки группы.
func (r *Repository) GetGroupHabits(ctx context.Context, groupID int64) ([]*Habit, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, group_id, name, point_type, created_at FROM habits WHERE group_id = $1 ORDER BY created_at`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения привычек группы: %w", err)
	}
	defer rows.Close()

	var out []*Habit
	for rows.Next() {
		var h Habit
		var pt string
		if err := rows.Scan(&h.ID, &h.GroupID, &h.Name, &pt, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования привычки: %w", err)
		}
		h.PointType = points.PointType(pt)
		out = append(out, &h)
	}
	return out, rows.Err()
}

// Update меняет имя и тип очков привычки.
// Уже начисленные очки прошлого типа не пересчитываются.
func (r *Repository) Update(ctx context.Context, habitID int64, name string, pt points.PointType) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE habits SET name = $2, point_type = $3 WHERE id = $1`,
		habitID, name, string(pt),
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления привычки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrHabitNotFound
	}
	return nil
}

// getHabitTx читает привычку внутри транзакции.
func getHabitTx(ctx context.Context, tx pgx.Tx, habitID int64) (*Habit, error) {
	var h Habit
	var pt string
	err := tx.QueryRow(ctx,
		`SELECT id, group_id, name, point_type, created_at FROM habits WHERE id = $1`, habitID,
	).Scan(&h.ID, &h.GroupID, &h.Name, &pt, &h.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrHabitNotFound
		}
		return nil, fmt.Errorf("ошибка чтения привычки (id=%d): %w", habitID, err)
	}
	h.PointType = points.PointType(pt)
	return &h, nil
}

// MarkComplete отмечает выполнение привычки за дату date и начисляет выплату.
//
// Конвейер внутри одной транзакции:
//  1. страховка от двойного учёта: вставка отметки, на конфликте — выход
//  2. маршрутизация выплаты (медаль → монеты, иначе очко типа привычки)
//  3. переход стрика и вычисление новой вехи
//  4. выдача медали на 30-м дне (третья медаль улучшает курс)
//  5. проверка группового достижения месяца
//
// Повторная отметка той же тройки (user, habit, date) — no-op:
// возвращается MarkResult{Marked: false}, балансы не меняются.
func (r *Repository) MarkComplete(ctx context.Context, userID, habitID int64, date time.Time) (*MarkResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	habit, err := getHabitTx(ctx, tx, habitID)
	if err != nil {
		return nil, err
	}

	// Шаг 1: вставляем отметку; конфликт = уже отмечено
	tag, err := tx.Exec(ctx, `
		INSERT INTO habit_completions (habit_id, user_id, completed_on)
		VALUES ($1, $2, $3)
		ON CONFLICT (habit_id, user_id, completed_on) DO NOTHING
	`, habitID, userID, date)
	if err != nil {
		return nil, fmt.Errorf("ошибка вставки отметки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &MarkResult{Marked: false}, nil
	}

	res := &MarkResult{Marked: true, PointType: habit.PointType, Month: common.MonthKey(date)}

	// Шаг 2: выплата. Статус медали — ДО возможной выдачи ниже.
	hasMedal, err := streaks.HasMedalTx(ctx, tx, userID, habitID)
	if err != nil {
		return nil, err
	}
	payout := RoutePayout(hasMedal, r.rules.MedalCoin)
	if payout.Point {
		if err := economy.AddPointsTx(ctx, tx, userID, habit.PointType, 1); err != nil {
			return nil, err
		}
		pt := habit.PointType
		if err := economy.LogTx(ctx, tx, nil, &userID, &pt, 1,
			economy.TxTypeHabitReward, fmt.Sprintf("Отметка привычки «%s»", habit.Name)); err != nil {
			return nil, err
		}
		res.PointAwarded = true
	} else {
		if err := economy.AddCoinsTx(ctx, tx, userID, payout.Coins); err != nil {
			return nil, err
		}
		if err := economy.LogTx(ctx, tx, nil, &userID, nil, payout.Coins,
			economy.TxTypeMedalCoin, fmt.Sprintf("Отметка привычки «%s» (медаль)", habit.Name)); err != nil {
			return nil, err
		}
		res.CoinsAwarded = payout.Coins
	}

	// Шаг 3: переход стрика
	prev, err := streaks.GetStreakTx(ctx, tx, userID, habitID)
	if err != nil {
		return nil, err
	}
	state := streaks.State{}
	if prev != nil {
		state = streaks.State{
			Current:   prev.CurrentStreak,
			Best:      prev.BestStreak,
			LastDate:  prev.LastCompletionDate,
			Announced: [3]bool{prev.Announced7, prev.Announced15, prev.Announced30},
		}
	}
	adv := streaks.Advance(state, date, r.rules.Milestones)
	if err := streaks.SaveStreakTx(ctx, tx, userID, habitID, adv.State); err != nil {
		return nil, err
	}
	res.CurrentStreak = adv.State.Current
	res.BestStreak = adv.State.Best
	res.NewMilestone = adv.NewMilestone

	// Шаг 4: медаль за 30 дней (не зависит от флагов вех)
	if adv.MedalEligible && !hasMedal {
		awarded, err := streaks.AwardMedalTx(ctx, tx, userID, habitID, habit.Name)
		if err != nil {
			return nil, err
		}
		if awarded {
			res.MedalAwarded = true
			count, err := streaks.MedalCountTx(ctx, tx, userID)
			if err != nil {
				return nil, err
			}
			res.RateImproved = count == r.rules.MedalsForBetterRate
		}
	}

	// Шаг 5: групповое достижение месяца
	perfected, err := r.checkGroupAchievementTx(ctx, tx, habit, res.Month)
	if err != nil {
		return nil, err
	}
	res.GroupPerfected = perfected

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return res, nil
}

// checkGroupAchievementTx проверяет, закрыла ли группа привычку на весь
// месяц, и начисляет бонус каждому участнику. Запись в group_achievements
// гарантирует, что бонус за (группа, привычка, месяц) выдаётся один раз.
func (r *Repository) checkGroupAchievementTx(ctx context.Context, tx pgx.Tx, habit *Habit, month string) (bool, error) {
	// Идемпотентная страховка: уже награждали — выходим
	var exists bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM group_achievements
		              WHERE group_id = $1 AND habit_id = $2 AND month = $3)
	`, habit.GroupID, habit.ID, month).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки группового достижения: %w", err)
	}
	if exists {
		return false, nil
	}

	// Все даты месяца, в которые привычку закрыл хоть кто-то из группы
	monthStart, err := time.Parse(common.MonthLayout, month)
	if err != nil {
		return false, fmt.Errorf("некорректный ключ месяца %q: %w", month, err)
	}
	nextMonth := monthStart.AddDate(0, 1, 0)

	rows, err := tx.Query(ctx, `
		SELECT DISTINCT hc.completed_on
		FROM habit_completions hc
		JOIN users u ON u.telegram_id = hc.user_id
		WHERE hc.habit_id = $1 AND u.group_id = $2
		  AND hc.completed_on >= $3 AND hc.completed_on < $4
	`, habit.ID, habit.GroupID, monthStart, nextMonth)
	if err != nil {
		return false, fmt.Errorf("ошибка выборки дней месяца: %w", err)
	}
	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			rows.Close()
			return false, fmt.Errorf("ошибка сканирования даты: %w", err)
		}
		dates = append(dates, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return false, err
	}

	if !PerfectMonth(dates, month) {
		return false, nil
	}

	// Фиксируем достижение; конфликт означает гонку — бонус не дублируем
	tag, err := tx.Exec(ctx, `
		INSERT INTO group_achievements (group_id, habit_id, month)
		VALUES ($1, $2, $3)
		ON CONFLICT (group_id, habit_id, month) DO NOTHING
	`, habit.GroupID, habit.ID, month)
	if err != nil {
		return false, fmt.Errorf("ошибка записи группового достижения: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	// Бонус каждому участнику группы, не только отметившему
	memberRows, err := tx.Query(ctx,
		`SELECT telegram_id FROM users WHERE group_id = $1`, habit.GroupID,
	)
	if err != nil {
		return false, fmt.Errorf("ошибка выборки участников группы: %w", err)
	}
	var memberIDs []int64
	for memberRows.Next() {
		var id int64
		if err := memberRows.Scan(&id); err != nil {
			memberRows.Close()
			return false, fmt.Errorf("ошибка сканирования участника: %w", err)
		}
		memberIDs = append(memberIDs, id)
	}
	memberRows.Close()
	if err := memberRows.Err(); err != nil {
		return false, err
	}

	desc := fmt.Sprintf("Групповое достижение: «%s» закрыта весь %s", habit.Name, month)
	for _, id := range memberIDs {
		if err := economy.AddCoinsTx(ctx, tx, id, r.rules.GroupBonus); err != nil {
			return false, err
		}
		if err := economy.LogTx(ctx, tx, nil, &id, nil, r.rules.GroupBonus,
			economy.TxTypeGroupAchievement, desc); err != nil {
			return false, err
		}
	}

	return true, nil
}

// UnmarkComplete снимает отметку за дату и откатывает ровно ту выплату,
// которая была бы начислена сейчас (по текущему статусу медали).
// Стрик и медали НЕ откатываются: запись стрика — источник истины,
// рекорд и флаги остаются как есть.
func (r *Repository) UnmarkComplete(ctx context.Context, userID, habitID int64, date time.Time) (*UnmarkResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	habit, err := getHabitTx(ctx, tx, habitID)
	if err != nil {
		return nil, err
	}

	tag, err := tx.Exec(ctx, `
		DELETE FROM habit_completions
		WHERE habit_id = $1 AND user_id = $2 AND completed_on = $3
	`, habitID, userID, date)
	if err != nil {
		return nil, fmt.Errorf("ошибка удаления отметки: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &UnmarkResult{Removed: false}, nil
	}

	res := &UnmarkResult{Removed: true, PointType: habit.PointType}

	hasMedal, err := streaks.HasMedalTx(ctx, tx, userID, habitID)
	if err != nil {
		return nil, err
	}
	payout := RoutePayout(hasMedal, r.rules.MedalCoin)
	if payout.Point {
		if err := economy.AddPointsTx(ctx, tx, userID, habit.PointType, -1); err != nil {
			return nil, err
		}
		pt := habit.PointType
		if err := economy.LogTx(ctx, tx, &userID, nil, &pt, 1,
			economy.TxTypeHabitRewardUndo, fmt.Sprintf("Снята отметка привычки «%s»", habit.Name)); err != nil {
			return nil, err
		}
		res.PointReversed = true
	} else {
		if err := economy.AddCoinsTx(ctx, tx, userID, -payout.Coins); err != nil {
			return nil, err
		}
		if err := economy.LogTx(ctx, tx, &userID, nil, nil, payout.Coins,
			economy.TxTypeMedalCoinUndo, fmt.Sprintf("Снята отметка привычки «%s» (медаль)", habit.Name)); err != nil {
			return nil, err
		}
		res.CoinsReversed = payout.Coins
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return res, nil
}

// Delete удаляет привычку НАСОВСЕМ: компенсирующая транзакция снимает
// у каждого участника очки по числу его отметок (именно очки типа
// привычки, даже если часть отметок была оплачена монетами — поведение
// исходной системы сохранено), затем вычищаются отметки, стрики и
// записи достижений. Медали остаются навсегда. Операция необратима.
func (r *Repository) Delete(ctx context.Context, habitID int64) (*DeleteResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	habit, err := getHabitTx(ctx, tx, habitID)
	if err != nil {
		return nil, err
	}

	// Сколько отметок у каждого пользователя
	rows, err := tx.Query(ctx, `
		SELECT user_id, COUNT(*) FROM habit_completions
		WHERE habit_id = $1
		GROUP BY user_id
	`, habitID)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчёта отметок: %w", err)
	}
	reversed := make(map[int64]int64)
	for rows.Next() {
		var userID, count int64
		if err := rows.Scan(&userID, &count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("ошибка сканирования счётчика: %w", err)
		}
		reversed[userID] = count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Компенсация: снимаем очки по числу отметок
	desc := fmt.Sprintf("Удалена привычка «%s»", habit.Name)
	pt := habit.PointType
	for userID, count := range reversed {
		if err := economy.AddPointsTx(ctx, tx, userID, habit.PointType, -count); err != nil {
			return nil, err
		}
		if err := economy.LogTx(ctx, tx, &userID, nil, &pt, float64(count),
			economy.TxTypeHabitDeleted, desc); err != nil {
			return nil, err
		}
	}

	// Чистим историю. Порядок важен из-за внешних ключей.
	if _, err := tx.Exec(ctx, `DELETE FROM habit_completions WHERE habit_id = $1`, habitID); err != nil {
		return nil, fmt.Errorf("ошибка удаления отметок: %w", err)
	}
	if err := streaks.DeleteByHabitTx(ctx, tx, habitID); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM group_achievements WHERE habit_id = $1`, habitID); err != nil {
		return nil, fmt.Errorf("ошибка удаления записей достижений: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM habits WHERE id = $1`, habitID); err != nil {
		return nil, fmt.Errorf("ошибка удаления привычки: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return &DeleteResult{HabitName: habit.Name, PointType: habit.PointType, Reversed: reversed}, nil
}

// IsCompletedOn проверяет, отмечена ли привычка пользователем в дату.
func (r *Repository) IsCompletedOn(ctx context.Context, userID, habitID int64, date time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM habit_completions
		              WHERE habit_id = $1 AND user_id = $2 AND completed_on = $3)
	`, habitID, userID, date).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки отметки: %w", err)
	}
	return exists, nil
}

// GetUserCompletionsForMonth возвращает отметки пользователя за месяц
// (с именами привычек) для календаря и статистики.
func (r *Repository) GetUserCompletionsForMonth(ctx context.Context, userID int64, month string) ([]*Completion, error) {
	monthStart, err := time.Parse(common.MonthLayout, month)
	if err != nil {
		return nil, fmt.Errorf("некорректный ключ месяца %q: %w", month, err)
	}
	nextMonth := monthStart.AddDate(0, 1, 0)

	rows, err := r.db.Query(ctx, `
		SELECT hc.id, hc.habit_id, hc.user_id, hc.completed_on, h.name
		FROM habit_completions hc
		JOIN habits h ON h.id = hc.habit_id
		WHERE hc.user_id = $1 AND hc.completed_on >= $2 AND hc.completed_on < $3
		ORDER BY hc.completed_on
	`, userID, monthStart, nextMonth)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки отметок месяца: %w", err)
	}
	defer rows.Close()

	var out []*Completion
	for rows.Next() {
		var c Completion
		if err := rows.Scan(&c.ID, &c.HabitID, &c.UserID, &c.CompletedOn, &c.HabitName); err != nil {
			return nil, fmt.Errorf("ошибка сканирования отметки: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
