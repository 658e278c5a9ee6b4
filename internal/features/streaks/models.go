// Package streaks управляет сериями ежедневных отметок привычек,
// вехами (7/15/30 дней) и медалями.
// models.go описывает структуры данных стрика и медали.
package streaks

import "time"

// Streak представляет запись стрика пользователя по одной привычке.
// Запись инкрементальная: обновляется при каждой отметке и является
// источником истины для флагов и рекорда (снятие отметки её не откатывает).
type Streak struct {
	ID                 int64      `db:"id"`
	UserID             int64      `db:"user_id"`
	HabitID            int64      `db:"habit_id"`
	CurrentStreak      int        `db:"current_streak"`       // Текущая серия (дней подряд)
	BestStreak         int        `db:"best_streak"`          // Личный рекорд, не сбрасывается
	LastCompletionDate *time.Time `db:"last_completion_date"` // Дата последней отметки
	Announced7         bool       `db:"announced_7"`          // Веха 7 дней уже объявлена?
	Announced15        bool       `db:"announced_15"`         // Веха 15 дней уже объявлена?
	Announced30        bool       `db:"announced_30"`         // Веха 30 дней уже объявлена?
}

// Medal — постоянная награда за 30-дневный стрик по привычке.
// Уникальна на пару (user, habit), выдаётся один раз и не отбирается,
// даже если привычка потом удалена (habit_name денормализовано для этого).
type Medal struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	HabitID   int64     `db:"habit_id"`
	HabitName string    `db:"habit_name"`
	EarnedAt  time.Time `db:"earned_at"`
}
