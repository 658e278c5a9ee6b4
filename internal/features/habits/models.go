// Package habits — ядро ledger-движка: привычки, отметки выполнения,
// маршрутизация выплат и групповые достижения.
// models.go описывает структуры данных и результаты операций.
package habits

import (
	"time"

	"privychka.ru/rewards-bot/internal/features/points"
)

// Habit — привычка группы. Принадлежит ровно одной группе и доступна
// всем её участникам (общее владение: любой может править и удалять).
// Тип очков фиксируется при создании.
type Habit struct {
	ID        int64            `db:"id"`
	GroupID   int64            `db:"group_id"`
	Name      string           `db:"name"`
	PointType points.PointType `db:"point_type"`
	CreatedAt time.Time        `db:"created_at"`
}

// Completion — факт «пользователь выполнил привычку в дату».
// Уникален на тройку (habit, user, date).
type Completion struct {
	ID          int64     `db:"id"`
	HabitID     int64     `db:"habit_id"`
	UserID      int64     `db:"user_id"`
	CompletedOn time.Time `db:"completed_on"`
	HabitName   string    // заполняется join-ом для отчётов
}

// MarkResult — итог отметки привычки. Поля-события передаются
// в канал объявлений (группа узнаёт о вехах и медалях);
// сами мутации к этому моменту уже зафиксированы.
type MarkResult struct {
	Marked bool // false — отметка уже была, ничего не изменилось

	// Выплата: либо очко типа привычки, либо монеты (при медали)
	PointAwarded bool
	PointType    points.PointType
	CoinsAwarded float64

	CurrentStreak int
	BestStreak    int
	NewMilestone  int  // 0 — вехи нет
	MedalAwarded  bool // выдана медаль за 30 дней
	RateImproved  bool // медаль оказалась третьей: курс теперь 1.5:1

	GroupPerfected bool   // привычка закрыта группой на весь месяц
	Month          string // ключ месяца достижения (YYYY-MM)
}

// UnmarkResult — итог снятия отметки.
type UnmarkResult struct {
	Removed       bool // false — отметки не было
	PointReversed bool
	PointType     points.PointType
	CoinsReversed float64
}

// DeleteResult — итог удаления привычки: сколько очков снято у кого.
type DeleteResult struct {
	HabitName string
	PointType points.PointType
	// Reversed: user_id → сколько очков снято (по числу отметок)
	Reversed map[int64]int64
}
