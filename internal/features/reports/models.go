// Package reports строит сводки за месяц: таблицу лидеров группы
// и личную статистику пользователя. Только чтение.
package reports

import "privychka.ru/rewards-bot/internal/features/points"

// LeaderboardRow — строка месячной таблицы лидеров группы.
type LeaderboardRow struct {
	UserID      int64
	DisplayName string
	Completions int64 // отметок за месяц
	Points      points.Balances
}

// UserMonthStats — личная статистика пользователя за месяц.
type UserMonthStats struct {
	Completions  int64
	ActiveDays   int64 // дней месяца хотя бы с одной отметкой
	HabitsMarked int64 // различных привычек с отметками
	BestStreak   int   // лучший текущий стрик среди привычек
}
