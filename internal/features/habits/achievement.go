// Package habits — achievement.go содержит чистую проверку
// группового достижения: привычка закрыта кем-то из группы
// в каждый календарный день месяца.
package habits

import (
	"time"

	"privychka.ru/rewards-bot/internal/common"
)

// PerfectMonth сообщает, покрывают ли даты dates все дни месяца month
// (ключ "YYYY-MM") с первого по последний. Даты других месяцев игнорируются,
// дубликаты дней не мешают.
func PerfectMonth(dates []time.Time, month string) bool {
	total := common.DaysInMonth(month)
	if total == 0 {
		return false
	}

	seen := make(map[int]bool, total)
	for _, d := range dates {
		if common.MonthKey(d) != month {
			continue
		}
		seen[d.Day()] = true
	}

	for day := 1; day <= total; day++ {
		if !seen[day] {
			return false
		}
	}
	return true
}
