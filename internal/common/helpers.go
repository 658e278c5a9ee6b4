// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: русская плюрализация, форматирование чисел, работа с датами.
package common

import (
	"fmt"
	"math"
	"time"
)

// DateLayout — формат календарной даты во всём боте (и в БД): YYYY-MM-DD.
const DateLayout = "2006-01-02"

// MonthLayout — формат ключа месяца для групповых достижений: YYYY-MM.
const MonthLayout = "2006-01"

// Today возвращает текущую календарную дату (без времени) в заданном поясе.
// «Сегодня» всегда передаётся в ledger-операции явным параметром,
// сам ledger времени не знает.
func Today(loc *time.Location) time.Time {
	t := time.Now().In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// ParseDate разбирает дату формата YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("некорректная дата %q: %w", s, err)
	}
	return t, nil
}

// MonthKey возвращает ключ месяца даты: "2026-08".
func MonthKey(date time.Time) string {
	return date.Format(MonthLayout)
}

// DaysInMonth возвращает число дней в месяце по ключу "YYYY-MM".
// Для некорректного ключа возвращает 0.
func DaysInMonth(month string) int {
	t, err := time.Parse(MonthLayout, month)
	if err != nil {
		return 0
	}
	// День 0 следующего месяца = последний день текущего
	return t.AddDate(0, 1, -1).Day()
}

// FormatDateTime форматирует время в формат "02.01.2006 15:04".
// Используется для отображения дат транзакций.
func FormatDateTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("02.01.2006 15:04")
}

// PluralizePoints возвращает правильную форму слова «очко» для числа n.
//
// Правила русского языка:
//   - n%10==1 И n%100!=11 → "очко" (1, 21, 31, 101, ...)
//   - n%10 в [2,3,4] И n%100 НЕ в [12,13,14] → "очка" (2, 3, 4, 22, ...)
//   - Остальные случаи → "очков" (0, 5-20, 25-30, 100, ...)
func PluralizePoints(n int64) string {
	absN := int64(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return "очко"
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "очка"
	}
	return "очков"
}

// PluralizeCoins возвращает правильную форму слова «монета».
func PluralizeCoins(n int64) string {
	absN := int64(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return "монета"
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "монеты"
	}
	return "монет"
}

// PluralizeDays возвращает правильную форму слова «день» для числа n.
//
// Правила:
//   - 1, 21, 31 → "день"
//   - 2-4, 22-24 → "дня"
//   - 5-20, 25-30 → "дней"
func PluralizeDays(n int) string {
	absN := int(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return "день"
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "дня"
	}
	return "дней"
}

// FormatCoins форматирует баланс монет. Монеты могут быть дробными
// (медальная выплата — 0.5 монеты), целые значения печатаем без ".0".
//
// Примеры:
//
//	FormatCoins(3)    → "3 монеты"
//	FormatCoins(2.5)  → "2.5 монеты"
func FormatCoins(coins float64) string {
	if coins == math.Trunc(coins) {
		return fmt.Sprintf("%d %s", int64(coins), PluralizeCoins(int64(coins)))
	}
	// Для дробных форм склоняем по целой части + «монеты» (2.5 монеты)
	return fmt.Sprintf("%.1f монеты", coins)
}

// FormatPoints форматирует количество очков.
// Пример: FormatPoints(5) → "5 очков"
func FormatPoints(n int64) string {
	return fmt.Sprintf("%d %s", n, PluralizePoints(n))
}
