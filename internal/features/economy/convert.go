// Package economy — convert.go содержит чистую логику конвертации
// очков одного типа в другой. Курс зависит от числа медалей пользователя.
package economy

import (
	"math"

	"privychka.ru/rewards-bot/internal/common"
	"privychka.ru/rewards-bot/internal/features/points"
)

// Курсы конвертации очков: сколько очков типа A отдать за 1 очко типа B.
const (
	BaseRate     = 2.0 // обычный курс 2:1
	ImprovedRate = 1.5 // курс 1.5:1 для обладателей 3+ медалей
)

// Rate возвращает курс конвертации для пользователя с medalCount медалями.
// betterRateAt — порог медалей для улучшенного курса (обычно 3).
func Rate(medalCount, betterRateAt int) float64 {
	if medalCount >= betterRateAt {
		return ImprovedRate
	}
	return BaseRate
}

// Granularity возвращает шаг конвертации для курса:
// при 2:1 конвертируются только чётные суммы, при 1.5:1 — кратные трём.
// Так исходная сумма всегда делится на курс без остатка.
func Granularity(rate float64) int64 {
	if rate == ImprovedRate {
		return 3
	}
	return 2
}

// Converted возвращает, сколько очков целевого типа даст сумма amount
// по курсу rate: floor(amount / rate).
func Converted(amount int64, rate float64) int64 {
	return int64(math.Floor(float64(amount) / rate))
}

// PlanConversion проверяет конвертацию и возвращает сумму зачисления.
// Ошибка common.ErrInvalidConversion — при любом нарушении:
// одинаковые типы, неположительная или некратная шагу сумма,
// нехватка очков исходного типа. Балансы не меняются.
func PlanConversion(from, to points.PointType, amount int64, rate float64, available int64) (int64, error) {
	if from == to {
		return 0, common.ErrInvalidConversion
	}
	if amount <= 0 {
		return 0, common.ErrInvalidConversion
	}
	if amount%Granularity(rate) != 0 {
		return 0, common.ErrInvalidConversion
	}
	if amount > available {
		return 0, common.ErrInvalidConversion
	}
	credit := Converted(amount, rate)
	if credit < 1 {
		return 0, common.ErrInvalidConversion
	}
	return credit, nil
}
