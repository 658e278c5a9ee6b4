// Package habits — payout.go решает, чем платить за отметку привычки.
// Правило одно: есть медаль за ЭТУ привычку — дробная выплата монетами,
// нет — одно очко типа привычки. Длина стрика на выплату не влияет.
package habits

// Payout — выплата за одну отметку.
type Payout struct {
	Point bool    // начислить 1 очко типа привычки
	Coins float64 // или столько монет (0 — если очко)
}

// RoutePayout возвращает выплату за отметку.
// Статус медали берётся ДО выдачи медали этой же отметкой:
// отметка, принёсшая медаль, ещё оплачивается очком.
func RoutePayout(hasMedal bool, medalCoin float64) Payout {
	if hasMedal {
		return Payout{Coins: medalCoin}
	}
	return Payout{Point: true}
}
