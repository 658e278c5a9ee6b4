package habits

import (
	"testing"
	"time"
)

func feb(day int) time.Time {
	return time.Date(2026, time.February, day, 0, 0, 0, 0, time.UTC)
}

func TestPerfectMonthFull(t *testing.T) {
	// Февраль 2026 — 28 дней, закрытых разными участниками (дни дублируются)
	var dates []time.Time
	for d := 1; d <= 28; d++ {
		dates = append(dates, feb(d))
		if d%3 == 0 {
			dates = append(dates, feb(d)) // второй участник в тот же день
		}
	}
	if !PerfectMonth(dates, "2026-02") {
		t.Error("полный февраль должен считаться закрытым")
	}
}

func TestPerfectMonthMissingDay(t *testing.T) {
	var dates []time.Time
	for d := 1; d <= 28; d++ {
		if d == 17 {
			continue
		}
		dates = append(dates, feb(d))
	}
	if PerfectMonth(dates, "2026-02") {
		t.Error("месяц с пропущенным днём не закрыт")
	}
}

func TestPerfectMonthIgnoresOtherMonths(t *testing.T) {
	// Даты чужого месяца не должны закрывать дыры
	var dates []time.Time
	for d := 1; d <= 27; d++ {
		dates = append(dates, feb(d))
	}
	dates = append(dates, time.Date(2026, time.March, 28, 0, 0, 0, 0, time.UTC))
	if PerfectMonth(dates, "2026-02") {
		t.Error("дата марта не закрывает 28 февраля")
	}
}

func TestPerfectMonthEmpty(t *testing.T) {
	if PerfectMonth(nil, "2026-02") {
		t.Error("пустой месяц не закрыт")
	}
	if PerfectMonth(nil, "мусор") {
		t.Error("некорректный ключ месяца")
	}
}

func TestRoutePayout(t *testing.T) {
	// Без медали — очко, с медалью — полмонеты
	p := RoutePayout(false, 0.5)
	if !p.Point || p.Coins != 0 {
		t.Errorf("без медали: %+v", p)
	}
	p = RoutePayout(true, 0.5)
	if p.Point || p.Coins != 0.5 {
		t.Errorf("с медалью: %+v", p)
	}
}
