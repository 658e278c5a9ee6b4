package economy

import (
	"errors"
	"testing"

	"privychka.ru/rewards-bot/internal/common"
	"privychka.ru/rewards-bot/internal/features/points"
)

func TestRateTiers(t *testing.T) {
	// С двумя медалями — обычный курс, с третьей — улучшенный
	if got := Rate(0, 3); got != BaseRate {
		t.Errorf("Rate(0) = %v", got)
	}
	if got := Rate(2, 3); got != BaseRate {
		t.Errorf("Rate(2) = %v", got)
	}
	if got := Rate(3, 3); got != ImprovedRate {
		t.Errorf("Rate(3) = %v", got)
	}
	if got := Rate(7, 3); got != ImprovedRate {
		t.Errorf("Rate(7) = %v", got)
	}
}

func TestConverted(t *testing.T) {
	// Улучшенный курс: 3 очка по 1.5:1 дают 2 очка
	if got := Converted(3, ImprovedRate); got != 2 {
		t.Errorf("Converted(3, 1.5) = %d, ожидается 2", got)
	}
	if got := Converted(4, BaseRate); got != 2 {
		t.Errorf("Converted(4, 2.0) = %d, ожидается 2", got)
	}
	if got := Converted(6, ImprovedRate); got != 4 {
		t.Errorf("Converted(6, 1.5) = %d, ожидается 4", got)
	}
}

func TestPlanConversion(t *testing.T) {
	// Обычный курс: 4 physical → 2 arts
	credit, err := PlanConversion(points.Physical, points.Arts, 4, BaseRate, 10)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if credit != 2 {
		t.Errorf("credit = %d, ожидается 2", credit)
	}
}

func TestPlanConversionInvalid(t *testing.T) {
	cases := []struct {
		name      string
		from, to  points.PointType
		amount    int64
		rate      float64
		available int64
	}{
		{"одинаковые типы", points.Arts, points.Arts, 4, BaseRate, 10},
		{"ноль", points.Physical, points.Arts, 0, BaseRate, 10},
		{"отрицательная сумма", points.Physical, points.Arts, -2, BaseRate, 10},
		{"нечётная сумма при 2:1", points.Physical, points.Arts, 3, BaseRate, 10},
		{"не кратно трём при 1.5:1", points.Physical, points.Arts, 4, ImprovedRate, 10},
		{"не хватает очков", points.Physical, points.Arts, 4, BaseRate, 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := PlanConversion(c.from, c.to, c.amount, c.rate, c.available)
			if !errors.Is(err, common.ErrInvalidConversion) {
				t.Errorf("ожидается ErrInvalidConversion, получено %v", err)
			}
		})
	}
}
