package economy

import (
	"strings"
	"testing"
	"time"
)

func TestFormatHistory(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	created := time.Date(2026, time.August, 26, 18, 30, 0, 0, time.UTC)

	history := []*Transaction{
		{CreatedAt: created, Description: "Отметка привычки «Зарядка»"},
		{CreatedAt: created.Add(time.Hour), Description: "Обмен очков"},
	}

	got := formatHistory(history, msk)

	// 18:30 UTC в московском поясе — 21:30
	if !strings.Contains(got, "26.08.2026 21:30 — Отметка привычки «Зарядка»") {
		t.Errorf("дата не в поясе бота:\n%s", got)
	}
	if !strings.Contains(got, "22:30 — Обмен очков") {
		t.Errorf("вторая операция не напечатана:\n%s", got)
	}
}
