package common

import "testing"

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		month string
		want  int
	}{
		{"2026-02", 28},
		{"2024-02", 29},
		{"2026-01", 31},
		{"2026-04", 30},
		{"мусор", 0},
	}
	for _, c := range cases {
		if got := DaysInMonth(c.month); got != c.want {
			t.Errorf("DaysInMonth(%q) = %d, ожидается %d", c.month, got, c.want)
		}
	}
}

func TestMonthKey(t *testing.T) {
	d, err := ParseDate("2026-08-26")
	if err != nil {
		t.Fatal(err)
	}
	if got := MonthKey(d); got != "2026-08" {
		t.Errorf("MonthKey = %q", got)
	}
}

func TestPluralizePoints(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{1, "очко"}, {2, "очка"}, {5, "очков"},
		{11, "очков"}, {21, "очко"}, {24, "очка"}, {114, "очков"},
	}
	for _, c := range cases {
		if got := PluralizePoints(c.n); got != c.want {
			t.Errorf("PluralizePoints(%d) = %q, ожидается %q", c.n, got, c.want)
		}
	}
}

func TestFormatCoins(t *testing.T) {
	if got := FormatCoins(3); got != "3 монеты" {
		t.Errorf("FormatCoins(3) = %q", got)
	}
	if got := FormatCoins(2.5); got != "2.5 монеты" {
		t.Errorf("FormatCoins(2.5) = %q", got)
	}
	if got := FormatCoins(0); got != "0 монет" {
		t.Errorf("FormatCoins(0) = %q", got)
	}
}
