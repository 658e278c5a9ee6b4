package streaks

import (
	"testing"
	"time"
)

func day(d int) time.Time {
	// Январь 2026, мск — сами значения не важны, важна последовательность дней
	return time.Date(2026, time.January, d, 0, 0, 0, 0, time.UTC)
}

// mark прогоняет состояние через серию отметок по датам.
func mark(st State, days ...int) State {
	for _, d := range days {
		st = Advance(st, day(d), Milestones).State
	}
	return st
}

func TestAdvanceSequence(t *testing.T) {
	// Отметки в дни 1,2,3,5,6: разрыв на четвёртый день
	st := mark(State{}, 1, 2, 3)
	if st.Current != 3 {
		t.Errorf("после дней 1-3 серия = %d, ожидается 3", st.Current)
	}

	st = mark(st, 5)
	if st.Current != 1 {
		t.Errorf("после разрыва серия = %d, ожидается 1", st.Current)
	}
	if st.Best != 3 {
		t.Errorf("рекорд после разрыва = %d, ожидается 3", st.Best)
	}

	st = mark(st, 6)
	if st.Current != 2 {
		t.Errorf("после дня 6 серия = %d, ожидается 2", st.Current)
	}
}

func TestAdvanceSameDay(t *testing.T) {
	st := mark(State{}, 1, 2)
	res := Advance(st, day(2), Milestones)
	if res.State.Current != 2 || res.NewMilestone != 0 {
		t.Errorf("повторная отметка дня изменила состояние: %+v", res)
	}
}

func TestMilestoneSeven(t *testing.T) {
	// Серия 6 → 7: ровно одно событие, флаги 15/30 не тронуты
	st := mark(State{}, 1, 2, 3, 4, 5, 6)
	res := Advance(st, day(7), Milestones)

	if res.NewMilestone != 7 {
		t.Errorf("NewMilestone = %d, ожидается 7", res.NewMilestone)
	}
	if !res.State.Announced[0] {
		t.Error("флаг 7 дней должен быть установлен")
	}
	if res.State.Announced[1] || res.State.Announced[2] {
		t.Error("флаги 15/30 не должны быть установлены")
	}
	if res.MedalEligible {
		t.Error("медаль на 7-м дне не полагается")
	}

	// Повторного события за ту же веху нет
	res = Advance(res.State, day(8), Milestones)
	if res.NewMilestone != 0 {
		t.Errorf("повторное событие вехи: %d", res.NewMilestone)
	}
}

func TestMilestoneJumpMarksLowerSilently(t *testing.T) {
	// Состояние «серия уже 16, флаги пустые» — такое бывает после
	// ремонта данных: событие только на 15, семёрка помечается молча
	last := day(16)
	st := State{Current: 16, Best: 16, LastDate: &last}
	res := Advance(st, day(17), Milestones)

	if res.NewMilestone != 15 {
		t.Errorf("NewMilestone = %d, ожидается 15", res.NewMilestone)
	}
	if !res.State.Announced[0] || !res.State.Announced[1] {
		t.Error("флаги 7 и 15 должны быть установлены")
	}
	if res.State.Announced[2] {
		t.Error("флаг 30 не должен быть установлен")
	}
}

func TestMedalEligibleAtThirty(t *testing.T) {
	st := State{}
	var res Result
	for d := 1; d <= 30; d++ {
		res = Advance(st, day(d), Milestones)
		st = res.State
	}
	if st.Current != 30 {
		t.Fatalf("серия = %d, ожидается 30", st.Current)
	}
	if !res.MedalEligible {
		t.Error("на 30-м дне должна полагаться медаль")
	}
	if res.NewMilestone != 30 {
		t.Errorf("NewMilestone = %d, ожидается 30", res.NewMilestone)
	}

	// День 31: медаль уже не «полагается заново»
	res = Advance(st, day(31), Milestones)
	if res.MedalEligible {
		t.Error("MedalEligible на 31-м дне")
	}
}

func TestBreakResetsFlags(t *testing.T) {
	st := mark(State{}, 1, 2, 3, 4, 5, 6, 7)
	if !st.Announced[0] {
		t.Fatal("флаг 7 должен быть установлен до разрыва")
	}

	st = mark(st, 9) // разрыв
	if st.Announced[0] {
		t.Error("после разрыва флаги должны быть сброшены")
	}
	if st.Best != 7 {
		t.Errorf("рекорд = %d, ожидается 7", st.Best)
	}

	// Новая серия снова дойдёт до семёрки — событие повторится
	st2 := mark(st, 10, 11, 12, 13, 14)
	res := Advance(st2, day(15), Milestones)
	if res.NewMilestone != 7 {
		t.Errorf("после разрыва веха 7 не объявлена заново: %d", res.NewMilestone)
	}
}
