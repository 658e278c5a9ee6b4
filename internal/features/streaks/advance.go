// Package streaks — advance.go содержит чистую машину состояний стрика.
// Никакой БД: функция Advance принимает старое состояние и дату отметки,
// возвращает новое состояние и новую веху. Тестируется без Postgres.
package streaks

import "time"

// Milestones — пороги вех по умолчанию, в возрастающем порядке.
var Milestones = [3]int{7, 15, 30}

// State — состояние стрика для машины переходов (подмножество Streak).
type State struct {
	Current   int
	Best      int
	LastDate  *time.Time // nil — отметок ещё не было
	Announced [3]bool    // флаги объявленных вех, индексы соответствуют Milestones
}

// Result — результат одного перехода.
type Result struct {
	State State
	// NewMilestone — наибольшая впервые достигнутая веха (0 — вехи нет).
	// За одну отметку объявляется не больше одной вехи; младшие вехи,
	// перекрытые тем же скачком, помечаются объявленными молча.
	NewMilestone int
	// MedalEligible — стрик достиг ровно Milestones[2] дней:
	// пора выдать медаль, если её ещё нет. Не зависит от флагов.
	MedalEligible bool
}

// sameDay сообщает, что a и b — один календарный день.
func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// nextDay сообщает, что b — день, следующий за a.
func nextDay(a, b time.Time) bool {
	return sameDay(a.AddDate(0, 0, 1), b)
}

// Advance выполняет переход стрика на отметку за дату date.
//
// Правила:
//   - прошлая отметка вчера → серия +1
//   - прошлая отметка сегодня → без изменений (защитный путь:
//     дубликаты отсекает уникальность отметок)
//   - разрыв больше дня или первая отметка → серия = 1, флаги сброшены
//
// Рекорд best только растёт и при разрыве сохраняется.
func Advance(st State, date time.Time, milestones [3]int) Result {
	next := st

	switch {
	case st.LastDate == nil:
		next.Current = 1
		next.Announced = [3]bool{}
	case sameDay(*st.LastDate, date):
		// Повторная отметка того же дня — состояние не меняется
		return Result{State: st}
	case nextDay(*st.LastDate, date):
		next.Current = st.Current + 1
	default:
		// Разрыв: серия заново, прошлые вехи забыты
		next.Current = 1
		next.Announced = [3]bool{}
	}

	d := date
	next.LastDate = &d
	if next.Current > next.Best {
		next.Best = next.Current
	}

	res := Result{State: next}

	// Вехи проверяем от старшей к младшей: событие только на самую
	// старшую впервые достигнутую, остальные помечаются молча.
	for i := len(milestones) - 1; i >= 0; i-- {
		if next.Current >= milestones[i] && !next.Announced[i] {
			res.State.Announced[i] = true
			if res.NewMilestone == 0 {
				res.NewMilestone = milestones[i]
			}
		}
	}

	res.MedalEligible = next.Current == milestones[2]
	return res
}
