package calendar

import "time"

// Regime — режим учебного календаря для конкретной даты.
type Regime string

const (
	RegimeOdd      Regime = "odd"      // неделя-числитель
	RegimeEven     Regime = "even"     // неделя-знаменатель
	RegimeHoliday  Regime = "holiday"  // праздничный день
	RegimeVacation Regime = "vacation" // каникулы
	RegimeExam     Regime = "exam"     // сессия
	RegimeRC       Regime = "rc"       // рейтинговый контроль
	RegimeBefore   Regime = "before"   // до начала семестра
)

func validRegime(r Regime) bool {
	switch r {
	case RegimeOdd, RegimeEven, RegimeHoliday, RegimeVacation, RegimeExam, RegimeRC, RegimeBefore:
		return true
	}
	return false
}

// Teaching — показывать ли пары в этом режиме. Рейтинговый контроль —
// административная неделя, пары в ней идут как в обычную.
func (r Regime) Teaching() bool {
	return r == RegimeOdd || r == RegimeEven || r == RegimeRC
}

// Period — период-переопределение: включительный диапазон дат и режим.
// Статичные данные деплоя, из API не выводятся.
type Period struct {
	From   time.Time
	To     time.Time
	Regime Regime
}

func (p Period) contains(d time.Time) bool {
	return !d.Before(p.From) && !d.After(p.To)
}

// Resolver отвечает на вопрос «какой режим календаря действует в дату d».
// Чистая функция от даты, без состояния; таблицу периодов считаем
// неизменяемой после загрузки.
type Resolver struct {
	SemesterStart time.Time
	Periods       []Period
}

// Resolve возвращает режим для любой даты (никогда не ошибается).
// Приоритет: периоды-переопределения (первый совпавший по порядку списка),
// затем воскресенье -> праздник, затем блочная чётность.
func (r *Resolver) Resolve(d time.Time) Regime {
	d = dateOnly(d)
	for _, p := range r.Periods {
		if p.contains(d) {
			return p.Regime
		}
	}
	if isoWeekday(d) == 7 {
		return RegimeHoliday
	}
	return r.Parity(d)
}

// Parity — чётность по блочной арифметике, без учёта переопределений.
// Нужна отдельно: на неделе рейтингового контроля показывается подмножество
// пар её «подлежащей» чётности.
//
// Учебные недели группируются в чередующиеся блоки по 7 — так устроен цикл
// вуза с его сбросами после контрольных недель, это не «неделя 1 нечётная,
// неделя 2 чётная».
func (r *Resolver) Parity(d time.Time) Regime {
	d = dateOnly(d)
	days := int(d.Sub(dateOnly(r.SemesterStart)) / (24 * time.Hour))
	week := floorDiv(days, 7) + 1
	if week <= 0 {
		return RegimeBefore
	}
	if (week-1)/7%2 == 0 {
		return RegimeOdd
	}
	return RegimeEven
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// деление с округлением вниз (для дат до начала семестра)
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// Default — вшитый календарь 2025/26 учебного года; используется, когда
// YAML-файл не задан.
func Default() *Resolver {
	return &Resolver{
		SemesterStart: mustDate("2025-09-01"),
		// Праздники идут первыми: совпавший период берётся по порядку
		// списка, а праздник внутри контрольной недели или сессии
		// остаётся праздником.
		Periods: []Period{
			{mustDate("2025-11-03"), mustDate("2025-11-04"), RegimeHoliday},
			{mustDate("2025-12-31"), mustDate("2026-01-11"), RegimeHoliday},
			{mustDate("2026-02-23"), mustDate("2026-02-23"), RegimeHoliday},
			{mustDate("2026-03-09"), mustDate("2026-03-09"), RegimeHoliday},
			{mustDate("2026-05-01"), mustDate("2026-05-02"), RegimeHoliday},
			{mustDate("2026-05-11"), mustDate("2026-05-11"), RegimeHoliday},
			{mustDate("2026-06-12"), mustDate("2026-06-13"), RegimeHoliday},
			{mustDate("2025-09-29"), mustDate("2025-10-11"), RegimeRC},
			{mustDate("2025-11-10"), mustDate("2025-11-22"), RegimeRC},
			{mustDate("2025-12-22"), mustDate("2025-12-30"), RegimeRC},
			{mustDate("2026-03-02"), mustDate("2026-03-14"), RegimeRC},
			{mustDate("2026-04-13"), mustDate("2026-04-25"), RegimeRC},
			{mustDate("2026-05-25"), mustDate("2026-06-06"), RegimeRC},
			{mustDate("2026-01-12"), mustDate("2026-01-24"), RegimeExam},
			{mustDate("2026-06-09"), mustDate("2026-06-30"), RegimeExam},
			{mustDate("2026-01-26"), mustDate("2026-01-31"), RegimeVacation},
		},
	}
}
