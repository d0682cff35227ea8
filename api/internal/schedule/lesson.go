package schedule

// Week — принадлежность пары к чётности учебной недели.
type Week string

const (
	WeekAll  Week = "all"  // каждая учебная неделя
	WeekOdd  Week = "odd"  // числитель
	WeekEven Week = "even" // знаменатель
)

// Lesson — каноническая запись одной пары после нормализации ответа API.
// Day — ISO-день недели (1=Пн .. 7=Вс); 0 означает «не удалось определить»
// (такое возможно только на генерик-пути, потребители обязаны фильтровать).
type Lesson struct {
	Day     int    `json:"day"`
	Start   string `json:"start,omitempty"` // "08:30"
	End     string `json:"end,omitempty"`   // "10:00"
	Title   string `json:"title,omitempty"`
	Teacher string `json:"teacher,omitempty"`
	Room    string `json:"room,omitempty"`
	Kind    string `json:"kind,omitempty"` // лк/пр/лб
	Week    Week   `json:"week"`
}

// hasIdentity: запись без единого опознавательного поля — шум, а не данные.
func (l Lesson) hasIdentity() bool {
	return l.Title != "" || l.Room != "" || l.Teacher != "" || l.Start != ""
}

type lessonKey struct {
	Day                        int
	Start, End                 string
	Title, Teacher, Room, Kind string
	Week                       Week
}

func (l Lesson) key() lessonKey {
	return lessonKey{l.Day, l.Start, l.End, l.Title, l.Teacher, l.Room, l.Kind, l.Week}
}

// finalize отбрасывает пустые записи и дедуплицирует по полному ключу,
// сохраняя порядок первого вхождения.
func finalize(in []Lesson) []Lesson {
	seen := make(map[lessonKey]struct{}, len(in))
	out := make([]Lesson, 0, len(in))
	for _, l := range in {
		if !l.hasIdentity() {
			continue
		}
		k := l.key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, l)
	}
	return out
}

var dayNames = map[int]string{
	1: "Понедельник",
	2: "Вторник",
	3: "Среда",
	4: "Четверг",
	5: "Пятница",
	6: "Суббота",
	7: "Воскресенье",
}

var dayShortNames = map[int]string{
	1: "Пн", 2: "Вт", 3: "Ср", 4: "Чт", 5: "Пт", 6: "Сб", 7: "Вс",
}

// DayName возвращает русское название ISO-дня недели (1=Пн .. 7=Вс).
func DayName(day int) string { return dayNames[day] }

// DayShortName — короткое название («Пн» .. «Вс»).
func DayShortName(day int) string { return dayShortNames[day] }
