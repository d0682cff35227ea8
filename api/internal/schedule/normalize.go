package schedule

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Синонимы ключей, встречавшиеся в ответах GetGroupSchedule разных релизов.
var (
	startKeys   = []string{"Start", "TimeStart", "Begin", "From", "StartTime"}
	endKeys     = []string{"End", "TimeEnd", "Finish", "To", "EndTime"}
	titleKeys   = []string{"Title", "Discipline", "Subject", "Name", "Lesson"}
	teacherKeys = []string{"Teacher", "Lecturer", "Professor", "Prepod", "TeacherName"}
	roomKeys    = []string{"Room", "Audience", "Auditory", "Classroom", "Cabinet", "Aud"}
	kindKeys    = []string{"Kind", "Type", "LessonType", "Format"}
	dayKeys     = []string{"Day", "DayOfWeek", "WeekDay"}
	weekKeys    = []string{"WeekType", "Week", "WeekMode", "TypeWeek"}

	containerKeys = []string{"Days", "DayItems", "Schedule", "Lessons", "Pairs", "Items"}

	// ключи-ветки, принудительно задающие чётность поддереву
	weekBranchKeys = []struct {
		Key  string
		Week Week
	}{
		{"All", WeekAll},
		{"Numerator", WeekOdd},
		{"Odd", WeekOdd},
		{"Denominator", WeekEven},
		{"Even", WeekEven},
	}
)

// Shape — наблюдавшийся формат ответа расписания.
type Shape int

const (
	// ShapeTree — произвольно вложенное дерево контейнеров; разбирается
	// генерик-обходом и заодно служит запасным вариантом для всего нового.
	ShapeTree Shape = iota
	// ShapeSlottedDays — массив день-объектов с ячейками n1..n7 (числитель)
	// и z1..z7 (знаменатель).
	ShapeSlottedDays
)

// DetectShape различает два известных формата по слот-ключам первого уровня.
func DetectShape(raw any) Shape {
	arr, ok := raw.([]any)
	if !ok {
		return ShapeTree
	}
	for _, el := range arr {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}
		if _, ok := m["n1"]; ok {
			return ShapeSlottedDays
		}
		if _, ok := m["z1"]; ok {
			return ShapeSlottedDays
		}
	}
	return ShapeTree
}

// Normalize сводит сырой ответ API (уже разобранный JSON) к плоскому списку
// канонических записей. Никогда не возвращает ошибку: неразборчивые куски
// молча пропускаются, в худшем случае список пуст.
func Normalize(raw any) []Lesson {
	var out []Lesson
	if DetectShape(raw) == ShapeSlottedDays {
		out = parseSlottedDays(raw.([]any))
	} else {
		w := &walker{}
		w.walk(raw, 0, "")
		out = w.out
	}
	return finalize(out)
}

// NormalizeJSON — то же, но от байтов ответа.
func NormalizeJSON(data []byte) ([]Lesson, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return Normalize(raw), nil
}

// ---------------- Слот-формат -----------------

func parseSlottedDays(arr []any) []Lesson {
	var out []Lesson
	for _, el := range arr {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}
		if t, _ := m["type"].(string); t != "Lessons" {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(asString(m["name"])))
		day, ok := dayNamesRU[name]
		if !ok {
			// незнакомый день — пропускаем объект целиком
			continue
		}
		for idx := 1; idx <= 7; idx++ {
			for _, slot := range []struct {
				Prefix string
				Week   Week
			}{{"n", WeekOdd}, {"z", WeekEven}} {
				cell := strings.TrimSpace(asString(m[slot.Prefix+strconv.Itoa(idx)]))
				if cell == "" {
					continue
				}
				kind, room, teacher, title := parseCell(cell)
				if kind == "" && room == "" && teacher == "" && title == "" {
					continue
				}
				t := pairTimes[idx]
				out = append(out, Lesson{
					Day:     day,
					Start:   t[0],
					End:     t[1],
					Title:   title,
					Teacher: teacher,
					Room:    room,
					Kind:    kind,
					Week:    slot.Week,
				})
			}
		}
	}
	return out
}

// ---------------- Генерик-обход -----------------

// nodeClass — результат классификации узла-словаря.
type nodeClass int

const (
	nodeOpaque    nodeClass = iota // ничего похожего на пару, просто спускаемся
	nodeLesson                     // узел сам выглядит как запись пары
	nodeContainer                  // известный контейнер без полей пары
)

func classify(m map[string]any) nodeClass {
	if hasAny(m, startKeys) || hasAny(m, titleKeys) {
		return nodeLesson
	}
	for _, k := range containerKeys {
		if _, ok := m[k]; ok {
			return nodeContainer
		}
	}
	for _, b := range weekBranchKeys {
		if _, ok := m[b.Key]; ok {
			return nodeContainer
		}
	}
	return nodeOpaque
}

func hasAny(m map[string]any, keys []string) bool {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

// walker несёт вниз по дереву два куска контекста: известный день и чётность.
type walker struct {
	out []Lesson
}

func (w *walker) walk(node any, ctxDay int, ctxWeek Week) {
	switch n := node.(type) {
	case []any:
		for _, el := range n {
			w.walk(el, ctxDay, ctxWeek)
		}
	case map[string]any:
		w.walkMap(n, ctxDay, ctxWeek)
	}
}

func (w *walker) walkMap(m map[string]any, ctxDay int, ctxWeek Week) {
	if classify(m) == nodeLesson {
		w.push(m, ctxDay, ctxWeek)
	}

	// локальные день/чётность узла перекрывают унаследованные для всего,
	// что ниже
	newDay := ctxDay
	if v, ok := pick(m, dayKeys); ok {
		newDay = coerceDay(v)
	}
	newWeek := ctxWeek
	if v, ok := pick(m, weekKeys); ok {
		newWeek = NormalizeWeekType(v)
	}

	visited := make(map[string]bool)
	for _, k := range containerKeys {
		if v, ok := m[k]; ok {
			w.walk(v, newDay, newWeek)
			visited[k] = true
		}
	}
	for _, b := range weekBranchKeys {
		if v, ok := m[b.Key]; ok {
			w.walk(v, newDay, b.Week)
			visited[b.Key] = true
		}
	}

	// всё остальное — вслепую, чтобы незнакомая вложенность тоже всплыла;
	// ключи сортируем ради воспроизводимого порядка записей
	rest := make([]string, 0, len(m))
	for k, v := range m {
		if visited[k] {
			continue
		}
		switch v.(type) {
		case map[string]any, []any:
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		w.walk(m[k], newDay, newWeek)
	}
}

// push извлекает запись из узла-кандидата, подставляя контекст как дефолт.
func (w *walker) push(m map[string]any, ctxDay int, ctxWeek Week) {
	week := ctxWeek
	if v, ok := pick(m, weekKeys); ok {
		week = NormalizeWeekType(v)
	} else if week == "" {
		week = WeekAll
	}
	day := ctxDay
	if v, ok := pick(m, dayKeys); ok {
		day = coerceDay(v)
	}

	l := Lesson{
		Day:     day,
		Start:   pickString(m, startKeys),
		End:     pickString(m, endKeys),
		Title:   pickString(m, titleKeys),
		Teacher: pickString(m, teacherKeys),
		Room:    pickString(m, roomKeys),
		Kind:    pickString(m, kindKeys),
		Week:    week,
	}
	if l.Title == "" && l.Room == "" && l.Teacher == "" && l.Start == "" && l.End == "" {
		return
	}
	w.out = append(w.out, l)
}

// ---------------- Хелперы извлечения -----------------

// pick — первый присутствующий и непустой ключ из списка синонимов.
func pick(m map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

func pickString(m map[string]any, keys []string) string {
	v, ok := pick(m, keys)
	if !ok {
		return ""
	}
	return asString(v)
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// coerceDay приводит значение дня к ISO-номеру: число, числовая строка или
// русское название дня; иначе 0 («неизвестно»).
func coerceDay(v any) int {
	switch d := v.(type) {
	case float64:
		return int(d)
	case int:
		return d
	case string:
		s := strings.TrimSpace(d)
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if n, ok := dayNamesRU[strings.ToLower(s)]; ok {
			return n
		}
	}
	return 0
}

// NormalizeWeekType сводит произвольное обозначение чётности к all|odd|even.
// Эвристика, а не полная таблица: всё неузнанное молча становится all.
func NormalizeWeekType(v any) Week {
	switch t := v.(type) {
	case nil:
		return WeekAll
	case float64:
		switch int(t) {
		case 1:
			return WeekOdd
		case 2:
			return WeekEven
		}
		return WeekAll
	case int:
		switch t {
		case 1:
			return WeekOdd
		case 2:
			return WeekEven
		}
		return WeekAll
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		switch {
		case strings.Contains(s, "числ") || strings.Contains(s, "odd"):
			return WeekOdd
		case strings.Contains(s, "знам") || strings.Contains(s, "even"):
			return WeekEven
		}
		return WeekAll
	case Week:
		return t
	}
	return WeekAll
}
