package schedule

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Времена звонков по номеру пары. Фиксированная сетка ВлГУ, из ответа API
// не приходит.
var pairTimes = map[int][2]string{
	1: {"08:30", "10:00"},
	2: {"10:20", "11:50"},
	3: {"12:10", "13:40"},
	4: {"14:00", "15:30"},
	5: {"15:50", "17:20"},
	6: {"17:40", "19:10"},
	7: {"19:30", "21:00"},
}

var dayNamesRU = map[string]int{
	"понедельник": 1,
	"вторник":     2,
	"среда":       3,
	"четверг":     4,
	"пятница":     5,
	"суббота":     6,
	"воскресенье": 7,
}

func looksLikeRoom(s string) bool {
	s = strings.TrimSpace(s)
	return strings.ContainsFunc(s, unicode.IsDigit) || strings.Contains(s, "-")
}

// «Фамилия И.О.» — точка и пробел одновременно.
func looksLikeTeacher(s string) bool {
	return strings.Contains(s, ".") && strings.Contains(s, " ")
}

// parseCell разбирает свободный текст ячейки слот-формата:
//
//	"лк, 529а-3, Филатов Д.О., Общая психология"
//	"пр, Физическая культура и спорт, поток"
//
// Токены через запятую; первый токен длиной до 3 символов — вид занятия,
// далее жадно снимаем аудиторию и преподавателя, остаток — название.
func parseCell(s string) (kind, room, teacher, title string) {
	var parts []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) > 0 && utf8.RuneCountInString(parts[0]) <= 3 {
		kind = parts[0]
		parts = parts[1:]
	}
	for i, p := range parts {
		if looksLikeRoom(p) {
			room = p
			parts = append(parts[:i], parts[i+1:]...)
			break
		}
	}
	for i, p := range parts {
		if looksLikeTeacher(p) {
			teacher = p
			parts = append(parts[:i], parts[i+1:]...)
			break
		}
	}
	title = strings.Join(parts, ", ")
	return kind, room, teacher, title
}
