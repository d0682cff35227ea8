package telegram

import (
	"strings"
	"time"

	"vlsu-bot/api/internal/calendar"
	"vlsu-bot/api/internal/schedule"
)

var regimeRU = map[calendar.Regime]string{
	calendar.RegimeOdd:      "неделя числитель (нечётная)",
	calendar.RegimeEven:     "неделя знаменатель (чётная)",
	calendar.RegimeHoliday:  "праздничный день",
	calendar.RegimeVacation: "каникулы",
	calendar.RegimeExam:     "сессия",
	calendar.RegimeRC:       "рейтинговый контроль",
	calendar.RegimeBefore:   "до начала семестра",
}

func regimeLabel(r calendar.Regime) string {
	if s, ok := regimeRU[r]; ok {
		return s
	}
	return string(r)
}

// hesc — экранирование для parse_mode=HTML.
func hesc(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func htmlQuote(lines []string) string {
	esc := make([]string, len(lines))
	for i, l := range lines {
		esc[i] = hesc(l)
	}
	return "<blockquote>" + strings.Join(esc, "\n") + "</blockquote>"
}

// lessonLines — строки одной пары: название, преподаватель (если есть),
// «время   ВИД   аудитория».
func lessonLines(l schedule.Lesson) []string {
	lines := []string{l.Title}
	if l.Teacher != "" {
		lines = append(lines, l.Teacher)
	}
	var info []string
	if l.Start != "" && l.End != "" {
		info = append(info, l.Start+"–"+l.End)
	}
	if l.Kind != "" {
		info = append(info, strings.ToUpper(l.Kind))
	}
	if l.Room != "" {
		info = append(info, l.Room)
	}
	lines = append(lines, strings.Join(info, "   "))
	return lines
}

func renderDayBlock(header string, lessons []schedule.Lesson) string {
	lines := []string{header}
	if len(lessons) == 0 {
		lines = append(lines, "пар нет")
		return htmlQuote(lines)
	}
	for _, l := range lessons {
		lines = append(lines, lessonLines(l)...)
		lines = append(lines, "")
	}
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return htmlQuote(lines)
}

func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// mondayOfWeek — понедельник недели, в которую попадает дата.
func mondayOfWeek(d time.Time) time.Time {
	return d.AddDate(0, 0, -(isoWeekday(d) - 1))
}
