package telegram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vlsu-bot/api/internal/schedule"
)

func TestHesc(t *testing.T) {
	assert.Equal(t, "a &amp;&amp; b &lt;c&gt;", hesc("a && b <c>"))
	assert.Equal(t, "Общая психология", hesc("Общая психология"))
}

func TestLessonLines(t *testing.T) {
	l := schedule.Lesson{
		Start: "08:30", End: "10:00",
		Title: "Общая психология", Teacher: "Филатов Д.О.",
		Room: "529а-3", Kind: "лк",
	}
	assert.Equal(t, []string{
		"Общая психология",
		"Филатов Д.О.",
		"08:30–10:00   ЛК   529а-3",
	}, lessonLines(l))

	// без преподавателя и аудитории
	l = schedule.Lesson{Start: "10:20", End: "11:50", Title: "Физкультура", Kind: "пр"}
	assert.Equal(t, []string{
		"Физкультура",
		"10:20–11:50   ПР",
	}, lessonLines(l))
}

func TestRenderDayBlock(t *testing.T) {
	assert.Equal(t,
		"<blockquote>Пн ~ 01.09\nпар нет</blockquote>",
		renderDayBlock("Пн ~ 01.09", nil))

	got := renderDayBlock("Пн ~ 01.09", []schedule.Lesson{
		{Start: "08:30", End: "10:00", Title: "Матанализ <1>"},
		{Start: "10:20", End: "11:50", Title: "Физика"},
	})
	assert.Equal(t,
		"<blockquote>Пн ~ 01.09\nМатанализ &lt;1&gt;\n08:30–10:00\n\nФизика\n10:20–11:50</blockquote>",
		got)
}

func TestMondayOfWeek(t *testing.T) {
	mon := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		assert.Equal(t, mon, mondayOfWeek(mon.AddDate(0, 0, i)), "day offset %d", i)
	}
	assert.NotEqual(t, mon, mondayOfWeek(mon.AddDate(0, 0, 7)))
}

func TestRegimeLabel(t *testing.T) {
	assert.Equal(t, "рейтинговый контроль", regimeLabel("rc"))
	assert.Equal(t, "что-то", regimeLabel("что-то"))
}
