package schedule

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRaw(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

// ---------------- Слот-формат -----------------

const slottedPayload = `[
  {"type": "Lessons", "name": "Понедельник",
   "n1": "лк, 529а-3, Филатов Д.О., Общая психология",
   "z1": "пр, 213-2, Иванова А.Б., Общая психология",
   "n3": "пр, Физическая культура и спорт, поток"},
  {"type": "Lessons", "name": " СРЕДА ",
   "z2": "лб, 404-2, Петров В.В., Информатика"},
  {"type": "Lessons", "name": "Марсодень", "n1": "лк, Криптография"},
  {"type": "Header", "name": "Вторник", "n1": "не урок"}
]`

func TestNormalizeSlottedDays(t *testing.T) {
	got := Normalize(mustRaw(t, slottedPayload))
	require.Len(t, got, 4)

	assert.Equal(t, Lesson{
		Day: 1, Start: "08:30", End: "10:00",
		Title: "Общая психология", Teacher: "Филатов Д.О.", Room: "529а-3",
		Kind: "лк", Week: WeekOdd,
	}, got[0])
	assert.Equal(t, Lesson{
		Day: 1, Start: "08:30", End: "10:00",
		Title: "Общая психология", Teacher: "Иванова А.Б.", Room: "213-2",
		Kind: "пр", Week: WeekEven,
	}, got[1])

	// третья пара понедельника — свои звонки
	assert.Equal(t, "12:10", got[2].Start)
	assert.Equal(t, "13:40", got[2].End)

	// имя дня нормализуется по регистру и пробелам
	assert.Equal(t, 3, got[3].Day)
	assert.Equal(t, WeekEven, got[3].Week)

	// день в 1..7 у всех записей слот-формата; незнакомый день и объект
	// без дискриминатора пропущены
	for _, l := range got {
		assert.GreaterOrEqual(t, l.Day, 1)
		assert.LessOrEqual(t, l.Day, 7)
	}
}

func TestDetectShape(t *testing.T) {
	assert.Equal(t, ShapeSlottedDays, DetectShape(mustRaw(t, slottedPayload)))
	assert.Equal(t, ShapeSlottedDays, DetectShape(mustRaw(t, `[{"z1": "пр, Химия"}]`)))
	assert.Equal(t, ShapeTree, DetectShape(mustRaw(t, `{"Days": []}`)))
	assert.Equal(t, ShapeTree, DetectShape(mustRaw(t, `[{"Title": "Химия"}]`)))
	assert.Equal(t, ShapeTree, DetectShape(mustRaw(t, `42`)))
}

// ---------------- Генерик-обход -----------------

func TestNormalizeNestedTree(t *testing.T) {
	raw := mustRaw(t, `{
	  "Days": [
	    {"Day": 1, "Lessons": [
	      {"TimeStart": "08:30", "TimeEnd": "10:00", "Discipline": "Матанализ",
	       "Prepod": "Иванова А.Б.", "Aud": "213-2", "Type": "лк"},
	      {"Start": "10:20", "Subject": "Физика", "WeekType": 2}
	    ]},
	    {"Day": "3", "Odd": [
	      {"Start": "12:10", "Title": "Философия"}
	    ]}
	  ]
	}`)
	got := Normalize(raw)
	require.Len(t, got, 3)

	assert.Equal(t, Lesson{
		Day: 1, Start: "08:30", End: "10:00",
		Title: "Матанализ", Teacher: "Иванова А.Б.", Room: "213-2",
		Kind: "лк", Week: WeekAll,
	}, got[0])

	// чётность узла перекрывает контекст
	assert.Equal(t, WeekEven, got[1].Week)
	assert.Equal(t, "Физика", got[1].Title)

	// день наследуется из строки, ветка Odd форсирует числитель
	assert.Equal(t, 3, got[2].Day)
	assert.Equal(t, WeekOdd, got[2].Week)
}

func TestNormalizeUnknownNestingStillFound(t *testing.T) {
	// незнакомые контейнеры: запись всплывает через catch-all обход
	raw := mustRaw(t, `{"payload": {"data": [{"StartTime": "14:00", "Lesson": "Химия", "DayOfWeek": 5}]}}`)
	got := Normalize(raw)
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].Day)
	assert.Equal(t, "14:00", got[0].Start)
	assert.Equal(t, "Химия", got[0].Title)
}

func TestNormalizeDedup(t *testing.T) {
	// одна и та же пара достижима двумя путями — остаётся одна запись
	raw := mustRaw(t, `{
	  "Schedule": [{"Day": 2, "Start": "08:30", "Title": "История"}],
	  "Items":    [{"Day": 2, "Start": "08:30", "Title": "История"}]
	}`)
	got := Normalize(raw)
	assert.Len(t, got, 1)
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := mustRaw(t, `{
	  "extra": {"Pairs": [{"Start": "08:30", "Title": "История", "Day": 2}]},
	  "misc":  [{"Lessons": [{"Start": "10:20", "Title": "Право", "Day": 4}]}]
	}`)
	first := Normalize(raw)
	second := Normalize(raw)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestNormalizeDropsEmptyRecords(t *testing.T) {
	// узел-кандидат без единого опознавательного поля — шум
	raw := mustRaw(t, `[{"Title": "", "Start": ""}, {"Name": "   "}]`)
	assert.Empty(t, Normalize(mustRaw(t, `{"Days": []}`)))
	// "Name": "   " непустой — запись выживает как Title
	got := Normalize(raw)
	require.Len(t, got, 1)
	assert.Equal(t, "   ", got[0].Title)
}

func TestNormalizeMalformedInput(t *testing.T) {
	assert.Empty(t, Normalize(nil))
	assert.Empty(t, Normalize(mustRaw(t, `"строка"`)))
	assert.Empty(t, Normalize(mustRaw(t, `[1, 2, null, "x"]`)))
	assert.Empty(t, Normalize(mustRaw(t, `{"Unknown": {"Deep": {"Nothing": true}}}`)))
}

func TestNormalizeJSON(t *testing.T) {
	got, err := NormalizeJSON([]byte(`{"Lessons": [{"Start": "08:30", "Title": "История", "Day": 1}]}`))
	require.NoError(t, err)
	require.Len(t, got, 1)

	_, err = NormalizeJSON([]byte(`{not json`))
	assert.Error(t, err)
}

// ---------------- Чётность недели -----------------

func TestNormalizeWeekType(t *testing.T) {
	tests := []struct {
		in   any
		want Week
	}{
		{nil, WeekAll},
		{float64(0), WeekAll},
		{float64(1), WeekOdd},
		{float64(2), WeekEven},
		{float64(7), WeekAll},
		{"", WeekAll},
		{"0", WeekAll},
		{"all", WeekAll},
		{"odd", WeekOdd},
		{"even", WeekEven},
		{"числитель", WeekOdd},
		{"Знаменатель", WeekEven},
		{"неделя числитель (нечётная)", WeekOdd},
		{"что-то непонятное", WeekAll},
		{true, WeekAll},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeWeekType(tt.in), "input %v", tt.in)
	}
}

func TestCoerceDay(t *testing.T) {
	assert.Equal(t, 3, coerceDay(float64(3)))
	assert.Equal(t, 3, coerceDay("3"))
	assert.Equal(t, 1, coerceDay("Понедельник"))
	assert.Equal(t, 0, coerceDay("когда-нибудь"))
	assert.Equal(t, 0, coerceDay(nil))
}
