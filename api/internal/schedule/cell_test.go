package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCell(t *testing.T) {
	tests := []struct {
		name    string
		cell    string
		kind    string
		room    string
		teacher string
		title   string
	}{
		{
			name:    "полная ячейка",
			cell:    "лк, 529а-3, Филатов Д.О., Общая психология",
			kind:    "лк",
			room:    "529а-3",
			teacher: "Филатов Д.О.",
			title:   "Общая психология",
		},
		{
			name:  "без преподавателя и аудитории",
			cell:  "пр, Физическая культура и спорт, поток",
			kind:  "пр",
			title: "Физическая культура и спорт, поток",
		},
		{
			name:    "без вида занятия",
			cell:    "Математический анализ, 213-2, Иванова А.Б.",
			room:    "213-2",
			teacher: "Иванова А.Б.",
			title:   "Математический анализ",
		},
		{
			name:  "лишние запятые и пробелы",
			cell:  " лб ,  , Информатика ,",
			kind:  "лб",
			title: "Информатика",
		},
		{
			name: "пустая ячейка",
			cell: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, room, teacher, title := parseCell(tt.cell)
			assert.Equal(t, tt.kind, kind, "kind")
			assert.Equal(t, tt.room, room, "room")
			assert.Equal(t, tt.teacher, teacher, "teacher")
			assert.Equal(t, tt.title, title, "title")
		})
	}
}

// Порог «до 3 символов» для вида занятия считается в рунах: «лк» — это
// 4 байта, но 2 символа.
func TestParseCellKindLengthInRunes(t *testing.T) {
	kind, _, _, title := parseCell("егэ, Подготовка к экзамену")
	assert.Equal(t, "егэ", kind)
	assert.Equal(t, "Подготовка к экзамену", title)

	// четыре руны — уже не код вида
	kind, _, _, title = parseCell("курс, Подготовка к экзамену")
	assert.Empty(t, kind)
	assert.Equal(t, "курс, Подготовка к экзамену", title)
}

func TestLooksLikeRoom(t *testing.T) {
	assert.True(t, looksLikeRoom("529а-3"))
	assert.True(t, looksLikeRoom("213"))
	assert.True(t, looksLikeRoom("а-б"))
	assert.False(t, looksLikeRoom("поток"))
	assert.False(t, looksLikeRoom(""))
}

func TestLooksLikeTeacher(t *testing.T) {
	assert.True(t, looksLikeTeacher("Филатов Д.О."))
	assert.False(t, looksLikeTeacher("поток"))
	assert.False(t, looksLikeTeacher("И.О."))            // точка без пробела
	assert.False(t, looksLikeTeacher("Общая психология")) // пробел без точки
}
