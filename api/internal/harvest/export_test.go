package harvest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vlsu-bot/api/internal/schedule"
	"vlsu-bot/api/internal/vlsu"
)

func TestBuildPayload(t *testing.T) {
	inst := vlsu.Institute{ID: "i1", Name: "ИИТ"}
	g := vlsu.Group{ID: "g1", Name: "КП-125", Course: "1"}
	lessons := []schedule.Lesson{
		{Day: 1, Start: "08:30", End: "10:00", Title: "Матанализ", Week: schedule.WeekAll},
		{Day: 1, Start: "10:20", End: "11:50", Title: "Физика", Week: schedule.WeekOdd},
		{Day: 3, Start: "08:30", End: "10:00", Title: "История", Week: "странная"},
		{Day: 0, Title: "потеряшка"},
		{Day: 9, Title: "мимо"},
	}

	p := BuildPayload(inst, 0, g, lessons)

	assert.Equal(t, "очная", p.Meta.Form)
	assert.Equal(t, "КП-125", p.Meta.Group.Name)
	assert.NotEmpty(t, p.Meta.GeneratedAtUTC)

	require.Contains(t, p.Weeks, "all")
	require.Contains(t, p.Weeks, "odd")
	require.Contains(t, p.Weeks, "even")

	// неизвестная чётность падает в all, дни вне 1..7 отброшены
	require.Len(t, p.Weeks["all"], 2)
	assert.Equal(t, "Понедельник", p.Weeks["all"]["1"].Name)
	require.Len(t, p.Weeks["all"]["1"].Lessons, 1)
	assert.Equal(t, "Матанализ", p.Weeks["all"]["1"].Lessons[0].Title)
	assert.Equal(t, "История", p.Weeks["all"]["3"].Lessons[0].Title)

	require.Len(t, p.Weeks["odd"], 1)
	assert.Equal(t, "Физика", p.Weeks["odd"]["1"].Lessons[0].Title)
	assert.Empty(t, p.Weeks["even"])
}

func TestWriteExport(t *testing.T) {
	dir := t.TempDir()
	inst := vlsu.Institute{ID: "i1", Name: "ИИТ"}
	g := vlsu.Group{ID: "g1", Name: "КП-125"}

	err := writeExport(dir, inst, 0, g, []schedule.Lesson{
		{Day: 1, Start: "08:30", End: "10:00", Title: "Матанализ", Week: schedule.WeekAll},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "ИИТ", "очная", "КП-125.json"))
	require.NoError(t, err)

	var p exportPayload
	require.NoError(t, json.Unmarshal(data, &p))
	assert.Equal(t, "Матанализ", p.Weeks["all"]["1"].Lessons[0].Title)
}

func TestFormName(t *testing.T) {
	assert.Equal(t, "очная", FormName(0))
	assert.Equal(t, "заочная", FormName(1))
	assert.Equal(t, "очно-заочная", FormName(2))
	assert.Equal(t, "5", FormName(5))
}

func TestParseForms(t *testing.T) {
	assert.Equal(t, []int{0}, ParseForms("0"))
	assert.Equal(t, []int{0, 1, 2}, ParseForms("0, 1,2"))
	assert.Nil(t, ParseForms(""))
	assert.Nil(t, ParseForms("abc"))
}
