package harvest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"vlsu-bot/api/internal/schedule"
	"vlsu-bot/api/internal/vlsu"
)

// JSON-выгрузка одной группы: meta + иерархия
// weeks.{all|odd|even}.{день}.lessons. Пустые дни опускаются.
type exportPayload struct {
	Meta  exportMeta                      `json:"meta"`
	Weeks map[string]map[string]exportDay `json:"weeks"`
}

type exportMeta struct {
	GeneratedAtUTC string          `json:"generated_at_utc"`
	Institute      exportInstitute `json:"institute"`
	Form           string          `json:"form"`
	Group          exportGroup     `json:"group"`
}

type exportInstitute struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type exportGroup struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Course string `json:"course,omitempty"`
}

type exportDay struct {
	Name    string         `json:"name"`
	Lessons []exportLesson `json:"lessons"`
}

type exportLesson struct {
	Time    exportTime `json:"time"`
	Title   string     `json:"title,omitempty"`
	Teacher string     `json:"teacher,omitempty"`
	Room    string     `json:"room,omitempty"`
	Kind    string     `json:"kind,omitempty"`
}

type exportTime struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// BuildPayload собирает иерархию недель из плоского списка.
// Записи с днём вне 1..7 отбрасываются, неизвестная чётность считается all.
func BuildPayload(inst vlsu.Institute, form int, g vlsu.Group, lessons []schedule.Lesson) exportPayload {
	weeks := map[string]map[string]exportDay{
		"all":  {},
		"odd":  {},
		"even": {},
	}
	for _, l := range lessons {
		if l.Day < 1 || l.Day > 7 {
			continue
		}
		wk := string(l.Week)
		if _, ok := weeks[wk]; !ok {
			wk = "all"
		}
		key := strconv.Itoa(l.Day)
		day, ok := weeks[wk][key]
		if !ok {
			day = exportDay{Name: schedule.DayName(l.Day)}
		}
		day.Lessons = append(day.Lessons, exportLesson{
			Time:    exportTime{Start: l.Start, End: l.End},
			Title:   l.Title,
			Teacher: l.Teacher,
			Room:    l.Room,
			Kind:    l.Kind,
		})
		weeks[wk][key] = day
	}

	return exportPayload{
		Meta: exportMeta{
			GeneratedAtUTC: time.Now().UTC().Truncate(time.Second).Format(time.RFC3339),
			Institute:      exportInstitute{ID: inst.ID, Name: inst.Name},
			Form:           FormName(form),
			Group:          exportGroup{ID: g.ID, Name: g.Name, Course: g.Course},
		},
		Weeks: weeks,
	}
}

// writeExport пишет out/<Институт>/<форма>/<группа>.json.
func writeExport(outDir string, inst vlsu.Institute, form int, g vlsu.Group, lessons []schedule.Lesson) error {
	dir := filepath.Join(outDir, inst.Name, FormName(form))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(BuildPayload(inst, form, g, lessons), "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s.json", g.Name))
	return os.WriteFile(path, data, 0o644)
}
