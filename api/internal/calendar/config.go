package calendar

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// Файл календаря:
//
//	semester_start: 2025-09-01
//	periods:
//	  - from: 2025-09-29
//	    to: 2025-10-11
//	    regime: rc
type fileConfig struct {
	SemesterStart string       `yaml:"semester_start"`
	Periods       []filePeriod `yaml:"periods"`
}

type filePeriod struct {
	From   string `yaml:"from"`
	To     string `yaml:"to"`
	Regime string `yaml:"regime"`
}

// Load читает календарь из YAML и валидирует его. Пересечения периодов
// отклоняются сразу: Resolve берёт первый совпавший период по порядку
// списка, и на пересечениях поведение зависело бы от порядка файла.
func Load(path string) (*Resolver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("calendar: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("calendar: parse %s: %w", path, err)
	}

	start, err := time.Parse("2006-01-02", fc.SemesterStart)
	if err != nil {
		return nil, fmt.Errorf("calendar: semester_start: %w", err)
	}

	r := &Resolver{SemesterStart: start}
	for i, p := range fc.Periods {
		from, err := time.Parse("2006-01-02", p.From)
		if err != nil {
			return nil, fmt.Errorf("calendar: periods[%d].from: %w", i, err)
		}
		to, err := time.Parse("2006-01-02", p.To)
		if err != nil {
			return nil, fmt.Errorf("calendar: periods[%d].to: %w", i, err)
		}
		if to.Before(from) {
			return nil, fmt.Errorf("calendar: periods[%d]: to %s before from %s", i, p.To, p.From)
		}
		reg := Regime(p.Regime)
		if !validRegime(reg) {
			return nil, fmt.Errorf("calendar: periods[%d]: unknown regime %q", i, p.Regime)
		}
		r.Periods = append(r.Periods, Period{From: from, To: to, Regime: reg})
	}

	if err := checkOverlaps(r.Periods); err != nil {
		return nil, fmt.Errorf("calendar: %w", err)
	}
	return r, nil
}

func checkOverlaps(periods []Period) error {
	sorted := make([]Period, len(periods))
	copy(sorted, periods)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].From.Before(sorted[j].From) })
	for i := 1; i < len(sorted); i++ {
		if !sorted[i].From.After(sorted[i-1].To) {
			return fmt.Errorf("periods overlap: %s..%s and %s..%s",
				sorted[i-1].From.Format("2006-01-02"), sorted[i-1].To.Format("2006-01-02"),
				sorted[i].From.Format("2006-01-02"), sorted[i].To.Format("2006-01-02"))
		}
	}
	return nil
}
