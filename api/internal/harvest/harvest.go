package harvest

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"vlsu-bot/api/internal/store"
	"vlsu-bot/api/internal/vlsu"
)

// Harvester обходит институты и группы и перекладывает нормализованное
// расписание в Postgres (и, опционально, в JSON-файлы). Набор пар группы
// заменяется целиком при каждом проходе.
type Harvester struct {
	API     *vlsu.Client
	Groups  *store.GroupRepo
	Lessons *store.LessonRepo

	Forms         []int         // формы обучения; по умолчанию только очная
	OnlyInstitute string        // GUID института для выборочного обновления
	Pause         time.Duration // пауза между группами, чтобы не долбить API
	OutDir        string        // если не пусто — писать JSON-выгрузки
}

type Stats struct {
	Institutes int
	Groups     int
	Lessons    int
}

// Run выполняет полный проход. Ошибки отдельных групп/форм логируются и не
// прерывают обход; фатальна только невозможность получить список институтов.
func (h *Harvester) Run(ctx context.Context) (Stats, error) {
	var st Stats

	forms := h.Forms
	if len(forms) == 0 {
		forms = []int{vlsu.FormFullTime}
	}
	pause := h.Pause
	if pause == 0 {
		pause = 200 * time.Millisecond
	}

	insts, err := h.API.GetInstitutes(ctx)
	if err != nil {
		return st, fmt.Errorf("harvest: %w", err)
	}
	if h.OnlyInstitute != "" {
		filtered := insts[:0]
		for _, it := range insts {
			if it.ID == h.OnlyInstitute {
				filtered = append(filtered, it)
			}
		}
		insts = filtered
	}

	for _, inst := range insts {
		st.Institutes++
		if err := h.Groups.UpsertInstitute(ctx, inst.ID, inst.Name); err != nil {
			log.Printf("harvest: institute %s: %v", inst.Name, err)
			continue
		}
		log.Printf("=== Институт: %s (%s) ===", inst.Name, inst.ID)

		for _, form := range forms {
			groups, err := h.API.GetGroups(ctx, inst.ID, form)
			if err != nil {
				log.Printf("harvest: %s form=%d: groups: %v", inst.Name, form, err)
				continue
			}
			log.Printf("  форма %d: групп %d", form, len(groups))

			for _, g := range groups {
				if err := ctx.Err(); err != nil {
					return st, err
				}
				st.Groups++
				if err := h.Groups.UpsertGroup(ctx, g.ID, g.Name, g.Course, inst.ID); err != nil {
					log.Printf("  [FAIL] %s: save group: %v", g.Name, err)
					continue
				}

				lessons, err := h.API.GetSchedule(ctx, g.ID, 0)
				if err != nil {
					log.Printf("  [FAIL] %s: %v", g.Name, err)
					continue
				}
				if err := h.Lessons.Replace(ctx, g.ID, lessons); err != nil {
					log.Printf("  [FAIL] %s: save lessons: %v", g.Name, err)
					continue
				}
				if h.OutDir != "" {
					if err := writeExport(h.OutDir, inst, form, g, lessons); err != nil {
						log.Printf("  [WARN] %s: export: %v", g.Name, err)
					}
				}

				st.Lessons += len(lessons)
				log.Printf("  [OK] %-20s — %3d пар", g.Name, len(lessons))
				sleep(ctx, pause)
			}
		}
	}

	log.Printf("Готово. Групп обработано: %d, пар сохранено: %d", st.Groups, st.Lessons)
	return st, nil
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// FormName — человекочитаемое имя формы обучения (и имя подпапки выгрузки).
func FormName(form int) string {
	switch form {
	case vlsu.FormFullTime:
		return "очная"
	case vlsu.FormPartTime:
		return "заочная"
	case vlsu.FormEvening:
		return "очно-заочная"
	}
	return fmt.Sprintf("%d", form)
}

// ParseForms разбирает список форм из строки «0,1,2».
func ParseForms(s string) []int {
	var out []int
	for _, tok := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		var n int
		if _, err := fmt.Sscanf(tok, "%d", &n); err == nil {
			out = append(out, n)
		}
	}
	return out
}
