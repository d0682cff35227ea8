package store

import (
	"context"
	"database/sql"
	"fmt"

	"vlsu-bot/api/internal/schedule"
)

// LessonRepo — кэш нормализованных пар. Источник не даёт стабильной
// идентичности пары между обновлениями, поэтому набор пар группы всегда
// заменяется целиком: delete + bulk insert, никаких точечных апдейтов.
type LessonRepo struct{ DB *sql.DB }

func NewLessonRepo(db *sql.DB) *LessonRepo { return &LessonRepo{DB: db} }

// Replace перезаписывает пары группы в одной транзакции.
// Записи с днём вне 1..7 (генерик-путь нормализатора их не гарантирует)
// отбрасываются здесь.
func (r *LessonRepo) Replace(ctx context.Context, groupID string, lessons []schedule.Lesson) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: replace lessons: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `delete from lessons where group_id = $1`, groupID); err != nil {
		return fmt.Errorf("store: replace lessons: %w", err)
	}

	const q = `
insert into lessons(group_id, day, time_start, time_end, title, teacher, room, kind, week)
values($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return fmt.Errorf("store: replace lessons: %w", err)
	}
	defer stmt.Close()

	for _, l := range lessons {
		if l.Day < 1 || l.Day > 7 {
			continue
		}
		week := l.Week
		if week == "" {
			week = schedule.WeekAll
		}
		if _, err := stmt.ExecContext(ctx, groupID,
			l.Day, l.Start, l.End, l.Title, l.Teacher, l.Room, l.Kind, string(week)); err != nil {
			return fmt.Errorf("store: replace lessons: %w", err)
		}
	}
	return tx.Commit()
}

// ForDay возвращает пары группы на день. При parity odd|even отдаются
// общие пары плюс пары этой чётности; при пустом parity — всё, сначала
// общие, затем числитель, затем знаменатель.
func (r *LessonRepo) ForDay(ctx context.Context, groupID string, day int, parity schedule.Week) ([]schedule.Lesson, error) {
	var (
		q    string
		args []any
	)
	if parity == schedule.WeekOdd || parity == schedule.WeekEven {
		q = `
select day, time_start, time_end, coalesce(title,''), coalesce(teacher,''),
       coalesce(room,''), coalesce(kind,''), week
from lessons
where group_id = $1 and day = $2 and (week = 'all' or week = $3)
order by time_start`
		args = []any{groupID, day, string(parity)}
	} else {
		q = `
select day, time_start, time_end, coalesce(title,''), coalesce(teacher,''),
       coalesce(room,''), coalesce(kind,''), week
from lessons
where group_id = $1 and day = $2
order by case week when 'all' then 0 when 'odd' then 1 else 2 end, time_start`
		args = []any{groupID, day}
	}

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []schedule.Lesson
	for rows.Next() {
		var l schedule.Lesson
		var week string
		if err := rows.Scan(&l.Day, &l.Start, &l.End, &l.Title, &l.Teacher, &l.Room, &l.Kind, &week); err != nil {
			return nil, err
		}
		l.Week = schedule.Week(week)
		out = append(out, l)
	}
	return out, rows.Err()
}

// ForWeek — пары на все семь дней разом, ключ — ISO-день.
func (r *LessonRepo) ForWeek(ctx context.Context, groupID string, parity schedule.Week) (map[int][]schedule.Lesson, error) {
	out := make(map[int][]schedule.Lesson, 7)
	for d := 1; d <= 7; d++ {
		ls, err := r.ForDay(ctx, groupID, d, parity)
		if err != nil {
			return nil, err
		}
		out[d] = ls
	}
	return out, nil
}
