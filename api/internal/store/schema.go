package store

import (
	"context"
	"database/sql"
	"fmt"
)

var ErrNotFound = sql.ErrNoRows

// InitSchema создаёт таблицы, если их нет. Миграций как таковых нет:
// источник не даёт стабильных идентификаторов пар, так что lessons всегда
// перезаписываются целиком и схему можно пересоздавать без потерь.
func InitSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`create table if not exists institutes(
			id   text primary key,
			name text not null
		)`,
		`create table if not exists groups(
			id           text primary key,
			name         text not null,
			course       text,
			institute_id text references institutes(id) on delete cascade
		)`,
		`create table if not exists lessons(
			id         bigserial primary key,
			group_id   text not null references groups(id) on delete cascade,
			day        integer not null,
			time_start text not null default '',
			time_end   text not null default '',
			title      text,
			teacher    text,
			room       text,
			kind       text,
			week       text not null default 'all' check (week in ('all','odd','even'))
		)`,
		`create index if not exists idx_lessons_group on lessons(group_id)`,
		`create index if not exists idx_lessons_week on lessons(week)`,
		`create index if not exists idx_groups_institute on groups(institute_id)`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("store: init schema: %w", err)
		}
	}
	return nil
}
