package store

import (
	"context"
	"database/sql"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// GroupRepo — справочники институтов и групп.
type GroupRepo struct{ DB *sql.DB }

func NewGroupRepo(db *sql.DB) *GroupRepo { return &GroupRepo{DB: db} }

type InstituteRow struct {
	ID   string
	Name string
}

type GroupRow struct {
	ID     string
	Name   string
	Course string
}

func (r *GroupRepo) UpsertInstitute(ctx context.Context, id, name string) error {
	const q = `
insert into institutes(id, name) values($1, $2)
on conflict (id) do update set name = excluded.name`
	_, err := r.DB.ExecContext(ctx, q, id, name)
	return err
}

func (r *GroupRepo) UpsertGroup(ctx context.Context, id, name, course, instituteID string) error {
	const q = `
insert into groups(id, name, course, institute_id) values($1, $2, $3, $4)
on conflict (id) do update set
    name = excluded.name,
    course = excluded.course,
    institute_id = excluded.institute_id`
	_, err := r.DB.ExecContext(ctx, q, id, name, course, instituteID)
	return err
}

func (r *GroupRepo) Institutes(ctx context.Context) ([]InstituteRow, error) {
	const q = `select id, name from institutes order by lower(name)`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []InstituteRow
	for rows.Next() {
		var it InstituteRow
		if err := rows.Scan(&it.ID, &it.Name); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *GroupRepo) InstituteName(ctx context.Context, id string) (string, error) {
	const q = `select name from institutes where id = $1`
	var name string
	err := r.DB.QueryRowContext(ctx, q, id).Scan(&name)
	return name, err
}

var reCourseNum = regexp.MustCompile(`\d+`)

// courseToInt: «1 курс» -> 1; непарсибельное -> 0.
func courseToInt(s string) int {
	m := reCourseNum.FindString(s)
	if m == "" {
		return 0
	}
	n, _ := strconv.Atoi(m)
	return n
}

// CoursesForInstitute — отсортированные номера курсов, у которых есть группы.
func (r *GroupRepo) CoursesForInstitute(ctx context.Context, instituteID string) ([]int, error) {
	const q = `select distinct coalesce(course, '') from groups where institute_id = $1`
	rows, err := r.DB.QueryContext(ctx, q, instituteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	set := map[int]bool{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		if n := courseToInt(c); n > 0 {
			set[n] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out := make([]int, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Ints(out)
	return out, nil
}

func (r *GroupRepo) GroupsByInstitute(ctx context.Context, instituteID string) ([]GroupRow, error) {
	const q = `
select id, name, coalesce(course, '')
from groups
where institute_id = $1
order by lower(name)`
	return r.queryGroups(ctx, q, instituteID)
}

// GroupsByInstituteCourse фильтрует по номеру курса: курс хранится текстом
// («1 курс»), поэтому сравниваем извлечённый номер на стороне Go.
func (r *GroupRepo) GroupsByInstituteCourse(ctx context.Context, instituteID string, course int) ([]GroupRow, error) {
	all, err := r.GroupsByInstitute(ctx, instituteID)
	if err != nil {
		return nil, err
	}
	out := make([]GroupRow, 0, len(all))
	for _, g := range all {
		if courseToInt(g.Course) == course {
			out = append(out, g)
		}
	}
	return out, nil
}

// FindGroupsByName — поиск по свободному тексту, без пробелов и регистра.
func (r *GroupRepo) FindGroupsByName(ctx context.Context, nameLike string) ([]GroupRow, error) {
	q := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(nameLike)), " ", "")
	const sqlq = `
select id, name, coalesce(course, '')
from groups
where replace(lower(name), ' ', '') like $1
order by lower(name)
limit 30`
	return r.queryGroups(ctx, sqlq, "%"+q+"%")
}

func (r *GroupRepo) queryGroups(ctx context.Context, q string, args ...any) ([]GroupRow, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []GroupRow
	for rows.Next() {
		var g GroupRow
		if err := rows.Scan(&g.ID, &g.Name, &g.Course); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
