package vlsu

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"vlsu-bot/api/internal/schedule"
)

const DefaultBaseURL = "https://abiturient-api.vlsu.ru"

// Формы обучения в терминах бэкенда.
const (
	FormFullTime = 0 // очная
	FormPartTime = 1 // заочная
	FormEvening  = 2 // очно-заочная
)

// Institute — запись справочника институтов.
type Institute struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Group — запись справочника групп.
type Group struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Course string `json:"course"`
}

// Client ходит в API студенческого портала. Один клиент с заголовками
// «как у фронта» — иначе бэкенд отвечает пустотой.
type Client struct {
	http *resty.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() == 429 || r.StatusCode() >= 500
		}).
		SetHeaders(map[string]string{
			"Accept":       "application/json, text/plain, */*",
			"Content-Type": "application/json",
			"Origin":       "https://student.vlsu.ru",
			"Referer":      "https://student.vlsu.ru/",
			"User-Agent":   "Mozilla/5.0",
		})
	return &Client{http: c}
}

// бэкенд иногда отдаёт JSON с content-type text/plain, поэтому тело
// разбираем сами
func decodeBody(resp *resty.Response, out any) error {
	if resp.IsError() {
		return fmt.Errorf("vlsu: %s %s: status %d", resp.Request.Method, resp.Request.URL, resp.StatusCode())
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("vlsu: decode %s: %w", resp.Request.URL, err)
	}
	return nil
}

// ---------------- Справочники -----------------

func (c *Client) GetInstitutes(ctx context.Context) ([]Institute, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/api/catalogs/GetInstitutes")
	if err != nil {
		return nil, fmt.Errorf("vlsu: institutes: %w", err)
	}
	var raw []map[string]any
	if err := decodeBody(resp, &raw); err != nil {
		return nil, err
	}
	out := make([]Institute, 0, len(raw))
	for _, m := range raw {
		out = append(out, Institute{
			ID:   str(m["Value"]),
			Name: str(m["Text"]),
		})
	}
	return out, nil
}

// FindInstituteID ищет институт по подстроке названия (без регистра).
func (c *Client) FindInstituteID(ctx context.Context, nameSubstr string) (string, error) {
	insts, err := c.GetInstitutes(ctx)
	if err != nil {
		return "", err
	}
	q := strings.ToLower(nameSubstr)
	for _, it := range insts {
		if strings.Contains(strings.ToLower(it.Name), q) {
			return it.ID, nil
		}
	}
	return "", nil
}

// ---------------- Группы -----------------

// GetGroups возвращает группы института. Бэкенд ждёт именно такие ключи тела.
func (c *Client) GetGroups(ctx context.Context, instituteID string, form int) ([]Group, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"Institut": instituteID, "WFormed": form}).
		Post("/api/student/GetStudGroups")
	if err != nil {
		return nil, fmt.Errorf("vlsu: groups: %w", err)
	}
	var raw []any
	if err := decodeBody(resp, &raw); err != nil {
		return nil, err
	}
	return normalizeGroups(raw), nil
}

// normalizeGroups терпит дрейф имён полей между релизами бэкенда.
func normalizeGroups(raw []any) []Group {
	var out []Group
	for _, el := range raw {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, Group{
			ID:     firstStr(m, "Nrec", "Value", "Id", "ID"),
			Name:   firstStr(m, "Name", "Text"),
			Course: firstStr(m, "Course", "Kurs", "CourseNumber"),
		})
	}
	return out
}

// FindGroup — сначала точное совпадение, потом подстрока; пробелы и регистр
// игнорируются («кп-125» найдёт «КП -125»).
func FindGroup(groups []Group, query string) (Group, bool) {
	q := squash(query)
	for _, g := range groups {
		if q == squash(g.Name) {
			return g, true
		}
	}
	for _, g := range groups {
		if strings.Contains(squash(g.Name), q) {
			return g, true
		}
	}
	return Group{}, false
}

func squash(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "")
}

// ---------------- Расписание и «сейчас» -----------------

// GetScheduleRaw тянет расписание как есть.
// weekType: 0 — все недели, 1 — числитель, 2 — знаменатель.
func (c *Client) GetScheduleRaw(ctx context.Context, groupID string, weekType int, days string) (json.RawMessage, error) {
	if days == "" {
		days = "1,2,3,4,5,6"
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"Nrec": groupID, "WeekType": weekType, "WeekDays": days}).
		Post("/api/student/GetGroupSchedule")
	if err != nil {
		return nil, fmt.Errorf("vlsu: schedule: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("vlsu: schedule: status %d", resp.StatusCode())
	}
	return json.RawMessage(resp.Body()), nil
}

// GetSchedule — то же, но сразу в каноническом виде.
func (c *Client) GetSchedule(ctx context.Context, groupID string, weekType int) ([]schedule.Lesson, error) {
	raw, err := c.GetScheduleRaw(ctx, groupID, weekType, "")
	if err != nil {
		return nil, err
	}
	lessons, err := schedule.NormalizeJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("vlsu: schedule for %s: %w", groupID, err)
	}
	return lessons, nil
}

// GetGroupCurrentInfo — карточка «сейчас/следующая пара».
func (c *Client) GetGroupCurrentInfo(ctx context.Context, groupID string) (json.RawMessage, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"Nrec": groupID}).
		Post("/api/student/GetGroupCurrentInfo")
	if err != nil {
		return nil, fmt.Errorf("vlsu: current info: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("vlsu: current info: status %d", resp.StatusCode())
	}
	return json.RawMessage(resp.Body()), nil
}

// ---------------- Хелперы -----------------

func str(v any) string {
	s, _ := v.(string)
	return s
}

func firstStr(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			if s := str(v); s != "" {
				return s
			}
		}
	}
	return ""
}
