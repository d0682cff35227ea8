package telegram

import (
	"context"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vlsu-bot/api/internal/calendar"
	"vlsu-bot/api/internal/schedule"
	"vlsu-bot/api/internal/store"
)

func (r *Router) handleCallback(cb tgbotapi.CallbackQuery) {
	cid := cb.Message.Chat.ID
	msgID := cb.Message.MessageID
	_, _ = r.Bot.Request(tgbotapi.NewCallback(cb.ID, "")) // ack

	action, arg, _ := strings.Cut(cb.Data, ":")
	switch action {
	case "inst":
		r.selectInstitute(cid, msgID, arg)
	case "instpage":
		r.showInstitutesPage(cid, msgID, atoi(arg))
	case "course":
		r.selectCourse(cid, msgID, arg)
	case "group":
		r.selectGroup(cid, msgID, arg)
	case "grouppage":
		r.showGroupsPage(cid, msgID, atoi(arg))
	case "week":
		start, err := time.Parse("2006-01-02", arg)
		if err != nil {
			start = mondayOfWeek(r.now())
		}
		r.showWeek(cid, msgID, start)
	case "menu":
		if arg == "change" {
			r.startPickFlow(cid)
		}
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// ---------------- Выбор института/курса/группы -----------------

func (r *Router) showInstitutesPage(chatID int64, msgID, page int) {
	lists, _ := r.Sessions.Lists(chatID)
	r.editHTML(chatID, msgID, "Выберите институт:", institutesKeyboard(lists.Institutes, page))
}

func (r *Router) selectInstitute(chatID int64, msgID int, instID string) {
	ctx := context.Background()
	name, err := r.Groups.InstituteName(ctx, instID)
	if err != nil {
		name = instID
	}
	courses, err := r.Groups.CoursesForInstitute(ctx, instID)
	if err != nil {
		r.sendError(chatID, err)
		return
	}
	groupsAll, err := r.Groups.GroupsByInstitute(ctx, instID)
	if err != nil {
		r.sendError(chatID, err)
		return
	}

	// выбор института сбрасывает курс и группу
	r.Sessions.SetProfile(chatID, Profile{InstituteID: instID, InstituteName: name})
	lists, _ := r.Sessions.Lists(chatID)
	lists.GroupsAll = groupsAll
	r.Sessions.SetLists(chatID, lists)

	r.editHTML(chatID, msgID, "<b>"+hesc(name)+"</b>\nВыберите курс:", coursesKeyboard(courses))
}

func (r *Router) selectCourse(chatID int64, msgID int, sel string) {
	prof, ok := r.Sessions.Profile(chatID)
	if !ok || prof.InstituteID == "" {
		r.send(chatID, "Сначала выберите институт: /start")
		return
	}
	ctx := context.Background()

	var (
		groups []store.GroupRow
		err    error
	)
	if sel == "all" {
		prof.Course = 0
		groups, err = r.Groups.GroupsByInstitute(ctx, prof.InstituteID)
	} else {
		prof.Course = atoi(sel)
		groups, err = r.Groups.GroupsByInstituteCourse(ctx, prof.InstituteID, prof.Course)
	}
	if err != nil {
		r.sendError(chatID, err)
		return
	}

	r.Sessions.SetProfile(chatID, prof)
	lists, _ := r.Sessions.Lists(chatID)
	lists.Groups = groups
	r.Sessions.SetLists(chatID, lists)

	course := "все"
	if prof.Course > 0 {
		course = strconv.Itoa(prof.Course)
	}
	text := hesc(prof.InstituteName) + "\nКурс: " + hesc(course) +
		"\nТеперь выберите группу или просто напишите её название:"
	r.editHTML(chatID, msgID, text, groupsKeyboard(groups, 0))
}

func (r *Router) showGroupsPage(chatID int64, msgID, page int) {
	lists, _ := r.Sessions.Lists(chatID)
	r.editHTML(chatID, msgID, "Выберите группу:", groupsKeyboard(lists.Groups, page))
}

// selectGroup фиксирует группу в профиле и сразу показывает текущую неделю.
// msgID == 0 — ответ пришёл не с кнопки, сообщение шлём новое.
func (r *Router) selectGroup(chatID int64, msgID int, groupID string) {
	lists, _ := r.Sessions.Lists(chatID)
	name := groupID
	for _, g := range append(lists.Groups, lists.GroupsAll...) {
		if g.ID == groupID {
			name = g.Name
			break
		}
	}

	prof, _ := r.Sessions.Profile(chatID)
	prof.GroupID = groupID
	prof.GroupName = name
	r.Sessions.SetProfile(chatID, prof)

	r.renderWeek(chatID, msgID, mondayOfWeek(r.now()))
}

// ---------------- Недельный вид -----------------

func (r *Router) showWeek(chatID int64, msgID int, weekStart time.Time) {
	r.renderWeek(chatID, msgID, weekStart)
}

// showWeekByChat — для команды /week (нет сообщения для правки).
func (r *Router) showWeekByChat(chatID int64, weekStart time.Time) {
	r.renderWeek(chatID, 0, weekStart)
}

func (r *Router) renderWeek(chatID int64, msgID int, weekStart time.Time) {
	prof, ok := r.Sessions.Profile(chatID)
	if !ok || prof.GroupID == "" {
		r.send(chatID, "Сначала выберите группу: /start")
		return
	}

	status := r.Calendar.Resolve(weekStart)
	header := htmlQuote([]string{prof.GroupName, "неделя: " + regimeLabel(status)})
	kb := weekNavKeyboard(weekStart, r.now())

	// неучебная неделя — пары не показываем вовсе
	if !status.Teaching() {
		body := htmlQuote([]string{
			schedule.DayShortName(1) + "–" + schedule.DayShortName(7) + " ~ " +
				weekStart.Format("02.01") + "–" + weekStart.AddDate(0, 0, 6).Format("02.01"),
			"На этой неделе занятий нет",
		})
		r.deliverWeek(chatID, msgID, header+"\n\n"+body, kb)
		return
	}

	// рейтинговый контроль идёт по чётности своей недели
	parity := schedule.WeekEven
	effective := status
	if effective == calendar.RegimeRC {
		effective = r.Calendar.Parity(weekStart)
	}
	if effective == calendar.RegimeOdd {
		parity = schedule.WeekOdd
	}

	byDay, err := r.Lessons.ForWeek(context.Background(), prof.GroupID, parity)
	if err != nil {
		r.sendError(chatID, err)
		return
	}

	blocks := []string{header}
	for d := 1; d <= 7; d++ {
		date := weekStart.AddDate(0, 0, d-1)
		label := schedule.DayShortName(d) + " ~ " + date.Format("02.01")
		blocks = append(blocks, renderDayBlock(label, byDay[d]))
	}
	r.deliverWeek(chatID, msgID, strings.Join(blocks, "\n"), kb)
}

func (r *Router) deliverWeek(chatID int64, msgID int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	if msgID != 0 {
		r.editHTML(chatID, msgID, text, kb)
	} else {
		r.sendHTML(chatID, text, kb)
	}
}
