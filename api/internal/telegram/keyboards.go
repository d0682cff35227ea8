package telegram

import (
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vlsu-bot/api/internal/store"
)

const (
	institutesPerPage = 10
	groupsPerPage     = 12
)

// Список институтов, по одному в строке, с пагинацией.
func institutesKeyboard(insts []store.InstituteRow, page int) tgbotapi.InlineKeyboardMarkup {
	start := page * institutesPerPage
	end := min(start+institutesPerPage, len(insts))
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, it := range insts[start:end] {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(it.Name, "inst:"+it.ID),
		))
	}
	var nav []tgbotapi.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("« Назад", "instpage:"+strconv.Itoa(page-1)))
	}
	if end < len(insts) {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("Вперёд »", "instpage:"+strconv.Itoa(page+1)))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// Кнопки курсов по три в строке плюс «Все курсы».
func coursesKeyboard(courses []int) tgbotapi.InlineKeyboardMarkup {
	var btns []tgbotapi.InlineKeyboardButton
	for _, c := range courses {
		btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(strconv.Itoa(c)+" курс", "course:"+strconv.Itoa(c)))
	}
	btns = append(btns, tgbotapi.NewInlineKeyboardButtonData("Все курсы", "course:all"))

	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(btns); i += 3 {
		rows = append(rows, btns[i:min(i+3, len(btns))])
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func groupsKeyboard(groups []store.GroupRow, page int) tgbotapi.InlineKeyboardMarkup {
	start := page * groupsPerPage
	end := min(start+groupsPerPage, len(groups))
	var btns []tgbotapi.InlineKeyboardButton
	for _, g := range groups[start:end] {
		btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(g.Name, "group:"+g.ID))
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(btns); i += 3 {
		rows = append(rows, btns[i:min(i+3, len(btns))])
	}
	var nav []tgbotapi.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("« Назад", "grouppage:"+strconv.Itoa(page-1)))
	}
	if end < len(groups) {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("Вперёд »", "grouppage:"+strconv.Itoa(page+1)))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// Навигация по неделям: [◀️] [🏠] [▶️] / [Сменить группу].
// В колбэках — точные даты понедельников, чтобы не таскать счётчики.
func weekNavKeyboard(weekStart, home time.Time) tgbotapi.InlineKeyboardMarkup {
	prev := weekStart.AddDate(0, 0, -7)
	next := weekStart.AddDate(0, 0, 7)
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️", "week:"+prev.Format("2006-01-02")),
			tgbotapi.NewInlineKeyboardButtonData("🏠", "week:"+mondayOfWeek(home).Format("2006-01-02")),
			tgbotapi.NewInlineKeyboardButtonData("▶️", "week:"+next.Format("2006-01-02")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Сменить группу", "menu:change"),
		),
	)
}
