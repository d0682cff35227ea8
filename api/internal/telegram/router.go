package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vlsu-bot/api/internal/calendar"
	"vlsu-bot/api/internal/store"
)

// Router разбирает апдейты Telegram и ведёт пользователя по цепочке
// институт -> курс -> группа -> недельное расписание.
type Router struct {
	Bot      *tgbotapi.BotAPI
	Groups   *store.GroupRepo
	Lessons  *store.LessonRepo
	Calendar *calendar.Resolver
	Sessions Sessions
	Loc      *time.Location // часовой пояс «сегодня»
}

func (r *Router) now() time.Time {
	if r.Loc != nil {
		return time.Now().In(r.Loc)
	}
	return time.Now()
}

func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		r.handleCallback(*upd.CallbackQuery)
		return
	}
	if upd.Message == nil {
		return
	}
	if upd.Message.IsCommand() {
		r.handleCommand(*upd.Message)
		return
	}
	if upd.Message.Text != "" {
		r.freeTextGroupSearch(*upd.Message)
	}
}

func (r *Router) handleCommand(m tgbotapi.Message) {
	cid := m.Chat.ID
	switch m.Command() {
	case "start":
		r.startPickFlow(cid)
	case "week":
		r.showWeekByChat(cid, mondayOfWeek(r.now()))
	case "status":
		d := r.now()
		r.send(cid, fmt.Sprintf("%s — %s", d.Format("02.01.2006"), regimeLabel(r.Calendar.Resolve(d))))
	case "health":
		r.send(cid, "✅ OK")
	default:
		r.send(cid, "Неизвестная команда. Доступны: /start, /week, /status, /health")
	}
}

// startPickFlow — первый экран: список институтов.
func (r *Router) startPickFlow(chatID int64) {
	insts, err := r.Groups.Institutes(context.Background())
	if err != nil {
		r.sendError(chatID, err)
		return
	}
	lists, _ := r.Sessions.Lists(chatID)
	lists.Institutes = insts
	r.Sessions.SetLists(chatID, lists)

	msg := tgbotapi.NewMessage(chatID, "Привет! Я бот расписания ВлГУ.\nВыберите институт:")
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = institutesKeyboard(insts, 0)
	_, _ = r.Bot.Send(msg)
}

// Свободный текст трактуем как поиск группы («КП-125»).
func (r *Router) freeTextGroupSearch(m tgbotapi.Message) {
	cid := m.Chat.ID
	query := strings.TrimSpace(m.Text)
	if len([]rune(query)) < 2 {
		return
	}
	found, err := r.Groups.FindGroupsByName(context.Background(), query)
	if err != nil {
		r.sendError(cid, err)
		return
	}
	switch {
	case len(found) == 0:
		r.send(cid, "Не нашёл такую группу. Попробуй ещё раз (минимум 2 символа).")
	case len(found) == 1:
		lists, _ := r.Sessions.Lists(cid)
		lists.GroupsAll = found
		r.Sessions.SetLists(cid, lists)
		r.selectGroup(cid, 0, found[0].ID)
	default:
		lists, _ := r.Sessions.Lists(cid)
		lists.Groups = found
		r.Sessions.SetLists(cid, lists)
		msg := tgbotapi.NewMessage(cid, "Нашёл несколько групп. Выбери нужную:")
		msg.ReplyMarkup = groupsKeyboard(found, 0)
		_, _ = r.Bot.Send(msg)
	}
}

// ---------------- Отправка -----------------

func (r *Router) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := r.Bot.Send(msg); err != nil {
		log.Printf("telegram: send to %d: %v", chatID, err)
	}
}

func (r *Router) sendError(chatID int64, err error) {
	log.Printf("telegram: chat %d: %v", chatID, err)
	r.send(chatID, "Что-то пошло не так, попробуйте ещё раз.")
}

// editHTML правит сообщение; «message is not modified» от Telegram — не ошибка.
func (r *Router) editHTML(chatID int64, msgID int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.ReplyMarkup = &kb
	if _, err := r.Bot.Send(edit); err != nil && !strings.Contains(err.Error(), "message is not modified") {
		log.Printf("telegram: edit %d/%d: %v", chatID, msgID, err)
	}
}

func (r *Router) sendHTML(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = kb
	if _, err := r.Bot.Send(msg); err != nil {
		log.Printf("telegram: send to %d: %v", chatID, err)
	}
}
