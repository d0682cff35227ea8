package telegram

import (
	"sync"

	"vlsu-bot/api/internal/store"
)

// Profile — выбор пользователя: институт -> курс -> группа.
type Profile struct {
	InstituteID   string
	InstituteName string
	Course        int // 0 — все курсы
	GroupID       string
	GroupName     string
}

// BrowseLists — последние показанные чату списки (для пагинации кнопок).
type BrowseLists struct {
	Institutes []store.InstituteRow
	Groups     []store.GroupRow
	GroupsAll  []store.GroupRow
}

// Sessions — состояние диалога по чату. Интерфейс внедряется в Router,
// чтобы состояние не жило в глобалах пакета и подменялось в тестах.
type Sessions interface {
	Profile(chatID int64) (Profile, bool)
	SetProfile(chatID int64, p Profile)
	Lists(chatID int64) (BrowseLists, bool)
	SetLists(chatID int64, l BrowseLists)
	Clear(chatID int64)
}

type memorySessions struct {
	profiles sync.Map // chatID -> Profile
	lists    sync.Map // chatID -> BrowseLists
}

// NewMemorySessions — in-memory реализация на sync.Map; процесс один,
// persistence состоянию диалога не нужен.
func NewMemorySessions() Sessions { return &memorySessions{} }

func (s *memorySessions) Profile(chatID int64) (Profile, bool) {
	v, ok := s.profiles.Load(chatID)
	if !ok {
		return Profile{}, false
	}
	return v.(Profile), true
}

func (s *memorySessions) SetProfile(chatID int64, p Profile) { s.profiles.Store(chatID, p) }

func (s *memorySessions) Lists(chatID int64) (BrowseLists, bool) {
	v, ok := s.lists.Load(chatID)
	if !ok {
		return BrowseLists{}, false
	}
	return v.(BrowseLists), true
}

func (s *memorySessions) SetLists(chatID int64, l BrowseLists) { s.lists.Store(chatID, l) }

func (s *memorySessions) Clear(chatID int64) {
	s.profiles.Delete(chatID)
	s.lists.Delete(chatID)
}
