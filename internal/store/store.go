// Package store содержит единственного владельца всего изменяемого
// состояния бота. Все структуры партиционированы по chat ID; наружу
// сырые map никогда не отдаются.
package store

import (
	"sync"

	"github.com/kirillm/hedge-bot/internal/domain"
)

// SessionStore хранит состояние risk-сессий по chat ID.
// Обработчики telegram работают конкурентно, поэтому состояние
// каждого чата защищено собственным мьютексом.
type SessionStore struct {
	mu    sync.RWMutex
	chats map[int64]*chatState
}

type chatState struct {
	mu        sync.Mutex
	session   *domain.RiskSession
	autoHedge *domain.AutoHedgeConfig
	hedges    []domain.HedgeRecord
	positions []domain.PositionEntry
}

// NewSessionStore создает пустое хранилище
func NewSessionStore() *SessionStore {
	return &SessionStore{
		chats: make(map[int64]*chatState),
	}
}

// chat возвращает состояние чата, создавая его при необходимости
func (s *SessionStore) chat(chatID int64) *chatState {
	s.mu.RLock()
	cs, ok := s.chats[chatID]
	s.mu.RUnlock()
	if ok {
		return cs
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cs, ok = s.chats[chatID]; ok {
		return cs
	}
	cs = &chatState{}
	s.chats[chatID] = cs
	return cs
}

// PutSession заменяет сессию чата. Истории перезаписанных сессий нет:
// повторный monitor — это last-write-wins.
func (s *SessionStore) PutSession(chatID int64, session domain.RiskSession) {
	cs := s.chat(chatID)
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.session = &session
}

// GetSession возвращает сессию чата, если она есть
func (s *SessionStore) GetSession(chatID int64) (domain.RiskSession, bool) {
	cs := s.chat(chatID)
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.session == nil {
		return domain.RiskSession{}, false
	}
	return *cs.session, true
}

// UpdateThreshold меняет порог существующей сессии
func (s *SessionStore) UpdateThreshold(chatID int64, threshold float64) error {
	cs := s.chat(chatID)
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.session == nil {
		return domain.ErrNoActiveSession
	}
	cs.session.Threshold = threshold
	return nil
}

// SetAutoHedge сохраняет настройки авто-хеджа для чата
func (s *SessionStore) SetAutoHedge(chatID int64, cfg domain.AutoHedgeConfig) {
	cs := s.chat(chatID)
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.autoHedge = &cfg
}

// GetAutoHedge возвращает настройки авто-хеджа, если они есть
func (s *SessionStore) GetAutoHedge(chatID int64) (domain.AutoHedgeConfig, bool) {
	cs := s.chat(chatID)
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.autoHedge == nil {
		return domain.AutoHedgeConfig{}, false
	}
	return *cs.autoHedge, true
}

// AppendHedge добавляет запись в журнал хеджей. Журнал append-only.
func (s *SessionStore) AppendHedge(chatID int64, record domain.HedgeRecord) {
	cs := s.chat(chatID)
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.hedges = append(cs.hedges, record)
}

// RecentHedges возвращает последние n записей в порядке добавления
func (s *SessionStore) RecentHedges(chatID int64, n int) []domain.HedgeRecord {
	cs := s.chat(chatID)
	cs.mu.Lock()
	defer cs.mu.Unlock()

	start := len(cs.hedges) - n
	if start < 0 {
		start = 0
	}
	out := make([]domain.HedgeRecord, len(cs.hedges)-start)
	copy(out, cs.hedges[start:])
	return out
}

// HedgeCount возвращает длину журнала хеджей
func (s *SessionStore) HedgeCount(chatID int64) int {
	cs := s.chat(chatID)
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.hedges)
}

// AppendPosition добавляет вход в позицию в журнал PnL
func (s *SessionStore) AppendPosition(chatID int64, entry domain.PositionEntry) {
	cs := s.chat(chatID)
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.positions = append(cs.positions, entry)
}

// AllPositions возвращает все входы в позиции в порядке добавления
func (s *SessionStore) AllPositions(chatID int64) []domain.PositionEntry {
	cs := s.chat(chatID)
	cs.mu.Lock()
	defer cs.mu.Unlock()

	out := make([]domain.PositionEntry, len(cs.positions))
	copy(out, cs.positions)
	return out
}
