package session

import (
	"sync"

	"github.com/pdk-keningau/temujanji-bot/internal/conversation"
)

// Store keeps one conversation session per Telegram user. It also
// serializes message handling per user: Update runs its callback under a
// per-user lock, so two messages from the same user are never processed
// concurrently, while different users proceed in parallel.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*entry
}

type entry struct {
	mu   sync.Mutex
	sess conversation.Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[int64]*entry)}
}

// Get returns the user's current session, or an idle zero session.
func (s *Store) Get(telegramID int64) conversation.Session {
	s.mu.RLock()
	e, ok := s.sessions[telegramID]
	s.mu.RUnlock()

	if !ok {
		return conversation.Session{}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess
}

// Update applies fn to the user's session under the per-user lock and
// stores the result. Idle results free the slot so finished and cancelled
// sessions do not accumulate.
//
// The entry may be removed from the map while a caller waits on its lock
// (the previous message ended the session), so after acquiring the lock
// the entry is re-checked against the map and a stale one is abandoned
// for the live one. Removal itself happens under the entry lock, which
// makes that check reliable.
func (s *Store) Update(telegramID int64, fn func(conversation.Session) conversation.Session) {
	for {
		e := s.entry(telegramID)
		e.mu.Lock()

		s.mu.RLock()
		live := s.sessions[telegramID] == e
		s.mu.RUnlock()
		if !live {
			e.mu.Unlock()
			continue
		}

		e.sess = fn(e.sess)
		if e.sess.State == conversation.StateIdle {
			s.mu.Lock()
			delete(s.sessions, telegramID)
			s.mu.Unlock()
		}
		e.mu.Unlock()
		return
	}
}

// Clear drops the user's session outright.
func (s *Store) Clear(telegramID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, telegramID)
}

func (s *Store) entry(telegramID int64) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[telegramID]
	if !ok {
		e = &entry{}
		s.sessions[telegramID] = e
	}
	return e
}
