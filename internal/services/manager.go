package services

import (
	"sync"

	"github.com/benbjohnson/clock"

	"classroom-live/internal/ai"
)

// SessionManager hands out one live session per class, creating it on
// first use.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	clock     clock.Clock
	store     SessionStore
	deckStore DeckPersister
	notifier  Notifier
	aiClient  *ai.Client
}

// NewSessionManager creates the registry.
func NewSessionManager(clk clock.Clock, store SessionStore, deckStore DeckPersister,
	notifier Notifier, aiClient *ai.Client) *SessionManager {

	return &SessionManager{
		sessions:  make(map[string]*Session),
		clock:     clk,
		store:     store,
		deckStore: deckStore,
		notifier:  notifier,
		aiClient:  aiClient,
	}
}

// Get returns the session for a class, creating it if needed.
func (m *SessionManager) Get(classID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if session, ok := m.sessions[classID]; ok {
		return session
	}

	session := NewSession(classID, m.clock, m.store, m.deckStore, m.notifier, m.aiClient)
	m.sessions[classID] = session
	return session
}

// CloseAll tears down every session, cancelling their timers.
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for classID, session := range m.sessions {
		session.Close()
		delete(m.sessions, classID)
	}
}
