package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store keeps form sessions. Nothing is persisted: a session lives only as
// long as the process and is dropped after sitting idle for the TTL.
type Store interface {
	Create() *Session
	Get(id string) (*Session, error)
	Delete(id string) error
	Len() int
}

type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	log      *zap.Logger
}

// NewMemoryStore returns an in-process store. A zero ttl disables expiry.
func NewMemoryStore(ttl time.Duration, log *zap.Logger) *MemoryStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &MemoryStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		log:      log.Named("session"),
	}
}

func (m *MemoryStore) Create() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()

	s := newSession(uuid.New().String(), m.now)
	m.sessions[s.id] = s
	m.log.Debug("session created", zap.String("session_id", s.id), zap.Int("active", len(m.sessions)))
	return s
}

func (m *MemoryStore) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if m.expired(s) {
		delete(m.sessions, id)
		m.log.Debug("session expired", zap.String("session_id", id))
		return nil, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// expired never reports a session with a generation in flight.
func (m *MemoryStore) expired(s *Session) bool {
	if m.ttl <= 0 {
		return false
	}
	touched, inFlight := s.idleSince()
	return !inFlight && m.now().Sub(touched) > m.ttl
}

func (m *MemoryStore) sweepLocked() {
	removed := 0
	for id, s := range m.sessions {
		if m.expired(s) {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		m.log.Info("expired sessions swept", zap.Int("removed", removed), zap.Int("active", len(m.sessions)))
	}
}
