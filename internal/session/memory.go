package session

import (
	"context"
	"sync"
	"time"
)

type memSession struct {
	values   map[string]string
	lastSeen time.Time
}

// MemoryStore is an in-process Store. It is used when Redis is not
// reachable at startup, so sessions do not survive a restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memSession
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryStore(idle time.Duration) *MemoryStore {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &MemoryStore{sessions: map[string]*memSession{}, ttl: idle, now: time.Now}
}

// live returns the session for sid, dropping it when idle for too long.
// Callers hold mu.
func (s *MemoryStore) live(sid string) *memSession {
	ss, ok := s.sessions[sid]
	if !ok {
		return nil
	}
	if s.now().Sub(ss.lastSeen) >= s.ttl {
		delete(s.sessions, sid)
		return nil
	}
	ss.lastSeen = s.now()
	return ss
}

func (s *MemoryStore) Get(_ context.Context, sid, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ss := s.live(sid)
	if ss == nil {
		return "", false, nil
	}
	v, ok := ss.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, sid, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ss := s.live(sid)
	if ss == nil {
		s.sweep()
		ss = &memSession{values: map[string]string{}, lastSeen: s.now()}
		s.sessions[sid] = ss
	}
	ss.values[key] = value
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sid, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ss := s.live(sid); ss != nil {
		delete(ss.values, key)
	}
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
	return nil
}

// sweep drops every expired session. Callers hold mu.
func (s *MemoryStore) sweep() {
	now := s.now()
	for sid, ss := range s.sessions {
		if now.Sub(ss.lastSeen) >= s.ttl {
			delete(s.sessions, sid)
		}
	}
}
