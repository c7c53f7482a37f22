package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var ErrNotFound = errors.New("session not found")

// Store keeps Conversations between exchanges. Load returns ErrNotFound for an
// unknown key. Implementations must be safe for concurrent use; callers
// serialize access per key.
type Store interface {
	Load(ctx context.Context, key string) (*Conversation, error)
	Save(ctx context.Context, key string, conv *Conversation) error
	Delete(ctx context.Context, key string) error
}

type memoryEntry struct {
	conv     *Conversation
	lastSeen time.Time
}

// MemoryStore keeps Conversations in process memory and evicts those idle for
// longer than idleTTL.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memoryEntry
	idleTTL  time.Duration
	now      func() time.Time
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore starts the eviction sweep when idleTTL is positive. Call Stop
// to end it.
func NewMemoryStore(idleTTL time.Duration) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]*memoryEntry),
		idleTTL:  idleTTL,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	if idleTTL > 0 {
		go func() {
			ticker := time.NewTicker(idleTTL)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if n := s.sweep(); n > 0 {
						log.Debug().Int("evicted", n).Msg("Evicted idle sessions")
					}
				case <-s.stopChan:
					return
				}
			}
		}()
	}

	return s
}

func (s *MemoryStore) Load(_ context.Context, key string) (*Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[key]
	if !ok {
		return nil, ErrNotFound
	}
	e.lastSeen = s.now()
	return e.conv.clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, key string, conv *Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[key] = &memoryEntry{conv: conv.clone(), lastSeen: s.now()}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, key)
	return nil
}

// Len reports the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *MemoryStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

func (s *MemoryStore) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	now := s.now()
	for key, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.idleTTL {
			delete(s.sessions, key)
			evicted++
		}
	}
	return evicted
}
