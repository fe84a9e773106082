package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Team-Bodhi/bodhi/pkg/logger"
)

const (
	// DefaultTTL is how long an idle session survives before the sweep
	// destroys it, cart included.
	DefaultTTL = 30 * time.Minute

	// sweepInterval is how often the background sweep runs.
	sweepInterval = time.Minute
)

// Factory builds the session state for a new visitor. The manager
// supplies the id; the caller wires the cart and checkout orchestrator.
type Factory func(id string) *Session

// Manager is the in-memory session registry. Sessions are exclusively
// owned by their visitor; the manager's lock covers only the map.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	factory  Factory

	stopSweep chan struct{}
	wg        sync.WaitGroup
}

// NewManager creates a session registry and starts the idle sweep.
func NewManager(ttl time.Duration, factory Factory) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Manager{
		sessions:  make(map[string]*Session),
		ttl:       ttl,
		factory:   factory,
		stopSweep: make(chan struct{}),
	}

	m.wg.Add(1)
	go m.sweepLoop()

	return m
}

func (m *Manager) sweepLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.expireSessions()
		case <-m.stopSweep:
			return
		}
	}
}

func (m *Manager) expireSessions() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-m.ttl)
	for id, s := range m.sessions {
		if s.LastSeen.Before(cutoff) && !s.Checkout.InFlight() {
			delete(m.sessions, id)
			logger.Log.Debug("session expired", zap.String("session_id", id))
		}
	}
}

// Get returns the session for id and refreshes its LastSeen, or nil if
// the id is unknown or already swept.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil
	}
	s.LastSeen = time.Now()
	return s
}

// GetOrCreate returns the session for id, creating a fresh one under a
// new id when the given id is empty or unknown. The second return value
// reports whether a session was created.
func (m *Manager) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		if s := m.Get(id); s != nil {
			return s, false
		}
	}

	s := m.factory(uuid.NewString())
	s.LastSeen = time.Now()

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	return s, true
}

// Destroy removes a session immediately (explicit logout-and-forget).
func (m *Manager) Destroy(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops the background sweep and waits for it to finish.
func (m *Manager) Close() error {
	close(m.stopSweep)
	m.wg.Wait()
	return nil
}
