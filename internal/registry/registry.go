package registry

import (
	"math/rand/v2"
	"sync"
	"time"

	"onenight_server/internal/domain"
	"onenight_server/internal/game"
	"onenight_server/internal/logger"
)

const codeLength = 5

// Registry owns the code → session arena. Its lock covers only the map;
// it is never held while a session's own lock is taken, so operations on
// different sessions cannot block each other.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*game.Session
}

func New() *Registry {
	return &Registry{
		sessions: make(map[string]*game.Session),
	}
}

// Create makes a new session with a collision-free code and seats the host
// as its first player.
func (r *Registry) Create(hostName string) *game.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := r.generateCode()
	s := game.NewSession(code, hostName)
	// A fresh session has no other writer yet, no session lock needed.
	_ = s.AddPlayer(hostName)
	r.sessions[code] = s

	logger.Info("session created", "code", code, "host", hostName)
	return s
}

// Get looks up a session by code.
func (r *Registry) Get(code string) (*game.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[code]
	return s, ok
}

// Remove drops a session from the arena. Returns false if the code was
// unknown.
func (r *Registry) Remove(code string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[code]; !ok {
		return false
	}
	delete(r.sessions, code)
	logger.Info("session removed", "code", code)
	return true
}

// Codes returns all active session codes.
func (r *Registry) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codes := make([]string, 0, len(r.sessions))
	for code := range r.sessions {
		codes = append(codes, code)
	}
	return codes
}

// Count returns the number of active sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Stale returns the codes of sessions that are ended, or empty and older
// than ttl. Used by the gateway's reaper.
func (r *Registry) Stale(ttl time.Duration) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := time.Now()
	var stale []string
	for code, s := range r.sessions {
		s.Lock()
		ended := s.Phase() == domain.PhaseEnded
		abandoned := s.PlayerCount() == 0 && now.Sub(s.CreatedAt()) > ttl
		expired := now.Sub(s.CreatedAt()) > 24*time.Hour
		s.Unlock()

		if ended || abandoned || expired {
			stale = append(stale, code)
		}
	}
	return stale
}

// generateCode picks an unused 5-letter uppercase code. Caller holds the
// write lock.
func (r *Registry) generateCode() string {
	letters := []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	for {
		buf := make([]byte, codeLength)
		for i := range buf {
			buf[i] = letters[rand.IntN(len(letters))]
		}
		code := string(buf)
		if _, taken := r.sessions[code]; !taken {
			return code
		}
	}
}
