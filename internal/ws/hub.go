package ws

import (
	"encoding/json"
	"sync"
	"time"

	"onenight_server/internal/game"
	"onenight_server/internal/logger"
	"onenight_server/internal/registry"
)

// Hub is the gateway side of every session: it tracks which connection is
// bound to which seat and delivers outbound notifications. It also owns the
// per-session sequencers (the timer arena), keyed by session code.
//
// Lock order: a session lock may be held while taking h.mu, never the other
// way around.
type Hub struct {
	registry *registry.Registry

	mu         sync.RWMutex
	clients    map[string]map[string]*Client // code → player name → client
	sequencers map[string]*game.Sequencer
}

func NewHub(reg *registry.Registry) *Hub {
	return &Hub{
		registry:   reg,
		clients:    make(map[string]map[string]*Client),
		sequencers: make(map[string]*game.Sequencer),
	}
}

// attach binds a connected client to a seat in a session.
func (h *Hub) attach(c *Client, code string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[code] == nil {
		h.clients[code] = make(map[string]*Client)
	}
	h.clients[code][c.Name] = c
	c.code = code
	connectionsGauge.Inc()
}

// detach unbinds a client from its session.
func (h *Hub) detach(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.code == "" {
		return
	}
	if seats, ok := h.clients[c.code]; ok {
		if seats[c.Name] == c {
			delete(seats, c.Name)
			connectionsGauge.Dec()
		}
		if len(seats) == 0 {
			delete(h.clients, c.code)
		}
	}
	c.code = ""
}

// sequencer returns the night sequencer for code, creating it on first use.
func (h *Hub) sequencer(code string, s *game.Session) *game.Sequencer {
	h.mu.Lock()
	defer h.mu.Unlock()

	if q, ok := h.sequencers[code]; ok {
		return q
	}
	q := game.NewSequencer(s, h)
	h.sequencers[code] = q
	return q
}

// currentSequencer returns the sequencer for code if one was started.
func (h *Hub) currentSequencer(code string) (*game.Sequencer, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	q, ok := h.sequencers[code]
	return q, ok
}

// ToPlayer implements game.Notifier. Sends a private event to one player;
// a disconnected or slow player just misses it.
func (h *Hub) ToPlayer(code, player, event string, payload any) {
	h.mu.RLock()
	c := h.clients[code][player]
	h.mu.RUnlock()

	if c != nil {
		h.sendTo(c, event, payload)
	}
}

// Broadcast implements game.Notifier.
func (h *Hub) Broadcast(code, event string, payload any) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients[code]))
	for _, c := range h.clients[code] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		h.sendTo(c, event, payload)
	}
}

func (h *Hub) sendTo(c *Client, event string, payload any) {
	data, err := json.Marshal(outbound{Type: event, Payload: payload})
	if err != nil {
		logger.Error("marshal outbound", "event", event, "err", err)
		return
	}

	select {
	case c.send <- data:
	default:
		logger.Warn("send buffer full, dropping", "conn", c.ID, "event", event)
	}
}

func (h *Hub) sendError(c *Client, code, message string) {
	h.sendTo(c, EventError, ErrorPayload{Code: code, Message: message})
}

// OnDisconnect handles a dropped connection. Before the deal the player is
// unseated and the lobby is told; after it the seat stays frozen and only
// the connection reference is cleared.
func (h *Hub) OnDisconnect(c *Client) {
	code := c.code
	if code == "" {
		return
	}

	s, ok := h.registry.Get(code)
	if ok {
		s.Lock()
		if p, seated := s.Player(c.Name); seated && p.ConnID == c.ID {
			p.ConnID = ""
			if !s.Dealt() {
				_ = s.RemovePlayer(c.Name)
				state := snapshot(s)
				s.Unlock()
				h.detach(c)
				h.Broadcast(code, EventPlayerLeft, PlayerEventPayload{Player: c.Name, State: state})
				logger.Info("player left", "code", s.Code(), "player", c.Name)
				return
			}
		}
		s.Unlock()
	}

	h.detach(c)
}

// StartCleanup reaps ended and abandoned sessions in the background.
func (h *Hub) StartCleanup(ttl, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			for _, code := range h.registry.Stale(ttl) {
				h.teardown(code)
			}
		}
	}()
}

// teardown stops the session's timer, drops it from the registry and
// forgets its gateway state.
func (h *Hub) teardown(code string) {
	if s, ok := h.registry.Get(code); ok {
		if q, started := h.currentSequencer(code); started {
			s.Lock()
			q.Stop()
			s.Unlock()
		}
	}
	h.registry.Remove(code)

	h.mu.Lock()
	delete(h.sequencers, code)
	delete(h.clients, code)
	h.mu.Unlock()

	logger.Info("session reaped", "code", code)
}

// snapshot builds the public lobby view. Caller holds the session lock.
func snapshot(s *game.Session) SessionState {
	state := SessionState{
		Code:          s.Code(),
		Host:          s.HostName(),
		Phase:         s.Phase(),
		ExpectedCount: s.ExpectedCount(),
		RolePool:      s.RolePool(),
	}
	for _, name := range s.PlayerNames() {
		p, _ := s.Player(name)
		state.Players = append(state.Players, PlayerInfo{
			Name:      name,
			Connected: p.Connected(),
		})
	}
	return state
}
