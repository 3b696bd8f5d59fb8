package game

import (
	"time"

	"onenight_server/internal/domain"
	"onenight_server/internal/logger"
)

// Notifier delivers outbound events for a session. Implemented by the
// gateway; the sequencer never talks to a socket directly.
type Notifier interface {
	// ToPlayer sends a private event to one player, dropped silently when
	// the player is not connected.
	ToPlayer(code, player, event string, payload any)
	// Broadcast sends an event to every connected player in the session.
	Broadcast(code, event string, payload any)
}

// Outbound events emitted by the sequencer.
const (
	EventNightTurn    = "night_turn"
	EventNightWaiting = "night_waiting"
	EventPhaseChanged = "phase_changed"
)

// TurnPayload is what an acting player sees when their role wakes up.
type TurnPayload struct {
	Role         domain.Role `json:"role"`
	Duration     int         `json:"duration_seconds"`
	AudioStart   string      `json:"audio_start"`
	AudioEnd     string      `json:"audio_end"`
	Instructions string      `json:"instructions"`
	OtherPlayers []string    `json:"other_players"`
	// Teammates carries the asymmetric team reveal: fellow werewolves for
	// a werewolf, fellow masons for a mason, the werewolf holders for the
	// minion. Empty for everyone else.
	Teammates []string `json:"teammates,omitempty"`
}

// WaitingPayload is what everybody else sees during that turn. It carries
// the public announce only, never the acting players' visibility payload.
type WaitingPayload struct {
	Role       domain.Role `json:"role"`
	Duration   int         `json:"duration_seconds"`
	AudioStart string      `json:"audio_start"`
	AudioEnd   string      `json:"audio_end"`
}

// PhasePayload announces a lifecycle boundary.
type PhasePayload struct {
	Phase domain.Phase `json:"phase"`
}

// Sequencer drives the night phase of one session: it computes whose turn
// it is, pushes the per-recipient payloads, and advances on a wall-clock
// timer. A session has at most one live timer; starting a turn always
// cancels the previous one, and a stale fire is detected by generation and
// re-validated against the session phase under the session lock.
type Sequencer struct {
	session  *Session
	notifier Notifier

	timer      *time.Timer
	generation int
}

func NewSequencer(s *Session, n Notifier) *Sequencer {
	return &Sequencer{session: s, notifier: n}
}

// Start dispatches the first turn. Caller must hold the session lock.
func (q *Sequencer) Start() {
	q.dispatch()
}

// Stop cancels any pending turn timer. Caller must hold the session lock.
// Safe to call in any phase; used on end-game and session teardown.
func (q *Sequencer) Stop() {
	q.generation++
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
}

// dispatch opens the turn at the cursor, skipping roles with no acting
// holders. The skip loop is bounded by the order length so a malformed
// order cannot spin. Caller must hold the session lock.
func (q *Sequencer) dispatch() {
	s := q.session

	for range len(s.nightOrder) + 1 {
		role, ok := s.CurrentNightRole()
		if !ok {
			q.finishNight()
			return
		}

		actors := s.ActingPlayers(role)
		if len(actors) == 0 {
			// Nobody holds this role (e.g. the reserved
			// doppelganger-insomniac slot went unused). Skip without
			// pausing.
			if complete, _ := s.AdvanceNight(); complete {
				q.finishNight()
				return
			}
			continue
		}

		q.openTurn(role, actors)
		return
	}

	q.finishNight()
}

// openTurn pushes the turn payloads and arms the single-shot timer.
func (q *Sequencer) openTurn(role domain.Role, actors []string) {
	s := q.session
	info := domain.Catalog[role]
	seconds := int(info.Duration / time.Second)

	acting := make(map[string]bool, len(actors))
	for _, name := range actors {
		acting[name] = true
		q.notifier.ToPlayer(s.code, name, EventNightTurn, TurnPayload{
			Role:         role,
			Duration:     seconds,
			AudioStart:   info.AudioStart,
			AudioEnd:     info.AudioEnd,
			Instructions: info.Instructions,
			OtherPlayers: s.OtherPlayers(name),
			Teammates:    q.teammates(role, name),
		})
	}

	waiting := WaitingPayload{
		Role:       role,
		Duration:   seconds,
		AudioStart: info.AudioStart,
		AudioEnd:   info.AudioEnd,
	}
	for _, name := range s.joinOrder {
		if !acting[name] {
			q.notifier.ToPlayer(s.code, name, EventNightWaiting, waiting)
		}
	}

	logger.Debug("turn opened",
		"code", s.code, "role", role, "actors", len(actors), "duration", info.Duration)

	q.generation++
	gen := q.generation
	if q.timer != nil {
		q.timer.Stop()
	}
	q.timer = time.AfterFunc(info.Duration, func() {
		q.fire(gen)
	})
}

// fire is the timer callback. It runs on the timer goroutine, so it takes
// the session lock and re-validates generation and phase before touching
// anything: a fire that lost the race to an end-game or a manual advance is
// a no-op.
func (q *Sequencer) fire(gen int) {
	s := q.session
	s.Lock()
	defer s.Unlock()

	if gen != q.generation {
		return
	}
	if s.phase != domain.PhaseNight {
		return
	}

	if complete, _ := s.AdvanceNight(); complete {
		q.finishNight()
		return
	}
	q.dispatch()
}

// finishNight closes the night phase and announces the voting boundary.
// Caller must hold the session lock.
func (q *Sequencer) finishNight() {
	s := q.session
	q.Stop()

	if s.phase == domain.PhaseNight {
		// Cursor ran out without AdvanceNight flipping the phase; only
		// possible with an empty night order.
		s.phase = domain.PhaseVoting
	}

	logger.Info("night phase complete", "code", s.code)
	q.notifier.Broadcast(s.code, EventPhaseChanged, PhasePayload{Phase: s.phase})
}

// teammates computes the asymmetric team reveal for one acting player.
func (q *Sequencer) teammates(role domain.Role, actor string) []string {
	s := q.session

	switch role {
	case domain.RoleWerewolf, domain.RoleMason:
		var names []string
		for _, name := range s.PlayersWithInitialRole(role) {
			if name != actor {
				names = append(names, name)
			}
		}
		return names
	case domain.RoleMinion:
		return s.PlayersWithInitialRole(domain.RoleWerewolf)
	}
	return nil
}
