package game

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"onenight_server/internal/domain"
)

// Session is one game's authoritative state. Methods do not lock; the
// session is one mutual-exclusion domain and every caller (gateway command
// dispatch, turn timer fire) wraps its whole operation in Lock/Unlock so
// compound reads and writes cannot interleave.
type Session struct {
	mu sync.Mutex

	code     string
	hostName string

	players   map[string]*domain.Player
	joinOrder []string

	expectedCount int // 0 until the host sets it
	rolePool      []domain.Role

	centerCards        []domain.Role
	initialCenterCards []domain.Role

	phase      domain.Phase
	dealt      bool
	nightOrder []domain.Role
	turnCursor int

	votes map[string]string

	createdAt time.Time
}

func NewSession(code, hostName string) *Session {
	return &Session{
		code:      code,
		hostName:  hostName,
		players:   make(map[string]*domain.Player),
		votes:     make(map[string]string),
		phase:     domain.PhaseSetup,
		createdAt: time.Now(),
	}
}

// Lock acquires the session's exclusion lock.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session's exclusion lock.
func (s *Session) Unlock() { s.mu.Unlock() }

func (s *Session) Code() string         { return s.code }
func (s *Session) HostName() string     { return s.hostName }
func (s *Session) Phase() domain.Phase  { return s.phase }
func (s *Session) Dealt() bool          { return s.dealt }
func (s *Session) CreatedAt() time.Time { return s.createdAt }

func (s *Session) PlayerCount() int   { return len(s.players) }
func (s *Session) ExpectedCount() int { return s.expectedCount }

// PlayerNames returns all player names in join order.
func (s *Session) PlayerNames() []string {
	names := make([]string, len(s.joinOrder))
	copy(names, s.joinOrder)
	return names
}

// Player returns the seat for name. The pointer stays owned by the session;
// callers must hold the lock while touching it.
func (s *Session) Player(name string) (*domain.Player, bool) {
	p, ok := s.players[name]
	return p, ok
}

// AddPlayer seats a new player. Rejected once the session is dealt, the
// name is taken, or the table is full.
func (s *Session) AddPlayer(name string) error {
	if _, ok := s.players[name]; ok {
		return reject(CodeNameTaken, "player name already exists in this session")
	}
	if s.dealt {
		return reject(CodeAlreadyStarted, "session has already started")
	}
	if s.expectedCount > 0 && len(s.players) >= s.expectedCount {
		return reject(CodeSessionFull, fmt.Sprintf("session is full (%d players)", s.expectedCount))
	}

	s.players[name] = &domain.Player{Name: name}
	s.joinOrder = append(s.joinOrder, name)
	return nil
}

// RemovePlayer unseats a player. Only legal before the deal; after it the
// identity set is frozen.
func (s *Session) RemovePlayer(name string) error {
	if _, ok := s.players[name]; !ok {
		return reject(CodePlayerNotFound, "player not found")
	}
	if s.dealt {
		return reject(CodeAlreadyStarted, "cannot remove a player after the session has started")
	}

	delete(s.players, name)
	for i, n := range s.joinOrder {
		if n == name {
			s.joinOrder = append(s.joinOrder[:i], s.joinOrder[i+1:]...)
			break
		}
	}
	return nil
}

// SetExpectedPlayerCount fixes the table size. Moves a fresh session into
// character selection.
func (s *Session) SetExpectedPlayerCount(n int) error {
	if n < 3 || n > 7 {
		return reject(CodeInvalidCount, "player count must be between 3 and 7")
	}
	if s.dealt {
		return reject(CodeAlreadyStarted, "cannot change player count after the session has started")
	}
	if len(s.players) > n {
		return reject(CodeInvalidCount, fmt.Sprintf("%d players already joined", len(s.players)))
	}
	if len(s.rolePool) > n+3 {
		return reject(CodeInvalidCount, "role pool exceeds the new target size, clear roles first")
	}

	s.expectedCount = n
	if len(s.rolePool) == n+3 {
		s.phase = domain.PhaseReady
	} else {
		s.phase = domain.PhaseCharacterSelection
	}
	return nil
}

// AddRole adds one role card to the pool. The pool is complete at
// expectedCount+3 cards, which moves the session to ready.
func (s *Session) AddRole(r domain.Role) error {
	if !domain.Known(r) {
		return reject(CodeUnknownRole, fmt.Sprintf("role %q not found", r))
	}
	if s.dealt {
		return reject(CodeAlreadyStarted, "session has already started")
	}
	if s.expectedCount == 0 {
		return reject(CodeCountUnset, "player count must be set first")
	}

	target := s.expectedCount + 3
	if len(s.rolePool) >= target {
		return reject(CodePoolFull, fmt.Sprintf("already have %d roles", target))
	}

	count := 0
	for _, pooled := range s.rolePool {
		if pooled == r {
			count++
		}
	}
	if limit := domain.CopyLimit(r); count >= limit {
		return reject(CodeLimitReached, fmt.Sprintf("cannot add %q, maximum %d allowed", r, limit))
	}

	s.rolePool = append(s.rolePool, r)
	if len(s.rolePool) == target {
		s.phase = domain.PhaseReady
	}
	return nil
}

// ClearRoles empties the pool and drops back to character selection.
func (s *Session) ClearRoles() error {
	if s.dealt {
		return reject(CodeAlreadyStarted, "cannot clear roles after the session has started")
	}

	s.rolePool = nil
	s.phase = domain.PhaseCharacterSelection
	return nil
}

// RolePool returns a copy of the selected role multiset.
func (s *Session) RolePool() []domain.Role {
	pool := make([]domain.Role, len(s.rolePool))
	copy(pool, s.rolePool)
	return pool
}

// Deal shuffles the pool, hands the first expectedCount cards to players in
// join order, parks the remaining three in the center, computes the night
// order and opens the night phase. This is the single irreversible boundary
// of a session.
func (s *Session) Deal() error {
	if s.dealt {
		return reject(CodeAlreadyStarted, "session already dealt")
	}
	if s.expectedCount == 0 {
		return reject(CodeCountUnset, "player count not set")
	}
	if len(s.players) != s.expectedCount {
		return reject(CodePlayersMissing,
			fmt.Sprintf("need %d players, have %d", s.expectedCount, len(s.players)))
	}
	if len(s.rolePool) != s.expectedCount+3 {
		return reject(CodePoolIncomplete,
			fmt.Sprintf("need %d roles, have %d", s.expectedCount+3, len(s.rolePool)))
	}

	shuffled := make([]domain.Role, len(s.rolePool))
	copy(shuffled, s.rolePool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	for i, name := range s.joinOrder {
		p := s.players[name]
		p.InitialRole = shuffled[i]
		p.CurrentRole = shuffled[i]
	}

	s.centerCards = append([]domain.Role(nil), shuffled[s.expectedCount:]...)
	s.initialCenterCards = append([]domain.Role(nil), s.centerCards...)

	s.nightOrder = s.buildNightOrder()
	s.turnCursor = 0
	s.dealt = true
	s.phase = domain.PhaseNight
	return nil
}

// buildNightOrder filters the global wake-up order down to roles dealt to
// players. The synthetic doppelganger-insomniac slot is reserved at deal
// time when both of its trigger roles were dealt; whether it actually fires
// depends on what the doppelganger copies during the night.
func (s *Session) buildNightOrder() []domain.Role {
	present := make(map[domain.Role]bool, len(s.players))
	for _, p := range s.players {
		present[p.InitialRole] = true
	}

	var order []domain.Role
	for _, r := range domain.NightOrder {
		if r == domain.RoleDoppelgangerInsomniac {
			if present[domain.RoleDoppelganger] && present[domain.RoleInsomniac] {
				order = append(order, r)
			}
			continue
		}
		if present[r] {
			order = append(order, r)
		}
	}
	return order
}

// NightOrder returns a copy of this session's wake-up sequence.
func (s *Session) NightOrder() []domain.Role {
	order := make([]domain.Role, len(s.nightOrder))
	copy(order, s.nightOrder)
	return order
}

func (s *Session) TurnCursor() int { return s.turnCursor }

// CurrentNightRole returns the role at the cursor, or false when the night
// phase is over or never started.
func (s *Session) CurrentNightRole() (domain.Role, bool) {
	if s.phase != domain.PhaseNight || s.turnCursor >= len(s.nightOrder) {
		return "", false
	}
	return s.nightOrder[s.turnCursor], true
}

// AdvanceNight moves the cursor forward one slot. When the order is
// exhausted the session transitions to the voting phase and complete is
// true.
func (s *Session) AdvanceNight() (complete bool, next domain.Role) {
	if s.phase != domain.PhaseNight {
		return false, ""
	}

	s.turnCursor++
	if s.turnCursor >= len(s.nightOrder) {
		s.phase = domain.PhaseVoting
		return true, ""
	}
	return false, s.nightOrder[s.turnCursor]
}

// PlayersWithInitialRole returns, in join order, the names of players whose
// dealt role is r. Night turns key off the dealt role, not the current one.
func (s *Session) PlayersWithInitialRole(r domain.Role) []string {
	var names []string
	for _, name := range s.joinOrder {
		if s.players[name].InitialRole == r {
			names = append(names, name)
		}
	}
	return names
}

// ActingPlayers returns who wakes for role r. For the synthetic
// doppelganger-insomniac slot that is the doppelganger who actually copied
// the insomniac, which may be nobody.
func (s *Session) ActingPlayers(r domain.Role) []string {
	if r != domain.RoleDoppelgangerInsomniac {
		return s.PlayersWithInitialRole(r)
	}

	var names []string
	for _, name := range s.joinOrder {
		p := s.players[name]
		if p.InitialRole == domain.RoleDoppelganger && p.CopiedRole == domain.RoleInsomniac {
			names = append(names, name)
		}
	}
	return names
}

// OtherPlayers returns every player name except the given one, in join order.
func (s *Session) OtherPlayers(name string) []string {
	var names []string
	for _, n := range s.joinOrder {
		if n != name {
			names = append(names, n)
		}
	}
	return names
}

// MarkActed records the advisory "action complete" signal. It never affects
// the turn timer.
func (s *Session) MarkActed(name string) {
	if p, ok := s.players[name]; ok {
		p.HasActed = true
	}
}

// CenterCards returns a copy of the three undealt cards.
func (s *Session) CenterCards() []domain.Role {
	cards := make([]domain.Role, len(s.centerCards))
	copy(cards, s.centerCards)
	return cards
}

// SubmitVote records voter's vote for target, overwriting any earlier vote
// from the same voter.
func (s *Session) SubmitVote(voter, target string) error {
	if s.phase != domain.PhaseVoting {
		return reject(CodeNotVotingPhase, "not in voting phase")
	}
	if _, ok := s.players[voter]; !ok {
		return reject(CodePlayerNotFound, "voter not found")
	}
	if _, ok := s.players[target]; !ok {
		return reject(CodePlayerNotFound, "voted player not found")
	}

	s.votes[voter] = target
	return nil
}

// AllVotesSubmitted reports whether every seated player has voted.
func (s *Session) AllVotesSubmitted() bool {
	return len(s.votes) == len(s.players)
}

// Votes returns a copy of the voter → target map.
func (s *Session) Votes() map[string]string {
	votes := make(map[string]string, len(s.votes))
	for k, v := range s.votes {
		votes[k] = v
	}
	return votes
}

// VoteTally is the counted outcome of the voting phase.
type VoteTally struct {
	Counts    map[string]int `json:"counts"`
	MostVoted []string       `json:"most_voted"`
}

// TallyVotes counts the submitted votes. MostVoted holds every player tied
// for the highest count, in join order.
func (s *Session) TallyVotes() VoteTally {
	tally := VoteTally{Counts: make(map[string]int)}
	for _, target := range s.votes {
		tally.Counts[target]++
	}

	maxVotes := 0
	for _, c := range tally.Counts {
		if c > maxVotes {
			maxVotes = c
		}
	}
	if maxVotes == 0 {
		return tally
	}
	for _, name := range s.joinOrder {
		if tally.Counts[name] == maxVotes {
			tally.MostVoted = append(tally.MostVoted, name)
		}
	}
	return tally
}

// PlayerReveal is one player's line in the end-game reveal.
type PlayerReveal struct {
	InitialRole domain.Role `json:"initial_role"`
	CurrentRole domain.Role `json:"current_role"`
}

// Reveal is the full end-game snapshot. Center cards appear here and only
// here; they are never broadcast during an active game.
type Reveal struct {
	Players            map[string]PlayerReveal `json:"players"`
	CenterCards        []domain.Role           `json:"center_cards"`
	InitialCenterCards []domain.Role           `json:"initial_center_cards"`
}

// EndGame moves the session to its terminal phase and produces the reveal.
// Legal from any phase; used for early termination too.
func (s *Session) EndGame() Reveal {
	s.phase = domain.PhaseEnded

	reveal := Reveal{
		Players:            make(map[string]PlayerReveal, len(s.players)),
		CenterCards:        append([]domain.Role(nil), s.centerCards...),
		InitialCenterCards: append([]domain.Role(nil), s.initialCenterCards...),
	}
	for name, p := range s.players {
		reveal.Players[name] = PlayerReveal{
			InitialRole: p.InitialRole,
			CurrentRole: p.CurrentRole,
		}
	}
	return reveal
}
