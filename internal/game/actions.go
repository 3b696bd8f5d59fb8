package game

// Role actions mutate or read a session's card state. All of them are safe
// to call repeatedly: a repeated swap simply applies again (and a true swap
// undoes itself on the second call). Callers hold the session lock.

import (
	"onenight_server/internal/domain"
)

// CopyIdentity is the doppelganger's turn: look at target's dealt card and
// take that role as your own. Returns the copied role.
func CopyIdentity(s *Session, actor, target string) (domain.Role, error) {
	a, ok := s.players[actor]
	if !ok {
		return "", reject(CodePlayerNotFound, "player not found")
	}
	t, ok := s.players[target]
	if !ok {
		return "", reject(CodePlayerNotFound, "target player not found")
	}

	a.CopiedRole = t.InitialRole
	a.CurrentRole = t.InitialRole
	return t.InitialRole, nil
}

// ViewPlayer is the seer peeking at another player's current card.
func ViewPlayer(s *Session, target string) (domain.Role, error) {
	t, ok := s.players[target]
	if !ok {
		return "", reject(CodePlayerNotFound, "target player not found")
	}
	return t.CurrentRole, nil
}

// ViewCenter returns the center cards at the given indices, in the order
// asked. Out-of-range indices are silently skipped, never an error.
func ViewCenter(s *Session, indices []int) []domain.Role {
	var cards []domain.Role
	for _, idx := range indices {
		if idx >= 0 && idx < len(s.centerCards) {
			cards = append(cards, s.centerCards[idx])
		}
	}
	return cards
}

// SwapWithPlayer is the robber's turn: trade current cards with target and
// learn the card you now hold.
func SwapWithPlayer(s *Session, actor, target string) (domain.Role, error) {
	a, ok := s.players[actor]
	if !ok {
		return "", reject(CodePlayerNotFound, "player not found")
	}
	t, ok := s.players[target]
	if !ok {
		return "", reject(CodePlayerNotFound, "target player not found")
	}

	a.CurrentRole, t.CurrentRole = t.CurrentRole, a.CurrentRole
	return a.CurrentRole, nil
}

// SwapOthers is the troublemaker's turn: trade the current cards of two
// other players without looking at either.
func SwapOthers(s *Session, first, second string) error {
	a, ok := s.players[first]
	if !ok {
		return reject(CodePlayerNotFound, "player not found")
	}
	b, ok := s.players[second]
	if !ok {
		return reject(CodePlayerNotFound, "player not found")
	}

	a.CurrentRole, b.CurrentRole = b.CurrentRole, a.CurrentRole
	return nil
}

// SwapWithCenter is the drunk's turn: trade the actor's current card with
// one center slot. The actor does not learn the new card, so no role is
// returned; callers must not leak it.
func SwapWithCenter(s *Session, actor string, index int) error {
	a, ok := s.players[actor]
	if !ok {
		return reject(CodePlayerNotFound, "player not found")
	}
	if index < 0 || index >= len(s.centerCards) {
		return reject(CodeBadIndex, "center card index out of range")
	}

	a.CurrentRole, s.centerCards[index] = s.centerCards[index], a.CurrentRole
	return nil
}

// ViewOwnRole is the insomniac's turn: look at your own card, which may
// have changed hands since the deal.
func ViewOwnRole(s *Session, actor string) (domain.Role, error) {
	a, ok := s.players[actor]
	if !ok {
		return "", reject(CodePlayerNotFound, "player not found")
	}
	return a.CurrentRole, nil
}
