package ws

import (
	"encoding/json"

	"onenight_server/internal/domain"
	"onenight_server/internal/game"
)

// Message is the wire envelope in both directions.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// outbound mirrors Message with an arbitrary payload for marshalling.
type outbound struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// client → server payloads.

type JoinPayload struct {
	Code string `json:"code"`
}

type PlayerCountPayload struct {
	Count int `json:"count"`
}

type AddRolePayload struct {
	Role domain.Role `json:"role"`
}

type VotePayload struct {
	Target string `json:"target"`
}

type TargetPayload struct {
	Target string `json:"target"`
}

type CenterIndicesPayload struct {
	Indices []int `json:"indices"`
}

type SwapOthersPayload struct {
	First  string `json:"first"`
	Second string `json:"second"`
}

type CenterIndexPayload struct {
	Index int `json:"index"`
}

// server → client payloads.

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PlayerInfo is the public view of one seat. Roles never appear here.
type PlayerInfo struct {
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
}

// SessionState is the lobby snapshot broadcast after every pre-deal
// mutation.
type SessionState struct {
	Code          string        `json:"code"`
	Host          string        `json:"host"`
	Phase         domain.Phase  `json:"phase"`
	ExpectedCount int           `json:"expected_count"`
	Players       []PlayerInfo  `json:"players"`
	RolePool      []domain.Role `json:"role_pool"`
}

type SessionCreatedPayload struct {
	Code   string       `json:"code"`
	IsHost bool         `json:"is_host"`
	State  SessionState `json:"state"`
}

type PlayerEventPayload struct {
	Player string       `json:"player"`
	State  SessionState `json:"state"`
}

type RoleAddedPayload struct {
	Role  domain.Role  `json:"role"`
	State SessionState `json:"state"`
}

type StatePayload struct {
	State SessionState `json:"state"`
}

type RoleAssignedPayload struct {
	Role         domain.Role `json:"role"`
	Instructions string      `json:"instructions"`
}

type GameStartedPayload struct {
	Phase            domain.Phase `json:"phase"`
	Players          []PlayerInfo `json:"players"`
	CenterCardsCount int          `json:"center_cards_count"`
}

// ActionResultPayload answers a role action. Roles is only set for actions
// that reveal something to the caller.
type ActionResultPayload struct {
	Action string        `json:"action"`
	Roles  []domain.Role `json:"roles,omitempty"`
}

type PlayerActedPayload struct {
	Player string `json:"player"`
}

type VoteTallyPayload struct {
	Votes map[string]string `json:"votes"`
	Tally game.VoteTally    `json:"tally"`
}

type GameEndedPayload struct {
	Reveal game.Reveal `json:"reveal"`
}
