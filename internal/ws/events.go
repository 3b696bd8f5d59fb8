package ws

import (
	"encoding/json"

	"onenight_server/internal/domain"
	"onenight_server/internal/game"
	"onenight_server/internal/logger"
)

// HandleCommand processes one inbound message from a client. Runs on the
// client's read goroutine; everything touching a session happens under that
// session's lock.
func (h *Hub) HandleCommand(c *Client, raw []byte) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.sendError(c, game.CodeBadRequest, "malformed message")
		return
	}
	commandsHandled.WithLabelValues(msg.Type).Inc()

	switch msg.Type {
	case CmdCreateSession:
		h.handleCreate(c)
	case CmdJoinSession:
		h.handleJoin(c, msg.Payload)
	case CmdLeaveSession:
		h.handleLeave(c)
	case CmdSetPlayerCount:
		h.handleSetPlayerCount(c, msg.Payload)
	case CmdAddRole:
		h.handleAddRole(c, msg.Payload)
	case CmdClearRoles:
		h.handleClearRoles(c)
	case CmdDeal:
		h.handleDeal(c)
	case CmdRequestOwnRole:
		h.handleRequestOwnRole(c)
	case CmdActionDone:
		h.handleActionDone(c)
	case CmdSubmitVote:
		h.handleSubmitVote(c, msg.Payload)
	case CmdEndSession:
		h.handleEndSession(c)

	case CmdDoppelgangerCopy:
		h.handleDoppelgangerCopy(c, msg.Payload)
	case CmdSeerViewPlayer:
		h.handleSeerViewPlayer(c, msg.Payload)
	case CmdSeerViewCenter:
		h.handleSeerViewCenter(c, msg.Payload)
	case CmdRobberSwap:
		h.handleRobberSwap(c, msg.Payload)
	case CmdTroublemakerSwap:
		h.handleTroublemakerSwap(c, msg.Payload)
	case CmdDrunkSwap:
		h.handleDrunkSwap(c, msg.Payload)
	case CmdInsomniacViewRole:
		h.handleInsomniacView(c)

	default:
		h.sendError(c, game.CodeBadRequest, "unknown command "+msg.Type)
	}
}

// session resolves the client's attached session.
func (h *Hub) session(c *Client) (*game.Session, bool) {
	if c.code == "" {
		h.sendError(c, game.CodeNotFound, "not in a session")
		return nil, false
	}
	s, ok := h.registry.Get(c.code)
	if !ok {
		h.sendError(c, game.CodeNotFound, "session "+c.code+" not found")
		return nil, false
	}
	return s, true
}

// requireHost enforces host-only commands. Rejected callers mutate nothing.
func (h *Hub) requireHost(c *Client, s *game.Session) bool {
	if c.Name != s.HostName() {
		h.sendError(c, game.CodeNotHost, "only the host can do that")
		return false
	}
	return true
}

func (h *Hub) rejectErr(c *Client, err error) {
	h.sendError(c, game.CodeOf(err), err.Error())
}

func (h *Hub) handleCreate(c *Client) {
	if c.code != "" {
		h.sendError(c, game.CodeBadRequest, "already in a session")
		return
	}

	s := h.registry.Create(c.Name)
	sessionsCreated.Inc()

	s.Lock()
	if p, ok := s.Player(c.Name); ok {
		p.ConnID = c.ID
	}
	state := snapshot(s)
	s.Unlock()

	h.attach(c, s.Code())
	h.sendTo(c, EventSessionCreated, SessionCreatedPayload{
		Code:   s.Code(),
		IsHost: true,
		State:  state,
	})
}

func (h *Hub) handleJoin(c *Client, raw json.RawMessage) {
	var req JoinPayload
	if err := json.Unmarshal(raw, &req); err != nil || req.Code == "" {
		h.sendError(c, game.CodeBadRequest, "session code is required")
		return
	}
	if c.code != "" {
		h.sendError(c, game.CodeBadRequest, "already in a session")
		return
	}

	s, ok := h.registry.Get(req.Code)
	if !ok {
		h.sendError(c, game.CodeNotFound, "session "+req.Code+" not found")
		return
	}

	s.Lock()
	if err := s.AddPlayer(c.Name); err != nil {
		s.Unlock()
		h.rejectErr(c, err)
		return
	}
	if p, seated := s.Player(c.Name); seated {
		p.ConnID = c.ID
	}
	state := snapshot(s)
	s.Unlock()

	h.attach(c, s.Code())
	logger.Info("player joined", "code", s.Code(), "player", c.Name)

	h.sendTo(c, EventSessionJoined, SessionCreatedPayload{
		Code:   s.Code(),
		IsHost: c.Name == s.HostName(),
		State:  state,
	})
	h.Broadcast(s.Code(), EventPlayerJoined, PlayerEventPayload{Player: c.Name, State: state})
}

func (h *Hub) handleLeave(c *Client) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	code := c.code

	s.Lock()
	err := s.RemovePlayer(c.Name)
	state := snapshot(s)
	s.Unlock()
	if err != nil {
		h.rejectErr(c, err)
		return
	}

	h.detach(c)
	h.Broadcast(code, EventPlayerLeft, PlayerEventPayload{Player: c.Name, State: state})
}

func (h *Hub) handleSetPlayerCount(c *Client, raw json.RawMessage) {
	s, ok := h.session(c)
	if !ok || !h.requireHost(c, s) {
		return
	}
	var req PlayerCountPayload
	if err := json.Unmarshal(raw, &req); err != nil {
		h.sendError(c, game.CodeBadRequest, "player count is required")
		return
	}

	s.Lock()
	err := s.SetExpectedPlayerCount(req.Count)
	state := snapshot(s)
	s.Unlock()
	if err != nil {
		h.rejectErr(c, err)
		return
	}

	h.Broadcast(s.Code(), EventPlayerCountSet, StatePayload{State: state})
}

func (h *Hub) handleAddRole(c *Client, raw json.RawMessage) {
	s, ok := h.session(c)
	if !ok || !h.requireHost(c, s) {
		return
	}
	var req AddRolePayload
	if err := json.Unmarshal(raw, &req); err != nil {
		h.sendError(c, game.CodeBadRequest, "role is required")
		return
	}

	s.Lock()
	err := s.AddRole(req.Role)
	state := snapshot(s)
	s.Unlock()
	if err != nil {
		h.rejectErr(c, err)
		return
	}

	h.Broadcast(s.Code(), EventRoleAdded, RoleAddedPayload{Role: req.Role, State: state})
}

func (h *Hub) handleClearRoles(c *Client) {
	s, ok := h.session(c)
	if !ok || !h.requireHost(c, s) {
		return
	}

	s.Lock()
	err := s.ClearRoles()
	state := snapshot(s)
	s.Unlock()
	if err != nil {
		h.rejectErr(c, err)
		return
	}

	h.Broadcast(s.Code(), EventRolesCleared, StatePayload{State: state})
}

func (h *Hub) handleDeal(c *Client) {
	s, ok := h.session(c)
	if !ok || !h.requireHost(c, s) {
		return
	}

	s.Lock()
	defer s.Unlock()

	if err := s.Deal(); err != nil {
		h.rejectErr(c, err)
		return
	}
	gamesDealt.Inc()
	logger.Info("session dealt", "code", s.Code(), "players", s.PlayerCount())

	// Private role cards first, then the public start, then the first turn.
	for _, name := range s.PlayerNames() {
		p, _ := s.Player(name)
		h.ToPlayer(s.Code(), name, EventRoleAssigned, RoleAssignedPayload{
			Role:         p.InitialRole,
			Instructions: domain.Catalog[p.InitialRole].Instructions,
		})
	}

	state := snapshot(s)
	h.Broadcast(s.Code(), EventGameStarted, GameStartedPayload{
		Phase:            s.Phase(),
		Players:          state.Players,
		CenterCardsCount: len(s.CenterCards()),
	})

	h.sequencer(s.Code(), s).Start()
}

func (h *Hub) handleRequestOwnRole(c *Client) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	s.Lock()
	defer s.Unlock()

	if !s.Dealt() {
		h.sendError(c, game.CodeBadRequest, "session not dealt yet")
		return
	}
	p, seated := s.Player(c.Name)
	if !seated {
		h.sendError(c, game.CodePlayerNotFound, "player not found")
		return
	}
	h.sendTo(c, EventRoleInfo, RoleAssignedPayload{
		Role:         p.InitialRole,
		Instructions: domain.Catalog[p.InitialRole].Instructions,
	})
}

// handleActionDone records the advisory completion signal. The turn timer
// is untouched; this is telemetry for lobby UIs only.
func (h *Hub) handleActionDone(c *Client) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	s.Lock()
	s.MarkActed(c.Name)
	s.Unlock()

	h.Broadcast(s.Code(), EventPlayerActed, PlayerActedPayload{Player: c.Name})
}

func (h *Hub) handleSubmitVote(c *Client, raw json.RawMessage) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req VotePayload
	if err := json.Unmarshal(raw, &req); err != nil || req.Target == "" {
		h.sendError(c, game.CodeBadRequest, "vote target is required")
		return
	}

	s.Lock()
	err := s.SubmitVote(c.Name, req.Target)
	complete := err == nil && s.AllVotesSubmitted()
	var tallyPayload VoteTallyPayload
	if complete {
		tallyPayload = VoteTallyPayload{Votes: s.Votes(), Tally: s.TallyVotes()}
	}
	s.Unlock()
	if err != nil {
		h.rejectErr(c, err)
		return
	}

	h.sendTo(c, EventVoteAccepted, VotePayload{Target: req.Target})
	if complete {
		h.Broadcast(s.Code(), EventVoteTally, tallyPayload)
	}
}

func (h *Hub) handleEndSession(c *Client) {
	s, ok := h.session(c)
	if !ok || !h.requireHost(c, s) {
		return
	}

	s.Lock()
	if q, started := h.currentSequencer(s.Code()); started {
		q.Stop()
	}
	reveal := s.EndGame()
	s.Unlock()

	logger.Info("session ended", "code", s.Code(), "by", c.Name)
	h.Broadcast(s.Code(), EventGameEnded, GameEndedPayload{Reveal: reveal})
}

// mayAct guards role actions: the owning role must hold the current night
// turn and the actor must be one of its wakers. A doppelganger who copied
// the owning role acts during that role's turn; the reserved
// doppelganger-insomniac slot accepts the insomniac's own action. Caller
// holds the session lock.
func mayAct(s *game.Session, actor string, owning domain.Role) error {
	current, ok := s.CurrentNightRole()
	if !ok {
		return &game.Error{Code: game.CodeNotYourTurn, Message: "no night turn is open"}
	}

	p, seated := s.Player(actor)
	if !seated {
		return &game.Error{Code: game.CodePlayerNotFound, Message: "player not found"}
	}

	if current == owning {
		if p.InitialRole == owning {
			return nil
		}
		if p.InitialRole == domain.RoleDoppelganger && p.CopiedRole == owning {
			return nil
		}
	}
	if owning == domain.RoleInsomniac && current == domain.RoleDoppelgangerInsomniac {
		for _, name := range s.ActingPlayers(current) {
			if name == actor {
				return nil
			}
		}
	}

	return &game.Error{Code: game.CodeNotYourTurn, Message: "it is not your turn for this action"}
}

// runAction wraps the shared plumbing of every role action: resolve the
// session, check the turn guard under the lock, apply the action, record
// the advisory completion flag and answer with the action result.
func (h *Hub) runAction(c *Client, owning domain.Role, action string,
	apply func(s *game.Session) ([]domain.Role, error)) {

	s, ok := h.session(c)
	if !ok {
		return
	}

	s.Lock()
	err := mayAct(s, c.Name, owning)
	var roles []domain.Role
	if err == nil {
		roles, err = apply(s)
	}
	if err == nil {
		s.MarkActed(c.Name)
	}
	s.Unlock()

	if err != nil {
		h.rejectErr(c, err)
		return
	}
	h.sendTo(c, EventActionResult, ActionResultPayload{Action: action, Roles: roles})
}

func (h *Hub) handleDoppelgangerCopy(c *Client, raw json.RawMessage) {
	var req TargetPayload
	if err := json.Unmarshal(raw, &req); err != nil || req.Target == "" {
		h.sendError(c, game.CodeBadRequest, "target is required")
		return
	}
	h.runAction(c, domain.RoleDoppelganger, CmdDoppelgangerCopy,
		func(s *game.Session) ([]domain.Role, error) {
			role, err := game.CopyIdentity(s, c.Name, req.Target)
			if err != nil {
				return nil, err
			}
			return []domain.Role{role}, nil
		})
}

func (h *Hub) handleSeerViewPlayer(c *Client, raw json.RawMessage) {
	var req TargetPayload
	if err := json.Unmarshal(raw, &req); err != nil || req.Target == "" {
		h.sendError(c, game.CodeBadRequest, "target is required")
		return
	}
	h.runAction(c, domain.RoleSeer, CmdSeerViewPlayer,
		func(s *game.Session) ([]domain.Role, error) {
			role, err := game.ViewPlayer(s, req.Target)
			if err != nil {
				return nil, err
			}
			return []domain.Role{role}, nil
		})
}

func (h *Hub) handleSeerViewCenter(c *Client, raw json.RawMessage) {
	var req CenterIndicesPayload
	if err := json.Unmarshal(raw, &req); err != nil {
		h.sendError(c, game.CodeBadRequest, "center indices are required")
		return
	}
	if len(req.Indices) > 2 {
		h.sendError(c, game.CodeBadRequest, "at most two center cards may be viewed")
		return
	}
	h.runAction(c, domain.RoleSeer, CmdSeerViewCenter,
		func(s *game.Session) ([]domain.Role, error) {
			return game.ViewCenter(s, req.Indices), nil
		})
}

func (h *Hub) handleRobberSwap(c *Client, raw json.RawMessage) {
	var req TargetPayload
	if err := json.Unmarshal(raw, &req); err != nil || req.Target == "" {
		h.sendError(c, game.CodeBadRequest, "target is required")
		return
	}
	h.runAction(c, domain.RoleRobber, CmdRobberSwap,
		func(s *game.Session) ([]domain.Role, error) {
			role, err := game.SwapWithPlayer(s, c.Name, req.Target)
			if err != nil {
				return nil, err
			}
			return []domain.Role{role}, nil
		})
}

func (h *Hub) handleTroublemakerSwap(c *Client, raw json.RawMessage) {
	var req SwapOthersPayload
	if err := json.Unmarshal(raw, &req); err != nil || req.First == "" || req.Second == "" {
		h.sendError(c, game.CodeBadRequest, "two players are required")
		return
	}
	if req.First == c.Name || req.Second == c.Name {
		h.sendError(c, game.CodeBadRequest, "you may only swap other players")
		return
	}
	h.runAction(c, domain.RoleTroublemaker, CmdTroublemakerSwap,
		func(s *game.Session) ([]domain.Role, error) {
			return nil, game.SwapOthers(s, req.First, req.Second)
		})
}

func (h *Hub) handleDrunkSwap(c *Client, raw json.RawMessage) {
	var req CenterIndexPayload
	if err := json.Unmarshal(raw, &req); err != nil {
		h.sendError(c, game.CodeBadRequest, "center index is required")
		return
	}
	h.runAction(c, domain.RoleDrunk, CmdDrunkSwap,
		func(s *game.Session) ([]domain.Role, error) {
			// The drunk never learns the card they picked up.
			return nil, game.SwapWithCenter(s, c.Name, req.Index)
		})
}

func (h *Hub) handleInsomniacView(c *Client) {
	h.runAction(c, domain.RoleInsomniac, CmdInsomniacViewRole,
		func(s *game.Session) ([]domain.Role, error) {
			role, err := game.ViewOwnRole(s, c.Name)
			if err != nil {
				return nil, err
			}
			return []domain.Role{role}, nil
		})
}
