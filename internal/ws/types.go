package ws

// Inbound commands (client → server).
const (
	CmdCreateSession  = "create_session"
	CmdJoinSession    = "join_session"
	CmdLeaveSession   = "leave_session"
	CmdSetPlayerCount = "set_player_count"
	CmdAddRole        = "add_role"
	CmdClearRoles     = "clear_roles"
	CmdDeal           = "deal"
	CmdRequestOwnRole = "request_own_role"
	CmdActionDone     = "action_done"
	CmdSubmitVote     = "submit_vote"
	CmdEndSession     = "end_session"

	// Role actions, one per resolver operation.
	CmdDoppelgangerCopy  = "doppelganger_copy"
	CmdSeerViewPlayer    = "seer_view_player"
	CmdSeerViewCenter    = "seer_view_center"
	CmdRobberSwap        = "robber_swap"
	CmdTroublemakerSwap  = "troublemaker_swap"
	CmdDrunkSwap         = "drunk_swap"
	CmdInsomniacViewRole = "insomniac_view_role"
)

// Outbound events (server → client). The night-phase events
// (night_turn, night_waiting, phase_changed) are emitted by the sequencer.
const (
	EventSessionCreated = "session_created"
	EventSessionJoined  = "session_joined"
	EventPlayerJoined   = "player_joined"
	EventPlayerLeft     = "player_left"
	EventPlayerCountSet = "player_count_set"
	EventRoleAdded      = "role_added"
	EventRolesCleared   = "roles_cleared"
	EventGameStarted    = "game_started"
	EventRoleAssigned   = "role_assigned"
	EventRoleInfo       = "role_info"
	EventActionResult   = "action_result"
	EventPlayerActed    = "player_acted"
	EventVoteAccepted   = "vote_accepted"
	EventVoteTally      = "vote_tally"
	EventGameEnded      = "game_ended"
	EventError          = "error"
)
