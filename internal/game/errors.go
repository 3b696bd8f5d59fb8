package game

// Reason codes carried by every expected rejection. Stable across releases;
// clients switch on these, the message is display text only.
const (
	CodeNameTaken      = "name_taken"
	CodeAlreadyStarted = "already_started"
	CodeSessionFull    = "session_full"
	CodePlayerNotFound = "player_not_found"
	CodeInvalidCount   = "invalid_count"
	CodeUnknownRole    = "unknown_role"
	CodeCountUnset     = "count_unset"
	CodePoolFull       = "pool_full"
	CodeLimitReached   = "limit_reached"
	CodePlayersMissing = "players_missing"
	CodePoolIncomplete = "pool_incomplete"
	CodeNotVotingPhase = "not_voting_phase"
	CodeNotYourTurn    = "not_your_turn"
	CodeNotHost        = "not_host"
	CodeNotFound       = "not_found"
	CodeBadIndex       = "bad_index"
	CodeBadRequest     = "bad_request"
)

// Error is an expected rejection: a stable reason code plus a human-readable
// message. No state was mutated when one of these comes back.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func reject(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// CodeOf extracts the reason code from err, or "internal" for anything that
// is not a rejection.
func CodeOf(err error) string {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return "internal"
}
