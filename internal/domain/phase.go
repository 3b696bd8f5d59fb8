package domain

// Phase is the lifecycle state of a session. Phases only move forward;
// the single exception is clearing the role pool, which drops a session
// from PhaseReady back to PhaseCharacterSelection.
type Phase string

const (
	PhaseSetup              Phase = "setup"
	PhaseCharacterSelection Phase = "character_selection"
	PhaseReady              Phase = "ready"
	PhaseNight              Phase = "night_phase"
	PhaseVoting             Phase = "voting_phase"
	PhaseEnded              Phase = "ended"
)

func (p Phase) String() string {
	return string(p)
}

// CanTransitionTo reports whether moving from p to target is legal.
// PhaseEnded is reachable from anywhere (early termination).
func (p Phase) CanTransitionTo(target Phase) bool {
	if target == PhaseEnded {
		return true
	}

	valid := map[Phase][]Phase{
		PhaseSetup:              {PhaseCharacterSelection},
		PhaseCharacterSelection: {PhaseReady},
		PhaseReady:              {PhaseCharacterSelection, PhaseNight},
		PhaseNight:              {PhaseVoting},
	}

	for _, next := range valid[p] {
		if next == target {
			return true
		}
	}
	return false
}
