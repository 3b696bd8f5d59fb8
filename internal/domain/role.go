package domain

import "time"

// Role identifies one of the card types in the deck.
type Role string

const (
	RoleDoppelganger Role = "doppelganger"
	RoleWerewolf     Role = "werewolf"
	RoleMinion       Role = "minion"
	RoleMason        Role = "mason"
	RoleSeer         Role = "seer"
	RoleRobber       Role = "robber"
	RoleTroublemaker Role = "troublemaker"
	RoleDrunk        Role = "drunk"
	RoleInsomniac    Role = "insomniac"
	RoleHunter       Role = "hunter"
	RoleTanner       Role = "tanner"
	RoleVillager     Role = "villager"

	// RoleDoppelgangerInsomniac is never dealt. It is the reserved late
	// slot in the night order for a doppelganger who copied the insomniac
	// and has to wake a second time to check their card.
	RoleDoppelgangerInsomniac Role = "doppelganger_insomniac"
)

// RoleInfo is the static catalog entry for one role.
type RoleInfo struct {
	// CopyLimit is the maximum number of copies allowed in one session's pool.
	CopyLimit int
	// Duration is how long the role's night turn lasts. Zero means the
	// role has no night action.
	Duration time.Duration
	// AudioStart and AudioEnd are opaque cue identifiers resolved by the
	// client when a turn opens and closes.
	AudioStart string
	AudioEnd   string
	// Instructions is the text shown to a player holding this role.
	Instructions string
}

const turnDuration = 15 * time.Second

// Catalog maps every role to its static configuration. Pure data, never
// mutated at runtime.
var Catalog = map[Role]RoleInfo{
	RoleDoppelganger: {
		CopyLimit:    1,
		Duration:     turnDuration,
		AudioStart:   "doppelganger",
		AudioEnd:     "doppelganger_end",
		Instructions: "Look at another player's card. That role is now yours. If it has a night action, perform it now.",
	},
	RoleWerewolf: {
		CopyLimit:    2,
		Duration:     turnDuration,
		AudioStart:   "werewolf",
		AudioEnd:     "werewolf_end",
		Instructions: "Wake up and look for the other werewolves.",
	},
	RoleMinion: {
		CopyLimit:    1,
		Duration:     turnDuration,
		AudioStart:   "minion",
		AudioEnd:     "minion_end",
		Instructions: "Wake up and learn who the werewolves are. They do not learn you.",
	},
	RoleMason: {
		CopyLimit:    2,
		Duration:     turnDuration,
		AudioStart:   "mason",
		AudioEnd:     "mason_end",
		Instructions: "Wake up and look for the other mason.",
	},
	RoleSeer: {
		CopyLimit:    1,
		Duration:     turnDuration,
		AudioStart:   "seer",
		AudioEnd:     "seer_end",
		Instructions: "Look at one other player's card or two of the center cards.",
	},
	RoleRobber: {
		CopyLimit:    1,
		Duration:     turnDuration,
		AudioStart:   "robber",
		AudioEnd:     "robber_end",
		Instructions: "You may swap your card with another player's card and look at your new card.",
	},
	RoleTroublemaker: {
		CopyLimit:    1,
		Duration:     turnDuration,
		AudioStart:   "troublemaker",
		AudioEnd:     "troublemaker_end",
		Instructions: "You may swap the cards of two other players without looking at them.",
	},
	RoleDrunk: {
		CopyLimit:    1,
		Duration:     turnDuration,
		AudioStart:   "drunk",
		AudioEnd:     "drunk_end",
		Instructions: "Swap your card with one of the center cards. Do not look at it.",
	},
	RoleInsomniac: {
		CopyLimit:    1,
		Duration:     turnDuration,
		AudioStart:   "insomniac",
		AudioEnd:     "insomniac_end",
		Instructions: "Look at your own card to see whether it changed during the night.",
	},
	RoleHunter: {
		CopyLimit:    1,
		Instructions: "You have no night action. If you are voted out, the player you vote for is eliminated too.",
	},
	RoleTanner: {
		CopyLimit:    1,
		Instructions: "You have no night action. You win only if you are voted out.",
	},
	RoleVillager: {
		CopyLimit:    3,
		Instructions: "You have no night action. Find the werewolves.",
	},
	RoleDoppelgangerInsomniac: {
		CopyLimit:    1,
		Duration:     turnDuration,
		AudioStart:   "doppelganger_insomniac",
		AudioEnd:     "doppelganger_insomniac_end",
		Instructions: "You copied the insomniac. Look at your own card to see whether it changed.",
	},
}

// NightOrder is the global wake-up sequence. A session's own order is this
// list filtered down to the roles actually dealt to players.
var NightOrder = []Role{
	RoleDoppelganger,
	RoleWerewolf,
	RoleMinion,
	RoleMason,
	RoleSeer,
	RoleRobber,
	RoleTroublemaker,
	RoleDrunk,
	RoleInsomniac,
	RoleDoppelgangerInsomniac,
}

// DealableRoles lists the roles a host may add to the pool, in catalog order.
var DealableRoles = []Role{
	RoleDoppelganger,
	RoleWerewolf,
	RoleMinion,
	RoleMason,
	RoleSeer,
	RoleRobber,
	RoleTroublemaker,
	RoleDrunk,
	RoleInsomniac,
	RoleHunter,
	RoleTanner,
	RoleVillager,
}

// Known reports whether r is a dealable catalog role.
func Known(r Role) bool {
	if r == RoleDoppelgangerInsomniac {
		return false
	}
	_, ok := Catalog[r]
	return ok
}

// CopyLimit returns the maximum pool count for r, or 0 for unknown roles.
func CopyLimit(r Role) int {
	return Catalog[r].CopyLimit
}

// TurnDuration returns the fixed night-turn duration for r. Zero means no
// night action.
func TurnDuration(r Role) time.Duration {
	return Catalog[r].Duration
}
