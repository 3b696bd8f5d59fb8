package domain

// Player is one seat in a session. Name is the stable identity key.
type Player struct {
	Name string

	// InitialRole is assigned once at deal time and never changes. Night
	// turns are dispatched against it ("who acts as role X").
	InitialRole Role

	// CurrentRole is what the player actually holds right now. Swap and
	// copy actions move it around during the night.
	CurrentRole Role

	// ConnID is an opaque reference to the gateway connection currently
	// bound to this seat. Empty when the player is disconnected.
	ConnID string

	// HasActed records that the player signalled their night action as
	// done. Advisory only; it never gates the turn timer.
	HasActed bool

	// CopiedRole is set only for a doppelganger and records which role
	// they copied during their turn.
	CopiedRole Role
}

// Connected reports whether a gateway connection is bound to this seat.
func (p *Player) Connected() bool {
	return p.ConnID != ""
}
