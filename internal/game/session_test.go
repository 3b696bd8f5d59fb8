package game

import (
	"testing"

	"onenight_server/internal/domain"
)

// seated returns a session with n players named p0..p4 (p0 is the host)
// and the expected count already set.
func seated(t *testing.T, names ...string) *Session {
	t.Helper()
	s := NewSession("TESTA", names[0])
	for _, n := range names {
		if err := s.AddPlayer(n); err != nil {
			t.Fatalf("AddPlayer(%s): %v", n, err)
		}
	}
	if err := s.SetExpectedPlayerCount(len(names)); err != nil {
		t.Fatalf("SetExpectedPlayerCount(%d): %v", len(names), err)
	}
	return s
}

func fillPool(t *testing.T, s *Session, roles ...domain.Role) {
	t.Helper()
	for _, r := range roles {
		if err := s.AddRole(r); err != nil {
			t.Fatalf("AddRole(%s): %v", r, err)
		}
	}
}

func TestAddPlayer(t *testing.T) {
	s := NewSession("TESTA", "alice")
	if err := s.AddPlayer("alice"); err != nil {
		t.Fatalf("AddPlayer(alice): %v", err)
	}

	if err := s.AddPlayer("alice"); CodeOf(err) != CodeNameTaken {
		t.Fatalf("duplicate name: got %v, want code %s", err, CodeNameTaken)
	}

	if err := s.SetExpectedPlayerCount(3); err != nil {
		t.Fatalf("SetExpectedPlayerCount: %v", err)
	}
	if err := s.AddPlayer("bob"); err != nil {
		t.Fatalf("AddPlayer(bob): %v", err)
	}
	if err := s.AddPlayer("carol"); err != nil {
		t.Fatalf("AddPlayer(carol): %v", err)
	}
	if err := s.AddPlayer("dave"); CodeOf(err) != CodeSessionFull {
		t.Fatalf("full table: got %v, want code %s", err, CodeSessionFull)
	}
}

func TestRemovePlayer(t *testing.T) {
	s := seated(t, "alice", "bob", "carol")

	if err := s.RemovePlayer("mallory"); CodeOf(err) != CodePlayerNotFound {
		t.Fatalf("unknown player: got %v, want code %s", err, CodePlayerNotFound)
	}
	if err := s.RemovePlayer("bob"); err != nil {
		t.Fatalf("RemovePlayer(bob): %v", err)
	}

	want := []string{"alice", "carol"}
	got := s.PlayerNames()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("PlayerNames() = %v, want %v", got, want)
	}
}

func TestSetExpectedPlayerCountBounds(t *testing.T) {
	cases := []struct {
		n  int
		ok bool
	}{
		{2, false},
		{3, true},
		{7, true},
		{8, false},
		{0, false},
		{-1, false},
	}

	for _, tc := range cases {
		s := NewSession("TESTA", "alice")
		err := s.SetExpectedPlayerCount(tc.n)
		if tc.ok && err != nil {
			t.Fatalf("SetExpectedPlayerCount(%d): %v", tc.n, err)
		}
		if !tc.ok && CodeOf(err) != CodeInvalidCount {
			t.Fatalf("SetExpectedPlayerCount(%d): got %v, want code %s", tc.n, err, CodeInvalidCount)
		}
	}
}

func TestSetExpectedPlayerCountPhases(t *testing.T) {
	s := NewSession("TESTA", "alice")
	if err := s.SetExpectedPlayerCount(3); err != nil {
		t.Fatalf("SetExpectedPlayerCount: %v", err)
	}
	if s.Phase() != domain.PhaseCharacterSelection {
		t.Fatalf("phase = %s, want %s", s.Phase(), domain.PhaseCharacterSelection)
	}

	fillPool(t, s,
		domain.RoleWerewolf, domain.RoleWerewolf, domain.RoleSeer,
		domain.RoleRobber, domain.RoleVillager, domain.RoleVillager)
	if s.Phase() != domain.PhaseReady {
		t.Fatalf("phase = %s, want %s", s.Phase(), domain.PhaseReady)
	}

	// Growing the table reopens character selection, the pool is short again.
	if err := s.SetExpectedPlayerCount(4); err != nil {
		t.Fatalf("SetExpectedPlayerCount(4): %v", err)
	}
	if s.Phase() != domain.PhaseCharacterSelection {
		t.Fatalf("phase = %s, want %s", s.Phase(), domain.PhaseCharacterSelection)
	}

	// Shrinking below the pool size is rejected.
	fillPool(t, s, domain.RoleVillager)
	if err := s.SetExpectedPlayerCount(3); CodeOf(err) != CodeInvalidCount {
		t.Fatalf("shrink below pool: got %v, want code %s", err, CodeInvalidCount)
	}
}

func TestAddRole(t *testing.T) {
	s := NewSession("TESTA", "alice")

	if err := s.AddRole(domain.RoleSeer); CodeOf(err) != CodeCountUnset {
		t.Fatalf("count unset: got %v, want code %s", err, CodeCountUnset)
	}

	if err := s.SetExpectedPlayerCount(3); err != nil {
		t.Fatalf("SetExpectedPlayerCount: %v", err)
	}

	if err := s.AddRole("wizard"); CodeOf(err) != CodeUnknownRole {
		t.Fatalf("unknown role: got %v, want code %s", err, CodeUnknownRole)
	}
	if err := s.AddRole(domain.RoleDoppelgangerInsomniac); CodeOf(err) != CodeUnknownRole {
		t.Fatalf("synthetic role: got %v, want code %s", err, CodeUnknownRole)
	}

	if err := s.AddRole(domain.RoleSeer); err != nil {
		t.Fatalf("AddRole(seer): %v", err)
	}
	if err := s.AddRole(domain.RoleSeer); CodeOf(err) != CodeLimitReached {
		t.Fatalf("seer copy limit: got %v, want code %s", err, CodeLimitReached)
	}

	fillPool(t, s,
		domain.RoleWerewolf, domain.RoleWerewolf,
		domain.RoleVillager, domain.RoleVillager, domain.RoleVillager)
	if err := s.AddRole(domain.RoleRobber); CodeOf(err) != CodePoolFull {
		t.Fatalf("pool full: got %v, want code %s", err, CodePoolFull)
	}
}

func TestClearRoles(t *testing.T) {
	s := seated(t, "alice", "bob", "carol")
	fillPool(t, s, domain.RoleWerewolf, domain.RoleSeer)

	if err := s.ClearRoles(); err != nil {
		t.Fatalf("ClearRoles: %v", err)
	}
	if len(s.RolePool()) != 0 {
		t.Fatalf("pool not empty after clear: %v", s.RolePool())
	}
	if s.Phase() != domain.PhaseCharacterSelection {
		t.Fatalf("phase = %s, want %s", s.Phase(), domain.PhaseCharacterSelection)
	}
}

func TestDealConservation(t *testing.T) {
	s := seated(t, "alice", "bob", "carol", "dave", "eve")
	pool := []domain.Role{
		domain.RoleWerewolf, domain.RoleWerewolf, domain.RoleSeer,
		domain.RoleMinion, domain.RoleMason, domain.RoleMason,
		domain.RoleVillager, domain.RoleVillager,
	}
	fillPool(t, s, pool...)

	if err := s.Deal(); err != nil {
		t.Fatalf("Deal: %v", err)
	}
	if s.Phase() != domain.PhaseNight {
		t.Fatalf("phase = %s, want %s", s.Phase(), domain.PhaseNight)
	}
	if !s.Dealt() {
		t.Fatal("Dealt() = false after deal")
	}

	// Every card in the pool ends up either on a player or in the center.
	dealt := make(map[domain.Role]int)
	for _, name := range s.PlayerNames() {
		p, _ := s.Player(name)
		if p.InitialRole != p.CurrentRole {
			t.Fatalf("%s: initial %s != current %s right after deal", name, p.InitialRole, p.CurrentRole)
		}
		dealt[p.InitialRole]++
	}
	center := s.CenterCards()
	if len(center) != 3 {
		t.Fatalf("center cards = %d, want 3", len(center))
	}
	for _, r := range center {
		dealt[r]++
	}

	want := make(map[domain.Role]int)
	for _, r := range pool {
		want[r]++
	}
	for r, n := range want {
		if dealt[r] != n {
			t.Fatalf("role %s: dealt %d copies, pool had %d", r, dealt[r], n)
		}
	}
}

func TestDealNightOrderFiltersUndealtRoles(t *testing.T) {
	s := seated(t, "alice", "bob", "carol", "dave", "eve")
	fillPool(t, s,
		domain.RoleWerewolf, domain.RoleWerewolf, domain.RoleSeer,
		domain.RoleMinion, domain.RoleMason, domain.RoleMason,
		domain.RoleVillager, domain.RoleVillager)

	if err := s.Deal(); err != nil {
		t.Fatalf("Deal: %v", err)
	}

	// Only roles that landed on players wake up, in global order.
	present := make(map[domain.Role]bool)
	for _, name := range s.PlayerNames() {
		p, _ := s.Player(name)
		present[p.InitialRole] = true
	}
	var want []domain.Role
	for _, r := range []domain.Role{
		domain.RoleWerewolf, domain.RoleMinion, domain.RoleMason, domain.RoleSeer,
	} {
		if present[r] {
			want = append(want, r)
		}
	}

	got := s.NightOrder()
	if len(got) != len(want) {
		t.Fatalf("night order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("night order = %v, want %v", got, want)
		}
	}
}

func TestDealRejections(t *testing.T) {
	s := NewSession("TESTA", "alice")
	if err := s.AddPlayer("alice"); err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}
	if err := s.Deal(); CodeOf(err) != CodeCountUnset {
		t.Fatalf("deal without count: got %v, want code %s", err, CodeCountUnset)
	}

	if err := s.SetExpectedPlayerCount(3); err != nil {
		t.Fatalf("SetExpectedPlayerCount: %v", err)
	}
	if err := s.Deal(); CodeOf(err) != CodePlayersMissing {
		t.Fatalf("deal with missing players: got %v, want code %s", err, CodePlayersMissing)
	}

	if err := s.AddPlayer("bob"); err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}
	if err := s.AddPlayer("carol"); err != nil {
		t.Fatalf("AddPlayer: %v", err)
	}
	if err := s.Deal(); CodeOf(err) != CodePoolIncomplete {
		t.Fatalf("deal with short pool: got %v, want code %s", err, CodePoolIncomplete)
	}

	fillPool(t, s,
		domain.RoleWerewolf, domain.RoleWerewolf, domain.RoleSeer,
		domain.RoleRobber, domain.RoleVillager, domain.RoleVillager)
	if err := s.Deal(); err != nil {
		t.Fatalf("Deal: %v", err)
	}

	// Everything structural is frozen after the deal.
	if err := s.Deal(); CodeOf(err) != CodeAlreadyStarted {
		t.Fatalf("second deal: got %v, want code %s", err, CodeAlreadyStarted)
	}
	if err := s.AddRole(domain.RoleVillager); CodeOf(err) != CodeAlreadyStarted {
		t.Fatalf("add role after deal: got %v, want code %s", err, CodeAlreadyStarted)
	}
	if err := s.AddPlayer("dave"); CodeOf(err) != CodeAlreadyStarted {
		t.Fatalf("join after deal: got %v, want code %s", err, CodeAlreadyStarted)
	}
	if err := s.RemovePlayer("bob"); CodeOf(err) != CodeAlreadyStarted {
		t.Fatalf("leave after deal: got %v, want code %s", err, CodeAlreadyStarted)
	}
	if err := s.SetExpectedPlayerCount(4); CodeOf(err) != CodeAlreadyStarted {
		t.Fatalf("resize after deal: got %v, want code %s", err, CodeAlreadyStarted)
	}
}

// buildNightOrder reserves the doppelganger-insomniac slot only when both
// of its trigger roles were dealt to players.
func TestBuildNightOrderSyntheticSlot(t *testing.T) {
	cases := []struct {
		name     string
		roles    []domain.Role
		reserved bool
	}{
		{"both dealt", []domain.Role{domain.RoleDoppelganger, domain.RoleInsomniac, domain.RoleVillager}, true},
		{"doppelganger only", []domain.Role{domain.RoleDoppelganger, domain.RoleSeer, domain.RoleVillager}, false},
		{"insomniac only", []domain.Role{domain.RoleWerewolf, domain.RoleInsomniac, domain.RoleVillager}, false},
	}

	for _, tc := range cases {
		s := seated(t, "alice", "bob", "carol")
		for i, name := range s.PlayerNames() {
			p, _ := s.Player(name)
			p.InitialRole = tc.roles[i]
			p.CurrentRole = tc.roles[i]
		}

		order := s.buildNightOrder()
		got := false
		for _, r := range order {
			if r == domain.RoleDoppelgangerInsomniac {
				got = true
			}
		}
		if got != tc.reserved {
			t.Fatalf("%s: synthetic slot reserved = %v, want %v (order %v)", tc.name, got, tc.reserved, order)
		}
		if tc.reserved && order[len(order)-1] != domain.RoleDoppelgangerInsomniac {
			t.Fatalf("%s: synthetic slot not last: %v", tc.name, order)
		}
	}
}

func TestAdvanceNight(t *testing.T) {
	s := seated(t, "alice", "bob", "carol")
	s.nightOrder = []domain.Role{domain.RoleWerewolf, domain.RoleSeer}
	s.phase = domain.PhaseNight

	role, ok := s.CurrentNightRole()
	if !ok || role != domain.RoleWerewolf {
		t.Fatalf("CurrentNightRole() = %s, %v; want werewolf", role, ok)
	}

	complete, next := s.AdvanceNight()
	if complete || next != domain.RoleSeer {
		t.Fatalf("AdvanceNight() = %v, %s; want false, seer", complete, next)
	}

	complete, _ = s.AdvanceNight()
	if !complete {
		t.Fatal("AdvanceNight() at end of order: complete = false")
	}
	if s.Phase() != domain.PhaseVoting {
		t.Fatalf("phase = %s, want %s", s.Phase(), domain.PhaseVoting)
	}

	if _, ok := s.CurrentNightRole(); ok {
		t.Fatal("CurrentNightRole() reported a turn after the night ended")
	}
}

func TestVoting(t *testing.T) {
	s := seated(t, "alice", "bob", "carol")

	if err := s.SubmitVote("alice", "bob"); CodeOf(err) != CodeNotVotingPhase {
		t.Fatalf("vote before voting phase: got %v, want code %s", err, CodeNotVotingPhase)
	}

	s.phase = domain.PhaseVoting

	if err := s.SubmitVote("mallory", "bob"); CodeOf(err) != CodePlayerNotFound {
		t.Fatalf("unknown voter: got %v, want code %s", err, CodePlayerNotFound)
	}
	if err := s.SubmitVote("alice", "mallory"); CodeOf(err) != CodePlayerNotFound {
		t.Fatalf("unknown target: got %v, want code %s", err, CodePlayerNotFound)
	}

	if err := s.SubmitVote("alice", "bob"); err != nil {
		t.Fatalf("SubmitVote: %v", err)
	}
	// Re-voting overwrites.
	if err := s.SubmitVote("alice", "carol"); err != nil {
		t.Fatalf("SubmitVote overwrite: %v", err)
	}
	if s.AllVotesSubmitted() {
		t.Fatal("AllVotesSubmitted() = true with votes outstanding")
	}

	if err := s.SubmitVote("bob", "carol"); err != nil {
		t.Fatalf("SubmitVote: %v", err)
	}
	if err := s.SubmitVote("carol", "alice"); err != nil {
		t.Fatalf("SubmitVote: %v", err)
	}
	if !s.AllVotesSubmitted() {
		t.Fatal("AllVotesSubmitted() = false with every vote in")
	}

	tally := s.TallyVotes()
	if tally.Counts["carol"] != 2 || tally.Counts["alice"] != 1 {
		t.Fatalf("tally counts = %v", tally.Counts)
	}
	if len(tally.MostVoted) != 1 || tally.MostVoted[0] != "carol" {
		t.Fatalf("most voted = %v, want [carol]", tally.MostVoted)
	}
}

func TestTallyVotesTie(t *testing.T) {
	s := seated(t, "alice", "bob", "carol")
	s.phase = domain.PhaseVoting

	s.votes = map[string]string{"alice": "bob", "bob": "alice", "carol": "carol"}

	tally := s.TallyVotes()
	want := []string{"alice", "bob", "carol"}
	if len(tally.MostVoted) != len(want) {
		t.Fatalf("most voted = %v, want %v", tally.MostVoted, want)
	}
	for i := range want {
		if tally.MostVoted[i] != want[i] {
			t.Fatalf("most voted = %v, want join order %v", tally.MostVoted, want)
		}
	}
}

func TestEndGameReveal(t *testing.T) {
	s := seated(t, "alice", "bob", "carol")
	fillPool(t, s,
		domain.RoleWerewolf, domain.RoleSeer, domain.RoleRobber,
		domain.RoleVillager, domain.RoleVillager, domain.RoleVillager)
	if err := s.Deal(); err != nil {
		t.Fatalf("Deal: %v", err)
	}

	// Move a card into the center so the two snapshots diverge.
	if err := SwapWithCenter(s, "alice", 0); err != nil {
		t.Fatalf("SwapWithCenter: %v", err)
	}

	reveal := s.EndGame()
	if s.Phase() != domain.PhaseEnded {
		t.Fatalf("phase = %s, want %s", s.Phase(), domain.PhaseEnded)
	}
	if len(reveal.Players) != 3 {
		t.Fatalf("reveal players = %d, want 3", len(reveal.Players))
	}
	if len(reveal.CenterCards) != 3 || len(reveal.InitialCenterCards) != 3 {
		t.Fatalf("center snapshots = %d/%d, want 3/3", len(reveal.CenterCards), len(reveal.InitialCenterCards))
	}

	alice, _ := s.Player("alice")
	if reveal.Players["alice"].CurrentRole != alice.CurrentRole {
		t.Fatalf("reveal current role = %s, want %s", reveal.Players["alice"].CurrentRole, alice.CurrentRole)
	}
	if reveal.InitialCenterCards[0] != alice.CurrentRole {
		t.Fatalf("initial center[0] = %s, want the card alice took (%s)",
			reveal.InitialCenterCards[0], alice.CurrentRole)
	}
}
