package wolf

import (
	"testing"

	"wolfden/server/internal/fixed"
)

func spawnN(e *Engine, n int) []uint32 {
	ids := make([]uint32, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, e.Spawn(fixed.VecFromFloats(0.5, 0.5), TypeNormal))
	}
	return ids
}

func TestCreatePackAssignsExactlyOneLeader(t *testing.T) {
	e := newTestEngine(t)
	ids := spawnN(e, 4)

	e.CreatePack(ids)

	leaders := 0
	for _, id := range ids {
		if e.wolvesByID[id].Role == RoleLeader {
			leaders++
		}
	}
	if leaders != 1 {
		t.Fatalf("leaders = %d, want exactly 1", leaders)
	}
}

// soleLeaderID asserts the pack has exactly one leader and returns its id.
func soleLeaderID(t *testing.T, e *Engine, packID uint32) uint32 {
	t.Helper()
	pack, ok := e.Pack(packID)
	if !ok {
		t.Fatal("pack missing")
	}
	var leaderID uint32
	leaders := 0
	for _, id := range pack.Members {
		if e.wolvesByID[id].Role == RoleLeader {
			leaderID = id
			leaders++
		}
	}
	if leaders != 1 {
		t.Fatalf("leaders = %d among members %v, want exactly 1", leaders, pack.Members)
	}
	return leaderID
}

func TestRemovingLeaderPromotesSuccessor(t *testing.T) {
	e := newTestEngine(t)
	ids := spawnN(e, 3)
	packID := e.CreatePack(ids)

	leader := soleLeaderID(t, e, packID)
	e.Remove(leader)

	soleLeaderID(t, e, packID)
}

func TestPoachedLeaderLeavesOldPackWithOneLeader(t *testing.T) {
	e := newTestEngine(t)
	ids := spawnN(e, 3)
	first := e.CreatePack(ids)

	leader := soleLeaderID(t, e, first)
	second := e.CreatePack([]uint32{leader})

	if got := soleLeaderID(t, e, second); got != leader {
		t.Fatalf("new pack leader = %d, want the moved wolf %d", got, leader)
	}
	soleLeaderID(t, e, first)
}

func TestZeroScorePackStillGetsLeader(t *testing.T) {
	e := newTestEngine(t)
	ids := spawnN(e, 2)
	for _, id := range ids {
		e.wolvesByID[id].Morale = 0
	}

	packID := e.CreatePack(ids)

	if got := soleLeaderID(t, e, packID); got != ids[0] {
		t.Fatalf("leader = %d, want first member %d", got, ids[0])
	}
}

func TestLeaderTieGoesToFirstMember(t *testing.T) {
	e := newTestEngine(t)
	ids := spawnN(e, 3)

	for _, id := range ids {
		w := e.wolvesByID[id]
		w.Intelligence = 0.5
		w.Morale = 0.5
	}
	e.CreatePack(ids)

	if e.wolvesByID[ids[0]].Role != RoleLeader {
		t.Fatalf("leader = wolf with role %v, want first member on a tie", e.wolvesByID[ids[0]].Role)
	}
}

func TestRoleLadder(t *testing.T) {
	e := newTestEngine(t)
	ids := spawnN(e, 5)

	// First member wins leadership outright; the rest are shaped to hit one
	// rung each.
	leader := e.wolvesByID[ids[0]]
	leader.Intelligence = 0.9
	leader.Morale = 1.0

	bruiser := e.wolvesByID[ids[1]]
	bruiser.Aggression = 0.7
	bruiser.Intelligence = 0.1
	bruiser.Morale = 0.1

	skirmisher := e.wolvesByID[ids[2]]
	skirmisher.Aggression = 0.2
	skirmisher.Speed = 0.35
	skirmisher.Intelligence = 0.1
	skirmisher.Morale = 0.1

	support := e.wolvesByID[ids[3]]
	support.Aggression = 0.2
	support.Speed = 0.1
	support.Intelligence = 0.8
	support.Morale = 0.1

	scout := e.wolvesByID[ids[4]]
	scout.Aggression = 0.2
	scout.Speed = 0.1
	scout.Intelligence = 0.5
	scout.Morale = 0.1

	e.CreatePack(ids)

	want := []Role{RoleLeader, RoleBruiser, RoleSkirmisher, RoleSupport, RoleScout}
	for i, id := range ids {
		if got := e.wolvesByID[id].Role; got != want[i] {
			t.Fatalf("member %d role = %v, want %v", i, got, want[i])
		}
	}
}

func TestCreatePackSkipsUnknownIDs(t *testing.T) {
	e := newTestEngine(t)
	id := e.Spawn(fixed.VecFromFloats(0.5, 0.5), TypeNormal)

	packID := e.CreatePack([]uint32{id, 999999})

	pack, ok := e.Pack(packID)
	if !ok {
		t.Fatal("pack missing")
	}
	if len(pack.Members) != 1 || pack.Members[0] != id {
		t.Fatalf("members = %v, want [%d]", pack.Members, id)
	}
}

func TestRepackMovesWolfBetweenPacks(t *testing.T) {
	e := newTestEngine(t)
	ids := spawnN(e, 2)

	first := e.CreatePack(ids)
	second := e.CreatePack([]uint32{ids[0]})

	old, _ := e.Pack(first)
	if len(old.Members) != 1 || old.Members[0] != ids[1] {
		t.Fatalf("old pack members = %v, want [%d]", old.Members, ids[1])
	}
	if e.wolvesByID[ids[0]].PackID != second {
		t.Fatalf("moved wolf pack id = %d, want %d", e.wolvesByID[ids[0]].PackID, second)
	}
}

func TestCommitPlanWhenMoraleHigh(t *testing.T) {
	e := newTestEngine(t)
	ids := spawnN(e, 3)
	packID := e.CreatePack(ids)

	for _, id := range ids {
		e.wolvesByID[id].Morale = 0.9
	}

	e.packStep(testDT)

	pack, _ := e.Pack(packID)
	if pack.Plan != PlanCommit {
		t.Fatalf("plan = %v at morale 0.9, want Commit", pack.Plan)
	}
	for _, id := range ids {
		w := e.wolvesByID[id]
		if !w.commitDrive {
			t.Fatalf("wolf %d missing commit drive", id)
		}
		if w.State == StateIdle && w.StateTimer != 0 {
			t.Fatalf("idle wolf %d timer = %v under Commit, want forced reevaluation", id, w.StateTimer)
		}
	}
}

func TestPincerSplitsStrafeByParity(t *testing.T) {
	e := newTestEngine(t)
	// Leader can see the target at dist 0.1.
	e.SetTarget(&stubTarget{pos: fixed.VecFromFloats(0.6, 0.5)})
	ids := spawnN(e, 4)
	packID := e.CreatePack(ids)

	for _, id := range ids {
		e.wolvesByID[id].Morale = 0.7 // below Commit, above nothing special
	}

	e.packStep(testDT)

	pack, _ := e.Pack(packID)
	if pack.Plan != PlanPincer {
		t.Fatalf("plan = %v with a visible target, want Pincer", pack.Plan)
	}
	for index, id := range pack.Members {
		bias := e.wolvesByID[id].strafeBias
		if index%2 == 0 && bias != 1 {
			t.Fatalf("member %d bias = %d, want 1", index, bias)
		}
		if index%2 == 1 && bias != -1 {
			t.Fatalf("member %d bias = %d, want -1", index, bias)
		}
	}
}

func TestAmbushWhenTargetUnseen(t *testing.T) {
	e := newTestEngine(t)
	ids := spawnN(e, 3)
	packID := e.CreatePack(ids)

	for _, id := range ids {
		e.wolvesByID[id].Morale = 0.7
	}

	e.packStep(testDT)

	pack, _ := e.Pack(packID)
	if pack.Plan != PlanAmbush {
		t.Fatalf("plan = %v with no visible target, want Ambush", pack.Plan)
	}
	if pack.PlanTimer <= 0 {
		t.Fatalf("plan timer = %v, want the ambush duration", pack.PlanTimer)
	}
}

func TestNoPlanAtLowMorale(t *testing.T) {
	e := newTestEngine(t)
	ids := spawnN(e, 3)
	packID := e.CreatePack(ids)

	for _, id := range ids {
		e.wolvesByID[id].Morale = 0.5
	}

	e.packStep(testDT)

	pack, _ := e.Pack(packID)
	if pack.Plan != PlanNone {
		t.Fatalf("plan = %v at morale 0.5 with no target, want None", pack.Plan)
	}
}

func TestEmptyPackGoesInert(t *testing.T) {
	e := newTestEngine(t)
	ids := spawnN(e, 2)
	packID := e.CreatePack(ids)

	for _, id := range ids {
		e.wolvesByID[id].Morale = 0.9
	}
	e.packStep(testDT)
	if pack, _ := e.Pack(packID); pack.Plan != PlanCommit {
		t.Fatalf("plan = %v before removals, want Commit", pack.Plan)
	}

	e.Remove(ids[0])
	e.Remove(ids[1])
	e.packStep(testDT)

	pack, _ := e.Pack(packID)
	if pack.Plan != PlanNone {
		t.Fatalf("plan = %v for an empty pack, want None", pack.Plan)
	}
}

func TestPackMoraleIsMemberMean(t *testing.T) {
	e := newTestEngine(t)
	ids := spawnN(e, 2)
	packID := e.CreatePack(ids)

	e.wolvesByID[ids[0]].Morale = 0.4
	e.wolvesByID[ids[1]].Morale = 0.8

	e.packStep(testDT)

	pack, _ := e.Pack(packID)
	if pack.Morale < 0.599 || pack.Morale > 0.601 {
		t.Fatalf("pack morale = %v, want ~0.6", pack.Morale)
	}
}
