package wolf

import (
	"math"
	"testing"

	"wolfden/server/internal/fixed"
)

func TestRescaleAtSkillBounds(t *testing.T) {
	e := newTestEngine(t)
	id := e.Spawn(fixed.VecFromFloats(0.5, 0.5), TypeNormal)
	base := e.wolvesByID[id].baseSpeed

	e.RescaleForSkill(0)
	w, _ := e.Wolf(id)
	if math.Abs(w.Speed-base*0.85) > 1e-9 {
		t.Fatalf("speed at skill 0 = %v, want %v", w.Speed, base*0.85)
	}
	if w.Aggression != 0.3 {
		t.Fatalf("aggression at skill 0 = %v, want 0.3", w.Aggression)
	}
	if w.DecisionTimer != 0.22 {
		t.Fatalf("reaction at skill 0 = %v, want 0.22", w.DecisionTimer)
	}

	e.RescaleForSkill(1)
	w, _ = e.Wolf(id)
	if math.Abs(w.Speed-base*1.15) > 1e-9 {
		t.Fatalf("speed at skill 1 = %v, want %v", w.Speed, base*1.15)
	}
	if w.Aggression != 0.85 {
		t.Fatalf("aggression at skill 1 = %v, want 0.85", w.Aggression)
	}
	if math.Abs(w.DecisionTimer-0.09) > 1e-9 {
		t.Fatalf("reaction at skill 1 = %v, want 0.09", w.DecisionTimer)
	}
}

func TestRescaleClampsOutOfRangeSkill(t *testing.T) {
	e := newTestEngine(t)
	id := e.Spawn(fixed.VecFromFloats(0.5, 0.5), TypeNormal)
	base := e.wolvesByID[id].baseSpeed

	e.RescaleForSkill(7.5)
	w, _ := e.Wolf(id)
	if math.Abs(w.Speed-base*1.15) > 1e-9 {
		t.Fatalf("speed at skill 7.5 = %v, want clamped to %v", w.Speed, base*1.15)
	}

	e.RescaleForSkill(-3)
	w, _ = e.Wolf(id)
	if math.Abs(w.Speed-base*0.85) > 1e-9 {
		t.Fatalf("speed at skill -3 = %v, want clamped to %v", w.Speed, base*0.85)
	}
}

func TestRescaleComposesFromBaseSpeed(t *testing.T) {
	e := newTestEngine(t)
	id := e.Spawn(fixed.VecFromFloats(0.5, 0.5), TypeNormal)
	base := e.wolvesByID[id].baseSpeed

	// Repeated rescales must not compound.
	for i := 0; i < 10; i++ {
		e.RescaleForSkill(1)
	}
	w, _ := e.Wolf(id)
	if math.Abs(w.Speed-base*1.15) > 1e-9 {
		t.Fatalf("speed after repeated rescale = %v, want %v", w.Speed, base*1.15)
	}
}

func TestReactionLatencyDelaysNextDecision(t *testing.T) {
	e := newTestEngine(t)
	e.SetTarget(&stubTarget{pos: fixed.VecFromFloats(0.55, 0.5)})
	id := e.Spawn(fixed.VecFromFloats(0.5, 0.5), TypeNormal)

	w := e.wolvesByID[id]
	w.StateTimer = 0
	w.DecisionTimer = 0.2

	e.Update(testDT)

	after, _ := e.Wolf(id)
	if after.State != StateIdle {
		t.Fatalf("state = %v during reaction latency, want held at Idle", after.State)
	}
	if after.StateTimer <= 0 {
		t.Fatalf("state timer = %v, want re-armed while reacting", after.StateTimer)
	}
}

func TestEstimateSkillDefaultsToMedium(t *testing.T) {
	e := newTestEngine(t)
	if got := e.EstimateSkill(); got != 0.5 {
		t.Fatalf("estimate with no data = %v, want 0.5", got)
	}
}

func TestEstimateSkillStaysInUnitRange(t *testing.T) {
	e := newTestEngine(t)
	e.totalAttacks = 10
	e.targetDodges = 30
	e.targetBlocks = 30
	e.averageKillTime = 0.1 // floors at 1s internally

	got := e.EstimateSkill()
	if got != 1.0 {
		t.Fatalf("estimate with saturated inputs = %v, want clamped 1.0", got)
	}

	e.targetDodges = 0
	e.targetBlocks = 0
	e.averageKillTime = 1000

	got = e.EstimateSkill()
	if got < 0 || got > 1 {
		t.Fatalf("estimate = %v, want within [0, 1]", got)
	}
}

func TestEstimateSkillWeighting(t *testing.T) {
	e := newTestEngine(t)
	e.totalAttacks = 10
	e.targetDodges = 5  // rate 0.5
	e.targetBlocks = 2  // rate 0.2
	e.averageKillTime = 10

	want := 0.5*0.4 + 0.2*0.3 + 0.1*0.3
	if got := e.EstimateSkill(); math.Abs(got-want) > 1e-9 {
		t.Fatalf("estimate = %v, want %v", got, want)
	}
}

func TestSkillCountersRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	e.Spawn(fixed.VecFromFloats(0.5, 0.5), TypeNormal)

	e.NotifyTargetDodged()
	e.NotifyTargetBlocked()
	e.NotifyTargetBlocked()
	e.SetAverageKillTime(12.5)

	attacks, dodges, blocks, killTime := e.SkillCounters()
	if attacks != 0 || dodges != 1 || blocks != 2 || killTime != 12.5 {
		t.Fatalf("counters = %d/%d/%d/%v, want 0/1/2/12.5", attacks, dodges, blocks, killTime)
	}
}
