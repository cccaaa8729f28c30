package main

import (
	"testing"

	"wolfden/server/internal/tuning"
	"wolfden/server/internal/wolf"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	engine := wolf.New(wolf.Config{Tuning: tuning.Default(), Seed: 7}, wolf.Deps{})
	return newHub(engine, &targetState{})
}

func TestCommandsApplyAtNextTick(t *testing.T) {
	hub := newTestHub(t)

	hub.enqueue(command{Type: "spawn", X: 0.3, Y: 0.3, WolfType: "Alpha"})
	hub.enqueue(command{Type: "spawn", X: 0.7, Y: 0.7, WolfType: "Scout"})

	if count := hub.engine.Count(); count != 0 {
		t.Fatalf("count = %d before the tick, want 0", count)
	}

	snapshot := hub.advance(1.0 / tickRate)

	if len(snapshot.Wolves) != 2 {
		t.Fatalf("snapshot has %d wolves, want 2", len(snapshot.Wolves))
	}
	if snapshot.Wolves[0].Type != "Alpha" || snapshot.Wolves[1].Type != "Scout" {
		t.Fatalf("types = %s, %s, want Alpha, Scout", snapshot.Wolves[0].Type, snapshot.Wolves[1].Type)
	}
	if snapshot.Tick != 1 {
		t.Fatalf("tick = %d after one advance, want 1", snapshot.Tick)
	}
}

func TestCommandQueueDrainsAfterApply(t *testing.T) {
	hub := newTestHub(t)

	hub.enqueue(command{Type: "spawn", X: 0.5, Y: 0.5})
	hub.advance(1.0 / tickRate)
	hub.advance(1.0 / tickRate)

	if count := hub.engine.Count(); count != 1 {
		t.Fatalf("count = %d, want 1 (command replayed?)", count)
	}
}

func TestTargetCommandUpdatesPose(t *testing.T) {
	hub := newTestHub(t)

	hub.enqueue(command{Type: "target", X: 0.25, Y: 0.75, VX: 0.1, VY: -0.1})
	hub.advance(1.0 / tickRate)

	x, y := hub.target.TargetPosition().FloatPair()
	if x < 0.24 || x > 0.26 || y < 0.74 || y > 0.76 {
		t.Fatalf("target pose = (%v, %v), want ~(0.25, 0.75)", x, y)
	}
	vx, vy := hub.target.TargetVelocity().FloatPair()
	if vx <= 0 || vy >= 0 {
		t.Fatalf("target velocity = (%v, %v), want (+, -)", vx, vy)
	}
}

func TestDamageCommandRoutesToEngine(t *testing.T) {
	hub := newTestHub(t)

	hub.enqueue(command{Type: "spawn", X: 0.5, Y: 0.5})
	hub.advance(1.0 / tickRate)
	hub.enqueue(command{Type: "damage", ID: 1, Amount: 40})
	hub.advance(1.0 / tickRate)

	w, ok := hub.engine.Wolf(1)
	if !ok {
		t.Fatal("wolf missing")
	}
	if w.Health != 60 {
		t.Fatalf("health = %v after 40 damage, want 60", w.Health)
	}
}

func TestUnknownCommandIsIgnored(t *testing.T) {
	hub := newTestHub(t)

	hub.enqueue(command{Type: "teleport"})
	hub.advance(1.0 / tickRate) // must not panic

	if count := hub.engine.Count(); count != 0 {
		t.Fatalf("count = %d, want 0", count)
	}
}

func TestParseWolfTypeDefaultsToNormal(t *testing.T) {
	if got := parseWolfType("Basilisk"); got != wolf.TypeNormal {
		t.Fatalf("parsed %v, want Normal fallback", got)
	}
	if got := parseWolfType("Hunter"); got != wolf.TypeHunter {
		t.Fatalf("parsed %v, want Hunter", got)
	}
}

func TestRecorderSeesEveryTick(t *testing.T) {
	hub := newTestHub(t)

	var ticks []uint64
	hub.setRecorder(func(snapshot wolf.Snapshot) {
		ticks = append(ticks, snapshot.Tick)
	})

	for i := 0; i < 3; i++ {
		hub.advance(1.0 / tickRate)
	}

	if len(ticks) != 3 || ticks[0] != 1 || ticks[2] != 3 {
		t.Fatalf("recorded ticks = %v, want [1 2 3]", ticks)
	}
}
