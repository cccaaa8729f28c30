package wolf

import (
	"context"

	"wolfden/server/internal/fixed"
	"wolfden/server/internal/telemetry"
	"wolfden/server/internal/tuning"
	"wolfden/server/logging"
)

// TargetSource supplies the hunted target's pose each tick. The engine only
// ever reads from it.
type TargetSource interface {
	TargetPosition() fixed.Vec2
	TargetVelocity() fixed.Vec2
}

// CombatSink receives attack attempts emitted during the Attack state's
// execute phase. The external combat pipeline resolves hit or miss and feeds
// the result back through NotifyAttackHit / NotifyAttackMissed.
type CombatSink interface {
	AttackAttempt(wolfID uint32, damage float64)
}

// PhysicsDelegate integrates velocity into position when the host owns
// collision resolution. When nil the engine integrates locally.
type PhysicsDelegate interface {
	Step(w *Wolf, dt float64)
}

// Deps bundles the injected observability dependencies.
type Deps struct {
	Publisher logging.Publisher
	Logger    telemetry.Logger
	Metrics   telemetry.Metrics
}

// Config parametrizes an engine instance.
type Config struct {
	Tuning tuning.Document
	// Seed perturbs the attribute derivation. Engines that must stay in
	// lockstep share the same seed.
	Seed uint32
}

// Engine owns every wolf and pack. It has no global state; independent
// instances never interfere, which keeps replay and test harnesses honest.
type Engine struct {
	cfg  tuning.Document
	seed uint32
	deps Deps

	wolves     []*Wolf
	wolvesByID map[uint32]*Wolf
	packs      []*Pack
	packsByID  map[uint32]*Pack
	nextWolfID uint32
	nextPackID uint32
	tick       uint64

	target  TargetSource
	combat  CombatSink
	physics PhysicsDelegate

	totalAttacks    uint64
	targetDodges    uint64
	targetBlocks    uint64
	averageKillTime float64
}

// New constructs an empty engine. Zero-value config fields fall back to the
// shipped tuning document.
func New(cfg Config, deps Deps) *Engine {
	if deps.Publisher == nil {
		deps.Publisher = logging.NopPublisher()
	}
	return &Engine{
		cfg:             cfg.Tuning.Normalized(),
		seed:            cfg.Seed,
		deps:            deps,
		wolvesByID:      make(map[uint32]*Wolf),
		packsByID:       make(map[uint32]*Pack),
		nextWolfID:      1,
		nextPackID:      1,
		averageKillTime: 30.0,
	}
}

// SetTarget attaches the host's target pose source.
func (e *Engine) SetTarget(src TargetSource) {
	if e == nil {
		return
	}
	e.target = src
}

// SetCombatSink attaches the external combat pipeline.
func (e *Engine) SetCombatSink(sink CombatSink) {
	if e == nil {
		return
	}
	e.combat = sink
}

// SetPhysicsDelegate hands position integration to the host.
func (e *Engine) SetPhysicsDelegate(delegate PhysicsDelegate) {
	if e == nil {
		return
	}
	e.physics = delegate
}

// Tick returns the number of completed updates.
func (e *Engine) Tick() uint64 {
	if e == nil {
		return 0
	}
	return e.tick
}

// Spawn creates a wolf at the given position and returns its id.
func (e *Engine) Spawn(pos fixed.Vec2, typ Type) uint32 {
	if e == nil {
		return 0
	}
	w := newWolf(e.nextWolfID, pos, typ, e.cfg.Stats, e.seed)
	w.StateTimer = e.stateDuration(StateIdle)
	e.nextWolfID++
	e.wolves = append(e.wolves, w)
	e.wolvesByID[w.ID] = w
	if e.deps.Metrics != nil {
		e.deps.Metrics.Add("wolves.spawned", 1)
		e.deps.Metrics.Store("wolves.alive", uint64(len(e.wolves)))
	}
	return w.ID
}

// Remove erases a wolf. Unknown ids are a no-op.
func (e *Engine) Remove(id uint32) bool {
	if e == nil {
		return false
	}
	w, ok := e.wolvesByID[id]
	if !ok {
		return false
	}
	delete(e.wolvesByID, id)
	for i, candidate := range e.wolves {
		if candidate == w {
			e.wolves = append(e.wolves[:i], e.wolves[i+1:]...)
			break
		}
	}
	for _, pack := range e.packs {
		if pack.dropMember(id) {
			e.assignRoles(pack)
		}
	}
	if e.deps.Metrics != nil {
		e.deps.Metrics.Store("wolves.alive", uint64(len(e.wolves)))
	}
	return true
}

// Damage applies a health reduction, a knockback nudge, and a morale
// penalty, and interrupts an in-progress Attack into Recover. Stale ids do
// nothing.
func (e *Engine) Damage(id uint32, amount float64, knockback fixed.Vec2) {
	if e == nil {
		return
	}
	w, ok := e.wolvesByID[id]
	if !ok {
		if e.deps.Logger != nil {
			e.deps.Logger.Printf("damage for unknown wolf %d dropped", id)
		}
		return
	}

	w.Health = clampRange(w.Health-amount, 0, w.MaxHealth)
	w.Vel = w.Vel.Add(knockback.Scale(fixed.FromFloat(0.3)))
	w.Morale = clamp01(w.Morale - 0.05)

	if w.State == StateAttack {
		w.State = StateRecover
		w.StateTimer = 0.5
	}
}

// ClearAll erases every wolf and pack and restarts id assignment.
func (e *Engine) ClearAll() {
	if e == nil {
		return
	}
	e.wolves = nil
	e.wolvesByID = make(map[uint32]*Wolf)
	e.packs = nil
	e.packsByID = make(map[uint32]*Pack)
	e.nextWolfID = 1
	e.nextPackID = 1
}

// Count returns the number of live wolves.
func (e *Engine) Count() int {
	if e == nil {
		return 0
	}
	return len(e.wolves)
}

// Wolf returns a copy of the wolf with the given id.
func (e *Engine) Wolf(id uint32) (Wolf, bool) {
	if e == nil {
		return Wolf{}, false
	}
	w, ok := e.wolvesByID[id]
	if !ok {
		return Wolf{}, false
	}
	return *w, true
}

// WolfAt returns a copy of the wolf at the given creation-order index.
func (e *Engine) WolfAt(index int) (Wolf, bool) {
	if e == nil || index < 0 || index >= len(e.wolves) {
		return Wolf{}, false
	}
	return *e.wolves[index], true
}

// Wolves returns copies of all wolves in creation order.
func (e *Engine) Wolves() []Wolf {
	if e == nil {
		return nil
	}
	out := make([]Wolf, 0, len(e.wolves))
	for _, w := range e.wolves {
		out = append(out, *w)
	}
	return out
}

// Update advances every wolf, then every pack, by one tick. Negative deltas
// are clamped to zero so time never runs backward.
func (e *Engine) Update(dt float64) {
	if e == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}
	e.tick++

	for _, w := range e.wolves {
		eff := e.emotionStep(w)
		e.aiStep(w, eff, dt)
		e.physicsStep(w, dt)
		e.animationStep(w, dt)
		e.memoryStep(w, dt)
	}

	e.packStep(dt)
}

// NotifyTargetBlocked records that the target blocked an attack. Every wolf
// hears about it; the recency window makes them cautious.
func (e *Engine) NotifyTargetBlocked() {
	if e == nil {
		return
	}
	e.targetBlocks++
	for _, w := range e.wolves {
		w.SinceTargetBlock = 0
	}
}

// NotifyTargetDodged records that the target dodged an attack.
func (e *Engine) NotifyTargetDodged() {
	if e == nil {
		return
	}
	e.targetDodges++
	for _, w := range e.wolves {
		w.SinceTargetDodge = 0
	}
}

// NotifyAttackHit credits a resolved hit back to the attacking wolf.
func (e *Engine) NotifyAttackHit(id uint32) {
	if e == nil {
		return
	}
	if w, ok := e.wolvesByID[id]; ok {
		w.SuccessfulAttacks++
	}
}

// NotifyAttackMissed charges a resolved miss to the attacking wolf.
func (e *Engine) NotifyAttackMissed(id uint32) {
	if e == nil {
		return
	}
	if w, ok := e.wolvesByID[id]; ok {
		w.FailedAttacks++
	}
}

// SetAverageKillTime feeds the host's rolling average kill duration into the
// skill estimator.
func (e *Engine) SetAverageKillTime(seconds float64) {
	if e == nil || seconds <= 0 {
		return
	}
	e.averageKillTime = seconds
}

func (e *Engine) publish(event logging.Event) {
	if e == nil || e.deps.Publisher == nil {
		return
	}
	e.deps.Publisher.Publish(context.Background(), event)
}

// targetPosition returns the target pose, or false when no source is
// attached.
func (e *Engine) targetPosition() (fixed.Vec2, bool) {
	if e == nil || e.target == nil {
		return fixed.Vec2{}, false
	}
	return e.target.TargetPosition(), true
}

// distanceToTarget measures in float space; the fixed-point positions are
// authoritative but range checks are behavioral math.
func (e *Engine) distanceToTarget(w *Wolf) (float64, bool) {
	pos, ok := e.targetPosition()
	if !ok {
		return 999.0, false
	}
	dx, dy := pos.Sub(w.Pos).FloatPair()
	return hypot(dx, dy), true
}
