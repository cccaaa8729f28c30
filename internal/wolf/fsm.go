package wolf

import (
	"context"
	"math"

	"wolfden/server/internal/fixed"
	"wolfden/server/logging/behavior"
)

// aiStep drives the state machine for one tick and then burns down the
// cooldown timers.
func (e *Engine) aiStep(w *Wolf, eff effectiveParams, dt float64) {
	w.StateTimer -= dt

	if w.StateTimer <= 0 && w.DecisionTimer > 0 {
		// Reaction latency from the difficulty layer: hold the current
		// behavior until it elapses, then decide.
		w.StateTimer = w.DecisionTimer
	} else if w.StateTimer <= 0 {
		next := e.evaluateState(w, eff)
		if next != w.State {
			prev := w.State
			w.State = next
			w.StateTimer = e.stateDuration(next)
			e.enterState(w, next)
			behavior.StateChange(context.Background(), e.deps.Publisher, e.tick, w.ID, prev.String(), next.String())
		} else {
			// Reset the timer even without a transition so the agent
			// never wedges at zero.
			w.StateTimer = e.stateDuration(next)
		}
	}

	switch w.State {
	case StateIdle:
		e.idleBehavior(w, dt)
	case StatePatrol:
		e.patrolBehavior(w)
	case StateAlert:
		e.alertBehavior(w)
	case StateApproach:
		e.approachBehavior(w)
	case StateStrafe:
		e.strafeBehavior(w)
	case StateAttack:
		e.attackBehavior(w, eff)
	case StateRetreat:
		e.retreatBehavior(w)
	case StateRecover:
		e.recoverBehavior(w)
	}

	if w.AttackCooldown > 0 {
		w.AttackCooldown -= dt
	}
	if w.DodgeCooldown > 0 {
		w.DodgeCooldown -= dt
	}
	if w.DecisionTimer > 0 {
		w.DecisionTimer -= dt
	}
}

// evaluateState is the priority-ordered decision ladder. Earlier rules win.
func (e *Engine) evaluateState(w *Wolf, eff effectiveParams) State {
	dist, _ := e.distanceToTarget(w)
	decision := e.cfg.Decision

	if dist > eff.detectionRange {
		// No target in range: alternate the wander loop. Any combat state
		// drops back to Idle first.
		switch w.State {
		case StateIdle:
			return StatePatrol
		case StatePatrol:
			return StateIdle
		default:
			return StateIdle
		}
	}

	if w.Health < w.MaxHealth*decision.RetreatHealthRatio && w.Morale < decision.RetreatMorale {
		return StateRetreat
	}

	if dist < eff.attackRange {
		if w.AttackCooldown <= 0 && w.Stamina > decision.AttackStamina {
			return StateAttack
		}
		return StateStrafe
	}

	if dist < eff.detectionRange*decision.ApproachRangeRatio {
		return StateApproach
	}

	return StateAlert
}

func (e *Engine) stateDuration(s State) float64 {
	states := e.cfg.States
	switch s {
	case StateIdle:
		return states.Idle
	case StatePatrol:
		return states.Patrol
	case StateAlert:
		return states.Alert
	case StateApproach:
		return states.Approach
	case StateStrafe:
		return states.Strafe
	case StateAttack:
		return states.AttackDuration()
	case StateRetreat:
		return states.Retreat
	case StateRecover:
		return states.Recover
	default:
		return 1.0
	}
}

func (e *Engine) enterState(w *Wolf, s State) {
	switch s {
	case StateAttack:
		w.BodyStretch = 0.8
		w.attackEmitted = false
	case StateRetreat:
		w.Morale = clamp01(w.Morale - 0.1)
	default:
		w.BodyStretch = 1.0
	}
}

func (e *Engine) idleBehavior(w *Wolf, dt float64) {
	friction := fixed.FromFloat(1.0 / (1.0 + e.cfg.Physics.Friction*dt))
	w.Vel = w.Vel.Scale(friction)
	w.HeadYaw = math.Sin(w.StateTimer*2.0) * 0.2
}

func (e *Engine) patrolBehavior(w *Wolf) {
	// Loops on the state timer for a lazy circle. Cosmetic wandering, so
	// float trig feeding the fixed layer is acceptable here.
	t := w.StateTimer
	dir := fixed.VecFromFloats(math.Cos(t), math.Sin(t))
	w.Facing = dir
	w.Vel = dir.Scale(fixed.FromFloat(w.Speed * 0.3))
}

func (e *Engine) alertBehavior(w *Wolf) {
	e.faceTarget(w)
	w.EarRotation[0] = 0.3
	w.EarRotation[1] = 0.3
}

func (e *Engine) approachBehavior(w *Wolf) {
	e.moveTowardTarget(w, w.Speed)
}

func (e *Engine) strafeBehavior(w *Wolf) {
	pos, ok := e.targetPosition()
	if !ok {
		return
	}
	delta := pos.Sub(w.Pos)

	// Direction flips with id parity for visual variety; an active Pincer
	// plan overrides it so the pack splits around the target.
	clockwise := w.ID%2 == 0
	if w.strafeBias > 0 {
		clockwise = true
	} else if w.strafeBias < 0 {
		clockwise = false
	}

	perp := delta.Perp()
	if clockwise {
		perp = perp.Neg()
	}
	lateral := perp.Normalized()
	if lateral.IsZero() {
		return
	}
	w.Vel = lateral.Scale(fixed.FromFloat(w.Speed * 0.7))

	if facing := delta.Normalized(); !facing.IsZero() {
		w.Facing = facing
	}
}

func (e *Engine) attackBehavior(w *Wolf, eff effectiveParams) {
	states := e.cfg.States
	remaining := w.StateTimer

	switch {
	case remaining > states.AttackExecute+states.AttackRecovery:
		// Anticipation: crouch and track the target.
		w.BodyStretch = 0.8
		e.faceTarget(w)
	case remaining > states.AttackRecovery:
		// Execute: lunge. One attempt per attack window.
		w.BodyStretch = 1.3
		if !w.attackEmitted {
			dist, _ := e.distanceToTarget(w)
			if dist < eff.attackRange {
				w.attackEmitted = true
				e.totalAttacks++
				if e.combat != nil {
					e.combat.AttackAttempt(w.ID, eff.damage)
				} else {
					// Without a resolver the lunge counts as landed.
					w.SuccessfulAttacks++
				}
				if e.deps.Metrics != nil {
					e.deps.Metrics.Add("wolves.attack_attempts", 1)
				}
				behavior.AttackAttempt(context.Background(), e.deps.Publisher, e.tick, w.ID, eff.damage, dist)
			}
		}
	default:
		// Recovery: cooldown scales inversely with aggression.
		w.BodyStretch = 1.0
		w.AttackCooldown = 1.5 / (1.0 + eff.aggression) * eff.cooldownScale
	}
}

func (e *Engine) retreatBehavior(w *Wolf) {
	pos, ok := e.targetPosition()
	if !ok {
		return
	}
	away := w.Pos.Sub(pos).Normalized()
	if away.IsZero() {
		return
	}
	w.Facing = away
	w.Vel = away.Scale(fixed.FromFloat(w.Speed))
}

func (e *Engine) recoverBehavior(w *Wolf) {
	// Stunned. Heavy damping, no actions.
	w.Vel = w.Vel.Scale(fixed.FromFloat(0.7))
	w.BodyStretch = 0.9
}

func (e *Engine) faceTarget(w *Wolf) {
	pos, ok := e.targetPosition()
	if !ok {
		return
	}
	if facing := pos.Sub(w.Pos).Normalized(); !facing.IsZero() {
		w.Facing = facing
	}
}

func (e *Engine) moveTowardTarget(w *Wolf, speed float64) {
	pos, ok := e.targetPosition()
	if !ok {
		return
	}
	dir := pos.Sub(w.Pos).Normalized()
	if dir.IsZero() {
		return
	}
	w.Facing = dir
	w.Vel = dir.Scale(fixed.FromFloat(speed))
}

// physicsStep integrates locally unless a delegate owns it, then regenerates
// stamina either way.
func (e *Engine) physicsStep(w *Wolf, dt float64) {
	if e.physics != nil {
		e.physics.Step(w, dt)
	} else {
		fdt := fixed.FromFloat(dt)
		w.Pos = w.Pos.Add(w.Vel.Scale(fdt))

		friction := fixed.FromFloat(1.0 / (1.0 + e.cfg.Physics.Friction*dt))
		w.Vel = w.Vel.Scale(friction)

		zero := fixed.Zero()
		one := fixed.FromInt(1)
		w.Pos.X = fixed.Clamp(w.Pos.X, zero, one)
		w.Pos.Y = fixed.Clamp(w.Pos.Y, zero, one)
	}

	w.Stamina = clamp01(w.Stamina + e.cfg.Physics.StaminaRegen*dt)
}

// animationStep eases the cosmetic rig values. Nothing here feeds back into
// decisions.
func (e *Engine) animationStep(w *Wolf, dt float64) {
	states := e.cfg.States
	targetStretch := 1.0
	if w.State == StateAttack {
		if w.StateTimer > states.AttackExecute+states.AttackRecovery {
			targetStretch = 0.8
		} else if w.StateTimer > states.AttackRecovery {
			targetStretch = 1.3
		}
	}
	w.BodyStretch += (targetStretch - w.BodyStretch) * dt * 10.0

	switch w.Emotion {
	case EmotionConfident:
		w.TailWag = math.Sin(w.StateTimer*6.0) * 0.5
	case EmotionFearful:
		w.TailWag = -0.8
	default:
		w.TailWag = 0
	}
}

func hypot(x, y float64) float64 {
	return math.Hypot(x, y)
}
