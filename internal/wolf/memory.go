package wolf

// memoryStep blends the target's observed speed into the agent's estimate
// and ages the defensive-action recency counters. The effects are small and
// slow on purpose: wolves adapt, they do not snap.
func (e *Engine) memoryStep(w *Wolf, dt float64) {
	mem := e.cfg.Memory

	if e.target != nil {
		vx, vy := e.target.TargetVelocity().FloatPair()
		sample := hypot(vx, vy)
		alpha := mem.SpeedAlpha
		w.TargetSpeedEstimate = w.TargetSpeedEstimate*(1.0-alpha) + sample*alpha
	}

	w.SinceTargetBlock += dt
	w.SinceTargetDodge += dt

	// A fresh block makes the wolf hold back before lunging again.
	if w.SinceTargetBlock < mem.BlockCautionWindow && w.AttackCooldown < mem.CooldownFloor {
		w.AttackCooldown = mem.CooldownFloor
	}

	// A consistently fast target slowly sharpens anticipation.
	if w.TargetSpeedEstimate > mem.FastTargetSpeed {
		w.Intelligence = clampRange(w.Intelligence+0.01*dt, 0, mem.IntelligenceCap)
	}
}
