package wolf

// effectiveParams carries this tick's emotion-modulated working values. They
// are derived fresh each tick and never written back to the agent, so the
// modulation cannot compound.
type effectiveParams struct {
	detectionRange float64
	attackRange    float64
	damage         float64
	aggression     float64
	cooldownScale  float64
}

// emotionStep relabels the agent's emotion from current vitals and returns
// the modulated parameters the state machine reads this tick.
//
// The ladder is first-match-wins. Fearful (<0.3 health) is deliberately
// checked before the stricter Desperate (<0.2) rule, so Desperate can only
// be reached through a future rule change; the ordering itself is the
// tuned, shipped behavior and tests pin it.
func (e *Engine) emotionStep(w *Wolf) effectiveParams {
	healthRatio := 0.0
	if w.MaxHealth > 0 {
		healthRatio = w.Health / w.MaxHealth
	}

	successRate := 0.5
	attempts := w.SuccessfulAttacks + w.FailedAttacks
	if attempts > 0 {
		successRate = float64(w.SuccessfulAttacks) / float64(attempts)
	}

	dist, _ := e.distanceToTarget(w)

	switch {
	case healthRatio < 0.3:
		w.Emotion = EmotionFearful
	case successRate > 0.7 && w.Morale > 0.7:
		w.Emotion = EmotionConfident
	case w.FailedAttacks > 5 && successRate < 0.3:
		w.Emotion = EmotionFrustrated
	case healthRatio < 0.2:
		w.Emotion = EmotionDesperate
	case w.Aggression > 0.6 && dist < w.AttackRange*1.5:
		w.Emotion = EmotionAggressive
	default:
		w.Emotion = EmotionCalm
	}

	eff := effectiveParams{
		detectionRange: w.DetectionRange,
		attackRange:    w.AttackRange,
		damage:         w.Damage,
		aggression:     w.Aggression,
		cooldownScale:  1.0,
	}

	switch w.Emotion {
	case EmotionConfident:
		eff.cooldownScale = 0.8
	case EmotionFearful:
		eff.detectionRange *= 1.3
		eff.attackRange *= 0.7
	case EmotionFrustrated:
		eff.aggression = clamp01(eff.aggression + 0.2)
	case EmotionDesperate:
		eff.damage *= 1.3
	}

	// An active Commit plan drives the whole pack forward regardless of
	// individual temperament.
	if w.commitDrive {
		eff.aggression = clampRange(eff.aggression, 0.7, 1.0)
	}

	return eff
}
