package wolf

import (
	"context"

	"wolfden/server/logging/behavior"
)

// RescaleForSkill maps a player-skill scalar in [0,1] onto every wolf's
// speed, aggression, and reaction latency. This is a blunt global knob, not
// per-agent learning; the caller decides how often to pull it.
func (e *Engine) RescaleForSkill(skill float64) {
	if e == nil {
		return
	}
	skill = clamp01(skill)
	diff := e.cfg.Difficulty

	for _, w := range e.wolves {
		w.Speed = w.baseSpeed * (diff.SpeedMin + skill*(diff.SpeedMax-diff.SpeedMin))
		w.Aggression = diff.AggressionMin + skill*(diff.AggressionMax-diff.AggressionMin)

		reaction := diff.ReactionMax - skill*(diff.ReactionMax-diff.ReactionMin)
		if reaction < diff.ReactionMin {
			reaction = diff.ReactionMin
		}
		w.DecisionTimer = reaction
	}

	behavior.Rescale(context.Background(), e.deps.Publisher, e.tick, skill, len(e.wolves))
	if e.deps.Metrics != nil {
		e.deps.Metrics.Add("difficulty.rescales", 1)
	}
}

// EstimateSkill combines the host-fed combat counters into a skill scalar.
// With no data it reports the medium default so a fresh session starts at
// baseline difficulty.
func (e *Engine) EstimateSkill() float64 {
	if e == nil || e.totalAttacks == 0 {
		return 0.5
	}

	attacks := float64(e.totalAttacks)
	dodgeRate := float64(e.targetDodges) / attacks
	blockRate := float64(e.targetBlocks) / attacks

	killTime := e.averageKillTime
	if killTime < 1.0 {
		killTime = 1.0
	}
	killSpeed := 1.0 / killTime

	return clamp01(dodgeRate*0.4 + blockRate*0.3 + killSpeed*0.3)
}

// SkillCounters reports the raw estimator inputs for telemetry consumers.
func (e *Engine) SkillCounters() (attacks, dodges, blocks uint64, averageKillTime float64) {
	if e == nil {
		return 0, 0, 0, 0
	}
	return e.totalAttacks, e.targetDodges, e.targetBlocks, e.averageKillTime
}
