package wolf

import (
	"context"

	"wolfden/server/internal/fixed"
	"wolfden/server/logging/behavior"
)

// ambushDamping bleeds off most of a lurking wolf's velocity each tick.
var ambushDamping = fixed.FromFloat(0.5)

// Pack groups wolves for coordinated hunting. Members stay in the order
// they were supplied; role assignment and plan choreography iterate that
// order, which is part of the determinism contract.
type Pack struct {
	ID        uint32
	Members   []uint32
	Plan      Plan
	Morale    float64
	PlanTimer float64
}

func (p *Pack) dropMember(id uint32) bool {
	if p == nil {
		return false
	}
	for i, member := range p.Members {
		if member == id {
			p.Members = append(p.Members[:i], p.Members[i+1:]...)
			return true
		}
	}
	return false
}

// CreatePack groups the given wolves and assigns roles. Unknown ids are
// skipped; an empty membership still creates a (inert) pack. A wolf already
// in a pack is moved to the new one.
func (e *Engine) CreatePack(memberIDs []uint32) uint32 {
	if e == nil {
		return 0
	}

	pack := &Pack{
		ID:      e.nextPackID,
		Plan:    PlanNone,
		Morale:  0.7,
		Members: make([]uint32, 0, len(memberIDs)),
	}
	e.nextPackID++

	for _, id := range memberIDs {
		w, ok := e.wolvesByID[id]
		if !ok {
			continue
		}
		if w.PackID != 0 {
			if previous, ok := e.packsByID[w.PackID]; ok {
				if previous.dropMember(id) {
					e.assignRoles(previous)
				}
			}
		}
		w.PackID = pack.ID
		pack.Members = append(pack.Members, id)
	}

	e.packs = append(e.packs, pack)
	e.packsByID[pack.ID] = pack
	e.assignRoles(pack)
	return pack.ID
}

// Pack returns a copy of the pack with the given id.
func (e *Engine) Pack(id uint32) (Pack, bool) {
	if e == nil {
		return Pack{}, false
	}
	p, ok := e.packsByID[id]
	if !ok {
		return Pack{}, false
	}
	return p.copy(), true
}

// Packs returns copies of all packs in creation order.
func (e *Engine) Packs() []Pack {
	if e == nil {
		return nil
	}
	out := make([]Pack, 0, len(e.packs))
	for _, p := range e.packs {
		out = append(out, p.copy())
	}
	return out
}

func (p *Pack) copy() Pack {
	cloned := *p
	cloned.Members = append([]uint32(nil), p.Members...)
	return cloned
}

// assignRoles recomputes every member's role. It runs on creation and
// whenever membership changes, so a non-empty pack always carries exactly
// one leader. The leader is the member with the strictly highest
// intelligence*morale product; strict comparison means the first-seen
// member wins ties.
func (e *Engine) assignRoles(pack *Pack) {
	if pack == nil {
		return
	}

	var leader *Wolf
	bestScore := 0.0
	for _, id := range pack.Members {
		w, ok := e.wolvesByID[id]
		if !ok {
			continue
		}
		score := w.Intelligence * w.Morale
		if score > bestScore {
			bestScore = score
			leader = w
		}
	}
	if leader == nil {
		// Every score was zero; the first live member leads.
		for _, id := range pack.Members {
			if w, ok := e.wolvesByID[id]; ok {
				leader = w
				break
			}
		}
	}
	if leader != nil {
		leader.Role = RoleLeader
	}

	cfg := e.cfg.Pack
	for _, id := range pack.Members {
		w, ok := e.wolvesByID[id]
		if !ok || w == leader {
			continue
		}
		switch {
		case w.Aggression > cfg.BruiserAggression:
			w.Role = RoleBruiser
		case w.Speed > cfg.SkirmisherSpeed:
			w.Role = RoleSkirmisher
		case w.Intelligence > cfg.SupportIntelligence:
			w.Role = RoleSupport
		default:
			w.Role = RoleScout
		}
	}
}

// packStep runs once per tick after every per-agent update.
func (e *Engine) packStep(dt float64) {
	for _, pack := range e.packs {
		e.updatePack(pack, dt)
	}
}

func (e *Engine) updatePack(pack *Pack, dt float64) {
	// Commit drive is re-established every tick while the plan is live.
	for _, id := range pack.Members {
		if w, ok := e.wolvesByID[id]; ok {
			w.commitDrive = false
			w.strafeBias = 0
		}
	}

	if len(pack.Members) == 0 {
		pack.Plan = PlanNone
		return
	}

	pack.Morale = e.packMorale(pack)
	pack.PlanTimer -= dt

	if pack.PlanTimer <= 0 {
		previous := pack.Plan
		pack.Plan, pack.PlanTimer = e.choosePlan(pack)
		if pack.Plan != previous {
			behavior.PlanChange(context.Background(), e.deps.Publisher, e.tick, pack.ID, previous.String(), pack.Plan.String())
			if e.deps.Metrics != nil {
				e.deps.Metrics.Add("packs.plan_changes", 1)
			}
		}
	}

	switch pack.Plan {
	case PlanAmbush:
		e.runAmbush(pack)
	case PlanPincer:
		e.runPincer(pack)
	case PlanCommit:
		e.runCommit(pack)
	}
}

func (e *Engine) packMorale(pack *Pack) float64 {
	sum := 0.0
	counted := 0
	for _, id := range pack.Members {
		if w, ok := e.wolvesByID[id]; ok {
			sum += w.Morale
			counted++
		}
	}
	if counted == 0 {
		return 0
	}
	return sum / float64(counted)
}

// choosePlan picks the next plan from the leader's point of view. The rules
// favor patience: commit only when the pack is riding high, ambush only
// while the target has not spotted the leader.
func (e *Engine) choosePlan(pack *Pack) (Plan, float64) {
	leader := e.packLeader(pack)
	if leader == nil {
		return PlanNone, 0
	}

	cfg := e.cfg.Pack
	dist, seen := e.distanceToTarget(leader)

	if pack.Morale > cfg.CommitMorale {
		return PlanCommit, cfg.CommitDuration
	}
	if seen && dist <= leader.DetectionRange && len(pack.Members) >= 2 {
		return PlanPincer, cfg.PincerDuration
	}
	if pack.Morale > cfg.AmbushMorale && (!seen || dist > leader.DetectionRange) {
		return PlanAmbush, cfg.AmbushDuration
	}
	return PlanNone, 0
}

func (e *Engine) packLeader(pack *Pack) *Wolf {
	for _, id := range pack.Members {
		if w, ok := e.wolvesByID[id]; ok && w.Role == RoleLeader {
			return w
		}
	}
	// Fall back to the first live member when roles are stale.
	for _, id := range pack.Members {
		if w, ok := e.wolvesByID[id]; ok {
			return w
		}
	}
	return nil
}

// runAmbush holds distant members in place so the pack closes as one when
// the target wanders in.
func (e *Engine) runAmbush(pack *Pack) {
	for _, id := range pack.Members {
		w, ok := e.wolvesByID[id]
		if !ok {
			continue
		}
		dist, seen := e.distanceToTarget(w)
		if !seen || dist > w.DetectionRange*1.2 {
			continue
		}
		if w.State == StateApproach || w.State == StateAlert {
			// Freeze in cover: bleed speed, keep eyes on the target.
			w.Vel = w.Vel.Scale(ambushDamping)
			e.faceTarget(w)
		}
	}
}

// runPincer splits strafing members around the target by membership parity.
func (e *Engine) runPincer(pack *Pack) {
	for index, id := range pack.Members {
		w, ok := e.wolvesByID[id]
		if !ok {
			continue
		}
		if index%2 == 0 {
			w.strafeBias = 1
		} else {
			w.strafeBias = -1
		}
	}
}

// runCommit drives every member forward at once.
func (e *Engine) runCommit(pack *Pack) {
	for _, id := range pack.Members {
		w, ok := e.wolvesByID[id]
		if !ok {
			continue
		}
		w.commitDrive = true
		switch w.State {
		case StateIdle, StatePatrol, StateAlert:
			// Force an immediate reevaluation so the charge starts on
			// the next tick instead of when the timer expires.
			w.StateTimer = 0
		}
	}
}
