package wolf

import (
	"wolfden/server/internal/fixed"
	"wolfden/server/internal/tuning"
)

// Type tags a wolf at spawn time. It only affects base stat multipliers.
type Type uint8

const (
	TypeNormal Type = iota
	TypeAlpha
	TypeScout
	TypeHunter
)

func (t Type) String() string {
	switch t {
	case TypeNormal:
		return "Normal"
	case TypeAlpha:
		return "Alpha"
	case TypeScout:
		return "Scout"
	case TypeHunter:
		return "Hunter"
	default:
		return "Unknown"
	}
}

// State enumerates the behavior FSM states.
type State uint8

const (
	StateIdle State = iota
	StatePatrol
	StateAlert
	StateApproach
	StateStrafe
	StateAttack
	StateRetreat
	StateRecover
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StatePatrol:
		return "Patrol"
	case StateAlert:
		return "Alert"
	case StateApproach:
		return "Approach"
	case StateStrafe:
		return "Strafe"
	case StateAttack:
		return "Attack"
	case StateRetreat:
		return "Retreat"
	case StateRecover:
		return "Recover"
	default:
		return "Unknown"
	}
}

// Emotion is a per-tick label derived from vitals; it is never persisted.
type Emotion uint8

const (
	EmotionCalm Emotion = iota
	EmotionConfident
	EmotionFearful
	EmotionFrustrated
	EmotionDesperate
	EmotionAggressive
)

func (e Emotion) String() string {
	switch e {
	case EmotionCalm:
		return "Calm"
	case EmotionConfident:
		return "Confident"
	case EmotionFearful:
		return "Fearful"
	case EmotionFrustrated:
		return "Frustrated"
	case EmotionDesperate:
		return "Desperate"
	case EmotionAggressive:
		return "Aggressive"
	default:
		return "Unknown"
	}
}

// Role is the coordination role assigned within a pack.
type Role uint8

const (
	RoleNone Role = iota
	RoleLeader
	RoleBruiser
	RoleSkirmisher
	RoleSupport
	RoleScout
)

func (r Role) String() string {
	switch r {
	case RoleNone:
		return "None"
	case RoleLeader:
		return "Leader"
	case RoleBruiser:
		return "Bruiser"
	case RoleSkirmisher:
		return "Skirmisher"
	case RoleSupport:
		return "Support"
	case RoleScout:
		return "Scout"
	default:
		return "Unknown"
	}
}

// Plan enumerates pack hunting plans.
type Plan uint8

const (
	PlanNone Plan = iota
	PlanAmbush
	PlanPincer
	PlanCommit
)

func (p Plan) String() string {
	switch p {
	case PlanNone:
		return "None"
	case PlanAmbush:
		return "Ambush"
	case PlanPincer:
		return "Pincer"
	case PlanCommit:
		return "Commit"
	default:
		return "Unknown"
	}
}

// Wolf holds the full per-agent state. Spatial fields are fixed-point so
// integration stays bit-identical across replicas; behavioral fields are
// plain float64.
type Wolf struct {
	ID   uint32
	Type Type

	Pos    fixed.Vec2
	Vel    fixed.Vec2
	Facing fixed.Vec2

	Health         float64
	MaxHealth      float64
	Stamina        float64
	Damage         float64
	Speed          float64
	DetectionRange float64
	AttackRange    float64

	Aggression   float64
	Intelligence float64
	Coordination float64
	Morale       float64

	State          State
	StateTimer     float64
	AttackCooldown float64
	DodgeCooldown  float64
	DecisionTimer  float64

	Emotion Emotion

	TargetSpeedEstimate float64
	SinceTargetBlock    float64
	SinceTargetDodge    float64
	SuccessfulAttacks   uint32
	FailedAttacks       uint32

	PackID uint32
	Role   Role

	BodyStretch float64
	HeadYaw     float64
	TailWag     float64
	EarRotation [2]float64

	baseSpeed     float64
	attackEmitted bool
	strafeBias    int8
	commitDrive   bool
}

// BaseSpeed returns the pre-difficulty movement rate assigned at spawn.
func (w *Wolf) BaseSpeed() float64 {
	if w == nil {
		return 0
	}
	return w.baseSpeed
}

// attrSequence is the LCG that derives attributes from a wolf id. Two
// engines constructed with the same seed assign identical attributes.
type attrSequence struct {
	state uint32
}

func newAttrSequence(id, seed uint32) attrSequence {
	return attrSequence{state: id*12345 ^ seed}
}

func (s *attrSequence) next() float64 {
	s.state = s.state*1664525 + 1013904223
	return float64(s.state%1000) / 1000.0
}

// newWolf builds an agent at the given position with attributes derived from
// its id and the engine seed, then applies type multipliers.
func newWolf(id uint32, pos fixed.Vec2, typ Type, stats tuning.Stats, seed uint32) *Wolf {
	w := &Wolf{
		ID:     id,
		Type:   typ,
		Pos:    pos,
		Facing: fixed.Vec(fixed.FromInt(1), fixed.Zero()),

		MaxHealth:      stats.MaxHealth,
		Health:         stats.MaxHealth,
		Stamina:        1.0,
		Damage:         stats.Damage,
		Speed:          stats.Speed,
		DetectionRange: stats.DetectionRange,
		AttackRange:    stats.AttackRange,

		State:       StateIdle,
		Emotion:     EmotionCalm,
		BodyStretch: 1.0,

		SinceTargetBlock: 999.0,
		SinceTargetDodge: 999.0,
	}

	seq := newAttrSequence(id, seed)
	w.Aggression = 0.3 + seq.next()*0.4
	w.Intelligence = 0.4 + seq.next()*0.4
	w.Coordination = 0.5 + seq.next()*0.3
	w.Morale = 0.6 + seq.next()*0.2

	switch typ {
	case TypeAlpha:
		w.MaxHealth *= 1.5
		w.Health = w.MaxHealth
		w.Damage *= 1.3
		w.Aggression = clamp01(w.Aggression + 0.2)
	case TypeScout:
		w.Speed *= 1.2
		w.DetectionRange *= 1.3
		w.Intelligence = clamp01(w.Intelligence + 0.1)
	case TypeHunter:
		w.Damage *= 1.2
		w.Coordination = clamp01(w.Coordination + 0.15)
	}

	w.baseSpeed = w.Speed
	return w
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
