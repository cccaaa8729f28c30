package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Document carries every designer-tunable behavior parameter. Values are
// plain numbers so the file stays hand-editable; Normalized fills gaps and
// clamps out-of-range entries instead of failing.
type Document struct {
	States     States     `yaml:"states" json:"states"`
	Stats      Stats      `yaml:"stats" json:"stats"`
	Decision   Decision   `yaml:"decision" json:"decision"`
	Memory     Memory     `yaml:"memory" json:"memory"`
	Pack       Pack       `yaml:"pack" json:"pack"`
	Difficulty Difficulty `yaml:"difficulty" json:"difficulty"`
	Physics    Physics    `yaml:"physics" json:"physics"`
}

// States holds the fixed per-state durations in seconds.
type States struct {
	Idle               float64 `yaml:"idle" json:"idle"`
	Patrol             float64 `yaml:"patrol" json:"patrol"`
	Alert              float64 `yaml:"alert" json:"alert"`
	Approach           float64 `yaml:"approach" json:"approach"`
	Strafe             float64 `yaml:"strafe" json:"strafe"`
	AttackAnticipation float64 `yaml:"attack_anticipation" json:"attack_anticipation"`
	AttackExecute      float64 `yaml:"attack_execute" json:"attack_execute"`
	AttackRecovery     float64 `yaml:"attack_recovery" json:"attack_recovery"`
	Retreat            float64 `yaml:"retreat" json:"retreat"`
	Recover            float64 `yaml:"recover" json:"recover"`
}

// Stats holds the base stat block shared by all wolves before type
// multipliers apply.
type Stats struct {
	MaxHealth      float64 `yaml:"max_health" json:"max_health"`
	Damage         float64 `yaml:"damage" json:"damage"`
	Speed          float64 `yaml:"speed" json:"speed"`
	DetectionRange float64 `yaml:"detection_range" json:"detection_range"`
	AttackRange    float64 `yaml:"attack_range" json:"attack_range"`
}

// Decision holds the state-evaluation thresholds.
type Decision struct {
	RetreatHealthRatio float64 `yaml:"retreat_health_ratio" json:"retreat_health_ratio"`
	RetreatMorale      float64 `yaml:"retreat_morale" json:"retreat_morale"`
	AttackStamina      float64 `yaml:"attack_stamina" json:"attack_stamina"`
	ApproachRangeRatio float64 `yaml:"approach_range_ratio" json:"approach_range_ratio"`
}

// Memory holds the learning-layer constants.
type Memory struct {
	SpeedAlpha         float64 `yaml:"speed_alpha" json:"speed_alpha"`
	BlockCautionWindow float64 `yaml:"block_caution_window" json:"block_caution_window"`
	CooldownFloor      float64 `yaml:"cooldown_floor" json:"cooldown_floor"`
	FastTargetSpeed    float64 `yaml:"fast_target_speed" json:"fast_target_speed"`
	IntelligenceCap    float64 `yaml:"intelligence_cap" json:"intelligence_cap"`
}

// Pack holds role thresholds and plan timings.
type Pack struct {
	BruiserAggression   float64 `yaml:"bruiser_aggression" json:"bruiser_aggression"`
	SkirmisherSpeed     float64 `yaml:"skirmisher_speed" json:"skirmisher_speed"`
	SupportIntelligence float64 `yaml:"support_intelligence" json:"support_intelligence"`
	AmbushMorale        float64 `yaml:"ambush_morale" json:"ambush_morale"`
	CommitMorale        float64 `yaml:"commit_morale" json:"commit_morale"`
	AmbushDuration      float64 `yaml:"ambush_duration" json:"ambush_duration"`
	PincerDuration      float64 `yaml:"pincer_duration" json:"pincer_duration"`
	CommitDuration      float64 `yaml:"commit_duration" json:"commit_duration"`
}

// Difficulty bounds the global rescale applied for player skill.
type Difficulty struct {
	SpeedMin      float64 `yaml:"speed_min" json:"speed_min"`
	SpeedMax      float64 `yaml:"speed_max" json:"speed_max"`
	AggressionMin float64 `yaml:"aggression_min" json:"aggression_min"`
	AggressionMax float64 `yaml:"aggression_max" json:"aggression_max"`
	ReactionMax   float64 `yaml:"reaction_max" json:"reaction_max"`
	ReactionMin   float64 `yaml:"reaction_min" json:"reaction_min"`
}

// Physics holds the local integration parameters used when no external
// resolver is attached.
type Physics struct {
	Friction     float64 `yaml:"friction" json:"friction"`
	StaminaRegen float64 `yaml:"stamina_regen" json:"stamina_regen"`
}

// Default returns the shipped parameter set.
func Default() Document {
	return Document{
		States: States{
			Idle:               2.0,
			Patrol:             4.0,
			Alert:              1.0,
			Approach:           3.0,
			Strafe:             2.0,
			AttackAnticipation: 0.3,
			AttackExecute:      0.2,
			AttackRecovery:     0.3,
			Retreat:            2.0,
			Recover:            1.0,
		},
		Stats: Stats{
			MaxHealth:      100.0,
			Damage:         15.0,
			Speed:          0.25,
			DetectionRange: 0.4,
			AttackRange:    0.08,
		},
		Decision: Decision{
			RetreatHealthRatio: 0.3,
			RetreatMorale:      0.4,
			AttackStamina:      0.3,
			ApproachRangeRatio: 0.7,
		},
		Memory: Memory{
			SpeedAlpha:         0.1,
			BlockCautionWindow: 1.0,
			CooldownFloor:      0.5,
			FastTargetSpeed:    0.4,
			IntelligenceCap:    0.9,
		},
		Pack: Pack{
			BruiserAggression:   0.6,
			SkirmisherSpeed:     0.3,
			SupportIntelligence: 0.7,
			AmbushMorale:        0.6,
			CommitMorale:        0.8,
			AmbushDuration:      6.0,
			PincerDuration:      4.0,
			CommitDuration:      3.0,
		},
		Difficulty: Difficulty{
			SpeedMin:      0.85,
			SpeedMax:      1.15,
			AggressionMin: 0.3,
			AggressionMax: 0.85,
			ReactionMax:   0.22,
			ReactionMin:   0.09,
		},
		Physics: Physics{
			Friction:     12.0,
			StaminaRegen: 0.1,
		},
	}
}

// Load reads a tuning document from disk and normalizes it.
func Load(path string) (Document, error) {
	var doc Document
	raw, err := os.ReadFile(path)
	if err != nil {
		return doc, err
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("tuning: %w", err)
	}
	return doc.Normalized(), nil
}

// Normalized replaces non-positive durations and ranges with defaults and
// clamps ratio fields into [0, 1].
func (doc Document) Normalized() Document {
	def := Default()
	normalized := doc

	fill := func(value *float64, fallback float64) {
		if *value <= 0 {
			*value = fallback
		}
	}
	ratio := func(value *float64, fallback float64) {
		if *value <= 0 || *value > 1 {
			*value = fallback
		}
	}

	fill(&normalized.States.Idle, def.States.Idle)
	fill(&normalized.States.Patrol, def.States.Patrol)
	fill(&normalized.States.Alert, def.States.Alert)
	fill(&normalized.States.Approach, def.States.Approach)
	fill(&normalized.States.Strafe, def.States.Strafe)
	fill(&normalized.States.AttackAnticipation, def.States.AttackAnticipation)
	fill(&normalized.States.AttackExecute, def.States.AttackExecute)
	fill(&normalized.States.AttackRecovery, def.States.AttackRecovery)
	fill(&normalized.States.Retreat, def.States.Retreat)
	fill(&normalized.States.Recover, def.States.Recover)

	fill(&normalized.Stats.MaxHealth, def.Stats.MaxHealth)
	fill(&normalized.Stats.Damage, def.Stats.Damage)
	fill(&normalized.Stats.Speed, def.Stats.Speed)
	fill(&normalized.Stats.DetectionRange, def.Stats.DetectionRange)
	fill(&normalized.Stats.AttackRange, def.Stats.AttackRange)

	ratio(&normalized.Decision.RetreatHealthRatio, def.Decision.RetreatHealthRatio)
	ratio(&normalized.Decision.RetreatMorale, def.Decision.RetreatMorale)
	ratio(&normalized.Decision.AttackStamina, def.Decision.AttackStamina)
	ratio(&normalized.Decision.ApproachRangeRatio, def.Decision.ApproachRangeRatio)

	ratio(&normalized.Memory.SpeedAlpha, def.Memory.SpeedAlpha)
	fill(&normalized.Memory.BlockCautionWindow, def.Memory.BlockCautionWindow)
	fill(&normalized.Memory.CooldownFloor, def.Memory.CooldownFloor)
	fill(&normalized.Memory.FastTargetSpeed, def.Memory.FastTargetSpeed)
	ratio(&normalized.Memory.IntelligenceCap, def.Memory.IntelligenceCap)

	ratio(&normalized.Pack.BruiserAggression, def.Pack.BruiserAggression)
	fill(&normalized.Pack.SkirmisherSpeed, def.Pack.SkirmisherSpeed)
	ratio(&normalized.Pack.SupportIntelligence, def.Pack.SupportIntelligence)
	ratio(&normalized.Pack.AmbushMorale, def.Pack.AmbushMorale)
	ratio(&normalized.Pack.CommitMorale, def.Pack.CommitMorale)
	fill(&normalized.Pack.AmbushDuration, def.Pack.AmbushDuration)
	fill(&normalized.Pack.PincerDuration, def.Pack.PincerDuration)
	fill(&normalized.Pack.CommitDuration, def.Pack.CommitDuration)

	fill(&normalized.Difficulty.SpeedMin, def.Difficulty.SpeedMin)
	fill(&normalized.Difficulty.SpeedMax, def.Difficulty.SpeedMax)
	ratio(&normalized.Difficulty.AggressionMin, def.Difficulty.AggressionMin)
	ratio(&normalized.Difficulty.AggressionMax, def.Difficulty.AggressionMax)
	fill(&normalized.Difficulty.ReactionMax, def.Difficulty.ReactionMax)
	fill(&normalized.Difficulty.ReactionMin, def.Difficulty.ReactionMin)
	if normalized.Difficulty.SpeedMax < normalized.Difficulty.SpeedMin {
		normalized.Difficulty.SpeedMax = normalized.Difficulty.SpeedMin
	}
	if normalized.Difficulty.ReactionMin > normalized.Difficulty.ReactionMax {
		normalized.Difficulty.ReactionMin = normalized.Difficulty.ReactionMax
	}

	fill(&normalized.Physics.Friction, def.Physics.Friction)
	fill(&normalized.Physics.StaminaRegen, def.Physics.StaminaRegen)

	return normalized
}

// AttackDuration is the full attack window across all three phases.
func (s States) AttackDuration() float64 {
	return s.AttackAnticipation + s.AttackExecute + s.AttackRecovery
}
