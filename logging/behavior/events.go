package behavior

import (
	"context"
	"strconv"

	"wolfden/server/logging"
)

const (
	StateChangeEventType   logging.EventType = "behavior.state_change"
	AttackAttemptEventType logging.EventType = "behavior.attack_attempt"
	PlanChangeEventType    logging.EventType = "pack.plan_change"
	RescaleEventType       logging.EventType = "difficulty.rescale"
)

// WolfRef builds an entity reference for a wolf id.
func WolfRef(id uint32) logging.EntityRef {
	return logging.EntityRef{ID: strconv.FormatUint(uint64(id), 10), Kind: logging.EntityKindWolf}
}

// PackRef builds an entity reference for a pack id.
func PackRef(id uint32) logging.EntityRef {
	return logging.EntityRef{ID: strconv.FormatUint(uint64(id), 10), Kind: logging.EntityKindPack}
}

type StateChangePayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func StateChange(ctx context.Context, pub logging.Publisher, tick uint64, wolfID uint32, from, to string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     StateChangeEventType,
		Tick:     tick,
		Actor:    WolfRef(wolfID),
		Severity: logging.SeverityDebug,
		Category: logging.CategoryBehavior,
		Payload:  StateChangePayload{From: from, To: to},
	})
}

type AttackAttemptPayload struct {
	Damage   float64 `json:"damage"`
	Distance float64 `json:"distance"`
}

func AttackAttempt(ctx context.Context, pub logging.Publisher, tick uint64, wolfID uint32, damage, distance float64) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     AttackAttemptEventType,
		Tick:     tick,
		Actor:    WolfRef(wolfID),
		Targets:  []logging.EntityRef{{ID: "target", Kind: logging.EntityKindTarget}},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryBehavior,
		Payload:  AttackAttemptPayload{Damage: damage, Distance: distance},
	})
}

type PlanChangePayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func PlanChange(ctx context.Context, pub logging.Publisher, tick uint64, packID uint32, from, to string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     PlanChangeEventType,
		Tick:     tick,
		Actor:    PackRef(packID),
		Severity: logging.SeverityInfo,
		Category: logging.CategoryPack,
		Payload:  PlanChangePayload{From: from, To: to},
	})
}

type RescalePayload struct {
	Skill  float64 `json:"skill"`
	Wolves int     `json:"wolves"`
}

func Rescale(ctx context.Context, pub logging.Publisher, tick uint64, skill float64, wolves int) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     RescaleEventType,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: "engine", Kind: logging.EntityKindWorld},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryDifficulty,
		Payload:  RescalePayload{Skill: skill, Wolves: wolves},
	})
}
