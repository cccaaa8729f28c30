package wolf

// WolfSnapshot is the wire/journal view of one agent. Raw fixed-point values
// ride along so replay audits can compare spatial state bit-for-bit.
type WolfSnapshot struct {
	ID        uint32  `json:"id"`
	Type      string  `json:"type"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	VX        float64 `json:"vx"`
	VY        float64 `json:"vy"`
	FacingX   float64 `json:"facingX"`
	FacingY   float64 `json:"facingY"`
	RawX      int32   `json:"rawX"`
	RawY      int32   `json:"rawY"`
	RawVX     int32   `json:"rawVX"`
	RawVY     int32   `json:"rawVY"`
	Health    float64 `json:"health"`
	MaxHealth float64 `json:"maxHealth"`
	Stamina   float64 `json:"stamina"`
	State     string  `json:"state"`
	Emotion   string  `json:"emotion"`
	PackID    uint32  `json:"packId,omitempty"`
	Role      string  `json:"role"`

	BodyStretch float64 `json:"bodyStretch"`
	HeadYaw     float64 `json:"headYaw"`
	TailWag     float64 `json:"tailWag"`
}

// PackSnapshot is the wire/journal view of one pack.
type PackSnapshot struct {
	ID        uint32   `json:"id"`
	Members   []uint32 `json:"members"`
	Plan      string   `json:"plan"`
	Morale    float64  `json:"morale"`
	PlanTimer float64  `json:"planTimer"`
}

// Snapshot captures the full engine state for broadcast and journaling.
type Snapshot struct {
	Tick   uint64         `json:"tick"`
	Wolves []WolfSnapshot `json:"wolves"`
	Packs  []PackSnapshot `json:"packs"`
}

// Snapshot renders the engine state in creation order.
func (e *Engine) Snapshot() Snapshot {
	if e == nil {
		return Snapshot{}
	}

	snap := Snapshot{
		Tick:   e.tick,
		Wolves: make([]WolfSnapshot, 0, len(e.wolves)),
		Packs:  make([]PackSnapshot, 0, len(e.packs)),
	}

	for _, w := range e.wolves {
		x, y := w.Pos.FloatPair()
		vx, vy := w.Vel.FloatPair()
		fx, fy := w.Facing.FloatPair()
		snap.Wolves = append(snap.Wolves, WolfSnapshot{
			ID:        w.ID,
			Type:      w.Type.String(),
			X:         x,
			Y:         y,
			VX:        vx,
			VY:        vy,
			FacingX:   fx,
			FacingY:   fy,
			RawX:      w.Pos.X.Raw,
			RawY:      w.Pos.Y.Raw,
			RawVX:     w.Vel.X.Raw,
			RawVY:     w.Vel.Y.Raw,
			Health:    w.Health,
			MaxHealth: w.MaxHealth,
			Stamina:   w.Stamina,
			State:     w.State.String(),
			Emotion:   w.Emotion.String(),
			PackID:    w.PackID,
			Role:      w.Role.String(),

			BodyStretch: w.BodyStretch,
			HeadYaw:     w.HeadYaw,
			TailWag:     w.TailWag,
		})
	}

	for _, p := range e.packs {
		snap.Packs = append(snap.Packs, PackSnapshot{
			ID:        p.ID,
			Members:   append([]uint32(nil), p.Members...),
			Plan:      p.Plan.String(),
			Morale:    p.Morale,
			PlanTimer: p.PlanTimer,
		})
	}

	return snap
}
