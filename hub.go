package main

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"wolfden/server/internal/fixed"
	"wolfden/server/internal/wolf"
)

const (
	tickRate  = 60 // behavior engine runs at full simulation rate
	writeWait = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// command is the wire format for host-issued engine mutations. Commands are
// queued and applied at the top of the next tick so every subscriber
// observes the same ordering.
type command struct {
	Type     string   `json:"type"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	VX       float64  `json:"vx"`
	VY       float64  `json:"vy"`
	ID       uint32   `json:"id"`
	Amount   float64  `json:"amount"`
	KX       float64  `json:"kx"`
	KY       float64  `json:"ky"`
	WolfType string   `json:"wolfType"`
	Members  []uint32 `json:"members"`
	Skill    float64  `json:"skill"`
}

// targetState is the hub-owned pose of the hunted target, fed by clients
// and read by the engine.
type targetState struct {
	mu  sync.Mutex
	pos fixed.Vec2
	vel fixed.Vec2
}

func (t *targetState) set(pos, vel fixed.Vec2) {
	t.mu.Lock()
	t.pos = pos
	t.vel = vel
	t.mu.Unlock()
}

func (t *targetState) TargetPosition() fixed.Vec2 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pos
}

func (t *targetState) TargetVelocity() fixed.Vec2 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.vel
}

// Hub owns the engine, the command queue, and the subscriber set.
type Hub struct {
	mu          sync.Mutex
	engine      *wolf.Engine
	target      *targetState
	pending     []command
	subscribers map[*subscriber]struct{}
	record      func(wolf.Snapshot)
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func newHub(engine *wolf.Engine, target *targetState) *Hub {
	engine.SetTarget(target)
	return &Hub{
		engine:      engine,
		target:      target,
		subscribers: make(map[*subscriber]struct{}),
	}
}

// setRecorder installs a per-tick snapshot consumer, typically the replay
// journal. Must be called before run.
func (h *Hub) setRecorder(record func(wolf.Snapshot)) {
	h.mu.Lock()
	h.record = record
	h.mu.Unlock()
}

// withEngine runs fn while holding the tick lock so out-of-band callers
// never race the simulation loop.
func (h *Hub) withEngine(fn func(*wolf.Engine)) {
	h.mu.Lock()
	fn(h.engine)
	h.mu.Unlock()
}

// enqueue stages a command for the next tick.
func (h *Hub) enqueue(cmd command) {
	h.mu.Lock()
	h.pending = append(h.pending, cmd)
	h.mu.Unlock()
}

// run drives the fixed-timestep loop until stop closes.
func (h *Hub) run(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second / tickRate)
	defer ticker.Stop()

	dt := 1.0 / float64(tickRate)

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			snapshot := h.advance(dt)
			h.broadcast(snapshot)
		}
	}
}

// advance applies queued commands and steps the engine once.
func (h *Hub) advance(dt float64) wolf.Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, cmd := range h.pending {
		h.applyLocked(cmd)
	}
	h.pending = h.pending[:0]

	h.engine.Update(dt)
	snapshot := h.engine.Snapshot()
	if h.record != nil {
		h.record(snapshot)
	}
	return snapshot
}

func (h *Hub) applyLocked(cmd command) {
	switch cmd.Type {
	case "spawn":
		h.engine.Spawn(fixed.VecFromFloats(cmd.X, cmd.Y), parseWolfType(cmd.WolfType))
	case "remove":
		h.engine.Remove(cmd.ID)
	case "damage":
		h.engine.Damage(cmd.ID, cmd.Amount, fixed.VecFromFloats(cmd.KX, cmd.KY))
	case "createPack":
		h.engine.CreatePack(cmd.Members)
	case "target":
		h.target.set(fixed.VecFromFloats(cmd.X, cmd.Y), fixed.VecFromFloats(cmd.VX, cmd.VY))
	case "block":
		h.engine.NotifyTargetBlocked()
	case "dodge":
		h.engine.NotifyTargetDodged()
	case "attackHit":
		h.engine.NotifyAttackHit(cmd.ID)
	case "attackMissed":
		h.engine.NotifyAttackMissed(cmd.ID)
	case "rescale":
		h.engine.RescaleForSkill(cmd.Skill)
	case "clear":
		h.engine.ClearAll()
	default:
		log.Printf("unknown command type %q", cmd.Type)
	}
}

func (h *Hub) broadcast(snapshot wolf.Snapshot) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		log.Printf("failed to marshal snapshot: %v", err)
		return
	}

	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subscribers))
	for sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		sub.mu.Lock()
		sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := sub.conn.WriteMessage(websocket.TextMessage, data)
		sub.mu.Unlock()
		if err != nil {
			h.drop(sub)
		}
	}
}

func (h *Hub) drop(sub *subscriber) {
	h.mu.Lock()
	delete(h.subscribers, sub)
	h.mu.Unlock()
	sub.conn.Close()
}

// handleWS upgrades the connection, registers the subscriber, and reads
// commands until the peer goes away.
func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	sub := &subscriber{conn: conn}
	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()

	go func() {
		defer h.drop(sub)
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var cmd command
			if err := json.Unmarshal(payload, &cmd); err != nil {
				log.Printf("bad command payload: %v", err)
				continue
			}
			h.enqueue(cmd)
		}
	}()
}

func parseWolfType(name string) wolf.Type {
	switch name {
	case "Alpha":
		return wolf.TypeAlpha
	case "Scout":
		return wolf.TypeScout
	case "Hunter":
		return wolf.TypeHunter
	default:
		return wolf.TypeNormal
	}
}
