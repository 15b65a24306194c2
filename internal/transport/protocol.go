// Package transport carries the event stream over a persistent
// WebSocket connection. Delivery is arbitrary-order, at-least-once and
// possibly duplicated; the simulation's reconciler is built for exactly
// that, so the transport does no dedup or reordering of its own.
package transport

import (
	"encoding/json"
	"fmt"

	"star-duel/internal/mathx"
	"star-duel/internal/sim"
)

// Envelope frames every message: a kind tag plus a raw payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Inbound event names.
const (
	EventWelcome   = "player:welcome"
	EventJoined    = "player:joined"
	EventMoved     = "player:moved"
	EventRespawned = "player:respawned"
	EventLeft      = "player:left"
	EventDied      = "player:died"
	EventHit       = "player:hit"
	EventBullet    = "bullet:fired"
)

// Outbound event names.
const (
	EventUpdate = "player:update"
	EventFire   = "bullet:fire"
)

// shipPayload is the wire shape of Joined/Moved/Respawned.
type shipPayload struct {
	ID        string     `json:"id"`
	Position  mathx.Vec3 `json:"position"`
	Rotation  mathx.Vec3 `json:"rotation"`
	Velocity  mathx.Vec3 `json:"velocity"`
	MaxHealth float64    `json:"maxHealth,omitempty"`
}

type idPayload struct {
	ID string `json:"id"`
}

type hitPayload struct {
	ID        string  `json:"id"`
	Health    float64 `json:"health"`
	MaxHealth float64 `json:"maxHealth"`
}

type bulletPayload struct {
	ID       string     `json:"id"`
	Position mathx.Vec3 `json:"position"`
	Velocity mathx.Vec3 `json:"velocity"`
}

// updatePayload is the outbound periodic transform sample.
type updatePayload struct {
	Position mathx.Vec3 `json:"position"`
	Rotation mathx.Vec3 `json:"rotation"`
	Velocity mathx.Vec3 `json:"velocity"`
}

// firePayload is the outbound accepted-fire notification.
type firePayload struct {
	Position mathx.Vec3 `json:"position"`
	Velocity mathx.Vec3 `json:"velocity"`
}

func (p shipPayload) event() sim.PlayerEvent {
	return sim.PlayerEvent{
		ID:        p.ID,
		Position:  p.Position,
		Rotation:  p.Rotation,
		Velocity:  p.Velocity,
		MaxHealth: p.MaxHealth,
	}
}

// Dispatch decodes one envelope and routes it into the sink. welcome
// receives the server-assigned local player id. Unknown event kinds are
// ignored: the server may speak a newer dialect.
func Dispatch(env Envelope, sink sim.EventSink, welcome func(id string)) error {
	switch env.Event {
	case EventWelcome:
		var p idPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return fmt.Errorf("decode %s: %w", env.Event, err)
		}
		if welcome != nil {
			welcome(p.ID)
		}
	case EventJoined:
		var p shipPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return fmt.Errorf("decode %s: %w", env.Event, err)
		}
		sink.PlayerJoined(p.event())
	case EventMoved:
		var p shipPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return fmt.Errorf("decode %s: %w", env.Event, err)
		}
		sink.PlayerMoved(p.event())
	case EventRespawned:
		var p shipPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return fmt.Errorf("decode %s: %w", env.Event, err)
		}
		sink.PlayerRespawned(p.event())
	case EventLeft:
		var p idPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return fmt.Errorf("decode %s: %w", env.Event, err)
		}
		sink.PlayerLeft(p.ID)
	case EventDied:
		var p idPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return fmt.Errorf("decode %s: %w", env.Event, err)
		}
		sink.PlayerDied(p.ID)
	case EventHit:
		var p hitPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return fmt.Errorf("decode %s: %w", env.Event, err)
		}
		sink.PlayerHit(sim.HitEvent{ID: p.ID, Health: p.Health, MaxHealth: p.MaxHealth})
	case EventBullet:
		var p bulletPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return fmt.Errorf("decode %s: %w", env.Event, err)
		}
		sink.BulletFired(sim.BulletEvent{ID: p.ID, Position: p.Position, Velocity: p.Velocity})
	}
	return nil
}

func marshalEnvelope(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}
