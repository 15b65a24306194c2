package sim

import "star-duel/internal/mathx"

// Inbound event payload shapes. Wire framing is the transport's concern;
// the core only sees these. The protocol is payload-idempotent: each
// event fully restates the fields it mutates, so replays and reordering
// within one kind are safe by overwrite.

// PlayerEvent is the shared payload of Joined, Moved and Respawned.
type PlayerEvent struct {
	ID        string
	Position  mathx.Vec3
	Rotation  mathx.Vec3
	Velocity  mathx.Vec3
	MaxHealth float64 // zero when the event did not carry it
}

// HitEvent restates a player's health after damage.
type HitEvent struct {
	ID        string
	Health    float64
	MaxHealth float64
}

// BulletEvent reports a shot fired by some player.
type BulletEvent struct {
	ID       string
	Position mathx.Vec3
	Velocity mathx.Vec3
}

// EventSink receives the remote event stream, one method per event kind.
// Implementations must be driven from the simulation goroutine; the
// transport posts calls through the session inbox so handlers run to
// completion between ticks, never interleaved with one.
type EventSink interface {
	PlayerJoined(e PlayerEvent)
	PlayerMoved(e PlayerEvent)
	PlayerRespawned(e PlayerEvent)
	PlayerLeft(id string)
	PlayerDied(id string)
	PlayerHit(e HitEvent)
	BulletFired(e BulletEvent)
}
