package sim

import "star-duel/internal/mathx"

// Immutable value snapshots of simulation state for the debug API and
// radar surface. Produced on demand under the session lock; the sim
// itself runs on a single goroutine.

// ShipSnapshot is a value copy of one ship.
type ShipSnapshot struct {
	ID        string     `json:"id"`
	Local     bool       `json:"local"`
	Position  mathx.Vec3 `json:"position"`
	Rotation  mathx.Vec3 `json:"rotation"`
	Velocity  mathx.Vec3 `json:"velocity"`
	Health    float64    `json:"health"`
	MaxHealth float64    `json:"maxHealth"`
	State     string     `json:"state"`
}

// ProjectileSnapshot is a value copy of one active pool slot.
type ProjectileSnapshot struct {
	Owner    string     `json:"owner"`
	Slot     int        `json:"slot"`
	Position mathx.Vec3 `json:"position"`
	Velocity mathx.Vec3 `json:"velocity"`
	Elapsed  float64    `json:"elapsed"`
}

// Snapshot is the full state view at one instant.
type Snapshot struct {
	Tick          uint64               `json:"tick"`
	Online        bool                 `json:"online"`
	PendingBuilds int                  `json:"pendingBuilds"`
	Ships         []ShipSnapshot       `json:"ships"`
	Projectiles   []ProjectileSnapshot `json:"projectiles"`
}
