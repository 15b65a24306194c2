package sim

import (
	"star-duel/internal/mathx"
	"star-duel/internal/scene"
)

// LifeState is a player's lifecycle state, driven only by server events.
type LifeState int

const (
	StateAlive LifeState = iota
	StateDead
	// StateRespawning is transient: a Died that already has a respawn in
	// flight collapses to Alive on the respawn event. It exists so the
	// died-then-respawn race is never acted on twice.
	StateRespawning
)

func (s LifeState) String() string {
	switch s {
	case StateAlive:
		return "alive"
	case StateDead:
		return "dead"
	case StateRespawning:
		return "respawning"
	default:
		return "unknown"
	}
}

// Ship half extents, matching the hull mesh the renderer instances.
var shipHalfExtent = mathx.Vec3{X: 0.6, Y: 0.25, Z: 1.0}

// Ship is one simulated hull, local or remote. The local ship has an
// empty ID and is owned by the session; remote ships are owned by the
// reconciler's player map, keyed by player id.
type Ship struct {
	ID string // empty for the locally controlled ship

	Position        mathx.Vec3
	Rotation        mathx.Vec3 // Euler radians: X pitch, Y yaw, Z roll
	Velocity        mathx.Vec3
	AngularVelocity mathx.Vec3

	Health    float64
	MaxHealth float64
	State     LifeState

	// Bounds is the derived bounding volume, refreshed after every
	// transform change for later collision queries.
	Bounds mathx.Box

	Visual scene.Visual
}

// NewShip creates a ship at the origin, alive and at full health.
func NewShip(id string, maxHealth float64) *Ship {
	s := &Ship{
		ID:        id,
		Health:    maxHealth,
		MaxHealth: maxHealth,
		State:     StateAlive,
	}
	s.RefreshBounds()
	return s
}

// Local reports whether this is the session-owned ship.
func (s *Ship) Local() bool { return s.ID == "" }

// Forward returns the unit forward axis derived from current orientation.
func (s *Ship) Forward() mathx.Vec3 {
	return mathx.Forward(s.Rotation)
}

// RefreshBounds recomputes the bounding volume from the current transform.
func (s *Ship) RefreshBounds() {
	s.Bounds = mathx.BoxAt(s.Position, shipHalfExtent)
}

// SetPose overwrites position, rotation and velocity from an event
// payload. Events fully restate the fields they mutate, so applying the
// same pose twice is safe by overwrite.
func (s *Ship) SetPose(pos, rot, vel mathx.Vec3) {
	s.Position = pos
	s.Rotation = rot
	s.Velocity = vel
	s.RefreshBounds()
}
