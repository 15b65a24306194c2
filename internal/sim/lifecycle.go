package sim

import "star-duel/internal/mathx"

// Lifecycle transitions. All of these are driven by inbound server
// events; the client never originates a death or respawn on its own.

// ApplyHit updates health from a hit event. The payload restates both
// fields, so replays overwrite rather than accumulate. Health is clamped
// into [0, MaxHealth].
func (s *Ship) ApplyHit(health, maxHealth float64) {
	if maxHealth > 0 {
		s.MaxHealth = maxHealth
	}
	if health < 0 {
		health = 0
	}
	if health > s.MaxHealth {
		health = s.MaxHealth
	}
	s.Health = health
}

// ApplyDied freezes the ship: velocity and angular velocity are zeroed
// and the state moves to Dead. A duplicate Died for an already-dead ship
// is a no-op; the return value reports whether the transition happened.
func (s *Ship) ApplyDied() bool {
	if s.State == StateDead {
		return false
	}
	s.State = StateDead
	s.Health = 0
	s.Velocity = mathx.Vec3{}
	s.AngularVelocity = mathx.Vec3{}
	return true
}

// ApplyRespawn resets the ship to the server-given pose at full health.
func (s *Ship) ApplyRespawn(e PlayerEvent) {
	if e.MaxHealth > 0 {
		s.MaxHealth = e.MaxHealth
	}
	s.Health = s.MaxHealth
	s.State = StateAlive
	s.SetPose(e.Position, e.Rotation, mathx.Vec3{})
	s.AngularVelocity = mathx.Vec3{}
}
