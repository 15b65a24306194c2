package sim

import "star-duel/internal/input"

// Profile carries the motion constants for one input device class.
// The integrator is agnostic to why a constant differs; the profile is
// resolved once per session and threaded in, never re-derived per frame.
type Profile struct {
	Name           string
	TurnRate       float64 // steering torque, rad/s^2
	AngularDamping float64 // angular velocity multiplier per tick
	LinearDamping  float64 // velocity multiplier per tick when not thrusting
	Acceleration   float64 // forward thrust, units/s^2
	MaxVelocity    float64 // hard cap on linear speed, units/s
}

// PointerProfile returns the motion constants for precise pointer input.
func PointerProfile() Profile {
	return Profile{
		Name:           "pointer",
		TurnRate:       2.6,
		AngularDamping: 0.88,
		LinearDamping:  0.95,
		Acceleration:   22,
		MaxVelocity:    25,
	}
}

// TouchProfile returns the motion constants for coarse (touch) input:
// heavier damping and a gentler turn rate keep the ship controllable.
func TouchProfile() Profile {
	return Profile{
		Name:           "touch",
		TurnRate:       1.9,
		AngularDamping: 0.82,
		LinearDamping:  0.92,
		Acceleration:   22,
		MaxVelocity:    25,
	}
}

// ProfileForDevice resolves the profile for a device class.
func ProfileForDevice(class input.DeviceClass) Profile {
	if class == input.DeviceCoarse {
		return TouchProfile()
	}
	return PointerProfile()
}

// Integrator advances a single ship's transform from its velocities,
// with damping and clamping that stay stable under variable frame pacing
// because every call receives the scheduler's constant dt.
type Integrator struct {
	profile Profile
}

func NewIntegrator(p Profile) *Integrator {
	return &Integrator{profile: p}
}

func (in *Integrator) Profile() Profile { return in.profile }

// Steer applies steering torque from the intent axes. pitch and yaw are
// in [-1, 1]; the resulting angular velocity decays through damping in
// Integrate, so holding a key settles at a bounded turn speed.
func (in *Integrator) Steer(s *Ship, pitch, yaw, dt float64) {
	s.AngularVelocity.X += pitch * in.profile.TurnRate * dt
	s.AngularVelocity.Y += yaw * in.profile.TurnRate * dt
}

// Accelerate adds forward thrust along the ship's current orientation.
func (in *Integrator) Accelerate(s *Ship, dt float64) {
	s.Velocity = s.Velocity.Add(s.Forward().Scale(in.profile.Acceleration * dt))
}

// Decelerate applies linear drag. Called whenever the forward-thrust
// intent is absent; thrust and drag are mutually exclusive per tick.
func (in *Integrator) Decelerate(s *Ship, dt float64) {
	s.Velocity = s.Velocity.Scale(in.profile.LinearDamping)
}

// Integrate advances orientation then position. Angular damping runs
// before the orientation step; the linear velocity is clamped to
// MaxVelocity (direction-preserving) before the position step. The
// bounding volume is refreshed after the transform changes.
func (in *Integrator) Integrate(s *Ship, dt float64) {
	s.AngularVelocity = s.AngularVelocity.Scale(in.profile.AngularDamping)
	s.Rotation = s.Rotation.Add(s.AngularVelocity.Scale(dt))

	s.Velocity = s.Velocity.ClampLength(in.profile.MaxVelocity)
	s.Position = s.Position.Add(s.Velocity.Scale(dt))

	s.RefreshBounds()
}
