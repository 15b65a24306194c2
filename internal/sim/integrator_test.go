package sim

import (
	"math"
	"testing"

	"star-duel/internal/mathx"
)

const tickDt = 1.0 / 60.0

// TestSustainedThrustHitsVelocityCap tests that holding thrust converges
// on exactly MaxVelocity, not above it.
func TestSustainedThrustHitsVelocityCap(t *testing.T) {
	integ := NewIntegrator(PointerProfile())
	ship := NewShip("", 100)

	for i := 0; i < 1000; i++ {
		integ.Accelerate(ship, tickDt)
		integ.Integrate(ship, tickDt)
	}

	speed := ship.Velocity.Length()
	if math.Abs(speed-integ.Profile().MaxVelocity) > 1e-9 {
		t.Errorf("Sustained thrust should settle at %v, got %v", integ.Profile().MaxVelocity, speed)
	}
}

// TestDecelerateDrainsVelocity tests that drag without thrust decays the
// ship toward rest.
func TestDecelerateDrainsVelocity(t *testing.T) {
	integ := NewIntegrator(PointerProfile())
	ship := NewShip("", 100)
	ship.Velocity = mathx.Vec3{Z: -20}

	for i := 0; i < 600; i++ { // ten simulated seconds
		integ.Decelerate(ship, tickDt)
		integ.Integrate(ship, tickDt)
	}

	if ship.Velocity.Length() > 0.01 {
		t.Errorf("Drag should bring the ship near rest, got speed %v", ship.Velocity.Length())
	}
}

// TestSteerDampingBoundsTurnRate tests that a held steering key settles
// at a bounded angular velocity instead of winding up forever.
func TestSteerDampingBoundsTurnRate(t *testing.T) {
	integ := NewIntegrator(PointerProfile())
	ship := NewShip("", 100)

	var prev float64
	for i := 0; i < 600; i++ {
		integ.Steer(ship, 0, 1, tickDt)
		integ.Integrate(ship, tickDt)
		prev = ship.AngularVelocity.Y
	}

	// One more held tick barely moves the settled rate.
	integ.Steer(ship, 0, 1, tickDt)
	integ.Integrate(ship, tickDt)
	if math.Abs(ship.AngularVelocity.Y-prev) > 1e-6 {
		t.Errorf("Angular velocity should have settled, moved from %v to %v", prev, ship.AngularVelocity.Y)
	}

	// Releasing the key decays the spin.
	for i := 0; i < 600; i++ {
		integ.Integrate(ship, tickDt)
	}
	if math.Abs(ship.AngularVelocity.Y) > 0.001 {
		t.Errorf("Released steering should decay to rest, got %v", ship.AngularVelocity.Y)
	}
}

// TestThrustFollowsOrientation tests that acceleration acts along the
// ship's forward axis, not a world axis.
func TestThrustFollowsOrientation(t *testing.T) {
	integ := NewIntegrator(PointerProfile())
	ship := NewShip("", 100)
	ship.Rotation.Y = math.Pi / 2 // facing -X

	integ.Accelerate(ship, tickDt)

	if ship.Velocity.X >= 0 {
		t.Errorf("Thrust at yaw pi/2 should move along -X, got %+v", ship.Velocity)
	}
	if math.Abs(ship.Velocity.Z) > 1e-9 {
		t.Errorf("Thrust at yaw pi/2 should have no Z component, got %+v", ship.Velocity)
	}
}

// TestIntegrateRefreshesBounds tests that the bounding volume follows the
// hull after every step.
func TestIntegrateRefreshesBounds(t *testing.T) {
	integ := NewIntegrator(PointerProfile())
	ship := NewShip("", 100)
	ship.Velocity = mathx.Vec3{Z: -10}

	integ.Integrate(ship, tickDt)

	want := ship.Position.Z + shipHalfExtent.Z
	if math.Abs(ship.Bounds.Max.Z-want) > 1e-9 {
		t.Errorf("Bounds should track position, Max.Z should be %v, got %v", want, ship.Bounds.Max.Z)
	}
}

// TestDeviceProfilesDiffer tests that coarse input gets heavier damping
// and a gentler turn rate than pointer input.
func TestDeviceProfilesDiffer(t *testing.T) {
	p := PointerProfile()
	c := TouchProfile()

	if c.TurnRate >= p.TurnRate {
		t.Errorf("Touch turn rate %v should be below pointer %v", c.TurnRate, p.TurnRate)
	}
	if c.AngularDamping >= p.AngularDamping {
		t.Errorf("Touch angular damping %v should decay faster than pointer %v", c.AngularDamping, p.AngularDamping)
	}
	if c.MaxVelocity != p.MaxVelocity {
		t.Errorf("Velocity cap should match across devices, got %v vs %v", c.MaxVelocity, p.MaxVelocity)
	}
}
