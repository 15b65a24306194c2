package sim

import (
	"testing"

	"star-duel/internal/mathx"
)

// TestApplyHitOverwrites tests that hit payloads restate health rather
// than accumulate damage, so replays are harmless.
func TestApplyHitOverwrites(t *testing.T) {
	ship := NewShip("p1", 100)

	ship.ApplyHit(70, 100)
	ship.ApplyHit(70, 100) // duplicate delivery
	if ship.Health != 70 {
		t.Errorf("Health should be 70 after duplicate hits, got %v", ship.Health)
	}

	ship.ApplyHit(-5, 100)
	if ship.Health != 0 {
		t.Errorf("Health should clamp at 0, got %v", ship.Health)
	}
	ship.ApplyHit(500, 100)
	if ship.Health != 100 {
		t.Errorf("Health should clamp at MaxHealth, got %v", ship.Health)
	}
}

// TestApplyDiedFreezes tests the death transition: motion stops, state
// flips, and a duplicate death is a no-op.
func TestApplyDiedFreezes(t *testing.T) {
	ship := NewShip("p1", 100)
	ship.Velocity = mathx.Vec3{Z: -10}
	ship.AngularVelocity = mathx.Vec3{Y: 1}
	ship.Position = mathx.Vec3{X: 3}

	if !ship.ApplyDied() {
		t.Fatal("First death should transition")
	}
	if ship.State != StateDead {
		t.Errorf("State should be dead, got %v", ship.State)
	}
	if !ship.Velocity.IsZero() || !ship.AngularVelocity.IsZero() {
		t.Error("Death should zero both velocities")
	}
	if ship.Position.X != 3 {
		t.Error("Death should not move the hull")
	}

	if ship.ApplyDied() {
		t.Error("Duplicate death should be a no-op")
	}
}

// TestApplyRespawnResets tests that respawn restores full health at the
// server-given pose with zero velocity.
func TestApplyRespawnResets(t *testing.T) {
	ship := NewShip("p1", 100)
	ship.ApplyHit(10, 100)
	ship.ApplyDied()

	spawn := PlayerEvent{
		ID:       "p1",
		Position: mathx.Vec3{X: 50, Z: -20},
		Rotation: mathx.Vec3{Y: 1.5},
		Velocity: mathx.Vec3{Z: -9}, // ignored: respawn starts at rest
	}
	ship.ApplyRespawn(spawn)

	if ship.State != StateAlive {
		t.Errorf("State should be alive, got %v", ship.State)
	}
	if ship.Health != ship.MaxHealth {
		t.Errorf("Health should be full, got %v of %v", ship.Health, ship.MaxHealth)
	}
	if ship.Position != spawn.Position || ship.Rotation != spawn.Rotation {
		t.Error("Respawn should place the hull at the event pose")
	}
	if !ship.Velocity.IsZero() {
		t.Errorf("Respawn velocity should be zero, got %+v", ship.Velocity)
	}

	// Bounds follow the teleport.
	if ship.Bounds.Min.X >= 50 || ship.Bounds.Max.X <= 50 {
		t.Error("Bounds should be refreshed at the spawn point")
	}
}

// TestLifeStateString tests the state labels used in snapshots.
func TestLifeStateString(t *testing.T) {
	cases := map[LifeState]string{
		StateAlive:      "alive",
		StateDead:       "dead",
		StateRespawning: "respawning",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("State %d should be %q, got %q", state, want, got)
		}
	}
}
