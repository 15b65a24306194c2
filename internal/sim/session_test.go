package sim

import (
	"testing"
	"time"

	"star-duel/internal/input"
	"star-duel/internal/mathx"
)

// recordingOutbound counts outbound sends.
type recordingOutbound struct {
	updates int
	fires   int
}

func (o *recordingOutbound) SendUpdate(position, rotation, velocity mathx.Vec3) error {
	o.updates++
	return nil
}

func (o *recordingOutbound) SendFire(position, velocity mathx.Vec3) error {
	o.fires++
	return nil
}

// runFrames drives the session with steady wall-clock frames.
func runFrames(s *Session, start time.Time, frames int, period time.Duration) time.Time {
	now := start
	for i := 0; i < frames; i++ {
		now = now.Add(period)
		s.Frame(now, period.Seconds())
	}
	return now
}

// TestOutboundCadenceDecoupledFromTicks tests that update sends follow
// their own wall-clock interval, not the tick rate.
func TestOutboundCadenceDecoupledFromTicks(t *testing.T) {
	out := &recordingOutbound{}
	s := NewSession(Config{SendInterval: 50 * time.Millisecond}, Deps{
		Input:    input.Func(func() input.Intent { return input.Intent{Accelerate: true} }),
		Outbound: out,
	})
	s.SetOnline(true)

	start := time.Now()
	runFrames(s, start, 60, 16*time.Millisecond) // ~960ms of frames

	ticks := s.sched.Ticks()
	if ticks < 55 {
		t.Fatalf("Roughly 60 ticks should have run, got %d", ticks)
	}
	// 16ms frames cross the 50ms threshold every fourth frame.
	if out.updates < 12 || out.updates > 20 {
		t.Errorf("Updates should track the 50ms cadence (~15), got %d", out.updates)
	}
	if out.updates >= int(ticks)/2 {
		t.Errorf("Update rate %d should be far below tick rate %d", out.updates, ticks)
	}
}

// TestOfflineSuppressesSends tests that losing the transport stops
// outbound traffic while the simulation keeps running.
func TestOfflineSuppressesSends(t *testing.T) {
	out := &recordingOutbound{}
	s := NewSession(Config{}, Deps{
		Input:    input.Func(func() input.Intent { return input.Intent{Accelerate: true} }),
		Outbound: out,
	})
	s.SetOnline(true)
	now := runFrames(s, time.Now(), 30, 16*time.Millisecond)

	sent := out.updates
	if sent == 0 {
		t.Fatal("Online session should have sent updates")
	}

	s.SetOnline(false)
	runFrames(s, now, 30, 16*time.Millisecond)

	if out.updates != sent {
		t.Errorf("Offline session should send nothing, got %d more", out.updates-sent)
	}
	if s.Local().Velocity.IsZero() {
		t.Error("Simulation should keep integrating while offline")
	}
}

// TestFireGatesIndependent tests that the cooldown gate and the pool
// capacity gate deny independently and neither banks denied requests.
func TestFireGatesIndependent(t *testing.T) {
	var denials []string
	out := &recordingOutbound{}
	s := NewSession(Config{
		PoolCapacity: 2,
		BulletLife:   3600, // nothing expires during the test
		FireCooldown: 250 * time.Millisecond,
	}, Deps{
		Input:    input.Func(func() input.Intent { return input.Intent{Fire: true} }),
		Outbound: out,
		Hooks: Hooks{
			FireDenied: func(reason string) { denials = append(denials, reason) },
		},
	})
	s.SetOnline(true)

	runFrames(s, time.Now(), 60, 16*time.Millisecond) // ~960ms, trigger held

	// 250ms cooldown admits ~4 requests; capacity 2 accepts the first
	// two and the pool gate denies the rest.
	if got := s.Pool().ActiveCount(); got != 2 {
		t.Errorf("Pool should hold exactly its capacity, got %d", got)
	}
	if out.fires != 2 {
		t.Errorf("Only accepted fires should be sent, got %d", out.fires)
	}

	cooldown, poolFull := 0, 0
	for _, reason := range denials {
		switch reason {
		case "cooldown":
			cooldown++
		case "pool":
			poolFull++
		default:
			t.Errorf("Unexpected denial reason %q", reason)
		}
	}
	if cooldown == 0 {
		t.Error("Held trigger should hit the cooldown gate")
	}
	if poolFull == 0 {
		t.Error("Full pool should deny post-cooldown requests")
	}
}

// TestDeadLocalIgnoresInput tests that death freezes input-driven motion
// while drag still applies.
func TestDeadLocalIgnoresInput(t *testing.T) {
	s := NewSession(Config{}, Deps{
		Input: input.Func(func() input.Intent {
			return input.Intent{Accelerate: true, YawLeft: true, Fire: true}
		}),
	})
	s.Post(func() { s.Local().ApplyDied() })

	runFrames(s, time.Now(), 30, 16*time.Millisecond)

	if !s.Local().Velocity.IsZero() {
		t.Errorf("Dead ship should not thrust, got %+v", s.Local().Velocity)
	}
	if !s.Local().AngularVelocity.IsZero() {
		t.Errorf("Dead ship should not steer, got %+v", s.Local().AngularVelocity)
	}
	if s.Pool().ActiveCount() != 0 {
		t.Errorf("Dead ship should not fire, got %d projectiles", s.Pool().ActiveCount())
	}
}

// TestPostRunsBeforeTicks tests run-to-completion ordering: queued
// handlers drain at frame start, never mid-tick.
func TestPostRunsBeforeTicks(t *testing.T) {
	var order []string
	s := NewSession(Config{}, Deps{
		Hooks: Hooks{TickDone: func(time.Duration) { order = append(order, "ticks") }},
	})
	s.Post(func() { order = append(order, "posted") })

	s.Frame(time.Now(), 0.02)

	if len(order) != 2 || order[0] != "posted" || order[1] != "ticks" {
		t.Errorf("Posted work should run before the tick loop, got %v", order)
	}
}

// TestSnapshotReflectsState tests the debug snapshot shape.
func TestSnapshotReflectsState(t *testing.T) {
	s := NewSession(Config{}, Deps{
		Input: input.Func(func() input.Intent { return input.Intent{Accelerate: true, Fire: true} }),
	})
	s.SetLocalID("me")
	runFrames(s, time.Now(), 10, 16*time.Millisecond)

	snap := s.Snapshot()
	if len(snap.Ships) != 1 || !snap.Ships[0].Local {
		t.Fatalf("Snapshot should hold the local ship, got %+v", snap.Ships)
	}
	if snap.Ships[0].State != "alive" {
		t.Errorf("Local ship should be alive, got %q", snap.Ships[0].State)
	}
	if len(snap.Projectiles) != s.Pool().ActiveCount() {
		t.Errorf("Snapshot projectiles %d should match pool %d", len(snap.Projectiles), s.Pool().ActiveCount())
	}
	if snap.Tick == 0 {
		t.Error("Snapshot should carry the tick counter")
	}
}
