package sim

import (
	"time"

	"golang.org/x/time/rate"

	"star-duel/internal/mathx"
)

// Pool defaults. A slot's identity is reused, never reallocated.
const (
	DefaultPoolCapacity   = 100
	DefaultBulletSpeed    = 30.0 // units/s
	DefaultBulletLifetime = 1.0  // seconds
	DefaultFireCooldown   = 250 * time.Millisecond
)

// LocalOwner marks projectiles fired by the session-owned ship.
const LocalOwner = "local"

// lifetimeEpsilon absorbs float accumulation across ticks: sixty sums of
// 1/60 land a hair above 1.0, which must not expire a 1.0s bullet early.
const lifetimeEpsilon = 1e-9

var projectileHalfExtent = mathx.Vec3{X: 0.15, Y: 0.15, Z: 0.15}

// Projectile is one pool slot: Free -> Active -> Free.
type Projectile struct {
	Owner    string
	Position mathx.Vec3
	Velocity mathx.Vec3
	Elapsed  float64
	Active   bool
	Bounds   mathx.Box

	slot int
}

// Slot returns the fixed pool index of this projectile.
func (p *Projectile) Slot() int { return p.slot }

func (p *Projectile) refreshBounds() {
	p.Bounds = mathx.BoxAt(p.Position, projectileHalfExtent)
}

// Pool is a fixed-capacity projectile pool. No per-shot allocation: slots
// live in one backing array and are recycled when their occupant expires.
// A spawn with no free slot is silently dropped, never queued.
type Pool struct {
	slots    []Projectile
	speed    float64
	lifetime float64
	active   int
	scratch  []*Projectile
}

// NewPool builds a pool. Zero or negative arguments take the defaults.
func NewPool(capacity int, speed, lifetime float64) *Pool {
	if capacity <= 0 {
		capacity = DefaultPoolCapacity
	}
	if speed <= 0 {
		speed = DefaultBulletSpeed
	}
	if lifetime <= 0 {
		lifetime = DefaultBulletLifetime
	}
	p := &Pool{
		slots:    make([]Projectile, capacity),
		speed:    speed,
		lifetime: lifetime,
		scratch:  make([]*Projectile, 0, capacity),
	}
	for i := range p.slots {
		p.slots[i].slot = i
	}
	return p
}

func (p *Pool) Capacity() int     { return len(p.slots) }
func (p *Pool) ActiveCount() int  { return p.active }
func (p *Pool) Speed() float64    { return p.speed }
func (p *Pool) Lifetime() float64 { return p.lifetime }

// Spawn activates a free slot travelling in dir at the pool speed.
// Returns false when the direction is unusable or the pool is exhausted;
// the request is dropped either way.
func (p *Pool) Spawn(owner string, origin, dir mathx.Vec3) bool {
	dir = dir.Normalize()
	if dir.IsZero() {
		return false
	}
	return p.SpawnVelocity(owner, origin, dir.Scale(p.speed))
}

// SpawnVelocity activates a free slot with an explicit velocity, as
// reported by a remote bullet-fired event.
func (p *Pool) SpawnVelocity(owner string, origin, velocity mathx.Vec3) bool {
	for i := range p.slots {
		slot := &p.slots[i]
		if slot.Active {
			continue
		}
		slot.Owner = owner
		slot.Position = origin
		slot.Velocity = velocity
		slot.Elapsed = 0
		slot.Active = true
		slot.refreshBounds()
		p.active++
		return true
	}
	return false
}

// Step advances every active slot by dt. A slot whose elapsed lifetime
// strictly exceeds the bound returns to Free with its visible transform
// zeroed; the rest translate and refresh their bounding boxes. The
// returned slice (reused across calls) holds the still-active slots for
// external collision checks.
func (p *Pool) Step(dt float64) []*Projectile {
	p.scratch = p.scratch[:0]
	for i := range p.slots {
		slot := &p.slots[i]
		if !slot.Active {
			continue
		}
		slot.Elapsed += dt
		if slot.Elapsed > p.lifetime+lifetimeEpsilon {
			p.release(slot)
			continue
		}
		slot.Position = slot.Position.Add(slot.Velocity.Scale(dt))
		slot.refreshBounds()
		p.scratch = append(p.scratch, slot)
	}
	return p.scratch
}

func (p *Pool) release(slot *Projectile) {
	slot.Active = false
	slot.Owner = ""
	slot.Position = mathx.Vec3{}
	slot.Velocity = mathx.Vec3{}
	slot.Elapsed = 0
	slot.Bounds = mathx.Box{}
	p.active--
}

// FireGate throttles fire requests in wall-clock time, independent of
// pool occupancy: it limits requests, the pool enforces capacity. Both
// gates apply independently and neither compensates for the other.
type FireGate struct {
	limiter *rate.Limiter
}

// NewFireGate allows at most one accepted fire per cooldown window.
func NewFireGate(cooldown time.Duration) *FireGate {
	if cooldown <= 0 {
		cooldown = DefaultFireCooldown
	}
	return &FireGate{limiter: rate.NewLimiter(rate.Every(cooldown), 1)}
}

// CanFire reports whether a fire request is allowed right now.
func (g *FireGate) CanFire() bool {
	return g.CanFireAt(time.Now())
}

// CanFireAt is the testable form of CanFire.
func (g *FireGate) CanFireAt(now time.Time) bool {
	return g.limiter.AllowN(now, 1)
}
