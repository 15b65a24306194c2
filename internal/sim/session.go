package sim

import (
	"log"
	"sync"
	"time"

	"star-duel/internal/input"
	"star-duel/internal/mathx"
	"star-duel/internal/scene"
)

// Muzzle offset in front of the hull so a shot never spawns inside the
// firing ship's own bounding box.
const muzzleOffset = 1.2

// Outbound carries the session's two outgoing intents.
type Outbound interface {
	SendUpdate(position, rotation, velocity mathx.Vec3) error
	SendFire(position, velocity mathx.Vec3) error
}

// Config holds the simulation knobs. The caller maps these from the
// config package; zero values take the defaults.
type Config struct {
	TickRate     int           // fixed steps per second
	MaxFrameTime float64       // accumulation clamp, seconds
	Profile      Profile       // motion constants for the session's device class
	MaxHealth    float64       // starting and default max health
	PoolCapacity int           // projectile slots
	BulletSpeed  float64       // units/s
	BulletLife   float64       // seconds
	FireCooldown time.Duration // wall-clock gate between accepted fires
	SendInterval time.Duration // outbound transform cadence, wall clock
}

func (c Config) withDefaults() Config {
	if c.TickRate <= 0 {
		c.TickRate = 60
	}
	if c.MaxFrameTime <= 0 {
		c.MaxFrameTime = 0.25
	}
	if c.Profile.MaxVelocity <= 0 {
		c.Profile = PointerProfile()
	}
	if c.MaxHealth <= 0 {
		c.MaxHealth = 100
	}
	if c.SendInterval <= 0 {
		c.SendInterval = 50 * time.Millisecond
	}
	return c
}

// Hooks are optional observability callbacks; all nil-safe.
type Hooks struct {
	TickDone   func(d time.Duration)
	FireDenied func(reason string)
	Event      func(kind string)
}

// Deps are the session's collaborators.
type Deps struct {
	Input    input.Source
	Renderer scene.Renderer
	Factory  scene.ShipFactory
	Outbound Outbound
	Journal  *Journal
	Hooks    Hooks
}

// Session owns the whole simulation: the local ship, the fixed-step
// scheduler, the projectile pool, the reconciler and the outbound
// sampler. It is created at session start and torn down at session end;
// nothing here is ambient. All mutation happens on the goroutine that
// calls Frame; transport and factory callbacks enter through Post.
type Session struct {
	mu  sync.Mutex // guards Snapshot readers against the Frame goroutine
	cfg Config

	local *Ship
	sched *Scheduler
	integ *Integrator
	pool  *Pool
	gate  *FireGate
	rec   *Reconciler

	source  input.Source
	render  scene.Renderer
	out     Outbound
	journal *Journal
	hooks   Hooks

	inbox chan func()

	online   bool
	now      time.Time
	lastSend time.Time
}

// NewSession builds a session. Renderer and Outbound may be nil for
// headless or offline operation.
func NewSession(cfg Config, deps Deps) *Session {
	cfg = cfg.withDefaults()

	s := &Session{
		cfg:     cfg,
		pool:    NewPool(cfg.PoolCapacity, cfg.BulletSpeed, cfg.BulletLife),
		gate:    NewFireGate(cfg.FireCooldown),
		source:  deps.Input,
		render:  deps.Renderer,
		out:     deps.Outbound,
		journal: deps.Journal,
		hooks:   deps.Hooks,
		inbox:   make(chan func(), 1024),
	}
	if s.source == nil {
		s.source = input.Neutral
	}
	if s.render == nil {
		s.render = scene.NullRenderer{}
	}

	s.local = NewShip("", cfg.MaxHealth)
	s.local.Visual = scene.NewPlaceholder("ship:local")
	s.render.Attach(s.local.Visual)

	s.integ = NewIntegrator(cfg.Profile)
	s.sched = NewScheduler(cfg.TickRate, cfg.MaxFrameTime, s.step)

	factory := deps.Factory
	if factory == nil {
		factory = &scene.AsyncFactory{
			Build: func(id, tint string) (scene.Visual, error) {
				return scene.NewPlaceholder("ship:" + id), nil
			},
			Post: s.Post,
		}
	}
	s.rec = NewReconciler(s.local, s.render, factory, s.pool, s.journal, cfg.MaxHealth, s.sched.Ticks)
	if s.hooks.Event != nil {
		s.rec.SetEventHook(s.hooks.Event)
	}
	return s
}

// Local returns the session-owned ship.
func (s *Session) Local() *Ship { return s.local }

// Pool returns the projectile pool.
func (s *Session) Pool() *Pool { return s.pool }

// Reconciler returns the event sink for the transport. Its methods must
// only be invoked from closures delivered through Post.
func (s *Session) Reconciler() *Reconciler { return s.rec }

// Post enqueues fn onto the run-to-completion inbox. Queued work runs at
// the start of the next Frame, never interleaved with an in-progress
// tick. Blocks when the inbox is full; that backpressures the transport
// goroutine, not the simulation.
func (s *Session) Post(fn func()) {
	s.inbox <- fn
}

// SetOnline flips transport availability. Going offline suppresses
// outbound sends; the local simulation continues unauthoritatively since
// health, death and respawn authority lives on the absent server.
func (s *Session) SetOnline(online bool) {
	s.Post(func() {
		if s.online && !online {
			s.journal.Record(EntryOffline, s.sched.Ticks(), "", nil)
			log.Printf("📡 Transport offline, outbound sends suppressed")
		}
		s.online = online
	})
}

// SetOutbound installs the transport after construction. The transport
// needs the session's Post and Reconciler to be built, so it cannot be
// passed through Deps when the two are wired together.
func (s *Session) SetOutbound(out Outbound) {
	s.Post(func() { s.out = out })
}

// SetLocalID records the server-assigned player id.
func (s *Session) SetLocalID(id string) {
	s.Post(func() { s.rec.SetLocalID(id) })
}

// Frame is the per-render-frame entry point: drain queued handlers, run
// zero or more fixed steps, sync visuals once, then sample the outbound
// transform on its own wall-clock cadence (decoupled from the fixed-step
// accumulator, so network chatter does not scale with frame rate).
func (s *Session) Frame(now time.Time, elapsed float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.now = now
	s.drainInbox()

	start := time.Now()
	s.sched.Advance(elapsed)
	if s.hooks.TickDone != nil {
		s.hooks.TickDone(time.Since(start))
	}

	s.syncVisuals()

	if s.online && s.out != nil && now.Sub(s.lastSend) >= s.cfg.SendInterval {
		s.lastSend = now
		if err := s.out.SendUpdate(s.local.Position, s.local.Rotation, s.local.Velocity); err != nil {
			log.Printf("⚠️ Update send failed: %v", err)
		}
	}
}

func (s *Session) drainInbox() {
	for {
		select {
		case fn := <-s.inbox:
			fn()
		default:
			return
		}
	}
}

// step is the fixed-step tick. It must never raise: one failed tick
// would desynchronize the fixed-step contract for the rest of the
// session.
func (s *Session) step(dt float64) {
	intent := s.source.Intent()

	if s.local.State == StateAlive {
		pitch := axis(intent.PitchUp) - axis(intent.PitchDown)
		yaw := axis(intent.YawLeft) - axis(intent.YawRight)
		if pitch != 0 || yaw != 0 {
			s.integ.Steer(s.local, pitch, yaw, dt)
		}
		if intent.Accelerate {
			s.integ.Accelerate(s.local, dt)
		} else {
			s.integ.Decelerate(s.local, dt)
		}
		if intent.Fire {
			s.fire()
		}
	} else {
		// Dead: input-driven thrust is frozen, drag still applies.
		s.integ.Decelerate(s.local, dt)
	}

	s.integ.Integrate(s.local, dt)
	s.pool.Step(dt)
}

// fire runs both gates independently: the cooldown throttles requests,
// the pool enforces capacity. A request denied by either is dropped
// silently and never carried over.
func (s *Session) fire() {
	if !s.gate.CanFireAt(s.now) {
		s.denyFire("cooldown")
		return
	}
	forward := s.local.Forward()
	origin := s.local.Position.Add(forward.Scale(muzzleOffset))
	if !s.pool.Spawn(LocalOwner, origin, forward) {
		s.denyFire("pool")
		return
	}
	velocity := forward.Scale(s.pool.Speed())
	s.journal.Record(EntryFire, s.sched.Ticks(), LocalOwner, BulletEvent{Position: origin, Velocity: velocity})
	if s.online && s.out != nil {
		if err := s.out.SendFire(origin, velocity); err != nil {
			log.Printf("⚠️ Fire send failed: %v", err)
		}
	}
}

func (s *Session) denyFire(reason string) {
	s.journal.Record(EntryFireDropped, s.sched.Ticks(), LocalOwner, map[string]string{"reason": reason})
	if s.hooks.FireDenied != nil {
		s.hooks.FireDenied(reason)
	}
}

// syncVisuals pushes transforms to the renderer once per frame, after
// the tick loop drains. No rendering happens between ticks of one frame.
func (s *Session) syncVisuals() {
	s.render.SetTransform(s.local.Visual, s.local.Position, s.local.Rotation)
	s.rec.ForEachRemote(func(ship *Ship) {
		if ship.Visual != nil {
			s.render.SetTransform(ship.Visual, ship.Position, ship.Rotation)
		}
	})
}

// Snapshot copies the current state for the debug API. Safe to call from
// other goroutines.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Tick:          s.sched.Ticks(),
		Online:        s.online,
		PendingBuilds: s.rec.PendingCount(),
		Ships:         make([]ShipSnapshot, 0, 1+s.rec.RemoteCount()),
		Projectiles:   make([]ProjectileSnapshot, 0, s.pool.ActiveCount()),
	}
	snap.Ships = append(snap.Ships, shipSnapshot(s.local, true))
	s.rec.ForEachRemote(func(ship *Ship) {
		snap.Ships = append(snap.Ships, shipSnapshot(ship, false))
	})
	for i := 0; i < s.pool.Capacity(); i++ {
		// Walk the backing array directly; Step's scratch slice is only
		// valid on the sim goroutine mid-frame.
		slot := &s.pool.slots[i]
		if !slot.Active {
			continue
		}
		snap.Projectiles = append(snap.Projectiles, ProjectileSnapshot{
			Owner:    slot.Owner,
			Slot:     slot.slot,
			Position: slot.Position,
			Velocity: slot.Velocity,
			Elapsed:  slot.Elapsed,
		})
	}
	return snap
}

func shipSnapshot(ship *Ship, local bool) ShipSnapshot {
	return ShipSnapshot{
		ID:        ship.ID,
		Local:     local,
		Position:  ship.Position,
		Rotation:  ship.Rotation,
		Velocity:  ship.Velocity,
		Health:    ship.Health,
		MaxHealth: ship.MaxHealth,
		State:     ship.State.String(),
	}
}

func axis(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
