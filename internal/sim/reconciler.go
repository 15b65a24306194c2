package sim

import (
	"hash/fnv"
	"log"

	"star-duel/internal/mathx"
	"star-duel/internal/scene"
)

// Tints assigned to remote hulls, picked by id hash so a player keeps
// the same color across reconnects.
var shipTints = []string{
	"#ff6b6b", "#4ecdc4", "#45b7d1", "#96ceb4",
	"#ffeaa7", "#fd79a8", "#00b894", "#6c5ce7",
}

// Reconciler funnels the inbound event stream into mutations on the
// remote-player map. Remote-entity construction is asynchronous and may
// take multiple ticks while events keep arriving for the same id; the
// pending set closes that race. Invariant: an id is in at most one of
// {remotes, pending} at any instant.
//
// All methods must run on the simulation goroutine. Completion callbacks
// from the factory re-check both maps instead of carrying a cancellation
// token: a Left that cleared the pending marker makes completion a no-op.
type Reconciler struct {
	localID string
	local   *Ship

	remotes map[string]*Ship
	// pending holds the latest known pose per id under construction, so
	// completion applies current state rather than a snapshot captured at
	// request time.
	pending map[string]PlayerEvent

	renderer scene.Renderer
	factory  scene.ShipFactory
	pool     *Pool
	journal  *Journal

	maxHealth float64
	tick      func() uint64

	// Hooks for the metrics surface; nil-safe.
	onEvent func(kind string)
}

// NewReconciler wires the reconciler to its collaborators. journal may
// be nil; tick supplies the current tick for journal entries.
func NewReconciler(local *Ship, renderer scene.Renderer, factory scene.ShipFactory, pool *Pool, journal *Journal, maxHealth float64, tick func() uint64) *Reconciler {
	if tick == nil {
		tick = func() uint64 { return 0 }
	}
	return &Reconciler{
		local:     local,
		remotes:   make(map[string]*Ship),
		pending:   make(map[string]PlayerEvent),
		renderer:  renderer,
		factory:   factory,
		pool:      pool,
		journal:   journal,
		maxHealth: maxHealth,
		tick:      tick,
	}
}

// SetLocalID records the id the server assigned to this session, so the
// reconciler can route events that reference the local player and discard
// echoes of its own fire events.
func (r *Reconciler) SetLocalID(id string) { r.localID = id }

// SetEventHook installs a callback invoked once per applied event kind.
func (r *Reconciler) SetEventHook(fn func(kind string)) { r.onEvent = fn }

// RemoteCount returns the number of finalized remote ships.
func (r *Reconciler) RemoteCount() int { return len(r.remotes) }

// PendingCount returns the number of constructions in flight.
func (r *Reconciler) PendingCount() int { return len(r.pending) }

// Remote returns a finalized remote ship, or nil.
func (r *Reconciler) Remote(id string) *Ship { return r.remotes[id] }

// Pending reports whether id has a construction in flight.
func (r *Reconciler) Pending(id string) bool {
	_, ok := r.pending[id]
	return ok
}

// ForEachRemote visits every finalized remote ship.
func (r *Reconciler) ForEachRemote(fn func(*Ship)) {
	for _, s := range r.remotes {
		fn(s)
	}
}

var _ EventSink = (*Reconciler)(nil)

// PlayerJoined handles a join. Joins can race moves for the same unseen
// id; both funnel through the same upsert path, so duplicates coalesce.
func (r *Reconciler) PlayerJoined(e PlayerEvent) {
	r.emit("joined")
	r.journal.Record(EntryJoin, r.tick(), e.ID, e)
	r.upsertRemote(e)
}

// PlayerMoved applies a pose. A move for an unseen id begins
// construction just like a join would; the payload restates the full
// pose, so overwrite order within the kind does not matter.
func (r *Reconciler) PlayerMoved(e PlayerEvent) {
	r.emit("moved")
	r.upsertRemote(e)
}

func (r *Reconciler) upsertRemote(e PlayerEvent) {
	if e.ID == "" || e.ID == r.localID {
		return
	}
	if ship, ok := r.remotes[e.ID]; ok {
		ship.SetPose(e.Position, e.Rotation, e.Velocity)
		if e.MaxHealth > 0 {
			ship.MaxHealth = e.MaxHealth
		}
		r.syncVisual(ship)
		return
	}
	if _, ok := r.pending[e.ID]; ok {
		// Construction in flight: keep the latest pose, never start a
		// second build.
		r.pending[e.ID] = e
		return
	}
	r.beginConstruction(e)
}

// PlayerRespawned resets a dead player. A respawn can outrun the join
// that should have constructed the entity, so an unknown id lazily
// constructs here instead of assuming construction already happened.
func (r *Reconciler) PlayerRespawned(e PlayerEvent) {
	r.emit("respawned")
	r.journal.Record(EntryRespawn, r.tick(), e.ID, e)

	if e.ID == r.localID && r.local != nil {
		r.local.ApplyRespawn(e)
		return
	}
	if ship, ok := r.remotes[e.ID]; ok {
		ship.ApplyRespawn(e)
		r.syncVisual(ship)
		return
	}
	if _, ok := r.pending[e.ID]; ok {
		r.pending[e.ID] = e
		return
	}
	r.beginConstruction(e)
}

// PlayerLeft tears the player down. The pending marker is cleared
// regardless of construction-in-flight status, which guarantees a player
// who disconnects mid-construction never materializes after departure.
func (r *Reconciler) PlayerLeft(id string) {
	if id == "" {
		return
	}
	r.emit("left")
	r.journal.Record(EntryLeave, r.tick(), id, nil)

	delete(r.pending, id)
	if ship, ok := r.remotes[id]; ok {
		r.teardown(ship)
		delete(r.remotes, id)
		log.Printf("🚪 Player left: %s", id)
	}
}

// PlayerDied freezes the local ship or removes a remote one. The local
// player is never removed, only frozen; it still observes the world.
// Unknown ids and duplicate deaths are no-ops.
func (r *Reconciler) PlayerDied(id string) {
	if id == "" {
		return
	}
	r.emit("died")

	if id == r.localID && r.local != nil {
		if r.local.ApplyDied() {
			r.journal.Record(EntryDeath, r.tick(), id, nil)
			log.Printf("💀 Local player destroyed")
		}
		return
	}
	delete(r.pending, id)
	ship, ok := r.remotes[id]
	if !ok {
		return
	}
	ship.ApplyDied()
	r.teardown(ship)
	delete(r.remotes, id)
	r.journal.Record(EntryDeath, r.tick(), id, nil)
	log.Printf("💀 Player destroyed: %s", id)
}

// PlayerHit restates health after damage. The server is authoritative
// for health; a hit for an unknown remote id has no entity to mutate and
// is ignored.
func (r *Reconciler) PlayerHit(e HitEvent) {
	r.emit("hit")

	ship := r.shipFor(e.ID)
	if ship == nil {
		return
	}
	ship.ApplyHit(e.Health, e.MaxHealth)
	r.journal.Record(EntryHit, r.tick(), e.ID, e)
}

// BulletFired spawns a visual projectile for a remote shot. The local
// player's own echo is discarded: the local fire path already created
// the projectile optimistically. A zero-length reported velocity falls
// back to unit forward so normalization never divides by zero.
func (r *Reconciler) BulletFired(e BulletEvent) {
	r.emit("bullet")

	if e.ID == r.localID {
		return
	}
	vel := e.Velocity
	if vel.IsZero() {
		vel = mathx.Forward(mathx.Vec3{}).Scale(r.pool.Speed())
	}
	if r.pool.SpawnVelocity(e.ID, e.Position, vel) {
		r.journal.Record(EntryFire, r.tick(), e.ID, e)
	}
}

func (r *Reconciler) shipFor(id string) *Ship {
	if id == r.localID && id != "" {
		return r.local
	}
	return r.remotes[id]
}

func (r *Reconciler) beginConstruction(e PlayerEvent) {
	r.pending[e.ID] = e
	id := e.ID
	log.Printf("🛠️ Building ship for %s", id)
	r.factory.BuildShip(id, tintFor(id), func(v scene.Visual, err error) {
		r.finishConstruction(id, v, err)
	})
}

// finishConstruction runs on the simulation goroutine when the factory
// completes. It re-checks both maps: if a Left cleared the pending marker
// or another build already finalized the id, the completion is a no-op.
func (r *Reconciler) finishConstruction(id string, v scene.Visual, err error) {
	latest, ok := r.pending[id]
	if !ok {
		return // left during construction, or superseded
	}
	if _, exists := r.remotes[id]; exists {
		delete(r.pending, id)
		return
	}
	if err != nil || v == nil {
		// Asset construction failed; gameplay state stays correct with a
		// degraded placeholder visual. Not retried.
		log.Printf("⚠️ Ship build failed for %s: %v (using placeholder)", id, err)
		v = scene.NewPlaceholder("ship:" + id)
	}

	maxHealth := latest.MaxHealth
	if maxHealth <= 0 {
		maxHealth = r.maxHealth
	}
	ship := NewShip(id, maxHealth)
	ship.SetPose(latest.Position, latest.Rotation, latest.Velocity)
	ship.Visual = v

	delete(r.pending, id)
	r.remotes[id] = ship

	if r.renderer != nil {
		r.renderer.Attach(v)
	}
	r.syncVisual(ship)
	log.Printf("👤 Player materialized: %s", id)
}

func (r *Reconciler) teardown(ship *Ship) {
	if r.renderer != nil && ship.Visual != nil {
		r.renderer.Detach(ship.Visual)
	}
	ship.Visual = nil
}

func (r *Reconciler) syncVisual(ship *Ship) {
	if r.renderer != nil && ship.Visual != nil {
		r.renderer.SetTransform(ship.Visual, ship.Position, ship.Rotation)
	}
}

func (r *Reconciler) emit(kind string) {
	if r.onEvent != nil {
		r.onEvent(kind)
	}
}

func tintFor(id string) string {
	h := fnv.New32a()
	h.Write([]byte(id))
	return shipTints[h.Sum32()%uint32(len(shipTints))]
}
