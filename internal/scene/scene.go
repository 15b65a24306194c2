// Package scene declares the collaborator interfaces the simulation core
// drives: attaching visual entities to a presentation layer and building
// ship visuals asynchronously. The core never touches renderer state
// beyond these methods.
package scene

import "star-duel/internal/mathx"

// Visual is an opaque handle to an entity in the presentation layer.
type Visual interface {
	Name() string
}

// Renderer is the presentation collaborator.
type Renderer interface {
	Attach(v Visual)
	Detach(v Visual)
	SetTransform(v Visual, position, rotation mathx.Vec3)
}

// ShipFactory constructs a ship visual asynchronously. Construction may
// take multiple ticks; done must be delivered on the simulation goroutine
// (post it through the session inbox). A non-nil error means asset
// construction failed; callers fall back to a placeholder visual so
// gameplay state stays correct even when presentation degrades.
type ShipFactory interface {
	BuildShip(id, tint string, done func(Visual, error))
}

// Placeholder is the minimal visual used when asset construction fails,
// and the default body for headless sessions.
type Placeholder struct {
	name string
}

func NewPlaceholder(name string) Placeholder {
	return Placeholder{name: name}
}

func (p Placeholder) Name() string { return p.name }

// NullRenderer discards all presentation state. Used by headless sessions
// and tests that only care about simulation mutations.
type NullRenderer struct{}

func (NullRenderer) Attach(Visual)                               {}
func (NullRenderer) Detach(Visual)                               {}
func (NullRenderer) SetTransform(Visual, mathx.Vec3, mathx.Vec3) {}

// AsyncFactory runs a synchronous build function on its own goroutine and
// delivers completion through Post, which must enqueue onto the
// simulation inbox. This keeps construction fire-and-forget from the tick
// loop's perspective while the completion still runs between ticks.
type AsyncFactory struct {
	Build func(id, tint string) (Visual, error)
	Post  func(func())
}

func (f *AsyncFactory) BuildShip(id, tint string, done func(Visual, error)) {
	go func() {
		v, err := f.Build(id, tint)
		f.Post(func() { done(v, err) })
	}()
}
