// Package input resolves physical input into intent snapshots.
// The simulation core never touches devices directly; it polls a Source
// once per tick and steers from whatever the snapshot says.
package input

import "strings"

// Intent is a single resolved read of current input state, independent of
// its physical source (keyboard, touch overlay, gamepad, replay script).
type Intent struct {
	PitchUp    bool
	PitchDown  bool
	YawLeft    bool
	YawRight   bool
	Accelerate bool
	Fire       bool
}

// Source provides the intent snapshot for the current tick.
type Source interface {
	Intent() Intent
}

// Func adapts a plain function to a Source.
type Func func() Intent

func (f Func) Intent() Intent { return f() }

// Neutral is a source that never requests anything.
var Neutral Source = Func(func() Intent { return Intent{} })

// DeviceClass distinguishes precise pointer input from coarse (touch)
// input. Damping and turn-rate constants differ per class; the class is
// resolved once per session, never re-derived per frame.
type DeviceClass int

const (
	DevicePointer DeviceClass = iota
	DeviceCoarse
)

func (c DeviceClass) String() string {
	if c == DeviceCoarse {
		return "coarse"
	}
	return "pointer"
}

// ParseDeviceClass maps a config string to a device class.
// Unknown values fall back to pointer.
func ParseDeviceClass(s string) DeviceClass {
	switch strings.ToLower(s) {
	case "coarse", "touch":
		return DeviceCoarse
	default:
		return DevicePointer
	}
}

// ScriptStep holds one intent for a number of consecutive ticks.
type ScriptStep struct {
	Ticks  int
	Intent Intent
}

// Script replays a fixed intent sequence, one snapshot per poll.
// After the last step it keeps returning a neutral intent.
// Used by the demo binary and by deterministic tests.
type Script struct {
	steps []ScriptStep
	idx   int
	used  int
	loop  bool
}

// NewScript builds a one-shot script.
func NewScript(steps ...ScriptStep) *Script {
	return &Script{steps: steps}
}

// NewLoopingScript builds a script that restarts after the last step.
func NewLoopingScript(steps ...ScriptStep) *Script {
	return &Script{steps: steps, loop: true}
}

func (s *Script) Intent() Intent {
	for s.idx < len(s.steps) {
		step := s.steps[s.idx]
		if s.used < step.Ticks {
			s.used++
			return step.Intent
		}
		s.idx++
		s.used = 0
		if s.idx >= len(s.steps) && s.loop {
			s.idx = 0
		}
	}
	return Intent{}
}
