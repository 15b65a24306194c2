package sim

// Scheduler decouples wall-clock frame delivery from simulation steps.
// Frames feed elapsed wall time into Advance; the tick callback always
// receives the same constant delta, regardless of actual frame rate.
type Scheduler struct {
	step        float64
	maxFrame    float64
	accumulator float64
	tick        func(dt float64)

	ticks   uint64
	clamped uint64
}

// NewScheduler builds a fixed-step scheduler. tickRate is steps per
// second; maxFrame bounds how much wall time a single frame may
// contribute, which prevents a spiral of death after a stall (for
// example a backgrounded tab).
func NewScheduler(tickRate int, maxFrame float64, tick func(dt float64)) *Scheduler {
	if tickRate <= 0 {
		tickRate = 60
	}
	if maxFrame <= 0 {
		maxFrame = 0.25
	}
	return &Scheduler{
		step:     1.0 / float64(tickRate),
		maxFrame: maxFrame,
		tick:     tick,
	}
}

// Advance accumulates elapsed seconds and runs the tick callback once per
// full step held in the accumulator. Returns the number of ticks run.
func (sc *Scheduler) Advance(elapsed float64) int {
	if elapsed < 0 {
		return 0
	}
	if elapsed > sc.maxFrame {
		elapsed = sc.maxFrame
		sc.clamped++
	}
	sc.accumulator += elapsed

	n := 0
	for sc.accumulator >= sc.step {
		sc.tick(sc.step)
		sc.accumulator -= sc.step
		n++
		sc.ticks++
	}
	return n
}

// Step returns the constant per-tick delta in seconds.
func (sc *Scheduler) Step() float64 { return sc.step }

// Ticks returns the total number of ticks run so far.
func (sc *Scheduler) Ticks() uint64 { return sc.ticks }

// SimulatedTime returns total simulated seconds.
func (sc *Scheduler) SimulatedTime() float64 {
	return float64(sc.ticks) * sc.step
}

// ClampCount returns how many frames hit the accumulation bound.
func (sc *Scheduler) ClampCount() uint64 { return sc.clamped }
