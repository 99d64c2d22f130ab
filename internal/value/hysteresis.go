// internal/value/hysteresis.go
package value

import "time"

// Edge configures a threshold crossing detector.
type Edge struct {
	Threshold  float64
	Hysteresis float64
	Rising     bool
}

// Button is the edge used for 0/1 buttons: rising through 0.5.
func Button() Edge {
	return Edge{Threshold: 0.5, Rising: true}
}

// Levels are the two outputs of a trigger node.
type Levels struct {
	On  float64
	Off float64
}

// Binary is On=1, Off=0.
func Binary() Levels {
	return Levels{On: 1, Off: 0}
}

// crossing detects one crossing of the threshold per excursion.
//
// Rising: fires when the input reaches Threshold having previously been
// below Threshold-Hysteresis. The lowest point since the last firing is
// tracked so a small dip does not re-arm it. Falling mirrors this.
type crossing struct {
	in   Node
	edge Edge
	last float64
}

func (c *crossing) update() bool {
	raw := c.in.Value()
	e := c.edge
	if e.Rising {
		if raw >= e.Threshold && c.last < e.Threshold-e.Hysteresis {
			c.last = raw
			return true
		}
		if raw < c.last {
			c.last = raw
		}
		return false
	}
	if raw <= e.Threshold && c.last > e.Threshold+e.Hysteresis {
		c.last = raw
		return true
	}
	if raw > c.last {
		c.last = raw
	}
	return false
}

// ----------------------------------------------------------------------------
// Toggle
// ----------------------------------------------------------------------------

// Toggle flips between Off and On at every crossing.
type Toggle struct {
	crossing
	levels  Levels
	current float64
}

func NewToggle(in Node, edge Edge, levels Levels) *Toggle {
	return &Toggle{crossing: crossing{in: in, edge: edge}, levels: levels, current: levels.Off}
}

func (t *Toggle) Value() float64 {
	if t.update() {
		if t.current == t.levels.Off {
			t.current = t.levels.On
		} else {
			t.current = t.levels.Off
		}
	}
	return t.current
}

func (t *Toggle) Reset() { t.current = t.levels.Off }

// ----------------------------------------------------------------------------
// OneShot
// ----------------------------------------------------------------------------

// OneShot reads On for the single read on which a crossing happens, Off otherwise.
type OneShot struct {
	crossing
	levels Levels
}

func NewOneShot(in Node, edge Edge, levels Levels) *OneShot {
	return &OneShot{crossing: crossing{in: in, edge: edge}, levels: levels}
}

func (o *OneShot) Value() float64 {
	if o.update() {
		return o.levels.On
	}
	return o.levels.Off
}

// ----------------------------------------------------------------------------
// TimedTrigger
// ----------------------------------------------------------------------------

// TimedTrigger outputs On for Pulse after a crossing. A crossing during a
// pulse restarts it only when retriggerable.
type TimedTrigger struct {
	crossing
	levels        Levels
	pulse         time.Duration
	retriggerable bool

	current float64
	started time.Time
	running bool
	now     func() time.Time
}

// NewTimedTrigger builds a TimedTrigger. A nil clock means time.Now.
func NewTimedTrigger(in Node, edge Edge, levels Levels, pulse time.Duration, retriggerable bool, now func() time.Time) *TimedTrigger {
	if now == nil {
		now = time.Now
	}
	return &TimedTrigger{
		crossing:      crossing{in: in, edge: edge},
		levels:        levels,
		pulse:         pulse,
		retriggerable: retriggerable,
		current:       levels.Off,
		now:           now,
	}
}

func (t *TimedTrigger) Value() float64 {
	if t.running && t.now().Sub(t.started) >= t.pulse {
		t.current = t.levels.Off
		t.running = false
	}
	if t.update() {
		switch {
		case !t.running:
			t.current = t.levels.On
			t.started = t.now()
			t.running = true
		case t.retriggerable:
			t.started = t.now()
		}
	}
	return t.current
}

func (t *TimedTrigger) Reset() {
	t.current = t.levels.Off
	t.running = false
}
