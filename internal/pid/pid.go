// internal/pid/pid.go
package pid

import (
	"math"
	"time"
)

// Config holds the tunable parameters of a controller.
type Config struct {
	Kp, Ki, Kd float64

	// SampleTime is the minimum interval between recomputations.
	// Calls arriving sooner return the previous output. Zero disables the check.
	SampleTime time.Duration

	// Output limits. Both zero means unlimited.
	OutputMin, OutputMax float64

	// ProportionalOnMeasurement drives the proportional term from changes in the
	// measurement instead of the error, avoiding a kick on setpoint changes.
	ProportionalOnMeasurement bool
}

// Controller is a PID controller with anti-windup and a runtime enable switch.
// Not safe for concurrent use; it is owned by one value node.
type Controller struct {
	cfg      Config
	setpoint float64
	enabled  bool

	proportional float64
	integral     float64
	derivative   float64

	lastInput  float64
	lastOutput float64
	lastTime   time.Time
	primed     bool // lastInput/lastOutput hold values

	now func() time.Time
}

// New returns an enabled controller with setpoint 0.
func New(cfg Config) *Controller {
	return NewWithClock(cfg, time.Now)
}

// NewWithClock is New with an injected clock.
func NewWithClock(cfg Config, now func() time.Time) *Controller {
	c := &Controller{cfg: cfg, enabled: true, now: now}
	c.lastTime = now()
	return c
}

func (c *Controller) Setpoint() float64     { return c.setpoint }
func (c *Controller) SetSetpoint(v float64) { c.setpoint = v }
func (c *Controller) Enabled() bool         { return c.enabled }
func (c *Controller) Config() Config        { return c.cfg }

// SetTunings replaces the gains.
func (c *Controller) SetTunings(kp, ki, kd float64) {
	c.cfg.Kp, c.cfg.Ki, c.cfg.Kd = kp, ki, kd
}

// Components returns the last proportional, integral and derivative terms.
func (c *Controller) Components() (p, i, d float64) {
	return c.proportional, c.integral, c.derivative
}

// Update computes a new output for measurement input using the wall clock.
func (c *Controller) Update(input float64) float64 {
	now := c.now()
	dt := now.Sub(c.lastTime).Seconds()
	if dt <= 0 {
		dt = 1e-16
	}
	if c.primed && c.cfg.SampleTime > 0 && dt < c.cfg.SampleTime.Seconds() {
		return c.lastOutput
	}
	out := c.step(input, dt)
	c.lastTime = now
	return out
}

// UpdateDT computes a new output with an explicit time step in seconds,
// bypassing the sample time check.
func (c *Controller) UpdateDT(input, dt float64) float64 {
	if dt <= 0 {
		dt = 1e-16
	}
	out := c.step(input, dt)
	c.lastTime = c.now()
	return out
}

func (c *Controller) step(input, dt float64) float64 {
	if !c.enabled {
		return c.lastOutput
	}

	err := c.setpoint - input
	dInput := 0.0
	if c.primed {
		dInput = input - c.lastInput
	}

	if c.cfg.ProportionalOnMeasurement {
		c.proportional -= c.cfg.Kp * dInput
	} else {
		c.proportional = c.cfg.Kp * err
	}

	c.integral += c.cfg.Ki * err * dt
	c.integral = c.clamp(c.integral)

	c.derivative = -c.cfg.Kd * dInput / dt

	out := c.clamp(c.proportional + c.integral + c.derivative)

	c.lastOutput = out
	c.lastInput = input
	c.primed = true
	return out
}

// Enable switches the controller on. Turning on from off resets internal
// state and seeds the integral with lastOutput for a bumpless start.
func (c *Controller) Enable(lastOutput float64) {
	if c.enabled {
		return
	}
	c.Reset()
	c.integral = c.clamp(lastOutput)
	c.enabled = true
}

// Disable freezes the controller: Update returns the last output until enabled.
func (c *Controller) Disable() {
	c.enabled = false
}

// Reset clears all accumulated state.
func (c *Controller) Reset() {
	c.proportional = 0
	c.integral = 0
	c.derivative = 0
	c.lastInput = 0
	c.lastOutput = 0
	c.primed = false
	c.lastTime = c.now()
}

// ClearIntegral drops the accumulated integral term.
func (c *Controller) ClearIntegral() {
	c.integral = 0
}

func (c *Controller) clamp(v float64) float64 {
	if c.cfg.OutputMin == 0 && c.cfg.OutputMax == 0 {
		return v
	}
	return math.Max(c.cfg.OutputMin, math.Min(c.cfg.OutputMax, v))
}
