// internal/value/piderror.go
package value

import (
	"math"

	"github.com/tamzrod/robotcore/internal/pid"
)

// PIDError feeds a measurement through a PID controller and shapes the output.
//
// With integrate unset the shaped output is returned directly, which suits
// positioning. With integrate set the output is added to a bounded running
// total, which suits speed regulation.
type PIDError struct {
	ctrl      *pid.Controller
	in        Node
	shape     Shape
	integrate bool
	acc       float64
}

func NewPIDError(ctrl *pid.Controller, in Node, shape Shape, integrate bool) *PIDError {
	return &PIDError{ctrl: ctrl, in: in, shape: shape, integrate: integrate}
}

func (e *PIDError) Value() float64 {
	out := e.ctrl.Update(e.in.Value()) * e.shape.Scaling
	return shapeError(out, &e.acc, e.shape, e.integrate)
}

// SetTarget changes the controller setpoint.
func (e *PIDError) SetTarget(v float64) { e.ctrl.SetSetpoint(v) }

// Target returns the controller setpoint.
func (e *PIDError) Target() float64 { return e.ctrl.Setpoint() }

// Controller exposes the wrapped controller.
func (e *PIDError) Controller() *pid.Controller { return e.ctrl }

// Reset clears the running total and the controller state.
func (e *PIDError) Reset() {
	e.acc = 0
	e.ctrl.Reset()
}

// Enable switches the controller on from a clean state.
func (e *PIDError) Enable() { e.ctrl.Enable(0) }

// Disable freezes the controller at its last output.
func (e *PIDError) Disable() { e.ctrl.Disable() }

func shapeError(out float64, acc *float64, s Shape, integrate bool) float64 {
	lo, hi := s.Min-s.Offset, s.Max-s.Offset
	if integrate {
		*acc = Clamp(*acc+out, lo, hi)
		return *acc + s.Offset
	}
	return Clamp(out, lo, hi) + s.Offset
}

// ----------------------------------------------------------------------------
// Heading
// ----------------------------------------------------------------------------

// NormaliseHeading maps degrees into (-180, 180].
func NormaliseHeading(h float64) float64 {
	h = math.Mod(h, 360)
	if h > 180 {
		h -= 360
	} else if h <= -180 {
		h += 360
	}
	return h
}

// HeadingPIDError drives a heading towards a target. The controller sees the
// wrapped difference current-target against a setpoint of zero, so a target
// across the ±180° seam is reached the short way round.
type HeadingPIDError struct {
	ctrl      *pid.Controller
	current   Node
	target    float64
	shape     Shape
	integrate bool
	acc       float64

	// ClampIAt clears the controller integral while |difference| exceeds it.
	// Zero disables the check.
	ClampIAt float64
}

func NewHeadingPIDError(current Node, ctrl *pid.Controller, target float64, shape Shape, integrate bool) *HeadingPIDError {
	ctrl.SetSetpoint(0)
	return &HeadingPIDError{
		ctrl:      ctrl,
		current:   current,
		target:    NormaliseHeading(target),
		shape:     shape,
		integrate: integrate,
	}
}

// Difference returns the wrapped heading error without updating the controller.
func (e *HeadingPIDError) Difference() float64 {
	return NormaliseHeading(e.current.Value() - e.target)
}

func (e *HeadingPIDError) Value() float64 {
	diff := e.Difference()
	if e.ClampIAt > 0 && math.Abs(diff) > e.ClampIAt {
		e.ctrl.ClearIntegral()
	}
	out := e.ctrl.Update(diff) * e.shape.Scaling
	return shapeError(out, &e.acc, e.shape, e.integrate)
}

func (e *HeadingPIDError) SetTarget(h float64) { e.target = NormaliseHeading(h) }
func (e *HeadingPIDError) Target() float64     { return e.target }

func (e *HeadingPIDError) Controller() *pid.Controller { return e.ctrl }

func (e *HeadingPIDError) Reset() {
	e.acc = 0
	e.ctrl.Reset()
}

func (e *HeadingPIDError) Enable()  { e.ctrl.Enable(0) }
func (e *HeadingPIDError) Disable() { e.ctrl.Disable() }
