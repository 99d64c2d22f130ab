// internal/access/controls.go
package access

import "github.com/tamzrod/robotcore/internal/channel"

// MotorTorque is the requested torque of one motor.
type MotorTorque struct {
	m     *channel.Motors
	motor int
}

func (t *MotorTorque) Set(v float64)  { t.m.SetRequiredTorque(t.motor, v) }
func (t *MotorTorque) Value() float64 { return t.m.RequiredTorque(t.motor) }

// MotorSpeed writes the requested speed and reads back the measured speed.
type MotorSpeed struct {
	m     *channel.Motors
	motor int
}

func (s *MotorSpeed) Set(v float64)  { s.m.SetRequiredSpeed(s.motor, v) }
func (s *MotorSpeed) Value() float64 { return s.m.CurrentSpeed(s.motor) }

// MotorPosition reads the encoder position. Set rewrites it, which is how a
// zero point is taken.
type MotorPosition struct {
	m     *channel.Motors
	motor int
}

func (p *MotorPosition) Set(v float64)  { p.m.SetCurrentPosition(p.motor, int64(v)) }
func (p *MotorPosition) Value() float64 { return float64(p.m.CurrentPosition(p.motor)) }

// MotorMode selects torque, speed or position control in the driver.
type MotorMode struct {
	m     *channel.Motors
	motor int
}

func (c *MotorMode) Set(v float64)  { c.m.SetMode(c.motor, uint16(v)) }
func (c *MotorMode) Value() float64 { return float64(c.m.Mode(c.motor)) }

// Servo writes a position clamped to -1..1 and marks the servo powered.
type Servo struct {
	s     *channel.Servos
	servo int
}

func (s *Servo) Set(v float64) {
	v = max(-1, min(1, v))
	s.s.SetPosition(s.servo, v, channel.StatusValid)
}

func (s *Servo) Value() float64 { return s.s.Position(s.servo) }

// Off unpowers the servo, keeping its last position.
func (s *Servo) Off() {
	s.s.SetPosition(s.servo, s.s.Position(s.servo), channel.StatusAbsent)
}

// LED writes a 0..255 level to a simple output.
type LED struct {
	c       *channel.Simple
	control int
}

func (l *LED) Set(v float64) {
	v = max(0, min(255, v))
	l.c.SetValue(l.control, uint8(v), channel.SimpleValued)
}

func (l *LED) Value() float64 { return float64(l.c.Value(l.control)) }
