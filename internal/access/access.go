// internal/access/access.go
package access

import (
	"time"

	"github.com/tamzrod/robotcore/internal/channel"
	"github.com/tamzrod/robotcore/internal/value"
)

// Factory builds leaf nodes and output setters over one channel bundle.
type Factory struct {
	b   *channel.Bundle
	now func() time.Time
}

func New(b *channel.Bundle) *Factory {
	return &Factory{b: b, now: time.Now}
}

// WithClock sets the clock used to stamp sensor writes.
func (f *Factory) WithClock(now func() time.Time) *Factory {
	f.now = now
	return f
}

func (f *Factory) Bundle() *channel.Bundle { return f.b }

// ---- SENSORS ----

// Axis reads a joystick axis (-1..1) from an analog slot.
func (f *Factory) Axis(slot int) *Analog { return f.Analog(slot) }

// Analog reads an analog sensor slot.
func (f *Factory) Analog(slot int) *Analog { return &Analog{s: f.b.Sensors, slot: slot} }

// Button reads a digital slot as 0/1 and can write it back.
func (f *Factory) Button(slot int) *Button {
	return &Button{s: f.b.Sensors, slot: slot, now: f.now}
}

// UpDown reads -1, 0 or 1 from a pair of buttons.
func (f *Factory) UpDown(up, down int) value.Node {
	return &UpDown{s: f.b.Sensors, up: up, down: down}
}

func (f *Factory) Counter(slot int) value.Node { return &Counter{s: f.b.Sensors, slot: slot} }

func (f *Factory) CounterRate(slot int) value.Node { return &CounterRate{s: f.b.Sensors, slot: slot} }

// ---- MOTORS ----

func (f *Factory) MotorPosition(motor int) *MotorPosition {
	return &MotorPosition{m: f.b.Motors, motor: motor}
}

func (f *Factory) MotorSpeed(motor int) *MotorSpeed {
	return &MotorSpeed{m: f.b.Motors, motor: motor}
}

func (f *Factory) Motor(motor int) *MotorTorque {
	return &MotorTorque{m: f.b.Motors, motor: motor}
}

func (f *Factory) MotorMode(motor int) *MotorMode {
	return &MotorMode{m: f.b.Motors, motor: motor}
}

// ---- OUTPUTS ----

func (f *Factory) Servo(servo int) *Servo { return &Servo{s: f.b.Servos, servo: servo} }

func (f *Factory) LED(control int) *LED { return &LED{c: f.b.Simple, control: control} }

// ---- VISION ----

// Image returns the result slot of the image analysis channel.
func (f *Factory) Image(slot int) *ImageResult { return &ImageResult{c: f.b.Image, slot: slot} }

func (f *Factory) LineHeading() *LineHeading { return &LineHeading{c: f.b.Line} }
