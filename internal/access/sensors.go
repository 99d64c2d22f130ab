// internal/access/sensors.go
package access

import (
	"time"

	"github.com/tamzrod/robotcore/internal/channel"
)

// Analog is an analog sensor slot. An absent slot reads 0.
type Analog struct {
	s    *channel.Sensors
	slot int
}

func (a *Analog) Value() float64 {
	if a.s.AnalogStatus(a.slot) == channel.StatusAbsent {
		return 0
	}
	return float64(a.s.AnalogValue(a.slot))
}

// Button is a digital sensor slot. An absent slot reads 0.
type Button struct {
	s    *channel.Sensors
	slot int
	now  func() time.Time
}

func (b *Button) Value() float64 { return digital(b.s, b.slot) }

func digital(s *channel.Sensors, slot int) float64 {
	if s.DigitalStatus(slot) == channel.StatusAbsent {
		return 0
	}
	return float64(s.DigitalValue(slot))
}

// Set writes the slot as valid. Used to release latched buttons.
func (b *Button) Set(v float64) {
	b.s.SetDigital(b.slot, int16(v), channel.StatusValid, channel.Seconds(b.now()))
}

// UpDown is up minus down.
type UpDown struct {
	s        *channel.Sensors
	up, down int
}

func (u *UpDown) Value() float64 {
	return digital(u.s, u.up) - digital(u.s, u.down)
}

// Clear zeroes the slot and marks it absent.
func (b *Button) Clear() {
	b.s.SetDigital(b.slot, 0, channel.StatusAbsent, channel.Seconds(b.now()))
}

// Counter reads the raw count.
type Counter struct {
	s    *channel.Sensors
	slot int
}

func (c *Counter) Value() float64 { return float64(c.s.CounterValue(c.slot)) }

// CounterRate reads the derived rate of change of a counter.
type CounterRate struct {
	s    *channel.Sensors
	slot int
}

func (c *CounterRate) Value() float64 { return float64(c.s.CounterRate(c.slot)) }
