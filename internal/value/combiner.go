// internal/value/combiner.go
package value

import "math"

// Combiner defaults.
const (
	DefaultDeadband       = 0.05
	DefaultSlowThreshold  = 0.2
	DefaultMedDecelFactor = 0.5
)

// SpeedDirectionCombiner mixes a forward demand with a steering correction
// for one wheel, shaping the result for motors that barely move at low torque
// and coast once moving.
type SpeedDirectionCombiner struct {
	forward Sum
	steer   Sum
	shape   Shape

	Deadband       float64
	SlowThreshold  float64
	MedDecelFactor float64
}

func NewSpeedDirectionCombiner(forward, steer Sum, shape Shape) *SpeedDirectionCombiner {
	return &SpeedDirectionCombiner{
		forward:        forward,
		steer:          steer,
		shape:          shape,
		Deadband:       DefaultDeadband,
		SlowThreshold:  DefaultSlowThreshold,
		MedDecelFactor: DefaultMedDecelFactor,
	}
}

// Combine is the unscaled mix of forward f and steer s.
//
//   - nearly stopped but steering: spin in place, sign(f)·f² + s
//   - steering against the direction of travel: c = f·MedDecelFactor + s, sign(c)·c²
//   - otherwise: sign(f+s)·(f+s)²
func (c *SpeedDirectionCombiner) Combine(f, s float64) float64 {
	if math.Abs(f) < c.SlowThreshold && math.Abs(s) > c.Deadband {
		return Sign(f)*f*f + s
	}
	if f*s < 0 && math.Abs(s) > c.Deadband {
		m := f*c.MedDecelFactor + s
		return Sign(m) * m * m
	}
	n := f + s
	return Sign(n) * n * n
}

func (c *SpeedDirectionCombiner) Value() float64 {
	return c.shape.Apply(c.Combine(c.forward.Value(), c.steer.Value()))
}
