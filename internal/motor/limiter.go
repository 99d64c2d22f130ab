// internal/motor/limiter.go
package motor

// Default limiter settings.
const (
	DefaultMaxTorque   = 1.0
	DefaultDeltaTorque = 0.025
)

// Limiter slews a motor's torque towards the requested value by at most
// Delta per update and never beyond ±Max.
type Limiter struct {
	Max   float64
	Delta float64

	current float64
}

func NewLimiter(max, delta float64) *Limiter {
	return &Limiter{Max: max, Delta: delta}
}

// Step moves towards requested and returns the new torque.
func (l *Limiter) Step(requested float64) float64 {
	switch {
	case requested > l.current:
		l.current += min(requested-l.current, l.Delta)
		if l.current > l.Max {
			l.current = l.Max
		}
	case requested < l.current:
		l.current -= min(l.current-requested, l.Delta)
		if l.current < -l.Max {
			l.current = -l.Max
		}
	}
	return l.current
}

// Current returns the torque last produced.
func (l *Limiter) Current() float64 { return l.current }
