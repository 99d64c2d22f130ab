// internal/value/integrator.go
package value

// Integrator accumulates scaled input on every read.
// The accumulator is bounded so that accumulator+Offset stays within [Min, Max].
type Integrator struct {
	in    Sum
	shape Shape
	acc   float64
}

func NewIntegrator(in Sum, shape Shape) *Integrator {
	return &Integrator{in: in, shape: shape}
}

func (i *Integrator) Value() float64 {
	i.acc += i.in.Value() * i.shape.Scaling
	i.acc = Clamp(i.acc, i.shape.Min-i.shape.Offset, i.shape.Max-i.shape.Offset)
	return i.acc + i.shape.Offset
}

// Set moves the accumulator so the next read starts from v.
func (i *Integrator) Set(v float64) {
	i.acc = Clamp(v, i.shape.Min, i.shape.Max) - i.shape.Offset
}

func (i *Integrator) Reset() { i.acc = 0 }

// StepUpDown steps a held value by Scaling each time the up-minus-down
// button reading changes.
type StepUpDown struct {
	up, down Node
	shape    Shape
	acc      float64
	buttons  float64
}

func NewStepUpDown(up, down Node, shape Shape) *StepUpDown {
	return &StepUpDown{up: up, down: down, shape: shape}
}

func (s *StepUpDown) Value() float64 {
	raw := s.up.Value() - s.down.Value()
	if raw != s.buttons {
		s.buttons = raw
		s.acc += raw * s.shape.Scaling
		s.acc = Clamp(s.acc, s.shape.Min-s.shape.Offset, s.shape.Max-s.shape.Offset)
	}
	return s.acc + s.shape.Offset
}

func (s *StepUpDown) Reset() {
	s.acc = 0
	s.buttons = 0
}

// LinearRamp follows its input by at most Increment per Tick.
// Reading it does not advance it.
type LinearRamp struct {
	in        Sum
	increment float64
	current   float64
}

// DefaultRampIncrement is the per-tick step used when none is configured.
const DefaultRampIncrement = 0.02

func NewLinearRamp(in Sum, increment, initial float64) *LinearRamp {
	if increment <= 0 {
		increment = DefaultRampIncrement
	}
	return &LinearRamp{in: in, increment: increment, current: initial}
}

func (r *LinearRamp) Value() float64 { return r.current }

func (r *LinearRamp) Tick() {
	target := r.in.Value()
	switch {
	case target > r.current:
		r.current = min(r.current+r.increment, target)
	case target < r.current:
		r.current = max(r.current-r.increment, target)
	}
}

// Reset jumps straight to the current input.
func (r *LinearRamp) Reset() {
	r.current = r.in.Value()
}
