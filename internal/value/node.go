// internal/value/node.go
package value

// Node is anything that yields a current reading.
type Node interface {
	Value() float64
}

// Setter is a node whose value can be written.
type Setter interface {
	Node
	Set(v float64)
}

// Ticker is implemented by nodes that advance internal state once per tick,
// independently of how often they are read.
type Ticker interface {
	Tick()
}

// Resetter is implemented by stateful nodes that can return to their idle state.
type Resetter interface {
	Reset()
}

// ----------------------------------------------------------------------------
// Shape
// ----------------------------------------------------------------------------

// Shape is the scale/offset/limit stage shared by most nodes.
type Shape struct {
	Min     float64
	Max     float64
	Scaling float64
	Offset  float64
}

// Unit is the default shape: scaling 1, no offset, limits -1..1.
func Unit() Shape {
	return Shape{Min: -1, Max: 1, Scaling: 1}
}

// Scaled returns Unit with the given scaling.
func Scaled(scaling float64) Shape {
	s := Unit()
	s.Scaling = scaling
	return s
}

// Apply returns clamp(raw*Scaling+Offset, Min, Max).
func (s Shape) Apply(raw float64) float64 {
	return s.Clamp(raw*s.Scaling + s.Offset)
}

// Clamp limits v to [Min, Max].
func (s Shape) Clamp(v float64) float64 {
	return Clamp(v, s.Min, s.Max)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		return hi
	}
	if v < lo {
		return lo
	}
	return v
}

// Sign returns -1, 0 or 1.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// ----------------------------------------------------------------------------
// Basic nodes
// ----------------------------------------------------------------------------

// Sum reads every input and adds the results. A single input is a Sum of one.
type Sum []Node

// SumOf builds a Sum.
func SumOf(nodes ...Node) Sum { return Sum(nodes) }

func (s Sum) Value() float64 {
	total := 0.0
	for _, n := range s {
		total += n.Value()
	}
	return total
}

// Fixed holds a constant that can be overwritten.
type Fixed struct {
	v float64
}

func NewFixed(v float64) *Fixed { return &Fixed{v: v} }
func (f *Fixed) Value() float64 { return f.v }
func (f *Fixed) Set(v float64)  { f.v = v }

// Func adapts a plain function to Node.
type Func func() float64

func (f Func) Value() float64 { return f() }

// Zero always reads 0.
var Zero Node = Func(func() float64 { return 0 })
