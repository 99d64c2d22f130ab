// internal/value/scaler.go
package value

// Scaler applies a Shape to the sum of its inputs.
type Scaler struct {
	in    Sum
	shape Shape
}

func NewScaler(in Sum, shape Shape) *Scaler {
	return &Scaler{in: in, shape: shape}
}

func (s *Scaler) Value() float64 {
	return s.shape.Apply(s.in.Value())
}

// Adder combines several inputs. Same arithmetic as Scaler.
type Adder struct {
	Scaler
}

func NewAdder(in Sum, shape Shape) *Adder {
	return &Adder{Scaler{in: in, shape: shape}}
}

// Square is the default Lambda function.
func Square(x float64) float64 { return x * x }

// Lambda applies fn to the summed input, then shapes the result.
// A negative input never produces a positive output, so even functions
// such as Square keep the input's direction.
type Lambda struct {
	in    Sum
	fn    func(float64) float64
	shape Shape
}

// NewLambda builds a Lambda; a nil fn means Square.
func NewLambda(in Sum, fn func(float64) float64, shape Shape) *Lambda {
	if fn == nil {
		fn = Square
	}
	return &Lambda{in: in, fn: fn, shape: shape}
}

func (l *Lambda) Value() float64 {
	raw := l.in.Value()
	v := l.fn(raw)*l.shape.Scaling + l.shape.Offset
	if raw < 0 && v > 0 {
		v = -v
	}
	return l.shape.Clamp(v)
}
