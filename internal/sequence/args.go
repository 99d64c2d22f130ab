// internal/sequence/args.go
package sequence

import "fmt"

// Float returns argument i as a number.
func (s Step) Float(i int) (float64, error) {
	if i >= len(s.Args) {
		return 0, fmt.Errorf("%w: %s needs argument %d", ErrStep, s.Name, i)
	}
	switch v := s.Args[i].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	}
	return 0, fmt.Errorf("%w: %s argument %d is %T, want number", ErrStep, s.Name, i, s.Args[i])
}

// FloatOr returns argument i, or def when the step has fewer arguments.
func (s Step) FloatOr(i int, def float64) (float64, error) {
	if i >= len(s.Args) {
		return def, nil
	}
	return s.Float(i)
}

// String returns argument i as a string.
func (s Step) String(i int) (string, error) {
	if i >= len(s.Args) {
		return "", fmt.Errorf("%w: %s needs argument %d", ErrStep, s.Name, i)
	}
	v, ok := s.Args[i].(string)
	if !ok {
		return "", fmt.Errorf("%w: %s argument %d is %T, want string", ErrStep, s.Name, i, s.Args[i])
	}
	return v, nil
}
