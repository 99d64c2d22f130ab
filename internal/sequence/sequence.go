// internal/sequence/sequence.go
package sequence

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrStep reports a step that is missing a name or has unusable arguments.
var ErrStep = errors.New("sequence: malformed step")

// Step is one entry of a plan: a state name and the arguments handed to it.
type Step struct {
	Name string
	Args []any
}

// Sequence is an ordered plan.
type Sequence []Step

// file is the on-disk shape. Each path entry is a list whose first element is
// the state name. A second element that is itself a list holds the arguments;
// otherwise the remaining elements are the arguments.
type file struct {
	Path []any `yaml:"path"`
}

// Parse decodes a plan from YAML or JSON.
func Parse(b []byte) (Sequence, error) {
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("sequence: parse: %w", err)
	}
	seq := make(Sequence, 0, len(f.Path))
	for i, raw := range f.Path {
		st, err := decodeStep(raw)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		seq = append(seq, st)
	}
	return seq, nil
}

func decodeStep(raw any) (Step, error) {
	var parts []any
	switch v := raw.(type) {
	case string:
		return Step{Name: v}, nil
	case []any:
		parts = v
	default:
		return Step{}, fmt.Errorf("%w: %v", ErrStep, raw)
	}
	if len(parts) == 0 {
		return Step{}, fmt.Errorf("%w: empty entry", ErrStep)
	}
	name, ok := parts[0].(string)
	if !ok || name == "" {
		return Step{}, fmt.Errorf("%w: name %v", ErrStep, parts[0])
	}

	st := Step{Name: name}
	switch {
	case len(parts) == 1:
	case len(parts) == 2:
		switch a := parts[1].(type) {
		case nil:
		case []any:
			st.Args = a
		default:
			st.Args = []any{a}
		}
	default:
		st.Args = parts[1:]
	}
	return st, nil
}

// Load reads a plan file.
func Load(path string) (Sequence, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sequence: %w", err)
	}
	seq, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return seq, nil
}

// Encode renders seq in the file format.
func Encode(seq Sequence) ([]byte, error) {
	f := file{Path: make([]any, 0, len(seq))}
	for _, st := range seq {
		entry := []any{st.Name}
		if len(st.Args) > 0 {
			entry = append(entry, st.Args)
		}
		f.Path = append(f.Path, entry)
	}
	return yaml.Marshal(f)
}

// Save writes seq to path.
func Save(path string, seq Sequence) error {
	b, err := Encode(seq)
	if err != nil {
		return fmt.Errorf("sequence: encode: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("sequence: %w", err)
	}
	return nil
}

// ----------------------------------------------------------------------------
// Cursor
// ----------------------------------------------------------------------------

// Cursor walks a plan one step at a time.
type Cursor struct {
	seq Sequence
	pos int
}

func NewCursor(seq Sequence) *Cursor {
	return &Cursor{seq: seq}
}

// Next returns the following step, or false once the plan is exhausted.
func (c *Cursor) Next() (Step, bool) {
	if c == nil || c.pos >= len(c.seq) {
		return Step{}, false
	}
	st := c.seq[c.pos]
	c.pos++
	return st, true
}

// Remaining is the number of steps not yet returned.
func (c *Cursor) Remaining() int {
	if c == nil {
		return 0
	}
	return len(c.seq) - c.pos
}
