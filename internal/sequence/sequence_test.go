// internal/sequence/sequence_test.go
package sequence

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const plan = `
path:
  - [SetZeroHeading]
  - [MoveDistance, [300, 300]]
  - [Rotate, [90, 0.5]]
  - [Forward, 200]
  - [Servo, grabber, 0.5, 1]
`

func TestParse_EntryShapes(t *testing.T) {
	seq, err := Parse([]byte(plan))
	if err != nil {
		t.Fatalf("Parse err=%v", err)
	}
	if len(seq) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(seq))
	}
	if seq[0].Name != "SetZeroHeading" || len(seq[0].Args) != 0 {
		t.Fatalf("unexpected step 0 %+v", seq[0])
	}
	if l, _ := seq[1].Float(0); l != 300 {
		t.Fatalf("expected 300, got %v", l)
	}
	if settle, _ := seq[2].Float(1); settle != 0.5 {
		t.Fatalf("expected 0.5, got %v", settle)
	}
	if d, _ := seq[3].Float(0); d != 200 {
		t.Fatalf("expected single arg 200, got %v", d)
	}
	name, err := seq[4].String(0)
	if err != nil || name != "grabber" || len(seq[4].Args) != 3 {
		t.Fatalf("unexpected servo step %+v err=%v", seq[4], err)
	}
}

func TestParse_JSON(t *testing.T) {
	seq, err := Parse([]byte(`{"path": [["MoveDistance", [10, -10]], ["Rotate", [45, 0]]]}`))
	if err != nil {
		t.Fatalf("Parse err=%v", err)
	}
	if len(seq) != 2 || seq[1].Name != "Rotate" {
		t.Fatalf("unexpected %+v", seq)
	}
}

func TestParse_MalformedStep(t *testing.T) {
	for _, bad := range []string{
		"path: [[]]",
		"path: [[42, 1]]",
		"path: [{a: 1}]",
	} {
		if _, err := Parse([]byte(bad)); !errors.Is(err, ErrStep) {
			t.Fatalf("%q: expected ErrStep, got %v", bad, err)
		}
	}
}

func TestStepArgs_Errors(t *testing.T) {
	st := Step{Name: "Rotate", Args: []any{"ninety"}}

	if _, err := st.Float(0); !errors.Is(err, ErrStep) {
		t.Fatalf("expected ErrStep for wrong type, got %v", err)
	}
	if _, err := st.Float(1); !errors.Is(err, ErrStep) {
		t.Fatalf("expected ErrStep for missing arg, got %v", err)
	}
	if v, err := st.FloatOr(1, 0.25); err != nil || v != 0.25 {
		t.Fatalf("expected default 0.25, got %v err=%v", v, err)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recordedPath.yaml")
	in := Sequence{
		{Name: "MoveDistance", Args: []any{120, 118}},
		{Name: "MoveDistance", Args: []any{-40, 40}},
	}
	if err := Save(path, in); err != nil {
		t.Fatalf("Save err=%v", err)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(out))
	}
	if r, _ := out[1].Float(1); r != 40 {
		t.Fatalf("expected 40, got %v", r)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestCursor_Next(t *testing.T) {
	c := NewCursor(Sequence{{Name: "A"}, {Name: "B"}})

	if st, ok := c.Next(); !ok || st.Name != "A" {
		t.Fatalf("expected A")
	}
	if c.Remaining() != 1 {
		t.Fatalf("expected 1 remaining, got %d", c.Remaining())
	}
	if st, ok := c.Next(); !ok || st.Name != "B" {
		t.Fatalf("expected B")
	}
	if _, ok := c.Next(); ok {
		t.Fatalf("expected exhausted cursor")
	}

	var none *Cursor
	if _, ok := none.Next(); ok {
		t.Fatalf("expected nil cursor to be empty")
	}
}
