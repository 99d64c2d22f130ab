// internal/mediator/mediator_test.go
package mediator

import (
	"strings"
	"testing"

	"github.com/tamzrod/robotcore/internal/value"
)

type fakeOutput struct {
	writes []float64
}

func (f *fakeOutput) Set(v float64) { f.writes = append(f.writes, v) }

func (f *fakeOutput) last() float64 { return f.writes[len(f.writes)-1] }

func TestSimple_WritesSumEveryTick(t *testing.T) {
	a, b := value.NewFixed(0.25), value.NewFixed(0.5)
	out := &fakeOutput{}
	m := NewSimple(value.SumOf(a, b), out)

	m.Process()
	b.Set(-1)
	m.Process()

	if len(out.writes) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(out.writes))
	}
	if out.writes[0] != 0.75 || out.writes[1] != -0.75 {
		t.Fatalf("unexpected writes %v", out.writes)
	}
}

func TestSwitching_RoutesSelectedSet(t *testing.T) {
	sel := value.NewFixed(0)
	out := &fakeOutput{}
	m := NewSwitching([]value.Sum{
		value.SumOf(value.NewFixed(0)),
		value.SumOf(value.NewFixed(0.25), value.NewFixed(0.5)),
		value.SumOf(value.NewFixed(-0.5)),
	}, sel, out)

	want := []float64{0, 0.75, -0.5}
	for k := range want {
		sel.Set(float64(k))
		m.Process()
		if got := out.last(); got != want[k] {
			t.Fatalf("selector %d: expected %v, got %v", k, want[k], got)
		}
	}
}

func TestSwitching_SelectorChangeAppliesNextProcess(t *testing.T) {
	sel := value.NewFixed(0)
	out := &fakeOutput{}
	m := NewSwitching([]value.Sum{value.SumOf(value.NewFixed(1)), value.SumOf(value.NewFixed(2))}, sel, out)

	m.Process()
	sel.Set(1)
	if len(out.writes) != 1 || out.writes[0] != 1 {
		t.Fatalf("expected earlier write untouched, got %v", out.writes)
	}
	m.Process()
	if out.last() != 2 {
		t.Fatalf("expected 2 after selector change, got %v", out.last())
	}
}

func TestSwitching_OutOfRangePanics(t *testing.T) {
	for _, bad := range []float64{-1, 2, 0.5} {
		sel := value.NewFixed(bad)
		m := NewSwitching([]value.Sum{value.SumOf(), value.SumOf()}, sel, &fakeOutput{})

		func() {
			defer func() {
				r := recover()
				if r == nil {
					t.Fatalf("selector %v: expected panic", bad)
				}
				if !strings.Contains(r.(string), "out of range") {
					t.Fatalf("unexpected panic %v", r)
				}
			}()
			m.Process()
		}()
	}
}

func TestGroup_ProcessesInOrder(t *testing.T) {
	out := &fakeOutput{}
	g := Group{
		NewSimple(value.SumOf(value.NewFixed(1)), out),
		NewSimple(value.SumOf(value.NewFixed(2)), out),
	}
	g.Process()
	if len(out.writes) != 2 || out.writes[0] != 1 || out.writes[1] != 2 {
		t.Fatalf("unexpected writes %v", out.writes)
	}
}
