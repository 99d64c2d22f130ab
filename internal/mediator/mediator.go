// internal/mediator/mediator.go
package mediator

import (
	"fmt"

	"github.com/tamzrod/robotcore/internal/value"
)

// Output is where a mediator writes.
type Output interface {
	Set(v float64)
}

// Processor is processed once per tick by a runner.
type Processor interface {
	Process()
}

// Simple copies the sum of its inputs to the output every tick.
type Simple struct {
	in  value.Sum
	out Output
}

func NewSimple(in value.Sum, out Output) *Simple {
	return &Simple{in: in, out: out}
}

func (m *Simple) Process() {
	m.out.Set(m.in.Value())
}

// Switching copies one of several input sets to the output, chosen by the
// selector's reading. The selector is read on every Process call.
//
// A selector outside 0..len(choices)-1 is a wiring error and panics.
type Switching struct {
	choices  []value.Sum
	selector value.Node
	out      Output
}

func NewSwitching(choices []value.Sum, selector value.Node, out Output) *Switching {
	if len(choices) == 0 {
		panic("mediator: switching mediator needs at least one choice")
	}
	return &Switching{choices: choices, selector: selector, out: out}
}

// Selected returns the index the selector currently picks.
func (m *Switching) Selected() int {
	sel := m.selector.Value()
	k := int(sel)
	if float64(k) != sel || k < 0 || k >= len(m.choices) {
		panic(fmt.Sprintf("mediator: selector %v out of range [0,%d)", sel, len(m.choices)))
	}
	return k
}

func (m *Switching) Process() {
	m.out.Set(m.choices[m.Selected()].Value())
}

// Group processes several mediators in order.
type Group []Processor

func (g Group) Process() {
	for _, p := range g {
		p.Process()
	}
}
