// internal/statemachine/machine.go
package statemachine

import (
	"fmt"
	"log/slog"
	"time"
)

// State is one named state. Any callback may be nil.
//
// Enter receives the data passed to ChangeState and returns the state's
// own data, which is then handed to Process and Exit.
type State struct {
	Name    string
	Enter   func(data any) any
	Process func(data any)
	Exit    func(data any)
}

// Machine runs one state at a time with an optional timeout transition.
// It is driven from a single loop and is not safe for concurrent use.
type Machine struct {
	states  map[string]*State
	current *State
	data    any

	// generation counts transitions so a ChangeState made from inside Enter
	// wins over the Enter that triggered it.
	generation uint64

	armed    bool
	deadline time.Time
	target   string

	listeners []func(from, to string)

	now func() time.Time
	log *slog.Logger
}

func New(log *slog.Logger) *Machine {
	if log == nil {
		log = slog.Default()
	}
	return &Machine{
		states: make(map[string]*State),
		now:    time.Now,
		log:    log,
	}
}

// WithClock replaces the clock used for timeouts.
func (m *Machine) WithClock(now func() time.Time) *Machine {
	m.now = now
	return m
}

// Add registers a state. Registering a name twice panics.
func (m *Machine) Add(s State) {
	if s.Name == "" {
		panic("statemachine: state without a name")
	}
	if _, dup := m.states[s.Name]; dup {
		panic(fmt.Sprintf("statemachine: duplicate state %q", s.Name))
	}
	m.states[s.Name] = &s
}

// AddState is Add with positional callbacks.
func (m *Machine) AddState(name string, enter func(any) any, process func(any), exit func(any)) {
	m.Add(State{Name: name, Enter: enter, Process: process, Exit: exit})
}

// Has reports whether name is registered.
func (m *Machine) Has(name string) bool {
	_, ok := m.states[name]
	return ok
}

// OnChange registers fn to run after every transition, before the new
// state's Enter.
func (m *Machine) OnChange(fn func(from, to string)) {
	m.listeners = append(m.listeners, fn)
}

// Current returns the active state name, or "" before the first transition.
func (m *Machine) Current() string {
	if m.current == nil {
		return ""
	}
	return m.current.Name
}

// Data returns the active state's data.
func (m *Machine) Data() any { return m.data }

// ChangeState moves to name. Changing to the active state does nothing.
// Otherwise the old state's Exit runs with its data, any pending timeout is
// dropped, and the new state's Enter runs with data.
//
// Unknown names panic.
func (m *Machine) ChangeState(name string, data any) {
	next, ok := m.states[name]
	if !ok {
		panic(fmt.Sprintf("statemachine: unknown state %q", name))
	}
	if next == m.current {
		return
	}

	prev := m.current
	if prev != nil && prev.Exit != nil {
		prev.Exit(m.data)
	}

	m.armed = false
	m.current = next
	m.data = nil
	m.generation++
	gen := m.generation

	from := ""
	if prev != nil {
		from = prev.Name
	}
	m.log.Debug("state change", "from", from, "to", name)
	for _, fn := range m.listeners {
		fn(from, name)
	}

	if next.Enter != nil {
		d := next.Enter(data)
		if m.generation == gen {
			m.data = d
		}
	}
}

// Process fires a due timeout, otherwise runs the active state's Process.
func (m *Machine) Process() {
	if m.armed && !m.now().Before(m.deadline) {
		m.armed = false
		m.log.Debug("state timeout", "state", m.Current(), "to", m.target)
		m.ChangeState(m.target, nil)
		return
	}
	if m.current != nil && m.current.Process != nil {
		m.current.Process(m.data)
	}
}

// SetTimeout arms a one-shot transition to target after d.
// Re-arming replaces any pending timeout.
func (m *Machine) SetTimeout(d time.Duration, target string) {
	if _, ok := m.states[target]; !ok {
		panic(fmt.Sprintf("statemachine: unknown timeout state %q", target))
	}
	m.armed = true
	m.deadline = m.now().Add(d)
	m.target = target
}

// Timeout returns the pending deadline, if any.
func (m *Machine) Timeout() (time.Time, bool) {
	if !m.armed {
		return time.Time{}, false
	}
	return m.deadline, true
}

// ClearTimeout drops a pending timeout.
func (m *Machine) ClearTimeout() {
	m.armed = false
}
