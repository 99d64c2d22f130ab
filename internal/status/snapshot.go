// internal/status/snapshot.go
package status

// Snapshot represents exactly what the publisher is allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health         uint16
	SecondsInError uint16

	Title  string // behaviour or process name
	State  string // active state
	Detail string // state argument worth showing, e.g. "90degs"
}

// Board is the mutable snapshot a running process keeps up to date.
// It is owned by the control loop.
type Board struct {
	snap Snapshot
}

func NewBoard(title string) *Board {
	return &Board{snap: Snapshot{Title: title, Health: HealthUnknown}}
}

// SetState records a new active state and clears its detail.
func (b *Board) SetState(name string) {
	b.snap.State = name
	b.snap.Detail = ""
}

func (b *Board) SetDetail(d string) { b.snap.Detail = d }

// SetHealth records h. Leaving HealthOK starts the error counter from zero;
// returning to HealthOK clears it.
func (b *Board) SetHealth(h uint16) {
	if h == HealthOK || b.snap.Health == HealthOK {
		b.snap.SecondsInError = 0
	}
	b.snap.Health = h
}

// TickSecond advances the error counter while not healthy.
func (b *Board) TickSecond() {
	if b.snap.Health != HealthOK && b.snap.SecondsInError < SecondsInErrorMax {
		b.snap.SecondsInError++
	}
}

func (b *Board) Snapshot() Snapshot { return b.snap }
