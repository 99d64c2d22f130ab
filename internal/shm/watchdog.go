// internal/shm/watchdog.go
package shm

// DefaultGrace is the watchdog reset value used by producers.
// At a 10ms loop this is one second of grace.
const DefaultGrace uint16 = 100

// Watchdog is the liveness countdown stored in a channel.
//
// The producer calls Reset every cycle. Every reader calls Check every cycle
// it polls. Zero means the producer is dead or stalled.
type Watchdog struct {
	r   *Region
	off int
}

func NewWatchdog(r *Region, off int) Watchdog {
	return Watchdog{r: r, off: off}
}

// Reset gives the channel n cycles of grace.
func (w Watchdog) Reset(n uint16) {
	w.r.PutU16(w.off, n)
}

// Check decrements the countdown and returns the new value.
// It saturates at zero.
func (w Watchdog) Check() uint16 {
	v := w.r.U16(w.off)
	if v > 0 {
		v--
		w.r.PutU16(w.off, v)
	}
	return v
}

// Value returns the countdown without consuming a cycle.
func (w Watchdog) Value() uint16 {
	return w.r.U16(w.off)
}

// Expired reports whether the countdown has reached zero.
func (w Watchdog) Expired() bool {
	return w.Value() == 0
}
