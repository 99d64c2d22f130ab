// internal/channel/channel.go
package channel

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/tamzrod/robotcore/internal/shm"
)

// DefaultDir is the in-memory filesystem holding the channel files.
const DefaultDir = "/dev/shm"

// Mode selects how a channel is attached.
type Mode int

const (
	// Create opens-or-initializes the backing region (producers).
	Create Mode = iota
	// Open attaches to an existing region and fails if it is absent (consumers).
	Open
)

func (m Mode) String() string {
	switch m {
	case Create:
		return "create"
	case Open:
		return "open"
	}
	return "unsupported"
}

// Attach maps the channel described by s inside dir.
func Attach(dir string, s Spec, mode Mode) (*shm.Region, error) {
	path := filepath.Join(dir, s.File)
	switch mode {
	case Create:
		return shm.Create(path, s.Size)
	case Open:
		return shm.Open(path, s.Size)
	default:
		return nil, fmt.Errorf("channel %s: unsupported mode %d", s.Name, mode)
	}
}

// base is embedded by every typed channel.
type base struct {
	spec Spec
	r    *shm.Region
}

func (b base) Spec() Spec          { return b.spec }
func (b base) Region() *shm.Region { return b.r }
func (b base) Close() error        { return b.r.Close() }
func (b base) HasWatchdog() bool   { return b.spec.WatchdogOffset != NoWatchdog }

func (b base) Watchdog() shm.Watchdog {
	if !b.HasWatchdog() {
		panic(fmt.Sprintf("channel %s has no watchdog", b.spec.Name))
	}
	return shm.NewWatchdog(b.r, b.spec.WatchdogOffset)
}

func checkSize(s Spec, r *shm.Region) {
	if r.Size() != s.Size {
		panic(fmt.Sprintf("channel %s: region has %d bytes, layout needs %d", s.Name, r.Size(), s.Size))
	}
}

// Seconds converts t to the float seconds stamped into sensor records.
// The zero time maps to 0 ("no timestamp").
func Seconds(t time.Time) float64 {
	if t.IsZero() {
		return 0
	}
	return float64(t.UnixNano()) / 1e9
}
