// internal/value/wave.go
package value

import "time"

// PeriodicWave emits a square wave while its input is at or above Threshold.
// The wave always starts high. When the input drops, a low phase stops at
// once; a high phase runs to completion unless truncate is set.
type PeriodicWave struct {
	in        Node
	threshold float64
	high, low time.Duration
	truncate  bool
	levels    Levels

	current float64
	phase   time.Time
	running bool
	now     func() time.Time
}

// NewPeriodicWave builds a wave generator. A nil clock means time.Now.
func NewPeriodicWave(in Node, threshold float64, high, low time.Duration, truncate bool, levels Levels, now func() time.Time) *PeriodicWave {
	if now == nil {
		now = time.Now
	}
	return &PeriodicWave{
		in:        in,
		threshold: threshold,
		high:      high,
		low:       low,
		truncate:  truncate,
		levels:    levels,
		current:   levels.Off,
		now:       now,
	}
}

func (w *PeriodicWave) advance() {
	if !w.running {
		return
	}
	now := w.now()
	elapsed := now.Sub(w.phase)
	switch {
	case w.current == w.levels.Off && elapsed >= w.low:
		w.phase = now
		w.current = w.levels.On
	case w.current == w.levels.On && elapsed >= w.high:
		w.phase = now
		w.current = w.levels.Off
	}
}

func (w *PeriodicWave) Value() float64 {
	w.advance()

	if w.in.Value() >= w.threshold {
		if !w.running {
			w.phase = w.now()
			w.current = w.levels.On
			w.running = true
		}
		return w.current
	}

	if w.running && (w.truncate || w.current == w.levels.Off) {
		w.running = false
		w.current = w.levels.Off
	}
	return w.current
}
