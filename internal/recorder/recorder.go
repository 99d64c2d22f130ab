// internal/recorder/recorder.go
package recorder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tamzrod/robotcore/internal/channel"
)

// Probe kinds.
const (
	KindAnalog   = "analog"
	KindDigital  = "digital"
	KindCounter  = "counter"
	KindTorque   = "torque"
	KindPosition = "position"
)

// Probe names one channel value to record.
type Probe struct {
	Name string
	Kind string
	Slot int // sensor slot or motor number
}

func (p Probe) read(b *channel.Bundle) (float64, error) {
	switch p.Kind {
	case KindAnalog:
		return float64(b.Sensors.AnalogValue(p.Slot)), nil
	case KindDigital:
		return float64(b.Sensors.DigitalValue(p.Slot)), nil
	case KindCounter:
		return float64(b.Sensors.CounterValue(p.Slot)), nil
	case KindTorque:
		return b.Motors.CurrentTorque(p.Slot), nil
	case KindPosition:
		return float64(b.Motors.CurrentPosition(p.Slot)), nil
	default:
		return 0, fmt.Errorf("probe %q: unknown kind %q", p.Name, p.Kind)
	}
}

// Recorder samples every probe once per interval into one session.
type Recorder struct {
	store    *Store
	b        *channel.Bundle
	probes   []Probe
	interval time.Duration
	log      *slog.Logger
	now      func() time.Time

	session string
}

func New(store *Store, b *channel.Bundle, probes []Probe, interval time.Duration, log *slog.Logger) *Recorder {
	if log == nil {
		log = slog.Default()
	}
	return &Recorder{
		store:    store,
		b:        b,
		probes:   probes,
		interval: interval,
		log:      log,
		now:      time.Now,
		session:  uuid.NewString(),
	}
}

// WithClock replaces the sample timestamp source.
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now
	return r
}

// Session is the id samples are stored under.
func (r *Recorder) Session() string { return r.session }

// SampleOnce reads every probe and stores the batch.
func (r *Recorder) SampleOnce(ctx context.Context) error {
	at := r.now()
	batch := make([]Sample, 0, len(r.probes))
	for _, p := range r.probes {
		v, err := p.read(r.b)
		if err != nil {
			return err
		}
		batch = append(batch, Sample{At: at, Name: p.Name, Value: v})
	}
	return r.store.Write(ctx, r.session, batch)
}

// Run opens the session and samples until ctx ends.
// A failed write is logged and the next interval tried.
func (r *Recorder) Run(ctx context.Context) error {
	if err := r.store.BeginSession(ctx, r.session, r.now()); err != nil {
		return err
	}
	r.log.Info("recording", "session", r.session, "probes", len(r.probes), "interval", r.interval)

	t := time.NewTicker(r.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if err := r.SampleOnce(ctx); err != nil && ctx.Err() == nil {
				r.log.Warn("sample failed", "session", r.session, "err", err)
			}
		}
	}
}
