// internal/poller/sink.go
package poller

import (
	"errors"
	"fmt"

	"github.com/tamzrod/robotcore/internal/channel"
)

// Input kinds.
const (
	KindAnalog  = "analog"
	KindDigital = "digital"
	KindCounter = "counter"
)

// Input maps one value of a read block onto a sensor slot.
type Input struct {
	Block  int // index into the poll result blocks
	Index  int // bit or register index within the block
	Words  int // 1 or 2 registers, high word first
	Signed bool
	Scale  float64 // analog only
	Kind   string
	Slot   int
}

// Sink writes poll results into the sensors channel.
//
// A successful cycle refreshes every mapped slot and resets the sensors
// watchdog. A failed cycle touches nothing, so a dead source is noticed by
// the watchdog running out.
type Sink struct {
	s      *channel.Sensors
	inputs []Input
	grace  uint16
}

func NewSink(s *channel.Sensors, inputs []Input, grace uint16) *Sink {
	return &Sink{s: s, inputs: inputs, grace: grace}
}

func (k *Sink) Apply(res PollResult) error {
	if res.Err != nil {
		return res.Err
	}

	ts := channel.Seconds(res.At)
	var errs []error

	for i, in := range k.inputs {
		if in.Block < 0 || in.Block >= len(res.Blocks) {
			errs = append(errs, fmt.Errorf("input %d: block %d missing", i, in.Block))
			continue
		}
		b := res.Blocks[in.Block]

		if in.Kind == KindDigital && b.Bits != nil {
			if in.Index >= len(b.Bits) {
				errs = append(errs, fmt.Errorf("input %d: bit %d outside block", i, in.Index))
				continue
			}
			var v int16
			if b.Bits[in.Index] {
				v = 1
			}
			k.s.SetDigital(in.Slot, v, channel.StatusValid, ts)
			continue
		}

		raw, err := registerValue(b.Registers, in)
		if err != nil {
			errs = append(errs, fmt.Errorf("input %d: %w", i, err))
			continue
		}

		switch in.Kind {
		case KindAnalog:
			scale := in.Scale
			if scale == 0 {
				scale = 1
			}
			k.s.SetAnalog(in.Slot, float32(float64(raw)*scale), channel.StatusValid, ts)
		case KindDigital:
			k.s.SetDigital(in.Slot, int16(raw), channel.StatusValid, ts)
		case KindCounter:
			k.s.SetCounter(in.Slot, raw, channel.StatusValid, ts)
		default:
			errs = append(errs, fmt.Errorf("input %d: unknown kind %q", i, in.Kind))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	k.s.Watchdog().Reset(k.grace)
	return nil
}

func registerValue(regs []uint16, in Input) (int64, error) {
	words := max(in.Words, 1)
	if in.Index < 0 || in.Index+words > len(regs) {
		return 0, fmt.Errorf("register %d outside block of %d", in.Index, len(regs))
	}
	if words == 1 {
		r := regs[in.Index]
		if in.Signed {
			return int64(int16(r)), nil
		}
		return int64(r), nil
	}
	v := uint32(regs[in.Index])<<16 | uint32(regs[in.Index+1])
	if in.Signed {
		return int64(int32(v)), nil
	}
	return int64(v), nil
}
