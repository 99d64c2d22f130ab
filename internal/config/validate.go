// internal/config/validate.go
package config

import (
	"fmt"
	"slices"

	"github.com/tamzrod/robotcore/internal/channel"
)

// Input and probe kinds.
const (
	KindAnalog   = "analog"
	KindDigital  = "digital"
	KindCounter  = "counter"
	KindTorque   = "torque"
	KindPosition = "position"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}
	r := &cfg.Robot

	switch r.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q: want debug, info, warn or error", r.LogLevel)
	}

	if r.Loop.PeriodMs < 0 || r.Loop.MediumEvery < 0 || r.Loop.StaleBackoffMs < 0 {
		return fmt.Errorf("loop: negative timing")
	}

	if err := validateBehaviour(&r.Behaviour); err != nil {
		return err
	}
	if err := validateMotor(&r.Motor); err != nil {
		return err
	}
	if err := validatePollers(r.Pollers); err != nil {
		return err
	}
	return validateRecorder(&r.Recorder)
}

func validateBehaviour(b *BehaviourConfig) error {
	if len(b.Buttons) > 4 {
		return fmt.Errorf("behaviour: at most 4 sequence button plans, got %d", len(b.Buttons))
	}
	if b.HeadingSlot != nil && !inRange(*b.HeadingSlot, channel.SensorSlots) {
		return fmt.Errorf("behaviour: heading_slot %d out of range [0,%d)", *b.HeadingSlot, channel.SensorSlots)
	}
	for name, n := range b.Servos {
		if !inRange(n, channel.ServoSlots) {
			return fmt.Errorf("behaviour: servo %q number %d out of range [0,%d)", name, n, channel.ServoSlots)
		}
	}
	return nil
}

// ------------------------------------------------------------
// MOTOR REGISTER MAP VALIDATION
// ------------------------------------------------------------

func validateMotor(m *MotorConfig) error {
	if m.MaxTorque < 0 || m.MaxTorque > 1 {
		return fmt.Errorf("motor: max_torque %v out of range [0,1]", m.MaxTorque)
	}
	if m.DeltaTorque < 0 {
		return fmt.Errorf("motor: delta_torque must be >= 0")
	}

	type span struct {
		start, end uint16
		owner      string
	}
	var holding, input []span

	claim := func(spans *[]span, start, qty uint16, owner string) error {
		end := start + qty - 1
		for _, s := range *spans {
			// overlap check (inclusive)
			if !(end < s.start || start > s.end) {
				return fmt.Errorf(
					"motor: register overlap: %s range=%d-%d overlaps with %s range=%d-%d",
					owner, start, end, s.owner, s.start, s.end,
				)
			}
		}
		*spans = append(*spans, span{start: start, end: end, owner: owner})
		return nil
	}

	seen := map[int]bool{}
	for _, mo := range m.Motors {
		if !inRange(mo.ID, channel.MotorSlots) {
			return fmt.Errorf("motor: id %d out of range [0,%d)", mo.ID, channel.MotorSlots)
		}
		if seen[mo.ID] {
			return fmt.Errorf("motor: id %d listed twice", mo.ID)
		}
		seen[mo.ID] = true

		if err := claim(&holding, mo.TorqueRegister, 1, fmt.Sprintf("motor %d torque", mo.ID)); err != nil {
			return err
		}
		if mo.PositionRegister != nil {
			if err := claim(&input, *mo.PositionRegister, 2, fmt.Sprintf("motor %d position", mo.ID)); err != nil {
				return err
			}
		}
	}

	for _, s := range m.Servos {
		if !inRange(s.ID, channel.ServoSlots) {
			return fmt.Errorf("motor: servo %d out of range [0,%d)", s.ID, channel.ServoSlots)
		}
		if err := claim(&holding, s.Register, 1, fmt.Sprintf("servo %d", s.ID)); err != nil {
			return err
		}
	}
	for _, l := range m.LEDs {
		if !inRange(l.ID, channel.SimpleSlots) {
			return fmt.Errorf("motor: led %d out of range [0,%d)", l.ID, channel.SimpleSlots)
		}
		if err := claim(&holding, l.Register, 1, fmt.Sprintf("led %d", l.ID)); err != nil {
			return err
		}
	}
	return nil
}

// ------------------------------------------------------------
// POLLER VALIDATION
// ------------------------------------------------------------

func validatePollers(ps []PollerConfig) error {
	// key = kind | slot
	owner := make(map[string]string)
	ids := make(map[string]bool)

	for _, p := range ps {
		if p.ID == "" {
			return fmt.Errorf("poller: id required")
		}
		if ids[p.ID] {
			return fmt.Errorf("poller %q: duplicate id", p.ID)
		}
		ids[p.ID] = true

		if len(p.Reads) == 0 {
			return fmt.Errorf("poller %q: at least one read required", p.ID)
		}
		for i, rd := range p.Reads {
			if rd.FC < 1 || rd.FC > 4 {
				return fmt.Errorf("poller %q: read %d: unsupported fc %d", p.ID, i, rd.FC)
			}
			if rd.Quantity == 0 {
				return fmt.Errorf("poller %q: read %d: quantity must be > 0", p.ID, i)
			}
		}

		for i, in := range p.Inputs {
			if in.Read < 0 || in.Read >= len(p.Reads) {
				return fmt.Errorf("poller %q: input %d: read %d does not exist", p.ID, i, in.Read)
			}
			rd := p.Reads[in.Read]
			bits := rd.FC == 1 || rd.FC == 2

			if !slices.Contains([]string{KindAnalog, KindDigital, KindCounter}, in.Kind) {
				return fmt.Errorf("poller %q: input %d: unknown kind %q", p.ID, i, in.Kind)
			}
			if bits && in.Kind != KindDigital {
				return fmt.Errorf("poller %q: input %d: fc %d can only feed digital slots", p.ID, i, rd.FC)
			}
			if in.Words < 0 || in.Words > 2 || (bits && in.Words > 1) {
				return fmt.Errorf("poller %q: input %d: words must be 1 or 2", p.ID, i)
			}
			words := max(in.Words, 1)
			if in.Index < 0 || in.Index+words > int(rd.Quantity) {
				return fmt.Errorf("poller %q: input %d: index %d outside read of %d", p.ID, i, in.Index, rd.Quantity)
			}
			if !inRange(in.Slot, channel.SensorSlots) {
				return fmt.Errorf("poller %q: input %d: slot %d out of range [0,%d)", p.ID, i, in.Slot, channel.SensorSlots)
			}

			key := fmt.Sprintf("%s|%d", in.Kind, in.Slot)
			if prev, exists := owner[key]; exists {
				return fmt.Errorf("sensor slot collision: %s slot=%d fed by pollers %q and %q", in.Kind, in.Slot, prev, p.ID)
			}
			owner[key] = p.ID
		}
	}
	return nil
}

func validateRecorder(r *RecorderConfig) error {
	if r.IntervalMs < 0 {
		return fmt.Errorf("recorder: interval_ms must be >= 0")
	}
	names := map[string]bool{}
	for _, p := range r.Probes {
		if p.Name == "" {
			return fmt.Errorf("recorder: probe name required")
		}
		if names[p.Name] {
			return fmt.Errorf("recorder: probe %q listed twice", p.Name)
		}
		names[p.Name] = true

		limit := channel.SensorSlots
		switch p.Kind {
		case KindAnalog, KindDigital, KindCounter:
		case KindTorque, KindPosition:
			limit = channel.MotorSlots
		default:
			return fmt.Errorf("recorder: probe %q: unknown kind %q", p.Name, p.Kind)
		}
		if !inRange(p.Slot, limit) {
			return fmt.Errorf("recorder: probe %q: slot %d out of range [0,%d)", p.Name, p.Slot, limit)
		}
	}
	return nil
}

func inRange(v, n int) bool { return v >= 0 && v < n }
