// internal/motor/process.go
package motor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tamzrod/robotcore/internal/channel"
)

// Driver is the hardware the motor process drives.
// Implementations need not be safe for concurrent use.
type Driver interface {
	SetTorque(motor int, torque float64) error // -1..1
	SetServo(servo int, pulse float64) error   // microseconds
	ServoOff(servo int) error
	SetLED(control int, v uint8) error
}

// PositionReader is implemented by drivers that can report encoder counts.
// Motors without an encoder are left out of the result.
type PositionReader interface {
	Positions(motors []int) (map[int]int64, error)
}

// Stopper is implemented by drivers that can zero every motor at once.
type Stopper interface {
	StopAll() error
}

// Config is the set of outputs the process manages.
type Config struct {
	Motors      []int
	Servos      []int
	LEDs        []int
	MaxTorque   float64
	DeltaTorque float64
	Period      time.Duration
}

// ServoPulse maps a -1..1 position onto a 500..2500µs pulse.
func ServoPulse(pos float64) float64 {
	return pos*1000 + 1500
}

// Process copies the actuator channels onto a Driver.
// The behaviour process is the producer; this is the consumer.
type Process struct {
	cfg Config
	b   *channel.Bundle
	drv Driver
	log *slog.Logger

	limiters map[int]*Limiter
	torques  map[int]float64 // last torque the driver accepted
	servos   map[int]float64 // last pulse sent, 0 = off
	leds     map[int]int     // last value sent, -1 = never
	running  bool
}

func New(cfg Config, b *channel.Bundle, drv Driver, log *slog.Logger) (*Process, error) {
	if b == nil || drv == nil {
		return nil, errors.New("motor: bundle and driver required")
	}
	if cfg.Period <= 0 {
		return nil, errors.New("motor: period must be > 0")
	}
	if cfg.MaxTorque <= 0 {
		cfg.MaxTorque = DefaultMaxTorque
	}
	if cfg.DeltaTorque <= 0 {
		cfg.DeltaTorque = DefaultDeltaTorque
	}
	if log == nil {
		log = slog.Default()
	}

	p := &Process{
		cfg:      cfg,
		b:        b,
		drv:      drv,
		log:      log,
		limiters: make(map[int]*Limiter, len(cfg.Motors)),
		torques:  make(map[int]float64, len(cfg.Motors)),
		servos:   make(map[int]float64, len(cfg.Servos)),
		leds:     make(map[int]int, len(cfg.LEDs)),
	}
	for _, m := range cfg.Motors {
		p.limiters[m] = NewLimiter(cfg.MaxTorque, cfg.DeltaTorque)
		p.torques[m] = 0
	}
	for _, l := range cfg.LEDs {
		p.leds[l] = -1
	}
	return p, nil
}

// Running reports whether the producer was alive at the last tick.
func (p *Process) Running() bool { return p.running }

// Tick runs one cycle. Errors from individual outputs are collected; the
// cycle always completes.
func (p *Process) Tick() error {
	var errs []string

	if p.running {
		p.driveMotors(func(m int) float64 { return p.b.Motors.RequiredTorque(m) }, &errs)
		p.driveServos(&errs)
		p.driveLEDs(&errs)
	} else {
		// let the motors come back to idle
		p.driveMotors(func(int) float64 { return 0 }, &errs)
	}
	p.readPositions(&errs)

	alive := p.b.Motors.Watchdog().Check() > 0
	if !alive && p.running {
		p.log.Warn("motor watchdog expired, pausing outputs", "channel", channel.MotorsSpec.Name)
		for _, s := range p.cfg.Servos {
			if err := p.drv.ServoOff(s); err != nil {
				errs = append(errs, fmt.Sprintf("servo %d off: %v", s, err))
			}
			p.servos[s] = 0
		}
	}
	if alive && !p.running {
		p.log.Info("motor channel live")
	}
	p.running = alive

	if len(errs) > 0 {
		return errors.New("motor: " + strings.Join(errs, " | "))
	}
	return nil
}

func (p *Process) driveMotors(requested func(int) float64, errs *[]string) {
	for _, m := range p.cfg.Motors {
		after := p.limiters[m].Step(requested(m))
		p.b.Motors.SetCurrentTorque(m, after)
		if after == p.torques[m] {
			continue
		}
		if err := p.drv.SetTorque(m, after); err != nil {
			*errs = append(*errs, fmt.Sprintf("motor %d torque: %v", m, err))
			continue
		}
		p.torques[m] = after
	}
}

func (p *Process) driveServos(errs *[]string) {
	for _, s := range p.cfg.Servos {
		if p.b.Servos.Status(s) > 0 {
			pulse := ServoPulse(p.b.Servos.Position(s))
			if pulse == p.servos[s] {
				continue
			}
			if err := p.drv.SetServo(s, pulse); err != nil {
				*errs = append(*errs, fmt.Sprintf("servo %d: %v", s, err))
				continue
			}
			p.servos[s] = pulse
		} else if p.servos[s] != 0 {
			if err := p.drv.ServoOff(s); err != nil {
				*errs = append(*errs, fmt.Sprintf("servo %d off: %v", s, err))
				continue
			}
			p.servos[s] = 0
		}
	}
}

func (p *Process) driveLEDs(errs *[]string) {
	for _, c := range p.cfg.LEDs {
		if p.b.Simple.Type(c) == channel.SimpleUnused {
			continue
		}
		v := p.b.Simple.Value(c)
		if int(v) == p.leds[c] {
			continue
		}
		if err := p.drv.SetLED(c, v); err != nil {
			*errs = append(*errs, fmt.Sprintf("led %d: %v", c, err))
			continue
		}
		p.leds[c] = int(v)
	}
}

func (p *Process) readPositions(errs *[]string) {
	r, ok := p.drv.(PositionReader)
	if !ok || len(p.cfg.Motors) == 0 {
		return
	}
	pos, err := r.Positions(p.cfg.Motors)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("positions: %v", err))
		return
	}
	for m, v := range pos {
		p.b.Motors.SetCurrentPosition(m, v)
	}
}

// Run ticks until ctx is cancelled, then zeroes every output.
func (p *Process) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.Period)
	defer ticker.Stop()
	defer p.shutdown()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.Tick(); err != nil {
				p.log.Warn("driver error", "err", err)
			}
		}
	}
}

func (p *Process) shutdown() {
	stopper, ok := p.drv.(Stopper)
	if !ok {
		p.stopEach()
	} else if err := stopper.StopAll(); err != nil {
		p.log.Warn("motor stop failed, stopping one by one", "err", err)
		p.stopEach()
	}
	for _, s := range p.cfg.Servos {
		if err := p.drv.ServoOff(s); err != nil {
			p.log.Warn("servo off failed", "servo", s, "err", err)
		}
	}
}

func (p *Process) stopEach() {
	for _, m := range p.cfg.Motors {
		if err := p.drv.SetTorque(m, 0); err != nil {
			p.log.Warn("motor stop failed", "motor", m, "err", err)
			continue
		}
		p.torques[m] = 0
	}
}
