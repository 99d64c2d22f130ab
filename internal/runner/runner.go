// internal/runner/runner.go
package runner

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tamzrod/robotcore/internal/channel"
	"github.com/tamzrod/robotcore/internal/mediator"
	"github.com/tamzrod/robotcore/internal/shm"
	"github.com/tamzrod/robotcore/internal/status"
	"github.com/tamzrod/robotcore/internal/value"
)

// Behaviour is the control logic a Loop drives.
type Behaviour interface {
	Tickers() []value.Ticker // stateful nodes advanced once per tick
	HighPriority() []mediator.Processor
	MediumPriority() []mediator.Processor
	Start()
	Move()
	Stop()
}

// Config is the loop timing.
type Config struct {
	Period       time.Duration // one tick
	MediumEvery  int           // medium-priority processors run every N ticks
	Grace        uint16        // control watchdog cycles granted per healthy tick
	StaleBackoff time.Duration // pause after a tick with no live sensor producer
}

func DefaultConfig() Config {
	return Config{
		Period:       10 * time.Millisecond,
		MediumEvery:  10,
		Grace:        shm.DefaultGrace,
		StaleBackoff: time.Second,
	}
}

// Loop is the fixed-period control loop. One goroutine. No overlap.
type Loop struct {
	cfg   Config
	b     *channel.Bundle
	beh   Behaviour
	board *status.Board
	pub   *status.Publisher
	log   *slog.Logger
	now   func() time.Time

	tickers []value.Ticker
	high    mediator.Group
	medium  mediator.Group
	ticks  uint64
	second time.Time
	stale  bool
}

// New validates cfg and captures the behaviour's processors.
// pub may be nil when the status display is not wanted.
func New(cfg Config, b *channel.Bundle, beh Behaviour, board *status.Board, pub *status.Publisher, log *slog.Logger) (*Loop, error) {
	if cfg.Period <= 0 {
		return nil, errors.New("runner: period must be > 0")
	}
	if cfg.MediumEvery <= 0 {
		return nil, errors.New("runner: medium divisor must be > 0")
	}
	if cfg.Grace == 0 {
		return nil, errors.New("runner: watchdog grace must be > 0")
	}
	if b == nil || beh == nil {
		return nil, errors.New("runner: bundle and behaviour required")
	}
	if board == nil {
		board = status.NewBoard("")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Loop{
		cfg:    cfg,
		b:      b,
		beh:    beh,
		board:  board,
		pub:    pub,
		log:    log,
		now:    time.Now,
		tickers: beh.Tickers(),
		high:    beh.HighPriority(),
		medium:  beh.MediumPriority(),
	}, nil
}

// WithClock replaces the clock used for the seconds-in-error counter.
func (l *Loop) WithClock(now func() time.Time) *Loop {
	l.now = now
	return l
}

// Tick runs one cycle and reports whether the sensor producer is alive.
//
// The state machine moves first, then stateful nodes advance, then the
// mediators write the outputs of this tick. When the sensor producer is
// alive the actuator watchdogs are refreshed. When it is not, the behaviour
// is stopped, its safe outputs are written, and the actuator watchdogs are
// left to run out.
func (l *Loop) Tick() bool {
	l.beh.Move()

	for _, t := range l.tickers {
		t.Tick()
	}
	l.high.Process()
	if l.ticks%uint64(l.cfg.MediumEvery) == 0 {
		l.medium.Process()
		l.publish()
	}
	l.ticks++

	alive := l.b.Sensors.Watchdog().Check() > 0
	if alive {
		l.b.ResetControlWatchdogs(l.cfg.Grace)
		if l.stale {
			l.log.Info("sensor input restored")
		}
		l.board.SetHealth(status.HealthOK)
	} else {
		if !l.stale {
			l.log.Warn("sensor watchdog expired, stopping behaviour", "channel", channel.SensorsSpec.Name)
		}
		l.beh.Stop()
		l.high.Process()
		l.board.SetHealth(status.HealthStale)
	}
	l.stale = !alive
	return alive
}

func (l *Loop) publish() {
	now := l.now()
	if l.second.IsZero() {
		l.second = now
	}
	for now.Sub(l.second) >= time.Second {
		l.board.TickSecond()
		l.second = l.second.Add(time.Second)
	}

	if l.pub == nil {
		return
	}
	if err := l.pub.Publish(l.board.Snapshot()); err != nil {
		l.log.Debug("status publish failed", "err", err)
	}
}

// Run starts the behaviour and ticks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	l.beh.Start()
	defer l.beh.Stop()

	ticker := time.NewTicker(l.cfg.Period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !l.Tick() {
				if err := sleep(ctx, l.cfg.StaleBackoff); err != nil {
					return err
				}
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
