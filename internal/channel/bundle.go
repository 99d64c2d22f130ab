// internal/channel/bundle.go
package channel

import (
	"errors"

	"github.com/tamzrod/robotcore/internal/shm"
)

// Bundle is one process's set of open channels.
// It is built once at process start and passed to every constructor that needs it.
type Bundle struct {
	Motors     *Motors
	Servos     *Servos
	Simple     *Simple
	Sensors    *Sensors
	Image      *Image
	Line       *Line
	Voice      *Voice
	Status     *StatusText
	Indicators *Indicators
	Monitor    *Monitor
}

// AttachAll attaches every channel in dir. On failure nothing stays mapped.
func AttachAll(dir string, mode Mode) (*Bundle, error) {
	regions := make([]*shm.Region, 0, len(AllSpecs))
	for _, s := range AllSpecs {
		r, err := Attach(dir, s, mode)
		if err != nil {
			for _, prev := range regions {
				_ = prev.Close()
			}
			return nil, err
		}
		regions = append(regions, r)
	}
	return fromRegions(regions), nil
}

// NewMemBundle builds a process-local bundle.
func NewMemBundle() *Bundle {
	regions := make([]*shm.Region, 0, len(AllSpecs))
	for _, s := range AllSpecs {
		regions = append(regions, shm.NewMemRegion(s.Size))
	}
	return fromRegions(regions)
}

// fromRegions expects regions in AllSpecs order.
func fromRegions(r []*shm.Region) *Bundle {
	return &Bundle{
		Motors:     NewMotors(r[0]),
		Servos:     NewServos(r[1]),
		Simple:     NewSimple(r[2]),
		Sensors:    NewSensors(r[3]),
		Image:      NewImage(r[4]),
		Line:       NewLine(r[5]),
		Voice:      NewVoice(r[6]),
		Status:     NewStatusText(r[7]),
		Indicators: NewIndicators(r[8]),
		Monitor:    NewMonitor(r[9]),
	}
}

// Close unmaps every channel.
func (b *Bundle) Close() error {
	if b == nil {
		return nil
	}
	return errors.Join(
		b.Motors.Close(),
		b.Servos.Close(),
		b.Simple.Close(),
		b.Sensors.Close(),
		b.Image.Close(),
		b.Line.Close(),
		b.Voice.Close(),
		b.Status.Close(),
		b.Indicators.Close(),
		b.Monitor.Close(),
	)
}

// ResetControlWatchdogs keeps the actuator channels alive for n more cycles.
func (b *Bundle) ResetControlWatchdogs(n uint16) {
	b.Motors.Watchdog().Reset(n)
	b.Servos.Watchdog().Reset(n)
	b.Simple.Watchdog().Reset(n)
}

// StopAll expires the actuator watchdogs so the driver process falls back to
// its safe state on its next cycle.
func (b *Bundle) StopAll() {
	b.ResetControlWatchdogs(0)
}
