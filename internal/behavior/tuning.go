// internal/behavior/tuning.go
package behavior

import (
	"fmt"

	"github.com/tamzrod/robotcore/internal/params"
)

// Tuning holds the behaviour's numeric parameters. They come from the
// params store so they can be adjusted on the robot without a rebuild.
type Tuning struct {
	PositionPID [3]float64
	PositionPOM bool
	HeadingPID  [3]float64
	HeadingPOM  bool

	MaxManualForward     float64 // joystick forward scaling
	AngleTolerance       float64 // degrees counted as "reached"
	PositionTolerance    float64 // encoder counts counted as "reached"
	PositionCalibration  float64 // encoder counts per mm
	MaxManualTurn        float64 // degrees of heading change per full joystick deflection
	MaxPIDForward        float64 // forward demand in position and auto modes
	MaxManualPIDForward  float64 // forward demand in heading manual mode
	MaxManualHeadingTurn float64 // heading correction scaling in manual mode
	MaxAutoHeadingTurn   float64 // heading correction scaling in auto mode
	HeadingClampIAt      float64 // heading error that clears the integral
	TrackRadius          float64 // mm, used for approach arcs
	RefreshDistance      float64 // mm; beyond this an approach re-aims at the target
}

// LoadTuning reads every parameter, inserting defaults for missing keys.
func LoadTuning(p *params.Store) (Tuning, error) {
	pos := p.Floats("motor.position.pid", []float64{0.002, 0.0, 0.00008})
	head := p.Floats("motor.heading.pid", []float64{0.015, 0.001, 0.0012})

	t := Tuning{
		PositionPOM:          p.Bool("motor.position.pid.pom", false),
		HeadingPOM:           p.Bool("motor.heading.pid.pom", false),
		MaxManualForward:     p.Float("motor.position.forward.max", 1.0),
		AngleTolerance:       p.Float("motor.position.angle.tolerance", 2.0),
		PositionTolerance:    p.Float("motor.position.dist.tolerance", 40),
		PositionCalibration:  p.Float("motor.position.dist.calibration", 1.19),
		MaxManualTurn:        p.Float("motor.manualturnangle.max", -15.0),
		MaxPIDForward:        p.Float("motor.position.pidforward.max", 0.4),
		MaxManualPIDForward:  p.Float("motor.position.manualpidforward.max", 0.8),
		MaxManualHeadingTurn: p.Float("motor.manualheadingturn.max", 0.6),
		MaxAutoHeadingTurn:   p.Float("tidy.autoheadingturn.max", 0.3),
		HeadingClampIAt:      p.Float("motor.heading.clampi", 10.0),
		TrackRadius:          p.Float("motor.track.radius", 155),
		RefreshDistance:      p.Float("vision.approach.refresh", 300),
	}
	copy(t.PositionPID[:], pos)
	copy(t.HeadingPID[:], head)

	if err := p.Err(); err != nil {
		return t, fmt.Errorf("behavior tuning: %w", err)
	}
	return t, nil
}

// Wiring maps behaviour inputs and outputs onto channel slots.
type Wiring struct {
	LeftMotor  int
	RightMotor int

	Heading     int // analog slot holding yaw in degrees
	ForwardAxis int
	TurnAxis    int

	MotorEnable int // held for manual driving
	AutoEnable  int // toggles automatic mode

	ResetPath  int
	RecordPath int
	SavePath   int

	SequenceButtons [4]int

	Servos map[string]int
}

// DefaultWiring matches the standard controller mapping.
func DefaultWiring() Wiring {
	return Wiring{
		LeftMotor:       2,
		RightMotor:      1,
		Heading:         20,
		ForwardAxis:     1,
		TurnAxis:        3,
		MotorEnable:     4,
		AutoEnable:      5,
		ResetPath:       3,
		RecordPath:      2,
		SavePath:        1,
		SequenceButtons: [4]int{13, 14, 15, 16},
		Servos:          map[string]int{},
	}
}

// Files names the plan files the behaviour can run.
type Files struct {
	Default  string    // run when automatic mode starts with no sequence button held
	Buttons  [4]string // run while the matching sequence button is held
	Recorded string    // written by path recording
}
