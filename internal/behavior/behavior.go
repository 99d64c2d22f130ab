// internal/behavior/behavior.go
package behavior

import (
	"log/slog"
	"time"

	"github.com/tamzrod/robotcore/internal/access"
	"github.com/tamzrod/robotcore/internal/mediator"
	"github.com/tamzrod/robotcore/internal/params"
	"github.com/tamzrod/robotcore/internal/sequence"
	"github.com/tamzrod/robotcore/internal/statemachine"
	"github.com/tamzrod/robotcore/internal/status"
	"github.com/tamzrod/robotcore/internal/value"
)

// State names.
const (
	StateMotorsOff       = "MotorsOff"
	StateManual          = "Manual"
	StateSetZeroHeading  = "SetZeroHeading"
	StateStartSequence   = "StartSequence"
	StateNextSequence    = "NextSequence"
	StateMoveDistance    = "MoveDistance"
	StateRotate          = "Rotate"
	StateForward         = "Forward"
	StateServo           = "Servo"
	StateRotateToFace    = "RotateToFace"
	StateForwardToTarget = "ForwardToTarget"
)

// Speed modes select which input set drives the wheel motors.
const (
	ModeStop          = 0 // motors held at zero
	ModeManual        = 1 // joystick, no feedback
	ModePosition      = 2 // joystick plus wheel position PIDs
	ModeHeadingManual = 3 // joystick forward, heading PID steering
	ModeHeadingAuto   = 4 // fixed forward demand, heading PID steering
)

// stepStates are the states a plan may name.
var stepStates = map[string]bool{
	StateMotorsOff:       true,
	StateSetZeroHeading:  true,
	StateMoveDistance:    true,
	StateRotate:          true,
	StateForward:         true,
	StateServo:           true,
	StateRotateToFace:    true,
	StateForwardToTarget: true,
}

// Deps are the collaborators a Sequencer is built from.
type Deps struct {
	Access *access.Factory
	Params *params.Store
	Board  *status.Board
	Log    *slog.Logger
	Now    func() time.Time
}

// Sequencer is the generic sequence behaviour: manual driving with heading
// hold, path recording, and automatic plans of typed steps.
type Sequencer struct {
	f     *access.Factory
	m     *statemachine.Machine
	board *status.Board
	log   *slog.Logger
	now   func() time.Time

	tuning Tuning
	wiring Wiring
	files  Files

	// inputs
	heading     value.Node
	joyForward  value.Node
	joyTurn     value.Node
	positionL   *access.MotorPosition
	positionR   *access.MotorPosition
	motorEnable *access.Button
	autoEnable  *value.Toggle
	resetPath   *value.OneShot
	recordPath  *value.OneShot
	savePath    *value.OneShot
	seqButtons  [4]*access.Button
	servos      map[string]*access.Servo

	// controllers
	posErrL     *value.PIDError
	posErrR     *value.PIDError
	headingErr  *value.HeadingPIDError
	autoForward *value.Fixed
	speedMode   *value.Fixed

	motorL *mediator.Switching
	motorR *mediator.Switching

	// behaviour state
	targetL, targetR float64
	targetAngle      float64
	lastL, lastR     float64
	path             sequence.Sequence
	cursor           *sequence.Cursor
}

// New builds the value graph, the motor mediators and the state machine.
func New(d Deps, w Wiring, files Files) (*Sequencer, error) {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Board == nil {
		d.Board = status.NewBoard("sequence")
	}
	if d.Params == nil {
		d.Params = params.New()
	}

	t, err := LoadTuning(d.Params)
	if err != nil {
		return nil, err
	}
	if err := d.Params.Save(); err != nil {
		d.Log.Warn("params save failed", "err", err)
	}

	s := &Sequencer{
		f:      d.Access,
		board:  d.Board,
		log:    d.Log,
		now:    d.Now,
		tuning: t,
		wiring: w,
		files:  files,
	}
	s.buildGraph()
	s.buildMachine()
	return s, nil
}

// Machine exposes the state machine.
func (s *Sequencer) Machine() *statemachine.Machine { return s.m }

// Tickers returns the stateful nodes to advance every tick. The PID error
// nodes step when read, so there are none.
func (s *Sequencer) Tickers() []value.Ticker { return nil }

// HighPriority returns the processors to run every tick.
func (s *Sequencer) HighPriority() []mediator.Processor {
	return []mediator.Processor{s.motorL, s.motorR}
}

// MediumPriority returns the processors to run every few ticks.
func (s *Sequencer) MediumPriority() []mediator.Processor { return nil }

// Start puts the machine in its safe state.
func (s *Sequencer) Start() {
	s.m.ChangeState(StateMotorsOff, nil)
}

// Move advances the machine by one tick.
func (s *Sequencer) Move() {
	s.m.Process()
}

// Stop forces the safe state and drops the manual enable so that driving
// needs a fresh press once inputs come back.
func (s *Sequencer) Stop() {
	s.m.ChangeState(StateMotorsOff, nil)
	s.motorEnable.Clear()
}
