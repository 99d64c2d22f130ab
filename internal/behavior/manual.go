// internal/behavior/manual.go
package behavior

import (
	"math"

	"github.com/tamzrod/robotcore/internal/sequence"
	"github.com/tamzrod/robotcore/internal/statemachine"
)

func (s *Sequencer) buildMachine() {
	m := statemachine.New(s.log).WithClock(s.now)
	m.OnChange(func(_, to string) { s.board.SetState(to) })

	m.AddState(StateMotorsOff, s.enterMotorsOff, s.processMotorsOff, nil)
	m.AddState(StateManual, s.enterManual, s.processManual, s.exitManual)
	m.AddState(StateSetZeroHeading, nil, s.processSetZeroHeading, nil)
	m.AddState(StateStartSequence, s.enterStartSequence, s.processSequence, nil)
	m.AddState(StateNextSequence, nil, s.processSequence, nil)
	m.AddState(StateMoveDistance, s.enterMoveDistance, s.processMoveDistance, s.exitMoveDistance)
	m.AddState(StateRotate, s.enterRotate, s.processRotate, s.exitRotate)
	m.AddState(StateForward, s.enterForward, s.processForward, s.exitForward)
	m.AddState(StateServo, s.enterServo, s.processServo, nil)
	m.AddState(StateRotateToFace, s.enterRotateToFace, s.processRotate, s.exitRotate)
	m.AddState(StateForwardToTarget, s.enterForwardToTarget, s.processForwardToTarget, s.exitForward)

	s.m = m
}

// ----------------------------------------------------------------------------
// MotorsOff
// ----------------------------------------------------------------------------

func (s *Sequencer) enterMotorsOff(any) any {
	s.autoForward.Set(0)
	s.autoEnable.Reset()
	s.setMode(ModeStop)
	s.posErrL.Disable()
	s.posErrR.Disable()
	s.headingErr.Disable()
	return nil
}

func (s *Sequencer) processMotorsOff(any) {
	// hold the current position as the reference
	s.targetL = s.positionL.Value()
	s.targetR = s.positionR.Value()

	enable := s.motorEnable.Value() > 0
	auto := s.autoEnable.Value() > 0
	if enable || auto {
		s.m.ChangeState(StateManual, nil)
	}
}

// ----------------------------------------------------------------------------
// Manual (heading hold)
// ----------------------------------------------------------------------------

func (s *Sequencer) enterManual(any) any {
	s.setMode(ModeHeadingManual)
	s.headingErr.Enable()
	s.headingErr.Reset()
	return nil
}

func (s *Sequencer) processManual(any) {
	s.handlePathButtons()

	switch {
	case s.motorEnable.Value() > 0:
		if turn := s.joyTurn.Value(); turn != 0 {
			s.headingErr.SetTarget(s.heading.Value() + turn*s.tuning.MaxManualTurn)
		}
	case s.autoEnable.Value() > 0:
		s.m.ChangeState(StateStartSequence, s.selectedPlan())
	default:
		s.m.ChangeState(StateMotorsOff, nil)
	}
}

func (s *Sequencer) exitManual(any) {
	s.setMode(ModeStop)
	s.headingErr.Disable()
	s.targetAngle = s.heading.Value()
}

// selectedPlan picks the plan for the held sequence button, or the default.
func (s *Sequencer) selectedPlan() string {
	for i, b := range s.seqButtons {
		if b.Value() > 0 {
			return s.files.Buttons[i]
		}
	}
	return s.files.Default
}

// handlePathButtons handles the reset, record and save buttons. Each record press
// appends the wheel travel since the previous press as a MoveDistance step.
func (s *Sequencer) handlePathButtons() {
	reset := s.resetPath.Value() > 0
	record := s.recordPath.Value() > 0
	save := s.savePath.Value() > 0

	switch {
	case reset:
		s.lastL = s.positionL.Value()
		s.lastR = s.positionR.Value()
		s.path = nil
		s.log.Info("path reset")
	case record:
		l, r := s.positionL.Value(), s.positionR.Value()
		cal := s.tuning.PositionCalibration
		step := sequence.Step{Name: StateMoveDistance, Args: []any{
			int(math.Round((l - s.lastL) / cal)),
			int(math.Round((r - s.lastR) / cal)),
		}}
		s.path = append(s.path, step)
		s.lastL, s.lastR = l, r
		s.log.Info("path point recorded", "steps", len(s.path))
	case save:
		if s.files.Recorded == "" {
			s.log.Warn("path not saved: no file configured")
			return
		}
		if err := sequence.Save(s.files.Recorded, s.path); err != nil {
			s.log.Error("path save failed", "file", s.files.Recorded, "err", err)
			return
		}
		s.log.Info("path saved", "file", s.files.Recorded, "steps", len(s.path))
	}
}

// Path returns a copy of the recorded path.
func (s *Sequencer) Path() sequence.Sequence {
	return append(sequence.Sequence(nil), s.path...)
}
