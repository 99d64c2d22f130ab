// internal/behavior/graph.go
package behavior

import (
	"time"

	"github.com/tamzrod/robotcore/internal/access"
	"github.com/tamzrod/robotcore/internal/mediator"
	"github.com/tamzrod/robotcore/internal/pid"
	"github.com/tamzrod/robotcore/internal/value"
)

const (
	positionSampleTime = 25 * time.Millisecond
	headingSampleTime  = 8 * time.Millisecond
)

func (s *Sequencer) buildGraph() {
	f, t, w := s.f, s.tuning, s.wiring

	s.heading = f.Analog(w.Heading)
	s.joyForward = f.Axis(w.ForwardAxis)
	s.joyTurn = f.Axis(w.TurnAxis)
	s.positionL = f.MotorPosition(w.LeftMotor)
	s.positionR = f.MotorPosition(w.RightMotor)

	s.motorEnable = f.Button(w.MotorEnable)
	s.autoEnable = value.NewToggle(f.Button(w.AutoEnable), value.Button(), value.Levels{On: 2, Off: 0})
	s.resetPath = value.NewOneShot(f.Button(w.ResetPath), value.Button(), value.Binary())
	s.recordPath = value.NewOneShot(f.Button(w.RecordPath), value.Button(), value.Binary())
	s.savePath = value.NewOneShot(f.Button(w.SavePath), value.Button(), value.Binary())
	for i, b := range w.SequenceButtons {
		s.seqButtons[i] = f.Button(b)
	}
	s.servos = make(map[string]*access.Servo, len(w.Servos))
	for name, n := range w.Servos {
		s.servos[name] = f.Servo(n)
	}

	// position PIDs, one per wheel
	posCfg := pid.Config{
		Kp: t.PositionPID[0], Ki: t.PositionPID[1], Kd: t.PositionPID[2],
		SampleTime:                positionSampleTime,
		OutputMin:                 -1,
		OutputMax:                 1,
		ProportionalOnMeasurement: t.PositionPOM,
	}
	s.posErrL = value.NewPIDError(pid.NewWithClock(posCfg, s.now), s.positionL, value.Unit(), false)
	s.posErrR = value.NewPIDError(pid.NewWithClock(posCfg, s.now), s.positionR, value.Unit(), false)
	s.targetL = s.positionL.Value()
	s.targetR = s.positionR.Value()
	s.posErrL.SetTarget(s.targetL)
	s.posErrR.SetTarget(s.targetR)
	s.posErrL.Reset()
	s.posErrR.Reset()

	// heading PID
	headCfg := pid.Config{
		Kp: t.HeadingPID[0], Ki: t.HeadingPID[1], Kd: t.HeadingPID[2],
		SampleTime:                headingSampleTime,
		OutputMin:                 -1,
		OutputMax:                 1,
		ProportionalOnMeasurement: t.HeadingPOM,
	}
	s.targetAngle = s.heading.Value()
	s.headingErr = value.NewHeadingPIDError(s.heading, pid.NewWithClock(headCfg, s.now), s.targetAngle, value.Unit(), false)
	s.headingErr.ClampIAt = t.HeadingClampIAt
	s.headingErr.Reset()

	s.lastL, s.lastR = s.targetL, s.targetR

	s.autoForward = value.NewFixed(0)
	s.speedMode = value.NewFixed(ModeStop)

	// wheel inputs for each speed mode; right wheel steering is mirrored
	wheel := func(dir float64, posErr value.Node) []value.Sum {
		stop := value.SumOf(value.NewFixed(0))
		manual := value.NewSpeedDirectionCombiner(
			value.SumOf(value.NewScaler(value.SumOf(s.joyForward), value.Scaled(t.MaxManualForward))),
			value.SumOf(value.NewScaler(value.SumOf(s.joyTurn), value.Scaled(dir*t.MaxManualForward))),
			value.Unit())
		position := value.NewScaler(value.SumOf(s.joyForward, posErr), value.Scaled(t.MaxPIDForward))
		headingManual := value.NewSpeedDirectionCombiner(
			value.SumOf(value.NewScaler(value.SumOf(s.joyForward), value.Scaled(t.MaxManualPIDForward))),
			value.SumOf(value.NewScaler(value.SumOf(s.headingErr), value.Scaled(-dir*t.MaxManualHeadingTurn))),
			value.Unit())
		headingAuto := value.NewSpeedDirectionCombiner(
			value.SumOf(s.autoForward),
			value.SumOf(value.NewScaler(value.SumOf(s.headingErr), value.Scaled(-dir*t.MaxAutoHeadingTurn))),
			value.Unit())
		return []value.Sum{
			ModeStop:          stop,
			ModeManual:        value.SumOf(manual),
			ModePosition:      value.SumOf(position),
			ModeHeadingManual: value.SumOf(headingManual),
			ModeHeadingAuto:   value.SumOf(headingAuto),
		}
	}

	s.motorL = mediator.NewSwitching(wheel(1, s.posErrL), s.speedMode, f.Motor(w.LeftMotor))
	s.motorR = mediator.NewSwitching(wheel(-1, s.posErrR), s.speedMode, f.Motor(w.RightMotor))
}

func (s *Sequencer) setMode(mode int) { s.speedMode.Set(float64(mode)) }
