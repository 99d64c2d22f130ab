// internal/behavior/steps.go
package behavior

import (
	"fmt"
	"math"
	"time"

	"github.com/tamzrod/robotcore/internal/channel"
	"github.com/tamzrod/robotcore/internal/sequence"
	"github.com/tamzrod/robotcore/internal/value"
)

// stepAliases maps older plan step names onto current states.
var stepAliases = map[string]string{
	"RotateToFaceBlock": StateRotateToFace,
	"ForwardToBlock":    StateForwardToTarget,
}

// ----------------------------------------------------------------------------
// Sequencing
// ----------------------------------------------------------------------------

func (s *Sequencer) enterStartSequence(data any) any {
	file, _ := data.(string)

	var plan sequence.Sequence
	if file != "" {
		var err error
		plan, err = sequence.Load(file)
		if err != nil {
			s.log.Warn("sequence load failed", "file", file, "err", err)
			plan = nil
		}
	}
	// a freshly recorded path takes precedence so it can be replayed at once
	if len(s.path) > 0 {
		plan = s.Path()
	}

	s.cursor = sequence.NewCursor(plan)
	s.board.SetDetail(file)
	s.log.Info("sequence started", "file", file, "steps", len(plan))
	return nil
}

func (s *Sequencer) processSequence(any) {
	if s.autoEnable.Value() == 0 {
		s.m.ChangeState(StateMotorsOff, nil)
		return
	}

	step, ok := s.cursor.Next()
	if !ok {
		s.log.Info("sequence complete")
		s.m.ChangeState(StateMotorsOff, nil)
		return
	}

	name := step.Name
	if alias, ok := stepAliases[name]; ok {
		name = alias
	}
	if !stepStates[name] {
		s.log.Error("unknown sequence step", "step", step.Name)
		s.m.ChangeState(StateMotorsOff, nil)
		return
	}
	s.m.ChangeState(name, step)
}

// abort logs a malformed step and drops to the safe state.
func (s *Sequencer) abort(step any, err error) any {
	s.log.Error("sequence step rejected", "step", step, "err", err)
	s.m.ChangeState(StateMotorsOff, nil)
	return nil
}

// next moves on once the step is done, after an optional settle time.
func (s *Sequencer) next(settle float64) {
	if _, pending := s.m.Timeout(); pending {
		return
	}
	if settle > 0 {
		s.m.SetTimeout(seconds(settle), StateNextSequence)
		return
	}
	s.m.ChangeState(StateNextSequence, nil)
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

func stepOf(data any) sequence.Step {
	st, _ := data.(sequence.Step)
	return st
}

func (s *Sequencer) autoOff() bool { return s.autoEnable.Value() == 0 }

func (s *Sequencer) holdPosition() {
	s.targetL = s.positionL.Value()
	s.targetR = s.positionR.Value()
}

// ----------------------------------------------------------------------------
// SetZeroHeading
// ----------------------------------------------------------------------------

func (s *Sequencer) processSetZeroHeading(any) {
	s.targetAngle = s.heading.Value()
	s.log.Info("zero heading set", "heading", s.targetAngle)
	s.m.ChangeState(StateNextSequence, nil)
}

// ----------------------------------------------------------------------------
// MoveDistance: [left mm, right mm]
// ----------------------------------------------------------------------------

type moveData struct {
	targetL, targetR float64
}

func (s *Sequencer) enterMoveDistance(data any) any {
	st := stepOf(data)
	nudgeL, err := st.Float(0)
	if err != nil {
		return s.abort(st, err)
	}
	nudgeR, err := st.Float(1)
	if err != nil {
		return s.abort(st, err)
	}

	s.autoForward.Set(s.tuning.MaxPIDForward)
	s.setMode(ModePosition)
	s.holdPosition()

	s.posErrL.Enable()
	s.posErrR.Enable()
	s.targetL += nudgeL * s.tuning.PositionCalibration
	s.targetR += nudgeR * s.tuning.PositionCalibration
	s.posErrL.SetTarget(s.targetL)
	s.posErrR.SetTarget(s.targetR)

	s.board.SetDetail(fmt.Sprintf("%g,%gmm", nudgeL, nudgeR))
	return moveData{targetL: s.targetL, targetR: s.targetR}
}

func (s *Sequencer) processMoveDistance(data any) {
	d, _ := data.(moveData)
	tol := s.tuning.PositionTolerance
	reached := math.Abs(d.targetL-s.positionL.Value()) < tol &&
		math.Abs(d.targetR-s.positionR.Value()) < tol
	if reached || s.autoOff() {
		s.m.ChangeState(StateNextSequence, nil)
	}
}

func (s *Sequencer) exitMoveDistance(any) {
	s.setMode(ModeStop)
	s.posErrL.Disable()
	s.posErrR.Disable()
}

// ----------------------------------------------------------------------------
// Rotate: [degrees, settle seconds]
// RotateToFace: [type, name, settle seconds]
// ----------------------------------------------------------------------------

type rotateData struct {
	target float64
	settle float64
}

func (s *Sequencer) startHeadingMove(target, forward float64) {
	s.setMode(ModeHeadingAuto)
	s.autoForward.Set(forward)
	s.headingErr.Enable()
	s.targetAngle = target
	s.headingErr.SetTarget(target)
}

func (s *Sequencer) enterRotate(data any) any {
	st := stepOf(data)
	angle, err := st.Float(0)
	if err != nil {
		return s.abort(st, err)
	}
	settle, err := st.FloatOr(1, 0)
	if err != nil {
		return s.abort(st, err)
	}

	s.startHeadingMove(s.targetAngle+angle, 0)
	s.board.SetDetail(fmt.Sprintf("%gdegs", angle))
	return rotateData{target: s.targetAngle, settle: settle}
}

func (s *Sequencer) enterRotateToFace(data any) any {
	st := stepOf(data)
	typeName, err := st.String(0)
	if err != nil {
		return s.abort(st, err)
	}
	name, err := st.String(1)
	if err != nil {
		return s.abort(st, err)
	}
	settle, err := st.FloatOr(2, 0)
	if err != nil {
		return s.abort(st, err)
	}

	found, ok := s.findTarget(typeName, name)
	if !ok {
		return nil
	}

	s.startHeadingMove(float64(found[0].Yaw), 0)
	s.board.SetDetail(name)
	return rotateData{target: s.targetAngle, settle: settle}
}

// findTarget looks the target up in one frame of the image channel. A
// stopped vision producer or a missing target drops to MotorsOff.
func (s *Sequencer) findTarget(typeName, name string) ([]channel.ImageResult, bool) {
	img := s.f.Bundle().Image
	if img.Watchdog().Check() == 0 {
		s.log.Warn("vision stopped updating", "type", typeName, "name", name)
		s.m.ChangeState(StateMotorsOff, nil)
		return nil, false
	}
	found := img.Snapshot().Find(name, typeName)
	if len(found) == 0 {
		s.log.Warn("target not found", "type", typeName, "name", name)
		s.m.ChangeState(StateMotorsOff, nil)
		return nil, false
	}
	return found, true
}

func (s *Sequencer) processRotate(data any) {
	d, _ := data.(rotateData)
	if s.autoOff() {
		s.m.ChangeState(StateNextSequence, nil)
		return
	}
	diff := math.Abs(value.NormaliseHeading(d.target - s.heading.Value()))
	if diff < s.tuning.AngleTolerance {
		s.next(d.settle)
	}
}

func (s *Sequencer) exitRotate(any) {
	s.setMode(ModeStop)
	s.headingErr.Disable()
	// wheel positions moved by an unknown amount during the turn
	s.holdPosition()
}

// ----------------------------------------------------------------------------
// Forward: [mm, settle seconds]
// ForwardToTarget: [type, name, stop distance mm, settle seconds]
// ----------------------------------------------------------------------------

type forwardData struct {
	targetL, targetR float64
	settle           float64

	// set for ForwardToTarget only
	typeName, name string
}

func (s *Sequencer) forwardDemand(delta float64) float64 {
	if delta > 0 {
		return s.tuning.MaxPIDForward
	}
	return -s.tuning.MaxPIDForward
}

func (s *Sequencer) enterForward(data any) any {
	st := stepOf(data)
	distance, err := st.Float(0)
	if err != nil {
		return s.abort(st, err)
	}
	settle, err := st.FloatOr(1, 0)
	if err != nil {
		return s.abort(st, err)
	}

	s.startHeadingMove(s.targetAngle, s.forwardDemand(distance))
	s.holdPosition()
	s.targetL += distance * s.tuning.PositionCalibration
	s.targetR += distance * s.tuning.PositionCalibration

	s.board.SetDetail(fmt.Sprintf("%gmm", distance))
	return forwardData{targetL: s.targetL, targetR: s.targetR, settle: settle}
}

func (s *Sequencer) enterForwardToTarget(data any) any {
	st := stepOf(data)
	typeName, err := st.String(0)
	if err != nil {
		return s.abort(st, err)
	}
	name, err := st.String(1)
	if err != nil {
		return s.abort(st, err)
	}
	howClose, err := st.FloatOr(2, 0)
	if err != nil {
		return s.abort(st, err)
	}
	settle, err := st.FloatOr(3, 0)
	if err != nil {
		return s.abort(st, err)
	}

	found, ok := s.findTarget(typeName, name)
	if !ok {
		return nil
	}
	target := found[0]

	delta := (float64(target.Distance) - howClose) * s.tuning.PositionCalibration
	s.startHeadingMove(float64(target.Yaw), s.forwardDemand(delta))
	s.holdPosition()
	s.targetL += delta
	s.targetR += delta

	// the outer wheel of the approach arc travels further
	arc := math.Trunc(2 * math.Pi * s.tuning.TrackRadius * float64(target.Angle) / 360)
	if arc < 0 {
		s.targetL -= arc
	} else {
		s.targetR += arc
	}

	s.board.SetDetail(name)
	return forwardData{
		targetL:  s.targetL,
		targetR:  s.targetR,
		settle:   settle,
		typeName: typeName,
		name:     name,
	}
}

func (s *Sequencer) processForward(data any) {
	d, _ := data.(forwardData)
	if s.autoOff() {
		s.m.ChangeState(StateNextSequence, nil)
		return
	}
	tol := s.tuning.PositionTolerance
	reached := math.Abs(d.targetL-s.positionL.Value()) < tol ||
		math.Abs(d.targetR-s.positionR.Value()) < tol
	if reached {
		s.autoForward.Set(0)
		s.next(d.settle)
	}
}

func (s *Sequencer) processForwardToTarget(data any) {
	d, _ := data.(forwardData)

	if s.f.Bundle().Image.Watchdog().Check() == 0 {
		s.log.Warn("vision stopped updating", "name", d.name)
		s.m.ChangeState(StateMotorsOff, nil)
		return
	}

	// re-aim while the target is still far enough away to be measured well
	found := s.f.Bundle().Image.Snapshot().Find(d.name, d.typeName)
	if len(found) > 0 && float64(found[0].Distance) > s.tuning.RefreshDistance {
		s.targetAngle = float64(found[0].Yaw)
		s.headingErr.SetTarget(s.targetAngle)
	}

	s.processForward(data)
}

func (s *Sequencer) exitForward(any) {
	s.setMode(ModeStop)
	s.headingErr.Disable()
	s.autoForward.Set(0)
}

// ----------------------------------------------------------------------------
// Servo: [name, position, seconds]
// ----------------------------------------------------------------------------

func (s *Sequencer) enterServo(data any) any {
	st := stepOf(data)
	name, err := st.String(0)
	if err != nil {
		return s.abort(st, err)
	}
	pos, err := st.Float(1)
	if err != nil {
		return s.abort(st, err)
	}
	wait, err := st.FloatOr(2, 0)
	if err != nil {
		return s.abort(st, err)
	}
	servo, ok := s.servos[name]
	if !ok {
		return s.abort(st, fmt.Errorf("%w: unknown servo %q", sequence.ErrStep, name))
	}

	servo.Set(pos)
	s.board.SetDetail(name)
	s.m.SetTimeout(seconds(wait), StateNextSequence)
	return nil
}

func (s *Sequencer) processServo(any) {
	if s.autoOff() {
		s.m.ChangeState(StateNextSequence, nil)
	}
}
