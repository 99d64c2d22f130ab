// internal/behavior/behavior_test.go
package behavior

import (
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tamzrod/robotcore/internal/access"
	"github.com/tamzrod/robotcore/internal/channel"
	"github.com/tamzrod/robotcore/internal/params"
	"github.com/tamzrod/robotcore/internal/sequence"
	"github.com/tamzrod/robotcore/internal/status"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

type rig struct {
	t     *testing.T
	b     *channel.Bundle
	clk   *fakeClock
	board *status.Board
	s     *Sequencer
	w     Wiring
}

func newRig(t *testing.T, files Files) *rig {
	t.Helper()
	b := channel.NewMemBundle()
	clk := &fakeClock{t: time.Unix(1000, 0)}
	board := status.NewBoard("test")
	w := DefaultWiring()
	w.Servos = map[string]int{"grip": 3}

	s, err := New(Deps{
		Access: access.New(b).WithClock(clk.now),
		Params: params.New(),
		Board:  board,
		Log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:    clk.now,
	}, w, files)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Start()
	return &rig{t: t, b: b, clk: clk, board: board, s: s, w: w}
}

func (r *rig) press(slot int, v int16) {
	r.b.Sensors.SetDigital(slot, v, channel.StatusValid, 0)
}

func (r *rig) heading(deg float32) {
	r.b.Sensors.SetAnalog(r.w.Heading, deg, channel.StatusValid, 0)
}

func (r *rig) positions(left, right int64) {
	r.b.Motors.SetCurrentPosition(r.w.LeftMotor, left)
	r.b.Motors.SetCurrentPosition(r.w.RightMotor, right)
}

func (r *rig) tick() {
	r.clk.advance(30 * time.Millisecond)
	r.s.Move()
	for _, p := range r.s.HighPriority() {
		p.Process()
	}
}

func (r *rig) expectState(want string) {
	r.t.Helper()
	if got := r.s.Machine().Current(); got != want {
		r.t.Fatalf("expected state %s, got %s", want, got)
	}
}

func writePlan(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write plan: %v", err)
	}
	return path
}

// startAuto toggles automatic mode and ticks until the first step is entered.
func startAuto(t *testing.T, plan string) *rig {
	t.Helper()
	r := newRig(t, Files{Default: writePlan(t, plan)})
	r.press(r.w.AutoEnable, 1)
	r.tick() // MotorsOff -> Manual
	r.expectState(StateManual)
	r.tick() // Manual -> StartSequence
	r.expectState(StateStartSequence)
	r.tick() // StartSequence -> first step
	return r
}

// ----------------------------------------------------------------------------
// Manual
// ----------------------------------------------------------------------------

func TestStart_MotorsOffHoldsZeroTorque(t *testing.T) {
	r := newRig(t, Files{})
	r.b.Motors.SetRequiredTorque(r.w.LeftMotor, 0.7)

	r.tick()

	r.expectState(StateMotorsOff)
	if got := r.b.Motors.RequiredTorque(r.w.LeftMotor); got != 0 {
		t.Fatalf("expected zero torque, got %v", got)
	}
	if got := r.board.Snapshot().State; got != StateMotorsOff {
		t.Fatalf("expected board state %s, got %q", StateMotorsOff, got)
	}
}

func TestMotorEnable_EntersHeadingManual(t *testing.T) {
	r := newRig(t, Files{})
	r.press(r.w.MotorEnable, 1)

	r.tick()

	r.expectState(StateManual)
	if got := r.s.speedMode.Value(); got != ModeHeadingManual {
		t.Fatalf("expected mode %d, got %v", ModeHeadingManual, got)
	}

	r.press(r.w.MotorEnable, 0)
	r.tick()
	r.expectState(StateMotorsOff)
	if got := r.s.speedMode.Value(); got != ModeStop {
		t.Fatalf("expected mode %d, got %v", ModeStop, got)
	}
}

func TestManual_TurnMovesHeadingTarget(t *testing.T) {
	r := newRig(t, Files{})
	r.heading(30)
	r.press(r.w.MotorEnable, 1)
	r.tick()

	r.b.Sensors.SetAnalog(r.w.TurnAxis, 1, channel.StatusValid, 0)
	r.tick()

	// default turn scaling is -15 degrees
	if got := r.s.headingErr.Target(); got != 15 {
		t.Fatalf("expected heading target 15, got %v", got)
	}
}

func TestStop_ClearsEnableButton(t *testing.T) {
	r := newRig(t, Files{})
	r.press(r.w.MotorEnable, 1)
	r.tick()
	r.expectState(StateManual)

	r.s.Stop()

	r.expectState(StateMotorsOff)
	if got := r.b.Sensors.DigitalStatus(r.w.MotorEnable); got != channel.StatusAbsent {
		t.Fatalf("expected absent enable button, got status %d", got)
	}
	r.tick()
	r.expectState(StateMotorsOff)
}

func TestPathRecording_SavesLoadablePlan(t *testing.T) {
	out := filepath.Join(t.TempDir(), "recorded.yaml")
	r := newRig(t, Files{Recorded: out})
	r.press(r.w.MotorEnable, 1)
	r.tick()

	r.press(r.w.ResetPath, 1)
	r.tick()
	r.press(r.w.ResetPath, 0)
	r.tick()

	r.positions(119, 238)
	r.press(r.w.RecordPath, 1)
	r.tick()
	r.press(r.w.RecordPath, 0)
	r.tick()

	r.press(r.w.SavePath, 1)
	r.tick()

	seq, err := sequence.Load(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seq) != 1 || seq[0].Name != StateMoveDistance {
		t.Fatalf("expected one MoveDistance step, got %+v", seq)
	}
	left, _ := seq[0].Float(0)
	right, _ := seq[0].Float(1)
	if left != 100 || right != 200 {
		t.Fatalf("expected [100 200], got [%v %v]", left, right)
	}
}

// ----------------------------------------------------------------------------
// Sequences
// ----------------------------------------------------------------------------

func TestSequence_MoveDistanceThenMotorsOff(t *testing.T) {
	r := startAuto(t, "path:\n  - [MoveDistance, [100, 100]]\n")
	r.expectState(StateMoveDistance)

	if got := r.s.posErrL.Target(); math.Abs(got-119) > 1e-9 {
		t.Fatalf("expected left target 119, got %v", got)
	}
	if got := r.s.speedMode.Value(); got != ModePosition {
		t.Fatalf("expected mode %d, got %v", ModePosition, got)
	}

	r.tick()
	if got := r.b.Motors.RequiredTorque(r.w.LeftMotor); got <= 0 {
		t.Fatalf("expected forward torque, got %v", got)
	}

	r.positions(119, 119)
	r.tick()
	r.expectState(StateNextSequence)
	r.tick()
	r.expectState(StateMotorsOff)
}

func TestSequence_MissingFileStops(t *testing.T) {
	r := newRig(t, Files{Default: filepath.Join(t.TempDir(), "missing.yaml")})
	r.press(r.w.AutoEnable, 1)
	r.tick()
	r.tick()
	r.expectState(StateStartSequence)

	r.tick()
	r.expectState(StateMotorsOff)
}

func TestSequence_MalformedStepStops(t *testing.T) {
	r := startAuto(t, "path:\n  - [MoveDistance, [100]]\n")
	r.expectState(StateMotorsOff)
}

func TestSequence_UnknownStepStops(t *testing.T) {
	r := startAuto(t, "path:\n  - [Dance, 3]\n")
	r.expectState(StateMotorsOff)
}

func TestSequence_AutoToggleOffStops(t *testing.T) {
	r := startAuto(t, "path:\n  - [Forward, 500]\n")
	r.expectState(StateForward)

	r.press(r.w.AutoEnable, 0)
	r.tick()
	r.press(r.w.AutoEnable, 1)
	r.tick()
	r.expectState(StateNextSequence)
	r.tick()
	r.expectState(StateMotorsOff)
}

func TestSequence_SequenceButtonSelectsPlan(t *testing.T) {
	files := Files{Default: writePlan(t, "path:\n  - [Dance]\n")}
	files.Buttons[1] = writePlan(t, "path:\n  - [Forward, 500]\n")
	r := newRig(t, files)

	r.press(r.w.SequenceButtons[1], 1)
	r.press(r.w.AutoEnable, 1)
	r.tick()
	r.tick()
	r.tick()

	r.expectState(StateForward)
}

func TestRotate_SettleTimeUsesTimeout(t *testing.T) {
	r := newRig(t, Files{Default: writePlan(t, "path:\n  - [Rotate, 90, 0.5]\n")})
	r.heading(0)
	r.press(r.w.AutoEnable, 1)
	r.tick()
	r.tick()
	r.tick()
	r.expectState(StateRotate)

	if got := r.s.headingErr.Target(); got != 90 {
		t.Fatalf("expected heading target 90, got %v", got)
	}
	if got := r.s.speedMode.Value(); got != ModeHeadingAuto {
		t.Fatalf("expected mode %d, got %v", ModeHeadingAuto, got)
	}

	r.heading(89)
	r.tick()
	r.expectState(StateRotate)
	if _, ok := r.s.Machine().Timeout(); !ok {
		t.Fatalf("expected pending settle timeout")
	}

	r.clk.advance(time.Second)
	r.tick()
	r.expectState(StateNextSequence)
}

func TestRotate_AcrossSeam(t *testing.T) {
	r := newRig(t, Files{Default: writePlan(t, "path:\n  - [Rotate, 20]\n")})
	r.heading(170)
	r.press(r.w.AutoEnable, 1)
	r.tick()
	r.tick()
	r.tick()
	r.expectState(StateRotate)

	r.heading(-171)
	r.tick()
	r.expectState(StateNextSequence)
}

func TestForward_ReachesTarget(t *testing.T) {
	r := startAuto(t, "path:\n  - [Forward, -100]\n")
	r.expectState(StateForward)

	if got := r.s.autoForward.Value(); got != -0.4 {
		t.Fatalf("expected reverse demand -0.4, got %v", got)
	}

	r.positions(-100, 0)
	r.tick()
	r.expectState(StateNextSequence)
	if got := r.s.autoForward.Value(); got != 0 {
		t.Fatalf("expected demand cleared, got %v", got)
	}
}

func TestServo_SetsPositionAndWaits(t *testing.T) {
	r := startAuto(t, "path:\n  - [Servo, grip, 0.5, 1]\n")
	r.expectState(StateServo)

	if got := r.b.Servos.Position(3); got != 0.5 {
		t.Fatalf("expected servo position 0.5, got %v", got)
	}
	r.tick()
	r.expectState(StateServo)

	r.clk.advance(2 * time.Second)
	r.tick()
	r.expectState(StateNextSequence)
}

func TestServo_UnknownNameStops(t *testing.T) {
	r := startAuto(t, "path:\n  - [Servo, arm, 0.5, 1]\n")
	r.expectState(StateMotorsOff)
}

func TestSetZeroHeading_ResetsReference(t *testing.T) {
	r := newRig(t, Files{Default: writePlan(t, "path:\n  - SetZeroHeading\n  - [Rotate, 10]\n")})
	r.press(r.w.AutoEnable, 1)
	r.tick()
	r.tick()
	r.heading(45)
	r.tick()
	r.expectState(StateSetZeroHeading)
	r.tick()
	r.expectState(StateNextSequence)
	r.tick()
	r.expectState(StateRotate)

	if got := r.s.headingErr.Target(); got != 55 {
		t.Fatalf("expected heading target 55, got %v", got)
	}
}

// ----------------------------------------------------------------------------
// Vision steps
// ----------------------------------------------------------------------------

func TestRotateToFace_UsesTargetYaw(t *testing.T) {
	r := newRig(t, Files{Default: writePlan(t, "path:\n  - [RotateToFace, Block, red]\n")})
	r.b.Image.Watchdog().Reset(100)
	r.b.Image.ShareResults(1, 0.01, []channel.ImageResult{
		{TypeName: "Block", Name: "blue", Yaw: 10},
		{TypeName: "Block", Name: "red", Yaw: -40, Distance: 500},
	})
	r.press(r.w.AutoEnable, 1)
	r.tick()
	r.tick()
	r.tick()
	r.expectState(StateRotateToFace)

	if got := r.s.headingErr.Target(); got != -40 {
		t.Fatalf("expected heading target -40, got %v", got)
	}
}

func TestRotateToFace_NotFoundStops(t *testing.T) {
	r := newRig(t, Files{Default: writePlan(t, "path:\n  - [RotateToFace, Block, green]\n")})
	r.b.Image.Watchdog().Reset(100)
	r.press(r.w.AutoEnable, 1)
	r.tick()
	r.tick()
	r.tick()
	r.expectState(StateMotorsOff)
}

func TestRotateToFace_StaleVisionStops(t *testing.T) {
	r := newRig(t, Files{Default: writePlan(t, "path:\n  - [RotateToFace, Block, red]\n")})
	r.b.Image.ShareResults(1, 0.01, []channel.ImageResult{
		{TypeName: "Block", Name: "red", Yaw: -40, Distance: 500},
	})
	// the vision producer wrote a frame once and then stopped
	r.b.Image.Watchdog().Reset(0)
	r.press(r.w.AutoEnable, 1)
	r.tick()
	r.tick()
	r.tick()
	r.expectState(StateMotorsOff)
}

func TestForwardToTarget_StopsWhenVisionDies(t *testing.T) {
	r := newRig(t, Files{Default: writePlan(t, "path:\n  - [ForwardToTarget, Block, red, 100]\n")})
	r.b.Image.Watchdog().Reset(2)
	r.b.Image.ShareResults(1, 0.01, []channel.ImageResult{
		{TypeName: "Block", Name: "red", Yaw: 5, Distance: 600},
	})
	r.press(r.w.AutoEnable, 1)
	r.tick()
	r.tick()
	r.tick()
	r.expectState(StateForwardToTarget)

	r.tick()
	r.expectState(StateMotorsOff)
}

func TestForwardToTarget_AddsArc(t *testing.T) {
	r := newRig(t, Files{Default: writePlan(t, "path:\n  - [ForwardToBlock, Block, red, 100]\n")})
	r.b.Image.Watchdog().Reset(100)
	r.b.Image.ShareResults(1, 0.01, []channel.ImageResult{
		{TypeName: "Block", Name: "red", Yaw: 5, Angle: 90, Distance: 600},
	})
	r.press(r.w.AutoEnable, 1)
	r.tick()
	r.tick()
	r.tick()
	r.expectState(StateForwardToTarget)

	d, ok := r.s.Machine().Data().(forwardData)
	if !ok {
		t.Fatalf("expected forward data, got %T", r.s.Machine().Data())
	}
	delta := 500 * 1.19
	arc := math.Trunc(2 * math.Pi * 155 * 90 / 360)
	if math.Abs(d.targetL-delta) > 1e-9 || math.Abs(d.targetR-(delta+arc)) > 1e-9 {
		t.Fatalf("expected targets [%v %v], got [%v %v]", delta, delta+arc, d.targetL, d.targetR)
	}

	r.b.Image.ShareResults(2, 0.01, []channel.ImageResult{
		{TypeName: "Block", Name: "red", Yaw: 12, Distance: 400},
	})
	r.tick()
	if got := r.s.headingErr.Target(); got != 12 {
		t.Fatalf("expected re-aimed heading 12, got %v", got)
	}
}
