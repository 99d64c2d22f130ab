// internal/channel/channel_test.go
package channel

import (
	"errors"
	"testing"

	"github.com/tamzrod/robotcore/internal/shm"
)

func TestLayoutSizes(t *testing.T) {
	cases := []struct {
		spec Spec
		want int
	}{
		{MotorsSpec, 2 + 8*98},
		{ServosSpec, 2 + 32*6},
		{SimpleSpec, 2 + 32*2},
		{SensorsSpec, 2 + 32*14 + 32*12 + 32*22},
		{ImageSpec, 16 + 64*282},
		{LineSpec, 42 + 128*8},
		{VoiceSpec, 4 + 64*142 + 2 + 64*142},
		{StatusSpec, 4 * (80 + 80 + 160)},
		{IndicatorSpec, 32 * 13},
		{MonitorSpec, 64 * 14},
	}
	for _, c := range cases {
		if c.spec.Size != c.want {
			t.Fatalf("%s: expected size %d, got %d", c.spec.Name, c.want, c.spec.Size)
		}
	}
}

func TestMotors_RoundTrip(t *testing.T) {
	b := NewMemBundle()
	m := b.Motors

	m.SetRequiredTorque(7, -0.5)
	m.SetCurrentSpeed(7, 0.25)
	m.SetCurrentPosition(7, -9000000000)
	m.SetMode(7, MotorModePosition)
	m.SetName(7, "left-drive")

	if got := m.RequiredTorque(7); got != -0.5 {
		t.Fatalf("expected torque -0.5, got %v", got)
	}
	if got := m.CurrentSpeed(7); got != 0.25 {
		t.Fatalf("expected speed 0.25, got %v", got)
	}
	if got := m.CurrentPosition(7); got != -9000000000 {
		t.Fatalf("expected position -9000000000, got %d", got)
	}
	if m.Mode(7) != MotorModePosition {
		t.Fatalf("expected position mode, got %d", m.Mode(7))
	}
	if m.Name(7) != "left-drive" {
		t.Fatalf("expected name left-drive, got %q", m.Name(7))
	}
	// neighbour untouched
	if m.RequiredTorque(6) != 0 {
		t.Fatalf("expected slot 6 untouched")
	}
}

func TestSensors_RoundTripAndStatus(t *testing.T) {
	s := NewMemBundle().Sensors

	s.SetAnalog(3, 0.75, StatusValid, 12.5)
	a := s.Analog(3)
	if a.Value != 0.75 || a.Status != StatusValid || a.Timestamp != 12.5 {
		t.Fatalf("unexpected analog %+v", a)
	}

	s.SetDigital(31, 1, StatusValid, 1)
	if s.DigitalValue(31) != 1 || s.DigitalStatus(31) != StatusValid {
		t.Fatalf("unexpected digital %+v", s.Digital(31))
	}
	if s.AnalogStatus(0) != StatusAbsent {
		t.Fatalf("expected untouched slot absent")
	}
}

func TestSensors_CounterRate(t *testing.T) {
	s := NewMemBundle().Sensors

	s.SetCounter(0, 100, StatusValid, 10.0)
	s.SetCounter(0, 300, StatusValid, 12.0)

	c := s.Counter(0)
	if c.Value != 300 {
		t.Fatalf("expected 300, got %d", c.Value)
	}
	if c.RateOfChange != 100 {
		t.Fatalf("expected rate 100/s, got %v", c.RateOfChange)
	}

	// same timestamp: ignored
	s.SetCounter(0, 999, StatusValid, 12.0)
	if s.CounterValue(0) != 300 {
		t.Fatalf("expected repeated timestamp ignored, got %d", s.CounterValue(0))
	}

	// no timestamp: value stored, rate cleared
	s.SetCounter(0, 5, StatusValid, 0)
	if s.CounterValue(0) != 5 || s.CounterRate(0) != 0 {
		t.Fatalf("unexpected counter %+v", s.Counter(0))
	}
}

func TestImage_ShareInvalidatesTrailingSlots(t *testing.T) {
	img := NewMemBundle().Image

	img.ShareResults(1, 0.02, []ImageResult{
		{TypeName: "Block", Name: "red", Distance: 400, Yaw: 10},
		{TypeName: "Block", Name: "green", Distance: 500, Yaw: 20},
	})
	img.ShareResults(2, 0.03, []ImageResult{
		{TypeName: "Block", Name: "green", Distance: 450, Yaw: 25, Size: [2]float32{40, 50}},
	})

	if img.Count() != 1 {
		t.Fatalf("expected 1 result, got %d", img.Count())
	}
	if img.Status(1) != StatusAbsent {
		t.Fatalf("expected slot 1 invalidated")
	}

	snap := img.Snapshot()
	if snap.Timestamp != 2 || len(snap.Results) != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	got := snap.Find("green", "Block")
	if len(got) != 1 || got[0].Distance != 450 || got[0].Size[1] != 50 {
		t.Fatalf("unexpected find result %+v", got)
	}
	if len(snap.Find("red", "Block")) != 0 {
		t.Fatalf("expected stale red result gone")
	}
}

func TestImage_SnapshotDoesNotAlias(t *testing.T) {
	img := NewMemBundle().Image
	img.ShareResults(1, 0, []ImageResult{{TypeName: "Block", Name: "red", Yaw: 1}})

	snap := img.Snapshot()
	img.ShareResults(2, 0, []ImageResult{{TypeName: "Block", Name: "red", Yaw: 99}})

	if snap.Results[0].Yaw != 1 {
		t.Fatalf("snapshot changed after rewrite: %v", snap.Results[0].Yaw)
	}
}

func TestVoice_CurrentAndLast(t *testing.T) {
	v := NewMemBundle().Voice

	v.ShareResults([]Word{{Status: StatusValid, Word: "forward", Confidence: 0.5, Timestamp: 1}})
	v.ShareResults([]Word{
		{Status: StatusFinal, Word: "stop", Confidence: 0.9, Timestamp: 2},
		{Status: StatusFinal, Word: "now", Confidence: 0.8, Timestamp: 2},
	})

	cur := v.Words()
	if len(cur) != 2 || cur[0].Word != "stop" || cur[1].Word != "now" {
		t.Fatalf("unexpected current words %+v", cur)
	}
	last := v.LastWords()
	if len(last) != 1 || last[0].Word != "forward" {
		t.Fatalf("unexpected last words %+v", last)
	}
	if v.Status() != StatusFinal {
		t.Fatalf("expected final status, got %d", v.Status())
	}
}

func TestLine_RoundTrip(t *testing.T) {
	l := NewMemBundle().Line
	l.ShareResults(LineResult{
		Status: StatusValid,
		Angle:  -12.5,
		Yaw:    90,
		Vector: [2][2]float32{{0, 0}, {1, 2}},
		Points: [][2]float32{{1, 1}, {2, 3}},
	})

	res := l.Result()
	if res.Angle != -12.5 || res.Yaw != 90 || res.Vector[1][1] != 2 {
		t.Fatalf("unexpected line result %+v", res)
	}
	if len(res.Points) != 2 || res.Points[1] != [2]float32{2, 3} {
		t.Fatalf("unexpected points %+v", res.Points)
	}
}

func TestStatusText_AndIndicators(t *testing.T) {
	b := NewMemBundle()

	b.Status.Set("Sequence", "Rotate", "90degs")
	if b.Status.Title() != "Sequence" || b.Status.Subtitle() != "Rotate" || b.Status.Additional() != "90degs" {
		t.Fatalf("unexpected status text")
	}
	b.Status.Clear()
	if b.Status.Title() != "" {
		t.Fatalf("expected cleared title")
	}

	b.Indicators.Set(2, Indicator{Type: 1, LEDBits: 0x0F, OnColour: 0x00FF0000})
	if got := b.Indicators.Get(2); got.LEDBits != 0x0F || got.OnColour != 0x00FF0000 || got.Type != 1 {
		t.Fatalf("unexpected indicator %+v", got)
	}
}

func TestBundle_StopAllExpiresControlWatchdogs(t *testing.T) {
	b := NewMemBundle()
	b.ResetControlWatchdogs(shm.DefaultGrace)
	if b.Motors.Watchdog().Expired() {
		t.Fatalf("expected live motors watchdog")
	}
	b.StopAll()
	if !b.Motors.Watchdog().Expired() || !b.Servos.Watchdog().Expired() || !b.Simple.Watchdog().Expired() {
		t.Fatalf("expected all control watchdogs expired")
	}
}

func TestAttachAll_OpenRequiresCreate(t *testing.T) {
	dir := t.TempDir()

	if _, err := AttachAll(dir, Open); !errors.Is(err, shm.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}

	created, err := AttachAll(dir, Create)
	if err != nil {
		t.Fatalf("create err=%v", err)
	}
	defer created.Close()

	opened, err := AttachAll(dir, Open)
	if err != nil {
		t.Fatalf("open err=%v", err)
	}
	defer opened.Close()

	created.Sensors.SetAnalog(1, 0.5, StatusValid, 0)
	if opened.Sensors.AnalogValue(1) != 0.5 {
		t.Fatalf("expected shared value through mapping")
	}
}

func TestLineHasNoWatchdog(t *testing.T) {
	b := NewMemBundle()
	if b.Line.HasWatchdog() {
		t.Fatalf("line channel must not carry a watchdog")
	}
	if !b.Image.HasWatchdog() {
		t.Fatalf("image channel must carry a watchdog")
	}
}
