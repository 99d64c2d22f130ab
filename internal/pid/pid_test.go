// internal/pid/pid_test.go
package pid

import (
	"math"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestUpdate_Proportional(t *testing.T) {
	c := NewWithClock(Config{Kp: 2}, (&fakeClock{}).now)
	c.SetSetpoint(10)

	if got := c.UpdateDT(4, 0.1); !near(got, 12) {
		t.Fatalf("expected 12, got %v", got)
	}
}

func TestUpdate_IntegralAccumulatesAndClamps(t *testing.T) {
	c := NewWithClock(Config{Ki: 1, OutputMin: -1, OutputMax: 1}, (&fakeClock{}).now)
	c.SetSetpoint(1)

	c.UpdateDT(0, 0.5)
	if _, i, _ := c.Components(); !near(i, 0.5) {
		t.Fatalf("expected integral 0.5, got %v", i)
	}
	for n := 0; n < 10; n++ {
		c.UpdateDT(0, 0.5)
	}
	if _, i, _ := c.Components(); !near(i, 1) {
		t.Fatalf("expected integral clamped at 1, got %v", i)
	}
}

func TestUpdate_DerivativeOnMeasurement(t *testing.T) {
	c := NewWithClock(Config{Kd: 1}, (&fakeClock{}).now)

	c.UpdateDT(0, 1)
	got := c.UpdateDT(2, 1)
	if !near(got, -2) {
		t.Fatalf("expected derivative -2, got %v", got)
	}
}

func TestUpdate_ProportionalOnMeasurement(t *testing.T) {
	c := NewWithClock(Config{Kp: 1, ProportionalOnMeasurement: true}, (&fakeClock{}).now)
	c.SetSetpoint(100)

	// no kick from the setpoint itself
	if got := c.UpdateDT(0, 1); !near(got, 0) {
		t.Fatalf("expected 0 on first update, got %v", got)
	}
	if got := c.UpdateDT(3, 1); !near(got, -3) {
		t.Fatalf("expected -3, got %v", got)
	}
}

func TestUpdate_SampleTimeHoldsOutput(t *testing.T) {
	clk := &fakeClock{t: time.Unix(100, 0)}
	c := NewWithClock(Config{Kp: 1, SampleTime: 20 * time.Millisecond}, clk.now)
	c.SetSetpoint(1)

	clk.advance(30 * time.Millisecond)
	first := c.Update(0)
	if !near(first, 1) {
		t.Fatalf("expected 1, got %v", first)
	}

	clk.advance(5 * time.Millisecond)
	if got := c.Update(0.5); !near(got, first) {
		t.Fatalf("expected held output %v, got %v", first, got)
	}

	clk.advance(20 * time.Millisecond)
	if got := c.Update(0.5); !near(got, 0.5) {
		t.Fatalf("expected 0.5 after sample time, got %v", got)
	}
}

func TestDisableEnable_ResetsState(t *testing.T) {
	c := NewWithClock(Config{Ki: 1}, (&fakeClock{}).now)
	c.SetSetpoint(1)
	c.UpdateDT(0, 1)

	c.Disable()
	held := c.UpdateDT(-50, 1)
	if !near(held, 1) {
		t.Fatalf("expected held output 1 while disabled, got %v", held)
	}

	c.Enable(0)
	if _, i, _ := c.Components(); i != 0 {
		t.Fatalf("expected integral reset on enable, got %v", i)
	}
	if !c.Enabled() {
		t.Fatalf("expected enabled")
	}
}

func TestClearIntegral(t *testing.T) {
	c := NewWithClock(Config{Ki: 1}, (&fakeClock{}).now)
	c.SetSetpoint(1)
	c.UpdateDT(0, 2)
	c.ClearIntegral()
	if _, i, _ := c.Components(); i != 0 {
		t.Fatalf("expected cleared integral, got %v", i)
	}
}
