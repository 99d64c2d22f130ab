// internal/driver/modbus/driver_test.go
package modbus

import (
	"errors"
	"testing"
)

type write struct {
	addr uint16
	val  uint16
}

type multiWrite struct {
	addr uint16
	qty  uint16
	data []byte
}

type fakeRegisterClient struct {
	writes []write
	multi  []multiWrite
	input  map[uint16][]uint16
	fail   bool

	failMulti int // number of block writes to fail before succeeding
}

func (f *fakeRegisterClient) WriteSingleRegister(addr, v uint16) ([]byte, error) {
	if f.fail {
		return nil, errors.New("timeout")
	}
	f.writes = append(f.writes, write{addr, v})
	return nil, nil
}

func (f *fakeRegisterClient) WriteMultipleRegisters(addr, qty uint16, data []byte) ([]byte, error) {
	if f.failMulti > 0 {
		f.failMulti--
		return nil, errors.New("timeout")
	}
	f.multi = append(f.multi, multiWrite{addr, qty, data})
	return nil, nil
}

func (f *fakeRegisterClient) ReadInputRegisters(addr, qty uint16) ([]byte, error) {
	if f.fail {
		return nil, errors.New("timeout")
	}
	return packRegisters(f.input[addr][:qty]), nil
}

func testMap() RegisterMap {
	return RegisterMap{
		Torque:   map[int]uint16{1: 10, 2: 11},
		Servo:    map[int]uint16{5: 20},
		LED:      map[int]uint16{0: 30},
		Position: map[int]uint16{1: 100, 2: 102},
	}
}

func TestTorqueRegister(t *testing.T) {
	if got := TorqueRegister(0.5); got != 500 {
		t.Fatalf("expected 500, got %d", got)
	}
	if got := int16(TorqueRegister(-0.25)); got != -250 {
		t.Fatalf("expected -250, got %d", got)
	}
	if got := int16(TorqueRegister(-3)); got != -1000 {
		t.Fatalf("expected clamp to -1000, got %d", got)
	}
}

func TestDriver_WritesMappedRegisters(t *testing.T) {
	fc := &fakeRegisterClient{}
	d := NewDriver(fc, testMap())

	if err := d.SetTorque(2, -0.1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.SetServo(5, 1750); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.ServoOff(5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.SetLED(0, 0x06); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []write{
		{11, uint16(0xFFFF - 100 + 1)},
		{20, 1750},
		{20, 0},
		{30, 6},
	}
	if len(fc.writes) != len(want) {
		t.Fatalf("expected %d writes, got %d", len(want), len(fc.writes))
	}
	for i, w := range want {
		if fc.writes[i] != w {
			t.Fatalf("write %d: expected %+v, got %+v", i, w, fc.writes[i])
		}
	}
}

func TestDriver_UnmappedOutputErrors(t *testing.T) {
	d := NewDriver(&fakeRegisterClient{}, testMap())
	if err := d.SetTorque(7, 0.1); err == nil {
		t.Fatalf("expected error for unmapped motor")
	}
	if err := d.SetServo(1, 1500); err == nil {
		t.Fatalf("expected error for unmapped servo")
	}
}

func TestDriver_ServoPulseClamped(t *testing.T) {
	fc := &fakeRegisterClient{}
	d := NewDriver(fc, testMap())
	_ = d.SetServo(5, 3000)
	if got := fc.writes[0].val; got != 2500 {
		t.Fatalf("expected 2500, got %d", got)
	}
}

func TestDriver_Positions(t *testing.T) {
	fc := &fakeRegisterClient{input: map[uint16][]uint16{
		100: {0x0000, 0x0102},
		102: {0xFFFF, 0xFFFE},
	}}
	d := NewDriver(fc, testMap())

	got, err := d.Positions([]int{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[1] != 258 || got[2] != -2 {
		t.Fatalf("expected 1=258 2=-2, got %v", got)
	}
	if _, ok := got[3]; ok {
		t.Fatalf("expected motor 3 without position register to be absent, got %v", got)
	}

	fc.fail = true
	if _, err := d.Positions([]int{1}); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestDriver_StopAllGroupsRuns(t *testing.T) {
	fc := &fakeRegisterClient{}
	m := testMap()
	m.Torque[3] = 40
	d := NewDriver(fc, m)

	if err := d.StopAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fc.multi) != 2 {
		t.Fatalf("expected 2 block writes, got %d", len(fc.multi))
	}
	if fc.multi[0].addr != 10 || fc.multi[0].qty != 2 || len(fc.multi[0].data) != 4 {
		t.Fatalf("expected 2 registers at 10, got %+v", fc.multi[0])
	}
	if fc.multi[1].addr != 40 || fc.multi[1].qty != 1 {
		t.Fatalf("expected 1 register at 40, got %+v", fc.multi[1])
	}
}

func TestDriver_StopAllAttemptsEveryRun(t *testing.T) {
	fc := &fakeRegisterClient{failMulti: 1}
	m := testMap()
	m.Torque[3] = 40
	d := NewDriver(fc, m)

	if err := d.StopAll(); err == nil {
		t.Fatalf("expected error from failed first run")
	}
	if len(fc.multi) != 1 {
		t.Fatalf("expected second run still written, got %d writes", len(fc.multi))
	}
	if fc.multi[0].addr != 40 || fc.multi[0].qty != 1 {
		t.Fatalf("expected 1 register at 40, got %+v", fc.multi[0])
	}
}
