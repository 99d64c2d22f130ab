// internal/driver/modbus/driver.go
package modbus

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// RegisterMap places each output on a holding register and each encoder on
// a pair of input registers (high word first).
type RegisterMap struct {
	Torque   map[int]uint16 // motor -> register, torque ×1000 as int16
	Servo    map[int]uint16 // servo -> register, pulse µs, 0 = off
	LED      map[int]uint16 // control -> register, low byte
	Position map[int]uint16 // motor -> first of two input registers
}

// Driver drives the motor controller over Modbus.
// It satisfies motor.Driver and motor.PositionReader.
type Driver struct {
	c   registerClient
	reg RegisterMap
}

func NewDriver(c registerClient, reg RegisterMap) *Driver {
	return &Driver{c: c, reg: reg}
}

// TorqueRegister encodes -1..1 as a signed thousandth.
func TorqueRegister(torque float64) uint16 {
	t := math.Max(-1, math.Min(1, torque))
	return uint16(int16(math.Round(t * 1000)))
}

func (d *Driver) SetTorque(motor int, torque float64) error {
	addr, ok := d.reg.Torque[motor]
	if !ok {
		return fmt.Errorf("driver modbus: no torque register for motor %d", motor)
	}
	_, err := d.c.WriteSingleRegister(addr, TorqueRegister(torque))
	return err
}

func (d *Driver) SetServo(servo int, pulse float64) error {
	addr, ok := d.reg.Servo[servo]
	if !ok {
		return fmt.Errorf("driver modbus: no register for servo %d", servo)
	}
	pulse = math.Max(500, math.Min(2500, pulse))
	_, err := d.c.WriteSingleRegister(addr, uint16(math.Round(pulse)))
	return err
}

func (d *Driver) ServoOff(servo int) error {
	addr, ok := d.reg.Servo[servo]
	if !ok {
		return fmt.Errorf("driver modbus: no register for servo %d", servo)
	}
	_, err := d.c.WriteSingleRegister(addr, 0)
	return err
}

func (d *Driver) SetLED(control int, v uint8) error {
	addr, ok := d.reg.LED[control]
	if !ok {
		return fmt.Errorf("driver modbus: no register for led %d", control)
	}
	_, err := d.c.WriteSingleRegister(addr, uint16(v))
	return err
}

// StopAll zeroes every mapped torque in one request per contiguous run.
// Every run is attempted even when an earlier one fails.
func (d *Driver) StopAll() error {
	var errs []error
	for _, run := range contiguous(d.reg.Torque) {
		regs := make([]uint16, run.qty)
		if _, err := d.c.WriteMultipleRegisters(run.start, run.qty, packRegisters(regs)); err != nil {
			errs = append(errs, fmt.Errorf("torque registers %d-%d: %w", run.start, run.start+run.qty-1, err))
		}
	}
	return errors.Join(errs...)
}

// Positions reads the encoder counts of the motors that have a position
// register. Motors without one are absent from the result.
func (d *Driver) Positions(motors []int) (map[int]int64, error) {
	out := make(map[int]int64, len(motors))
	for _, m := range motors {
		addr, ok := d.reg.Position[m]
		if !ok {
			continue
		}
		raw, err := d.c.ReadInputRegisters(addr, 2)
		if err != nil {
			return nil, fmt.Errorf("motor %d position: %w", m, err)
		}
		regs := unpackRegisters(raw)
		if len(regs) < 2 {
			return nil, fmt.Errorf("motor %d position: short read", m)
		}
		out[m] = int64(int32(uint32(regs[0])<<16 | uint32(regs[1])))
	}
	return out, nil
}

type span struct {
	start, qty uint16
}

func contiguous(regs map[int]uint16) []span {
	if len(regs) == 0 {
		return nil
	}
	addrs := make([]int, 0, len(regs))
	for _, a := range regs {
		addrs = append(addrs, int(a))
	}
	slices.Sort(addrs)

	var out []span
	cur := span{start: uint16(addrs[0]), qty: 1}
	for _, a := range addrs[1:] {
		if a == int(cur.start)+int(cur.qty) {
			cur.qty++
			continue
		}
		if a < int(cur.start)+int(cur.qty) {
			continue // duplicate
		}
		out = append(out, cur)
		cur = span{start: uint16(a), qty: 1}
	}
	return append(out, cur)
}
