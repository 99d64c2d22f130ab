// internal/channel/motors.go
package channel

import (
	"github.com/tamzrod/robotcore/internal/shm"
)

// Motor control modes.
const (
	MotorModeTorque   uint16 = 0
	MotorModeSpeed    uint16 = 1
	MotorModePosition uint16 = 2
)

// Motors is the motor control channel.
// Torque and speed: 1.0 max forward, -1.0 max backward.
// Position is an encoder pulse count from the nominal start position.
type Motors struct{ base }

func NewMotors(r *shm.Region) *Motors {
	checkSize(MotorsSpec, r)
	return &Motors{base{spec: MotorsSpec, r: r}}
}

func AttachMotors(dir string, mode Mode) (*Motors, error) {
	r, err := Attach(dir, MotorsSpec, mode)
	if err != nil {
		return nil, err
	}
	return NewMotors(r), nil
}

func (m *Motors) off(motor, field int) int {
	return motorsFirstRecord + motor*motorRecordSize + field
}

func (m *Motors) SetMode(motor int, mode uint16) { m.r.PutU16(m.off(motor, motorMode), mode) }
func (m *Motors) Mode(motor int) uint16          { return m.r.U16(m.off(motor, motorMode)) }

func (m *Motors) SetRequiredTorque(motor int, v float64) {
	m.r.PutF32(m.off(motor, motorReqTorque), float32(v))
}
func (m *Motors) RequiredTorque(motor int) float64 {
	return float64(m.r.F32(m.off(motor, motorReqTorque)))
}

func (m *Motors) SetCurrentTorque(motor int, v float64) {
	m.r.PutF32(m.off(motor, motorActTorque), float32(v))
}
func (m *Motors) CurrentTorque(motor int) float64 {
	return float64(m.r.F32(m.off(motor, motorActTorque)))
}

func (m *Motors) SetRequiredSpeed(motor int, v float64) {
	m.r.PutF32(m.off(motor, motorReqSpeed), float32(v))
}
func (m *Motors) RequiredSpeed(motor int) float64 {
	return float64(m.r.F32(m.off(motor, motorReqSpeed)))
}

func (m *Motors) SetCurrentSpeed(motor int, v float64) {
	m.r.PutF32(m.off(motor, motorActSpeed), float32(v))
}
func (m *Motors) CurrentSpeed(motor int) float64 {
	return float64(m.r.F32(m.off(motor, motorActSpeed)))
}

func (m *Motors) SetRequiredPosition(motor int, v int64) {
	m.r.PutI64(m.off(motor, motorReqPosition), v)
}
func (m *Motors) RequiredPosition(motor int) int64 {
	return m.r.I64(m.off(motor, motorReqPosition))
}

func (m *Motors) SetCurrentPosition(motor int, v int64) {
	m.r.PutI64(m.off(motor, motorActPosition), v)
}
func (m *Motors) CurrentPosition(motor int) int64 {
	return m.r.I64(m.off(motor, motorActPosition))
}

func (m *Motors) SetName(motor int, name string) {
	m.r.PutUTF32(m.off(motor, motorName), MotorNameChars, name)
}
func (m *Motors) Name(motor int) string {
	return m.r.UTF32(m.off(motor, motorName), MotorNameChars)
}
