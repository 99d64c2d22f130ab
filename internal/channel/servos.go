// internal/channel/servos.go
package channel

import "github.com/tamzrod/robotcore/internal/shm"

// Servos is the servo control channel.
// Position -1.0 is the extreme anticlockwise end, +1.0 the extreme clockwise end.
type Servos struct{ base }

func NewServos(r *shm.Region) *Servos {
	checkSize(ServosSpec, r)
	return &Servos{base{spec: ServosSpec, r: r}}
}

func AttachServos(dir string, mode Mode) (*Servos, error) {
	r, err := Attach(dir, ServosSpec, mode)
	if err != nil {
		return nil, err
	}
	return NewServos(r), nil
}

func (s *Servos) off(servo, field int) int {
	return servosFirstRecord + servo*servoRecordSize + field
}

// SetPosition drives the servo to v. Status 0 powers the servo off.
func (s *Servos) SetPosition(servo int, v float64, status uint16) {
	s.r.PutF32(s.off(servo, servoPosition), float32(v))
	s.r.PutU16(s.off(servo, servoStatus), status)
}

func (s *Servos) Position(servo int) float64 { return float64(s.r.F32(s.off(servo, servoPosition))) }
func (s *Servos) Status(servo int) uint16    { return s.r.U16(s.off(servo, servoStatus)) }
