// internal/channel/simple.go
package channel

import "github.com/tamzrod/robotcore/internal/shm"

// Simple output types.
const (
	SimpleUnused  uint8 = 0
	SimpleValued  uint8 = 1
	SimpleOneShot uint8 = 2
)

// Simple is the channel for LEDs, solenoids and activators (values 0..255).
// Interpretation is output specific, e.g. RGB LED R=0x04 G=0x02 B=0x01.
type Simple struct{ base }

func NewSimple(r *shm.Region) *Simple {
	checkSize(SimpleSpec, r)
	return &Simple{base{spec: SimpleSpec, r: r}}
}

func AttachSimple(dir string, mode Mode) (*Simple, error) {
	r, err := Attach(dir, SimpleSpec, mode)
	if err != nil {
		return nil, err
	}
	return NewSimple(r), nil
}

func (s *Simple) off(control, field int) int {
	return simpleFirstRecord + control*simpleRecordSize + field
}

func (s *Simple) SetValue(control int, v uint8, typ uint8) {
	s.r.PutU8(s.off(control, simpleValue), v)
	s.r.PutU8(s.off(control, simpleType), typ)
}

func (s *Simple) Value(control int) uint8 { return s.r.U8(s.off(control, simpleValue)) }
func (s *Simple) Type(control int) uint8  { return s.r.U8(s.off(control, simpleType)) }
