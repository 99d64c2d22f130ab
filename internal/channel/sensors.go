// internal/channel/sensors.go
package channel

import "github.com/tamzrod/robotcore/internal/shm"

// Sensors is the simple sensor channel.
//
// Analog: distance sensors, ADCs and joystick axes. Finite ranges are -1.0..1.0.
// Digital: switches and buttons (0/1), or multi-state values.
// Counter: encoder-style counts with a derived rate of change in counts/second.
type Sensors struct{ base }

// Analog is one analog slot.
type Analog struct {
	Status    uint16
	Timestamp float64
	Value     float32
}

// Digital is one digital slot.
type Digital struct {
	Status    uint16
	Timestamp float64
	Value     int16
}

// Counter is one counter slot.
type Counter struct {
	Status       uint16
	Timestamp    float64
	Value        int64
	RateOfChange float32
}

func NewSensors(r *shm.Region) *Sensors {
	checkSize(SensorsSpec, r)
	return &Sensors{base{spec: SensorsSpec, r: r}}
}

func AttachSensors(dir string, mode Mode) (*Sensors, error) {
	r, err := Attach(dir, SensorsSpec, mode)
	if err != nil {
		return nil, err
	}
	return NewSensors(r), nil
}

func analogOff(slot int) int  { return sensorsAnalogStart + slot*analogRecordSize }
func digitalOff(slot int) int { return sensorsDigitalStart + slot*digitalRecordSize }
func counterOff(slot int) int { return sensorsCounterStart + slot*counterRecordSize }

// ---- analog ----

func (s *Sensors) SetAnalog(slot int, v float32, status uint16, ts float64) {
	o := analogOff(slot)
	s.r.PutF32(o+sensorValue, v)
	s.r.PutU16(o+sensorStatus, status)
	s.r.PutF64(o+sensorTimestamp, ts)
}

func (s *Sensors) Analog(slot int) Analog {
	o := analogOff(slot)
	return Analog{
		Status:    s.r.U16(o + sensorStatus),
		Timestamp: s.r.F64(o + sensorTimestamp),
		Value:     s.r.F32(o + sensorValue),
	}
}

func (s *Sensors) AnalogValue(slot int) float32 { return s.r.F32(analogOff(slot) + sensorValue) }
func (s *Sensors) AnalogStatus(slot int) uint16 { return s.r.U16(analogOff(slot) + sensorStatus) }

// ---- digital ----

func (s *Sensors) SetDigital(slot int, v int16, status uint16, ts float64) {
	o := digitalOff(slot)
	s.r.PutI16(o+sensorValue, v)
	s.r.PutU16(o+sensorStatus, status)
	s.r.PutF64(o+sensorTimestamp, ts)
}

func (s *Sensors) Digital(slot int) Digital {
	o := digitalOff(slot)
	return Digital{
		Status:    s.r.U16(o + sensorStatus),
		Timestamp: s.r.F64(o + sensorTimestamp),
		Value:     s.r.I16(o + sensorValue),
	}
}

func (s *Sensors) DigitalValue(slot int) int16   { return s.r.I16(digitalOff(slot) + sensorValue) }
func (s *Sensors) DigitalStatus(slot int) uint16 { return s.r.U16(digitalOff(slot) + sensorStatus) }

// ---- counter ----

// SetCounter stores a new count and derives the rate of change from the
// previous count and timestamp. A zero timestamp stores the count with no rate.
// A repeated timestamp is ignored (no time has elapsed to derive a rate from).
func (s *Sensors) SetCounter(slot int, v int64, status uint16, ts float64) {
	o := counterOff(slot)

	if ts == 0 {
		s.r.PutI64(o+sensorValue, v)
		s.r.PutU16(o+sensorStatus, status)
		s.r.PutF64(o+sensorTimestamp, 0)
		s.r.PutF32(o+counterRate, 0)
		return
	}

	prevTS := s.r.F64(o + sensorTimestamp)
	if ts == prevTS {
		return
	}
	prev := s.r.I64(o + sensorValue)

	s.r.PutF32(o+counterRate, float32(float64(v-prev)/(ts-prevTS)))
	s.r.PutI64(o+sensorValue, v)
	s.r.PutU16(o+sensorStatus, status)
	s.r.PutF64(o+sensorTimestamp, ts)
}

func (s *Sensors) Counter(slot int) Counter {
	o := counterOff(slot)
	return Counter{
		Status:       s.r.U16(o + sensorStatus),
		Timestamp:    s.r.F64(o + sensorTimestamp),
		Value:        s.r.I64(o + sensorValue),
		RateOfChange: s.r.F32(o + counterRate),
	}
}

func (s *Sensors) CounterValue(slot int) int64 { return s.r.I64(counterOff(slot) + sensorValue) }
func (s *Sensors) CounterRate(slot int) float32 {
	return s.r.F32(counterOff(slot) + counterRate)
}
