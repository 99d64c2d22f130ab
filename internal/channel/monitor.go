// internal/channel/monitor.go
package channel

import "github.com/tamzrod/robotcore/internal/shm"

// Monitor is the live-graph channel: 64 named-by-convention values.
type Monitor struct{ base }

func NewMonitor(r *shm.Region) *Monitor {
	checkSize(MonitorSpec, r)
	return &Monitor{base{spec: MonitorSpec, r: r}}
}

func AttachMonitor(dir string, mode Mode) (*Monitor, error) {
	r, err := Attach(dir, MonitorSpec, mode)
	if err != nil {
		return nil, err
	}
	return NewMonitor(r), nil
}

func (c *Monitor) SetValue(id int, v float32, status uint16, ts float64) {
	o := id * monitorRecordSize
	c.r.PutF32(o+sensorValue, v)
	c.r.PutU16(o+sensorStatus, status)
	c.r.PutF64(o+sensorTimestamp, ts)
}

func (c *Monitor) Value(id int) float32 { return c.r.F32(id*monitorRecordSize + sensorValue) }

func (c *Monitor) Entry(id int) Analog {
	o := id * monitorRecordSize
	return Analog{
		Status:    c.r.U16(o + sensorStatus),
		Timestamp: c.r.F64(o + sensorTimestamp),
		Value:     c.r.F32(o + sensorValue),
	}
}
