// internal/channel/line.go
package channel

import "github.com/tamzrod/robotcore/internal/shm"

// LineResult is the line-following heading analysis.
type LineResult struct {
	Status    uint16
	Timestamp uint64
	Elapsed   float32
	Angle     float32       // relative
	Yaw       float32       // absolute target at capture time
	Vector    [2][2]float32 // direction vector endpoints
	Points    [][2]float32
}

// Line is the line-heading channel. It carries no watchdog.
type Line struct{ base }

func NewLine(r *shm.Region) *Line {
	checkSize(LineSpec, r)
	return &Line{base{spec: LineSpec, r: r}}
}

func AttachLine(dir string, mode Mode) (*Line, error) {
	r, err := Attach(dir, LineSpec, mode)
	if err != nil {
		return nil, err
	}
	return NewLine(r), nil
}

// ShareResults publishes one analysis. Points beyond LinePoints are dropped.
func (c *Line) ShareResults(res LineResult) {
	points := res.Points
	if len(points) > LinePoints {
		points = points[:LinePoints]
	}

	c.r.PutU16(lineStatus, res.Status)
	c.r.PutU64(lineTimestamp, res.Timestamp)
	c.r.PutF32(lineElapsed, res.Elapsed)
	c.r.PutF32(lineAngle, res.Angle)
	c.r.PutF32(lineYaw, res.Yaw)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			c.r.PutF32(lineVector+8*i+4*j, res.Vector[i][j])
		}
	}
	c.r.PutU32(lineCount, uint32(len(points)))
	for i, p := range points {
		c.r.PutF32(linePointsOff+8*i, p[0])
		c.r.PutF32(linePointsOff+8*i+4, p[1])
	}
}

func (c *Line) NoResults(status uint16) { c.r.PutU16(lineStatus, status) }

func (c *Line) Status() uint16    { return c.r.U16(lineStatus) }
func (c *Line) Timestamp() uint64 { return c.r.U64(lineTimestamp) }
func (c *Line) Angle() float32    { return c.r.F32(lineAngle) }
func (c *Line) Yaw() float32      { return c.r.F32(lineYaw) }

// Result copies the whole record.
func (c *Line) Result() LineResult {
	res := LineResult{
		Status:    c.r.U16(lineStatus),
		Timestamp: c.r.U64(lineTimestamp),
		Elapsed:   c.r.F32(lineElapsed),
		Angle:     c.r.F32(lineAngle),
		Yaw:       c.r.F32(lineYaw),
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			res.Vector[i][j] = c.r.F32(lineVector + 8*i + 4*j)
		}
	}
	n := int(c.r.U32(lineCount))
	if n > LinePoints {
		n = LinePoints
	}
	res.Points = make([][2]float32, n)
	for i := range res.Points {
		res.Points[i] = [2]float32{
			c.r.F32(linePointsOff + 8*i),
			c.r.F32(linePointsOff + 8*i + 4),
		}
	}
	return res
}
