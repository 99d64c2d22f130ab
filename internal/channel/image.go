// internal/channel/image.go
package channel

import "github.com/tamzrod/robotcore/internal/shm"

// ImageResult is one vision analysis result.
type ImageResult struct {
	Status     uint16
	TypeName   string // e.g. "Block"
	Name       string // e.g. "red"
	Confidence float32
	Distance   float32    // nearest point of the object, mm
	Size       [2]float32 // bounding rectangle, mm
	Yaw        float32    // absolute yaw to the object centre at capture time
	Angle      float32    // relative angle to the object centre
}

// ImageSnapshot is one frame of results copied out of the channel.
type ImageSnapshot struct {
	Timestamp uint64
	Elapsed   float32
	Results   []ImageResult
}

// Find returns the valid results matching name and typeName, in slot order.
func (s ImageSnapshot) Find(name, typeName string) []ImageResult {
	var out []ImageResult
	for _, r := range s.Results {
		if r.Status != StatusAbsent && r.Name == name && r.TypeName == typeName {
			out = append(out, r)
		}
	}
	return out
}

// Image is the vision image-analysis channel. The vision process is its writer.
type Image struct{ base }

func NewImage(r *shm.Region) *Image {
	checkSize(ImageSpec, r)
	return &Image{base{spec: ImageSpec, r: r}}
}

func AttachImage(dir string, mode Mode) (*Image, error) {
	r, err := Attach(dir, ImageSpec, mode)
	if err != nil {
		return nil, err
	}
	return NewImage(r), nil
}

func imageOff(slot int) int { return imageFirstRecord + slot*imageRecordSize }

// ShareResults publishes one frame. Every published result is marked valid;
// trailing slots are invalidated. Results beyond ImageSlots are dropped.
func (c *Image) ShareResults(ts uint64, elapsed float32, results []ImageResult) {
	if len(results) > ImageSlots {
		results = results[:ImageSlots]
	}

	c.r.PutU64(imageHeaderTimestamp, ts)
	c.r.PutF32(imageHeaderElapsed, elapsed)
	c.r.PutU16(imageHeaderCount, uint16(len(results)))

	for i, res := range results {
		o := imageOff(i)
		c.r.PutU16(o+imageStatus, StatusValid)
		c.r.PutUTF32(o+imageTypeName, ImageNameChars, res.TypeName)
		c.r.PutUTF32(o+imageName, ImageNameChars, res.Name)
		c.r.PutF32(o+imageConfidence, res.Confidence)
		c.r.PutF32(o+imageDistance, res.Distance)
		c.r.PutF32(o+imageSize, res.Size[0])
		c.r.PutF32(o+imageSize+4, res.Size[1])
		c.r.PutF32(o+imageYaw, res.Yaw)
		c.r.PutF32(o+imageAngle, res.Angle)
	}
	for i := len(results); i < ImageSlots; i++ {
		c.r.PutU16(imageOff(i)+imageStatus, StatusAbsent)
	}
}

// NoResults sets every slot status to status.
func (c *Image) NoResults(status uint16) {
	for i := 0; i < ImageSlots; i++ {
		c.r.PutU16(imageOff(i)+imageStatus, status)
	}
}

func (c *Image) Timestamp() uint64 { return c.r.U64(imageHeaderTimestamp) }
func (c *Image) Elapsed() float32  { return c.r.F32(imageHeaderElapsed) }
func (c *Image) Count() int        { return int(c.r.U16(imageHeaderCount)) }

func (c *Image) Status(slot int) uint16 { return c.r.U16(imageOff(slot) + imageStatus) }
func (c *Image) Yaw(slot int) float32   { return c.r.F32(imageOff(slot) + imageYaw) }
func (c *Image) Angle(slot int) float32 { return c.r.F32(imageOff(slot) + imageAngle) }
func (c *Image) Distance(slot int) float32 {
	return c.r.F32(imageOff(slot) + imageDistance)
}

// Result copies one slot.
func (c *Image) Result(slot int) ImageResult {
	o := imageOff(slot)
	return ImageResult{
		Status:     c.r.U16(o + imageStatus),
		TypeName:   c.r.UTF32(o+imageTypeName, ImageNameChars),
		Name:       c.r.UTF32(o+imageName, ImageNameChars),
		Confidence: c.r.F32(o + imageConfidence),
		Distance:   c.r.F32(o + imageDistance),
		Size:       [2]float32{c.r.F32(o + imageSize), c.r.F32(o + imageSize + 4)},
		Yaw:        c.r.F32(o + imageYaw),
		Angle:      c.r.F32(o + imageAngle),
	}
}

// Snapshot copies the current frame so a caller can act on one consistent
// set of results across a tick.
func (c *Image) Snapshot() ImageSnapshot {
	n := c.Count()
	if n > ImageSlots {
		n = ImageSlots
	}
	snap := ImageSnapshot{
		Timestamp: c.Timestamp(),
		Elapsed:   c.Elapsed(),
		Results:   make([]ImageResult, 0, n),
	}
	for i := 0; i < n; i++ {
		snap.Results = append(snap.Results, c.Result(i))
	}
	return snap
}
