// internal/access/vision.go
package access

import "github.com/tamzrod/robotcore/internal/channel"

// ImageResult reads one slot of the image analysis channel.
// Yaw and distance read 0 unless the slot is valid.
type ImageResult struct {
	c    *channel.Image
	slot int
}

func (r *ImageResult) Status() uint16 { return r.c.Status(r.slot) }
func (r *ImageResult) Valid() bool    { return r.c.Status(r.slot) != channel.StatusAbsent }

func (r *ImageResult) Value() float64 { return r.Yaw() }

func (r *ImageResult) Yaw() float64 {
	if !r.Valid() {
		return 0
	}
	return float64(r.c.Yaw(r.slot))
}

func (r *ImageResult) Distance() float64 {
	if !r.Valid() {
		return 0
	}
	return float64(r.c.Distance(r.slot))
}

// LineHeading reads the yaw of the followed line, 0 when none is seen.
type LineHeading struct {
	c *channel.Line
}

func (h *LineHeading) Valid() bool { return h.c.Status() != channel.StatusAbsent }

func (h *LineHeading) Value() float64 {
	if !h.Valid() {
		return 0
	}
	return float64(h.c.Yaw())
}
