// internal/channel/indicator.go
package channel

import "github.com/tamzrod/robotcore/internal/shm"

// Indicator is one group of up to 32 LEDs sharing a colour.
// Colours are packed WRGB bytes; LEDBits selects the lit LEDs.
type Indicator struct {
	Type      uint8 // 0 unused, 1 simple
	LEDBits   uint32
	OnColour  uint32
	OffColour uint32
}

// Indicators is the indicator ("eyes") channel. It carries no watchdog.
type Indicators struct{ base }

func NewIndicators(r *shm.Region) *Indicators {
	checkSize(IndicatorSpec, r)
	return &Indicators{base{spec: IndicatorSpec, r: r}}
}

func AttachIndicators(dir string, mode Mode) (*Indicators, error) {
	r, err := Attach(dir, IndicatorSpec, mode)
	if err != nil {
		return nil, err
	}
	return NewIndicators(r), nil
}

func (c *Indicators) Set(id int, ind Indicator) {
	o := id * indicatorRecordSize
	c.r.PutU32(o+indicatorLEDBits, ind.LEDBits)
	c.r.PutU32(o+indicatorOnColour, ind.OnColour)
	c.r.PutU32(o+indicatorOffColour, ind.OffColour)
	c.r.PutU8(o+indicatorType, ind.Type)
}

func (c *Indicators) Get(id int) Indicator {
	o := id * indicatorRecordSize
	return Indicator{
		Type:      c.r.U8(o + indicatorType),
		LEDBits:   c.r.U32(o + indicatorLEDBits),
		OnColour:  c.r.U32(o + indicatorOnColour),
		OffColour: c.r.U32(o + indicatorOffColour),
	}
}
