// internal/channel/voice.go
package channel

import "github.com/tamzrod/robotcore/internal/shm"

// Word is one recognised word.
// Status: 0 absent, 1 provisional, 2 final.
type Word struct {
	Status     uint16
	Word       string
	Confidence float32 // 0..1
	Timestamp  uint64
}

// Voice is the voice recognition channel. It holds the current word list and
// the list it replaced.
type Voice struct{ base }

func NewVoice(r *shm.Region) *Voice {
	checkSize(VoiceSpec, r)
	return &Voice{base{spec: VoiceSpec, r: r}}
}

func AttachVoice(dir string, mode Mode) (*Voice, error) {
	r, err := Attach(dir, VoiceSpec, mode)
	if err != nil {
		return nil, err
	}
	return NewVoice(r), nil
}

// ShareResults moves the current list to the last list, then publishes words
// as the current list. Trailing slots are invalidated.
func (c *Voice) ShareResults(words []Word) {
	if len(words) > VoiceSlots {
		words = words[:VoiceSlots]
	}

	prev := c.words(voiceCount, voiceFirst)
	c.putWords(voiceLastCount, voiceLastFirst, prev)
	c.putWords(voiceCount, voiceFirst, words)
}

// NoResults sets every current slot status to status.
func (c *Voice) NoResults(status uint16) {
	for i := 0; i < VoiceSlots; i++ {
		c.r.PutU16(voiceFirst+i*voiceRecordSize+voiceStatus, status)
	}
}

func (c *Voice) Words() []Word     { return c.words(voiceCount, voiceFirst) }
func (c *Voice) LastWords() []Word { return c.words(voiceLastCount, voiceLastFirst) }

// Status returns the status of the first current word.
func (c *Voice) Status() uint16 { return c.r.U16(voiceFirst + voiceStatus) }

func (c *Voice) putWords(countOff, first int, words []Word) {
	c.r.PutU16(countOff, uint16(len(words)))
	for i, w := range words {
		o := first + i*voiceRecordSize
		c.r.PutU16(o+voiceStatus, w.Status)
		c.r.PutUTF32(o+voiceWord, VoiceWordChars, w.Word)
		c.r.PutF32(o+voiceConfidence, w.Confidence)
		c.r.PutU64(o+voiceTimestamp, w.Timestamp)
	}
	for i := len(words); i < VoiceSlots; i++ {
		c.r.PutU16(first+i*voiceRecordSize+voiceStatus, StatusAbsent)
	}
}

func (c *Voice) words(countOff, first int) []Word {
	n := int(c.r.U16(countOff))
	if n > VoiceSlots {
		n = VoiceSlots
	}
	out := make([]Word, 0, n)
	for i := 0; i < n; i++ {
		o := first + i*voiceRecordSize
		out = append(out, Word{
			Status:     c.r.U16(o + voiceStatus),
			Word:       c.r.UTF32(o+voiceWord, VoiceWordChars),
			Confidence: c.r.F32(o + voiceConfidence),
			Timestamp:  c.r.U64(o + voiceTimestamp),
		})
	}
	return out
}
