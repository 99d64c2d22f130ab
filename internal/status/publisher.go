// internal/status/publisher.go
package status

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/robotcore/internal/channel"
)

// Sink receives status lines.
type Sink interface {
	WriteField(f Field, text string) error
}

// ChannelSink writes into the shared status channel.
type ChannelSink struct {
	C *channel.StatusText
}

func (s ChannelSink) WriteField(f Field, text string) error {
	switch f {
	case FieldTitle:
		s.C.SetTitle(text)
	case FieldSubtitle:
		s.C.SetSubtitle(text)
	case FieldAdditional:
		s.C.SetAdditional(text)
	default:
		return fmt.Errorf("status: unknown field %d", f)
	}
	return nil
}

// Publisher delivers snapshots, writing only the lines that changed.
// After any failed write the next call re-asserts every line.
type Publisher struct {
	sink     Sink
	needFull bool
	last     Text
}

func NewPublisher(sink Sink) *Publisher {
	return &Publisher{sink: sink, needFull: true}
}

var fields = [...]Field{FieldTitle, FieldSubtitle, FieldAdditional}

// Publish delivers s.
func (p *Publisher) Publish(s Snapshot) error {
	if p == nil || p.sink == nil {
		return errors.New("status publisher: no sink")
	}

	next := Encode(s)

	// ------------------------------------------------------------
	// Full write (first publish or after a failure)
	// ------------------------------------------------------------
	if p.needFull {
		for _, f := range fields {
			if err := p.sink.WriteField(f, next.Field(f)); err != nil {
				return fmt.Errorf("status publisher: full write failed on %s: %w", f, err)
			}
		}
		p.needFull = false
		p.last = next
		return nil
	}

	var errs []string
	for _, f := range fields {
		if p.last.Field(f) == next.Field(f) {
			continue
		}
		if err := p.sink.WriteField(f, next.Field(f)); err != nil {
			errs = append(errs, fmt.Sprintf("%s write failed: %v", f, err))
			continue
		}
		p.last = setField(p.last, f, next.Field(f))
	}

	if len(errs) > 0 {
		p.needFull = true
		return errors.New("status publisher: " + strings.Join(errs, " | "))
	}
	return nil
}

func setField(t Text, f Field, v string) Text {
	switch f {
	case FieldTitle:
		t.Title = v
	case FieldSubtitle:
		t.Subtitle = v
	case FieldAdditional:
		t.Additional = v
	}
	return t
}
