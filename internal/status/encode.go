// internal/status/encode.go
package status

import "fmt"

// Text is the content of the status channel.
type Text struct {
	Title      string
	Subtitle   string
	Additional string
}

// Field returns the line for f.
func (t Text) Field(f Field) string {
	switch f {
	case FieldTitle:
		return t.Title
	case FieldSubtitle:
		return t.Subtitle
	}
	return t.Additional
}

// Encode converts a Snapshot into status channel text.
// No IO. No side effects.
func Encode(s Snapshot) Text {
	t := Text{Title: s.Title, Subtitle: s.State}
	if s.Detail != "" {
		if t.Subtitle != "" {
			t.Subtitle += " "
		}
		t.Subtitle += s.Detail
	}

	t.Additional = HealthLabel(s.Health)
	if s.Health != HealthOK && s.SecondsInError > 0 {
		t.Additional += fmt.Sprintf(" %ds", s.SecondsInError)
	}
	return t
}
