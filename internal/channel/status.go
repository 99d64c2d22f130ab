// internal/channel/status.go
package channel

import "github.com/tamzrod/robotcore/internal/shm"

// StatusText is the status/telemetry text channel shown by the display process.
type StatusText struct{ base }

func NewStatusText(r *shm.Region) *StatusText {
	checkSize(StatusSpec, r)
	return &StatusText{base{spec: StatusSpec, r: r}}
}

func AttachStatusText(dir string, mode Mode) (*StatusText, error) {
	r, err := Attach(dir, StatusSpec, mode)
	if err != nil {
		return nil, err
	}
	return NewStatusText(r), nil
}

func (c *StatusText) Set(title, subtitle, additional string) {
	c.SetTitle(title)
	c.SetSubtitle(subtitle)
	c.SetAdditional(additional)
}

func (c *StatusText) Clear() { c.Set("", "", "") }

func (c *StatusText) SetTitle(s string) { c.r.PutUTF32(statusTitle, StatusTitleChars, s) }
func (c *StatusText) SetSubtitle(s string) {
	c.r.PutUTF32(statusSubtitle, StatusSubtitleChars, s)
}
func (c *StatusText) SetAdditional(s string) {
	c.r.PutUTF32(statusAdditional, StatusAdditionalChars, s)
}

func (c *StatusText) Title() string    { return c.r.UTF32(statusTitle, StatusTitleChars) }
func (c *StatusText) Subtitle() string { return c.r.UTF32(statusSubtitle, StatusSubtitleChars) }
func (c *StatusText) Additional() string {
	return c.r.UTF32(statusAdditional, StatusAdditionalChars)
}
