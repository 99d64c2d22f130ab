// internal/status/constants.go
package status

// ---- HEALTH CODES ----

// HealthUnknown represents an unknown or boot state.
const HealthUnknown uint16 = 0

// HealthOK represents a running process with live inputs.
const HealthOK uint16 = 1

// HealthError represents a process whose I/O is failing.
const HealthError uint16 = 2

// HealthStale represents an upstream producer whose watchdog expired.
const HealthStale uint16 = 3

// HealthDisabled represents a stopped process.
const HealthDisabled uint16 = 4

// HealthLabel returns the display text for a health code.
func HealthLabel(h uint16) string {
	switch h {
	case HealthOK:
		return "OK"
	case HealthError:
		return "ERROR"
	case HealthStale:
		return "STALE"
	case HealthDisabled:
		return "DISABLED"
	}
	return "UNKNOWN"
}

// ---- FIELDS ----

// Field identifies one line of the status channel.
type Field int

const (
	FieldTitle Field = iota
	FieldSubtitle
	FieldAdditional
)

func (f Field) String() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldSubtitle:
		return "subtitle"
	case FieldAdditional:
		return "additional"
	}
	return "unknown"
}

// SecondsInErrorMax is where the error counter stops.
const SecondsInErrorMax = 65535
