// internal/channel/layout.go
package channel

// Channel record layouts.
// These values define the wire protocol and MUST NOT be configurable.
// Every layout is packed (no padding), little-endian, in declaration order.
// Strings are fixed-length UTF-32 code point arrays.

// ---- RECORD STATUS ----

// StatusAbsent marks a slot with no value.
const StatusAbsent uint16 = 0

// StatusValid marks a slot holding a valid value.
const StatusValid uint16 = 1

// StatusFinal marks a high-confidence or final value (voice recognition).
const StatusFinal uint16 = 2

// NoWatchdog is the WatchdogOffset of channels that carry no countdown.
const NoWatchdog = -1

// Spec names one channel file and its geometry.
type Spec struct {
	Name           string
	File           string
	Size           int
	WatchdogOffset int
}

// ---- MOTORS ----

const (
	MotorSlots     = 8
	MotorNameChars = 16

	motorMode         = 0  // u16: 0 torque, 1 speed, 2 position
	motorReqTorque    = 2  // f32
	motorActTorque    = 6  // f32
	motorReqSpeed     = 10 // f32
	motorActSpeed     = 14 // f32
	motorReqPosition  = 18 // i64
	motorActPosition  = 26 // i64
	motorName         = 34 // utf32[16]
	motorRecordSize   = 34 + 4*MotorNameChars
	motorsWatchdog    = 0
	motorsFirstRecord = 2
)

var MotorsSpec = Spec{
	Name:           "motors",
	File:           "motor_control_shared.mmf",
	Size:           motorsFirstRecord + MotorSlots*motorRecordSize,
	WatchdogOffset: motorsWatchdog,
}

// ---- SERVOS ----

const (
	ServoSlots = 32

	servoStatus       = 0 // u16: 0 off, 1 driven
	servoPosition     = 2 // f32 -1.0..1.0
	servoRecordSize   = 6
	servosFirstRecord = 2
)

var ServosSpec = Spec{
	Name:           "servos",
	File:           "servo_control_shared.mmf",
	Size:           servosFirstRecord + ServoSlots*servoRecordSize,
	WatchdogOffset: 0,
}

// ---- SIMPLE OUTPUTS (LED / solenoid) ----

const (
	SimpleSlots = 32

	simpleType        = 0 // u8: 0 unused, 1 valued, 2 one-shot
	simpleValue       = 1 // u8 0..255
	simpleRecordSize  = 2
	simpleFirstRecord = 2
)

var SimpleSpec = Spec{
	Name:           "simple",
	File:           "simple_control_shared.mmf",
	Size:           simpleFirstRecord + SimpleSlots*simpleRecordSize,
	WatchdogOffset: 0,
}

// ---- SENSORS ----

const (
	SensorSlots = 32

	sensorStatus    = 0  // u16
	sensorTimestamp = 2  // f64 seconds
	sensorValue     = 10 // f32 / i16 / i64 by kind

	analogRecordSize  = 14
	digitalRecordSize = 12
	counterRate       = 18 // f32 counts per second
	counterRecordSize = 22

	sensorsAnalogStart  = 2
	sensorsDigitalStart = sensorsAnalogStart + SensorSlots*analogRecordSize
	sensorsCounterStart = sensorsDigitalStart + SensorSlots*digitalRecordSize
)

var SensorsSpec = Spec{
	Name:           "sensors",
	File:           "sensors_shared.mmf",
	Size:           sensorsCounterStart + SensorSlots*counterRecordSize,
	WatchdogOffset: 0,
}

// ---- IMAGE ANALYSIS ----

const (
	ImageSlots     = 64
	ImageNameChars = 32

	imageHeaderTimestamp = 0  // u64
	imageHeaderElapsed   = 8  // f32
	imageHeaderWatchdog  = 12 // u16
	imageHeaderCount     = 14 // u16
	imageFirstRecord     = 16

	imageStatus     = 0
	imageTypeName   = 2
	imageName       = imageTypeName + 4*ImageNameChars
	imageConfidence = imageName + 4*ImageNameChars
	imageDistance   = imageConfidence + 4
	imageSize       = imageDistance + 4 // f32[2]
	imageYaw        = imageSize + 8
	imageAngle      = imageYaw + 4
	imageRecordSize = imageAngle + 4
)

var ImageSpec = Spec{
	Name:           "image",
	File:           "image_analysis_shared.mmf",
	Size:           imageFirstRecord + ImageSlots*imageRecordSize,
	WatchdogOffset: imageHeaderWatchdog,
}

// ---- LINE HEADING ----

const (
	LinePoints = 128

	lineStatus    = 0  // u16
	lineTimestamp = 2  // u64
	lineElapsed   = 10 // f32
	lineAngle     = 14 // f32 relative
	lineYaw       = 18 // f32 absolute
	lineVector    = 22 // f32[2][2]
	lineCount     = 38 // u32
	linePointsOff = 42 // f32[128][2]
)

var LineSpec = Spec{
	Name:           "line",
	File:           "vision_line_shared.mmf",
	Size:           linePointsOff + LinePoints*8,
	WatchdogOffset: NoWatchdog,
}

// ---- VOICE RECOGNITION ----

const (
	VoiceSlots     = 64
	VoiceWordChars = 32

	voiceStatus     = 0
	voiceWord       = 2
	voiceConfidence = voiceWord + 4*VoiceWordChars
	voiceTimestamp  = voiceConfidence + 4 // u64
	voiceRecordSize = voiceTimestamp + 8

	voiceWatchdog  = 0
	voiceCount     = 2
	voiceFirst     = 4
	voiceLastCount = voiceFirst + VoiceSlots*voiceRecordSize
	voiceLastFirst = voiceLastCount + 2
)

var VoiceSpec = Spec{
	Name:           "voice",
	File:           "voice_recognition.mmf",
	Size:           voiceLastFirst + VoiceSlots*voiceRecordSize,
	WatchdogOffset: voiceWatchdog,
}

// ---- STATUS / TELEMETRY TEXT ----

const (
	StatusTitleChars      = 80
	StatusSubtitleChars   = 80
	StatusAdditionalChars = 160

	statusTitle      = 0
	statusSubtitle   = statusTitle + 4*StatusTitleChars
	statusAdditional = statusSubtitle + 4*StatusSubtitleChars
)

var StatusSpec = Spec{
	Name:           "status",
	File:           "status_info.mmf",
	Size:           statusAdditional + 4*StatusAdditionalChars,
	WatchdogOffset: NoWatchdog,
}

// ---- INDICATOR (eyes) ----

const (
	IndicatorSlots = 32

	indicatorType       = 0 // u8
	indicatorOffColour  = 1 // u32 WRGB
	indicatorOnColour   = 5 // u32 WRGB
	indicatorLEDBits    = 9 // u32
	indicatorRecordSize = 13
)

var IndicatorSpec = Spec{
	Name:           "indicator",
	File:           "indicator_control_shared.mmf",
	Size:           IndicatorSlots * indicatorRecordSize,
	WatchdogOffset: NoWatchdog,
}

// ---- MONITOR (live graph values) ----

const (
	MonitorSlots = 64

	monitorRecordSize = 14 // u16 status, f64 timestamp, f32 value
)

var MonitorSpec = Spec{
	Name:           "monitor",
	File:           "monitor_shared.mmf",
	Size:           MonitorSlots * monitorRecordSize,
	WatchdogOffset: NoWatchdog,
}

// AllSpecs lists every channel in creation order.
var AllSpecs = []Spec{
	MotorsSpec,
	ServosSpec,
	SimpleSpec,
	SensorsSpec,
	ImageSpec,
	LineSpec,
	VoiceSpec,
	StatusSpec,
	IndicatorSpec,
	MonitorSpec,
}
