// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Robot RobotConfig `yaml:"robot"`
}

type RobotConfig struct {
	SHMDir   string `yaml:"shm_dir"`
	LogLevel string `yaml:"log_level"`

	Loop      LoopConfig      `yaml:"loop"`
	Behaviour BehaviourConfig `yaml:"behaviour"`
	Motor     MotorConfig     `yaml:"motor"`
	Pollers   []PollerConfig  `yaml:"pollers"`
	Remote    RemoteConfig    `yaml:"remote"`
	Recorder  RecorderConfig  `yaml:"recorder"`
}

// ---- LOOP ----

type LoopConfig struct {
	PeriodMs       int    `yaml:"period_ms"`
	MediumEvery    int    `yaml:"medium_every"`
	WatchdogGrace  uint16 `yaml:"watchdog_grace"`
	StaleBackoffMs int    `yaml:"stale_backoff_ms"`
}

// ---- BEHAVIOUR ----

type BehaviourConfig struct {
	Params   string   `yaml:"params"`   // tuning key-value file
	Sequence string   `yaml:"sequence"` // default plan
	Buttons  []string `yaml:"buttons"`  // plans for the four sequence buttons
	Recorded string   `yaml:"recorded"` // path recording output

	HeadingSlot *int           `yaml:"heading_slot"`
	Servos      map[string]int `yaml:"servos"` // plan servo name -> servo number
}

// ---- MOTOR DRIVER ----

type MotorConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`
	PeriodMs  int    `yaml:"period_ms"`

	MaxTorque   float64 `yaml:"max_torque"`
	DeltaTorque float64 `yaml:"delta_torque"`

	Motors []MotorOutput `yaml:"motors"`
	Servos []Output      `yaml:"servos"`
	LEDs   []Output      `yaml:"leds"`
}

type MotorOutput struct {
	ID               int     `yaml:"id"`
	TorqueRegister   uint16  `yaml:"torque_register"`
	PositionRegister *uint16 `yaml:"position_register"` // input registers, two words
}

type Output struct {
	ID       int    `yaml:"id"`
	Register uint16 `yaml:"register"`
}

// ---- SENSOR POLLERS ----

type PollerConfig struct {
	ID            string        `yaml:"id"`
	Source        SourceConfig  `yaml:"source"`
	Poll          PollConfig    `yaml:"poll"`
	Reads         []ReadConfig  `yaml:"reads"`
	Inputs        []InputConfig `yaml:"inputs"`
	WatchdogGrace uint16        `yaml:"watchdog_grace"`
}

type SourceConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

type ReadConfig struct {
	FC       uint8  `yaml:"fc"`
	Address  uint16 `yaml:"address"`
	Quantity uint16 `yaml:"quantity"`
}

// InputConfig maps one value inside a read block onto a sensor slot.
type InputConfig struct {
	Read   int     `yaml:"read"`  // index into reads
	Index  int     `yaml:"index"` // bit or register index within the block
	Words  int     `yaml:"words"` // 1 or 2 registers, high word first
	Signed bool    `yaml:"signed"`
	Scale  float64 `yaml:"scale"`
	Kind   string  `yaml:"kind"` // analog | digital | counter
	Slot   int     `yaml:"slot"`
}

// ---- REMOTE ----

type RemoteConfig struct {
	Listen        string `yaml:"listen"`
	Path          string `yaml:"path"`
	WatchdogGrace uint16 `yaml:"watchdog_grace"`
}

// ---- RECORDER ----

type RecorderConfig struct {
	Path       string        `yaml:"path"`
	IntervalMs int           `yaml:"interval_ms"`
	Probes     []ProbeConfig `yaml:"probes"`
}

type ProbeConfig struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"` // analog | digital | counter | torque | position
	Slot int    `yaml:"slot"`
}

// Load reads a YAML config file. It does not validate.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}
