// internal/config/normalize.go
package config

import "github.com/tamzrod/robotcore/internal/shm"

// Defaults applied by Normalize.
const (
	DefaultSHMDir         = "/dev/shm/robotcore"
	DefaultPeriodMs       = 10
	DefaultMediumEvery    = 10
	DefaultStaleBackoffMs = 1000
	DefaultTimeoutMs      = 500
	DefaultPollMs         = 10
	DefaultRemoteListen   = ":8080"
	DefaultRemotePath     = "/control"
	DefaultRecorderMs     = 100
	DefaultParamsFile     = "params.yaml"
	DefaultRecordedFile   = "recordedPath.yaml"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	r := &cfg.Robot

	if r.SHMDir == "" {
		r.SHMDir = DefaultSHMDir
	}
	if r.LogLevel == "" {
		r.LogLevel = "info"
	}

	// ------------------------------------------------------------
	// LOOP
	// ------------------------------------------------------------
	if r.Loop.PeriodMs == 0 {
		r.Loop.PeriodMs = DefaultPeriodMs
	}
	if r.Loop.MediumEvery == 0 {
		r.Loop.MediumEvery = DefaultMediumEvery
	}
	if r.Loop.WatchdogGrace == 0 {
		r.Loop.WatchdogGrace = shm.DefaultGrace
	}
	if r.Loop.StaleBackoffMs == 0 {
		r.Loop.StaleBackoffMs = DefaultStaleBackoffMs
	}

	// ------------------------------------------------------------
	// BEHAVIOUR
	// ------------------------------------------------------------
	if r.Behaviour.Params == "" {
		r.Behaviour.Params = DefaultParamsFile
	}
	if r.Behaviour.Recorded == "" {
		r.Behaviour.Recorded = DefaultRecordedFile
	}

	// ------------------------------------------------------------
	// MOTOR
	// ------------------------------------------------------------
	if r.Motor.TimeoutMs == 0 {
		r.Motor.TimeoutMs = DefaultTimeoutMs
	}
	if r.Motor.PeriodMs == 0 {
		r.Motor.PeriodMs = r.Loop.PeriodMs
	}

	// ------------------------------------------------------------
	// POLLERS
	// ------------------------------------------------------------
	for i := range r.Pollers {
		p := &r.Pollers[i]
		if p.Source.TimeoutMs == 0 {
			p.Source.TimeoutMs = DefaultTimeoutMs
		}
		if p.Poll.IntervalMs == 0 {
			p.Poll.IntervalMs = DefaultPollMs
		}
		if p.WatchdogGrace == 0 {
			p.WatchdogGrace = r.Loop.WatchdogGrace
		}
		for j := range p.Inputs {
			in := &p.Inputs[j]
			if in.Words == 0 {
				in.Words = 1
			}
			if in.Scale == 0 {
				in.Scale = 1
			}
		}
	}

	// ------------------------------------------------------------
	// REMOTE / RECORDER
	// ------------------------------------------------------------
	if r.Remote.Listen == "" {
		r.Remote.Listen = DefaultRemoteListen
	}
	if r.Remote.Path == "" {
		r.Remote.Path = DefaultRemotePath
	}
	if r.Remote.WatchdogGrace == 0 {
		r.Remote.WatchdogGrace = r.Loop.WatchdogGrace
	}
	if r.Recorder.IntervalMs == 0 {
		r.Recorder.IntervalMs = DefaultRecorderMs
	}
}
