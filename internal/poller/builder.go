// internal/poller/builder.go
package poller

import (
	"time"

	"github.com/tamzrod/robotcore/internal/channel"
	cfg "github.com/tamzrod/robotcore/internal/config"
	pmodbus "github.com/tamzrod/robotcore/internal/poller/modbus"
)

// Build constructs a Poller for one source and connects its Modbus client.
// The returned closer releases the connection.
func Build(pc cfg.PollerConfig) (*Poller, func() error, error) {
	client, err := pmodbus.New(pmodbus.Config{
		Endpoint: pc.Source.Endpoint,
		UnitID:   pc.Source.UnitID,
		Timeout:  time.Duration(pc.Source.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, err
	}

	reads := make([]ReadBlock, 0, len(pc.Reads))
	for _, r := range pc.Reads {
		reads = append(reads, ReadBlock{
			FC:       r.FC,
			Address:  r.Address,
			Quantity: r.Quantity,
		})
	}

	p, err := New(
		Config{
			SourceID: pc.ID,
			Interval: time.Duration(pc.Poll.IntervalMs) * time.Millisecond,
			Reads:    reads,
		},
		client,
	)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	return p, client.Close, nil
}

// BuildSink maps a source's inputs onto the sensors channel.
func BuildSink(pc cfg.PollerConfig, s *channel.Sensors) *Sink {
	inputs := make([]Input, 0, len(pc.Inputs))
	for _, in := range pc.Inputs {
		inputs = append(inputs, Input{
			Block:  in.Read,
			Index:  in.Index,
			Words:  in.Words,
			Signed: in.Signed,
			Scale:  in.Scale,
			Kind:   in.Kind,
			Slot:   in.Slot,
		})
	}
	return NewSink(s, inputs, pc.WatchdogGrace)
}
