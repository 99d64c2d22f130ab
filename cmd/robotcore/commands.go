// cmd/robotcore/commands.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/urfave/cli"

	"github.com/tamzrod/robotcore/internal/access"
	"github.com/tamzrod/robotcore/internal/behavior"
	"github.com/tamzrod/robotcore/internal/channel"
	"github.com/tamzrod/robotcore/internal/config"
	drvmodbus "github.com/tamzrod/robotcore/internal/driver/modbus"
	"github.com/tamzrod/robotcore/internal/motor"
	"github.com/tamzrod/robotcore/internal/params"
	"github.com/tamzrod/robotcore/internal/poller"
	"github.com/tamzrod/robotcore/internal/recorder"
	"github.com/tamzrod/robotcore/internal/remote"
	"github.com/tamzrod/robotcore/internal/runner"
	"github.com/tamzrod/robotcore/internal/status"
)

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

// --------------------
// create
// --------------------

func cmdCreate(c *cli.Context) error {
	cfg, log, err := setup(c, "create")
	if err != nil {
		return err
	}
	dir := cfg.Robot.SHMDir

	if err := os.MkdirAll(dir, 0o777); err != nil {
		return fmt.Errorf("channel dir: %w", err)
	}
	b, err := channel.AttachAll(dir, channel.Create)
	if err != nil {
		return err
	}
	for _, s := range channel.AllSpecs {
		log.Info("channel ready", "name", s.Name, "file", s.File, "size", s.Size)
	}
	return b.Close()
}

// --------------------
// behave
// --------------------

func cmdBehave(c *cli.Context) error {
	cfg, log, err := setup(c, "behave")
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	b, err := attach(ctx, log, cfg.Robot.SHMDir)
	if err != nil {
		return err
	}
	defer b.Close()

	bc := cfg.Robot.Behaviour
	p, err := params.Load(bc.Params)
	if err != nil {
		return err
	}

	w := behavior.DefaultWiring()
	if bc.HeadingSlot != nil {
		w.Heading = *bc.HeadingSlot
	}
	for name, n := range bc.Servos {
		w.Servos[name] = n
	}

	files := behavior.Files{Default: bc.Sequence, Recorded: bc.Recorded}
	copy(files.Buttons[:], bc.Buttons)

	board := status.NewBoard("sequence")
	seq, err := behavior.New(behavior.Deps{
		Access: access.New(b),
		Params: p,
		Board:  board,
		Log:    log,
	}, w, files)
	if err != nil {
		return fmt.Errorf("behaviour build failed: %w", err)
	}

	lc := cfg.Robot.Loop
	loop, err := runner.New(runner.Config{
		Period:       ms(lc.PeriodMs),
		MediumEvery:  lc.MediumEvery,
		Grace:        lc.WatchdogGrace,
		StaleBackoff: ms(lc.StaleBackoffMs),
	}, b, seq, board, status.NewPublisher(status.ChannelSink{C: b.Status}), log)
	if err != nil {
		return err
	}

	err = loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// --------------------
// drive
// --------------------

func cmdDrive(c *cli.Context) error {
	cfg, log, err := setup(c, "drive")
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	b, err := attach(ctx, log, cfg.Robot.SHMDir)
	if err != nil {
		return err
	}
	defer b.Close()

	mc := cfg.Robot.Motor

	var client *drvmodbus.EndpointClient
	err = runner.Retry(ctx, log, "motor controller "+mc.Endpoint, attachBackoff, func() error {
		var err error
		client, err = drvmodbus.NewEndpointClient(drvmodbus.EndpointConfig{
			Endpoint: mc.Endpoint,
			UnitID:   mc.UnitID,
			Timeout:  ms(mc.TimeoutMs),
		})
		return err
	})
	if err != nil {
		return err
	}
	defer client.Close()

	reg := drvmodbus.RegisterMap{
		Torque:   map[int]uint16{},
		Servo:    map[int]uint16{},
		LED:      map[int]uint16{},
		Position: map[int]uint16{},
	}
	pc := motor.Config{
		MaxTorque:   mc.MaxTorque,
		DeltaTorque: mc.DeltaTorque,
		Period:      ms(mc.PeriodMs),
	}
	for _, m := range mc.Motors {
		reg.Torque[m.ID] = m.TorqueRegister
		if m.PositionRegister != nil {
			reg.Position[m.ID] = *m.PositionRegister
		}
		pc.Motors = append(pc.Motors, m.ID)
	}
	for _, s := range mc.Servos {
		reg.Servo[s.ID] = s.Register
		pc.Servos = append(pc.Servos, s.ID)
	}
	for _, l := range mc.LEDs {
		reg.LED[l.ID] = l.Register
		pc.LEDs = append(pc.LEDs, l.ID)
	}

	proc, err := motor.New(pc, b, drvmodbus.NewDriver(client, reg), log)
	if err != nil {
		return err
	}
	err = proc.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// --------------------
// poll
// --------------------

func cmdPoll(c *cli.Context) error {
	cfg, log, err := setup(c, "poll")
	if err != nil {
		return err
	}
	if len(cfg.Robot.Pollers) == 0 {
		return errors.New("no pollers configured")
	}
	ctx, cancel := signalContext()
	defer cancel()

	b, err := attach(ctx, log, cfg.Robot.SHMDir)
	if err != nil {
		return err
	}
	defer b.Close()

	var wg sync.WaitGroup
	for _, pcfg := range cfg.Robot.Pollers {
		// ---- poller ----
		p, closePoller, err := poller.Build(pcfg)
		if err != nil {
			cancel()
			wg.Wait()
			return fmt.Errorf("poller build failed (source=%s): %w", pcfg.ID, err)
		}
		defer closePoller()

		// ---- sink ----
		sink := poller.BuildSink(pcfg, b.Sensors)
		out := make(chan poller.PollResult)

		wg.Add(2)
		go func() {
			defer wg.Done()
			p.Run(ctx, out)
		}()
		go func(id string) {
			defer wg.Done()
			poller.Deliver(ctx, out, sink, log.With("source", id))
		}(pcfg.ID)

		log.Info("polling", "source", pcfg.ID, "endpoint", pcfg.Source.Endpoint, "reads", len(pcfg.Reads))
	}

	wg.Wait()
	return nil
}

// --------------------
// remote
// --------------------

func cmdRemote(c *cli.Context) error {
	cfg, log, err := setup(c, "remote")
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	b, err := attach(ctx, log, cfg.Robot.SHMDir)
	if err != nil {
		return err
	}
	defer b.Close()

	rc := cfg.Robot.Remote
	mux := http.NewServeMux()
	mux.Handle(rc.Path, remote.NewHandler(b.Sensors, rc.WatchdogGrace, log))

	srv := &http.Server{Addr: rc.Listen, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
		defer stop()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("remote control listening", "addr", rc.Listen, "path", rc.Path)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// --------------------
// record
// --------------------

func cmdRecord(c *cli.Context) error {
	cfg, log, err := setup(c, "record")
	if err != nil {
		return err
	}
	rc := cfg.Robot.Recorder
	if rc.Path == "" {
		return errors.New("recorder: path not configured")
	}
	ctx, cancel := signalContext()
	defer cancel()

	b, err := attach(ctx, log, cfg.Robot.SHMDir)
	if err != nil {
		return err
	}
	defer b.Close()

	store := recorder.NewStore(rc.Path)
	if err := store.Init(ctx); err != nil {
		return err
	}
	defer store.Close()

	probes := make([]recorder.Probe, 0, len(rc.Probes))
	for _, p := range rc.Probes {
		probes = append(probes, recorder.Probe{Name: p.Name, Kind: p.Kind, Slot: p.Slot})
	}

	return recorder.New(store, b, probes, ms(rc.IntervalMs), log).Run(ctx)
}

// --------------------
// status
// --------------------

func cmdStatus(c *cli.Context) error {
	path := c.GlobalString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	config.Normalize(cfg)

	st, err := channel.AttachStatusText(cfg.Robot.SHMDir, channel.Open)
	if err != nil {
		return err
	}
	defer st.Close()

	show := func() {
		fmt.Printf("%s\n%s\n%s\n", st.Title(), st.Subtitle(), st.Additional())
	}
	show()
	if !c.Bool("watch") {
		return nil
	}

	ctx, cancel := signalContext()
	defer cancel()
	t := time.NewTicker(time.Second)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			fmt.Println()
			show()
		}
	}
}
