// cmd/robotcore/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"

	"github.com/tamzrod/robotcore/internal/channel"
	"github.com/tamzrod/robotcore/internal/config"
	"github.com/tamzrod/robotcore/internal/logs"
	"github.com/tamzrod/robotcore/internal/runner"
)

// attachBackoff is the wait between attempts to open channels that do not exist yet.
const attachBackoff = time.Second

func main() {
	app := cli.NewApp()
	app.Name = "robotcore"
	app.Usage = "robot control processes over shared-memory channels"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Value: "robotcore.yaml",
			Usage: "path to the robot config file",
		},
		cli.BoolFlag{
			Name:  "journal",
			Usage: "also log to the systemd journal",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "create",
			Usage:  "create or reset every channel file",
			Action: cmdCreate,
		},
		{
			Name:   "behave",
			Usage:  "run the sequence behaviour control loop",
			Action: cmdBehave,
		},
		{
			Name:   "drive",
			Usage:  "copy the actuator channels onto the motor controller",
			Action: cmdDrive,
		},
		{
			Name:   "poll",
			Usage:  "poll sensor sources into the sensors channel",
			Action: cmdPoll,
		},
		{
			Name:   "remote",
			Usage:  "serve the websocket joystick bridge",
			Action: cmdRemote,
		},
		{
			Name:   "record",
			Usage:  "sample channel values into the telemetry database",
			Action: cmdRecord,
		},
		{
			Name:  "status",
			Usage: "print the status display",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "watch, w",
					Usage: "keep printing every second",
				},
			},
			Action: cmdStatus,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "robotcore: %v\n", err)
		os.Exit(1)
	}
}

// --------------------
// Shared setup
// --------------------

// setup loads and checks the config and builds the process logger.
func setup(c *cli.Context, process string) (*config.Config, *slog.Logger, error) {
	path := c.GlobalString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("config load failed: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)

	if err := logs.SetLevel(cfg.Robot.LogLevel); err != nil {
		return nil, nil, err
	}
	log := logs.New(logs.Options{
		Process: process,
		Journal: c.GlobalBool("journal"),
	})
	log.Info("starting", "config", path, "shm_dir", cfg.Robot.SHMDir)
	return cfg, log, nil
}

// signalContext ends on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// attach opens the channel bundle, waiting for the creator process.
func attach(ctx context.Context, log *slog.Logger, dir string) (*channel.Bundle, error) {
	var b *channel.Bundle
	err := runner.Retry(ctx, log, "channels", attachBackoff, func() error {
		var err error
		b, err = channel.AttachAll(dir, channel.Open)
		return err
	})
	return b, err
}
