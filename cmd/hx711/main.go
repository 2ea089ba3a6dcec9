// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// hx711 polls an HX711 load cell amplifier wired to a SPI port and prints the
// normalized reading.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/hx711spi/gauge"
	"github.com/GermanBionicSystems/hx711spi/hx711"
	"github.com/GermanBionicSystems/hx711spi/spidev"
)

func newLogger(debug bool) zerolog.Logger {
	cw := zerolog.ConsoleWriter{Out: colorable.NewColorableStderr(), TimeFormat: time.StampMilli}
	lvl := zerolog.InfoLevel
	if debug {
		lvl = zerolog.DebugLevel
	}
	return zerolog.New(cw).Level(lvl).With().Timestamp().Logger()
}

// openPort opens path through the periph host registry or, with raw set,
// through a spidev handle owned by this process.
func openPort(path string, raw bool) (spi.PortCloser, error) {
	if raw {
		return spidev.Open(path)
	}
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	return spireg.Open(path)
}

func run(c *cli.Context) error {
	log := newLogger(c.Bool("debug"))

	var clock physic.Frequency
	if err := clock.Set(c.String("clock")); err != nil {
		return fmt.Errorf("invalid clock %q: %w", c.String("clock"), err)
	}
	opts := hx711.DefaultOpts
	opts.Profile = hx711.Profile{Clock: clock, Reset: c.Duration("reset")}
	opts.SkipValidation = c.Bool("no-validate")
	opts.Debug = c.Bool("debug")
	opts.Logger = &log

	p, err := openPort(c.String("device"), c.Bool("raw"))
	if err != nil {
		return err
	}
	defer p.Close()

	d, err := hx711.NewSPI(p, &opts)
	if err != nil {
		return err
	}
	log.Info().Stringer("dev", d).Stringer("profile", opts.Profile).Msg("connected")

	var g *gauge.Dev
	if c.Bool("gauge") {
		g = gauge.New(&gauge.Opts{Width: c.Int("width")})
		defer g.Halt()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	t := time.NewTicker(c.Duration("interval"))
	defer t.Stop()

	for n := c.Int("count"); n != 0; n-- {
		v, err := d.ReadFloat()
		switch {
		case hx711.IsNotReady(err):
			log.Warn().Err(err).Msg("retrying")
		case hx711.IsIntegrity(err):
			log.Error().Err(err).Msg("check wiring")
		case err != nil:
			return err
		case g != nil:
			if err := g.Show(v); err != nil {
				return err
			}
		default:
			fmt.Printf("val = %f\n", v)
		}
		select {
		case <-stop:
			return nil
		case <-t.C:
		}
	}
	return nil
}

func main() {
	app := &cli.App{
		Name:  "hx711",
		Usage: "read an HX711 load cell amplifier over SPI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "device", Aliases: []string{"d"}, Value: "/dev/spidev0.0", EnvVars: []string{"HX711_DEVICE"}, Usage: "SPI port"},
			&cli.BoolFlag{Name: "raw", EnvVars: []string{"HX711_RAW"}, Usage: "open the spidev device directly instead of through periph's registry"},
			&cli.StringFlag{Name: "clock", Value: hx711.DefaultProfile.Clock.String(), EnvVars: []string{"HX711_CLOCK"}, Usage: "raw SPI clock"},
			&cli.DurationFlag{Name: "reset", Value: hx711.DefaultProfile.Reset, EnvVars: []string{"HX711_RESET"}, Usage: "reset hold time"},
			&cli.DurationFlag{Name: "interval", Value: 200 * time.Millisecond, EnvVars: []string{"HX711_INTERVAL"}, Usage: "delay between reads"},
			&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: -1, Usage: "number of reads, -1 for ever"},
			&cli.BoolFlag{Name: "no-validate", Usage: "skip the bit pair consistency check"},
			&cli.BoolFlag{Name: "gauge", Aliases: []string{"g"}, Usage: "draw a bar instead of printing values"},
			&cli.IntFlag{Name: "width", Value: 40, Usage: "gauge width"},
			&cli.BoolFlag{Name: "debug", EnvVars: []string{"HX711_DEBUG"}, Usage: "dump timing and transfers"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		var te *hx711.TransportError
		if errors.As(err, &te) {
			fmt.Fprintf(os.Stderr, "hx711: device unusable: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "hx711: %v\n", err)
		}
		os.Exit(1)
	}
}
