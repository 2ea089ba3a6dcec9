// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hx711

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/spi"
)

// Opts holds the configuration options for the device.
type Opts struct {
	// Profile is the SPI clock and reset timing. Default is DefaultProfile.
	Profile Profile
	// SkipValidation disables the bit pair consistency check. By default Read
	// returns an IntegrityError when the two raw bits of a pair disagree.
	SkipValidation bool
	// Debug logs the timing constants and every transfer at debug level.
	Debug bool
	// Logger receives the debug output. nil discards it.
	Logger *zerolog.Logger
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	Profile: DefaultProfile,
}

// Dev is a handle to an HX711 wired to a SPI port, MOSI driving PD_SCK and
// MISO sampling DOUT.
//
// Reads through one Dev are serialized. Sharing the underlying port with
// another user breaks the reset timing of both.
type Dev struct {
	c    spi.Conn
	opts Opts
	idle int
	log  zerolog.Logger
	mu   sync.Mutex
}

// NewSPI returns a Dev that clocks the HX711 through p. The Opts can be nil.
func NewSPI(p spi.Port, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	prof := opts.Profile
	if prof.Reset <= 0 {
		return nil, errors.New("hx711: reset duration must be positive")
	}
	if prof.Clock < MinClock {
		return nil, fmt.Errorf("hx711: clock %s is below the minimum of %s", prof.Clock, MinClock)
	}
	if !prof.inRange() {
		return nil, fmt.Errorf("hx711: profile %s overflows the idle byte computation", prof)
	}
	c, err := p.Connect(prof.Clock, spi.Mode0, 8)
	if err != nil {
		return nil, &TransportError{Op: "connect", Err: err}
	}
	d := &Dev{c: c, opts: *opts, idle: prof.IdleBytes(), log: zerolog.Nop()}
	if opts.Logger != nil {
		d.log = *opts.Logger
	}
	if d.opts.Debug {
		d.log.Debug().
			Stringer("clock", prof.Clock).
			Dur("reset", prof.Reset).
			Int("idle_bytes", d.idle).
			Int("buffer_size", d.idle+dataBytes).
			Msg("hx711: timing")
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("HX711{%s}", d.c)
}

// Read performs one reset and read cycle and returns the 24 bit conversion
// in the low bits of the result.
//
// It returns a NotReadyError if no conversion was pending, an IntegrityError
// if the response is inconsistent and a TransportError if the SPI transfer
// failed.
func (d *Dev) Read() (uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	buf := make([]byte, d.idle+dataBytes)
	encode(buf, d.idle)
	if d.opts.Debug {
		d.log.Debug().Hex("tx", buf).Msg("hx711: out")
	}
	if err := d.c.Tx(buf, buf); err != nil {
		return 0, &TransportError{Op: "tx", Err: err}
	}
	if d.opts.Debug {
		d.log.Debug().Hex("rx", buf).Msg("hx711: in")
	}
	if !ready(buf, d.idle) {
		return 0, &NotReadyError{}
	}
	wire, v, err := decode(buf, d.idle, !d.opts.SkipValidation)
	if err != nil {
		return 0, err
	}
	if d.opts.Debug {
		d.log.Debug().Hex("wire", wire[:]).Uint32("value", v).Msg("hx711: decoded")
	}
	return v, nil
}

// ReadFloat is Read normalized to [0, 1).
func (d *Dev) ReadFloat() (float64, error) {
	v, err := d.Read()
	if err != nil {
		return 0, err
	}
	return float64(v) / math.MaxUint32, nil
}

// Halt implements conn.Resource.
//
// The HX711 is only clocked while reading, so there is nothing to stop.
func (d *Dev) Halt() error {
	return nil
}

var _ conn.Resource = &Dev{}
