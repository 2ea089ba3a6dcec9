// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hx711

import (
	"math/bits"
	"time"

	"periph.io/x/conn/v3/physic"
)

const (
	// dataBytes is the clock pattern length: 48 raw bits, 24 PD_SCK pulses.
	dataBytes = 6
	// dataPattern produces one rising clock edge per pair of raw bits.
	dataPattern byte = 0xAA
	// idlePattern holds the line in the reset state.
	idlePattern byte = 0x00
	// notReady is echoed back in the idle region while DOUT is still high.
	notReady byte = 0xFF
)

// MinClock is the slowest raw SPI clock usable with the HX711. Each logical
// PD_SCK pulse costs two raw bits and the chip needs at least 20kHz.
const MinClock = 40 * physic.KiloHertz

// Profile is the timing configuration of a transfer.
type Profile struct {
	// Clock is the raw SPI clock rate.
	Clock physic.Frequency
	// Reset is how long the line is held in the reset state before the clock
	// pattern. The datasheet minimum is 60µs.
	Reset time.Duration
}

// DefaultProfile yields exactly 2 idle bytes, for an 8 byte transfer.
var DefaultProfile = Profile{
	Clock: 160 * physic.KiloHertz,
	Reset: 100 * time.Microsecond,
}

// IdleBytes returns the number of idle bytes needed to cover p.Reset at
// p.Clock. Fractions of a hertz or microsecond are rounded up.
func (p Profile) IdleBytes() int {
	return int(RequiredIdleBytes(p.units()))
}

// units returns the clock in whole Hz and the reset in whole µs, rounded up.
func (p Profile) units() (uint64, uint64) {
	hz := uint64(p.Clock / physic.Hertz)
	if p.Clock%physic.Hertz != 0 {
		hz++
	}
	us := uint64(p.Reset / time.Microsecond)
	if p.Reset%time.Microsecond != 0 {
		us++
	}
	return hz, us
}

// inRange reports whether clock times reset fits in an uint64, as
// RequiredIdleBytes requires.
func (p Profile) inRange() bool {
	hi, _ := bits.Mul64(p.units())
	return hi == 0
}

// BufferSize returns the length of a full transfer.
func (p Profile) BufferSize() int {
	return p.IdleBytes() + dataBytes
}

func (p Profile) String() string {
	return p.Clock.String() + "/" + p.Reset.String()
}

// RequiredIdleBytes returns the smallest number of bytes that, clocked out at
// clockHz with 8 bits per byte, last at least resetUs microseconds.
//
// clockHz*resetUs must fit in an uint64, which holds for any clock up to 1GHz
// with a reset up to 1s.
func RequiredIdleBytes(clockHz, resetUs uint64) uint64 {
	bits := clockHz * resetUs
	n := bits / 1000000 / 8
	if n*1000000*8 != bits {
		n++
	}
	return n
}
