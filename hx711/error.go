// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hx711

import (
	"errors"
	"fmt"
)

// NotReadyError is returned when the HX711 had no new conversion when it was
// sampled. It is expected while polling; retry after a delay.
type NotReadyError struct{}

func (e *NotReadyError) Error() string {
	return "hx711: no data available yet"
}

// IntegrityError is returned when the two raw bits of a clocked pair
// disagree. This points at line noise or a clock/data desync, not at the chip
// being busy.
type IntegrityError struct {
	// Pair is the index of the first mismatching pair, counted from the most
	// significant raw bit of the 64 bit decode window.
	Pair int
	// Raw is the 48 bit value as received.
	Raw uint64
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("hx711: bit pair %d mismatch in raw 0x%012x", e.Pair, e.Raw)
}

// TransportError is returned when the underlying SPI operation failed. The
// device is presumed unusable.
type TransportError struct {
	// Op is the failing operation, "connect" or "tx".
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return "hx711: " + e.Op + " failed: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsNotReady reports whether err is, or wraps, a NotReadyError.
func IsNotReady(err error) bool {
	var e *NotReadyError
	return errors.As(err, &e)
}

// IsIntegrity reports whether err is, or wraps, an IntegrityError.
func IsIntegrity(err error) bool {
	var e *IntegrityError
	return errors.As(err, &e)
}

// IsTransport reports whether err is, or wraps, a TransportError.
func IsTransport(err error) bool {
	var e *TransportError
	return errors.As(err, &e)
}
