// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build !linux

package spidev

import (
	"errors"

	"periph.io/x/conn/v3/spi"
)

var errNotImplemented = errors.New("spidev: not implemented on this platform")

func openFd(path string) (int, error) {
	return -1, errNotImplemented
}

func dupFd(fd int) (int, error) {
	return -1, errNotImplemented
}

func closeFd(fd int) error {
	return errNotImplemented
}

func setMode(fd int, mode uint8) error {
	return errNotImplemented
}

func transfer(fd int, speedHz uint32, bits uint8, p []spi.Packet) error {
	return errNotImplemented
}
