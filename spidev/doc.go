// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package spidev talks to a Linux spidev character device directly through
// ioctl, without the periph host registry.
//
// A Handle owns one file descriptor. Clone duplicates the descriptor, Move
// hands ownership to a new Handle and empties the source. Every descriptor is
// closed exactly once by Close on the Handle that owns it.
//
// A Handle is a spi.PortCloser. Clones do not make concurrent transfers on the
// same device safe: they share the controller and its timing.
package spidev
