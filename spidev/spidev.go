// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package spidev

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Handle is an owned file descriptor to a spidev device.
type Handle struct {
	path string

	mu       sync.Mutex
	fd       int
	maxSpeed physic.Frequency
}

// Open opens the spidev device at path, e.g. "/dev/spidev0.0".
//
// Failures are returned as *os.SyscallError.
func Open(path string) (*Handle, error) {
	fd, err := openFd(path)
	if err != nil {
		return nil, err
	}
	return &Handle{path: path, fd: fd}, nil
}

func (h *Handle) String() string {
	return h.path
}

// Fd returns the owned descriptor, or -1 once closed or moved.
func (h *Handle) Fd() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fd
}

// Clone returns a new Handle owning a duplicate of the descriptor.
func (h *Handle) Clone() (*Handle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.fd == -1 {
		return nil, h.closedErr()
	}
	fd, err := dupFd(h.fd)
	if err != nil {
		return nil, err
	}
	return &Handle{path: h.path, fd: fd, maxSpeed: h.maxSpeed}, nil
}

// Move returns a new Handle owning the descriptor. h no longer owns anything
// and Conns connected through h stop working.
func (h *Handle) Move() *Handle {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := &Handle{path: h.path, fd: h.fd, maxSpeed: h.maxSpeed}
	h.fd = -1
	return n
}

// Close implements io.Closer.
//
// It is a no-op on a Handle that was already closed or moved.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.fd == -1 {
		return nil
	}
	fd := h.fd
	h.fd = -1
	return closeFd(fd)
}

// LimitSpeed implements spi.Port.
func (h *Handle) LimitSpeed(f physic.Frequency) error {
	if f <= 0 {
		return errors.New("spidev: invalid speed")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.maxSpeed = f
	return nil
}

// Connect implements spi.Port.
//
// It writes the SPI mode to the device. Speed and word size are sent with
// every transfer.
func (h *Handle) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	if f < physic.Hertz {
		return nil, fmt.Errorf("spidev: invalid speed %s", f)
	}
	if bits < 1 || bits > 255 {
		return nil, fmt.Errorf("spidev: invalid bits %d", bits)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.fd == -1 {
		return nil, h.closedErr()
	}
	if h.maxSpeed != 0 && f > h.maxSpeed {
		f = h.maxSpeed
	}
	if err := setMode(h.fd, modeBits(mode)); err != nil {
		return nil, err
	}
	return &Conn{h: h, f: f, mode: mode, bits: uint8(bits)}, nil
}

func (h *Handle) closedErr() error {
	return fmt.Errorf("spidev: %s: %w", h.path, os.ErrClosed)
}

// Conn is a connection to a spidev device at a fixed speed and word size.
type Conn struct {
	h    *Handle
	f    physic.Frequency
	mode spi.Mode
	bits uint8
}

func (c *Conn) String() string {
	return c.h.path
}

// Duplex implements conn.Conn.
func (c *Conn) Duplex() conn.Duplex {
	if c.mode&spi.HalfDuplex != 0 {
		return conn.Half
	}
	return conn.Full
}

// Tx implements conn.Conn. w and r may be the same slice.
func (c *Conn) Tx(w, r []byte) error {
	return c.TxPackets([]spi.Packet{{W: w, R: r}})
}

// TxPackets implements spi.Conn. All packets go out in one ioctl.
func (c *Conn) TxPackets(p []spi.Packet) error {
	if len(p) == 0 {
		return nil
	}
	if len(p) > maxPackets {
		return fmt.Errorf("spidev: %d packets, at most %d supported", len(p), maxPackets)
	}
	for i := range p {
		if len(p[i].W) != 0 && len(p[i].R) != 0 && len(p[i].W) != len(p[i].R) {
			return fmt.Errorf("spidev: packet %d has mismatched buffer lengths", i)
		}
	}
	// Close and Move wait for the ioctl to return.
	c.h.mu.Lock()
	defer c.h.mu.Unlock()
	if c.h.fd == -1 {
		return c.h.closedErr()
	}
	return doTransfer(c.h.fd, uint32(c.f/physic.Hertz), c.bits, p)
}

// modeBits converts a spi.Mode to the kernel's SPI_MODE flags.
func modeBits(m spi.Mode) uint8 {
	b := uint8(m & spi.Mode3)
	if m&spi.HalfDuplex != 0 {
		b |= spi3Wire
	}
	if m&spi.NoCS != 0 {
		b |= spiNoCS
	}
	if m&spi.LSBFirst != 0 {
		b |= spiLSBFirst
	}
	return b
}

const (
	spiLSBFirst uint8 = 0x08
	spi3Wire    uint8 = 0x10
	spiNoCS     uint8 = 0x40

	// maxPackets keeps SPI_IOC_MESSAGE's size field within its 14 bits.
	maxPackets = 511
)

// doTransfer is replaced in tests.
var doTransfer = transfer

var _ spi.PortCloser = &Handle{}
var _ spi.Conn = &Conn{}
