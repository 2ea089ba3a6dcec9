// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build linux

package spidev

import (
	"os"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
	"periph.io/x/conn/v3/spi"
)

// Values from linux/spi/spidev.h.
const (
	spiIOCWrMode   = 0x40016B01
	spiIOCMessage0 = 0x40006B00
)

// iocTransfer is struct spi_ioc_transfer.
type iocTransfer struct {
	tx             uint64
	rx             uint64
	length         uint32
	speedHz        uint32
	delayUsecs     uint16
	bitsPerWord    uint8
	csChange       uint8
	txNbits        uint8
	rxNbits        uint8
	wordDelayUsecs uint8
	pad            uint8
}

// spiIOCMessage is SPI_IOC_MESSAGE(n).
func spiIOCMessage(n int) uintptr {
	return spiIOCMessage0 | uintptr(n*int(unsafe.Sizeof(iocTransfer{})))<<16
}

func openFd(path string) (int, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC|unix.O_SYNC, 0)
	if err != nil {
		return -1, os.NewSyscallError("open", err)
	}
	return fd, nil
}

func dupFd(fd int) (int, error) {
	n, err := unix.FcntlInt(uintptr(fd), unix.F_DUPFD_CLOEXEC, 0)
	if err != nil {
		return -1, os.NewSyscallError("dup", err)
	}
	return n, nil
}

func closeFd(fd int) error {
	if err := unix.Close(fd); err != nil {
		return os.NewSyscallError("close", err)
	}
	return nil
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg)); errno != 0 {
		return os.NewSyscallError("ioctl", errno)
	}
	return nil
}

func setMode(fd int, mode uint8) error {
	return ioctl(fd, spiIOCWrMode, unsafe.Pointer(&mode))
}

func transfer(fd int, speedHz uint32, bits uint8, p []spi.Packet) error {
	x := make([]iocTransfer, len(p))
	for i := range p {
		t := &x[i]
		t.speedHz = speedHz
		t.bitsPerWord = bits
		if p[i].BitsPerWord != 0 {
			t.bitsPerWord = p[i].BitsPerWord
		}
		if p[i].KeepCS {
			t.csChange = 1
		}
		if len(p[i].W) != 0 {
			t.tx = uint64(uintptr(unsafe.Pointer(&p[i].W[0])))
			t.length = uint32(len(p[i].W))
		}
		if len(p[i].R) != 0 {
			t.rx = uint64(uintptr(unsafe.Pointer(&p[i].R[0])))
			t.length = uint32(len(p[i].R))
		}
	}
	err := ioctl(fd, spiIOCMessage(len(x)), unsafe.Pointer(&x[0]))
	runtime.KeepAlive(p)
	return err
}
