// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hx711

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spitest"
)

var clockPattern = []byte{0x00, 0x00, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA}

func playback(r ...[]byte) *spitest.Playback {
	pb := &spitest.Playback{}
	for _, b := range r {
		pb.Ops = append(pb.Ops, conntest.IO{W: clockPattern, R: b})
	}
	return pb
}

var errBus = errors.New("bus fault")

type failPort struct {
	connectErr error
}

func (f *failPort) String() string { return "fail" }
func (f *failPort) LimitSpeed(physic.Frequency) error { return nil }
func (f *failPort) Connect(physic.Frequency, spi.Mode, int) (spi.Conn, error) {
	if f.connectErr != nil {
		return nil, f.connectErr
	}
	return &failConn{}, nil
}

type failConn struct{}

func (f *failConn) String() string { return "fail" }
func (f *failConn) Duplex() conn.Duplex { return conn.Full }
func (f *failConn) Tx(w, r []byte) error { return errBus }
func (f *failConn) TxPackets(p []spi.Packet) error { return errBus }

func TestDev_Read(t *testing.T) {
	pb := playback(response([]byte{0x00, 0x00}, spread(0x123456)))
	d, err := NewSPI(pb, nil)
	if err != nil {
		t.Fatal(err)
	}
	v, err := d.Read()
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x123456 {
		t.Errorf("Read() = 0x%08x, want 0x00123456", v)
	}
	if err := pb.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestDev_ReadNotReady(t *testing.T) {
	pb := playback(response([]byte{0x00, 0xFF}, spread(0x123456)))
	d, err := NewSPI(pb, nil)
	if err != nil {
		t.Fatal(err)
	}
	v, err := d.Read()
	if !IsNotReady(err) {
		t.Fatalf("Read() = 0x%x, %v; want NotReadyError", v, err)
	}
	if IsIntegrity(err) || IsTransport(err) {
		t.Errorf("NotReadyError classified as another kind: %v", err)
	}
	if v != 0 {
		t.Errorf("Read() returned a sample 0x%x while not ready", v)
	}
}

// A not ready echo wins over garbage in the data region.
func TestDev_ReadNotReadySkipsDecode(t *testing.T) {
	pb := playback([]byte{0x00, 0xFF, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA})
	d, err := NewSPI(pb, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Read(); !IsNotReady(err) {
		t.Fatalf("Read() = %v, want NotReadyError", err)
	}
}

func TestDev_ReadIntegrity(t *testing.T) {
	data := spread(0x0F0F0F)
	data[3] ^= 0x40
	pb := playback(response([]byte{0x00, 0x00}, data))
	d, err := NewSPI(pb, nil)
	if err != nil {
		t.Fatal(err)
	}
	v, err := d.Read()
	if !IsIntegrity(err) {
		t.Fatalf("Read() = 0x%x, %v; want IntegrityError", v, err)
	}
}

func TestDev_ReadLoopback(t *testing.T) {
	opts := DefaultOpts
	opts.SkipValidation = true
	pb := playback(clockPattern)
	d, err := NewSPI(pb, &opts)
	if err != nil {
		t.Fatal(err)
	}
	v, err := d.Read()
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x00FFFFFF {
		t.Errorf("Read() = 0x%08x, want 0x00ffffff", v)
	}
}

func TestDev_ReadFloat(t *testing.T) {
	pb := playback(
		response([]byte{0x00, 0x00}, spread(0xFFFFFF)),
		response([]byte{0x00, 0x00}, spread(0)),
		response([]byte{0xFF, 0xFF}, spread(0)),
	)
	d, err := NewSPI(pb, nil)
	if err != nil {
		t.Fatal(err)
	}
	f, err := d.ReadFloat()
	if err != nil {
		t.Fatal(err)
	}
	if want := float64(0xFFFFFF) / math.MaxUint32; f != want {
		t.Errorf("ReadFloat() = %g, want %g", f, want)
	}
	if f < 0 || f >= 1 {
		t.Errorf("ReadFloat() = %g out of [0, 1)", f)
	}
	if f, err = d.ReadFloat(); err != nil || f != 0 {
		t.Errorf("ReadFloat() = %g, %v; want 0", f, err)
	}
	if _, err = d.ReadFloat(); !IsNotReady(err) {
		t.Errorf("ReadFloat() = %v, want NotReadyError", err)
	}
	if err := pb.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestDev_ReadTransport(t *testing.T) {
	d, err := NewSPI(&failPort{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = d.Read()
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("Read() = %v, want TransportError", err)
	}
	if te.Op != "tx" || !errors.Is(err, errBus) {
		t.Errorf("TransportError = %v", te)
	}
	if IsNotReady(err) || IsIntegrity(err) {
		t.Errorf("TransportError classified as another kind: %v", err)
	}
}

func TestNewSPI(t *testing.T) {
	_, err := NewSPI(&failPort{connectErr: errBus}, nil)
	var te *TransportError
	if !errors.As(err, &te) || te.Op != "connect" {
		t.Errorf("NewSPI() = %v, want connect TransportError", err)
	}

	for _, p := range []Profile{
		{Clock: 20 * physic.KiloHertz, Reset: 100 * time.Microsecond},
		{Clock: 0, Reset: 100 * time.Microsecond},
		{Clock: 160 * physic.KiloHertz, Reset: 0},
	} {
		if _, err := NewSPI(&failPort{}, &Opts{Profile: p}); err == nil || IsTransport(err) {
			t.Errorf("NewSPI(%s) = %v, want a validation error", p, err)
		}
	}

	pb := &spitest.Playback{}
	d, err := NewSPI(pb, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s := d.String(); !strings.HasPrefix(s, "HX711{") {
		t.Errorf("String() = %q", s)
	}
	if err := d.Halt(); err != nil {
		t.Error(err)
	}
}

func TestDev_ReadCustomProfile(t *testing.T) {
	opts := DefaultOpts
	opts.Profile = Profile{Clock: 1 * physic.MegaHertz, Reset: 100 * time.Microsecond}
	idle := opts.Profile.IdleBytes()
	w := make([]byte, idle+dataBytes)
	encode(w, idle)
	pb := &spitest.Playback{}
	pb.Ops = []conntest.IO{{W: w, R: response(make([]byte, idle), spread(0x800001))}}
	d, err := NewSPI(pb, &opts)
	if err != nil {
		t.Fatal(err)
	}
	v, err := d.Read()
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x800001 {
		t.Errorf("Read() = 0x%08x, want 0x00800001", v)
	}
}

func TestDev_Debug(t *testing.T) {
	var out bytes.Buffer
	logger := zerolog.New(&out).Level(zerolog.DebugLevel)
	opts := DefaultOpts
	opts.Debug = true
	opts.Logger = &logger
	pb := playback(response([]byte{0x00, 0x00}, spread(0xABCDEF)))
	d, err := NewSPI(pb, &opts)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Read(); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`"idle_bytes":2`,
		`"buffer_size":8`,
		`"tx":"0000aaaaaaaaaaaa"`,
		`"rx":"0000`,
		`"wire":"00abcdef"`,
		`"value":11259375`,
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("debug output lacks %s:\n%s", want, out.String())
		}
	}
}

func TestDev_NoDebug(t *testing.T) {
	var out bytes.Buffer
	logger := zerolog.New(&out).Level(zerolog.DebugLevel)
	opts := DefaultOpts
	opts.Logger = &logger
	pb := playback(response([]byte{0x00, 0x00}, spread(1)))
	d, err := NewSPI(pb, &opts)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Read(); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output with Debug off:\n%s", out.String())
	}
}

// Opts built by hand keep the bit pair check.
func TestDev_ReadIntegrityCustomOpts(t *testing.T) {
	data := spread(0x0F0F0F)
	data[3] ^= 0x40
	pb := playback(response([]byte{0x00, 0x00}, data))
	d, err := NewSPI(pb, &Opts{Profile: DefaultProfile})
	if err != nil {
		t.Fatal(err)
	}
	v, err := d.Read()
	if !IsIntegrity(err) {
		t.Fatalf("Read() = 0x%x, %v; want IntegrityError", v, err)
	}
	if v != 0 {
		t.Errorf("Read() returned a sample 0x%x on a mismatched pair", v)
	}
}

func TestNewSPIOverflow(t *testing.T) {
	p := Profile{Clock: physic.GigaHertz, Reset: 10000 * time.Hour}
	if _, err := NewSPI(&failPort{}, &Opts{Profile: p}); err == nil || IsTransport(err) {
		t.Errorf("NewSPI(%s) = %v, want a range error", p, err)
	}
	p.Reset = time.Second
	if _, err := NewSPI(&failPort{}, &Opts{Profile: p}); err != nil {
		t.Errorf("NewSPI(%s) = %v", p, err)
	}
}
