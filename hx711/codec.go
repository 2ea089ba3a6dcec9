// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hx711

import "encoding/binary"

// encode fills buf with idle reset bytes followed by the clock pattern.
func encode(buf []byte, idle int) {
	for i := range buf[:idle] {
		buf[i] = idlePattern
	}
	for i := idle; i < len(buf); i++ {
		buf[i] = dataPattern
	}
}

// ready reports whether the last idle byte shows DOUT low, meaning a
// conversion is waiting to be shifted out.
func ready(buf []byte, idle int) bool {
	return buf[idle-1] != notReady
}

// rawData returns the data region of buf as a big endian 48 bit value.
func rawData(buf []byte, idle int) uint64 {
	var b [8]byte
	copy(b[2:], buf[idle:idle+dataBytes])
	return binary.BigEndian.Uint64(b[:])
}

// discard2Bit keeps the first bit of every raw bit pair. The 64 bit window
// starts with 16 zero bits, so the 24 bit sample lands in the low 24 bits of
// the result.
func discard2Bit(raw uint64, validate bool) (uint32, error) {
	in := raw
	var out uint32
	for i := 0; i < 32; i++ {
		b1 := in >> 63
		b2 := (in >> 62) & 1
		if validate && b1 != b2 {
			return 0, &IntegrityError{Pair: i, Raw: raw}
		}
		out = out<<1 | uint32(b1)
		in <<= 2
	}
	return out, nil
}

// decode folds the data region of buf and returns the decoded word as it
// came off the wire and as a host order value.
func decode(buf []byte, idle int, validate bool) ([4]byte, uint32, error) {
	var wire [4]byte
	out, err := discard2Bit(rawData(buf, idle), validate)
	if err != nil {
		return wire, 0, err
	}
	binary.BigEndian.PutUint32(wire[:], out)
	return wire, binary.BigEndian.Uint32(wire[:]), nil
}
