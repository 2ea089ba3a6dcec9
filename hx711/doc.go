// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hx711 reads the 24-bit conversion result of an Avia Semiconductor
// HX711 load cell amplifier through a plain SPI controller.
//
// The HX711 does not speak SPI. It wants a PD_SCK pulse train and drives DOUT
// in response. This driver emulates that protocol with MOSI as the clock line
// and MISO as the data line: a run of idle bytes holds the line long enough to
// reset the chip, then six 0xAA bytes produce the 24 clock pulses. Every data
// bit comes back as two raw bits which are folded back into one.
//
// The driver does no polling, tare or scaling beyond normalizing to [0, 1).
// Callers retry on NotReadyError.
//
// For detailed information, refer to the [datasheet].
//
// [datasheet]: https://cdn.sparkfun.com/datasheets/Sensors/ForceFlex/hx711_english.pdf
package hx711
