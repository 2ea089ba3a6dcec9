// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hx711spi is a container for the HX711 over SPI driver and its
// helpers.
//
// See the hx711 package for the driver, spidev for a raw Linux transport and
// gauge for a terminal display of readings.
package hx711spi
