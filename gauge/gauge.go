// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gauge draws a normalized reading as a horizontal bar on the
// terminal using ANSI color codes.
//
// Handy to watch a load cell settle while calibrating by hand.
package gauge

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// Opts represents the options available for the gauge.
type Opts struct {
	// Width is the number of cells in the bar. Default is 40.
	Width int
	// Palette defaults to ansi256.Default.
	Palette *ansi256.Palette
	// W defaults to a colorable stdout.
	W io.Writer

	_ struct{}
}

// Dev is a bar gauge that redraws in place on the console.
type Dev struct {
	w       io.Writer
	width   int
	palette ansi256.Palette

	buf bytes.Buffer
}

var empty = color.NRGBA{A: 255}

// New returns a Dev that draws at the console.
func New(opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	width := opts.Width
	if width <= 0 {
		width = 40
	}
	return &Dev{w: w, width: width, palette: *p}
}

func (d *Dev) String() string {
	return "Gauge"
}

// Halt implements conn.Resource.
//
// It resets the terminal colors and moves to the next line.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Show redraws the bar for v, clamped to [0, 1]. Filled cells go from green
// to red.
func (d *Dev) Show(v float64) error {
	if math.IsNaN(v) || v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	filled := int(math.Round(v * float64(d.width)))
	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m")
	for i := 0; i < d.width; i++ {
		c := empty
		if i < filled {
			c = cell(i, d.width)
		}
		_, _ = io.WriteString(&d.buf, d.palette.Block(c))
	}
	_, _ = fmt.Fprintf(&d.buf, "\033[0m %6.2f%%", v*100)
	_, err := d.buf.WriteTo(d.w)
	return err
}

// cell returns the color of filled cell i out of n.
func cell(i, n int) color.NRGBA {
	r := byte(255 * i / n)
	return color.NRGBA{R: r, G: 255 - r, A: 255}
}
