// pdf-oxide - a stream filter library for PDF processing
// Copyright (C) 2026  Sean Costello
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package ccittfax

import (
	"bufio"
	"io"
)

// Writer encodes packed 1-bit rows using CCITT fax compression.  The
// input polarity follows p.BlackIs1, matching what DecodeBitmap emits.
type Writer struct {
	p      Params
	w      *bufio.Writer
	closed bool

	lineBytes int
	line      []byte
	ref       []int // previous row as a transition list
	numRows   int

	byteVal   byte
	validBits int

	kCounter int
}

// NewWriter creates a new CCITT fax encoder with the given parameters.
func NewWriter(w io.Writer, p *Params) *Writer {
	dp := p.withDefaults()
	return &Writer{
		p:         dp,
		w:         bufio.NewWriter(w),
		lineBytes: dp.rowBytes(),
		line:      make([]byte, 0, dp.rowBytes()),
	}
}

// Write buffers pixel data and encodes every completed row.
func (w *Writer) Write(p []byte) (n int, err error) {
	for len(p) > 0 {
		k := min(w.lineBytes-len(w.line), len(p))
		w.line = append(w.line, p[:k]...)
		p = p[k:]
		n += k

		if len(w.line) > 0 && w.p.Rows > 0 && w.numRows >= w.p.Rows {
			return n, errTooManyRows
		}

		if len(w.line) == w.lineBytes {
			if err := w.writeRow(); err != nil {
				return n, err
			}
			w.numRows++
		}
	}
	return n, nil
}

// Close finalizes the stream, writing the end-of-block pattern where the
// coding scheme calls for one.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}

	if w.p.K < 0 {
		// EOFB
		if err := w.writeBits(0b000000000001_000000000001, 24); err != nil {
			return err
		}
	} else if w.p.EndOfLine {
		// RTC
		for i := 0; i < 6; i++ {
			if err := w.writeBits(eolPattern, 12); err != nil {
				return err
			}
			if w.p.K > 0 {
				if err := w.writeBits(1, 1); err != nil {
					return err
				}
			}
		}
	}

	if err := w.flushBits(); err != nil {
		return err
	}
	w.closed = true
	return nil
}

func (w *Writer) writeRow() error {
	oneD := w.p.K >= 0 && w.kCounter == 0

	if w.p.EndOfLine && w.p.K >= 0 {
		if err := w.writeBits(eolPattern, 12); err != nil {
			return err
		}
	}
	if w.p.K > 0 {
		// tag bit: 1 for a 1D line, 0 for a 2D line
		tag := uint32(0)
		if oneD {
			tag = 1
		}
		if err := w.writeBits(tag, 1); err != nil {
			return err
		}
	}

	cur := w.rowTransitions()

	var err error
	switch {
	case w.p.K < 0:
		err = w.encode2DLine(cur)
	case w.p.K == 0:
		err = w.encode1DLine(cur)
	default:
		if oneD {
			err = w.encode1DLine(cur)
			w.kCounter = w.p.K - 1
		} else {
			err = w.encode2DLine(cur)
			w.kCounter--
		}
	}
	if err != nil {
		return err
	}

	if w.p.EncodedByteAlign {
		if err := w.padBits(); err != nil {
			return err
		}
	}

	w.ref = cur
	w.line = w.line[:0]
	return nil
}

func (w *Writer) whiteBit() byte {
	if w.p.BlackIs1 {
		return 0
	}
	return 1
}

// getPixel returns the bit at column x of the buffered line.  Pixels
// outside the image are white.
func (w *Writer) getPixel(x int) byte {
	if x < 0 || x >= w.p.Columns || x/8 >= len(w.line) {
		return w.whiteBit()
	}
	return w.line[x/8] >> (7 - x%8) & 1
}

// rowTransitions converts the buffered line into the transition list
// format the fax engine works with.
func (w *Writer) rowTransitions() []int {
	var trans []int
	cur := w.whiteBit()
	for x := 0; x < w.p.Columns; x++ {
		if px := w.getPixel(x); px != cur {
			trans = append(trans, x)
			cur = px
		}
	}
	return trans
}

func (w *Writer) encode1DLine(cur []int) error {
	pos := 0
	white := true
	for _, t := range cur {
		if err := w.encodeRun(t-pos, white); err != nil {
			return err
		}
		pos = t
		white = !white
	}
	if pos < w.p.Columns {
		return w.encodeRun(w.p.Columns-pos, white)
	}
	return nil
}

func (w *Writer) encode2DLine(cur []int) error {
	cols := w.p.Columns
	ref := w.ref
	if ref == nil {
		ref = []int{} // imaginary all-white line above the first row
	}

	a0 := -1
	white := true
	idx := 0
	for a0 < cols {
		a1, a2 := cols, cols
		if idx < len(cur) {
			a1 = cur[idx]
		}
		if idx+1 < len(cur) {
			a2 = cur[idx+1]
		}
		b1, b2 := findB1B2(ref, a0, white, cols)

		switch delta := a1 - b1; {
		case b2 < a1:
			if err := w.writeBits(0b0001, 4); err != nil {
				return err
			}
			a0 = b2

		case delta >= -3 && delta <= 3:
			var code uint32
			var bits int
			switch delta {
			case 0:
				code, bits = 0b1, 1
			case 1:
				code, bits = 0b011, 3
			case 2:
				code, bits = 0b000011, 6
			case 3:
				code, bits = 0b0000011, 7
			case -1:
				code, bits = 0b010, 3
			case -2:
				code, bits = 0b000010, 6
			case -3:
				code, bits = 0b0000010, 7
			}
			if err := w.writeBits(code, bits); err != nil {
				return err
			}
			a0 = a1
			white = !white
			idx++

		default:
			if err := w.writeBits(0b001, 3); err != nil {
				return err
			}
			if err := w.encodeRun(a1-max(a0, 0), white); err != nil {
				return err
			}
			if err := w.encodeRun(a2-a1, !white); err != nil {
				return err
			}
			a0 = a2
			idx += 2
		}
	}
	return nil
}

// encodeRun emits the make-up and terminating codes for one run.
func (w *Writer) encodeRun(run int, white bool) error {
	for run >= 64 {
		c := makeupFor(run, white)
		if err := w.writeBits(uint32(c.code), int(c.bits)); err != nil {
			return err
		}
		run -= int(c.run)
	}
	var c faxCode
	if white {
		c = whiteTerm[run]
	} else {
		c = blackTerm[run]
	}
	return w.writeBits(uint32(c.code), int(c.bits))
}

func (w *Writer) writeBits(code uint32, length int) error {
	for bit := uint32(1) << (length - 1); bit > 0; bit >>= 1 {
		if code&bit != 0 {
			w.byteVal |= 1 << (7 - w.validBits)
		}
		w.validBits++

		if w.validBits == 8 {
			if err := w.w.WriteByte(w.byteVal); err != nil {
				return err
			}
			w.byteVal = 0
			w.validBits = 0
		}
	}
	return nil
}

// padBits fills the current byte with zero bits.
func (w *Writer) padBits() error {
	if w.validBits == 0 {
		return nil
	}
	if err := w.w.WriteByte(w.byteVal); err != nil {
		return err
	}
	w.byteVal = 0
	w.validBits = 0
	return nil
}

func (w *Writer) flushBits() error {
	if err := w.padBits(); err != nil {
		return err
	}
	return w.w.Flush()
}
