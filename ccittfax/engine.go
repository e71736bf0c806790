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
	"errors"
	"fmt"
)

// The fax engine is pure geometry: it turns the coded input into one
// transition list per scan line.  A transition list holds the positions
// where the pixel color changes, with the line starting white, so entry
// 2k is where the k-th black run starts and entry 2k+1 is where it ends.
// Polarity and bit packing are applied later.

// bitCursor is an MSB-first cursor over the coded input.  Reads past the
// end of the data see an endless run of zero bits; callers use drained to
// tell trailing padding from real content.
type bitCursor struct {
	data []byte
	pos  int // in bits
}

func (c *bitCursor) peek(n int) uint32 {
	var v uint32
	for i := 0; i < n; i++ {
		v <<= 1
		idx := (c.pos + i) / 8
		if idx < len(c.data) {
			v |= uint32(c.data[idx]>>(7-(c.pos+i)%8)) & 1
		}
	}
	return v
}

func (c *bitCursor) consume(n int) {
	c.pos += n
}

func (c *bitCursor) readBit() uint32 {
	b := c.peek(1)
	c.pos++
	return b
}

// align advances the cursor to the next byte boundary.
func (c *bitCursor) align() {
	c.pos = (c.pos + 7) &^ 7
}

// drained reports whether only zero bits remain in the input.
func (c *bitCursor) drained() bool {
	idx := c.pos / 8
	if idx >= len(c.data) {
		return true
	}
	if c.data[idx]<<(c.pos%8) != 0 {
		return false
	}
	for i := idx + 1; i < len(c.data); i++ {
		if c.data[i] != 0 {
			return false
		}
	}
	return true
}

// two-dimensional coding modes
const (
	modePass = iota
	modeHoriz
	modeVert0
	modeVertR1
	modeVertR2
	modeVertR3
	modeVertL1
	modeVertL2
	modeVertL3
	modeEOL
)

type decoder struct {
	p   Params
	cur bitCursor
}

const eolPattern = 0x001 // 000000000001

// decodeRows runs the fax engine over the whole input and returns one
// transition list per scan line.  Lines decoded before an error are
// returned alongside the error.
func decodeRows(data []byte, p Params) ([][]int, error) {
	d := &decoder{p: p, cur: bitCursor{data: data}}
	if p.K < 0 {
		return d.decodeG4()
	}
	return d.decodeG3()
}

func (d *decoder) decodeG4() ([][]int, error) {
	var rows [][]int
	ref := []int{d.p.Columns, d.p.Columns}

	for d.p.Rows <= 0 || len(rows) < d.p.Rows {
		if d.p.EncodedByteAlign {
			d.cur.align()
		}
		if d.cur.drained() {
			break
		}
		// EOFB is a pair of EOL patterns.
		if d.cur.peek(12) == eolPattern {
			d.cur.consume(12)
			if d.cur.peek(12) == eolPattern {
				d.cur.consume(12)
			}
			break
		}

		row, err := d.decodeRow2D(ref)
		if err != nil {
			return rows, err
		}
		if len(row) == 0 {
			// an immediate EOL, not an all-white row (those decode to a
			// single transition at the line width)
			break
		}
		rows = append(rows, row)
		ref = append(row, d.p.Columns, d.p.Columns)
	}
	return rows, nil
}

func (d *decoder) decodeG3() ([][]int, error) {
	var rows [][]int
	ref := []int{d.p.Columns, d.p.Columns}
	oneD := true // K > 0 streams tag every line; first line is 1D

	for d.p.Rows <= 0 || len(rows) < d.p.Rows {
		if d.p.EncodedByteAlign {
			d.cur.align()
		}

		// Skip EOL markers and the fill bits preceding them.  A second
		// consecutive EOL means the image is over (RTC).
		sawEOL := false
		for {
			if d.cur.peek(12) == eolPattern {
				d.cur.consume(12)
				if sawEOL {
					return rows, nil
				}
				sawEOL = true
				continue
			}
			if sawEOL && d.cur.peek(12) == 0 && !d.cur.drained() {
				// fill bits between EOL markers
				d.cur.consume(1)
				continue
			}
			break
		}
		if d.cur.drained() {
			break
		}

		if d.p.K > 0 {
			oneD = d.cur.readBit() == 1
		}

		var row []int
		var err error
		if d.p.K > 0 && !oneD {
			row, err = d.decodeRow2D(ref)
		} else {
			row, err = d.decodeRow1D()
		}
		if err != nil {
			return rows, err
		}
		if len(row) == 0 {
			break
		}
		rows = append(rows, row)
		ref = append(row, d.p.Columns, d.p.Columns)
	}
	return rows, nil
}

// decodeRow1D decodes one line of alternating one-dimensional run
// lengths.
func (d *decoder) decodeRow1D() ([]int, error) {
	var line []int
	pos := 0
	white := true

	// Zero-length runs are legal, so corrupt input could stall the
	// position; cap the number of runs per line.
	for ops := 0; pos < d.p.Columns; ops++ {
		if ops > 2*d.p.Columns+16 {
			return nil, errors.New("ccittfax: no progress in 1D line")
		}
		if d.cur.peek(12) == eolPattern {
			// premature end of line, the rest stays white
			break
		}
		run, err := d.readRun(white)
		if err != nil {
			return nil, err
		}
		pos = min(pos+run, d.p.Columns)
		line = append(line, pos)
		white = !white
	}
	return line, nil
}

// decodeRow2D decodes one line relative to the reference line ref.
func (d *decoder) decodeRow2D(ref []int) ([]int, error) {
	var line []int
	a0 := -1
	white := true

	// Progress is not guaranteed on corrupt input, so the number of
	// coding modes per line is capped.
	for ops := 0; a0 < d.p.Columns; ops++ {
		if ops > 2*d.p.Columns+16 {
			return nil, errors.New("ccittfax: no progress in 2D line")
		}

		mode, err := d.readMode()
		if err != nil {
			return nil, err
		}
		if mode == modeEOL {
			break
		}

		b1, b2 := findB1B2(ref, a0, white, d.p.Columns)

		switch mode {
		case modePass:
			if b2 <= a0 {
				return nil, errors.New("ccittfax: pass mode does not advance")
			}
			a0 = b2

		case modeHoriz:
			run1, err := d.readRun(white)
			if err != nil {
				return nil, err
			}
			run2, err := d.readRun(!white)
			if err != nil {
				return nil, err
			}
			start := max(a0, 0)
			t1 := min(start+run1, d.p.Columns)
			t2 := min(t1+run2, d.p.Columns)
			line = append(line, t1, t2)
			a0 = t2

		default: // vertical modes
			delta := 0
			switch mode {
			case modeVertR1:
				delta = 1
			case modeVertR2:
				delta = 2
			case modeVertR3:
				delta = 3
			case modeVertL1:
				delta = -1
			case modeVertL2:
				delta = -2
			case modeVertL3:
				delta = -3
			}
			a1 := b1 + delta
			a1 = max(a1, 0)
			if len(line) > 0 {
				a1 = max(a1, line[len(line)-1])
			}
			a1 = min(a1, d.p.Columns)
			line = append(line, a1)
			a0 = a1
			white = !white
		}
	}
	return line, nil
}

// findB1B2 locates the changing elements b1 and b2 on the reference
// line: b1 is the first transition to the right of a0 whose new color is
// opposite to the color of the current run, b2 the transition after it.
// Both default to the line width.
func findB1B2(ref []int, a0 int, white bool, columns int) (b1, b2 int) {
	i := 0
	if !white {
		i = 1
	}
	for ; i < len(ref); i += 2 {
		if ref[i] > a0 {
			b1 = min(ref[i], columns)
			b2 = columns
			if i+1 < len(ref) {
				b2 = min(ref[i+1], columns)
			}
			return b1, b2
		}
	}
	return columns, columns
}

// readMode consumes one two-dimensional coding mode.
func (d *decoder) readMode() (int, error) {
	switch {
	case d.cur.peek(1) == 0b1:
		d.cur.consume(1)
		return modeVert0, nil
	case d.cur.peek(3) == 0b011:
		d.cur.consume(3)
		return modeVertR1, nil
	case d.cur.peek(3) == 0b010:
		d.cur.consume(3)
		return modeVertL1, nil
	case d.cur.peek(3) == 0b001:
		d.cur.consume(3)
		return modeHoriz, nil
	case d.cur.peek(4) == 0b0001:
		d.cur.consume(4)
		return modePass, nil
	case d.cur.peek(6) == 0b000011:
		d.cur.consume(6)
		return modeVertR2, nil
	case d.cur.peek(6) == 0b000010:
		d.cur.consume(6)
		return modeVertL2, nil
	case d.cur.peek(7) == 0b0000011:
		d.cur.consume(7)
		return modeVertR3, nil
	case d.cur.peek(7) == 0b0000010:
		d.cur.consume(7)
		return modeVertL3, nil
	case d.cur.peek(12) == eolPattern || d.cur.drained():
		return modeEOL, nil
	}
	return 0, fmt.Errorf("ccittfax: bad 2D code %#x", d.cur.peek(7))
}

// readRun reads one complete run length, accumulating make-up codes
// until a terminating code arrives.
func (d *decoder) readRun(white bool) (int, error) {
	total := 0
	for {
		run, err := d.readRunCode(white)
		if err != nil {
			return 0, err
		}
		total += run
		if run < 64 {
			return total, nil
		}
		if total > maxMakeupRun*8 {
			return 0, errors.New("ccittfax: runaway make-up sequence")
		}
	}
}

func (d *decoder) readRunCode(white bool) (int, error) {
	tables := [][]faxCode{whiteTerm, whiteMakeup, extMakeup}
	if !white {
		tables = [][]faxCode{blackTerm, blackMakeup, extMakeup}
	}
	// The code sets are prefix-free, so comparing each candidate against
	// the next bits of input finds at most one match.
	for _, table := range tables {
		for _, c := range table {
			if d.cur.peek(int(c.bits)) == uint32(c.code) {
				d.cur.consume(int(c.bits))
				return int(c.run), nil
			}
		}
	}
	color := "white"
	if !white {
		color = "black"
	}
	return 0, fmt.Errorf("ccittfax: bad %s run code %#x", color, d.cur.peek(13))
}
