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

import "fmt"

// DecodeBitmap decodes CCITT fax data into a packed 1-bit-per-pixel
// bitmap, MSB first, with every row padded to a byte boundary.
//
// DecodeBitmap never fails: a missing scanned image should degrade
// gracefully, not abort page extraction.  On corrupt input the rows
// decoded so far are kept, the remainder is filled with white, and the
// cause is reported through p.Warn.  If the first attempt yields nothing
// the decode is retried once with leading zero bytes stripped, a common
// producer artifact; if that fails too, an all-white bitmap of the
// expected size is returned.
func DecodeBitmap(data []byte, p *Params) []byte {
	dp := p.withDefaults()

	rows, err := safeDecodeRows(data, dp)
	if len(rows) == 0 {
		if trimmed := stripLeadingZeros(data); len(trimmed) < len(data) {
			var retryErr error
			rows, retryErr = safeDecodeRows(trimmed, dp)
			if err == nil {
				err = retryErr
			}
		}
	}
	dp.warn(err)

	numRows := dp.Rows
	if numRows <= 0 {
		numRows = max(len(rows), 1)
	}
	rowBytes := dp.rowBytes()

	bitmap := make([]byte, numRows*rowBytes)
	for i := 0; i < len(rows) && i < numRows; i++ {
		packRow(bitmap[i*rowBytes:(i+1)*rowBytes], rows[i], dp.Columns)
	}
	if !dp.BlackIs1 {
		// The engine marks black pixels with 1 bits; the PDF default
		// polarity is 0 for black.
		for i := range bitmap {
			bitmap[i] = ^bitmap[i]
		}
	}
	return bitmap
}

// safeDecodeRows shields the caller from panics in the fax engine, so
// that the never-fail contract of DecodeBitmap holds even for inputs
// that hit a bug.
func safeDecodeRows(data []byte, p Params) (rows [][]int, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("ccittfax: decoder panic: %v", r)
		}
	}()
	return decodeRows(data, p)
}

func stripLeadingZeros(data []byte) []byte {
	i := 0
	for i < len(data) && data[i] == 0 {
		i++
	}
	return data[i:]
}

// packRow flood-fills the black runs described by a transition list into
// one packed row.  A trailing black run is extended to the image width.
func packRow(row []byte, transitions []int, columns int) {
	pos := 0
	white := true
	for _, t := range transitions {
		t = min(t, columns)
		if !white {
			setBits(row, pos, t)
		}
		pos = t
		white = !white
	}
	if !white && pos < columns {
		setBits(row, pos, columns)
	}
}

// setBits sets the bits from start (included) to end (excluded), MSB
// first.
func setBits(row []byte, start, end int) {
	for pos := max(start, 0); pos < end; pos++ {
		row[pos/8] |= 1 << (7 - pos%8)
	}
}

// ExpandGray converts a packed bitmap to 8-bit grayscale, one byte per
// pixel including the row padding bits.  Set bits are taken to be black
// (0x00), cleared bits white (0xFF), matching a bitmap decoded with
// BlackIs1 set.
func ExpandGray(bitmap []byte) []byte {
	out := make([]byte, len(bitmap)*8)
	for i, b := range bitmap {
		for j := 0; j < 8; j++ {
			if b&(0x80>>j) == 0 {
				out[i*8+j] = 0xFF
			}
		}
	}
	return out
}
