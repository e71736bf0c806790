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

package lzw

// bitReader is an MSB-first cursor over a byte buffer, returning
// fixed-width integer codes of 1 to 16 bits.
type bitReader struct {
	data []byte
	pos  int
	bits uint32
	n    int
}

// read returns the next width bits as an integer.  ok is false once the
// remaining input is too short for a full code.
func (r *bitReader) read(width int) (code int, ok bool) {
	for r.n < width {
		if r.pos >= len(r.data) {
			return 0, false
		}
		r.bits = r.bits<<8 | uint32(r.data[r.pos])
		r.pos++
		r.n += 8
	}
	r.n -= width
	code = int(r.bits >> uint(r.n))
	r.bits &= 1<<uint(r.n) - 1
	return code, true
}
