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

// Package ccittfax implements CCITT Group 3 and Group 4 fax compression
// as specified in ITU-T T.4 and T.6, compatible with the PDF
// CCITTFaxDecode filter.
package ccittfax

import "errors"

// Params holds the CCITTFaxDecode filter parameters.
type Params struct {
	// Columns is the width of the image in pixels.  A zero value selects
	// the default fax width of 1728.
	Columns int

	// Rows is the height of the image in scan lines, if known.
	Rows int

	// K selects the coding scheme: negative for pure two-dimensional
	// Group 4 (T.6), zero for one-dimensional Group 3, positive for mixed
	// Group 3 where at most K-1 two-dimensional lines follow each
	// one-dimensional line.
	K int

	// BlackIs1 selects the pixel polarity of the decoded bitmap: if true,
	// 1 bits are black; otherwise 0 bits are black (the PDF default).
	BlackIs1 bool

	// EndOfLine indicates that EOL patterns are present in (or, when
	// encoding, written to) the stream.
	EndOfLine bool

	// EncodedByteAlign indicates that each coded line starts on a byte
	// boundary.
	EncodedByteAlign bool

	// EndOfBlock indicates that the stream is terminated by an
	// end-of-block pattern (EOFB or RTC).  The decoder recognizes these
	// patterns whether or not the flag is set.
	EndOfBlock bool

	// Warn, if non-nil, receives errors from the degraded decode paths.
	// [DecodeBitmap] never fails; this hook is the only place where the
	// underlying cause surfaces.
	Warn func(error)
}

const defaultColumns = 1728

func (p *Params) withDefaults() Params {
	out := Params{}
	if p != nil {
		out = *p
	}
	if out.Columns <= 0 {
		out.Columns = defaultColumns
	}
	return out
}

func (p *Params) warn(err error) {
	if p.Warn != nil && err != nil {
		p.Warn(err)
	}
}

// rowBytes returns the length of one packed scan line in bytes.
func (p *Params) rowBytes() int {
	return (p.Columns + 7) / 8
}

var errTooManyRows = errors.New("ccittfax: more rows than allowed by Rows")
