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

// Package lzw decompresses the PDF variant of LZW.
//
// PDF LZW differs from GIF and TIFF in the "early change" behavior: by
// default the code width grows one code earlier than in classic LZW.  The
// primary decode path uses golang.org/x/image/tiff/lzw (which implements
// exactly this variant); a from-scratch decoder serves as fallback for
// streams the library rejects.
package lzw

import (
	"bytes"
	stdlzw "compress/lzw"
	"fmt"
	"io"

	tifflzw "golang.org/x/image/tiff/lzw"
)

const (
	clearCode = 256
	eodCode   = 257
	firstCode = 258
	maxWidth  = 12
	tableSize = 4096
)

// Decode decompresses LZW data.  earlyChange selects the PDF default code
// width behavior.  If limit is positive the decoder may stop once the
// output exceeds limit bytes; the caller is expected to reject such
// output.
func Decode(src []byte, earlyChange bool, limit int64) ([]byte, error) {
	var r io.ReadCloser
	if earlyChange {
		r = tifflzw.NewReader(bytes.NewReader(src), tifflzw.MSB, 8)
	} else {
		r = stdlzw.NewReader(bytes.NewReader(src), stdlzw.MSB, 8)
	}
	defer r.Close()

	buf := &bytes.Buffer{}
	var lr io.Reader = r
	if limit > 0 {
		lr = io.LimitReader(r, limit+1)
	}
	_, err := buf.ReadFrom(lr)
	if err == nil || buf.Len() > 0 {
		// Partial output before a decode error is kept as best-effort
		// recovery, matching the Flate filter.
		return buf.Bytes(), nil
	}

	return decodeRaw(src, earlyChange, limit)
}

// decodeRaw is a from-scratch decoder for the PDF LZW semantics: a table
// seeded with the 256 single-byte strings, Clear=256, EOD=257, first
// assignable code 258 and code widths growing from 9 to 12 bits.
func decodeRaw(src []byte, earlyChange bool, limit int64) ([]byte, error) {
	table := make([][]byte, tableSize)
	for i := 0; i < 256; i++ {
		table[i] = []byte{byte(i)}
	}

	br := &bitReader{data: src}
	out := &bytes.Buffer{}
	width := 9
	nextCode := firstCode
	var prev []byte

	for {
		if limit > 0 && int64(out.Len()) > limit {
			return out.Bytes(), nil
		}

		code, ok := br.read(width)
		if !ok {
			// end of data without an EOD marker
			return out.Bytes(), nil
		}

		switch code {
		case clearCode:
			for i := firstCode; i < nextCode; i++ {
				table[i] = nil
			}
			width = 9
			nextCode = firstCode
			prev = nil
			continue
		case eodCode:
			return out.Bytes(), nil
		}

		var cur []byte
		switch {
		case code < nextCode && table[code] != nil:
			cur = table[code]
		case code == nextCode && prev != nil:
			// the KwKwK case: the code being defined right now
			cur = append(append([]byte{}, prev...), prev[0])
		default:
			return out.Bytes(), fmt.Errorf("invalid LZW code %d", code)
		}
		out.Write(cur)

		if prev != nil && nextCode < tableSize {
			entry := make([]byte, len(prev)+1)
			copy(entry, prev)
			entry[len(prev)] = cur[0]
			table[nextCode] = entry
			nextCode++
		}
		prev = cur

		// The code width grows before the next read.  With early change
		// this happens when the next assignable code is 2^width-1, one
		// code earlier than in classic LZW.
		threshold := 1 << width
		if earlyChange {
			threshold--
		}
		if nextCode >= threshold && width < maxWidth {
			width++
		}
	}
}
