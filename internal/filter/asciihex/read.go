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

package asciihex

import (
	"bufio"
	"fmt"
	"io"
)

// Decode decodes data that has been encoded in ASCII hexadecimal form.
// Two hex digits give one output byte; white space is ignored and ">"
// marks the end of the data.  An odd trailing digit is padded with a zero.
func Decode(r io.Reader) io.ReadCloser {
	return &reader{r: bufio.NewReader(r)}
}

type reader struct {
	r   *bufio.Reader
	err error
}

func (r *reader) Read(p []byte) (n int, err error) {
	if r.err != nil {
		return 0, r.err
	}

	readHigh := false
	var high byte
readLoop:
	for n < len(p) {
		c, err := r.r.ReadByte()
		if err != nil {
			// Some writers omit the ">" marker; treat the end of input
			// like the end of data.
			if err == io.EOF && readHigh {
				p[n] = high << 4
				n++
			}
			r.err = err
			break readLoop
		}

		var b byte

		switch c {
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			b = c - '0'
		case 'A', 'B', 'C', 'D', 'E', 'F':
			b = c - 'A' + 10
		case 'a', 'b', 'c', 'd', 'e', 'f':
			b = c - 'a' + 10

		case 0, 9, 10, 12, 13, 32: // white-space
			continue readLoop

		case '>': // end of data
			if readHigh {
				p[n] = high << 4
				n++
			}
			r.err = io.EOF
			break readLoop

		default:
			r.err = fmt.Errorf("invalid hex character %q", c)
			break readLoop
		}

		if readHigh {
			p[n] = high<<4 | b
			n++
			readHigh = false
		} else {
			high = b
			readHigh = true
		}
	}

	if n > 0 && r.err == io.EOF {
		return n, nil
	}
	return n, r.err
}

func (r *reader) Close() error {
	if r.err == nil || r.err == io.EOF {
		return nil
	}
	return r.err
}
