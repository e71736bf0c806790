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
	"io"
)

const hexDigits = "0123456789abcdef"

// Encode returns a writer which hex-encodes the data written to it,
// inserting a line break after width output characters.  Close appends the
// ">" end-of-data marker.
func Encode(w io.WriteCloser, width int) io.WriteCloser {
	if width <= 0 {
		width = 79
	}
	return &writer{w: bufio.NewWriter(w), c: w, width: width}
}

type writer struct {
	w     *bufio.Writer
	c     io.Closer
	width int
	col   int
}

func (w *writer) Write(p []byte) (n int, err error) {
	for _, b := range p {
		if w.col+2 > w.width {
			if err := w.w.WriteByte('\n'); err != nil {
				return n, err
			}
			w.col = 0
		}
		if err := w.w.WriteByte(hexDigits[b>>4]); err != nil {
			return n, err
		}
		if err := w.w.WriteByte(hexDigits[b&0x0F]); err != nil {
			return n, err
		}
		w.col += 2
		n++
	}
	return n, nil
}

func (w *writer) Close() error {
	if err := w.w.WriteByte('>'); err != nil {
		return err
	}
	if err := w.w.Flush(); err != nil {
		return err
	}
	return w.c.Close()
}
