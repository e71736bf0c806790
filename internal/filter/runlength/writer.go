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

package runlength

import "io"

// Encode returns a new WriteCloser which encodes data in run-length
// format.  The returned WriteCloser must be closed to flush all data and
// to write the end-of-data marker.
func Encode(w io.WriteCloser) io.WriteCloser {
	return &rlWriter{w: w}
}

type rlWriter struct {
	w       io.WriteCloser
	buf     [129]byte // buf[0] is reserved for the length byte
	lit     int       // pending literal bytes in buf[1:]
	runLen  int       // pending repeat count
	runByte byte
}

// Write implements the io.Writer interface.
func (w *rlWriter) Write(p []byte) (n int, err error) {
	for n < len(p) {
		b := p[n]

		if w.runLen > 0 {
			if b == w.runByte && w.runLen < 128 {
				w.runLen++
				n++
				continue
			}
			if err := w.flushRun(); err != nil {
				return n, err
			}
		}

		w.lit++
		w.buf[w.lit] = b
		n++

		// Turn a trailing triple into a repeat run.
		if w.lit >= 3 && b == w.buf[w.lit-1] && b == w.buf[w.lit-2] {
			if w.lit > 3 {
				if err := w.flushLiteral(w.lit - 3); err != nil {
					return n, err
				}
			}
			w.lit = 0
			w.runLen = 3
			w.runByte = b
			continue
		}

		if w.lit == 128 {
			if err := w.flushLiteral(128); err != nil {
				return n, err
			}
		}
	}

	return n, nil
}

func (w *rlWriter) flushLiteral(count int) error {
	w.buf[0] = byte(count - 1)
	_, err := w.w.Write(w.buf[:count+1])
	w.lit = 0
	return err
}

func (w *rlWriter) flushRun() error {
	w.buf[0] = byte(257 - w.runLen)
	w.buf[1] = w.runByte
	_, err := w.w.Write(w.buf[:2])
	w.runLen = 0
	return err
}

// Close flushes pending runs, writes the EOD marker and closes the
// underlying writer.
func (w *rlWriter) Close() error {
	if w.runLen > 0 {
		if err := w.flushRun(); err != nil {
			return err
		}
	}
	if w.lit > 0 {
		if err := w.flushLiteral(w.lit); err != nil {
			return err
		}
	}

	w.buf[0] = 128
	if _, err := w.w.Write(w.buf[:1]); err != nil {
		return err
	}
	return w.w.Close()
}
