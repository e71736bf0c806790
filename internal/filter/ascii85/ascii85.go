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

// Package ascii85 implements the ASCII85 (base-85) encoding used by the
// PDF ASCII85Decode filter.  Groups of five characters "!".."u" encode a
// big-endian 32-bit value emitted as four bytes; "z" is shorthand for four
// zero bytes and "~>" marks the end of the data.
package ascii85

import (
	"bufio"
	"errors"
	"io"
)

var (
	errMidGroupZ  = errors.New("z inside an ASCII85 group")
	errLoneChar   = errors.New("lone trailing character in ASCII85 data")
	errBadChar    = errors.New("invalid character in ASCII85 data")
	errBadMarker  = errors.New("invalid end marker in ASCII85 data")
	errGroupRange = errors.New("ASCII85 group value overflows 32 bits")
)

// Decode returns a reader which decodes ASCII85-encoded data.  A missing
// "~>" marker is tolerated: the end of the input terminates the data the
// same way.
func Decode(r io.Reader) io.ReadCloser {
	return &reader{r: bufio.NewReader(r)}
}

type reader struct {
	r        *bufio.Reader
	err      error
	outbuf   [4]byte
	leftover []byte
	v        uint32
	k        int
	tilde    bool
}

func (r *reader) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.err != nil && len(r.leftover) == 0 {
		return 0, r.err
	}

	if len(r.leftover) > 0 {
		n = copy(p, r.leftover)
		r.leftover = r.leftover[n:]
	}

	for n < len(p) && r.err == nil {
		c, err := r.r.ReadByte()
		if err == io.EOF {
			r.err = r.finish()
			break
		} else if err != nil {
			r.err = err
			break
		}

		// "~" can only start the end marker "~>"
		if r.tilde {
			if c != '>' {
				r.err = errBadMarker
			} else {
				r.err = r.finish()
			}
			break
		}

		switch {
		case isSpace[c]:
			// ignored

		case c >= '!' && c <= 'u':
			v := uint64(r.v)*85 + uint64(c-'!')
			if v > 0xFFFFFFFF {
				r.err = errGroupRange
				break
			}
			r.v = uint32(v)
			r.k++
			if r.k == 5 {
				r.emit(p, &n, 4)
			}

		case c == 'z':
			if r.k != 0 {
				r.err = errMidGroupZ
				break
			}
			r.v = 0
			r.k = 5
			r.emit(p, &n, 4)

		case c == '~':
			r.tilde = true

		default:
			r.err = errBadChar
		}
	}

	// a partial final group flushed by finish lands in leftover and must
	// go out before EOF is reported
	if len(r.leftover) > 0 {
		l := copy(p[n:], r.leftover)
		r.leftover = r.leftover[l:]
		n += l
	}

	if n > 0 && r.err == io.EOF {
		return n, nil
	}
	return n, r.err
}

// finish flushes a partial final group.  The missing characters are padded
// with the value 84 and only k-1 bytes are emitted; a single leftover
// character cannot carry a full byte and is an error.
func (r *reader) finish() error {
	switch r.k {
	case 0, 5:
		return io.EOF
	case 1:
		return errLoneChar
	}
	k := r.k
	for i := k; i < 5; i++ {
		v := uint64(r.v)*85 + 84
		if v > 0xFFFFFFFF {
			return errGroupRange
		}
		r.v = uint32(v)
	}
	r.outbuf[0] = byte(r.v >> 24)
	r.outbuf[1] = byte(r.v >> 16)
	r.outbuf[2] = byte(r.v >> 8)
	r.outbuf[3] = byte(r.v)
	r.leftover = r.outbuf[:k-1]
	r.v = 0
	r.k = 0
	return io.EOF
}

// emit writes count decoded bytes of the current group into p at *n,
// keeping what does not fit for the next call.
func (r *reader) emit(p []byte, n *int, count int) {
	r.outbuf[0] = byte(r.v >> 24)
	r.outbuf[1] = byte(r.v >> 16)
	r.outbuf[2] = byte(r.v >> 8)
	r.outbuf[3] = byte(r.v)
	r.v = 0
	r.k = 0

	l := copy(p[*n:], r.outbuf[:count])
	*n += l
	if l < count {
		r.leftover = r.outbuf[l:count]
	}
}

func (r *reader) Close() error {
	if r.err == nil || r.err == io.EOF {
		return nil
	}
	return r.err
}

var isSpace = [256]bool{
	0:  true,
	9:  true,
	10: true,
	12: true,
	13: true,
	32: true,
}
