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

// Package flate decompresses zlib/deflate data as found in PDF streams.
//
// Streams in the wild are frequently header-corrupt or truncated, so
// Decode runs a ladder of recovery strategies instead of a single
// decompression call.  Corrupt input may still yield partial output; what
// Decode never does is hand back the compressed input verbatim.
package flate

import (
	"bytes"
	stdflate "compress/flate"
	"compress/zlib"
	"fmt"
	"io"

	kflate "github.com/klauspost/compress/flate"
	kzlib "github.com/klauspost/compress/zlib"
)

// Decode decompresses zlib or raw deflate data.  If limit is positive the
// output may be capped at limit+1 bytes; the caller is expected to reject
// output longer than limit.
//
// Strategies are tried in order until one produces output:
// standard zlib, raw deflate, raw deflate past the 2-byte zlib header, a
// second zlib and deflate implementation, zlib after header repair, and
// finally a bounded scan for a deflate stream at a small offset.  Partial
// output before a decode error is accepted as best-effort recovery.
func Decode(src []byte, limit int64) ([]byte, error) {
	tries := []func([]byte, int64) ([]byte, error){
		tryZlib,
		tryDeflate,
		trySkipHeader,
		tryAltZlib,
		tryAltDeflate,
		tryHeaderRepair,
	}

	var zlibErr, deflateErr error
	for i, try := range tries {
		out, err := try(src, limit)
		if err == nil || len(out) > 0 {
			return out, nil
		}
		switch i {
		case 0:
			zlibErr = err
		case 1:
			deflateErr = err
		}
	}

	if out := scanOffsets(src, limit); out != nil {
		return out, nil
	}

	return nil, fmt.Errorf("flate: cannot decompress %d bytes (zlib: %v; deflate: %v)",
		len(src), zlibErr, deflateErr)
}

func tryZlib(src []byte, limit int64) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return readLimited(r, limit)
}

func tryDeflate(src []byte, limit int64) ([]byte, error) {
	r := stdflate.NewReader(bytes.NewReader(src))
	defer r.Close()
	return readLimited(r, limit)
}

func trySkipHeader(src []byte, limit int64) ([]byte, error) {
	if len(src) < 2 {
		return nil, io.ErrUnexpectedEOF
	}
	return tryDeflate(src[2:], limit)
}

func tryAltZlib(src []byte, limit int64) ([]byte, error) {
	r, err := kzlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return readLimited(r, limit)
}

func tryAltDeflate(src []byte, limit int64) ([]byte, error) {
	r := kflate.NewReader(bytes.NewReader(src))
	defer r.Close()
	return readLimited(r, limit)
}

// tryHeaderRepair rewrites the compression method nibble of the zlib CMF
// byte to 8 (deflate) and retries.  The FCHECK bits of the FLG byte are
// recomputed so the repaired header passes the zlib checksum.
func tryHeaderRepair(src []byte, limit int64) ([]byte, error) {
	if len(src) < 2 || src[0]&0x0f == 8 {
		return nil, fmt.Errorf("flate: header not repairable")
	}
	fixed := make([]byte, len(src))
	copy(fixed, src)
	fixed[0] = src[0]&0xf0 | 8
	fixed[1] = src[1] &^ 0x1f
	if rem := (uint32(fixed[0])<<8 | uint32(fixed[1])) % 31; rem != 0 {
		fixed[1] += byte(31 - rem)
	}
	return tryZlib(fixed, limit)
}

// scanOffsets looks for a raw deflate stream starting at a small offset
// into src.  Offsets 0 and 2 are covered by earlier strategies.  Because a
// deflate decode from a wrong offset can "succeed" on garbage, the result
// is accepted only when it contains a PDF text operator.
func scanOffsets(src []byte, limit int64) []byte {
	for off := 1; off <= 20 && off < len(src); off++ {
		if off == 2 {
			continue
		}
		out, err := tryDeflate(src[off:], limit)
		if err != nil && len(out) == 0 {
			continue
		}
		if looksLikeContentStream(out) {
			return out
		}
	}
	return nil
}

var contentTokens = [][]byte{
	[]byte("BT"), []byte("ET"),
	[]byte("Tj"), []byte("TJ"),
	[]byte("Tm"), []byte("Td"),
}

func looksLikeContentStream(data []byte) bool {
	for _, tok := range contentTokens {
		if bytes.Contains(data, tok) {
			return true
		}
	}
	return false
}

// readLimited drains r, capping the output at limit+1 bytes when limit is
// positive.  Output read before an error is returned alongside the error;
// the caller decides whether to keep it.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	buf := &bytes.Buffer{}
	_, err := buf.ReadFrom(r)
	return buf.Bytes(), err
}
