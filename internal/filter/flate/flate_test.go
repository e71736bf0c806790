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

package flate

import (
	"bytes"
	stdflate "compress/flate"
	"compress/zlib"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func zlibCompress(t *testing.T, data []byte) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	w := zlib.NewWriter(buf)
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func deflateCompress(t *testing.T, data []byte) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	w, err := stdflate.NewWriter(buf, stdflate.DefaultCompression)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodeZlib(t *testing.T) {
	testCases := [][]byte{
		{},
		[]byte("Hello World!"),
		bytes.Repeat([]byte("abc"), 10000),
	}
	for i, data := range testCases {
		got, err := Decode(zlibCompress(t, data), 0)
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		if d := cmp.Diff(data, got, cmp.Comparer(bytes.Equal)); d != "" {
			t.Errorf("case %d: %s", i, d)
		}
	}
}

func TestDecodeRawDeflate(t *testing.T) {
	data := []byte("raw deflate without a zlib header")
	got, err := Decode(deflateCompress(t, data), 0)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, got) {
		t.Errorf("got %q, want %q", got, data)
	}
}

func TestDecodeTruncated(t *testing.T) {
	// Large enough that the decompressor flushes its window several times
	// before running into the truncated tail.
	data := bytes.Repeat([]byte("truncated stream content "), 10000)
	comp := zlibCompress(t, data)

	got, err := Decode(comp[:len(comp)-6], 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) == 0 {
		t.Fatal("no partial output recovered")
	}
	if !bytes.HasPrefix(data, got) {
		t.Error("partial output is not a prefix of the original data")
	}
}

func TestHeaderRepair(t *testing.T) {
	data := []byte("stream with a damaged CMF byte")
	comp := zlibCompress(t, data)
	comp[0] = comp[0]&0xf0 | 7 // invalid compression method

	got, err := tryHeaderRepair(comp, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, got) {
		t.Errorf("got %q, want %q", got, data)
	}

	got, err = Decode(comp, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, got) {
		t.Errorf("Decode: got %q, want %q", got, data)
	}
}

func TestOffsetScan(t *testing.T) {
	// A content stream buried behind 5 bytes of leading garbage can only
	// be found by the offset scan, and only because it contains PDF text
	// operators.
	content := []byte("BT /F1 12 Tf 72 720 Td (Hi) Tj ET")
	comp := append([]byte{0xde, 0xad, 0xbe, 0xef, 0x00}, deflateCompress(t, content)...)

	got, err := Decode(comp, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(content, got) {
		t.Errorf("got %q, want %q", got, content)
	}
}

func TestUndecodable(t *testing.T) {
	// 0x07 opens a deflate block with the reserved BTYPE, which every
	// inflater rejects before emitting a byte.  Since the whole input is
	// 0x07 this holds at every offset the ladder tries, so Decode must
	// report failure instead of best-effort garbage.
	_, err := Decode(bytes.Repeat([]byte{0x07}, 24), 0)
	if err == nil {
		t.Fatal("expected an error for undecodable input")
	}
}

func TestNoVerbatimFallthrough(t *testing.T) {
	// Input that no strategy can decode must fail rather than be passed
	// through as if it had been decompressed.
	junk := []byte{0x13, 0x37, 0x00, 0xff, 0x21, 0x09, 0x13, 0x37}
	got, err := Decode(junk, 0)
	if err == nil && bytes.Equal(got, junk) {
		t.Fatal("verbatim input returned as decoded output")
	}
}

func TestLimit(t *testing.T) {
	data := bytes.Repeat([]byte{0}, 1 << 20)
	got, err := Decode(zlibCompress(t, data), 1024)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) > 1025 {
		t.Errorf("limit ignored: %d bytes decoded", len(got))
	}
}
