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

package codec

import (
	"bytes"
	stdlzw "compress/lzw"
	"compress/zlib"
	"encoding/hex"
	"errors"
	"strings"
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

func TestIdentity(t *testing.T) {
	data := []byte("no filters, no changes")
	got, err := DecodeStream(data, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, got) {
		t.Errorf("got %q, want %q", got, data)
	}
}

func TestUnknownFilter(t *testing.T) {
	_, err := DecodeStream([]byte("x"), []Name{"Rot13Decode"})
	var ufe *UnsupportedFilterError
	if !errors.As(err, &ufe) {
		t.Fatalf("err = %v, want *UnsupportedFilterError", err)
	}
	if ufe.Name != "Rot13Decode" {
		t.Errorf("Name = %q", ufe.Name)
	}
}

// lzwLiterals encodes every input byte as its own 9-bit LZW code, plus the
// end-of-data marker.  Valid for both code-width variants as long as the
// input stays short enough that the decoder's table does not reach the
// first width boundary (253 bytes).
func lzwLiterals(data []byte) []byte {
	var buf []byte
	var acc uint32
	n := 0
	write := func(code int) {
		acc = acc<<9 | uint32(code)
		n += 9
		for n >= 8 {
			n -= 8
			buf = append(buf, byte(acc>>n))
		}
	}
	for _, c := range data {
		write(int(c))
	}
	write(257)
	if n > 0 {
		buf = append(buf, byte(acc<<(8-n)))
	}
	return buf
}

func TestSingleFilters(t *testing.T) {
	payload := []byte("Hello World!")

	type testCase struct {
		filter Name
		data   []byte
	}
	cases := []testCase{
		{FlateDecode, zlibCompress(t, payload)},
		{ASCIIHexDecode, []byte(strings.ToUpper(hex.EncodeToString(payload)) + ">")},
		{ASCII85Decode, []byte("87cURD]i,\"Ebo80~>")},
		{LZWDecode, lzwLiterals(payload)},
		{RunLengthDecode, []byte{11, 'H', 'e', 'l', 'l', 'o', ' ', 'W', 'o', 'r', 'l', 'd', '!', 128}},
	}
	for _, test := range cases {
		t.Run(string(test.filter), func(t *testing.T) {
			got, err := DecodeStream(test.data, []Name{test.filter})
			if err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff(payload, got); d != "" {
				t.Error(d)
			}
		})
	}
}

func TestFilterChain(t *testing.T) {
	payload := []byte("chained filters decode outermost first")
	data := []byte(strings.ToUpper(hex.EncodeToString(zlibCompress(t, payload))) + ">")

	got, err := DecodeStream(data, []Name{ASCIIHexDecode, FlateDecode})
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(payload, got); d != "" {
		t.Error(d)
	}
}

func TestCorruptStream(t *testing.T) {
	// Every byte opens a deflate block with the reserved BTYPE, so no
	// recovery strategy can produce even partial output at any offset.
	_, err := DecodeStream(bytes.Repeat([]byte{0x07}, 24), []Name{FlateDecode})
	var se *StreamError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StreamError", err)
	}
	if se.Filter != FlateDecode {
		t.Errorf("Filter = %q", se.Filter)
	}
}

func TestDCTPassThrough(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 1, 2, 3}
	got, err := DecodeStream(jpeg, []Name{DCTDecode})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(jpeg, got) {
		t.Error("JPEG data modified by pass-through")
	}

	_, err = DecodeStream([]byte("not a JPEG"), []Name{DCTDecode})
	var se *StreamError
	if !errors.As(err, &se) || se.Filter != DCTDecode {
		t.Errorf("err = %v, want *StreamError for DCTDecode", err)
	}
}

func TestBombRatio(t *testing.T) {
	// 1 MiB of zeros compresses to about a kilobyte, blowing way past the
	// default 100:1 ratio.
	compressed := zlibCompress(t, make([]byte, 1<<20))

	_, err := DecodeStream(compressed, []Name{FlateDecode})
	var bomb *DecompressionBombError
	if !errors.As(err, &bomb) {
		t.Fatalf("err = %v, want *DecompressionBombError", err)
	}
	if bomb.MaxRatio != 100 {
		t.Errorf("MaxRatio = %v, want 100", bomb.MaxRatio)
	}
	// the decoder must stop early instead of materializing the expansion
	if limit := 100*int64(len(compressed)) + 1; bomb.DecodedSize > limit {
		t.Errorf("DecodedSize = %d, decoder ran past the budget of %d",
			bomb.DecodedSize, limit)
	}
}

func TestBombSize(t *testing.T) {
	payload := make([]byte, 10<<10)
	opts := &SecurityOptions{MaxDecompressedSize: 1024}

	_, err := DecodeStreamWithOptions(zlibCompress(t, payload), []Name{FlateDecode}, nil, opts)
	var bomb *DecompressionBombError
	if !errors.As(err, &bomb) {
		t.Fatalf("err = %v, want *DecompressionBombError", err)
	}
	if bomb.MaxSize != 1024 {
		t.Errorf("MaxSize = %d, want 1024", bomb.MaxSize)
	}
}

func TestPredictorIntegration(t *testing.T) {
	params := &DecodeParams{Predictor: 12, Columns: 5}
	data := []byte{
		2, 10, 20, 30, 40, 50,
		2, 5, 5, 5, 5, 5,
	}
	want := []byte{10, 20, 30, 40, 50, 15, 25, 35, 45, 55}

	got, err := DecodeStreamWithOptions(data, nil, params, nil)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}
}

func TestPredictorAfterFlate(t *testing.T) {
	predicted := []byte{
		1, 1, 1, 1, // Sub row: 1, 2, 3
		2, 1, 1, 1, // Up row: 2, 3, 4
	}
	want := []byte{1, 2, 3, 2, 3, 4}
	params := &DecodeParams{Predictor: 15, Columns: 3}

	got, err := DecodeStreamWithOptions(zlibCompress(t, predicted), []Name{FlateDecode}, params, nil)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}
}

func TestLZWEarlyChangeParam(t *testing.T) {
	// compress/lzw writes classic streams; EarlyChange -1 selects that
	// variant through the pipeline.
	payload := bytes.Repeat([]byte("classic "), 400)
	buf := &bytes.Buffer{}
	lw := stdlzw.NewWriter(buf, stdlzw.MSB, 8)
	if _, err := lw.Write(payload); err != nil {
		t.Fatal(err)
	}
	if err := lw.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := DecodeStreamWithOptions(buf.Bytes(), []Name{LZWDecode},
		&DecodeParams{EarlyChange: -1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(payload, got) {
		t.Error("classic LZW round trip failed")
	}
}
