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
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecode(t *testing.T) {
	type testCase struct {
		in  string
		out []byte
	}
	cases := []testCase{
		{"414243>", []byte("ABC")},
		{"41 42\r\n43>", []byte("ABC")},
		{"414243", []byte("ABC")},
		{"4142434>", []byte("ABC@")}, // odd digit padded with 0
		{"4142434", []byte("ABC@")},
		{">", nil},
		{"", nil},
		{"000ff0ff>", []byte{0x00, 0x0F, 0xF0, 0xFF}},
	}
	for i, test := range cases {
		t.Run(fmt.Sprintf("%d", i+1), func(t *testing.T) {
			got, err := io.ReadAll(Decode(strings.NewReader(test.in)))
			if err != nil {
				t.Fatalf("Decode(%q): %v", test.in, err)
			}
			if d := cmp.Diff(test.out, got, cmp.Comparer(bytes.Equal)); d != "" {
				t.Errorf("Decode(%q): %s", test.in, d)
			}
		})
	}
}

func TestDecodeInvalid(t *testing.T) {
	for _, in := range []string{"41g2>", "4-43>", "41.>"} {
		_, err := io.ReadAll(Decode(strings.NewReader(in)))
		if err == nil {
			t.Errorf("Decode(%q): expected error", in)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte("ABC"),
		[]byte{0x00, 0xFF, 0x7F, 0x80},
		bytes.Repeat([]byte{0xA5, 0x00}, 200), // forces line breaks
	}
	for i, data := range cases {
		buf := &bytes.Buffer{}
		enc := Encode(withDummyClose{buf}, 79)
		if _, err := enc.Write(data); err != nil {
			t.Fatalf("case %d: write: %v", i, err)
		}
		if err := enc.Close(); err != nil {
			t.Fatalf("case %d: close: %v", i, err)
		}

		got, err := io.ReadAll(Decode(buf))
		if err != nil {
			t.Fatalf("case %d: decode: %v", i, err)
		}
		if !bytes.Equal(data, got) {
			t.Errorf("case %d: got %x, want %x", i, got, data)
		}
	}
}

type withDummyClose struct {
	io.Writer
}

func (w withDummyClose) Close() error { return nil }
