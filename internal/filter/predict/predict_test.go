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

package predict

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecode(t *testing.T) {
	type testCase struct {
		name   string
		params Params
		in     []byte
		out    []byte
	}
	cases := []testCase{
		{
			name:   "identity",
			params: Params{Predictor: 1},
			in:     []byte{1, 2, 3},
			out:    []byte{1, 2, 3},
		},
		{
			name:   "png up",
			params: Params{Predictor: 12, Colors: 1, BitsPerComponent: 8, Columns: 5},
			in: []byte{
				2, 10, 20, 30, 40, 50,
				2, 5, 5, 5, 5, 5,
			},
			out: []byte{10, 20, 30, 40, 50, 15, 25, 35, 45, 55},
		},
		{
			// For predictors below 15 the filter is fixed; the tag slot is
			// consumed but its value is ignored.
			name:   "png sub ignores tag",
			params: Params{Predictor: 11, Colors: 1, BitsPerComponent: 8, Columns: 3},
			in:     []byte{0, 1, 1, 1},
			out:    []byte{1, 2, 3},
		},
		{
			name:   "png adaptive",
			params: Params{Predictor: 15, Colors: 1, BitsPerComponent: 8, Columns: 2},
			in: []byte{
				0, 7, 9, // None
				1, 1, 1, // Sub
				2, 3, 4, // Up
				3, 2, 2, // Average
				4, 1, 1, // Paeth
			},
			out: []byte{7, 9, 1, 2, 4, 6, 4, 7, 5, 8},
		},
		{
			name:   "png sub rgb",
			params: Params{Predictor: 11, Colors: 3, BitsPerComponent: 8, Columns: 2},
			in:     []byte{1, 10, 20, 30, 1, 2, 3},
			out:    []byte{10, 20, 30, 11, 22, 33},
		},
		{
			name:   "tiff 8 bit",
			params: Params{Predictor: 2, Colors: 1, BitsPerComponent: 8, Columns: 4},
			in:     []byte{1, 1, 1, 1},
			out:    []byte{1, 2, 3, 4},
		},
		{
			name:   "tiff 8 bit rgb",
			params: Params{Predictor: 2, Colors: 3, BitsPerComponent: 8, Columns: 2},
			in:     []byte{1, 2, 3, 10, 20, 30},
			out:    []byte{1, 2, 3, 11, 22, 33},
		},
		{
			name:   "tiff 8 bit rows reset",
			params: Params{Predictor: 2, Colors: 1, BitsPerComponent: 8, Columns: 2},
			in:     []byte{1, 1, 5, 1},
			out:    []byte{1, 2, 5, 6},
		},
		{
			name:   "tiff 16 bit",
			params: Params{Predictor: 2, Colors: 1, BitsPerComponent: 16, Columns: 3},
			in:     []byte{0x01, 0x00, 0x00, 0xFF, 0xFF, 0x10},
			out:    []byte{0x01, 0x00, 0x01, 0xFF, 0x01, 0x0F},
		},
		{
			name:   "tiff 4 bit",
			params: Params{Predictor: 2, Colors: 1, BitsPerComponent: 4, Columns: 4},
			in:     []byte{0x12, 0x34},
			out:    []byte{0x13, 0x6A},
		},
		{
			name:   "tiff 1 bit",
			params: Params{Predictor: 2, Colors: 1, BitsPerComponent: 1, Columns: 8},
			in:     []byte{0xB2},
			out:    []byte{0xDC},
		},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			got, err := Decode(test.in, &test.params)
			if err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff(test.out, got); d != "" {
				t.Error(d)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	type testCase struct {
		name   string
		params Params
		in     []byte
	}
	cases := []testCase{
		{
			name:   "misaligned rows",
			params: Params{Predictor: 12, Colors: 1, BitsPerComponent: 8, Columns: 5},
			in:     make([]byte, 7),
		},
		{
			name:   "bad adaptive tag",
			params: Params{Predictor: 15, Colors: 1, BitsPerComponent: 8, Columns: 2},
			in:     []byte{9, 0, 0},
		},
		{
			name:   "bad predictor",
			params: Params{Predictor: 3, Colors: 1, BitsPerComponent: 8, Columns: 1},
			in:     []byte{0},
		},
		{
			name:   "bad bits per component",
			params: Params{Predictor: 2, Colors: 1, BitsPerComponent: 3, Columns: 1},
			in:     []byte{0},
		},
		{
			name:   "zero columns",
			params: Params{Predictor: 2, Colors: 1, BitsPerComponent: 8},
			in:     []byte{0},
		},
	}
	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			if _, err := Decode(test.in, &test.params); err == nil {
				t.Error("expected error")
			}
		})
	}
}
