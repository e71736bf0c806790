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

	"github.com/scostello/pdf-oxide-sub003/internal/filter/ascii85"
	"github.com/scostello/pdf-oxide-sub003/internal/filter/asciihex"
	"github.com/scostello/pdf-oxide-sub003/internal/filter/flate"
	"github.com/scostello/pdf-oxide-sub003/internal/filter/lzw"
	"github.com/scostello/pdf-oxide-sub003/internal/filter/runlength"
)

// Name identifies a PDF stream filter.
type Name string

// The filters defined by the PDF specification which this package knows
// about.  Any other name makes the pipeline fail with
// [*UnsupportedFilterError].
const (
	FlateDecode     Name = "FlateDecode"
	ASCIIHexDecode  Name = "ASCIIHexDecode"
	ASCII85Decode   Name = "ASCII85Decode"
	LZWDecode       Name = "LZWDecode"
	RunLengthDecode Name = "RunLengthDecode"
	DCTDecode       Name = "DCTDecode"
	CCITTFaxDecode  Name = "CCITTFaxDecode"
	JBIG2Decode     Name = "JBIG2Decode"
)

var jpegSOI = []byte{0xFF, 0xD8}

// applyFilter reverses a single filter.  limit is the number of output
// bytes after which a decoder may stop early (0 means unlimited); the
// caller turns over-long output into a bomb error.
func applyFilter(name Name, data []byte, params *DecodeParams, limit int64) ([]byte, error) {
	switch name {
	case FlateDecode:
		return flate.Decode(data, limit)

	case LZWDecode:
		return lzw.Decode(data, params.earlyChange(), limit)

	case ASCIIHexDecode:
		return readAllLimit(asciihex.Decode(bytes.NewReader(data)), limit)

	case ASCII85Decode:
		return readAllLimit(ascii85.Decode(bytes.NewReader(data)), limit)

	case RunLengthDecode:
		return readAllLimit(runlength.Decode(bytes.NewReader(data)), limit)

	case DCTDecode:
		// JPEG data is handed to the image layer undecoded.
		if !bytes.HasPrefix(data, jpegSOI) {
			return nil, errMissingSOI
		}
		return data, nil

	case CCITTFaxDecode, JBIG2Decode:
		// Decoded by the image layer, which has the required geometry.
		return data, nil
	}
	return nil, &UnsupportedFilterError{Name: name}
}

func isKnownFilter(name Name) bool {
	switch name {
	case FlateDecode, ASCIIHexDecode, ASCII85Decode, LZWDecode,
		RunLengthDecode, DCTDecode, CCITTFaxDecode, JBIG2Decode:
		return true
	}
	return false
}
