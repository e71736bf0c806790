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

// Package codec decodes the contents of PDF stream objects.
//
// A PDF stream stores its data transformed by a chain of named filters
// (given by the /Filter entry of the stream dictionary, outermost filter
// first).  [DecodeStream] reverses such a chain:
//
//	plain, err := codec.DecodeStream(raw, []codec.Name{codec.FlateDecode})
//
// [DecodeStreamWithOptions] additionally reverses a TIFF or PNG predictor
// (from the /DecodeParms dictionary) and allows the caller to adjust the
// decompression-bomb limits.
//
// All decoders operate on in-memory buffers, keep no state between calls
// and are safe for concurrent use on independent inputs.
//
// The image-oriented filters DCTDecode, CCITTFaxDecode and JBIG2Decode are
// passed through unchanged by the generic pipeline: their payloads need
// image geometry which the filter chain does not carry, and are decoded by
// the image layer instead.  For CCITT fax data this is done by the
// [github.com/scostello/pdf-oxide-sub003/ccittfax] package.
package codec
