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
	"errors"
	"fmt"
)

var errMissingSOI = errors.New("missing JPEG SOI marker")

// UnsupportedFilterError indicates a filter name outside the set defined by
// the PDF specification.
type UnsupportedFilterError struct {
	Name Name
}

func (err *UnsupportedFilterError) Error() string {
	return fmt.Sprintf("unsupported filter %q", string(err.Name))
}

// StreamError indicates that a stream's data does not conform to the named
// filter's encoding.
type StreamError struct {
	Filter Name
	Err    error
}

func (err *StreamError) Error() string {
	return string(err.Filter) + ": " + err.Err.Error()
}

func (err *StreamError) Unwrap() error {
	return err.Err
}

// DecompressionBombError indicates that decoding was aborted because the
// output grew beyond the configured limits.  Either MaxRatio or MaxSize is
// set, identifying the limit which was exceeded.
type DecompressionBombError struct {
	CompressedSize int64
	DecodedSize    int64
	MaxRatio       float64
	MaxSize        int64
}

func (err *DecompressionBombError) Error() string {
	if err.MaxRatio > 0 {
		ratio := float64(err.DecodedSize) / float64(max(err.CompressedSize, 1))
		return fmt.Sprintf(
			"decompression ratio %.1f exceeds limit %.1f (%d bytes compressed, %d decoded)",
			ratio, err.MaxRatio, err.CompressedSize, err.DecodedSize)
	}
	return fmt.Sprintf("decoded size %d exceeds limit of %d bytes",
		err.DecodedSize, err.MaxSize)
}
