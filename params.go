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

// DecodeParams holds the entries of a stream's /DecodeParms dictionary
// which concern the generic filter pipeline.  The zero value of each field
// selects the default defined by the PDF specification.
type DecodeParams struct {
	// Predictor selects the prediction algorithm applied before
	// compression: 1 (or 0) for none, 2 for TIFF horizontal differencing,
	// 10-15 for the PNG row filters.
	Predictor int

	// Colors is the number of color components per pixel (default 1).
	Colors int

	// BitsPerComponent is the number of bits per color component
	// (default 8).
	BitsPerComponent int

	// Columns is the image width in pixels (default 1).
	Columns int

	// EarlyChange selects the LZW code-width variant.  The PDF default,
	// growing the code width one code early, applies both for the value 1
	// and for the zero value; use -1 to select the classic behavior.
	EarlyChange int
}

func (p *DecodeParams) earlyChange() bool {
	if p == nil {
		return true
	}
	return p.EarlyChange >= 0
}

func (p *DecodeParams) predictor() int {
	if p == nil {
		return 1
	}
	return max(p.Predictor, 1)
}

// SecurityOptions bounds the amount of memory a hostile stream can make
// the pipeline allocate.  Both limits are checked after every filter
// stage.  A zero or negative value disables the corresponding check; a nil
// *SecurityOptions selects [DefaultSecurityOptions].
type SecurityOptions struct {
	// MaxDecompressionRatio limits the ratio of decoded output size to
	// the original compressed input size.
	MaxDecompressionRatio float64

	// MaxDecompressedSize limits the absolute decoded size in bytes.
	MaxDecompressedSize int64
}

// DefaultSecurityOptions returns the limits used when the caller does not
// supply any: a 100:1 decompression ratio and 100 MiB of decoded data.
func DefaultSecurityOptions() *SecurityOptions {
	return &SecurityOptions{
		MaxDecompressionRatio: 100,
		MaxDecompressedSize:   100 << 20,
	}
}

// budget returns the smallest enabled output limit for an input of
// compressedSize bytes, or 0 if both checks are disabled.
func (o *SecurityOptions) budget(compressedSize int64) int64 {
	var limit int64
	if o.MaxDecompressedSize > 0 {
		limit = o.MaxDecompressedSize
	}
	if o.MaxDecompressionRatio > 0 {
		byRatio := int64(o.MaxDecompressionRatio * float64(max(compressedSize, 1)))
		if limit == 0 || byRatio < limit {
			limit = byRatio
		}
	}
	return limit
}
