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
	"io"

	"github.com/scostello/pdf-oxide-sub003/internal/filter/predict"
)

// DecodeStream reverses a filter chain using the default security limits
// and no predictor.  The first entry of filters is the outermost filter
// and is decoded first.
func DecodeStream(data []byte, filters []Name) ([]byte, error) {
	return DecodeStreamWithOptions(data, filters, nil, nil)
}

// DecodeStreamWithOptions reverses a filter chain.  After all filters have
// been applied, a predictor given in params is reversed as well.  A nil
// params applies no predictor; a nil opts selects
// [DefaultSecurityOptions].
//
// On failure the error is an [*UnsupportedFilterError], [*StreamError] or
// [*DecompressionBombError].
func DecodeStreamWithOptions(data []byte, filters []Name, params *DecodeParams, opts *SecurityOptions) ([]byte, error) {
	if opts == nil {
		opts = DefaultSecurityOptions()
	}
	compressedSize := int64(len(data))
	limit := opts.budget(compressedSize)

	out := data
	for _, name := range filters {
		if !isKnownFilter(name) {
			return nil, &UnsupportedFilterError{Name: name}
		}

		res, err := applyFilter(name, out, params, limit)
		if err != nil {
			return nil, &StreamError{Filter: name, Err: err}
		}

		// The ratio is measured against the original compressed length at
		// every stage, so that a later stage cannot launder the expansion
		// of an earlier one.
		if opts.MaxDecompressionRatio > 0 {
			ratio := float64(len(res)) / float64(max(compressedSize, 1))
			if ratio > opts.MaxDecompressionRatio {
				return nil, &DecompressionBombError{
					CompressedSize: compressedSize,
					DecodedSize:    int64(len(res)),
					MaxRatio:       opts.MaxDecompressionRatio,
				}
			}
		}
		if opts.MaxDecompressedSize > 0 && int64(len(res)) > opts.MaxDecompressedSize {
			return nil, &DecompressionBombError{
				CompressedSize: compressedSize,
				DecodedSize:    int64(len(res)),
				MaxSize:        opts.MaxDecompressedSize,
			}
		}

		out = res
	}

	if params.predictor() != 1 {
		bpc := params.BitsPerComponent
		if bpc == 0 {
			bpc = 8
		}
		pp := &predict.Params{
			Predictor:        params.Predictor,
			Colors:           max(params.Colors, 1),
			BitsPerComponent: bpc,
			Columns:          max(params.Columns, 1),
		}
		res, err := predict.Decode(out, pp)
		if err != nil {
			return nil, &StreamError{Filter: "Predictor", Err: err}
		}
		out = res
	}

	return out, nil
}

// readAllLimit drains r, stopping once limit+1 bytes have been read (for
// limit > 0).  Codec errors are passed through; running into the limit is
// not an error here, the caller detects the over-long output.
func readAllLimit(r io.Reader, limit int64) ([]byte, error) {
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	buf := &bytes.Buffer{}
	_, err := buf.ReadFrom(r)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
