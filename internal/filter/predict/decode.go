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

import "fmt"

// Decode reverses the prediction described by p.  For predictor 1 the
// input is returned unchanged.
func Decode(data []byte, p *Params) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	switch {
	case p.Predictor == 1:
		return data, nil
	case p.Predictor == 2:
		return decodeTIFF(data, p)
	default:
		return decodePNG(data, p)
	}
}

// decodeTIFF undoes horizontal differencing.  Each row starts fresh; the
// first pixel of a row is stored unmodified and every later component is
// the wrapping sum of its encoded value and the component one pixel to
// the left.
func decodeTIFF(data []byte, p *Params) ([]byte, error) {
	out := make([]byte, len(data))
	copy(out, data)

	rowBytes := p.bytesPerRow()
	for start := 0; start < len(out); start += rowBytes {
		row := out[start:min(start+rowBytes, len(out))]
		switch p.BitsPerComponent {
		case 8:
			for i := p.Colors; i < len(row); i++ {
				row[i] += row[i-p.Colors]
			}
		case 16:
			stride := p.Colors * 2
			for i := stride; i+1 < len(row); i += 2 {
				v := uint16(row[i])<<8 | uint16(row[i+1])
				v += uint16(row[i-stride])<<8 | uint16(row[i-stride+1])
				row[i] = byte(v >> 8)
				row[i+1] = byte(v)
			}
		default: // 1, 2 or 4 bits per component
			undiffSubByte(row, p)
		}
	}
	return out, nil
}

// undiffSubByte handles the bit depths where components do not fall on
// byte boundaries.  Addition modulo 2^bpc reduces to XOR in the 1-bit
// case, so a single code path covers all three depths.
func undiffSubByte(row []byte, p *Params) {
	bpc := p.BitsPerComponent
	mask := byte(1<<bpc - 1)
	perByte := 8 / bpc
	componentsPerRow := p.Colors * p.Columns

	prev := make([]byte, p.Colors)
	comp := 0
	for byteIdx := range row {
		orig := row[byteIdx]
		var result byte
		for frag := 0; frag < perByte && comp < componentsPerRow; frag++ {
			shift := 8 - bpc*(frag+1)
			enc := orig >> shift & mask

			c := comp % p.Colors
			cur := enc
			if comp >= p.Colors {
				cur = (enc + prev[c]) & mask
			}
			result |= cur << shift
			prev[c] = cur
			comp++
		}
		row[byteIdx] = result
	}
}

// decodePNG undoes the PNG row filters.  Every encoded row carries a
// leading filter tag byte.  For predictors 10 to 14 the filter is fixed
// by the predictor value and the tag slot is merely consumed; predictor
// 15 uses the tag to select the filter per row.
func decodePNG(data []byte, p *Params) ([]byte, error) {
	rowSize := p.bytesPerRow() + 1
	if len(data)%rowSize != 0 {
		return nil, fmt.Errorf("predictor data not row-aligned: %d bytes for %d byte rows",
			len(data), rowSize)
	}

	bpp := p.bytesPerPixel()
	numRows := len(data) / rowSize
	out := make([]byte, 0, numRows*(rowSize-1))

	prev := make([]byte, rowSize-1)
	cur := make([]byte, rowSize-1)
	for row := 0; row < numRows; row++ {
		enc := data[row*rowSize : (row+1)*rowSize]
		filter := enc[0]
		if p.Predictor != 15 {
			filter = byte(p.Predictor - 10)
		}
		if filter > 4 {
			return nil, fmt.Errorf("invalid PNG filter type %d in row %d", enc[0], row)
		}
		enc = enc[1:]

		for i := range enc {
			var left, upLeft byte
			if i >= bpp {
				left = cur[i-bpp]
				upLeft = prev[i-bpp]
			}
			up := prev[i]

			var pred byte
			switch filter {
			case 1: // Sub
				pred = left
			case 2: // Up
				pred = up
			case 3: // Average
				pred = byte((int(left) + int(up)) / 2)
			case 4: // Paeth
				pred = paeth(left, up, upLeft)
			}
			cur[i] = enc[i] + pred
		}

		out = append(out, cur...)
		prev, cur = cur, prev
	}
	return out, nil
}

// paeth returns the operand closest to left+up-upLeft, breaking ties in
// the order left, up, upLeft.
func paeth(left, up, upLeft byte) byte {
	p := int(left) + int(up) - int(upLeft)
	pa := abs(p - int(left))
	pb := abs(p - int(up))
	pc := abs(p - int(upLeft))

	if pa <= pb && pa <= pc {
		return left
	}
	if pb <= pc {
		return up
	}
	return upLeft
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
