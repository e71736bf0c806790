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

// Package predict reverses the row predictors applied to LZW and Flate
// compressed stream data.
package predict

import (
	"errors"
	"fmt"
)

const maxColumns = 1 << 20

// Params describes the predictor applied to a stream.
type Params struct {
	// Predictor selects the prediction algorithm:
	//   1: no prediction
	//   2: TIFF horizontal differencing
	//  10-14: PNG filters None, Sub, Up, Average, Paeth
	//  15: PNG with a per-row filter choice
	Predictor int

	// Colors is the number of color components per pixel.
	// Common values: 1 (grayscale), 3 (RGB), 4 (CMYK).
	Colors int

	// BitsPerComponent is the bit width of one color component.
	// Valid values: 1, 2, 4, 8, or 16.
	BitsPerComponent int

	// Columns is the width of the image in pixels.
	Columns int
}

// Validate checks that the parameters describe a usable predictor setup.
func (p *Params) Validate() error {
	if p.Predictor == 1 {
		return nil
	}

	switch {
	case p.Predictor == 2:
		if p.Colors < 1 || p.Colors > 60 {
			return errors.New("Colors must be between 1 and 60 for the TIFF predictor")
		}
	case p.Predictor >= 10 && p.Predictor <= 15:
		if p.Colors < 1 || p.Colors > 256 {
			return errors.New("Colors must be between 1 and 256 for PNG predictors")
		}
	default:
		return fmt.Errorf("Predictor must be 1, 2, or 10-15, got %d", p.Predictor)
	}

	switch p.BitsPerComponent {
	case 1, 2, 4, 8, 16:
		// ok
	default:
		return fmt.Errorf("BitsPerComponent must be 1, 2, 4, 8, or 16, got %d", p.BitsPerComponent)
	}

	maxCols := min(maxColumns, (1<<31-1)/p.bitsPerPixel())
	if p.Columns < 1 || p.Columns > maxCols {
		return errors.New("invalid Columns value")
	}

	return nil
}

func (p *Params) bitsPerPixel() int {
	return p.Colors * p.BitsPerComponent
}

func (p *Params) bytesPerRow() int {
	return (p.bitsPerPixel()*p.Columns + 7) / 8
}

func (p *Params) bytesPerPixel() int {
	return (p.bitsPerPixel() + 7) / 8
}
