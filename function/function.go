// github.com/pdfdom/pdfcore - a library for reading and writing PDF files
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
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

// Package function implements the four PDF function types (ISO 32000-1
// §7.10): sampled (0), exponential interpolation (2), stitching (3), and
// PostScript calculator (4) functions. Functions are used throughout the
// object graph wherever a value needs to be computed from one or more
// inputs: Separation/DeviceN tint transforms, shading color ramps, soft
// masks' transfer functions, and halftone spot functions.
package function

import (
	"fmt"
	"math"

	pdf "github.com/pdfdom/pdfcore"
)

// isRange reports whether [x, y] is a valid, finite, non-decreasing range,
// as used for /Domain and /Range pairs throughout this package.
func isRange(x, y float64) bool {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return false
	}
	return x <= y
}

// clipToDomain clamps x into [domain[2*i], domain[2*i+1]].
func clipToDomain(domain []float64, i int, x float64) float64 {
	lo, hi := domain[2*i], domain[2*i+1]
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// interpolate maps x linearly from [xMin,xMax] to [yMin,yMax], per the
// "Interpolation Function" formula in ISO 32000-1 §7.10.2.
func interpolate(x, xMin, xMax, yMin, yMax float64) float64 {
	if xMax == xMin {
		return yMin
	}
	return yMin + (x-xMin)*(yMax-yMin)/(xMax-xMin)
}

// checkShape validates that in/out have the lengths a function's Shape
// reports, returning a descriptive error otherwise.
func checkShape(typ int, m, n, gotIn, gotOut int) error {
	if gotIn != m {
		return fmt.Errorf("function type %d: expected %d inputs, got %d", typ, m, gotIn)
	}
	if gotOut != n {
		return fmt.Errorf("function type %d: expected %d outputs, got %d", typ, n, gotOut)
	}
	return nil
}

// Multi combines several single-output functions, each evaluated against
// the same input, into one function whose outputs are their results in
// order. ISO 32000-1 §7.10.5 allows a shading's /Function entry to be
// represented this way: "an array of k 1-in, 1-out functions".
type Multi struct {
	Functions []pdf.Function
}

var _ pdf.Function = (*Multi)(nil)

// FunctionType reports -1, since a combined function has no single PDF
// /FunctionType of its own.
func (f *Multi) FunctionType() int { return -1 }

// Shape implements the function interface: m is the first sub-function's
// input count, n is the number of sub-functions (one output each).
func (f *Multi) Shape() (m, n int) {
	if len(f.Functions) == 0 {
		return 0, 0
	}
	m, _ = f.Functions[0].Shape()
	return m, len(f.Functions)
}

// GetDomain returns the first sub-function's domain.
func (f *Multi) GetDomain() []float64 {
	if len(f.Functions) == 0 {
		return nil
	}
	return f.Functions[0].GetDomain()
}

// Apply evaluates every sub-function at x and collects their single
// outputs into y.
func (f *Multi) Apply(y []float64, x ...float64) {
	out := make([]float64, 1)
	for i, fn := range f.Functions {
		fn.Apply(out, x...)
		y[i] = out[0]
	}
}

// AsPDF implements the [pdf.Object] interface, representing the combination
// as the array-of-functions form ISO 32000-1 §7.10.5 allows in place of a
// single type 0/2/3/4 function object.
func (f *Multi) AsPDF(opt pdf.OutputOptions) pdf.Native {
	arr := make(pdf.Array, len(f.Functions))
	for i, fn := range f.Functions {
		arr[i] = fn.AsPDF(opt)
	}
	return arr
}
