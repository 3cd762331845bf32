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

package function

import (
	pdf "github.com/pdfdom/pdfcore"
)

// Type3 is a PDF function type 3 (stitching) function, ISO 32000-1 §7.10.4.
// It partitions its single input's domain into subdomains, one per entry of
// Functions, and dispatches to whichever subdomain contains the input.
type Type3 struct {
	XMin, XMax float64
	Functions  []pdf.Function
	Bounds     []float64
	Encode     []float64
}

var _ pdf.Function = (*Type3)(nil)

// FunctionType implements the [pdf.Function] interface.
func (f *Type3) FunctionType() int { return 3 }

// Shape implements the [pdf.Function] interface.
func (f *Type3) Shape() (m, n int) {
	if len(f.Functions) == 0 {
		return 1, 0
	}
	_, n = f.Functions[0].Shape()
	return 1, n
}

// GetDomain implements the [pdf.Function] interface.
func (f *Type3) GetDomain() []float64 {
	return []float64{f.XMin, f.XMax}
}

// findSubdomain returns the index of the Functions entry responsible for x,
// together with the [a,b] subdomain boundaries used to encode x before
// calling it. Per ISO 32000-1 §7.10.4, each subdomain k is closed on the
// left except the first (which includes XMin) and is always closed on the
// right for the very last subdomain; all the boundaries in between are
// shared and belong to the function that follows them, except for the
// degenerate case where a bound coincides with XMin, which is kept as its
// own single-point subdomain.
func (f *Type3) findSubdomain(x float64) (k int, a, b float64) {
	k0 := len(f.Functions)
	if k0 == 0 {
		return 0, f.XMin, f.XMax
	}
	if k0 == 1 {
		return 0, f.XMin, f.XMax
	}

	lo := f.XMin
	for i := 0; i < len(f.Bounds); i++ {
		hi := f.Bounds[i]
		if lo == hi {
			// Degenerate subdomain: a single point, closed on both sides.
			if x <= lo {
				return i, lo, hi
			}
			lo = hi
			continue
		}
		if x < hi || (x == hi && i == len(f.Bounds)-1 && hi == f.XMax) {
			return i, lo, hi
		}
		lo = hi
	}
	return k0 - 1, lo, f.XMax
}

// Apply implements the [pdf.Function] interface.
func (f *Type3) Apply(y []float64, x ...float64) {
	if len(f.Functions) == 0 {
		return
	}
	xv := clipToDomain(f.GetDomain(), 0, x[0])
	k, a, b := f.findSubdomain(xv)

	e0, e1 := 0.0, 1.0
	if 2*k+1 < len(f.Encode) {
		e0, e1 = f.Encode[2*k], f.Encode[2*k+1]
	}
	xe := interpolate(xv, a, b, e0, e1)

	f.Functions[k].Apply(y, xe)
}

// AsPDF implements the [pdf.Object] interface.
func (f *Type3) AsPDF(opt pdf.OutputOptions) pdf.Native {
	funcs := make(pdf.Array, len(f.Functions))
	for i, fn := range f.Functions {
		funcs[i] = fn.AsPDF(opt)
	}
	bounds := make(pdf.Array, len(f.Bounds))
	for i, v := range f.Bounds {
		bounds[i] = pdf.Real(v)
	}
	encode := make(pdf.Array, len(f.Encode))
	for i, v := range f.Encode {
		encode[i] = pdf.Real(v)
	}
	return pdf.Dict{
		"FunctionType": pdf.Integer(3),
		"Domain":       pdf.Array{pdf.Real(f.XMin), pdf.Real(f.XMax)},
		"Functions":    funcs,
		"Bounds":       bounds,
		"Encode":       encode,
	}
}
