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
	"math"

	pdf "github.com/pdfdom/pdfcore"
)

// Type2 is a PDF function type 2 (exponential interpolation) function, ISO
// 32000-1 §7.10.3. It has one input and, for N==1, interpolates linearly
// (or, for other N, by a power curve) between C0 and C1.
type Type2 struct {
	XMin, XMax float64
	C0, C1     []float64
	N          float64
}

var _ pdf.Function = (*Type2)(nil)

// FunctionType implements the [pdf.Function] interface.
func (f *Type2) FunctionType() int { return 2 }

// Shape implements the [pdf.Function] interface.
func (f *Type2) Shape() (m, n int) {
	n = len(f.C0)
	if n == 0 {
		n = len(f.C1)
	}
	if n == 0 {
		n = 1
	}
	return 1, n
}

// GetDomain implements the [pdf.Function] interface.
func (f *Type2) GetDomain() []float64 {
	return []float64{f.XMin, f.XMax}
}

// Apply implements the [pdf.Function] interface.
func (f *Type2) Apply(y []float64, x ...float64) {
	_, n := f.Shape()
	xv := clipToDomain(f.GetDomain(), 0, x[0])

	c0 := f.C0
	if c0 == nil {
		c0 = make([]float64, n)
	}
	c1 := f.C1
	if c1 == nil {
		c1 = make([]float64, n)
		for i := range c1 {
			c1[i] = 1
		}
	}

	xn := math.Pow(xv, f.N)
	for i := 0; i < n; i++ {
		var c0i, c1i float64
		if i < len(c0) {
			c0i = c0[i]
		}
		if i < len(c1) {
			c1i = c1[i]
		}
		y[i] = c0i + xn*(c1i-c0i)
	}
}

// AsPDF implements the [pdf.Object] interface.
func (f *Type2) AsPDF(opt pdf.OutputOptions) pdf.Native {
	c0 := make(pdf.Array, len(f.C0))
	for i, v := range f.C0 {
		c0[i] = pdf.Real(v)
	}
	c1 := make(pdf.Array, len(f.C1))
	for i, v := range f.C1 {
		c1[i] = pdf.Real(v)
	}
	dict := pdf.Dict{
		"FunctionType": pdf.Integer(2),
		"Domain":       pdf.Array{pdf.Real(f.XMin), pdf.Real(f.XMax)},
		"N":            pdf.Real(f.N),
	}
	if len(c0) > 0 {
		dict["C0"] = c0
	}
	if len(c1) > 0 {
		dict["C1"] = c1
	}
	return dict
}
