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

// Type0 is a PDF function type 0 (sampled) function, ISO 32000-1 §7.10.2.
// Samples are stored as a flat array of unsigned integers of BitsPerSample
// width, indexed in row-major order over the Cartesian product of the
// input dimensions, and interpolated multilinearly between grid points.
type Type0 struct {
	Domain        []float64 // 2*m entries
	Range         []float64 // 2*n entries
	Size          []int     // m entries, number of samples per input dimension
	BitsPerSample int
	Encode        []float64 // 2*m entries, defaults to [0,Size[i]-1,...]
	Decode        []float64 // 2*n entries, defaults to Range

	// Samples holds the sample grid as read from the stream, each value
	// stored as a uint32 in [0, 2^BitsPerSample - 1] integer units; Apply
	// rescales through Decode on the fly.
	Samples []uint32
}

var _ pdf.Function = (*Type0)(nil)

// FunctionType implements the [pdf.Function] interface.
func (f *Type0) FunctionType() int { return 0 }

// Shape implements the [pdf.Function] interface.
func (f *Type0) Shape() (m, n int) {
	return len(f.Domain) / 2, len(f.Range) / 2
}

// GetDomain implements the [pdf.Function] interface.
func (f *Type0) GetDomain() []float64 { return f.Domain }

func (f *Type0) encode(i int, x float64) float64 {
	xMin, xMax := f.Domain[2*i], f.Domain[2*i+1]
	eMin, eMax := 0.0, float64(f.Size[i]-1)
	if 2*i+1 < len(f.Encode) {
		eMin, eMax = f.Encode[2*i], f.Encode[2*i+1]
	}
	e := interpolate(clipToDomain(f.Domain, i, x), xMin, xMax, eMin, eMax)
	if e < 0 {
		e = 0
	}
	if max := float64(f.Size[i] - 1); e > max {
		e = max
	}
	return e
}

// sampleAt reads one sample for output index j at the given integer grid
// coordinates (one per input dimension).
func (f *Type0) sampleAt(j int, coord []int) uint32 {
	_, n := f.Shape()
	idx := 0
	stride := 1
	for i, size := range f.Size {
		idx += coord[i] * stride
		stride *= size
	}
	pos := idx*n + j
	if pos < 0 || pos >= len(f.Samples) {
		return 0
	}
	return f.Samples[pos]
}

// Apply implements the [pdf.Function] interface. It performs multilinear
// interpolation over the 2^m corners of the grid cell containing x.
func (f *Type0) Apply(y []float64, x ...float64) {
	m, n := f.Shape()
	if m == 0 || n == 0 {
		return
	}

	e := make([]float64, m)
	lo := make([]int, m)
	frac := make([]float64, m)
	for i := 0; i < m; i++ {
		e[i] = f.encode(i, x[i])
		lo[i] = int(e[i])
		if lo[i] >= f.Size[i]-1 {
			lo[i] = maxInt(f.Size[i]-2, 0)
		}
		frac[i] = e[i] - float64(lo[i])
	}

	maxVal := float64((uint64(1) << uint(f.BitsPerSample)) - 1)

	for j := 0; j < n; j++ {
		var acc float64
		corners := 1 << uint(m)
		for c := 0; c < corners; c++ {
			weight := 1.0
			coord := make([]int, m)
			for i := 0; i < m; i++ {
				if c&(1<<uint(i)) != 0 {
					coord[i] = lo[i] + 1
					weight *= frac[i]
				} else {
					coord[i] = lo[i]
					weight *= 1 - frac[i]
				}
				if coord[i] >= f.Size[i] {
					coord[i] = f.Size[i] - 1
				}
			}
			acc += weight * float64(f.sampleAt(j, coord))
		}

		dMin, dMax := f.Range[2*j], f.Range[2*j+1]
		if 2*j+1 < len(f.Decode) {
			dMin, dMax = f.Decode[2*j], f.Decode[2*j+1]
		}
		y[j] = interpolate(acc, 0, maxVal, dMin, dMax)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// AsPDF implements the [pdf.Object] interface.
func (f *Type0) AsPDF(opt pdf.OutputOptions) pdf.Native {
	toArray := func(vs []float64) pdf.Array {
		a := make(pdf.Array, len(vs))
		for i, v := range vs {
			a[i] = pdf.Real(v)
		}
		return a
	}
	size := make(pdf.Array, len(f.Size))
	for i, s := range f.Size {
		size[i] = pdf.Integer(s)
	}
	return pdf.Dict{
		"FunctionType":  pdf.Integer(0),
		"Domain":        toArray(f.Domain),
		"Range":         toArray(f.Range),
		"Size":          size,
		"BitsPerSample": pdf.Integer(f.BitsPerSample),
	}
}
