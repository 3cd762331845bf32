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

package color

import (
	"math"
	"testing"

	pdf "github.com/pdfdom/pdfcore"
)

func TestDecodeDeviceSpaces(t *testing.T) {
	cases := []struct {
		obj  pdf.Object
		want Family
	}{
		{pdf.Name("DeviceGray"), FamilyDeviceGray},
		{pdf.Name("DeviceRGB"), FamilyDeviceRGB},
		{pdf.Name("DeviceCMYK"), FamilyDeviceCMYK},
	}
	for _, c := range cases {
		s, err := DecodeSpace(nil, c.obj)
		if err != nil {
			t.Fatalf("DecodeSpace(%v): %v", c.obj, err)
		}
		if s.Family() != c.want {
			t.Errorf("DecodeSpace(%v).Family() = %v, want %v", c.obj, s.Family(), c.want)
		}
	}
}

func TestDecodeCalGray(t *testing.T) {
	dict := pdf.Dict{
		"WhitePoint": pdf.Array{pdf.Real(0.9505), pdf.Real(1.0), pdf.Real(1.089)},
		"Gamma":      pdf.Real(2.2),
	}
	arr := pdf.Array{pdf.Name("CalGray"), dict}
	s, err := DecodeSpace(nil, arr)
	if err != nil {
		t.Fatal(err)
	}
	if s.Family() != FamilyCalGray {
		t.Errorf("Family() = %v, want CalGray", s.Family())
	}
	cg := s.(*spaceCalGray)
	if cg.gamma != 2.2 {
		t.Errorf("gamma = %v, want 2.2", cg.gamma)
	}
}

func TestDeviceColorComponents(t *testing.T) {
	c := DeviceRGB(0.2, 0.4, 0.6)
	vals, name, err := Operator(c)
	if err != nil {
		t.Fatal(err)
	}
	if name != "" {
		t.Errorf("name = %q, want empty", name)
	}
	want := []float64{0.2, 0.4, 0.6}
	for i, v := range want {
		if vals[i] != v {
			t.Errorf("vals[%d] = %v, want %v", i, vals[i], v)
		}
	}
}

func TestIndexedResolve(t *testing.T) {
	base := DeviceRGBSpace
	lookup := [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	space := Indexed(base, lookup)
	idx := space.Default()
	resolved, err := idx.(indexedColor).Resolve()
	if err != nil {
		t.Fatal(err)
	}
	vals, _, _ := Operator(resolved)
	if vals[0] != 1 || vals[1] != 0 || vals[2] != 0 {
		t.Errorf("resolved index 0 = %v, want [1 0 0]", vals)
	}
}

func TestSeparationFallback(t *testing.T) {
	space := Separation("Spot", DeviceGraySpace, nil)
	c := ciColor{space: space, values: []float64{0.3}}
	resolved, err := c.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	vals, _, _ := Operator(resolved)
	if math.Abs(vals[0]-0.7) > 1e-9 {
		t.Errorf("fallback gray = %v, want 0.7", vals[0])
	}
}
