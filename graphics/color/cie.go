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
	"fmt"
	"math"
)

// --- CalGray ---

type spaceCalGray struct {
	whitePoint []float64
	gamma      float64
}

func (s *spaceCalGray) Family() Family     { return FamilyCalGray }
func (s *spaceCalGray) NumComponents() int { return 1 }
func (s *spaceCalGray) Default() Color     { return colorCalGray{space: s, Value: 0} }

// CalGray builds a /CalGray color space (ISO 32000-1 §8.6.5.2): a
// CIE-referenced gray ramp with the given reference white point, optional
// XYZ black point (may be nil), and gamma exponent.
func CalGray(whitePoint [3]float64, blackPoint []float64, gamma float64) (*spaceCalGray, error) {
	if whitePoint[1] <= 0 {
		return nil, fmt.Errorf("color: CalGray white point Y must be positive")
	}
	return &spaceCalGray{whitePoint: whitePoint[:], gamma: gamma}, nil
}

// New returns the color with gray value v (0 black to 1 white) in this
// space.
func (s *spaceCalGray) New(v float64) colorCalGray {
	return colorCalGray{space: s, Value: v}
}

type colorCalGray struct {
	space *spaceCalGray
	Value float64
}

func (c colorCalGray) ColorSpace() Space { return c.space }

// ToXYZ converts to CIE XYZ in the D50 profile connection space (ISO
// 32000-1 §8.6.5.2: A = value^gamma, X=Xw*A, Y=Yw*A, Z=Zw*A, then adapted
// from this space's white point to D50).
func (c colorCalGray) ToXYZ() (X, Y, Z float64) {
	wp := c.space.whitePoint
	a := math.Pow(clamp(c.Value, 0, 1), c.space.gamma)
	X, Y, Z = wp[0]*a, wp[1]*a, wp[2]*a
	return bradfordAdapt(X, Y, Z, [3]float64{wp[0], wp[1], wp[2]}, WhitePointD50)
}

// RGBA implements the color.Color-like convenience interface the render
// target (C13) uses for display: an opaque RGBA quadruple with each value
// in [0, 0xffff], matching image/color.Color's return convention.
func (c colorCalGray) RGBA() (r, g, b, a uint32) {
	X, Y, Z := c.ToXYZ()
	rf, gf, bf := xyzToSRGB(X, Y, Z)
	return toUint32(rf), toUint32(gf), toUint32(bf), 0xffff
}

// --- CalRGB ---

type spaceCalRGB struct {
	whitePoint []float64
	gamma      []float64 // 3 entries
	matrix     []float64 // 9 entries, row-major
}

func (s *spaceCalRGB) Family() Family     { return FamilyCalRGB }
func (s *spaceCalRGB) NumComponents() int { return 3 }
func (s *spaceCalRGB) Default() Color     { return colorCalRGB{space: s, Values: [3]float64{}} }

// CalRGB builds a /CalRGB color space (ISO 32000-1 §8.6.5.3). gamma
// defaults to [1,1,1] and matrix to the identity when nil.
func CalRGB(whitePoint [3]float64, blackPoint, gamma, matrix []float64) (*spaceCalRGB, error) {
	if whitePoint[1] <= 0 {
		return nil, fmt.Errorf("color: CalRGB white point Y must be positive")
	}
	if gamma == nil {
		gamma = []float64{1, 1, 1}
	}
	if matrix == nil {
		matrix = []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	}
	if len(gamma) != 3 || len(matrix) != 9 {
		return nil, fmt.Errorf("color: CalRGB needs 3 gamma and 9 matrix values")
	}
	return &spaceCalRGB{whitePoint: whitePoint[:], gamma: gamma, matrix: matrix}, nil
}

// New returns the color with the given (R,G,B) components, each in [0,1],
// in this space.
func (s *spaceCalRGB) New(r, g, b float64) colorCalRGB {
	return colorCalRGB{space: s, Values: [3]float64{r, g, b}}
}

type colorCalRGB struct {
	space  *spaceCalRGB
	Values [3]float64
}

func (c colorCalRGB) ColorSpace() Space { return c.space }

// ToXYZ converts to D50 CIE XYZ per ISO 32000-1 §8.6.5.3: each component is
// raised to its gamma, then the three are combined through the 3x3 decoding
// matrix, then adapted from this space's white point to D50.
func (c colorCalRGB) ToXYZ() (X, Y, Z float64) {
	m := c.space.matrix
	var A, B2, C2 float64
	vals := [3]float64{clamp(c.Values[0], 0, 1), clamp(c.Values[1], 0, 1), clamp(c.Values[2], 0, 1)}
	A = math.Pow(vals[0], c.space.gamma[0])
	B2 = math.Pow(vals[1], c.space.gamma[1])
	C2 = math.Pow(vals[2], c.space.gamma[2])

	X = m[0]*A + m[3]*B2 + m[6]*C2
	Y = m[1]*A + m[4]*B2 + m[7]*C2
	Z = m[2]*A + m[5]*B2 + m[8]*C2

	wp := c.space.whitePoint
	return bradfordAdapt(X, Y, Z, [3]float64{wp[0], wp[1], wp[2]}, WhitePointD50)
}

// RGBA implements the render-target color interface.
func (c colorCalRGB) RGBA() (r, g, b, a uint32) {
	X, Y, Z := c.ToXYZ()
	rf, gf, bf := xyzToSRGB(X, Y, Z)
	return toUint32(rf), toUint32(gf), toUint32(bf), 0xffff
}

// --- Lab ---

type spaceLab struct {
	whitePoint []float64
	aRange     [2]float64
	bRange     [2]float64
}

func (s *spaceLab) Family() Family     { return FamilyLab }
func (s *spaceLab) NumComponents() int { return 3 }
func (s *spaceLab) Default() Color     { return colorLab{space: s, Values: [3]float64{0, 0, 0}} }

// Lab builds a /Lab color space (ISO 32000-1 §8.6.5.4). aRange/bRange
// default to [-100,100] when nil (the a* and b* component bounds).
func Lab(whitePoint [3]float64, blackPoint, rng []float64) (*spaceLab, error) {
	if whitePoint[1] <= 0 {
		return nil, fmt.Errorf("color: Lab white point Y must be positive")
	}
	s := &spaceLab{whitePoint: whitePoint[:], aRange: [2]float64{-100, 100}, bRange: [2]float64{-100, 100}}
	if rng != nil {
		if len(rng) != 4 {
			return nil, fmt.Errorf("color: Lab /Range needs 4 values")
		}
		s.aRange = [2]float64{rng[0], rng[1]}
		s.bRange = [2]float64{rng[2], rng[3]}
	}
	return s, nil
}

// New returns the color with the given (L*, a*, b*) components. L must be
// in [0,100]; a and b are clamped to the space's declared ranges.
func (s *spaceLab) New(l, a, b float64) (colorLab, error) {
	if l < 0 || l > 100 {
		return colorLab{}, fmt.Errorf("color: Lab L* out of range: %g", l)
	}
	return colorLab{space: s, Values: [3]float64{l, clamp(a, s.aRange[0], s.aRange[1]), clamp(b, s.bRange[0], s.bRange[1])}}, nil
}

type colorLab struct {
	space  *spaceLab
	Values [3]float64
}

func (c colorLab) ColorSpace() Space { return c.space }

func labInv(t float64) float64 {
	const delta = 6.0 / 29.0
	if t > delta {
		return t * t * t
	}
	return 3 * delta * delta * (t - 4.0/29.0)
}

// ToXYZ converts L*a*b* to D50 CIE XYZ per ISO 32000-1 §8.6.5.4 / CIE
// standard Lab->XYZ formulas, then adapts from this space's white point to
// D50.
func (c colorLab) ToXYZ() (X, Y, Z float64) {
	L, a, b := c.Values[0], c.Values[1], c.Values[2]
	fy := (L + 16) / 116
	fx := fy + a/500
	fz := fy - b/200

	wp := c.space.whitePoint
	X = wp[0] * labInv(fx)
	Y = wp[1] * labInv(fy)
	Z = wp[2] * labInv(fz)
	return bradfordAdapt(X, Y, Z, [3]float64{wp[0], wp[1], wp[2]}, WhitePointD50)
}

// RGBA implements the render-target color interface.
func (c colorLab) RGBA() (r, g, b, a uint32) {
	X, Y, Z := c.ToXYZ()
	rf, gf, bf := xyzToSRGB(X, Y, Z)
	return toUint32(rf), toUint32(gf), toUint32(bf), 0xffff
}

// --- ICCBased ---
//
// ICCBased spaces are resolved to their /Alternate (or an /N-inferred
// device space) by DecodeSpace, per ISO 32000-1 §8.6.5.5 ("if the
// conforming reader... does not understand the ICC format, it is
// permissible... to use the alternate color space instead"); this library
// does not interpret ICC profile transforms itself, so no distinct
// ICCBased Space/Color pair exists here.

// --- shared XYZ -> sRGB machinery ---

// xyzToSRGB converts D50 XYZ to linear-light sRGB primaries via a Bradford
// adaptation to D65 followed by the standard XYZ->linear-sRGB matrix, then
// applies the sRGB transfer function.
func xyzToSRGB(X, Y, Z float64) (r, g, b float64) {
	X, Y, Z = bradfordAdapt(X, Y, Z, WhitePointD50, WhitePointD65)

	rl := 3.2406*X - 1.5372*Y - 0.4986*Z
	gl := -0.9689*X + 1.8758*Y + 0.0415*Z
	bl := 0.0557*X - 0.2040*Y + 1.0570*Z

	return srgbGamma(rl), srgbGamma(gl), srgbGamma(bl)
}

func srgbGamma(v float64) float64 {
	v = clamp(v, 0, 1)
	if v <= 0.0031308 {
		return 12.92 * v
	}
	return 1.055*math.Pow(v, 1/2.4) - 0.055
}

func toUint32(v float64) uint32 {
	v = clamp(v, 0, 1)
	return uint32(math.Round(v * 65535))
}
