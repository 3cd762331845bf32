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

// WhitePointD65 and WhitePointD50 are the two CIE standard illuminants PDF
// color spaces commonly reference: D65 (daylight, sRGB's native white) and
// D50 (the PDF/ICC "profile connection space" white used internally below).
var (
	WhitePointD65 = [3]float64{0.9505, 1.0000, 1.0890}
	WhitePointD50 = [3]float64{0.9642, 1.0000, 0.8249}
)

// bradfordM and bradfordMInv are the Bradford chromatic-adaptation matrix
// and its inverse, the standard transform used to convert tristimulus
// values between reference whites.
var bradfordM = [3][3]float64{
	{0.8951, 0.2664, -0.1614},
	{-0.7502, 1.7135, 0.0367},
	{0.0389, -0.0685, 1.0296},
}

var bradfordMInv = [3][3]float64{
	{0.9869929, -0.1470543, 0.1599627},
	{0.4323053, 0.5183603, 0.0492912},
	{-0.0085287, 0.0400428, 0.9684867},
}

func mulMatVec(m [3][3]float64, v [3]float64) [3]float64 {
	return [3]float64{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// bradfordAdapt adapts the tristimulus coordinates (X,Y,Z) from reference
// white src to reference white dst, using the Bradford method (the
// transform recommended by ICC.1:2010 Annex E for converting a CalGray,
// CalRGB or Lab space's native white into the D50 profile connection space
// before comparing colors across spaces).
func bradfordAdapt(X, Y, Z float64, src, dst [3]float64) (float64, float64, float64) {
	cone := mulMatVec(bradfordM, [3]float64{X, Y, Z})
	srcCone := mulMatVec(bradfordM, src)
	dstCone := mulMatVec(bradfordM, dst)

	adapted := [3]float64{
		cone[0] * dstCone[0] / srcCone[0],
		cone[1] * dstCone[1] / srcCone[1],
		cone[2] * dstCone[2] / srcCone[2],
	}
	out := mulMatVec(bradfordMInv, adapted)
	return out[0], out[1], out[2]
}
