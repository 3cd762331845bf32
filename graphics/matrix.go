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

package graphics

import "math"

// Matrix represents a PDF transformation matrix (ISO 32000-1 §8.3.4),
//
//	[ a b 0 ]
//	[ c d 0 ]
//	[ e f 1 ]
//
// used to map coordinates from one space into another (user space, text
// space, image space, and so on).
type Matrix [6]float64

// IdentityMatrix is the identity transformation.
var IdentityMatrix = Matrix{1, 0, 0, 1, 0, 0}

// Mul returns the matrix product A*B, i.e. the transformation that first
// applies A and then B to a point (this is the order PDF itself uses when
// concatenating matrices with the cm operator).
func (A Matrix) Mul(B Matrix) Matrix {
	return Matrix{
		A[0]*B[0] + A[1]*B[2],
		A[0]*B[1] + A[1]*B[3],
		A[2]*B[0] + A[3]*B[2],
		A[2]*B[1] + A[3]*B[3],
		A[4]*B[0] + A[5]*B[2] + B[4],
		A[4]*B[1] + A[5]*B[3] + B[5],
	}
}

// Apply applies the matrix to the point (x, y) and returns the result.
func (A Matrix) Apply(x, y float64) (float64, float64) {
	return A[0]*x + A[2]*y + A[4], A[1]*x + A[3]*y + A[5]
}

// Inv returns the inverse of A. The result is undefined if A is singular.
func (A Matrix) Inv() Matrix {
	det := A[0]*A[3] - A[1]*A[2]
	if det == 0 {
		return IdentityMatrix
	}
	invDet := 1 / det
	a := A[3] * invDet
	b := -A[1] * invDet
	c := -A[2] * invDet
	d := A[0] * invDet
	e := -(A[4]*a + A[5]*c)
	f := -(A[4]*b + A[5]*d)
	return Matrix{a, b, c, d, e, f}
}

// Translate returns a matrix which translates by (dx, dy).
func Translate(dx, dy float64) Matrix {
	return Matrix{1, 0, 0, 1, dx, dy}
}

// Scale returns a matrix which scales the x- and y-axes by xScale and
// yScale respectively.
func Scale(xScale, yScale float64) Matrix {
	return Matrix{xScale, 0, 0, yScale, 0, 0}
}

// Rotate returns a matrix which rotates counterclockwise by angle radians.
func Rotate(angle float64) Matrix {
	s, c := math.Sin(angle), math.Cos(angle)
	return Matrix{c, s, -s, c, 0, 0}
}
