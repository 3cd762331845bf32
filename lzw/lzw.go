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

// Package lzw implements the LZW filter variant used by PDF's LZWDecode
// filter (ISO 32000-1 §7.4.4): 8-bit literals, a clear code (256) and an
// end-of-data code (257), MSB-first variable-width code packing starting
// at 9 bits and growing to 12, and the optional "early change" convention
// (the /EarlyChange decode parameter) under which the code width grows one
// code sooner than the TIFF variant of the algorithm does.
package lzw

const (
	clearCode  = 256
	eodCode    = 257
	firstCode  = 258
	maxWidth   = 12
	minWidth   = 9
	maxTableSz = 1 << maxWidth
)

// widthThreshold returns the next-code value at which the code width must
// grow from width to width+1. With earlyChange, the table signals this one
// code sooner, so that a decoder using the same convention switches width
// in step with the encoder instead of one code behind.
func widthThreshold(width int, earlyChange bool) int {
	n := 1 << width
	if earlyChange {
		return n - 1
	}
	return n
}
