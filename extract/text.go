// github.com/pdfdom/pdfcore - a library for reading and writing PDF files
// Copyright (C) 2023  Jochen Voss <voss@seehuhn.de>
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

// Package extract provides standalone helpers for pulling text out of a PDF
// font without walking a whole page's content stream, for callers that
// already know which font a string of character codes belongs to.
package extract

import (
	"github.com/pdfdom/pdfcore"
	"github.com/pdfdom/pdfcore/content"
)

// MakeTextDecoder returns a function that turns the raw character codes of
// a content-stream string operand into Unicode text, for the font at ref.
//
// A code is looked up in the font's /ToUnicode CMap (ISO 32000-1 §9.10.3),
// then by the glyph name its /Encoding /Differences array gives the code,
// and for single-byte simple fonts finally taken as a Latin-1 code point.
// Embedded glyph programs are not parsed, so a composite font code that
// neither of the first two covers decodes to the replacement character.
func MakeTextDecoder(r pdf.Getter, ref pdf.Reference) (func(pdf.String) string, error) {
	return content.DecodeFontText(r, ref)
}
