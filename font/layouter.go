// github.com/pdfdom/pdfcore - a library for reading and writing PDF files
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>
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

package font

// Layouter is implemented by a font that can turn a run of text into a
// sequence of glyphs at a given point size. Parsing the underlying font
// program (the glyph outlines and metrics themselves) is outside this
// library's scope; a Layouter is the collaborator that supplies them.
type Layouter interface {
	// Layout appends the glyphs for text, shaped at the given point size,
	// to seq.
	Layout(seq *GlyphSeq, ptSize float64, text string)
}
