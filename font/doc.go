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

// Package font forms the basis of PDF font handling for a read-only
// library: it represents decoded glyphs and glyph sequences ([Glyph],
// [GlyphSeq]) and the PDF-specific layout parameters (character spacing,
// word spacing, horizontal scaling, text rise) a [Typesetter] applies on
// top of a font's own layout.
//
// Parsing the seven simple and four composite embedded font-program
// formats (Type 1, CFF, TrueType, OpenType, Type 3) is treated as an
// external collaborator: callers that need glyph outlines or metrics by
// code or by name supply a [Layouter], rather than this package reading
// font-file tables itself. Character-code decoding for both simple,
// single-byte fonts and composite, variable-width fonts is handled by the
// charcode sub-package; Unicode recovery for text extraction goes through a
// font's /ToUnicode CMap (see the content and extract packages).
package font
