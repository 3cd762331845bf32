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

// Package content interprets page and form-XObject content streams
// (ISO 32000-1 §7.8, §8-§9): it tokenizes the operand/operator language
// (see [scanner]), walks the resulting commands against a [graphics.State],
// and reports each text-showing operation together with the graphics
// state and resources in effect at that point.
package content
