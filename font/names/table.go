// github.com/pdfdom/pdfcore - a library for reading and writing PDF files
// Copyright (C) 2021  Jochen Voss <voss@seehuhn.de>
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

package names

// standardNames holds the common entries of the Adobe Glyph List: the ASCII
// printable range plus a handful of frequently-differenced accented Latin
// letters. Names outside this table still resolve via the "uniXXXX"/"uXXXXXX"
// convention in decodeUniName; the full ~4,300-entry published list is not
// reproduced here (see DESIGN.md).
var standardNames = map[string]rune{
	"space": 0x0020, "exclam": 0x0021, "quotedbl": 0x0022, "numbersign": 0x0023,
	"dollar": 0x0024, "percent": 0x0025, "ampersand": 0x0026, "quotesingle": 0x0027,
	"parenleft": 0x0028, "parenright": 0x0029, "asterisk": 0x002A, "plus": 0x002B,
	"comma": 0x002C, "hyphen": 0x002D, "period": 0x002E, "slash": 0x002F,
	"zero": 0x0030, "one": 0x0031, "two": 0x0032, "three": 0x0033, "four": 0x0034,
	"five": 0x0035, "six": 0x0036, "seven": 0x0037, "eight": 0x0038, "nine": 0x0039,
	"colon": 0x003A, "semicolon": 0x003B, "less": 0x003C, "equal": 0x003D,
	"greater": 0x003E, "question": 0x003F, "at": 0x0040,
	"A": 0x0041, "B": 0x0042, "C": 0x0043, "D": 0x0044, "E": 0x0045, "F": 0x0046,
	"G": 0x0047, "H": 0x0048, "I": 0x0049, "J": 0x004A, "K": 0x004B, "L": 0x004C,
	"M": 0x004D, "N": 0x004E, "O": 0x004F, "P": 0x0050, "Q": 0x0051, "R": 0x0052,
	"S": 0x0053, "T": 0x0054, "U": 0x0055, "V": 0x0056, "W": 0x0057, "X": 0x0058,
	"Y": 0x0059, "Z": 0x005A,
	"bracketleft": 0x005B, "backslash": 0x005C, "bracketright": 0x005D,
	"asciicircum": 0x005E, "underscore": 0x005F, "grave": 0x0060,
	"a": 0x0061, "b": 0x0062, "c": 0x0063, "d": 0x0064, "e": 0x0065, "f": 0x0066,
	"g": 0x0067, "h": 0x0068, "i": 0x0069, "j": 0x006A, "k": 0x006B, "l": 0x006C,
	"m": 0x006D, "n": 0x006E, "o": 0x006F, "p": 0x0070, "q": 0x0071, "r": 0x0072,
	"s": 0x0073, "t": 0x0074, "u": 0x0075, "v": 0x0076, "w": 0x0077, "x": 0x0078,
	"y": 0x0079, "z": 0x007A,
	"braceleft": 0x007B, "bar": 0x007C, "braceright": 0x007D, "asciitilde": 0x007E,

	// frequently-differenced accented Latin letters and oldstyle/small-cap
	// variants seen in real PDF /Differences arrays.
	"Lcommaaccent": 0x013B, "lcommaaccent": 0x013C,
	"Ogoneksmall":  0xF6FB,
	"Adieresis":    0x00C4, "adieresis": 0x00E4,
	"Odieresis": 0x00D6, "odieresis": 0x00F6,
	"Udieresis": 0x00DC, "udieresis": 0x00FC,
	"Eacute": 0x00C9, "eacute": 0x00E9,
	"Agrave": 0x00C0, "agrave": 0x00E0,
	"ccedilla": 0x00E7, "Ccedilla": 0x00C7,
	"ntilde": 0x00F1, "Ntilde": 0x00D1,
	"f_f_l": 0xFB04, "f_f_i": 0xFB03, "f_f": 0xFB00, "f_i": 0xFB01, "f_l": 0xFB02,
}

// dingbatsNames covers the handful of Zapf Dingbats names this library has
// had occasion to decode; the full Dingbats glyph list is not reproduced.
var dingbatsNames = map[string]rune{
	"a7": 0x271E,
}

var reverseStandardNames = buildReverse()

func buildReverse() map[rune]string {
	m := make(map[rune]string, len(standardNames))
	// Prefer the shorter/lower-case-free spelling when two names map to
	// the same rune (there are none among the entries above, but guard
	// against future additions silently overwriting a better name).
	for name, r := range standardNames {
		if existing, ok := m[r]; !ok || len(name) < len(existing) {
			m[r] = name
		}
	}
	return m
}
