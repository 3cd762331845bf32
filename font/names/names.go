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

// Package names maps PostScript/PDF glyph names to Unicode, following the
// Adobe Glyph List naming conventions. This is the last fallback a text
// extractor reaches for: a glyph name from a font's /Differences array
// that isn't covered by the font's own /ToUnicode CMap.
package names

import "strings"

// ToUnicode returns the sequence of runes a glyph name stands for, or an
// empty slice if the name isn't recognised.
//
// The name is resolved following section 4 of the Adobe Glyph List
// specification:
//   - a name beginning with "." (such as ".notdef") never resolves;
//   - any suffix starting at the first "." is stripped first;
//   - the remaining name is split on "_" into ligature components, each
//     resolved independently and concatenated;
//   - a component is looked up in the standard glyph list (the Zapf
//     Dingbats list, if dingbats is true) first, then as a "uniXXXX"
//     (one or more groups of 4 uppercase hex digits) or "uXXXXX"/"uXXXXXX"
//     (4 to 6 uppercase hex digits) code point name.
//
// Surrogate code points (as produced by a malformed "uniD801DC0C") are
// rejected, matching Adobe's reference implementation.
func ToUnicode(glyph string, dingbats bool) []rune {
	if glyph == "" || strings.HasPrefix(glyph, ".") {
		return []rune{}
	}
	if i := strings.IndexByte(glyph, '.'); i >= 0 {
		glyph = glyph[:i]
	}

	table := standardNames
	if dingbats {
		table = dingbatsNames
	}

	var out []rune
	for _, part := range strings.Split(glyph, "_") {
		if part == "" {
			continue
		}
		if r, ok := table[part]; ok {
			out = append(out, r)
			continue
		}
		if rs, ok := decodeUniName(part); ok {
			out = append(out, rs...)
		}
	}
	if out == nil {
		out = []rune{}
	}
	return out
}

// FromUnicode returns a glyph name for r, preferring the standard name when
// one is known and falling back to the "uniXXXX"/"uXXXXXX" convention
// otherwise. The result is stable and, restricted to a single call site's
// range of inputs, unique: distinct runes never produce the same name.
func FromUnicode(r rune) string {
	if name, ok := reverseStandardNames[r]; ok {
		return name
	}
	if r <= 0xFFFF {
		return "uni" + hex4(uint32(r))
	}
	return "u" + hexUpper(uint32(r))
}

func decodeUniName(part string) ([]rune, bool) {
	switch {
	case strings.HasPrefix(part, "uni") && len(part) > 3:
		digits := part[3:]
		if len(digits)%4 != 0 {
			return nil, false
		}
		var out []rune
		for i := 0; i < len(digits); i += 4 {
			v, ok := parseHex4(digits[i : i+4])
			if !ok || isSurrogate(v) {
				return nil, false
			}
			out = append(out, rune(v))
		}
		return out, true
	case strings.HasPrefix(part, "u") && len(part) >= 5 && len(part) <= 7:
		digits := part[1:]
		v, ok := parseHexUpper(digits)
		if !ok || isSurrogate(v) {
			return nil, false
		}
		return []rune{rune(v)}, true
	default:
		return nil, false
	}
}

func isSurrogate(v uint32) bool {
	return v >= 0xD800 && v <= 0xDFFF
}

func parseHex4(s string) (uint32, bool) {
	if len(s) != 4 {
		return 0, false
	}
	return parseHexUpper(s)
}

// parseHexUpper accepts only upper-case hex digits, matching the Adobe
// Glyph List naming convention ("uni20ac" is not a valid glyph name).
func parseHexUpper(s string) (uint32, bool) {
	var v uint32
	for _, c := range []byte(s) {
		v <<= 4
		switch {
		case c >= '0' && c <= '9':
			v |= uint32(c - '0')
		case c >= 'A' && c <= 'F':
			v |= uint32(c-'A') + 10
		default:
			return 0, false
		}
	}
	return v, true
}

func hex4(v uint32) string {
	const digits = "0123456789ABCDEF"
	b := make([]byte, 4)
	for i := 3; i >= 0; i-- {
		b[i] = digits[v&0xF]
		v >>= 4
	}
	return string(b)
}

func hexUpper(v uint32) string {
	const digits = "0123456789ABCDEF"
	var b []byte
	for v > 0 {
		b = append([]byte{digits[v&0xF]}, b...)
		v >>= 4
	}
	for len(b) < 5 {
		b = append([]byte{'0'}, b...)
	}
	return string(b)
}
