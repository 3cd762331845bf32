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

package content

import (
	"io"
	"unicode/utf16"

	"github.com/pdfdom/pdfcore"
	"github.com/pdfdom/pdfcore/font/names"
)

// makeTextDecoder builds a function that turns the raw character codes of a
// Tj/TJ string operand into Unicode text, for the simple font referenced by
// fontRef. Composite fonts are treated as two-byte codes, which covers the
// common Identity-H/Identity-V case; anything else is decoded one byte per
// code.
//
// A code is resolved in the order documented for text extraction: the
// font's /ToUnicode CMap, if present; then the glyph name the font's
// /Encoding assigns the code (via its /Differences array), looked up in the
// Adobe Glyph List; and finally, for single-byte simple fonts, the code is
// taken as a Latin-1 code point. Parsing embedded CFF/TrueType/Type1 glyph
// programs themselves is out of scope for this library, so a composite font
// with neither a CMap entry nor a name for a code decodes it to the
// replacement character.
// DecodeFontText is the exported form of makeTextDecoder, for callers (such
// as package extract) that want a single font's text decoder without
// walking a page's content stream.
func DecodeFontText(r pdf.Getter, fontRef pdf.Object) (func(pdf.String) string, error) {
	return makeTextDecoder(r, fontRef)
}

func makeTextDecoder(r pdf.Getter, fontRef pdf.Object) (func(pdf.String) string, error) {
	fontDict, err := pdf.GetDict(r, fontRef)
	if err != nil {
		return nil, err
	}

	twoByte := false
	if subtype, _ := pdf.GetName(r, fontDict["Subtype"]); subtype == "Type0" {
		twoByte = true
	}

	toUnicode, err := decodeToUnicode(r, fontDict["ToUnicode"])
	if err != nil {
		return nil, err
	}

	var byName map[uint32][]rune
	if !twoByte {
		byName, err = decodeDifferences(r, fontDict["Encoding"])
		if err != nil {
			return nil, err
		}
	}

	return func(s pdf.String) string {
		var out []rune
		step := 1
		if twoByte {
			step = 2
		}
		for i := 0; i+step <= len(s); i += step {
			var code uint32
			for _, b := range s[i : i+step] {
				code = code<<8 | uint32(b)
			}
			switch {
			case len(toUnicode[code]) > 0:
				out = append(out, toUnicode[code]...)
			case len(byName[code]) > 0:
				out = append(out, byName[code]...)
			case !twoByte:
				out = append(out, rune(code))
			default:
				out = append(out, unicodeReplacementChar)
			}
		}
		return string(out)
	}, nil
}

const unicodeReplacementChar = '�'

// decodeDifferences reads the /Differences array of a simple font's
// /Encoding entry (ISO 32000-1 §9.6.6) and resolves each named glyph to
// Unicode via the Adobe Glyph List, giving a fallback mapping for codes a
// font's /ToUnicode CMap doesn't cover. /Encoding may also be a bare base
// encoding name (StandardEncoding, WinAnsiEncoding, ...); this library does
// not carry those base tables (see DESIGN.md), so only the /Differences
// overrides are honoured.
func decodeDifferences(r pdf.Getter, encoding pdf.Object) (map[uint32][]rune, error) {
	out := make(map[uint32][]rune)
	resolved, err := pdf.Resolve(r, encoding)
	if err != nil || resolved == nil {
		return out, nil
	}
	dict, ok := resolved.(pdf.Dict)
	if !ok {
		return out, nil
	}
	diffs, err := pdf.GetArray(r, dict["Differences"])
	if err != nil || diffs == nil {
		return out, nil
	}

	var code uint32
	for _, item := range diffs {
		switch v := item.(type) {
		case pdf.Integer:
			code = uint32(v)
		case pdf.Real:
			code = uint32(v)
		case pdf.Name:
			if rs := names.ToUnicode(string(v), false); len(rs) > 0 {
				out[code] = rs
			}
			code++
		}
	}
	return out, nil
}

// decodeToUnicode reads a ToUnicode CMap stream (ISO 32000-1 §9.10.3) and
// returns the character-code-to-Unicode mapping it defines, using the
// content-stream scanner to tokenize the CMap's PostScript-like operator
// syntax. A missing or unreadable CMap yields an empty map, so callers fall
// back to their other mappings rather than failing outright.
func decodeToUnicode(r pdf.Getter, ref pdf.Object) (map[uint32][]rune, error) {
	out := make(map[uint32][]rune)
	if ref == nil {
		return out, nil
	}
	stm, err := pdf.GetStream(r, ref)
	if err != nil || stm == nil {
		return out, nil
	}
	body, err := pdf.DecodeStream(r, stm, 0)
	if err != nil {
		return out, nil
	}
	defer body.Close()

	s := NewScanner(body)
	var pending []pdf.Object
	for {
		obj, err := s.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			break
		}

		op, isOp := obj.(pdf.Operator)
		if !isOp {
			pending = append(pending, obj)
			continue
		}

		switch op {
		case "beginbfchar", "beginbfrange":
			pending = pending[:0]
		case "endbfchar":
			for i := 0; i+1 < len(pending); i += 2 {
				src, ok1 := pending[i].(pdf.String)
				dst, ok2 := pending[i+1].(pdf.String)
				if !ok1 || !ok2 {
					continue
				}
				out[codeOf(src)] = utf16ToRunes(dst)
			}
			pending = pending[:0]
		case "endbfrange":
			for i := 0; i+2 < len(pending); i += 3 {
				lo, ok1 := pending[i].(pdf.String)
				hi, ok2 := pending[i+1].(pdf.String)
				if !ok1 || !ok2 {
					continue
				}
				loCode, hiCode := codeOf(lo), codeOf(hi)
				switch dst := pending[i+2].(type) {
				case pdf.String:
					base := utf16ToRunes(dst)
					for c := loCode; c <= hiCode && c-loCode < 65536; c++ {
						rs := append([]rune(nil), base...)
						if len(rs) > 0 {
							rs[len(rs)-1] += rune(c - loCode)
						}
						out[c] = rs
					}
				case pdf.Array:
					for j, elem := range dst {
						es, ok := elem.(pdf.String)
						if !ok {
							continue
						}
						out[loCode+uint32(j)] = utf16ToRunes(es)
					}
				}
			}
			pending = pending[:0]
		}
	}
	return out, nil
}

func codeOf(s pdf.String) uint32 {
	var v uint32
	for _, b := range s {
		v = v<<8 | uint32(b)
	}
	return v
}

func utf16ToRunes(s pdf.String) []rune {
	if len(s)%2 != 0 {
		return []rune(string(s))
	}
	units := make([]uint16, len(s)/2)
	for i := range units {
		units[i] = uint16(s[2*i])<<8 | uint16(s[2*i+1])
	}
	return utf16.Decode(units)
}
