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

import (
	"io"
	"strconv"

	pdf "github.com/pdfdom/pdfcore"
)

// Scanner splits a content stream (ISO 32000-1 §7.8.2) into operator/
// operand groups, for callers (such as the content interpreter) that want
// a stream of complete operations rather than individual tokens.
//
// Unlike the decoder used internally by the content-extraction pipeline,
// Scanner reads its whole input up front; it is meant for short streams
// such as a single marked-content group or test fixture, not for driving
// extraction of a full page.
type Scanner struct{}

// NewScanner returns a new Scanner.
func NewScanner() *Scanner {
	return &Scanner{}
}

// Scan tokenizes r and returns an iterator over (operator, operands)
// pairs, in the order they appear in the stream. Operands that are never
// followed by an operator (a trailing, incomplete operation) are dropped.
func (s *Scanner) Scan(r io.Reader) func(yield func(string, []pdf.Object) bool) {
	return func(yield func(string, []pdf.Object) bool) {
		data, err := io.ReadAll(r)
		if err != nil {
			return
		}
		tok := &tokenizer{data: data}

		var args []pdf.Object
		for {
			obj, op, ok := tok.next()
			if !ok {
				return
			}
			if op != "" {
				if !yield(op, args) {
					return
				}
				args = nil
				continue
			}
			args = append(args, obj)
		}
	}
}

// tokenizer turns content-stream bytes into a sequence of either operand
// objects or bare operator keywords.
type tokenizer struct {
	data []byte
	pos  int
}

func isWhitespace(b byte) bool {
	switch b {
	case 0x00, 0x09, 0x0a, 0x0c, 0x0d, 0x20:
		return true
	}
	return false
}

func isDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (t *tokenizer) skipWhitespace() {
	for t.pos < len(t.data) {
		b := t.data[t.pos]
		if b == '%' {
			for t.pos < len(t.data) && t.data[t.pos] != '\n' && t.data[t.pos] != '\r' {
				t.pos++
			}
			continue
		}
		if !isWhitespace(b) {
			return
		}
		t.pos++
	}
}

// next returns either an operand object (op == "") or a bare operator
// keyword (obj == nil, op != ""). ok is false at end of input.
func (t *tokenizer) next() (obj pdf.Object, op string, ok bool) {
	t.skipWhitespace()
	if t.pos >= len(t.data) {
		return nil, "", false
	}

	b := t.data[t.pos]
	switch {
	case b == '/':
		return t.readName(), "", true
	case b == '(':
		return t.readLiteralString(), "", true
	case b == '<':
		if t.pos+1 < len(t.data) && t.data[t.pos+1] == '<' {
			return t.readDict(), "", true
		}
		return t.readHexString(), "", true
	case b == '[':
		return t.readArray(), "", true
	case b == '+' || b == '-' || b == '.' || (b >= '0' && b <= '9'):
		return t.readNumber(), "", true
	default:
		kw := t.readKeyword()
		return nil, kw, true
	}
}

func (t *tokenizer) readKeyword() string {
	start := t.pos
	for t.pos < len(t.data) && !isWhitespace(t.data[t.pos]) && !isDelimiter(t.data[t.pos]) {
		t.pos++
	}
	if t.pos == start {
		// A delimiter we don't otherwise handle (}, >, ]); consume it as a
		// one-byte keyword so the scanner always makes progress.
		t.pos++
	}
	return string(t.data[start:t.pos])
}

func (t *tokenizer) readNumber() pdf.Object {
	start := t.pos
	isReal := false
	if t.data[t.pos] == '+' || t.data[t.pos] == '-' {
		t.pos++
	}
	for t.pos < len(t.data) {
		b := t.data[t.pos]
		if b >= '0' && b <= '9' {
			t.pos++
			continue
		}
		if b == '.' {
			isReal = true
			t.pos++
			continue
		}
		break
	}
	s := string(t.data[start:t.pos])
	if isReal {
		v, _ := strconv.ParseFloat(s, 64)
		return pdf.Real(v)
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		v2, _ := strconv.ParseFloat(s, 64)
		return pdf.Real(v2)
	}
	return pdf.Integer(v)
}

func hexVal(b byte) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10, true
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10, true
	}
	return 0, false
}

func (t *tokenizer) readName() pdf.Object {
	t.pos++ // skip '/'
	var out []byte
	for t.pos < len(t.data) {
		b := t.data[t.pos]
		if isWhitespace(b) || isDelimiter(b) {
			break
		}
		if b == '#' && t.pos+2 < len(t.data) {
			hi, ok1 := hexVal(t.data[t.pos+1])
			lo, ok2 := hexVal(t.data[t.pos+2])
			if ok1 && ok2 {
				out = append(out, byte(hi<<4|lo))
				t.pos += 3
				continue
			}
		}
		out = append(out, b)
		t.pos++
	}
	return pdf.Name(out)
}

func (t *tokenizer) readLiteralString() pdf.Object {
	t.pos++ // skip '('
	var out []byte
	depth := 1
	for t.pos < len(t.data) {
		b := t.data[t.pos]
		switch b {
		case '\\':
			t.pos++
			if t.pos >= len(t.data) {
				break
			}
			e := t.data[t.pos]
			switch e {
			case 'n':
				out = append(out, '\n')
				t.pos++
			case 'r':
				out = append(out, '\r')
				t.pos++
			case 't':
				out = append(out, '\t')
				t.pos++
			case 'b':
				out = append(out, '\b')
				t.pos++
			case 'f':
				out = append(out, '\f')
				t.pos++
			case '(', ')', '\\':
				out = append(out, e)
				t.pos++
			case '\n':
				t.pos++
			case '\r':
				t.pos++
				if t.pos < len(t.data) && t.data[t.pos] == '\n' {
					t.pos++
				}
			default:
				if e >= '0' && e <= '7' {
					v := 0
					n := 0
					for n < 3 && t.pos < len(t.data) && t.data[t.pos] >= '0' && t.data[t.pos] <= '7' {
						v = v*8 + int(t.data[t.pos]-'0')
						t.pos++
						n++
					}
					out = append(out, byte(v))
				} else {
					out = append(out, e)
					t.pos++
				}
			}
		case '(':
			depth++
			out = append(out, b)
			t.pos++
		case ')':
			depth--
			t.pos++
			if depth == 0 {
				return pdf.String(out)
			}
			out = append(out, b)
		default:
			out = append(out, b)
			t.pos++
		}
	}
	return pdf.String(out)
}

func (t *tokenizer) readHexString() pdf.Object {
	t.pos++ // skip '<'
	var digits []byte
	for t.pos < len(t.data) && t.data[t.pos] != '>' {
		b := t.data[t.pos]
		t.pos++
		if isWhitespace(b) {
			continue
		}
		digits = append(digits, b)
	}
	if t.pos < len(t.data) {
		t.pos++ // skip '>'
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, len(digits)/2)
	for i := range out {
		hi, _ := hexVal(digits[2*i])
		lo, _ := hexVal(digits[2*i+1])
		out[i] = byte(hi<<4 | lo)
	}
	return pdf.String(out)
}

func (t *tokenizer) readArray() pdf.Object {
	t.pos++ // skip '['
	var arr pdf.Array
	for {
		t.skipWhitespace()
		if t.pos >= len(t.data) {
			break
		}
		if t.data[t.pos] == ']' {
			t.pos++
			break
		}
		obj, op, ok := t.next()
		if !ok {
			break
		}
		if op != "" {
			continue
		}
		arr = append(arr, obj)
	}
	return arr
}

func (t *tokenizer) readDict() pdf.Object {
	t.pos += 2 // skip '<<'
	dict := pdf.Dict{}
	for {
		t.skipWhitespace()
		if t.pos+1 < len(t.data) && t.data[t.pos] == '>' && t.data[t.pos+1] == '>' {
			t.pos += 2
			break
		}
		if t.pos >= len(t.data) {
			break
		}
		keyObj, op, ok := t.next()
		if !ok {
			break
		}
		key, isName := keyObj.(pdf.Name)
		if op != "" || !isName {
			continue
		}
		t.skipWhitespace()
		valObj, op, ok := t.next()
		if !ok || op != "" {
			break
		}
		dict[key] = valObj
	}
	return dict
}
