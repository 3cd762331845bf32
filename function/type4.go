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

package function

import (
	"fmt"
	"math"

	pdf "github.com/pdfdom/pdfcore"
)

// Type4 is a PDF function type 4 (PostScript calculator) function, ISO
// 32000-1 §7.10.5: a restricted PostScript program operating on an operand
// stack, parsed once into a tree of [t4Op]/[t4Block] and then interpreted
// for each Apply call.
type Type4 struct {
	Domain []float64
	Range  []float64

	prog t4Block
}

var _ pdf.Function = (*Type4)(nil)

// NewType4 parses src (the function's PostScript program, including the
// outermost "{ ... }") and returns a ready-to-evaluate function.
func NewType4(domain, rng []float64, src string) (*Type4, error) {
	toks, err := t4Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &t4Parser{toks: toks}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &Type4{Domain: domain, Range: rng, prog: block}, nil
}

// FunctionType implements the [pdf.Function] interface.
func (f *Type4) FunctionType() int { return 4 }

// Shape implements the [pdf.Function] interface.
func (f *Type4) Shape() (m, n int) {
	return len(f.Domain) / 2, len(f.Range) / 2
}

// GetDomain implements the [pdf.Function] interface.
func (f *Type4) GetDomain() []float64 { return f.Domain }

// Apply implements the [pdf.Function] interface.
func (f *Type4) Apply(y []float64, x ...float64) {
	m, n := f.Shape()
	stack := make([]float64, 0, m+n+8)
	for i := 0; i < m; i++ {
		stack = append(stack, clipToDomain(f.Domain, i, x[i]))
	}
	stack = t4Eval(f.prog, stack)

	// Results are the top n stack entries, in order.
	if len(stack) < n {
		pad := make([]float64, n-len(stack))
		stack = append(pad, stack...)
	}
	base := len(stack) - n
	for j := 0; j < n; j++ {
		v := stack[base+j]
		if 2*j+1 < len(f.Range) {
			v = clipToDomain(f.Range, j, v)
		}
		y[j] = v
	}
}

// AsPDF implements the [pdf.Object] interface.
func (f *Type4) AsPDF(opt pdf.OutputOptions) pdf.Native {
	toArray := func(vs []float64) pdf.Array {
		a := make(pdf.Array, len(vs))
		for i, v := range vs {
			a[i] = pdf.Real(v)
		}
		return a
	}
	return pdf.Dict{
		"FunctionType": pdf.Integer(4),
		"Domain":       toArray(f.Domain),
		"Range":        toArray(f.Range),
	}
}

// --- minimal PostScript calculator interpreter ---

type t4Op struct {
	name string
	num  float64
	isIf bool
	then t4Block
	els  t4Block // only set for ifelse
}

type t4Block []t4Op

func t4Tokenize(src string) ([]string, error) {
	var toks []string
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case c == '{' || c == '}':
			toks = append(toks, string(c))
			i++
		default:
			j := i
			for j < len(src) && src[j] != ' ' && src[j] != '\t' && src[j] != '\r' &&
				src[j] != '\n' && src[j] != '{' && src[j] != '}' {
				j++
			}
			toks = append(toks, src[i:j])
			i = j
		}
	}
	return toks, nil
}

type t4Parser struct {
	toks []string
	pos  int
}

func (p *t4Parser) next() (string, bool) {
	if p.pos >= len(p.toks) {
		return "", false
	}
	t := p.toks[p.pos]
	p.pos++
	return t, true
}

func (p *t4Parser) peek() (string, bool) {
	if p.pos >= len(p.toks) {
		return "", false
	}
	return p.toks[p.pos], true
}

// parseBlock parses a single "{ ... }" group (the opening brace must be the
// next token) and returns its contents.
func (p *t4Parser) parseBlock() (t4Block, error) {
	tok, ok := p.next()
	if !ok || tok != "{" {
		return nil, fmt.Errorf("function/type4: expected '{', got %q", tok)
	}

	var block t4Block
	for {
		tok, ok = p.peek()
		if !ok {
			return nil, fmt.Errorf("function/type4: unexpected end of program")
		}
		if tok == "}" {
			p.pos++
			return block, nil
		}
		if tok == "{" {
			ifBlock, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			// Look ahead: either a second block (ifelse) or "if".
			nt, ok := p.peek()
			if ok && nt == "{" {
				elseBlock, err := p.parseBlock()
				if err != nil {
					return nil, err
				}
				kw, ok := p.next()
				if !ok || kw != "ifelse" {
					return nil, fmt.Errorf("function/type4: expected 'ifelse', got %q", kw)
				}
				block = append(block, t4Op{isIf: true, then: ifBlock, els: elseBlock})
			} else {
				kw, ok := p.next()
				if !ok || kw != "if" {
					return nil, fmt.Errorf("function/type4: expected 'if', got %q", kw)
				}
				block = append(block, t4Op{isIf: true, then: ifBlock})
			}
			continue
		}

		p.pos++
		var f float64
		if _, err := fmt.Sscanf(tok, "%g", &f); err == nil && isNumericToken(tok) {
			block = append(block, t4Op{name: "", num: f})
		} else {
			block = append(block, t4Op{name: tok})
		}
	}
}

func isNumericToken(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		if c >= '0' && c <= '9' {
			continue
		}
		if (c == '-' || c == '+' || c == '.') && i < len(s) {
			continue
		}
		return false
	}
	return true
}

func t4Eval(block t4Block, stack []float64) []float64 {
	pop := func() float64 {
		if len(stack) == 0 {
			return 0
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v
	}
	push := func(v float64) { stack = append(stack, v) }
	popBool := func() bool { return pop() != 0 }
	pushBool := func(b bool) {
		if b {
			push(1)
		} else {
			push(0)
		}
	}

	for _, op := range block {
		if op.isIf {
			if popBool() {
				stack = t4Eval(op.then, stack)
			} else if op.els != nil {
				stack = t4Eval(op.els, stack)
			}
			continue
		}
		if op.name == "" {
			push(op.num)
			continue
		}
		switch op.name {
		case "add":
			b, a := pop(), pop()
			push(a + b)
		case "sub":
			b, a := pop(), pop()
			push(a - b)
		case "mul":
			b, a := pop(), pop()
			push(a * b)
		case "div":
			b, a := pop(), pop()
			if b == 0 {
				push(0)
			} else {
				push(a / b)
			}
		case "idiv":
			b, a := pop(), pop()
			if int(b) == 0 {
				push(0)
			} else {
				push(float64(int(a) / int(b)))
			}
		case "mod":
			b, a := pop(), pop()
			if int(b) == 0 {
				push(0)
			} else {
				push(float64(int(a) % int(b)))
			}
		case "neg":
			push(-pop())
		case "abs":
			push(math.Abs(pop()))
		case "sqrt":
			push(math.Sqrt(pop()))
		case "sin":
			push(math.Sin(pop() * math.Pi / 180))
		case "cos":
			push(math.Cos(pop() * math.Pi / 180))
		case "atan":
			b, a := pop(), pop()
			deg := math.Atan2(a, b) * 180 / math.Pi
			if deg < 0 {
				deg += 360
			}
			push(deg)
		case "exp":
			b, a := pop(), pop()
			push(math.Pow(a, b))
		case "ln":
			push(math.Log(pop()))
		case "log":
			push(math.Log10(pop()))
		case "ceiling":
			push(math.Ceil(pop()))
		case "floor":
			push(math.Floor(pop()))
		case "round":
			push(math.Round(pop()))
		case "truncate":
			push(math.Trunc(pop()))
		case "cvi":
			push(float64(int(pop())))
		case "cvr":
			// no-op: the stack already holds float64 values.
		case "dup":
			v := pop()
			push(v)
			push(v)
		case "pop":
			pop()
		case "exch":
			b, a := pop(), pop()
			push(b)
			push(a)
		case "copy":
			n := int(pop())
			if n > 0 && n <= len(stack) {
				stack = append(stack, stack[len(stack)-n:]...)
			}
		case "index":
			n := int(pop())
			if n >= 0 && n < len(stack) {
				push(stack[len(stack)-1-n])
			} else {
				push(0)
			}
		case "roll":
			j := int(pop())
			n := int(pop())
			if n > 0 && n <= len(stack) {
				seg := stack[len(stack)-n:]
				j = ((j % n) + n) % n
				rotated := append(append([]float64{}, seg[n-j:]...), seg[:n-j]...)
				copy(seg, rotated)
			}
		case "eq":
			b, a := pop(), pop()
			pushBool(a == b)
		case "ne":
			b, a := pop(), pop()
			pushBool(a != b)
		case "gt":
			b, a := pop(), pop()
			pushBool(a > b)
		case "ge":
			b, a := pop(), pop()
			pushBool(a >= b)
		case "lt":
			b, a := pop(), pop()
			pushBool(a < b)
		case "le":
			b, a := pop(), pop()
			pushBool(a <= b)
		case "and":
			b, a := pop(), pop()
			pushBool(a != 0 && b != 0)
		case "or":
			b, a := pop(), pop()
			pushBool(a != 0 || b != 0)
		case "not":
			pushBool(pop() == 0)
		case "xor":
			b, a := pop(), pop()
			pushBool((a != 0) != (b != 0))
		case "bitshift":
			shift, a := int(pop()), int(pop())
			if shift >= 0 {
				push(float64(a << uint(shift)))
			} else {
				push(float64(a >> uint(-shift)))
			}
		case "true":
			push(1)
		case "false":
			push(0)
		}
	}
	return stack
}
