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

package pdf

import (
	"strings"
	"testing"
)

func TestReaderGoFuzz(t *testing.T) {
	// found by go-fuzz - check that the reader doesn't panic
	cases := []string{
		"%PDF-1.0\n0 0obj<startxref8",
		"%PDF-1.0\n0 0obj(startxref8",
		"%PDF-1.0\n0 0obj<</Length -40>>stream\nstartxref8\n",
		"%PDF-1.0\n0 0obj<</ 0 0%startxref8",
	}
	for _, test := range cases {
		buf := strings.NewReader(test)
		_, _ = NewReader(buf, nil)
	}
}

// classicXRefFixture builds a minimal but complete PDF file using a classic
// (table-based) cross-reference section: object 1 is the document catalog,
// object 2 an (empty) page tree, and object 3 holds a string reached via an
// indirect reference from object 4.
func classicXRefFixture() string {
	header := "%PDF-1.7\n"
	obj1 := "1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n"
	obj2 := "2 0 obj\n<< /Type /Pages /Kids [] /Count 0 >>\nendobj\n"
	obj3 := "3 0 obj\n(hello)\nendobj\n"
	obj4 := "4 0 obj\n<< /Next 3 0 R >>\nendobj\n"

	objs := []string{obj1, obj2, obj3, obj4}
	body := header
	offsets := make([]int, len(objs)+1)
	for i, o := range objs {
		offsets[i+1] = len(body)
		body += o
	}
	xrefPos := len(body)

	xref := "xref\n0 5\n" + "0000000000 65535 f \n"
	for i := 1; i <= len(objs); i++ {
		xref += fmtOffset(offsets[i]) + " 00000 n \n"
	}
	trailer := "trailer\n<< /Size 5 /Root 1 0 R >>\nstartxref\n" +
		itoa(xrefPos) + "\n%%EOF"

	return body + xref + trailer
}

func fmtOffset(n int) string {
	s := itoa(n)
	for len(s) < 10 {
		s = "0" + s
	}
	return s
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

func TestReaderClassicXRefChain(t *testing.T) {
	in := classicXRefFixture()
	r, err := NewReader(strings.NewReader(in), nil)
	if err != nil {
		t.Fatal(err)
	}

	obj, err := r.Get(NewReference(4, 0), true)
	if err != nil {
		t.Fatal(err)
	}
	dict, ok := obj.(Dict)
	if !ok {
		t.Fatalf("expected Dict, got %T", obj)
	}
	next, err := Resolve(r, dict["Next"])
	if err != nil {
		t.Fatal(err)
	}
	s, ok := next.(String)
	if !ok || string(s) != "hello" {
		t.Fatalf("expected String(hello), got %#v", next)
	}
}
