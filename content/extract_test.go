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
	"strings"
	"testing"

	"github.com/pdfdom/pdfcore"
)

// fakeGetter is a minimal [pdf.Getter] backed by an in-memory object table.
type fakeGetter struct {
	meta    pdf.MetaInfo
	objects map[pdf.Reference]pdf.Native
}

func newFakeGetter() *fakeGetter {
	g := &fakeGetter{objects: make(map[pdf.Reference]pdf.Native)}
	g.meta.Version = pdf.V1_7
	return g
}

func (g *fakeGetter) GetMeta() *pdf.MetaInfo { return &g.meta }

func (g *fakeGetter) Get(ref pdf.Reference, _ bool) (pdf.Native, error) {
	return g.objects[ref], nil
}

func (g *fakeGetter) add(obj pdf.Native) pdf.Reference {
	ref := pdf.NewReference(uint32(len(g.objects)+1), 0)
	g.objects[ref] = obj
	return ref
}

// TestForAllText builds a one-page document by hand (no PDF writer is
// available in a read-only library) and checks that ForAllText recovers the
// page's text via the font's /ToUnicode CMap.
func TestForAllText(t *testing.T) {
	g := newFakeGetter()

	toUnicode := &pdf.Stream{
		Dict: pdf.Dict{},
		R: strings.NewReader(
			"1 beginbfchar\n<01> <0048>\n<02> <0069>\nendbfchar\n"),
	}
	toUnicodeRef := g.add(toUnicode)

	font := pdf.Dict{
		"Subtype":   pdf.Name("Type1"),
		"ToUnicode": toUnicodeRef,
	}
	fontRef := g.add(font)

	resources := pdf.Dict{"Font": pdf.Dict{"F1": fontRef}}

	contents := &pdf.Stream{
		Dict: pdf.Dict{},
		R:    strings.NewReader("BT /F1 12 Tf 100 700 Td <0102> Tj ET"),
	}
	contentsRef := g.add(contents)

	page := pdf.Dict{
		"Type":      pdf.Name("Page"),
		"Resources": resources,
		"Contents":  contentsRef,
	}
	pageRef := g.add(page)

	var got []string
	err := ForAllText(g, pageRef, func(ctx *Context, s string) error {
		got = append(got, s)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if want := "Hi"; len(got) != 1 || got[0] != want {
		t.Errorf("ForAllText yielded %q, want [%q]", got, want)
	}
}
