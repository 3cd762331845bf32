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

// Package nametree reads PDF name trees (ISO 32000-1 §7.9.6): dictionaries
// that map sorted [pdf.Name] keys to arbitrary objects, organised either as
// a flat /Names array or as a multi-level tree of /Kids, each with a
// /Limits pair bounding the keys reachable below it.  Name trees back the
// document name dictionary's /Dests, /EmbeddedFiles, /JavaScript and
// similar entries.
package nametree

import (
	"errors"
	"iter"
	"sort"

	pdf "github.com/pdfdom/pdfcore"
)

// ErrKeyNotFound is returned by Lookup when the key is absent from the
// tree.
var ErrKeyNotFound = errors.New("nametree: key not found")

// InMemory is a name tree held entirely in memory, for example one already
// read in full via [Reader.All] or built up by calling code.
type InMemory struct {
	Data map[pdf.Name]pdf.Object
}

var _ pdf.NameTree = (*InMemory)(nil)

// Lookup implements [pdf.NameTree].
func (t *InMemory) Lookup(key pdf.Name) (pdf.Object, error) {
	if t == nil {
		return nil, ErrKeyNotFound
	}
	v, ok := t.Data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return v, nil
}

// All implements [pdf.NameTree], yielding keys in sorted order.
func (t *InMemory) All() iter.Seq2[pdf.Name, pdf.Object] {
	return func(yield func(pdf.Name, pdf.Object) bool) {
		if t == nil {
			return
		}
		keys := make([]pdf.Name, 0, len(t.Data))
		for k := range t.Data {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		for _, k := range keys {
			if !yield(k, t.Data[k]) {
				return
			}
		}
	}
}

// AsPDF renders the tree back into the flat single-level form (a /Names
// array of alternating key/value pairs).  No file is written; this only
// builds the in-memory object graph, for callers that need to embed a tree
// into a larger structure they are themselves constructing.
func (t *InMemory) AsPDF(opt pdf.OutputOptions) pdf.Native {
	arr := make(pdf.Array, 0, 2*len(t.Data))
	for k, v := range t.All() {
		arr = append(arr, k, v)
	}
	return pdf.Dict{"Names": arr}
}

// Reader walks a name tree stored in a PDF file without loading it into
// memory up front.
type Reader struct {
	r    pdf.Getter
	root pdf.Dict
}

// NewReader resolves root (the tree's top-level dictionary, typically the
// value of a name dictionary entry such as /Dests) and returns a Reader
// for it.
func NewReader(r pdf.Getter, root pdf.Object) (*Reader, error) {
	dict, err := pdf.GetDict(r, root)
	if err != nil {
		return nil, err
	}
	return &Reader{r: r, root: dict}, nil
}

// Lookup implements [pdf.NameTree], descending the /Kids hierarchy guided
// by each node's /Limits entry.
func (rd *Reader) Lookup(key pdf.Name) (pdf.Object, error) {
	return lookup(rd.r, rd.root, key)
}

func lookup(r pdf.Getter, node pdf.Dict, key pdf.Name) (pdf.Object, error) {
	if names, err := pdf.GetArray(r, node["Names"]); err == nil && names != nil {
		for i := 0; i+1 < len(names); i += 2 {
			name, err := pdf.GetString(r, names[i])
			if err != nil {
				continue
			}
			if pdf.Name(name) == key {
				return names[i+1], nil
			}
		}
		return nil, ErrKeyNotFound
	}

	kids, err := pdf.GetArray(r, node["Kids"])
	if err != nil {
		return nil, err
	}
	for _, kidObj := range kids {
		kid, err := pdf.GetDict(r, kidObj)
		if err != nil {
			continue
		}
		if !withinLimits(r, kid, key) {
			continue
		}
		return lookup(r, kid, key)
	}
	return nil, ErrKeyNotFound
}

func withinLimits(r pdf.Getter, node pdf.Dict, key pdf.Name) bool {
	limits, err := pdf.GetArray(r, node["Limits"])
	if err != nil || len(limits) != 2 {
		return true // no usable limits: must check this subtree
	}
	lo, err1 := pdf.GetString(r, limits[0])
	hi, err2 := pdf.GetString(r, limits[1])
	if err1 != nil || err2 != nil {
		return true
	}
	return pdf.Name(lo) <= key && key <= pdf.Name(hi)
}

// All implements [pdf.NameTree], performing a depth-first, left-to-right
// walk of the tree so that keys are produced in sorted order.
func (rd *Reader) All() iter.Seq2[pdf.Name, pdf.Object] {
	return func(yield func(pdf.Name, pdf.Object) bool) {
		walk(rd.r, rd.root, yield)
	}
}

func walk(r pdf.Getter, node pdf.Dict, yield func(pdf.Name, pdf.Object) bool) bool {
	if names, err := pdf.GetArray(r, node["Names"]); err == nil && names != nil {
		for i := 0; i+1 < len(names); i += 2 {
			name, err := pdf.GetString(r, names[i])
			if err != nil {
				continue
			}
			if !yield(pdf.Name(name), names[i+1]) {
				return false
			}
		}
		return true
	}

	kids, err := pdf.GetArray(r, node["Kids"])
	if err != nil {
		return true
	}
	for _, kidObj := range kids {
		kid, err := pdf.GetDict(r, kidObj)
		if err != nil {
			continue
		}
		if !walk(r, kid, yield) {
			return false
		}
	}
	return true
}

// AsPDF returns the tree's root dictionary as already stored in the file.
func (rd *Reader) AsPDF(opt pdf.OutputOptions) pdf.Native {
	return rd.root
}

var _ pdf.NameTree = (*Reader)(nil)
