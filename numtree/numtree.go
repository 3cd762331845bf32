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

// Package numtree reads PDF number trees (ISO 32000-1 §7.9.7): the integer-
// keyed counterpart of [github.com/pdfdom/pdfcore/nametree], used for
// example by a page's /PieceInfo and by the /Nums entries that back marked
// content or structure-tree page maps.  The on-disk layout mirrors name
// trees exactly, with a /Nums array in place of /Names and Integer keys
// stored directly rather than as strings.
package numtree

import (
	"errors"
	"iter"
	"sort"

	pdf "github.com/pdfdom/pdfcore"
)

// ErrKeyNotFound is returned by Lookup when the key is absent from the
// tree.
var ErrKeyNotFound = errors.New("numtree: key not found")

// InMemory is a number tree held entirely in memory.
type InMemory struct {
	Data map[pdf.Integer]pdf.Object
}

var _ pdf.NumberTree = (*InMemory)(nil)

// Lookup implements [pdf.NumberTree].
func (t *InMemory) Lookup(key pdf.Integer) (pdf.Object, error) {
	if t == nil {
		return nil, ErrKeyNotFound
	}
	v, ok := t.Data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return v, nil
}

// All implements [pdf.NumberTree], yielding keys in ascending order.
func (t *InMemory) All() iter.Seq2[pdf.Integer, pdf.Object] {
	return func(yield func(pdf.Integer, pdf.Object) bool) {
		if t == nil {
			return
		}
		keys := make([]pdf.Integer, 0, len(t.Data))
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

// AsPDF renders the tree back into the flat single-level form (a /Nums
// array of alternating key/value pairs).
func (t *InMemory) AsPDF(opt pdf.OutputOptions) pdf.Native {
	arr := make(pdf.Array, 0, 2*len(t.Data))
	for k, v := range t.All() {
		arr = append(arr, k, v)
	}
	return pdf.Dict{"Nums": arr}
}

// Reader walks a number tree stored in a PDF file without loading it into
// memory up front.
type Reader struct {
	r    pdf.Getter
	root pdf.Dict
}

// NewReader resolves root (the tree's top-level dictionary) and returns a
// Reader for it.
func NewReader(r pdf.Getter, root pdf.Object) (*Reader, error) {
	dict, err := pdf.GetDict(r, root)
	if err != nil {
		return nil, err
	}
	return &Reader{r: r, root: dict}, nil
}

// Lookup implements [pdf.NumberTree].
func (rd *Reader) Lookup(key pdf.Integer) (pdf.Object, error) {
	return lookup(rd.r, rd.root, key)
}

func lookup(r pdf.Getter, node pdf.Dict, key pdf.Integer) (pdf.Object, error) {
	if nums, err := pdf.GetArray(r, node["Nums"]); err == nil && nums != nil {
		for i := 0; i+1 < len(nums); i += 2 {
			n, err := pdf.GetInteger(r, nums[i])
			if err != nil {
				continue
			}
			if n == key {
				return nums[i+1], nil
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

func withinLimits(r pdf.Getter, node pdf.Dict, key pdf.Integer) bool {
	limits, err := pdf.GetArray(r, node["Limits"])
	if err != nil || len(limits) != 2 {
		return true
	}
	lo, err1 := pdf.GetInteger(r, limits[0])
	hi, err2 := pdf.GetInteger(r, limits[1])
	if err1 != nil || err2 != nil {
		return true
	}
	return lo <= key && key <= hi
}

// All implements [pdf.NumberTree], walking the tree depth-first so that
// keys are produced in ascending order.
func (rd *Reader) All() iter.Seq2[pdf.Integer, pdf.Object] {
	return func(yield func(pdf.Integer, pdf.Object) bool) {
		walk(rd.r, rd.root, yield)
	}
}

func walk(r pdf.Getter, node pdf.Dict, yield func(pdf.Integer, pdf.Object) bool) bool {
	if nums, err := pdf.GetArray(r, node["Nums"]); err == nil && nums != nil {
		for i := 0; i+1 < len(nums); i += 2 {
			n, err := pdf.GetInteger(r, nums[i])
			if err != nil {
				continue
			}
			if !yield(n, nums[i+1]) {
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

var _ pdf.NumberTree = (*Reader)(nil)
