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

// Package pagetree provides read access to a PDF document's page tree
// (ISO 32000-1 §7.7.3): the /Pages hierarchy of intermediate node and leaf
// page dictionaries reachable from the document catalog, with the four
// inheritable attributes (/Resources, /MediaBox, /CropBox, /Rotate)
// resolved down from ancestor nodes onto each leaf.
package pagetree

import (
	"errors"

	pdf "github.com/pdfdom/pdfcore"
)

// inheritable holds the four page attributes that a /Pages node may pass
// down to its descendants (table 29 of ISO 32000-1).
type inheritable struct {
	Resources pdf.Object
	MediaBox  pdf.Object
	CropBox   pdf.Object
	Rotate    pdf.Object
}

func (h inheritable) override(node pdf.Dict) inheritable {
	if v, ok := node["Resources"]; ok {
		h.Resources = v
	}
	if v, ok := node["MediaBox"]; ok {
		h.MediaBox = v
	}
	if v, ok := node["CropBox"]; ok {
		h.CropBox = v
	}
	if v, ok := node["Rotate"]; ok {
		h.Rotate = v
	}
	return h
}

func (h inheritable) apply(leaf pdf.Dict) pdf.Dict {
	out := make(pdf.Dict, len(leaf)+4)
	for k, v := range leaf {
		out[k] = v
	}
	if _, ok := out["Resources"]; !ok && h.Resources != nil {
		out["Resources"] = h.Resources
	}
	if _, ok := out["MediaBox"]; !ok && h.MediaBox != nil {
		out["MediaBox"] = h.MediaBox
	}
	if _, ok := out["CropBox"]; !ok && h.CropBox != nil {
		out["CropBox"] = h.CropBox
	}
	if _, ok := out["Rotate"]; !ok && h.Rotate != nil {
		out["Rotate"] = h.Rotate
	}
	return out
}

// ErrPageIndexOutOfRange is returned by [Reader.Get] when the requested
// page index is negative or beyond the last page.
var ErrPageIndexOutOfRange = errors.New("pagetree: page index out of range")

// walkLeaves visits every leaf (page dictionary) of the subtree rooted at
// node in document order, stopping early if visit returns false. seen
// guards against reference cycles between /Pages nodes.
func walkLeaves(r pdf.Getter, node pdf.Dict, h inheritable, seen map[pdf.Reference]bool, visit func(pdf.Dict) bool) bool {
	h = h.override(node)

	kidsObj, hasKids := node["Kids"]
	if !hasKids {
		return visit(h.apply(node))
	}

	kids, err := pdf.GetArray(r, kidsObj)
	if err != nil {
		return true
	}
	for _, kidObj := range kids {
		if ref, ok := kidObj.(pdf.Reference); ok {
			if seen[ref] {
				continue
			}
			seen[ref] = true
		}
		kid, err := pdf.GetDict(r, kidObj)
		if err != nil || kid == nil {
			continue
		}
		if !walkLeaves(r, kid, h, seen, visit) {
			return false
		}
	}
	return true
}

// countLeaves returns the node's /Count entry if present (an intermediate
// node must carry an accurate count), falling back to a full walk for a
// malformed or missing value.
func countLeaves(r pdf.Getter, node pdf.Dict) (int, error) {
	if _, hasKids := node["Kids"]; !hasKids {
		return 1, nil
	}
	if n, err := pdf.GetInteger(r, node["Count"]); err == nil && n > 0 {
		return int(n), nil
	}

	total := 0
	walkLeaves(r, node, inheritable{}, map[pdf.Reference]bool{}, func(pdf.Dict) bool {
		total++
		return true
	})
	return total, nil
}

// ContentStream concatenates the page's /Contents content streams
// (ISO 32000-1 §7.8.2), separating adjacent streams with a newline, and
// skipping entries that fail to resolve. obj is the /Contents entry's raw
// value: a single stream, an array of streams, or null.
func ContentStream(r pdf.Getter, obj pdf.Object) ([]byte, error) {
	resolved, err := pdf.Resolve(r, obj)
	if err != nil {
		return nil, err
	}

	var refs []pdf.Object
	switch v := resolved.(type) {
	case nil:
		return nil, nil
	case pdf.Array:
		refs = v
	default:
		refs = []pdf.Object{obj}
	}

	var out []byte
	for _, ref := range refs {
		stm, err := pdf.GetStream(r, ref)
		if err != nil || stm == nil {
			continue
		}
		body, err := readStream(r, stm)
		if err != nil {
			continue
		}
		if len(out) > 0 && len(body) > 0 {
			out = append(out, '\n')
		}
		out = append(out, body...)
	}
	return out, nil
}

func readStream(r pdf.Getter, stm *pdf.Stream) ([]byte, error) {
	rc, err := pdf.GetStreamReader(r, stm)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	buf := make([]byte, 0, 4096)
	tmp := make([]byte, 4096)
	for {
		n, err := rc.Read(tmp)
		if n > 0 {
			buf = append(buf, tmp[:n]...)
		}
		if err != nil {
			break
		}
	}
	return buf, nil
}
