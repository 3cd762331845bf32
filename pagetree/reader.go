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

package pagetree

import (
	pdf "github.com/pdfdom/pdfcore"
)

// Reader gives random access to the pages of a document's page tree by
// numeric index, resolving inherited attributes on the way.
type Reader struct {
	r    pdf.Getter
	root pdf.Dict
}

// NewReader reads the document catalog from r and returns a Reader for its
// page tree.
func NewReader(r pdf.Getter) (*Reader, error) {
	meta := r.GetMeta()
	if meta == nil || meta.Catalog == nil {
		return nil, pdf.Error("pagetree: no document catalog")
	}
	root, err := pdf.GetDict(r, meta.Catalog.Pages)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, pdf.Error("pagetree: missing /Pages root")
	}
	return &Reader{r: r, root: root}, nil
}

// NumPages returns the total number of leaf pages in the tree.
func (rd *Reader) NumPages() (int, error) {
	return countLeaves(rd.r, rd.root)
}

// Get returns the (fully inherited) page dictionary for the zero-based
// page index idx.
func (rd *Reader) Get(idx pdf.Integer) (pdf.Dict, error) {
	if idx < 0 {
		return nil, ErrPageIndexOutOfRange
	}

	var result pdf.Dict
	i := pdf.Integer(0)
	walkLeaves(rd.r, rd.root, inheritable{}, map[pdf.Reference]bool{}, func(leaf pdf.Dict) bool {
		if i == idx {
			result = leaf
			return false
		}
		i++
		return true
	})
	if result == nil {
		return nil, ErrPageIndexOutOfRange
	}
	return result, nil
}
