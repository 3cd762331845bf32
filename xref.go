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

// This file implements parsing of the cross-reference information of a PDF
// file, as described in section 7.5.4 (classic cross-reference tables) and
// section 7.5.8 (cross-reference streams) of ISO 32000-2:2020.

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// xRefEntry describes the location of a single object, as recorded in the
// file's cross-reference information.
type xRefEntry struct {
	// Free is true if the entry marks the object as free (unused).
	Free bool

	// Pos is the byte offset of the object within the file, for objects
	// stored directly in the file body.
	Pos int64

	// Generation is the object's generation number.
	Generation uint16

	// InStream, if non-zero, is the reference of the object stream which
	// contains this object. In this case Pos is unused.
	InStream Reference
}

// maxXRefChainLength limits the number of /Prev links (and hybrid-reference
// /XRefStm links) followed when reading cross-reference information, to
// guard against malformed files with cyclic chains.
const maxXRefChainLength = 100

// readXRefSection reads the cross-reference section (table or stream)
// starting at file offset pos, recursively following /Prev and /XRefStm
// links, and merges the results into xref (entries already present are not
// overwritten, since later sections take priority over earlier ones).
//
// trailer accumulates the keys of the first (most recent) trailer
// dictionary seen; dictionaries from earlier sections only fill in keys not
// already set.
func (r *Reader) readXRefSection(pos int64, xref map[uint32]*xRefEntry, trailer Dict, seen map[int64]bool) error {
	if seen[pos] {
		return nil
	}
	seen[pos] = true
	if len(seen) > maxXRefChainLength {
		return &MalformedFileError{
			Err: errors.New("too many cross-reference sections"),
			Pos: pos,
		}
	}

	sec := io.NewSectionReader(r.r, 0, r.size)
	if _, err := sec.Seek(pos, io.SeekStart); err != nil {
		return err
	}
	sc := newScanner(sec, nil, r.logger)

	b, err := sc.peekByte()
	if err != nil {
		return err
	}

	var dict Dict
	if b == 'x' {
		dict, err = r.readClassicXRefTable(sc, xref)
	} else {
		dict, err = r.readXRefStream(sec, xref)
	}
	if err != nil {
		return err
	}

	for k, v := range dict {
		if _, ok := trailer[k]; !ok {
			trailer[k] = v
		}
	}

	if hybrid, ok := dict["XRefStm"].(Integer); ok {
		if err := r.readXRefSection(int64(hybrid), xref, trailer, seen); err != nil {
			return err
		}
	}
	if prev, ok := dict["Prev"].(Integer); ok {
		if err := r.readXRefSection(int64(prev), xref, trailer, seen); err != nil {
			return err
		}
	}
	return nil
}

// readClassicXRefTable reads a classic, table-based cross-reference section
// starting with the "xref" keyword, and the trailer dictionary that follows
// it.
func (r *Reader) readClassicXRefTable(sc *scanner, xref map[uint32]*xRefEntry) (Dict, error) {
	kw, err := sc.readRegularToken()
	if err != nil {
		return nil, err
	}
	if string(kw) != "xref" {
		return nil, sc.malformed(fmt.Errorf("expected %q, got %q", "xref", kw))
	}

	for {
		if err := sc.SkipWhiteSpace(); err != nil {
			return nil, err
		}
		b, err := sc.peekByte()
		if err != nil {
			return nil, err
		}
		if b == 't' {
			break // "trailer"
		}

		startTok, err := sc.readRegularToken()
		if err != nil {
			return nil, err
		}
		start, err := parseUint(string(startTok))
		if err != nil {
			return nil, sc.malformed(err)
		}
		if err := sc.SkipWhiteSpace(); err != nil {
			return nil, err
		}
		countTok, err := sc.readRegularToken()
		if err != nil {
			return nil, err
		}
		count, err := parseUint(string(countTok))
		if err != nil {
			return nil, sc.malformed(err)
		}

		for i := uint32(0); i < uint32(count); i++ {
			if err := sc.SkipWhiteSpace(); err != nil {
				return nil, err
			}
			var line [20]byte
			if err := sc.readExact(line[:]); err != nil {
				return nil, err
			}
			num := uint32(start) + i
			offs, err := parseUint(string(bytes.TrimSpace(line[0:10])))
			if err != nil {
				return nil, sc.malformed(err)
			}
			gen, err := parseUint(string(bytes.TrimSpace(line[11:16])))
			if err != nil {
				return nil, sc.malformed(err)
			}
			tp := line[17]

			if _, alreadySet := xref[num]; alreadySet {
				continue
			}
			xref[num] = &xRefEntry{
				Free:       tp == 'f',
				Pos:        int64(offs),
				Generation: uint16(gen),
			}
		}
	}

	kw, err = sc.readRegularToken()
	if err != nil {
		return nil, err
	}
	if string(kw) != "trailer" {
		return nil, sc.malformed(fmt.Errorf("expected %q, got %q", "trailer", kw))
	}
	if err := sc.SkipWhiteSpace(); err != nil {
		return nil, err
	}
	obj, err := sc.ReadObject()
	if err != nil {
		return nil, err
	}
	dict, ok := obj.(Dict)
	if !ok {
		return nil, sc.malformed(fmt.Errorf("expected trailer dict, got %T", obj))
	}
	return dict, nil
}

func parseUint(s string) (uint64, error) {
	var n uint64
	if s == "" {
		return 0, errors.New("empty integer")
	}
	for _, c := range []byte(s) {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid digit %q", c)
		}
		n = n*10 + uint64(c-'0')
	}
	return n, nil
}

// readXRefStream reads a cross-reference stream object (PDF 1.5 and later),
// as described in section 7.5.8 of ISO 32000-2:2020.
func (r *Reader) readXRefStream(sec *io.SectionReader, xref map[uint32]*xRefEntry) (Dict, error) {
	sc := newScanner(sec, nil, r.logger)

	if _, err := sc.ReadObject(); err != nil { // object number
		return nil, err
	}
	if _, err := sc.ReadObject(); err != nil { // generation number
		return nil, err
	}
	if err := sc.SkipWhiteSpace(); err != nil {
		return nil, err
	}
	kw, err := sc.readRegularToken()
	if err != nil {
		return nil, err
	}
	if string(kw) != "obj" {
		return nil, sc.malformed(fmt.Errorf("expected %q, got %q", "obj", kw))
	}
	if err := sc.SkipWhiteSpace(); err != nil {
		return nil, err
	}
	obj, err := sc.ReadObject()
	if err != nil {
		return nil, err
	}
	stm, ok := obj.(*Stream)
	if !ok {
		return nil, sc.malformed(fmt.Errorf("expected cross-reference stream, got %T", obj))
	}

	wArr, ok := stm.Dict["W"].(Array)
	if !ok || len(wArr) != 3 {
		return nil, sc.malformed(errors.New("invalid or missing /W in cross-reference stream"))
	}
	var w [3]int
	for i := range w {
		n, ok := wArr[i].(Integer)
		if !ok || n < 0 {
			return nil, sc.malformed(errors.New("invalid /W entry in cross-reference stream"))
		}
		w[i] = int(n)
	}

	var index []int64
	if idxArr, ok := stm.Dict["Index"].(Array); ok {
		for _, v := range idxArr {
			n, ok := v.(Integer)
			if !ok {
				return nil, sc.malformed(errors.New("invalid /Index entry in cross-reference stream"))
			}
			index = append(index, int64(n))
		}
	} else {
		size, _ := stm.Dict["Size"].(Integer)
		index = []int64{0, int64(size)}
	}

	data, err := readXRefStreamData(stm)
	if err != nil {
		return nil, err
	}

	recLen := w[0] + w[1] + w[2]
	pos := 0
	for i := 0; i+1 < len(index); i += 2 {
		start := index[i]
		count := index[i+1]
		for j := int64(0); j < count; j++ {
			if pos+recLen > len(data) {
				return nil, errors.New("truncated cross-reference stream")
			}
			rec := data[pos : pos+recLen]
			pos += recLen

			num := uint32(start + j)
			if _, alreadySet := xref[num]; alreadySet {
				continue
			}

			tp := int64(1)
			if w[0] > 0 {
				tp = beInt(rec[0:w[0]])
			}
			f2 := beInt(rec[w[0] : w[0]+w[1]])
			f3 := beInt(rec[w[0]+w[1] : w[0]+w[1]+w[2]])

			switch tp {
			case 0:
				xref[num] = &xRefEntry{Free: true, Generation: uint16(f3)}
			case 1:
				xref[num] = &xRefEntry{Pos: f2, Generation: uint16(f3)}
			case 2:
				xref[num] = &xRefEntry{InStream: NewReference(uint32(f2), uint16(f3))}
			default:
				return nil, fmt.Errorf("invalid cross-reference entry type %d", tp)
			}
		}
	}

	return stm.Dict, nil
}

// readXRefStreamData decodes the full body of a cross-reference stream.
// Cross-reference streams must not themselves be encrypted or refer to
// objects in object streams, so a plain filter chain suffices here.
func readXRefStreamData(stm *Stream) ([]byte, error) {
	r, err := DecodeStream(nil, stm, 0)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// beInt decodes a big-endian unsigned integer of arbitrary byte length.
// A zero-length slice decodes as 0.
func beInt(b []byte) int64 {
	var n int64
	for _, c := range b {
		n = n<<8 | int64(c)
	}
	return n
}
