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

package lzw

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// Reader is an io.ReadCloser that decodes a PDF-LZW-encoded byte stream.
type Reader struct {
	src         *bufio.Reader
	earlyChange bool

	table    [][]byte // indexed by code - firstCode, only for codes >= firstCode
	nextCode int
	width    int

	prev []byte
	eof  bool
	err  error

	pending []byte // decoded bytes not yet returned to the caller

	bitBuf uint32
	bitCnt uint
}

// NewReader returns a Reader that decodes src. earlyChange must match the
// value used when the stream was written (the /EarlyChange decode
// parameter, true by default in PDF).
func NewReader(src io.Reader, earlyChange bool) *Reader {
	r := &Reader{src: bufio.NewReader(src), earlyChange: earlyChange}
	r.reset()
	return r
}

func (r *Reader) reset() {
	r.table = nil
	r.nextCode = firstCode
	r.width = minWidth
	r.prev = nil
}

func (r *Reader) readCode() (int, error) {
	for r.bitCnt < uint(r.width) {
		b, err := r.src.ReadByte()
		if err != nil {
			return 0, err
		}
		r.bitBuf = r.bitBuf<<8 | uint32(b)
		r.bitCnt += 8
	}
	r.bitCnt -= uint(r.width)
	code := int(r.bitBuf>>r.bitCnt) & ((1 << uint(r.width)) - 1)
	return code, nil
}

func (r *Reader) entryFor(code int) ([]byte, bool) {
	if code < 256 {
		return []byte{byte(code)}, true
	}
	idx := code - firstCode
	if idx < 0 || idx >= len(r.table) {
		return nil, false
	}
	return r.table[idx], true
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	for len(r.pending) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		if err := r.decodeOne(); err != nil {
			r.err = err
			if len(r.pending) == 0 {
				return 0, err
			}
			break
		}
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

// decodeOne reads the next code and appends the bytes it decodes to
// r.pending.
func (r *Reader) decodeOne() error {
	code, err := r.readCode()
	if err != nil {
		if err == io.EOF {
			return errors.New("lzw: truncated stream, missing end-of-data code")
		}
		return err
	}

	switch code {
	case clearCode:
		r.reset()
		return nil
	case eodCode:
		return io.EOF
	}

	var entry []byte
	if v, ok := r.entryFor(code); ok {
		entry = v
	} else if code == r.nextCode && r.prev != nil {
		// The classic LZW special case: the encoder has just emitted the
		// code it is about to define.
		entry = append(append([]byte(nil), r.prev...), r.prev[0])
	} else {
		return fmt.Errorf("lzw: invalid code %d", code)
	}

	r.pending = append(r.pending, entry...)

	if r.prev != nil {
		newEntry := append(append([]byte(nil), r.prev...), entry[0])
		if r.nextCode < maxTableSz {
			r.table = append(r.table, newEntry)
			r.nextCode++
			if r.nextCode == widthThreshold(r.width, r.earlyChange) && r.width < maxWidth {
				r.width++
			}
		}
	}
	r.prev = entry
	return nil
}

// Close releases resources held by the reader. The underlying source is
// not closed.
func (r *Reader) Close() error {
	return nil
}
