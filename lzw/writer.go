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

import "io"

// Writer is an io.WriteCloser that LZW-encodes everything written to it and
// sends the compressed bytes to the wrapped io.Writer.
type Writer struct {
	dst         io.Writer
	earlyChange bool

	table    map[string]int
	nextCode int
	width    int

	cur []byte // the longest table-matched prefix seen so far

	bitBuf  uint32
	bitCnt  uint
	closed  bool
}

// NewWriter returns a Writer that PDF-LZW-encodes its input. earlyChange
// selects the /EarlyChange convention (true is PDF's default).
func NewWriter(dst io.Writer, earlyChange bool) (*Writer, error) {
	w := &Writer{dst: dst, earlyChange: earlyChange}
	w.reset()
	if err := w.emit(clearCode); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Writer) reset() {
	w.table = make(map[string]int)
	w.nextCode = firstCode
	w.width = minWidth
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	for _, b := range p {
		candidate := append(append([]byte(nil), w.cur...), b)
		if w.cur == nil {
			w.cur = []byte{b}
			continue
		}
		if _, ok := w.table[string(candidate)]; ok {
			w.cur = candidate
			continue
		}

		code, err := w.codeFor(w.cur)
		if err != nil {
			return 0, err
		}
		if err := w.emit(code); err != nil {
			return 0, err
		}
		if err := w.addEntry(candidate); err != nil {
			return 0, err
		}
		w.cur = []byte{b}
	}
	return len(p), nil
}

// codeFor returns the table code for seq, which is always either a single
// byte (always present, codes 0-255) or a previously added multi-byte
// entry.
func (w *Writer) codeFor(seq []byte) (int, error) {
	if len(seq) == 1 {
		return int(seq[0]), nil
	}
	return w.table[string(seq)], nil
}

func (w *Writer) addEntry(seq []byte) error {
	if w.nextCode >= maxTableSz {
		// Table is full: reset it and let the decoder know.
		if err := w.emit(clearCode); err != nil {
			return err
		}
		w.reset()
		return nil
	}
	w.table[string(seq)] = w.nextCode
	w.nextCode++
	// the decoder adds each entry one code later than the encoder, so the
	// encoder grows the width one entry after the decoder's threshold
	if w.nextCode == widthThreshold(w.width, w.earlyChange)+1 && w.width < maxWidth {
		w.width++
	}
	return nil
}

// emit packs code into the output bit stream, MSB first, at the writer's
// current code width.
func (w *Writer) emit(code int) error {
	w.bitBuf = w.bitBuf<<uint(w.width) | uint32(code)
	w.bitCnt += uint(w.width)
	for w.bitCnt >= 8 {
		w.bitCnt -= 8
		b := byte(w.bitBuf >> w.bitCnt)
		if _, err := w.dst.Write([]byte{b}); err != nil {
			return err
		}
	}
	w.bitBuf &= (1 << w.bitCnt) - 1
	return nil
}

// Close flushes the final code sequence, the end-of-data code, and any
// partial byte, then closes the underlying writer if it implements
// io.Closer.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if len(w.cur) > 0 {
		code, err := w.codeFor(w.cur)
		if err != nil {
			return err
		}
		if err := w.emit(code); err != nil {
			return err
		}
	}
	if err := w.emit(eodCode); err != nil {
		return err
	}
	if w.bitCnt > 0 {
		b := byte(w.bitBuf << (8 - w.bitCnt))
		if _, err := w.dst.Write([]byte{b}); err != nil {
			return err
		}
		w.bitCnt = 0
	}
	if c, ok := w.dst.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
