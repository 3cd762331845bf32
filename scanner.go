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

// This file implements the low-level, object-granularity lexer used to
// read indirect objects (and the objects nested inside them) from a PDF
// file.  It is deliberately independent of [Reader]: it only needs a
// seekable byte source, an (optional) callback to resolve indirect
// references found where an integer is expected (e.g. in a stream's
// /Length entry), and an (optional) logger for recoverable problems.

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
)

// scannerBufSize is the size of the read-ahead buffer used by scanner.
const scannerBufSize = 4096

type characterClass int

const (
	classRegular characterClass = iota
	classSpace
	classDelimiter
)

var classOf [256]characterClass

func init() {
	for _, c := range []byte{0x00, 0x09, 0x0a, 0x0c, 0x0d, 0x20} {
		classOf[c] = classSpace
	}
	for _, c := range []byte("()<>[]{}/%") {
		classOf[c] = classDelimiter
	}
}

// scanner reads PDF objects from a seekable byte stream, one token (or one
// composite object) at a time.
type scanner struct {
	src io.ReadSeeker

	buf     []byte
	bufPos  int
	bufEnd  int
	filePos int64

	// resolveInt resolves an indirect reference found where an integer is
	// expected (for example a stream's /Length entry).  It may be nil, in
	// which case such streams fall back to scanning for "endstream".
	resolveInt func(Object) (Integer, error)

	logger *log.Logger
}

// newScanner creates a scanner reading from r.
func newScanner(r io.ReadSeeker, resolveInt func(Object) (Integer, error), logger *log.Logger) *scanner {
	return &scanner{
		src:        r,
		buf:        make([]byte, scannerBufSize),
		resolveInt: resolveInt,
		logger:     logger,
	}
}

func (s *scanner) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

// refill discards the bytes already consumed from the buffer (s.buf[:s.bufPos])
// and reads the next chunk of data, starting right after them.
func (s *scanner) refill() error {
	s.filePos += int64(s.bufPos)
	s.bufPos = 0

	if _, err := s.src.Seek(s.filePos, io.SeekStart); err != nil {
		return err
	}
	n, err := io.ReadFull(s.src, s.buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return err
	}
	s.bufEnd = n
	return nil
}

type scanMark struct {
	filePos int64
	bufPos  int
}

func (s *scanner) mark() scanMark {
	return scanMark{filePos: s.filePos, bufPos: s.bufPos}
}

// resetTo rewinds the scanner to a position previously obtained from mark.
func (s *scanner) resetTo(m scanMark) error {
	s.filePos = m.filePos + int64(m.bufPos)
	s.bufPos = 0
	return s.refill()
}

func (s *scanner) peekByte() (byte, error) {
	if s.bufPos >= s.bufEnd {
		if err := s.refill(); err != nil {
			return 0, err
		}
		if s.bufEnd == 0 {
			return 0, io.EOF
		}
	}
	return s.buf[s.bufPos], nil
}

func (s *scanner) malformed(err error) error {
	return &MalformedFileError{Err: err, Pos: s.filePos + int64(s.bufPos)}
}

// SkipWhiteSpace advances past whitespace and "%" comments.
func (s *scanner) SkipWhiteSpace() error {
	for {
		b, err := s.peekByte()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if classOf[b] == classSpace {
			s.bufPos++
			continue
		}
		if b == '%' {
			for {
				b, err := s.peekByte()
				if err == io.EOF {
					return nil
				}
				if err != nil {
					return err
				}
				s.bufPos++
				if b == '\n' || b == '\r' {
					break
				}
			}
			continue
		}
		return nil
	}
}

func (s *scanner) readExact(buf []byte) error {
	for i := range buf {
		b, err := s.peekByte()
		if err != nil {
			return err
		}
		buf[i] = b
		s.bufPos++
	}
	return nil
}

func (s *scanner) readRegularToken() ([]byte, error) {
	var buf []byte
	for {
		b, err := s.peekByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if classOf[b] != classRegular {
			break
		}
		buf = append(buf, b)
		s.bufPos++
	}
	return buf, nil
}

func parseNumberToken(tok []byte) (Object, error) {
	s := string(tok)
	if iv, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Integer(iv), nil
	}
	if fv, err := strconv.ParseFloat(s, 64); err == nil {
		return Real(fv), nil
	}
	return nil, fmt.Errorf("invalid number %q", tok)
}

// ReadObject reads the next PDF object from the stream.
func (s *scanner) ReadObject() (Object, error) {
	if err := s.SkipWhiteSpace(); err != nil {
		return nil, err
	}
	b, err := s.peekByte()
	if err != nil {
		return nil, s.malformed(errors.New("unexpected end of input"))
	}

	switch {
	case b == '/':
		s.bufPos++
		return s.readName()
	case b == '(':
		s.bufPos++
		return s.readLiteralString()
	case b == '<':
		s.bufPos++
		b2, err := s.peekByte()
		if err == nil && b2 == '<' {
			s.bufPos++
			return s.readDict()
		}
		return s.readHexString()
	case b == '[':
		s.bufPos++
		return s.readArray()
	case b == '+' || b == '-' || b == '.' || (b >= '0' && b <= '9'):
		return s.readNumberOrReference()
	case classOf[b] == classRegular:
		return s.readKeyword()
	default:
		s.bufPos++
		return nil, s.malformed(fmt.Errorf("unexpected character %q", b))
	}
}

func (s *scanner) readKeyword() (Object, error) {
	tok, err := s.readRegularToken()
	if err != nil {
		return nil, err
	}
	switch string(tok) {
	case "true":
		return Boolean(true), nil
	case "false":
		return Boolean(false), nil
	case "null":
		return nil, nil
	default:
		return nil, s.malformed(fmt.Errorf("unexpected keyword %q", tok))
	}
}

func (s *scanner) readNumberOrReference() (Object, error) {
	tok, err := s.readRegularToken()
	if err != nil {
		return nil, err
	}
	if len(tok) == 0 {
		return nil, s.malformed(errors.New("expected number"))
	}
	obj, err := parseNumberToken(tok)
	if err != nil {
		return nil, s.malformed(err)
	}

	if iv, ok := obj.(Integer); ok && iv >= 0 {
		ref, isRef, err := s.tryReadReference(iv)
		if err != nil {
			return nil, err
		}
		if isRef {
			return ref, nil
		}
	}
	return obj, nil
}

// tryReadReference attempts to parse "G R" following an already-consumed
// non-negative integer "first", and reports whether this succeeded.  On
// failure, the scanner position is restored to just after "first".
func (s *scanner) tryReadReference(first Integer) (Reference, bool, error) {
	mark := s.mark()
	fail := func() (Reference, bool, error) {
		if err := s.resetTo(mark); err != nil {
			return 0, false, err
		}
		return 0, false, nil
	}

	if err := s.SkipWhiteSpace(); err != nil {
		return fail()
	}
	tok, err := s.readRegularToken()
	if err != nil || len(tok) == 0 {
		return fail()
	}
	gen, err := strconv.ParseInt(string(tok), 10, 64)
	if err != nil || gen < 0 || gen > 0xffff {
		return fail()
	}

	if err := s.SkipWhiteSpace(); err != nil {
		return fail()
	}
	b, err := s.peekByte()
	if err != nil || b != 'R' {
		return fail()
	}
	s.bufPos++

	if nb, err := s.peekByte(); err == nil && classOf[nb] == classRegular {
		return fail()
	}

	return NewReference(uint32(first), uint16(gen)), true, nil
}

func (s *scanner) readName() (Object, error) {
	var buf []byte
	for {
		b, err := s.peekByte()
		if err != nil {
			break
		}
		if classOf[b] != classRegular {
			break
		}
		if b == '#' {
			mark := s.mark()
			s.bufPos++
			h1, err1 := s.peekByte()
			if err1 != nil || !isHexDigit(h1) {
				if err := s.resetTo(mark); err != nil {
					return nil, err
				}
				buf = append(buf, '#')
				s.bufPos++
				continue
			}
			s.bufPos++
			h2, err2 := s.peekByte()
			if err2 != nil || !isHexDigit(h2) {
				if err := s.resetTo(mark); err != nil {
					return nil, err
				}
				buf = append(buf, '#')
				s.bufPos++
				continue
			}
			s.bufPos++
			buf = append(buf, byte(hexVal(h1)<<4|hexVal(h2)))
			continue
		}
		buf = append(buf, b)
		s.bufPos++
	}
	return Name(buf), nil
}

func (s *scanner) readLiteralString() (Object, error) {
	var out []byte
	depth := 0
	for {
		b, err := s.peekByte()
		if err != nil {
			return nil, s.malformed(errors.New("unterminated literal string"))
		}
		s.bufPos++
		switch b {
		case '(':
			depth++
			out = append(out, b)
		case ')':
			if depth == 0 {
				return String(out), nil
			}
			depth--
			out = append(out, b)
		case '\\':
			nb, err := s.peekByte()
			if err != nil {
				return String(out), nil
			}
			switch {
			case nb == 'n':
				out = append(out, '\n')
				s.bufPos++
			case nb == 'r':
				out = append(out, '\r')
				s.bufPos++
			case nb == 't':
				out = append(out, '\t')
				s.bufPos++
			case nb == 'b':
				out = append(out, '\b')
				s.bufPos++
			case nb == 'f':
				out = append(out, '\f')
				s.bufPos++
			case nb == '(' || nb == ')' || nb == '\\':
				out = append(out, nb)
				s.bufPos++
			case nb == '\r':
				s.bufPos++
				if b2, err := s.peekByte(); err == nil && b2 == '\n' {
					s.bufPos++
				}
			case nb == '\n':
				s.bufPos++
			case nb >= '0' && nb <= '7':
				val := 0
				digits := 0
				for digits < 3 {
					d, err := s.peekByte()
					if err != nil || d < '0' || d > '7' {
						break
					}
					val = val*8 + int(d-'0')
					s.bufPos++
					digits++
				}
				out = append(out, byte(val))
			default:
				out = append(out, nb)
				s.bufPos++
			}
		default:
			out = append(out, b)
		}
	}
}

func (s *scanner) readHexString() (Object, error) {
	var digits []byte
	for {
		b, err := s.peekByte()
		if err != nil {
			return nil, s.malformed(errors.New("unterminated hex string"))
		}
		s.bufPos++
		if b == '>' {
			break
		}
		if isHexDigit(b) {
			digits = append(digits, b)
		}
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, len(digits)/2)
	for i := range out {
		out[i] = byte(hexVal(digits[2*i])<<4 | hexVal(digits[2*i+1]))
	}
	return String(out), nil
}

func (s *scanner) readArray() (Object, error) {
	arr := Array{}
	for {
		if err := s.SkipWhiteSpace(); err != nil {
			return nil, err
		}
		b, err := s.peekByte()
		if err != nil {
			return nil, s.malformed(errors.New("unterminated array"))
		}
		if b == ']' {
			s.bufPos++
			return arr, nil
		}
		obj, err := s.ReadObject()
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

func (s *scanner) readDict() (Object, error) {
	d := Dict{}
	for {
		if err := s.SkipWhiteSpace(); err != nil {
			return nil, err
		}
		b, err := s.peekByte()
		if err != nil {
			return nil, s.malformed(errors.New("unterminated dictionary"))
		}
		if b == '>' {
			s.bufPos++
			b2, err := s.peekByte()
			if err != nil || b2 != '>' {
				return nil, s.malformed(errors.New("expected '>>'"))
			}
			s.bufPos++
			break
		}
		if b != '/' {
			return nil, s.malformed(fmt.Errorf("expected name or '>>', got %q", b))
		}

		keyObj, err := s.ReadObject()
		if err != nil {
			return nil, err
		}
		key, ok := keyObj.(Name)
		if !ok {
			return nil, s.malformed(errors.New("dictionary key is not a name"))
		}

		val, err := s.ReadObject()
		if err != nil {
			return nil, err
		}
		d[key] = val
	}

	return s.maybeReadStream(d)
}

func (s *scanner) maybeReadStream(d Dict) (Object, error) {
	mark := s.mark()

	if err := s.SkipWhiteSpace(); err != nil {
		return d, nil
	}
	tok, err := s.readRegularToken()
	if err != nil || string(tok) != "stream" {
		if err := s.resetTo(mark); err != nil {
			return nil, err
		}
		return d, nil
	}

	b, err := s.peekByte()
	if err != nil {
		return nil, s.malformed(errors.New("stream keyword not followed by a newline"))
	}
	switch b {
	case '\r':
		s.bufPos++
		if b2, err := s.peekByte(); err == nil && b2 == '\n' {
			s.bufPos++
		}
	case '\n':
		s.bufPos++
	default:
		return nil, s.malformed(errors.New("stream keyword not followed by a newline"))
	}

	length, lerr := s.resolveLength(d["Length"])
	if lerr != nil || length < 0 {
		s.logf("stream: cannot resolve /Length (%v), scanning for endstream", lerr)
		return s.scanStreamByEndKeyword(d)
	}

	data := make([]byte, length)
	if err := s.readExact(data); err != nil {
		s.logf("stream: could not read %d bytes, scanning for endstream", length)
		return s.scanStreamByEndKeyword(d)
	}

	endMark := s.mark()
	if err := s.SkipWhiteSpace(); err == nil {
		tok2, err := s.readRegularToken()
		if err == nil && string(tok2) == "endstream" {
			return &Stream{Dict: d, R: bytes.NewReader(data)}, nil
		}
	}

	s.logf("stream: missing endstream keyword after /Length bytes, scanning for it")
	if err := s.resetTo(endMark); err != nil {
		return nil, err
	}
	return s.scanStreamByEndKeyword(d)
}

func (s *scanner) resolveLength(obj Object) (int64, error) {
	if obj == nil {
		return -1, errors.New("missing /Length")
	}
	if iv, ok := obj.(Integer); ok {
		return int64(iv), nil
	}
	if s.resolveInt == nil {
		return -1, errors.New("cannot resolve indirect /Length")
	}
	iv, err := s.resolveInt(obj)
	if err != nil {
		return -1, err
	}
	return int64(iv), nil
}

func (s *scanner) scanStreamByEndKeyword(d Dict) (Object, error) {
	var data []byte
	marker := []byte("endstream")
	for {
		b, err := s.peekByte()
		if err != nil {
			return nil, s.malformed(errors.New("unterminated stream: endstream not found"))
		}
		data = append(data, b)
		s.bufPos++
		if len(data) >= len(marker) && bytes.Equal(data[len(data)-len(marker):], marker) {
			data = data[:len(data)-len(marker)]
			data = trimTrailingEOL(data)
			return &Stream{Dict: d, R: bytes.NewReader(data)}, nil
		}
	}
}

func trimTrailingEOL(data []byte) []byte {
	if len(data) >= 2 && data[len(data)-2] == '\r' && data[len(data)-1] == '\n' {
		return data[:len(data)-2]
	}
	if len(data) >= 1 && (data[len(data)-1] == '\n' || data[len(data)-1] == '\r') {
		return data[:len(data)-1]
	}
	return data
}

// ReadInteger reads the next token and requires it to be an integer.
func (s *scanner) ReadInteger() (Integer, error) {
	if err := s.SkipWhiteSpace(); err != nil {
		return 0, err
	}
	tok, err := s.readRegularToken()
	if err != nil {
		return 0, err
	}
	if len(tok) == 0 {
		return 0, s.malformed(errors.New("expected integer"))
	}
	iv, err := strconv.ParseInt(string(tok), 10, 64)
	if err != nil {
		return 0, s.malformed(err)
	}
	return Integer(iv), nil
}

// readHeaderVersion reads a PDF file header of the form "%PDF-1.7\n" and
// returns the version found.
func (s *scanner) readHeaderVersion() (Version, error) {
	prefix := make([]byte, 5)
	if err := s.readExact(prefix); err != nil {
		return 0, s.malformed(errors.New("missing PDF header"))
	}
	if string(prefix) != "%PDF-" {
		return 0, s.malformed(errors.New("missing %PDF- header"))
	}

	var verBytes []byte
	for {
		b, err := s.peekByte()
		if err != nil || b == '\n' || b == '\r' {
			break
		}
		verBytes = append(verBytes, b)
		s.bufPos++
	}

	if b, err := s.peekByte(); err == nil {
		switch b {
		case '\r':
			s.bufPos++
			if b2, err := s.peekByte(); err == nil && b2 == '\n' {
				s.bufPos++
			}
		case '\n':
			s.bufPos++
		}
	}

	v, err := ParseVersion(string(verBytes))
	if err != nil {
		return 0, &MalformedFileError{Err: errVersion, Pos: s.filePos + int64(s.bufPos)}
	}
	return v, nil
}
