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

// This file implements the document-level Reader: locating the
// cross-reference information of a file (section 7.5 of ISO 32000-2:2020),
// resolving individual objects (including objects held inside object
// streams, section 7.5.7), and decrypting encrypted files.

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
)

// objectCacheSize is the number of recently-read objects kept in a Reader's
// LRU cache.
const objectCacheSize = 1024

// ReaderOptions controls the behaviour of [NewReader] and [Open].
type ReaderOptions struct {
	// ReadPassword, if non-nil, is called to obtain a password for an
	// encrypted file.  The function is called with the file's ID and the
	// number of the current attempt (starting at 0); it should return the
	// empty string once it has no more passwords to try.
	ReadPassword func(ID []byte, try int) string

	// Logger, if non-nil, receives diagnostic messages about recoverable
	// problems encountered while reading the file (for example, a missing
	// or incorrect /Length falling back to a scan for "endstream").
	Logger *log.Logger
}

// Reader reads the contents of an existing PDF file.
//
// A Reader is safe for concurrent use by multiple goroutines only if the
// underlying io.ReaderAt is.
type Reader struct {
	*MetaInfo

	r    io.ReaderAt
	size int64
	file *os.File

	xref map[uint32]*xRefEntry
	enc  *encryptInfo

	// headerVersion is the version given in the file's "%PDF-X.Y" header
	// line; the effective document version may override this via the
	// catalog's optional /Version entry.
	headerVersion Version

	cache  *lruCache
	logger *log.Logger
}

// Open opens the named file for reading.  The caller is responsible for
// calling [Reader.Close] once the Reader is no longer needed.
func Open(fname string, opt *ReaderOptions) (*Reader, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(f, opt)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.file = f
	return r, nil
}

// NewReader reads a PDF file from r, an io.ReaderAt giving access to the
// full byte content of the file.
func NewReader(r io.ReaderAt, opt *ReaderOptions) (*Reader, error) {
	if opt == nil {
		opt = &ReaderOptions{}
	}

	size, err := getSize(r)
	if err != nil {
		return nil, err
	}

	pdf := &Reader{
		MetaInfo: &MetaInfo{},
		r:        r,
		size:     size,
		xref:     make(map[uint32]*xRefEntry),
		cache:    newCache(objectCacheSize),
		logger:   opt.Logger,
	}

	if err := pdf.readHeaderVersion(); err != nil {
		return nil, err
	}

	trailer := Dict{}
	startPos, err := pdf.findXRef()
	if err != nil {
		return nil, err
	}
	seen := make(map[int64]bool)
	if err := pdf.readXRefSection(startPos, pdf.xref, trailer, seen); err != nil {
		return nil, err
	}
	pdf.Trailer = trailer

	if idArr, ok := trailer["ID"].(Array); ok && len(idArr) >= 1 {
		for _, v := range idArr {
			s, ok := v.(String)
			if !ok {
				break
			}
			pdf.ID = append(pdf.ID, []byte(s))
		}
	}

	if encObj, ok := trailer["Encrypt"]; ok && encObj != nil {
		enc, err := pdf.parseEncryptDict(encObj, opt.ReadPassword)
		if err != nil {
			return nil, err
		}
		pdf.enc = enc
	}

	root, err := Resolve(pdf, trailer["Root"])
	if err != nil {
		return nil, err
	}
	rootDict, ok := root.(Dict)
	if !ok {
		return nil, &MalformedFileError{Err: errors.New("missing or invalid document catalog")}
	}
	catalog := &Catalog{}
	if err := DecodeDict(pdf, catalog, rootDict); err != nil {
		return nil, Wrap(err, "document catalog")
	}
	pdf.Catalog = catalog
	pdf.Version = pdf.headerVersion
	if catalog.Version > pdf.Version {
		pdf.Version = catalog.Version
	}

	return pdf, nil
}

func (r *Reader) readHeaderVersion() error {
	sec := io.NewSectionReader(r.r, 0, r.size)
	sc := newScanner(sec, nil, r.logger)
	v, err := sc.readHeaderVersion()
	if err != nil {
		return err
	}
	r.headerVersion = v
	return nil
}

// Close closes the underlying file, if the Reader was created via [Open].
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// GetMeta implements the [Getter] interface.
func (r *Reader) GetMeta() *MetaInfo {
	return r.MetaInfo
}

// AuthenticateOwner tries to authenticate as the owner of an encrypted
// file, using the password callback given to [NewReader]/[Open].  For
// unencrypted files this is a no-op.
func (r *Reader) AuthenticateOwner() error {
	if r.enc == nil {
		return nil
	}
	_, err := r.enc.sec.GetKey(true)
	return err
}

// Get reads the object with the given reference from the file.
//
// If canObjStm is false and the object is stored inside an object stream,
// an error is returned instead of resolving it: this guards against
// infinite recursion when reading the cross-reference and object streams
// themselves.
func (r *Reader) Get(ref Reference, canObjStm bool) (Native, error) {
	if obj, ok := r.cache.Get(ref); ok {
		return obj, nil
	}

	entry := r.xref[ref.Number()]
	if entry == nil || entry.Free {
		return nil, nil
	}

	var obj Native
	var err error
	fromObjStm := entry.InStream != 0
	if fromObjStm {
		if !canObjStm {
			return nil, &MalformedFileError{
				Err: fmt.Errorf("object %s: unexpected reference to object stream", ref),
			}
		}
		obj, err = r.getFromObjStm(ref, entry)
	} else {
		obj, err = r.getFromFile(ref, entry)
	}
	if err != nil {
		return nil, Wrap(err, "object "+ref.String())
	}

	// Objects held inside an object stream are never themselves encrypted:
	// decryption, if any, was already applied when the container stream's
	// bytes were decoded. Direct objects need their strings decrypted here,
	// and streams need a crypt filter attached so their data is decrypted
	// lazily as it is read.
	if r.enc != nil && !fromObjStm {
		obj, err = decryptObject(r.enc, ref, obj)
		if err != nil {
			return nil, Wrap(err, "object "+ref.String())
		}
	}

	r.cache.Put(ref, obj)
	return obj, nil
}

// decryptObject decrypts all String values reachable from obj (recursing
// into Array and Dict), and attaches a crypt filter to Stream objects so
// that their data is decrypted on read.
func decryptObject(enc *encryptInfo, ref Reference, obj Native) (Native, error) {
	switch x := obj.(type) {
	case String:
		dec, err := enc.DecryptBytes(ref, []byte(x))
		if err != nil {
			return nil, err
		}
		return String(dec), nil
	case Array:
		out := make(Array, len(x))
		for i, elem := range x {
			if native, ok := elem.(Native); ok {
				dec, err := decryptObject(enc, ref, native)
				if err != nil {
					return nil, err
				}
				out[i] = dec
				continue
			}
			out[i] = elem
		}
		return out, nil
	case Dict:
		out := make(Dict, len(x))
		for k, v := range x {
			if native, ok := v.(Native); ok {
				dec, err := decryptObject(enc, ref, native)
				if err != nil {
					return nil, err
				}
				out[k] = dec
				continue
			}
			out[k] = v
		}
		return out, nil
	case *Stream:
		dict, err := decryptObject(enc, ref, x.Dict)
		if err != nil {
			return nil, err
		}
		x.Dict = dict.(Dict)
		x.crypt = &filterCrypt{enc: enc, ref: ref}
		return x, nil
	default:
		return obj, nil
	}
}

func (r *Reader) getFromFile(ref Reference, entry *xRefEntry) (Native, error) {
	sec := io.NewSectionReader(r.r, 0, r.size)
	if _, err := sec.Seek(entry.Pos, io.SeekStart); err != nil {
		return nil, err
	}

	resolveInt := func(obj Object) (Integer, error) {
		return getIntegerNoObjStm(r, obj)
	}
	sc := newScanner(sec, resolveInt, r.logger)

	numTok, err := sc.ReadObject()
	if err != nil {
		return nil, err
	}
	num, ok := numTok.(Integer)
	if !ok || uint32(num) != ref.Number() {
		return nil, &MalformedFileError{Err: fmt.Errorf("object number mismatch: expected %d, got %v", ref.Number(), numTok)}
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

	obj, err := sc.ReadObject()
	if err != nil {
		return nil, err
	}
	native, ok := obj.(Native)
	if !ok {
		return nil, fmt.Errorf("object %s: not a native PDF object", ref)
	}
	return native, nil
}

// getFromObjStm reads an object stored inside an object stream, as
// described in section 7.5.7 of ISO 32000-2:2020.
func (r *Reader) getFromObjStm(ref Reference, entry *xRefEntry) (Native, error) {
	stmObj, err := Resolve(r, entry.InStream)
	if err != nil {
		return nil, err
	}
	stm, ok := stmObj.(*Stream)
	if !ok {
		return nil, fmt.Errorf("object %s: /Type /ObjStm entry is not a stream", entry.InStream)
	}

	n, err := GetInt(r, stm.Dict["N"])
	if err != nil {
		return nil, err
	}
	first, err := GetInt(r, stm.Dict["First"])
	if err != nil {
		return nil, err
	}

	body, err := readAllDecoded(r, stm)
	if err != nil {
		return nil, err
	}

	header := body
	if first < len(body) {
		header = body[:first]
	}
	// a trailing NUL (a whitespace byte per table 1 of ISO 32000-2:2020)
	// terminates the last integer token without relying on EOF handling
	headerBuf := make([]byte, len(header)+1)
	copy(headerBuf, header)
	hdrScanner := newScanner(bytes.NewReader(headerBuf), nil, r.logger)

	var offset = -1
	for i := 0; i < n; i++ {
		numObj, err := hdrScanner.ReadObject()
		if err != nil {
			return nil, err
		}
		offObj, err := hdrScanner.ReadObject()
		if err != nil {
			return nil, err
		}
		num, ok1 := numObj.(Integer)
		off, ok2 := offObj.(Integer)
		if !ok1 || !ok2 {
			return nil, errors.New("invalid object stream header")
		}
		if uint32(num) == ref.Number() {
			offset = first + int(off)
		}
	}
	if offset < 0 || offset > len(body) {
		return nil, fmt.Errorf("object %s: not found in object stream", ref)
	}

	sc := newScanner(newClosedSectionReader(body[offset:]), nil, r.logger)
	obj, err := sc.ReadObject()
	if err != nil {
		return nil, err
	}
	native, ok := obj.(Native)
	if !ok {
		return nil, fmt.Errorf("object %s: not a native PDF object", ref)
	}
	return native, nil
}

func readAllDecoded(r Getter, stm *Stream) ([]byte, error) {
	rc, err := DecodeStream(r, stm, 0)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// newClosedSectionReader adapts an in-memory byte slice to the
// io.ReadSeeker interface expected by newScanner.
func newClosedSectionReader(data []byte) io.ReadSeeker {
	return io.NewSectionReader(bytes.NewReader(data), 0, int64(len(data)))
}

// getSize returns the total size, in bytes, of the data available through
// r.  Most callers pass a *bytes.Reader or *os.File, for which the size can
// be determined directly; the fallback path works for any io.ReaderAt by
// doubling a probe offset until a short read is seen, then narrowing down
// the exact size with a binary search.
func getSize(r io.ReaderAt) (int64, error) {
	if s, ok := r.(interface{ Size() int64 }); ok {
		return s.Size(), nil
	}
	if s, ok := r.(interface{ Stat() (os.FileInfo, error) }); ok {
		fi, err := s.Stat()
		if err != nil {
			return 0, err
		}
		return fi.Size(), nil
	}

	var buf [1]byte
	var lo int64
	hi := int64(1)
	for {
		n, err := r.ReadAt(buf[:], hi-1)
		if n == 1 && err == nil {
			lo = hi
			hi *= 2
			continue
		}
		break
	}

	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		n, err := r.ReadAt(buf[:], mid-1)
		if n == 1 && err == nil {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo, nil
}

// searchBack reads the last min(limit, r.size) bytes of the file and
// returns the offset of the last occurrence of pat within that window, or
// an error if pat is not found.
func (r *Reader) searchBack(pat string, limit int64) (int64, error) {
	n := limit
	if n > r.size {
		n = r.size
	}
	if n <= 0 {
		return 0, errors.New("pattern not found")
	}
	start := r.size - n
	buf := make([]byte, n)
	if _, err := r.r.ReadAt(buf, start); err != nil && err != io.EOF {
		return 0, err
	}

	idx := bytes.LastIndex(buf, []byte(pat))
	if idx < 0 {
		return 0, fmt.Errorf("%q not found", pat)
	}
	return start + int64(idx), nil
}

// lastOccurence returns the byte offset of the last occurrence of pat
// anywhere in the file.
func (r *Reader) lastOccurence(pat string) (int64, error) {
	return r.searchBack(pat, r.size)
}

// findXRef locates the "startxref" keyword near the end of the file and
// returns the byte offset of the cross-reference section that follows it.
func (r *Reader) findXRef() (int64, error) {
	const searchWindow = 1024

	pos, err := r.searchBack("startxref", searchWindow)
	if err != nil {
		return 0, &MalformedFileError{Err: errors.New("missing startxref keyword")}
	}

	sec := io.NewSectionReader(r.r, 0, r.size)
	if _, err := sec.Seek(pos+int64(len("startxref")), io.SeekStart); err != nil {
		return 0, err
	}
	sc := newScanner(sec, nil, r.logger)
	n, err := sc.ReadInteger()
	if err != nil {
		return 0, &MalformedFileError{Err: fmt.Errorf("invalid startxref value: %w", err)}
	}
	return int64(n), nil
}
