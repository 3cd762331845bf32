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

package function

import (
	"fmt"
	"io"

	pdf "github.com/pdfdom/pdfcore"
)

// Decode reads a PDF function object (a dictionary, for types 2 and 3, or a
// stream, for types 0 and 4) and returns the corresponding [pdf.Function].
// obj may also be an array of functions, one per output component, in which
// case Decode wraps them in a [Multi].
func Decode(r pdf.Getter, obj pdf.Object) (pdf.Function, error) {
	resolved, err := pdf.Resolve(r, obj)
	if err != nil {
		return nil, err
	}

	if arr, ok := resolved.(pdf.Array); ok {
		fns := make([]pdf.Function, len(arr))
		for i, fo := range arr {
			fn, err := Decode(r, fo)
			if err != nil {
				return nil, err
			}
			fns[i] = fn
		}
		return &Multi{Functions: fns}, nil
	}

	var dict pdf.Dict
	var stream *pdf.Stream
	switch v := resolved.(type) {
	case pdf.Dict:
		dict = v
	case *pdf.Stream:
		dict = v.Dict
		stream = v
	default:
		return nil, fmt.Errorf("function: cannot decode function from %T", resolved)
	}

	tp, err := pdf.GetInteger(r, dict["FunctionType"])
	if err != nil {
		return nil, err
	}
	domain, err := pdf.GetFloatArray(r, dict["Domain"])
	if err != nil {
		return nil, err
	}

	switch tp {
	case 0:
		if stream == nil {
			return nil, fmt.Errorf("function: type 0 function must be a stream")
		}
		return decodeType0(r, dict, stream, domain)
	case 2:
		return decodeType2(r, dict, domain)
	case 3:
		return decodeType3(r, dict, domain)
	case 4:
		if stream == nil {
			return nil, fmt.Errorf("function: type 4 function must be a stream")
		}
		return decodeType4(r, dict, stream, domain)
	default:
		return nil, fmt.Errorf("function: unsupported /FunctionType %d", tp)
	}
}

func decodeType0(r pdf.Getter, dict pdf.Dict, stream *pdf.Stream, domain []float64) (pdf.Function, error) {
	rng, err := pdf.GetFloatArray(r, dict["Range"])
	if err != nil {
		return nil, err
	}
	sizeArr, err := pdf.GetArray(r, dict["Size"])
	if err != nil {
		return nil, err
	}
	size := make([]int, len(sizeArr))
	for i, s := range sizeArr {
		n, err := pdf.GetInteger(r, s)
		if err != nil {
			return nil, err
		}
		size[i] = int(n)
	}
	bps, err := pdf.GetInteger(r, dict["BitsPerSample"])
	if err != nil {
		return nil, err
	}
	encode, _ := pdf.GetFloatArray(r, dict["Encode"])
	decode, _ := pdf.GetFloatArray(r, dict["Decode"])

	data, err := pdf.DecodeStream(r, stream, 0)
	if err != nil {
		return nil, err
	}
	defer data.Close()
	raw, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	n := len(rng) / 2
	total := n
	for _, s := range size {
		total *= s
	}
	samples := make([]uint32, total)
	br := &bitReader{data: raw}
	for i := range samples {
		samples[i] = br.read(uint(bps))
	}

	return &Type0{
		Domain:        domain,
		Range:         rng,
		Size:          size,
		BitsPerSample: int(bps),
		Encode:        encode,
		Decode:        decode,
		Samples:       samples,
	}, nil
}

// bitReader reads consecutive big-endian bit fields, as used for PDF sampled
// function data (ISO 32000-1 §7.10.2: "each sample value... is represented
// as... a sequence of BitsPerSample bits, high-order bit first").
type bitReader struct {
	data []byte
	pos  int // bit position
}

func (br *bitReader) read(bits uint) uint32 {
	var v uint32
	for i := uint(0); i < bits; i++ {
		byteIdx := br.pos / 8
		var bit uint32
		if byteIdx < len(br.data) {
			shift := 7 - uint(br.pos%8)
			bit = uint32(br.data[byteIdx]>>shift) & 1
		}
		v = v<<1 | bit
		br.pos++
	}
	return v
}

func decodeType2(r pdf.Getter, dict pdf.Dict, domain []float64) (pdf.Function, error) {
	c0, _ := pdf.GetFloatArray(r, dict["C0"])
	c1, _ := pdf.GetFloatArray(r, dict["C1"])
	n, err := pdf.GetNumber(r, dict["N"])
	if err != nil {
		n = 1
	}
	return &Type2{
		XMin: domain[0], XMax: domain[1],
		C0: c0, C1: c1, N: float64(n),
	}, nil
}

func decodeType3(r pdf.Getter, dict pdf.Dict, domain []float64) (pdf.Function, error) {
	fnArr, err := pdf.GetArray(r, dict["Functions"])
	if err != nil {
		return nil, err
	}
	fns := make([]pdf.Function, len(fnArr))
	for i, fo := range fnArr {
		fn, err := Decode(r, fo)
		if err != nil {
			return nil, err
		}
		fns[i] = fn
	}
	bounds, err := pdf.GetFloatArray(r, dict["Bounds"])
	if err != nil {
		return nil, err
	}
	encode, err := pdf.GetFloatArray(r, dict["Encode"])
	if err != nil {
		return nil, err
	}
	return &Type3{
		XMin: domain[0], XMax: domain[1],
		Functions: fns, Bounds: bounds, Encode: encode,
	}, nil
}

func decodeType4(r pdf.Getter, dict pdf.Dict, stream *pdf.Stream, domain []float64) (pdf.Function, error) {
	rng, err := pdf.GetFloatArray(r, dict["Range"])
	if err != nil {
		return nil, err
	}
	data, err := pdf.DecodeStream(r, stream, 0)
	if err != nil {
		return nil, err
	}
	defer data.Close()
	raw, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}
	return NewType4(domain, rng, string(raw))
}
