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

// Package color resolves PDF color spaces (ISO 32000-1 §8.6) and the colors
// defined within them, for consumers (the content interpreter C9/C10,
// annotation appearances) that only ever read a color, never set one on an
// output device. Device color spaces with a simple component vector
// (DeviceGray/RGB/CMYK, and Pattern colors wrapping them) satisfy [Color]
// directly; the CIE-based spaces CalGray, CalRGB and Lab expose their
// colors' CIE XYZ coordinates and an sRGB approximation, so that a caller
// with no color-management pipeline of its own still gets a displayable
// color. ICCBased spaces are replaced by their alternate (or a device
// space chosen from /N) when decoded.
package color

import (
	"fmt"
	"io"
	"math"

	pdf "github.com/pdfdom/pdfcore"
	"github.com/pdfdom/pdfcore/function"
)

// Family identifies which of the color-space families in ISO 32000-1 §8.6.3
// a [Space] belongs to.
type Family string

// The color space families named in ISO 32000-1 table 62.
const (
	FamilyDeviceGray  Family = "DeviceGray"
	FamilyDeviceRGB   Family = "DeviceRGB"
	FamilyDeviceCMYK  Family = "DeviceCMYK"
	FamilyCalGray     Family = "CalGray"
	FamilyCalRGB      Family = "CalRGB"
	FamilyLab         Family = "Lab"
	FamilyICCBased    Family = "ICCBased"
	FamilyIndexed     Family = "Indexed"
	FamilySeparation  Family = "Separation"
	FamilyDeviceN     Family = "DeviceN"
	FamilyPattern     Family = "Pattern"
)

// Space is a resolved PDF color space: something that knows its own family
// and can validate or supply a default color vector.
type Space interface {
	// Family reports which of the families in ISO 32000-1 table 62 this
	// space belongs to.
	Family() Family

	// NumComponents reports how many component values a color in this
	// space takes (the "n" used by SCN/scn).
	NumComponents() int

	// Default returns this space's initial color, the color every
	// graphics state starts with when CS/cs selects this space (ISO
	// 32000-1 §8.6.3: all components 0, except CMYK's last component
	// and every Separation/DeviceN tint, which start at 1).
	Default() Color
}

// Color is a fully resolved color: a space plus a component vector that is
// valid for it.
type Color interface {
	// ColorSpace returns the space this color was resolved in.
	ColorSpace() Space
}

// Operator returns a color's raw component values, in the order the
// corresponding content-stream color operator (sc/scn/rg/k/...) would list
// them, together with the resource name to cite alongside them (empty for
// the three device spaces, which never need one).
func Operator(c Color) (values []float64, name pdf.Name, err error) {
	switch c := c.(type) {
	case deviceColor:
		return append([]float64(nil), c.values...), "", nil
	case ciColor:
		return append([]float64(nil), c.values...), "", nil
	case indexedColor:
		return []float64{float64(c.index)}, "", nil
	case coloredPatternColor:
		return nil, c.name, nil
	case uncoloredPatternColor:
		return append([]float64(nil), c.underlying...), c.name, nil
	default:
		return nil, "", fmt.Errorf("color: unsupported color type %T", c)
	}
}

// --- device color spaces ---

type deviceSpace struct {
	family Family
	n      int
}

func (s deviceSpace) Family() Family     { return s.family }
func (s deviceSpace) NumComponents() int { return s.n }
func (s deviceSpace) Default() Color {
	vals := make([]float64, s.n)
	if s.family == FamilyDeviceCMYK {
		vals[3] = 1
	}
	return deviceColor{space: s, values: vals}
}

// DeviceGraySpace, DeviceRGBSpace and DeviceCMYKSpace are the three device
// color spaces; every document has them without needing a /ColorSpace
// resource entry.
var (
	DeviceGraySpace Space = deviceSpace{FamilyDeviceGray, 1}
	DeviceRGBSpace  Space = deviceSpace{FamilyDeviceRGB, 3}
	DeviceCMYKSpace Space = deviceSpace{FamilyDeviceCMYK, 4}
)

type deviceColor struct {
	space  deviceSpace
	values []float64
}

func (c deviceColor) ColorSpace() Space { return c.space }

// DeviceGray returns a color in the /DeviceGray color space, as set by the
// `g`/`G` content-stream operators.
func DeviceGray(v float64) Color {
	return deviceColor{space: deviceSpace{FamilyDeviceGray, 1}, values: []float64{v}}
}

// DeviceRGB returns a color in the /DeviceRGB color space, as set by the
// `rg`/`RG` content-stream operators.
func DeviceRGB(r, g, b float64) Color {
	return deviceColor{space: deviceSpace{FamilyDeviceRGB, 3}, values: []float64{r, g, b}}
}

// DeviceCMYK returns a color in the /DeviceCMYK color space, as set by the
// `k`/`K` content-stream operators.
func DeviceCMYK(c, m, y, k float64) Color {
	return deviceColor{space: deviceSpace{FamilyDeviceCMYK, 4}, values: []float64{c, m, y, k}}
}

// --- Indexed ---

type spaceIndexed struct {
	base   Space
	lookup [][]float64 // one base-space component vector per index
}

func (s *spaceIndexed) Family() Family     { return FamilyIndexed }
func (s *spaceIndexed) NumComponents() int { return 1 }
func (s *spaceIndexed) Default() Color     { return indexedColor{space: s, index: 0} }

// Indexed builds an /Indexed color space over base, with one base-space
// component vector per palette entry.
func Indexed(base Space, lookup [][]float64) Space {
	return &spaceIndexed{base: base, lookup: lookup}
}

type indexedColor struct {
	space *spaceIndexed
	index int
}

func (c indexedColor) ColorSpace() Space { return c.space }

// Resolve looks the index up in the palette and returns the corresponding
// color in the base space.
func (c indexedColor) Resolve() (Color, error) {
	if c.index < 0 || c.index >= len(c.space.lookup) {
		return nil, fmt.Errorf("color: index %d out of range for palette of size %d",
			c.index, len(c.space.lookup))
	}
	vals := c.space.lookup[c.index]
	return deviceColor{space: deviceSpace{c.space.base.Family(), len(vals)}, values: vals}, nil
}

// --- Separation / DeviceN ---

type spaceTintTransform struct {
	family    Family
	names     []pdf.Name
	alternate Space
	transform pdf.Function
}

func (s *spaceTintTransform) Family() Family     { return s.family }
func (s *spaceTintTransform) NumComponents() int { return len(s.names) }
func (s *spaceTintTransform) Default() Color {
	vals := make([]float64, len(s.names))
	for i := range vals {
		vals[i] = 1
	}
	return ciColor{space: s, values: vals}
}

// Separation builds a /Separation color space: a single named colorant,
// mapped into alternate via transform.
func Separation(colorant pdf.Name, alternate Space, transform pdf.Function) Space {
	return &spaceTintTransform{family: FamilySeparation, names: []pdf.Name{colorant}, alternate: alternate, transform: transform}
}

// DeviceN builds a /DeviceN color space: several named colorants, jointly
// mapped into alternate via transform.
func DeviceN(colorants []pdf.Name, alternate Space, transform pdf.Function) Space {
	return &spaceTintTransform{family: FamilyDeviceN, names: colorants, alternate: alternate, transform: transform}
}

type ciColor struct {
	space  Space
	values []float64
}

func (c ciColor) ColorSpace() Space { return c.space }

// Resolve evaluates the tint-transform function and returns the
// corresponding color in the alternate space. If no transform function was
// available at decode time, a heuristic fallback is used (spec'd for the
// common "All"/"Black" colorants): gray = 1 - tint for any
// single-component space, whatever its alternate.
func (c ciColor) Resolve() (Color, error) {
	s, ok := c.space.(*spaceTintTransform)
	if !ok {
		return c, nil
	}
	if s.transform == nil {
		if len(c.values) == 1 {
			return DeviceGray(1 - c.values[0]), nil
		}
		return nil, fmt.Errorf("color: no tint transform available for %s", s.family)
	}
	_, n := s.transform.Shape()
	out := make([]float64, n)
	s.transform.Apply(out, c.values...)
	return deviceColor{space: deviceSpace{s.alternate.Family(), n}, values: out}, nil
}

// --- Pattern ---

type spacePatternColored struct{}

func (spacePatternColored) Family() Family     { return FamilyPattern }
func (spacePatternColored) NumComponents() int { return 0 }
func (spacePatternColored) Default() Color     { return coloredPatternColor{} }

type spacePatternUncolored struct{ base Space }

func (s spacePatternUncolored) Family() Family     { return FamilyPattern }
func (s spacePatternUncolored) NumComponents() int { return s.base.NumComponents() }
func (s spacePatternUncolored) Default() Color {
	var underlying []float64
	if dc, ok := s.base.Default().(interface{ components() []float64 }); ok {
		underlying = dc.components()
	}
	return uncoloredPatternColor{underlying: underlying}
}

// PatternColored returns the /Pattern color space used for colored tiling
// and shading patterns (no underlying component color).
func PatternColored() Space { return spacePatternColored{} }

// PatternUncolored returns the /Pattern color space for uncolored tiling
// patterns, whose fill color is taken from base.
func PatternUncolored(base Space) Space { return spacePatternUncolored{base: base} }

type coloredPatternColor struct {
	name pdf.Name
}

func (c coloredPatternColor) ColorSpace() Space { return spacePatternColored{} }

type uncoloredPatternColor struct {
	name       pdf.Name
	underlying []float64
}

func (c uncoloredPatternColor) ColorSpace() Space { return nil }

func (c deviceColor) components() []float64 { return c.values }

// --- resolution from a page's /ColorSpace resource entry ---

// DecodeSpace resolves a color-space object as it appears either directly in
// content (a name naming a device space, or inline in a `CS`/`cs` operand
// array) or as a /ColorSpace resource dictionary entry, per ISO 32000-1
// §8.6 and spec.md's color-space resolution algorithm: ICCBased reduces to
// its /Alternate (or, absent one, to a device space inferred from /N: 1,3,4
// -> Gray/RGB/CMYK); Separation/DeviceN carry their tint transform through
// [function]; Indexed carries its lookup table; CalGray/CalRGB/Lab keep
// their CIE parameters.
func DecodeSpace(r pdf.Getter, obj pdf.Object) (Space, error) {
	resolved, err := pdf.Resolve(r, obj)
	if err != nil {
		return nil, err
	}

	switch v := resolved.(type) {
	case pdf.Name:
		switch v {
		case "DeviceGray", "CalGray", "G":
			return DeviceGraySpace, nil
		case "DeviceRGB", "RGB":
			return DeviceRGBSpace, nil
		case "DeviceCMYK", "CMYK":
			return DeviceCMYKSpace, nil
		case "Pattern":
			return PatternColored(), nil
		default:
			return nil, fmt.Errorf("color: unknown color space name %q", v)
		}

	case pdf.Array:
		if len(v) == 0 {
			return nil, fmt.Errorf("color: empty color space array")
		}
		family, _ := pdf.Resolve(r, v[0])
		familyName, _ := family.(pdf.Name)

		switch familyName {
		case "ICCBased":
			return decodeICCBased(r, v)
		case "CalGray":
			return decodeCalGray(r, v)
		case "CalRGB":
			return decodeCalRGB(r, v)
		case "Lab":
			return decodeLab(r, v)
		case "Indexed":
			return decodeIndexed(r, v)
		case "Separation":
			return decodeSeparation(r, v)
		case "DeviceN":
			return decodeDeviceN(r, v)
		case "Pattern":
			if len(v) < 2 {
				return PatternColored(), nil
			}
			base, err := DecodeSpace(r, v[1])
			if err != nil {
				return nil, err
			}
			return PatternUncolored(base), nil
		default:
			return nil, fmt.Errorf("color: unsupported color space family %q", familyName)
		}

	default:
		return nil, fmt.Errorf("color: cannot decode color space from %T", resolved)
	}
}

func decodeICCBased(r pdf.Getter, arr pdf.Array) (Space, error) {
	if len(arr) < 2 {
		return nil, fmt.Errorf("color: malformed ICCBased color space array")
	}
	stream, err := pdf.GetStream(r, arr[1])
	if err != nil {
		return nil, err
	}
	dict := stream.Dict
	if alt, ok := dict["Alternate"]; ok {
		return DecodeSpace(r, alt)
	}
	n, _ := pdf.GetInteger(r, dict["N"])
	switch n {
	case 1:
		return DeviceGraySpace, nil
	case 3:
		return DeviceRGBSpace, nil
	case 4:
		return DeviceCMYKSpace, nil
	default:
		return nil, fmt.Errorf("color: ICCBased space with unsupported /N %d and no /Alternate", n)
	}
}

func decodeCalGray(r pdf.Getter, arr pdf.Array) (Space, error) {
	dict, err := colorDict(r, arr)
	if err != nil {
		return nil, err
	}
	wp, err := getFloatArray(r, dict["WhitePoint"], 3)
	if err != nil {
		return nil, err
	}
	gamma, _ := pdf.GetNumber(r, dict["Gamma"])
	if gamma == 0 {
		gamma = 1
	}
	return &spaceCalGray{whitePoint: wp, gamma: float64(gamma)}, nil
}

func decodeCalRGB(r pdf.Getter, arr pdf.Array) (Space, error) {
	dict, err := colorDict(r, arr)
	if err != nil {
		return nil, err
	}
	wp, err := getFloatArray(r, dict["WhitePoint"], 3)
	if err != nil {
		return nil, err
	}
	gamma, _ := getFloatArray(r, dict["Gamma"], 3)
	if gamma == nil {
		gamma = []float64{1, 1, 1}
	}
	matrix, _ := getFloatArray(r, dict["Matrix"], 9)
	if matrix == nil {
		matrix = []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	}
	return &spaceCalRGB{whitePoint: wp, gamma: gamma, matrix: matrix}, nil
}

func decodeLab(r pdf.Getter, arr pdf.Array) (Space, error) {
	dict, err := colorDict(r, arr)
	if err != nil {
		return nil, err
	}
	wp, err := getFloatArray(r, dict["WhitePoint"], 3)
	if err != nil {
		return nil, err
	}
	rng, _ := getFloatArray(r, dict["Range"], 4)
	if rng == nil {
		rng = []float64{-100, 100, -100, 100}
	}
	return &spaceLab{whitePoint: wp, aRange: [2]float64{rng[0], rng[1]}, bRange: [2]float64{rng[2], rng[3]}}, nil
}

func decodeIndexed(r pdf.Getter, arr pdf.Array) (Space, error) {
	if len(arr) < 4 {
		return nil, fmt.Errorf("color: malformed Indexed color space array")
	}
	base, err := DecodeSpace(r, arr[1])
	if err != nil {
		return nil, err
	}
	hival, err := pdf.GetInteger(r, arr[2])
	if err != nil {
		return nil, err
	}

	var raw []byte
	switch table := mustResolve(r, arr[3]).(type) {
	case pdf.String:
		raw = []byte(table)
	case *pdf.Stream:
		data, err := pdf.DecodeStream(r, table, 0)
		if err != nil {
			return nil, err
		}
		defer data.Close()
		raw, err = io.ReadAll(data)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("color: Indexed lookup table has unexpected type %T", table)
	}

	n := base.NumComponents()
	count := int(hival) + 1
	lookup := make([][]float64, count)
	for i := 0; i < count; i++ {
		vals := make([]float64, n)
		for j := 0; j < n; j++ {
			pos := i*n + j
			if pos < len(raw) {
				vals[j] = float64(raw[pos]) / 255
			}
		}
		lookup[i] = vals
	}
	return Indexed(base, lookup), nil
}

func decodeSeparation(r pdf.Getter, arr pdf.Array) (Space, error) {
	if len(arr) < 4 {
		return nil, fmt.Errorf("color: malformed Separation color space array")
	}
	name, _ := pdf.GetName(r, arr[1])
	alt, err := DecodeSpace(r, arr[2])
	if err != nil {
		return nil, err
	}
	fn, err := function.Decode(r, arr[3])
	if err != nil {
		// fall back to the heuristic in ciColor.Resolve: keep the space,
		// but with a nil transform.
		fn = nil
	}
	return Separation(name, alt, fn), nil
}

func decodeDeviceN(r pdf.Getter, arr pdf.Array) (Space, error) {
	if len(arr) < 4 {
		return nil, fmt.Errorf("color: malformed DeviceN color space array")
	}
	namesArr, err := pdf.GetArray(r, arr[1])
	if err != nil {
		return nil, err
	}
	names := make([]pdf.Name, len(namesArr))
	for i, n := range namesArr {
		names[i], _ = pdf.GetName(r, n)
	}
	alt, err := DecodeSpace(r, arr[2])
	if err != nil {
		return nil, err
	}
	fn, err := function.Decode(r, arr[3])
	if err != nil {
		fn = nil
	}
	return DeviceN(names, alt, fn), nil
}

func colorDict(r pdf.Getter, arr pdf.Array) (pdf.Dict, error) {
	if len(arr) < 2 {
		return nil, fmt.Errorf("color: malformed color space array")
	}
	return pdf.GetDict(r, arr[1])
}

func getFloatArray(r pdf.Getter, obj pdf.Object, want int) ([]float64, error) {
	if obj == nil {
		return nil, nil
	}
	vals, err := pdf.GetFloatArray(r, obj)
	if err != nil {
		return nil, err
	}
	if want > 0 && len(vals) != want {
		return nil, fmt.Errorf("color: expected %d values, got %d", want, len(vals))
	}
	return vals, nil
}

func mustResolve(r pdf.Getter, obj pdf.Object) pdf.Native {
	v, _ := pdf.Resolve(r, obj)
	return v
}

// clamp restricts x to [lo, hi].
func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
