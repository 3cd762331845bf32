// github.com/pdfdom/pdfcore - a library for reading and writing PDF files
// Copyright (C) 2023  Jochen Voss <voss@seehuhn.de>
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

package content

import (
	"errors"
	"fmt"
	"io"

	"github.com/pdfdom/pdfcore"
	"github.com/pdfdom/pdfcore/graphics"
	"github.com/pdfdom/pdfcore/graphics/color"
)

// Context is passed to the callback of [ForAllText] for each text-showing
// operation: the page's resource dictionary and the graphics state (in
// particular the text matrix and current font) in effect at that point.
type Context struct {
	*pdf.Resources
	*graphics.State
}

// ForAllText interprets the content stream of the given page and calls cb
// once for every decoded string operand of a Tj or TJ operator. It tracks
// the graphics state set by q/Q, cm, w, M, gs, the color operators, BT/ET,
// Tc, Tf, Td and Tm; path-construction and path-painting operators are
// accepted without drawing anything. Any other operator, including ', ",
// TD, T*, TL, Tw, Tz and Do, is dropped with a warning, so text shown by
// ' and " is not reported.
func ForAllText(r pdf.Getter, pageDict pdf.Object, cb func(*Context, string) error) error {
	page, err := pdf.GetDictTyped(r, pageDict, "Page")
	if err != nil {
		return err
	}

	resourcesDict, err := pdf.GetDict(r, page["Resources"])
	if err != nil {
		return err
	}
	resources := &pdf.Resources{}
	if err := pdf.DecodeDict(r, resources, resourcesDict); err != nil {
		return err
	}

	var stack []*graphics.State
	g := graphics.NewState()

	decoders := make(map[pdf.Name]func(pdf.String) string)
	show := func(s pdf.String) error {
		decoder, ok := decoders[g.Font]
		if !ok {
			decoder, err = makeTextDecoder(r, resources.Font[g.Font])
			if err != nil {
				pdf.Logger().Warn("content: cannot decode font, dropping text",
					"font", g.Font, "error", err)
				decoders[g.Font] = nopDecoder
				decoder = nopDecoder
			} else {
				decoders[g.Font] = decoder
			}
		}
		text := decoder(s)
		if text == "" {
			return nil
		}
		if err := cb(&Context{resources, g}, text); err != nil {
			return &abortError{err}
		}
		return nil
	}

	seq := &operatorSeq{}
	return forAllContentStreamParts(r, page["Contents"], func(r pdf.Getter, part *pdf.Stream) error {
		body, err := pdf.DecodeStream(r, part, 0)
		if err != nil {
			return err
		}
		return seq.forAllCommands(body, func(cmd pdf.Operator, args []pdf.Object) error {
			err := dispatch(r, cmd, args, g, &stack, resources, show)
			if err == nil {
				return nil
			}
			var abort *abortError
			if errors.As(err, &abort) {
				return abort.err
			}
			// Best-effort interpreter scope (ISO 32000-1 §8-§9): a
			// malformed operand count, an unknown operator, or a missing
			// resource reference drops the operation and continues the
			// stream rather than failing the whole page.
			pdf.Logger().Warn("content: dropping operation", "op", string(cmd), "error", err)
			return nil
		})
	})
}

func nopDecoder(pdf.String) string { return "" }

// abortError wraps an error that must propagate out of ForAllText instead
// of being logged and swallowed: errors returned by the caller's own
// callback, which are not part of the content-stream error policy.
type abortError struct{ err error }

func (e *abortError) Error() string { return e.err.Error() }
func (e *abortError) Unwrap() error { return e.err }

// dispatch applies a single content-stream operator to g (ISO 32000-1
// §8-§9 operator tables), using resources to look up named graphics-state
// parameters and property lists.
func dispatch(r pdf.Getter, cmd pdf.Operator, args []pdf.Object, g *graphics.State, stack *[]*graphics.State, resources *pdf.Resources, show func(pdf.String) error) error {
	switch cmd {

	// -- general graphics state --

	case "q":
		*stack = append(*stack, g.Clone())
		return nil
	case "Q":
		if len(*stack) == 0 {
			return errors.New("unexpected operator Q")
		}
		*g = *(*stack)[len(*stack)-1]
		*stack = (*stack)[:len(*stack)-1]
		return nil
	case "cm":
		m, err := matrixArgs(r, args)
		if err != nil {
			return err
		}
		g.CTM = m.Mul(g.CTM)
		return nil
	case "w":
		f, err := realArg(r, args, 0)
		if err != nil {
			return err
		}
		g.LineWidth = f
		return nil
	case "M":
		f, err := realArg(r, args, 0)
		if err != nil {
			return err
		}
		g.MiterLimit = f
		return nil
	case "gs":
		return applyExtGState(r, args, g, resources)

	// -- path construction (tracked by the render-target interpreter, not
	// needed for text extraction; operands are validated and discarded) --

	case "m", "l":
		if len(args) < 2 {
			return errTooFewArgs
		}
		if _, ok1 := getReal(args[0]); !ok1 {
			return fmt.Errorf("%s: unexpected type %T", cmd, args[0])
		}
		if _, ok2 := getReal(args[1]); !ok2 {
			return fmt.Errorf("%s: unexpected type %T", cmd, args[1])
		}
		return nil
	case "c":
		if len(args) < 6 {
			return errTooFewArgs
		}
		for _, a := range args[:6] {
			if _, ok := getReal(a); !ok {
				return fmt.Errorf("c: unexpected type %T", a)
			}
		}
		return nil
	case "h":
		return nil
	case "re":
		if len(args) < 4 {
			return errTooFewArgs
		}
		for _, a := range args[:4] {
			if _, ok := getReal(a); !ok {
				return fmt.Errorf("re: unexpected type %T", a)
			}
		}
		return nil

	// -- path painting and clipping (no render target here, so these are
	// no-ops; a pending clip is implicitly discarded at the next operator) --

	case "S", "s", "f", "f*", "n", "W", "W*":
		return nil

	// -- text objects --

	case "BT":
		g.Tm = graphics.IdentityMatrix
		g.Tlm = graphics.IdentityMatrix
		return nil
	case "ET":
		return nil

	// -- text state --

	case "Tc":
		f, err := realArg(r, args, 0)
		if err != nil {
			return err
		}
		g.Tc = f
		return nil
	case "Tf":
		if len(args) < 2 {
			return errTooFewArgs
		}
		name, ok1 := args[0].(pdf.Name)
		size, ok2 := getReal(args[1])
		if !ok1 || !ok2 {
			return fmt.Errorf("Tf: unexpected type %T %T", args[0], args[1])
		}
		g.Font = name
		g.FontSize = size
		return nil

	// -- text positioning --

	case "Td":
		if len(args) < 2 {
			return errTooFewArgs
		}
		tx, ok1 := getReal(args[0])
		ty, ok2 := getReal(args[1])
		if !ok1 || !ok2 {
			return fmt.Errorf("Td: unexpected type %T %T", args[0], args[1])
		}
		g.Tlm = graphics.Matrix{1, 0, 0, 1, tx, ty}.Mul(g.Tlm)
		g.Tm = g.Tlm
		return nil
	case "Tm":
		m, err := matrixArgs(r, args)
		if err != nil {
			return err
		}
		g.Tm = m
		g.Tlm = m
		return nil

	// -- text showing --

	case "Tj":
		if len(args) < 1 {
			return errTooFewArgs
		}
		s, ok := args[0].(pdf.String)
		if !ok {
			return fmt.Errorf("Tj: unexpected type %T", args[0])
		}
		return show(s)
	case "TJ":
		if len(args) < 1 {
			return errTooFewArgs
		}
		arr, ok := args[0].(pdf.Array)
		if !ok {
			return fmt.Errorf("TJ: unexpected type %T", args[0])
		}
		for _, frag := range arr {
			switch frag := frag.(type) {
			case pdf.String:
				if err := show(frag); err != nil {
					return err
				}
			case pdf.Integer, pdf.Real, pdf.Number:
				// kerning adjustment; the text matrix advance for Tj/TJ is
				// not tracked here since extraction only reports strings.
			default:
				return fmt.Errorf("TJ: unexpected array element type %T", frag)
			}
		}
		return nil

	// -- color --

	case "G":
		gray, err := realArg(r, args, 0)
		if err != nil {
			return err
		}
		g.StrokeColor = color.DeviceGray(gray)
		return nil
	case "g":
		gray, err := realArg(r, args, 0)
		if err != nil {
			return err
		}
		g.FillColor = color.DeviceGray(gray)
		return nil
	case "RG":
		rgb, err := realArgs(args, 3, "RG")
		if err != nil {
			return err
		}
		g.StrokeColor = color.DeviceRGB(rgb[0], rgb[1], rgb[2])
		return nil
	case "rg":
		rgb, err := realArgs(args, 3, "rg")
		if err != nil {
			return err
		}
		g.FillColor = color.DeviceRGB(rgb[0], rgb[1], rgb[2])
		return nil
	case "K":
		cmyk, err := realArgs(args, 4, "K")
		if err != nil {
			return err
		}
		g.StrokeColor = color.DeviceCMYK(cmyk[0], cmyk[1], cmyk[2], cmyk[3])
		return nil
	case "k":
		cmyk, err := realArgs(args, 4, "k")
		if err != nil {
			return err
		}
		g.FillColor = color.DeviceCMYK(cmyk[0], cmyk[1], cmyk[2], cmyk[3])
		return nil

	// -- marked content --

	case "BMC":
		if len(args) < 1 {
			return errTooFewArgs
		}
		if _, ok := args[0].(pdf.Name); !ok {
			return fmt.Errorf("BMC: unexpected type %T", args[0])
		}
		return nil
	case "BDC":
		if len(args) < 2 {
			return errTooFewArgs
		}
		if _, ok := args[0].(pdf.Name); !ok {
			return fmt.Errorf("BDC: unexpected type %T", args[0])
		}
		switch prop := args[1].(type) {
		case pdf.Dict:
			return nil
		case pdf.Name:
			if _, err := pdf.GetDict(r, resources.Properties[prop]); err != nil {
				return fmt.Errorf("BDC: unknown property list %s", prop)
			}
			return nil
		default:
			return fmt.Errorf("BDC: unexpected type %T for property list", prop)
		}
	case "EMC":
		return nil

	default:
		return fmt.Errorf("unknown command %q", string(cmd))
	}
}

func applyExtGState(r pdf.Getter, args []pdf.Object, g *graphics.State, resources *pdf.Resources) error {
	if len(args) < 1 {
		return errTooFewArgs
	}
	name, ok := args[0].(pdf.Name)
	if !ok {
		return fmt.Errorf("gs: unexpected type %T", args[0])
	}

	dict, err := pdf.GetDict(r, resources.ExtGState[name])
	if err != nil {
		return err
	}
	for key, val := range dict {
		switch key {
		case "Type":
			// no state to update
		case "LW":
			lw, err := pdf.GetNumber(r, val)
			if err != nil {
				return err
			}
			g.LineWidth = float64(lw)
		case "OP":
			op, err := pdf.GetBoolean(r, val)
			if err != nil {
				return err
			}
			g.OverprintStroke = bool(op)
			if _, hasLower := dict["op"]; !hasLower {
				g.OverprintFill = bool(op)
			}
		case "op":
			op, err := pdf.GetBoolean(r, val)
			if err != nil {
				return err
			}
			g.OverprintFill = bool(op)
		case "OPM":
			opm, err := pdf.GetInteger(r, val)
			if err != nil {
				return err
			}
			g.OverprintMode = int(opm)
		case "SA":
			sa, err := pdf.GetBoolean(r, val)
			if err != nil {
				return err
			}
			g.StrokeAdjustment = bool(sa)
		case "BM":
			name, err := pdf.GetName(r, val)
			if err != nil {
				return err
			}
			g.BlendMode = name
		case "SMask":
			resolved, err := pdf.Resolve(r, val)
			if err != nil {
				return err
			}
			if resolved == pdf.Name("None") {
				g.SoftMask = nil
			} else if smDict, ok := resolved.(pdf.Dict); ok {
				g.SoftMask = smDict
			}
		case "CA":
			ca, err := pdf.GetNumber(r, val)
			if err != nil {
				return err
			}
			g.StrokeAlpha = float64(ca)
		case "ca":
			ca, err := pdf.GetNumber(r, val)
			if err != nil {
				return err
			}
			g.FillAlpha = float64(ca)
		case "AIS":
			ais, err := pdf.GetBoolean(r, val)
			if err != nil {
				return err
			}
			g.AlphaSourceFlag = bool(ais)
		default:
			// unrecognized ExtGState keys are ignored
		}
	}
	return nil
}

func matrixArgs(r pdf.Getter, args []pdf.Object) (graphics.Matrix, error) {
	var m graphics.Matrix
	if len(args) < 6 {
		return m, errTooFewArgs
	}
	for i := 0; i < 6; i++ {
		f, err := pdf.GetNumber(r, args[i])
		if err != nil {
			return m, err
		}
		m[i] = float64(f)
	}
	return m, nil
}

func realArg(r pdf.Getter, args []pdf.Object, i int) (float64, error) {
	if len(args) <= i {
		return 0, errTooFewArgs
	}
	f, err := pdf.GetNumber(r, args[i])
	return float64(f), err
}

func realArgs(args []pdf.Object, n int, op string) ([]float64, error) {
	if len(args) < n {
		return nil, errTooFewArgs
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, ok := getReal(args[i])
		if !ok {
			return nil, fmt.Errorf("%s: unexpected type %T", op, args[i])
		}
		out[i] = v
	}
	return out, nil
}

// operatorSeq accumulates operands between operator tokens for a single
// content-stream part.
type operatorSeq struct {
	args []pdf.Object
}

func (o *operatorSeq) forAllCommands(stm io.Reader, yield func(name pdf.Operator, args []pdf.Object) error) error {
	// Each part gets its own scanner, but o.args is kept between calls, so
	// operands left at the end of one part carry over to the next part.
	s := NewScanner(stm)
	for {
		obj, err := s.Next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		cmd, ok := obj.(pdf.Operator)
		if !ok {
			o.args = append(o.args, obj)
			continue
		}

		if err := yield(cmd, o.args); err != nil {
			return err
		}
		o.args = o.args[:0]
	}
}

// forAllContentStreamParts calls yield once per stream making up a page's
// (or form XObject's) /Contents entry, which may be a single stream or an
// array of streams (ISO 32000-1 §7.8.2) to be treated as one concatenated
// stream.
func forAllContentStreamParts(r pdf.Getter, ref pdf.Object, yield func(pdf.Getter, *pdf.Stream) error) error {
	contents, err := pdf.Resolve(r, ref)
	if err != nil {
		return err
	}
	switch contents := contents.(type) {
	case *pdf.Stream:
		return yield(r, contents)
	case pdf.Array:
		for _, part := range contents {
			stm, err := pdf.GetStream(r, part)
			if err != nil {
				return err
			}
			if err := yield(r, stm); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unexpected type %T for page contents", contents)
	}
}

func getReal(x pdf.Object) (float64, bool) {
	switch x := x.(type) {
	case pdf.Real:
		return float64(x), true
	case pdf.Integer:
		return float64(x), true
	case pdf.Number:
		return float64(x), true
	default:
		return 0, false
	}
}

var errTooFewArgs = errors.New("not enough arguments")
