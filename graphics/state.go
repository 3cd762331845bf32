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

package graphics

import (
	pdf "github.com/pdfdom/pdfcore"
	"github.com/pdfdom/pdfcore/graphics/color"
)

// State holds the PDF graphics state (ISO 32000-1 §8.4) as maintained by a
// content-stream interpreter: the parameters every operator reads or
// mutates, saved and restored by a q/Q stack.
type State struct {
	// CTM is the current transformation matrix, mapping user space to
	// device space.
	CTM Matrix

	// LineWidth, MiterLimit and StrokeAdjustment are stroking parameters
	// (ISO 32000-1 §8.4.3).
	LineWidth        float64
	MiterLimit       float64
	StrokeAdjustment bool

	// OverprintStroke, OverprintFill and OverprintMode control overprint
	// behaviour (ISO 32000-1 §8.6.7).
	OverprintStroke bool
	OverprintFill   bool
	OverprintMode   int

	// BlendMode names the current blend mode (ISO 32000-1 §11.3.5).
	BlendMode pdf.Name

	// SoftMask is the current soft-mask dictionary, or nil for "None" (ISO
	// 32000-1 §11.6.4.3).
	SoftMask pdf.Dict

	// StrokeAlpha and FillAlpha are the constant alpha values used for
	// stroking and non-stroking operations (ISO 32000-1 §11.6.4.2).
	StrokeAlpha float64
	FillAlpha   float64

	// AlphaSourceFlag is the alpha-is-shape flag (ISO 32000-1 §11.6.4.3).
	AlphaSourceFlag bool

	// Font and FontSize are the operands of the most recent Tf operator.
	Font     pdf.Name
	FontSize float64

	// Tc is the character spacing set by the Tc operator.
	Tc float64

	// Tm and Tlm are the text matrix and text line matrix (ISO 32000-1
	// §9.4.2), valid only between BT and ET.
	Tm  Matrix
	Tlm Matrix

	// StrokeColor and FillColor are the current colors for stroking and
	// non-stroking operations (ISO 32000-1 §8.6.3).
	StrokeColor color.Color
	FillColor   color.Color
}

// NewState returns the graphics state in effect at the start of a content
// stream: black fill and stroke color, identity CTM, and the PDF default
// values for every scalar parameter.
func NewState() *State {
	return &State{
		CTM:         IdentityMatrix,
		LineWidth:   1,
		MiterLimit:  10,
		FontSize:    0,
		StrokeAlpha: 1,
		FillAlpha:   1,
		Tm:          IdentityMatrix,
		Tlm:         IdentityMatrix,
		StrokeColor: color.DeviceGray(0),
		FillColor:   color.DeviceGray(0),
	}
}

// Clone returns an independent copy of g, for the q operator to push onto
// the graphics-state stack. The soft-mask dictionary is shared rather than
// copied: it is treated as an immutable handle once installed by gs.
func (g *State) Clone() *State {
	clone := *g
	return &clone
}
