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

import "fmt"

// Version represents a PDF version number, as found in the file header
// (and optionally overridden by the document catalog's /Version entry).
type Version int

// The PDF versions supported by this package.
const (
	V1_0 Version = iota
	V1_1
	V1_2
	V1_3
	V1_4
	V1_5
	V1_6
	V1_7
	V2_0

	tooHighVersion
)

var versionNames = []string{
	"1.0", "1.1", "1.2", "1.3", "1.4", "1.5", "1.6", "1.7", "2.0",
}

// ParseVersion parses a PDF version string of the form "1.4" or "2.0".
func ParseVersion(s string) (Version, error) {
	for i, name := range versionNames {
		if name == s {
			return Version(i), nil
		}
	}
	return 0, errVersion
}

// ToString returns the version number in the form used in PDF files,
// e.g. "1.7".
func (v Version) ToString() (string, error) {
	if v < V1_0 || v >= tooHighVersion {
		return "", errVersion
	}
	return versionNames[v], nil
}

// String implements [fmt.Stringer].
func (v Version) String() string {
	s, err := v.ToString()
	if err != nil {
		return fmt.Sprintf("invalid-version(%d)", int(v))
	}
	return s
}
