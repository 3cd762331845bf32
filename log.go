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

package pdf

import (
	"io"
	"log/slog"
)

var pkgLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// SetLogger installs the logger used for the "recoverable"/"best-effort"
// tier of the error policy: malformed operands, unknown operators, and
// missing resource references are logged through it and otherwise
// ignored, rather than aborting the surrounding resolve or interpret call.
//
// The default logger discards everything, so a caller who never calls
// SetLogger sees silence, not panics or stderr spam.
func SetLogger(l *slog.Logger) {
	pkgLogger = l
}

// Logger returns the logger installed by SetLogger.
func Logger() *slog.Logger {
	return pkgLogger
}
