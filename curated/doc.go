// This file is part of GopherPVR.
//
// GopherPVR is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherPVR is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherPVR.  If not, see <https://www.gnu.org/licenses/>.

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. This is similar to
// the Errorf() function in the fmt package. It takes a formatting pattern,
// placeholder values and returns an error.
//
// The Is() function can be used to check whether an error was created with a
// specific pattern. The Has() function is similar but checks if a pattern
// occurs somewhere in the error chain.
//
//	e := curated.Errorf("ta parser: unhandled parameter type (%d)", 3)
//	f := curated.Errorf("render: %v", e)
//
//	curated.Is(e, "ta parser: unhandled parameter type (%d)")  // true
//	curated.Has(f, "ta parser: unhandled parameter type (%d)") // true
//	curated.Is(f, "ta parser: unhandled parameter type (%d)")  // false
//
// Sentinel patterns should be stored as exported const strings in the package
// that creates them. For example, ta.ParserError.
//
// The Error() function ensures that the error chain is normalised.
// Specifically, that the chain does not contain duplicate adjacent parts. The
// practical advantage of this is that it alleviates the problem of when and
// how to wrap errors:
//
//	render: render: no backend available
//
// is printed as
//
//	render: no backend available
//
// For the purposes of this package we think of chains as being composed of
// parts separated by the sub-string ': '.
//
// Curated errors also implement Unwrap() so that errors.Is() and errors.As()
// from the standard library can see any error values that were passed as
// placeholder values.
package curated
