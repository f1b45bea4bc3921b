/*
 * errors.go, part of struct-searcher.
 *
 * Copyright 2024 The struct-searcher developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package searcher

// Error is the interface for errors that all packages in this library
// implement. The Decorate method allows to add and retrieve info from the
// error without changing its type or wrapping it around something else.
// The decoration slice should contain a list of functions in the calling
// stack plus, for each function, any relevant information, or nothing. If
// information is to be added to an element of the slice, it should be in
// this format: "FunctionName: Extra info". If passed an empty string,
// Decorate should just return the current value, not add the empty string
// to the slice.
type Error interface {
	Error() string
	Decorate(string) []string
}

// PanicMsg is a message used for panics. It does satisfy the error
// interface, but for recoverable errors use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

// Panic messages for the geometric conversions. These signal a broken
// contract upstream (a cell that is not actually Niggli reduced), not a
// recoverable condition.
const (
	ErrNegativeSqrt  = PanicMsg("struct-searcher: negative square-root argument converting a Niggli cell, the cell is not reduced")
	ErrNotComposable = PanicMsg("struct-searcher: elements and atom counts differ in length")
)
