/*
 * errors.go, part of pbfev.
 *
 * Copyright 2024 The pbfev authors
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

package pbfev

import (
	"fmt"
	"strings"
)

// CError is the basic error type of the package. Errors can be
// decorated with the names of the functions they pass through.
type CError struct {
	msg      string
	deco     []string
	critical bool
	err      error //wrapped error, if any
}

func newError(msg string, critical bool) *CError {
	return &CError{msg: msg, critical: critical}
}

// Error returns a string with the error message, followed by the
// functions that decorated the error.
func (err *CError) Error() string {
	if len(err.deco) == 0 {
		return err.msg
	}
	return fmt.Sprintf("%s (in %s)", err.msg, strings.Join(err.deco, " <- "))
}

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice.
func (err *CError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Critical returns whether the error is critical or it can be ignored
func (err *CError) Critical() bool { return err.critical }

// Unwrap returns the error wrapped by err, or nil.
func (err *CError) Unwrap() error { return err.err }

// InsufficientGeometryError is returned when a plane can't be fitted to a set of
// points: There are fewer than 3 of them, or they are all collinear or coincident.
type InsufficientGeometryError struct {
	CError
	Points int
}

func newInsufficientGeometryError(msg string, points int) *InsufficientGeometryError {
	return &InsufficientGeometryError{CError: CError{msg: msg, critical: true}, Points: points}
}

// ZeroLengthVectorError is returned when the exit and anchor atoms of a pair
// share the same coordinates.
type ZeroLengthVectorError struct {
	CError
	Pair ExitPair
}

func newZeroLengthVectorError(p ExitPair) *ZeroLengthVectorError {
	msg := fmt.Sprintf("Zero-length exit vector between exit atom %d and anchor atom %d", p.Exit, p.Anchor)
	return &ZeroLengthVectorError{CError: CError{msg: msg, critical: true}, Pair: p}
}

// IndexError is returned when an exit pair references an atom
// that is not present in the conformer.
type IndexError struct {
	CError
	Pair ExitPair
	Len  int
}

func newIndexError(p ExitPair, length int) *IndexError {
	msg := fmt.Sprintf("Exit pair (%d, %d) out of range for a conformer with %d atoms", p.Exit, p.Anchor, length)
	return &IndexError{CError: CError{msg: msg, critical: true}, Pair: p, Len: length}
}

// errDecorate decorates err with the caller's name before returning it, if err
// implements Error. Other errors are wrapped in a new CError.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if err2, ok := err.(Error); ok {
		err2.Decorate(caller)
		return err2
	}
	err3 := &CError{msg: err.Error(), critical: true, err: err}
	err3.Decorate(caller)
	return err3
}
